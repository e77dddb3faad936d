package grid

import (
	"strings"

	"sheetd/cellref"
	"sheetd/eval"
	"sheetd/value"
)

// propagate walks the dependents graph rooted at ref, recomputes every
// formula cell reached in topological order, and reports whether a cycle
// was found. On a cycle, nothing is recomputed: every cell in the walk is
// stamped with a Ref error here, and the caller stamps ref itself.
func (g *Grid) propagate(ref cellref.Ref) ([]cellref.Ref, bool) {
	order, cycleDetected := g.topoOrder(ref)

	if cycleDetected {
		cycleErr := value.FromErr(value.Ref("Circular dependencies detected."))
		for _, r := range order {
			if c, ok := g.cells[r]; ok {
				c.Eval = cycleErr
			}
		}
		return order, true
	}

	for _, r := range order {
		c, ok := g.cells[r]
		if !ok {
			continue
		}
		rest, isFormula := strings.CutPrefix(c.Raw, "=")
		if !isFormula {
			continue
		}
		e, _ := eval.Evaluate(rest, g)
		c.Eval = e
	}
	return order, false
}

// topoOrder performs a three-color (temp/perm) depth-first walk over the
// dependents graph starting at root. Nodes finalize in post-order, and the
// emitted list is that finalization order reversed, so every cell comes
// after the walked cells it reads; the root itself is excluded from the
// emitted list. Unknown refs mid-walk (placeholders never created) are
// treated as sinks.
func (g *Grid) topoOrder(root cellref.Ref) ([]cellref.Ref, bool) {
	temp := make(map[cellref.Ref]struct{})
	perm := make(map[cellref.Ref]struct{})
	var order []cellref.Ref
	cycleDetected := false

	var visit func(ref cellref.Ref)
	visit = func(ref cellref.Ref) {
		if _, done := perm[ref]; done {
			return
		}
		if _, onStack := temp[ref]; onStack {
			cycleDetected = true
			return
		}
		temp[ref] = struct{}{}

		c, ok := g.cells[ref]
		if !ok {
			delete(temp, ref)
			perm[ref] = struct{}{}
			order = append(order, ref)
			return
		}

		for dep := range c.Dependents {
			visit(dep)
		}

		delete(temp, ref)
		perm[ref] = struct{}{}
		if ref != root {
			order = append(order, ref)
		}
	}

	visit(root)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, cycleDetected
}
