// Package grid holds the cell store and dependency graph for one session.
// A Grid is owned exclusively by a single session; nothing here
// synchronizes access, because nothing shares a Grid across goroutines.
package grid

import (
	"strings"

	"sheetd/cellref"
	"sheetd/eval"
	"sheetd/value"
)

// Cell is one stored spreadsheet cell: its raw text, its last computed
// value, and the precedent/dependent edges that value was built from.
type Cell struct {
	Ref        cellref.Ref
	Raw        string
	Eval       value.Eval
	Precedents map[cellref.Ref]struct{}
	Dependents map[cellref.Ref]struct{}
}

func newCell(ref cellref.Ref) *Cell {
	return &Cell{
		Ref:        ref,
		Eval:       value.Unset(),
		Precedents: make(map[cellref.Ref]struct{}),
		Dependents: make(map[cellref.Ref]struct{}),
	}
}

// Grid is the per-session cell store.
type Grid struct {
	cells map[cellref.Ref]*Cell
}

func New() *Grid {
	return &Grid{cells: make(map[cellref.Ref]*Cell)}
}

// Lookup implements eval.Grid: it returns a cell's last computed value.
func (g *Grid) Lookup(ref cellref.Ref) (value.Eval, bool) {
	c, ok := g.cells[ref]
	if !ok {
		return value.Eval{}, false
	}
	return c.Eval, true
}

// GetCell returns the stored cell at ref, or false if none exists.
func (g *Grid) GetCell(ref cellref.Ref) (Cell, bool) {
	c, ok := g.cells[ref]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// QuickEval evaluates raw against the current grid without creating cells
// or touching any dependency edge.
func (g *Grid) QuickEval(raw string) value.Eval {
	return rawToEval(raw, g)
}

func rawToEval(raw string, grid eval.Grid) value.Eval {
	if !strings.HasPrefix(raw, "=") {
		return value.FromLiteral(value.String(raw))
	}
	e, _ := eval.Evaluate(raw[1:], grid)
	return e
}

// UpdateCell sets ref's raw text, recomputes its value, repairs the
// dependency graph, and propagates the change outward. It returns ref
// followed by the propagated cells, or nil when raw is unchanged or when an
// existing cell's new value equals its old one (its raw is still stored).
func (g *Grid) UpdateCell(ref cellref.Ref, raw string) []cellref.Ref {
	existing, exists := g.cells[ref]
	if exists && existing.Raw == raw {
		return nil
	}

	var newEval value.Eval
	var newPrecs map[cellref.Ref]struct{}
	if !strings.HasPrefix(raw, "=") {
		newEval = value.FromLiteral(value.String(raw))
		newPrecs = make(map[cellref.Ref]struct{})
	} else {
		newEval, newPrecs = eval.Evaluate(raw[1:], g)
	}

	if !exists {
		g.createCell(ref, raw, newEval, newPrecs)
		return []cellref.Ref{ref}
	}
	return g.updateExistingCell(ref, raw, newEval, newPrecs)
}

func (g *Grid) createCell(ref cellref.Ref, raw string, e value.Eval, precs map[cellref.Ref]struct{}) {
	for p := range precs {
		g.ensureCell(p).Dependents[ref] = struct{}{}
	}
	c := newCell(ref)
	c.Raw = raw
	c.Eval = e
	c.Precedents = precs
	g.cells[ref] = c
}

func (g *Grid) updateExistingCell(ref cellref.Ref, raw string, newEval value.Eval, newPrecs map[cellref.Ref]struct{}) []cellref.Ref {
	c := g.cells[ref]
	c.Raw = raw
	oldPrecs := c.Precedents
	oldEval := c.Eval

	for p := range oldPrecs {
		if _, stillPrec := newPrecs[p]; !stillPrec {
			if dep, ok := g.cells[p]; ok {
				delete(dep.Dependents, ref)
			}
		}
	}
	for p := range newPrecs {
		if _, wasPrec := oldPrecs[p]; !wasPrec {
			g.ensureCell(p).Dependents[ref] = struct{}{}
		}
	}
	c.Precedents = newPrecs

	if newEval.Equal(oldEval) {
		return nil
	}
	c.Eval = newEval

	order, cycleDetected := g.propagate(ref)
	if cycleDetected {
		c.Eval = value.FromErr(value.Ref("Circular dependencies detected."))
	}
	return append([]cellref.Ref{ref}, order...)
}

// ensureCell returns the cell at ref, creating an empty placeholder if one
// does not exist yet, used when a precedent or dependent edge needs an
// endpoint that hasn't been written to directly.
func (g *Grid) ensureCell(ref cellref.Ref) *Cell {
	if c, ok := g.cells[ref]; ok {
		return c
	}
	c := newCell(ref)
	g.cells[ref] = c
	return c
}
