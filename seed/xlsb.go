// Package seed reads the first worksheet of an .xlsb workbook into a flat
// list of (CellRef, raw) pairs suitable for replaying into any grid.Grid.
package seed

import (
	"fmt"
	"strconv"

	xlsb "github.com/TsubasaBE/go-xlsb"

	"sheetd/cellref"
)

// Cell is one seeded (ref, raw) pair, ready for grid.Grid.UpdateCell.
type Cell struct {
	Ref cellref.Ref
	Raw string
}

// LoadXLSB opens path and reads every non-blank cell of its first
// worksheet. Numeric cells are rendered with strconv.FormatFloat, string
// cells pass through verbatim, and boolean cells become "true"/"false".
// .xlsb stores only formulas' cached results, so formula text is never
// produced here; a string cell whose text begins with "=" still passes
// through verbatim.
func LoadXLSB(path string) ([]Cell, error) {
	wb, err := xlsb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%q has no worksheets", path)
	}
	ws, err := wb.Sheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var cells []Cell
	for row := range ws.Rows(true) {
		for _, c := range row {
			if c.V == nil {
				continue
			}
			cells = append(cells, Cell{
				Ref: cellref.New(c.R, c.C),
				Raw: formatCellValue(c.V),
			})
		}
	}
	return cells, nil
}

func formatCellValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}
