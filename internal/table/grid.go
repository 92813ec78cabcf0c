package table

import "sort"

// Cell is a single table cell with its 0-based position in the source grid.
type Cell struct {
	Row  int
	Col  int
	Text string
}

// Grid is a sparse 2-D table of cell text keyed by (row, column).
// Tables loaded from loosely formatted sources often have ragged rows,
// so the grid does not assume a rectangular extent. A Grid is read-only
// after loading.
type Grid struct {
	cells map[[2]int]string
	rows  int
	cols  int
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[[2]int]string)}
}

// Set stores cell text at the given position. Empty text is not stored,
// so an empty cell and an absent cell are indistinguishable, which is
// the model the island detector works on.
func (g *Grid) Set(row, col int, text string) {
	if row < 0 || col < 0 {
		return
	}
	if row+1 > g.rows {
		g.rows = row + 1
	}
	if col+1 > g.cols {
		g.cols = col + 1
	}
	if text == "" {
		return
	}
	g.cells[[2]int{row, col}] = text
}

// Text returns the cell text at the given position, or "" when the cell
// is empty or out of range.
func (g *Grid) Text(row, col int) string {
	return g.cells[[2]int{row, col}]
}

// IsEmpty reports whether the cell at the given position has no text.
func (g *Grid) IsEmpty(row, col int) bool {
	return g.Text(row, col) == ""
}

// Rows returns the number of rows in the grid's bounding extent.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid's bounding extent.
func (g *Grid) Cols() int {
	return g.cols
}

// Len returns the number of non-empty cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Cells returns all non-empty cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for pos, text := range g.cells {
		out = append(out, Cell{Row: pos[0], Col: pos[1], Text: text})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// gridFromRows builds a grid from dense row slices, trimming nothing.
func gridFromRows(rows [][]string) *Grid {
	g := NewGrid()
	for r, row := range rows {
		for c, text := range row {
			g.Set(r, c, text)
		}
	}
	return g
}
