// Package island locates and parses the self-contained regions
// ("islands") of a configuration table.
//
// An island is a maximal 4-connected region of non-empty cells. Each
// island describes one group of units and settings: one axis carries
// setting keys, the other carries unit identifiers, and the
// intersections carry the values. The detector partitions all non-empty
// cells of a grid into islands; the parser turns one island into an
// ordered operation list.
package island

// Pos is a 0-based (row, column) grid position.
type Pos struct {
	Row int
	Col int
}

// Island is one contiguous region of non-empty cells. Islands are
// computed fresh per run and never mutated afterwards.
type Island struct {
	// ID is the 1-based discovery index of the island
	ID int

	// Anchor is the first cell of the island encountered during the
	// top-to-bottom, left-to-right grid scan
	Anchor Pos

	cells                          map[Pos]string
	minRow, minCol, maxRow, maxCol int
}

// Text returns the cell text at an absolute grid position, or "" when
// the position is outside the island or empty.
func (is *Island) Text(row, col int) string {
	return is.cells[Pos{Row: row, Col: col}]
}

// Contains reports whether the island owns a non-empty cell at p.
func (is *Island) Contains(p Pos) bool {
	_, ok := is.cells[p]
	return ok
}

// Bounds returns the island's bounding rectangle in grid coordinates,
// inclusive on all sides. Islands need not fill the whole rectangle.
func (is *Island) Bounds() (minRow, minCol, maxRow, maxCol int) {
	return is.minRow, is.minCol, is.maxRow, is.maxCol
}

// Size returns the number of non-empty cells in the island.
func (is *Island) Size() int {
	return len(is.cells)
}

func (is *Island) add(p Pos, text string) {
	if len(is.cells) == 0 {
		is.minRow, is.maxRow = p.Row, p.Row
		is.minCol, is.maxCol = p.Col, p.Col
	} else {
		if p.Row < is.minRow {
			is.minRow = p.Row
		}
		if p.Row > is.maxRow {
			is.maxRow = p.Row
		}
		if p.Col < is.minCol {
			is.minCol = p.Col
		}
		if p.Col > is.maxCol {
			is.maxCol = p.Col
		}
	}
	is.cells[p] = text
}
