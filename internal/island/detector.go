package island

import "github.com/espeasy-tools/espcfg/internal/table"

// Detect partitions the grid's non-empty cells into islands.
//
// The grid is scanned top-to-bottom, left-to-right. A non-empty cell
// not yet assigned to an island seeds a flood fill over 4-connected
// non-empty neighbours. Islands are returned in the order their anchor
// cell was encountered during the scan, which also defines processing
// order downstream. Every non-empty cell belongs to exactly one island
// and no returned island is empty.
func Detect(g *table.Grid) []*Island {
	assigned := make(map[Pos]bool, g.Len())
	var islands []*Island

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			start := Pos{Row: row, Col: col}
			if assigned[start] || g.IsEmpty(row, col) {
				continue
			}

			is := &Island{
				ID:     len(islands) + 1,
				Anchor: start,
				cells:  make(map[Pos]string),
			}
			flood(g, start, assigned, is)
			islands = append(islands, is)
		}
	}
	return islands
}

// flood expands one island from a seed cell across 4-connected
// non-empty neighbours, marking every visited cell as assigned.
func flood(g *table.Grid, seed Pos, assigned map[Pos]bool, is *Island) {
	queue := []Pos{seed}
	assigned[seed] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		is.add(p, g.Text(p.Row, p.Col))

		neighbours := [4]Pos{
			{Row: p.Row - 1, Col: p.Col},
			{Row: p.Row + 1, Col: p.Col},
			{Row: p.Row, Col: p.Col - 1},
			{Row: p.Row, Col: p.Col + 1},
		}
		for _, n := range neighbours {
			if n.Row < 0 || n.Col < 0 || assigned[n] || g.IsEmpty(n.Row, n.Col) {
				continue
			}
			assigned[n] = true
			queue = append(queue, n)
		}
	}
}
