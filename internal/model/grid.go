package model

const (
	GridWidth  = 5
	GridHeight = 5
)

// Symbol is a symbol kind id as it appears on the grid. Empty marks a cell
// vacated by a cascade and not yet refilled.
type Symbol string

const Empty Symbol = ""

// Grid is indexed [y][x]; row 0 is the top, gravity pulls toward the last row.
type Grid [GridHeight][GridWidth]Symbol

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Count returns how many cells hold sym.
func (g *Grid) Count(sym Symbol) int {
	n := 0
	for y := 0; y < GridHeight; y++ {
		for x := 0; x < GridWidth; x++ {
			if g[y][x] == sym {
				n++
			}
		}
	}
	return n
}

// Full reports whether no cell is empty.
func (g *Grid) Full() bool {
	return g.Count(Empty) == 0
}
