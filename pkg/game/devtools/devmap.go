package devtools

import (
	"fmt"

	"mapcurator/pkg/engine/world"
)

// devMapRows is a hard-coded serpentine test map: one corridor that
// doubles back twice, so the start-to-finish distance is known (28).
var devMapRows = []string{
	"###########",
	"#S........#",
	"#########.#",
	"#.........#",
	"#.#########",
	"#........F#",
	"###########",
}

// DevMapDistance is the shortest start-to-finish distance on DevMap
const DevMapDistance = 28

// DevMap returns a fresh copy of the developer testing map
func DevMap() *world.Grid {
	grid, err := ParseMap(devMapRows)
	if err != nil {
		panic(err)
	}
	return grid
}

// ParseMap builds a grid from rows written with TileSymbol characters.
// All rows must have the same length.
func ParseMap(rows []string) (*world.Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty map")
	}
	width := len([]rune(rows[0]))
	grid := world.NewGrid(width, len(rows))
	for y, row := range rows {
		cells := []rune(row)
		if len(cells) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(cells), width)
		}
		for x, r := range cells {
			t, ok := symbolTile(r)
			if !ok {
				return nil, fmt.Errorf("unknown symbol %q at %d,%d", r, x, y)
			}
			grid.SetTile(x, y, t)
		}
	}
	return grid, nil
}

func symbolTile(r rune) (world.TileType, bool) {
	for _, t := range world.AllTileTypes() {
		if t != world.OutOfBounds && TileSymbol(t) == r {
			return t, true
		}
	}
	return world.OutOfBounds, false
}
