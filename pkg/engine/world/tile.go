// Package world provides the tile-grid primitives shared by every level
// generator: tile kinds, coordinates, directions and the Grid itself.
package world

// TileType is the category stored in a single grid cell
type TileType uint8

// Tile kinds. OutOfBounds is never stored; it is what Grid.Tile reports
// for coordinates outside the grid.
const (
	OutOfBounds TileType = iota
	Wall
	Open
	Start
	Finish
)

// AllTileTypes returns the storable tile kinds for iteration
func AllTileTypes() []TileType {
	return []TileType{Wall, Open, Start, Finish}
}

// String returns the string representation of a tile kind
func (t TileType) String() string {
	switch t {
	case OutOfBounds:
		return "OutOfBounds"
	case Wall:
		return "Wall"
	case Open:
		return "Open"
	case Start:
		return "Start"
	case Finish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the tile kind is one of the defined categories
func (t TileType) IsValid() bool {
	return t <= Finish
}

// IsPassable returns true if a path may enter a cell of this kind
func (t TileType) IsPassable() bool {
	return t != Wall && t != OutOfBounds
}
