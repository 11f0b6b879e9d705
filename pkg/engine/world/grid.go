package world

// Room id sentinels
const (
	NoRoom          = -1 // cell not assigned to any room
	RoomOutOfBounds = -2 // reported for coordinates outside the grid
)

// Grid is a fixed-size tile map with a parallel room-id layer.
// Out-of-range reads return sentinels and out-of-range writes are ignored,
// so callers never need to bounds-check before probing.
type Grid struct {
	tiles  []TileType
	rooms  []int
	width  int
	height int

	startCell  Point
	finishCell Point
	hasStart   bool
	hasFinish  bool
}

// NewGrid creates a new grid with the given dimensions
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Build(width, height)
	return g
}

// Build (re)allocates the grid: every cell Open, every room id NoRoom and no
// tracked start or finish.
func (g *Grid) Build(width, height int) {
	if width <= 0 || height <= 0 {
		panic("Grid dimensions must be positive")
	}

	g.width = width
	g.height = height
	g.tiles = make([]TileType, width*height)
	g.rooms = make([]int, width*height)
	for i := range g.rooms {
		g.rooms[i] = NoRoom
	}
	g.startCell, g.finishCell = Point{}, Point{}
	g.hasStart, g.hasFinish = false, false
	g.Fill(Open)
}

// Reset rebuilds the grid with its current dimensions
func (g *Grid) Reset() {
	g.Build(g.width, g.height)
}

// Width returns the number of columns in the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows in the grid
func (g *Grid) Height() int {
	return g.height
}

// InBounds checks if an x/y position is within grid bounds
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// SetTile writes a tile kind. Returns false if out of bounds.
// Writing Start or Finish also moves the tracked start/finish coordinate;
// the previously tracked cell keeps its tile value.
func (g *Grid) SetTile(x, y int, t TileType) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.tiles[g.index(x, y)] = t
	switch t {
	case Start:
		g.startCell = Point{X: x, Y: y}
		g.hasStart = true
	case Finish:
		g.finishCell = Point{X: x, Y: y}
		g.hasFinish = true
	}
	return true
}

// SetTileAt is SetTile for a Point
func (g *Grid) SetTileAt(p Point, t TileType) bool {
	return g.SetTile(p.X, p.Y, t)
}

// Tile returns the tile kind at x/y, or OutOfBounds
func (g *Grid) Tile(x, y int) TileType {
	if !g.InBounds(x, y) {
		return OutOfBounds
	}
	return g.tiles[g.index(x, y)]
}

// TileAt is Tile for a Point
func (g *Grid) TileAt(p Point) TileType {
	return g.Tile(p.X, p.Y)
}

// SetRoom writes a room id. Returns false if out of bounds.
func (g *Grid) SetRoom(x, y, room int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.rooms[g.index(x, y)] = room
	return true
}

// SetRoomAt is SetRoom for a Point
func (g *Grid) SetRoomAt(p Point, room int) bool {
	return g.SetRoom(p.X, p.Y, room)
}

// Room returns the room id at x/y, NoRoom if unassigned or RoomOutOfBounds
func (g *Grid) Room(x, y int) int {
	if !g.InBounds(x, y) {
		return RoomOutOfBounds
	}
	return g.rooms[g.index(x, y)]
}

// RoomAt is Room for a Point
func (g *Grid) RoomAt(p Point) int {
	return g.Room(p.X, p.Y)
}

// Fill sets every cell to the given kind. Room ids are left untouched.
func (g *Grid) Fill(t TileType) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.SetTile(x, y, t)
		}
	}
}

// StartCell returns the tracked start coordinate and whether one was set
func (g *Grid) StartCell() (Point, bool) {
	return g.startCell, g.hasStart
}

// FinishCell returns the tracked finish coordinate and whether one was set
func (g *Grid) FinishCell() (Point, bool) {
	return g.finishCell, g.hasFinish
}

// ForEachCell iterates over all cells in row-major order
func (g *Grid) ForEachCell(fn func(x, y int, t TileType)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, g.tiles[g.index(x, y)])
		}
	}
}

// Count returns how many cells hold the given kind
func (g *Grid) Count(t TileType) int {
	n := 0
	for _, v := range g.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Snapshot returns a row-major copy of the tile layer
func (g *Grid) Snapshot() []TileType {
	out := make([]TileType, len(g.tiles))
	copy(out, g.tiles)
	return out
}
