package generator

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// rectRoom is an axis-aligned room stored as its inclusive corners
type rectRoom struct {
	min, max world.Point
	index    int
}

func (r *rectRoom) randomCell(src rng.Source) world.Point {
	return world.Pt(rng.IntBetween(src, r.min.X, r.max.X), rng.IntBetween(src, r.min.Y, r.max.Y))
}

func (r *rectRoom) area() int {
	return (r.max.X - r.min.X + 1) * (r.max.Y - r.min.Y + 1)
}

// RectRoomGenerator spawns tiny rooms, grows them until they meet (always
// keeping a one-cell wall between neighbours) and then digs straight
// corridors between them until every room is reachable.
type RectRoomGenerator struct {
	base
	cfg RectRoomConfig

	rooms          []*rectRoom
	connected      []*rectRoom
	connectedSet   mapset.Set[int]
	expansions     int
	remainingGrow  int
	remainingLinks int
	linkAttempts   int
}

// NewRectRoom creates a rect room generator after validating cfg
func NewRectRoom(cfg RectRoomConfig) (*RectRoomGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RectRoomGenerator{base: newBase(cfg.Width, cfg.Height), cfg: cfg}, nil
}

// Name returns the name of this generator
func (g *RectRoomGenerator) Name() string {
	return "Rect Rooms"
}

// Kind returns the registry kind of this generator
func (g *RectRoomGenerator) Kind() Kind {
	return KindRectRoom
}

// Start walls the map and scatters 1x1 seed rooms at least two cells apart
func (g *RectRoomGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}
	c := g.cfg
	grid := g.grid

	g.expansions = rng.IntBetween(src, c.MinExpansionAttempts, c.MaxExpansionAttempts)
	g.remainingGrow = g.expansions
	g.remainingLinks = c.ConnectionAttempts
	g.linkAttempts = 0
	grid.Fill(world.Wall)

	roomCount := rng.IntBetween(src, c.MinRoomCount, c.MaxRoomCount)
	g.rooms = make([]*rectRoom, 0, roomCount)
	g.connected = nil
	g.connectedSet = mapset.New[int]()

	maxAttempts := roomCount * c.PlacementAttemptsPerRoom
	for attempt := 0; len(g.rooms) < roomCount; attempt++ {
		if attempt >= maxAttempts {
			return g.fail(fmt.Errorf("%w: placed %d of %d rooms in %d attempts on a %dx%d grid",
				ErrPlacementFailed, len(g.rooms), roomCount, maxAttempts, grid.Width(), grid.Height()))
		}
		p := world.Pt(rng.IntBetween(src, 1, grid.Width()-2), rng.IntBetween(src, 1, grid.Height()-2))
		if g.tooCloseToSeed(p) {
			continue
		}
		room := &rectRoom{min: p, max: p, index: len(g.rooms)}
		grid.SetTileAt(p, world.Open)
		grid.SetRoomAt(p, room.index)
		g.rooms = append(g.rooms, room)
	}

	g.markConnected(g.rooms[rng.Pick(src, len(g.rooms))])
	return nil
}

func (g *RectRoomGenerator) tooCloseToSeed(p world.Point) bool {
	for _, r := range g.rooms {
		dx, dy := r.min.X-p.X, r.min.Y-p.Y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx < 2 && dy < 2 {
			return true
		}
	}
	return false
}

func (g *RectRoomGenerator) markConnected(r *rectRoom) {
	g.connected = append(g.connected, r)
	g.connectedSet.Put(r.index)
}

// Tick spends up to steps units on growth attempts, then on connection attempts
func (g *RectRoomGenerator) Tick(steps int) error {
	if ok, err := g.ready(); !ok {
		return err
	}

	n := budget(steps, g.remainingGrow+g.remainingLinks)
	for i := 0; i < n; i++ {
		if g.remainingGrow > 0 {
			g.remainingGrow--
			g.expandRoom(g.rooms[rng.Pick(g.src, len(g.rooms))])
			continue
		}
		if len(g.connected) == len(g.rooms) {
			g.remainingLinks = 0
		}
		if g.remainingLinks == 0 {
			break
		}
		g.remainingLinks--
		g.linkAttempts++
		g.connectRoom()
	}

	if g.remainingGrow == 0 && len(g.connected) == len(g.rooms) {
		g.remainingLinks = 0
	}
	if g.remainingGrow == 0 && g.remainingLinks == 0 {
		g.complete()
	}
	return nil
}

// expandRoom tries to push one side of the room out by a cell. The line
// two cells beyond that side must be solid wall so a one-cell barrier
// always remains between rooms.
func (g *RectRoomGenerator) expandRoom(room *rectRoom) {
	dir := g.randomDirection()
	newMin, newMax := room.min, room.max
	var from, to world.Point

	switch dir {
	case world.East:
		from = world.Pt(room.max.X+2, room.min.Y-1)
		to = world.Pt(room.max.X+2, room.max.Y+1)
		newMax.X++
	case world.West:
		from = world.Pt(room.min.X-2, room.min.Y-1)
		to = world.Pt(room.min.X-2, room.max.Y+1)
		newMin.X--
	case world.South:
		from = world.Pt(room.min.X-1, room.max.Y+2)
		to = world.Pt(room.max.X+1, room.max.Y+2)
		newMax.Y++
	case world.North:
		from = world.Pt(room.min.X-1, room.min.Y-2)
		to = world.Pt(room.max.X+1, room.min.Y-2)
		newMin.Y--
	}

	for x := from.X; x <= to.X; x++ {
		for y := from.Y; y <= to.Y; y++ {
			if g.grid.Tile(x, y) != world.Wall {
				return
			}
		}
	}

	// carve only the strip the room gained
	stripMin, stripMax := newMin, newMax
	switch dir {
	case world.East:
		stripMin.X = newMax.X
	case world.West:
		stripMax.X = newMin.X
	case world.South:
		stripMin.Y = newMax.Y
	case world.North:
		stripMax.Y = newMin.Y
	}
	for x := stripMin.X; x <= stripMax.X; x++ {
		for y := stripMin.Y; y <= stripMax.Y; y++ {
			g.grid.SetRoom(x, y, room.index)
			g.grid.SetTile(x, y, world.Open)
		}
	}
	room.min, room.max = newMin, newMax
}

// connectRoom digs a tunnel from a random cell of a connected room
func (g *RectRoomGenerator) connectRoom() bool {
	room := g.connected[rng.Pick(g.src, len(g.connected))]
	return g.tunnel(room, room.randomCell(g.src), g.randomDirection())
}

// tunnel walks from tile in dir. It gives up when it leaves the map, runs
// into an existing corridor or passes within one cell of a third room; if
// it reaches an unconnected room the path it took becomes a corridor.
func (g *RectRoomGenerator) tunnel(room *rectRoom, tile world.Point, dir world.Direction) bool {
	grid := g.grid
	for {
		tile = tile.Step(dir)
		id := grid.RoomAt(tile)
		if id == world.RoomOutOfBounds {
			return false
		}
		if id == world.NoRoom && grid.TileAt(tile) == world.Open {
			return false
		}
		if id != room.index && id != world.NoRoom {
			if g.connectedSet.Has(id) {
				return false
			}
			g.markConnected(g.rooms[id])
			break
		}
		// single-cell flank checks; out-of-bounds flanks count as too close
		left, right := dir.Flanks(tile)
		if l := grid.RoomAt(left); l != room.index && l != world.NoRoom {
			return false
		}
		if r := grid.RoomAt(right); r != room.index && r != world.NoRoom {
			return false
		}
	}

	back := dir.Opposite()
	for {
		tile = tile.Step(back)
		if grid.RoomAt(tile) == room.index {
			break
		}
		grid.SetTileAt(tile, world.Open)
	}
	return true
}

func (g *RectRoomGenerator) deleteRoom(room *rectRoom) {
	for x := room.min.X; x <= room.max.X; x++ {
		for y := room.min.Y; y <= room.max.Y; y++ {
			g.grid.SetRoom(x, y, world.NoRoom)
			g.grid.SetTile(x, y, world.Wall)
		}
	}
}

func (g *RectRoomGenerator) complete() {
	first := g.connected[0]
	last := g.connected[len(g.connected)-1]
	g.grid.SetTileAt(first.randomCell(g.src), world.Start)
	g.grid.SetTileAt(last.randomCell(g.src), world.Finish)

	for _, r := range g.rooms {
		if !g.connectedSet.Has(r.index) {
			g.deleteRoom(r)
		}
	}
	g.finished = true
}

// ConnectionAttempts returns how many corridor probes this run has fired
func (g *RectRoomGenerator) ConnectionAttempts() int {
	return g.linkAttempts
}

// Regions returns every room created this run, connected or not
func (g *RectRoomGenerator) Regions() []Region {
	out := make([]Region, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, Region{
			Index:     r.index,
			Shape:     ShapeRect,
			Min:       r.min,
			Max:       r.max,
			Tiles:     r.area(),
			Connected: g.connectedSet.Has(r.index),
		})
	}
	return out
}

// ConnectedOrder returns room indexes in the order they joined the network
func (g *RectRoomGenerator) ConnectedOrder() []int {
	out := make([]int, len(g.connected))
	for i, r := range g.connected {
		out[i] = r.index
	}
	return out
}

// Progress returns the fraction of the growth and connection budget spent
func (g *RectRoomGenerator) Progress() float64 {
	if g.finished {
		return 1
	}
	total := g.expansions + g.cfg.ConnectionAttempts
	if total == 0 {
		return 0
	}
	done := (g.expansions - g.remainingGrow) + (g.cfg.ConnectionAttempts - g.remainingLinks)
	return float64(done) / float64(total)
}
