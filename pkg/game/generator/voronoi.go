package generator

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

type voronoiPhase int

const (
	phaseRelax voronoiPhase = iota
	phaseRasterize
	phaseEdges
	phaseConnect
	phaseDone
)

// voronoiRoom is one seed of the partition and the tiles it kept
type voronoiRoom struct {
	position vec2 // normalized
	radius   float64
	tiles    []world.Point
	index    int
}

// VoronoiGenerator partitions the map around relaxed seed points, walls
// the partition borders, drops some cells entirely and links the rest
// with short corridors.
type VoronoiGenerator struct {
	base
	cfg VoronoiConfig

	rooms        []*voronoiRoom
	connected    []*voronoiRoom
	sources      []*voronoiRoom // connected rooms that own member tiles
	connectedSet mapset.Set[int]

	ignorePeriod   int
	remainingPush  int
	remainingLinks int
	cursor         int
	phase          voronoiPhase
}

// NewVoronoi creates a Voronoi generator after validating cfg
func NewVoronoi(cfg VoronoiConfig) (*VoronoiGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VoronoiGenerator{base: newBase(cfg.Width, cfg.Height), cfg: cfg}, nil
}

// Name returns the name of this generator
func (g *VoronoiGenerator) Name() string {
	return "Voronoi"
}

// Kind returns the registry kind of this generator
func (g *VoronoiGenerator) Kind() Kind {
	return KindVoronoi
}

// Start scatters the seeds and opens the whole map
func (g *VoronoiGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}
	c := g.cfg

	count := rng.IntBetween(src, c.MinRoomCount, c.MaxRoomCount)
	g.rooms = make([]*voronoiRoom, 0, count)
	for i := 0; i < count; i++ {
		g.rooms = append(g.rooms, &voronoiRoom{
			position: vec2{src.Float64(), src.Float64()},
			radius:   rng.Range(src, c.MinSeedRadius, c.MaxSeedRadius),
			index:    i,
		})
	}
	g.ignorePeriod = rng.IntBetween(src, c.MinIgnoreRoom, c.MaxIgnoreRoom)

	g.connected = nil
	g.sources = nil
	g.connectedSet = mapset.New[int]()
	g.remainingPush = c.PushApartIterations
	g.remainingLinks = c.ConnectionAttempts
	g.cursor = 0
	g.phase = phaseRelax

	g.grid.Fill(world.Open)
	return nil
}

// Tick spends up to steps units. A unit is one relaxation pass, one batch
// of SamplesPerStep cells while rasterizing or walling, or one connection
// attempt.
func (g *VoronoiGenerator) Tick(steps int) error {
	if ok, err := g.ready(); !ok {
		return err
	}

	for used := 0; steps < 0 || used < steps; used++ {
		switch g.phase {
		case phaseRelax:
			g.relax()
		case phaseRasterize:
			g.rasterize()
		case phaseEdges:
			if err := g.wallEdges(); err != nil {
				return err
			}
		case phaseConnect:
			g.connect()
		}
		if g.phase == phaseDone {
			g.complete()
			return nil
		}
	}
	return nil
}

// relax pushes overlapping seeds apart like soft circles
func (g *VoronoiGenerator) relax() {
	if g.remainingPush <= 0 {
		g.phase = phaseRasterize
		return
	}
	g.remainingPush--

	for i := 0; i < len(g.rooms)-1; i++ {
		for j := i + 1; j < len(g.rooms); j++ {
			a, b := g.rooms[i], g.rooms[j]
			delta := vec2{a.position.X - b.position.X, a.position.Y - b.position.Y}
			sqrDist := delta.X*delta.X + delta.Y*delta.Y
			combined := a.radius + b.radius
			if sqrDist >= combined*combined {
				continue
			}
			extra := (combined - math.Sqrt(sqrDist)) * 0.5
			n := delta.normalized()
			a.position.X += n.X * extra
			a.position.Y += n.Y * extra
			b.position.X -= n.X * extra
			b.position.Y -= n.Y * extra
		}
	}
	for _, r := range g.rooms {
		r.position.X = clamp(r.position.X, 0, 1)
		r.position.Y = clamp(r.position.Y, 0, 1)
	}

	if g.remainingPush == 0 {
		g.phase = phaseRasterize
	}
}

func (g *VoronoiGenerator) cells() int {
	return g.grid.Width() * g.grid.Height()
}

// rasterize assigns the nearest seed to the next batch of cells
func (g *VoronoiGenerator) rasterize() {
	w, h := g.grid.Width(), g.grid.Height()
	for k := 0; k < g.cfg.SamplesPerStep && g.cursor < g.cells(); k++ {
		x, y := g.cursor%w, g.cursor/w
		u := (float64(x) + 0.5) / float64(w)
		v := (float64(y) + 0.5) / float64(h)

		closest := -1
		best := math.Inf(1)
		for _, r := range g.rooms {
			dx, dy := r.position.X-u, r.position.Y-v
			if d := dx*dx + dy*dy; d < best {
				best = d
				closest = r.index
			}
		}
		g.grid.SetRoom(x, y, closest)
		g.cursor++
	}
	if g.cursor == g.cells() {
		g.cursor = 0
		g.phase = phaseEdges
	}
}

// wallEdges walls skipped rooms and partition borders for the next batch
// of cells; every other cell becomes a member tile of its room
func (g *VoronoiGenerator) wallEdges() error {
	w := g.grid.Width()
	for k := 0; k < g.cfg.SamplesPerStep && g.cursor < g.cells(); k++ {
		x, y := g.cursor%w, g.cursor/w
		g.cursor++

		id := g.grid.Room(x, y)
		if g.skipped(id) || g.isEdge(x, y) {
			g.grid.SetTile(x, y, world.Wall)
			continue
		}
		g.rooms[id].tiles = append(g.rooms[id].tiles, world.Pt(x, y))
	}
	if g.cursor < g.cells() {
		return nil
	}

	var candidates []*voronoiRoom
	for _, r := range g.rooms {
		if !g.skipped(r.index) && len(r.tiles) > 0 {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		g.phase = phaseDone
		for _, r := range g.rooms {
			g.deleteRoom(r)
		}
		return g.fail(fmt.Errorf("%w: all %d cells were walled off (skip period %d)",
			ErrNoRooms, len(g.rooms), g.ignorePeriod))
	}
	g.markConnected(candidates[rng.Pick(g.src, len(candidates))])
	g.phase = phaseConnect
	return nil
}

func (g *VoronoiGenerator) skipped(id int) bool {
	return id%g.ignorePeriod == 0
}

// isEdge reports whether the 3x3 block around x/y sees more than one room
// id. Out-of-bounds neighbours count as a different id, so the map border
// is always an edge.
func (g *VoronoiGenerator) isEdge(x, y int) bool {
	first, seen := 0, false
	for i := x - 1; i <= x+1; i++ {
		for j := y - 1; j <= y+1; j++ {
			id := g.grid.Room(i, j)
			if !seen {
				first, seen = id, true
			} else if id != first {
				return true
			}
		}
	}
	return false
}

func (g *VoronoiGenerator) markConnected(r *voronoiRoom) {
	g.connected = append(g.connected, r)
	g.connectedSet.Put(r.index)
	if len(r.tiles) > 0 {
		g.sources = append(g.sources, r)
	}
}

// connect digs one tunnel from a random member tile of a connected room
func (g *VoronoiGenerator) connect() {
	if g.remainingLinks <= 0 || len(g.connected) == len(g.rooms) {
		g.phase = phaseDone
		return
	}
	g.remainingLinks--

	room := g.sources[rng.Pick(g.src, len(g.sources))]
	tile := room.tiles[rng.Pick(g.src, len(room.tiles))]
	g.tunnel(room, tile, g.randomDirection())

	if g.remainingLinks == 0 || len(g.connected) == len(g.rooms) {
		g.phase = phaseDone
	}
}

// tunnel walks from tile in dir for at most ProbeReach cells outside room.
// The first open cell of an unconnected room joins it and the walked cells
// become a corridor.
func (g *VoronoiGenerator) tunnel(room *voronoiRoom, tile world.Point, dir world.Direction) bool {
	grid := g.grid
	reach := 0
	found := false
	for !found {
		tile = tile.Step(dir)
		id := grid.RoomAt(tile)
		if id == room.index {
			continue
		}
		reach++
		if reach > g.cfg.ProbeReach {
			break
		}
		if grid.TileAt(tile) == world.Open && !g.connectedSet.Has(id) {
			g.markConnected(g.rooms[id])
			found = true
		}
	}

	if found {
		back := dir.Opposite()
		for {
			tile = tile.Step(back)
			if grid.RoomAt(tile) == room.index && grid.TileAt(tile) == world.Open {
				break
			}
			grid.SetTileAt(tile, world.Open)
		}
	}
	return found
}

func (g *VoronoiGenerator) deleteRoom(r *voronoiRoom) {
	for _, t := range r.tiles {
		g.grid.SetTileAt(t, world.Wall)
		g.grid.SetRoomAt(t, world.NoRoom)
	}
}

func (g *VoronoiGenerator) complete() {
	if g.finished {
		return
	}
	for _, r := range g.rooms {
		if !g.connectedSet.Has(r.index) {
			g.deleteRoom(r)
		}
	}

	startRoom := g.sources[0]
	finishRoom := g.sources[len(g.sources)-1]
	g.grid.SetTileAt(startRoom.tiles[rng.Pick(g.src, len(startRoom.tiles))], world.Start)
	g.grid.SetTileAt(finishRoom.tiles[rng.Pick(g.src, len(finishRoom.tiles))], world.Finish)
	g.finished = true
}

// SkipPeriod returns the room-id period sampled for this run
func (g *VoronoiGenerator) SkipPeriod() int {
	return g.ignorePeriod
}

// Regions returns every seed's room, connected or not
func (g *VoronoiGenerator) Regions() []Region {
	out := make([]Region, 0, len(g.rooms))
	for _, r := range g.rooms {
		reg := Region{
			Index:     r.index,
			Shape:     ShapeCell,
			Tiles:     len(r.tiles),
			Connected: g.connectedSet.Has(r.index),
		}
		for i, t := range r.tiles {
			if i == 0 {
				reg.Min, reg.Max = t, t
				continue
			}
			reg.Min.X, reg.Min.Y = min(reg.Min.X, t.X), min(reg.Min.Y, t.Y)
			reg.Max.X, reg.Max.Y = max(reg.Max.X, t.X), max(reg.Max.Y, t.Y)
		}
		out = append(out, reg)
	}
	return out
}

// MemberTiles returns a copy of the member tiles recorded for a room
func (g *VoronoiGenerator) MemberTiles(index int) []world.Point {
	if index < 0 || index >= len(g.rooms) {
		return nil
	}
	return append([]world.Point(nil), g.rooms[index].tiles...)
}

// Progress weights the four phases equally
func (g *VoronoiGenerator) Progress() float64 {
	if g.finished {
		return 1
	}
	frac := func(done, total int) float64 {
		if total <= 0 {
			return 1
		}
		return float64(done) / float64(total)
	}
	switch g.phase {
	case phaseRelax:
		return 0.25 * frac(g.cfg.PushApartIterations-g.remainingPush, g.cfg.PushApartIterations)
	case phaseRasterize:
		return 0.25 + 0.25*frac(g.cursor, g.cells())
	case phaseEdges:
		return 0.5 + 0.25*frac(g.cursor, g.cells())
	case phaseConnect:
		return 0.75 + 0.25*frac(g.cfg.ConnectionAttempts-g.remainingLinks, g.cfg.ConnectionAttempts)
	}
	return 1
}
