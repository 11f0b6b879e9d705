package generator

import (
	"github.com/zyedidia/generic/queue"

	"mapcurator/pkg/engine/pathing"
	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// bspNode represents a node in the BSP tree
type bspNode struct {
	x, y, width, height int
	left, right         *bspNode
	room                *rectRoom
}

func (n *bspNode) leaf() bool {
	return n.left == nil && n.right == nil
}

// bspPhase is the stage a BSP run is in
type bspPhase int

const (
	bspSplit bspPhase = iota
	bspRooms
	bspConnect
	bspPlace
	bspDone
)

// BSPGenerator generates maps using Binary Space Partitioning: the playable
// area is split until every leaf is small, each leaf gets a room and every
// split is bridged by an L-shaped corridor between its two halves. The
// finish goes on the cell farthest from the start.
type BSPGenerator struct {
	base
	cfg BSPConfig

	phase   bspPhase
	pending *queue.Queue[*bspNode]
	queued  int
	nodes   []*bspNode // split order, parents before children
	leaves  []*bspNode
	inner   []*bspNode
	rooms   []*rectRoom
	cursor  int
	split   int

	// the node count grows while splitting, so the estimate only ratchets up
	splitFrac float64

	finder *pathing.PathFinder
}

// NewBSP creates a BSP generator after validating cfg
func NewBSP(cfg BSPConfig) (*BSPGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BSPGenerator{
		base:   newBase(cfg.Width, cfg.Height),
		cfg:    cfg,
		finder: pathing.New(),
	}, nil
}

// Name returns the name of this generator
func (g *BSPGenerator) Name() string {
	return "BSP Tree"
}

// Kind returns the registry kind of this generator
func (g *BSPGenerator) Kind() Kind {
	return KindBSP
}

// Start walls the map and queues the root node, leaving a one-cell border
func (g *BSPGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}
	grid := g.grid
	grid.Fill(world.Wall)

	g.phase = bspSplit
	g.pending = queue.New[*bspNode]()
	g.pending.Enqueue(&bspNode{x: 1, y: 1, width: grid.Width() - 2, height: grid.Height() - 2})
	g.queued = 1
	g.nodes, g.leaves, g.inner, g.rooms = nil, nil, nil, nil
	g.cursor, g.split = 0, 0
	g.splitFrac = 0
	return nil
}

// Tick spends up to steps units. One unit splits a node, builds a leaf's
// room or links the two halves of a split; placing the endpoints takes the
// final unit.
func (g *BSPGenerator) Tick(steps int) error {
	if ok, err := g.ready(); !ok {
		return err
	}
	for i := 0; (steps < 0 || i < steps) && g.phase != bspDone; i++ {
		g.step()
	}
	return nil
}

func (g *BSPGenerator) step() {
	switch g.phase {
	case bspSplit:
		node := g.pending.Dequeue()
		g.nodes = append(g.nodes, node)
		g.split++
		if g.splitNode(node) {
			g.pending.Enqueue(node.left)
			g.pending.Enqueue(node.right)
			g.queued += 2
		}
		g.splitFrac = max(g.splitFrac, float64(g.split)/float64(g.queued))
		if g.pending.Empty() {
			for _, n := range g.nodes {
				if n.leaf() {
					g.leaves = append(g.leaves, n)
				} else {
					g.inner = append(g.inner, n)
				}
			}
			g.phase = bspRooms
		}
	case bspRooms:
		g.buildRoom(g.leaves[g.cursor])
		g.cursor++
		if g.cursor == len(g.leaves) {
			g.cursor = 0
			g.phase = bspConnect
			if len(g.inner) == 0 {
				g.phase = bspPlace
			}
		}
	case bspConnect:
		g.connect(g.inner[g.cursor])
		g.cursor++
		if g.cursor == len(g.inner) {
			g.phase = bspPlace
		}
	case bspPlace:
		g.placeEndpoints()
		g.phase = bspDone
		g.finished = true
	}
}

// splitNode divides node across its longer side when both halves can keep
// MinNodeSize cells. It returns false for leaves.
func (g *BSPGenerator) splitNode(node *bspNode) bool {
	minSize := g.cfg.MinNodeSize
	canW := node.width >= minSize*2
	canH := node.height >= minSize*2

	var horizontal bool
	switch {
	case node.width > node.height && canW:
		horizontal = false
	case node.height > node.width && canH:
		horizontal = true
	case canW && canH:
		horizontal = g.src.Intn(2) == 0
	case canW:
		horizontal = false
	case canH:
		horizontal = true
	default:
		return false
	}

	if horizontal {
		at := minSize + g.src.Intn(node.height-minSize*2+1)
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: at}
		node.right = &bspNode{x: node.x, y: node.y + at, width: node.width, height: node.height - at}
	} else {
		at := minSize + g.src.Intn(node.width-minSize*2+1)
		node.left = &bspNode{x: node.x, y: node.y, width: at, height: node.height}
		node.right = &bspNode{x: node.x + at, y: node.y, width: node.width - at, height: node.height}
	}
	return true
}

// buildRoom places a room inside the leaf, at least RoomPadding cells
// narrower than the leaf on each axis, and carves it
func (g *BSPGenerator) buildRoom(node *bspNode) {
	c := g.cfg
	maxW := node.width - c.RoomPadding
	maxH := node.height - c.RoomPadding
	w := rng.IntBetween(g.src, c.MinRoomSize, maxW)
	h := rng.IntBetween(g.src, c.MinRoomSize, maxH)
	x := node.x + g.src.Intn(node.width-w)
	y := node.y + g.src.Intn(node.height-h)

	room := &rectRoom{min: world.Pt(x, y), max: world.Pt(x+w-1, y+h-1), index: len(g.rooms)}
	for cy := room.min.Y; cy <= room.max.Y; cy++ {
		for cx := room.min.X; cx <= room.max.X; cx++ {
			g.grid.SetTile(cx, cy, world.Open)
			g.grid.SetRoom(cx, cy, room.index)
		}
	}
	node.room = room
	g.rooms = append(g.rooms, room)
}

// anyRoom returns a room from the subtree, picking a random side at every split
func (g *BSPGenerator) anyRoom(node *bspNode) *rectRoom {
	for !node.leaf() {
		if g.src.Intn(2) == 0 {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.room
}

func roomCentre(r *rectRoom) world.Point {
	return world.Pt((r.min.X+r.max.X)/2, (r.min.Y+r.max.Y)/2)
}

// connect joins a room of each half with an L-shaped corridor
func (g *BSPGenerator) connect(node *bspNode) {
	a := roomCentre(g.anyRoom(node.left))
	b := roomCentre(g.anyRoom(node.right))
	if g.src.Intn(2) == 0 {
		g.carveHorizontal(a.Y, a.X, b.X)
		g.carveVertical(b.X, a.Y, b.Y)
	} else {
		g.carveVertical(a.X, a.Y, b.Y)
		g.carveHorizontal(b.Y, a.X, b.X)
	}
}

// corridor cells keep NoRoom so regions only cover the rooms themselves
func (g *BSPGenerator) carveHorizontal(y, x0, x1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		g.grid.SetTile(x, y, world.Open)
	}
}

func (g *BSPGenerator) carveVertical(x, y0, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		g.grid.SetTile(x, y, world.Open)
	}
}

// placeEndpoints starts in the centre of a random room and puts the finish
// on the farthest reachable cell, preferring room cells over corridors
func (g *BSPGenerator) placeEndpoints() {
	start := roomCentre(g.rooms[rng.Pick(g.src, len(g.rooms))])
	finish, _ := g.finder.Farthest(g.grid, start, func(p world.Point) bool {
		return g.grid.RoomAt(p) != world.NoRoom
	})
	g.grid.SetTileAt(start, world.Start)
	g.grid.SetTileAt(finish, world.Finish)
}

// Regions returns the rooms built so far. Every room is linked to the
// rest of the tree, so all are connected.
func (g *BSPGenerator) Regions() []Region {
	out := make([]Region, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, Region{
			Index:     r.index,
			Shape:     ShapeRect,
			Min:       r.min,
			Max:       r.max,
			Tiles:     r.area(),
			Connected: true,
		})
	}
	return out
}

// Progress weighs splitting, room building and linking as a quarter, a
// quarter and a half of the run
func (g *BSPGenerator) Progress() float64 {
	switch g.phase {
	case bspSplit:
		return 0.25 * g.splitFrac
	case bspRooms:
		return 0.25 + 0.25*float64(g.cursor)/float64(len(g.leaves))
	case bspConnect:
		return 0.5 + 0.45*float64(g.cursor)/float64(len(g.inner))
	case bspPlace:
		return 0.95
	}
	return 1
}
