package generator

import (
	"github.com/zyedidia/generic/stack"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// walker is one straight corridor being dug
type walker struct {
	pos  world.Point
	dir  world.Direction
	left int     // cells still to advance
	prob float64 // chance to branch at each cell
	exit bool    // the finish goes where this arm ends
	root bool
}

// LineWalkerGenerator digs straight corridors out from the centre of the
// map. Every cell an arm passes may spawn a branch in a random direction
// with a chance that shrinks each generation. Arms stop early at the
// one-cell border.
type LineWalkerGenerator struct {
	base
	cfg LineWalkerConfig

	centre     world.Point
	arms       *stack.Stack[*walker]
	rootsTotal int
	rootsDone  int
	exit       world.Point
	carved     int
}

// NewLineWalker creates a line walker generator after validating cfg
func NewLineWalker(cfg LineWalkerConfig) (*LineWalkerGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LineWalkerGenerator{base: newBase(cfg.Width, cfg.Height), cfg: cfg}, nil
}

// Name returns the name of this generator
func (g *LineWalkerGenerator) Name() string {
	return "Line Walker"
}

// Kind returns the registry kind of this generator
func (g *LineWalkerGenerator) Kind() Kind {
	return KindLineWalker
}

// playable reports whether p lies inside the one-cell border
func (g *LineWalkerGenerator) playable(p world.Point) bool {
	return p.X >= 1 && p.X <= g.grid.Width()-2 && p.Y >= 1 && p.Y <= g.grid.Height()-2
}

func (g *LineWalkerGenerator) newArm(pos world.Point, dir world.Direction, prob float64) *walker {
	return &walker{
		pos:  pos,
		dir:  dir,
		left: rng.IntBetween(g.src, g.cfg.MinSegment, g.cfg.MaxSegment),
		prob: prob,
	}
}

// Start walls the map and queues the four main arms plus the extra
// corridors. North is dug first and the West arm carries the exit.
func (g *LineWalkerGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}
	grid := g.grid
	grid.Fill(world.Wall)
	g.centre = world.Pt(grid.Width()/2, grid.Height()/2)
	g.arms = stack.New[*walker]()
	g.rootsDone = 0
	g.carved = 0

	var roots []*walker
	for _, dir := range []world.Direction{world.North, world.East, world.South, world.West} {
		roots = append(roots, g.newArm(g.centre, dir, g.cfg.BranchChance))
	}
	roots[len(roots)-1].exit = true
	// extra corridors leave from the centre too so everything stays connected
	for i := 0; i < g.cfg.ExtraCorridors; i++ {
		roots = append(roots, g.newArm(g.centre, g.randomDirection(), g.cfg.BranchChance))
	}

	for i := len(roots) - 1; i >= 0; i-- {
		roots[i].root = true
		g.arms.Push(roots[i])
	}
	g.rootsTotal = len(roots)
	return nil
}

// Tick digs up to steps cells. A branch is dug to its end before the arm
// that spawned it continues.
func (g *LineWalkerGenerator) Tick(steps int) error {
	if ok, err := g.ready(); !ok {
		return err
	}

	for i := 0; (steps < 0 || i < steps) && g.arms.Size() > 0; i++ {
		g.dig(g.arms.Peek())
	}
	if g.arms.Size() == 0 {
		g.complete()
	}
	return nil
}

func (g *LineWalkerGenerator) dig(w *walker) {
	g.carve(w.pos)
	if w.left == 0 {
		g.endArm()
		return
	}
	next := w.pos.Step(w.dir)
	if !g.playable(next) {
		g.endArm()
		return
	}
	from := w.pos
	w.pos = next
	w.left--
	if g.src.Float64() < w.prob {
		g.arms.Push(g.newArm(from, g.randomDirection(), w.prob-g.cfg.BranchDecay))
	}
}

func (g *LineWalkerGenerator) carve(p world.Point) {
	if g.playable(p) && g.grid.TileAt(p) == world.Wall {
		g.grid.SetTileAt(p, world.Open)
		g.carved++
	}
}

func (g *LineWalkerGenerator) endArm() {
	w := g.arms.Pop()
	if w.exit {
		g.exit = w.pos
	}
	if w.root {
		g.rootsDone++
	}
}

func (g *LineWalkerGenerator) complete() {
	g.grid.SetTileAt(g.centre, world.Start)
	g.grid.SetTileAt(g.exit, world.Finish)
	g.finished = true
}

// Carved returns how many wall cells the run has opened so far
func (g *LineWalkerGenerator) Carved() int {
	return g.carved
}

// Progress returns the fraction of main arms dug to their end
func (g *LineWalkerGenerator) Progress() float64 {
	if g.finished {
		return 1
	}
	if g.rootsTotal == 0 {
		return 0
	}
	return float64(g.rootsDone) / float64(g.rootsTotal)
}
