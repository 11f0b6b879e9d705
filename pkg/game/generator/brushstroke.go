package generator

import (
	"math"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// The brush never leaves this normalized band, so its stamp stays on the map
const (
	brushMinPos = 0.02
	brushMaxPos = 0.98
)

type vec2 struct {
	X, Y float64
}

func (v vec2) length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v vec2) normalized() vec2 {
	l := v.length()
	if l == 0 {
		return vec2{}
	}
	return vec2{v.X / l, v.Y / l}
}

// smoothStep eases from a to b as t goes 0..1 (t is clamped)
func smoothStep(a, b, t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	t = t * t * (3 - 2*t)
	return a + (b-a)*t
}

// BrushstrokeGenerator carves the map with a simulated ink drop that
// wanders under random acceleration, damping and wall bounces, opening a
// disc of cells wherever it passes.
type BrushstrokeGenerator struct {
	base
	cfg BrushstrokeConfig

	acceleration float64
	damping      float64
	minRadius    float64
	maxRadius    float64

	position      vec2 // normalized
	startPosition vec2
	velocity      vec2 // cells per step
	radius        float64

	radiusTimer     float64
	animStartRadius float64
	animEndRadius   float64

	stepsRemaining int
}

// NewBrushstroke creates a brush generator after validating cfg
func NewBrushstroke(cfg BrushstrokeConfig) (*BrushstrokeGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BrushstrokeGenerator{base: newBase(cfg.Width, cfg.Height), cfg: cfg}, nil
}

// Name returns the name of this generator
func (g *BrushstrokeGenerator) Name() string {
	return "Brushstroke"
}

// Kind returns the registry kind of this generator
func (g *BrushstrokeGenerator) Kind() Kind {
	return KindBrushstroke
}

// Start samples this run's physics and walls the whole map
func (g *BrushstrokeGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}
	c := g.cfg

	g.minRadius = rng.Range(src, c.MinimumRadius, c.MaximumRadius)
	g.maxRadius = rng.Range(src, c.MinimumRadius, c.MaximumRadius)
	g.acceleration = rng.Range(src, c.MinAcceleration, c.MaxAcceleration)
	g.damping = rng.Range(src, c.MinDamping, c.MaxDamping)
	if g.minRadius > g.maxRadius {
		g.minRadius, g.maxRadius = g.maxRadius, g.minRadius
	}

	g.radius = rng.Range(src, g.minRadius, g.maxRadius)
	g.retargetRadius()
	g.position = vec2{
		X: clamp(src.Float64(), brushMinPos, brushMaxPos),
		Y: clamp(src.Float64(), brushMinPos, brushMaxPos),
	}
	g.startPosition = g.position
	g.velocity = vec2{}
	g.stepsRemaining = c.StepCount

	g.grid.Fill(world.Wall)
	g.stamp()
	return nil
}

func (g *BrushstrokeGenerator) retargetRadius() {
	g.animStartRadius = g.radius
	g.animEndRadius = rng.Range(g.src, g.minRadius, g.maxRadius)
	g.radiusTimer = 0
}

// Tick advances the drop by up to steps integration steps
func (g *BrushstrokeGenerator) Tick(steps int) error {
	if ok, err := g.ready(); !ok {
		return err
	}

	n := budget(steps, g.stepsRemaining)
	for i := 0; i < n; i++ {
		g.step()
	}

	if g.stepsRemaining == 0 {
		g.grid.SetTileAt(g.cellOf(g.startPosition), world.Start)
		g.grid.SetTileAt(g.cellOf(g.position), world.Finish)
		g.finished = true
	}
	return nil
}

func (g *BrushstrokeGenerator) step() {
	g.stepsRemaining--

	g.radiusTimer += 1 / float64(g.cfg.TicksPerRadiusChange)
	g.radius = smoothStep(g.animStartRadius, g.animEndRadius, g.radiusTimer)
	if g.radiusTimer > 1 {
		g.retargetRadius()
	}

	ux, uy := rng.UnitVector(g.src)
	g.velocity.X = (g.velocity.X + ux*g.acceleration) * g.damping
	g.velocity.Y = (g.velocity.Y + uy*g.acceleration) * g.damping

	// split the move into sub-steps no longer than one cell
	dist := g.velocity.length()
	subSteps := int(math.Ceil(dist))
	if subSteps < 1 {
		subSteps = 1
	}
	stepDist := dist / float64(subSteps)

	w, h := float64(g.grid.Width()), float64(g.grid.Height())
	for s := 0; s < subSteps; s++ {
		dir := g.velocity.normalized()
		g.position.X += dir.X * stepDist / w
		g.position.Y += dir.Y * stepDist / h

		if g.position.X < brushMinPos {
			g.position.X = brushMinPos
			g.velocity.X *= -g.cfg.Bounce
		}
		if g.position.X > brushMaxPos {
			g.position.X = brushMaxPos
			g.velocity.X *= -g.cfg.Bounce
		}
		if g.position.Y < brushMinPos {
			g.position.Y = brushMinPos
			g.velocity.Y *= -g.cfg.Bounce
		}
		if g.position.Y > brushMaxPos {
			g.position.Y = brushMaxPos
			g.velocity.Y *= -g.cfg.Bounce
		}

		g.stamp()
	}
}

// stamp opens every cell whose center lies strictly inside the brush disc
func (g *BrushstrokeGenerator) stamp() {
	cx := g.position.X * float64(g.grid.Width())
	cy := g.position.Y * float64(g.grid.Height())
	r2 := g.radius * g.radius

	x0, x1 := int(math.Floor(cx-g.radius)), int(math.Floor(cx+g.radius+1))
	y0, y1 := int(math.Floor(cy-g.radius)), int(math.Floor(cy+g.radius+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy < r2 {
				g.grid.SetTile(x, y, world.Open)
			}
		}
	}
}

func (g *BrushstrokeGenerator) cellOf(p vec2) world.Point {
	return world.Pt(int(p.X*float64(g.grid.Width())), int(p.Y*float64(g.grid.Height())))
}

// Position returns the drop's normalized position
func (g *BrushstrokeGenerator) Position() (x, y float64) {
	return g.position.X, g.position.Y
}

// Radius returns the current brush radius in cells
func (g *BrushstrokeGenerator) Radius() float64 {
	return g.radius
}

// RadiusBounds returns the radius range sampled for this run
func (g *BrushstrokeGenerator) RadiusBounds() (min, max float64) {
	return g.minRadius, g.maxRadius
}

// Progress returns the fraction of steps performed
func (g *BrushstrokeGenerator) Progress() float64 {
	if g.finished {
		return 1
	}
	if g.cfg.StepCount == 0 {
		return 0
	}
	return 1 - float64(g.stepsRemaining)/float64(g.cfg.StepCount)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
