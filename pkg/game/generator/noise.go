package generator

import (
	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// NoiseGenerator decides wall/open independently per cell.
// It is the baseline the room-based strategies are measured against.
type NoiseGenerator struct {
	base
	cfg NoiseConfig
}

// NewNoise creates a noise generator after validating cfg
func NewNoise(cfg NoiseConfig) (*NoiseGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &NoiseGenerator{base: newBase(cfg.Width, cfg.Height), cfg: cfg}, nil
}

// Name returns the name of this generator
func (g *NoiseGenerator) Name() string {
	return "Noise"
}

// Kind returns the registry kind of this generator
func (g *NoiseGenerator) Kind() Kind {
	return KindNoise
}

// Start fills the whole map in one go and finishes immediately
func (g *NoiseGenerator) Start(src rng.Source) error {
	if err := g.begin(src); err != nil {
		return err
	}

	grid := g.grid
	grid.Fill(world.Open)
	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			if src.Float64() < g.cfg.WallChance {
				grid.SetTile(x, y, world.Wall)
			}
		}
	}

	// pick finish among the remaining cells so it can never equal start
	cells := grid.Width() * grid.Height()
	start := src.Intn(cells)
	finish := src.Intn(cells - 1)
	if finish >= start {
		finish++
	}
	grid.SetTile(start%grid.Width(), start/grid.Width(), world.Start)
	grid.SetTile(finish%grid.Width(), finish/grid.Width(), world.Finish)

	g.finished = true
	return nil
}

// Tick does nothing; all work happens in Start
func (g *NoiseGenerator) Tick(steps int) error {
	_, err := g.ready()
	return err
}

// Progress returns 1 once started
func (g *NoiseGenerator) Progress() float64 {
	if g.finished {
		return 1
	}
	return 0
}
