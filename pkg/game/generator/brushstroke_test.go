package generator

import (
	"testing"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

const brushEpsilon = 1e-9

func newTestBrush(t *testing.T) *BrushstrokeGenerator {
	t.Helper()
	cfg := DefaultBrushstrokeConfig()
	cfg.Width, cfg.Height, cfg.StepCount = 32, 32, 300
	g, err := NewBrushstroke(cfg)
	if err != nil {
		t.Fatalf("NewBrushstroke error: %v", err)
	}
	return g
}

func TestBrushstroke_StaysInsideBand(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := newTestBrush(t)
		if err := g.Start(rng.New(seed)); err != nil {
			t.Fatalf("Start error: %v", err)
		}
		lo, hi := g.RadiusBounds()
		if lo > hi {
			t.Fatalf("seed %d: radius bounds inverted: %v > %v", seed, lo, hi)
		}
		for !g.Finished() {
			if err := g.Tick(1); err != nil {
				t.Fatalf("Tick error: %v", err)
			}
			x, y := g.Position()
			if x < brushMinPos-brushEpsilon || x > brushMaxPos+brushEpsilon ||
				y < brushMinPos-brushEpsilon || y > brushMaxPos+brushEpsilon {
				t.Fatalf("seed %d: position (%v,%v) left the band", seed, x, y)
			}
			if r := g.Radius(); r < lo-brushEpsilon || r > hi+brushEpsilon {
				t.Fatalf("seed %d: radius %v outside [%v,%v]", seed, r, lo, hi)
			}
		}
	}
}

func TestBrushstroke_CarvesAndPlacesEndpoints(t *testing.T) {
	g := newTestBrush(t)
	if err := Run(g, rng.New(21)); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	grid := g.Grid()
	if _, ok := grid.StartCell(); !ok {
		t.Error("no start cell placed")
	}
	if _, ok := grid.FinishCell(); !ok {
		t.Error("no finish cell placed")
	}
	if grid.Count(world.Open) == 0 {
		t.Error("brush opened no cells")
	}
	if grid.Count(world.Wall) == 0 {
		t.Error("brush opened every cell of a 32x32 map in 300 steps")
	}
}

func TestBrushstroke_StartStampsImmediately(t *testing.T) {
	g := newTestBrush(t)
	if err := g.Start(rng.New(2)); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	// minimum radius is one cell, so the cell under the brush is open
	x, y := g.Position()
	cell := world.Pt(int(x*32), int(y*32))
	if got := g.Grid().TileAt(cell); got != world.Open {
		t.Errorf("cell under brush after Start = %v, want Open", got)
	}
}

func TestBrushstroke_ProgressCountsSteps(t *testing.T) {
	g := newTestBrush(t)
	if err := g.Start(rng.New(3)); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if g.Progress() != 0 {
		t.Errorf("Progress() after Start = %v, want 0", g.Progress())
	}
	if err := g.Tick(150); err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if got := g.Progress(); got != 0.5 {
		t.Errorf("Progress() after half the steps = %v, want 0.5", got)
	}
}
