package generator

import (
	"errors"
	"testing"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// smallConfigs returns one quick-running generator per kind
func smallConfigs(t *testing.T) map[Kind]func() Generator {
	t.Helper()
	must := func(g Generator, err error) Generator {
		t.Helper()
		if err != nil {
			t.Fatalf("constructing generator: %v", err)
		}
		return g
	}
	return map[Kind]func() Generator{
		KindNoise: func() Generator {
			cfg := DefaultNoiseConfig()
			cfg.Width, cfg.Height = 24, 18
			g, err := NewNoise(cfg)
			return must(g, err)
		},
		KindBrushstroke: func() Generator {
			cfg := DefaultBrushstrokeConfig()
			cfg.Width, cfg.Height, cfg.StepCount = 32, 24, 200
			g, err := NewBrushstroke(cfg)
			return must(g, err)
		},
		KindRectRoom: func() Generator {
			cfg := DefaultRectRoomConfig()
			cfg.Width, cfg.Height = 40, 30
			cfg.MinRoomCount, cfg.MaxRoomCount = 8, 16
			cfg.MinExpansionAttempts, cfg.MaxExpansionAttempts = 200, 400
			g, err := NewRectRoom(cfg)
			return must(g, err)
		},
		KindVoronoi: func() Generator {
			cfg := DefaultVoronoiConfig()
			cfg.Width, cfg.Height = 32, 32
			cfg.MinRoomCount, cfg.MaxRoomCount = 12, 24
			cfg.PushApartIterations = 20
			g, err := NewVoronoi(cfg)
			return must(g, err)
		},
		KindLineWalker: func() Generator {
			cfg := DefaultLineWalkerConfig()
			cfg.Width, cfg.Height = 30, 20
			g, err := NewLineWalker(cfg)
			return must(g, err)
		},
		KindBSP: func() Generator {
			cfg := DefaultBSPConfig()
			cfg.Width, cfg.Height = 40, 30
			g, err := NewBSP(cfg)
			return must(g, err)
		},
	}
}

func sameTiles(a, b *world.Grid) bool {
	sa, sb := a.Snapshot(), b.Snapshot()
	if len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func TestNew_AllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		g, err := New(kind, 20, 20)
		if err != nil {
			t.Fatalf("New(%q) error: %v", kind, err)
		}
		if g.Kind() != kind {
			t.Errorf("New(%q).Kind() = %q", kind, g.Kind())
		}
		if g.Name() == "" {
			t.Errorf("New(%q).Name() is empty", kind)
		}
		if g.Grid().Width() != 20 || g.Grid().Height() != 20 {
			t.Errorf("New(%q) grid = %dx%d, want 20x20", kind, g.Grid().Width(), g.Grid().Height())
		}
	}
}

func TestNew_UnknownKind(t *testing.T) {
	if _, err := New("maze", 10, 10); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(\"maze\") error = %v, want ErrUnknownKind", err)
	}
}

func TestNew_RejectsZeroSize(t *testing.T) {
	for _, kind := range Kinds() {
		if _, err := New(kind, 0, 10); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%q, 0, 10) error = %v, want ErrInvalidConfig", kind, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	noise := DefaultNoiseConfig()
	noise.WallChance = -0.1

	brush := DefaultBrushstrokeConfig()
	brush.Bounce = 1.5

	brushRadius := DefaultBrushstrokeConfig()
	brushRadius.MinimumRadius = 0

	rect := DefaultRectRoomConfig()
	rect.MinRoomCount, rect.MaxRoomCount = 10, 5

	rectSmall := DefaultRectRoomConfig()
	rectSmall.Width = 2

	vor := DefaultVoronoiConfig()
	vor.MinIgnoreRoom = 1

	vorSamples := DefaultVoronoiConfig()
	vorSamples.SamplesPerStep = 0

	walker := DefaultLineWalkerConfig()
	walker.BranchDecay = 0

	walkerSmall := DefaultLineWalkerConfig()
	walkerSmall.Height = 4

	bsp := DefaultBSPConfig()
	bsp.MinNodeSize = 5

	bspSmall := DefaultBSPConfig()
	bspSmall.Width = 9

	cases := []struct {
		name string
		err  error
	}{
		{"noise probability", noise.Validate()},
		{"brush bounce", brush.Validate()},
		{"brush radius", brushRadius.Validate()},
		{"rect inverted counts", rect.Validate()},
		{"rect too narrow", rectSmall.Validate()},
		{"voronoi skip period", vor.Validate()},
		{"voronoi samples", vorSamples.Validate()},
		{"walker decay", walker.Validate()},
		{"walker too short", walkerSmall.Validate()},
		{"bsp node size", bsp.Validate()},
		{"bsp too narrow", bspSmall.Validate()},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, ErrInvalidConfig) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidConfig", tc.name, tc.err)
		}
	}

	for _, err := range []error{
		DefaultNoiseConfig().Validate(),
		DefaultBrushstrokeConfig().Validate(),
		DefaultRectRoomConfig().Validate(),
		DefaultVoronoiConfig().Validate(),
		DefaultLineWalkerConfig().Validate(),
		DefaultBSPConfig().Validate(),
	} {
		if err != nil {
			t.Errorf("default config rejected: %v", err)
		}
	}
}

func TestTick_BeforeStart(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		g := build()
		if err := g.Tick(1); !errors.Is(err, ErrNotStarted) {
			t.Errorf("%s: Tick before Start = %v, want ErrNotStarted", kind, err)
		}
		if err := g.Start(nil); !errors.Is(err, ErrNotStarted) {
			t.Errorf("%s: Start(nil) = %v, want ErrNotStarted", kind, err)
		}
	}
}

func TestRun_DeterministicPerSeed(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		a, b := build(), build()
		if err := Run(a, rng.New(99)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}
		if err := Run(b, rng.New(99)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}
		if !sameTiles(a.Grid(), b.Grid()) {
			t.Errorf("%s: two runs with the same seed produced different grids", kind)
		}
	}
}

func TestTick_BudgetDoesNotChangeResult(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		fast, slow := build(), build()
		if err := Run(fast, rng.New(5)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}

		if err := slow.Start(rng.New(5)); err != nil {
			t.Fatalf("%s: Start error: %v", kind, err)
		}
		ticks := 0
		last := -1.0
		for !slow.Finished() {
			if err := slow.Tick(7); err != nil {
				t.Fatalf("%s: Tick error: %v", kind, err)
			}
			if p := slow.Progress(); p < last {
				t.Errorf("%s: Progress went backwards: %v -> %v", kind, last, p)
			} else {
				last = p
			}
			ticks++
			if ticks > 100000 {
				t.Fatalf("%s: did not finish", kind)
			}
		}
		if slow.Progress() != 1 {
			t.Errorf("%s: Progress() after finish = %v, want 1", kind, slow.Progress())
		}
		if !sameTiles(fast.Grid(), slow.Grid()) {
			t.Errorf("%s: budgeted ticks diverged from a fast-forward run", kind)
		}
	}
}

func TestTick_FinishedIgnoresFurtherTicks(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		g := build()
		if err := Run(g, rng.New(3)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}
		before := g.Grid().Snapshot()
		if err := g.Tick(RunToCompletion); err != nil {
			t.Errorf("%s: Tick after finish = %v, want nil", kind, err)
		}
		after := g.Grid().Snapshot()
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("%s: Tick after finish changed cell %d", kind, i)
			}
		}
	}
}

func TestStart_InitializesWholeGrid(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		g := build()
		if err := g.Start(rng.New(17)); err != nil {
			t.Fatalf("%s: Start error: %v", kind, err)
		}
		g.Grid().ForEachCell(func(x, y int, tile world.TileType) {
			if tile == world.OutOfBounds || !tile.IsValid() {
				t.Fatalf("%s: cell (%d,%d) = %v after Start", kind, x, y, tile)
			}
		})
	}
}

func TestReset_RestartsRun(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		g := build()
		if err := Run(g, rng.New(8)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}
		if err := Reset(g, rng.New(8), 1); err != nil {
			t.Fatalf("%s: Reset error: %v", kind, err)
		}
		for !g.Finished() {
			if err := g.Tick(RunToCompletion); err != nil {
				t.Fatalf("%s: Tick error: %v", kind, err)
			}
		}

		fresh := build()
		if err := Run(fresh, rng.New(8)); err != nil {
			t.Fatalf("%s: Run error: %v", kind, err)
		}
		if !sameTiles(g.Grid(), fresh.Grid()) {
			t.Errorf("%s: Reset run differs from a fresh run with the same seed", kind)
		}
	}
}

func sameRooms(a, b *world.Grid) bool {
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.Room(x, y) != b.Room(x, y) {
				return false
			}
		}
	}
	return true
}

func TestStart_SecondRunMatchesFreshRun(t *testing.T) {
	for kind, build := range smallConfigs(t) {
		for seed := int64(1); seed <= 5; seed++ {
			g := build()
			if err := Run(g, rng.New(seed)); err != nil {
				t.Fatalf("%s seed %d: first Run error: %v", kind, seed, err)
			}
			second := seed + 1000
			if err := Run(g, rng.New(second)); err != nil {
				t.Fatalf("%s seed %d: second Run error: %v", kind, second, err)
			}

			fresh := build()
			if err := Run(fresh, rng.New(second)); err != nil {
				t.Fatalf("%s seed %d: fresh Run error: %v", kind, second, err)
			}
			grid := g.Grid()
			if !sameTiles(grid, fresh.Grid()) {
				t.Errorf("%s seed %d: rerun tiles differ from a fresh run", kind, second)
			}
			if !sameRooms(grid, fresh.Grid()) {
				t.Errorf("%s seed %d: rerun room ids differ from a fresh run", kind, second)
			}

			// room ids only ever mark passable cells of rooms this run made
			regions := -1
			if r, ok := g.(interface{ Regions() []Region }); ok {
				regions = len(r.Regions())
			}
			grid.ForEachCell(func(x, y int, tile world.TileType) {
				id := grid.Room(x, y)
				if id == world.NoRoom {
					return
				}
				if regions >= 0 && id >= regions {
					t.Errorf("%s seed %d: cell (%d,%d) has room %d of %d", kind, second, x, y, id, regions)
				}
				if !tile.IsPassable() && kind != KindVoronoi {
					t.Errorf("%s seed %d: wall cell (%d,%d) still carries room %d", kind, second, x, y, id)
				}
			})
		}
	}
}
