package generator

import (
	"errors"
	"fmt"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
)

// RunToCompletion passed as a Tick budget performs all remaining work in one call
const RunToCompletion = -1

// Errors reported by configuration validation and by generation runs
var (
	ErrInvalidConfig   = errors.New("invalid generator config")
	ErrPlacementFailed = errors.New("room placement failed")
	ErrNoRooms         = errors.New("no usable rooms")
	ErrNotStarted      = errors.New("generator not started")
	ErrUnknownKind     = errors.New("unknown generator kind")
)

// Generator is an incremental map generation algorithm.
//
// Start seeds the run and resets the grid. Tick then performs at most the
// given number of work units (or everything left, for RunToCompletion)
// and is called until Finished reports true. Ticks after that are no-ops.
type Generator interface {
	Name() string
	Kind() Kind
	Grid() *world.Grid
	Start(src rng.Source) error
	Tick(steps int) error
	Finished() bool
	Progress() float64
	Err() error
}

// Reset starts a fresh run, which rebuilds the grid, and performs one tick
func Reset(g Generator, src rng.Source, steps int) error {
	if err := g.Start(src); err != nil {
		return err
	}
	return g.Tick(steps)
}

// Run starts g and ticks it until it finishes
func Run(g Generator, src rng.Source) error {
	if err := g.Start(src); err != nil {
		return err
	}
	for !g.Finished() {
		if err := g.Tick(RunToCompletion); err != nil {
			return err
		}
	}
	return g.Err()
}

// base carries the state every generator shares
type base struct {
	grid     *world.Grid
	src      rng.Source
	finished bool
	err      error
}

func newBase(width, height int) base {
	return base{grid: world.NewGrid(width, height)}
}

// Grid returns the grid this generator writes to
func (b *base) Grid() *world.Grid {
	return b.grid
}

// Finished returns true once the run has completed
func (b *base) Finished() bool {
	return b.finished
}

// Err returns the error that ended the run early, if any
func (b *base) Err() error {
	return b.err
}

func (b *base) begin(src rng.Source) error {
	if src == nil {
		return fmt.Errorf("%w: nil random source", ErrNotStarted)
	}
	// tiles and room ids from a previous run must not leak into this one
	b.grid.Reset()
	b.src = src
	b.finished = false
	b.err = nil
	return nil
}

// ready reports whether a Tick should do any work
func (b *base) ready() (bool, error) {
	if b.finished {
		return false, nil
	}
	if b.src == nil {
		return false, ErrNotStarted
	}
	return true, nil
}

func (b *base) fail(err error) error {
	b.err = err
	b.finished = true
	return err
}

// budget clamps a Tick request to the work remaining
func budget(steps, remaining int) int {
	if steps < 0 || steps > remaining {
		return remaining
	}
	return steps
}

func (b *base) randomDirection() world.Direction {
	return world.Direction(b.src.Intn(4))
}
