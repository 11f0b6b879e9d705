// Package curator drives a population of map generators, scores each
// finished map by its start-to-finish path length and picks one
// representative map by fitness percentile.
package curator

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/zyedidia/generic/queue"

	"mapcurator/pkg/engine/pathing"
	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/game/generator"
)

// ErrInvalidConfig is returned for a curator config that cannot run
var ErrInvalidConfig = errors.New("invalid curator config")

// Config controls how a population is driven and ranked
type Config struct {
	Count        int  // generators in the population
	StepsPerTick int  // work units each generator gets per Tick
	FastForward  bool // run every generator to completion in one Tick

	FitnessCheck      bool    // measure and rank finished maps
	FitnessPercentile float64 // 0 picks the best map, 1 the worst
	FillInactiveTiles bool    // wall every cell the path search did not reach
}

// DefaultConfig returns the curator defaults
func DefaultConfig() Config {
	return Config{
		Count:             16,
		StepsPerTick:      50,
		FitnessCheck:      true,
		FitnessPercentile: 0,
	}
}

// Validate checks the config for values the curator cannot run with
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: Count must be at least 1, got %d", ErrInvalidConfig, c.Count)
	}
	if c.StepsPerTick < 1 {
		return fmt.Errorf("%w: StepsPerTick must be at least 1, got %d", ErrInvalidConfig, c.StepsPerTick)
	}
	if !(c.FitnessPercentile >= 0 && c.FitnessPercentile <= 1) {
		return fmt.Errorf("%w: FitnessPercentile must be in [0,1], got %v", ErrInvalidConfig, c.FitnessPercentile)
	}
	return nil
}

// Factory builds one member of the population
type Factory func() (generator.Generator, error)

// Candidate is one generator of the population and its measured result
type Candidate struct {
	Index     int // position in creation order
	Generator generator.Generator
	Fitness   int
	Err       error // set when the generator's run failed
}

func (c *Candidate) done() bool {
	return c.Err != nil || c.Generator.Finished()
}

// Curator owns a population of generators
type Curator struct {
	cfg        Config
	src        rng.Source
	candidates []*Candidate
	ranked     []*Candidate
	pathfinder *pathing.PathFinder
	started    bool
	measured   bool
	best       *Candidate
	logf       func(format string, args ...any)
}

// New builds cfg.Count generators from factory. src seeds every run; each
// generator gets its own derived stream.
func New(cfg Config, factory Factory, src rng.Source) (*Curator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	c := &Curator{
		cfg:        cfg,
		src:        src,
		pathfinder: pathing.New(),
		logf:       func(string, ...any) {},
	}
	for i := 0; i < cfg.Count; i++ {
		g, err := factory()
		if err != nil {
			return nil, fmt.Errorf("building generator %d: %w", i, err)
		}
		c.candidates = append(c.candidates, &Candidate{Index: i, Generator: g})
	}
	return c, nil
}

// SetLogger routes progress messages to fn. A nil fn silences them.
func (c *Curator) SetLogger(fn func(format string, args ...any)) {
	if fn == nil {
		fn = func(string, ...any) {}
	}
	c.logf = fn
}

// Config returns the active configuration
func (c *Curator) Config() Config {
	return c.cfg
}

// SetFastForward switches between budgeted and run-to-completion ticks
func (c *Curator) SetFastForward(on bool) {
	c.cfg.FastForward = on
}

// SetPercentile changes the selection rank and re-picks the best map
// without measuring again
func (c *Curator) SetPercentile(p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: FitnessPercentile must be in [0,1], got %v", ErrInvalidConfig, p)
	}
	c.cfg.FitnessPercentile = p
	c.pick()
	return nil
}

// PercentileStep is how far one key press moves the selection rank
const PercentileStep = 0.05

// StepPercentile moves the selection rank by delta, clamped to [0,1] and
// rounded to two decimals so repeated steps do not drift
func (c *Curator) StepPercentile(delta float64) float64 {
	p := c.cfg.FitnessPercentile + delta
	p = math.Round(math.Max(0, math.Min(1, p))*100) / 100
	c.cfg.FitnessPercentile = p
	c.pick()
	return p
}

func (c *Curator) budget() int {
	if c.cfg.FastForward {
		return generator.RunToCompletion
	}
	return c.cfg.StepsPerTick
}

// Start begins a fresh run on every generator. Failed starts are recorded
// on the candidate rather than stopping the population.
func (c *Curator) Start() {
	c.clear()
	c.started = true
	for _, cand := range c.candidates {
		if err := cand.Generator.Start(rng.Derive(c.src)); err != nil {
			cand.Err = err
			c.logf("generator %d (%s) failed to start: %v", cand.Index, cand.Generator.Name(), err)
		}
	}
}

// Reset rebuilds every grid, restarts every generator with one tick of
// work and discards the previous measurement
func (c *Curator) Reset() {
	c.clear()
	c.started = true
	for _, cand := range c.candidates {
		if err := generator.Reset(cand.Generator, rng.Derive(c.src), c.budget()); err != nil {
			cand.Err = err
			c.logf("generator %d (%s) failed on reset: %v", cand.Index, cand.Generator.Name(), err)
		}
	}
	c.measureIfDone()
}

func (c *Curator) clear() {
	for _, cand := range c.candidates {
		cand.Fitness = 0
		cand.Err = nil
	}
	c.ranked = nil
	c.best = nil
	c.measured = false
}

// Tick gives every unfinished generator one budget of work and measures
// the population once all of them are done. It reports whether the
// population has been measured. The population is started on first use.
func (c *Curator) Tick() bool {
	if !c.started {
		c.Start()
	}
	if c.measured {
		return true
	}

	pending := queue.New[*Candidate]()
	for _, cand := range c.candidates {
		if !cand.done() {
			pending.Enqueue(cand)
		}
	}
	steps := c.budget()
	for !pending.Empty() {
		cand := pending.Dequeue()
		if err := cand.Generator.Tick(steps); err != nil {
			cand.Err = err
			c.logf("generator %d (%s) failed: %v", cand.Index, cand.Generator.Name(), err)
		}
	}

	c.measureIfDone()
	return c.measured
}

func (c *Curator) measureIfDone() {
	for _, cand := range c.candidates {
		if !cand.done() {
			return
		}
	}
	c.Evaluate()
}

// Run starts the population and ticks it until it has been measured
func (c *Curator) Run() {
	c.Start()
	for !c.Tick() {
	}
}

// Evaluate measures every candidate and ranks the population. Candidates
// missing a start or finish score 0. With FitnessCheck off nothing is
// measured and there is no best map.
func (c *Curator) Evaluate() {
	c.measured = true
	c.best = nil
	c.ranked = nil
	if !c.cfg.FitnessCheck {
		c.logf("population of %d finished, fitness check disabled", len(c.candidates))
		return
	}

	for _, cand := range c.candidates {
		cand.Fitness = 0
		grid := cand.Generator.Grid()
		start, okS := grid.StartCell()
		finish, okF := grid.FinishCell()
		if !okS || !okF {
			continue
		}
		cand.Fitness = c.pathfinder.Distance(grid, start, finish)
		if c.cfg.FillInactiveTiles {
			c.pathfinder.WallUnreached(grid)
		}
	}

	c.ranked = slices.Clone(c.candidates)
	slices.SortStableFunc(c.ranked, func(a, b *Candidate) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
	c.pick()
	if c.best != nil {
		c.logf("population of %d measured, picked generator %d with fitness %d (percentile %.2f)",
			len(c.ranked), c.best.Index, c.best.Fitness, c.cfg.FitnessPercentile)
	}
}

func (c *Curator) pick() {
	if len(c.ranked) == 0 {
		c.best = nil
		return
	}
	c.best = c.ranked[PercentileIndex(c.cfg.FitnessPercentile, len(c.ranked))]
}

// PercentileIndex maps a percentile to an index into a list of n entries
// sorted best first: 0 is the first entry and 1 the last.
func PercentileIndex(p float64, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(p * float64(n-1)))
	return max(0, min(n-1, i))
}

// Measured reports whether the current population has been evaluated
func (c *Curator) Measured() bool {
	return c.measured
}

// Best returns the candidate chosen by percentile, if any
func (c *Curator) Best() (*Candidate, bool) {
	return c.best, c.best != nil
}

// Candidates returns the population in creation order
func (c *Curator) Candidates() []*Candidate {
	return c.candidates
}

// Ranked returns the population sorted by descending fitness, or nil
// before measurement
func (c *Curator) Ranked() []*Candidate {
	return c.ranked
}

// Progress returns the mean progress of the population
func (c *Curator) Progress() float64 {
	if len(c.candidates) == 0 {
		return 1
	}
	total := 0.0
	for _, cand := range c.candidates {
		if cand.done() {
			total++
			continue
		}
		total += cand.Generator.Progress()
	}
	return total / float64(len(c.candidates))
}
