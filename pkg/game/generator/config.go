package generator

import (
	"fmt"
)

// Kind names a generation strategy
type Kind string

// Available generator kinds
const (
	KindNoise       Kind = "noise"
	KindBrushstroke Kind = "brush"
	KindRectRoom    Kind = "rect"
	KindVoronoi     Kind = "voronoi"
	KindLineWalker  Kind = "walker"
	KindBSP         Kind = "bsp"
)

// DefaultKind is used when a host does not choose one
const DefaultKind = KindRectRoom

// Default map size
const (
	DefaultWidth  = 64
	DefaultHeight = 64
)

// Kinds returns every registered kind in a stable order
func Kinds() []Kind {
	return []Kind{KindNoise, KindBrushstroke, KindRectRoom, KindVoronoi, KindLineWalker, KindBSP}
}

// New builds a generator of the given kind with its default config
func New(kind Kind, width, height int) (Generator, error) {
	switch kind {
	case KindNoise:
		cfg := DefaultNoiseConfig()
		cfg.Width, cfg.Height = width, height
		return NewNoise(cfg)
	case KindBrushstroke:
		cfg := DefaultBrushstrokeConfig()
		cfg.Width, cfg.Height = width, height
		return NewBrushstroke(cfg)
	case KindRectRoom:
		cfg := DefaultRectRoomConfig()
		cfg.Width, cfg.Height = width, height
		return NewRectRoom(cfg)
	case KindVoronoi:
		cfg := DefaultVoronoiConfig()
		cfg.Width, cfg.Height = width, height
		return NewVoronoi(cfg)
	case KindLineWalker:
		cfg := DefaultLineWalkerConfig()
		cfg.Width, cfg.Height = width, height
		return NewLineWalker(cfg)
	case KindBSP:
		cfg := DefaultBSPConfig()
		cfg.Width, cfg.Height = width, height
		return NewBSP(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func invalid(field, format string, a ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, a...))
}

func validateSize(width, height, minSide int) error {
	if width < minSide {
		return invalid("Width", "must be at least %d, got %d", minSide, width)
	}
	if height < minSide {
		return invalid("Height", "must be at least %d, got %d", minSide, height)
	}
	return nil
}

func validatePositive(field string, v float64) error {
	if !(v > 0) {
		return invalid(field, "must be positive, got %v", v)
	}
	return nil
}

func validateProbability(field string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return invalid(field, "must be in [0,1], got %v", v)
	}
	return nil
}

func validateCount(field string, v, min int) error {
	if v < min {
		return invalid(field, "must be at least %d, got %d", min, v)
	}
	return nil
}

func validateOrdered(minField string, min int, maxField string, max int) error {
	if min > max {
		return invalid(minField, "(%d) exceeds %s (%d)", min, maxField, max)
	}
	return nil
}

// NoiseConfig configures the per-cell noise baseline
type NoiseConfig struct {
	Width, Height int
	WallChance    float64 // probability in [0,1] that a cell becomes Wall
}

// DefaultNoiseConfig returns the baseline noise settings
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{Width: DefaultWidth, Height: DefaultHeight, WallChance: 0.4}
}

// Validate checks the config for values the generator cannot run with
func (c NoiseConfig) Validate() error {
	if err := validateSize(c.Width, c.Height, 1); err != nil {
		return err
	}
	if c.Width*c.Height < 2 {
		return invalid("Width*Height", "must hold distinct start and finish cells")
	}
	return validateProbability("WallChance", c.WallChance)
}

// BrushstrokeConfig configures the ink-drop carving walk.
// Min/max pairs are sampled once per run and swapped if inverted.
type BrushstrokeConfig struct {
	Width, Height                    int
	MinAcceleration, MaxAcceleration float64
	MinDamping, MaxDamping           float64
	MinimumRadius, MaximumRadius     float64 // in cells
	StepCount                        int
	Bounce                           float64 // fraction of velocity kept on wall hits, [0,1]
	TicksPerRadiusChange             int
}

// DefaultBrushstrokeConfig returns the stock brush settings
func DefaultBrushstrokeConfig() BrushstrokeConfig {
	return BrushstrokeConfig{
		Width:                DefaultWidth,
		Height:               DefaultHeight,
		MinAcceleration:      0.2,
		MaxAcceleration:      1.0,
		MinDamping:           0.85,
		MaxDamping:           0.97,
		MinimumRadius:        1.0,
		MaximumRadius:        4.0,
		StepCount:            800,
		Bounce:               0.5,
		TicksPerRadiusChange: 40,
	}
}

// Validate checks the config for values the generator cannot run with
func (c BrushstrokeConfig) Validate() error {
	if err := validateSize(c.Width, c.Height, 1); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"MinAcceleration", c.MinAcceleration},
		{"MaxAcceleration", c.MaxAcceleration},
		{"MinDamping", c.MinDamping},
		{"MaxDamping", c.MaxDamping},
		{"MinimumRadius", c.MinimumRadius},
		{"MaximumRadius", c.MaximumRadius},
	} {
		if err := validatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	if err := validateCount("StepCount", c.StepCount, 1); err != nil {
		return err
	}
	if err := validateCount("TicksPerRadiusChange", c.TicksPerRadiusChange, 1); err != nil {
		return err
	}
	return validateProbability("Bounce", c.Bounce)
}

// RectRoomConfig configures rectangular room growth and connection
type RectRoomConfig struct {
	Width, Height        int
	MinRoomCount         int
	MaxRoomCount         int
	MinExpansionAttempts int
	MaxExpansionAttempts int
	ConnectionAttempts   int

	// PlacementAttemptsPerRoom bounds the seed placement retries: after
	// this many tries per requested room the run fails.
	PlacementAttemptsPerRoom int
}

// DefaultRectRoomConfig returns the stock room settings
func DefaultRectRoomConfig() RectRoomConfig {
	return RectRoomConfig{
		Width:                    DefaultWidth,
		Height:                   DefaultHeight,
		MinRoomCount:             20,
		MaxRoomCount:             80,
		MinExpansionAttempts:     500,
		MaxExpansionAttempts:     3000,
		ConnectionAttempts:       2000,
		PlacementAttemptsPerRoom: 1000,
	}
}

// Validate checks the config for values the generator cannot run with
func (c RectRoomConfig) Validate() error {
	// seeds live in [1, size-2]
	if err := validateSize(c.Width, c.Height, 3); err != nil {
		return err
	}
	if err := validateCount("MinRoomCount", c.MinRoomCount, 1); err != nil {
		return err
	}
	if err := validateOrdered("MinRoomCount", c.MinRoomCount, "MaxRoomCount", c.MaxRoomCount); err != nil {
		return err
	}
	if err := validateCount("MinExpansionAttempts", c.MinExpansionAttempts, 0); err != nil {
		return err
	}
	if err := validateOrdered("MinExpansionAttempts", c.MinExpansionAttempts, "MaxExpansionAttempts", c.MaxExpansionAttempts); err != nil {
		return err
	}
	if err := validateCount("ConnectionAttempts", c.ConnectionAttempts, 0); err != nil {
		return err
	}
	return validateCount("PlacementAttemptsPerRoom", c.PlacementAttemptsPerRoom, 1)
}

// DefaultProbeReach is how many cells past its own room a Voronoi
// connection probe may travel looking for a neighbour
const DefaultProbeReach = 3

// VoronoiConfig configures the Voronoi partition generator
type VoronoiConfig struct {
	Width, Height       int
	MinRoomCount        int
	MaxRoomCount        int
	PushApartIterations int
	MinSeedRadius       float64 // normalized
	MaxSeedRadius       float64

	// Rooms whose id is a multiple of the skip period are walled off.
	// The period is sampled per run from [MinIgnoreRoom, MaxIgnoreRoom].
	MinIgnoreRoom int
	MaxIgnoreRoom int

	ConnectionAttempts int
	ProbeReach         int

	// SamplesPerStep is how many cells one work unit covers while
	// rasterizing and walling edges.
	SamplesPerStep int
}

// DefaultVoronoiConfig returns the stock Voronoi settings
func DefaultVoronoiConfig() VoronoiConfig {
	return VoronoiConfig{
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		MinRoomCount:        20,
		MaxRoomCount:        100,
		PushApartIterations: 100,
		MinSeedRadius:       0.01,
		MaxSeedRadius:       0.1,
		MinIgnoreRoom:       3,
		MaxIgnoreRoom:       8,
		ConnectionAttempts:  1000,
		ProbeReach:          DefaultProbeReach,
		SamplesPerStep:      50,
	}
}

// Validate checks the config for values the generator cannot run with
func (c VoronoiConfig) Validate() error {
	if err := validateSize(c.Width, c.Height, 1); err != nil {
		return err
	}
	if err := validateCount("MinRoomCount", c.MinRoomCount, 1); err != nil {
		return err
	}
	if err := validateOrdered("MinRoomCount", c.MinRoomCount, "MaxRoomCount", c.MaxRoomCount); err != nil {
		return err
	}
	if err := validateCount("PushApartIterations", c.PushApartIterations, 0); err != nil {
		return err
	}
	if err := validatePositive("MinSeedRadius", c.MinSeedRadius); err != nil {
		return err
	}
	if err := validatePositive("MaxSeedRadius", c.MaxSeedRadius); err != nil {
		return err
	}
	// a period of 1 would wall off every room
	if err := validateCount("MinIgnoreRoom", c.MinIgnoreRoom, 2); err != nil {
		return err
	}
	if err := validateOrdered("MinIgnoreRoom", c.MinIgnoreRoom, "MaxIgnoreRoom", c.MaxIgnoreRoom); err != nil {
		return err
	}
	if err := validateCount("ConnectionAttempts", c.ConnectionAttempts, 0); err != nil {
		return err
	}
	if err := validateCount("ProbeReach", c.ProbeReach, 1); err != nil {
		return err
	}
	return validateCount("SamplesPerStep", c.SamplesPerStep, 1)
}

// LineWalkerConfig configures the branching corridor walker
type LineWalkerConfig struct {
	Width, Height int
	BranchChance  float64 // chance per cell that a main arm branches
	BranchDecay   float64 // subtracted from the chance for every branch generation
	MinSegment    int
	MaxSegment    int
	// ExtraCorridors are additional arms leaving the centre in random directions
	ExtraCorridors int
}

// DefaultLineWalkerConfig returns the stock walker settings
func DefaultLineWalkerConfig() LineWalkerConfig {
	return LineWalkerConfig{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		BranchChance:   0.35,
		BranchDecay:    0.1,
		MinSegment:     2,
		MaxSegment:     6,
		ExtraCorridors: 2,
	}
}

// Validate checks the config for values the generator cannot run with
func (c LineWalkerConfig) Validate() error {
	// the centre needs a playable cell on every side
	if err := validateSize(c.Width, c.Height, 5); err != nil {
		return err
	}
	if err := validateProbability("BranchChance", c.BranchChance); err != nil {
		return err
	}
	// without decay branching might never stop
	if err := validatePositive("BranchDecay", c.BranchDecay); err != nil {
		return err
	}
	if err := validateCount("MinSegment", c.MinSegment, 1); err != nil {
		return err
	}
	if err := validateOrdered("MinSegment", c.MinSegment, "MaxSegment", c.MaxSegment); err != nil {
		return err
	}
	return validateCount("ExtraCorridors", c.ExtraCorridors, 0)
}

// BSPConfig configures binary space partitioning
type BSPConfig struct {
	Width, Height int
	MinNodeSize   int // a node is only split if both halves keep this many cells
	MinRoomSize   int
	RoomPadding   int // a room is at least this much smaller than its leaf on each axis
}

// DefaultBSPConfig returns the stock BSP settings
func DefaultBSPConfig() BSPConfig {
	return BSPConfig{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MinNodeSize: 8,
		MinRoomSize: 4,
		RoomPadding: 2,
	}
}

// Validate checks the config for values the generator cannot run with
func (c BSPConfig) Validate() error {
	// rooms need two cells per side so start and finish can differ
	if err := validateCount("MinRoomSize", c.MinRoomSize, 2); err != nil {
		return err
	}
	if err := validateCount("RoomPadding", c.RoomPadding, 1); err != nil {
		return err
	}
	if c.MinNodeSize < c.MinRoomSize+c.RoomPadding {
		return invalid("MinNodeSize", "must be at least MinRoomSize+RoomPadding (%d), got %d",
			c.MinRoomSize+c.RoomPadding, c.MinNodeSize)
	}
	// the root node sits inside a one-cell border
	return validateSize(c.Width, c.Height, c.MinNodeSize+2)
}
