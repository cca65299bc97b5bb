package parameter

import "time"

// Settings defaults, all live-updatable through the field
const (
	// DefaultCrackInterval is the base time between autonomous crack attempts
	DefaultCrackInterval = 3 * time.Second

	// DefaultCrackCount is the maximum simultaneous cracks before FIFO eviction
	DefaultCrackCount = 40

	// DefaultInjectionRadius is the max growth radius of new injections (field units)
	DefaultInjectionRadius = 80.0

	// DefaultInjectionSpeed is the radius growth per tick
	DefaultInjectionSpeed = 1.5

	// DefaultScrollSensitivity scales scroll-triggered spawning and growth boost
	DefaultScrollSensitivity = 0.5
)

// Field initialization
const (
	// InitialMainMin/Max is the count range of edge cracks at creation (inclusive)
	InitialMainMin = 8
	InitialMainMax = 12

	// InitialBranchMin/Max is the count range of cracks rooted on existing cracks (inclusive)
	InitialBranchMin = 5
	InitialBranchMax = 10
)

// Random walk geometry
const (
	// MainSegmentsMin/Max is the step range for main (edge) cracks, max exclusive
	MainSegmentsMin = 40
	MainSegmentsMax = 90

	// SecondarySegmentsMin/Max is the step range for interior cracks, max exclusive
	SecondarySegmentsMin = 25
	SecondarySegmentsMax = 65

	// BranchSegmentsMin/Max is the step range for branch walks, max exclusive
	BranchSegmentsMin = 6
	BranchSegmentsMax = 21

	// CenterJitter is the max deviation (rad, each side) from the center heading of main cracks
	CenterJitter = 0.25

	// TurnJitter is the per-step heading noise (rad, each side)
	TurnJitter = 0.15

	// SharpTurnChance is the per-step chance of a sharp turn for main/secondary walks
	SharpTurnChance = 0.20

	// BranchSharpTurnChance is the per-step chance of a sharp turn for branch walks
	BranchSharpTurnChance = 0.25

	// SharpTurnMax is the max added sharp turn (rad, each side)
	SharpTurnMax = 1.25

	// ShortStepChance selects a short step over a long one
	ShortStepChance = 0.30

	// ShortStepMin/Max and LongStepMin/Max are step lengths in field units
	ShortStepMin = 3.0
	ShortStepMax = 11.0
	LongStepMin  = 10.0
	LongStepMax  = 40.0

	// BranchStepScale shortens branch steps relative to the parent walk
	BranchStepScale = 0.6

	// WidthKneeProgress is the path fraction where the width ramp changes slope
	// WidthKneeGrowth is the fraction of width growth reached at the knee
	WidthKneeProgress = 0.30
	WidthKneeGrowth   = 0.50

	// MidBranchChance is the per-step chance of a mid-path branch
	MidBranchChance = 0.08

	// MidBranchFrom/To bound the path fraction where mid-path branches may spawn
	MidBranchFrom = 0.30
	MidBranchTo   = 0.90

	// AttractionChance is the per-step chance of bending toward the nearest existing crack
	AttractionChance = 0.15

	// AttractionPull is the fraction of the heading difference applied on attraction
	AttractionPull = 0.40

	// BoundsMargin is the oversize fraction of the canvas before a walk terminates
	BoundsMargin = 0.10

	// PerpendicularJitter is the heading noise of branches rooted on existing cracks
	PerpendicularJitter = 0.5
)

// Stroke widths (field units)
const (
	MainBaseWidthMin = 0.5
	MainBaseWidthMax = 1.2
	MainMaxWidthMin  = 3.0
	MainMaxWidthMax  = 6.5

	SecondaryBaseWidthMin = 0.3
	SecondaryBaseWidthMax = 0.8
	SecondaryMaxWidthMin  = 1.5
	SecondaryMaxWidthMax  = 3.5

	BranchBaseWidthMin = 0.2
	BranchBaseWidthMax = 0.5
	BranchMaxWidthMin  = 0.8
	BranchMaxWidthMax  = 2.0
)

// Reveal speeds (progress per tick)
const (
	MainRevealSpeedMin   = 0.004
	MainRevealSpeedMax   = 0.010
	BranchRevealSpeedMin = 0.010
	BranchRevealSpeedMax = 0.025
)

// Autonomous growth
const (
	// IntervalJitter is the +/- fraction applied to CrackInterval per attempt
	IntervalJitter = 0.25

	// AutoCrackChance is the chance an elapsed interval actually creates a crack
	AutoCrackChance = 0.70

	// AutoCrackFill is the population fraction of CrackCount below which timed cracks spawn
	AutoCrackFill = 0.90

	// AutoBranchChance selects branch-from-existing over a fresh interior crack
	AutoBranchChance = 0.40

	// ScrollThreshold is the minimum scroll delta (field units) that counts as activity
	ScrollThreshold = 10.0

	// ScrollBoostDivisor normalizes scroll delta into a growth boost
	ScrollBoostDivisor = 100.0

	// ScrollSpawnFactor scales ScrollSensitivity into a spawn chance
	ScrollSpawnFactor = 0.2

	// ScrollSpawnFill is the population fraction of CrackCount below which scroll cracks spawn
	ScrollSpawnFill = 0.80

	// GrowthBoostFactor multiplies growth boost into reveal speed: speed * (1 + f*boost)
	GrowthBoostFactor = 2.0
)
