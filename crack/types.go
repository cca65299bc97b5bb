package crack

import (
	"github.com/lixenwraith/crackfield/parameter"
)

// Kind distinguishes how a crack was grown, which sets its width and reveal ranges
type Kind uint8

const (
	KindMain      Kind = iota // rooted on a screen edge, walks toward the center
	KindSecondary             // rooted at an interior point
	KindBranch                // short walk off an existing crack
)

func (k Kind) String() string {
	switch k {
	case KindMain:
		return "main"
	case KindSecondary:
		return "secondary"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Point is one vertex of a crack polyline
// Filled flips to true once an injection radius passes over it and never reverts
type Point struct {
	X, Y   float64
	Filled bool
	Width  float64
}

// Crack is a jagged polyline revealed progressively
// Points never change length or coordinates after creation
type Crack struct {
	ID             uint64 // creation sequence, eviction order
	Kind           Kind
	Points         []Point
	BaseWidth      float64
	MaxWidth       float64
	RevealProgress float64 // [0,1], non-decreasing
	RevealSpeed    float64 // progress per tick before growth boost
}

// VisibleCount returns the number of points currently revealed, minimum 1
func (c *Crack) VisibleCount() int {
	n := len(c.Points)
	if n == 0 {
		return 0
	}
	v := int(float64(n) * c.RevealProgress)
	if v < 1 {
		v = 1
	}
	if v > n {
		v = n
	}
	return v
}

// Particle travels outward from its injection center
type Particle struct {
	Angle       float64
	Distance    float64 // non-decreasing
	MaxDistance float64
	Speed       float64
	Size        float64
}

// Injection is a transient radial fill that marks crack points as filled
type Injection struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Life      float64 // starts at 1, decays linearly
	Speed     float64
	Particles [parameter.InjectionParticles]Particle
}

// expired reports whether the injection should be removed
func (inj *Injection) expired() bool {
	return inj.Life <= 0 || inj.Radius > inj.MaxRadius
}

// Stats is a point-in-time summary of the field for HUD and metrics
type Stats struct {
	Cracks            int
	Injections        int
	Points            int
	FilledPoints      int
	CracksSpawned     uint64
	CracksEvicted     uint64
	InjectionsCreated uint64
	State             InputState
	GrowthBoost       float64
}
