package crack

import (
	"math"

	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

// InputState is the pointer state machine: Idle until a press, Injecting until release
type InputState uint8

const (
	StateIdle InputState = iota
	StateInjecting
)

func (s InputState) String() string {
	if s == StateInjecting {
		return "injecting"
	}
	return "idle"
}

// InputHandler is the capability a host wires to its native input system
// Coordinates are field units
type InputHandler interface {
	OnPointerDown(x, y float64)
	OnPointerMove(x, y float64)
	OnPointerUp(x, y float64)
	OnClick(x, y float64)
	OnScroll(offset float64)
	OnResize(width, height float64)
}

var _ InputHandler = (*Field)(nil)

// Rect is an axis-aligned region in field units
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r, right and bottom edges exclusive
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// SetExclusions registers overlay regions where presses do not start injections
func (f *Field) SetExclusions(rects []Rect) {
	f.exclusions = append(f.exclusions[:0], rects...)
}

func (f *Field) excluded(x, y float64) bool {
	for _, r := range f.exclusions {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// State returns the current input state
func (f *Field) State() InputState {
	return f.state
}

// Pointer returns the last known pointer position, false before any pointer event
func (f *Field) Pointer() (vmath.Vec2, bool) {
	return f.pointer, f.hasPointer
}

func (f *Field) setPointer(x, y float64) {
	f.pointer = vmath.V2(x, y)
	f.hasPointer = true
}

// OnPointerDown enters Injecting and creates one injection, unless the press lands in an exclusion
func (f *Field) OnPointerDown(x, y float64) {
	if f.disposed {
		return
	}
	f.setPointer(x, y)
	f.pressConsumed = false
	if f.excluded(x, y) {
		return
	}
	f.state = StateInjecting
	f.pressConsumed = true
	f.inject(x, y)
}

// OnPointerMove tracks the pointer and injects continuously while Injecting
func (f *Field) OnPointerMove(x, y float64) {
	if f.disposed {
		return
	}
	f.setPointer(x, y)
	if f.state == StateInjecting {
		f.inject(x, y)
		return
	}
	f.pressConsumed = false
}

// OnPointerUp returns to Idle
func (f *Field) OnPointerUp(x, y float64) {
	if f.disposed {
		return
	}
	f.setPointer(x, y)
	if f.state == StateInjecting {
		f.releasePos = vmath.V2(x, y)
	}
	f.state = StateIdle
}

// OnClick creates one injection for a press that did not already create one
// Only the click closing an injecting press is absorbed: it arrives right after the
// release, at the release position. Any other click injects.
func (f *Field) OnClick(x, y float64) {
	if f.disposed || f.state == StateInjecting {
		return
	}
	if f.pressConsumed {
		f.pressConsumed = false
		if f.releasePos == vmath.V2(x, y) {
			return
		}
	}
	if f.excluded(x, y) {
		return
	}
	f.setPointer(x, y)
	f.inject(x, y)
}

// OnScroll feeds the absolute scroll offset; deltas past the threshold set a one-tick
// growth boost and may spawn an autonomous crack
func (f *Field) OnScroll(offset float64) {
	if f.disposed {
		return
	}
	delta := math.Abs(offset - f.lastScroll)
	f.lastScroll = offset

	if delta <= parameter.ScrollThreshold {
		f.growthBoost = 0
		return
	}

	sens := f.settings.ScrollSensitivity
	f.growthBoost = math.Min(1, delta/parameter.ScrollBoostDivisor*sens)

	if f.chance(sens*parameter.ScrollSpawnFactor) &&
		float64(len(f.cracks)) < parameter.ScrollSpawnFill*float64(f.settings.CrackCount) {
		f.autonomousCrack()
	}
}

// OnResize changes the bounds used for new geometry; existing cracks are kept
func (f *Field) OnResize(width, height float64) {
	if f.disposed || width <= 0 || height <= 0 {
		return
	}
	f.width = width
	f.height = height
}
