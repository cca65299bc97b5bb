package parameter

import "time"

// Frame Loop
const (
	// FrameUpdateInterval is the default frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// DefaultFPS is the configured frame rate when none is given
	DefaultFPS = 60

	// MinFPS and MaxFPS bound the configurable frame rate
	MinFPS = 10
	MaxFPS = 120

	// EventChannelSize is the buffered capacity of the surface input channel
	EventChannelSize = 256

	// ChangeChannelSize is the buffered capacity of pending live setting changes
	ChangeChannelSize = 32
)

// Surface
const (
	// DefaultPixelScale is field units per raster pixel
	// A terminal cell is two raster pixels tall via half-block glyphs
	DefaultPixelScale = 4.0

	// ScrollStepPx is the scroll offset change per wheel notch, in field units
	ScrollStepPx = 40.0

	// HUDRows is the number of terminal rows reserved for the status line
	HUDRows = 1
)

// Host keys
const (
	// RadiusStep multiplies or divides the injection radius per key press
	RadiusStep         = 1.25
	MinInjectionRadius = 10.0
	MaxInjectionRadius = 400.0

	// SpeedStep multiplies or divides the injection speed per key press
	SpeedStep         = 1.25
	MinInjectionSpeed = 0.25
	MaxInjectionSpeed = 8.0
)

// Audio cue
const (
	// CueSampleRate is the speaker sample rate
	CueSampleRate = 44100

	// CueDuration is the length of one injection tone
	CueDuration = 60 * time.Millisecond

	// CueMinGap throttles tones while dragging
	CueMinGap = 90 * time.Millisecond

	// CueFrequency is the base tone in Hz, raised slightly for bursts
	CueFrequency = 330.0
)

// Config Watcher
const (
	// ConfigDebounce collapses bursts of writes from editors
	ConfigDebounce = 250 * time.Millisecond
)
