package visual

import (
	"github.com/lixenwraith/crackfield/render"
)

// Field colors
var (
	// RgbBackground is the flat concrete tone the field is cleared to
	RgbBackground = render.RGB{R: 214, G: 210, B: 203}

	// RgbCrack is the near-black base of crack strokes, lightened per point by jitter
	RgbCrack = render.RGB{R: 24, G: 22, B: 21}

	// RgbCrackShadow is multiplied under wide strokes
	RgbCrackShadow = render.RGB{R: 120, G: 112, B: 104}

	// RgbCrackHighlight is screened on the lit edge of very wide strokes
	RgbCrackHighlight = render.RGB{R: 90, G: 88, B: 84}

	// RgbInjected is the accent for filled crack points and particles
	RgbInjected = render.RGB{R: 236, G: 120, B: 34}

	// RgbInjectionCore is the saturated center of injection gradients
	RgbInjectionCore = render.RGB{R: 255, G: 150, B: 50}
)

// HUD colors
var (
	RgbHudFg     = render.RGB{R: 230, G: 230, B: 230}
	RgbHudBg     = render.RGB{R: 30, G: 30, B: 34}
	RgbHudValue  = render.RGB{R: 255, G: 170, B: 80}
	RgbOverlayBg = render.RGB{R: 20, G: 20, B: 24}
)
