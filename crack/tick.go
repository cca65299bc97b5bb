package crack

import (
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/parameter/visual"
)

// Tick runs one frame: timed growth, reveal, injections, then painting onto canvas
// Returns false without side effects once disposed or when canvas is nil
func (f *Field) Tick(canvas Canvas) bool {
	if f.disposed || canvas == nil {
		return false
	}

	f.time++
	f.maybeAutoCrack()
	f.advanceReveal()
	f.advanceInjections()

	canvas.Clear(visual.RgbBackground)
	f.paintInjections(canvas)
	f.paintCracks(canvas)
	return true
}

// Frames returns the number of ticks run
func (f *Field) Frames() float64 {
	return f.time
}

// maybeAutoCrack creates a crack when the jittered interval has elapsed and the field has room
// The interval timer resets whether or not a crack was created
func (f *Field) maybeAutoCrack() {
	now := f.clock.Now()
	if now.Sub(f.lastAuto) <= f.nextInterval {
		return
	}

	if f.chance(parameter.AutoCrackChance) &&
		float64(len(f.cracks)) < parameter.AutoCrackFill*float64(f.settings.CrackCount) {
		f.autonomousCrack()
	}
	f.lastAuto = now
	f.nextInterval = f.jitteredInterval()
}

// advanceReveal moves every crack's reveal forward, accelerated by the pending growth boost
// The boost is consumed by this tick
func (f *Field) advanceReveal() {
	mult := 1 + parameter.GrowthBoostFactor*f.growthBoost
	for _, c := range f.cracks {
		if c.RevealProgress >= 1 {
			continue
		}
		c.RevealProgress += c.RevealSpeed * mult
		if c.RevealProgress > 1 {
			c.RevealProgress = 1
		}
	}
	f.growthBoost = 0
}
