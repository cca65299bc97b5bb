package crack

import (
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

// inject creates an injection at (x, y) with the current radius and speed settings
func (f *Field) inject(x, y float64) {
	inj := &Injection{
		X:         x,
		Y:         y,
		MaxRadius: f.settings.InjectionRadius,
		Life:      1,
		Speed:     f.settings.InjectionSpeed,
	}
	for i := range inj.Particles {
		inj.Particles[i] = Particle{
			Angle:       f.rand() * vmath.Tau,
			MaxDistance: inj.MaxRadius * f.rangef(parameter.ParticleReachMin, parameter.ParticleReachMax),
			Speed:       f.rangef(parameter.ParticleSpeedMin, parameter.ParticleSpeedMax),
			Size:        f.rangef(parameter.ParticleSizeMin, parameter.ParticleSizeMax),
		}
	}
	f.injections = append(f.injections, inj)
	f.injectionsCreated++
}

// advanceInjections grows, decays and fills for every injection, then drops expired ones
func (f *Field) advanceInjections() {
	kept := f.injections[:0]
	for _, inj := range f.injections {
		inj.Radius += inj.Speed
		inj.Life -= parameter.InjectionLifeDecay

		if inj.Radius > 0 {
			rSq := inj.Radius * inj.Radius
			for _, c := range f.cracks {
				for i := range c.Points {
					p := &c.Points[i]
					if !p.Filled && vmath.DistSq(inj.X, inj.Y, p.X, p.Y) < rSq {
						p.Filled = true
					}
				}
			}
		}

		for i := range inj.Particles {
			inj.Particles[i].Distance += inj.Particles[i].Speed
		}

		if inj.expired() {
			continue
		}
		kept = append(kept, inj)
	}
	clear(f.injections[len(kept):])
	f.injections = kept
}
