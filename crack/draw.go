package crack

import (
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/parameter/visual"
	"github.com/lixenwraith/crackfield/render"
	"github.com/lixenwraith/crackfield/vmath"
)

// Canvas is the 2D drawing surface the field paints onto, in field units
type Canvas interface {
	Clear(bg render.RGB)
	StrokeLine(x0, y0, x1, y1, width float64, c render.RGB, alpha float64, mode render.BlendMode)
	StrokePolyline(pts []vmath.Vec2, width float64, c render.RGB, alpha float64)
	FillRadial(x, y, radius float64, c render.RGB, alpha float64)
	FillCircle(x, y, radius float64, c render.RGB, alpha float64)
}

var _ Canvas = (*render.Raster)(nil)

// paintInjections draws each live injection as a fading disc plus its in-range particles
func (f *Field) paintInjections(canvas Canvas) {
	for _, inj := range f.injections {
		canvas.FillRadial(inj.X, inj.Y, inj.Radius, visual.RgbInjectionCore, parameter.InjectionAlpha*inj.Life)
		for i := range inj.Particles {
			p := &inj.Particles[i]
			if p.Distance >= p.MaxDistance {
				continue
			}
			pos := vmath.V2(inj.X, inj.Y).Add(vmath.FromAngle(p.Angle, p.Distance))
			canvas.FillCircle(pos.X, pos.Y, p.Size, visual.RgbInjected, inj.Life)
		}
	}
}

// paintCracks strokes the revealed part of every crack, then its filled runs
func (f *Field) paintCracks(canvas Canvas) {
	for _, c := range f.cracks {
		visible := c.VisibleCount()
		if visible == 0 {
			continue
		}

		f.displaced = f.displaced[:0]
		for i := 0; i < visible; i++ {
			f.displaced = append(f.displaced, f.displace(c.Points[i].X, c.Points[i].Y))
		}

		alpha := parameter.CrackAlpha * c.RevealProgress
		for i := 0; i < visible-1; i++ {
			p1, p2 := &c.Points[i], &c.Points[i+1]
			if p1.Filled && p2.Filled {
				continue
			}
			a, b := f.displaced[i], f.displaced[i+1]
			width := (p1.Width + p2.Width) / 2

			shade := pointShade(c.ID, i)
			color := render.Lerp(visual.RgbCrack, visual.RgbBackground, shade)
			canvas.StrokeLine(a.X, a.Y, b.X, b.Y, width, color, alpha, render.BlendAlpha)

			if width <= parameter.ShadowWidth {
				continue
			}
			off := b.Sub(a).Perp().Normalize().Scale(width * parameter.ShadeOffset)
			canvas.StrokeLine(a.X+off.X, a.Y+off.Y, b.X+off.X, b.Y+off.Y, parameter.ShadeStrokeWidth,
				visual.RgbCrackShadow, parameter.ShadowAlpha*alpha, render.BlendMultiply)

			if width > parameter.HighlightWidth {
				canvas.StrokeLine(a.X-off.X, a.Y-off.Y, b.X-off.X, b.Y-off.Y, parameter.ShadeStrokeWidth,
					visual.RgbCrackHighlight, parameter.HighlightAlpha*alpha, render.BlendScreen)
			}
		}

		f.paintFilled(canvas, c, visible)
	}
}

// paintFilled draws runs of consecutive filled points as polylines, a gap starts a new run
func (f *Field) paintFilled(canvas Canvas, c *Crack, visible int) {
	f.subpath = f.subpath[:0]
	widthSum := 0.0

	flush := func() {
		if len(f.subpath) >= 2 {
			width := max(widthSum/float64(len(f.subpath)), parameter.FilledMinWidth)
			canvas.StrokePolyline(f.subpath, width, visual.RgbInjected, parameter.FilledAlpha)
		}
		f.subpath = f.subpath[:0]
		widthSum = 0
	}

	for i := 0; i < visible; i++ {
		if !c.Points[i].Filled {
			flush()
			continue
		}
		f.subpath = append(f.subpath, f.displaced[i])
		widthSum += c.Points[i].Width
	}
	flush()
}

// displace pushes a point away from the pointer for rendering only
// Force falls off linearly to zero at PointerRadius
func (f *Field) displace(x, y float64) vmath.Vec2 {
	p := vmath.V2(x, y)
	if !f.hasPointer {
		return p
	}
	away := p.Sub(f.pointer)
	d := away.Len()
	if d == 0 || d >= parameter.PointerRadius {
		return p
	}
	force := 1 - d/parameter.PointerRadius
	return p.Add(away.Scale(force * parameter.PointerMaxDisplacement / d))
}

// pointShade returns a stable per-point lightening in [0, DarknessJitter/2)
// Hash of crack ID and index, so strokes do not flicker between frames
func pointShade(id uint64, i int) float64 {
	h := id*0x9E3779B97F4A7C15 ^ uint64(i+1)*0xBF58476D1CE4E5B9
	h ^= h >> 31
	h *= 0x94D049BB133111EB
	h ^= h >> 29
	return float64(h>>11) / (1 << 53) * parameter.DarknessJitter / 2
}
