package render

import (
	"math"

	"github.com/lixenwraith/crackfield/vmath"
)

// minHalfWidth keeps hairline strokes visible at sub-pixel widths
const minHalfWidth = 0.35

// Raster is an RGB pixel grid addressed in field units
// Field coordinates are divided by scale to get pixel coordinates, so geometry
// tuned in screen pixels stays proportionate on coarse surfaces like terminals
type Raster struct {
	pix    []RGB
	width  int
	height int
	scale  float64

	// Scratch for polyline coverage, reused across frames
	cov     []float32
	touched []int
}

// NewRaster creates a raster of width x height pixels, scale field units per pixel
func NewRaster(width, height int, scale float64) *Raster {
	if scale <= 0 {
		scale = 1
	}
	r := &Raster{scale: scale}
	r.Resize(width, height)
	return r
}

// Resize adjusts dimensions, reallocates only if capacity insufficient
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(r.pix) < size {
		r.pix = make([]RGB, size)
		r.cov = make([]float32, size)
	} else {
		r.pix = r.pix[:size]
		r.cov = r.cov[:size]
		clear(r.cov)
	}
	r.width = width
	r.height = height
}

// Width returns the pixel width
func (r *Raster) Width() int { return r.width }

// Height returns the pixel height
func (r *Raster) Height() int { return r.height }

// Scale returns field units per pixel
func (r *Raster) Scale() float64 { return r.scale }

// Bounds returns the raster extent in field units
func (r *Raster) Bounds() (float64, float64) {
	return float64(r.width) * r.scale, float64(r.height) * r.scale
}

// At returns the pixel color, black when out of bounds
func (r *Raster) At(x, y int) RGB {
	if !r.inBounds(x, y) {
		return RGBBlack
	}
	return r.pix[y*r.width+x]
}

// Set writes a pixel with replace semantics
func (r *Raster) Set(x, y int, c RGB) {
	if !r.inBounds(x, y) {
		return
	}
	r.pix[y*r.width+x] = c
}

func (r *Raster) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// Clear fills every pixel with bg using exponential copy
func (r *Raster) Clear(bg RGB) {
	if len(r.pix) == 0 {
		return
	}
	r.pix[0] = bg
	for filled := 1; filled < len(r.pix); filled *= 2 {
		copy(r.pix[filled:], r.pix[:filled])
	}
}

// pixelBox returns the clipped pixel rectangle covering a field-space circle around p
func (r *Raster) pixelBox(minX, minY, maxX, maxY float64) (x0, y0, x1, y1 int) {
	x0 = max(int(math.Floor(minX)), 0)
	y0 = max(int(math.Floor(minY)), 0)
	x1 = min(int(math.Ceil(maxX)), r.width-1)
	y1 = min(int(math.Ceil(maxY)), r.height-1)
	return x0, y0, x1, y1
}

// StrokeLine draws an antialiased segment of the given field-unit width
// Coverage is the distance from each pixel center to the segment, so each pixel blends once
func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, c RGB, alpha float64, mode BlendMode) {
	if alpha <= 0 {
		return
	}
	a := vmath.V2(x0/r.scale, y0/r.scale)
	b := vmath.V2(x1/r.scale, y1/r.scale)
	hw := max(width/r.scale/2, minHalfWidth)

	px0, py0, px1, py1 := r.pixelBox(min(a.X, b.X)-hw-1, min(a.Y, b.Y)-hw-1, max(a.X, b.X)+hw+1, max(a.Y, b.Y)+hw+1)
	for y := py0; y <= py1; y++ {
		row := y * r.width
		for x := px0; x <= px1; x++ {
			d := vmath.SegmentDist(vmath.V2(float64(x)+0.5, float64(y)+0.5), a, b)
			cov := hw + 0.5 - d
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			r.pix[row+x] = mode.Apply(r.pix[row+x], c, alpha*cov)
		}
	}
}

// StrokePolyline draws connected segments as one alpha-blended path
// Per-pixel coverage is the max over all segments, joints do not double-blend
func (r *Raster) StrokePolyline(pts []vmath.Vec2, width float64, c RGB, alpha float64) {
	if alpha <= 0 || len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		r.FillCircle(pts[0].X, pts[0].Y, width/2, c, alpha)
		return
	}
	hw := max(width/r.scale/2, minHalfWidth)
	r.touched = r.touched[:0]

	for i := 0; i < len(pts)-1; i++ {
		a := pts[i].Scale(1 / r.scale)
		b := pts[i+1].Scale(1 / r.scale)
		px0, py0, px1, py1 := r.pixelBox(min(a.X, b.X)-hw-1, min(a.Y, b.Y)-hw-1, max(a.X, b.X)+hw+1, max(a.Y, b.Y)+hw+1)
		for y := py0; y <= py1; y++ {
			row := y * r.width
			for x := px0; x <= px1; x++ {
				d := vmath.SegmentDist(vmath.V2(float64(x)+0.5, float64(y)+0.5), a, b)
				cov := float32(min(hw+0.5-d, 1))
				if cov <= 0 {
					continue
				}
				idx := row + x
				if r.cov[idx] == 0 {
					r.touched = append(r.touched, idx)
				}
				if cov > r.cov[idx] {
					r.cov[idx] = cov
				}
			}
		}
	}

	for _, idx := range r.touched {
		r.pix[idx] = Blend(r.pix[idx], c, alpha*float64(r.cov[idx]))
		r.cov[idx] = 0
	}
}

// FillRadial draws a disc fading linearly from c at the center to transparent at radius
func (r *Raster) FillRadial(x, y, radius float64, c RGB, alpha float64) {
	if alpha <= 0 || radius <= 0 {
		return
	}
	cx, cy := x/r.scale, y/r.scale
	rad := radius / r.scale

	px0, py0, px1, py1 := r.pixelBox(cx-rad, cy-rad, cx+rad, cy+rad)
	for py := py0; py <= py1; py++ {
		row := py * r.width
		for px := px0; px <= px1; px++ {
			d := vmath.Dist(cx, cy, float64(px)+0.5, float64(py)+0.5)
			if d >= rad {
				continue
			}
			r.pix[row+px] = Blend(r.pix[row+px], c, alpha*(1-d/rad))
		}
	}
}

// FillCircle draws a solid antialiased disc
func (r *Raster) FillCircle(x, y, radius float64, c RGB, alpha float64) {
	if alpha <= 0 {
		return
	}
	cx, cy := x/r.scale, y/r.scale
	rad := max(radius/r.scale, minHalfWidth)

	px0, py0, px1, py1 := r.pixelBox(cx-rad-1, cy-rad-1, cx+rad+1, cy+rad+1)
	for py := py0; py <= py1; py++ {
		row := py * r.width
		for px := px0; px <= px1; px++ {
			d := vmath.Dist(cx, cy, float64(px)+0.5, float64(py)+0.5)
			cov := rad + 0.5 - d
			if cov <= 0 {
				continue
			}
			r.pix[row+px] = Blend(r.pix[row+px], c, alpha*min(cov, 1))
		}
	}
}
