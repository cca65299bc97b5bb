package crack

import (
	"math"

	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

// walk holds the per-kind parameters of a biased random walk
type walk struct {
	segments        int
	sharpTurnChance float64
	stepScale       float64
	attract         bool // bend toward nearest existing crack
	midBranches     bool // spawn thinner branches mid-path
}

// createCracks seeds the field with edge cracks, then branches rooted on them
func (f *Field) createCracks() {
	mains := f.rangei(parameter.InitialMainMin, parameter.InitialMainMax+1)
	for i := 0; i < mains; i++ {
		f.spawnEdgeCrack()
	}

	branches := f.rangei(parameter.InitialBranchMin, parameter.InitialBranchMax+1)
	for i := 0; i < branches; i++ {
		f.branchFromExisting()
	}
}

// spawnEdgeCrack roots a main crack on a uniformly chosen point of a random screen edge
func (f *Field) spawnEdgeCrack() {
	var origin vmath.Vec2
	switch f.rangei(0, 4) {
	case 0: // top
		origin = vmath.V2(f.rand()*f.width, 0)
	case 1: // right
		origin = vmath.V2(f.width, f.rand()*f.height)
	case 2: // bottom
		origin = vmath.V2(f.rand()*f.width, f.height)
	default: // left
		origin = vmath.V2(0, f.rand()*f.height)
	}
	f.push(f.growPath(origin, true))
}

// spawnInteriorCrack roots a secondary crack at a uniformly random interior point
func (f *Field) spawnInteriorCrack() {
	origin := vmath.V2(f.rand()*f.width, f.rand()*f.height)
	f.push(f.growPath(origin, false))
}

// branchFromExisting grows a branch off an interior point of a random crack,
// heading roughly perpendicular to it; falls back to an interior crack when none qualifies
func (f *Field) branchFromExisting() {
	eligible := 0
	for _, c := range f.cracks {
		if len(c.Points) >= 3 {
			eligible++
		}
	}
	if eligible == 0 {
		f.spawnInteriorCrack()
		return
	}

	pick := f.rangei(0, eligible)
	var parent *Crack
	for _, c := range f.cracks {
		if len(c.Points) < 3 {
			continue
		}
		if pick == 0 {
			parent = c
			break
		}
		pick--
	}

	// Never the first or last point
	idx := f.rangei(1, len(parent.Points)-1)
	prev, next := parent.Points[idx-1], parent.Points[idx+1]
	heading := math.Atan2(next.Y-prev.Y, next.X-prev.X)

	side := 1.0
	if f.chance(0.5) {
		side = -1.0
	}
	angle := heading + side*math.Pi/2 + f.signed(parameter.PerpendicularJitter)

	p := parent.Points[idx]
	f.push(f.growBranch(vmath.V2(p.X, p.Y), angle))
}

// autonomousCrack adds one crack without user input, branching or fresh
func (f *Field) autonomousCrack() {
	if f.chance(parameter.AutoBranchChance) {
		f.branchFromExisting()
		return
	}
	f.spawnInteriorCrack()
}

// growPath walks a main (edge) or secondary (interior) crack from origin
// Mid-path branches are pushed as they spawn, so they precede the returned crack
func (f *Field) growPath(origin vmath.Vec2, isMain bool) *Crack {
	w := walk{
		sharpTurnChance: parameter.SharpTurnChance,
		stepScale:       1,
		attract:         true,
		midBranches:     true,
	}
	var c *Crack
	var angle float64

	if isMain {
		w.segments = f.rangei(parameter.MainSegmentsMin, parameter.MainSegmentsMax)
		c = &Crack{
			Kind:        KindMain,
			BaseWidth:   f.rangef(parameter.MainBaseWidthMin, parameter.MainBaseWidthMax),
			MaxWidth:    f.rangef(parameter.MainMaxWidthMin, parameter.MainMaxWidthMax),
			RevealSpeed: f.rangef(parameter.MainRevealSpeedMin, parameter.MainRevealSpeedMax),
		}
		center := vmath.V2(f.width/2, f.height/2)
		angle = center.Sub(origin).Angle() + f.signed(parameter.CenterJitter)
	} else {
		w.segments = f.rangei(parameter.SecondarySegmentsMin, parameter.SecondarySegmentsMax)
		c = &Crack{
			Kind:        KindSecondary,
			BaseWidth:   f.rangef(parameter.SecondaryBaseWidthMin, parameter.SecondaryBaseWidthMax),
			MaxWidth:    f.rangef(parameter.SecondaryMaxWidthMin, parameter.SecondaryMaxWidthMax),
			RevealSpeed: f.rangef(parameter.MainRevealSpeedMin, parameter.MainRevealSpeedMax),
		}
		angle = f.rand() * vmath.Tau
	}

	f.walk(c, origin, angle, w)
	return c
}

// growBranch walks a short, thin crack from origin along angle
func (f *Field) growBranch(origin vmath.Vec2, angle float64) *Crack {
	c := &Crack{
		Kind:        KindBranch,
		BaseWidth:   f.rangef(parameter.BranchBaseWidthMin, parameter.BranchBaseWidthMax),
		MaxWidth:    f.rangef(parameter.BranchMaxWidthMin, parameter.BranchMaxWidthMax),
		RevealSpeed: f.rangef(parameter.BranchRevealSpeedMin, parameter.BranchRevealSpeedMax),
	}
	f.walk(c, origin, angle, walk{
		segments:        f.rangei(parameter.BranchSegmentsMin, parameter.BranchSegmentsMax),
		sharpTurnChance: parameter.BranchSharpTurnChance,
		stepScale:       parameter.BranchStepScale,
	})
	return c
}

// walk appends up to w.segments points to c, terminating early outside the bounds margin
func (f *Field) walk(c *Crack, origin vmath.Vec2, angle float64, w walk) {
	c.Points = make([]Point, 0, w.segments+1)
	c.Points = append(c.Points, Point{X: origin.X, Y: origin.Y, Width: c.BaseWidth})

	pos := origin
	for i := 1; i <= w.segments; i++ {
		progress := float64(i) / float64(w.segments)

		angle += f.signed(parameter.TurnJitter)
		if f.chance(w.sharpTurnChance) {
			angle += f.signed(parameter.SharpTurnMax)
		}

		if w.attract && len(f.cracks) > 0 && f.chance(parameter.AttractionChance) {
			if target, ok := f.nearestPoint(pos); ok {
				diff := vmath.WrapAngle(target.Sub(pos).Angle() - angle)
				angle += diff * parameter.AttractionPull
			}
		}

		var step float64
		if f.chance(parameter.ShortStepChance) {
			step = f.rangef(parameter.ShortStepMin, parameter.ShortStepMax)
		} else {
			step = f.rangef(parameter.LongStepMin, parameter.LongStepMax)
		}
		step *= w.stepScale

		pos = pos.Add(vmath.FromAngle(angle, step))
		if f.outOfBounds(pos) {
			break
		}

		c.Points = append(c.Points, Point{X: pos.X, Y: pos.Y, Width: widthAt(c.BaseWidth, c.MaxWidth, progress)})

		if w.midBranches &&
			progress >= parameter.MidBranchFrom && progress <= parameter.MidBranchTo &&
			f.chance(parameter.MidBranchChance) {
			f.push(f.growBranch(pos, angle))
		}
	}
}

// widthAt ramps stroke width non-linearly: the first WidthKneeProgress of the path
// covers WidthKneeGrowth of the growth, the remainder covers the rest
func widthAt(base, maxWidth, progress float64) float64 {
	progress = vmath.Clamp01(progress)
	var growth float64
	if progress < parameter.WidthKneeProgress {
		growth = progress / parameter.WidthKneeProgress * parameter.WidthKneeGrowth
	} else {
		growth = parameter.WidthKneeGrowth +
			(progress-parameter.WidthKneeProgress)/(1-parameter.WidthKneeProgress)*(1-parameter.WidthKneeGrowth)
	}
	return base + (maxWidth-base)*growth
}

// outOfBounds reports whether p lies outside the canvas grown by BoundsMargin on each side
func (f *Field) outOfBounds(p vmath.Vec2) bool {
	mx := f.width * parameter.BoundsMargin
	my := f.height * parameter.BoundsMargin
	return p.X < -mx || p.X > f.width+mx || p.Y < -my || p.Y > f.height+my
}

// nearestPoint returns the closest stored point of any live crack, false when it coincides with p
func (f *Field) nearestPoint(p vmath.Vec2) (vmath.Vec2, bool) {
	best := math.Inf(1)
	var nearest vmath.Vec2
	for _, c := range f.cracks {
		for i := range c.Points {
			d := vmath.DistSq(p.X, p.Y, c.Points[i].X, c.Points[i].Y)
			if d < best {
				best = d
				nearest = vmath.V2(c.Points[i].X, c.Points[i].Y)
			}
		}
	}
	if math.IsInf(best, 1) || best == 0 {
		return vmath.Vec2{}, false
	}
	return nearest, true
}
