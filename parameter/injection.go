package parameter

// Injection Effect
const (
	// InjectionLifeDecay is the fixed life decrement per tick
	InjectionLifeDecay = 0.01

	// InjectionParticles is the number of particles owned by each injection
	InjectionParticles = 5

	// ParticleSpeedMin/Max is the outward distance per tick
	ParticleSpeedMin = 0.8
	ParticleSpeedMax = 2.4

	// ParticleSizeMin/Max is the dot radius in field units
	ParticleSizeMin = 1.5
	ParticleSizeMax = 4.0

	// ParticleReachMin/Max is maxDistance as a fraction of the injection radius
	ParticleReachMin = 0.5
	ParticleReachMax = 1.0

	// InjectionAlpha is the gradient center opacity at full life
	InjectionAlpha = 0.55
)

// Pointer displacement
const (
	// PointerRadius is the distance (field units) within which crack points are pushed away
	PointerRadius = 100.0

	// PointerMaxDisplacement is the push at zero distance
	PointerMaxDisplacement = 4.0
)

// Crack strokes
const (
	// CrackAlpha is the stroke opacity of a fully revealed crack
	CrackAlpha = 0.9

	// DarknessJitter is the per-point brightness variation of crack strokes
	DarknessJitter = 0.35

	// ShadowWidth and HighlightWidth gate the pseudo-3D shading strokes
	ShadowWidth    = 2.0
	HighlightWidth = 3.5

	// ShadeOffset is the perpendicular offset of shading strokes as a fraction of stroke width
	ShadeOffset = 0.35

	// ShadeStrokeWidth is the width of shading strokes in field units
	ShadeStrokeWidth = 1.0

	// ShadowAlpha and HighlightAlpha are shading stroke opacities
	ShadowAlpha    = 0.45
	HighlightAlpha = 0.35

	// FilledMinWidth floors the width of filled paths
	FilledMinWidth = 1.0

	// FilledAlpha is the opacity of filled paths
	FilledAlpha = 0.95
)
