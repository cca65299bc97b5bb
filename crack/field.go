package crack

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

// Source supplies uniform random values in [0, 1)
// Inject a seeded source for reproducible geometry
type Source interface {
	Float64() float64
}

// Field owns the crack and injection populations and every piece of input state
// All methods must be called from one goroutine; the frame loop owns the field
type Field struct {
	settings Settings
	src      Source
	clock    core.Clock
	logger   *zap.Logger

	width, height float64

	cracks     []*Crack
	injections []*Injection
	nextID     uint64

	// Input state machine
	state         InputState
	pressConsumed bool       // the last press injected, its closing click is absorbed
	releasePos    vmath.Vec2 // where that press ended
	pointer       vmath.Vec2
	hasPointer    bool
	exclusions    []Rect

	// Scroll
	lastScroll  float64
	growthBoost float64

	// Scheduler
	time         float64
	lastAuto     time.Time
	nextInterval time.Duration

	// Counters
	spawned           uint64
	evicted           uint64
	injectionsCreated uint64

	// Render scratch, reused per crack
	displaced []vmath.Vec2
	subpath   []vmath.Vec2

	disposed bool
}

// Option configures a field at construction
type Option func(*Field)

// WithSettings replaces the default settings
func WithSettings(s Settings) Option {
	return func(f *Field) { f.settings = s }
}

// WithSource sets the random source
func WithSource(src Source) Option {
	return func(f *Field) {
		if src != nil {
			f.src = src
		}
	}
}

// WithSeed uses a xorshift source seeded with seed
func WithSeed(seed uint64) Option {
	return func(f *Field) { f.src = vmath.NewFastRand(seed) }
}

// WithClock sets the wall clock used for autonomous crack timing
func WithClock(c core.Clock) Option {
	return func(f *Field) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithLogger attaches a logger, a no-op logger is used otherwise
func WithLogger(l *zap.Logger) Option {
	return func(f *Field) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a field of the given size in field units and grows the initial cracks
func New(width, height float64, opts ...Option) (*Field, error) {
	f := &Field{
		settings: DefaultSettings(),
		clock:    core.NewTimeProvider(),
		logger:   zap.NewNop(),
		width:    width,
		height:   height,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.src == nil {
		f.src = vmath.NewFastRand(uint64(time.Now().UnixNano()))
	}
	if err := f.settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	f.lastAuto = f.clock.Now()
	f.nextInterval = f.jitteredInterval()
	f.createCracks()

	f.logger.Debug("field created",
		zap.Float64("width", width),
		zap.Float64("height", height),
		zap.Int("cracks", len(f.cracks)))
	return f, nil
}

// Dispose tears the field down; every later call is a no-op
func (f *Field) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.cracks = nil
	f.injections = nil
	f.exclusions = nil
	f.state = StateIdle
	f.logger.Debug("field disposed")
}

// Disposed reports whether Dispose has been called
func (f *Field) Disposed() bool {
	return f.disposed
}

// Settings returns the active settings
func (f *Field) Settings() Settings {
	return f.settings
}

// UpdateSetting changes one setting by key, applying live semantics
// A failed update leaves the settings unchanged
func (f *Field) UpdateSetting(key string, value any) error {
	next, err := f.settings.With(key, value)
	if err != nil {
		return err
	}
	f.settings = next

	switch key {
	case KeyCrackCount:
		f.evictOverflow()
	case KeyInjectionRadius:
		for _, inj := range f.injections {
			inj.MaxRadius = next.InjectionRadius
		}
	case KeyInjectionSpeed:
		for _, inj := range f.injections {
			inj.Speed = next.InjectionSpeed
		}
	}

	f.logger.Info("setting updated", zap.String("key", key), zap.Any("value", value))
	return nil
}

// Size returns the field bounds in field units
func (f *Field) Size() (float64, float64) {
	return f.width, f.height
}

// Regenerate discards all cracks and injections and grows a fresh field
func (f *Field) Regenerate() {
	if f.disposed {
		return
	}
	clear(f.cracks)
	clear(f.injections)
	f.cracks = f.cracks[:0]
	f.injections = f.injections[:0]
	f.createCracks()
	f.logger.Debug("field regenerated", zap.Int("cracks", len(f.cracks)))
}

// Cracks returns deep copies of the live cracks, oldest first
func (f *Field) Cracks() []Crack {
	out := make([]Crack, len(f.cracks))
	for i, c := range f.cracks {
		out[i] = *c
		out[i].Points = append([]Point(nil), c.Points...)
	}
	return out
}

// Injections returns copies of the live injections
func (f *Field) Injections() []Injection {
	out := make([]Injection, len(f.injections))
	for i, inj := range f.injections {
		out[i] = *inj
	}
	return out
}

// GrowthBoost returns the pending scroll growth boost
func (f *Field) GrowthBoost() float64 {
	return f.growthBoost
}

// Stats summarizes the field
func (f *Field) Stats() Stats {
	s := Stats{
		Cracks:            len(f.cracks),
		Injections:        len(f.injections),
		CracksSpawned:     f.spawned,
		CracksEvicted:     f.evicted,
		InjectionsCreated: f.injectionsCreated,
		State:             f.state,
		GrowthBoost:       f.growthBoost,
	}
	for _, c := range f.cracks {
		s.Points += len(c.Points)
		for i := range c.Points {
			if c.Points[i].Filled {
				s.FilledPoints++
			}
		}
	}
	return s
}

// push appends a crack and evicts the oldest while over the limit
func (f *Field) push(c *Crack) {
	f.nextID++
	c.ID = f.nextID
	f.cracks = append(f.cracks, c)
	f.spawned++
	f.evictOverflow()
}

// evictOverflow removes cracks from the front until the population fits CrackCount
func (f *Field) evictOverflow() {
	over := len(f.cracks) - f.settings.CrackCount
	if over <= 0 {
		return
	}
	for i := 0; i < over; i++ {
		f.logger.Debug("crack evicted", zap.Uint64("id", f.cracks[i].ID))
	}
	n := copy(f.cracks, f.cracks[over:])
	clear(f.cracks[n:])
	f.cracks = f.cracks[:n]
	f.evicted += uint64(over)
}

// --- Randomness helpers ---

func (f *Field) rand() float64 {
	return f.src.Float64()
}

// rangef returns a value in [lo, hi)
func (f *Field) rangef(lo, hi float64) float64 {
	return lo + f.src.Float64()*(hi-lo)
}

// rangei returns a value in [lo, hi), lo when the range is empty
func (f *Field) rangei(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(f.src.Float64()*float64(hi-lo))
}

// signed returns a value in [-amp, amp)
func (f *Field) signed(amp float64) float64 {
	return (f.src.Float64()*2 - 1) * amp
}

func (f *Field) chance(p float64) bool {
	return f.src.Float64() < p
}

func (f *Field) jitteredInterval() time.Duration {
	factor := 1 - parameter.IntervalJitter + f.rand()*2*parameter.IntervalJitter
	return time.Duration(float64(f.settings.CrackInterval) * factor)
}
