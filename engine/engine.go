// Package engine runs the frame loop that owns the crack field and its surface
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/crackfield/audio"
	"github.com/lixenwraith/crackfield/config"
	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/metrics"
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/render"
	"github.com/lixenwraith/crackfield/surface"
	"github.com/lixenwraith/crackfield/vmath"
)

// Surface is what the loop needs from a display
type Surface interface {
	Raster() *render.Raster
	Size() (float64, float64)
	Events() <-chan tcell.Event
	Dispatch(ev tcell.Event, h crack.InputHandler) surface.Command
	Exclusions() []crack.Rect
	SetHUD(text string)
	Present()
}

// Options carries the optional collaborators of an engine
type Options struct {
	Config  config.Config
	Watcher *config.Watcher
	Metrics *metrics.Metrics
	Cue     *audio.Cue
	Clock   core.Clock
	Logger  *zap.Logger
}

// Engine drives one field on one surface
// The loop goroutine is the only one that touches the field
type Engine struct {
	cfg     config.Config
	surface Surface
	field   *crack.Field
	watcher *config.Watcher
	changes <-chan config.Change
	metrics *metrics.Metrics
	cue     *audio.Cue
	logger  *zap.Logger

	frames atomic.Uint64

	mu       sync.Mutex
	cancel   context.CancelFunc
	stopped  bool
	stopOnce sync.Once
}

// New creates the field sized to the surface
func New(s Surface, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fieldOpts := []crack.Option{
		crack.WithSettings(opts.Config.Settings()),
		crack.WithLogger(logger.Named("field")),
		crack.WithClock(opts.Clock),
	}
	if opts.Config.Render.Seed != 0 {
		fieldOpts = append(fieldOpts, crack.WithSeed(opts.Config.Render.Seed))
	}

	w, h := s.Size()
	field, err := crack.New(w, h, fieldOpts...)
	if err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}
	field.SetExclusions(s.Exclusions())

	e := &Engine{
		cfg:     opts.Config,
		surface: s,
		field:   field,
		watcher: opts.Watcher,
		metrics: opts.Metrics,
		cue:     opts.Cue,
		logger:  logger,
	}
	if opts.Watcher != nil {
		e.changes = opts.Watcher.Changes()
	}
	return e, nil
}

// Frames returns the number of frames presented
func (e *Engine) Frames() uint64 {
	return e.frames.Load()
}

// Run blocks until ctx is done, Stop is called, the user quits or a collaborator fails
// The field is disposed when Run returns
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.field.Dispose()
		return nil
	}
	e.cancel = cancel
	e.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	if e.watcher != nil {
		g.Go(guarded(func() error { return e.watcher.Run(gctx) }))
	}
	if e.metrics != nil && e.cfg.Metrics.Addr != "" {
		g.Go(guarded(func() error { return metrics.Serve(gctx, e.cfg.Metrics.Addr, e.metrics, e.logger) }))
	}
	g.Go(guarded(func() error { return e.loop(gctx) }))

	err := g.Wait()
	e.field.Dispose()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// guarded runs fn under the crash handler so a panic restores the terminal
func guarded(fn func() error) func() error {
	return func() error {
		defer core.RecoverCrash()
		return fn()
	}
}

// Stop ends Run; safe to call any number of times, before or during Run
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.stopped = true
		if e.cancel != nil {
			e.cancel()
		}
	})
}

func (e *Engine) loop(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.FrameInterval())
	defer ticker.Stop()

	e.logger.Info("frame loop started", zap.Duration("interval", e.cfg.FrameInterval()))
	defer e.logger.Info("frame loop stopped", zap.Uint64("frames", e.frames.Load()))

	changes := e.changes
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-e.surface.Events():
			if e.handle(ev) {
				e.Stop()
				return nil
			}

		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			e.update(c.Key, c.Value)

		case <-ticker.C:
			e.frame()
		}
	}
}

// handle dispatches one terminal event, true means quit
func (e *Engine) handle(ev tcell.Event) bool {
	cmd := e.surface.Dispatch(ev, e.field)
	s := e.field.Settings()

	switch cmd {
	case surface.CmdQuit:
		return true
	case surface.CmdRegenerate:
		e.field.Regenerate()
	case surface.CmdRadiusUp:
		e.update(crack.KeyInjectionRadius, stepUp(s.InjectionRadius, parameter.RadiusStep, parameter.MaxInjectionRadius))
	case surface.CmdRadiusDown:
		e.update(crack.KeyInjectionRadius, stepDown(s.InjectionRadius, parameter.RadiusStep, parameter.MinInjectionRadius))
	case surface.CmdSpeedUp:
		e.update(crack.KeyInjectionSpeed, stepUp(s.InjectionSpeed, parameter.SpeedStep, parameter.MaxInjectionSpeed))
	case surface.CmdSpeedDown:
		e.update(crack.KeyInjectionSpeed, stepDown(s.InjectionSpeed, parameter.SpeedStep, parameter.MinInjectionSpeed))
	case surface.CmdToggleHelp, surface.CmdResized:
		e.field.SetExclusions(e.surface.Exclusions())
	}
	if cmd != surface.CmdNone {
		e.logger.Debug("command", zap.Stringer("cmd", cmd))
	}
	return false
}

func stepUp(v, factor, limit float64) float64 {
	return vmath.Clamp(v*factor, v, max(limit, v))
}

func stepDown(v, factor, limit float64) float64 {
	return vmath.Clamp(v/factor, min(limit, v), v)
}

// update applies one live setting change and records the outcome
func (e *Engine) update(key string, value any) {
	err := e.field.UpdateSetting(key, value)
	e.metrics.SettingUpdated(key, err)
	if err != nil {
		e.logger.Warn("setting rejected", zap.String("key", key), zap.Any("value", value), zap.Error(err))
	}
}

// frame ticks the field and presents it with the HUD
func (e *Engine) frame() {
	start := time.Now()
	if !e.field.Tick(e.surface.Raster()) {
		return
	}
	stats := e.field.Stats()
	e.surface.SetHUD(hudText(stats, e.field.Settings()))
	e.surface.Present()

	e.cue.Observe(stats.InjectionsCreated)
	e.metrics.Observe(stats)
	e.metrics.ObserveFrame(time.Since(start))
	e.frames.Add(1)
}

func hudText(s crack.Stats, set crack.Settings) string {
	return fmt.Sprintf(" cracks %d/%d  injections %d  filled %d/%d  radius %.0f  speed %.2f  %s  [h] help",
		s.Cracks, set.CrackCount, s.Injections, s.FilledPoints, s.Points,
		set.InjectionRadius, set.InjectionSpeed, s.State)
}

var _ Surface = (*surface.Screen)(nil)
