package engine

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/crackfield/config"
	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/metrics"
	"github.com/lixenwraith/crackfield/surface"
)

type harness struct {
	sim     tcell.SimulationScreen
	screen  *surface.Screen
	engine  *Engine
	metrics *metrics.Metrics
	done    chan error
	cancel  context.CancelFunc
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen := surface.New(sim, cfg.Render.PixelScale)
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	cfg.Render.Seed = 7
	m := metrics.New()
	e, err := New(screen, Options{Config: cfg, Metrics: m})
	require.NoError(t, err)

	return &harness{sim: sim, screen: screen, engine: e, metrics: m, done: make(chan error, 1)}
}

func (h *harness) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.engine.Run(ctx) }()
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	defer h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop")
		return nil
	}
}

func TestRunPresentsFramesUntilStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := newHarness(t, config.Default())
	h.start()

	require.Eventually(t, func() bool { return h.engine.Frames() >= 3 }, 2*time.Second, 5*time.Millisecond)
	h.engine.Stop()
	h.engine.Stop()
	require.NoError(t, h.wait(t))

	assert.True(t, h.engine.field.Disposed())
	assert.Greater(t, testutil.ToFloat64(h.metrics.Cracks), 0.0)
	assert.Contains(t, h.screen.HUD(), "cracks")
	h.screen.Fini()
}

func TestContextCancelStopsRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := newHarness(t, config.Default())
	h.start()
	require.Eventually(t, func() bool { return h.engine.Frames() >= 1 }, 2*time.Second, 5*time.Millisecond)

	h.cancel()
	require.NoError(t, h.wait(t))
	h.screen.Fini()
}

func TestStopBeforeRun(t *testing.T) {
	h := newHarness(t, config.Default())
	h.engine.Stop()
	h.start()
	require.NoError(t, h.wait(t))
	assert.Zero(t, h.engine.Frames())
	assert.True(t, h.engine.field.Disposed())
}

func TestQuitKeyEndsRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := newHarness(t, config.Default())
	h.start()
	h.sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, h.wait(t))
	h.screen.Fini()
}

func TestMouseInjectsIntoField(t *testing.T) {
	h := newHarness(t, config.Default())
	h.start()

	h.sim.InjectMouse(10, 5, tcell.Button1, tcell.ModNone)
	h.sim.InjectMouse(10, 5, tcell.ButtonNone, tcell.ModNone)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metrics.InjectionsCreated) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	h.engine.Stop()
	require.NoError(t, h.wait(t))
	assert.Equal(t, uint64(1), h.engine.field.Stats().InjectionsCreated, "click after the press is absorbed")
}

func TestKeysAdjustSettings(t *testing.T) {
	h := newHarness(t, config.Default())
	h.start()

	h.sim.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	h.sim.InjectKey(tcell.KeyRune, '<', tcell.ModNone)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metrics.SettingUpdates.WithLabelValues(crack.KeyInjectionSpeed, "ok")) == 1
	}, 2*time.Second, 5*time.Millisecond)

	h.engine.Stop()
	require.NoError(t, h.wait(t))
	s := h.engine.field.Settings()
	assert.Equal(t, 100.0, s.InjectionRadius)
	assert.InDelta(t, 1.2, s.InjectionSpeed, 1e-9)
}

func TestConfigChangesApplied(t *testing.T) {
	h := newHarness(t, config.Default())
	changes := make(chan config.Change, 4)
	h.engine.changes = changes
	h.start()

	changes <- config.Change{Key: crack.KeyCrackCount, Value: 5}
	changes <- config.Change{Key: crack.KeyScrollSensitivity, Value: 7.0}
	close(changes)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metrics.SettingUpdates.WithLabelValues(crack.KeyScrollSensitivity, "rejected")) == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Closed change stream must not spin or stop the loop
	frames := h.engine.Frames()
	require.Eventually(t, func() bool { return h.engine.Frames() > frames+2 }, 2*time.Second, 5*time.Millisecond)

	h.engine.Stop()
	require.NoError(t, h.wait(t))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.SettingUpdates.WithLabelValues(crack.KeyCrackCount, "ok")))
	assert.Equal(t, 5, h.engine.field.Settings().CrackCount)
}

func TestMetricsListenFailureEndsRun(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Addr = "not-an-address"
	h := newHarness(t, cfg)
	h.start()

	assert.Error(t, h.wait(t))
}

// failingSurface panics on the first presented frame
type failingSurface struct {
	*surface.Screen
}

func (failingSurface) Present() { panic("present failed") }

type finiCounter struct {
	calls chan struct{}
}

func (f *finiCounter) Fini() { f.calls <- struct{}{} }

func TestLoopPanicRestoresTerminal(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen := surface.New(sim, 4)
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	fin := &finiCounter{calls: make(chan struct{}, 1)}
	core.SetCrashFinalizer(fin)
	defer core.SetCrashFinalizer(nil)

	exited := make(chan int, 1)
	core.SetExitFunc(func(code int) { exited <- code })
	defer core.SetExitFunc(nil)

	e, err := New(failingSurface{screen}, Options{Config: config.Default()})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case code := <-exited:
		assert.Equal(t, 1, code)
	case <-time.After(3 * time.Second):
		t.Fatal("crash handler did not run")
	}
	select {
	case <-fin.calls:
	default:
		t.Fatal("terminal was not restored")
	}

	// With exit swapped out the group still unwinds
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestStepBounds(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"up", stepUp(80, 1.25, 400), 100},
		{"up clamps", stepUp(380, 1.25, 400), 400},
		{"up above limit holds", stepUp(500, 1.25, 400), 500},
		{"down", stepDown(100, 1.25, 10), 80},
		{"down clamps", stepDown(11, 1.25, 10), 10},
		{"down below limit holds", stepDown(5, 1.25, 10), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}
}

func TestHUDText(t *testing.T) {
	text := hudText(crack.Stats{Cracks: 3, Injections: 1, Points: 50, FilledPoints: 7, State: crack.StateInjecting},
		crack.DefaultSettings())
	assert.Contains(t, text, "cracks 3/40")
	assert.Contains(t, text, "filled 7/50")
	assert.Contains(t, text, "radius 80")
	assert.Contains(t, text, "injecting")
}
