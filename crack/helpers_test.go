package crack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/render"
	"github.com/lixenwraith/crackfield/vmath"
)

const (
	testWidth  = 800.0
	testHeight = 600.0
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// constSource always returns the same value, making every walk straight and every chance deterministic
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

type drawCall struct {
	op     string
	x0, y0 float64
	x1, y1 float64
	width  float64
	color  render.RGB
	alpha  float64
	mode   render.BlendMode
	pts    []vmath.Vec2
}

// recordingCanvas captures draw calls in order
type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) Clear(bg render.RGB) {
	c.calls = append(c.calls, drawCall{op: "clear", color: bg})
}

func (c *recordingCanvas) StrokeLine(x0, y0, x1, y1, width float64, col render.RGB, alpha float64, mode render.BlendMode) {
	c.calls = append(c.calls, drawCall{op: "line", x0: x0, y0: y0, x1: x1, y1: y1, width: width, color: col, alpha: alpha, mode: mode})
}

func (c *recordingCanvas) StrokePolyline(pts []vmath.Vec2, width float64, col render.RGB, alpha float64) {
	c.calls = append(c.calls, drawCall{op: "polyline", pts: append([]vmath.Vec2(nil), pts...), width: width, color: col, alpha: alpha})
}

func (c *recordingCanvas) FillRadial(x, y, radius float64, col render.RGB, alpha float64) {
	c.calls = append(c.calls, drawCall{op: "radial", x0: x, y0: y, width: radius, color: col, alpha: alpha})
}

func (c *recordingCanvas) FillCircle(x, y, radius float64, col render.RGB, alpha float64) {
	c.calls = append(c.calls, drawCall{op: "circle", x0: x, y0: y, width: radius, color: col, alpha: alpha})
}

func (c *recordingCanvas) reset() {
	c.calls = c.calls[:0]
}

func (c *recordingCanvas) count(op string, mode ...render.BlendMode) int {
	n := 0
	for _, call := range c.calls {
		if call.op != op {
			continue
		}
		if len(mode) > 0 && call.mode != mode[0] {
			continue
		}
		n++
	}
	return n
}

func (c *recordingCanvas) filter(op string) []drawCall {
	var out []drawCall
	for _, call := range c.calls {
		if call.op == op {
			out = append(out, call)
		}
	}
	return out
}

// newTestField builds a seeded field with a frozen clock unless options override them
func newTestField(t *testing.T, opts ...Option) (*Field, *core.MockTimeProvider) {
	t.Helper()
	clock := core.NewMockTimeProvider(testEpoch)
	base := []Option{WithSeed(1), WithClock(clock)}
	f, err := New(testWidth, testHeight, append(base, opts...)...)
	require.NoError(t, err)
	return f, clock
}

func settingsWith(mod func(*Settings)) Settings {
	s := DefaultSettings()
	mod(&s)
	return s
}

// straightCrack builds a horizontal crack with evenly spaced points
func straightCrack(id uint64, x, y float64, n int, width float64) *Crack {
	c := &Crack{ID: id, Kind: KindMain, RevealProgress: 1, BaseWidth: width, MaxWidth: width}
	for i := 0; i < n; i++ {
		c.Points = append(c.Points, Point{X: x + float64(i)*20, Y: y, Width: width})
	}
	return c
}

func ids(cracks []Crack) []uint64 {
	out := make([]uint64, len(cracks))
	for i, c := range cracks {
		out[i] = c.ID
	}
	return out
}
