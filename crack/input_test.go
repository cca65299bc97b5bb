package crack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/crackfield/vmath"
)

func TestInputStateMachine(t *testing.T) {
	f, _ := newTestField(t)
	assert.Equal(t, StateIdle, f.State())
	_, ok := f.Pointer()
	assert.False(t, ok)

	f.OnPointerMove(5, 5)
	assert.Empty(t, f.Injections(), "moving while idle never injects")
	p, ok := f.Pointer()
	require.True(t, ok)
	assert.Equal(t, vmath.V2(5, 5), p)

	f.OnPointerDown(10, 10)
	assert.Equal(t, StateInjecting, f.State())
	assert.Len(t, f.Injections(), 1)

	f.OnPointerMove(20, 10)
	f.OnPointerMove(30, 10)
	assert.Len(t, f.Injections(), 3, "each move while injecting adds one")

	f.OnClick(30, 10)
	assert.Len(t, f.Injections(), 3, "click during a press is ignored")

	f.OnPointerUp(30, 10)
	assert.Equal(t, StateIdle, f.State())

	f.OnPointerMove(40, 10)
	assert.Len(t, f.Injections(), 3)
}

func TestClickAfterPressIsAbsorbed(t *testing.T) {
	f, _ := newTestField(t)

	f.OnPointerDown(50, 50)
	f.OnPointerUp(50, 50)
	f.OnClick(50, 50)
	assert.Len(t, f.Injections(), 1, "the press already injected")

	f.OnClick(60, 60)
	assert.Len(t, f.Injections(), 2, "a lone click injects")

	f.OnClick(70, 70)
	assert.Len(t, f.Injections(), 3)
}

func TestOnlyTheClosingClickIsAbsorbed(t *testing.T) {
	tests := []struct {
		name  string
		input func(f *Field)
		want  int
	}{
		{"drag then click elsewhere", func(f *Field) {
			f.OnPointerDown(100, 100)
			f.OnPointerMove(120, 100)
			f.OnPointerUp(120, 100)
			f.OnClick(400, 300)
		}, 3},
		{"drag then closing click", func(f *Field) {
			f.OnPointerDown(100, 100)
			f.OnPointerMove(120, 100)
			f.OnPointerUp(120, 100)
			f.OnClick(120, 100)
		}, 2},
		{"move after release disarms", func(f *Field) {
			f.OnPointerDown(100, 100)
			f.OnPointerUp(100, 100)
			f.OnPointerMove(100, 100)
			f.OnClick(100, 100)
		}, 2},
		{"excluded press disarms", func(f *Field) {
			f.OnPointerDown(100, 100)
			f.OnPointerUp(100, 100)
			f.SetExclusions([]Rect{{X: 0, Y: 0, W: 10, H: 10}})
			f.OnPointerDown(5, 5)
			f.OnPointerUp(5, 5)
			f.OnClick(100, 100)
		}, 2},
		{"absorb only once", func(f *Field) {
			f.OnPointerDown(100, 100)
			f.OnPointerUp(100, 100)
			f.OnClick(100, 100)
			f.OnClick(100, 100)
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestField(t)
			tt.input(f)
			assert.Len(t, f.Injections(), tt.want)
		})
	}
}

func TestExclusionsBlockInjection(t *testing.T) {
	f, _ := newTestField(t)
	f.SetExclusions([]Rect{{X: 0, Y: 0, W: 100, H: 20}})

	f.OnPointerDown(50, 10)
	assert.Equal(t, StateIdle, f.State(), "press inside an overlay does not start injecting")
	f.OnPointerMove(60, 40)
	f.OnPointerUp(60, 40)
	f.OnClick(50, 10)
	assert.Empty(t, f.Injections())

	// Pointer still tracks for displacement
	p, ok := f.Pointer()
	require.True(t, ok)
	assert.Equal(t, vmath.V2(60, 40), p)

	f.OnPointerDown(50, 20)
	assert.Equal(t, StateInjecting, f.State(), "bottom edge is exclusive")
	f.OnPointerUp(50, 20)

	f.OnClick(50, 20)
	assert.Len(t, f.Injections(), 1, "click closing the press is absorbed")

	f.SetExclusions(nil)
	f.OnClick(50, 10)
	assert.Len(t, f.Injections(), 2)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14.9, 14.9))
	assert.False(t, r.Contains(15, 12))
	assert.False(t, r.Contains(9.9, 12))
}

func TestScrollBoost(t *testing.T) {
	tests := []struct {
		name        string
		sensitivity float64
		offsets     []float64
		want        float64
	}{
		{"below threshold", 1, []float64{10}, 0},
		{"proportional", 1, []float64{50}, 0.5},
		{"scaled by sensitivity", 0.5, []float64{60}, 0.3},
		{"clamped", 1, []float64{5000}, 1},
		{"delta is relative to last offset", 1, []float64{100, 130}, 0.3},
		{"small delta clears boost", 1, []float64{100, 105}, 0},
		{"reverse direction", 1, []float64{100, 60}, 0.4},
		{"zero sensitivity", 0, []float64{5000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestField(t, WithSettings(settingsWith(func(s *Settings) { s.ScrollSensitivity = tt.sensitivity })))
			for _, off := range tt.offsets {
				f.OnScroll(off)
			}
			assert.InDelta(t, tt.want, f.GrowthBoost(), 1e-9)
		})
	}
}

func TestScrollWithZeroSensitivityNeverSpawns(t *testing.T) {
	f, _ := newTestField(t, WithSettings(settingsWith(func(s *Settings) { s.ScrollSensitivity = 0 })))
	before := f.Stats().CracksSpawned
	for i := 1; i <= 100; i++ {
		f.OnScroll(float64(i) * 500)
	}
	assert.Equal(t, before, f.Stats().CracksSpawned)
	assert.Zero(t, f.GrowthBoost())
}

func TestScrollSpawnsWhenBelowFill(t *testing.T) {
	// 0.1 passes the spawn roll at full sensitivity
	f, _ := newTestField(t,
		WithSettings(settingsWith(func(s *Settings) { s.ScrollSensitivity = 1 })),
		WithSource(constSource(0.1)))
	before := f.Stats().CracksSpawned

	f.OnScroll(500)
	assert.Greater(t, f.Stats().CracksSpawned, before)
}

func TestScrollSkipsSpawnWhenNearlyFull(t *testing.T) {
	f, _ := newTestField(t,
		WithSettings(settingsWith(func(s *Settings) { s.ScrollSensitivity = 1; s.CrackCount = 5 })),
		WithSource(constSource(0.1)))
	require.Len(t, f.Cracks(), 5)
	before := f.Stats().CracksSpawned

	f.OnScroll(500)
	assert.Equal(t, before, f.Stats().CracksSpawned)
	assert.Equal(t, 1.0, f.GrowthBoost())
}

func TestResizeKeepsGeometry(t *testing.T) {
	f, _ := newTestField(t)
	before := f.Cracks()

	f.OnResize(1200, 900)
	w, h := f.Size()
	assert.Equal(t, 1200.0, w)
	assert.Equal(t, 900.0, h)
	assert.Equal(t, before, f.Cracks())

	f.OnResize(0, 500)
	f.OnResize(500, -1)
	w, h = f.Size()
	assert.Equal(t, 1200.0, w)
	assert.Equal(t, 900.0, h)
}
