package crack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

func TestCreateCracksPopulation(t *testing.T) {
	// Large limit so no initial main is evicted by mid-path branches
	f, _ := newTestField(t, WithSettings(settingsWith(func(s *Settings) { s.CrackCount = 1000 })))
	cracks := f.Cracks()

	mainCount := 0
	for _, c := range cracks {
		if c.Kind == KindMain {
			mainCount++
		}
		require.NotEmpty(t, c.Points, "crack %d has no points", c.ID)
		assert.Zero(t, c.RevealProgress)
	}
	assert.GreaterOrEqual(t, mainCount, parameter.InitialMainMin)
	assert.LessOrEqual(t, mainCount, parameter.InitialMainMax)
	assert.GreaterOrEqual(t, len(cracks), parameter.InitialMainMin+parameter.InitialBranchMin)
}

func TestSameSeedSameGeometry(t *testing.T) {
	a, _ := newTestField(t, WithSeed(42))
	b, _ := newTestField(t, WithSeed(42))
	assert.Equal(t, a.Cracks(), b.Cracks())

	c, _ := newTestField(t, WithSeed(43))
	assert.NotEqual(t, a.Cracks(), c.Cracks())
}

func TestGrowPathStraightWalk(t *testing.T) {
	f, _ := newTestField(t, WithSource(constSource(0.5)))

	// Every draw is 0.5: bottom edge at the center, heading straight up, 25-unit steps
	f.spawnEdgeCrack()
	cracks := f.Cracks()
	c := cracks[len(cracks)-1]

	require.Equal(t, KindMain, c.Kind)
	require.Len(t, c.Points, 27, "walk must stop once y leaves the 10%% margin")
	for i, p := range c.Points {
		assert.InDelta(t, testWidth/2, p.X, 1e-9)
		assert.InDelta(t, testHeight-25*float64(i), p.Y, 1e-9)
	}
	assert.Equal(t, c.BaseWidth, c.Points[0].Width)
}

func TestWidthRampIsMonotonic(t *testing.T) {
	prev := widthAt(1, 5, 0)
	assert.Equal(t, 1.0, prev)
	for i := 1; i <= 100; i++ {
		w := widthAt(1, 5, float64(i)/100)
		assert.GreaterOrEqual(t, w, prev)
		prev = w
	}
	assert.InDelta(t, 3.0, widthAt(1, 5, parameter.WidthKneeProgress), 1e-9, "knee reaches half the growth")
	assert.InDelta(t, 5.0, widthAt(1, 5, 1), 1e-9)
}

func TestWalksStayInsideMargin(t *testing.T) {
	f, _ := newTestField(t, WithSeed(7))
	mx := testWidth * parameter.BoundsMargin
	my := testHeight * parameter.BoundsMargin
	for i := 0; i < 50; i++ {
		f.autonomousCrack()
	}
	for _, c := range f.Cracks() {
		for _, p := range c.Points {
			assert.GreaterOrEqual(t, p.X, -mx)
			assert.LessOrEqual(t, p.X, testWidth+mx)
			assert.GreaterOrEqual(t, p.Y, -my)
			assert.LessOrEqual(t, p.Y, testHeight+my)
		}
	}
}

func TestBranchFallsBackToInteriorWhenEmpty(t *testing.T) {
	f, _ := newTestField(t)
	f.cracks = nil

	assert.NotPanics(t, f.branchFromExisting)
	cracks := f.Cracks()
	require.NotEmpty(t, cracks)
	assert.Equal(t, KindSecondary, cracks[len(cracks)-1].Kind)
}

func TestBranchFallsBackWhenNoCrackHasInterior(t *testing.T) {
	f, _ := newTestField(t)
	f.cracks = []*Crack{
		{ID: 1, Points: []Point{{X: 1, Y: 1}}},
		{ID: 2, Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
		{ID: 3},
	}
	f.branchFromExisting()
	cracks := f.Cracks()
	assert.Equal(t, KindSecondary, cracks[len(cracks)-1].Kind)
}

func TestBranchRootsOnInteriorPoint(t *testing.T) {
	f, _ := newTestField(t, WithSource(constSource(0.5)))
	parent := straightCrack(1, 100, 300, 5, 2)
	f.cracks = []*Crack{parent}

	f.branchFromExisting()
	cracks := f.Cracks()
	require.Len(t, cracks, 2)
	branch := cracks[1]
	assert.Equal(t, KindBranch, branch.Kind)

	// rangei(1, 4) with 0.5 picks index 2; heading east, side +1 turns south
	root := parent.Points[2]
	assert.Equal(t, root.X, branch.Points[0].X)
	assert.Equal(t, root.Y, branch.Points[0].Y)
	assert.InDelta(t, root.X, branch.Points[1].X, 1e-9)
	assert.Greater(t, branch.Points[1].Y, root.Y)
}

func TestNearestPoint(t *testing.T) {
	f, _ := newTestField(t)
	f.cracks = []*Crack{straightCrack(1, 0, 0, 3, 1), straightCrack(2, 100, 100, 3, 1)}

	p, ok := f.nearestPoint(vmath.V2(115, 95))
	require.True(t, ok)
	assert.Equal(t, vmath.V2(120, 100), p)

	_, ok = f.nearestPoint(vmath.V2(0, 0))
	assert.False(t, ok, "coincident point gives no direction")

	f.cracks = nil
	_, ok = f.nearestPoint(vmath.V2(1, 1))
	assert.False(t, ok)
}

func TestEvictionKeepsNewest(t *testing.T) {
	f, _ := newTestField(t,
		WithSettings(settingsWith(func(s *Settings) { s.CrackCount = 1 })),
		WithSource(constSource(0.5)))
	require.Len(t, f.Cracks(), 1)

	f.spawnEdgeCrack()
	first := f.Cracks()[0].ID
	f.spawnEdgeCrack()

	cracks := f.Cracks()
	require.Len(t, cracks, 1)
	assert.Greater(t, cracks[0].ID, first, "the first spawn must be evicted")
	assert.Equal(t, f.nextID, cracks[0].ID)
}

func TestEvictionIsFIFOUnderChurn(t *testing.T) {
	f, _ := newTestField(t, WithSettings(settingsWith(func(s *Settings) { s.CrackCount = 12 })))
	for i := 0; i < 40; i++ {
		before := ids(f.Cracks())
		f.autonomousCrack()
		after := ids(f.Cracks())

		require.LessOrEqual(t, len(after), 12)
		for j := 1; j < len(after); j++ {
			require.Less(t, after[j-1], after[j], "creation order must be preserved")
		}
		// Survivors of the previous population are its newest members
		if len(before) > 0 && len(after) > 0 {
			oldest := after[0]
			for _, id := range before {
				if id >= oldest {
					assert.Contains(t, after, id)
				}
			}
		}
	}
	assert.Equal(t, f.spawned-uint64(len(f.cracks)), f.evicted)
}
