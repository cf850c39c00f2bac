package viewport

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/meshcloud/pkg/math3d"
	"github.com/taigrr/meshcloud/pkg/models"
)

func TestNewUsesLargestAxis(t *testing.T) {
	bounds := [3]models.AxisBounds{
		{Min: -1, Max: 3}, // extent 4
		{Min: 0, Max: 10}, // extent 10
		{Min: 2, Max: 2},  // flat
	}

	plan, err := New(bounds)
	require.NoError(t, err)

	assert.Equal(t, math3d.V3(1, 5, 2), plan.Center)
	assert.InDelta(t, 5, plan.HalfExtent, 1e-12)
	assert.InDelta(t, 0.5, plan.TickStep, 1e-12)
	assert.Equal(t, DefaultDivisions, plan.Divisions)

	axes := plan.Axes()
	for axis, r := range axes {
		assert.InDelta(t, 10, r.Span(), 1e-12, "axis %d span", axis)
		assert.InDelta(t, plan.Center.Axis(axis), (r.Min+r.Max)/2, 1e-12, "axis %d center", axis)
		assert.Equal(t, plan.TickStep, r.Step)
	}
}

func TestNewDegenerate(t *testing.T) {
	mesh := models.FromArrays("point", []math3d.Vec3{
		math3d.V3(1, 1, 1),
		math3d.V3(1, 1, 1),
		math3d.V3(1, 1, 1),
	}, [][3]int{{0, 1, 2}})

	_, err := FromMesh(mesh)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)

	plan, err := FromMesh(mesh, WithMinHalfExtent(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, plan.HalfExtent)
	assert.Equal(t, math3d.V3(1, 1, 1), plan.Center)
}

func TestNewEmptyMesh(t *testing.T) {
	_, err := FromMesh(models.NewMesh("empty"))
	assert.ErrorIs(t, err, models.ErrEmptyGeometry)
}

func TestNewNonFinite(t *testing.T) {
	bounds := [3]models.AxisBounds{{Min: 0, Max: math.Inf(1)}, {Min: 0, Max: 1}, {Min: 0, Max: 1}}
	_, err := New(bounds)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestWithDivisions(t *testing.T) {
	bounds := [3]models.AxisBounds{{Min: 0, Max: 2}, {Min: 0, Max: 2}, {Min: 0, Max: 2}}

	plan, err := New(bounds, WithDivisions(4))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, plan.TickStep, 1e-12)

	_, err = New(bounds, WithDivisions(0))
	assert.ErrorIs(t, err, ErrInvalidDivisions)
}

func TestPlanLinearity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := range 25 {
		verts := make([]math3d.Vec3, 2+rng.IntN(50))
		for i := range verts {
			verts[i] = math3d.V3(rng.NormFloat64(), rng.NormFloat64()*4, rng.Float64()*2)
		}
		k := 0.1 + rng.Float64()*20

		scaled := make([]math3d.Vec3, len(verts))
		for i, v := range verts {
			scaled[i] = v.Scale(k)
		}

		b1, err := models.ComputeBounds(verts)
		require.NoError(t, err)
		b2, err := models.ComputeBounds(scaled)
		require.NoError(t, err)

		p1, err := New(b1)
		require.NoError(t, err)
		p2, err := New(b2)
		require.NoError(t, err)

		maxExtent := 0.0
		for _, b := range b1 {
			maxExtent = math.Max(maxExtent, b.Extent())
		}
		assert.InDelta(t, maxExtent/2, p1.HalfExtent, 1e-12, "trial %d", trial)

		tol := 1e-9 * k * (1 + p1.HalfExtent + p1.Center.Len())
		assert.InDelta(t, k*p1.HalfExtent, p2.HalfExtent, tol, "trial %d half extent", trial)
		assert.InDelta(t, 0, p1.Center.Scale(k).Distance(p2.Center), tol, "trial %d center", trial)
	}
}

func TestTicks(t *testing.T) {
	r := AxisRange{Min: -1, Max: 1, Step: 0.5}
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, r.Ticks())

	plan, err := New([3]models.AxisBounds{{Min: 0, Max: 1}, {Min: 0, Max: 1}, {Min: 0, Max: 1}})
	require.NoError(t, err)
	for _, axis := range plan.Axes() {
		assert.Len(t, axis.Ticks(), 2*DefaultDivisions+1)
	}
}

func TestNormalize(t *testing.T) {
	plan, err := New([3]models.AxisBounds{{Min: 0, Max: 4}, {Min: -2, Max: 0}, {Min: 1, Max: 3}})
	require.NoError(t, err)

	assert.Equal(t, math3d.V3(0, 0, 0), plan.Normalize(plan.Center))
	assert.InDelta(t, 1, plan.Normalize(math3d.V3(4, -1, 2)).X, 1e-12)
	assert.InDelta(t, -1, plan.Normalize(math3d.V3(0, -1, 2)).X, 1e-12)
}
