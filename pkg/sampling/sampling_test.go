package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshcloud/pkg/math3d"
	"github.com/taigrr/meshcloud/pkg/models"
)

func unitSquare() *models.Mesh {
	return models.FromArrays("square",
		[]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
}

// onSurface reports whether p lies on face p.Face within tol.
func onSurface(t *testing.T, mesh *models.Mesh, p Point, tol float64) bool {
	t.Helper()
	a, b, c := mesh.Triangle(p.Face)
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Position.Sub(a)

	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return false
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	dist := v2.Dot(v0.Cross(v1).Normalize())

	return math.Abs(dist) <= tol &&
		1-v-w >= -tol && v >= -tol && w >= -tol
}

func TestUniformExactCount(t *testing.T) {
	mesh := models.Tetrahedron()
	cloud, err := Sample(mesh, Config{TargetCount: 500, Strategy: UniformArea{}}, NewRand(1))
	require.NoError(t, err)

	assert.Equal(t, 500, cloud.Len())
	assert.Equal(t, 500, cloud.Requested)
	assert.Equal(t, "uniform", cloud.Strategy)
	assert.False(t, cloud.Stats.Exhausted)
	for _, p := range cloud.Points {
		assert.True(t, onSurface(t, mesh, p, 1e-9), "point %v off face %d", p.Position, p.Face)
		assert.InDelta(t, 1.0, p.Normal.Len(), 1e-9)
	}
}

func TestUniformZeroTarget(t *testing.T) {
	cloud, err := Sample(models.Tetrahedron(), Config{TargetCount: 0, Strategy: UniformArea{}}, NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, 0, cloud.Len())
}

func TestUniformIsAreaWeighted(t *testing.T) {
	// Face 0 has area 2, face 1 has area 0.5.
	mesh := models.FromArrays("pair",
		[]math3d.Vec3{
			math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 2, 0),
			math3d.V3(5, 0, 0), math3d.V3(6, 0, 0), math3d.V3(5, 1, 0),
		},
		[][3]int{{0, 1, 2}, {3, 4, 5}},
	)

	const n = 20000
	cloud, err := Sample(mesh, Config{TargetCount: n, Strategy: UniformArea{}}, NewRand(7))
	require.NoError(t, err)

	var big int
	for _, p := range cloud.Points {
		if p.Face == 0 {
			big++
		}
	}
	assert.InDelta(t, 0.8, float64(big)/n, 0.02)
}

func TestZeroAreaFacesNeverChosen(t *testing.T) {
	mesh := models.FromArrays("mixed",
		[]math3d.Vec3{
			math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(2, 0, 0), // collinear
			math3d.V3(0, 1, 0),
		},
		[][3]int{{0, 1, 2}, {0, 1, 3}, {1, 1, 1}},
	)

	cloud, err := Sample(mesh, Config{TargetCount: 2000, Strategy: UniformArea{}}, NewRand(3))
	require.NoError(t, err)
	for _, p := range cloud.Points {
		assert.Equal(t, 1, p.Face)
	}
}

func TestZeroAreaMesh(t *testing.T) {
	mesh := models.FromArrays("line",
		[]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(2, 0, 0)},
		[][3]int{{0, 1, 2}},
	)
	_, err := Sample(mesh, Config{TargetCount: 10, Strategy: UniformArea{}}, NewRand(1))
	assert.ErrorIs(t, err, ErrZeroArea)
}

func TestPoissonMinDistance(t *testing.T) {
	mesh := unitSquare()
	cfg := Config{
		TargetCount:        400,
		MaxCandidateTrials: 20000,
		MaxPlacementTrials: 2000,
		Strategy:           PoissonDisk{MinDistance: 0.05},
	}
	cloud, err := Sample(mesh, cfg, NewRand(42))
	require.NoError(t, err)

	require.LessOrEqual(t, cloud.Len(), cfg.TargetCount)
	require.NotZero(t, cloud.Len())
	assert.LessOrEqual(t, cloud.Stats.Candidates, cfg.MaxCandidateTrials)
	assert.Equal(t, cloud.Stats.Candidates-cloud.Len(), cloud.Stats.Rejections)

	for i := range cloud.Points {
		assert.True(t, onSurface(t, mesh, cloud.Points[i], 1e-9))
		for j := i + 1; j < len(cloud.Points); j++ {
			d := cloud.Points[i].Position.Distance(cloud.Points[j].Position)
			if d < 0.05 {
				t.Fatalf("points %d and %d are %v apart", i, j, d)
			}
		}
	}
}

func TestPoissonSaturates(t *testing.T) {
	// A min distance larger than the square's diagonal admits one point.
	cfg := Config{
		TargetCount:        10,
		MaxCandidateTrials: 0,
		MaxPlacementTrials: 50,
		Strategy:           PoissonDisk{MinDistance: 2},
	}
	cloud, err := Sample(unitSquare(), cfg, NewRand(9))
	require.NoError(t, err)

	assert.Equal(t, 1, cloud.Len())
	assert.True(t, cloud.Stats.Exhausted)
	assert.Equal(t, 51, cloud.Stats.Candidates)
}

func TestPoissonCandidateBudget(t *testing.T) {
	cfg := Config{
		TargetCount:        1000,
		MaxCandidateTrials: 25,
		Strategy:           PoissonDisk{MinDistance: 1e-6},
	}
	cloud, err := Sample(unitSquare(), cfg, NewRand(2))
	require.NoError(t, err)
	assert.Equal(t, 25, cloud.Stats.Candidates)
	assert.LessOrEqual(t, cloud.Len(), 25)
}

func TestDeterministic(t *testing.T) {
	strategies := []Config{
		{TargetCount: 300, Strategy: UniformArea{}},
		{TargetCount: 300, MaxCandidateTrials: 3000, Strategy: PoissonDisk{MinDistance: 0.05}},
	}
	for _, cfg := range strategies {
		t.Run(cfg.Strategy.String(), func(t *testing.T) {
			a, err := Sample(models.Tetrahedron(), cfg, NewRand(1234))
			require.NoError(t, err)
			b, err := Sample(models.Tetrahedron(), cfg, NewRand(1234))
			require.NoError(t, err)
			assert.Equal(t, a, b)

			c, err := Sample(models.Tetrahedron(), cfg, NewRand(4321))
			require.NoError(t, err)
			assert.NotEqual(t, a.Points, c.Points)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative target", Config{TargetCount: -1, Strategy: UniformArea{}}},
		{"no strategy", Config{TargetCount: 1}},
		{"zero min distance", Config{TargetCount: 1, MaxCandidateTrials: 10, Strategy: PoissonDisk{}}},
		{"nan min distance", Config{TargetCount: 1, MaxCandidateTrials: 10, Strategy: PoissonDisk{MinDistance: math.NaN()}}},
		{"unbounded poisson", Config{TargetCount: 1, Strategy: PoissonDisk{MinDistance: 0.1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Sample(models.Tetrahedron(), tc.cfg, NewRand(1))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Sample(models.Tetrahedron(), Config{TargetCount: 1, Strategy: UniformArea{}}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInvalidMesh(t *testing.T) {
	mesh := models.FromArrays("bad", []math3d.Vec3{math3d.V3(0, 0, 0)}, [][3]int{{0, 0, 5}})
	_, err := Sample(mesh, Config{TargetCount: 1, Strategy: UniformArea{}}, NewRand(1))
	assert.ErrorIs(t, err, models.ErrInvalidFaceIndex)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("uniform", 0)
	require.NoError(t, err)
	assert.Equal(t, UniformArea{}, s)

	s, err = ParseStrategy("poisson", 0.25)
	require.NoError(t, err)
	assert.Equal(t, PoissonDisk{MinDistance: 0.25}, s)

	_, err = ParseStrategy("stratified", 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func BenchmarkUniform(b *testing.B) {
	mesh := models.Tetrahedron()
	cfg := Config{TargetCount: 10000, Strategy: UniformArea{}}
	for b.Loop() {
		_, _ = Sample(mesh, cfg, NewRand(1))
	}
}

func BenchmarkPoisson(b *testing.B) {
	mesh := models.Tetrahedron()
	cfg := DefaultConfig()
	for b.Loop() {
		_, _ = Sample(mesh, cfg, NewRand(1))
	}
}
