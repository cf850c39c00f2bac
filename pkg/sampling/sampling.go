// Package sampling generates point clouds on the surface of a triangle mesh.
//
// All strategies share one contract: Sample takes a validated mesh, a Config
// and a caller-supplied random source, and returns a PointCloud of at most
// Config.TargetCount points. Callers never need to know which strategy ran.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/taigrr/meshcloud/pkg/math3d"
	"github.com/taigrr/meshcloud/pkg/models"
)

var (
	ErrInvalidConfig = errors.New("invalid sampling config")
	ErrZeroArea      = errors.New("mesh has no surface area")
)

// Config controls a sampling run.
type Config struct {
	TargetCount int
	// MaxCandidateTrials caps the total number of candidate proposals.
	// Zero or less means no cap.
	MaxCandidateTrials int
	// MaxPlacementTrials caps consecutive rejected candidates.
	// Zero or less means no cap.
	MaxPlacementTrials int
	Strategy           Strategy
}

// DefaultConfig returns the blue-noise settings the CLI uses by default.
func DefaultConfig() Config {
	return Config{
		TargetCount:        10000,
		MaxCandidateTrials: 10000,
		MaxPlacementTrials: 10000,
		Strategy:           PoissonDisk{MinDistance: 0.1},
	}
}

// Validate checks the config without looking at a mesh.
func (c Config) Validate() error {
	if c.TargetCount < 0 {
		return fmt.Errorf("%w: target count must not be negative, got %d", ErrInvalidConfig, c.TargetCount)
	}
	if c.Strategy == nil {
		return fmt.Errorf("%w: no strategy", ErrInvalidConfig)
	}
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	if _, ok := c.Strategy.(PoissonDisk); ok && c.MaxCandidateTrials <= 0 && c.MaxPlacementTrials <= 0 {
		return fmt.Errorf("%w: poisson sampling needs a candidate or placement trial budget", ErrInvalidConfig)
	}
	return nil
}

// Point is a sample on the mesh surface.
type Point struct {
	Position math3d.Vec3
	Normal   math3d.Vec3 // Unit normal of the source face
	Face     int         // Index of the face the point was drawn from
}

// Stats describes how a run went.
type Stats struct {
	Candidates int  // Candidate points proposed
	Rejections int  // Candidates dropped by the distance constraint
	Exhausted  bool // A trial budget ran out before TargetCount was reached
}

// PointCloud is the result of a sampling run. It is not modified after
// Sample returns.
type PointCloud struct {
	Points    []Point
	Requested int
	Strategy  string
	Stats     Stats
}

// Len returns the number of points.
func (c PointCloud) Len() int {
	return len(c.Points)
}

// Positions returns the point positions.
func (c PointCloud) Positions() []math3d.Vec3 {
	out := make([]math3d.Vec3, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Position
	}
	return out
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample draws points on the surface of mesh.
func Sample(mesh *models.Mesh, cfg Config, rng *rand.Rand) (PointCloud, error) {
	if err := cfg.Validate(); err != nil {
		return PointCloud{}, err
	}
	if rng == nil {
		return PointCloud{}, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	if err := mesh.Validate(); err != nil {
		return PointCloud{}, err
	}

	surf, err := newSurface(mesh)
	if err != nil {
		return PointCloud{}, err
	}

	cloud := PointCloud{
		Requested: cfg.TargetCount,
		Strategy:  cfg.Strategy.String(),
	}

	switch s := cfg.Strategy.(type) {
	case UniformArea:
		cloud.Points = sampleUniform(surf, cfg.TargetCount, rng)
		cloud.Stats.Candidates = cfg.TargetCount
	case PoissonDisk:
		cloud.Points, cloud.Stats = samplePoisson(surf, cfg, s.MinDistance, rng)
	}
	return cloud, nil
}

// surface is an area-weighted view of a mesh used to draw candidates.
type surface struct {
	mesh    *models.Mesh
	cum     []float64 // cum[i] = total area of faces 0..i
	normals []math3d.Vec3
	last    int // Last face with non-zero area
}

func newSurface(mesh *models.Mesh) (*surface, error) {
	s := &surface{
		mesh:    mesh,
		cum:     make([]float64, len(mesh.Faces)),
		normals: make([]math3d.Vec3, len(mesh.Faces)),
		last:    -1,
	}

	var total float64
	for i := range mesh.Faces {
		a, b, c := mesh.Triangle(i)
		area := math3d.TriangleArea(a, b, c)
		if math.IsNaN(area) || math.IsInf(area, 0) {
			area = 0
		}
		if area > 0 {
			s.last = i
		}
		total += area
		s.cum[i] = total
		s.normals[i] = math3d.TriangleNormal(a, b, c)
	}

	if s.last < 0 {
		return nil, fmt.Errorf("%w: %d faces", ErrZeroArea, len(mesh.Faces))
	}
	return s, nil
}

func (s *surface) area() float64 {
	return s.cum[len(s.cum)-1]
}

// pickFace returns a face index with probability proportional to its area.
// Zero-area faces are never returned.
func (s *surface) pickFace(rng *rand.Rand) int {
	u := rng.Float64() * s.area()
	i := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > u })
	if i >= len(s.cum) {
		return s.last
	}
	return i
}

// draw returns one area-weighted point on the surface.
func (s *surface) draw(rng *rand.Rand) Point {
	face := s.pickFace(rng)
	a, b, c := s.mesh.Triangle(face)

	r1 := math.Sqrt(rng.Float64())
	r2 := rng.Float64()
	pos := math3d.BarycentricPoint(a, b, c, 1-r1, r1*(1-r2), r1*r2)

	return Point{Position: pos, Normal: s.normals[face], Face: face}
}

func sampleUniform(s *surface, n int, rng *rand.Rand) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = s.draw(rng)
	}
	return points
}

func samplePoisson(s *surface, cfg Config, minDist float64, rng *rand.Rand) ([]Point, Stats) {
	var (
		stats       Stats
		consecutive int
		points      = make([]Point, 0, min(cfg.TargetCount, 1<<16))
		grid        = newHashGrid(minDist)
	)

	for len(points) < cfg.TargetCount {
		if cfg.MaxCandidateTrials > 0 && stats.Candidates >= cfg.MaxCandidateTrials {
			stats.Exhausted = true
			break
		}
		if cfg.MaxPlacementTrials > 0 && consecutive >= cfg.MaxPlacementTrials {
			stats.Exhausted = true
			break
		}

		stats.Candidates++
		p := s.draw(rng)
		if grid.hasNeighbor(p.Position, points) {
			stats.Rejections++
			consecutive++
			continue
		}

		consecutive = 0
		grid.insert(p.Position, len(points))
		points = append(points, p)
	}

	return points, stats
}
