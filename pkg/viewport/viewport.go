// Package viewport derives an isotropic, centered viewing volume from mesh
// bounds so the rendered cube is neither clipped nor stretched on any axis.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/meshcloud/pkg/math3d"
	"github.com/taigrr/meshcloud/pkg/models"
)

// DefaultDivisions is the number of tick subdivisions per half-extent.
const DefaultDivisions = 10

var (
	ErrDegenerateGeometry = errors.New("degenerate geometry: zero-volume bounds")
	ErrInvalidDivisions   = errors.New("tick divisions must be positive")
)

// Plan is the viewing volume shared by every rendered frame. All three axes
// use the same HalfExtent.
type Plan struct {
	Center     math3d.Vec3
	HalfExtent float64
	TickStep   float64
	Divisions  int
}

// AxisRange is the drawn span of one axis with its tick spacing.
type AxisRange struct {
	Min  float64
	Max  float64
	Step float64
}

type options struct {
	divisions     int
	minHalfExtent float64
}

// Option configures New.
type Option func(*options)

// WithDivisions sets the tick subdivision count.
func WithDivisions(k int) Option {
	return func(o *options) { o.divisions = k }
}

// WithMinHalfExtent substitutes eps for a zero half-extent instead of
// failing with ErrDegenerateGeometry.
func WithMinHalfExtent(eps float64) Option {
	return func(o *options) { o.minHalfExtent = eps }
}

// New builds a Plan from per-axis bounds.
func New(bounds [3]models.AxisBounds, opts ...Option) (Plan, error) {
	o := options{divisions: DefaultDivisions}
	for _, opt := range opts {
		opt(&o)
	}
	if o.divisions <= 0 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidDivisions, o.divisions)
	}

	var center math3d.Vec3
	half := 0.0
	for axis, b := range bounds {
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
			return Plan{}, fmt.Errorf("%w: axis %d bounds [%v, %v] are not finite", ErrDegenerateGeometry, axis, b.Min, b.Max)
		}
		center = center.WithAxis(axis, b.Mid())
		half = math.Max(half, b.Extent()/2)
	}

	if half == 0 {
		if o.minHalfExtent <= 0 {
			return Plan{}, fmt.Errorf("%w: all vertices at %v", ErrDegenerateGeometry, center)
		}
		half = o.minHalfExtent
	}

	return Plan{
		Center:     center,
		HalfExtent: half,
		TickStep:   half / float64(o.divisions),
		Divisions:  o.divisions,
	}, nil
}

// FromMesh computes the mesh bounds and plans a viewport for them.
func FromMesh(mesh *models.Mesh, opts ...Option) (Plan, error) {
	bounds, err := mesh.Bounds()
	if err != nil {
		return Plan{}, err
	}
	return New(bounds, opts...)
}

// Axes returns the X, Y and Z ranges. Every range has the same span.
func (p Plan) Axes() [3]AxisRange {
	var out [3]AxisRange
	for axis := range out {
		c := p.Center.Axis(axis)
		out[axis] = AxisRange{
			Min:  c - p.HalfExtent,
			Max:  c + p.HalfExtent,
			Step: p.TickStep,
		}
	}
	return out
}

// Normalize maps a world point into the unit cube [-1, 1]^3.
func (p Plan) Normalize(v math3d.Vec3) math3d.Vec3 {
	return v.Sub(p.Center).Scale(1 / p.HalfExtent)
}

// Span returns Max - Min.
func (r AxisRange) Span() float64 {
	return r.Max - r.Min
}

// Ticks returns the tick positions from Min to Max inclusive.
func (r AxisRange) Ticks() []float64 {
	if r.Step <= 0 || r.Max < r.Min {
		return []float64{r.Min}
	}
	n := int(math.Round(r.Span() / r.Step))
	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, r.Min+float64(i)*r.Step)
	}
	return ticks
}
