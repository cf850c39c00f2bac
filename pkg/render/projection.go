package render

import (
	"image"
	"math"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// Projection is an orthographic orbit view of the unit cube [-1, 1]^3.
type Projection struct {
	Yaw   float64 // Rotation around the vertical axis, radians
	Pitch float64 // Tilt toward the viewer, radians
	Scale float64 // Zoom, 1 fits the cube's bounding sphere
}

// Matrix returns the view matrix: scale, then yaw, then pitch.
func (p Projection) Matrix() math3d.Mat4 {
	return math3d.RotateX(p.Pitch).
		Mul(math3d.RotateY(p.Yaw)).
		Mul(math3d.ScaleUniform(p.Scale))
}

// viewer maps unit-cube points into a screen rectangle.
type viewer struct {
	view   math3d.Mat4
	cx, cy float64
	k      float64 // Pixels per view unit
}

func newViewer(p Projection, area image.Rectangle) viewer {
	size := math.Min(float64(area.Dx()), float64(area.Dy()))
	return viewer{
		view: p.Matrix(),
		cx:   float64(area.Min.X) + float64(area.Dx())/2,
		cy:   float64(area.Min.Y) + float64(area.Dy())/2,
		// The rotated cube fits in a sphere of radius sqrt(3).
		k: size / 2 / math.Sqrt(3),
	}
}

// project returns screen coordinates and depth for p. Larger depth is
// nearer the viewer.
func (v viewer) project(p math3d.Vec3) (x, y, depth float64) {
	q := v.view.MulVec3(p)
	return v.cx + q.X*v.k, v.cy - q.Y*v.k, q.Z
}

// facing returns the view-space z of direction d. Negative means d points
// away from the viewer.
func (v viewer) facing(d math3d.Vec3) float64 {
	return v.view.MulVec3Dir(d).Z
}

// Project maps a point of the unit cube to screen coordinates inside area.
func (p Projection) Project(pt math3d.Vec3, area image.Rectangle) (x, y, depth float64) {
	return newViewer(p, area).project(pt)
}
