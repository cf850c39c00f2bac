package render

import (
	"github.com/taigrr/meshcloud/pkg/math3d"
)

// Wireframe draws 3D line work of the viewing cube.
type Wireframe struct {
	v     viewer
	fb    *Framebuffer
	width int // Line width in pixels
}

func newWireframe(v viewer, fb *Framebuffer, width int) *Wireframe {
	return &Wireframe{v: v, fb: fb, width: width}
}

// DrawLine3D draws a line between two unit-cube points.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _ := w.v.project(p1)
	x2, y2, _ := w.v.project(p2)
	w.fb.DrawThickLine(round(x1), round(y1), round(x2), round(y2), w.width, color)
}

// cubeCorners are the eight corners of [-1, 1]^3, bit i of the index
// selecting the sign of axis i.
var cubeCorners = func() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		for axis := range 3 {
			s := -1.0
			if i&(1<<axis) != 0 {
				s = 1
			}
			out[i] = out[i].WithAxis(axis, s)
		}
	}
	return out
}()

// DrawCube draws the twelve edges of the unit cube.
func (w *Wireframe) DrawCube(color Color) {
	for i := range cubeCorners {
		for axis := range 3 {
			j := i | 1<<axis
			if j != i {
				w.DrawLine3D(cubeCorners[i], cubeCorners[j], color)
			}
		}
	}
}

// DrawGridPlane draws lines across the cube face at axis == side, one
// through each tick of the two other axes. ticks holds unit-cube
// coordinates.
func (w *Wireframe) DrawGridPlane(axis int, side float64, ticks []float64, color Color) {
	for k := 1; k <= 2; k++ {
		a := (axis + k) % 3 // Axis the line runs across
		b := (axis + 3 - k) % 3
		for _, t := range ticks {
			p1 := math3d.Zero3().WithAxis(axis, side).WithAxis(a, t).WithAxis(b, -1)
			p2 := p1.WithAxis(b, 1)
			w.DrawLine3D(p1, p2, color)
		}
	}
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
