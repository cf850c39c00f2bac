package models

import (
	"math"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// AxisBounds is the extent of a vertex set along one axis. Min <= Max always
// holds; a set that is flat along the axis has Min == Max.
type AxisBounds struct {
	Min float64
	Max float64
}

// Extent returns Max - Min.
func (b AxisBounds) Extent() float64 {
	return b.Max - b.Min
}

// Mid returns the midpoint of the range.
func (b AxisBounds) Mid() float64 {
	return (b.Max + b.Min) / 2
}

// ComputeBounds returns the X, Y and Z bounds of a non-empty vertex set.
func ComputeBounds(verts []math3d.Vec3) ([3]AxisBounds, error) {
	if len(verts) == 0 {
		return [3]AxisBounds{}, ErrEmptyGeometry
	}
	return reduceBounds(len(verts), func(i int) math3d.Vec3 { return verts[i] }), nil
}

// reduceBounds scans n vertices once, keeping the three axis reductions
// independent.
func reduceBounds(n int, at func(int) math3d.Vec3) [3]AxisBounds {
	var out [3]AxisBounds
	for axis := range out {
		out[axis] = AxisBounds{Min: math.Inf(1), Max: math.Inf(-1)}
	}

	for i := range n {
		p := at(i)
		for axis := range out {
			v := p.Axis(axis)
			if v < out[axis].Min {
				out[axis].Min = v
			}
			if v > out[axis].Max {
				out[axis].Max = v
			}
		}
	}
	return out
}
