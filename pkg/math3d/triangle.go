package math3d

// TriangleArea returns the surface area of triangle abc.
func TriangleArea(a, b, c Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
}

// TriangleNormal returns the unit normal of triangle abc, or the zero vector
// for a degenerate triangle.
func TriangleNormal(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// BarycentricPoint returns w0*a + w1*b + w2*c.
func BarycentricPoint(a, b, c Vec3, w0, w1, w2 float64) Vec3 {
	return Vec3{
		a.X*w0 + b.X*w1 + c.X*w2,
		a.Y*w0 + b.Y*w1 + c.Y*w2,
		a.Z*w0 + b.Z*w1 + c.Z*w2,
	}
}
