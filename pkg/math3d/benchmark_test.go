package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := ScaleUniform(2)
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := ScaleUniform(2).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkTriangleArea(b *testing.B) {
	a, c, d := V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0)

	for b.Loop() {
		_ = TriangleArea(a, c, d)
	}
}

func BenchmarkBarycentricPoint(b *testing.B) {
	a, c, d := V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0)

	for b.Loop() {
		_ = BarycentricPoint(a, c, d, 0.2, 0.5, 0.3)
	}
}

func BenchmarkOrbitView(b *testing.B) {
	// Build the orbit view matrix the renderer uses per frame
	for b.Loop() {
		_ = ScaleUniform(0.9).Mul(RotateX(0.25)).Mul(RotateY(1.2))
	}
}
