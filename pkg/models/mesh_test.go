package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *Mesh
		wantErr error
	}{
		{"tetrahedron", Tetrahedron(), nil},
		{"empty", NewMesh("empty"), ErrEmptyGeometry},
		{
			"index past end",
			FromArrays("bad", []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}, [][3]int{{0, 1, 3}}),
			ErrInvalidFaceIndex,
		},
		{
			"negative index",
			FromArrays("bad", []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}, [][3]int{{-1, 1, 2}}),
			ErrInvalidFaceIndex,
		},
		{
			"vertices without faces",
			FromArrays("cloud", []math3d.Vec3{math3d.V3(1, 2, 3)}, nil),
			nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mesh.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTetrahedronSurfaceArea(t *testing.T) {
	mesh := Tetrahedron()
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 4 {
		t.Fatalf("tetrahedron has %d vertices and %d faces, want 4 and 4", mesh.VertexCount(), mesh.TriangleCount())
	}

	// Three right triangles of area 1/2 plus the slanted face of area sqrt(3)/2
	want := 1.5 + math.Sqrt(3)/2
	if got := mesh.SurfaceArea(); math.Abs(got-want) > 1e-9 {
		t.Errorf("SurfaceArea() = %v, want %v", got, want)
	}
}

func TestPositions(t *testing.T) {
	mesh := Tetrahedron()
	pos := mesh.Positions()
	if len(pos) != mesh.VertexCount() {
		t.Fatalf("Positions() returned %d entries, want %d", len(pos), mesh.VertexCount())
	}
	pos[0] = math3d.V3(5, 5, 5)
	if mesh.Vertices[0].Position == pos[0] {
		t.Error("Positions() should return a copy")
	}
}
