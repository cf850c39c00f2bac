package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// Load reads a mesh file, choosing the loader from the file extension.
// Failures are wrapped with ErrLoadFailure.
func Load(path string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".stl":
		mesh, err = LoadSTL(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %s: %w %q (use .obj, .stl or .glb)", ErrLoadFailure, path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailure, path, err)
	}
	return mesh, nil
}

// Tetrahedron returns a small non-regular tetrahedron with corners at the
// origin and on the three unit axes.
func Tetrahedron() *Mesh {
	return FromArrays("tetrahedron",
		[]math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(1, 0, 0),
			math3d.V3(0, 1, 0),
			math3d.V3(0, 0, 1),
		},
		[][3]int{{1, 0, 2}, {2, 0, 3}, {0, 1, 3}, {1, 2, 3}},
	)
}
