package models

import (
	"fmt"
	"path/filepath"

	"github.com/hschendel/stl"
	"github.com/taigrr/meshcloud/pkg/math3d"
)

// LoadSTL loads an ASCII or binary STL file. STL stores unshared triangle
// corners, so identical positions are merged into one indexed vertex.
func LoadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	name := solid.Name
	if name == "" {
		name = filepath.Base(path)
	}
	return meshFromSolid(name, solid), nil
}

func meshFromSolid(name string, solid *stl.Solid) *Mesh {
	mesh := NewMesh(name)
	index := make(map[stl.Vec3]int, len(solid.Triangles))

	vertexFor := func(v stl.Vec3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := mesh.AddVertex(math3d.V3(float64(v[0]), float64(v[1]), float64(v[2])))
		index[v] = i
		return i
	}

	for _, t := range solid.Triangles {
		mesh.AddFace(vertexFor(t.Vertices[0]), vertexFor(t.Vertices[1]), vertexFor(t.Vertices[2]))
	}
	return mesh
}
