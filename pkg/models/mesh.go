// Package models provides the triangle mesh representation used by meshcloud,
// its bounds calculation, and loaders for OBJ, STL and GLTF/GLB sources.
package models

import (
	"fmt"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// Mesh represents a triangulated surface: vertex positions plus index triples.
// A loaded mesh is treated as immutable; helpers that change geometry return
// a new Mesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face
}

// MeshVertex holds the attributes of a single vertex.
type MeshVertex struct {
	Position math3d.Vec3
}

// Face represents a triangle face.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// FromArrays builds a mesh from flat position and index slices.
func FromArrays(name string, positions []math3d.Vec3, faces [][3]int) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, len(positions)),
		Faces:    make([]Face, len(faces)),
	}
	for i, p := range positions {
		m.Vertices[i].Position = p
	}
	for i, f := range faces {
		m.Faces[i].V = f
	}
	return m
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p math3d.Vec3) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: p})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Positions returns the vertex positions as a new slice.
func (m *Mesh) Positions() []math3d.Vec3 {
	out := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// Triangle returns the three corner positions of face i.
// The mesh must have been validated.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].Position, m.Vertices[f[1]].Position, m.Vertices[f[2]].Position
}

// Bounds returns the per-axis extent of all vertices.
func (m *Mesh) Bounds() ([3]AxisBounds, error) {
	var out [3]AxisBounds
	if len(m.Vertices) == 0 {
		return out, ErrEmptyGeometry
	}
	return reduceBounds(len(m.Vertices), func(i int) math3d.Vec3 {
		return m.Vertices[i].Position
	}), nil
}

// Validate checks that the mesh has vertices and that every face index refers
// to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return ErrEmptyGeometry
	}
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d references vertex %d (have %d)", ErrInvalidFaceIndex, fi, idx, n)
			}
		}
	}
	return nil
}

// SurfaceArea returns the total area of all faces. The mesh must have been
// validated.
func (m *Mesh) SurfaceArea() float64 {
	var total float64
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		total += math3d.TriangleArea(a, b, c)
	}
	return total
}
