package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/meshcloud/pkg/math3d"
)

// LoadGLB loads a binary (.glb) or JSON (.gltf) GLTF file. Every triangle
// primitive of every mesh in the document is merged into one flat mesh.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := appendGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	return mesh, nil
}

// appendGLTFMesh extracts geometry from a GLTF mesh into dst.
func appendGLTFMesh(doc *gltf.Document, m *gltf.Mesh, dst *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Points, lines and strips are not surfaces
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		// Base vertex index for this primitive
		baseVertex := len(dst.Vertices)
		for _, p := range positions {
			dst.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				dst.AddFace(
					baseVertex+int(indices[i]),
					baseVertex+int(indices[i+1]),
					baseVertex+int(indices[i+2]),
				)
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				dst.AddFace(baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}

	return nil
}

// ExportPointCloudGLB writes points as a single POINTS primitive so a sampled
// cloud can be inspected in any GLTF viewer.
func ExportPointCloudGLB(path, name string, points []math3d.Vec3) error {
	if len(points) == 0 {
		return fmt.Errorf("export point cloud: %w", ErrEmptyGeometry)
	}

	data := make([][3]float32, len(points))
	for i, p := range points {
		data[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}

	doc := gltf.NewDocument()
	posIdx := modeler.WritePosition(doc, data)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: map[string]int{gltf.POSITION: posIdx},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "Root Scene"})
		doc.Scene = gltf.Index(0)
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
