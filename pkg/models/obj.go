package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// OBJStats reports what the OBJ reader saw while building a mesh.
type OBJStats struct {
	Objects      int // "o" and "g" statements
	Polygons     int // "f" statements (before triangulation)
	SkippedPrims int // "p" and "l" statements that were ignored
}

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, _, err := ReadOBJ(f, filepath.Base(path))
	return mesh, err
}

// ReadOBJ parses OBJ text into a single flat mesh. Polygons are
// fan-triangulated, every object in the file is merged, and freestanding
// points and lines are ignored. Texture coordinates, normals and material
// statements are skipped.
func ReadOBJ(r io.Reader, name string) (*Mesh, OBJStats, error) {
	var stats OBJStats
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.AddVertex(p)

		case "f":
			if len(fields) < 4 {
				return nil, stats, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNo, len(fields)-1)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseOBJIndex(ref, len(mesh.Vertices))
				if err != nil {
					return nil, stats, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			stats.Polygons++

			// Fan triangulation around the first corner
			for k := 1; k+1 < len(idx); k++ {
				mesh.AddFace(idx[0], idx[k], idx[k+1])
			}

		case "o", "g":
			stats.Objects++

		case "p", "l":
			stats.SkippedPrims++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read obj: %w", err)
	}

	return mesh, stats, nil
}

func parseOBJVertex(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("vertex coordinate %q: %w", fields[i], err)
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseOBJIndex resolves the position part of a face reference ("7", "7/2",
// "7//3", "-1") to a zero-based vertex index. count is the number of
// vertices declared so far, which negative indices are relative to.
func parseOBJIndex(ref string, count int) (int, error) {
	pos, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", ref, err)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return count + n, nil
	default:
		return 0, fmt.Errorf("face index %q: OBJ indices start at 1", ref)
	}
}
