package sampling

import (
	"math"

	"github.com/taigrr/meshcloud/pkg/math3d"
)

// hashGrid buckets accepted points into cubes of side r so a distance query
// only needs to look at the 27 surrounding cells.
type hashGrid struct {
	r     float64
	rSq   float64
	cells map[[3]int][]int
}

func newHashGrid(r float64) *hashGrid {
	return &hashGrid{
		r:     r,
		rSq:   r * r,
		cells: make(map[[3]int][]int),
	}
}

func (g *hashGrid) key(p math3d.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / g.r)),
		int(math.Floor(p.Y / g.r)),
		int(math.Floor(p.Z / g.r)),
	}
}

func (g *hashGrid) insert(p math3d.Vec3, idx int) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], idx)
}

// hasNeighbor reports whether any stored point lies strictly closer than r
// to p.
func (g *hashGrid) hasNeighbor(p math3d.Vec3, points []Point) bool {
	k := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, idx := range g.cells[[3]int{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if points[idx].Position.DistanceSq(p) < g.rSq {
						return true
					}
				}
			}
		}
	}
	return false
}
