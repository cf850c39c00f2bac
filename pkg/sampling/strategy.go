package sampling

import "fmt"

// Strategy selects how surface points are placed. The set of strategies is
// closed: UniformArea and PoissonDisk.
type Strategy interface {
	fmt.Stringer
	validate() error
}

// UniformArea draws every sample independently, picking a triangle with
// probability proportional to its area and a uniform point inside it.
type UniformArea struct{}

func (UniformArea) String() string { return "uniform" }

func (UniformArea) validate() error { return nil }

// PoissonDisk draws area-weighted candidates and keeps only those at least
// MinDistance away from every previously accepted point.
type PoissonDisk struct {
	MinDistance float64
}

func (p PoissonDisk) String() string { return fmt.Sprintf("poisson(%g)", p.MinDistance) }

func (p PoissonDisk) validate() error {
	if !(p.MinDistance > 0) {
		return fmt.Errorf("%w: poisson min distance must be positive, got %v", ErrInvalidConfig, p.MinDistance)
	}
	return nil
}

// ParseStrategy maps a strategy name ("uniform" or "poisson") to a Strategy.
// minDistance is only used by the poisson strategy.
func ParseStrategy(name string, minDistance float64) (Strategy, error) {
	switch name {
	case "uniform", "uniform-area", "area":
		return UniformArea{}, nil
	case "poisson", "poisson-disk", "blue-noise":
		return PoissonDisk{MinDistance: minDistance}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q (use uniform or poisson)", ErrInvalidConfig, name)
	}
}
