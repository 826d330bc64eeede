package legacyrand

import "math"

const (
	// MaxDimension is the largest search-space dimension the legacy suite uses.
	MaxDimension = 40

	optimumGridSteps = 1e4
	optimumBound     = 4
	// optimumZeroReplacement keeps the optimum off the coordinate axes.
	optimumZeroReplacement = -1e-5
)

// FillOptimumLocation writes a global optimum location for seed into dst, one
// coordinate per element. Coordinates lie on a 10000-step grid spanning
// [-4, 4) and are never exactly zero.
func FillOptimumLocation(dst []float64, seed int64) error {
	if len(dst) < 1 || len(dst) > MaxDimension {
		return ErrInvalidDimension
	}
	FillUniform(dst, seed)
	for i, u := range dst {
		x := 2*optimumBound*math.Floor(optimumGridSteps*u)/optimumGridSteps - optimumBound
		if x == 0 {
			x = optimumZeroReplacement
		}
		dst[i] = x
	}
	return nil
}

// ComputeOptimumLocation returns the global optimum location for seed in the
// given dimension.
func ComputeOptimumLocation(seed int64, dimension int) ([]float64, error) {
	if dimension < 1 || dimension > MaxDimension {
		return nil, ErrInvalidDimension
	}
	xopt := make([]float64, dimension)
	if err := FillOptimumLocation(xopt, seed); err != nil {
		return nil, err
	}
	return xopt, nil
}
