package legacyrand

import (
	"fmt"
	"math"
)

const (
	// OffsetBound clamps objective offsets to [-OffsetBound, OffsetBound].
	OffsetBound = 1000

	// InstanceSeedStride separates the seeds of consecutive instances.
	InstanceSeedStride = 10000
)

// offsetSeeds maps function ids to the rseed they share with a historically
// related function. Ids missing from the table use themselves.
var offsetSeeds = map[int]int64{
	4:  3,
	18: 17,

	101: 1, 102: 1, 103: 1, 107: 1, 108: 1, 109: 1,
	104: 8, 105: 8, 106: 8, 110: 8, 111: 8, 112: 8,
	113: 7, 114: 7, 115: 7,
	116: 10, 117: 10, 118: 10,
	119: 14, 120: 14, 121: 14,
	122: 17, 123: 17, 124: 17,
	125: 19, 126: 19, 127: 19,
	128: 21, 129: 21, 130: 21,
}

// OffsetSeed returns the rseed used for the objective offset of function.
func OffsetSeed(function int) int64 {
	if rseed, ok := offsetSeeds[function]; ok {
		return rseed
	}
	return int64(function)
}

// OffsetCombinedSeed returns the seed the first Gaussian draw of an objective
// offset uses. The second draw uses the next seed.
func OffsetCombinedSeed(function, instance int) int64 {
	return OffsetSeed(function) + InstanceSeedStride*int64(instance)
}

// ComputeObjectiveOffset returns the objective offset for a function and
// instance: a value in [-1000, 1000] rounded to two decimals.
func ComputeObjectiveOffset(function, instance int) (float64, error) {
	if function < 1 || instance < 1 {
		return 0, ErrInvalidIdentifier
	}

	seed := OffsetCombinedSeed(function, instance)
	var gval, gval2 [1]float64
	if err := FillGaussian(gval[:], seed); err != nil {
		// Unreachable: a single value is always within capacity.
		panic(fmt.Sprintf("objective offset gaussian: %v", err))
	}
	if err := FillGaussian(gval2[:], seed+1); err != nil {
		panic(fmt.Sprintf("objective offset gaussian: %v", err))
	}

	offset := roundHalfUp(100*100*gval[0]/gval2[0]) / 100
	return math.Min(OffsetBound, math.Max(-OffsetBound, offset)), nil
}

// roundHalfUp rounds x to the nearest integer, moving halves toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
