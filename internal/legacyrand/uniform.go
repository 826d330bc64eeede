package legacyrand

import "math"

const (
	// TableSize is the number of slots in the shuffle table.
	TableSize = 32

	lcgMultiplier = 16807
	lcgModulus    = 2147483647
	lcgQuotient   = 127773 // lcgModulus / lcgMultiplier
	lcgRemainder  = 2836   // lcgModulus % lcgMultiplier

	warmupSteps = 40
	// tableDivisor maps a value in [0, lcgModulus) onto a slot in [0, TableSize).
	tableDivisor = 67108865
)

// Uniform holds the state of one legacy uniform sequence.
//
// A Uniform is call-local: create one per sequence and discard it. It is not
// safe for concurrent use, but independent Uniforms never share state.
type Uniform struct {
	seed    int64
	current int64
	table   [TableSize]int64
}

// NewUniform returns a generator positioned before the first output for seed.
func NewUniform(seed int64) *Uniform {
	seed = normalizeSeed(seed)

	u := &Uniform{}
	for i := warmupSteps - 1; i >= 0; i-- {
		seed = lcgStep(seed)
		if i < TableSize {
			u.table[i] = seed
		}
	}
	u.seed = seed
	u.current = u.table[0]
	return u
}

// Next returns the next value of the sequence, in the open interval (0, 1).
func (u *Uniform) Next() float64 {
	u.seed = lcgStep(u.seed)

	// The mask is a no-op for every seed the legacy algorithm defines; it only
	// keeps out-of-domain seeds from indexing outside the table.
	index := int(u.current/tableDivisor) & (TableSize - 1)
	u.current = u.table[index]
	u.table[index] = u.seed

	value := float64(u.current) / lcgModulus
	if value == 0 {
		value = zeroReplacement
	}
	return value
}

// FillUniform writes len(dst) uniform values generated from seed into dst.
func FillUniform(dst []float64, seed int64) {
	if len(dst) == 0 {
		return
	}
	u := NewUniform(seed)
	for i := range dst {
		dst[i] = u.Next()
	}
}

// GenerateUniform returns count uniform values generated from seed.
// A count of zero or less yields an empty sequence.
func GenerateUniform(seed int64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	values := make([]float64, count)
	FillUniform(values, seed)
	return values
}

// normalizeSeed negates negative seeds and lifts zero to one.
func normalizeSeed(seed int64) int64 {
	if seed < 0 {
		seed = -seed
	}
	if seed < 1 {
		seed = 1
	}
	return seed
}

// lcgStep advances the Park-Miller generator using Schrage's decomposition.
// The quotient is taken through float64 like the reference implementation.
func lcgStep(seed int64) int64 {
	q := int64(math.Floor(float64(seed) / lcgQuotient))
	seed = lcgMultiplier*(seed-q*lcgQuotient) - lcgRemainder*q
	if seed < 0 {
		seed += lcgModulus
	}
	return seed
}
