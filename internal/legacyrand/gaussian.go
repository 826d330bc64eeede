package legacyrand

import "math"

const (
	// GaussianBufferCapacity bounds the number of uniforms a Gaussian request
	// may consume. A request for count values needs 2*count of them, and
	// 2*count must stay strictly below this capacity.
	GaussianBufferCapacity = 6000
	// MaxGaussianCount is the largest count GenerateGaussian accepts.
	MaxGaussianCount = (GaussianBufferCapacity - 1) / 2
)

// zeroReplacement stands in for an exact zero so callers can take logarithms
// and divide by generated values.
const zeroReplacement = 1e-99

// FillGaussian writes len(dst) approximately standard-normal values generated
// from seed into dst. It returns ErrGaussianCapacity without touching dst when
// len(dst) exceeds MaxGaussianCount.
func FillGaussian(dst []float64, seed int64) error {
	n := len(dst)
	if n > MaxGaussianCount {
		return ErrGaussianCapacity
	}
	if n == 0 {
		return nil
	}

	uniforms := make([]float64, 2*n)
	FillUniform(uniforms, seed)
	for i := 0; i < n; i++ {
		value := math.Sqrt(-2*math.Log(uniforms[i])) * math.Cos(2*math.Pi*uniforms[n+i])
		if value == 0 {
			value = zeroReplacement
		}
		dst[i] = value
	}
	return nil
}

// GenerateGaussian returns count approximately standard-normal values
// generated from seed.
func GenerateGaussian(seed int64, count int) ([]float64, error) {
	if count < 0 {
		return nil, ErrInvalidCount
	}
	if count > MaxGaussianCount {
		return nil, ErrGaussianCapacity
	}
	values := make([]float64, count)
	if err := FillGaussian(values, seed); err != nil {
		return nil, err
	}
	return values, nil
}
