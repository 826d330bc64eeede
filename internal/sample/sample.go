// Package sample summarizes generated sequences for sanity checks.
package sample

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmpty indicates a summary was requested for no values.
var ErrEmpty = errors.New("sample is empty")

// Reference names the distribution a sequence is compared against.
type Reference string

const (
	// ReferenceUniform is the standard uniform distribution on (0, 1).
	ReferenceUniform Reference = "uniform"
	// ReferenceNormal is the standard normal distribution.
	ReferenceNormal Reference = "normal"
)

// Summary describes a sequence of generated values.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	// KS is the Kolmogorov-Smirnov statistic against the reference
	// distribution, or NaN when no reference was requested.
	KS float64
}

// Describe summarizes values and compares them to ref when ref is set.
func Describe(values []float64, ref Reference) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmpty
	}
	mean, std := stat.MeanStdDev(values, nil)
	summary := Summary{
		Count:  len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		KS:     math.NaN(),
	}
	if ref == "" {
		return summary, nil
	}
	ks, err := KolmogorovSmirnov(values, ref)
	if err != nil {
		return Summary{}, err
	}
	summary.KS = ks
	return summary, nil
}

// KolmogorovSmirnov returns the largest distance between the empirical CDF of
// values and the CDF of ref.
func KolmogorovSmirnov(values []float64, ref Reference) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	cdf, err := referenceCDF(ref)
	if err != nil {
		return 0, err
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		f := cdf(x)
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}
	return d, nil
}

// ParseReference converts a user-supplied name into a Reference.
func ParseReference(s string) (Reference, error) {
	switch ref := Reference(strings.ToLower(strings.TrimSpace(s))); ref {
	case "", ReferenceUniform, ReferenceNormal:
		return ref, nil
	default:
		return "", fmt.Errorf("unknown reference distribution: %s", s)
	}
}

func referenceCDF(ref Reference) (func(float64) float64, error) {
	switch ref {
	case ReferenceUniform:
		return distuv.UnitUniform.CDF, nil
	case ReferenceNormal:
		return distuv.UnitNormal.CDF, nil
	default:
		return nil, fmt.Errorf("unknown reference distribution: %s", ref)
	}
}
