package suite

import (
	"context"
	"fmt"

	"github.com/louisbranch/benchseed/internal/legacyrand"
	"golang.org/x/sync/errgroup"
)

// Spec selects one benchmark problem instance.
type Spec struct {
	Suite     Name
	Function  int
	Instance  int
	Dimension int
}

// String returns the conventional f/i/d label, prefixed by the suite.
func (s Spec) String() string {
	return fmt.Sprintf("%s_f%03d_i%02d_d%02d", s.Suite, s.Function, s.Instance, s.Dimension)
}

// Instance carries the randomized parameters of a problem instance.
type Instance struct {
	Spec
	// OptimumSeed is the seed XOpt was drawn from, or 0 for untransformed
	// suites.
	OptimumSeed int64
	XOpt        []float64
	FOpt        float64
}

// OptimumSeed returns the seed used for the optimum location of a function
// instance. Function 4 shares the seed of function 3 and function 18 shares
// the seed of function 17, matching their objective offsets.
func OptimumSeed(function, instance int) int64 {
	base := int64(function)
	switch function {
	case 4:
		base = 3
	case 18:
		base = 17
	}
	return base + legacyrand.InstanceSeedStride*int64(instance)
}

// Build computes the instance parameters for spec. Instances of
// untransformed suites get a zero translation and a zero offset.
func Build(spec Spec) (Instance, error) {
	def, err := Lookup(spec.Suite)
	if err != nil {
		return Instance{}, err
	}
	spec.Suite = def.Name
	if err := def.Validate(spec.Function, spec.Instance, spec.Dimension); err != nil {
		return Instance{}, err
	}
	if !def.Transformed {
		return Instance{Spec: spec, XOpt: make([]float64, spec.Dimension)}, nil
	}

	seed := OptimumSeed(spec.Function, spec.Instance)
	xopt, err := legacyrand.ComputeOptimumLocation(seed, spec.Dimension)
	if err != nil {
		return Instance{}, fmt.Errorf("compute optimum location: %w", err)
	}
	fopt, err := legacyrand.ComputeObjectiveOffset(spec.Function, spec.Instance)
	if err != nil {
		return Instance{}, fmt.Errorf("compute objective offset: %w", err)
	}
	return Instance{
		Spec:        spec,
		OptimumSeed: seed,
		XOpt:        xopt,
		FOpt:        fopt,
	}, nil
}

// Specs enumerates every function, instance, and dimension combination of
// def restricted to instances. A nil instances slice uses the suite's own.
func (d Definition) Specs(instances []int) []Spec {
	if instances == nil {
		instances = d.Instances
	}
	specs := make([]Spec, 0, len(d.Functions)*len(instances)*len(d.Dimensions))
	for _, function := range d.Functions {
		for _, instance := range instances {
			for _, dimension := range d.Dimensions {
				specs = append(specs, Spec{
					Suite:     d.Name,
					Function:  function,
					Instance:  instance,
					Dimension: dimension,
				})
			}
		}
	}
	return specs
}

// BuildAll builds every spec using at most workers goroutines. Results keep
// the order of specs. The first failure cancels the remaining work.
func BuildAll(ctx context.Context, specs []Spec, workers int) ([]Instance, error) {
	if workers < 1 {
		workers = 1
	}
	instances := make([]Instance, len(specs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, spec := range specs {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			instance, err := Build(spec)
			if err != nil {
				return fmt.Errorf("build %s: %w", spec, err)
			}
			instances[i] = instance
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return instances, nil
}
