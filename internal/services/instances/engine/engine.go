// Package engine is the application layer shared by the gRPC, MCP, and CLI
// surfaces. It validates requests, runs the legacy generator, and caches
// built instances in an instance store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/benchseed/internal/legacyrand"
	platformotel "github.com/louisbranch/benchseed/internal/platform/otel"
	"github.com/louisbranch/benchseed/internal/services/instances/storage"
	"github.com/louisbranch/benchseed/internal/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/benchseed/internal/services/instances/engine"

// MaxUniformCount bounds a single uniform request.
const MaxUniformCount = 1 << 16

var (
	// ErrCountTooLarge indicates a uniform request above MaxUniformCount.
	ErrCountTooLarge = fmt.Errorf("count exceeds %d", MaxUniformCount)
	// ErrStoreUnavailable indicates an operation that needs an instance store.
	ErrStoreUnavailable = errors.New("instance store is not configured")
)

// Engine serves generator and instance requests.
type Engine struct {
	store  storage.InstanceStore
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithClock overrides the clock used to stamp stored records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine. A nil store disables instance caching and listing.
func New(store storage.InstanceStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		tracer: platformotel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Uniform returns count legacy uniform values for seed.
func (e *Engine) Uniform(ctx context.Context, seed int64, count int) (values []float64, err error) {
	ctx, span := e.start(ctx, "Uniform", attribute.Int64("seed", seed), attribute.Int("count", count))
	defer func() { finish(span, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, legacyrand.ErrInvalidCount
	}
	if count > MaxUniformCount {
		return nil, ErrCountTooLarge
	}
	return legacyrand.GenerateUniform(seed, count), nil
}

// Gaussian returns count legacy Gaussian values for seed.
func (e *Engine) Gaussian(ctx context.Context, seed int64, count int) (values []float64, err error) {
	ctx, span := e.start(ctx, "Gaussian", attribute.Int64("seed", seed), attribute.Int("count", count))
	defer func() { finish(span, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return legacyrand.GenerateGaussian(seed, count)
}

// OptimumLocation returns the optimum vector drawn from seed.
func (e *Engine) OptimumLocation(ctx context.Context, seed int64, dimension int) (xopt []float64, err error) {
	ctx, span := e.start(ctx, "OptimumLocation", attribute.Int64("seed", seed), attribute.Int("dimension", dimension))
	defer func() { finish(span, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return legacyrand.ComputeOptimumLocation(seed, dimension)
}

// ObjectiveOffset returns the objective offset of a function instance.
func (e *Engine) ObjectiveOffset(ctx context.Context, function, instance int) (fopt float64, err error) {
	ctx, span := e.start(ctx, "ObjectiveOffset", attribute.Int("function", function), attribute.Int("instance", instance))
	defer func() { finish(span, err) }()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return legacyrand.ComputeObjectiveOffset(function, instance)
}

// Instance returns the parameters of spec, reading them from the store when
// present and storing them after a fresh build.
func (e *Engine) Instance(ctx context.Context, spec suite.Spec) (instance suite.Instance, err error) {
	ctx, span := e.start(ctx, "Instance", attribute.String("instance.key", spec.String()))
	defer func() { finish(span, err) }()

	def, err := suite.Lookup(spec.Suite)
	if err != nil {
		return suite.Instance{}, err
	}
	spec.Suite = def.Name

	if e.store != nil {
		record, err := e.store.GetInstance(ctx, spec)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Bool("instance.cached", true))
			return record.Instance(), nil
		case !errors.Is(err, storage.ErrNotFound):
			return suite.Instance{}, fmt.Errorf("get instance: %w", err)
		}
	}

	instance, err = suite.Build(spec)
	if err != nil {
		return suite.Instance{}, err
	}
	if e.store != nil {
		if err := e.put(ctx, instance); err != nil {
			return suite.Instance{}, err
		}
	}
	return instance, nil
}

// ListInstances returns one page of stored instances.
func (e *Engine) ListInstances(ctx context.Context, req storage.ListRequest) (page storage.InstancePage, err error) {
	ctx, span := e.start(ctx, "ListInstances", attribute.String("filter", req.Filter), attribute.Int("page_size", req.PageSize))
	defer func() { finish(span, err) }()

	if e.store == nil {
		return storage.InstancePage{}, ErrStoreUnavailable
	}
	return e.store.ListInstances(ctx, req)
}

// PopulateResult summarizes a Populate run.
type PopulateResult struct {
	Built  int
	Stored int
}

// Populate builds every instance of a suite, restricted to instances when
// non-nil, and stores the ones not already present.
func (e *Engine) Populate(ctx context.Context, name suite.Name, instances []int, workers int) (result PopulateResult, err error) {
	ctx, span := e.start(ctx, "Populate", attribute.String("suite", string(name)), attribute.Int("workers", workers))
	defer func() {
		span.SetAttributes(attribute.Int("built", result.Built), attribute.Int("stored", result.Stored))
		finish(span, err)
	}()

	if e.store == nil {
		return PopulateResult{}, ErrStoreUnavailable
	}
	def, err := suite.Lookup(name)
	if err != nil {
		return PopulateResult{}, err
	}
	for _, instance := range instances {
		if err := def.Validate(def.Functions[0], instance, def.Dimensions[0]); err != nil {
			return PopulateResult{}, err
		}
	}

	built, err := suite.BuildAll(ctx, def.Specs(instances), workers)
	if err != nil {
		return PopulateResult{}, err
	}
	result.Built = len(built)
	for _, instance := range built {
		err := e.store.PutInstance(ctx, storage.RecordFromInstance(instance, e.now()))
		switch {
		case err == nil:
			result.Stored++
		case errors.Is(err, storage.ErrAlreadyExists):
		default:
			return result, fmt.Errorf("store %s: %w", instance.Spec, err)
		}
	}
	return result, nil
}

func (e *Engine) put(ctx context.Context, instance suite.Instance) error {
	err := e.store.PutInstance(ctx, storage.RecordFromInstance(instance, e.now()))
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("store instance: %w", err)
	}
	return nil
}

func (e *Engine) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return e.tracer.Start(ctx, "engine."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
