package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/benchseed/internal/legacyrand"
	"github.com/louisbranch/benchseed/internal/services/instances/storage"
	"github.com/louisbranch/benchseed/internal/suite"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gonum.org/v1/gonum/floats"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]storage.InstanceRecord
	gets    int
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]storage.InstanceRecord{}}
}

func (s *memoryStore) PutInstance(_ context.Context, record storage.InstanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	key := record.Spec.String()
	if _, ok := s.records[key]; ok {
		return storage.ErrAlreadyExists
	}
	s.records[key] = record
	return nil
}

func (s *memoryStore) GetInstance(_ context.Context, spec suite.Spec) (storage.InstanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	record, ok := s.records[spec.String()]
	if !ok {
		return storage.InstanceRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (s *memoryStore) ListInstances(_ context.Context, req storage.ListRequest) (storage.InstancePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	page := storage.InstancePage{}
	for _, key := range keys {
		if len(page.Instances) == req.PageSize {
			break
		}
		page.Instances = append(page.Instances, s.records[key])
	}
	return page, nil
}

func newRecordingEngine(store storage.InstanceStore) (*Engine, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	fixed := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	return New(store,
		WithTracer(provider.Tracer("engine-test")),
		WithClock(func() time.Time { return fixed }),
	), recorder
}

func TestUniformMatchesLegacyGenerator(t *testing.T) {
	e, recorder := newRecordingEngine(nil)

	got, err := e.Uniform(context.Background(), 12345, 3)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	want := []float64{0.9231205717302489, 0.3331466123150413, 0.19788841865858456}
	if !slices.Equal(got, want) {
		t.Fatalf("Uniform(12345, 3) = %v, want %v", got, want)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "engine.Uniform" {
		t.Fatalf("spans = %v, want one engine.Uniform span", spans)
	}
}

func TestUniformRejectsCounts(t *testing.T) {
	e, recorder := newRecordingEngine(nil)

	if _, err := e.Uniform(context.Background(), 1, -1); !errors.Is(err, legacyrand.ErrInvalidCount) {
		t.Fatalf("negative count error = %v, want %v", err, legacyrand.ErrInvalidCount)
	}
	if _, err := e.Uniform(context.Background(), 1, MaxUniformCount+1); !errors.Is(err, ErrCountTooLarge) {
		t.Fatalf("oversize count error = %v, want %v", err, ErrCountTooLarge)
	}
	for _, span := range recorder.Ended() {
		if len(span.Events()) == 0 {
			t.Fatalf("span %s recorded no error event", span.Name())
		}
	}
}

func TestGaussianPropagatesCapacityError(t *testing.T) {
	e, _ := newRecordingEngine(nil)

	if _, err := e.Gaussian(context.Background(), 1, legacyrand.MaxGaussianCount+1); !errors.Is(err, legacyrand.ErrGaussianCapacity) {
		t.Fatalf("Gaussian error = %v, want %v", err, legacyrand.ErrGaussianCapacity)
	}
	got, err := e.Gaussian(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Gaussian: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Gaussian length = %d, want 1", len(got))
	}
}

func TestOptimumLocationAndOffset(t *testing.T) {
	e, _ := newRecordingEngine(nil)

	xopt, err := e.OptimumLocation(context.Background(), 20004, 5)
	if err != nil {
		t.Fatalf("OptimumLocation: %v", err)
	}
	want := []float64{-3.1232, -1.5848, -3.5376, 1.6944, 3.956}
	if !floats.EqualApprox(xopt, want, 1e-9) {
		t.Fatalf("OptimumLocation(20004, 5) = %v, want %v", xopt, want)
	}

	fopt, err := e.ObjectiveOffset(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("ObjectiveOffset: %v", err)
	}
	if fopt != 77.66 {
		t.Fatalf("ObjectiveOffset(4, 2) = %v, want 77.66", fopt)
	}

	if _, err := e.ObjectiveOffset(context.Background(), 0, 1); !errors.Is(err, legacyrand.ErrInvalidIdentifier) {
		t.Fatalf("ObjectiveOffset(0, 1) error = %v, want %v", err, legacyrand.ErrInvalidIdentifier)
	}
}

func TestCanceledContext(t *testing.T) {
	e, _ := newRecordingEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Uniform(ctx, 1, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("Uniform error = %v, want %v", err, context.Canceled)
	}
	if _, err := e.OptimumLocation(ctx, 1, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("OptimumLocation error = %v, want %v", err, context.Canceled)
	}
}

func TestInstanceCachesBuiltInstances(t *testing.T) {
	store := newMemoryStore()
	e, recorder := newRecordingEngine(store)
	spec := suite.Spec{Suite: "BBOB", Function: 4, Instance: 2, Dimension: 5}

	first, err := e.Instance(context.Background(), spec)
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if first.Spec.Suite != suite.BBOB {
		t.Fatalf("suite = %q, want %q", first.Spec.Suite, suite.BBOB)
	}
	if first.FOpt != 77.66 {
		t.Fatalf("fopt = %v, want 77.66", first.FOpt)
	}
	if len(store.records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(store.records))
	}
	stored := store.records[first.Spec.String()]
	if !stored.CreatedAt.Equal(time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", stored.CreatedAt)
	}

	second, err := e.Instance(context.Background(), spec)
	if err != nil {
		t.Fatalf("Instance (cached): %v", err)
	}
	if !slices.Equal(first.XOpt, second.XOpt) || first.FOpt != second.FOpt {
		t.Fatalf("cached instance differs: %+v vs %+v", first, second)
	}

	var cached bool
	for _, span := range recorder.Ended() {
		for _, attr := range span.Attributes() {
			if attr.Key == "instance.cached" && attr.Value.AsBool() {
				cached = true
			}
		}
	}
	if !cached {
		t.Fatal("expected a span marked instance.cached")
	}
}

func TestInstanceWithoutStoreBuilds(t *testing.T) {
	e, _ := newRecordingEngine(nil)
	got, err := e.Instance(context.Background(), suite.Spec{Suite: suite.BBOB, Function: 1, Instance: 1, Dimension: 2})
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if got.FOpt != 79.48 {
		t.Fatalf("fopt = %v, want 79.48", got.FOpt)
	}
}

func TestInstanceRejectsUnknownSpecs(t *testing.T) {
	e, _ := newRecordingEngine(newMemoryStore())
	tcs := []struct {
		spec suite.Spec
		want error
	}{
		{spec: suite.Spec{Suite: "cec", Function: 1, Instance: 1, Dimension: 2}, want: suite.ErrUnknownSuite},
		{spec: suite.Spec{Suite: suite.BBOB, Function: 25, Instance: 1, Dimension: 2}, want: suite.ErrUnknownFunction},
		{spec: suite.Spec{Suite: suite.Toy, Function: 1, Instance: 2, Dimension: 2}, want: suite.ErrUnknownInstance},
	}
	for _, tc := range tcs {
		if _, err := e.Instance(context.Background(), tc.spec); !errors.Is(err, tc.want) {
			t.Fatalf("Instance(%s) error = %v, want %v", tc.spec, err, tc.want)
		}
	}
}

func TestInstanceSurfacesStoreFailures(t *testing.T) {
	store := newMemoryStore()
	store.putErr = errors.New("disk full")
	e, _ := newRecordingEngine(store)

	_, err := e.Instance(context.Background(), suite.Spec{Suite: suite.BBOB, Function: 1, Instance: 1, Dimension: 2})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Instance error = %v, want disk full", err)
	}
}

func TestPopulateStoresOnlyNewInstances(t *testing.T) {
	store := newMemoryStore()
	e, _ := newRecordingEngine(store)

	if _, err := e.Instance(context.Background(), suite.Spec{Suite: suite.Toy, Function: 1, Instance: 1, Dimension: 2}); err != nil {
		t.Fatalf("Instance: %v", err)
	}
	result, err := e.Populate(context.Background(), suite.Toy, nil, 4)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if result.Built != 36 {
		t.Fatalf("built = %d, want 36", result.Built)
	}
	if result.Stored != 35 {
		t.Fatalf("stored = %d, want 35", result.Stored)
	}

	page, err := e.ListInstances(context.Background(), storage.ListRequest{PageSize: 100})
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(page.Instances) != 36 {
		t.Fatalf("listed = %d, want 36", len(page.Instances))
	}
}

func TestPopulateValidatesInput(t *testing.T) {
	e, _ := newRecordingEngine(newMemoryStore())
	if _, err := e.Populate(context.Background(), "nope", nil, 1); !errors.Is(err, suite.ErrUnknownSuite) {
		t.Fatalf("Populate unknown suite error = %v", err)
	}
	if _, err := e.Populate(context.Background(), suite.BBOB, []int{81}, 1); !errors.Is(err, suite.ErrUnknownInstance) {
		t.Fatalf("Populate unknown instance error = %v", err)
	}
}

func TestStoreRequiredOperations(t *testing.T) {
	e, _ := newRecordingEngine(nil)
	if _, err := e.ListInstances(context.Background(), storage.ListRequest{PageSize: 1}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("ListInstances error = %v, want %v", err, ErrStoreUnavailable)
	}
	if _, err := e.Populate(context.Background(), suite.Toy, nil, 1); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Populate error = %v, want %v", err, ErrStoreUnavailable)
	}
}
