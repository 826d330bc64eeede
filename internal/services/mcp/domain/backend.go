package domain

import (
	"context"
	"time"

	"github.com/louisbranch/benchseed/internal/suite"
)

// callTimeout caps the time a single tool call may spend in the backend.
const callTimeout = 5 * time.Second

// Backend serves the generator operations behind the MCP tools.
type Backend interface {
	Uniform(ctx context.Context, seed int64, count int) ([]float64, error)
	Gaussian(ctx context.Context, seed int64, count int) ([]float64, error)
	OptimumLocation(ctx context.Context, seed int64, dimension int) ([]float64, error)
	ObjectiveOffset(ctx context.Context, function, instance int) (float64, error)
	Instance(ctx context.Context, spec suite.Spec) (suite.Instance, error)
}
