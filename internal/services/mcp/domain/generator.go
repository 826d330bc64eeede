package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SequenceInput selects a generated sequence.
type SequenceInput struct {
	Seed  int64 `json:"seed" jsonschema:"legacy generator seed; negative seeds are negated and zero becomes one"`
	Count int   `json:"count" jsonschema:"number of values to generate"`
}

// SequenceResult carries generated values.
type SequenceResult struct {
	Seed   int64     `json:"seed" jsonschema:"seed the values were drawn from"`
	Values []float64 `json:"values" jsonschema:"generated values in order"`
}

// OptimumInput selects an optimum location.
type OptimumInput struct {
	Seed      int64 `json:"seed" jsonschema:"seed the location is drawn from"`
	Dimension int   `json:"dimension" jsonschema:"number of coordinates, 1 to 40"`
}

// OptimumResult carries an optimum location.
type OptimumResult struct {
	Seed int64     `json:"seed" jsonschema:"seed the location was drawn from"`
	XOpt []float64 `json:"xopt" jsonschema:"optimum coordinates on the 1e-4 grid of [-4, 4)"`
}

// OffsetInput selects an objective offset.
type OffsetInput struct {
	Function int `json:"function" jsonschema:"benchmark function id"`
	Instance int `json:"instance" jsonschema:"instance id"`
}

// OffsetResult carries an objective offset.
type OffsetResult struct {
	Function int     `json:"function" jsonschema:"benchmark function id"`
	Instance int     `json:"instance" jsonschema:"instance id"`
	FOpt     float64 `json:"fopt" jsonschema:"objective offset in [-1000, 1000] with two decimals"`
}

// GenerateUniformTool defines the MCP tool schema for uniform sequences.
func GenerateUniformTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_uniform",
		Description: "Generates legacy BBOB uniform values in (0, 1)",
	}
}

// GenerateGaussianTool defines the MCP tool schema for Gaussian sequences.
func GenerateGaussianTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_gaussian",
		Description: "Generates legacy BBOB standard normal values (at most 2999 per call)",
	}
}

// ComputeOptimumLocationTool defines the MCP tool schema for optimum locations.
func ComputeOptimumLocationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compute_optimum_location",
		Description: "Computes the legacy optimum location vector for a seed",
	}
}

// ComputeObjectiveOffsetTool defines the MCP tool schema for objective offsets.
func ComputeObjectiveOffsetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compute_objective_offset",
		Description: "Computes the legacy objective value offset of a function instance",
	}
}

// GenerateUniformHandler returns uniform values from backend.
func GenerateUniformHandler(backend Backend) mcp.ToolHandlerFor[SequenceInput, SequenceResult] {
	return sequenceHandler("generate uniform", backend.Uniform)
}

// GenerateGaussianHandler returns Gaussian values from backend.
func GenerateGaussianHandler(backend Backend) mcp.ToolHandlerFor[SequenceInput, SequenceResult] {
	return sequenceHandler("generate gaussian", backend.Gaussian)
}

func sequenceHandler(op string, generate func(context.Context, int64, int) ([]float64, error)) mcp.ToolHandlerFor[SequenceInput, SequenceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SequenceInput) (*mcp.CallToolResult, SequenceResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		values, err := generate(callCtx, input.Seed, input.Count)
		if err != nil {
			return nil, SequenceResult{}, fmt.Errorf("%s: %w", op, err)
		}
		if values == nil {
			values = []float64{}
		}
		return nil, SequenceResult{Seed: input.Seed, Values: values}, nil
	}
}

// ComputeOptimumLocationHandler returns optimum locations from backend.
func ComputeOptimumLocationHandler(backend Backend) mcp.ToolHandlerFor[OptimumInput, OptimumResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input OptimumInput) (*mcp.CallToolResult, OptimumResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		xopt, err := backend.OptimumLocation(callCtx, input.Seed, input.Dimension)
		if err != nil {
			return nil, OptimumResult{}, fmt.Errorf("compute optimum location: %w", err)
		}
		return nil, OptimumResult{Seed: input.Seed, XOpt: xopt}, nil
	}
}

// ComputeObjectiveOffsetHandler returns objective offsets from backend.
func ComputeObjectiveOffsetHandler(backend Backend) mcp.ToolHandlerFor[OffsetInput, OffsetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input OffsetInput) (*mcp.CallToolResult, OffsetResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		fopt, err := backend.ObjectiveOffset(callCtx, input.Function, input.Instance)
		if err != nil {
			return nil, OffsetResult{}, fmt.Errorf("compute objective offset: %w", err)
		}
		return nil, OffsetResult{Function: input.Function, Instance: input.Instance, FOpt: fopt}, nil
	}
}
