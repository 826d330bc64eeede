package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/benchseed/internal/sample"
	"github.com/louisbranch/benchseed/internal/suite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// InstanceInput selects a suite instance.
type InstanceInput struct {
	Suite     string `json:"suite,omitempty" jsonschema:"suite name, bbob or toy; defaults to bbob"`
	Function  int    `json:"function" jsonschema:"benchmark function id"`
	Instance  int    `json:"instance" jsonschema:"instance id"`
	Dimension int    `json:"dimension" jsonschema:"problem dimension, 1 to 40"`
}

// InstanceResult carries the randomized parameters of an instance.
type InstanceResult struct {
	Key         string    `json:"key" jsonschema:"instance label such as bbob_f001_i01_d02"`
	Suite       string    `json:"suite" jsonschema:"suite name"`
	Function    int       `json:"function" jsonschema:"benchmark function id"`
	Instance    int       `json:"instance" jsonschema:"instance id"`
	Dimension   int       `json:"dimension" jsonschema:"problem dimension"`
	OptimumSeed int64     `json:"optimum_seed" jsonschema:"seed the optimum location was drawn from"`
	XOpt        []float64 `json:"xopt" jsonschema:"optimum location"`
	FOpt        float64   `json:"fopt" jsonschema:"objective offset"`
}

// DescribeInput selects a sequence to summarize.
type DescribeInput struct {
	Kind      string `json:"kind" jsonschema:"sequence kind, uniform or gaussian"`
	Seed      int64  `json:"seed" jsonschema:"legacy generator seed"`
	Count     int    `json:"count" jsonschema:"number of values to summarize, at least 2"`
	Reference string `json:"reference,omitempty" jsonschema:"distribution for the Kolmogorov-Smirnov statistic, uniform or normal; defaults to the kind's own"`
}

// DescribeResult summarizes a generated sequence.
type DescribeResult struct {
	Kind      string  `json:"kind" jsonschema:"sequence kind"`
	Reference string  `json:"reference" jsonschema:"distribution the KS statistic compares against"`
	Count     int     `json:"count" jsonschema:"number of values"`
	Mean      float64 `json:"mean" jsonschema:"sample mean"`
	StdDev    float64 `json:"std_dev" jsonschema:"sample standard deviation"`
	Min       float64 `json:"min" jsonschema:"smallest value"`
	Max       float64 `json:"max" jsonschema:"largest value"`
	KS        float64 `json:"ks" jsonschema:"Kolmogorov-Smirnov statistic"`
}

// GetInstanceTool defines the MCP tool schema for suite instances.
func GetInstanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_instance",
		Description: "Returns the optimum location and objective offset of a suite instance",
	}
}

// DescribeSequenceTool defines the MCP tool schema for sequence summaries.
func DescribeSequenceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "describe_sequence",
		Description: "Summarizes a generated sequence with moments and a Kolmogorov-Smirnov statistic",
	}
}

// GetInstanceHandler returns suite instances from backend.
func GetInstanceHandler(backend Backend) mcp.ToolHandlerFor[InstanceInput, InstanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InstanceInput) (*mcp.CallToolResult, InstanceResult, error) {
		name := strings.TrimSpace(input.Suite)
		if name == "" {
			name = string(suite.BBOB)
		}
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		instance, err := backend.Instance(callCtx, suite.Spec{
			Suite:     suite.Name(name),
			Function:  input.Function,
			Instance:  input.Instance,
			Dimension: input.Dimension,
		})
		if err != nil {
			return nil, InstanceResult{}, fmt.Errorf("get instance: %w", err)
		}
		return nil, InstanceResult{
			Key:         instance.Spec.String(),
			Suite:       string(instance.Suite),
			Function:    instance.Function,
			Instance:    instance.Instance,
			Dimension:   instance.Dimension,
			OptimumSeed: instance.OptimumSeed,
			XOpt:        instance.XOpt,
			FOpt:        instance.FOpt,
		}, nil
	}
}

// DescribeSequenceHandler summarizes sequences generated by backend.
func DescribeSequenceHandler(backend Backend) mcp.ToolHandlerFor[DescribeInput, DescribeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DescribeInput) (*mcp.CallToolResult, DescribeResult, error) {
		if input.Count < 2 {
			return nil, DescribeResult{}, fmt.Errorf("count must be at least 2")
		}
		ref, err := sample.ParseReference(input.Reference)
		if err != nil {
			return nil, DescribeResult{}, err
		}

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		var (
			kind   = strings.ToLower(strings.TrimSpace(input.Kind))
			values []float64
		)
		switch kind {
		case "", "uniform":
			kind = "uniform"
			if ref == "" {
				ref = sample.ReferenceUniform
			}
			values, err = backend.Uniform(callCtx, input.Seed, input.Count)
		case "gaussian":
			if ref == "" {
				ref = sample.ReferenceNormal
			}
			values, err = backend.Gaussian(callCtx, input.Seed, input.Count)
		default:
			return nil, DescribeResult{}, fmt.Errorf("unknown sequence kind: %s", input.Kind)
		}
		if err != nil {
			return nil, DescribeResult{}, fmt.Errorf("describe sequence: %w", err)
		}

		summary, err := sample.Describe(values, ref)
		if err != nil {
			return nil, DescribeResult{}, fmt.Errorf("describe sequence: %w", err)
		}
		return nil, DescribeResult{
			Kind:      kind,
			Reference: string(ref),
			Count:     summary.Count,
			Mean:      summary.Mean,
			StdDev:    summary.StdDev,
			Min:       summary.Min,
			Max:       summary.Max,
			KS:        summary.KS,
		}, nil
	}
}
