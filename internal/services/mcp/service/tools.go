package service

import (
	"fmt"

	"github.com/louisbranch/benchseed/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolRegistration struct {
	tool     *mcp.Tool
	register func(*mcp.Server, *mcp.Tool)
}

func typedTool[I, O any](tool *mcp.Tool, handler mcp.ToolHandlerFor[I, O]) toolRegistration {
	return toolRegistration{
		tool: tool,
		register: func(server *mcp.Server, tool *mcp.Tool) {
			mcp.AddTool(server, tool, handler)
		},
	}
}

func generatorTools(backend domain.Backend) []toolRegistration {
	return []toolRegistration{
		typedTool(domain.GenerateUniformTool(), domain.GenerateUniformHandler(backend)),
		typedTool(domain.GenerateGaussianTool(), domain.GenerateGaussianHandler(backend)),
		typedTool(domain.ComputeOptimumLocationTool(), domain.ComputeOptimumLocationHandler(backend)),
		typedTool(domain.ComputeObjectiveOffsetTool(), domain.ComputeObjectiveOffsetHandler(backend)),
		typedTool(domain.GetInstanceTool(), domain.GetInstanceHandler(backend)),
		typedTool(domain.DescribeSequenceTool(), domain.DescribeSequenceHandler(backend)),
	}
}

func registerTools(server *mcp.Server, registrations []toolRegistration) error {
	seen := make(map[string]struct{}, len(registrations))
	for _, registration := range registrations {
		if registration.tool == nil {
			return fmt.Errorf("tool is nil")
		}
		if _, ok := seen[registration.tool.Name]; ok {
			return fmt.Errorf("tool %q registered twice", registration.tool.Name)
		}
		seen[registration.tool.Name] = struct{}{}
		registration.register(server, registration.tool)
	}
	return nil
}
