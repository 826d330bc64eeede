// Package domain defines the benchseed MCP tools.
//
// Each tool pairs an mcp.Tool definition with a typed handler. Handlers call
// a Backend, which is the instance gRPC client in production and the engine
// itself in tests and embedded setups.
package domain
