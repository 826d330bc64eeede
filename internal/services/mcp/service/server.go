package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/benchseed/internal/platform/timeouts"
	"github.com/louisbranch/benchseed/internal/services/instances/client"
	"github.com/louisbranch/benchseed/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "benchseed MCP"
	serverVersion = "0.1.0"

	defaultHTTPAddr = "localhost:8096"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	// InstancesAddr is the gRPC address of the instance service.
	InstancesAddr string
	Transport     TransportKind
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
}

// Server hosts the MCP server and the backend connection it owns.
type Server struct {
	mcpServer *mcp.Server
	closer    io.Closer
}

// New creates an MCP server whose tools call backend.
func New(backend domain.Backend) (*Server, error) {
	if backend == nil {
		return nil, errors.New("MCP backend is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := registerTools(mcpServer, generatorTools(backend)); err != nil {
		return nil, fmt.Errorf("register MCP tools: %w", err)
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Run dials the instance service and serves MCP over cfg.Transport until ctx
// ends.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}

	server, err := dialServer(ctx, cfg.InstancesAddr)
	if err != nil {
		return err
	}
	if cfg.Transport == TransportHTTP {
		defer server.Close()
		return server.ServeHTTP(ctx, cfg.HTTPAddr)
	}
	return server.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func dialServer(ctx context.Context, addr string) (*Server, error) {
	logf := func(format string, args ...any) {
		log.Printf("instances %s", fmt.Sprintf(format, args...))
	}
	backend, closeConn, err := client.Dial(ctx, addr, timeouts.GRPCDial, logf)
	if err != nil {
		return nil, fmt.Errorf("connect to instance service at %s: %w", addr, err)
	}
	server, err := New(backend)
	if err != nil {
		_ = closeConn()
		return nil, err
	}
	server.closer = closerFunc(closeConn)
	return server, nil
}

// Close releases the backend connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// serveWithTransport runs the MCP server on transport, then closes the
// backend connection.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if closeErr := s.Close(); closeErr != nil {
		if err == nil {
			return fmt.Errorf("close backend connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close backend connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
