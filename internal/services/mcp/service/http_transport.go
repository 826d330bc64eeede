package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/benchseed/internal/platform/config"
	"github.com/louisbranch/benchseed/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var listenTCP = net.Listen

// httpEnv holds env-parsed settings for the HTTP transport.
type httpEnv struct {
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
}

// Handler returns the streamable HTTP handler for the server, restricted to
// allowedHosts when any are given.
func (s *Server) Handler(allowedHosts []string) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	return hostGuard(handler, allowedHosts)
}

// ServeHTTP serves MCP over streamable HTTP on addr until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if strings.TrimSpace(addr) == "" {
		addr = defaultHTTPAddr
	}
	var env httpEnv
	if err := config.ParseEnv(&env); err != nil {
		return err
	}

	listener, err := listenTCP("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	httpServer := &http.Server{
		Handler:           s.Handler(env.AllowedHosts),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	log.Printf("MCP HTTP transport listening at %v", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP transport: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP transport: %w", err)
	}
}

// hostGuard rejects requests whose Host is not in allowed. An empty list
// admits loopback hosts only.
func hostGuard(next http.Handler, allowed []string) http.Handler {
	hosts := make(map[string]struct{}, len(allowed))
	for _, host := range allowed {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hosts[host] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hostAllowed(r.Host, hosts) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hostAllowed(hostport string, allowed map[string]struct{}) bool {
	host := strings.ToLower(hostport)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if len(allowed) == 0 {
		if host == "localhost" {
			return true
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	}
	_, ok := allowed[host]
	return ok
}
