// Package timeouts defines timeout constants shared across commands.
package timeouts

import "time"

// GRPCDial caps the wait for an instance service connection to turn healthy.
const GRPCDial = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 35 * time.Second
