// Package main runs the benchseed command-line interface.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	benchseedcmd "github.com/louisbranch/benchseed/internal/cmd/benchseed"
	entrypoint "github.com/louisbranch/benchseed/internal/platform/cmd"
	"github.com/louisbranch/benchseed/internal/platform/config"
)

func main() {
	cfg, err := benchseedcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[BENCHSEED] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCLI, func(ctx context.Context) error {
		return benchseedcmd.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		stop()
		config.Exitf("benchseed: %v", err)
	}
}
