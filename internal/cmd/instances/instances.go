// Package instances parses instance service flags and launches the service.
package instances

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/benchseed/internal/platform/cmd"
	server "github.com/louisbranch/benchseed/internal/services/instances/app"
)

// Config holds instance command configuration.
type Config struct {
	Port   int    `env:"INSTANCES_PORT"    envDefault:"8095"`
	DBPath string `env:"INSTANCES_DB_PATH" envDefault:"data/instances.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The instance gRPC server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path of the SQLite instance store")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the instance gRPC service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInstances, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port, cfg.DBPath)
	})
}
