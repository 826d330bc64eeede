// Package benchseed implements the benchseed command-line interface.
//
// Subcommands generate legacy sequences, optimum locations, objective
// offsets, and suite instances, either locally or through a running instance
// service when -addr is set.
package benchseed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	entrypoint "github.com/louisbranch/benchseed/internal/platform/cmd"
	"github.com/louisbranch/benchseed/internal/platform/timeouts"
	"github.com/louisbranch/benchseed/internal/sample"
	"github.com/louisbranch/benchseed/internal/services/instances/client"
	"github.com/louisbranch/benchseed/internal/services/instances/engine"
	instancesqlite "github.com/louisbranch/benchseed/internal/services/instances/storage/sqlite"
	"github.com/louisbranch/benchseed/internal/suite"
	"golang.org/x/text/message"
)

// ErrUsage reports a missing or unknown subcommand.
var ErrUsage = errors.New("usage: benchseed [-addr host:port] [-db path] <uniform|gaussian|xopt|fopt|instance|describe|populate> [flags]")

// Config holds CLI configuration shared by every subcommand.
type Config struct {
	// Addr selects a remote instance service; empty runs locally.
	Addr   string `env:"CLI_ADDR"`
	DBPath string `env:"INSTANCES_DB_PATH" envDefault:"data/instances.db"`
	Lang   string `env:"CLI_LANG"          envDefault:"en"`
	// Args holds the subcommand and its flags.
	Args []string
}

// ParseConfig parses environment and global flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "instance service address; empty runs locally")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite instance store for local instance and populate commands")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "output language")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()
	return cfg, nil
}

// generator is the subset of operations the CLI needs from a backend.
type generator interface {
	Uniform(ctx context.Context, seed int64, count int) ([]float64, error)
	Gaussian(ctx context.Context, seed int64, count int) ([]float64, error)
	OptimumLocation(ctx context.Context, seed int64, dimension int) ([]float64, error)
	ObjectiveOffset(ctx context.Context, function, instance int) (float64, error)
	Instance(ctx context.Context, spec suite.Spec) (suite.Instance, error)
}

type command struct {
	cfg     Config
	out     io.Writer
	printer *message.Printer
}

// Run executes the subcommand in cfg.Args, writing results to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if len(cfg.Args) == 0 {
		return ErrUsage
	}
	c := command{cfg: cfg, out: out, printer: newPrinter(cfg.Lang)}
	name, args := cfg.Args[0], cfg.Args[1:]
	switch name {
	case "uniform":
		return c.sequence(ctx, name, args, generator.Uniform)
	case "gaussian":
		return c.sequence(ctx, name, args, generator.Gaussian)
	case "xopt":
		return c.xopt(ctx, args)
	case "fopt":
		return c.fopt(ctx, args)
	case "instance":
		return c.instance(ctx, args)
	case "describe":
		return c.describe(ctx, args)
	case "populate":
		return c.populate(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
}

func (c command) sequence(ctx context.Context, name string, args []string, generate func(generator, context.Context, int64, int) ([]float64, error)) error {
	fs := newFlagSet(name)
	seed := fs.Int64("seed", 1, "generator seed")
	count := fs.Int("count", 1, "number of values")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.withBackend(ctx, false, func(backend generator) error {
		values, err := generate(backend, ctx, *seed, *count)
		if err != nil {
			return err
		}
		return c.writeValues(values)
	})
}

func (c command) xopt(ctx context.Context, args []string) error {
	fs := newFlagSet("xopt")
	seed := fs.Int64("seed", 1, "optimum location seed")
	dimension := fs.Int("dim", 2, "number of coordinates")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.withBackend(ctx, false, func(backend generator) error {
		xopt, err := backend.OptimumLocation(ctx, *seed, *dimension)
		if err != nil {
			return err
		}
		return c.writeValues(xopt)
	})
}

func (c command) fopt(ctx context.Context, args []string) error {
	fs := newFlagSet("fopt")
	function := fs.Int("function", 1, "function id")
	instance := fs.Int("instance", 1, "instance id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.withBackend(ctx, false, func(backend generator) error {
		fopt, err := backend.ObjectiveOffset(ctx, *function, *instance)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, strconv.FormatFloat(fopt, 'f', 2, 64))
		return err
	})
}

func (c command) instance(ctx context.Context, args []string) error {
	fs := newFlagSet("instance")
	name := fs.String("suite", string(suite.BBOB), "suite name")
	function := fs.Int("function", 1, "function id")
	instance := fs.Int("instance", 1, "instance id")
	dimension := fs.Int("dim", 2, "problem dimension")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.withBackend(ctx, true, func(backend generator) error {
		built, err := backend.Instance(ctx, suite.Spec{
			Suite:     suite.Name(*name),
			Function:  *function,
			Instance:  *instance,
			Dimension: *dimension,
		})
		if err != nil {
			return err
		}
		p := c.printer
		p.Fprintf(c.out, msgInstanceKey, built.Spec.String())
		p.Fprintf(c.out, msgInstanceSeed, built.OptimumSeed)
		p.Fprintf(c.out, msgInstanceFOpt, strconv.FormatFloat(built.FOpt, 'f', 2, 64))
		p.Fprintf(c.out, msgInstanceXOpt, len(built.XOpt))
		return c.writeValues(built.XOpt)
	})
}

func (c command) describe(ctx context.Context, args []string) error {
	fs := newFlagSet("describe")
	kind := fs.String("kind", "uniform", "sequence kind: uniform or gaussian")
	seed := fs.Int64("seed", 1, "generator seed")
	count := fs.Int("count", 1000, "number of values")
	refName := fs.String("ref", "", "reference distribution: uniform or normal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ref, err := sample.ParseReference(*refName)
	if err != nil {
		return err
	}
	var generate func(generator, context.Context, int64, int) ([]float64, error)
	switch *kind {
	case "uniform":
		generate = generator.Uniform
		if ref == "" {
			ref = sample.ReferenceUniform
		}
	case "gaussian":
		generate = generator.Gaussian
		if ref == "" {
			ref = sample.ReferenceNormal
		}
	default:
		return fmt.Errorf("unknown sequence kind: %s", *kind)
	}

	return c.withBackend(ctx, false, func(backend generator) error {
		values, err := generate(backend, ctx, *seed, *count)
		if err != nil {
			return err
		}
		summary, err := sample.Describe(values, ref)
		if err != nil {
			return err
		}
		p := c.printer
		p.Fprintf(c.out, msgDescribeHead, *kind, *seed, summary.Count)
		p.Fprintf(c.out, msgDescribeMean, formatStat(summary.Mean))
		p.Fprintf(c.out, msgDescribeStd, formatStat(summary.StdDev))
		p.Fprintf(c.out, msgDescribeRange, formatStat(summary.Min), formatStat(summary.Max))
		p.Fprintf(c.out, msgDescribeKS, string(ref), formatStat(summary.KS))
		return nil
	})
}

func (c command) populate(ctx context.Context, args []string) error {
	fs := newFlagSet("populate")
	name := fs.String("suite", string(suite.BBOB), "suite name")
	year := fs.Int("year", 0, "restrict to the instances of a workshop year")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "concurrent builders")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.cfg.Addr != "" {
		return errors.New("populate runs against a local store; unset -addr")
	}
	var instances []int
	if *year != 0 {
		byYear, err := suite.InstancesByYear(*year)
		if err != nil {
			return err
		}
		slices.Sort(byYear)
		instances = slices.Compact(byYear)
	}

	store, err := openStore(c.cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, err := engine.New(store).Populate(ctx, suite.Name(*name), instances, *workers)
	if err != nil {
		return err
	}
	c.printer.Fprintf(c.out, msgPopulateDone, result.Built, strings.ToLower(*name), result.Stored)
	return nil
}

// withBackend runs fn against the remote service when an address is set and
// against a local engine otherwise. Local runs open the store only when
// needStore is true.
func (c command) withBackend(ctx context.Context, needStore bool, fn func(generator) error) error {
	if c.cfg.Addr != "" {
		logf := func(format string, args ...any) {
			log.Printf("instances %s", fmt.Sprintf(format, args...))
		}
		remote, closeConn, err := client.Dial(ctx, c.cfg.Addr, timeouts.GRPCDial, logf)
		if err != nil {
			return err
		}
		defer func() { _ = closeConn() }()
		return fn(remote)
	}
	if !needStore {
		return fn(engine.New(nil))
	}
	store, err := openStore(c.cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(store)
	return fn(engine.New(store))
}

func (c command) writeValues(values []float64) error {
	for _, v := range values {
		if _, err := fmt.Fprintln(c.out, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

func openStore(path string) (*instancesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return instancesqlite.Open(path)
}

func closeStore(store *instancesqlite.Store) {
	if err := store.Close(); err != nil {
		log.Printf("close instance store: %v", err)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
