package benchseed

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	server "github.com/louisbranch/benchseed/internal/services/instances/app"
	"gonum.org/v1/gonum/floats"
)

func run(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	cfg.Args = args
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	var out bytes.Buffer
	err := Run(context.Background(), cfg, &out)
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("benchseed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"uniform", "-seed", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected local mode, got addr %q", cfg.Addr)
	}
	if cfg.DBPath != "data/instances.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if got := strings.Join(cfg.Args, " "); got != "uniform -seed 3" {
		t.Fatalf("args = %q, want %q", got, "uniform -seed 3")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("BENCHSEED_CLI_ADDR", "env-addr")
	t.Setenv("BENCHSEED_INSTANCES_DB_PATH", "env.db")

	fs := flag.NewFlagSet("benchseed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", "flag-addr", "fopt"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "flag-addr" {
		t.Fatalf("expected flag addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	if _, err := run(t, Config{}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if _, err := run(t, Config{}, "shuffle"); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for unknown command, got %v", err)
	}
}

func parseValues(t *testing.T, out string) []float64 {
	t.Helper()
	var values []float64
	for _, line := range lines(out) {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		values = append(values, v)
	}
	return values
}

func TestRunLocalSequences(t *testing.T) {
	tcs := []struct {
		name string
		args []string
		want []float64
	}{
		{
			name: "uniform",
			args: []string{"uniform", "-seed", "1", "-count", "5"},
			want: []float64{0.41599935685098144, 0.09196489075755929, 0.7564104859514211, 0.5297001933351626, 0.9304364947278223},
		},
		{
			name: "gaussian",
			args: []string{"gaussian", "-seed", "1"},
			want: []float64{1.1094158239007461},
		},
		{
			name: "xopt",
			args: []string{"xopt", "-seed", "20004", "-dim", "5"},
			want: []float64{-3.1232, -1.5848, -3.5376, 1.6944, 3.956},
		},
		{
			name: "fopt",
			args: []string{"fopt", "-function", "2", "-instance", "1"},
			want: []float64{-209.88},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, Config{}, tc.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := parseValues(t, out); !floats.EqualApprox(got, tc.want, 1e-9) {
				t.Fatalf("output = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tcs := []struct {
		name string
		args []string
	}{
		{name: "gaussian capacity", args: []string{"gaussian", "-count", "3000"}},
		{name: "gaussian count overflow", args: []string{"gaussian", "-count", "4611686018427387904"}},
		{name: "dimension", args: []string{"xopt", "-dim", "41"}},
		{name: "function id", args: []string{"fopt", "-function", "0"}},
		{name: "unknown flag", args: []string{"uniform", "-bogus"}},
		{name: "describe kind", args: []string{"describe", "-kind", "cauchy"}},
		{name: "describe reference", args: []string{"describe", "-ref", "cauchy"}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, Config{}, tc.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunDescribe(t *testing.T) {
	out, err := run(t, Config{}, "describe", "-kind", "uniform", "-seed", "7", "-count", "500")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"uniform sequence, seed 7, 500 values", "mean: 0.", "KS vs uniform: 0."} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInstanceAndPopulateUseStore(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "store", "instances.db")}

	out, err := run(t, cfg, "instance", "-function", "1", "-instance", "2", "-dim", "10")
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if !strings.Contains(out, "fopt: 394.48") {
		t.Fatalf("instance output missing fopt:\n%s", out)
	}
	if !strings.Contains(out, "xopt (10 coordinates):") {
		t.Fatalf("instance output missing xopt header:\n%s", out)
	}

	out, err = run(t, cfg, "populate", "-suite", "toy", "-workers", "4")
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	if strings.TrimSpace(out) != "built 36 instances of toy, stored 36 new" {
		t.Fatalf("populate output = %q", out)
	}

	out, err = run(t, cfg, "populate", "-suite", "toy")
	if err != nil {
		t.Fatalf("populate again: %v", err)
	}
	if strings.TrimSpace(out) != "built 36 instances of toy, stored 0 new" {
		t.Fatalf("second populate output = %q", out)
	}
}

func TestRunPopulateRejectsRemote(t *testing.T) {
	if _, err := run(t, Config{Addr: "localhost:1"}, "populate"); err == nil {
		t.Fatal("expected populate to reject remote mode")
	}
}

func TestRunRemote(t *testing.T) {
	srv, err := server.NewWithAddr("127.0.0.1:0", filepath.Join(t.TempDir(), "instances.db"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("timeout waiting for server shutdown")
		}
	}()

	cfg := Config{Addr: srv.Addr()}
	out, err := run(t, cfg, "uniform", "-seed", "12345", "-count", "3")
	if err != nil {
		t.Fatalf("remote uniform: %v", err)
	}
	want := []string{"0.9231205717302489", "0.3331466123150413", "0.19788841865858456"}
	if got := lines(out); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("remote output = %v, want %v", got, want)
	}

	out, err = run(t, cfg, "fopt", "-function", "1", "-instance", "1")
	if err != nil {
		t.Fatalf("remote fopt: %v", err)
	}
	if strings.TrimSpace(out) != "79.48" {
		t.Fatalf("remote fopt = %q, want 79.48", out)
	}
}

func TestRunLocalizedOutput(t *testing.T) {
	out, err := run(t, Config{Lang: "pt-BR"}, "describe", "-kind", "gaussian", "-seed", "3", "-count", "100")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(out, "sequência gaussian, semente 3, 100 valores") {
		t.Fatalf("expected pt-BR output:\n%s", out)
	}
	if !strings.Contains(out, "KS contra normal:") {
		t.Fatalf("expected pt-BR KS label:\n%s", out)
	}
}
