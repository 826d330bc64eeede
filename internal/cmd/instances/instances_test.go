package instances

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("instances", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8095 {
		t.Fatalf("port = %d, want 8095", cfg.Port)
	}
	if cfg.DBPath != "data/instances.db" {
		t.Fatalf("db path = %q, want data/instances.db", cfg.DBPath)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("BENCHSEED_INSTANCES_PORT", "9001")
	t.Setenv("BENCHSEED_INSTANCES_DB_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("instances", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/flag.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001 from env", cfg.Port)
	}
	if cfg.DBPath != "/tmp/flag.db" {
		t.Fatalf("db path = %q, want flag value", cfg.DBPath)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("BENCHSEED_INSTANCES_PORT", "not-a-port")

	fs := flag.NewFlagSet("instances", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected env parse error")
	}
}
