// Package config loads benchseed settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment key read by ParseEnv.
const EnvPrefix = "BENCHSEED_"

// ParseEnv loads prefixed environment variables into target.
func ParseEnv(target any) error {
	return parse(target, env.Options{Prefix: EnvPrefix})
}

// ParseEnvMap loads target from environ instead of the process environment.
// Keys in environ carry the prefix, as they would in the process environment.
func ParseEnvMap(target any, environ map[string]string) error {
	if environ == nil {
		environ = map[string]string{}
	}
	return parse(target, env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
