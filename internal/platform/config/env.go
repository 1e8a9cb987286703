// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by the services.
const EnvPrefix = "OBSTETRIC_CARE_"

// ParseEnvPrefixed loads configuration from environment variables whose names
// are the struct tags with EnvPrefix prepended.
func ParseEnvPrefixed(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
