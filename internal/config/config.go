package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides. Nested keys use a double
// underscore: GUTCHECK_SERVER__PORT -> server.port.
const EnvPrefix = "GUTCHECK_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GUTCHECK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validTransports = map[Transport]bool{
	TransportHTTP:  true,
	TransportStdio: true,
}

var validFiberNormalizations = map[string]bool{
	"fixed_week":  true,
	"window_days": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validTransports[c.Server.Transport] {
		return fmt.Errorf("invalid server.transport %q: must be one of http, stdio", c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	if _, err := time.LoadLocation(c.Analysis.Timezone); err != nil {
		return fmt.Errorf("invalid analysis.timezone %q: %w", c.Analysis.Timezone, err)
	}
	if c.Analysis.WindowDays <= 0 {
		return fmt.Errorf("analysis.window_days must be positive")
	}
	if !validFiberNormalizations[c.Analysis.FiberNormalization] {
		return fmt.Errorf("invalid analysis.fiber_normalization %q: must be one of fixed_week, window_days", c.Analysis.FiberNormalization)
	}

	if c.Schedule.Enabled {
		if _, err := cron.ParseStandard(c.Schedule.Expr); err != nil {
			return fmt.Errorf("invalid schedule.expr %q: %w", c.Schedule.Expr, err)
		}
	}

	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
