package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CREWCAST_CONFIG is set
//  3. env (prefix CREWCAST_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CREWCAST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CREWCAST_ADDR, CREWCAST_TEAM_SIZE, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("CREWCAST_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "crewcast_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TeamSize < 1:
		return fmt.Errorf("%w: team_size must be positive", ErrInvalidConfig)
	case c.CandidatePoolSize < 1:
		return fmt.Errorf("%w: candidate_pool_size must be positive", ErrInvalidConfig)
	case c.GroupSizeMin < 2 || c.GroupSizeMax < c.GroupSizeMin:
		return fmt.Errorf("%w: group size bounds must satisfy 2 <= min <= max", ErrInvalidConfig)
	case c.EditQueueSize < 1:
		return fmt.Errorf("%w: edit_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
