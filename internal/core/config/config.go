package config

import (
	"fmt"
	"strings"

	"github.com/aevon-lab/hitpolicy/internal/core/hitpolicy"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides, e.g. HITPOLICY_SERVER__PORT=9090.
const EnvPrefix = "HITPOLICY_"

// Config represents the top-level application config plus the resolved definitions.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Evaluation EvaluationConfig `koanf:"evaluation"`

	// Definitions is populated by Load after parsing definition files.
	Definitions []hitpolicy.Definition `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type EvaluationConfig struct {
	DefinitionsDir     string `koanf:"definitions_dir"`
	RequireDefinitions bool   `koanf:"require_definitions"`
	WorkerCount        int    `koanf:"worker_count"`   // concurrent groups per batch request
	MaxBatchSize       int    `koanf:"max_batch_size"` // groups per batch request
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Evaluation.DefinitionsDir) == "" {
		return fmt.Errorf("evaluation.definitions_dir is required")
	}
	if c.Evaluation.WorkerCount <= 0 {
		return fmt.Errorf("evaluation.worker_count must be > 0")
	}
	if c.Evaluation.MaxBatchSize <= 0 {
		return fmt.Errorf("evaluation.max_batch_size must be > 0")
	}

	return nil
}

// Load parses config from defaults, file and env, validates it, then loads the
// aggregation definitions it points at.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                    8080,
		"server.host":                    "0.0.0.0",
		"server.max_body_size_mb":        1,
		"server.mode":                    "release",
		"evaluation.definitions_dir":     "./config/definitions",
		"evaluation.require_definitions": false,
		"evaluation.worker_count":        8,
		"evaluation.max_batch_size":      1000,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := hitpolicy.NewFileSystemDefinitionRepository(cfg.Evaluation.DefinitionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load aggregation definitions: %w", err)
	}
	defs := repo.GetDefinitions()
	if cfg.Evaluation.RequireDefinitions && len(defs) == 0 {
		return nil, fmt.Errorf("no aggregation definitions found in %q", cfg.Evaluation.DefinitionsDir)
	}
	cfg.Definitions = defs

	return &cfg, nil
}
