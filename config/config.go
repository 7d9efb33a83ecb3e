// Package config loads glyphd's server configuration: a YAML document
// describing the listen address, namespace/database defaults, capability
// toggles, and the KV backend connection string, with environment
// variable expansion and .env loading exactly as the teacher's root
// config.go does for SnapSQL's configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails.
var ErrConfigValidation = errors.New("configuration validation failed")

// Config is glyphd's top-level configuration document.
type Config struct {
	Bind         string             `yaml:"bind"`
	Namespace    string             `yaml:"namespace"`
	Database     string             `yaml:"database"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Storage      StorageConfig      `yaml:"storage"`
	Auth         AuthConfig         `yaml:"auth"`
}

// CapabilitiesConfig toggles the dispatcher's optional capability flags.
type CapabilitiesConfig struct {
	LiveQueries bool `yaml:"live_queries"`
	GraphQL     bool `yaml:"graphql"`
}

// StorageConfig describes the KV backend glyphd embeds.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // "memory" is the only backend this module ships
	Connection string `yaml:"connection"`
	SnapshotTo string `yaml:"snapshot_to"`
}

// AuthConfig seeds the in-memory IAM reference implementation.
type AuthConfig struct {
	RootUser string `yaml:"root_user"`
	RootPass string `yaml:"root_pass"`
}

// Load reads configPath, falling back to defaults when the file does not
// exist. Unknown keys are rejected by yaml.Strict, the file is validated,
// defaults are applied to anything left zero, and ${VAR}/$VAR references
// are expanded against the process environment after any .env file in
// the working directory has been loaded.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load environment file: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		expandConfigEnvVars(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	applyDefaults(&cfg)
	expandConfigEnvVars(&cfg)

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Storage.Backend != "" && cfg.Storage.Backend != "memory" {
		return fmt.Errorf("%w: storage.backend %q is not supported by this build: only \"memory\" is", ErrConfigValidation, cfg.Storage.Backend)
	}
	if (cfg.Auth.RootUser == "") != (cfg.Auth.RootPass == "") {
		return fmt.Errorf("%w: auth.root_user and auth.root_pass must be set together", ErrConfigValidation)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Bind:      "127.0.0.1:8836",
		Namespace: "default",
		Database:  "default",
		Capabilities: CapabilitiesConfig{
			LiveQueries: true,
			GraphQL:     false,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bind == "" {
		cfg.Bind = "127.0.0.1:8836"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	if cfg.Database == "" {
		cfg.Database = "default"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	return nil
}

var (
	braceVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVarPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in ${VAR} and $VAR form.
func expandEnvVars(s string) string {
	s = braceVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
	return bareVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(cfg *Config) {
	cfg.Bind = expandEnvVars(cfg.Bind)
	cfg.Namespace = expandEnvVars(cfg.Namespace)
	cfg.Database = expandEnvVars(cfg.Database)
	cfg.Storage.Connection = expandEnvVars(cfg.Storage.Connection)
	cfg.Storage.SnapshotTo = expandEnvVars(cfg.Storage.SnapshotTo)
	cfg.Auth.RootUser = expandEnvVars(cfg.Auth.RootUser)
	cfg.Auth.RootPass = expandEnvVars(cfg.Auth.RootPass)
}
