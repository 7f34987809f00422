// Package config loads sweepvault settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/vault"
)

const (
	Dir         = ".sweepvault"
	DefaultFile = Dir + "/config.yaml"

	EnvProgramID = "SWEEPVAULT_PROGRAM_ID"
	EnvLedger    = "SWEEPVAULT_LEDGER"
	EnvKeyfile   = "SWEEPVAULT_KEYFILE"
	EnvLogLevel  = "SWEEPVAULT_LOG_LEVEL"
)

// DefaultProgramID identifies the vault program on the local ledger.
var DefaultProgramID = address.MustParse("Ef4mxmArsCQg5qybkk9zhpcbHujiQMHtX8wDsazp9V4G")

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ProgramID address.Address `yaml:"program_id"`
	Ledger    string          `yaml:"ledger"`
	Keyfile   string          `yaml:"keyfile"`
	LogLevel  string          `yaml:"log_level"`
	Limits    vault.Limits    `yaml:"limits"`
}

func Default() *Config {
	return &Config{
		ProgramID: DefaultProgramID,
		Ledger:    filepath.Join(Dir, "ledger.db"),
		Keyfile:   filepath.Join(Dir, "owner.key"),
		LogLevel:  "warn",
		Limits:    vault.DefaultLimits,
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvProgramID); ok && v != "" {
		id, err := address.Parse(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvProgramID, err)
		}
		c.ProgramID = id
	}
	if v, ok := lookup(EnvLedger); ok && v != "" {
		c.Ledger = v
	}
	if v, ok := lookup(EnvKeyfile); ok && v != "" {
		c.Keyfile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ProgramID.IsZero() {
		return fmt.Errorf("%w: program_id is required", ErrInvalidConfig)
	}
	if c.Ledger == "" {
		return fmt.Errorf("%w: ledger path is required", ErrInvalidConfig)
	}
	if c.Keyfile == "" {
		return fmt.Errorf("%w: keyfile path is required", ErrInvalidConfig)
	}
	return nil
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
