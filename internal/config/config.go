package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/objedit/jsonshape/internal/errors"
	"github.com/objedit/jsonshape/internal/registry"
	"github.com/objedit/jsonshape/internal/session"
)

// Config represents the complete tool configuration.
type Config struct {
	// Mode is the save-gate policy: "warn" or "block".
	Mode          string                  `yaml:"mode" json:"mode,omitempty" jsonschema:"enum=warn,enum=block"`
	DefaultBucket string                  `yaml:"default_bucket" json:"default_bucket,omitempty"`
	Organizations []registry.Organization `yaml:"organizations" json:"organizations,omitempty"`
	Watch         WatchConfig             `yaml:"watch" json:"watch,omitempty"`
	Output        OutputConfig            `yaml:"output" json:"output,omitempty"`
}

// WatchConfig controls re-validation on file change.
type WatchConfig struct {
	// DebounceMs is how long a file must stay quiet before a change
	// triggers re-validation.
	DebounceMs int `yaml:"debounce_ms" json:"debounce_ms,omitempty" jsonschema:"minimum=0"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	// Plain disables styled output regardless of TTY detection.
	Plain bool `yaml:"plain" json:"plain,omitempty"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Mode: string(session.ModeWarn),
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Output: OutputConfig{
			Plain: false,
		},
	}
}

// BlockMode returns the configured save-gate policy as a session mode.
func (c *Config) BlockMode() session.BlockMode {
	return session.BlockMode(c.Mode)
}

// Registry builds the bucket registry declared by this config.
func (c *Config) Registry() *registry.Registry {
	return registry.New(c.Organizations, c.DefaultBucket)
}

// LoadConfig loads configuration from a YAML file, layered over defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and
// its parents.
func FindConfigFile() string {
	configNames := []string{".jsonshape.yml", ".jsonshape.yaml", "jsonshape.yml", "jsonshape.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence: defaults,
// then the config file, then explicitly set flags. Empty CLI values mean
// "not set" and leave the file value in place.
func LoadConfigWithCLI(configPath, cliMode, cliBucket string, cliPlain bool) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliMode != "" {
		cfg.Mode = cliMode
	}
	if cliBucket != "" {
		cfg.DefaultBucket = cliBucket
	}
	// Plain is a strictly additive flag: config can force it on, the flag
	// can force it on, neither can force styling onto a pipe.
	if cliPlain {
		cfg.Output.Plain = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !session.ValidMode(session.BlockMode(c.Mode)) {
		return errors.NewConfigError(fmt.Sprintf("invalid mode '%s', expected 'warn' or 'block'", c.Mode), nil)
	}
	if c.Watch.DebounceMs < 0 {
		return errors.NewConfigError("watch.debounce_ms must not be negative", nil)
	}
	return nil
}

// JSONSchema reflects the config structure into a JSON Schema document so
// editors can validate config files.
func JSONSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	return reflector.Reflect(&Config{})
}
