// Package config loads claimscout settings from defaults, an optional YAML
// file and CLAIMSCOUT_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/csheth/claimscout/internal/logging"
	"github.com/csheth/claimscout/internal/proposal"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CLAIMSCOUT"

// Thinking bounds the cosmetic delay before a reply appears.
type Thinking struct {
	Min time.Duration
	Max time.Duration
}

// Log configures the file logger.
type Log struct {
	Level  string
	File   string
	Format string
}

// Config is the effective configuration.
type Config struct {
	Case          string
	ExportDir     string
	PendingPolicy string
	Thinking      Thinking
	FlashTTL      time.Duration
	Log           Log
	AltScreen     bool
	ChromePath    string

	// Source is the config file that was read, if any.
	Source string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Case:          "acme",
		ExportDir:     "./claimscout-exports",
		PendingPolicy: string(proposal.PolicyOverwrite),
		Thinking:      Thinking{Min: 400 * time.Millisecond, Max: 1400 * time.Millisecond},
		FlashTTL:      2 * time.Second,
		Log:           Log{Level: "info", Format: "text"},
		AltScreen:     true,
	}
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claimscout", "config.yaml")
}

// Load builds the configuration. An explicit path must exist; without one
// the default location is tried and silently skipped when absent.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetDefault("case", cfg.Case)
	v.SetDefault("export_dir", cfg.ExportDir)
	v.SetDefault("pending_policy", cfg.PendingPolicy)
	v.SetDefault("thinking.min", cfg.Thinking.Min)
	v.SetDefault("thinking.max", cfg.Thinking.Max)
	v.SetDefault("flash_ttl", cfg.FlashTTL)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("alt_screen", cfg.AltScreen)
	v.SetDefault("chrome_path", cfg.ChromePath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if def := DefaultPath(); def != "" {
			v.AddConfigPath(filepath.Dir(def))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.Case = v.GetString("case")
	cfg.ExportDir = v.GetString("export_dir")
	cfg.PendingPolicy = v.GetString("pending_policy")
	cfg.Thinking.Min = v.GetDuration("thinking.min")
	cfg.Thinking.Max = v.GetDuration("thinking.max")
	cfg.FlashTTL = v.GetDuration("flash_ttl")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.File = v.GetString("log.file")
	cfg.Log.Format = v.GetString("log.format")
	cfg.AltScreen = v.GetBool("alt_screen")
	cfg.ChromePath = v.GetString("chrome_path")
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Case) == "" {
		errs = append(errs, errors.New("case must not be empty"))
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		errs = append(errs, errors.New("export_dir must not be empty"))
	}
	if _, err := proposal.ParsePolicy(c.PendingPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Thinking.Min < 0 || c.Thinking.Max < c.Thinking.Min {
		errs = append(errs, fmt.Errorf("thinking delay must satisfy 0 <= min <= max, got %s..%s", c.Thinking.Min, c.Thinking.Max))
	}
	if c.FlashTTL <= 0 {
		errs = append(errs, fmt.Errorf("flash_ttl must be positive, got %s", c.FlashTTL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Policy returns the parsed pending-proposal policy.
func (c Config) Policy() proposal.Policy {
	p, err := proposal.ParsePolicy(c.PendingPolicy)
	if err != nil {
		return proposal.PolicyOverwrite
	}
	return p
}

type display struct {
	Case          string `yaml:"case"`
	ExportDir     string `yaml:"export_dir"`
	PendingPolicy string `yaml:"pending_policy"`
	Thinking      struct {
		Min string `yaml:"min"`
		Max string `yaml:"max"`
	} `yaml:"thinking"`
	FlashTTL string `yaml:"flash_ttl"`
	Log      struct {
		Level  string `yaml:"level"`
		File   string `yaml:"file"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	AltScreen  bool   `yaml:"alt_screen"`
	ChromePath string `yaml:"chrome_path"`
}

// YAML renders the configuration in the same shape the config file uses.
func (c Config) YAML() ([]byte, error) {
	d := display{
		Case:          c.Case,
		ExportDir:     c.ExportDir,
		PendingPolicy: c.PendingPolicy,
		FlashTTL:      c.FlashTTL.String(),
		AltScreen:     c.AltScreen,
		ChromePath:    c.ChromePath,
	}
	d.Thinking.Min = c.Thinking.Min.String()
	d.Thinking.Max = c.Thinking.Max.String()
	d.Log.Level = c.Log.Level
	d.Log.File = c.Log.File
	d.Log.Format = c.Log.Format
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
