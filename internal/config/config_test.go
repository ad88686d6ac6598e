package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/csheth/claimscout/internal/proposal"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, EnvPrefix+"_") {
			t.Setenv(name, "")
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}
	if cfg.Policy() != proposal.PolicyOverwrite {
		t.Fatalf("policy got %q", cfg.Policy())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "claimscout.yaml")
	body := "case: nova\npending_policy: reject\nthinking:\n  min: 0s\n  max: 250ms\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAIMSCOUT_THINKING_MAX", "0s")
	t.Setenv("CLAIMSCOUT_EXPORT_DIR", "/tmp/charts")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Case != "nova" || cfg.Policy() != proposal.PolicyReject || cfg.Log.Level != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Thinking.Min != 0 || cfg.Thinking.Max != 0 {
		t.Fatalf("env should override file, got %+v", cfg.Thinking)
	}
	if cfg.ExportDir != "/tmp/charts" || cfg.Source != path {
		t.Fatalf("export dir %q source %q", cfg.ExportDir, cfg.Source)
	}
	if cfg.FlashTTL != 2*time.Second {
		t.Fatalf("unset keys keep defaults, got flash_ttl %s", cfg.FlashTTL)
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("HOME"), ".claimscout")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("case: zenith\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Case != "zenith" {
		t.Fatalf("case got %q", cfg.Case)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"policy", func(c *Config) { c.PendingPolicy = "queue" }, "unknown pending policy"},
		{"thinking order", func(c *Config) { c.Thinking.Min = time.Second; c.Thinking.Max = time.Millisecond }, "0 <= min <= max"},
		{"negative thinking", func(c *Config) { c.Thinking.Min = -time.Second }, "0 <= min <= max"},
		{"flash ttl", func(c *Config) { c.FlashTTL = 0 }, "flash_ttl must be positive"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"case", func(c *Config) { c.Case = " " }, "case must not be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate got %v want %q", err, tc.wantErr)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestYAMLRoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Case = "nova"
	cfg.Thinking.Max = 900 * time.Millisecond
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(out, &generic); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if generic["flash_ttl"] != "2s" {
		t.Fatalf("durations should be human readable, got %v", generic["flash_ttl"])
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	loaded.Source = ""
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}
