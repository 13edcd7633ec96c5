package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.TTS.MaxChars != 220 {
		t.Fatalf("expected default max_chars 220, got %d", cfg.TTS.MaxChars)
	}
	if cfg.TTS.EnforceKnown {
		t.Fatal("enforce_known should default to false")
	}
	if len(cfg.TTS.AttributionCues) == 0 {
		t.Fatal("expected default attribution cues")
	}
}

func TestLoadReadsTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`assets_dir = "` + filepath.Join(dir, "assets") + `"`,
		`jobs_dir = "` + filepath.Join(dir, "jobs") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[tts]",
		"max_chars = 80",
		"enforce_known = true",
		`attribution_cues = ["said", "replied"]`,
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.TTS.MaxChars != 80 || !cfg.TTS.EnforceKnown {
		t.Fatalf("unexpected tts settings: %+v", cfg.TTS)
	}
	if len(cfg.TTS.AttributionCues) != 2 || cfg.TTS.AttributionCues[0] != "said" {
		t.Fatalf("unexpected cues: %v", cfg.TTS.AttributionCues)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json logging format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative max chars", func(c *Config) { c.TTS.MaxChars = -1 }},
		{"empty quote delims", func(c *Config) { c.TTS.QuoteOpen = "" }},
		{"no cues", func(c *Config) { c.TTS.AttributionCues = nil }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatal(err)
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tts]") {
		t.Fatal("sample config missing [tts] section")
	}
}
