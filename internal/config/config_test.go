package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"verid/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "verid")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Matching.Threshold != 0.6 {
		t.Fatalf("unexpected match threshold: %v", cfg.Matching.Threshold)
	}
	if cfg.Document.AdaptiveBlockSize != 11 {
		t.Fatalf("unexpected adaptive block size: %d", cfg.Document.AdaptiveBlockSize)
	}
	if cfg.Document.MaxFrameSide != 1280 {
		t.Fatalf("unexpected max frame side: %d", cfg.Document.MaxFrameSide)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if len(cfg.OCR.Languages) != 1 || cfg.OCR.Languages[0] != "eng" {
		t.Fatalf("unexpected OCR languages: %v", cfg.OCR.Languages)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "verid.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[matching]
threshold = 0.45

[document]
min_area_fraction = 0.1

[ocr]
languages = ["ENG", "hin", "", "eng"]

[logging]
format = "JSON"
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config at %q", path)
	}
	if cfg.Matching.Threshold != 0.45 {
		t.Fatalf("unexpected threshold: %v", cfg.Matching.Threshold)
	}
	if cfg.Document.MinAreaFraction != 0.1 {
		t.Fatalf("unexpected min area fraction: %v", cfg.Document.MinAreaFraction)
	}
	want := []string{"eng", "hin"}
	if len(cfg.OCR.Languages) != len(want) {
		t.Fatalf("unexpected languages: %v", cfg.OCR.Languages)
	}
	for i, lang := range want {
		if cfg.OCR.Languages[i] != lang {
			t.Fatalf("unexpected languages: %v", cfg.OCR.Languages)
		}
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected format normalized to json, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero threshold", func(c *config.Config) { c.Matching.Threshold = 0 }},
		{"negative threshold", func(c *config.Config) { c.Matching.Threshold = -0.5 }},
		{"even block size", func(c *config.Config) { c.Document.AdaptiveBlockSize = 10 }},
		{"tiny block size", func(c *config.Config) { c.Document.AdaptiveBlockSize = 1 }},
		{"area fraction too large", func(c *config.Config) { c.Document.MinAreaFraction = 1.5 }},
		{"epsilon out of range", func(c *config.Config) { c.Document.ApproxEpsilonFraction = 0.9 }},
		{"negative max frame side", func(c *config.Config) { c.Document.MaxFrameSide = -1 }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected sample config content")
	}

	// The sample must itself load cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
