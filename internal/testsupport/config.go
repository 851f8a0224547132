package testsupport

import (
	"path/filepath"
	"testing"

	"verid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMatchingThreshold overrides the face-match cutoff on the test config.
func WithMatchingThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Threshold = threshold
	}
}

// WithOCRLanguages overrides the OCR language hints on the test config.
func WithOCRLanguages(languages ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.OCR.Languages = languages
	}
}
