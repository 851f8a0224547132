package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateDocument(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold <= 0 {
		return errors.New("matching.threshold must be positive")
	}
	return nil
}

func (c *Config) validateDocument() error {
	if c.Document.MinAreaFraction <= 0 || c.Document.MinAreaFraction >= 1 {
		return errors.New("document.min_area_fraction must be between 0 and 1")
	}
	if c.Document.AdaptiveBlockSize < 3 || c.Document.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("document.adaptive_block_size must be odd and at least 3, got %d", c.Document.AdaptiveBlockSize)
	}
	if c.Document.AdaptiveBias < 0 {
		return errors.New("document.adaptive_bias must not be negative")
	}
	if c.Document.ApproxEpsilonFraction <= 0 || c.Document.ApproxEpsilonFraction >= 0.5 {
		return errors.New("document.approx_epsilon_fraction must be between 0 and 0.5")
	}
	if c.Document.MaxFrameSide < 0 {
		return errors.New("document.max_frame_side must not be negative (0 disables downscaling)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
