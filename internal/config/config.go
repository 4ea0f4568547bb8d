// Package config loads server settings from an optional YAML file with
// environment overrides for credentials.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Quality int           `yaml:"quality"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Upscale UpscaleConfig `yaml:"upscale"`
	Codec   CodecConfig   `yaml:"codec"`
}

// GeminiConfig holds the generative service credentials and tuning.
// The API key is normally supplied through the environment, not the file.
type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// UpscaleConfig tunes the automatic upscale heuristic.
type UpscaleConfig struct {
	FloorBytes  int     `yaml:"floor_bytes"`
	TargetBytes int     `yaml:"target_bytes"`
	MaxScale    float64 `yaml:"max_scale"`
}

// CodecConfig tunes the image codec.
type CodecConfig struct {
	MaxParallel int `yaml:"max_parallel"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Quality: 90,
		Upscale: UpscaleConfig{
			FloorBytes:  100 * 1024,
			TargetBytes: 250 * 1024,
			MaxScale:    4.0,
		},
		Codec: CodecConfig{
			MaxParallel: 1,
		},
	}
}

// Load reads and parses the configuration file. A missing file is not an
// error: defaults apply, and environment overrides are still honored.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv layers environment variables over file values. The variables
// win so MCP clients can pass credentials without a config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("IMAGE_EDIT_QUALITY"); v != "" {
		if q, err := strconv.Atoi(v); err == nil {
			c.Quality = q
		}
	}
	if v := os.Getenv("IMAGE_EDIT_MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Codec.MaxParallel = n
		}
	}
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if c.Upscale.MaxScale < 1.0 {
		return fmt.Errorf("upscale.max_scale must be at least 1.0, got %g", c.Upscale.MaxScale)
	}
	if c.Upscale.FloorBytes < 0 || c.Upscale.TargetBytes < 0 {
		return fmt.Errorf("upscale byte thresholds must not be negative")
	}
	if c.Upscale.TargetBytes > 0 && c.Upscale.TargetBytes < c.Upscale.FloorBytes {
		return fmt.Errorf("upscale.target_bytes %d is below upscale.floor_bytes %d",
			c.Upscale.TargetBytes, c.Upscale.FloorBytes)
	}
	if c.Codec.MaxParallel < 1 {
		return fmt.Errorf("codec.max_parallel must be at least 1, got %d", c.Codec.MaxParallel)
	}
	if c.Gemini.MaxAttempts < 0 {
		return fmt.Errorf("gemini.max_attempts must not be negative, got %d", c.Gemini.MaxAttempts)
	}
	return nil
}

// AIConfigured reports whether the generative strategy can be used.
func (c *Config) AIConfigured() bool {
	return c.Gemini.APIKey != ""
}
