// SPDX-License-Identifier: EPL-2.0

// Package config holds the CLI's rendering settings. Values come from the
// built-in defaults, then an optional YAML file, then ENTRAIN_*
// environment variables; command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const envPrefix = "ENTRAIN_"

// Config holds all runtime settings.
type Config struct {
	// SampleRate is the engine's synthesis rate in Hz.
	SampleRate int `yaml:"sample_rate"`
	// ChunkSeconds is the length of each rendered segment.
	ChunkSeconds float64 `yaml:"chunk_seconds"`
	// InitialBufferSeconds is pre-rendered before playback starts.
	InitialBufferSeconds float64 `yaml:"initial_buffer_seconds"`
	// OutputRate resamples exported audio; 0 keeps SampleRate.
	OutputRate int  `yaml:"output_rate"`
	Mono       bool `yaml:"mono"`
	// SampleDir is where voice_file paths are resolved. Empty means the
	// directory of the schedule file.
	SampleDir string `yaml:"sample_dir"`
	LogLevel  string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate:           44100,
		ChunkSeconds:         60,
		InitialBufferSeconds: 600,
		LogLevel:             "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty, or missing while optional is true) and the
// environment.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if !optional || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	c.SampleRate = envInt(lookup, "SAMPLE_RATE", c.SampleRate)
	c.ChunkSeconds = envFloat(lookup, "CHUNK_SECONDS", c.ChunkSeconds)
	c.InitialBufferSeconds = envFloat(lookup, "INITIAL_BUFFER_SECONDS", c.InitialBufferSeconds)
	c.OutputRate = envInt(lookup, "OUTPUT_RATE", c.OutputRate)
	c.Mono = envBool(lookup, "MONO", c.Mono)
	c.SampleDir = envStr(lookup, "SAMPLE_DIR", c.SampleDir)
	c.LogLevel = envStr(lookup, "LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if !(c.ChunkSeconds > 0) {
		errs = append(errs, fmt.Errorf("chunk_seconds must be positive, got %v", c.ChunkSeconds))
	}
	if c.InitialBufferSeconds < 0 {
		errs = append(errs, fmt.Errorf("initial_buffer_seconds must not be negative, got %v", c.InitialBufferSeconds))
	}
	if c.OutputRate < 0 {
		errs = append(errs, fmt.Errorf("output_rate must not be negative, got %d", c.OutputRate))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel accepts debug, info, warn/warning and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func envStr(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(envPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(lookup func(string) (string, bool), key string, fallback int) int {
	if v, ok := lookup(envPrefix + key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(lookup func(string) (string, bool), key string, fallback float64) float64 {
	if v, ok := lookup(envPrefix + key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(lookup func(string) (string, bool), key string, fallback bool) bool {
	if v, ok := lookup(envPrefix + key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
