// Package config loads the sheetlink application configuration from
// defaults, an optional YAML file and SHEETLINK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rutishh0/PowerBI/pkg/sheetlink"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
)

const envPrefix = "SHEETLINK_"

// Config holds all application configuration
type Config struct {
	LogLevel        string            `yaml:"log_level"`
	Concurrency     int               `yaml:"concurrency"`
	StreamThreshold int64             `yaml:"stream_threshold"`
	SerialPatterns  []string          `yaml:"serial_patterns"`
	Server          ServerConfig      `yaml:"server"`
	Thresholds      layout.Thresholds `yaml:"thresholds"`
}

// ServerConfig holds the HTTP upload surface configuration
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		Concurrency:     runtime.NumCPU(),
		StreamThreshold: sheetlink.DefaultStreamThreshold,
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 50 << 20,
			ReadTimeout:    60 * time.Second,
		},
		Thresholds: layout.DefaultThresholds(),
	}
}

// LoadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load builds the configuration: defaults, then the YAML file at path (or
// SHEETLINK_CONFIG when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Thresholds = cfg.Thresholds.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Concurrency = getEnvAsInt("CONCURRENCY", c.Concurrency)
	c.StreamThreshold = getEnvAsInt64("STREAM_THRESHOLD", c.StreamThreshold)
	c.Server.Addr = getEnv("ADDR", c.Server.Addr)
	c.Server.MaxUploadBytes = getEnvAsInt64("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)
	c.Server.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", c.Server.ReadTimeout)
	if v := getEnv("SERIAL_PATTERNS", ""); v != "" {
		c.SerialPatterns = splitPatterns(v)
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// ParseOptions returns the parser options for this configuration.
func (c *Config) ParseOptions(logger *slog.Logger) sheetlink.Options {
	opts := sheetlink.DefaultOptions()
	opts.Thresholds = c.Thresholds
	opts.Logger = logger
	opts.Concurrency = c.Concurrency
	opts.StreamThresholdBytes = c.StreamThreshold
	opts.SerialPatterns = c.SerialPatterns
	return opts
}

// splitPatterns splits a ";"-separated pattern list.
func splitPatterns(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(envPrefix + key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
