package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes how a stream deployment resolves files, links and icons.
type Config struct {
	BaseURL  string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	DataDir  string        `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	Locale   string        `json:"locale,omitempty" yaml:"locale,omitempty"`
	Database string        `json:"database,omitempty" yaml:"database,omitempty"`
	Listen   string        `json:"listen,omitempty" yaml:"listen,omitempty"`
	Icons    IconConfig    `json:"icons" yaml:"icons"`
	Preview  PreviewConfig `json:"preview" yaml:"preview"`
	Stream   StreamConfig  `json:"stream" yaml:"stream"`
	Log      LogConfig     `json:"log" yaml:"log"`
	Source   string        `json:"-" yaml:"-"`
}

// IconConfig controls file-type icon lookup.
type IconConfig struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// PreviewConfig lists MIME patterns the preview endpoint supports.
type PreviewConfig struct {
	MimeTypes []string `json:"mime_types,omitempty" yaml:"mime_types,omitempty"`
}

// StreamConfig tunes stream pages.
type StreamConfig struct {
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML config from disk.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("stream: open config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("stream: decode config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// DecodeConfig reads a config from any reader. An empty document yields the defaults.
func DecodeConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("stream: parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the config values are usable.
func (cfg *Config) Validate() error {
	if cfg.Stream.Limit < 0 {
		return fmt.Errorf("stream: stream.limit must be positive, got %d", cfg.Stream.Limit)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("stream: unsupported log.level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("stream: unsupported log.format %q", cfg.Log.Format)
	}
	if _, err := NewGlobPreviewCapability(cfg.Preview.MimeTypes...); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Icons.Prefix == "" {
		cfg.Icons.Prefix = DefaultIconPrefix
	}
	if len(cfg.Preview.MimeTypes) == 0 {
		cfg.Preview.MimeTypes = append([]string{}, DefaultPreviewMimeTypes...)
	}
	if cfg.Stream.Limit == 0 {
		cfg.Stream.Limit = DefaultStreamLimit
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Database == "" {
		cfg.Database = "activity.db"
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
