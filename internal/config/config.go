// Package config handles riskboard configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidEngine is returned by Validate for an unknown render engine.
	ErrInvalidEngine = errors.New("invalid render engine")
	// ErrInvalidFormat is returned by Validate for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format")
	// ErrInvalidSize is returned by Validate for a viewport size outside
	// 0..MaxViewportSide.
	ErrInvalidSize = errors.New("invalid viewport size")
)

// MaxViewportSide bounds the configured viewport in pixels.
const MaxViewportSide = 4096

// Engines and report formats accepted in configuration.
var (
	Engines       = []string{"gonum", "gochart"}
	ReportFormats = []string{"html", "json", "xlsx"}
)

// DefaultSearchPaths returns the config file search order:
// ./riskboard.yaml, ~/.config/riskboard/config.yaml, /etc/riskboard/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"riskboard.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "riskboard", "config.yaml"))
	}

	paths = append(paths, "/etc/riskboard/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise the first existing file of DefaultSearchPaths is returned, or ""
// when there is none; running without a config file is allowed.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Config holds all riskboard configuration.
type Config struct {
	Listen   ListenConfig `yaml:"listen"`
	Render   RenderConfig `yaml:"render"`
	Data     DataConfig   `yaml:"data"`
	Report   ReportConfig `yaml:"report"`
	LogLevel string       `yaml:"log_level"`
}

// ListenConfig defines where `riskboard serve` listens.
type ListenConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// Addr returns host:port.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Address, l.Port)
}

// RenderConfig selects the chart engine and the default viewport.
type RenderConfig struct {
	// Engine is "gonum" (default) or "gochart".
	Engine string `yaml:"engine"`
	// Width and Height of the viewport used for rendered reports.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DataConfig controls sample data generation.
type DataConfig struct {
	// Seed makes the sample data repeatable. 0 draws new numbers on every render.
	Seed uint64 `yaml:"seed"`
}

// ReportConfig defines report output defaults.
type ReportConfig struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file. An empty path yields Default().
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen.Address == "" {
		c.Listen.Address = "127.0.0.1"
	}
	if c.Listen.Port == 0 {
		c.Listen.Port = 8080
	}
	if c.Render.Engine == "" {
		c.Render.Engine = "gonum"
	}
	if c.Render.Width == 0 {
		c.Render.Width = 1280
	}
	if c.Render.Height == 0 {
		c.Render.Height = 800
	}
	if c.Report.Format == "" {
		c.Report.Format = "html"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if !contains(Engines, c.Render.Engine) {
		return fmt.Errorf("%w %q (valid: %s)", ErrInvalidEngine, c.Render.Engine, strings.Join(Engines, ", "))
	}
	if !contains(ReportFormats, c.Report.Format) {
		return fmt.Errorf("%w %q (valid: %s)", ErrInvalidFormat, c.Report.Format, strings.Join(ReportFormats, ", "))
	}
	if c.Render.Width < 0 || c.Render.Height < 0 ||
		c.Render.Width > MaxViewportSide || c.Render.Height > MaxViewportSide {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Render.Width, c.Render.Height)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
