package config

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riskboard.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Render.Engine != "gonum" || cfg.Listen.Addr() != "127.0.0.1:8080" || cfg.Report.Format != "html" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Data.Seed != 0 {
		t.Errorf("default seed = %d, want 0", cfg.Data.Seed)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
listen:
  port: 9000
render:
  engine: gochart
  width: 640
data:
  seed: 42
report:
  format: xlsx
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen.Port != 9000 || cfg.Render.Engine != "gochart" || cfg.Render.Width != 640 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Render.Height != 800 {
		t.Errorf("Height = %d, want default 800", cfg.Render.Height)
	}
	if cfg.Data.Seed != 42 || cfg.Report.Format != "xlsx" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"engine", "render:\n  engine: echarts\n", ErrInvalidEngine},
		{"format", "report:\n  format: pdf\n", ErrInvalidFormat},
		{"size", "render:\n  width: -1\n", ErrInvalidSize},
		{"oversize", "render:\n  height: 5000\n", ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(writeConfig(t, "log_level: loud\n")); err == nil {
		t.Errorf("Load() with bad log level expected an error")
	}
	if _, err := Load(writeConfig(t, "render: [")); err == nil {
		t.Errorf("Load() with broken YAML expected an error")
	}
}

func TestFindConfig(t *testing.T) {
	path := writeConfig(t, "")
	got, err := FindConfig(path)
	if err != nil || got != path {
		t.Errorf("FindConfig(%s) = %q, %v", path, got, err)
	}
	if _, err := FindConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("FindConfig(missing) expected an error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"TRACE":   LevelTrace,
		" debug ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestNewLogger_TraceName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "frame painted")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace level not renamed: %q", buf.String())
	}
}
