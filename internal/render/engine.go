// Package render provides the chart engines that turn a chart
// configuration into PNG frames. Engine keeps the per-handle surface
// state; a Painter does the drawing.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/riskboard-go/internal/chart"
	"github.com/user/riskboard-go/internal/config"
	"github.com/user/riskboard-go/internal/models"
)

var (
	// ErrUnknownHandle is returned for handles that were never created or already disposed.
	ErrUnknownHandle = errors.New("unknown chart handle")
	// ErrUnsupportedKind is returned by painters that cannot draw a chart kind.
	ErrUnsupportedKind = errors.New("unsupported chart kind")
	// ErrNoData is returned when a configuration has nothing to draw.
	ErrNoData = errors.New("no data to plot")
)

// Painter draws one frame of a configuration at the given pixel size.
type Painter interface {
	Name() string
	Paint(cfg models.ChartConfiguration, width, height int) (models.Frame, error)
}

type surface struct {
	target chart.Target
	config models.ChartConfiguration
}

// Engine implements chart.Engine on top of a Painter.
type Engine struct {
	painter Painter
	logger  *slog.Logger

	mu       sync.Mutex
	next     chart.Handle
	surfaces map[chart.Handle]*surface
}

// NewEngine wraps painter into a chart.Engine.
func NewEngine(painter Painter) *Engine {
	return &Engine{
		painter:  painter,
		surfaces: make(map[chart.Handle]*surface),
	}
}

// SetLogger sets the logger for per-frame trace output. Without one the
// default logger is used.
func (e *Engine) SetLogger(logger *slog.Logger) { e.logger = logger }

// Name returns the painter name.
func (e *Engine) Name() string { return e.painter.Name() }

// Create validates cfg, paints the first frame into target and returns its handle.
func (e *Engine) Create(target chart.Target, cfg models.ChartConfiguration) (chart.Handle, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	s := &surface{target: target, config: cfg.Clone()}
	if err := e.paint(s); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.surfaces[e.next] = s
	return e.next, nil
}

// SetOptions replaces the configuration of h and repaints.
func (e *Engine) SetOptions(h chart.Handle, cfg models.ChartConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s, err := e.lookup(h)
	if err != nil {
		return err
	}
	next := &surface{target: s.target, config: cfg.Clone()}
	if err := e.paint(next); err != nil {
		return err
	}
	e.mu.Lock()
	if _, ok := e.surfaces[h]; ok {
		e.surfaces[h] = next
	}
	e.mu.Unlock()
	return nil
}

// Resize repaints h at its target's current bounds.
func (e *Engine) Resize(h chart.Handle) error {
	s, err := e.lookup(h)
	if err != nil {
		return err
	}
	return e.paint(s)
}

// Dispose releases h. Disposing twice returns ErrUnknownHandle.
func (e *Engine) Dispose(h chart.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.surfaces[h]; !ok {
		return fmt.Errorf("dispose %d: %w", h, ErrUnknownHandle)
	}
	delete(e.surfaces, h)
	return nil
}

// Live returns the number of surfaces not yet disposed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.surfaces)
}

func (e *Engine) lookup(h chart.Handle) (*surface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.surfaces[h]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	return s, nil
}

func (e *Engine) paint(s *surface) error {
	w, h := s.target.Bounds()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("target %s has no area (%dx%d)", s.target.ID(), w, h)
	}
	start := time.Now()
	frame, err := e.painter.Paint(s.config, w, h)
	if err != nil {
		return fmt.Errorf("failed to paint %s chart for %s: %w", s.config.Kind, s.target.ID(), err)
	}
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), config.LevelTrace, "frame painted",
		"chart", s.target.ID(),
		"kind", s.config.Kind,
		"width", frame.Width,
		"height", frame.Height,
		"bytes", len(frame.Data),
		"elapsed", time.Since(start))
	s.target.Present(frame)
	return nil
}

// New returns the engine registered under name ("gonum" or "gochart").
func New(name string) (*Engine, error) {
	switch name {
	case "", GonumName:
		return NewEngine(NewGonumPainter()), nil
	case GoChartName:
		return NewEngine(NewGoChartPainter()), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q (valid: %s, %s)", name, GonumName, GoChartName)
	}
}

// Names lists the available engines.
func Names() []string {
	return []string{GonumName, GoChartName}
}
