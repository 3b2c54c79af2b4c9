package dashboard

import (
	"sync"

	"github.com/user/riskboard-go/internal/chart"
	"github.com/user/riskboard-go/internal/models"
)

// Responsive layout of a chart slot: full width, 256px tall on narrow
// viewports and 384px from the medium breakpoint up.
const (
	mediumBreakpoint = 768
	narrowHeight     = 256
	wideHeight       = 384
	minSlotWidth     = 320
)

// MaxViewportWidth is the widest viewport a slot lays out for.
const MaxViewportWidth = 4096

// SlotSize returns the chart size for a viewport width. A non-positive
// width means the page is not laid out yet. Widths above MaxViewportWidth
// are treated as MaxViewportWidth.
func SlotSize(viewportWidth int) (int, int) {
	if viewportWidth <= 0 {
		return 0, 0
	}
	viewportWidth = min(viewportWidth, MaxViewportWidth)
	w := int(float64(viewportWidth)*0.95) - 12
	if w < minSlotWidth {
		w = minSlotWidth
	}
	if viewportWidth < mediumBreakpoint {
		return w, narrowHeight
	}
	return w, wideHeight
}

// FrameFunc is called with every frame a slot receives.
type FrameFunc func(chart string, frame models.Frame)

// Slot is the mount target of one chart on a page. Its size follows the
// page viewport.
type Slot struct {
	name     string
	viewport *chart.Viewport
	onFrame  FrameFunc

	mu    sync.Mutex
	frame *models.Frame
}

// NewSlot creates a slot for chart name.
func NewSlot(name string, viewport *chart.Viewport, onFrame FrameFunc) *Slot {
	return &Slot{name: name, viewport: viewport, onFrame: onFrame}
}

// ID implements chart.Target.
func (s *Slot) ID() string { return s.name }

// Bounds implements chart.Target.
func (s *Slot) Bounds() (int, int) {
	w, _ := s.viewport.Size()
	return SlotSize(w)
}

// Present implements chart.Target.
func (s *Slot) Present(frame models.Frame) {
	s.mu.Lock()
	f := frame
	s.frame = &f
	s.mu.Unlock()

	if s.onFrame != nil {
		s.onFrame(s.name, frame)
	}
}

// Frame returns the latest frame, or nil if nothing was drawn yet.
func (s *Slot) Frame() *models.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil
	}
	f := *s.frame
	return &f
}
