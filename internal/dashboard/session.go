package dashboard

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/riskboard-go/internal/catalog"
	"github.com/user/riskboard-go/internal/chart"
	"github.com/user/riskboard-go/internal/models"
	"github.com/user/riskboard-go/internal/render"
	"github.com/user/riskboard-go/internal/sample"
)

// ErrNoEngine is returned by Mount when Options.Engine is nil.
var ErrNoEngine = errors.New("no render engine configured")

// Options configure a mounted session.
type Options struct {
	Engine chart.Engine
	// Seed for sample data; 0 draws new numbers on every render.
	Seed uint64
	// Initial viewport size. Zero width mounts the page without laying it
	// out: charts attach on the first Resize.
	Width  int
	Height int
	Logger *slog.Logger
	// OnFrame, if set, receives every frame drawn by any chart of the page.
	OnFrame FrameFunc
}

type mount struct {
	component catalog.Component
	slot      *Slot
	inst      *chart.Instance
	// unsupported is set once the engine refuses the chart kind; the
	// chart is not attached again for the life of the session.
	unsupported bool
}

// Session is one mounted page: its viewport, its chart instances and the
// sample data currently shown.
type Session struct {
	id       string
	page     Page
	engine   chart.Engine
	viewport *chart.Viewport
	adapter  *chart.Adapter
	gen      *sample.Generator
	logger   *slog.Logger

	mu      sync.Mutex
	mounted bool
	ds      catalog.Dataset
	stats   []models.StatCard
	mounts  []*mount
}

// Mount lays out page and attaches every chart.
func Mount(page Page, opts Options) (*Session, error) {
	if opts.Engine == nil {
		return nil, ErrNoEngine
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	logger = logger.With("page", page.Name, "session", id)

	viewport := chart.NewViewport(opts.Width, opts.Height)
	s := &Session{
		id:       id,
		page:     page,
		engine:   opts.Engine,
		viewport: viewport,
		adapter:  chart.NewAdapter(opts.Engine, viewport, logger),
		gen:      sample.New(opts.Seed),
		logger:   logger,
		mounted:  true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = catalog.NewDataset(s.gen)
	s.stats = page.Stats(s.ds)
	for _, c := range page.Charts {
		m := &mount{component: c, slot: NewSlot(c.Name, viewport, opts.OnFrame)}
		s.attach(m)
		s.mounts = append(s.mounts, m)
	}
	logger.Info("page mounted", "charts", len(s.mounts), "live", s.adapter.Live(), "seed", s.gen.Seed())
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Page returns the mounted page.
func (s *Session) Page() Page { return s.page }

// Refresh draws new sample data and pushes the changed configurations to
// the live charts. Charts without an instance are attached again.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.ds = catalog.NewDataset(s.gen)
	s.stats = s.page.Stats(s.ds)
	for _, m := range s.mounts {
		if m.inst == nil {
			s.attach(m)
			continue
		}
		s.adapter.Update(m.inst, m.component.Config(s.ds))
	}
}

// Resize changes the viewport size. Live charts repaint through their
// resize subscriptions; charts whose slot was not laid out yet attach now.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.viewport.Resize(width, height)
	for _, m := range s.mounts {
		if m.inst == nil && chart.Ready(m.slot) {
			s.attach(m)
		}
	}
}

// attach creates the chart instance of m unless the engine already refused
// its kind. Called with s.mu held.
func (s *Session) attach(m *mount) {
	if m.unsupported {
		return
	}
	inst, err := s.adapter.TryAttach(m.slot, m.component.Config(s.ds))
	if errors.Is(err, render.ErrUnsupportedKind) {
		m.unsupported = true
		s.logger.Info("chart kind not supported by engine, leaving slot empty", "chart", m.component.Name, "kind", m.component.Kind)
	}
	m.inst = inst
}

// Unsupported returns the charts the engine cannot draw.
func (s *Session) Unsupported() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, m := range s.mounts {
		if m.unsupported {
			names = append(names, m.component.Name)
		}
	}
	return names
}

// Stats returns the summary widgets for the current data.
func (s *Session) Stats() []models.StatCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.StatCard(nil), s.stats...)
}

// Snapshot captures the page, its widgets and each chart's latest frame.
func (s *Session) Snapshot() models.PageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := models.PageSnapshot{
		Name:        s.page.Name,
		Title:       s.page.Title,
		Subtitle:    s.page.Subtitle,
		Engine:      s.engine.Name(),
		GeneratedAt: time.Now().UTC(),
		Seed:        s.gen.Seed(),
		Stats:       append([]models.StatCard(nil), s.stats...),
	}
	for _, m := range s.mounts {
		cs := models.ChartSnapshot{
			Name:   m.component.Name,
			Title:  m.component.Title,
			Config: m.component.Config(s.ds),
		}
		if m.inst != nil {
			cs.Config = m.inst.Config()
		}
		cs.Frame = m.slot.Frame()
		snap.Charts = append(snap.Charts, cs)
	}
	return snap
}

// Live returns the number of attached chart instances.
func (s *Session) Live() int { return s.adapter.Live() }

// Listeners returns the number of resize subscriptions on the viewport.
func (s *Session) Listeners() int { return s.viewport.Listeners() }

// Unmount detaches every chart. Calling it again is a no-op.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.mounted = false
	for _, m := range s.mounts {
		s.adapter.Detach(m.inst)
		m.inst = nil
	}
	s.logger.Info("page unmounted", "live", s.adapter.Live(), "listeners", s.viewport.Listeners())
}
