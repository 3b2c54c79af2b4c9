package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/user/riskboard-go/internal/models"
)

// ErrEnginePanic wraps a panic raised by an Engine while creating a chart.
var ErrEnginePanic = errors.New("render engine panicked")

// State is the lifecycle state of an Instance.
type State int

const (
	StateAttached State = iota + 1
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	default:
		return "unmounted"
	}
}

// Adapter bridges chart configurations to live engine instances for one
// viewport. At most one live Instance exists per target ID.
type Adapter struct {
	engine   Engine
	viewport *Viewport
	logger   *slog.Logger

	attachMu sync.Mutex // serializes Attach so replacement of a target's instance is atomic
	mu       sync.Mutex
	live     map[string]*Instance
}

// NewAdapter creates an Adapter drawing with engine and listening to viewport.
// A nil logger means slog.Default().
func NewAdapter(engine Engine, viewport *Viewport, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		engine:   engine,
		viewport: viewport,
		logger:   logger.With("engine", engine.Name()),
		live:     make(map[string]*Instance),
	}
}

// Instance is a live chart bound to one target. It is owned by the caller
// of Attach and must be released with Detach.
type Instance struct {
	mu      sync.Mutex
	id      string
	adapter *Adapter
	target  Target
	handle  Handle
	config  models.ChartConfiguration
	sub     *Subscription
	state   State
}

// ID returns the instance id.
func (i *Instance) ID() string { return i.id }

// Target returns the surface the instance is bound to.
func (i *Instance) Target() Target { return i.target }

// State returns the current lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Config returns the last configuration applied to the engine.
func (i *Instance) Config() models.ChartConfiguration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.config.Clone()
}

// Attach creates a chart instance on target and applies cfg. It returns nil
// without touching the engine when the target is not ready. Engine failures
// are logged and also yield nil; no resize listener is registered then.
// An instance already live on the same target is detached first.
func (a *Adapter) Attach(target Target, cfg models.ChartConfiguration) *Instance {
	inst, _ := a.TryAttach(target, cfg)
	return inst
}

// TryAttach is Attach that also returns the engine error, so callers can
// tell permanent failures from a target that is not laid out yet. Both
// yield a nil instance; only the former carries an error.
func (a *Adapter) TryAttach(target Target, cfg models.ChartConfiguration) (*Instance, error) {
	if !Ready(target) {
		a.logger.Debug("chart target not ready, skipping attach")
		return nil, nil
	}

	a.attachMu.Lock()
	defer a.attachMu.Unlock()

	if prev := a.lookup(target.ID()); prev != nil {
		a.Detach(prev)
	}

	h, err := a.create(target, cfg)
	if err != nil {
		a.logger.Warn("chart creation failed",
			"chart", target.ID(),
			"kind", cfg.Kind,
			"error", err)
		return nil, err
	}

	inst := &Instance{
		id:      uuid.NewString(),
		adapter: a,
		target:  target,
		handle:  h,
		config:  cfg.Clone(),
		state:   StateAttached,
	}
	inst.sub = a.viewport.Subscribe(func(int, int) { a.resize(inst) })

	a.mu.Lock()
	a.live[target.ID()] = inst
	a.mu.Unlock()

	a.logger.Debug("chart attached", "chart", target.ID(), "instance", inst.id, "kind", cfg.Kind)
	return inst, nil
}

// Update applies cfg to a live instance without recreating it. Nil and
// detached instances are ignored, as is a configuration equal to the one
// already applied.
func (a *Adapter) Update(inst *Instance, cfg models.ChartConfiguration) {
	if inst == nil {
		return
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.state != StateAttached || inst.config.Equal(cfg) {
		return
	}
	if err := a.engine.SetOptions(inst.handle, cfg); err != nil {
		a.logger.Warn("chart update failed",
			"chart", inst.target.ID(),
			"instance", inst.id,
			"kind", cfg.Kind,
			"error", err)
		return
	}
	inst.config = cfg.Clone()
}

// Detach disposes the instance and cancels its resize subscription.
// It is safe to call on nil and on an already detached instance.
func (a *Adapter) Detach(inst *Instance) {
	if inst == nil {
		return
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.state != StateAttached {
		return
	}
	inst.state = StateDetached
	inst.sub.Cancel()

	if err := a.engine.Dispose(inst.handle); err != nil {
		a.logger.Warn("chart dispose failed", "chart", inst.target.ID(), "instance", inst.id, "error", err)
	}

	a.mu.Lock()
	if a.live[inst.target.ID()] == inst {
		delete(a.live, inst.target.ID())
	}
	a.mu.Unlock()

	a.logger.Debug("chart detached", "chart", inst.target.ID(), "instance", inst.id)
}

// Live returns the number of attached instances.
func (a *Adapter) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

func (a *Adapter) lookup(targetID string) *Instance {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live[targetID]
}

func (a *Adapter) resize(inst *Instance) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.state != StateAttached {
		return
	}
	if err := a.engine.Resize(inst.handle); err != nil {
		a.logger.Warn("chart resize failed", "chart", inst.target.ID(), "instance", inst.id, "error", err)
	}
}

func (a *Adapter) create(target Target, cfg models.ChartConfiguration) (h Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
	}()
	return a.engine.Create(target, cfg)
}
