package chart

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/user/riskboard-go/internal/models"
)

// fakeEngine records every call made by the adapter.
type fakeEngine struct {
	mu         sync.Mutex
	next       Handle
	creates    []models.ChartConfiguration
	setOptions []models.ChartConfiguration
	resizes    int
	disposes   int
	live       map[Handle]bool
	createErr  error
	panicOn    bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{live: make(map[Handle]bool)}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Create(target Target, cfg models.ChartConfiguration) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn {
		panic("boom")
	}
	f.creates = append(f.creates, cfg)
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.next++
	f.live[f.next] = true
	return f.next, nil
}

func (f *fakeEngine) SetOptions(h Handle, cfg models.ChartConfiguration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setOptions = append(f.setOptions, cfg)
	return nil
}

func (f *fakeEngine) Resize(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes++
	return nil
}

func (f *fakeEngine) Dispose(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposes++
	delete(f.live, h)
	return nil
}

type fakeTarget struct {
	id     string
	w, h   int
	frames int
}

func (t *fakeTarget) ID() string { return t.id }
func (t *fakeTarget) Bounds() (int, int) { return t.w, t.h }
func (t *fakeTarget) Present(models.Frame) { t.frames++ }

func barData(values ...float64) models.ChartConfiguration {
	return models.ChartConfiguration{
		Kind:   models.KindBar,
		Series: []models.Series{{Name: "s", Values: values}},
	}
}

func newTestAdapter(engine Engine) (*Adapter, *Viewport, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	vp := NewViewport(1024, 768)
	return NewAdapter(engine, vp, logger), vp, &logs
}

func TestAdapter_Scenario(t *testing.T) {
	engine := newFakeEngine()
	adapter, vp, _ := newTestAdapter(engine)
	target := &fakeTarget{id: "bar", w: 400, h: 300}

	inst := adapter.Attach(target, barData(1, 2))
	if inst == nil {
		t.Fatalf("Attach() returned nil for a ready target")
	}
	if len(engine.creates) != 1 {
		t.Fatalf("create calls = %d, want 1", len(engine.creates))
	}
	if !engine.creates[0].Equal(barData(1, 2)) {
		t.Errorf("create called with %+v", engine.creates[0])
	}
	if vp.Listeners() != 1 {
		t.Errorf("listeners after attach = %d, want 1", vp.Listeners())
	}

	adapter.Update(inst, barData(1, 2, 3))
	if len(engine.setOptions) != 1 {
		t.Errorf("setOptions calls = %d, want 1", len(engine.setOptions))
	}
	if len(engine.creates) != 1 {
		t.Errorf("create calls after update = %d, want 1", len(engine.creates))
	}

	vp.Resize(800, 600)
	if engine.resizes != 1 {
		t.Errorf("resize calls = %d, want 1", engine.resizes)
	}

	adapter.Detach(inst)
	if engine.disposes != 1 {
		t.Errorf("dispose calls = %d, want 1", engine.disposes)
	}
	if vp.Listeners() != 0 {
		t.Errorf("listeners after detach = %d, want 0", vp.Listeners())
	}
	if inst.State() != StateDetached {
		t.Errorf("State() = %v, want detached", inst.State())
	}
}

func TestAdapter_AttachNilTarget(t *testing.T) {
	engine := newFakeEngine()
	adapter, vp, _ := newTestAdapter(engine)

	if inst := adapter.Attach(nil, barData(1)); inst != nil {
		t.Errorf("Attach(nil) = %v, want nil", inst)
	}
	if inst := adapter.Attach(&fakeTarget{id: "hidden"}, barData(1)); inst != nil {
		t.Errorf("Attach(zero-size target) = %v, want nil", inst)
	}
	if len(engine.creates) != 0 {
		t.Errorf("create calls = %d, want 0", len(engine.creates))
	}
	if vp.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", vp.Listeners())
	}
}

func TestAdapter_UpdateUnchangedConfig(t *testing.T) {
	engine := newFakeEngine()
	adapter, _, _ := newTestAdapter(engine)
	inst := adapter.Attach(&fakeTarget{id: "a", w: 10, h: 10}, barData(1, 2))

	adapter.Update(inst, barData(1, 2))
	if len(engine.creates) != 1 {
		t.Errorf("create calls = %d, want 1", len(engine.creates))
	}
	if len(engine.setOptions) != 0 {
		t.Errorf("setOptions calls = %d, want 0 for an equal configuration", len(engine.setOptions))
	}
}

func TestAdapter_DetachIdempotent(t *testing.T) {
	engine := newFakeEngine()
	adapter, vp, _ := newTestAdapter(engine)
	inst := adapter.Attach(&fakeTarget{id: "a", w: 10, h: 10}, barData(1))

	adapter.Detach(inst)
	adapter.Detach(inst)
	adapter.Detach(nil)

	if engine.disposes != 1 {
		t.Errorf("dispose calls = %d, want 1", engine.disposes)
	}
	if vp.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", vp.Listeners())
	}

	// Operations on a detached instance never reach the engine.
	adapter.Update(inst, barData(5))
	vp.Resize(1, 1)
	if len(engine.setOptions) != 0 || engine.resizes != 0 {
		t.Errorf("detached instance reached the engine: setOptions=%d resizes=%d", len(engine.setOptions), engine.resizes)
	}
}

func TestAdapter_CreateFailureIsLogged(t *testing.T) {
	engine := newFakeEngine()
	engine.createErr = errors.New("no such kind")
	adapter, vp, logs := newTestAdapter(engine)

	if inst := adapter.Attach(&fakeTarget{id: "a", w: 10, h: 10}, barData(1)); inst != nil {
		t.Errorf("Attach() = %v, want nil on engine failure", inst)
	}
	if vp.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", vp.Listeners())
	}
	if !strings.Contains(logs.String(), "chart creation failed") {
		t.Errorf("expected a warning in logs, got %q", logs.String())
	}
}

func TestAdapter_TryAttachReturnsEngineError(t *testing.T) {
	engine := newFakeEngine()
	errKind := errors.New("no such kind")
	engine.createErr = errKind
	adapter, _, _ := newTestAdapter(engine)

	inst, err := adapter.TryAttach(&fakeTarget{id: "a", w: 10, h: 10}, barData(1))
	if inst != nil || !errors.Is(err, errKind) {
		t.Errorf("TryAttach() = %v, %v, want nil and the engine error", inst, err)
	}

	engine.createErr = nil
	inst, err = adapter.TryAttach(&fakeTarget{id: "b"}, barData(1))
	if inst != nil || err != nil {
		t.Errorf("TryAttach() on an unlaid target = %v, %v, want nil, nil", inst, err)
	}
}

func TestAdapter_CreatePanicIsRecovered(t *testing.T) {
	engine := newFakeEngine()
	engine.panicOn = true
	adapter, _, logs := newTestAdapter(engine)

	if inst := adapter.Attach(&fakeTarget{id: "a", w: 10, h: 10}, barData(1)); inst != nil {
		t.Errorf("Attach() = %v, want nil on engine panic", inst)
	}
	if !strings.Contains(logs.String(), ErrEnginePanic.Error()) {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
}

func TestAdapter_ReattachReplacesInstance(t *testing.T) {
	engine := newFakeEngine()
	adapter, vp, _ := newTestAdapter(engine)
	target := &fakeTarget{id: "a", w: 10, h: 10}

	first := adapter.Attach(target, barData(1))
	second := adapter.Attach(target, barData(2))

	if first.State() != StateDetached {
		t.Errorf("first instance state = %v, want detached", first.State())
	}
	if second.State() != StateAttached {
		t.Errorf("second instance state = %v, want attached", second.State())
	}
	if engine.disposes != 1 || len(engine.live) != 1 {
		t.Errorf("disposes=%d live=%d, want 1 and 1", engine.disposes, len(engine.live))
	}
	if vp.Listeners() != 1 || adapter.Live() != 1 {
		t.Errorf("listeners=%d live=%d, want 1 and 1", vp.Listeners(), adapter.Live())
	}
}

func TestAdapter_CreateDisposeBalance(t *testing.T) {
	engine := newFakeEngine()
	adapter, vp, _ := newTestAdapter(engine)
	targets := []*fakeTarget{{id: "a", w: 1, h: 1}, {id: "b", w: 1, h: 1}, {id: "c", w: 1, h: 1}}

	for round := 0; round < 5; round++ {
		var insts []*Instance
		for i, tg := range targets {
			inst := adapter.Attach(tg, barData(float64(round)))
			for u := 0; u < i; u++ {
				adapter.Update(inst, barData(float64(round), float64(u)))
			}
			vp.Resize(100+round, 100)
			insts = append(insts, inst)
		}
		if got := len(engine.creates) - engine.disposes; got != len(targets) {
			t.Fatalf("round %d: live instances = %d, want %d", round, got, len(targets))
		}
		for _, inst := range insts {
			adapter.Detach(inst)
		}
		if len(engine.creates) != engine.disposes {
			t.Fatalf("round %d: creates=%d disposes=%d", round, len(engine.creates), engine.disposes)
		}
		if vp.Listeners() != 0 {
			t.Fatalf("round %d: %d listeners left", round, vp.Listeners())
		}
	}
}
