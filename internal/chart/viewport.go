package chart

import "sync"

// ResizeFunc is invoked with the new viewport size.
type ResizeFunc func(width, height int)

// Viewport is the resize listener registry of one mounted page. Each
// Subscription is owned by whoever called Subscribe and must be cancelled
// by its owner.
type Viewport struct {
	mu        sync.RWMutex
	width     int
	height    int
	nextID    uint64
	listeners map[uint64]ResizeFunc
}

// NewViewport creates a viewport with an initial size.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:     width,
		height:    height,
		listeners: make(map[uint64]ResizeFunc),
	}
}

// Size returns the current viewport size.
func (v *Viewport) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Subscribe registers fn for resize events.
func (v *Viewport) Subscribe(fn ResizeFunc) *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	id := v.nextID
	v.listeners[id] = fn
	return &Subscription{viewport: v, id: id}
}

// Resize records the new size and calls every listener registered at the
// time of the call. Listeners run on the caller's goroutine and may cancel
// their own subscription.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	fns := make([]ResizeFunc, 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Listeners returns the number of live subscriptions.
func (v *Viewport) Listeners() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.listeners)
}

func (v *Viewport) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.listeners, id)
}

// Subscription is one resize listener registration.
type Subscription struct {
	once     sync.Once
	viewport *Viewport
	id       uint64
}

// Cancel removes the listener. Calling it more than once is a no-op, as is
// calling it on a nil Subscription.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.viewport.remove(s.id)
	})
}
