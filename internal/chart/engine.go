// Package chart binds declarative chart configurations to live chart
// instances rendered by an Engine, across the mount, update, resize and
// unmount lifecycle of a dashboard page.
package chart

import "github.com/user/riskboard-go/internal/models"

// Handle identifies a chart surface owned by an Engine.
type Handle uint64

// Engine is the rendering capability the Adapter drives. Given a
// configuration it renders a chart into a Target and supports resize and
// dispose. Implementations live in the render package.
type Engine interface {
	Name() string
	Create(target Target, cfg models.ChartConfiguration) (Handle, error)
	SetOptions(h Handle, cfg models.ChartConfiguration) error
	Resize(h Handle) error
	Dispose(h Handle) error
}

// Target is the rectangular surface a chart instance renders into. Its
// lifetime belongs to the host, not to the Adapter.
type Target interface {
	// ID is unique among the targets of one host.
	ID() string
	// Bounds returns the current size in pixels. A non-positive size means
	// the surface is not laid out yet.
	Bounds() (width, height int)
	// Present receives every frame rendered for the target.
	Present(frame models.Frame)
}

// Ready reports whether t can host a chart instance.
func Ready(t Target) bool {
	if t == nil {
		return false
	}
	w, h := t.Bounds()
	return w > 0 && h > 0
}
