package store

import (
	"github.com/charmbracelet/log"

	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// Default viewport limits and grid, applied when the corresponding option
// is left at its zero value.
const (
	DefaultMinZoom  = 0.5
	DefaultMaxZoom  = 2.0
	DefaultSnapCell = 15.0
)

// Options is the recognized configuration record for a store instance.
// The zero value is usable; withDefaults fills the gaps.
type Options struct {
	// ID is the instance identifier. Empty means the registry assigns an
	// auto-generated one.
	ID string

	// Nodes and Edges preload the instance at creation time.
	Nodes []flow.NodePatch
	Edges []flow.EdgePatch

	// DefaultEdgeOptions are overlaid onto every new edge before the
	// caller's own fields.
	DefaultEdgeOptions flow.DefaultEdgeOptions

	// MinZoom and MaxZoom clamp the viewport transform.
	MinZoom float64
	MaxZoom float64

	// SnapToGrid enables grid snapping when projecting pointer positions
	// into graph space; SnapGrid is the cell size.
	SnapToGrid bool
	SnapGrid   geometry.SnapGrid

	// ApplyDefault wires the default change-application handlers to the
	// node/edge change hooks. See Store.SetApplyDefault.
	ApplyDefault bool

	// Logger receives warnings and debug output. Nil means a stderr logger.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.MinZoom == 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.SnapGrid == (geometry.SnapGrid{}) {
		o.SnapGrid = geometry.SnapGrid{X: DefaultSnapCell, Y: DefaultSnapCell}
	}
	return o
}
