package flow

import (
	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// Node is the canonical node entity: the normalized form of a caller
// supplied description, carrying both user fields and engine-derived state.
// It is the unified type for all serialization contexts (documents,
// snapshots, API responses).
type Node struct {
	ID       string              `json:"id" bson:"id"`
	Type     string              `json:"type,omitempty" bson:"type,omitempty"`
	Position geometry.XYPosition `json:"position" bson:"position"` // local, relative to parent

	// Derived state, populated by the engine and the measuring layer.
	// Absent fields on an incoming patch never erase these.
	Computed     geometry.XYZPosition `json:"computedPosition" bson:"computedPosition"`
	Dimensions   geometry.Dimensions  `json:"dimensions" bson:"dimensions"`
	HandleBounds HandleBounds         `json:"handleBounds,omitempty" bson:"handleBounds,omitempty"`

	ParentID string `json:"parentId,omitempty" bson:"parentId,omitempty"`

	Selected    bool `json:"selected,omitempty" bson:"selected,omitempty"`
	Dragging    bool `json:"dragging,omitempty" bson:"dragging,omitempty"`
	Resizing    bool `json:"resizing,omitempty" bson:"resizing,omitempty"`
	Initialized bool `json:"initialized,omitempty" bson:"initialized,omitempty"`
	IsParent    bool `json:"isParent,omitempty" bson:"isParent,omitempty"`

	// Tri-state interaction overrides. Nil falls back to the instance-level
	// default; an explicit false always wins over the default.
	Draggable   *bool `json:"draggable,omitempty" bson:"draggable,omitempty"`
	Selectable  *bool `json:"selectable,omitempty" bson:"selectable,omitempty"`
	Connectable *bool `json:"connectable,omitempty" bson:"connectable,omitempty"`
	Focusable   *bool `json:"focusable,omitempty" bson:"focusable,omitempty"`

	Label string         `json:"label,omitempty" bson:"label,omitempty"`
	Data  map[string]any `json:"data,omitempty" bson:"data,omitempty"`

	// Events is an externally supplied handler bag. The engine treats it as
	// an opaque, behaviorally immutable reference and never serializes it.
	Events map[string]any `json:"-" bson:"-"`
}

// Rect returns the node's rectangle from computed position and dimensions.
// Unresolved position and unmeasured dimensions both default to zero.
func (n *Node) Rect() geometry.Rect {
	return geometry.Rect{
		X:      n.Computed.X,
		Y:      n.Computed.Y,
		Width:  n.Dimensions.Width,
		Height: n.Dimensions.Height,
	}
}

// Measured reports whether the node's dimensions are known. A node with a
// zero width or height has not been measured by the render layer yet.
func (n *Node) Measured() bool {
	return n.Dimensions.Width > 0 && n.Dimensions.Height > 0
}

// CanSelect reports whether selection is permitted for this node. Only an
// explicit false override rules a node out; nil defers to the instance
// default, which geometry-level selection treats as permitted.
func (n *Node) CanSelect() bool {
	return n.Selectable == nil || *n.Selectable
}

// Handle is a named anchor point on a node where edges may attach, with its
// measured bounds relative to the node.
type Handle struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// HandleBounds groups a node's measured handles by role. It is populated by
// the render layer once handles are measured.
type HandleBounds struct {
	Source []Handle `json:"source,omitempty" bson:"source,omitempty"`
	Target []Handle `json:"target,omitempty" bson:"target,omitempty"`
}

// Edge is the canonical edge entity.
type Edge struct {
	ID           string `json:"id" bson:"id"`
	Type         string `json:"type,omitempty" bson:"type,omitempty"`
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" bson:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" bson:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty" bson:"label,omitempty"`

	Selected bool `json:"selected,omitempty" bson:"selected,omitempty"`

	// Tri-state overrides falling back to instance-level edge defaults.
	Updatable  *bool `json:"updatable,omitempty" bson:"updatable,omitempty"`
	Selectable *bool `json:"selectable,omitempty" bson:"selectable,omitempty"`
	Focusable  *bool `json:"focusable,omitempty" bson:"focusable,omitempty"`

	// InteractionWidth is the invisible hit-area width around the edge path.
	InteractionWidth float64 `json:"interactionWidth,omitempty" bson:"interactionWidth,omitempty"`

	MarkerStart *EdgeMarker `json:"markerStart,omitempty" bson:"markerStart,omitempty"`
	MarkerEnd   *EdgeMarker `json:"markerEnd,omitempty" bson:"markerEnd,omitempty"`

	Data map[string]any `json:"data,omitempty" bson:"data,omitempty"`

	// Events is an externally supplied handler bag, opaque to the engine.
	Events map[string]any `json:"-" bson:"-"`
}

// Connection is the (source, target, sourceHandle, targetHandle) tuple
// identifying a potential or actual edge. Empty handle strings mean the
// handle is absent.
type Connection struct {
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" bson:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" bson:"targetHandle,omitempty"`
}

// Connection returns the edge's identifying tuple.
func (e *Edge) Connection() Connection {
	return Connection{
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
}

// EdgeMarker describes an edge endpoint decoration. When ID is set it
// refers to an externally defined marker and all other fields are ignored.
type EdgeMarker struct {
	ID          string  `json:"id,omitempty" bson:"id,omitempty"`
	Type        string  `json:"type,omitempty" bson:"type,omitempty"`
	Color       string  `json:"color,omitempty" bson:"color,omitempty"`
	Width       float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height      float64 `json:"height,omitempty" bson:"height,omitempty"`
	MarkerUnits string  `json:"markerUnits,omitempty" bson:"markerUnits,omitempty"`
	Orient      string  `json:"orient,omitempty" bson:"orient,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" bson:"strokeWidth,omitempty"`
}

// DefaultEdgeOptions are instance-level defaults overlaid onto new edges
// before the caller's own fields are applied.
type DefaultEdgeOptions struct {
	Type             string  `json:"type,omitempty" bson:"type,omitempty"`
	Updatable        *bool   `json:"updatable,omitempty" bson:"updatable,omitempty"`
	Selectable       *bool   `json:"selectable,omitempty" bson:"selectable,omitempty"`
	Focusable        *bool   `json:"focusable,omitempty" bson:"focusable,omitempty"`
	InteractionWidth float64 `json:"interactionWidth,omitempty" bson:"interactionWidth,omitempty"`
}
