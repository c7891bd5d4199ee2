package flow

import (
	"fmt"
	"strconv"

	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// NodePatch is a caller-supplied partial node description. Every field is
// optional; nil fields leave the corresponding entity field untouched.
// Patches are the only way raw input enters the engine, so the merge
// precedence lives in exactly one place: patch > previous state > defaults.
type NodePatch struct {
	// ID may be supplied as any primitive; it is normalized to string form.
	ID          any                  `json:"id,omitempty"`
	Type        *string              `json:"type,omitempty"`
	Position    *geometry.XYPosition `json:"position,omitempty"`
	Parent      *string              `json:"parentId,omitempty"`
	Label       *string              `json:"label,omitempty"`
	Selected    *bool                `json:"selected,omitempty"`
	Draggable   *bool                `json:"draggable,omitempty"`
	Selectable  *bool                `json:"selectable,omitempty"`
	Connectable *bool                `json:"connectable,omitempty"`
	Focusable   *bool                `json:"focusable,omitempty"`
	Data        map[string]any       `json:"data,omitempty"`
	Events      map[string]any       `json:"-"`
}

// EdgePatch is a caller-supplied partial edge description.
type EdgePatch struct {
	ID               any            `json:"id,omitempty"`
	Type             *string        `json:"type,omitempty"`
	Source           string         `json:"source,omitempty"`
	Target           string         `json:"target,omitempty"`
	SourceHandle     *string        `json:"sourceHandle,omitempty"`
	TargetHandle     *string        `json:"targetHandle,omitempty"`
	Label            *string        `json:"label,omitempty"`
	Selected         *bool          `json:"selected,omitempty"`
	Updatable        *bool          `json:"updatable,omitempty"`
	Selectable       *bool          `json:"selectable,omitempty"`
	Focusable        *bool          `json:"focusable,omitempty"`
	InteractionWidth *float64       `json:"interactionWidth,omitempty"`
	MarkerStart      *EdgeMarker    `json:"markerStart,omitempty"`
	MarkerEnd        *EdgeMarker    `json:"markerEnd,omitempty"`
	Data             map[string]any `json:"data,omitempty"`
	Events           map[string]any `json:"-"`
}

// NormalizeID forces an identifier supplied as any primitive into string
// form. Integers and floats keep their shortest decimal form; nil yields
// the empty string.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

// ParseNode normalizes a raw node description into a canonical entity.
// For a new node the base is a default-valued entity; for an update it is
// the previously stored entity. Fields present on the patch always win,
// while absent fields preserve previously derived state (dimensions,
// handle bounds, computed position). The resolved parent identifier is
// attached last; an empty parentID keeps the base's parent.
func ParseNode(patch NodePatch, existing *Node, parentID string) Node {
	var node Node
	if existing != nil {
		node = *existing
	}

	mergeNodePatch(&node, patch)

	node.ID = pickID(patch.ID, node.ID)
	if parentID != "" {
		node.ParentID = parentID
	}
	return node
}

// ParseEdge normalizes a raw edge description. The overlay order is:
// instance defaults first (new edges only), then the previous entity's
// fields, then every field explicitly present on the patch.
func ParseEdge(patch EdgePatch, existing *Edge, defaults DefaultEdgeOptions) Edge {
	var edge Edge
	if existing != nil {
		edge = *existing
	} else {
		edge = Edge{
			Type:             defaults.Type,
			Updatable:        defaults.Updatable,
			Selectable:       defaults.Selectable,
			Focusable:        defaults.Focusable,
			InteractionWidth: defaults.InteractionWidth,
		}
	}

	mergeEdgePatch(&edge, patch)

	edge.ID = pickID(patch.ID, edge.ID)
	return edge
}

// mergeNodePatch applies every set field of the patch onto the node. This
// is the single named precedence function for nodes: it never clears a
// field the patch does not mention.
func mergeNodePatch(node *Node, patch NodePatch) {
	node.Type = overrideString(node.Type, patch.Type)
	node.Label = overrideString(node.Label, patch.Label)
	if patch.Position != nil {
		node.Position = *patch.Position
	}
	if patch.Parent != nil {
		node.ParentID = *patch.Parent
	}
	if patch.Selected != nil {
		node.Selected = *patch.Selected
	}
	node.Draggable = overrideBool(node.Draggable, patch.Draggable)
	node.Selectable = overrideBool(node.Selectable, patch.Selectable)
	node.Connectable = overrideBool(node.Connectable, patch.Connectable)
	node.Focusable = overrideBool(node.Focusable, patch.Focusable)
	if patch.Data != nil {
		node.Data = patch.Data
	}
	if patch.Events != nil {
		node.Events = patch.Events
	}
}

// mergeEdgePatch is the single named precedence function for edges.
func mergeEdgePatch(edge *Edge, patch EdgePatch) {
	edge.Type = overrideString(edge.Type, patch.Type)
	edge.Label = overrideString(edge.Label, patch.Label)
	if patch.Source != "" {
		edge.Source = patch.Source
	}
	if patch.Target != "" {
		edge.Target = patch.Target
	}
	if patch.SourceHandle != nil {
		edge.SourceHandle = *patch.SourceHandle
	}
	if patch.TargetHandle != nil {
		edge.TargetHandle = *patch.TargetHandle
	}
	if patch.Selected != nil {
		edge.Selected = *patch.Selected
	}
	edge.Updatable = overrideBool(edge.Updatable, patch.Updatable)
	edge.Selectable = overrideBool(edge.Selectable, patch.Selectable)
	edge.Focusable = overrideBool(edge.Focusable, patch.Focusable)
	if patch.InteractionWidth != nil {
		edge.InteractionWidth = *patch.InteractionWidth
	}
	if patch.MarkerStart != nil {
		edge.MarkerStart = patch.MarkerStart
	}
	if patch.MarkerEnd != nil {
		edge.MarkerEnd = patch.MarkerEnd
	}
	if patch.Data != nil {
		edge.Data = patch.Data
	}
	if patch.Events != nil {
		edge.Events = patch.Events
	}
}

// pickID normalizes the patch identifier, falling back to the current one
// when the patch does not supply an identifier.
func pickID(patchID any, current string) string {
	if id := NormalizeID(patchID); id != "" {
		return id
	}
	return current
}

func overrideString(current string, p *string) string {
	if p != nil {
		return *p
	}
	return current
}

func overrideBool(current, p *bool) *bool {
	if p != nil {
		return p
	}
	return current
}
