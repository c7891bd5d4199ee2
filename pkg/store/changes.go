package store

import (
	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// ChangeKind discriminates the change descriptions flowing through the
// NodesChange and EdgesChange hooks.
type ChangeKind string

const (
	ChangeAdd        ChangeKind = "add"
	ChangeRemove     ChangeKind = "remove"
	ChangeSelect     ChangeKind = "select"
	ChangePosition   ChangeKind = "position"
	ChangeDimensions ChangeKind = "dimensions"
)

// NodeChange describes one pending edit to a node. Only the fields
// matching its Kind are meaningful.
type NodeChange struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id,omitempty"`

	Selected     bool                 `json:"selected,omitempty"`     // select
	Position     *geometry.XYPosition `json:"position,omitempty"`     // position
	Dragging     bool                 `json:"dragging,omitempty"`     // position
	Dimensions   *geometry.Dimensions `json:"dimensions,omitempty"`   // dimensions
	HandleBounds *flow.HandleBounds   `json:"handleBounds,omitempty"` // dimensions
	Item         *flow.NodePatch      `json:"item,omitempty"`         // add
}

// EdgeChange describes one pending edit to an edge.
type EdgeChange struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id,omitempty"`

	Selected bool            `json:"selected,omitempty"` // select
	Item     *flow.EdgePatch `json:"item,omitempty"`     // add
}

// ApplyNodeChanges applies a batch of node changes to the instance. This is
// the default change-application handler wired by SetApplyDefault; it is
// also usable directly by callers that manage wiring themselves.
func (s *Store) ApplyNodeChanges(changes []NodeChange) {
	s.mustBeLive("ApplyNodeChanges")

	for _, c := range changes {
		switch c.Kind {
		case ChangeAdd:
			if c.Item != nil {
				s.AddNodes([]flow.NodePatch{*c.Item})
			}
		case ChangeRemove:
			s.RemoveNodes(c.ID)
		case ChangeSelect:
			if node, ok := s.nodePtr(c.ID); ok {
				node.Selected = c.Selected
			}
		case ChangePosition:
			if c.Position != nil {
				s.UpdateNodePosition(c.ID, *c.Position, c.Dragging)
			} else if node, ok := s.nodePtr(c.ID); ok {
				node.Dragging = c.Dragging
			}
		case ChangeDimensions:
			if c.Dimensions != nil {
				s.UpdateNodeDimensions(c.ID, *c.Dimensions, c.HandleBounds)
			}
		}
	}
}

// ApplyEdgeChanges applies a batch of edge changes to the instance.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) {
	s.mustBeLive("ApplyEdgeChanges")

	for _, c := range changes {
		switch c.Kind {
		case ChangeAdd:
			if c.Item != nil {
				s.AddEdges([]flow.EdgePatch{*c.Item})
			}
		case ChangeRemove:
			s.RemoveEdges(c.ID)
		case ChangeSelect:
			if i, ok := s.edgeIndex[c.ID]; ok {
				s.edges[i].Selected = c.Selected
			}
		}
	}
}

// SetApplyDefault wires or unwires the default change-application handlers
// on the change hooks. Enabling subscribes ApplyNodeChanges and
// ApplyEdgeChanges exactly once per enable period; disabling (or Destroy)
// unsubscribes exactly once. Repeated calls with the same value are no-ops,
// so the wiring can never double-subscribe.
func (s *Store) SetApplyDefault(enabled bool) {
	if enabled {
		s.wireApplyDefault()
		return
	}
	s.unwireApplyDefault()
}

func (s *Store) wireApplyDefault() {
	if s.applyWired {
		return
	}
	s.applyNodesTok = s.events.NodesChange.On(s.ApplyNodeChanges)
	s.applyEdgesTok = s.events.EdgesChange.On(s.ApplyEdgeChanges)
	s.applyWired = true
}

func (s *Store) unwireApplyDefault() {
	if !s.applyWired {
		return
	}
	s.events.NodesChange.Off(s.applyNodesTok)
	s.events.EdgesChange.Off(s.applyEdgesTok)
	s.applyWired = false
}
