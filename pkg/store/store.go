// Package store owns store instances (independent graph-state aggregates
// of nodes, edges, viewport transform, configuration defaults, derived
// getters, mutation actions, and a hook surface) and the registry that
// creates, indexes, and tears them down.
//
// Execution is single-threaded and cooperative: all recomputation happens
// synchronously inside the mutation that caused it, so derived queries
// always observe a fully consistent snapshot as of the last completed
// mutation. Collections are mutated only through the instance's own
// actions; re-entrant mutation from inside a query callback is undefined
// behavior and must be avoided by callers.
package store

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowgridhq/flowgrid/pkg/errors"
	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
	"github.com/flowgridhq/flowgrid/pkg/hooks"
	"github.com/flowgridhq/flowgrid/pkg/snapshot"
)

// Store is one graph-state instance. Create instances through a Registry,
// or with New for standalone use. A Store is not safe for concurrent use;
// the engine's execution model is single-threaded.
type Store struct {
	id     string
	logger *log.Logger

	nodes     []flow.Node
	nodeIndex map[string]int
	edges     []flow.Edge
	edgeIndex map[string]int

	transform geometry.Transform

	minZoom         float64
	maxZoom         float64
	snapToGrid      bool
	snapGrid        geometry.SnapGrid
	defaultEdgeOpts flow.DefaultEdgeOptions

	events    *Events
	destroyed bool

	applyWired    bool
	applyNodesTok hooks.Token
	applyEdgesTok hooks.Token

	// onDestroy is set by the owning registry to deregister the instance.
	onDestroy func()
}

// New creates a standalone store instance and applies the preloaded
// configuration. Instances that should be discoverable by identifier must
// be created through a Registry instead.
func New(opts Options) *Store {
	opts = opts.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	s := &Store{
		id:              opts.ID,
		logger:          logger,
		nodeIndex:       make(map[string]int),
		edgeIndex:       make(map[string]int),
		transform:       geometry.Transform{Zoom: 1},
		minZoom:         opts.MinZoom,
		maxZoom:         opts.MaxZoom,
		snapToGrid:      opts.SnapToGrid,
		snapGrid:        opts.SnapGrid,
		defaultEdgeOpts: opts.DefaultEdgeOptions,
		events:          newEvents(),
	}

	if len(opts.Nodes) > 0 {
		s.SetNodes(opts.Nodes)
	}
	if len(opts.Edges) > 0 {
		s.SetEdges(opts.Edges)
	}
	s.SetApplyDefault(opts.ApplyDefault)
	return s
}

// ID returns the instance identifier.
func (s *Store) ID() string { return s.id }

// Events returns the instance's hook surface.
func (s *Store) Events() *Events { return s.events }

// Destroyed reports whether the instance has been torn down.
func (s *Store) Destroyed() bool { return s.destroyed }

// mustBeLive makes mutation of a destroyed instance fatal. Everything else
// in the error taxonomy is reported through the error hook, but using an
// instance after teardown is a programming fault.
func (s *Store) mustBeLive(op string) {
	if s.destroyed {
		panic(errors.New(errors.ErrCodeInstanceDestroyed,
			"%s called on destroyed instance %q", op, s.id))
	}
}

// reportError surfaces an expected-misuse condition: a warning on the
// instance logger plus a structured error event. It never aborts the
// caller's control flow.
func (s *Store) reportError(err *errors.Error) {
	s.logger.Warn(err.Message, "code", err.Code, "flow", s.id)
	s.events.Error.Trigger(err)
}

// =============================================================================
// Getters
// =============================================================================

// Nodes returns a copy of the node collection.
func (s *Store) Nodes() []flow.Node {
	return append([]flow.Node(nil), s.nodes...)
}

// Edges returns a copy of the edge collection.
func (s *Store) Edges() []flow.Edge {
	return append([]flow.Edge(nil), s.edges...)
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// FindNode returns the node with the given identifier. A miss is not
// reported through the error hook; lookups during partial initialization
// are routine.
func (s *Store) FindNode(id string) (flow.Node, bool) {
	if i, ok := s.nodeIndex[id]; ok {
		return s.nodes[i], true
	}
	return flow.Node{}, false
}

// FindEdge returns the edge with the given identifier.
func (s *Store) FindEdge(id string) (flow.Edge, bool) {
	if i, ok := s.edgeIndex[id]; ok {
		return s.edges[i], true
	}
	return flow.Edge{}, false
}

func (s *Store) nodePtr(id string) (*flow.Node, bool) {
	if i, ok := s.nodeIndex[id]; ok {
		return &s.nodes[i], true
	}
	return nil, false
}

// Viewport returns the current viewport transform.
func (s *Store) Viewport() geometry.Transform { return s.transform }

// IsParentSelected reports whether any ancestor of the node is selected,
// walking the parent chain defensively (a broken or cyclic chain yields
// false).
func (s *Store) IsParentSelected(id string) bool {
	node, ok := s.nodePtr(id)
	if !ok {
		s.reportError(errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return false
	}
	return flow.IsParentSelected(node, s.nodePtr)
}

// ConnectedEdgesOf returns the edges with at least one endpoint among the
// given node identifiers.
func (s *Store) ConnectedEdgesOf(nodeIDs ...string) []flow.Edge {
	return flow.ConnectedEdges(s.edges, nodeIDs...)
}

// NodesInRect returns the nodes intersecting a screen-space rectangle
// under the current viewport transform.
func (s *Store) NodesInRect(rect geometry.Rect, partial, excludeNonSelectable bool) []flow.Node {
	ptrs := make([]*flow.Node, len(s.nodes))
	for i := range s.nodes {
		ptrs[i] = &s.nodes[i]
	}
	selected := geometry.NodesInRect(ptrs, rect, s.transform, partial, excludeNonSelectable)

	result := make([]flow.Node, len(selected))
	for i, p := range selected {
		result[i] = *p
	}
	return result
}

// Bounds returns the smallest rectangle enclosing all nodes. With no nodes
// the result is the degenerate empty rectangle; callers should check
// NodeCount first when that matters.
func (s *Store) Bounds() geometry.Rect {
	ptrs := make([]*flow.Node, len(s.nodes))
	for i := range s.nodes {
		ptrs[i] = &s.nodes[i]
	}
	return geometry.RectOfNodes(ptrs)
}

// Project maps a screen-space point into graph space under the current
// transform, honoring the instance's snap configuration.
func (s *Store) Project(p geometry.XYPosition) geometry.XYPosition {
	return geometry.Project(p, s.transform, s.snapToGrid, s.snapGrid)
}

// =============================================================================
// Mutation actions
// =============================================================================

// SetNodes replaces the node collection. Each description is merged onto
// any previously stored node with the same identifier, so derived state
// (dimensions, handle bounds, computed positions) survives incremental
// updates. Parent references are validated, cycle-creating assignments are
// rejected, and computed positions are re-derived.
func (s *Store) SetNodes(patches []flow.NodePatch) {
	s.mustBeLive("SetNodes")

	next := make([]flow.Node, 0, len(patches))
	index := make(map[string]int, len(patches))
	for _, p := range patches {
		id := flow.NormalizeID(p.ID)
		existing, _ := s.nodePtr(id)
		node := flow.ParseNode(p, existing, "")
		if node.ID == "" {
			s.reportError(errors.New(errors.ErrCodeInvalidNode, "node needs an id"))
			continue
		}
		if _, dup := index[node.ID]; dup {
			s.logger.Warn("duplicate node id, keeping first", "id", node.ID, "flow", s.id)
			continue
		}
		index[node.ID] = len(next)
		next = append(next, node)
	}

	s.nodes, s.nodeIndex = next, index
	s.resolveHierarchy()
}

// AddNodes merges node descriptions into the existing collection. A
// description whose identifier is already present updates that node in
// place; new identifiers append.
func (s *Store) AddNodes(patches []flow.NodePatch) {
	s.mustBeLive("AddNodes")

	for _, p := range patches {
		id := flow.NormalizeID(p.ID)
		if existing, ok := s.nodePtr(id); ok {
			*existing = flow.ParseNode(p, existing, "")
			continue
		}
		node := flow.ParseNode(p, nil, "")
		if node.ID == "" {
			s.reportError(errors.New(errors.ErrCodeInvalidNode, "node needs an id"))
			continue
		}
		s.nodeIndex[node.ID] = len(s.nodes)
		s.nodes = append(s.nodes, node)
	}
	s.resolveHierarchy()
}

// RemoveNodes removes nodes by identifier, along with every edge touching
// one of them. Children of a removed parent stay and become roots.
func (s *Store) RemoveNodes(ids ...string) {
	s.mustBeLive("RemoveNodes")
	if len(ids) == 0 {
		return
	}

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if _, gone := doomed[n.ID]; gone {
			continue
		}
		if _, parentGone := doomed[n.ParentID]; parentGone {
			n.ParentID = ""
		}
		nodes = append(nodes, n)
	}
	s.nodes = nodes

	edges := s.edges[:0]
	for _, e := range s.edges {
		_, srcGone := doomed[e.Source]
		_, dstGone := doomed[e.Target]
		if srcGone || dstGone {
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges

	s.reindex()
	s.resolveHierarchy()
}

// SetEdges replaces the edge collection, merging each description onto any
// previously stored edge with the same identifier and overlaying instance
// defaults onto new edges. Identifiers missing from the input are derived
// from the connection tuple.
func (s *Store) SetEdges(patches []flow.EdgePatch) {
	s.mustBeLive("SetEdges")

	next := make([]flow.Edge, 0, len(patches))
	index := make(map[string]int, len(patches))
	for _, p := range patches {
		var existing *flow.Edge
		if id := flow.NormalizeID(p.ID); id != "" {
			if i, ok := s.edgeIndex[id]; ok {
				existing = &s.edges[i]
			}
		}

		edge := flow.ParseEdge(p, existing, s.defaultEdgeOpts)
		if edge.Source == "" || edge.Target == "" {
			s.reportError(errors.New(errors.ErrCodeInvalidEdge,
				"can't create edge: an edge needs a source and a target"))
			continue
		}
		if edge.ID == "" {
			edge.ID = flow.EdgeID(edge.Connection())
		}
		if _, dup := index[edge.ID]; dup {
			s.logger.Warn("duplicate edge id, keeping first", "id", edge.ID, "flow", s.id)
			continue
		}
		index[edge.ID] = len(next)
		next = append(next, edge)
	}
	s.edges, s.edgeIndex = next, index
}

// AddEdges appends edges described by the given parameters. Both endpoints
// must reference nodes present in this instance; a missing endpoint is
// reported through the error hook and skips that edge. Duplicate
// connections are silently ignored (idempotence, not an error).
func (s *Store) AddEdges(patches []flow.EdgePatch) {
	s.mustBeLive("AddEdges")

	for _, p := range patches {
		if p.Source != "" {
			if _, ok := s.nodeIndex[p.Source]; !ok {
				s.reportError(errors.New(errors.ErrCodeNodeNotFound,
					"can't create edge: source node %q not found", p.Source))
				continue
			}
		}
		if p.Target != "" {
			if _, ok := s.nodeIndex[p.Target]; !ok {
				s.reportError(errors.New(errors.ErrCodeNodeNotFound,
					"can't create edge: target node %q not found", p.Target))
				continue
			}
		}

		edges, err := flow.AddEdge(p, s.edges, s.defaultEdgeOpts)
		if err != nil {
			s.reportError(err.(*errors.Error))
			continue
		}
		s.edges = edges
	}
	s.reindexEdges()
}

// RemoveEdges removes edges by identifier.
func (s *Store) RemoveEdges(ids ...string) {
	s.mustBeLive("RemoveEdges")
	if len(ids) == 0 {
		return
	}

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	edges := s.edges[:0]
	for _, e := range s.edges {
		if _, gone := doomed[e.ID]; gone {
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges
	s.reindexEdges()
}

// UpdateEdge moves the edge with the given identifier onto a new
// connection. Failures (missing old edge, empty endpoints) are reported
// through the error hook and leave the collection unchanged.
func (s *Store) UpdateEdge(oldID string, conn flow.Connection) bool {
	s.mustBeLive("UpdateEdge")

	old, ok := s.FindEdge(oldID)
	if !ok {
		s.reportError(errors.New(errors.ErrCodeEdgeNotFound,
			"can't update edge: edge %q does not exist", oldID))
		return false
	}

	edges, err := flow.UpdateEdge(old, conn, s.edges)
	if err != nil {
		s.reportError(err.(*errors.Error))
		return false
	}
	s.edges = edges
	s.reindexEdges()
	return true
}

// Connect announces a completed connection through the connect hook.
// Materializing the connection is the handlers' decision.
func (s *Store) Connect(conn flow.Connection) {
	s.mustBeLive("Connect")
	s.events.Connect.Trigger(conn)
}

// UpdateNodePosition moves a node to a new local position and records its
// dragging state. Computed positions of the node and its descendants are
// re-derived.
func (s *Store) UpdateNodePosition(id string, pos geometry.XYPosition, dragging bool) {
	s.mustBeLive("UpdateNodePosition")

	node, ok := s.nodePtr(id)
	if !ok {
		s.reportError(errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}
	node.Position = pos
	node.Dragging = dragging
	s.resolveHierarchy()
}

// UpdateNodeDimensions records measured dimensions (and, when supplied,
// handle bounds) fed back by the render layer, marking the node
// initialized.
func (s *Store) UpdateNodeDimensions(id string, dims geometry.Dimensions, handleBounds *flow.HandleBounds) {
	s.mustBeLive("UpdateNodeDimensions")

	node, ok := s.nodePtr(id)
	if !ok {
		s.reportError(errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}
	node.Dimensions = dims
	if handleBounds != nil {
		node.HandleBounds = *handleBounds
	}
	node.Initialized = true
}

// SelectNodes marks the given nodes selected and everything else
// deselected.
func (s *Store) SelectNodes(ids ...string) {
	s.mustBeLive("SelectNodes")

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for i := range s.nodes {
		_, sel := want[s.nodes[i].ID]
		s.nodes[i].Selected = sel
	}
}

// ClearSelection deselects every node and edge.
func (s *Store) ClearSelection() {
	s.mustBeLive("ClearSelection")

	for i := range s.nodes {
		s.nodes[i].Selected = false
	}
	for i := range s.edges {
		s.edges[i].Selected = false
	}
}

// SetTransform sets the viewport transform, clamping zoom to the
// instance's limits.
func (s *Store) SetTransform(t geometry.Transform) {
	s.mustBeLive("SetTransform")
	t.Zoom = geometry.Clamp(t.Zoom, s.minZoom, s.maxZoom)
	s.transform = t
}

// FitView computes and applies the transform that fits all nodes inside a
// width-by-height viewport with proportional padding. It reports whether a
// transform was applied; an empty instance leaves the viewport untouched.
func (s *Store) FitView(width, height, padding float64, offset geometry.XYPosition) bool {
	s.mustBeLive("FitView")

	if len(s.nodes) == 0 {
		return false
	}
	t := geometry.TransformForBounds(s.Bounds(), width, height, s.minZoom, s.maxZoom, padding, offset)
	s.transform = t
	return true
}

// =============================================================================
// Snapshot / restore
// =============================================================================

// Snapshot exports the instance's current state.
func (s *Store) Snapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		ID:        s.id,
		Nodes:     s.Nodes(),
		Edges:     s.Edges(),
		Transform: s.transform,
		TakenAt:   time.Now().UTC(),
	}
}

// Restore replaces the instance's state with a snapshot's collections and
// viewport. Derived hierarchy state is re-resolved, so a snapshot edited
// out-of-band still ends up canonical.
func (s *Store) Restore(snap *snapshot.Snapshot) {
	s.mustBeLive("Restore")

	s.nodes = append([]flow.Node(nil), snap.Nodes...)
	s.edges = append([]flow.Edge(nil), snap.Edges...)
	s.reindex()
	s.resolveHierarchy()
	s.SetTransform(snap.Transform)
}

// =============================================================================
// Lifecycle
// =============================================================================

// Destroy tears the instance down: the apply-default handlers are unwired,
// the destroy hook fires once with the instance identifier, all handlers
// are dropped, and the owning registry (if any) deregisters the instance.
// Destroy is idempotent; any mutation after it is fatal.
func (s *Store) Destroy() {
	if s.destroyed {
		return
	}
	s.unwireApplyDefault()
	s.events.Destroy.Trigger(s.id)
	s.events.NodesChange.Clear()
	s.events.EdgesChange.Clear()
	s.events.Connect.Clear()
	s.events.Error.Clear()
	s.events.Destroy.Clear()
	s.destroyed = true
	if s.onDestroy != nil {
		s.onDestroy()
	}
}

// =============================================================================
// Internal helpers
// =============================================================================

func (s *Store) reindex() {
	s.nodeIndex = make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		s.nodeIndex[n.ID] = i
	}
	s.reindexEdges()
}

func (s *Store) reindexEdges() {
	s.edgeIndex = make(map[string]int, len(s.edges))
	for i, e := range s.edges {
		s.edgeIndex[e.ID] = i
	}
}

// resolveHierarchy validates parent references, rejects cycle-creating
// assignments, marks parents, and re-derives computed positions. Cycle
// detection uses depth-first traversal over parent pointers with
// white/gray/black coloring; the assignment that closes a cycle is cleared
// and reported.
func (s *Store) resolveHierarchy() {
	const (
		white = iota
		gray
		black
	)

	for i := range s.nodes {
		s.nodes[i].IsParent = false
	}

	color := make(map[string]int, len(s.nodes))
	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		node, _ := s.nodePtr(id)

		if pid := node.ParentID; pid != "" {
			parent, ok := s.nodePtr(pid)
			switch {
			case !ok:
				s.reportError(errors.New(errors.ErrCodeParentNotFound,
					"parent %q of node %q not found", pid, id))
				node.ParentID = ""
			case color[pid] == gray:
				s.reportError(errors.New(errors.ErrCodeCycleDetected,
					"parent assignment %q -> %q would create a cycle", id, pid))
				node.ParentID = ""
			case color[pid] == white:
				visit(pid)
				parent.IsParent = true
			default:
				parent.IsParent = true
			}
		}
		color[id] = black
	}
	for i := range s.nodes {
		if color[s.nodes[i].ID] == white {
			visit(s.nodes[i].ID)
		}
	}

	// Positions: roots resolve to their own position at depth zero,
	// children add the parent's computed position with z strictly above it.
	resolved := make(map[string]bool, len(s.nodes))
	var resolve func(id string) geometry.XYZPosition
	resolve = func(id string) geometry.XYZPosition {
		node, _ := s.nodePtr(id)
		if resolved[id] {
			return node.Computed
		}
		resolved[id] = true

		own := geometry.XYZPosition{X: node.Position.X, Y: node.Position.Y}
		if node.ParentID == "" {
			node.Computed = own
		} else {
			node.Computed = geometry.ResolvePosition(resolve(node.ParentID), own)
		}
		return node.Computed
	}
	for i := range s.nodes {
		resolve(s.nodes[i].ID)
	}
}
