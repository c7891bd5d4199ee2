package store

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowgridhq/flowgrid/pkg/errors"
	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.ID == "" {
		opts.ID = "test"
	}
	return New(opts)
}

func pos(x, y float64) *geometry.XYPosition {
	return &geometry.XYPosition{X: x, Y: y}
}

func strPtr(s string) *string { return &s }

// collectErrors subscribes to the error hook and returns a slice that
// accumulates every reported code.
func collectErrors(s *Store) *[]errors.Code {
	var codes []errors.Code
	s.Events().Error.On(func(e *errors.Error) {
		codes = append(codes, e.Code)
	})
	return &codes
}

func TestNewPreloadsCollections(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(100, 0)},
		},
		Edges: []flow.EdgePatch{
			{Source: "A", Target: "B"},
		},
	})

	if s.NodeCount() != 2 || s.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges, want 2 and 1", s.NodeCount(), s.EdgeCount())
	}
	if _, ok := s.FindEdge("edge-A-B"); !ok {
		t.Error("derived edge id not indexed")
	}
	if s.Viewport().Zoom != 1 {
		t.Errorf("initial zoom = %v, want 1", s.Viewport().Zoom)
	}
}

func TestHierarchyComputedPositions(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "root", Position: pos(10, 20)},
			{ID: "child", Position: pos(5, 5), Parent: strPtr("root")},
			{ID: "grandchild", Position: pos(1, 1), Parent: strPtr("child")},
		},
	})

	root, _ := s.FindNode("root")
	child, _ := s.FindNode("child")
	grandchild, _ := s.FindNode("grandchild")

	if root.Computed != (geometry.XYZPosition{X: 10, Y: 20, Z: 0}) {
		t.Errorf("root.Computed = %+v", root.Computed)
	}
	if child.Computed.X != 15 || child.Computed.Y != 25 {
		t.Errorf("child.Computed = %+v, want offset by parent", child.Computed)
	}
	if grandchild.Computed.X != 16 || grandchild.Computed.Y != 26 {
		t.Errorf("grandchild.Computed = %+v", grandchild.Computed)
	}

	// Each level renders strictly above its parent.
	if !(child.Computed.Z > root.Computed.Z) || !(grandchild.Computed.Z > child.Computed.Z) {
		t.Errorf("z order not strictly increasing: %d, %d, %d",
			root.Computed.Z, child.Computed.Z, grandchild.Computed.Z)
	}
	if !root.IsParent || !child.IsParent || grandchild.IsParent {
		t.Error("IsParent flags wrong")
	}
}

func TestHierarchyOrderIndependent(t *testing.T) {
	// Child listed before its parent still resolves against the parent's
	// computed position.
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "child", Position: pos(5, 5), Parent: strPtr("root")},
			{ID: "root", Position: pos(10, 20)},
		},
	})

	child, _ := s.FindNode("child")
	if child.Computed.X != 15 || child.Computed.Y != 25 {
		t.Errorf("child.Computed = %+v, want resolved against later-listed parent", child.Computed)
	}
}

func TestMissingParentReportedAndCleared(t *testing.T) {
	s := newTestStore(t, Options{})
	codes := collectErrors(s)

	s.SetNodes([]flow.NodePatch{
		{ID: "orphan", Position: pos(0, 0), Parent: strPtr("ghost")},
	})

	if len(*codes) != 1 || (*codes)[0] != errors.ErrCodeParentNotFound {
		t.Fatalf("reported codes = %v, want [PARENT_NOT_FOUND]", *codes)
	}
	n, _ := s.FindNode("orphan")
	if n.ParentID != "" {
		t.Errorf("ParentID = %q, want cleared", n.ParentID)
	}
	if n.Computed.Z != 0 {
		t.Errorf("orphan renders at z %d, want root depth", n.Computed.Z)
	}
}

func TestCycleRejected(t *testing.T) {
	s := newTestStore(t, Options{})
	codes := collectErrors(s)

	s.SetNodes([]flow.NodePatch{
		{ID: "A", Position: pos(0, 0), Parent: strPtr("B")},
		{ID: "B", Position: pos(0, 0), Parent: strPtr("A")},
	})

	found := false
	for _, c := range *codes {
		if c == errors.ErrCodeCycleDetected {
			found = true
		}
	}
	if !found {
		t.Fatalf("reported codes = %v, want CYCLE_DETECTED", *codes)
	}

	// The closing assignment was cleared; a valid chain remains.
	a, _ := s.FindNode("A")
	b, _ := s.FindNode("B")
	if a.ParentID != "" && b.ParentID != "" {
		t.Error("cycle survived: both parent assignments still set")
	}
}

func TestSetNodesMergesDerivedState(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{{ID: "A", Position: pos(0, 0)}},
	})
	s.UpdateNodeDimensions("A", geometry.Dimensions{Width: 150, Height: 40}, nil)

	// Re-setting the same node keeps measured dimensions.
	s.SetNodes([]flow.NodePatch{{ID: "A", Position: pos(10, 10)}})

	n, _ := s.FindNode("A")
	if n.Dimensions.Width != 150 || !n.Initialized {
		t.Errorf("derived state lost across SetNodes: %+v", n)
	}
	if n.Position.X != 10 {
		t.Errorf("Position.X = %v, want patch applied", n.Position.X)
	}
}

func TestSetNodesKeepsFirstDuplicate(t *testing.T) {
	s := newTestStore(t, Options{})
	s.SetNodes([]flow.NodePatch{
		{ID: "A", Position: pos(1, 1)},
		{ID: "A", Position: pos(2, 2)},
	})

	if s.NodeCount() != 1 {
		t.Fatalf("got %d nodes, want 1", s.NodeCount())
	}
	n, _ := s.FindNode("A")
	if n.Position.X != 1 {
		t.Errorf("Position.X = %v, want first occurrence kept", n.Position.X)
	}
}

func TestRemoveNodesDropsTouchingEdgesAndOrphansChildren(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(100, 0)},
			{ID: "kid", Position: pos(5, 5), Parent: strPtr("A")},
		},
		Edges: []flow.EdgePatch{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "kid"},
		},
	})

	s.RemoveNodes("A")

	if _, ok := s.FindNode("A"); ok {
		t.Error("removed node still present")
	}
	if s.EdgeCount() != 1 {
		t.Errorf("got %d edges, want 1 (A's edge removed)", s.EdgeCount())
	}
	kid, _ := s.FindNode("kid")
	if kid.ParentID != "" {
		t.Errorf("child ParentID = %q, want promoted to root", kid.ParentID)
	}
	if kid.Computed.X != 5 || kid.Computed.Z != 0 {
		t.Errorf("promoted child Computed = %+v", kid.Computed)
	}
}

func TestAddEdgesValidatesEndpoints(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{{ID: "A", Position: pos(0, 0)}},
	})
	codes := collectErrors(s)

	s.AddEdges([]flow.EdgePatch{{Source: "A", Target: "missing"}})

	if s.EdgeCount() != 0 {
		t.Error("edge with missing endpoint was added")
	}
	if len(*codes) != 1 || (*codes)[0] != errors.ErrCodeNodeNotFound {
		t.Errorf("reported codes = %v, want [NODE_NOT_FOUND]", *codes)
	}
}

func TestAddEdgesIdempotent(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(100, 0)},
		},
	})
	codes := collectErrors(s)

	s.AddEdges([]flow.EdgePatch{{Source: "A", Target: "B"}})
	s.AddEdges([]flow.EdgePatch{{Source: "A", Target: "B"}})

	if s.EdgeCount() != 1 {
		t.Errorf("got %d edges, want 1", s.EdgeCount())
	}
	if len(*codes) != 0 {
		t.Errorf("duplicate connection reported as error: %v", *codes)
	}
}

func TestUpdateEdgeAction(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(100, 0)},
			{ID: "C", Position: pos(200, 0)},
		},
		Edges: []flow.EdgePatch{{Source: "A", Target: "B"}},
	})

	if !s.UpdateEdge("edge-A-B", flow.Connection{Source: "A", Target: "C"}) {
		t.Fatal("UpdateEdge returned false")
	}
	if _, ok := s.FindEdge("edge-A-B"); ok {
		t.Error("old edge still indexed")
	}
	if _, ok := s.FindEdge("edge-A-C"); !ok {
		t.Error("replacement edge not indexed")
	}

	codes := collectErrors(s)
	if s.UpdateEdge("ghost", flow.Connection{Source: "A", Target: "B"}) {
		t.Error("UpdateEdge succeeded for unknown edge")
	}
	if len(*codes) != 1 || (*codes)[0] != errors.ErrCodeEdgeNotFound {
		t.Errorf("reported codes = %v, want [EDGE_NOT_FOUND]", *codes)
	}
}

func TestConnectTriggersHook(t *testing.T) {
	s := newTestStore(t, Options{})

	var got flow.Connection
	s.Events().Connect.On(func(c flow.Connection) { got = c })

	s.Connect(flow.Connection{Source: "A", Target: "B"})
	if got.Source != "A" || got.Target != "B" {
		t.Errorf("connect hook received %+v", got)
	}
}

func TestSelection(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(0, 0), Parent: strPtr("A")},
			{ID: "C", Position: pos(0, 0)},
		},
	})

	s.SelectNodes("A")
	a, _ := s.FindNode("A")
	c, _ := s.FindNode("C")
	if !a.Selected || c.Selected {
		t.Error("SelectNodes did not select exactly the requested set")
	}
	if !s.IsParentSelected("B") {
		t.Error("IsParentSelected(B) = false while parent A is selected")
	}
	if s.IsParentSelected("A") {
		t.Error("IsParentSelected counts the node itself")
	}

	s.ClearSelection()
	a, _ = s.FindNode("A")
	if a.Selected {
		t.Error("selection survived ClearSelection")
	}
}

func TestSetTransformClampsZoom(t *testing.T) {
	s := newTestStore(t, Options{MinZoom: 0.5, MaxZoom: 2})

	s.SetTransform(geometry.Transform{X: 1, Y: 2, Zoom: 10})
	if got := s.Viewport().Zoom; got != 2 {
		t.Errorf("zoom = %v, want clamped to 2", got)
	}

	s.SetTransform(geometry.Transform{Zoom: 0.1})
	if got := s.Viewport().Zoom; got != 0.5 {
		t.Errorf("zoom = %v, want clamped to 0.5", got)
	}
}

func TestFitView(t *testing.T) {
	s := newTestStore(t, Options{})

	if s.FitView(800, 600, 0.1, geometry.XYPosition{}) {
		t.Error("FitView reported success on an empty instance")
	}

	s.SetNodes([]flow.NodePatch{
		{ID: "A", Position: pos(0, 0)},
		{ID: "B", Position: pos(100, 100)},
	})
	s.UpdateNodeDimensions("A", geometry.Dimensions{Width: 50, Height: 50}, nil)
	s.UpdateNodeDimensions("B", geometry.Dimensions{Width: 50, Height: 50}, nil)

	if !s.FitView(800, 600, 0.1, geometry.XYPosition{}) {
		t.Fatal("FitView reported failure")
	}
	z := s.Viewport().Zoom
	if z < DefaultMinZoom || z > DefaultMaxZoom {
		t.Errorf("fitted zoom %v outside [%v, %v]", z, DefaultMinZoom, DefaultMaxZoom)
	}
}

func TestProjectHonorsSnapConfig(t *testing.T) {
	s := newTestStore(t, Options{
		SnapToGrid: true,
		SnapGrid:   geometry.SnapGrid{X: 10, Y: 10},
	})
	s.SetTransform(geometry.Transform{X: 0, Y: 0, Zoom: 1})

	got := s.Project(geometry.XYPosition{X: 14, Y: 26})
	if got.X != 10 || got.Y != 30 {
		t.Errorf("Project = %+v, want snapped to (10, 30)", got)
	}
}

func TestApplyDefaultWiring(t *testing.T) {
	s := newTestStore(t, Options{ApplyDefault: true})

	s.Events().NodesChange.Trigger([]NodeChange{
		{Kind: ChangeAdd, Item: &flow.NodePatch{ID: "A", Position: pos(0, 0)}},
	})
	if s.NodeCount() != 1 {
		t.Fatalf("got %d nodes after add change, want 1", s.NodeCount())
	}

	// Re-enabling must not double-subscribe: one more add change yields
	// exactly one more node application, not two.
	s.SetApplyDefault(true)
	s.Events().NodesChange.Trigger([]NodeChange{
		{Kind: ChangeSelect, ID: "A", Selected: true},
	})
	n, _ := s.FindNode("A")
	if !n.Selected {
		t.Error("select change not applied")
	}
	if got := s.Events().NodesChange.Len(); got != 1 {
		t.Errorf("NodesChange has %d handlers, want 1", got)
	}

	// Disabling detaches the handlers; further changes are inert.
	s.SetApplyDefault(false)
	s.Events().NodesChange.Trigger([]NodeChange{{Kind: ChangeRemove, ID: "A"}})
	if s.NodeCount() != 1 {
		t.Error("change applied while default handling was disabled")
	}
	s.SetApplyDefault(false)
	if got := s.Events().NodesChange.Len(); got != 0 {
		t.Errorf("NodesChange has %d handlers after disable, want 0", got)
	}
}

func TestApplyEdgeChanges(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(100, 0)},
		},
	})

	s.ApplyEdgeChanges([]EdgeChange{
		{Kind: ChangeAdd, Item: &flow.EdgePatch{Source: "A", Target: "B"}},
	})
	if s.EdgeCount() != 1 {
		t.Fatalf("got %d edges, want 1", s.EdgeCount())
	}

	s.ApplyEdgeChanges([]EdgeChange{{Kind: ChangeSelect, ID: "edge-A-B", Selected: true}})
	e, _ := s.FindEdge("edge-A-B")
	if !e.Selected {
		t.Error("edge select change not applied")
	}

	s.ApplyEdgeChanges([]EdgeChange{{Kind: ChangeRemove, ID: "edge-A-B"}})
	if s.EdgeCount() != 0 {
		t.Error("edge remove change not applied")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "A", Position: pos(0, 0)},
			{ID: "B", Position: pos(5, 5), Parent: strPtr("A")},
		},
		Edges: []flow.EdgePatch{{Source: "A", Target: "B"}},
	})
	s.SetTransform(geometry.Transform{X: 3, Y: 4, Zoom: 1.5})

	snap := s.Snapshot()

	other := newTestStore(t, Options{})
	other.Restore(snap)

	if other.NodeCount() != 2 || other.EdgeCount() != 1 {
		t.Fatalf("restored %d nodes, %d edges", other.NodeCount(), other.EdgeCount())
	}
	if other.Viewport() != (geometry.Transform{X: 3, Y: 4, Zoom: 1.5}) {
		t.Errorf("restored viewport = %+v", other.Viewport())
	}

	// Hierarchy is re-resolved from the restored collections.
	b, _ := other.FindNode("B")
	if b.Computed.Z <= 0 {
		t.Errorf("restored child z = %d, want above root", b.Computed.Z)
	}
}

func TestDestroy(t *testing.T) {
	s := newTestStore(t, Options{ApplyDefault: true})

	fired := 0
	s.Events().Destroy.On(func(id string) {
		fired++
		if id != "test" {
			t.Errorf("destroy hook received %q", id)
		}
	})

	s.Destroy()
	s.Destroy()

	if fired != 1 {
		t.Errorf("destroy hook fired %d times, want 1", fired)
	}
	if !s.Destroyed() {
		t.Error("Destroyed() = false after Destroy")
	}
	if s.Events().NodesChange.Len() != 0 {
		t.Error("handlers survived Destroy")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("mutation of destroyed instance did not panic")
		} else if err, ok := r.(*errors.Error); !ok || err.Code != errors.ErrCodeInstanceDestroyed {
			t.Errorf("panic value = %v, want INSTANCE_DESTROYED error", r)
		}
	}()
	s.SetNodes(nil)
}

func TestNodesInRectScreenSpace(t *testing.T) {
	s := newTestStore(t, Options{
		Nodes: []flow.NodePatch{
			{ID: "near", Position: pos(10, 10)},
			{ID: "far", Position: pos(500, 500)},
		},
	})
	s.UpdateNodeDimensions("near", geometry.Dimensions{Width: 20, Height: 20}, nil)
	s.UpdateNodeDimensions("far", geometry.Dimensions{Width: 20, Height: 20}, nil)

	got := s.NodesInRect(geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, true, false)
	if len(got) != 1 || got[0].ID != "near" {
		t.Errorf("NodesInRect = %+v, want [near]", got)
	}
}
