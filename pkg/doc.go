// Package pkg provides the core libraries of the flowgrid engine.
//
// # Overview
//
// Flowgrid is the state and geometry engine behind interactive node/edge
// diagram editors: it owns the canonical graph state, resolves nesting and
// viewport transforms, and answers connectivity queries. The pkg directory
// is organized into five areas:
//
//  1. [geometry] - Pure spatial math (rectangles, transforms, viewport fit)
//  2. [flow] - Graph entities, normalization, queries, and edge mutation
//  3. [store] - Store instances, their actions, and the instance registry
//  4. [hooks] - The generic subscribe/trigger event surface
//  5. [snapshot] - The persistence boundary (file, redis, mongo backends)
//
// with [errors] providing the structured error codes shared by all of them.
//
// # Architecture
//
// The typical data flow through flowgrid:
//
//	Raw node/edge descriptions (patches)
//	         ↓
//	    [flow] package (normalize into canonical entities)
//	         ↓
//	    [store] package (instance state + hierarchy + actions)
//	         ↓
//	    [geometry] package (transforms, selection, viewport fit)
//	         ↓
//	    Queries, change events, snapshots
//
// # Quick Start
//
// Create an instance, load a graph, and query it:
//
//	import (
//	    "github.com/flowgridhq/flowgrid/pkg/flow"
//	    "github.com/flowgridhq/flowgrid/pkg/store"
//	)
//
//	registry := store.NewRegistry(nil)
//	st := registry.Resolve("main", nil, store.Options{})
//
//	st.SetNodes([]flow.NodePatch{
//	    {ID: "A", Position: &geometry.XYPosition{X: 0, Y: 0}},
//	    {ID: "B", Position: &geometry.XYPosition{X: 100, Y: 0}},
//	})
//	st.AddEdges([]flow.EdgePatch{{Source: "A", Target: "B"}})
//
//	out := flow.Outgoers("A", st.Nodes(), st.Edges()) // [B]
//
// # Main Packages
//
// [geometry] - Rectangle and bounding-box arithmetic, overlap computation,
// screen/graph coordinate projection, and the viewport-fit transform. All
// functions are pure.
//
// [flow] - The graph model: Node, Edge, Connection, and the patch types raw
// input arrives as. Normalization (ParseNode/ParseEdge), connectivity
// queries (Outgoers, Incomers, ConnectedEdges), deterministic identifier
// derivation (EdgeID, MarkerID), and the add/update edge protocol.
//
// [store] - Store instances: independent graph-state aggregates with
// mutation actions, derived getters, parent-hierarchy resolution, and a
// hook surface. The Registry creates, indexes, and tears down instances.
//
// [hooks] - Generic Hook[T] with On/Once/Off/Trigger, insertion-ordered
// synchronous delivery, and token-based removal.
//
// [snapshot] - Point-in-time exports of instance state with file, redis,
// and mongo backends. The engine never persists on its own; callers drive.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/geometry/...    # Specific package
//
// [geometry]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/geometry
// [flow]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/flow
// [store]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/store
// [hooks]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/hooks
// [snapshot]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/snapshot
// [errors]: https://pkg.go.dev/github.com/flowgridhq/flowgrid/pkg/errors
package pkg
