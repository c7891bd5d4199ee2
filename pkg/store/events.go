package store

import (
	"github.com/flowgridhq/flowgrid/pkg/errors"
	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/hooks"
)

// Events is the hook surface of one store instance: one subscribe/trigger
// pair per event kind. The engine announces expected misuse through Error
// instead of raising, and the render/interaction layer feeds node and edge
// changes back through NodesChange and EdgesChange.
type Events struct {
	// NodesChange carries batches of node change descriptions, typically
	// produced by the interaction layer (drag, select, measure, remove).
	NodesChange *hooks.Hook[[]NodeChange]

	// EdgesChange carries batches of edge change descriptions.
	EdgesChange *hooks.Hook[[]EdgeChange]

	// Connect announces a completed connection gesture. Handlers decide
	// whether to materialize it, usually by calling AddEdges.
	Connect *hooks.Hook[flow.Connection]

	// Error carries structured (code, message) errors for conditions such
	// as "entity not found" that are expected during partial initialization.
	Error *hooks.Hook[*errors.Error]

	// Destroy fires once with the instance identifier when the instance is
	// torn down.
	Destroy *hooks.Hook[string]
}

func newEvents() *Events {
	return &Events{
		NodesChange: hooks.New[[]NodeChange](),
		EdgesChange: hooks.New[[]EdgeChange](),
		Connect:     hooks.New[flow.Connection](),
		Error:       hooks.New[*errors.Error](),
		Destroy:     hooks.New[string](),
	}
}
