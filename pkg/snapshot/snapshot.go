// Package snapshot is the persistence boundary of the flowgrid engine.
//
// The engine itself never performs I/O: callers export a Snapshot from a
// store instance, hand it to one of the backends here, and later restore
// it. Backends exist for different deployments:
//   - file: JSON documents in a directory, for CLI usage
//   - redis: shared snapshots for multi-instance deployments
//   - mongo: durable document storage
//
// All backends implement the same Store interface and report a missing
// snapshot with ErrNotFound.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// ErrNotFound is returned when no snapshot exists under the requested
// identifier.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a point-in-time export of one store instance: its canonical
// node and edge collections and its viewport transform.
type Snapshot struct {
	ID        string             `json:"id" bson:"_id"`
	Nodes     []flow.Node        `json:"nodes" bson:"nodes"`
	Edges     []flow.Edge        `json:"edges" bson:"edges"`
	Transform geometry.Transform `json:"transform" bson:"transform"`
	TakenAt   time.Time          `json:"takenAt" bson:"takenAt"`
}

// Store is the interface persistence backends implement.
type Store interface {
	// Save stores or replaces the snapshot under its identifier.
	Save(ctx context.Context, snap *Snapshot) error

	// Load retrieves a snapshot by instance identifier.
	// Returns ErrNotFound when it does not exist.
	Load(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot is a no-op.
	Delete(ctx context.Context, id string) error
}
