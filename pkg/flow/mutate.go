package flow

import (
	"github.com/flowgridhq/flowgrid/pkg/errors"
)

// AddEdge validates and appends a new edge described by params to the
// collection. Source and target are required; when either is missing the
// collection is returned unchanged together with an INVALID_EDGE error that
// callers report through their warning channel. A connection that already
// exists is a normal idempotence case: the collection is returned unchanged
// with no error. The identifier is taken from params when supplied and
// derived with EdgeID otherwise.
func AddEdge(params EdgePatch, edges []Edge, defaults DefaultEdgeOptions) ([]Edge, error) {
	if params.Source == "" || params.Target == "" {
		return edges, errors.New(errors.ErrCodeInvalidEdge,
			"can't create edge: an edge needs a source and a target")
	}

	edge := ParseEdge(params, nil, defaults)
	if edge.ID == "" {
		edge.ID = EdgeID(edge.Connection())
	}

	if ConnectionExists(edge.Connection(), edges) {
		return edges, nil
	}
	return append(edges, edge), nil
}

// UpdateEdge moves an existing edge onto a new connection. The replacement
// carries every other field of the old edge but the new connection's
// endpoints, handles, and derived identifier, and is spliced in at the old
// edge's position. Every edge still carrying the OLD identifier is removed,
// defending against identifier collisions introduced by the rename; an
// unrelated edge that already carries the NEW identifier is left alone.
//
// The new source and target must be non-empty and the old edge must exist
// in the collection by identifier; on either failure the collection is
// returned unchanged with a structured error.
func UpdateEdge(oldEdge Edge, conn Connection, edges []Edge) ([]Edge, error) {
	if conn.Source == "" || conn.Target == "" {
		return edges, errors.New(errors.ErrCodeInvalidEdge,
			"can't update edge: an edge needs a source and a target")
	}

	index := -1
	for i, e := range edges {
		if e.ID == oldEdge.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return edges, errors.New(errors.ErrCodeEdgeNotFound,
			"can't update edge: edge %q does not exist", oldEdge.ID)
	}

	replacement := oldEdge
	replacement.ID = EdgeID(conn)
	replacement.Source = conn.Source
	replacement.Target = conn.Target
	replacement.SourceHandle = conn.SourceHandle
	replacement.TargetHandle = conn.TargetHandle

	result := make([]Edge, 0, len(edges))
	for i, e := range edges {
		if i == index {
			result = append(result, replacement)
			continue
		}
		if e.ID == oldEdge.ID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
