package flow

import (
	"fmt"
	"sort"
	"strings"
)

// direction selects which endpoint of an edge must match the subject when
// collecting connected nodes.
type direction int

const (
	outgoing direction = iota
	incoming
)

// connectedNodes finds all nodes connected to nodeID through edges whose
// matching endpoint is nodeID. It builds the set of connected identifiers
// in one pass over the edges and then filters the node collection, so it
// runs in O(edges + nodes).
func connectedNodes(nodeID string, nodes []Node, edges []Edge, dir direction) []Node {
	connected := make(map[string]struct{})
	for _, e := range edges {
		switch dir {
		case outgoing:
			if e.Source == nodeID {
				connected[e.Target] = struct{}{}
			}
		case incoming:
			if e.Target == nodeID {
				connected[e.Source] = struct{}{}
			}
		}
	}

	var result []Node
	for _, n := range nodes {
		if _, ok := connected[n.ID]; ok {
			result = append(result, n)
		}
	}
	return result
}

// Outgoers returns the distinct nodes reachable from nodeID over one edge,
// following edge direction. Only nodes present in the given collection are
// returned.
func Outgoers(nodeID string, nodes []Node, edges []Edge) []Node {
	return connectedNodes(nodeID, nodes, edges, outgoing)
}

// Incomers returns the distinct nodes with an edge pointing at nodeID.
// Only nodes present in the given collection are returned.
func Incomers(nodeID string, nodes []Node, edges []Edge) []Node {
	return connectedNodes(nodeID, nodes, edges, incoming)
}

// ElementList is a heterogeneous diagram fragment: nodes and edges carried
// together, as callers that work on selections or legacy documents hold
// them. Its traversal methods resolve counterpart nodes by linear lookup
// within the list itself, which is slower than the set-based Outgoers and
// Incomers but matches how mixed lists were historically queried.
type ElementList struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// node returns the node with the given identifier, if present in the list.
func (l ElementList) node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Outgoers scans the list for edges originating at nodeID and resolves each
// target within the list. Targets missing from the list are skipped.
func (l ElementList) Outgoers(nodeID string) []Node {
	var result []Node
	for _, e := range l.Edges {
		if e.Source != nodeID {
			continue
		}
		if n, ok := l.node(e.Target); ok {
			result = append(result, n)
		}
	}
	return result
}

// Incomers scans the list for edges ending at nodeID and resolves each
// source within the list.
func (l ElementList) Incomers(nodeID string) []Node {
	var result []Node
	for _, e := range l.Edges {
		if e.Target != nodeID {
			continue
		}
		if n, ok := l.node(e.Source); ok {
			result = append(result, n)
		}
	}
	return result
}

// ConnectedEdges returns the edges with at least one endpoint in nodeIDs.
// An empty identifier set yields no edges, not an error.
func ConnectedEdges(edges []Edge, nodeIDs ...string) []Edge {
	if len(nodeIDs) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		ids[id] = struct{}{}
	}

	var result []Edge
	for _, e := range edges {
		_, srcOK := ids[e.Source]
		_, dstOK := ids[e.Target]
		if srcOK || dstOK {
			result = append(result, e)
		}
	}
	return result
}

// ConnectedNodes performs a one-step expansion over the edges: starting
// from the identifiers of the given nodes, every edge touching one of them
// contributes its other endpoint to the set. The result is the subset of
// the INPUT nodes whose identifier lands in the expanded set; nodes
// outside the candidate list are never introduced, even when an edge
// reaches them. Callers that need the full neighborhood must pass the full
// node collection.
func ConnectedNodes(nodes []Node, edges []Edge) []Node {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}

	expanded := make(map[string]struct{}, len(ids))
	for _, e := range edges {
		if _, ok := ids[e.Source]; ok {
			expanded[e.Target] = struct{}{}
		}
		if _, ok := ids[e.Target]; ok {
			expanded[e.Source] = struct{}{}
		}
	}

	var result []Node
	for _, n := range nodes {
		if _, ok := expanded[n.ID]; ok {
			result = append(result, n)
		}
	}
	return result
}

// ConnectionExists reports whether some edge already carries the same
// connection tuple: equal source and target, and each handle either exactly
// equal or absent on both sides (absent handles are empty strings, so plain
// equality covers both cases).
func ConnectionExists(conn Connection, edges []Edge) bool {
	for _, e := range edges {
		if e.Source == conn.Source &&
			e.Target == conn.Target &&
			e.SourceHandle == conn.SourceHandle &&
			e.TargetHandle == conn.TargetHandle {
			return true
		}
	}
	return false
}

// EdgeID derives the deterministic identifier for a connection. It is
// stable for identical inputs and distinct whenever any tuple component
// differs; the edge dedup machinery relies on this contract.
func EdgeID(conn Connection) string {
	return fmt.Sprintf("edge-%s%s-%s%s", conn.Source, conn.SourceHandle, conn.Target, conn.TargetHandle)
}

// MarkerID derives a deterministic identifier for an edge marker. A nil
// marker yields the empty string and a marker with an explicit ID passes it
// through unchanged. Otherwise the set fields are serialized as key=value
// pairs, keys sorted ascending, joined by "&". A non-empty flowID prefixes
// the result with "flowID__" so that marker definitions stay unique when
// multiple instances share one document.
func MarkerID(marker *EdgeMarker, flowID string) string {
	if marker == nil {
		return ""
	}
	if marker.ID != "" {
		return marker.ID
	}

	fields := map[string]string{}
	if marker.Type != "" {
		fields["type"] = marker.Type
	}
	if marker.Color != "" {
		fields["color"] = marker.Color
	}
	if marker.Width != 0 {
		fields["width"] = trimFloat(marker.Width)
	}
	if marker.Height != 0 {
		fields["height"] = trimFloat(marker.Height)
	}
	if marker.MarkerUnits != "" {
		fields["markerUnits"] = marker.MarkerUnits
	}
	if marker.Orient != "" {
		fields["orient"] = marker.Orient
	}
	if marker.StrokeWidth != 0 {
		fields["strokeWidth"] = trimFloat(marker.StrokeWidth)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	id := strings.Join(pairs, "&")
	if flowID != "" {
		id = flowID + "__" + id
	}
	return id
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", f), "0"), ".")
}

// IsParentSelected walks the ancestor chain of node through repeated find
// lookups and reports whether any ancestor is selected. A broken chain
// (missing parent) ends the walk. A cyclic parent chain is treated as "no
// ancestor selected" rather than looping forever: every visited identifier
// is recorded and revisiting one stops the traversal.
func IsParentSelected(node *Node, find func(id string) (*Node, bool)) bool {
	if node == nil {
		return false
	}

	visited := map[string]struct{}{node.ID: {}}
	for node.ParentID != "" {
		parent, ok := find(node.ParentID)
		if !ok || parent == nil {
			return false
		}
		if _, seen := visited[parent.ID]; seen {
			return false
		}
		if parent.Selected {
			return true
		}
		visited[parent.ID] = struct{}{}
		node = parent
	}
	return false
}
