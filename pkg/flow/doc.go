// Package flow is the graph model of the flowgrid engine: canonical node
// and edge entities, the normalizer that folds raw partial descriptions
// into them, the query layer answering structural questions (reachability,
// connected sets, connection dedup, identifier derivation, cascading
// ancestor selection), and the legacy-compatible edge mutation protocol.
//
// # Normalization
//
// Callers never construct canonical entities directly. They supply
// NodePatch / EdgePatch values, partial descriptions where every field is
// optional, and the normalizer merges them with explicit precedence:
//
//	patch fields > previously stored entity > instance defaults
//
// Fields absent from a patch never erase engine-derived state such as
// measured dimensions, handle bounds, or computed positions. Identifiers
// are always forced to string form, whatever primitive the caller supplied.
//
// # Queries
//
// Queries are pure functions over node and edge slices; they observe
// whatever snapshot the caller passes and never mutate it. Reachability
// comes in two deliberately separate shapes: Outgoers/Incomers take node
// and edge collections and run set-based in O(nodes+edges), while
// ElementList.Outgoers/Incomers scan a mixed element list with linear
// counterpart lookup, matching how legacy callers hold their data.
//
// # Mutation
//
// AddEdge and UpdateEdge implement the collection-edit protocol: they
// validate, dedup, and return the edited collection, reporting misuse
// through structured errors instead of aborting the caller.
package flow
