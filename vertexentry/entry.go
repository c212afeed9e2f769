// Package vertexentry defines the per-PE vertex-state slot that ApplyKernel
// owns exclusively. It is the Go-idiomatic replacement for the original
// simulator's raw VertexEntry* pointer lifetime (spec.md §9): entries live
// in a dense array owned by the PE's ApplyKernel and are referenced by
// local index, never shared.
package vertexentry

import "github.com/nakengelhardt/fpgagraphsim/graph"

// Entry is one local vertex slot on a PE.
type Entry struct {
	// GlobalID is the placed VertexID this slot represents, or 0 if the
	// slot is unused (dense local-index padding beyond the real vertex
	// count for this PE).
	GlobalID graph.VertexID

	// InUse is the mutual-exclusion token: true iff there is exactly one
	// outstanding gather in flight for this vertex (spec.md I5).
	InUse bool

	// Active indicates the vertex should be included in the next apply
	// sweep (spec.md I4).
	Active bool

	// Data is the opaque, algorithm-defined payload (parent, dist, color,
	// sum/nrecvd/nneighbors, triangle counters, ...).
	Data interface{}
}

// Valid reports whether this slot corresponds to a real graph vertex
// (GlobalID 0 is the reserved sentinel, see graph.Partition).
func (e *Entry) Valid() bool {
	return e.GlobalID != 0
}
