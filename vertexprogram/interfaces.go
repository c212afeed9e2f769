// Package vertexprogram defines the pluggable algorithm capability trait
// that the core fabric is built over (spec.md §4.2, §9 "Polymorphism over
// algorithms"). Algorithms hold no protocol state of their own; they read
// and write VertexEntry.Data, Message.Payload, and Update.Payload only.
package vertexprogram

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Scatterer produces messages from updates, shared by both delivery
// modes so ScatterKernel can depend on it without caring which one
// produced the Update.
type Scatterer interface {
	// Scatter produces at most one Message payload per out-edge per
	// update. The second return value is false to suppress the message
	// (e.g. degree-ordering predicates in triangle counting).
	Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool)
}

// Program is implemented by every vertex-centric algorithm using the
// streaming-gather, barrier-apply delivery mode (BFS, SSSP, PageRank,
// Connected Components).
type Program interface {
	Scatterer

	// InitVertex performs one-shot initialization of entry for global
	// vertex v at PE construction time.
	InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph)

	// Gather folds one incoming message into vertex state. It may set
	// entry.Active to request participation in the next apply sweep.
	Gather(msg *message.Message, entry *vertexentry.Entry, level int)

	// Apply produces at most one Update payload per vertex per superstep
	// and must reset any accumulator state it consumed. The second return
	// value is false if no Update should be emitted for this vertex.
	Apply(entry *vertexentry.Entry, level int) (message.Payload, bool)
}

// FusedProgram is implemented by algorithms using the gather+apply fused
// delivery mode (spec.md §4.2 mode (b)): every incoming message triggers
// both gather and an immediate, optional update — used by triangle
// counting's relay protocol.
type FusedProgram interface {
	Scatterer

	// InitVertex performs one-shot initialization, as Program.InitVertex.
	InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph)

	// GatherApply folds msg into entry and immediately produces at most
	// one Update payload.
	GatherApply(msg *message.Message, entry *vertexentry.Entry, level int) (message.Payload, bool)
}

// Seeder is implemented by algorithms that inject one or more initial
// messages before the first superstep (spec.md §4.8, send_init_messages).
type Seeder interface {
	// SendInitMessages calls inject once per seed message, addressed to
	// the PE owning the placed destination vertex.
	SendInitMessages(g *graph.Graph, part *graph.Partition, inject func(destPE int, m *message.Message))
}
