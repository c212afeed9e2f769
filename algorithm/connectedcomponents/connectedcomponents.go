// Package connectedcomponents implements min-label propagation: every
// vertex starts labeled with its own id and adopts the smallest label it
// ever hears, forwarding a change to every neighbor, grounded on
// original_source/sim/cc/init.cpp and sim/cc_user_def.h.
package connectedcomponents

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Data is the per-vertex connected-components state.
type Data struct {
	Label graph.VertexID
}

// Program implements vertexprogram.Program for connected components.
type Program struct{}

func (Program) InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph) {
	entry.Data = &Data{Label: v}
	entry.Active = true
}

func (Program) Gather(msg *message.Message, entry *vertexentry.Entry, level int) {
	data := entry.Data.(*Data)
	candidate := graph.VertexID(msg.Payload.(int64))
	if candidate < data.Label {
		data.Label = candidate
		entry.Active = true
	}
}

func (Program) Apply(entry *vertexentry.Entry, level int) (message.Payload, bool) {
	if !entry.Active {
		return nil, false
	}
	entry.Active = false
	return int64(entry.Data.(*Data).Label), true
}

func (Program) Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool) {
	return update.Payload, true
}

// Seeder is a no-op: every vertex starts Active from InitVertex, so the
// first barrier sweep alone is enough to broadcast every vertex's own
// label to its neighbors.
type Seeder struct{}

func (Seeder) SendInitMessages(g *graph.Graph, part *graph.Partition, inject func(destPE int, m *message.Message)) {
}
