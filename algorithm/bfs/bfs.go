// Package bfs implements breadth-first traversal as a vertex program: a
// vertex adopts the first parent it hears from and forwards exactly one
// visitation message to every neighbor, grounded on
// original_source/sim/bfs/init.cpp and sim/bfs_applykernel.cpp.
package bfs

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Root is the global vertex BFS starts from.
const Root graph.VertexID = 0

// Data is the per-vertex BFS state.
type Data struct {
	Visited bool
	Parent  graph.VertexID
}

// Program implements vertexprogram.Program for BFS.
type Program struct{}

func (Program) InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph) {
	entry.Data = &Data{}
}

func (Program) Gather(msg *message.Message, entry *vertexentry.Entry, level int) {
	data := entry.Data.(*Data)
	if data.Visited {
		return
	}
	data.Visited = true
	data.Parent = msg.Sender
	entry.Active = true
}

func (Program) Apply(entry *vertexentry.Entry, level int) (message.Payload, bool) {
	if !entry.Active {
		return nil, false
	}
	entry.Active = false
	return nil, true
}

func (Program) Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool) {
	return nil, true
}

// Seeder injects the root's self-visitation message.
type Seeder struct{}

func (Seeder) SendInitMessages(g *graph.Graph, part *graph.Partition, inject func(destPE int, m *message.Message)) {
	rootID := part.Placement(Root)
	destPE := part.PEID(rootID)
	inject(destPE, &message.Message{
		Sender:   rootID,
		DestID:   int64(rootID),
		DestPE:   destPE,
		RoundPar: part.Config().NumChannels - 1,
		Barrier:  false,
		Timestamp: 0,
	})
}
