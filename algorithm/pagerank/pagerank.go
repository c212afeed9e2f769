// Package pagerank implements bulk-synchronous PageRank: every vertex
// accumulates incoming rank contributions, applies the damped update with
// a uniform teleport term, and redistributes its new rank evenly across
// its out-edges, grounded on original_source/sim/pr/init.cpp and
// sim/pr_user_def.h.
package pagerank

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Damping is PageRank's standard damping factor; its complement is the
// teleport mass, distributed uniformly across all vertices (Data.Teleport).
const Damping = 0.85

// MaxIterations bounds the power iteration; PageRank has no natural
// zero-message termination, so Apply stops emitting once reached.
const MaxIterations = 30

// Data is the per-vertex PageRank state.
type Data struct {
	Rank      float64
	Accum     float64
	Teleport  float64
	Iteration int
}

// Program implements vertexprogram.Program for PageRank.
type Program struct{}

func (Program) InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph) {
	nv := float64(g.NV)
	entry.Data = &Data{
		Rank:     1.0 / nv,
		Teleport: (1.0 - Damping) / nv,
	}
	entry.Active = true
}

func (Program) Gather(msg *message.Message, entry *vertexentry.Entry, level int) {
	data := entry.Data.(*Data)
	data.Accum += msg.Payload.(float64)
	entry.Active = true
}

func (Program) Apply(entry *vertexentry.Entry, level int) (message.Payload, bool) {
	data := entry.Data.(*Data)
	if !entry.Active || data.Iteration >= MaxIterations {
		return nil, false
	}
	data.Rank = data.Teleport + Damping*data.Accum
	data.Accum = 0
	data.Iteration++
	entry.Active = false
	return data.Rank, true
}

func (Program) Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool) {
	if numNeighbors == 0 {
		return nil, false
	}
	rank := update.Payload.(float64)
	return rank / float64(numNeighbors), true
}

// Seeder injects every vertex's initial rank contribution to itself,
// since PageRank's first gather round needs a message in flight for
// every vertex, including ones with no in-edges yet.
type Seeder struct{}

func (Seeder) SendInitMessages(g *graph.Graph, part *graph.Partition, inject func(destPE int, m *message.Message)) {
	for v := graph.VertexID(0); v < graph.VertexID(g.NV); v++ {
		placed := part.Placement(v)
		destPE := part.PEID(placed)
		inject(destPE, &message.Message{
			Sender:   placed,
			DestID:   int64(placed),
			DestPE:   destPE,
			RoundPar: part.Config().NumChannels - 1,
			Barrier:  false,
			Payload:  1.0 / float64(g.NV),
		})
	}
}
