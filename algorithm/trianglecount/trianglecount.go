// Package trianglecount implements triangle counting via the relay
// protocol: every vertex broadcasts itself as an origin token to
// neighbors of no higher degree (equal-degree ties go to the neighbor with
// the higher id), the token relays through
// exactly two hops, and a token that returns to its origin on the third
// hop closes a triangle, grounded verbatim on
// original_source/sim/tri/applykernel.cpp, sim/tri/scatterkernel.cpp and
// sim/tri/init.cpp.
package trianglecount

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Payload is the relay token carried by both Messages and Updates.
type Payload struct {
	Origin graph.VertexID
	Via1   graph.VertexID
	Via2   graph.VertexID
	Hops   int
}

// Data is the per-vertex triangle-counting state.
type Data struct {
	NumTriangles int
	SendInLevel  int
	Active       bool
}

// maxEdgesPerBatch caps how many out-edges worth of initial broadcasts
// are scheduled into the same barrier level, spreading heavy-degree
// vertices' broadcasts across consecutive supersteps.
const maxEdgesPerBatch = 1024

// scheduler assigns each InitVertex call a send-in level, batching
// vertices by cumulative out-degree. It must be reset per run since it
// carries state across InitVertex calls in graph-scan order.
type scheduler struct {
	round           int
	edgesThisRound  int64
}

func newScheduler() *scheduler { return &scheduler{} }

func (s *scheduler) levelFor(numNeighbors int64) int {
	if numNeighbors > maxEdgesPerBatch-s.edgesThisRound {
		s.round++
		s.edgesThisRound = 0
	}
	level := s.round
	s.edgesThisRound += numNeighbors
	return level
}

// Program implements vertexprogram.FusedProgram for triangle counting.
// A fresh Program must be constructed per run: InitVertex is called once
// per PE's local vertex slots during construction, in ascending local-id
// order, and schedules each vertex's one-shot broadcast.
type Program struct {
	sched *scheduler
	seen  []*Data
}

// New constructs a triangle-counting Program with its own scheduling
// state.
func New() *Program { return &Program{sched: newScheduler()} }

func (p *Program) InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph) {
	n := g.NumNeighbors(v)
	data := &Data{SendInLevel: p.sched.levelFor(n), Active: true}
	entry.Data = data
	p.seen = append(p.seen, data)
}

// TotalTriangles sums the triangle count found across every vertex this
// Program has initialized, once the run has completed.
func (p *Program) TotalTriangles() int {
	total := 0
	for _, d := range p.seen {
		total += d.NumTriangles
	}
	return total
}

func (p *Program) GatherApply(msg *message.Message, entry *vertexentry.Entry, level int) (message.Payload, bool) {
	data := entry.Data.(*Data)

	if !msg.Barrier {
		tok := msg.Payload.(Payload)
		switch {
		case tok.Hops < 2:
			if tok.Hops == 0 {
				tok.Via1 = entry.GlobalID
			}
			if tok.Hops == 1 {
				tok.Via2 = entry.GlobalID
			}
			tok.Hops++
			return tok, true
		case tok.Hops == 2:
			if tok.Origin == entry.GlobalID {
				data.NumTriangles++
			}
		}
		return nil, false
	}

	if data.Active && level == data.SendInLevel {
		data.Active = false
		return Payload{Origin: entry.GlobalID, Hops: 0}, true
	}
	return nil, false
}

func (p *Program) Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool) {
	tok := update.Payload.(Payload)
	destDegree := edge.DestDegree

	if tok.Hops < 2 {
		if destDegree < 2 {
			return nil, false
		}
		if numNeighbors < destDegree {
			return nil, false
		}
		if numNeighbors == destDegree && update.Sender > edge.DestID {
			return nil, false
		}
		if edge.DestID == tok.Origin {
			return nil, false
		}
	} else if edge.DestID != tok.Origin {
		return nil, false
	}

	return tok, true
}

// Seeder is a no-op: every vertex's broadcast is scheduled by InitVertex
// and fires on the barrier matching its SendInLevel.
type Seeder struct{}

func (Seeder) SendInitMessages(g *graph.Graph, part *graph.Partition, inject func(destPE int, m *message.Message)) {
}
