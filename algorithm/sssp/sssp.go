// Package sssp implements single-source shortest paths over randomly
// weighted edges: a vertex adopts the shortest distance it ever hears and
// relaxes every out-edge by that edge's weight, grounded on
// original_source/sim/sssp/init.cpp, sim/sssp_applykernel.cpp and
// sim/sssp_scatterkernel.cpp.
package sssp

import (
	"math/rand"

	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Root is the global vertex distances are measured from.
const Root graph.VertexID = 0

// Infinite marks a vertex not yet reached.
const Infinite int64 = 1<<63 - 1

// MinWeight and MaxWeight bound the inclusive range of randomly assigned
// edge weights.
const (
	MinWeight = 1
	MaxWeight = 10
)

// weightRNG is seeded with a fixed constant so edge weights are
// reproducible across runs of the same graph; the simulator is
// single-threaded, so a shared source is safe.
var weightRNG = rand.New(rand.NewSource(1))

var weightCache = map[[2]graph.VertexID]int64{}

// WeightOf returns the (deterministically assigned, cached) weight of the
// edge from src to dst.
func WeightOf(src, dst graph.VertexID) int64 {
	key := [2]graph.VertexID{src, dst}
	if w, ok := weightCache[key]; ok {
		return w
	}
	w := int64(MinWeight + weightRNG.Intn(MaxWeight-MinWeight+1))
	weightCache[key] = w
	return w
}

// Data is the per-vertex SSSP state.
type Data struct {
	Dist int64
}

// Program implements vertexprogram.Program for SSSP.
type Program struct{}

func (Program) InitVertex(entry *vertexentry.Entry, v graph.VertexID, g *graph.Graph) {
	dist := Infinite
	if v == Root {
		dist = 0
	}
	entry.Data = &Data{Dist: dist}
	entry.Active = v == Root
}

func (Program) Gather(msg *message.Message, entry *vertexentry.Entry, level int) {
	data := entry.Data.(*Data)
	candidate := msg.Payload.(int64)
	if candidate < data.Dist {
		data.Dist = candidate
		entry.Active = true
	}
}

func (Program) Apply(entry *vertexentry.Entry, level int) (message.Payload, bool) {
	if !entry.Active {
		return nil, false
	}
	entry.Active = false
	return entry.Data.(*Data).Dist, true
}

func (Program) Scatter(update *message.Update, edge graph.Edge, numNeighbors int64) (message.Payload, bool) {
	dist := update.Payload.(int64)
	return dist + WeightOf(update.Sender, edge.DestID), true
}

// Seeder injects the root's zero-distance self-announcement.
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
		Payload:  int64(0),
	})
}
