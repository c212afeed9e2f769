// Package scatterkernel implements the per-PE edge fan-out stage: it turns
// one Update into one Message per out-edge (spec.md §4.4), grounded on
// original_source/sim/core/scatter.cpp and swkernel/swscatterkernel.cpp.
package scatterkernel

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexprogram"
)

// inputItem is one (update, edge) pair queued for scatter, plus whether it
// is the last edge for this update (so the update can be retired).
type inputItem struct {
	update       *message.Update
	edge         graph.Edge
	numNeighbors int64
	last         bool
}

// Kernel converts Updates addressed to a local vertex into outbound
// Messages, one per out-edge, or passes a barrier Update through as a
// single barrier Message.
type Kernel struct {
	cfg     graph.Config
	g       *graph.Graph
	part    *graph.Partition
	program vertexprogram.Scatterer

	inputQ  message.Queue[inputItem]
	outputQ message.Queue[*message.Message]
}

// New constructs a Kernel for one PE's out-edge fan-out.
func New(cfg graph.Config, g *graph.Graph, part *graph.Partition, program vertexprogram.Scatterer) *Kernel {
	return &Kernel{cfg: cfg, g: g, part: part, program: program}
}

// QueueUpdate expands update into one inputItem per out-edge of its
// sender, or a single barrier item, and runs one scatter tick.
func (k *Kernel) QueueUpdate(update *message.Update) {
	if update.Barrier {
		k.inputQ.Push(inputItem{update: update, last: true})
		k.tick()
		return
	}

	origin := k.part.Origin(update.Sender)
	n := k.g.NumNeighbors(origin)
	if n == 0 {
		// No out-edges: nothing to scatter, but the update is still
		// consumed (matches original_source's zero-degree short circuit).
		return
	}
	for i := int64(0); i < n; i++ {
		edge := k.g.Neighbor(origin, i)
		edge.DestID = k.part.Placement(edge.DestID)
		k.inputQ.Push(inputItem{
			update:       update,
			edge:         edge,
			numNeighbors: n,
			last:         i == n-1,
		})
	}
	k.tick()
}

func (k *Kernel) tick() {
	head, ok := k.inputQ.Peek()
	if !ok {
		return
	}
	k.inputQ.Pop()

	if head.update.Barrier {
		k.outputQ.Push(&message.Message{
			Sender:    head.update.Sender,
			RoundPar:  head.update.RoundPar,
			Barrier:   true,
			Timestamp: head.update.Timestamp,
		})
		return
	}

	payload, emit := k.program.Scatter(head.update, head.edge, head.numNeighbors)
	if !emit {
		return
	}

	destID := head.edge.DestID
	destPE := k.part.PEID(destID)
	k.outputQ.Push(&message.Message{
		Sender:    head.update.Sender,
		DestID:    int64(destID),
		DestPE:    destPE,
		DestFPGA:  k.part.FPGAOf(destPE),
		RoundPar:  head.update.RoundPar,
		Barrier:   false,
		Timestamp: head.update.Timestamp,
		Payload:   payload,
	})
}

// GetMessage ticks once more and pops one pending Message if available.
func (k *Kernel) GetMessage() *message.Message {
	k.tick()
	msg, ok := k.outputQ.Pop()
	if !ok {
		return nil
	}
	return msg
}

// Pending reports whether the kernel still holds queued work (used by the
// PE to decide whether it can accept the next Update before draining).
func (k *Kernel) Pending() bool { return !k.inputQ.Empty() || !k.outputQ.Empty() }
