package applykernel

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
	"github.com/nakengelhardt/fpgagraphsim/vertexprogram"
)

// FusedKernel implements the gather+apply fused delivery mode (spec.md
// §4.2 mode (b)): every incoming message triggers both gather and an
// immediate, optional Update — grounded on
// original_source/sim/tri_hw/applykernel.cpp's relay protocol.
type FusedKernel struct {
	peID    int
	cfg     graph.Config
	part    *graph.Partition
	program vertexprogram.FusedProgram

	entries []vertexentry.Entry

	inputQ  message.Queue[inputItem]
	outputQ message.Queue[*message.Update]

	level int
}

// NewFused constructs a FusedKernel the same way New constructs a Kernel.
func NewFused(peID int, numVertices int64, cfg graph.Config, g *graph.Graph, part *graph.Partition, program vertexprogram.FusedProgram) *FusedKernel {
	k := &FusedKernel{
		peID:    peID,
		cfg:     cfg,
		part:    part,
		program: program,
		entries: make([]vertexentry.Entry, numVertices),
	}
	for i := int64(0); i < numVertices; i++ {
		vertex := part.OriginOf(peID, graph.VertexID(i))
		if vertex >= 0 && int64(vertex) < g.NV {
			k.entries[i].GlobalID = part.Placement(vertex)
			program.InitVertex(&k.entries[i], vertex, g)
		}
	}
	return k
}

// VertexEntry returns the local slot for a placed VertexID owned by this PE.
func (k *FusedKernel) VertexEntry(vertex graph.VertexID) *vertexentry.Entry {
	return &k.entries[k.part.LocalID(vertex)]
}

// QueueInput pushes one incoming message and immediately ticks it through
// GatherApply.
func (k *FusedKernel) QueueInput(msg *message.Message, vertex *vertexentry.Entry, level int) {
	k.inputQ.Push(inputItem{msg: msg, vertex: vertex, level: level})
	k.tick()
}

func (k *FusedKernel) tick() {
	head, ok := k.inputQ.Peek()
	if !ok {
		return
	}
	head.vertex.InUse = true
	payload, emit := k.program.GatherApply(head.msg, head.vertex, head.level)
	head.vertex.InUse = false
	k.inputQ.Pop()

	if emit {
		k.outputQ.Push(&message.Update{
			Sender:    head.vertex.GlobalID,
			RoundPar:  (head.msg.RoundPar + 1) % k.cfg.NumChannels,
			Barrier:   false,
			Timestamp: head.msg.Timestamp,
			Payload:   payload,
		})
	}
}

// GetUpdate ticks once more and pops one pending Update if available.
func (k *FusedKernel) GetUpdate() *message.Update {
	k.tick()
	upd, ok := k.outputQ.Pop()
	if !ok {
		return nil
	}
	return upd
}

// Barrier drains any residual input, then presents the barrier message
// itself to every vertex's GatherApply — letting algorithms like triangle
// counting's relay protocol use the barrier as the scheduled trigger for
// a vertex's one-shot initial broadcast — before pushing a barrier Update
// through, matching the streaming Kernel's contract so PE can treat both
// uniformly.
func (k *FusedKernel) Barrier(bm *message.Message) error {
	for !k.inputQ.Empty() {
		k.tick()
	}

	outRound := (bm.RoundPar + 1) % k.cfg.NumChannels
	for i := range k.entries {
		v := &k.entries[i]
		if !v.Valid() {
			continue
		}
		payload, emit := k.program.GatherApply(bm, v, k.level)
		if emit {
			k.outputQ.Push(&message.Update{
				Sender:    v.GlobalID,
				RoundPar:  outRound,
				Barrier:   false,
				Timestamp: bm.Timestamp,
				Payload:   payload,
			})
		}
	}

	k.outputQ.Push(&message.Update{
		Sender:   graph.VertexID(k.peID) << k.cfg.PEIDShift,
		RoundPar: outRound,
		Barrier:  true,
	})
	k.level++
	return nil
}
