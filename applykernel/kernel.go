// Package applykernel implements the per-PE vertex-state store: streaming
// gather of incoming messages, barrier-triggered apply sweeps, and Update
// emission (spec.md §4.3).
package applykernel

import (
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
	"github.com/nakengelhardt/fpgagraphsim/vertexprogram"
)

// ErrGatherWritebackOrphan is a kernel-state anomaly (diagnostic, non-fatal):
// a gather writeback targeted a vertex not currently marked in_use.
var ErrGatherWritebackOrphan = xerrors.New("gather writeback to vertex not in use")

// ErrStillInUseAtBarrier is a kernel-state anomaly: the barrier sweep found
// a vertex still marked in_use.
var ErrStillInUseAtBarrier = xerrors.New("vertex still marked in_use at barrier sweep")

type inputItem struct {
	msg    *message.Message
	vertex *vertexentry.Entry
	level  int
}

// Kernel implements the streaming-gather, barrier-apply delivery mode
// (spec.md §4.2 mode (a)), grounded on
// original_source/sim/core/baseapplykernel.cpp and swkernel/swapplykernel.cpp.
type Kernel struct {
	peID    int
	cfg     graph.Config
	g       *graph.Graph
	part    *graph.Partition
	program vertexprogram.Program

	entries []vertexentry.Entry // dense, local-id ordered

	inputQ  message.Queue[inputItem]
	outputQ message.Queue[*message.Update]

	numInUseGather int
	level          int
}

// New constructs a Kernel owning numVertices local slots for peID, seeded
// by program.InitVertex for every slot whose global vertex exists in g.
func New(peID int, numVertices int64, cfg graph.Config, g *graph.Graph, part *graph.Partition, program vertexprogram.Program) *Kernel {
	k := &Kernel{
		peID:    peID,
		cfg:     cfg,
		g:       g,
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
func (k *Kernel) VertexEntry(vertex graph.VertexID) *vertexentry.Entry {
	return &k.entries[k.part.LocalID(vertex)]
}

// QueueInput pushes one incoming message onto the gather input queue and
// runs one gather tick (spec.md §4.3, queue_input).
func (k *Kernel) QueueInput(msg *message.Message, vertex *vertexentry.Entry, level int) {
	k.inputQ.Push(inputItem{msg: msg, vertex: vertex, level: level})
	k.gatherTick()
}

// GetUpdate runs one gather tick, then pops one pending Update if available
// (spec.md §4.3, get_update).
func (k *Kernel) GetUpdate() *message.Update {
	k.gatherTick()
	upd, ok := k.outputQ.Pop()
	if !ok {
		return nil
	}
	return upd
}

// gatherTick implements the gather-tick semantics of spec.md §4.3: attempt
// to check out the head input's vertex; stall if it is already in_use.
func (k *Kernel) gatherTick() {
	head, ok := k.inputQ.Peek()
	if !ok {
		return
	}
	if head.vertex.InUse {
		return // stall: concurrent gather in flight for this vertex
	}

	head.vertex.InUse = true
	k.numInUseGather++
	k.program.Gather(head.msg, head.vertex, head.level)
	// Writeback: in the pure software model check-out and writeback occur
	// within the same tick (spec.md §4.3).
	k.numInUseGather--
	head.vertex.InUse = false

	k.inputQ.Pop()
}

// Barrier drains all in-flight gathers, sweeps every vertex in local-id
// order applying active ones, and pushes a synthetic apply-barrier Update
// after the sweep (spec.md §4.3, barrier). It returns any accumulated
// kernel-state anomalies as non-fatal diagnostics.
func (k *Kernel) Barrier(bm *message.Message) error {
	for !k.inputQ.Empty() {
		k.gatherTick()
	}

	var diagnostics error
	outRound := (bm.RoundPar + 1) % k.cfg.NumChannels

	for i := range k.entries {
		v := &k.entries[i]
		if !v.Active {
			continue
		}
		if v.InUse {
			diagnostics = multierror.Append(diagnostics, xerrors.Errorf("vertex %d: %w", v.GlobalID, ErrStillInUseAtBarrier))
		}
		payload, ok := k.program.Apply(v, k.level)
		if ok {
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
		Sender:    graph.VertexID(k.peID) << k.cfg.PEIDShift,
		RoundPar:  outRound,
		Barrier:   true,
		Timestamp: bm.Timestamp,
	})
	k.level++

	return diagnostics
}

// NumInUseGather reports the number of gathers currently checked out
// in-flight (always 0 between ticks in the software model; observable
// mid-tick for diagnostics and tests).
func (k *Kernel) NumInUseGather() int { return k.numInUseGather }
