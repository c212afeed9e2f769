package applykernel

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

// Interface is satisfied by both Kernel (streaming gather + barrier apply)
// and FusedKernel (gather+apply fused), letting pe.Wrapper drive either
// delivery mode uniformly.
type Interface interface {
	VertexEntry(vertex graph.VertexID) *vertexentry.Entry
	QueueInput(msg *message.Message, vertex *vertexentry.Entry, level int)
	GetUpdate() *message.Update
	Barrier(bm *message.Message) error
}

var (
	_ Interface = (*Kernel)(nil)
	_ Interface = (*FusedKernel)(nil)
)
