// Package message defines the two wire-level envelope types that flow
// through the fabric (Message, Update) and a small FIFO queue helper used
// by every component's input/output queues (spec.md §3, "Message/Update:
// heap-allocated on emission, transferred by move through queues").
package message

import "github.com/nakengelhardt/fpgagraphsim/graph"

// Payload is the opaque, algorithm-defined content carried by a Message or
// Update. VertexProgram implementations define and interpret it; the core
// fabric never inspects it.
type Payload interface{}

// Message is one transport unit moving through Arbiter/Network/PE queues.
type Message struct {
	Sender    graph.VertexID // sending vertex's global id
	DestID    int64          // destination vertex id, or (when Barrier) a count
	DestPE    int
	DestFPGA  int
	RoundPar  int
	Barrier   bool
	Timestamp int
	Payload   Payload
}

// Update is one ApplyKernel output, consumed by ScatterKernel.
type Update struct {
	Sender    graph.VertexID
	RoundPar  int
	Barrier   bool
	Timestamp int
	Payload   Payload
}
