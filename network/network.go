// Package network implements the inter-PE messaging fabric: one hop per
// tick, fully connected inside an FPGA and one hop to cross to another,
// barrier fan-out with exact per-destination counts, and one Arbiter per
// destination PE (spec.md §4.7), grounded verbatim on
// original_source/sim/core/network.cpp.
package network

import (
	"github.com/nakengelhardt/fpgagraphsim/arbiter"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
)

// Network carries messages from every source PE to its destination PE's
// Arbiter, one hop per tick.
type Network struct {
	cfg  graph.Config
	part *graph.Partition

	arbiters []*arbiter.Arbiter

	fpgaReceiveQ []message.Queue[*message.Message]

	msgsSent [][]int64

	interFPGATransports int64
	numMessagesSent      int64
}

// New constructs a Network for cfg.NumPE PEs spread over cfg.NumFPGA
// FPGAs, with one Arbiter per destination PE.
func New(cfg graph.Config, part *graph.Partition) *Network {
	n := &Network{
		cfg:          cfg,
		part:         part,
		arbiters:     make([]*arbiter.Arbiter, cfg.NumPE),
		fpgaReceiveQ: make([]message.Queue[*message.Message], cfg.NumFPGA),
		msgsSent:     make([][]int64, cfg.NumPE),
	}
	for p := 0; p < cfg.NumPE; p++ {
		n.arbiters[p] = arbiter.New(p, cfg)
		n.msgsSent[p] = make([]int64, cfg.NumPE)
	}
	return n
}

// PutMessageAt admits one outbound message from PE i. A barrier message
// fans out into one barrier message per destination PE, each carrying
// that pair's exact sent-message count, after which the pair counter
// resets; a regular message is routed by its placed destination.
func (n *Network) PutMessageAt(i int, m *message.Message) {
	n.numMessagesSent++

	if m.Barrier {
		for j := 0; j < n.cfg.NumPE; j++ {
			bm := &message.Message{
				Sender:   graph.VertexID(i) << n.cfg.PEIDShift,
				DestID:   n.msgsSent[i][j],
				DestPE:   j,
				DestFPGA: 0,
				RoundPar: m.RoundPar,
				Barrier:  true,
			}
			n.transportOneHop(i, j, bm)
			n.msgsSent[i][j] = 0
		}
		return
	}

	destPE := m.DestPE
	n.msgsSent[i][destPE]++
	n.transportOneHop(i, destPE, m)
}

// transportOneHop delivers message straight to destPE's Arbiter if current
// and destPE share an FPGA, otherwise stages it on that FPGA's inbound
// queue for one extra tick of cross-FPGA transport.
func (n *Network) transportOneHop(current, destPE int, m *message.Message) {
	if n.part.FPGAOf(current) == n.part.FPGAOf(destPE) {
		n.arbiters[destPE].PutMessage(m)
	} else {
		n.fpgaReceiveQ[n.part.FPGAOf(destPE)].Push(m)
		n.interFPGATransports++
	}
}

// Tick advances every message that crossed into an FPGA on a prior
// PutMessageAt by its final hop to the destination Arbiter. PE i is taken
// as that FPGA's representative endpoint, matching the round-robin
// placement where FPGA i is always reachable in one hop from PE i.
func (n *Network) Tick() {
	for i := 0; i < n.cfg.NumFPGA; i++ {
		if m, ok := n.fpgaReceiveQ[i].Pop(); ok {
			n.transportOneHop(i, m.DestPE, m)
		}
	}
}

// GetMessageAt pops the next message deliverable to PE i, or nil.
func (n *Network) GetMessageAt(i int) *message.Message {
	return n.arbiters[i].GetMessage()
}

// NumMessagesSent reports the cumulative count of messages submitted via
// PutMessageAt (diagnostics).
func (n *Network) NumMessagesSent() int64 { return n.numMessagesSent }

// InterFPGATransports reports the cumulative count of hops that crossed
// an FPGA boundary (diagnostics).
func (n *Network) InterFPGATransports() int64 { return n.interFPGATransports }
