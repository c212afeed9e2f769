// Package arbiter implements the per-destination-PE message arbiter: it
// buffers messages by channel (roundpar), tracks how many non-barrier
// messages each source PE advertises versus how many it has delivered,
// and synthesizes one barrier message once every source has matched its
// advertised count (spec.md §4.6), grounded verbatim on
// original_source/sim/arbiter.cpp and sim/core/arbiter.cpp.
package arbiter

import (
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
)

// Arbiter serializes messages destined for one PE, enforcing that a
// barrier from source PE i is only released once i's advertised
// non-barrier message count has actually been received.
type Arbiter struct {
	peID        int
	numPE       int
	numChannels int
	peIDShift   uint

	barrierSeen []bool
	advertised  []int64
	received    []int64

	currentRound int

	deferredQ message.Queue[*message.Message]
	outputQ   message.Queue[*message.Message]
}

// New constructs an Arbiter feeding PE peID, tracking numPE sources across
// numChannels roundpar lanes. cfg supplies the PEID_SHIFT used to recover
// a message's originating PE from its sender field.
func New(peID int, cfg graph.Config) *Arbiter {
	return &Arbiter{
		peID:        peID,
		numPE:       cfg.NumPE,
		numChannels: cfg.NumChannels,
		peIDShift:   cfg.PEIDShift,
		barrierSeen: make([]bool, cfg.NumPE),
		advertised:  make([]int64, cfg.NumPE),
		received:    make([]int64, cfg.NumPE),
	}
}

// PutMessage admits one message (or nil) from the network. Messages whose
// roundpar does not match the current round are held on a deferred queue
// until the round advances to them.
func (a *Arbiter) PutMessage(m *message.Message) {
	if m == nil {
		return
	}
	if m.RoundPar != a.currentRound {
		a.deferredQ.Push(m)
		return
	}
	a.admit(a.srcPEOf(m), m)
	a.tryReleaseBarrier()
}

func (a *Arbiter) admit(srcPE int, m *message.Message) {
	if m.Barrier {
		a.barrierSeen[srcPE] = true
		a.advertised[srcPE] = m.DestID
		return
	}
	a.received[srcPE]++
	a.outputQ.Push(m)
}

func (a *Arbiter) tryReleaseBarrier() {
	for i := 0; i < a.numPE; i++ {
		if !a.barrierSeen[i] || a.advertised[i] != a.received[i] {
			return
		}
	}

	a.outputQ.Push(&message.Message{
		Sender:   graph.VertexID(a.peID) << a.peIDShift,
		DestID:   0,
		RoundPar: a.currentRound,
		Barrier:  true,
	})

	a.currentRound = (a.currentRound + 1) % a.numChannels

	for i := 0; i < a.numPE; i++ {
		a.barrierSeen[i] = false
		a.advertised[i] = 0
		a.received[i] = 0
	}

	a.drainDeferred()
}

// drainDeferred replays every message whose roundpar now matches the new
// current round, in FIFO order, stopping once it has cycled back to the
// first message still belonging to a future round. Barriers never appear
// in the deferred queue: the next round's barrier can only be generated
// after the current one has been delivered.
func (a *Arbiter) drainDeferred() {
	var firstStillDeferred *message.Message
	for {
		m, ok := a.deferredQ.Peek()
		if !ok || m == firstStillDeferred {
			return
		}
		a.deferredQ.Pop()
		if m.RoundPar != a.currentRound {
			if firstStillDeferred == nil {
				firstStillDeferred = m
			}
			a.deferredQ.Push(m)
			continue
		}
		srcPE := a.srcPEOf(m)
		a.received[srcPE]++
		a.outputQ.Push(m)
	}
}

func (a *Arbiter) srcPEOf(m *message.Message) int {
	return int(m.Sender >> graph.VertexID(a.peIDShift))
}

// GetMessage pops the next deliverable message, or nil if none is ready.
func (a *Arbiter) GetMessage() *message.Message {
	m, ok := a.outputQ.Pop()
	if !ok {
		return nil
	}
	return m
}
