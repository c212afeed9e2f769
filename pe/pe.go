package pe

import (
	"github.com/nakengelhardt/fpgagraphsim/applykernel"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/latency"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/scatterkernel"
)

// pipelineLatency is the fixed apply+scatter latency charged to every
// message that passes through a PE, modelling the GAS pipeline depth.
const pipelineLatency = 1

// PE is one Processing Element: it couples an ApplyKernel (gather+apply)
// with a ScatterKernel (fan-out), owns the PE's input/output Message
// queues, and drives one tick of the GAS pipeline per cycle (spec.md
// §4.5), grounded on original_source/sim/core/pe.cpp.
type PE struct {
	ID int

	applyW   *applyWrapper
	scatterW *scatterWrapper
	clock    latency.TimeStation

	inputQ  message.Queue[*message.Message]
	outputQ message.Queue[*message.Message]
}

// New constructs a PE wrapping an ApplyKernel and a ScatterKernel in their
// protocol-contract layers.
func New(id int, cfg graph.Config, kernel applykernel.Interface, scatter *scatterkernel.Kernel) *PE {
	return &PE{
		ID:       id,
		applyW:   newApplyWrapper(cfg, kernel),
		scatterW: newScatterWrapper(scatter),
	}
}

// Time reports this PE's current logical clock value.
func (p *PE) Time() int { return p.clock.Time() }

// Enqueue admits one inbound Message to be processed on a future Tick.
func (p *PE) Enqueue(msg *message.Message) {
	p.inputQ.Push(msg)
}

// Tick advances the PE's pipeline by exactly one cycle: it admits at most
// one inbound message into the apply stage, drains any resulting update
// into the scatter stage, and returns at most one outbound Message. A
// fatal protocol violation aborts the simulation; the caller decides how
// to surface it.
func (p *PE) Tick() (*message.Message, error) {
	var msg *message.Message
	if m, ok := p.inputQ.Pop(); ok {
		msg = m
		p.clock.Sync(m.Timestamp)
		p.clock.Advance(pipelineLatency)
	}

	update, err := p.applyW.ReceiveMessage(msg)
	if err != nil {
		return nil, err
	}
	if update != nil {
		update.Timestamp = p.clock.Time()
	}

	out, err := p.scatterW.ReceiveUpdate(update)
	if err != nil {
		return nil, err
	}
	if out == nil && p.scatterW.Pending() {
		out, err = p.scatterW.ReceiveUpdate(nil)
		if err != nil {
			return nil, err
		}
	}
	if out != nil {
		out.Timestamp = p.clock.Time()
	}
	return out, nil
}

// Idle reports whether the PE has no queued input and no in-flight
// scatter work.
func (p *PE) Idle() bool {
	return p.inputQ.Empty() && !p.scatterW.Pending()
}
