// Package pe implements the Processing Element: it couples an ApplyKernel
// with a ScatterKernel, owns the PE's input/output Message queues, and
// enforces the protocol contract described in spec.md §4.5.
package pe

import (
	"golang.org/x/xerrors"

	"github.com/nakengelhardt/fpgagraphsim/applykernel"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
)

// ErrNonexistentVertex is a fatal protocol violation (spec.md §7): a
// message was addressed to a vertex outside this PE's reserved range.
var ErrNonexistentVertex = xerrors.New("message addressed to nonexistent vertex")

// ErrWrongRoundMessage is a fatal protocol violation: an incoming
// non-barrier message's roundpar did not match the expected channel for
// the current level.
var ErrWrongRoundMessage = xerrors.New("message received in wrong round")

// ErrSurplusBarrier is a fatal protocol violation: update_level advanced
// more than one ahead of level (spec.md §4.5).
var ErrSurplusBarrier = xerrors.New("surplus apply-barrier: too many barriers")

// ErrWrongRoundUpdate is a fatal protocol violation: an emitted Update's
// roundpar did not match update_level mod num_channels.
var ErrWrongRoundUpdate = xerrors.New("update emitted in wrong round")

// applyWrapper is the protocol-contract layer around an applykernel.Interface
// (spec.md §4.5, "Apply wrapper"), grounded on
// original_source/sim/core/apply.cpp.
type applyWrapper struct {
	cfg    graph.Config
	kernel applykernel.Interface

	level       int // barriers received so far
	updateLevel int // apply-barriers emitted so far
}

func newApplyWrapper(cfg graph.Config, kernel applykernel.Interface) *applyWrapper {
	return &applyWrapper{cfg: cfg, kernel: kernel}
}

// verifyIncomingMessage checks I1 and I2 (spec.md §3) before admitting msg.
func (a *applyWrapper) verifyIncomingMessage(msg *message.Message) error {
	if !msg.Barrier {
		if msg.DestID <= 0 || int64(graph.VertexID(msg.DestID)&a.cfg.NodeIDMask) >= a.cfg.MaxVerticesPerPE {
			return xerrors.Errorf("vertex %d: %w", msg.DestID, ErrNonexistentVertex)
		}
		expected := (a.level + a.cfg.NumChannels - 1) % a.cfg.NumChannels
		if msg.RoundPar != expected {
			return xerrors.Errorf("message from vertex %d: round %d but expected %d (level %d): %w",
				msg.Sender, msg.RoundPar, expected, a.level, ErrWrongRoundMessage)
		}
	}
	return nil
}

// ReceiveMessage admits one inbound message (or nil), routes it to gather
// or barrier, and returns at most one resulting Update.
func (a *applyWrapper) ReceiveMessage(msg *message.Message) (*message.Update, error) {
	if msg != nil {
		if err := a.verifyIncomingMessage(msg); err != nil {
			return nil, err
		}
		if msg.Barrier {
			if err := a.kernel.Barrier(msg); err != nil {
				// Kernel-state anomalies are diagnostics, not fatal; the
				// driver surfaces them without aborting.
				diagnosticsSink(err)
			}
			a.level++
		} else {
			vertex := a.kernel.VertexEntry(graph.VertexID(msg.DestID))
			a.kernel.QueueInput(msg, vertex, a.level)
		}
	}

	update := a.kernel.GetUpdate()
	if update == nil {
		return nil, nil
	}
	if update.Barrier {
		a.updateLevel++
		if a.level != a.updateLevel {
			return nil, xerrors.Errorf("level=%d update_level=%d: %w", a.level, a.updateLevel, ErrSurplusBarrier)
		}
	} else if update.RoundPar != a.updateLevel%a.cfg.NumChannels {
		return nil, xerrors.Errorf("update roundpar=%d expected=%d: %w",
			update.RoundPar, a.updateLevel%a.cfg.NumChannels, ErrWrongRoundUpdate)
	}
	return update, nil
}

// diagnosticsSink is overridable by the driver to collect non-fatal
// kernel-state anomalies; it is a no-op by default.
var diagnosticsSink = func(error) {}

// SetDiagnosticsSink installs the callback used to report non-fatal
// kernel-state anomalies raised by Barrier().
func SetDiagnosticsSink(sink func(error)) {
	diagnosticsSink = sink
}
