package pe

import (
	"golang.org/x/xerrors"

	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/scatterkernel"
)

// ErrSurplusScatterBarrier is a fatal protocol violation: out_level
// advanced more than one ahead of in_level.
var ErrSurplusScatterBarrier = xerrors.New("surplus scatter-barrier: too many barriers")

// scatterWrapper is the protocol-contract layer around a scatterkernel.Kernel
// (spec.md §4.5, "Scatter wrapper"), grounded on
// original_source/sim/core/scatter.cpp.
type scatterWrapper struct {
	kernel *scatterkernel.Kernel

	inLevel  int // updates consumed so far
	outLevel int // scatter-barriers emitted so far
}

func newScatterWrapper(kernel *scatterkernel.Kernel) *scatterWrapper {
	return &scatterWrapper{kernel: kernel}
}

// ReceiveUpdate admits one inbound Update (or nil) and returns at most one
// resulting Message.
func (s *scatterWrapper) ReceiveUpdate(update *message.Update) (*message.Message, error) {
	if update != nil {
		s.kernel.QueueUpdate(update)
		if update.Barrier {
			s.inLevel++
		}
	}

	msg := s.kernel.GetMessage()
	if msg == nil {
		return nil, nil
	}
	if msg.Barrier {
		s.outLevel++
		if s.inLevel != s.outLevel {
			return nil, xerrors.Errorf("in_level=%d out_level=%d: %w", s.inLevel, s.outLevel, ErrSurplusScatterBarrier)
		}
	}
	return msg, nil
}

// Pending reports whether the scatter stage still holds queued work.
func (s *scatterWrapper) Pending() bool { return s.kernel.Pending() }
