package driver

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/nakengelhardt/fpgagraphsim/applykernel"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/network"
	"github.com/nakengelhardt/fpgagraphsim/pe"
	"github.com/nakengelhardt/fpgagraphsim/scatterkernel"
	"github.com/nakengelhardt/fpgagraphsim/vertexprogram"
)

// ErrProtocolViolation wraps any fatal contract violation raised by a PE
// mid-run (spec.md §7): the run is aborted rather than producing results
// from an inconsistent pipeline state.
var ErrProtocolViolation = xerrors.New("protocol violation")

// Result summarizes one completed run.
type Result struct {
	Cycles              int
	Supersteps          int
	NumMessagesSent     int64
	InterFPGATransports int64
	FinalTime           int
}

// Run executes one simulation to completion (zero messages delivered in
// a superstep) and returns diagnostics. It is the Go counterpart of
// original_source's sim_main.
func Run(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("driver: config validation failed: %w", err)
	}

	runID := uuid.New()
	log := cfg.Logger.WithField("run_id", runID.String())

	part := graph.NewPartition(cfg.GraphConfig)
	net := network.New(cfg.GraphConfig, part)

	numPE := cfg.GraphConfig.NumPE
	pes := make([]*pe.PE, numPE)
	for p := 0; p < numPE; p++ {
		var kernel applykernel.Interface
		if cfg.Program != nil {
			kernel = applykernel.New(p, cfg.GraphConfig.MaxVerticesPerPE, cfg.GraphConfig, cfg.Graph, part, cfg.Program)
		} else {
			kernel = applykernel.NewFused(p, cfg.GraphConfig.MaxVerticesPerPE, cfg.GraphConfig, cfg.Graph, part, cfg.FusedProgram)
		}
		var scatterer vertexprogram.Scatterer = cfg.Program
		if scatterer == nil {
			scatterer = cfg.FusedProgram
		}
		scatter := scatterkernel.New(cfg.GraphConfig, cfg.Graph, part, scatterer)
		pes[p] = pe.New(p, cfg.GraphConfig, kernel, scatter)
	}

	sent := make([]int64, numPE)
	cfg.Seeder.SendInitMessages(cfg.Graph, part, func(destPE int, m *message.Message) {
		pes[destPE].Enqueue(m)
		sent[destPE]++
	})

	for p := 0; p < numPE; p++ {
		pes[p].Enqueue(&message.Message{
			Sender:   graph.VertexID(p) << cfg.GraphConfig.PEIDShift,
			DestID:   sent[p],
			DestPE:   p,
			RoundPar: cfg.GraphConfig.NumChannels - 1,
			Barrier:  true,
		})
	}

	var (
		cycles             int
		supersteps         int
		numMessagesInRound int
		perPEMessages      = make([]int, numPE)
		barrierSeen        = make([]bool, numPE)
		// Messages already emitted for the next superstep: the fused
		// delivery mode relays tokens before the current superstep closes.
		numMessagesEarly int
		perPEEarly       = make([]int, numPE)
	)

	for {
		for p := 0; p < numPE; p++ {
			out, err := pes[p].Tick()
			if err != nil {
				return nil, xerrors.Errorf("pe %d: %w: %v", p, ErrProtocolViolation, err)
			}
			if out != nil {
				if out.Barrier {
					barrierSeen[p] = true
				} else if out.RoundPar == supersteps%cfg.GraphConfig.NumChannels {
					numMessagesInRound++
					perPEMessages[p]++
				} else {
					numMessagesEarly++
					perPEEarly[p]++
				}
				net.PutMessageAt(p, out)
			}
			if in := net.GetMessageAt(p); in != nil {
				pes[p].Enqueue(in)
			}
		}
		net.Tick()
		cycles++

		if allBarriers(barrierSeen) {
			supersteps++
			log.WithFields(logrus.Fields{
				"superstep":     supersteps,
				"messages":      numMessagesInRound,
				"imbalance_pct": imbalancePercent(perPEMessages),
			}).Info("completed superstep")

			if numMessagesInRound == 0 {
				break
			}
			numMessagesInRound, numMessagesEarly = numMessagesEarly, 0
			for p := range perPEMessages {
				perPEMessages[p], perPEEarly[p] = perPEEarly[p], 0
			}
			for p := range barrierSeen {
				barrierSeen[p] = false
			}
			if cfg.MaxSupersteps > 0 && supersteps >= cfg.MaxSupersteps {
				break
			}
		}
	}

	finalTime := 0
	for p := 0; p < numPE; p++ {
		if t := pes[p].Time(); t > finalTime {
			finalTime = t
		}
	}

	return &Result{
		Cycles:              cycles,
		Supersteps:          supersteps,
		NumMessagesSent:     net.NumMessagesSent(),
		InterFPGATransports: net.InterFPGATransports(),
		FinalTime:           finalTime,
	}, nil
}

func allBarriers(seen []bool) bool {
	for _, s := range seen {
		if !s {
			return false
		}
	}
	return true
}

// imbalancePercent reports how unevenly a superstep's outbound messages
// were spread across PEs, as a percentage of the mean: (max-min)/mean*100.
// Zero when no messages were sent this superstep.
func imbalancePercent(perPE []int) float64 {
	var total, max, min int
	min = -1
	for _, n := range perPE {
		total += n
		if n > max {
			max = n
		}
		if min < 0 || n < min {
			min = n
		}
	}
	if total == 0 {
		return 0
	}
	mean := float64(total) / float64(len(perPE))
	return float64(max-min) / mean * 100
}
