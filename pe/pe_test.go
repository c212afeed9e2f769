package pe_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/nakengelhardt/fpgagraphsim/algorithm/bfs"
	"github.com/nakengelhardt/fpgagraphsim/applykernel"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/pe"
	"github.com/nakengelhardt/fpgagraphsim/scatterkernel"
)

func Test(t *testing.T) { gc.TestingT(t) }

type PESuite struct{}

var _ = gc.Suite(new(PESuite))

// newSinglePE builds one PE owning every vertex of a two-vertex, one-edge
// graph (0-1), running BFS, on a single-PE single-FPGA fabric.
func newSinglePE(c *gc.C) (*pe.PE, graph.Config, *graph.Partition, graph.VertexID, graph.VertexID) {
	cfg, err := graph.NewConfig(graph.Config{
		NumPE: 1, NumFPGA: 1, NumChannels: 4, MaxVerticesPerPE: 8,
	})
	c.Assert(err, gc.IsNil)

	g, err := graph.NewGraph([]graph.RawEdge{{V0: 0, V1: 1}})
	c.Assert(err, gc.IsNil)

	part := graph.NewPartition(cfg)
	program := bfs.Program{}

	ak := applykernel.New(0, cfg.MaxVerticesPerPE, cfg, g, part, program)
	sk := scatterkernel.New(cfg, g, part, program)
	p := pe.New(0, cfg, ak, sk)

	root := part.Placement(bfs.Root)
	neighbor := part.Placement(1)
	return p, cfg, part, root, neighbor
}

func (s *PESuite) TestTickDeliversVisitThenBarrier(c *gc.C) {
	p, cfg, _, root, neighbor := newSinglePE(c)

	seedRound := cfg.NumChannels - 1
	p.Enqueue(&message.Message{
		Sender: root, DestID: int64(root), DestPE: 0, RoundPar: seedRound,
	})

	out, err := p.Tick()
	c.Assert(err, gc.IsNil)
	c.Assert(out, gc.IsNil) // gather only, no apply yet

	p.Enqueue(&message.Message{
		Sender: 0, RoundPar: seedRound, Barrier: true, Timestamp: 5,
	})

	out, err = p.Tick()
	c.Assert(err, gc.IsNil)
	c.Assert(out, gc.Not(gc.IsNil))
	c.Assert(out.Barrier, gc.Equals, false)
	c.Assert(out.DestID, gc.Equals, int64(neighbor))
	c.Assert(out.Timestamp, gc.Equals, p.Time())

	out, err = p.Tick()
	c.Assert(err, gc.IsNil)
	c.Assert(out, gc.Not(gc.IsNil))
	c.Assert(out.Barrier, gc.Equals, true)
}

func (s *PESuite) TestClockAdvancesWithPipelineLatency(c *gc.C) {
	p, cfg, _, root, _ := newSinglePE(c)

	c.Assert(p.Time(), gc.Equals, 0)

	p.Enqueue(&message.Message{
		Sender: root, DestID: int64(root), DestPE: 0,
		RoundPar: cfg.NumChannels - 1, Timestamp: 10,
	})
	_, err := p.Tick()
	c.Assert(err, gc.IsNil)
	c.Assert(p.Time(), gc.Equals, 11) // synced to 10, plus one pipeline stage
}

func (s *PESuite) TestRejectsMessageToNonexistentVertex(c *gc.C) {
	p, cfg, _, _, _ := newSinglePE(c)

	p.Enqueue(&message.Message{
		Sender: 0, DestID: 8, DestPE: 0, RoundPar: cfg.NumChannels - 1, // local slot 8 is out of this PE's 0..7 range
	})
	_, err := p.Tick()
	c.Assert(err, gc.ErrorMatches, ".*nonexistent vertex.*")
}

func (s *PESuite) TestRejectsMessageInWrongRound(c *gc.C) {
	p, _, _, root, _ := newSinglePE(c)

	p.Enqueue(&message.Message{
		Sender: root, DestID: int64(root), DestPE: 0, RoundPar: 0,
	})
	_, err := p.Tick()
	c.Assert(err, gc.ErrorMatches, ".*wrong round.*")
}

func (s *PESuite) TestIdleReflectsQueueState(c *gc.C) {
	p, cfg, _, root, _ := newSinglePE(c)

	c.Assert(p.Idle(), gc.Equals, true)

	p.Enqueue(&message.Message{
		Sender: root, DestID: int64(root), DestPE: 0, RoundPar: cfg.NumChannels - 1,
	})
	c.Assert(p.Idle(), gc.Equals, false)

	_, err := p.Tick()
	c.Assert(err, gc.IsNil)
	c.Assert(p.Idle(), gc.Equals, true)
}
