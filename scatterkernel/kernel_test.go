package scatterkernel_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/nakengelhardt/fpgagraphsim/algorithm/bfs"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/scatterkernel"
)

func Test(t *testing.T) { gc.TestingT(t) }

type KernelSuite struct{}

var _ = gc.Suite(new(KernelSuite))

// star graph: vertex 0 connects to 1, 2, 3; vertex 4 is isolated (the
// self-loop is dropped during construction but still reserves the vertex).
func starGraph(c *gc.C) (*graph.Graph, graph.Config, *graph.Partition) {
	g, err := graph.NewGraph([]graph.RawEdge{
		{V0: 0, V1: 1}, {V0: 0, V1: 2}, {V0: 0, V1: 3}, {V0: 4, V1: 4},
	})
	c.Assert(err, gc.IsNil)

	cfg, err := graph.NewConfig(graph.Config{NumPE: 2, NumFPGA: 1, NumChannels: 4, MaxVerticesPerPE: 4})
	c.Assert(err, gc.IsNil)

	return g, cfg, graph.NewPartition(cfg)
}

func (s *KernelSuite) TestUpdateExpandsToOneMessagePerOutEdge(c *gc.C) {
	g, cfg, part := starGraph(c)
	k := scatterkernel.New(cfg, g, part, bfs.Program{})

	center := part.Placement(0)
	k.QueueUpdate(&message.Update{Sender: center, RoundPar: 1, Timestamp: 7})

	got := map[int64]bool{}
	for i := 0; i < 3; i++ {
		msg := k.GetMessage()
		c.Assert(msg, gc.Not(gc.IsNil))
		c.Assert(msg.Barrier, gc.Equals, false)
		c.Assert(msg.RoundPar, gc.Equals, 1)
		c.Assert(msg.Timestamp, gc.Equals, 7)
		got[msg.DestID] = true
	}
	c.Assert(got, gc.HasLen, 3)
	c.Assert(k.GetMessage(), gc.IsNil)
	c.Assert(k.Pending(), gc.Equals, false)
}

func (s *KernelSuite) TestBarrierUpdatePassesThroughUnexpanded(c *gc.C) {
	g, cfg, part := starGraph(c)
	k := scatterkernel.New(cfg, g, part, bfs.Program{})

	k.QueueUpdate(&message.Update{Sender: 0, RoundPar: 2, Barrier: true})

	msg := k.GetMessage()
	c.Assert(msg, gc.Not(gc.IsNil))
	c.Assert(msg.Barrier, gc.Equals, true)
	c.Assert(msg.RoundPar, gc.Equals, 2)
	c.Assert(k.GetMessage(), gc.IsNil)
}

func (s *KernelSuite) TestZeroDegreeUpdateConsumedSilently(c *gc.C) {
	g, cfg, part := starGraph(c)
	k := scatterkernel.New(cfg, g, part, bfs.Program{})

	k.QueueUpdate(&message.Update{Sender: part.Placement(4), RoundPar: 0})
	c.Assert(k.GetMessage(), gc.IsNil)
	c.Assert(k.Pending(), gc.Equals, false)
}
