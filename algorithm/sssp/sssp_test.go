package sssp_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/nakengelhardt/fpgagraphsim/algorithm/sssp"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

func Test(t *testing.T) { gc.TestingT(t) }

type SSSPSuite struct{}

var _ = gc.Suite(new(SSSPSuite))

func (s *SSSPSuite) TestWeightOfIsDeterministicAndCached(c *gc.C) {
	w1 := sssp.WeightOf(0, 1)
	w2 := sssp.WeightOf(0, 1)
	c.Assert(w1, gc.Equals, w2)
	c.Assert(w1 >= sssp.MinWeight && w1 <= sssp.MaxWeight, gc.Equals, true)
}

func (s *SSSPSuite) TestInitVertexSeedsRootAtZero(c *gc.C) {
	prog := sssp.Program{}
	var root, other vertexentry.Entry
	prog.InitVertex(&root, sssp.Root, &graph.Graph{})
	prog.InitVertex(&other, sssp.Root+1, &graph.Graph{})

	c.Assert(root.Data.(*sssp.Data).Dist, gc.Equals, int64(0))
	c.Assert(root.Active, gc.Equals, true)
	c.Assert(other.Data.(*sssp.Data).Dist, gc.Equals, sssp.Infinite)
	c.Assert(other.Active, gc.Equals, false)
}

func (s *SSSPSuite) TestGatherOnlyAdoptsShorterDistance(c *gc.C) {
	prog := sssp.Program{}
	var entry vertexentry.Entry
	entry.Data = &sssp.Data{Dist: 10}

	prog.Gather(&message.Message{Payload: int64(15)}, &entry, 0)
	c.Assert(entry.Data.(*sssp.Data).Dist, gc.Equals, int64(10))
	c.Assert(entry.Active, gc.Equals, false)

	prog.Gather(&message.Message{Payload: int64(3)}, &entry, 0)
	c.Assert(entry.Data.(*sssp.Data).Dist, gc.Equals, int64(3))
	c.Assert(entry.Active, gc.Equals, true)
}

func (s *SSSPSuite) TestApplyEmitsDistanceOnlyWhenActive(c *gc.C) {
	prog := sssp.Program{}
	var entry vertexentry.Entry
	entry.Data = &sssp.Data{Dist: 7}

	_, emit := prog.Apply(&entry, 0)
	c.Assert(emit, gc.Equals, false)

	entry.Active = true
	payload, emit := prog.Apply(&entry, 0)
	c.Assert(emit, gc.Equals, true)
	c.Assert(payload, gc.Equals, int64(7))
	c.Assert(entry.Active, gc.Equals, false)
}

func (s *SSSPSuite) TestScatterAddsEdgeWeight(c *gc.C) {
	prog := sssp.Program{}
	update := &message.Update{Sender: 100, Payload: int64(5)}
	edge := graph.Edge{DestID: 200}

	payload, emit := prog.Scatter(update, edge, 1)
	c.Assert(emit, gc.Equals, true)
	c.Assert(payload.(int64), gc.Equals, int64(5)+sssp.WeightOf(100, 200))
}
