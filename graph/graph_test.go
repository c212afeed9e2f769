package graph_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nakengelhardt/fpgagraphsim/graph"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(GraphSuite))
var _ = gc.Suite(new(PartitionSuite))

type GraphSuite struct{}

func testdata(name string) string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "testdata", name)
}

func (s *GraphSuite) TestCycleIsUndirectedAndDeduped(c *gc.C) {
	raw, err := graph.LoadEdgeList(testdata("cycle4.edges"), 4)
	c.Assert(err, gc.IsNil)
	c.Assert(raw, gc.HasLen, 4)

	g, err := graph.NewGraph(raw)
	c.Assert(err, gc.IsNil)
	c.Assert(g.NV, gc.Equals, int64(4))

	for v := int64(0); v < 4; v++ {
		c.Assert(g.NumNeighbors(graph.VertexID(v)), gc.Equals, int64(2))
	}

	neighborsOf := func(v int64) []int64 {
		var out []int64
		for i := int64(0); i < g.NumNeighbors(graph.VertexID(v)); i++ {
			out = append(out, int64(g.Neighbor(graph.VertexID(v), i).DestID))
		}
		return out
	}
	c.Assert(neighborsOf(0), gc.DeepEquals, []int64{1, 3})
	c.Assert(neighborsOf(2), gc.DeepEquals, []int64{1, 3})
}

func (s *GraphSuite) TestSelfLoopsDropped(c *gc.C) {
	g, err := graph.NewGraph([]graph.RawEdge{{V0: 0, V1: 0}, {V0: 0, V1: 1}})
	c.Assert(err, gc.IsNil)
	c.Assert(g.NumNeighbors(0), gc.Equals, int64(1))
}

func (s *GraphSuite) TestRebuildIsIdempotent(c *gc.C) {
	raw, err := graph.LoadEdgeList(testdata("twotriangles.edges"), 6)
	c.Assert(err, gc.IsNil)

	g1, err := graph.NewGraph(raw)
	c.Assert(err, gc.IsNil)
	g2, err := graph.NewGraph(raw)
	c.Assert(err, gc.IsNil)

	for v := int64(0); v < g1.NV; v++ {
		c.Assert(g2.NumNeighbors(graph.VertexID(v)), gc.Equals, g1.NumNeighbors(graph.VertexID(v)))
		for i := int64(0); i < g1.NumNeighbors(graph.VertexID(v)); i++ {
			c.Assert(g2.Neighbor(graph.VertexID(v), i), gc.Equals, g1.Neighbor(graph.VertexID(v), i))
		}
	}
}

type PartitionSuite struct{}

func (s *PartitionSuite) TestPlacementRoundTrips(c *gc.C) {
	cfg, err := graph.NewConfig(graph.Config{NumPE: 4, NumFPGA: 2, NumChannels: 4, MaxVerticesPerPE: 16})
	c.Assert(err, gc.IsNil)
	part := graph.NewPartition(cfg)

	for v := graph.VertexID(0); v < 64; v++ {
		placed := part.Placement(v)
		c.Assert(part.Origin(placed), gc.Equals, v)
	}
}

func (s *PartitionSuite) TestVertexZeroNeverMapsToSlotZeroOfPEZero(c *gc.C) {
	cfg, err := graph.NewConfig(graph.Config{NumPE: 4, NumFPGA: 2, NumChannels: 4, MaxVerticesPerPE: 16})
	c.Assert(err, gc.IsNil)
	part := graph.NewPartition(cfg)

	placed := part.Placement(0)
	c.Assert(part.PEID(placed) == 0 && part.LocalID(placed) == 0, gc.Equals, false)
}

func (s *PartitionSuite) TestConfigValidation(c *gc.C) {
	_, err := graph.NewConfig(graph.Config{})
	c.Assert(err, gc.NotNil)
}
