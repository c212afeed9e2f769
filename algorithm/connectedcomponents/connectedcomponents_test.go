package connectedcomponents_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/nakengelhardt/fpgagraphsim/algorithm/connectedcomponents"
	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/message"
	"github.com/nakengelhardt/fpgagraphsim/vertexentry"
)

func Test(t *testing.T) { gc.TestingT(t) }

type ConnectedComponentsSuite struct{}

var _ = gc.Suite(new(ConnectedComponentsSuite))

func (s *ConnectedComponentsSuite) TestInitVertexLabelsSelfAndIsActive(c *gc.C) {
	prog := connectedcomponents.Program{}
	var entry vertexentry.Entry
	prog.InitVertex(&entry, 7, &graph.Graph{})

	c.Assert(entry.Data.(*connectedcomponents.Data).Label, gc.Equals, graph.VertexID(7))
	c.Assert(entry.Active, gc.Equals, true)
}

func (s *ConnectedComponentsSuite) TestGatherOnlyAdoptsSmallerLabel(c *gc.C) {
	prog := connectedcomponents.Program{}
	entry := vertexentry.Entry{Data: &connectedcomponents.Data{Label: 5}}

	prog.Gather(&message.Message{Payload: int64(9)}, &entry, 0)
	c.Assert(entry.Data.(*connectedcomponents.Data).Label, gc.Equals, graph.VertexID(5))
	c.Assert(entry.Active, gc.Equals, false)

	prog.Gather(&message.Message{Payload: int64(2)}, &entry, 0)
	c.Assert(entry.Data.(*connectedcomponents.Data).Label, gc.Equals, graph.VertexID(2))
	c.Assert(entry.Active, gc.Equals, true)
}

func (s *ConnectedComponentsSuite) TestScatterForwardsPayloadUnchanged(c *gc.C) {
	prog := connectedcomponents.Program{}
	payload, emit := prog.Scatter(&message.Update{Payload: int64(3)}, graph.Edge{}, 2)
	c.Assert(emit, gc.Equals, true)
	c.Assert(payload, gc.Equals, message.Payload(int64(3)))
}

func (s *ConnectedComponentsSuite) TestSeederIsNoOp(c *gc.C) {
	called := false
	connectedcomponents.Seeder{}.SendInitMessages(nil, nil, func(destPE int, m *message.Message) {
		called = true
	})
	c.Assert(called, gc.Equals, false)
}
