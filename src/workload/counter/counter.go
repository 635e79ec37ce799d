// Package counter implements a grow-only counter as a state-based CRDT.
//
// Each node only ever increments its own component. Gossip carries that
// component to every other node, which keeps the highest value reported per
// sender. The value of the counter is the local component plus the sum of the
// known remote ones. Because remote components are overwritten rather than
// added, a repeated or stale gossip never counts a peer twice.
package counter

import (
	"time"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
)

// Counter is the state of the counter workload.
type Counter struct {
	local uint64
	known map[string]uint64
}

// New returns a Counter at zero.
func New() workload.Workload {
	return NewCounter()
}

// NewCounter returns a Counter at zero.
func NewCounter() *Counter {
	return &Counter{
		known: make(map[string]uint64),
	}
}

// Name implements workload.Workload.
func (c *Counter) Name() string {
	return "counter"
}

// Register implements workload.Workload.
func (c *Counter) Register(r *message.Registry) {
	register(r)
}

// Handle implements workload.Workload.
func (c *Counter) Handle(msg message.Payload, ctx *workload.Context) workload.Result {
	switch m := msg.(type) {
	case Add:
		c.local += m.Delta
		return workload.Reply(AddOk{})
	case Read:
		return workload.Reply(ReadOk{Value: c.Value()})
	case Gossip:
		c.merge(ctx.Sender(), ctx.Runtime.ID(), m.Counter)
		return workload.NoReply()
	default:
		return workload.Unexpected(msg)
	}
}

func (c *Counter) merge(from, self string, counter uint64) {
	if from == self {
		return
	}
	if counter > c.known[from] {
		c.known[from] = counter
	}
}

// Gossip sends the local component to every other node.
func (c *Counter) Gossip(rt *workload.Runtime) {
	if c.local == 0 {
		return
	}

	for _, id := range rt.Peers().IDs {
		rt.Send(id, Gossip{Counter: c.local})
	}
}

// GossipInterval implements workload.Workload.
func (c *Counter) GossipInterval() time.Duration {
	return workload.FastGossipInterval
}

// Value returns the local component plus every known remote component.
func (c *Counter) Value() uint64 {
	sum := c.local
	for _, v := range c.known {
		sum += v
	}
	return sum
}

// Local returns the sum of deltas applied on this node.
func (c *Counter) Local() uint64 {
	return c.local
}
