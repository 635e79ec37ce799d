// Package broadcast implements a set-valued broadcast service that converges
// through anti-entropy gossip over a star topology.
//
// Every node keeps the set of all values it has ever seen. On each gossip tick
// it sends the whole set to its neighbours, who merge it by union. The hub of
// the star (the first node id in sort order) relays between all other nodes,
// so a value reaches every node within two ticks of being broadcast. Sending
// the full set instead of a delta costs bandwidth but makes merging idempotent
// and order-independent.
package broadcast

import (
	"sort"
	"time"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
)

// Broadcaster is the state of the broadcast workload.
type Broadcaster struct {
	values     map[uint64]struct{}
	neighbours []string
}

// New returns an empty Broadcaster.
func New() workload.Workload {
	return NewBroadcaster()
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		values:     make(map[uint64]struct{}),
		neighbours: []string{},
	}
}

// Name implements workload.Workload.
func (b *Broadcaster) Name() string {
	return "broadcast"
}

// Register implements workload.Workload.
func (b *Broadcaster) Register(r *message.Registry) {
	register(r)
}

// Handle implements workload.Workload.
func (b *Broadcaster) Handle(msg message.Payload, ctx *workload.Context) workload.Result {
	switch m := msg.(type) {
	case Broadcast:
		b.values[m.Message] = struct{}{}
		return workload.Reply(BroadcastOk{})
	case Read:
		return workload.Reply(ReadOk{Messages: b.Values()})
	case Topology:
		b.neighbours = ctx.Runtime.Peers().StarNeighbours(ctx.Runtime.ID())
		ctx.Logger.WithField("neighbours", b.neighbours).Debug("Star topology")
		return workload.Reply(TopologyOk{})
	case Gossip:
		for _, v := range m.Values {
			b.values[v] = struct{}{}
		}
		return workload.NoReply()
	default:
		return workload.Unexpected(msg)
	}
}

// Gossip sends the full value set to every neighbour.
func (b *Broadcaster) Gossip(rt *workload.Runtime) {
	if len(b.values) == 0 {
		return
	}

	values := b.Values()
	for _, n := range b.neighbours {
		rt.Send(n, Gossip{Values: values})
	}
}

// GossipInterval implements workload.Workload.
func (b *Broadcaster) GossipInterval() time.Duration {
	return workload.FastGossipInterval
}

// Values returns the known values in ascending order.
func (b *Broadcaster) Values() []uint64 {
	res := make([]uint64, 0, len(b.values))
	for v := range b.values {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Neighbours returns the current gossip targets.
func (b *Broadcaster) Neighbours() []string {
	return b.neighbours
}
