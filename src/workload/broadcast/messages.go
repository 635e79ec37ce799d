package broadcast

import "github.com/mosaicnetworks/murmur/src/message"

// Broadcast asks the node to remember a value and spread it to the cluster.
type Broadcast struct {
	Message uint64 `json:"message"`
}

// BroadcastOk acknowledges a Broadcast.
type BroadcastOk struct{}

// Read asks for every value the node has seen.
type Read struct{}

// ReadOk lists the values a node has seen, in no particular order.
type ReadOk struct {
	Messages []uint64 `json:"messages"`
}

// Topology suggests a neighbourhood for each node. Its content is ignored: the
// node computes a star over the peer set instead.
type Topology struct {
	Topology map[string][]string `json:"topology"`
}

// TopologyOk acknowledges a Topology.
type TopologyOk struct{}

// Gossip carries the full set of values known to the sender. It is never
// answered.
type Gossip struct {
	Values []uint64 `json:"values"`
}

func (Broadcast) Type() string   { return "broadcast" }
func (BroadcastOk) Type() string { return "broadcast_ok" }
func (Read) Type() string        { return "read" }
func (ReadOk) Type() string      { return "read_ok" }
func (Topology) Type() string    { return "topology" }
func (TopologyOk) Type() string  { return "topology_ok" }
func (Gossip) Type() string      { return "gossip" }

func register(r *message.Registry) {
	message.Register[Broadcast](r)
	message.Register[BroadcastOk](r)
	message.Register[Read](r)
	message.Register[ReadOk](r)
	message.Register[Topology](r)
	message.Register[TopologyOk](r)
	message.Register[Gossip](r)
}
