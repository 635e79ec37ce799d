package workload

import (
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/peers"
)

// Sender queues an envelope for writing. It must not block.
type Sender func(e message.Envelope)

// Runtime is the node's identity and membership, as established by init,
// plus the ability to send messages to peers. Workloads only read it.
type Runtime struct {
	id    string
	peers *peers.PeerSet
	send  Sender
}

// NewRuntime returns a Runtime for node id in the given cluster.
func NewRuntime(id string, peerSet *peers.PeerSet, send Sender) *Runtime {
	return &Runtime{
		id:    id,
		peers: peerSet,
		send:  send,
	}
}

// ID returns the node's own id.
func (rt *Runtime) ID() string {
	return rt.id
}

// Peers returns the sorted set of all node ids, including this node.
func (rt *Runtime) Peers() *peers.PeerSet {
	return rt.peers
}

// Send queues p for target with no correlation fields. Sending to ourselves is
// silently dropped, so callers can iterate over every peer.
func (rt *Runtime) Send(target string, p message.Payload) {
	if target == rt.id {
		return
	}

	rt.send(message.Envelope{
		Src:  rt.id,
		Dest: target,
		Body: message.Body{Payload: p},
	})
}
