package workload

import (
	"time"

	"github.com/mosaicnetworks/murmur/src/message"
)

// Default gossip intervals.
const (
	// DefaultGossipInterval is used by workloads that do not gossip.
	DefaultGossipInterval = time.Second

	// FastGossipInterval is used by the workloads that converge through
	// gossip.
	FastGossipInterval = 150 * time.Millisecond
)

// Workload is implemented by each algorithm a node can run.
type Workload interface {
	// Name identifies the workload in logs and stats.
	Name() string

	// Register adds the workload's payload types to r.
	Register(r *message.Registry)

	// Handle processes one inbound workload message.
	Handle(msg message.Payload, ctx *Context) Result

	// Gossip is called on every tick of the gossip timer, once the node is
	// initialised.
	Gossip(rt *Runtime)

	// GossipInterval is the period of the gossip timer.
	GossipInterval() time.Duration
}

// Factory creates a fresh Workload.
type Factory func() Workload

// NoGossip can be embedded by workloads that have nothing to gossip about.
type NoGossip struct{}

// Gossip does nothing.
func (NoGossip) Gossip(*Runtime) {}

// GossipInterval returns DefaultGossipInterval.
func (NoGossip) GossipInterval() time.Duration {
	return DefaultGossipInterval
}
