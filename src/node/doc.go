// Package node implements the runtime of a murmur node: the event loop that
// dispatches inbound records to a workload and drives its gossip.
//
// States
//
// A node starts Uninitialized. The first init record sets its id and the
// peer set, is answered with init_ok, and moves the node to Running. Workload
// messages are only processed while Running; a second init, or a workload
// message that arrives before init, is logged and dropped.
//
// When the input ends, on SIGINT or SIGTERM, or when Shutdown is called, the
// node stops reading and becomes Draining until every record already queued
// has been written. It is then Terminated and Run returns. A failure of the
// output stream also terminates the node, and Run returns the error.
//
// Event loop
//
// Inbound records and gossip ticks are handled one at a time by a single
// goroutine, so workloads never need locks. Handlers and gossip rounds only
// queue records; the transport writes them from its own goroutine, in order.
// Gossip ticks that arrive while the loop is busy are coalesced.
package node
