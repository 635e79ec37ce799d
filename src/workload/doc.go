// Package workload defines the contract between the node runtime and the
// algorithms it hosts.
//
// A Workload is a state machine owned by the node's dispatcher goroutine. It
// is never touched by more than one goroutine, so implementations need no
// locks. The dispatcher calls Handle for every workload message and Gossip on
// every tick of the gossip timer. Neither may block or do I/O: all outbound
// traffic goes through Runtime.Send, which only queues.
package workload
