// Package peers implements the membership view of a murmur node.
//
// A node learns its own id and the ids of every node in the cluster once, from
// the init message, and never changes that view afterwards. The PeerSet keeps
// the ids sorted: the sort order is the only thing nodes agree on without
// talking to each other, so anything that must be decided identically on
// every node (like the hub of the broadcast star) is derived from it.
package peers
