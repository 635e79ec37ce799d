package peers

import (
	"sort"
)

//PeerSet is the set of nodes taking part in a cluster, identified by their
//node ids. It is immutable and always sorted.
type PeerSet struct {
	IDs  []string            `json:"ids"`
	ByID map[string]struct{} `json:"-"`
}

/* Constructors */

//NewPeerSet creates a new PeerSet from a list of node ids. Duplicates are
//removed and the ids are sorted, so that every node derives the same ordering
//from the same input.
func NewPeerSet(ids []string) *PeerSet {
	peerSet := &PeerSet{
		IDs:  []string{},
		ByID: make(map[string]struct{}),
	}

	for _, id := range ids {
		if _, ok := peerSet.ByID[id]; ok {
			continue
		}
		peerSet.ByID[id] = struct{}{}
		peerSet.IDs = append(peerSet.IDs, id)
	}

	sort.Strings(peerSet.IDs)

	return peerSet
}

/* Utilities */

//Len returns the number of peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.IDs)
}

//Contains returns true if id belongs to the PeerSet
func (peerSet *PeerSet) Contains(id string) bool {
	_, ok := peerSet.ByID[id]
	return ok
}

//Hub returns the first id in sort order. It is the centre of the star
//topology used for gossip. ok is false when the PeerSet is empty.
func (peerSet *PeerSet) Hub() (hub string, ok bool) {
	if len(peerSet.IDs) == 0 {
		return "", false
	}
	return peerSet.IDs[0], true
}

//Others returns all ids except the given one, in sort order.
func (peerSet *PeerSet) Others(id string) []string {
	res := make([]string, 0, len(peerSet.IDs))
	for _, p := range peerSet.IDs {
		if p != id {
			res = append(res, p)
		}
	}
	return res
}

// StarNeighbours returns the gossip targets of self in a star centred on the
// hub: the hub talks to everybody else, everybody else only talks to the hub.
func (peerSet *PeerSet) StarNeighbours(self string) []string {
	hub, ok := peerSet.Hub()
	if !ok {
		return []string{}
	}

	if self == hub {
		return peerSet.Others(self)
	}

	return []string{hub}
}
