package counter

import (
	"math/rand"
	"testing"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/mosaicnetworks/murmur/src/workload/workloadtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cluster = []string{"n1", "n2", "n3"}

func TestAddAndRead(t *testing.T) {
	h := workloadtest.NewHarness(t, "n1", cluster...)
	c := NewCounter()

	assert.Equal(t, ReadOk{Value: 0}, h.Reply(t, c, "c1", Read{}))
	assert.Equal(t, AddOk{}, h.Reply(t, c, "c1", Add{Delta: 3}))
	assert.Equal(t, AddOk{}, h.Reply(t, c, "c2", Add{Delta: 4}))
	assert.Equal(t, ReadOk{Value: 7}, h.Reply(t, c, "c1", Read{}))
}

func TestGossipKeepsHighestPerSender(t *testing.T) {
	h := workloadtest.NewHarness(t, "n1", cluster...)
	c := NewCounter()

	h.Reply(t, c, "c1", Add{Delta: 1})

	res := h.Handle(c, "n2", Gossip{Counter: 5})
	assert.Equal(t, workload.NoReplyResult, res.Kind())

	// repeated and stale gossip is not counted twice
	h.Handle(c, "n2", Gossip{Counter: 5})
	h.Handle(c, "n2", Gossip{Counter: 2})
	h.Handle(c, "n3", Gossip{Counter: 10})

	assert.Equal(t, ReadOk{Value: 16}, h.Reply(t, c, "c1", Read{}))
}

func TestGossipFromSelfIsIgnored(t *testing.T) {
	h := workloadtest.NewHarness(t, "n1", cluster...)
	c := NewCounter()

	h.Reply(t, c, "c1", Add{Delta: 2})
	h.Handle(c, "n1", Gossip{Counter: 2})

	assert.Equal(t, uint64(2), c.Value())
}

func TestGossipGoesToEveryPeer(t *testing.T) {
	h := workloadtest.NewHarness(t, "n2", cluster...)
	c := NewCounter()

	c.Gossip(h.Runtime)
	assert.Empty(t, h.Sent(), "nothing to gossip before the first add")

	h.Reply(t, c, "c1", Add{Delta: 9})
	c.Gossip(h.Runtime)

	sent := h.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "n1", sent[0].Dest)
	assert.Equal(t, "n3", sent[1].Dest)
	for _, e := range sent {
		assert.Equal(t, Gossip{Counter: 9}, e.Body.Payload)
	}
}

// TestConvergence applies random adds on three nodes, delivers gossip in
// random order, and checks that reads never go down and end up equal to the
// total.
func TestConvergence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	harnesses := map[string]*workloadtest.Harness{}
	counters := map[string]*Counter{}
	lastRead := map[string]uint64{}
	for _, id := range cluster {
		harnesses[id] = workloadtest.NewHarness(t, id, cluster...)
		counters[id] = NewCounter()
	}

	var total uint64
	inFlight := []message.Envelope{}

	read := func(id string) uint64 {
		v := harnesses[id].Reply(t, counters[id], "c1", Read{}).(ReadOk).Value
		require.GreaterOrEqual(t, v, lastRead[id], "read on %s went down", id)
		lastRead[id] = v
		return v
	}

	for step := 0; step < 300; step++ {
		id := cluster[rnd.Intn(len(cluster))]

		switch rnd.Intn(4) {
		case 0:
			delta := uint64(rnd.Intn(10))
			total += delta
			harnesses[id].Reply(t, counters[id], "c1", Add{Delta: delta})
		case 1:
			counters[id].Gossip(harnesses[id].Runtime)
			inFlight = append(inFlight, harnesses[id].Sent()...)
		case 2:
			if len(inFlight) > 0 {
				i := rnd.Intn(len(inFlight))
				e := inFlight[i]
				inFlight = append(inFlight[:i], inFlight[i+1:]...)
				harnesses[e.Dest].Handle(counters[e.Dest], e.Src, e.Body.Payload)
			}
		case 3:
			read(id)
		}
	}

	// everybody gossips once more and everything is delivered
	for _, id := range cluster {
		counters[id].Gossip(harnesses[id].Runtime)
		inFlight = append(inFlight, harnesses[id].Sent()...)
	}
	for _, e := range inFlight {
		harnesses[e.Dest].Handle(counters[e.Dest], e.Src, e.Body.Payload)
	}

	for _, id := range cluster {
		assert.Equal(t, total, read(id), "node %s did not converge", id)
	}
}

func TestUnexpectedPayload(t *testing.T) {
	h := workloadtest.NewHarness(t, "n1", cluster...)

	res := h.Handle(NewCounter(), "c1", AddOk{})
	assert.Equal(t, workload.UnexpectedResult, res.Kind())
}

func TestZeroPayloadsEncode(t *testing.T) {
	workloadtest.RequireZeroValuesEncode(t, New())
}
