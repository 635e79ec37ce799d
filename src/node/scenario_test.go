package node

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/mosaicnetworks/murmur/src/workload/broadcast"
	"github.com/mosaicnetworks/murmur/src/workload/counter"
	"github.com/mosaicnetworks/murmur/src/workload/echo"
	"github.com/mosaicnetworks/murmur/src/workload/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesEveryNodeInTwoTicks(t *testing.T) {
	c := newTestCluster(t, broadcast.New, "n1", "n2", "n3")
	c.init()

	for _, id := range c.ids {
		require.Equal(t, broadcast.TopologyOk{}, c.request(id, broadcast.Topology{}))
	}

	require.Equal(t, broadcast.BroadcastOk{}, c.request("n2", broadcast.Broadcast{Message: 42}))

	// n2 -> hub
	c.tick(workload.FastGossipInterval)
	c.awaitReceived("n1", 3)

	// hub -> n2, n3
	c.tick(workload.FastGossipInterval)
	c.awaitReceived("n3", 3)

	assert.Equal(t, broadcast.ReadOk{Messages: []uint64{42}}, c.request("n1", broadcast.Read{}))
	assert.Equal(t, broadcast.ReadOk{Messages: []uint64{42}}, c.request("n3", broadcast.Read{}))
}

func TestCounterConverges(t *testing.T) {
	c := newTestCluster(t, counter.New, "n1", "n2", "n3")
	c.init()

	require.Equal(t, counter.AddOk{}, c.request("n1", counter.Add{Delta: 3}))
	require.Equal(t, counter.AddOk{}, c.request("n2", counter.Add{Delta: 4}))
	require.Equal(t, counter.AddOk{}, c.request("n2", counter.Add{Delta: 1}))

	// n3 has added nothing and does not gossip; n1 and n2 gossip to both
	// others
	c.tick(workload.FastGossipInterval)
	c.awaitReceived("n1", 3) // init, add, gossip
	c.awaitReceived("n2", 4) // init, add, add, gossip
	c.awaitReceived("n3", 3) // init, gossip, gossip

	for _, id := range c.ids {
		assert.Equal(t, counter.ReadOk{Value: 8}, c.request(id, counter.Read{}), "read on %s", id)
	}
}

func TestLogSendPollCommit(t *testing.T) {
	c := newTestCluster(t, kafka.New, "n1")
	c.init()

	assert.Equal(t, kafka.SendOk{Offset: 0}, c.request("n1", kafka.Send{Key: "k", Msg: 10}))
	assert.Equal(t, kafka.SendOk{Offset: 1}, c.request("n1", kafka.Send{Key: "k", Msg: 20}))

	assert.Equal(t,
		kafka.PollOk{Msgs: map[string][][2]uint64{"k": {{1, 20}}}},
		c.request("n1", kafka.Poll{Offsets: map[string]uint64{"k": 1}}))

	assert.Equal(t,
		kafka.CommitOffsetsOk{},
		c.request("n1", kafka.CommitOffsets{Offsets: map[string]uint64{"k": 5}}))

	reply := c.request("n1", kafka.ListCommittedOffsets{Keys: []string{"k"}})
	require.IsType(t, kafka.ListCommittedOffsetsOk{}, reply)
	assert.Empty(t, reply.(kafka.ListCommittedOffsetsOk).Offsets)
}

func TestEndOfInputDrainsQueuedReplies(t *testing.T) {
	c := newTestCluster(t, echo.New, "n1")
	c.init()

	const count = 200
	for i := 0; i < count; i++ {
		c.send("n1", echo.Echo{Echo: "drain"})
	}
	c.network.Disconnect("n1")

	require.NoError(t, c.awaitDone("n1"))
	assert.Equal(t, Terminated, c.nodes["n1"].State())

	// every reply was written before Run returned
	assert.Len(t, c.network.Client(), count)
}

func TestShutdownIsGraceful(t *testing.T) {
	c := newTestCluster(t, echo.New, "n1")
	c.init()

	c.nodes["n1"].Shutdown()

	require.NoError(t, c.awaitDone("n1"))
	assert.Equal(t, Terminated, c.nodes["n1"].State())

	select {
	case <-c.nodes["n1"].Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestGossipWaitsForInit(t *testing.T) {
	c := newTestCluster(t, broadcast.New, "n1")

	c.clock.Advance(time.Hour)
	assert.Equal(t, "0", c.nodes["n1"].GetStats()["gossip_rounds"])

	c.init()
	c.tick(workload.FastGossipInterval)

	require.Eventually(t, func() bool {
		return c.nodes["n1"].GetStats()["gossip_rounds"] == "1"
	}, testTimeout, 5*time.Millisecond)
}

func TestGossipIntervalOverride(t *testing.T) {
	registry := message.NewRegistry()
	counter.New().Register(registry)
	codec := message.NewCodec(registry)

	clock := clockwork.NewFakeClock()
	conf := TestConfig(t, clock)
	conf.GossipInterval = time.Minute

	network := net.NewInmemNetwork(codec, common.NewTestEntry(t, common.TestLogLevel))
	defer network.Close()

	n := NewNode(conf, counter.New(), codec, network.Transport("n1"))
	n.RunAsync()
	defer n.Shutdown()

	require.NoError(t, network.Inject([]byte(`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`)))
	<-network.Client()

	ctx, cancel := testContext()
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	// the workload default has no effect
	clock.Advance(workload.FastGossipInterval)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "0", n.GetStats()["gossip_rounds"])

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return n.GetStats()["gossip_rounds"] == "1"
	}, testTimeout, 5*time.Millisecond)
}

func TestShutdownRightAfterRunAsyncWaits(t *testing.T) {
	registry := message.NewRegistry()
	codec := message.NewCodec(registry)

	for i := 0; i < 50; i++ {
		network := net.NewInmemNetwork(codec, common.NewTestEntry(t, common.TestLogLevel))

		n := NewNode(TestConfig(t, clockwork.NewFakeClock()), echo.New(), codec, network.Transport("n1"))
		n.RunAsync()
		n.Shutdown()

		require.Equal(t, Terminated, n.State(), "run %d", i)

		select {
		case <-n.Done():
		default:
			t.Fatalf("run %d: Done should be closed once Shutdown returns", i)
		}

		network.Close()
	}
}

type brokenPipe struct{}

func (brokenPipe) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestOutputFailureIsFatal(t *testing.T) {
	registry := message.NewRegistry()
	codec := message.NewCodec(registry)

	input := strings.NewReader(`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}` + "\n")
	trans := net.NewLineTransport(input, brokenPipe{}, codec, common.NewTestEntry(t, common.TestLogLevel))

	n := NewNode(TestConfig(t, clockwork.NewFakeClock()), echo.New(), codec, trans)

	err := n.Run()
	require.Error(t, err)
	assert.True(t, common.IsFault(err, common.TransportFault), "%v should be a transport fault", err)
	assert.Equal(t, Terminated, n.State())
}
