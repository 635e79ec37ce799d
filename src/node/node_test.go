package node

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

// testCluster runs nodes over an in-memory network, on a shared fake clock,
// and plays the client.
type testCluster struct {
	t       *testing.T
	codec   *message.Codec
	network *net.InmemNetwork
	clock   *clockwork.FakeClock
	ids     []string
	nodes   map[string]*Node
	errs    map[string]chan error

	msgID   uint64
	pending []message.Envelope
}

func newTestCluster(t *testing.T, factory workload.Factory, ids ...string) *testCluster {
	registry := message.NewRegistry()
	factory().Register(registry)
	codec := message.NewCodec(registry)

	c := &testCluster{
		t:       t,
		codec:   codec,
		network: net.NewInmemNetwork(codec, common.NewTestEntry(t, common.TestLogLevel)),
		clock:   clockwork.NewFakeClock(),
		ids:     ids,
		nodes:   make(map[string]*Node),
		errs:    make(map[string]chan error),
	}

	for _, id := range ids {
		trans := c.network.Transport(id)
		c.nodes[id] = NewNode(TestConfig(t, c.clock), factory(), codec, trans)

		errCh := make(chan error, 1)
		c.errs[id] = errCh
		go func(n *Node) {
			errCh <- n.Run()
		}(c.nodes[id])
	}

	t.Cleanup(c.close)

	return c
}

func (c *testCluster) close() {
	c.network.Close()
	for _, n := range c.nodes {
		n.Shutdown()
	}
}

// send injects a client request and returns its msg_id.
func (c *testCluster) send(dest string, p message.Payload) uint64 {
	c.t.Helper()

	c.msgID++
	line, err := c.codec.Encode(message.Envelope{
		Src:  "c1",
		Dest: dest,
		Body: message.Body{MsgID: message.ID(c.msgID), Payload: p},
	})
	require.NoError(c.t, err)
	require.NoError(c.t, c.network.Inject(line))

	return c.msgID
}

// inject delivers a raw record.
func (c *testCluster) inject(line string) {
	c.t.Helper()
	require.NoError(c.t, c.network.Inject([]byte(line)))
}

// await returns the reply to msgID.
func (c *testCluster) await(msgID uint64) message.Envelope {
	c.t.Helper()

	for i, e := range c.pending {
		if e.Body.InReplyTo != nil && *e.Body.InReplyTo == msgID {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return e
		}
	}

	deadline := time.After(testTimeout)
	for {
		select {
		case line := <-c.network.Client():
			e, err := c.codec.Decode(line)
			require.NoError(c.t, err)

			if e.Body.InReplyTo != nil && *e.Body.InReplyTo == msgID {
				return e
			}
			c.pending = append(c.pending, e)
		case <-deadline:
			c.t.Fatalf("no reply to msg_id %d", msgID)
		}
	}
}

// request sends p to dest and returns the reply payload.
func (c *testCluster) request(dest string, p message.Payload) message.Payload {
	c.t.Helper()

	reply := c.await(c.send(dest, p))
	require.Equal(c.t, dest, reply.Src)
	require.Equal(c.t, "c1", reply.Dest)
	require.Nil(c.t, reply.Body.MsgID, "replies carry no msg_id")

	return reply.Body.Payload
}

// init bootstraps every node.
func (c *testCluster) init() {
	c.t.Helper()

	for _, id := range c.ids {
		reply := c.request(id, message.Init{NodeID: id, NodeIDs: c.ids})
		require.Equal(c.t, message.InitOk{}, reply)
	}
}

// tick advances the clock by one gossip period, once every running node's
// timer is armed.
func (c *testCluster) tick(interval time.Duration) {
	c.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	require.NoError(c.t, c.clock.BlockUntilContext(ctx, len(c.nodes)))
	c.clock.Advance(interval)
}

// awaitReceived waits until node id has decoded at least count records.
func (c *testCluster) awaitReceived(id string, count uint64) {
	c.t.Helper()

	require.Eventually(c.t, func() bool {
		received, _ := strconv.ParseUint(c.nodes[id].GetStats()["messages_received"], 10, 64)
		return received >= count
	}, testTimeout, 5*time.Millisecond, "%s should receive %d records", id, count)
}

func (c *testCluster) awaitDone(id string) error {
	c.t.Helper()

	select {
	case err := <-c.errs[id]:
		return err
	case <-time.After(testTimeout):
		c.t.Fatalf("%s should terminate", id)
		return nil
	}
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), testTimeout)
}
