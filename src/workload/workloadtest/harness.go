// Package workloadtest provides helpers to drive a Workload directly, without
// a node or a transport.
package workloadtest

import (
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/peers"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/sirupsen/logrus"
)

// Harness plays the part of the dispatcher for a single node.
type Harness struct {
	Runtime *workload.Runtime

	logger *logrus.Entry
	sent   []message.Envelope
	msgID  uint64
}

// NewHarness returns a Harness for node self in a cluster made of ids.
func NewHarness(t testing.TB, self string, ids ...string) *Harness {
	h := &Harness{
		logger: common.NewTestEntry(t, common.TestLogLevel).WithField("node_id", self),
	}

	h.Runtime = workload.NewRuntime(self, peers.NewPeerSet(ids), func(e message.Envelope) {
		h.sent = append(h.sent, e)
	})

	return h
}

// Handle delivers p from src to w, with a fresh msg_id.
func (h *Harness) Handle(w workload.Workload, src string, p message.Payload) workload.Result {
	h.msgID++

	ctx := &workload.Context{
		Runtime: h.Runtime,
		Msg: message.Envelope{
			Src:  src,
			Dest: h.Runtime.ID(),
			Body: message.Body{MsgID: message.ID(h.msgID), Payload: p},
		},
		Logger: h.logger,
	}

	return w.Handle(p, ctx)
}

// Reply delivers p like Handle and returns the reply payload. It fails the
// test if the workload did not reply.
func (h *Harness) Reply(t testing.TB, w workload.Workload, src string, p message.Payload) message.Payload {
	t.Helper()

	res := h.Handle(w, src, p)
	reply, ok := res.Payload()
	if !ok {
		t.Fatalf("%s should be answered, got result kind %d", p.Type(), res.Kind())
	}

	return reply
}

// Sent returns and forgets the envelopes sent through the Runtime so far.
func (h *Harness) Sent() []message.Envelope {
	sent := h.sent
	h.sent = nil
	return sent
}

// RequireZeroValuesEncode checks that the zero value of every payload type w
// registers encodes and decodes back to the same type tag.
func RequireZeroValuesEncode(t testing.TB, w workload.Workload) {
	t.Helper()

	r := message.NewRegistry()
	w.Register(r)
	c := message.NewCodec(r)

	for _, tag := range r.Types() {
		zero, _ := r.Zero(tag)

		out, err := c.Encode(message.Envelope{Src: "n1", Dest: "n2", Body: message.Body{Payload: zero}})
		if err != nil {
			t.Fatalf("encoding zero %s: %v", tag, err)
		}

		env, err := c.Decode(out)
		if err != nil {
			t.Fatalf("decoding zero %s: %v", tag, err)
		}

		if got := env.Body.Payload.Type(); got != tag {
			t.Fatalf("zero %s decoded as %s", tag, got)
		}
	}
}
