package workload

import (
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// Context is passed to Handle alongside the payload.
type Context struct {
	// Runtime is the node's current runtime.
	Runtime *Runtime

	// Msg is the inbound envelope, as received.
	Msg message.Envelope

	// Logger carries the node's logging fields.
	Logger *logrus.Entry
}

// Sender returns the id of the node or client that sent the message.
func (ctx *Context) Sender() string {
	return ctx.Msg.Src
}
