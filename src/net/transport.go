package net

import (
	"errors"

	"github.com/mosaicnetworks/murmur/src/message"
)

var (
	// ErrTransportShutdown is returned by Close when the writer stopped
	// because of a previous failure, and reported to callers that try to use
	// a transport after it has been closed.
	ErrTransportShutdown = errors.New("transport shutdown")
)

// Transport carries the records of a single node. Inbound records are raw
// lines, decoding is left to the node. Outbound records are envelopes that the
// transport encodes and writes, one per line, in the order they were sent.
type Transport interface {

	// Listen starts the background reader and writer.
	Listen()

	// Consumer returns the channel of inbound lines. It is closed when the
	// input is exhausted or the transport is closed.
	Consumer() <-chan []byte

	// Send queues an envelope for writing. It never blocks.
	Send(e message.Envelope)

	// Fatal returns a channel that receives the error that stopped the
	// writer, if any.
	Fatal() <-chan error

	// Pending returns the number of envelopes waiting to be written.
	Pending() int

	// Close stops reading, writes every envelope queued so far, and returns
	// the error that stopped the writer, if any.
	Close() error
}
