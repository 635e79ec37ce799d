// Package net implements the transports that carry a node's records.
//
// A node talks to the outside world through exactly two byte streams: records
// come in on one and go out on the other, one JSON object per line. Transport
// hides the streams behind a channel of inbound lines and a non-blocking Send.
//
// Writer
//
// All output goes through a single Writer goroutine fed by an unbounded queue.
// Handlers and gossip rounds enqueue envelopes without ever blocking on the
// output stream, and because only one goroutine writes, records can never be
// interleaved. Each record is written as one complete line and flushed.
//
// A record that cannot be encoded is logged and dropped. A failure of the
// output stream itself is fatal: the Writer stops and reports the error on
// the Fatal channel, and the node shuts down.
//
// Inmem
//
// InmemNetwork wires several LineTransports together in memory, routing each
// output record to the input of the node it is addressed to. It is used to
// test multi-node scenarios within a single process.
package net
