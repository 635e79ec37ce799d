package net

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// InmemNetwork connects several nodes in the same process, to allow clusters
// to be tested without spawning processes. Each node gets a LineTransport
// whose output is routed, record by record, to the input of the node named in
// the record's dest. Records addressed to anyone else are handed to the
// client channel.
type InmemNetwork struct {
	sync.RWMutex
	codec  *message.Codec
	logger *logrus.Entry

	inboxes  map[string]*inbox
	clientCh chan []byte
}

// NewInmemNetwork returns an empty InmemNetwork.
func NewInmemNetwork(codec *message.Codec, logger *logrus.Entry) *InmemNetwork {
	return &InmemNetwork{
		codec:    codec,
		logger:   logger,
		inboxes:  make(map[string]*inbox),
		clientCh: make(chan []byte, 4096),
	}
}

// Transport creates the transport of node id. It must be called once per
// node, before any record is routed to it.
func (n *InmemNetwork) Transport(id string) *LineTransport {
	in := newInbox()

	n.Lock()
	n.inboxes[id] = in
	n.Unlock()

	logger := n.logger.WithField("node_id", id)

	return NewLineTransport(in, &router{network: n, from: id}, n.codec, logger)
}

// Inject delivers line to the node named in its dest, as if a client had sent
// it.
func (n *InmemNetwork) Inject(line []byte) error {
	_, dest, err := n.codec.PeekAddress(line)
	if err != nil {
		return err
	}

	n.RLock()
	in, ok := n.inboxes[dest]
	n.RUnlock()

	if !ok {
		return fmt.Errorf("unknown node %q", dest)
	}

	return in.write(line)
}

// Client returns the records that were not addressed to a node of the
// network.
func (n *InmemNetwork) Client() <-chan []byte {
	return n.clientCh
}

// Disconnect ends the input of node id, which sees it as end of file. Records
// routed to it afterwards are dropped.
func (n *InmemNetwork) Disconnect(id string) {
	n.RLock()
	in, ok := n.inboxes[id]
	n.RUnlock()

	if ok {
		in.close()
	}
}

// Close disconnects every node.
func (n *InmemNetwork) Close() {
	n.RLock()
	defer n.RUnlock()

	for _, in := range n.inboxes {
		in.close()
	}
}

func (n *InmemNetwork) route(from string, line []byte) {
	_, dest, err := n.codec.PeekAddress(line)
	if err != nil {
		n.logger.WithError(err).WithField("from", from).Error("Routing record")
		return
	}

	n.RLock()
	in, ok := n.inboxes[dest]
	n.RUnlock()

	if !ok {
		n.clientCh <- line
		return
	}

	if err := in.write(line); err != nil {
		n.logger.WithFields(logrus.Fields{
			"from": from,
			"dest": dest,
		}).Debug("Dropping record for disconnected node")
	}
}

// router is the output stream of one node. It reassembles lines and routes
// each complete one.
type router struct {
	network *InmemNetwork
	from    string
	buf     []byte
}

func (r *router) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)

	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			break
		}

		line := make([]byte, i)
		copy(line, r.buf[:i])
		r.buf = r.buf[i+1:]

		r.network.route(r.from, line)
	}

	return len(p), nil
}

// inbox is the input stream of one node. Writes never block; reads block
// until data is available or the inbox is closed.
type inbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newInbox() *inbox {
	in := &inbox{}
	in.cond = sync.NewCond(&in.mu)
	return in
}

func (in *inbox) write(line []byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return io.ErrClosedPipe
	}

	in.buf.Write(line)
	in.buf.WriteByte('\n')
	in.cond.Broadcast()

	return nil
}

func (in *inbox) Read(p []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for in.buf.Len() == 0 && !in.closed {
		in.cond.Wait()
	}

	if in.buf.Len() == 0 {
		return 0, io.EOF
	}

	return in.buf.Read(p)
}

func (in *inbox) close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.closed = true
	in.cond.Broadcast()
}
