package net

import (
	"bufio"
	"io"
	"sync"

	"github.com/gammazero/deque"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/sirupsen/logrus"
)

// Writer serialises envelopes to an output stream from a single goroutine.
// Enqueue never blocks; records are written in the order they were enqueued,
// each as one complete line followed by a flush, so concurrent producers
// never interleave partial records.
type Writer struct {
	codec  *message.Codec
	w      *bufio.Writer
	logger *logrus.Entry

	mu     sync.Mutex
	queue  *deque.Deque[message.Envelope]
	closed bool
	err    error

	notifyCh chan struct{}
	fatalCh  chan error
	doneCh   chan struct{}
}

// NewWriter returns a Writer over w. Call Run to start writing.
func NewWriter(w io.Writer, codec *message.Codec, logger *logrus.Entry) *Writer {
	return &Writer{
		codec:    codec,
		w:        bufio.NewWriter(w),
		logger:   logger,
		queue:    deque.New[message.Envelope](),
		notifyCh: make(chan struct{}, 1),
		fatalCh:  make(chan error, 1),
		doneCh:   make(chan struct{}),
	}
}

// Enqueue appends e to the queue. Envelopes enqueued after Close are dropped.
func (wr *Writer) Enqueue(e message.Envelope) {
	wr.mu.Lock()
	if wr.closed {
		wr.mu.Unlock()
		telemetry.RecordsDropped.WithLabelValues(telemetry.DropClosed).Inc()
		wr.logger.WithFields(logrus.Fields{
			"dest": e.Dest,
			"type": e.Type(),
		}).Warn("Dropping record enqueued after close")
		return
	}
	wr.queue.PushBack(e)
	telemetry.OutboundQueueDepth.Set(float64(wr.queue.Len()))
	wr.mu.Unlock()

	wr.notify()
}

// Len returns the number of queued envelopes.
func (wr *Writer) Len() int {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	return wr.queue.Len()
}

// Run writes queued envelopes until the Writer is closed and the queue is
// drained, or until a write fails.
func (wr *Writer) Run() {
	defer close(wr.doneCh)

	for {
		e, ok, closed := wr.next()
		if !ok {
			if closed {
				return
			}
			<-wr.notifyCh
			continue
		}

		if err := wr.write(e); err != nil {
			wr.fail(err)
			return
		}
	}
}

// Close stops accepting envelopes. Run returns once everything queued before
// Close has been written.
func (wr *Writer) Close() {
	wr.mu.Lock()
	wr.closed = true
	wr.mu.Unlock()

	wr.notify()
}

// Wait blocks until Run has returned and reports the write error, if any.
func (wr *Writer) Wait() error {
	<-wr.doneCh

	wr.mu.Lock()
	defer wr.mu.Unlock()

	return wr.err
}

// Fatal receives the write error that stopped Run.
func (wr *Writer) Fatal() <-chan error {
	return wr.fatalCh
}

func (wr *Writer) next() (e message.Envelope, ok bool, closed bool) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.queue.Len() == 0 {
		return e, false, wr.closed
	}

	e = wr.queue.PopFront()
	telemetry.OutboundQueueDepth.Set(float64(wr.queue.Len()))

	return e, true, wr.closed
}

// write encodes and writes a single record. Encoding failures are logic
// faults: the record is logged and dropped and the writer carries on. Only
// I/O failures are returned.
func (wr *Writer) write(e message.Envelope) error {
	line, err := wr.codec.Encode(e)
	if err != nil {
		telemetry.RecordsDropped.WithLabelValues(telemetry.DropEncode).Inc()
		wr.logger.WithError(err).WithField("dest", e.Dest).Error("Encoding record")
		return nil
	}

	line = append(line, '\n')
	if _, err := wr.w.Write(line); err != nil {
		return common.WrapFault(common.TransportFault, err, "writing record")
	}
	if err := wr.w.Flush(); err != nil {
		return common.WrapFault(common.TransportFault, err, "flushing record")
	}

	telemetry.MessagesSent.WithLabelValues(e.Type()).Inc()

	return nil
}

func (wr *Writer) fail(err error) {
	wr.logger.WithError(err).Error("Output stream failed")

	wr.mu.Lock()
	wr.err = err
	wr.closed = true
	dropped := wr.queue.Len()
	wr.queue.Clear()
	telemetry.OutboundQueueDepth.Set(0)
	wr.mu.Unlock()

	if dropped > 0 {
		telemetry.RecordsDropped.WithLabelValues(telemetry.DropClosed).Add(float64(dropped))
	}

	wr.fatalCh <- err
}

func (wr *Writer) notify() {
	select {
	case wr.notifyCh <- struct{}{}:
	default:
	}
}
