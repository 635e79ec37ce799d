package net

import (
	"io"
	"os"
	"sync"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// LineTransport is a Transport over a pair of byte streams carrying
// line-delimited JSON records.
type LineTransport struct {
	reader *LineReader
	writer *Writer
	logger *logrus.Entry

	listening atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewLineTransport returns a LineTransport reading from r and writing to w.
func NewLineTransport(r io.Reader, w io.Writer, codec *message.Codec, logger *logrus.Entry) *LineTransport {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &LineTransport{
		reader: NewLineReader(r, logger.WithField("prefix", "reader")),
		writer: NewWriter(w, codec, logger.WithField("prefix", "writer")),
		logger: logger,
	}
}

// NewStdioTransport returns a LineTransport over the process's standard input
// and output.
func NewStdioTransport(codec *message.Codec, logger *logrus.Entry) *LineTransport {
	return NewLineTransport(os.Stdin, os.Stdout, codec, logger)
}

// Listen implements the Transport interface.
func (t *LineTransport) Listen() {
	if !t.listening.CompareAndSwap(false, true) {
		return
	}

	go t.reader.Run()
	go t.writer.Run()
}

// Consumer implements the Transport interface.
func (t *LineTransport) Consumer() <-chan []byte {
	return t.reader.Lines()
}

// Send implements the Transport interface.
func (t *LineTransport) Send(e message.Envelope) {
	t.writer.Enqueue(e)
}

// Fatal implements the Transport interface.
func (t *LineTransport) Fatal() <-chan error {
	return t.writer.Fatal()
}

// Pending implements the Transport interface.
func (t *LineTransport) Pending() int {
	return t.writer.Len()
}

// Close implements the Transport interface. It is safe to call more than
// once.
func (t *LineTransport) Close() error {
	t.closeOnce.Do(func() {
		t.reader.Stop()
		t.writer.Close()

		if t.listening.Load() {
			t.closeErr = t.writer.Wait()
		}

		t.logger.WithError(t.closeErr).Debug("Transport closed")
	})

	return t.closeErr
}
