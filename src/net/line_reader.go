package net

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	readBufSize = 64 * 1024

	retryInitialInterval = 10 * time.Millisecond
	retryMaxInterval     = time.Second
)

// LineReader splits an input stream into newline-terminated records and hands
// them over on a channel. Blank lines are skipped. A final record without a
// trailing newline is still delivered. Read errors are logged and retried
// with a backoff; only the end of the stream stops the reader.
type LineReader struct {
	r       *bufio.Reader
	logger  *logrus.Entry
	backoff backoff.BackOff

	linesCh  chan []byte
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLineReader returns a LineReader over r. Call Run to start reading.
func NewLineReader(r io.Reader, logger *logrus.Entry) *LineReader {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = 0

	return &LineReader{
		r:       bufio.NewReaderSize(r, readBufSize),
		logger:  logger,
		backoff: b,
		linesCh: make(chan []byte),
		stopCh:  make(chan struct{}),
	}
}

// Lines returns the channel of records. It is closed when Run returns.
func (lr *LineReader) Lines() <-chan []byte {
	return lr.linesCh
}

// Run reads until the stream ends or Stop is called.
func (lr *LineReader) Run() {
	defer close(lr.linesCh)

	var partial []byte

	for {
		line, err := lr.r.ReadBytes('\n')

		if err != nil && !permanent(err) {
			partial = append(partial, line...)

			wait := lr.backoff.NextBackOff()
			lr.logger.WithError(err).WithField("retry_in", wait).Error("Reading input")

			if !lr.sleep(wait) {
				return
			}
			continue
		}

		lr.backoff.Reset()

		if len(partial) > 0 {
			line = append(partial, line...)
			partial = nil
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			select {
			case <-lr.stopCh:
				return
			default:
			}

			select {
			case lr.linesCh <- line:
			case <-lr.stopCh:
				return
			}
		}

		if err != nil {
			lr.logger.WithError(err).Debug("End of input")
			return
		}
	}
}

func (lr *LineReader) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-lr.stopCh:
		return false
	}
}

// permanent reports whether err means the stream is gone for good.
func permanent(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}

// Stop makes Run return at the next record boundary. A read that is already
// blocked is not interrupted.
func (lr *LineReader) Stop() {
	lr.stopOnce.Do(func() {
		close(lr.stopCh)
	})
}
