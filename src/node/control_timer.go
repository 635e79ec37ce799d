package node

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ControlTimer drives the gossip rounds. It ticks periodically once Reset has
// been called and until Stop or Shutdown. Ticks that are not consumed in time
// are dropped rather than queued, so a slow consumer only ever sees one
// pending tick.
type ControlTimer struct {
	clock      clockwork.Clock
	tickCh     chan struct{}      //sends a signal to listening process
	resetCh    chan time.Duration //receives instruction to reset the ticker
	stopCh     chan struct{}      //receives instruction to stop the ticker
	shutdownCh chan struct{}      //receives instruction to exit Run loop
	once       sync.Once
}

// NewControlTimer returns a stopped ControlTimer that reads time from clock.
func NewControlTimer(clock clockwork.Clock) *ControlTimer {
	return &ControlTimer{
		clock:      clock,
		tickCh:     make(chan struct{}, 1),
		resetCh:    make(chan time.Duration),
		stopCh:     make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Run starts ticking every init, or waits for Reset if init is zero. It
// returns after Shutdown.
func (c *ControlTimer) Run(init time.Duration) {
	var ticker clockwork.Ticker
	var tickC <-chan time.Time

	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
		tickC = nil
	}

	set := func(d time.Duration) {
		stop()
		if d > 0 {
			ticker = c.clock.NewTicker(d)
			tickC = ticker.Chan()
		}
	}

	set(init)
	for {
		select {
		case <-tickC:
			select {
			case c.tickCh <- struct{}{}:
			default:
			}
		case d := <-c.resetCh:
			set(d)
		case <-c.stopCh:
			stop()
		case <-c.shutdownCh:
			stop()
			return
		}
	}
}

// Ticks returns the channel on which ticks are delivered.
func (c *ControlTimer) Ticks() <-chan struct{} {
	return c.tickCh
}

// Reset (re)starts ticking with period d.
func (c *ControlTimer) Reset(d time.Duration) {
	select {
	case c.resetCh <- d:
	case <-c.shutdownCh:
	}
}

// Stop pauses ticking until the next Reset.
func (c *ControlTimer) Stop() {
	select {
	case c.stopCh <- struct{}{}:
	case <-c.shutdownCh:
	}
}

// Shutdown makes Run return. It is safe to call more than once.
func (c *ControlTimer) Shutdown() {
	c.once.Do(func() {
		close(c.shutdownCh)
	})
}
