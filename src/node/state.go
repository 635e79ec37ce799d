package node

import (
	"sync/atomic"
)

// State captures the lifecycle stage of a node: Uninitialized, Running,
// Draining, or Terminated.
type State uint32

const (
	// Uninitialized is the initial state, before init is received.
	Uninitialized State = iota
	// Running is entered once init_ok has been queued.
	Running
	// Draining means shutdown was requested; no more input is processed and
	// the outbound queue is being flushed.
	Draining
	// Terminated means every queued record was written.
	Terminated
)

// String ...
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type state struct {
	state State
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}
