// Package echo answers every echo request with the value it was sent.
package echo

import (
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
)

// Echo asks the node to send Echo back.
type Echo struct {
	Echo string `json:"echo"`
}

// EchoOk carries the echoed value.
type EchoOk struct {
	Echo string `json:"echo"`
}

func (Echo) Type() string   { return "echo" }
func (EchoOk) Type() string { return "echo_ok" }

// Echoer is the echo workload. It holds no state.
type Echoer struct {
	workload.NoGossip
}

// New returns an Echoer.
func New() workload.Workload {
	return &Echoer{}
}

// Name implements workload.Workload.
func (e *Echoer) Name() string {
	return "echo"
}

// Register implements workload.Workload.
func (e *Echoer) Register(r *message.Registry) {
	message.Register[Echo](r)
	message.Register[EchoOk](r)
}

// Handle implements workload.Workload.
func (e *Echoer) Handle(msg message.Payload, ctx *workload.Context) workload.Result {
	m, ok := msg.(Echo)
	if !ok {
		return workload.Unexpected(msg)
	}
	return workload.Reply(EchoOk{Echo: m.Echo})
}
