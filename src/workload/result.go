package workload

import (
	"fmt"

	"github.com/mosaicnetworks/murmur/src/message"
)

// ResultKind says what the dispatcher should do with the outcome of Handle.
type ResultKind int

const (
	// NoReplyResult means the message was absorbed; nothing is sent back.
	NoReplyResult ResultKind = iota
	// ReplyResult carries a payload to send back to the sender.
	ReplyResult
	// UnexpectedResult means the workload has no handler for the payload.
	UnexpectedResult
)

// Result is the outcome of Workload.Handle.
type Result struct {
	kind    ResultKind
	payload message.Payload
	reason  string
}

// NoReply is returned for fire-and-forget messages such as gossip.
func NoReply() Result {
	return Result{kind: NoReplyResult}
}

// Reply is returned when the handler answers the sender with p.
func Reply(p message.Payload) Result {
	return Result{kind: ReplyResult, payload: p}
}

// Unexpected is returned when msg is not something the workload handles. The
// dispatcher logs it and drops the message.
func Unexpected(msg message.Payload) Result {
	return Result{kind: UnexpectedResult, reason: fmt.Sprintf("unexpected %T", msg)}
}

// Kind returns the ResultKind.
func (r Result) Kind() ResultKind {
	return r.kind
}

// Payload returns the reply payload. ok is false unless the result is a reply.
func (r Result) Payload() (p message.Payload, ok bool) {
	return r.payload, r.kind == ReplyResult
}

// Reason describes an unexpected result.
func (r Result) Reason() string {
	return r.reason
}
