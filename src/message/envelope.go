package message

// Payload is the workload-specific (or bootstrap) part of a message body. Type
// returns the wire tag. Implementations must be value types that encode to a
// JSON object.
type Payload interface {
	Type() string
}

// Body is the content of an Envelope. MsgID is set by senders that expect a
// reply, InReplyTo by responders. A reply never carries its own MsgID.
type Body struct {
	MsgID     *uint64
	InReplyTo *uint64
	Payload   Payload
}

// Envelope is an addressed message. It is treated as immutable once built.
type Envelope struct {
	Src  string
	Dest string
	Body Body
}

// Reply returns an Envelope addressed back to the sender of e and correlated
// with e's MsgID, if it had one.
func (e Envelope) Reply(p Payload) Envelope {
	reply := Envelope{
		Src:  e.Dest,
		Dest: e.Src,
		Body: Body{Payload: p},
	}

	if e.Body.MsgID != nil {
		reply.Body.InReplyTo = ID(*e.Body.MsgID)
	}

	return reply
}

// Type returns the type tag of the payload, or an empty string if there is
// none.
func (e Envelope) Type() string {
	if e.Body.Payload == nil {
		return ""
	}
	return e.Body.Payload.Type()
}

// ID returns a pointer to a copy of id, for filling correlation fields.
func ID(id uint64) *uint64 {
	return &id
}
