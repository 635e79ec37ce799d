package message

import (
	"bytes"
	"reflect"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/ugorji/go/codec"
)

type wireBody struct {
	Type      string  `json:"type"`
	MsgID     *uint64 `json:"msg_id,omitempty"`
	InReplyTo *uint64 `json:"in_reply_to,omitempty"`
}

type wireAddress struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

type wireHeader struct {
	Src  string   `json:"src"`
	Dest string   `json:"dest"`
	Body wireBody `json:"body"`
}

var bodyKey = []byte(`,"body":`)

// Codec converts between Envelopes and single-line JSON records. It is safe
// for concurrent use.
type Codec struct {
	handle   *codec.JsonHandle
	registry *Registry
}

// NewCodec returns a Codec that decodes the payload types known to registry.
func NewCodec(registry *Registry) *Codec {
	return &Codec{
		handle:   newJSONHandle(),
		registry: registry,
	}
}

func newJSONHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.Canonical = true
	return h
}

// Decode parses one record. Any failure is returned as a common.DecodeFault.
func (c *Codec) Decode(line []byte) (Envelope, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Envelope{}, common.NewFault(common.DecodeFault, "empty record")
	}

	var h wireHeader
	if err := c.decode(line, &h); err != nil {
		return Envelope{}, common.WrapFault(common.DecodeFault, err, "malformed record")
	}

	if h.Body.Type == "" {
		return Envelope{}, common.NewFault(common.DecodeFault, "record has no body type")
	}

	dec, ok := c.registry.lookup(h.Body.Type)
	if !ok {
		return Envelope{}, common.NewFault(common.DecodeFault, "unknown body type %q", h.Body.Type)
	}

	payload, err := dec(c, line)
	if err != nil {
		return Envelope{}, common.WrapFault(common.DecodeFault, err, "malformed %q body", h.Body.Type)
	}

	return Envelope{
		Src:  h.Src,
		Dest: h.Dest,
		Body: Body{
			MsgID:     h.Body.MsgID,
			InReplyTo: h.Body.InReplyTo,
			Payload:   payload,
		},
	}, nil
}

// Encode renders e as a single JSON object without a trailing newline. The
// payload fields are flattened into the body next to the type tag and the
// correlation fields.
func (c *Codec) Encode(e Envelope) ([]byte, error) {
	if e.Body.Payload == nil {
		return nil, common.NewFault(common.LogicFault, "envelope %s->%s has no payload", e.Src, e.Dest)
	}

	addr, err := c.encode(wireAddress{Src: e.Src, Dest: e.Dest})
	if err != nil {
		return nil, err
	}

	head, err := c.encode(wireBody{
		Type:      e.Body.Payload.Type(),
		MsgID:     e.Body.MsgID,
		InReplyTo: e.Body.InReplyTo,
	})
	if err != nil {
		return nil, err
	}

	fields, err := c.encode(addressable(e.Body.Payload))
	if err != nil {
		return nil, err
	}

	body, err := mergeObjects(head, fields)
	if err != nil {
		return nil, common.WrapFault(common.LogicFault, err, "encoding %q payload", e.Body.Payload.Type())
	}

	out := make([]byte, 0, len(addr)+len(bodyKey)+len(body)+1)
	out = append(out, addr[:len(addr)-1]...)
	out = append(out, bodyKey...)
	out = append(out, body...)
	out = append(out, '}')

	return out, nil
}

// PeekAddress returns the src and dest of a record without decoding its body.
func (c *Codec) PeekAddress(line []byte) (src, dest string, err error) {
	var a wireAddress
	if err := c.decode(bytes.TrimSpace(line), &a); err != nil {
		return "", "", common.WrapFault(common.DecodeFault, err, "malformed record")
	}
	return a.Src, a.Dest, nil
}

func (c *Codec) decode(line []byte, v interface{}) error {
	return codec.NewDecoderBytes(line, c.handle).Decode(v)
}

func (c *Codec) encode(v interface{}) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(b), nil
}

// addressable returns a pointer to a copy of p. Struct values whose fields
// are all nil maps or slices encode as null, but through a pointer they always
// encode as an object.
func addressable(p Payload) interface{} {
	v := reflect.ValueOf(p)
	if v.Kind() == reflect.Ptr {
		return p
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)

	return ptr.Interface()
}

// mergeObjects appends the members of the JSON object fields to the JSON
// object head.
func mergeObjects(head, fields []byte) ([]byte, error) {
	if len(fields) < 2 || fields[0] != '{' || fields[len(fields)-1] != '}' {
		return nil, common.NewFault(common.LogicFault, "payload does not encode to an object: %s", fields)
	}

	members := bytes.TrimSpace(fields[1 : len(fields)-1])
	if len(members) == 0 {
		return head, nil
	}

	out := make([]byte, 0, len(head)+len(members)+1)
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, members...)
	out = append(out, '}')

	return out, nil
}
