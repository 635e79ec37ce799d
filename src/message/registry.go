package message

import "sort"

type decodeFunc func(c *Codec, line []byte) (Payload, error)

type entry struct {
	zero   Payload
	decode decodeFunc
}

// Registry maps type tags to the payload types they decode into. A new
// Registry already knows the bootstrap payloads.
type Registry struct {
	decoders map[string]entry
}

// NewRegistry returns a Registry containing Init and InitOk.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[string]entry),
	}

	Register[Init](r)
	Register[InitOk](r)

	return r
}

// Register adds payload type T to the registry under the tag returned by
// T.Type(). Registering a tag twice replaces the previous type.
func Register[T Payload](r *Registry) {
	var zero T

	decode := func(c *Codec, line []byte) (Payload, error) {
		var rec struct {
			Body T `json:"body"`
		}

		if err := c.decode(line, &rec); err != nil {
			return nil, err
		}

		return rec.Body, nil
	}

	r.decoders[zero.Type()] = entry{zero: zero, decode: decode}
}

// Types returns the registered tags in sorted order.
func (r *Registry) Types() []string {
	res := make([]string, 0, len(r.decoders))
	for t := range r.decoders {
		res = append(res, t)
	}
	sort.Strings(res)
	return res
}

// Zero returns the zero value of the payload type registered under tag.
func (r *Registry) Zero(tag string) (Payload, bool) {
	e, ok := r.decoders[tag]
	return e.zero, ok
}

func (r *Registry) lookup(t string) (decodeFunc, bool) {
	e, ok := r.decoders[t]
	return e.decode, ok
}
