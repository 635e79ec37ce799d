package counter

import "github.com/mosaicnetworks/murmur/src/message"

// Add increments the counter by Delta.
type Add struct {
	Delta uint64 `json:"delta"`
}

// AddOk acknowledges an Add.
type AddOk struct{}

// Read asks for the current value of the counter.
type Read struct{}

// ReadOk carries the value of the counter as seen by the node.
type ReadOk struct {
	Value uint64 `json:"value"`
}

// Gossip carries the sum of all deltas applied locally by the sender.
type Gossip struct {
	Counter uint64 `json:"counter"`
}

func (Add) Type() string    { return "add" }
func (AddOk) Type() string  { return "add_ok" }
func (Read) Type() string   { return "read" }
func (ReadOk) Type() string { return "read_ok" }
func (Gossip) Type() string { return "gossip" }

func register(r *message.Registry) {
	message.Register[Add](r)
	message.Register[AddOk](r)
	message.Register[Read](r)
	message.Register[ReadOk](r)
	message.Register[Gossip](r)
}
