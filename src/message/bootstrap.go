package message

// Init is the handshake delivered once to every node, before anything else. It
// tells the node its own id and the ids of all nodes in the cluster.
type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

// Type implements the Payload interface.
func (Init) Type() string { return "init" }

// InitOk acknowledges an Init.
type InitOk struct{}

// Type implements the Payload interface.
func (InitOk) Type() string { return "init_ok" }
