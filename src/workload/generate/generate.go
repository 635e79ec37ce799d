// Package generate hands out globally unique ids without coordination. Ids
// are version 7 UUIDs, so they also sort by creation time.
package generate

import (
	"github.com/gofrs/uuid/v5"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
)

// Generate asks for a fresh id.
type Generate struct{}

// GenerateOk carries the id.
type GenerateOk struct {
	ID string `json:"id"`
}

func (Generate) Type() string   { return "generate" }
func (GenerateOk) Type() string { return "generate_ok" }

// Generator is the unique-ids workload.
type Generator struct {
	workload.NoGossip

	gen uuid.Generator
}

// New returns a Generator backed by the default UUID generator.
func New() workload.Workload {
	return NewGenerator(uuid.NewGen())
}

// NewGenerator returns a Generator backed by gen.
func NewGenerator(gen uuid.Generator) *Generator {
	return &Generator{gen: gen}
}

// Name implements workload.Workload.
func (g *Generator) Name() string {
	return "unique-ids"
}

// Register implements workload.Workload.
func (g *Generator) Register(r *message.Registry) {
	message.Register[Generate](r)
	message.Register[GenerateOk](r)
}

// Handle implements workload.Workload.
func (g *Generator) Handle(msg message.Payload, ctx *workload.Context) workload.Result {
	if _, ok := msg.(Generate); !ok {
		return workload.Unexpected(msg)
	}

	id, err := g.gen.NewV7()
	if err != nil {
		// the entropy source failed; nothing sensible to answer with
		ctx.Logger.WithError(err).Error("Generating id")
		return workload.NoReply()
	}

	return workload.Reply(GenerateOk{ID: id.String()})
}
