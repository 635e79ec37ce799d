package main

import (
	"github.com/mosaicnetworks/murmur/src/cmd/command"
	"github.com/mosaicnetworks/murmur/src/workload/counter"
)

func main() {
	command.Execute(command.NewRootCmd("counter", "Grow-only counter CRDT", counter.New))
}
