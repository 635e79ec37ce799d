package main

import (
	"github.com/mosaicnetworks/murmur/src/cmd/command"
	"github.com/mosaicnetworks/murmur/src/workload/generate"
)

func main() {
	command.Execute(command.NewRootCmd("unique-ids", "Globally unique id generator", generate.New))
}
