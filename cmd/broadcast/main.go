package main

import (
	"github.com/mosaicnetworks/murmur/src/cmd/command"
	"github.com/mosaicnetworks/murmur/src/workload/broadcast"
)

func main() {
	command.Execute(command.NewRootCmd("broadcast", "Set broadcast over star-topology gossip", broadcast.New))
}
