package main

import (
	"github.com/mosaicnetworks/murmur/src/cmd/command"
	"github.com/mosaicnetworks/murmur/src/workload/kafka"
)

func main() {
	command.Execute(command.NewRootCmd("kafka", "Append-only commit log with committed offsets", kafka.New))
}
