package main

import (
	"github.com/mosaicnetworks/murmur/src/cmd/command"
	"github.com/mosaicnetworks/murmur/src/workload/echo"
)

func main() {
	command.Execute(command.NewRootCmd("echo", "Echo server", echo.New))
}
