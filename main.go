package main

import (
	"eventdesk/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
