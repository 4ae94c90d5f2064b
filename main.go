package main

import (
	"github.com/foomo/snapstore/cmd"
)

func main() {
	cmd.Execute()
}
