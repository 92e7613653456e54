package main

import (
	"os"

	"github.com/cspro-tools/csprocompile/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
