// Package main is the entry point for the perflens application
package main

import (
	"os"

	"github.com/perflens/perflens/cmd"
)

func main() {
	// No arguments: launch the interactive menu, same as `perflens interactive`.
	if len(os.Args) == 1 {
		cmd.RunInteractive()
		return
	}

	cmd.Execute()
}
