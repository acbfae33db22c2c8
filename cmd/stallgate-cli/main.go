// Package main provides the entry point for stallgate-cli.
//
// stallgate-cli talks to one marketplace frontend at a time: point it
// at the seller listener for item management and at the buyer listener
// for shopping.
package main

import (
	"fmt"
	"os"

	"github.com/openstall/stallgate/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
