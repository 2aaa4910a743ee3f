// Command maek is the sample driver binary: it wires the engine against
// the sample game program (see internal/sampledriver) and runs the CLI.
// A real project would instead provide its own driver main importing
// package cli and package rules directly.
package main

import (
	"os"

	"github.com/jcreedcmu/maek/internal/cli"
	"github.com/jcreedcmu/maek/internal/sampledriver"
)

func main() {
	cli.SetConfigure(sampledriver.Configure)
	os.Exit(cli.Execute())
}
