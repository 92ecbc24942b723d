// Command conductor runs scripted lifecycle scenarios and hosts conductors
// in the terminal.
package main

import (
	"os"

	"github.com/go-drift/conductor/cmd/conductor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
