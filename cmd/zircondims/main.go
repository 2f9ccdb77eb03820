// Command zircondims matches LA-ICP-MS scanlists to reflected-light mosaics
// and segments zircon grains around analysis spots.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
