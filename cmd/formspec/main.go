// Command formspec validates, formats and renders TOML form specs, edits
// them interactively and syncs them with the forms service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
