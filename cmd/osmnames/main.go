// osmnames resolves localized names and search terms for map-feature presets.
// Single binary with a bundled catalog; point it at a directory or a bbolt
// asset store to use another one.
package main

import (
	"os"

	"github.com/corey/osmnames/cmd/osmnames/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
