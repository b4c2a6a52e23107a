// Command fabric lays out and updates shadow trees described in YAML.
package main

import (
	"os"

	"github.com/go-drift/fabric/cmd/fabric/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
