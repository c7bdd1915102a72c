// Command sipolgar is the terminal client of the SIPOLGAR fitness service.
package main

import (
	"os"

	"github.com/sipolgar/sipolgar/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
