// Command lutgen generates palette-warped Hald-CLUT lookup tables and
// applies or patches them onto images and text files.
package main

import (
	"os"

	"github.com/lutgen-go/lutgen/cmd/lutgen/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
