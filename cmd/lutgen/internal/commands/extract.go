package commands

import (
	"fmt"
	"image/png"
	"os"

	"github.com/lutgen-go/lutgen/extract"
	"github.com/lutgen-go/lutgen/lerrors"
)

// ExtractCmd is the supplemented median-cut palette extraction convenience
// (see SPEC_FULL.md). It prints the extracted colors as hex, one per line;
// it does not generate a LUT from them.
type ExtractCmd struct {
	Image  string `arg:"" required:"" help:"Source image to extract a palette from"`
	Colors int    `name:"colors" default:"8" help:"Target palette size"`
}

func (c *ExtractCmd) Run(ctx *Context) error {
	f, err := os.Open(c.Image)
	if err != nil {
		return lerrors.Wrap(lerrors.Io, "open source image", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return lerrors.Wrap(lerrors.Io, "decode source image", err)
	}

	pal, err := extract.MedianCut(img, c.Colors)
	if err != nil {
		return err
	}

	ctx.Logger.Info("extracted palette", "colors", len(pal))
	for _, col := range pal {
		fmt.Printf("#%02x%02x%02x\n", col[0], col[1], col[2])
	}
	return nil
}
