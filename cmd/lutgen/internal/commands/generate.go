package commands

import (
	"image"

	"github.com/lutgen-go/lutgen/hald"
)

// GenerateCmd emits a Hald-CLUT PNG for a palette, per spec.md §4.5/§6.
// The algorithm selector is an exclusive group; GaussianBlur is the
// default, matching spec.md's "default blur" framing in §4.4.5.
type GenerateCmd struct {
	Output string `name:"output" short:"o" required:"" help:"Output PNG path"`

	GenerateFlags
	CacheFlags
}

// Run implements spec.md §4.5's generate_lut, optionally consulting a
// content-addressed cache (C9) before doing the work.
func (c *GenerateCmd) Run(ctx *Context) error {
	img, err := runGenerate(ctx, c.GenerateFlags, c.CacheFlags)
	if err != nil {
		return err
	}
	return writeLUT(c.Output, img)
}

func writeLUT(path string, img *image.NRGBA) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return hald.Save(f, img)
}
