package commands

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lutgen-go/lutgen/hald"
	"github.com/lutgen-go/lutgen/lerrors"
)

// ApplyCmd implements C7: rewrite one or more images' pixels by
// nearest-grid-cell sampling of a Hald-CLUT (spec.md §4.7, §6). The LUT
// itself either comes from an existing file (--hald-clut) or is generated
// inline from the embedded palette/algorithm/cache flags.
type ApplyCmd struct {
	Images []string `arg:"" required:"" help:"Input image paths (PNG)"`
	Output string   `name:"output" short:"o" required:"" help:"Output image path (single input) or directory (multiple inputs)"`

	InlineLUT
}

func (c *ApplyCmd) Run(ctx *Context) error {
	lut, level, err := c.Resolve(ctx)
	if err != nil {
		return err
	}

	if len(c.Images) > 1 {
		if err := os.MkdirAll(c.Output, 0o755); err != nil {
			return lerrors.Wrap(lerrors.Io, "create output directory", err)
		}
	}

	ctx.Logger.Info("applying lut", "level", level, "images", len(c.Images))
	for _, path := range c.Images {
		if err := applyOne(path, c.outputFor(path), lut, level); err != nil {
			return err
		}
	}
	return nil
}

// outputFor resolves the destination for one input image: the single
// --output path when there is exactly one input, or <Output>/<basename>
// when correcting several images at once.
func (c *ApplyCmd) outputFor(input string) string {
	if len(c.Images) == 1 {
		return c.Output
	}
	return filepath.Join(c.Output, filepath.Base(input))
}

func applyOne(inputPath, outputPath string, lut *image.NRGBA, level int) error {
	imgFile, err := os.Open(inputPath)
	if err != nil {
		return lerrors.Wrap(lerrors.Io, "open input image", err)
	}
	defer imgFile.Close()
	decoded, err := png.Decode(imgFile)
	if err != nil {
		return lerrors.Wrap(lerrors.Io, "decode input image", err)
	}
	img := toNRGBA(decoded)

	hald.CorrectImage(img, lut, level)

	return writeLUT(outputPath, img)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
