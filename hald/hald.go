// Package hald implements the identity Hald-CLUT layout (C2) and the
// nearest-grid-cell sampler that applies a warped LUT to an image (C7).
//
// Addressing follows spec.md §3/§6 resolved self-consistently: level l in
// [2,16] gives a per-channel resolution N = l² and an image side S = l³ (so
// total pixel count S² == N³, and level = round(cbrt(S)) as §6 requires).
// Grounded on other_examples/NicoNex-prism's hald.go (identity generation,
// PNG load/save, row-parallel apply) and other_examples/gogpu-gg's lut.go
// (precomputed byte<->linear LUT tables for the quantization step).
package hald

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lutgen-go/lutgen/internal/rowpool"
	"github.com/lutgen-go/lutgen/lerrors"
)

// MinLevel and MaxLevel bound the level parameter per spec.md §3.
const (
	MinLevel = 2
	MaxLevel = 16
)

// ValidateLevel reports an InvalidParameter error if level is out of
// [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return lerrors.Invalidf("level %d out of range [%d,%d]", level, MinLevel, MaxLevel)
	}
	return nil
}

// Resolution returns N, the number of distinct values each channel resolves
// to at the given level (N = level²).
func Resolution(level int) int { return level * level }

// Side returns S, the width and height of the 2D Hald-CLUT image at the
// given level (S = level³).
func Side(level int) int { return level * level * level }

// LevelFromSide recovers the level from an image side length, per spec.md
// §6: level = round(side^(1/3)), rejecting sides that don't cube-root to an
// integer in [MinLevel, MaxLevel].
func LevelFromSide(side int) (int, error) {
	if side <= 0 {
		return 0, lerrors.Invalidf("non-positive hald side %d", side)
	}
	level := int(math.Round(math.Cbrt(float64(side))))
	if level < MinLevel || level > MaxLevel || level*level*level != side {
		return 0, lerrors.Invalidf("side %d is not a valid hald side for level in [%d,%d]", side, MinLevel, MaxLevel)
	}
	return level, nil
}

// CellAddress converts a linear cell index (0..N³-1) into its (R,G,B)
// channel coordinates (each in 0..N-1) and its (x,y) image position.
func CellAddress(level, index int) (r, g, b, x, y int) {
	n := Resolution(level)
	s := Side(level)
	r = index % n
	g = (index / n) % n
	b = index / (n * n)
	x = index % s
	y = index / s
	return
}

// ByteForChannel maps a channel coordinate in [0,N-1] to an 8-bit sRGB
// value, per spec.md §3: v * 255/(N-1).
func ByteForChannel(level, coord int) uint8 {
	n := Resolution(level)
	if n <= 1 {
		return 0
	}
	return uint8(math.Round(float64(coord) * 255 / float64(n-1)))
}

// ChannelForByte is the inverse nearest-cell mapping used by Apply: maps an
// 8-bit sRGB value to the nearest channel coordinate in [0,N-1].
func ChannelForByte(level int, v uint8) int {
	n := Resolution(level)
	if n <= 1 {
		return 0
	}
	c := int(math.Round(float64(v) * float64(n-1) / 255))
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// Identity builds the neutral Hald-CLUT image of the given level: every
// sRGB triple appears exactly once, addressed per CellAddress. Generation
// is parallel over image rows (spec.md §4.2, §5).
func Identity(level int) (*image.NRGBA, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}
	s := Side(level)
	n := Resolution(level)
	img := image.NewNRGBA(image.Rect(0, 0, s, s))

	rowpool.Run(s, func(y int) {
		for x := 0; x < s; x++ {
			index := y*s + x
			r := index % n
			g := (index / n) % n
			b := index / (n * n)
			off := img.PixOffset(x, y)
			px := img.Pix[off : off+4 : off+4]
			px[0] = ByteForChannel(level, r)
			px[1] = ByteForChannel(level, g)
			px[2] = ByteForChannel(level, b)
			px[3] = 255
		}
	})
	return img, nil
}

// Load reads a Hald-CLUT PNG and returns it alongside its discovered level.
func Load(r io.Reader) (*image.NRGBA, int, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, 0, lerrors.Wrap(lerrors.Io, "decode hald png", err)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, 0, lerrors.Invalidf("hald image is not square: %dx%d", b.Dx(), b.Dy())
	}
	level, err := LevelFromSide(b.Dx())
	if err != nil {
		return nil, 0, err
	}
	return toNRGBA(img), level, nil
}

// Save encodes img as a PNG Hald-CLUT.
func Save(w io.Writer, img *image.NRGBA) error {
	if err := png.Encode(w, img); err != nil {
		return lerrors.Wrap(lerrors.Io, "encode hald png", err)
	}
	return nil
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

// Sample returns the sRGB color stored at the given cube coordinate
// (r,g,b each in 0..N-1).
func Sample(lut *image.NRGBA, level, r, g, b int) color.NRGBA {
	n := Resolution(level)
	s := Side(level)
	index := b*n*n + g*n + r
	x := index % s
	y := index / s
	off := lut.PixOffset(x, y)
	px := lut.Pix[off : off+4 : off+4]
	return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// CorrectImage rewrites every pixel of img in place by nearest-grid-cell
// sampling of lut (spec.md §4.7, C7). No interpolation between cells.
func CorrectImage(img *image.NRGBA, lut *image.NRGBA, level int) {
	b := img.Bounds()
	rowpool.Run(b.Dy(), func(row int) {
		y := b.Min.Y + row
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			px := img.Pix[off : off+4 : off+4]
			rc := ChannelForByte(level, px[0])
			gc := ChannelForByte(level, px[1])
			bc := ChannelForByte(level, px[2])
			out := Sample(lut, level, rc, gc, bc)
			px[0], px[1], px[2] = out.R, out.G, out.B
		}
	})
}
