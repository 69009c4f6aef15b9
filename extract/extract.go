// Package extract implements optional palette extraction via median-cut
// color quantization, so a user without a hand-picked palette can still
// drive engine.Generate from an arbitrary source image.
//
// This is a supplemented convenience, not part of the core engine's
// required surface: C7 application remains nearest-grid-cell only, and
// extraction never feeds back into the interpolation-free apply contract.
//
// Grounded on other_examples/willibrandon-aseprite-mcp's
// MedianCutQuantization: recursively split the bucket with the largest
// channel range until the target color count is reached, then average
// each bucket.
package extract

import (
	"image"
	"sort"

	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/palette"
)

// MedianCut reduces img to at most targetColors representative sRGB
// colors. targetColors must be at least 1.
func MedianCut(img image.Image, targetColors int) (palette.Palette, error) {
	if targetColors < 1 {
		return nil, lerrors.Invalidf("target color count must be >= 1, got %d", targetColors)
	}

	pixels := collectPixels(img)
	if len(pixels) == 0 {
		return nil, lerrors.Invalidf("image has no pixels to quantize")
	}

	unique := countUnique(pixels)
	if targetColors > unique {
		targetColors = unique
	}

	buckets := []bucket{{pixels: pixels}}
	for len(buckets) < targetColors {
		maxRange := -1
		maxIdx := 0
		for i, b := range buckets {
			if r := b.channelRange(); r > maxRange {
				maxRange = r
				maxIdx = i
			}
		}
		if maxRange <= 0 {
			break
		}
		left, right := buckets[maxIdx].split()
		buckets = append(buckets[:maxIdx], append([]bucket{left, right}, buckets[maxIdx+1:]...)...)
	}

	out := make(palette.Palette, len(buckets))
	for i, b := range buckets {
		out[i] = b.average()
	}
	return out, nil
}

func collectPixels(img image.Image) []palette.Color {
	b := img.Bounds()
	out := make([]palette.Color, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, palette.Color{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)})
		}
	}
	return out
}

func countUnique(pixels []palette.Color) int {
	seen := map[palette.Color]bool{}
	for _, p := range pixels {
		seen[p] = true
	}
	return len(seen)
}

type bucket struct {
	pixels []palette.Color
}

func (b bucket) channelRange() int {
	if len(b.pixels) == 0 {
		return 0
	}
	var minR, minG, minB uint8 = 255, 255, 255
	var maxR, maxG, maxB uint8
	for _, p := range b.pixels {
		minR, maxR = minMax(p[0], minR, maxR)
		minG, maxG = minMax(p[1], minG, maxG)
		minB, maxB = minMax(p[2], minB, maxB)
	}
	return int(maxR-minR) + int(maxG-minG) + int(maxB-minB)
}

func minMax(v, lo, hi uint8) (uint8, uint8) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

// split divides the bucket in two along whichever channel has the widest
// range, cutting at the median so both halves hold roughly equal mass.
func (b bucket) split() (bucket, bucket) {
	if len(b.pixels) < 2 {
		return b, bucket{}
	}
	var minR, minG, minB uint8 = 255, 255, 255
	var maxR, maxG, maxB uint8
	for _, p := range b.pixels {
		minR, maxR = minMax(p[0], minR, maxR)
		minG, maxG = minMax(p[1], minG, maxG)
		minB, maxB = minMax(p[2], minB, maxB)
	}
	rRange, gRange, bRange := int(maxR-minR), int(maxG-minG), int(maxB-minB)

	pixels := append([]palette.Color(nil), b.pixels...)
	switch {
	case rRange >= gRange && rRange >= bRange:
		sort.Slice(pixels, func(i, j int) bool { return pixels[i][0] < pixels[j][0] })
	case gRange >= bRange:
		sort.Slice(pixels, func(i, j int) bool { return pixels[i][1] < pixels[j][1] })
	default:
		sort.Slice(pixels, func(i, j int) bool { return pixels[i][2] < pixels[j][2] })
	}

	mid := len(pixels) / 2
	return bucket{pixels: pixels[:mid]}, bucket{pixels: pixels[mid:]}
}

func (b bucket) average() palette.Color {
	if len(b.pixels) == 0 {
		return palette.Color{0, 0, 0}
	}
	var sumR, sumG, sumB uint64
	for _, p := range b.pixels {
		sumR += uint64(p[0])
		sumG += uint64(p[1])
		sumB += uint64(p[2])
	}
	n := uint64(len(b.pixels))
	return palette.Color{uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)}
}
