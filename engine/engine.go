// Package engine drives a remap.Algorithm across every cell of the identity
// Hald-CLUT (C5), then optionally applies luminance preservation (C6). It is
// the only package that ties hald, palette, and remap together into the
// single public generate_lut operation of spec.md §4.5.
//
// Grounded on other_examples/NicoNex-prism's HALD.ApplyScaled for the
// row-parallel pixel loop, generalized here to dispatch through an
// interchangeable remap.Algorithm instead of a fixed transform.
package engine

import (
	"image"
	"math"

	"github.com/lutgen-go/lutgen/colorspace"
	"github.com/lutgen-go/lutgen/hald"
	"github.com/lutgen-go/lutgen/internal/rowpool"
	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/palette"
	"github.com/lutgen-go/lutgen/remap"
)

// Params bundles everything generate_lut needs beyond the palette itself.
type Params struct {
	Level     int
	Algorithm remap.Algorithm
	LumFactor float32
	Preserve  bool
	// BlurRadius is the Gaussian sigma for the GaussianBlur algorithm's
	// post-pass (spec.md §4.4.5). Ignored by every other Kind.
	BlurRadius float32
}

// Generate implements spec.md §4.5's generate_lut: build the identity LUT,
// prepare the palette, remap every cell in parallel, optionally blur
// (GaussianBlur kind) or preserve luminance (Preserve), and return the
// warped image. Pure with respect to its inputs: the same Params and pal
// produce byte-identical output regardless of worker count or scheduling.
func Generate(pal palette.Palette, p Params) (*image.NRGBA, error) {
	if err := hald.ValidateLevel(p.Level); err != nil {
		return nil, err
	}
	if err := p.Algorithm.Validate(); err != nil {
		return nil, err
	}
	if p.Algorithm.Kind == remap.GaussianBlur && p.BlurRadius <= 0 {
		return nil, lerrors.Invalidf("gaussian blur radius must be > 0, got %v", p.BlurRadius)
	}
	prepared, err := palette.Prepare(pal, p.LumFactor)
	if err != nil {
		return nil, err
	}

	identity, err := hald.Identity(p.Level)
	if err != nil {
		return nil, err
	}
	out := identity // Identity returns a fresh buffer; warp it in place.

	s := hald.Side(p.Level)

	rowpool.Run(s, func(y int) {
		for x := 0; x < s; x++ {
			cellIndex := y*s + x
			off := out.PixOffset(x, y)
			px := out.Pix[off : off+4 : off+4]
			srgb := [3]uint8{px[0], px[1], px[2]}
			queryLab := colorspace.SRGBToOklab(srgb[0], srgb[1], srgb[2])
			scaledQuery := queryLab
			scaledQuery.L *= p.LumFactor

			warped := p.Algorithm.Remap(prepared, remap.Query{
				CellIndex: cellIndex,
				SRGB:      srgb,
				Oklab:     scaledQuery,
			})

			if p.Preserve {
				warped = colorspace.WithLuminance(warped, queryLab.L)
			}
			r, g, b := colorspace.OklabToSRGB(warped)
			px[0], px[1], px[2] = r, g, b
		}
	})

	if p.Algorithm.Kind == remap.GaussianBlur {
		blurCube(out, p.Level, p.BlurRadius)
		if p.Preserve {
			// out has been warped in place, so rebuild the identity cells.
			fresh, err := hald.Identity(p.Level)
			if err != nil {
				return nil, err
			}
			restoreLuminance(out, fresh, p.Level)
		}
	}

	return out, nil
}

// restoreLuminance re-applies C6 after the blur pass has mixed L channels
// across cells, so --preserve still holds under the GaussianBlur algorithm.
func restoreLuminance(warped, identity *image.NRGBA, level int) {
	s := hald.Side(level)
	rowpool.Run(s, func(y int) {
		for x := 0; x < s; x++ {
			wOff := warped.PixOffset(x, y)
			wpx := warped.Pix[wOff : wOff+4 : wOff+4]
			iOff := identity.PixOffset(x, y)
			ipx := identity.Pix[iOff : iOff+4 : iOff+4]

			warpedLab := colorspace.SRGBToOklab(wpx[0], wpx[1], wpx[2])
			identityLab := colorspace.SRGBToOklab(ipx[0], ipx[1], ipx[2])
			fixed := colorspace.WithLuminance(warpedLab, identityLab.L)
			r, g, b := colorspace.OklabToSRGB(fixed)
			wpx[0], wpx[1], wpx[2] = r, g, b
		}
	})
}

// blurCube implements spec.md §4.4.5: a separable 3D Gaussian blur over the
// LUT's (r,g,b) cube addressing, performed in Oklab. Each of the three axes
// is blurred independently with a 1D kernel derived from sigma=radius, which
// is equivalent to (and far cheaper than) a full 3D convolution.
func blurCube(img *image.NRGBA, level int, radius float32) {
	if radius <= 0 {
		return
	}
	n := hald.Resolution(level)
	lab := cubeToOklab(img, level, n)
	kernel := gaussianKernel(radius)

	tmp := make([]colorspace.Oklab, len(lab))
	blurAxis(lab, tmp, n, kernel, 0) // r axis
	blurAxis(tmp, lab, n, kernel, 1) // g axis
	blurAxis(lab, tmp, n, kernel, 2) // b axis

	oklabToCube(tmp, img, level, n)
}

// cubeToOklab converts every LUT cell to Oklab, indexed by its (r,g,b)
// cube coordinate flattened as r + g*n + b*n*n.
func cubeToOklab(img *image.NRGBA, level, n int) []colorspace.Oklab {
	s := hald.Side(level)
	out := make([]colorspace.Oklab, n*n*n)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				index := b*n*n + g*n + r
				x := index % s
				y := index / s
				off := img.PixOffset(x, y)
				px := img.Pix[off : off+4 : off+4]
				out[r+g*n+b*n*n] = colorspace.SRGBToOklab(px[0], px[1], px[2])
			}
		}
	}
	return out
}

func oklabToCube(lab []colorspace.Oklab, img *image.NRGBA, level, n int) {
	s := hald.Side(level)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				index := b*n*n + g*n + r
				x := index % s
				y := index / s
				off := img.PixOffset(x, y)
				px := img.Pix[off : off+4 : off+4]
				rr, gg, bb := colorspace.OklabToSRGB(lab[r+g*n+b*n*n])
				px[0], px[1], px[2] = rr, gg, bb
			}
		}
	}
}

// gaussianKernel builds a normalized 1D Gaussian kernel truncated at ±3
// sigma, the standard radius used for discrete Gaussian blurs.
func gaussianKernel(sigma float32) []float32 {
	radius := int(sigma*3 + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float32, 2*radius+1)
	var sum float32
	for i := -radius; i <= radius; i++ {
		v := gauss1D(float32(i), sigma)
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func gauss1D(x, sigma float32) float32 {
	return float32(math.Exp(-float64(x*x) / float64(2*sigma*sigma)))
}

// blurAxis convolves lab along one cube axis (0=r, 1=g, 2=b) with kernel,
// clamping at the cube edges (no wraparound), writing into out.
func blurAxis(lab, out []colorspace.Oklab, n int, kernel []float32, axis int) {
	radius := len(kernel) / 2
	coordIndex := func(r, g, b int) int { return r + g*n + b*n*n }

	rowpool.Run(n, func(outerB int) {
		for outerA := 0; outerA < n; outerA++ {
			for c := 0; c < n; c++ {
				var accL, accA, accB float32
				for k := -radius; k <= radius; k++ {
					coord := c + k
					if coord < 0 {
						coord = 0
					}
					if coord >= n {
						coord = n - 1
					}
					var idx int
					switch axis {
					case 0:
						idx = coordIndex(coord, outerA, outerB)
					case 1:
						idx = coordIndex(outerA, coord, outerB)
					default:
						idx = coordIndex(outerA, outerB, coord)
					}
					w := kernel[k+radius]
					p := lab[idx]
					accL += w * p.L
					accA += w * p.A
					accB += w * p.B
				}
				var idx int
				switch axis {
				case 0:
					idx = coordIndex(c, outerA, outerB)
				case 1:
					idx = coordIndex(outerA, c, outerB)
				default:
					idx = coordIndex(outerA, outerB, c)
				}
				out[idx] = colorspace.Oklab{L: accL, A: accA, B: accB}
			}
		}
	})
}
