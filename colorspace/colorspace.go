// Package colorspace implements the sRGB<->Oklab conversion pipeline the LUT
// engine is built on, plus the single distance metric used throughout the
// remappers.
package colorspace

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms3"
)

// SRGB is a gamma-encoded sRGB triple, components in [0,1].
type SRGB struct {
	R, G, B float32
}

// LSRGB is linear-light (un-companded) sRGB, components in [0,1].
type LSRGB struct {
	R, G, B float32
}

// CIEXYZ is the device-independent 1931 CIE tristimulus space.
type CIEXYZ struct {
	X, Y, Z float32
}

// Oklab is Björn Ottosson's perceptually near-uniform space. L is
// lightness in [0,1]; A and B are unbounded in practice ranging ~[-0.4,0.4].
type Oklab struct {
	L, A, B float32
}

// Oklch is the cylindrical (lightness, chroma, hue) form of Oklab.
type Oklch struct {
	L, C, H float32
}

var (
	// Transposed, column-major per Björn Ottosson's reference matrices.
	linSRGBToXYZ = ms3.NewMat3([]float32{
		506752. / 1228815, 87881. / 245763, 12673. / 70218,
		87098. / 409605, 175762. / 245763, 12673. / 175545,
		7918. / 409605, 87881. / 737289, 1001167. / 1053270,
	})
	// M1.
	xyzToLMS = ms3.NewMat3([]float32{
		0.8190224379967030, 0.3619062600528904, -0.1288737815209879,
		0.0329836539323885, 0.9292868615863434, 0.0361446663506424,
		0.0481771893596242, 0.2642395317527308, 0.6335478284694309,
	})
	// M2.
	lmsToOklab = ms3.NewMat3([]float32{
		0.2104542683093140, 0.7936177747023054, -0.0040720430116193,
		1.9779985324311684, -2.4285922420485799, 0.4505937096174110,
		0.0259040424655478, 0.7827717124575296, -0.8086757549230774,
	})
	xyzToLinSRGB = ms3.NewMat3([]float32{
		12831. / 3959, -329. / 214, -1974. / 3959,
		-851781. / 878810, 1648619. / 878810, 36519. / 878810,
		705. / 12673, -2585. / 12673, 705. / 667,
	})
)

func transferFunc(v float32) float32 {
	sign := math32.Copysign(1, v)
	abs := math32.Abs(v)
	if abs <= 0.04045 {
		return v / 12.92
	}
	return sign * math32.Pow((abs+0.055)/1.055, 2.4)
}

// LSRGB linearizes a gamma-encoded sRGB triple.
func (c SRGB) LSRGB() LSRGB {
	return LSRGB{R: transferFunc(c.R), G: transferFunc(c.G), B: transferFunc(c.B)}
}

func (c LSRGB) vec() ms3.Vec  { return ms3.Vec{X: c.R, Y: c.G, Z: c.B} }
func (c CIEXYZ) vec() ms3.Vec { return ms3.Vec{X: c.X, Y: c.Y, Z: c.Z} }
func (c Oklab) vec() ms3.Vec  { return ms3.Vec{X: c.L, Y: c.A, Z: c.B} }

// CIEXYZ converts linear-light sRGB to the 1931 CIE XYZ space.
func (c LSRGB) CIEXYZ() CIEXYZ {
	v := ms3.MulMatVec(linSRGBToXYZ, c.vec())
	return CIEXYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// Oklab converts CIE XYZ to Oklab via the LMS intermediate space.
func (c CIEXYZ) Oklab() Oklab {
	lms := ms3.MulMatVec(xyzToLMS, c.vec())
	v := ms3.MulMatVec(lmsToOklab, ms3.Vec{
		X: math32.Cbrt(lms.X),
		Y: math32.Cbrt(lms.Y),
		Z: math32.Cbrt(lms.Z),
	})
	return Oklab{L: v.X, A: v.Y, B: v.Z}
}

// Oklch converts Oklab to its cylindrical form.
func (c Oklab) Oklch() Oklch {
	const eps = 0.000004
	chroma := math32.Sqrt(c.A*c.A + c.B*c.B)
	hue := math32.Atan2(c.B, c.A) * 180 / math32.Pi
	if hue < 0 {
		hue += 360
	}
	if chroma <= eps {
		hue = 0
	}
	return Oklch{L: c.L, C: chroma, H: hue}
}

// SRGBToOklab converts an 8-bit sRGB triple to Oklab in one pass.
func SRGBToOklab(r, g, b uint8) Oklab {
	s := SRGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
	return s.LSRGB().CIEXYZ().Oklab()
}

// invTransferFunc is the inverse gamma function (IEC 61966-2-1).
func invTransferFunc(v float32) float32 {
	sign := math32.Copysign(1, v)
	abs := math32.Abs(v)
	if abs <= 0.0031308 {
		return 12.92 * v
	}
	return sign * (1.055*math32.Pow(abs, 1./2.4) - 0.055)
}

// LSRGB converts CIE XYZ back to linear-light sRGB.
func (c CIEXYZ) LSRGB() LSRGB {
	v := ms3.MulMatVec(xyzToLinSRGB, c.vec())
	return LSRGB{R: v.X, G: v.Y, B: v.Z}
}

func (c LSRGB) SRGB() SRGB {
	return SRGB{R: invTransferFunc(c.R), G: invTransferFunc(c.G), B: invTransferFunc(c.B)}
}

// ClipToGamut clamps each channel to [0,1].
func (c LSRGB) ClipToGamut() LSRGB {
	return LSRGB{R: ms1.Clamp(c.R, 0, 1), G: ms1.Clamp(c.G, 0, 1), B: ms1.Clamp(c.B, 0, 1)}
}

// oklabToLMS is the inverse of lmsToOklab.
var oklabToLMS = ms3.NewMat3([]float32{
	1.0000000000000000, 0.3963377773761749, 0.2158037573099136,
	1.0000000000000000, -0.1055613458156586, -0.0638541728258133,
	1.0000000000000000, -0.0894841775298119, -1.2914855480194092,
})

var lmsToXYZ = ms3.NewMat3([]float32{
	1.2268798758459243, -0.5578149944602171, 0.2813910456659647,
	-0.0405757452148008, 1.1122868032803170, -0.0717110580655164,
	-0.0763729366746601, -0.4214933324022432, 1.5869240198367816,
})

// CIEXYZ converts Oklab back to CIE XYZ.
func (c Oklab) CIEXYZ() CIEXYZ {
	lmsNonlinear := ms3.MulMatVec(oklabToLMS, c.vec())
	v := ms3.MulMatVec(lmsToXYZ, ms3.Vec{
		X: lmsNonlinear.X * lmsNonlinear.X * lmsNonlinear.X,
		Y: lmsNonlinear.Y * lmsNonlinear.Y * lmsNonlinear.Y,
		Z: lmsNonlinear.Z * lmsNonlinear.Z * lmsNonlinear.Z,
	})
	return CIEXYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// OklabToSRGB converts Oklab back to an 8-bit sRGB triple, clamping to gamut
// and rounding to the nearest byte.
func OklabToSRGB(lab Oklab) (r, g, b uint8) {
	s := lab.CIEXYZ().LSRGB().ClipToGamut().SRGB()
	return toByte(s.R), toByte(s.G), toByte(s.B)
}

func toByte(v float32) uint8 {
	v = ms1.Clamp(v, 0, 1)
	n := int32(v*255 + 0.5)
	if n > 255 {
		n = 255
	}
	if n < 0 {
		n = 0
	}
	return uint8(n)
}

// Distance returns the squared Euclidean distance between two Oklab points
// after scaling each point's L channel by lumFactor. This is the only color
// distance used anywhere in the engine.
func Distance(a, b Oklab, lumFactor float32) float32 {
	dl := (a.L - b.L) * lumFactor
	da := a.A - b.A
	db := a.B - b.B
	return dl*dl + da*da + db*db
}

// Luminance returns the L channel of an Oklab color.
func Luminance(c Oklab) float32 { return c.L }

// WithLuminance returns c with its L channel replaced by l, a and b kept.
func WithLuminance(c Oklab, l float32) Oklab {
	return Oklab{L: l, A: c.A, B: c.B}
}
