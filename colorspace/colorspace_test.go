package colorspace

import "testing"

// TestRedToOklabChain mirrors the teacher's TestBasic: checks the sRGB -> LSRGB
// -> CIEXYZ -> Oklab chain against known reference values for pure red.
func TestRedToOklabChain(t *testing.T) {
	red := SRGB{R: 1, G: 0, B: 0}
	lsrgb := red.LSRGB()
	wantLSRGB := LSRGB{R: 1, G: 0, B: 0}
	if lsrgb != wantLSRGB {
		t.Errorf("lsrgb for red mismatch, want %v, got %v", wantLSRGB, lsrgb)
	}

	xyz := lsrgb.CIEXYZ()
	wantXYZ := CIEXYZ{X: 0.41239080, Y: 0.21263901, Z: 0.01933082}
	if d := Distance(Oklab{L: xyz.X}, Oklab{L: wantXYZ.X}, 1); d > 1e-6 {
		t.Errorf("xyz.X mismatch: got %v want %v", xyz.X, wantXYZ.X)
	}

	oklab := xyz.Oklab()
	want := Oklab{L: 0.6279553639214311, A: 0.2248630684262744, B: 0.125846277330585}
	if d := Distance(oklab, want, 1); d > 1e-6 {
		t.Errorf("oklab for red mismatch: got %v want %v", oklab, want)
	}
}

// TestOklabSRGBRoundTrip checks I-invariant-style round-tripping per §8:
// oklab_to_srgb(srgb_to_oklab(c)) == c, +-1 per channel, for a spread of
// sample colors (the full 256^3 sweep is not run by any test).
func TestOklabSRGBRoundTrip(t *testing.T) {
	samples := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{128, 128, 128}, {17, 200, 43}, {250, 5, 90}, {1, 1, 1}, {254, 254, 254},
	}
	for _, s := range samples {
		lab := SRGBToOklab(s[0], s[1], s[2])
		r, g, b := OklabToSRGB(lab)
		if absDiff(r, s[0]) > 1 || absDiff(g, s[1]) > 1 || absDiff(b, s[2]) > 1 {
			t.Errorf("round trip for %v got (%d,%d,%d)", s, r, g, b)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDistanceTieBreakSymmetry(t *testing.T) {
	a := Oklab{L: 0.5, A: 0.1, B: -0.1}
	b := Oklab{L: 0.6, A: -0.2, B: 0.05}
	if Distance(a, b, 1) != Distance(b, a, 1) {
		t.Errorf("distance should be symmetric")
	}
}

func TestDistanceLumFactorScalesLOnly(t *testing.T) {
	a := Oklab{L: 0, A: 0, B: 0}
	b := Oklab{L: 1, A: 0, B: 0}
	d1 := Distance(a, b, 1)
	d2 := Distance(a, b, 2)
	if d2 != 4*d1 {
		t.Errorf("expected quadratic scaling of L distance: d1=%v d2=%v", d1, d2)
	}
}

func TestWithLuminancePreservesChroma(t *testing.T) {
	c := Oklab{L: 0.2, A: 0.1, B: -0.05}
	got := WithLuminance(c, 0.9)
	if got.L != 0.9 || got.A != c.A || got.B != c.B {
		t.Errorf("WithLuminance mutated chroma: got %v", got)
	}
}
