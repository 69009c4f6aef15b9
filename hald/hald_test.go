package hald

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHaldLayoutMutualInverse checks spec.md §8: the address-derivation
// functions are mutual inverses for every level.
func TestHaldLayoutMutualInverse(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		n := Resolution(level)
		total := n * n * n
		if total > 4_000_000 {
			// keep the test fast for level=16 (N=256, N^3 ~ 16.7M); sample.
			total = 4_000_000
		}
		for i := 0; i < total; i += max(1, total/1000) {
			r, g, b, x, y := CellAddress(level, i)
			s := Side(level)
			reconstructed := b*n*n + g*n + r
			assert.Equal(t, i, reconstructed, "level=%d i=%d", level, i)
			assert.Equal(t, i, y*s+x, "level=%d i=%d", level, i)
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// TestIdentityRoundTrip checks spec.md I1: an identity LUT read back
// through its own addressing yields the original color to within +-1 byte.
func TestIdentityRoundTrip(t *testing.T) {
	for _, level := range []int{2, 3, 4, 6} {
		img, err := Identity(level)
		require.NoError(t, err)
		n := Resolution(level)
		for r := 0; r < n; r++ {
			for g := 0; g < n; g++ {
				for b := 0; b < n; b++ {
					c := Sample(img, level, r, g, b)
					wantR := ByteForChannel(level, r)
					wantG := ByteForChannel(level, g)
					wantB := ByteForChannel(level, b)
					assert.InDelta(t, int(wantR), int(c.R), 1)
					assert.InDelta(t, int(wantG), int(c.G), 1)
					assert.InDelta(t, int(wantB), int(c.B), 1)
				}
			}
		}
	}
}

// TestLevelFromSideRejectsInvalid checks spec.md §6's discoverability rule.
func TestLevelFromSideRejectsInvalid(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		got, err := LevelFromSide(Side(level))
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}
	_, err := LevelFromSide(123) // not a perfect cube
	assert.Error(t, err)
	_, err = LevelFromSide(Side(MaxLevel + 1)) // valid cube, level out of range
	assert.Error(t, err)
}

// TestIdentityCorrectImageStaysWithinHalfStep checks the identity round-trip:
// correct_image(img, identity_lut(level)) moves no channel by more than half
// a grid step (plus rounding slack), since sampling snaps to the nearest cell.
func TestIdentityCorrectImageStaysWithinHalfStep(t *testing.T) {
	level := 4
	lut, err := Identity(level)
	require.NoError(t, err)

	img := image_NRGBA_fromPixels(8, 8, func(x, y int) [3]uint8 {
		return [3]uint8{uint8((x * 37) % 256), uint8((y * 53) % 256), uint8((x + y*17) % 256)}
	})
	orig := cloneNRGBA(img)

	CorrectImage(img, lut, level)

	n := Resolution(level)
	tolerance := 255/(n-1)/2 + 2 // half a grid step, plus rounding slack
	for i := range img.Pix {
		if i%4 == 3 {
			continue // skip alpha
		}
		diff := int(img.Pix[i]) - int(orig.Pix[i])
		if diff > tolerance || diff < -tolerance {
			t.Fatalf("pixel byte %d drifted too far: got %d want ~%d (tolerance %d)", i, img.Pix[i], orig.Pix[i], tolerance)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	level := 2
	img, err := Identity(level)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, img))

	loaded, gotLevel, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, level, gotLevel)
	assert.Equal(t, img.Pix, loaded.Pix)
}
