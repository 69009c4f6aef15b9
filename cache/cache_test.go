package cache

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLUT() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7 % 256)
	}
	return img
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	lut := sampleLUT()
	key := "abc123"
	require.NoError(t, c.Put(key, lut))

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lut.Pix, got.Pix)
}

func TestGetMissReturnsFalseNotError(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := c.Get("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetCorruptEntryTreatedAsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644))

	_, ok, err := c.Get("bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutIsAtomicNoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, c.Put("k", sampleLUT()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestKeyIsOrderIndependent(t *testing.T) {
	a := [][3]uint8{{1, 2, 3}, {4, 5, 6}}
	b := [][3]uint8{{4, 5, 6}, {1, 2, 3}}
	k1 := Key(8, 1.0, "nearest", nil, a)
	k2 := Key(8, 1.0, "nearest", nil, b)
	assert.Equal(t, k1, k2)
}

func TestKeyDiffersOnParameterChanges(t *testing.T) {
	pal := [][3]uint8{{1, 2, 3}}
	base := Key(8, 1.0, "shepard", []byte{1}, pal)

	assert.NotEqual(t, base, Key(9, 1.0, "shepard", []byte{1}, pal))
	assert.NotEqual(t, base, Key(8, 0.5, "shepard", []byte{1}, pal))
	assert.NotEqual(t, base, Key(8, 1.0, "gaussian_rbf", []byte{1}, pal))
	assert.NotEqual(t, base, Key(8, 1.0, "shepard", []byte{2}, pal))
}
