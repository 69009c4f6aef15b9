// Package cache implements the content-addressed LUT cache (C9): a
// directory of PNG-encoded LUTs keyed by a stable hash of the parameters
// that produced them. A miss or a corrupt entry is treated as absent, never
// as an error, per spec.md §4.9 — the cache is advisory.
//
// Grounded on kovidgoyal-kitty/tools/disk_cache's sha256 key derivation and
// atomic write-to-temp-then-rename pattern, trimmed down to the single
// get/put pair spec.md §4.9 asks for (no size accounting, no eviction: "no
// TTL, users manage disk").
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/lutgen-go/lutgen/lerrors"
)

// Cache is a directory under a per-user cache root holding finished LUTs.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating it if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, lerrors.Wrap(lerrors.Io, "create cache directory", err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultRoot resolves the per-user cache root spec.md §6 names: the OS
// cache directory's lutgen subdirectory, so the on-disk layout is
// <cache_root>/lutgen/<hex-key>.png. Callers that want a different root
// should resolve their own directory and pass it to Open instead.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", lerrors.Wrap(lerrors.Io, "resolve OS cache directory", err)
	}
	return filepath.Join(base, "lutgen"), nil
}

// Key derives a stable, order-independent cache key from the parameters
// that determine a LUT's content (spec.md §3, §4.9): the palette (sorted
// lexicographically by triple so caller order never affects the key), the
// algorithm identifier, its encoded parameters, the level, and lum_factor.
func Key(level int, lumFactor float32, algoID string, encodedParams []byte, palette [][3]uint8) string {
	sorted := make([][3]uint8, len(palette))
	copy(sorted, palette)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		for c := 0; c < 3; c++ {
			if a[c] != b[c] {
				return a[c] < b[c]
			}
		}
		return false
	})

	h := sha256.New()
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(level))
	binary.LittleEndian.PutUint32(header[4:8], math.Float32bits(lumFactor))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(sorted)))
	h.Write(header[:])
	h.Write([]byte(algoID))
	h.Write(encodedParams)
	for _, c := range sorted {
		h.Write(c[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get loads and decodes the cached LUT for key, if present. A missing file
// or a corrupt/undecodable PNG is reported as (nil, false, nil): the cache
// is advisory and never surfaces an error for either case.
func (c *Cache) Get(key string) (*image.NRGBA, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, nil // any other read failure is also treated as a miss
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, nil // corrupt entry, treated as absent
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		b := img.Bounds()
		nrgba = image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				nrgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return nrgba, true, nil
}

// Put encodes img as a PNG and writes it under key, atomically: write to a
// temp file in the same directory, then rename over the final path, so a
// concurrent Get never observes a partially written file.
func (c *Cache) Put(key string, img *image.NRGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return lerrors.Wrap(lerrors.Io, "encode lut for cache", err)
	}
	final := c.path(key)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return lerrors.Wrap(lerrors.Io, "write cache temp file", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return lerrors.Wrap(lerrors.Io, "rename cache temp file", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".png")
}
