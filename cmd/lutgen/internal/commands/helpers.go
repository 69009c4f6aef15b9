package commands

import (
	"encoding/binary"
	"math"
	"os"
	"strings"

	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/palette"
	"github.com/lutgen-go/lutgen/remap"
)

// resolveOrLoadPalette treats nameOrPath as a palette file path if it looks
// like one (contains a path separator or a recognized extension), falling
// back to the named-palette lookup of spec.md §6/§4.10 otherwise.
func resolveOrLoadPalette(nameOrPath, customDir string) (palette.Palette, error) {
	if looksLikePath(nameOrPath) {
		f, err := os.Open(nameOrPath)
		if err != nil {
			return nil, lerrors.Wrap(lerrors.Io, "open palette file", err)
		}
		defer f.Close()
		return palette.LoadPaletteFile(f)
	}
	return resolvePalette(nameOrPath, customDir)
}

func looksLikePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".txt") || strings.HasSuffix(s, ".hex")
}

func toRGBTriples(pal palette.Palette) [][3]uint8 {
	out := make([][3]uint8, len(pal))
	for i, c := range pal {
		out[i] = [3]uint8(c)
	}
	return out
}

// algoID and encodeAlgoParams together form the cache key's parameter
// component (spec.md §3/§4.9): a stable identifier plus a byte encoding of
// whichever parameter struct is active.
func algoID(a remap.Algorithm) string {
	switch a.Kind {
	case remap.GaussianRBF:
		return "gaussian_rbf"
	case remap.Shepard:
		return "shepard"
	case remap.GaussianSampling:
		return "gaussian_sampling"
	case remap.NearestNeighbor:
		return "nearest_neighbor"
	case remap.GaussianBlur:
		return "gaussian_blur"
	default:
		return "unknown"
	}
}

func encodeAlgoParams(a remap.Algorithm) []byte {
	var buf [24]byte
	switch a.Kind {
	case remap.GaussianRBF:
		binary.LittleEndian.PutUint32(buf[0:4], float32bits(a.GaussianRBF.Shape))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(a.GaussianRBF.Nearest))
	case remap.Shepard:
		binary.LittleEndian.PutUint32(buf[0:4], float32bits(a.Shepard.Power))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(a.Shepard.Nearest))
	case remap.GaussianSampling:
		binary.LittleEndian.PutUint32(buf[0:4], float32bits(a.GaussianSampling.Mean))
		binary.LittleEndian.PutUint32(buf[4:8], float32bits(a.GaussianSampling.StdDev))
		binary.LittleEndian.PutUint32(buf[8:12], uint32(a.GaussianSampling.Iterations))
		binary.LittleEndian.PutUint64(buf[12:20], a.GaussianSampling.Seed)
	}
	binary.LittleEndian.PutUint32(buf[20:24], uint32(a.Kind))
	return buf[:]
}

func float32bits(v float32) uint32 { return math.Float32bits(v) }

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.Io, "create output file", err)
	}
	return f, nil
}
