// Package palette prepares a caller-supplied sRGB palette for use by the
// remappers (C3): converting it to Oklab, indexing it with a k-d tree, and
// exposing the two external collaborators spec.md §1 calls out — a named
// catalog and a custom-palette directory (C10) — behind narrow read
// interfaces.
package palette

import (
	"github.com/lutgen-go/lutgen/colorspace"
	"github.com/lutgen-go/lutgen/lerrors"
)

// Color is an sRGB triple, byte components.
type Color [3]uint8

// Palette is a non-empty, order-preserving sequence of sRGB colors.
// Duplicates are tolerated (spec.md §3) and never deduplicated.
type Palette []Color

// Prepared is the output of Prepare (spec.md §4.3): three parallel arrays
// plus a tree, all sharing the caller's original palette order (invariant
// of §4.3). Points holds Oklab with L pre-scaled by lumFactor so the tree
// geometry and colorspace.Distance directly reflect the distance metric;
// True holds the same points with L unscaled, which is what remappers
// average over so that lumFactor biases *which* palette colors get picked
// without biasing the reconstructed luminance of the result.
type Prepared struct {
	SRGB      Palette
	Points    []colorspace.Oklab
	True      []colorspace.Oklab
	Tree      *KDTree
	LumFactor float32
}

// Prepare converts pal into Oklab points and builds a k-d tree over them.
// Enforces invariant I3: the palette must be non-empty.
func Prepare(pal Palette, lumFactor float32) (*Prepared, error) {
	if len(pal) == 0 {
		return nil, lerrors.Invalidf("palette must contain at least one color")
	}
	points := make([]colorspace.Oklab, len(pal))
	trueLab := make([]colorspace.Oklab, len(pal))
	for i, c := range pal {
		lab := colorspace.SRGBToOklab(c[0], c[1], c[2])
		trueLab[i] = lab
		scaled := lab
		scaled.L *= lumFactor
		points[i] = scaled
	}
	return &Prepared{
		SRGB:      append(Palette(nil), pal...),
		Points:    points,
		True:      trueLab,
		Tree:      BuildKDTree(points),
		LumFactor: lumFactor,
	}, nil
}

// Catalog is the read interface to the out-of-scope, externally owned
// palette data table (spec.md §1): "get_by_name(name) -> Option<[[u8;3]]>".
type Catalog interface {
	GetByName(name string) (Palette, bool)
}

// MapCatalog is a trivial in-memory Catalog, keyed by lowercase identifier,
// standing in for the real external catalog per spec.md §1's stated scope
// boundary (only the read interface matters here).
type MapCatalog map[string]Palette

func (m MapCatalog) GetByName(name string) (Palette, bool) {
	p, ok := m[name]
	return p, ok
}
