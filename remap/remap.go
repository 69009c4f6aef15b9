// Package remap implements the five interchangeable LUT-cell remapping
// algorithms of spec.md §4.4 (C4). The set is small, closed, and sits on
// the engine's hottest loop, so per spec.md §9's design note it is modeled
// as a single tagged struct with one dispatching Remap method rather than
// five interface implementations behind virtual calls.
package remap

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/lutgen-go/lutgen/colorspace"
	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/palette"
)

// Kind selects which of the five algorithms an Algorithm runs.
type Kind int

const (
	GaussianRBF Kind = iota
	Shepard
	GaussianSampling
	NearestNeighbor
	// GaussianBlur is handled specially by the engine (spec.md §4.4.5): it
	// fills the LUT by nearest-neighbor first, then blurs the whole cube.
	// An Algorithm of this Kind still dispatches to NearestNeighbor when
	// Remap is called directly, so it can be used as a drop-in fill pass.
	GaussianBlur
)

// Query bundles what a remapper needs about one LUT cell: its address in
// the identity cube (for deterministic per-cell RNG seeding) and both its
// Oklab and original sRGB representations.
type Query struct {
	CellIndex int
	SRGB      [3]uint8
	Oklab     colorspace.Oklab
}

// GaussianRBFParams are the spec.md §4.4.1 parameters.
type GaussianRBFParams struct {
	Shape   float32 // sigma > 0
	Nearest int     // k >= 0, 0 means "use the whole palette"
}

// ShepardParams are the spec.md §4.4.2 parameters.
type ShepardParams struct {
	Power   float32 // p > 0
	Nearest int
}

// GaussianSamplingParams are the spec.md §4.4.3 parameters.
type GaussianSamplingParams struct {
	Mean       float32
	StdDev     float32
	Iterations int // n >= 1
	Seed       uint64
}

// Algorithm is the closed tagged variant of spec.md §4.4/§9.
type Algorithm struct {
	Kind             Kind
	GaussianRBF      GaussianRBFParams
	Shepard          ShepardParams
	GaussianSampling GaussianSamplingParams
}

// Validate checks parameter ranges per spec.md §4.4's failure semantics:
// out-of-range parameters are reported as InvalidParameter, no LUT is
// produced.
func (a Algorithm) Validate() error {
	switch a.Kind {
	case GaussianRBF:
		if a.GaussianRBF.Shape <= 0 {
			return lerrors.Invalidf("gaussian rbf shape must be > 0, got %v", a.GaussianRBF.Shape)
		}
		if a.GaussianRBF.Nearest < 0 {
			return lerrors.Invalidf("nearest must be >= 0, got %d", a.GaussianRBF.Nearest)
		}
	case Shepard:
		if a.Shepard.Power <= 0 {
			return lerrors.Invalidf("shepard power must be > 0, got %v", a.Shepard.Power)
		}
		if a.Shepard.Nearest < 0 {
			return lerrors.Invalidf("nearest must be >= 0, got %d", a.Shepard.Nearest)
		}
	case GaussianSampling:
		if a.GaussianSampling.StdDev <= 0 {
			return lerrors.Invalidf("gaussian sampling std-dev must be > 0, got %v", a.GaussianSampling.StdDev)
		}
		if a.GaussianSampling.Iterations < 1 {
			return lerrors.Invalidf("gaussian sampling iterations must be >= 1, got %d", a.GaussianSampling.Iterations)
		}
	case NearestNeighbor, GaussianBlur:
		// no tunable numeric parameters to validate here; GaussianBlur's
		// radius is validated by the engine, which owns the blur pass.
	default:
		return lerrors.Invalidf("unknown algorithm kind %d", a.Kind)
	}
	return nil
}

// Remap produces the output Oklab color for one query cell, dispatching on
// Kind. prepared must be non-nil (enforced by palette.Prepare's own
// invariant I3 before the engine ever gets here).
func (a Algorithm) Remap(prepared *palette.Prepared, q Query) colorspace.Oklab {
	switch a.Kind {
	case GaussianRBF:
		return remapGaussianRBF(prepared, q.Oklab, a.GaussianRBF)
	case Shepard:
		return remapShepard(prepared, q.Oklab, a.Shepard)
	case GaussianSampling:
		return remapGaussianSampling(prepared, q, a.GaussianSampling)
	case NearestNeighbor, GaussianBlur:
		return remapNearest(prepared, q.Oklab)
	default:
		return q.Oklab
	}
}

// remapNearest implements spec.md §4.4.4: the single nearest palette point,
// no interpolation. Returns the True (unscaled) Oklab of that palette entry
// so the output reproduces the palette color exactly regardless of
// lumFactor (spec.md §8 "palette coverage" property).
func remapNearest(p *palette.Prepared, query colorspace.Oklab) colorspace.Oklab {
	idx := p.Tree.Nearest(query, 1)[0]
	return p.True[idx]
}

// remapGaussianRBF implements spec.md §4.4.1. Distances are computed against
// query and p.Points, which both already carry the lumFactor-scaled L
// channel (so the weighting matches the tree's own search metric), but the
// weighted average is taken over the True (unscaled) palette points so the
// result is a genuine point in Oklab space, not one with an inflated or
// deflated L channel.
func remapGaussianRBF(p *palette.Prepared, query colorspace.Oklab, params GaussianRBFParams) colorspace.Oklab {
	indices := p.Tree.Nearest(query, params.Nearest)
	var sumW float32
	var accL, accA, accB float32
	for _, idx := range indices {
		// lumFactor=1: query and p.Points are already L-scaled by palette.Prepare.
		d2 := colorspace.Distance(query, p.Points[idx], 1)
		w := float32(math.Exp(float64(-params.Shape * d2)))
		sumW += w
		accL += w * p.True[idx].L
		accA += w * p.True[idx].A
		accB += w * p.True[idx].B
	}
	if sumW == 0 {
		return remapNearest(p, query)
	}
	return colorspace.Oklab{L: accL / sumW, A: accA / sumW, B: accB / sumW}
}

// remapShepard implements spec.md §4.4.2: inverse-distance weighting.
func remapShepard(p *palette.Prepared, query colorspace.Oklab, params ShepardParams) colorspace.Oklab {
	indices := p.Tree.Nearest(query, params.Nearest)
	for _, idx := range indices {
		if colorspace.Distance(query, p.Points[idx], 1) == 0 {
			return p.True[idx]
		}
	}
	var sumW float32
	var accL, accA, accB float32
	for _, idx := range indices {
		// lumFactor=1: query and p.Points are already L-scaled by palette.Prepare.
		d2 := colorspace.Distance(query, p.Points[idx], 1)
		w := float32(math.Pow(float64(d2), -float64(params.Power)/2))
		sumW += w
		accL += w * p.True[idx].L
		accA += w * p.True[idx].A
		accB += w * p.True[idx].B
	}
	if sumW == 0 {
		return remapNearest(p, query)
	}
	return colorspace.Oklab{L: accL / sumW, A: accA / sumW, B: accB / sumW}
}

// remapGaussianSampling implements spec.md §4.4.3. The per-cell RNG is
// seeded deterministically from (global seed, cell index) so the result
// does not depend on worker scheduling (spec.md §5, §9).
func remapGaussianSampling(p *palette.Prepared, q Query, params GaussianSamplingParams) colorspace.Oklab {
	rng := rand.New(rand.NewSource(seedFor(params.Seed, q.CellIndex)))
	n := float32(params.Iterations)
	var accL, accA, accB float32
	for i := 0; i < params.Iterations; i++ {
		jr := jitter(rng, float32(q.SRGB[0]), params.Mean, params.StdDev)
		jg := jitter(rng, float32(q.SRGB[1]), params.Mean, params.StdDev)
		jb := jitter(rng, float32(q.SRGB[2]), params.Mean, params.StdDev)
		jittered := colorspace.SRGBToOklab(clampByte(jr), clampByte(jg), clampByte(jb))
		jittered.L *= p.LumFactor
		idx := p.Tree.Nearest(jittered, 1)[0]
		accL += p.True[idx].L
		accA += p.True[idx].A
		accB += p.True[idx].B
	}
	return colorspace.Oklab{L: accL / n, A: accA / n, B: accB / n}
}

func jitter(rng *rand.Rand, base, mean, stddev float32) float32 {
	return base + mean + float32(rng.NormFloat64())*stddev
}

func clampByte(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// seedFor deterministically mixes the global seed with a cell index, so
// every cell gets an independent, reproducible RNG stream regardless of
// which worker goroutine processes it. No library in the retrieval pack
// exercises a non-cryptographic hash combinator directly (sha256 is used
// elsewhere only for content-addressed cache keys), so this uses the
// standard library's FNV implementation.
func seedFor(globalSeed uint64, cellIndex int) int64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(globalSeed >> (8 * i))
		buf[8+i] = byte(uint64(cellIndex) >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}
