package commands

import (
	"image"
	"os"

	"github.com/lutgen-go/lutgen/cache"
	"github.com/lutgen-go/lutgen/engine"
	"github.com/lutgen-go/lutgen/hald"
	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/remap"
)

// AlgoFlags is the algorithm-selector flag set spec.md §6 lists under
// `generate` and requires again, verbatim, on `apply` and `patch` ("plus all
// generate algorithm flags"). Embedded anonymously wherever a command needs
// to generate a LUT inline.
type AlgoFlags struct {
	GaussianRBF      bool `name:"gaussian-rbf" xor:"algo" help:"Gaussian radial basis function weighting"`
	Shepard          bool `name:"shepards-method" xor:"algo" help:"Shepard's method (inverse distance weighting)"`
	GaussianSampling bool `name:"gaussian-sampling" xor:"algo" help:"Monte-Carlo Gaussian jitter sampling"`
	NearestNeighbor  bool `name:"nearest-neighbor" xor:"algo" help:"Single nearest palette color, no blending"`

	Shape      float64 `name:"shape" default:"2.0" help:"Gaussian RBF shape parameter (sigma)"`
	Power      float64 `name:"power" default:"2.0" help:"Shepard's method power parameter"`
	Nearest    int     `name:"nearest" default:"0" help:"Bound the k-nearest palette points used (0 = all)"`
	Mean       float64 `name:"mean" default:"0.0" help:"Gaussian sampling jitter mean"`
	StdDev     float64 `name:"std-dev" default:"16.0" help:"Gaussian sampling jitter standard deviation"`
	Iterations int     `name:"iterations" default:"8" help:"Gaussian sampling iteration count"`
	Seed       uint64  `name:"seed" default:"0" help:"Gaussian sampling RNG seed"`
	Radius     float64 `name:"radius" default:"2.0" help:"Gaussian blur sigma (radius)"`
}

func (f AlgoFlags) algorithm() remap.Algorithm {
	switch {
	case f.GaussianRBF:
		return remap.Algorithm{Kind: remap.GaussianRBF, GaussianRBF: remap.GaussianRBFParams{
			Shape: float32(f.Shape), Nearest: f.Nearest,
		}}
	case f.Shepard:
		return remap.Algorithm{Kind: remap.Shepard, Shepard: remap.ShepardParams{
			Power: float32(f.Power), Nearest: f.Nearest,
		}}
	case f.GaussianSampling:
		return remap.Algorithm{Kind: remap.GaussianSampling, GaussianSampling: remap.GaussianSamplingParams{
			Mean: float32(f.Mean), StdDev: float32(f.StdDev), Iterations: f.Iterations, Seed: f.Seed,
		}}
	case f.NearestNeighbor:
		return remap.Algorithm{Kind: remap.NearestNeighbor}
	default:
		return remap.Algorithm{Kind: remap.GaussianBlur}
	}
}

// GenerateFlags is everything generate_lut (spec.md §4.5) needs besides the
// output path: the palette selector and the algorithm flag set.
type GenerateFlags struct {
	Palette  string `name:"palette" short:"p" required:"" help:"Palette name or path to a hex-color file"`
	Level    int    `name:"level" default:"8" help:"Hald-CLUT level, 2..16"`
	Lum      float64 `name:"lum" default:"1.0" help:"Luminance weight used in the palette distance metric"`
	Preserve bool   `name:"preserve" help:"Restore original luma into warped cells"`

	AlgoFlags
}

// CacheFlags is the optional LUT cache spec.md §6 lists on apply and patch
// (and which generate, as a supplemented convenience, also exposes):
// --cache turns caching on, --dir overrides the default cache root
// (<OS cache dir>/lutgen per spec.md §6's "Cache directory layout").
type CacheFlags struct {
	Cache bool   `name:"cache" help:"Cache finished LUTs on disk, keyed by parameters"`
	Dir   string `name:"dir" help:"Cache directory (default: the OS cache directory's lutgen subdirectory)"`
}

// open returns nil, nil when caching is disabled; it is never an error to
// skip the cache.
func (f CacheFlags) open(ctx *Context) (*cache.Cache, error) {
	if !f.Cache {
		return nil, nil
	}
	dir := f.Dir
	if dir == "" {
		var err error
		dir, err = cache.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	store, err := cache.Open(dir)
	if err != nil {
		ctx.Logger.Warn("cache unavailable, continuing without it", "error", err)
		return nil, nil
	}
	return store, nil
}

// runGenerate implements spec.md §4.5's generate_lut for any caller holding a
// GenerateFlags/CacheFlags pair, consulting the cache first when enabled.
func runGenerate(ctx *Context, gf GenerateFlags, cf CacheFlags) (*image.NRGBA, error) {
	pal, err := resolveOrLoadPalette(gf.Palette, ctx.Custom)
	if err != nil {
		return nil, err
	}

	algo := gf.algorithm()
	params := engine.Params{
		Level:      gf.Level,
		Algorithm:  algo,
		LumFactor:  float32(gf.Lum),
		Preserve:   gf.Preserve,
		BlurRadius: float32(gf.Radius),
	}

	store, err := cf.open(ctx)
	if err != nil {
		return nil, err
	}
	var key string
	if store != nil {
		// Preserve and the blur radius also shape the LUT, so they join the key.
		radiusBits := float32bits(params.BlurRadius)
		extra := []byte{byte(radiusBits), byte(radiusBits >> 8), byte(radiusBits >> 16), byte(radiusBits >> 24), 0}
		if params.Preserve {
			extra[4] = 1
		}
		key = cache.Key(gf.Level, params.LumFactor, algoID(algo), append(encodeAlgoParams(algo), extra...), toRGBTriples(pal))
		if img, ok, _ := store.Get(key); ok {
			ctx.Logger.Info("cache hit", "key", key)
			return img, nil
		}
	}

	ctx.Logger.Info("generating lut", "level", gf.Level, "cells", hald.Resolution(gf.Level))
	img, err := engine.Generate(pal, params)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(key, img); err != nil {
			ctx.Logger.Warn("failed to write cache entry", "error", err)
		}
	}
	return img, nil
}

// InlineLUT is embedded by apply and patch (spec.md §6: both accept either a
// pre-built `--hald-clut` file or the full generate flag set to build one on
// the fly). HaldCLUT shares generate's algorithm xor group so the two input
// modes stay mutually exclusive.
type InlineLUT struct {
	HaldCLUT string `name:"hald-clut" xor:"algo" help:"Use an existing Hald-CLUT PNG instead of generating one"`

	GenerateFlags
	CacheFlags
}

// Resolve returns the LUT image to apply/patch with, and its level, either
// by loading HaldCLUT directly or by running generate_lut inline.
func (c InlineLUT) Resolve(ctx *Context) (*image.NRGBA, int, error) {
	if c.HaldCLUT != "" {
		f, err := os.Open(c.HaldCLUT)
		if err != nil {
			return nil, 0, lerrors.Wrap(lerrors.Io, "open hald-clut", err)
		}
		defer f.Close()
		lut, level, err := hald.Load(f)
		if err != nil {
			return nil, 0, err
		}
		return lut, level, nil
	}
	img, err := runGenerate(ctx, c.GenerateFlags, c.CacheFlags)
	if err != nil {
		return nil, 0, err
	}
	return img, c.GenerateFlags.Level, nil
}
