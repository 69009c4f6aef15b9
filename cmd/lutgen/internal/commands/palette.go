package commands

import (
	"fmt"
	"sort"

	"github.com/lutgen-go/lutgen/colorspace"
	"github.com/lutgen-go/lutgen/palette"
)

// PaletteNamesCmd lists every known palette identifier: the built-in
// catalog merged with the custom directory, demonstrating spec.md §6's
// precedence rule (custom shadows built-in).
type PaletteNamesCmd struct{}

func (c *PaletteNamesCmd) Run(ctx *Context) error {
	names := mergedNames(ctx.Custom)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

// PaletteAllCmd prints every known palette's resolved colors.
type PaletteAllCmd struct{}

func (c *PaletteAllCmd) Run(ctx *Context) error {
	custom, err := palette.LoadCustomDir(ctx.Custom)
	if err != nil {
		return err
	}
	for _, n := range mergedNames(ctx.Custom) {
		pal, err := palette.Resolve(n, custom, builtinCatalog)
		if err != nil {
			continue
		}
		fmt.Printf("%s:\n", n)
		for _, col := range pal {
			lch := colorspace.SRGBToOklab(col[0], col[1], col[2]).Oklch()
			fmt.Printf("  #%02x%02x%02x  (L=%.3f C=%.3f H=%.1f)\n", col[0], col[1], col[2], lch.L, lch.C, lch.H)
		}
	}
	return nil
}

func mergedNames(customDir string) []string {
	custom, _ := palette.LoadCustomDir(customDir)
	set := map[string]bool{}
	for name := range builtinCatalog {
		set[name] = true
	}
	for name := range custom {
		set[name] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
