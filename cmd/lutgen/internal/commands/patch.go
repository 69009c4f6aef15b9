package commands

import (
	"fmt"
	"os"

	"github.com/lutgen-go/lutgen/hald"
	"github.com/lutgen-go/lutgen/lerrors"
	"github.com/lutgen-go/lutgen/patch"
)

// PatchCmd implements C8: rewrite hex-color literals in text files through
// a LUT sampler, emitting a unified diff and/or writing in place. Like
// ApplyCmd, the LUT comes from --hald-clut or is generated inline
// (spec.md §6: "like apply ... plus all generate algorithm flags").
type PatchCmd struct {
	Files         []string `arg:"" required:"" help:"Text files to patch"`
	Write         bool     `name:"write" short:"w" help:"Rewrite files in place instead of printing a diff"`
	NoPatch       bool     `name:"no-patch" help:"Print a diff without writing, even with --write"`
	UnprefixedHex bool     `name:"unprefixed-hex" help:"Also match bare (non '#'-prefixed) hex tokens"`

	InlineLUT
}

func (c *PatchCmd) Run(ctx *Context) error {
	lut, level, err := c.Resolve(ctx)
	if err != nil {
		return err
	}

	sampler := func(r, g, b uint8) (uint8, uint8, uint8) {
		rc := hald.ChannelForByte(level, r)
		gc := hald.ChannelForByte(level, g)
		bc := hald.ChannelForByte(level, b)
		out := hald.Sample(lut, level, rc, gc, bc)
		return out.R, out.G, out.B
	}

	mode := patch.ModeDiff
	if c.Write && !c.NoPatch {
		mode = patch.ModeWrite
	}

	writeFile := func(path string, data []byte) error {
		return os.WriteFile(path, data, 0o644)
	}

	exitErr := false
	for _, path := range c.Files {
		result := patch.RewriteFile(path, sampler, mode, c.UnprefixedHex, os.ReadFile, writeFile)
		if result.Err != nil {
			ctx.Logger.Error("failed to patch file", "path", path, "error", result.Err)
			exitErr = true
			continue
		}
		if result.Diff != "" {
			fmt.Print(result.Diff)
		}
		if !result.Changed {
			ctx.Logger.Debug("no colors changed", "path", path)
		}
	}
	if exitErr {
		return lerrors.New(lerrors.Io, "one or more files failed to patch")
	}
	return nil
}
