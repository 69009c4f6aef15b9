// Package commands implements the lutgen subcommands. Each command is a
// thin adapter between kong-parsed flags and the core engine/hald/palette/
// remap/patch/cache packages, which stay logger-free and return errors as
// values; only this package and its caller touch charmbracelet/log.
package commands

import "github.com/charmbracelet/log"

// Context is injected into every subcommand's Run method by kong's
// type-based binding.
type Context struct {
	Logger *log.Logger
	Custom string // custom palette directory, resolved once in cli.Run
}
