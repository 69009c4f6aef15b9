// Package cli wires the lutgen command tree together with kong and sets up
// leveled stderr logging with charmbracelet/log, following the same split
// codeninja55-go-radx uses: the CLI package owns parsing and logging setup,
// every subcommand lives in its own Run method and never touches the
// logger directly except through the config it is handed.
package cli

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lutgen-go/lutgen/cmd/lutgen/internal/commands"
)

const (
	appName        = "lutgen"
	appDescription = "Generate and apply palette-warped Hald-CLUT lookup tables"
)

// GlobalConfig holds flags shared by every subcommand.
type GlobalConfig struct {
	LogLevel string `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Logging verbosity"`
	Quiet    bool   `name:"quiet" short:"q" help:"Suppress all but error-level logging"`
}

// CLI is the root command structure.
type CLI struct {
	GlobalConfig

	Generate commands.GenerateCmd `cmd:"" help:"Generate a palette-warped Hald-CLUT"`
	Apply    commands.ApplyCmd    `cmd:"" help:"Apply a Hald-CLUT to an image"`
	Patch    commands.PatchCmd    `cmd:"" help:"Rewrite hex colors in text files through a LUT"`
	Extract  commands.ExtractCmd  `cmd:"" help:"Extract a palette from an image via median-cut quantization"`
	Palette  PaletteCmd           `cmd:"" help:"Inspect available palettes"`
}

// PaletteCmd groups the read-only palette inspection subcommands.
type PaletteCmd struct {
	Names commands.PaletteNamesCmd `cmd:"" help:"List known palette names"`
	All   commands.PaletteAllCmd   `cmd:"" help:"Print every known palette's colors"`
}

// Run parses os.Args, wires up logging, and dispatches to the selected
// subcommand.
func Run(version string) error {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)

	logger := setupLogger(&cli.GlobalConfig)
	logger.Debug("lutgen starting", "version", version)

	err := ctx.Run(&commands.Context{Logger: logger, Custom: cli.customPaletteDir()})
	if err != nil {
		logger.Error("command failed", "error", err)
	}
	return err
}

// customPaletteDir resolves spec.md §6's custom palette directory: $LUTGEN_DIR
// if set, otherwise the OS config directory's lutgen subdirectory
// (~/.config/lutgen, ~/Library/Application Support/lutgen, %APPDATA%\lutgen).
// The directory itself is the palette root; there is no further subdirectory.
func (c *CLI) customPaletteDir() string {
	if dir := os.Getenv("LUTGEN_DIR"); dir != "" {
		return dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lutgen")
}

func setupLogger(cfg *GlobalConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	switch {
	case cfg.Quiet:
		logger.SetLevel(log.ErrorLevel)
	case cfg.LogLevel == "debug":
		logger.SetLevel(log.DebugLevel)
	case cfg.LogLevel == "warn":
		logger.SetLevel(log.WarnLevel)
	case cfg.LogLevel == "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	log.SetDefault(logger)
	return logger
}
