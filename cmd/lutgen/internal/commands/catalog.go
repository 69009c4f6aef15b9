package commands

import "github.com/lutgen-go/lutgen/palette"

// builtinCatalog stands in for the real, externally owned palette table
// spec.md §1 describes as out of scope; it exists only so `palette names`/
// `palette all` have something to demonstrate the custom-shadows-builtin
// precedence rule of spec.md §6 against.
var builtinCatalog = palette.MapCatalog{
	"grayscale": {{0, 0, 0}, {64, 64, 64}, {128, 128, 128}, {192, 192, 192}, {255, 255, 255}},
	"sepia":     {{112, 66, 20}, {155, 103, 60}, {196, 147, 99}, {224, 191, 157}},
	"ocean":     {{0, 31, 63}, {0, 74, 111}, {0, 128, 128}, {127, 219, 218}},
	"sunset":    {{255, 94, 0}, {255, 154, 0}, {255, 206, 84}, {209, 60, 75}},
	"jet":       {{0, 0, 143}, {0, 0, 255}, {0, 255, 255}, {255, 255, 0}, {255, 0, 0}, {128, 0, 0}},
}

func resolvePalette(name, customDir string) (palette.Palette, error) {
	custom, err := palette.LoadCustomDir(customDir)
	if err != nil {
		return nil, err
	}
	return palette.Resolve(name, custom, builtinCatalog)
}
