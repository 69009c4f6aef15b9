package palette

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lutgen-go/lutgen/lerrors"
)

// ParseHexToken parses one whitespace-separated palette-file token (spec.md
// §6): 3, 4, 6, or 8 hex digits, optionally '#'-prefixed. Alpha digits (for
// the 4- and 8-digit forms) are accepted and discarded, since Palette carries
// no alpha.
// Malformed tokens return an InvalidParameter error; callers that want the
// "leave it alone" patcher policy (spec.md §4.8) should catch that and skip
// the line instead of failing the whole file.
func ParseHexToken(tok string) (Color, error) {
	hex := strings.TrimPrefix(tok, "#")
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, 8)
		for i := 0; i < 3; i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
		// already full width
	default:
		return Color{}, lerrors.Invalidf("malformed hex color %q", tok)
	}
	c, err := colorful.Hex("#" + hex[:6])
	if err != nil {
		return Color{}, lerrors.Invalidf("malformed hex color %q: %v", tok, err)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// LoadPaletteFile reads a whitespace-separated hex-color file (spec.md §6).
// Blank lines and lines starting with '#' not immediately followed by a
// valid hex run are treated as comments. Order is preserved.
func LoadPaletteFile(r io.Reader) (Palette, error) {
	var pal Palette
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !looksLikeColorLine(line) {
			continue // comment line
		}
		for _, tok := range strings.Fields(line) {
			c, err := ParseHexToken(tok)
			if err != nil {
				continue // malformed tokens are skipped, not fatal
			}
			pal = append(pal, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, lerrors.Wrap(lerrors.Io, "read palette file", err)
	}
	return pal, nil
}

// looksLikeColorLine distinguishes "#comment" from "#RRGGBB ..." lines.
func looksLikeColorLine(line string) bool {
	hex := strings.TrimPrefix(line, "#")
	fields := strings.Fields(hex)
	if len(fields) == 0 {
		return false
	}
	switch len(fields[0]) {
	case 3, 4, 6, 8:
		_, err := ParseHexToken(fields[0])
		return err == nil
	default:
		return false
	}
}

// LoadCustomDir scans dir for palette files, keyed by lowercase file-name
// stem (name minus extension), per spec.md §4.10. Returns an empty, non-nil
// map (not an error) if dir does not exist — a missing custom directory is
// equivalent to having no custom palettes.
func LoadCustomDir(dir string) (map[string]Palette, error) {
	out := map[string]Palette{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, lerrors.Wrap(lerrors.Io, "read custom palette directory", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			continue // per-file I/O errors don't abort the scan
		}
		pal, err := LoadPaletteFile(f)
		f.Close()
		if err != nil || len(pal) == 0 {
			continue
		}
		stem := strings.ToLower(stemOf(e.Name()))
		out[stem] = pal
	}
	return out, nil
}

func stemOf(name string) string {
	for {
		ext := filepath.Ext(name)
		if ext == "" {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}

// Resolve looks up a palette by name, following the precedence rule of
// spec.md §6: custom directory (case-insensitive stem match) first, then
// the built-in catalog.
func Resolve(name string, custom map[string]Palette, builtin Catalog) (Palette, error) {
	key := strings.ToLower(name)
	if pal, ok := custom[key]; ok {
		return pal, nil
	}
	if builtin != nil {
		if pal, ok := builtin.GetByName(key); ok {
			return pal, nil
		}
	}
	return nil, lerrors.New(lerrors.NotFound, "palette \""+name+"\" not found in custom directory or catalog")
}
