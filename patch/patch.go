// Package patch implements the text patcher (C8): it finds hex-color
// literals in arbitrary text files and rewrites them through a caller
// supplied color-lookup function, producing either a unified diff or an
// in-place rewrite.
//
// Grounded on codeninja55-go-radx's use of github.com/pmezard/go-difflib for
// hunk generation, and on palette's own hex parsing (spec.md §4.8 shares the
// same 3/4/6/8-digit grammar as the palette file loader).
package patch

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/lutgen-go/lutgen/lerrors"
)

// ColorFunc maps one sRGB triple to another: either an in-memory LUT
// sampler or a live remapper, per spec.md §4.8.
type ColorFunc func(r, g, b uint8) (uint8, uint8, uint8)

// hexPattern matches '#' followed by 3, 4, 6, or 8 hex digits, as a
// maximal run (so '#ffffff' is not matched as '#ffff'+"ff"). Longer
// alternatives are tried first since regexp alternation is leftmost-first.
var hexPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{4}|[0-9a-fA-F]{3})\b`)

// unprefixedHexPattern matches a bare 3/6/8-digit hex run as a standalone
// token (word boundaries on both sides), for the opt-in extension spec.md
// §4.8 step 1 documents but does not default to.
var unprefixedHexPattern = regexp.MustCompile(`\b(?:[0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// RewriteResult holds the outcome of rewriting one file's contents.
type RewriteResult struct {
	Original string
	Rewritten string
	Changed bool
}

// RewriteText applies f to every recognized hex-color literal in src,
// preserving capitalization, the '#' prefix, and any alpha byte verbatim
// (spec.md §4.8 steps 1-2). Malformed literals are left untouched.
// allowUnprefixed opts into matching bare (non '#'-prefixed) hex tokens too,
// the extension spec.md §4.8 step 1 documents but does not default to.
func RewriteText(src string, f ColorFunc, allowUnprefixed bool) RewriteResult {
	matches := hexPattern.FindAllStringIndex(src, -1)
	if allowUnprefixed {
		for _, loc := range unprefixedHexPattern.FindAllStringIndex(src, -1) {
			if overlapsAny(loc, matches) {
				continue
			}
			matches = append(matches, loc)
		}
		sortLocs(matches)
	}

	var out strings.Builder
	changed := false
	last := 0
	for _, loc := range matches {
		out.WriteString(src[last:loc[0]])
		token := src[loc[0]:loc[1]]
		rewritten, ok := rewriteToken(token, f)
		if ok && rewritten != token {
			changed = true
		}
		if ok {
			out.WriteString(rewritten)
		} else {
			out.WriteString(token)
		}
		last = loc[1]
	}
	out.WriteString(src[last:])
	return RewriteResult{Original: src, Rewritten: out.String(), Changed: changed}
}

func overlapsAny(loc []int, existing [][]int) bool {
	for _, e := range existing {
		if loc[0] < e[1] && e[0] < loc[1] {
			return true
		}
	}
	return false
}

func sortLocs(locs [][]int) {
	for i := 1; i < len(locs); i++ {
		for j := i; j > 0 && locs[j][0] < locs[j-1][0]; j-- {
			locs[j], locs[j-1] = locs[j-1], locs[j]
		}
	}
}

// rewriteToken rewrites a single hex-color literal, '#'-prefixed or bare,
// reporting ok=false for anything the hex grammar rejects (defensive: left
// untouched by the caller in that case).
func rewriteToken(token string, f ColorFunc) (string, bool) {
	prefix := ""
	hex := token
	if strings.HasPrefix(token, "#") {
		prefix = "#"
		hex = token[1:]
	}
	var rStr, gStr, bStr, alpha string
	switch len(hex) {
	case 3:
		rStr, gStr, bStr = doubled(hex[0:1]), doubled(hex[1:2]), doubled(hex[2:3])
	case 4:
		rStr, gStr, bStr = doubled(hex[0:1]), doubled(hex[1:2]), doubled(hex[2:3])
		alpha = doubled(hex[3:4])
	case 6:
		rStr, gStr, bStr = hex[0:2], hex[2:4], hex[4:6]
	case 8:
		rStr, gStr, bStr = hex[0:2], hex[2:4], hex[4:6]
		alpha = hex[6:8]
	default:
		return token, false
	}

	r, okR := parseHexByte(rStr)
	g, okG := parseHexByte(gStr)
	b, okB := parseHexByte(bStr)
	if !okR || !okG || !okB {
		return token, false
	}

	nr, ng, nb := f(r, g, b)

	upper := isUpperHex(hex)
	out := prefix + formatByte(nr, upper) + formatByte(ng, upper) + formatByte(nb, upper)
	if alpha != "" {
		out += alpha
	}
	return out, true
}

func doubled(digit string) string { return digit + digit }

func parseHexByte(s string) (uint8, bool) {
	if len(s) != 2 {
		return 0, false
	}
	hi, ok1 := hexDigit(s[0])
	lo, ok2 := hexDigit(s[1])
	if !ok1 || !ok2 {
		return 0, false
	}
	return uint8(hi<<4 | lo), true
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// isUpperHex reports whether the first cased hex digit found in s is
// uppercase; lower is assumed for strings with no letters (e.g. "000").
func isUpperHex(s string) bool {
	for _, c := range s {
		if c >= 'a' && c <= 'f' {
			return false
		}
		if c >= 'A' && c <= 'F' {
			return true
		}
	}
	return false
}

const hexDigitsLower = "0123456789abcdef"
const hexDigitsUpper = "0123456789ABCDEF"

func formatByte(v uint8, upper bool) string {
	digits := hexDigitsLower
	if upper {
		digits = hexDigitsUpper
	}
	return string([]byte{digits[v>>4], digits[v&0xf]})
}

// UnifiedDiff renders a unified diff between original and rewritten, with
// the given file name used for both the "---" and "+++" headers (spec.md
// §4.8 step 3). Returns an empty string when the two are identical.
func UnifiedDiff(filename, original, rewritten string) (string, error) {
	if original == rewritten {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(rewritten),
		FromFile: filename,
		ToFile:   filename,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", lerrors.Wrap(lerrors.Internal, "render unified diff", err)
	}
	return text, nil
}

// Mode selects what RewriteFile does with a successful rewrite.
type Mode int

const (
	// ModeDiff produces a unified diff only; the file is left untouched.
	ModeDiff Mode = iota
	// ModeWrite overwrites the file in place.
	ModeWrite
	// ModeBoth does both.
	ModeBoth
)

// FileResult is the per-file outcome of a patch run, letting callers
// tolerate per-file errors without aborting the whole batch (spec.md
// §4.8's failure semantics).
type FileResult struct {
	Path    string
	Diff    string
	Changed bool
	Err     error
}

// RewriteFile reads path, rewrites its hex colors through f, and depending
// on mode returns a diff and/or writes the new content back. readFile and
// writeFile are injected so callers can use os.ReadFile/os.WriteFile or an
// in-memory filesystem for tests.
func RewriteFile(path string, f ColorFunc, mode Mode, allowUnprefixed bool, readFile func(string) ([]byte, error), writeFile func(string, []byte) error) FileResult {
	data, err := readFile(path)
	if err != nil {
		return FileResult{Path: path, Err: lerrors.Wrap(lerrors.Io, "read file", err)}
	}
	result := RewriteText(string(data), f, allowUnprefixed)
	fr := FileResult{Path: path, Changed: result.Changed}
	if !result.Changed {
		return fr
	}
	if mode == ModeDiff || mode == ModeBoth {
		diffText, err := UnifiedDiff(path, result.Original, result.Rewritten)
		if err != nil {
			fr.Err = err
			return fr
		}
		fr.Diff = diffText
	}
	if mode == ModeWrite || mode == ModeBoth {
		if err := writeFile(path, []byte(result.Rewritten)); err != nil {
			fr.Err = lerrors.Wrap(lerrors.Io, "write file", err)
			return fr
		}
	}
	return fr
}
