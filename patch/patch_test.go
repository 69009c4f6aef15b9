package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invert(r, g, b uint8) (uint8, uint8, uint8) {
	return 255 - r, 255 - g, 255 - b
}

func identity(r, g, b uint8) (uint8, uint8, uint8) { return r, g, b }

func TestRewriteTextPreservesCaseAndPrefix(t *testing.T) {
	src := "color: #FF0000; other: #00ff00;"
	res := RewriteText(src, invert, false)
	assert.True(t, res.Changed)
	assert.Equal(t, "color: #00FFFF; other: #ff00ff;", res.Rewritten)
}

func TestRewriteTextExpandsShorthandToSixDigitOutput(t *testing.T) {
	src := "#abc"
	res := RewriteText(src, identity, false)
	assert.True(t, res.Changed, "3-digit input always serializes to 6-digit output, even under an identity mapping")
	assert.Equal(t, "#aabbcc", res.Rewritten)
}

func TestRewriteTextPreservesAlphaByte(t *testing.T) {
	src := "#FF000080"
	res := RewriteText(src, invert, false)
	assert.Equal(t, "#00FFFF80", res.Rewritten)
}

func TestRewriteTextLeavesMalformedLiteralsUntouched(t *testing.T) {
	src := "#zzzzzz and #12"
	res := RewriteText(src, invert, false)
	assert.False(t, res.Changed)
	assert.Equal(t, src, res.Rewritten)
}

func TestRewriteTextIdentityMappingProducesNoChange(t *testing.T) {
	src := "background: #336699;"
	res := RewriteText(src, identity, false)
	assert.False(t, res.Changed)
}

func TestRewriteTextIgnoresUnprefixedByDefault(t *testing.T) {
	src := "token ff0000 stays put"
	res := RewriteText(src, invert, false)
	assert.False(t, res.Changed)
	assert.Equal(t, src, res.Rewritten)
}

func TestRewriteTextUnprefixedOptIn(t *testing.T) {
	src := "token ff0000 stays put"
	res := RewriteText(src, invert, true)
	assert.True(t, res.Changed)
	assert.Equal(t, "token 00ffff stays put", res.Rewritten)
}

func TestRewriteTextUnprefixedDoesNotDoubleMatchPrefixed(t *testing.T) {
	src := "#ff0000"
	res := RewriteText(src, invert, true)
	assert.Equal(t, "#00ffff", res.Rewritten)
}

func TestUnifiedDiffEmptyWhenIdentical(t *testing.T) {
	diff, err := UnifiedDiff("f.css", "same", "same")
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestUnifiedDiffContainsHeadersAndHunks(t *testing.T) {
	diff, err := UnifiedDiff("theme.css", "color: #ff0000;\n", "color: #00ffff;\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- theme.css")
	assert.Contains(t, diff, "+++ theme.css")
	assert.Contains(t, diff, "@@")
}

func TestRewriteFileDiffModeDoesNotWrite(t *testing.T) {
	wrote := false
	fr := RewriteFile("theme.css", invert, ModeDiff, false,
		func(string) ([]byte, error) { return []byte("#ff0000"), nil },
		func(string, []byte) error { wrote = true; return nil })
	require.NoError(t, fr.Err)
	assert.True(t, fr.Changed)
	assert.NotEmpty(t, fr.Diff)
	assert.False(t, wrote)
}

func TestRewriteFileWriteModeWrites(t *testing.T) {
	var written []byte
	fr := RewriteFile("theme.css", invert, ModeWrite, false,
		func(string) ([]byte, error) { return []byte("#ff0000"), nil },
		func(_ string, data []byte) error { written = data; return nil })
	require.NoError(t, fr.Err)
	assert.Equal(t, "#00ffff", string(written))
	assert.Empty(t, fr.Diff)
}

func TestRewriteFilePropagatesReadError(t *testing.T) {
	fr := RewriteFile("missing.css", invert, ModeDiff, false,
		func(string) ([]byte, error) { return nil, errors.New("no such file") },
		func(string, []byte) error { return nil })
	require.Error(t, fr.Err)
}

func TestRewriteFileNoChangeSkipsWrite(t *testing.T) {
	wrote := false
	fr := RewriteFile("plain.txt", identity, ModeBoth, false,
		func(string) ([]byte, error) { return []byte("no colors here"), nil },
		func(string, []byte) error { wrote = true; return nil })
	require.NoError(t, fr.Err)
	assert.False(t, fr.Changed)
	assert.False(t, wrote)
}

func TestRewriteTextMultilinePreservesUnrelatedText(t *testing.T) {
	src := strings.Join([]string{
		"body { color: #112233; }",
		"/* a comment with no colors */",
		"a { color: #112233; }",
	}, "\n")
	res := RewriteText(src, identity, false)
	assert.Equal(t, src, res.Rewritten)
	assert.False(t, res.Changed)
}
