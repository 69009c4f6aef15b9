package palette

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lutgen-go/lutgen/colorspace"
)

func TestPrepareRejectsEmptyPalette(t *testing.T) {
	_, err := Prepare(nil, 1)
	require.Error(t, err)
}

func TestPrepareOrderPreserved(t *testing.T) {
	pal := Palette{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	p, err := Prepare(pal, 1)
	require.NoError(t, err)
	require.Len(t, p.Points, 3)
	require.Equal(t, pal, p.SRGB)
}

func TestKDTreeNearestMatchesBruteForce(t *testing.T) {
	pal := Palette{
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0},
		{0, 255, 255}, {255, 0, 255}, {128, 128, 128}, {10, 200, 30},
	}
	p, err := Prepare(pal, 1)
	require.NoError(t, err)

	query := colorspace.SRGBToOklab(200, 50, 60)
	for k := 1; k <= len(pal); k++ {
		got := p.Tree.Nearest(query, k)
		want := bruteForceNearest(p.Points, query, k)
		assert.ElementsMatch(t, want, got, "k=%d", k)
	}
}

func TestKDTreeNearestMatchesBruteForceWithLumFactor(t *testing.T) {
	pal := Palette{
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0},
		{0, 255, 255}, {255, 0, 255}, {128, 128, 128}, {10, 200, 30},
	}
	const lumFactor = float32(2.5)
	p, err := Prepare(pal, lumFactor)
	require.NoError(t, err)

	trueQuery := colorspace.SRGBToOklab(200, 50, 60)
	scaledQuery := trueQuery
	scaledQuery.L *= lumFactor

	for k := 1; k <= len(pal); k++ {
		got := p.Tree.Nearest(scaledQuery, k)
		want := bruteForceNearestWeighted(p.True, trueQuery, k, lumFactor)
		assert.ElementsMatch(t, want, got, "k=%d", k)
	}
}

func TestKDTreeZeroMeansAllInOrder(t *testing.T) {
	pal := Palette{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	p, err := Prepare(pal, 1)
	require.NoError(t, err)
	all := p.Tree.Nearest(p.Points[0], 0)
	assert.Equal(t, []int{0, 1, 2}, all)
}

func TestParseHexTokenExpandsShorthand(t *testing.T) {
	c, err := ParseHexToken("#abc")
	require.NoError(t, err)
	assert.Equal(t, Color{0xaa, 0xbb, 0xcc}, c)

	c2, err := ParseHexToken("abcdef")
	require.NoError(t, err)
	assert.Equal(t, Color{0xab, 0xcd, 0xef}, c2)

	c3, err := ParseHexToken("#AABBCCDD") // 8-digit with alpha, alpha dropped
	require.NoError(t, err)
	assert.Equal(t, Color{0xaa, 0xbb, 0xcc}, c3)

	_, err = ParseHexToken("#zzz")
	assert.Error(t, err)
}

func TestLoadPaletteFileSkipsComments(t *testing.T) {
	src := "# a comment\n#ff0000 #00ff00\n\n00 0000ff\n"
	pal, err := LoadPaletteFile(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, Palette{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}, pal)
}

func TestResolvePrecedence(t *testing.T) {
	custom := map[string]Palette{"jet": {{1, 1, 1}}}
	builtin := MapCatalog{"jet": {{2, 2, 2}}, "ocean": {{3, 3, 3}}}

	got, err := Resolve("JET", custom, builtin)
	require.NoError(t, err)
	assert.Equal(t, Palette{{1, 1, 1}}, got, "custom should shadow built-in")

	got, err = Resolve("ocean", custom, builtin)
	require.NoError(t, err)
	assert.Equal(t, Palette{{3, 3, 3}}, got)

	_, err = Resolve("nonexistent", custom, builtin)
	assert.Error(t, err)
}

func bruteForceNearest(points []colorspace.Oklab, query colorspace.Oklab, k int) []int {
	return bruteForceNearestWeighted(points, query, k, 1)
}

// bruteForceNearestWeighted scores every point against query using
// colorspace.Distance's own lumFactor contract (raw, unscaled L values in,
// scaling applied once inside Distance), independent of how the tree
// internally represents its points.
func bruteForceNearestWeighted(points []colorspace.Oklab, query colorspace.Oklab, k int, lumFactor float32) []int {
	type scored struct {
		idx  int
		dist float32
	}
	scores := make([]scored, len(points))
	for i, p := range points {
		scores[i] = scored{idx: i, dist: colorspace.Distance(query, p, lumFactor)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].dist != scores[j].dist {
			return scores[i].dist < scores[j].dist
		}
		return scores[i].idx < scores[j].idx
	})
	out := make([]int, 0, k)
	for i := 0; i < k && i < len(scores); i++ {
		out = append(out, scores[i].idx)
	}
	sort.Ints(out)
	return out
}
