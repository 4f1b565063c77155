package symbol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterNumberOfZeroIsSentinel(t *testing.T) {
	assert.Equal(t, -1, ClusterNumber(0))
}

func TestClusterNumberMatchesBarWidths(t *testing.T) {
	for _, tc := range []struct {
		widths string
		want   int
	}{
		{"11111516", 0},
		{"11114216", 3},
		{"11111246", 6},
		{"31111136", 0},
		{"41215211", 6},
	} {
		p, err := ParseWidths(tc.widths)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ClusterNumber(p), tc.widths)
	}
}

func TestClusterNumberRangeProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("cluster of any non-zero pattern is in [0,9)", prop.ForAll(
		func(p int) bool {
			c := ClusterNumber(p)
			return c >= 0 && c < 9
		},
		gen.IntRange(1, 1<<ModulesInCodeword-1),
	))
	properties.TestingRun(t)
}

func TestWidthsAndPatternInvert(t *testing.T) {
	w := [BarsInCodeword]int{3, 1, 1, 1, 1, 1, 3, 6}
	p := Pattern(w)
	assert.Equal(t, 0x1d5c0, p)
	got, ok := Widths(p)
	require.True(t, ok)
	assert.Equal(t, w, got)
	assert.Equal(t, "31111136", FormatWidths(p))
}

func TestWidthsRejectsMalformed(t *testing.T) {
	_, ok := Widths(0x0ffff)
	assert.False(t, ok, "must start with a bar")
	_, ok = Widths(0x1aaaa)
	assert.False(t, ok, "too many elements")
	_, ok = Widths(0x1ff00)
	assert.False(t, ok, "too few elements")
}

func TestParseWidthsErrors(t *testing.T) {
	for _, s := range []string{"1111151", "81111113", "11111517", "1111151x"} {
		_, err := ParseWidths(s)
		assert.Error(t, err, s)
	}
}

func TestRatiosOf(t *testing.T) {
	p, err := ParseWidths("31111136")
	require.NoError(t, err)
	r := RatiosOf(p)
	assert.InDelta(t, 3.0/17, r[0], 1e-12)
	assert.InDelta(t, 6.0/17, r[7], 1e-12)
	sum := 0.0
	for _, v := range r {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestEnumeratedTable(t *testing.T) {
	tbl := Enumerated()
	assert.Same(t, tbl, Enumerated())

	first := []string{"11111516", "11114216", "11111246"}
	last := []string{"23121323", "52141121", "41215211"}
	for i, c := range Clusters {
		assert.Equal(t, first[i], FormatWidths(tbl.Pattern(c, 0)), "cluster %d", c)
		assert.Equal(t, last[i], FormatWidths(tbl.Pattern(c, NumberOfCodewords-1)), "cluster %d", c)
		for cw := 0; cw < NumberOfCodewords; cw += 97 {
			p := tbl.Pattern(c, cw)
			gotCW, gotCluster, ok := tbl.Codeword(p)
			require.True(t, ok)
			assert.Equal(t, cw, gotCW)
			assert.Equal(t, c, gotCluster)
			assert.Equal(t, c, ClusterNumber(p))
		}
	}
	assert.Zero(t, tbl.Pattern(1, 0))
	assert.Zero(t, tbl.Pattern(0, NumberOfCodewords))
	_, _, ok := tbl.Codeword(0x1ffff)
	assert.False(t, ok)
}

func TestMatchFindsExactAndNoisyRatios(t *testing.T) {
	tbl := Enumerated()
	p := tbl.Pattern(3, 500)
	assert.Equal(t, p, tbl.Match(RatiosOf(p)))

	noisy := RatiosOf(p)
	noisy[0] += 0.01
	noisy[7] -= 0.01
	assert.Equal(t, p, tbl.Match(noisy))
}

func TestNewTableValidates(t *testing.T) {
	tbl := Enumerated()
	lists := [3][]int{tbl.ClusterPatterns(0), tbl.ClusterPatterns(3), tbl.ClusterPatterns(6)}

	short := lists
	short[0] = short[0][:10]
	_, err := NewTable(short)
	assert.ErrorContains(t, err, "has 10 patterns")

	swapped := [3][]int{lists[1], lists[0], lists[2]}
	_, err = NewTable(swapped)
	assert.ErrorContains(t, err, "is in cluster")

	dup := [3][]int{append([]int(nil), lists[0]...), lists[1], lists[2]}
	dup[0][1] = dup[0][0]
	_, err = NewTable(dup)
	assert.ErrorContains(t, err, "used by codewords")
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Enumerated().WriteYAML(&buf))
	assert.Contains(t, buf.String(), `"11111516"`)

	loaded, err := Load(&buf)
	require.NoError(t, err)
	for _, c := range Clusters {
		assert.Equal(t, Enumerated().ClusterPatterns(c), loaded.ClusterPatterns(c))
	}
}

func TestLoadAcceptsIntegerPatterns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Enumerated().WriteYAML(&buf))
	doc := strings.Replace(buf.String(), `"11111516"`, "0x15040", 1)

	loaded, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Enumerated().Pattern(0, 0), loaded.Pattern(0, 0))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("clusters:\n  0: [\"11111516\"]\n"))
	assert.ErrorContains(t, err, "no cluster 3")

	_, err = Load(strings.NewReader("clusters:\n  0: [\"99\"]\n"))
	assert.Error(t, err)
}
