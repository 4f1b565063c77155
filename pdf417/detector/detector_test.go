package detector

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/internal/testutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

func TestPatternMatchVarianceExact(t *testing.T) {
	assert.Equal(t, 0, patternMatchVariance([]int{8, 1, 1, 1, 1, 1, 1, 3}, startPattern[:]))
	assert.Equal(t, 0, patternMatchVariance([]int{16, 2, 2, 2, 2, 2, 2, 6}, startPattern[:]))
	assert.Equal(t, 0, patternMatchVariance(stopPatternReverse[:], stopPatternReverse[:]))
}

func TestPatternMatchVarianceRejectsSubModuleCounts(t *testing.T) {
	// 12 pixels cannot carry a 17 module pattern
	assert.Equal(t, math.MaxInt, patternMatchVariance([]int{4, 1, 1, 1, 1, 1, 1, 2}, startPattern[:]))
}

func TestPatternMatchVarianceRejectsOneBadElement(t *testing.T) {
	assert.Equal(t, math.MaxInt, patternMatchVariance([]int{8, 1, 1, 4, 1, 1, 1, 3}, startPattern[:]))
}

func TestPatternMatchVarianceToleratesNoise(t *testing.T) {
	v := patternMatchVariance([]int{25, 3, 3, 4, 3, 3, 3, 9}, startPattern[:])
	assert.Less(t, v, maxAvgVariance)
}

func TestPatternMatchVarianceScaleProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("scaled start pattern has zero variance", prop.ForAll(
		func(k int) bool {
			counters := make([]int, len(startPattern))
			for i, p := range startPattern {
				counters[i] = p * k
			}
			return patternMatchVariance(counters, startPattern[:]) == 0
		},
		gen.IntRange(1, 64),
	))
	properties.Property("scaling counters moves the variance by at most one", prop.ForAll(
		func(counters []int, k int) bool {
			scaled := make([]int, len(counters))
			for i, c := range counters {
				scaled[i] = c * k
			}
			a := patternMatchVariance(counters, startPattern[:])
			b := patternMatchVariance(scaled, startPattern[:])
			if a == math.MaxInt || b == math.MaxInt {
				return true
			}
			d := a - b
			return d >= -1 && d <= 1
		},
		gen.SliceOfN(len(startPattern), gen.IntRange(1, 30)),
		gen.IntRange(2, 8),
	))
	properties.TestingRun(t)
}

func TestComputeDimension(t *testing.T) {
	assert.Equal(t, 51, computeDimension(50, 52))
	assert.Equal(t, 68, computeDimension(68, 68))
	assert.Equal(t, 68, computeDimension(66, 71))
	assert.Equal(t, 0, computeDimension(4, 4))
}

func TestComputeDimensionIsMultipleOf17(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("positive multiple of 17", prop.ForAll(
		func(top, bottom int) bool {
			d := computeDimension(top, bottom)
			return d > 0 && d%symbol.ModulesInCodeword == 0
		},
		gen.IntRange(9, 5000),
		gen.IntRange(9, 5000),
	))
	properties.TestingRun(t)
}

// rowOf draws runs of alternating color, starting with white.
func rowOf(runs ...int) *bitutil.BitMatrix {
	width := 0
	for _, r := range runs {
		width += r
	}
	m := bitutil.NewBitMatrix(width, 1)
	x := 0
	for i, r := range runs {
		if i%2 == 1 {
			m.SetRegion(x, 0, r, 1)
		}
		x += r
	}
	return m
}

func TestFindGuardPattern(t *testing.T) {
	// quiet zone, start pattern at 2px per module, then a codeword bar
	m := rowOf(5, 16, 2, 2, 2, 2, 2, 2, 6, 4, 10)
	counters := make([]int, len(startPattern))
	start, end, ok := findGuardPattern(m, 0, false, startPattern[:], counters)
	require.True(t, ok)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5+34, end)
}

func TestFindGuardPatternSkipsFalseStart(t *testing.T) {
	m := rowOf(3, 2, 2, 16, 2, 2, 2, 2, 2, 2, 6, 4, 3)
	counters := make([]int, len(startPattern))
	start, end, ok := findGuardPattern(m, 0, false, startPattern[:], counters)
	require.True(t, ok)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7+34, end)
}

func TestFindGuardPatternReversed(t *testing.T) {
	// codeword bar and space, stop pattern 7 1 1 3 1 1 1 2 1, quiet zone
	m := rowOf(4, 3, 2, 7, 1, 1, 3, 1, 1, 1, 2, 1, 6)
	counters := make([]int, len(stopPatternReverse))
	start, end, ok := findGuardPattern(m, 0, true, stopPatternReverse[:], counters)
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 6+18, end)
}

func TestFindGuardPatternAtRowEnd(t *testing.T) {
	m := rowOf(1, 8, 1, 1, 1, 1, 1, 1, 3)
	counters := make([]int, len(startPattern))
	start, end, ok := findGuardPattern(m, 0, false, startPattern[:], counters)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, m.Width(), end)
}

func TestFindGuardPatternMissing(t *testing.T) {
	m := rowOf(3, 5, 5, 5, 5, 5, 5, 5, 5)
	counters := make([]int, len(startPattern))
	_, _, ok := findGuardPattern(m, 0, false, startPattern[:], counters)
	assert.False(t, ok)
}

func renderHelloWorld(t *testing.T) (*testutil.PDF417, *bitutil.BitMatrix) {
	t.Helper()
	sym, err := testutil.NewPDF417(testutil.TextCodewords("HELLO WORLD"), 2, 1)
	require.NoError(t, err)
	require.Equal(t, 6, sym.Rows)
	return sym, sym.BitMatrix(symbol.Enumerated(), 3, 3, 2)
}

func TestDetectUpright(t *testing.T) {
	sym, bits := renderHelloWorld(t)
	require.Equal(t, 321, bits.Width())
	require.Equal(t, 66, bits.Height())

	for _, opts := range []*zxcore.DecodeOptions{nil, {TryHarder: true}} {
		res, err := Detect(bits, opts)
		require.NoError(t, err)
		assert.False(t, res.Rotated)

		want := [8]zxcore.ResultPoint{
			TopLeft:          {X: 6, Y: 6},
			BottomLeft:       {X: 6, Y: 60},
			TopRight:         {X: 315, Y: 6},
			BottomRight:      {X: 315, Y: 60},
			TopLeftInner:     {X: 57, Y: 6},
			BottomLeftInner:  {X: 57, Y: 60},
			TopRightInner:    {X: 261, Y: 6},
			BottomRightInner: {X: 261, Y: 60},
		}
		if diff := cmp.Diff(want, res.Vertices); diff != "" {
			t.Errorf("vertices (-want +got):\n%s", diff)
		}
		assert.Len(t, res.Points, 8)
		assert.InDelta(t, 3.0, res.ModuleWidth, 1e-9)
		assert.Equal(t, 68, res.Dimension)
		assert.Equal(t, 18, res.RowDimension)
		assert.Equal(t, 68, res.Bits.Width())
		assert.Equal(t, 68, res.Bits.Height())

		lines := testutil.LinesMatrix(sym.Grid(symbol.Enumerated()), 12)
		assert.True(t, lines.Equal(res.Lines), "lines matrix differs:\n%v\nwant:\n%v", res.Lines, lines)
	}
}

func TestDetectRotated180(t *testing.T) {
	sym, bits := renderHelloWorld(t)
	rotated := bits.Rotate180()

	res, err := Detect(rotated, nil)
	require.NoError(t, err)
	assert.True(t, res.Rotated)

	w, h := float64(bits.Width()), float64(bits.Height())
	assert.Equal(t, zxcore.ResultPoint{X: w - 6, Y: h - 6}, res.Vertices[TopLeft])
	assert.Equal(t, zxcore.ResultPoint{X: w - 261, Y: h - 60}, res.Vertices[BottomRightInner])
	assert.Equal(t, 68, res.Dimension)

	lines := testutil.LinesMatrix(sym.Grid(symbol.Enumerated()), 12)
	assert.True(t, lines.Equal(res.Lines))
}

func TestDetectEmptyImage(t *testing.T) {
	_, err := Detect(bitutil.NewBitMatrix(200, 100), nil)
	assert.ErrorIs(t, err, zxcore.ErrNotFound)
}

func TestDetectStartPatternOnly(t *testing.T) {
	m := bitutil.NewBitMatrix(400, 60)
	x := 10
	for i, w := range startPattern {
		if i%2 == 0 {
			m.SetRegion(x, 10, w*3, 40)
		}
		x += w * 3
	}
	_, err := Detect(m, &zxcore.DecodeOptions{TryHarder: true})
	assert.ErrorIs(t, err, zxcore.ErrNotFound)
}

// drawRuns paints alternating bar and space runs, bars first, scaled by px,
// over rows [top, bottom). It returns the x after the last run.
func drawRuns(m *bitutil.BitMatrix, x, top, bottom, px int, runs []int) int {
	for i, w := range runs {
		if i%2 == 0 {
			m.SetRegion(x, top, w*px, bottom-top)
		}
		x += w * px
	}
	return x
}

func TestDetectRejectsEmptyCodewordArea(t *testing.T) {
	stop := make([]int, len(stopPatternReverse))
	for i, w := range stopPatternReverse {
		stop[len(stop)-1-i] = w
	}
	m := bitutil.NewBitMatrix(117, 50)
	x := drawRuns(m, 6, 5, 45, 3, startPattern[:])
	drawRuns(m, x, 5, 45, 3, stop)

	_, err := Detect(m, &zxcore.DecodeOptions{TryHarder: true})
	assert.ErrorIs(t, err, zxcore.ErrNotFound)
	assert.ErrorContains(t, err, "dimension 0")
}

func TestDetectDimensionIsMultipleOf17(t *testing.T) {
	sym, err := testutil.NewPDF417(testutil.TextCodewords("HELLO WORLD"), 2, 1)
	require.NoError(t, err)
	table := symbol.Enumerated()

	properties := gopter.NewProperties(nil)
	properties.Property("detected dimension is a positive multiple of 17", prop.ForAll(
		func(moduleWidth, rowHeight int) bool {
			res, err := Detect(sym.BitMatrix(table, moduleWidth, rowHeight, 2), nil)
			if err != nil {
				return zxcore.IsDecodeFailure(err)
			}
			return res.Dimension > 0 && res.Dimension%symbol.ModulesInCodeword == 0
		},
		gen.IntRange(1, 5),
		gen.IntRange(2, 5),
	))
	properties.TestingRun(t)
}
