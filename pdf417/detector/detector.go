package detector

import (
	"fmt"
	"math"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/internal"
	"github.com/ericlevine/zxcore/pdf417/symbol"
	"github.com/ericlevine/zxcore/transform"
)

const (
	rowStep = 8
	// oversampling of the lines matrix per module
	linesPerModule   = 4
	samplesPerModule = 8
)

// Vertex indexes, in the symbol's own frame.
const (
	TopLeft = iota
	BottomLeft
	TopRight
	BottomRight
	TopLeftInner
	BottomLeftInner
	TopRightInner
	BottomRightInner
)

// Detect locates a PDF417 symbol in matrix and samples its codeword area.
// The upright orientation is tried first, then the symbol rotated by 180
// degrees. Vertices are searched every 8 rows, or every row with TryHarder.
func Detect(matrix *bitutil.BitMatrix, opts *zxcore.DecodeOptions) (*Result, error) {
	step := rowStep
	if opts.IsTryHarder() {
		step = 1
	}

	vertices, ok := findVertices(matrix, step)
	rotated := false
	if !ok {
		vertices, ok = findVertices180(matrix, step)
		rotated = true
	}
	if !ok {
		return nil, fmt.Errorf("pdf417: no guard patterns: %w", zxcore.ErrNotFound)
	}

	moduleWidth := computeModuleWidth(vertices)
	if moduleWidth < 1 {
		return nil, fmt.Errorf("pdf417: module width %.2f: %w", moduleWidth, zxcore.ErrNotFound)
	}

	dimension := computeDimension(
		round(zxcore.Distance(vertices[TopLeftInner], vertices[TopRightInner])/moduleWidth),
		round(zxcore.Distance(vertices[BottomLeftInner], vertices[BottomRightInner])/moduleWidth))
	if dimension < symbol.ModulesInCodeword {
		return nil, fmt.Errorf("pdf417: dimension %d: %w", dimension, zxcore.ErrNotFound)
	}
	rowDimension := computeRowDimension(vertices, moduleWidth)
	if rowDimension < 1 {
		return nil, fmt.Errorf("pdf417: row dimension %d: %w", rowDimension, zxcore.ErrNotFound)
	}

	// Unlike QR finder patterns, guard edges are module corners, not centers.
	area := transform.Quad{
		vertices[TopLeftInner],
		vertices[TopRightInner],
		vertices[BottomRightInner],
		vertices[BottomLeftInner],
	}
	sampler := transform.DefaultGridSampler{}
	bits, err := transform.SampleQuad(sampler, matrix, dimension, dimension,
		transform.Rect(float64(dimension), float64(dimension)), area)
	if err != nil {
		return nil, err
	}
	linesX, linesY := dimension*samplesPerModule, rowDimension*linesPerModule
	lines, err := transform.SampleQuad(sampler, matrix, linesX, linesY,
		transform.Rect(float64(linesX), float64(linesY)), area)
	if err != nil {
		return nil, err
	}

	return &Result{
		DetectorResult: internal.DetectorResult{Bits: bits, Points: vertices[:]},
		Vertices:       vertices,
		ModuleWidth:    moduleWidth,
		Dimension:      dimension,
		RowDimension:   rowDimension,
		Lines:          lines,
		Rotated:        rotated,
	}, nil
}

// guardHit is one row's match of a guard pattern: outer is the symbol edge,
// inner the codeword-area edge.
type guardHit struct {
	row, outer, inner int
}

type guardFinder func(y int) (outer, inner int, ok bool)

// findVertices locates the corners of the symbol and of its codeword area
// using the start and stop patterns. The start pattern must begin in the left
// quarter of a row and the stop pattern must end in the right quarter.
func findVertices(matrix *bitutil.BitMatrix, step int) ([8]zxcore.ResultPoint, bool) {
	var v [8]zxcore.ResultPoint
	width, height := matrix.Width(), matrix.Height()

	startCounters := make([]int, len(startPattern))
	start := func(y int) (int, int, bool) {
		s, e, ok := findGuardPattern(matrix, y, false, startPattern[:], startCounters)
		if !ok || s >= width/4 {
			return 0, 0, false
		}
		return s, e, true
	}
	stopCounters := make([]int, len(stopPatternReverse))
	stop := func(y int) (int, int, bool) {
		s, e, ok := findGuardPattern(matrix, y, true, stopPatternReverse[:], stopCounters)
		if !ok || s >= width/4 {
			return 0, 0, false
		}
		return width - s, width - e, true
	}

	top, ok := firstRow(height, step, start)
	if !ok {
		return v, false
	}
	bottom, _ := lastRow(height, step, start)
	topStop, ok := firstRow(height, step, stop)
	if !ok {
		return v, false
	}
	bottomStop, _ := lastRow(height, step, stop)

	v[TopLeft] = point(top.outer, top.row)
	v[TopLeftInner] = point(top.inner, top.row)
	v[BottomLeft] = point(bottom.outer, bottom.row+1)
	v[BottomLeftInner] = point(bottom.inner, bottom.row+1)
	v[TopRight] = point(topStop.outer, topStop.row)
	v[TopRightInner] = point(topStop.inner, topStop.row)
	v[BottomRight] = point(bottomStop.outer, bottomStop.row+1)
	v[BottomRightInner] = point(bottomStop.inner, bottomStop.row+1)
	return v, true
}

// findVertices180 runs the vertex search on the point reflection of matrix
// and maps the vertices back into matrix coordinates. They keep their
// meaning in the symbol's own frame, so TopLeft ends up bottom right.
func findVertices180(matrix *bitutil.BitMatrix, step int) ([8]zxcore.ResultPoint, bool) {
	v, ok := findVertices(matrix.Rotate180(), step)
	if !ok {
		return v, false
	}
	w, h := float64(matrix.Width()), float64(matrix.Height())
	for i, p := range v {
		v[i] = zxcore.ResultPoint{X: w - p.X, Y: h - p.Y}
	}
	return v, true
}

// firstRow scans down from the top every step rows, then walks back up to the
// first row that still matches.
func firstRow(height, step int, find guardFinder) (guardHit, bool) {
	for y := 0; y < height; y += step {
		outer, inner, ok := find(y)
		if !ok {
			continue
		}
		hit := guardHit{row: y, outer: outer, inner: inner}
		for hit.row > 0 {
			o, i, ok := find(hit.row - 1)
			if !ok {
				break
			}
			hit = guardHit{row: hit.row - 1, outer: o, inner: i}
		}
		return hit, true
	}
	return guardHit{}, false
}

// lastRow is firstRow from the bottom.
func lastRow(height, step int, find guardFinder) (guardHit, bool) {
	for y := height - 1; y >= 0; y -= step {
		outer, inner, ok := find(y)
		if !ok {
			continue
		}
		hit := guardHit{row: y, outer: outer, inner: inner}
		for hit.row < height-1 {
			o, i, ok := find(hit.row + 1)
			if !ok {
				break
			}
			hit = guardHit{row: hit.row + 1, outer: o, inner: i}
		}
		return hit, true
	}
	return guardHit{}, false
}

func point(x, y int) zxcore.ResultPoint {
	return zxcore.ResultPoint{X: float64(x), Y: float64(y)}
}

// computeModuleWidth estimates module size (pixels in a module) from the
// widths of the start (17 modules) and stop (18 modules) patterns.
func computeModuleWidth(v [8]zxcore.ResultPoint) float64 {
	pixels1 := zxcore.Distance(v[TopLeft], v[TopLeftInner])
	pixels2 := zxcore.Distance(v[BottomLeft], v[BottomLeftInner])
	moduleWidth1 := (pixels1 + pixels2) / (symbol.ModulesInCodeword * 2)
	pixels3 := zxcore.Distance(v[TopRightInner], v[TopRight])
	pixels4 := zxcore.Distance(v[BottomRightInner], v[BottomRight])
	moduleWidth2 := (pixels3 + pixels4) / (symbol.ModulesInStopPattern * 2)
	return (moduleWidth1 + moduleWidth2) / 2
}

// computeDimension averages the top and bottom codeword-area widths, in
// modules, and rounds to the nearest multiple of 17. Averages below 9 round
// to 0; Detect rejects that.
func computeDimension(topRowDimension, bottomRowDimension int) int {
	return ((((topRowDimension + bottomRowDimension) >> 1) + 8) / symbol.ModulesInCodeword) * symbol.ModulesInCodeword
}

// computeRowDimension is the height of the codeword area in modules.
func computeRowDimension(v [8]zxcore.ResultPoint, moduleWidth float64) int {
	left := round(zxcore.Distance(v[TopLeftInner], v[BottomLeftInner]) / moduleWidth)
	right := round(zxcore.Distance(v[TopRightInner], v[BottomRightInner]) / moduleWidth)
	return (left + right) >> 1
}

// round rounds to the nearest int, where x.5 rounds up.
func round(d float64) int {
	if d > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(d + 0.5)
}
