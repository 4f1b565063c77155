// Package testutil synthesizes barcode images for tests.
package testutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

const modulus = 929

var (
	startPatternWidths = []int{8, 1, 1, 1, 1, 1, 1, 3}
	stopPatternWidths  = []int{7, 1, 1, 3, 1, 1, 1, 2, 1}
)

// PDF417 is a laid out symbol: Codewords holds the length descriptor, data,
// padding and error correction codewords in reading order.
type PDF417 struct {
	Rows, Columns int
	ECLevel       int
	Codewords     []int
}

// NewPDF417 lays out data codewords in the given number of data columns. The
// row count is the smallest that fits, but at least 3.
func NewPDF417(data []int, columns, ecLevel int) (*PDF417, error) {
	if columns < 1 || columns > 30 {
		return nil, fmt.Errorf("columns %d out of range", columns)
	}
	if ecLevel < 0 || ecLevel > 8 {
		return nil, fmt.Errorf("ec level %d out of range", ecLevel)
	}
	k := 2 << ecLevel
	n := 1 + len(data) + k
	rows := max(3, (n+columns-1)/columns)
	if rows > 90 {
		return nil, fmt.Errorf("%d codewords do not fit in %d columns", n, columns)
	}
	total := rows * columns
	body := make([]int, 0, total)
	body = append(body, total-k)
	body = append(body, data...)
	for len(body) < total-k {
		body = append(body, 900)
	}
	return &PDF417{
		Rows:      rows,
		Columns:   columns,
		ECLevel:   ecLevel,
		Codewords: append(body, ECCodewords(body, ecLevel)...),
	}, nil
}

// ECCodewords computes the Reed-Solomon codewords over GF(929) for data at
// the given level, highest degree first.
func ECCodewords(data []int, ecLevel int) []int {
	k := 2 << ecLevel
	// generator: product of (x - 3^i) for i = 1..k, coefficients descending
	g := []int{1}
	a := 1
	for i := 1; i <= k; i++ {
		a = a * 3 % modulus
		next := make([]int, len(g)+1)
		for j, c := range g {
			next[j] = (next[j] + c) % modulus
			next[j+1] = ((next[j+1]-c*a)%modulus + modulus) % modulus
		}
		g = next
	}

	r := make([]int, len(data)+k)
	copy(r, data)
	for i := range data {
		coef := r[i]
		if coef == 0 {
			continue
		}
		for j := 1; j <= k; j++ {
			r[i+j] = ((r[i+j]-coef*g[j])%modulus + modulus) % modulus
		}
	}
	ec := make([]int, k)
	for i, v := range r[len(data):] {
		ec[i] = (modulus - v) % modulus
	}
	return ec
}

// TextCodewords encodes upper case letters and spaces in text compaction.
func TextCodewords(s string) []int {
	var vals []int
	for _, ch := range s {
		switch {
		case ch == ' ':
			vals = append(vals, 26)
		case ch >= 'A' && ch <= 'Z':
			vals = append(vals, int(ch-'A'))
		default:
			panic(fmt.Sprintf("testutil: %q is not upper case text", ch))
		}
	}
	if len(vals)%2 == 1 {
		vals = append(vals, 29)
	}
	cws := make([]int, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		cws = append(cws, vals[i]*30+vals[i+1])
	}
	return cws
}

// RowCodewords returns the codeword values of row r, row indicators
// included.
func (p *PDF417) RowCodewords(r int) []int {
	base := 30 * (r / 3)
	rowCount := (p.Rows - 1) / 3
	ecRows := p.ECLevel*3 + (p.Rows-1)%3
	var left, right int
	switch r % 3 {
	case 0:
		left, right = base+rowCount, base+p.Columns-1
	case 1:
		left, right = base+ecRows, base+rowCount
	default:
		left, right = base+p.Columns-1, base+ecRows
	}
	row := make([]int, 0, p.Columns+2)
	row = append(row, left)
	row = append(row, p.Codewords[r*p.Columns:(r+1)*p.Columns]...)
	return append(row, right)
}

// Grid returns the bar patterns of every row, row indicators included.
func (p *PDF417) Grid(table *symbol.Table) [][]int {
	grid := make([][]int, p.Rows)
	for r := range grid {
		cluster := symbol.Clusters[r%3]
		for _, cw := range p.RowCodewords(r) {
			grid[r] = append(grid[r], table.Pattern(cluster, cw))
		}
	}
	return grid
}

// Width returns the symbol width in modules, without quiet zone.
func (p *PDF417) Width() int {
	return 17 + (p.Columns+2)*symbol.ModulesInCodeword + symbol.ModulesInStopPattern
}

// BitMatrix draws the symbol with moduleWidth pixels per module, rowHeight
// modules per row and a quiet zone of quiet modules on every side.
func (p *PDF417) BitMatrix(table *symbol.Table, moduleWidth, rowHeight, quiet int) *bitutil.BitMatrix {
	width := (p.Width() + 2*quiet) * moduleWidth
	height := (p.Rows*rowHeight + 2*quiet) * moduleWidth
	bits := bitutil.NewBitMatrix(width, height)
	for r, row := range p.Grid(table) {
		top := (quiet + r*rowHeight) * moduleWidth
		x := quiet
		drawBar := func(modules int) {
			bits.SetRegion(x*moduleWidth, top, modules*moduleWidth, rowHeight*moduleWidth)
		}
		for i, w := range startPatternWidths {
			if i%2 == 0 {
				drawBar(w)
			}
			x += w
		}
		for _, pattern := range row {
			for k := symbol.ModulesInCodeword - 1; k >= 0; k-- {
				if pattern&(1<<k) != 0 {
					drawBar(1)
				}
				x++
			}
		}
		for i, w := range stopPatternWidths {
			if i%2 == 0 {
				drawBar(w)
			}
			x += w
		}
	}
	return bits
}

// Image renders bits black on white.
func Image(bits *bitutil.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, bits.Width(), bits.Height()))
	for y := 0; y < bits.Height(); y++ {
		for x := 0; x < bits.Width(); x++ {
			c := color.Gray{Y: 0xff}
			if bits.Get(x, y) {
				c.Y = 0
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

// LinesMatrix renders the codeword area the way the detector oversamples it:
// 8 pixels per module and linesPerRow scan lines per row.
func LinesMatrix(grid [][]int, linesPerRow int) *bitutil.BitMatrix {
	columns := len(grid[0])
	bits := bitutil.NewBitMatrix(columns*symbol.ModulesInCodeword*8, len(grid)*linesPerRow)
	for r, row := range grid {
		for c, pattern := range row {
			for k := 0; k < symbol.ModulesInCodeword; k++ {
				if pattern&(1<<(symbol.ModulesInCodeword-1-k)) != 0 {
					bits.SetRegion((c*symbol.ModulesInCodeword+k)*8, r*linesPerRow, 8, linesPerRow)
				}
			}
		}
	}
	return bits
}
