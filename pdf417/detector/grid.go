package detector

import (
	"strings"

	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// CodewordGrid holds one 17-bit symbol pattern per row and column of a
// PDF417 symbol, row indicators included. A cell of 0 is missing.
type CodewordGrid struct {
	rows, columns int
	cells         []int
	// ECLevel is the error correction level read from the row indicators,
	// or -1 when they could not be read.
	ECLevel int
}

// NewCodewordGrid returns an empty rows×columns grid.
func NewCodewordGrid(rows, columns int) *CodewordGrid {
	return &CodewordGrid{
		rows:    rows,
		columns: columns,
		cells:   make([]int, rows*columns),
		ECLevel: -1,
	}
}

// Rows returns the number of rows.
func (g *CodewordGrid) Rows() int { return g.rows }

// Columns returns the number of columns.
func (g *CodewordGrid) Columns() int { return g.columns }

// At returns the pattern at row r, column c.
func (g *CodewordGrid) At(r, c int) int { return g.cells[r*g.columns+c] }

// Set stores pattern p at row r, column c.
func (g *CodewordGrid) Set(r, c, p int) { g.cells[r*g.columns+c] = p }

// Row returns row r. The slice aliases the grid.
func (g *CodewordGrid) Row(r int) []int {
	return g.cells[r*g.columns : (r+1)*g.columns]
}

// RowCluster returns the cluster of the leftmost pattern in row r, or -1 for
// an empty row.
func (g *CodewordGrid) RowCluster(r int) int {
	for _, p := range g.Row(r) {
		if c := symbol.ClusterNumber(p); c != -1 {
			return c
		}
	}
	return -1
}

// InsertRows splices n empty rows in before row at. at may equal Rows().
func (g *CodewordGrid) InsertRows(at, n int) {
	if n <= 0 {
		return
	}
	blank := make([]int, n*g.columns)
	i := at * g.columns
	g.cells = append(g.cells[:i], append(blank, g.cells[i:]...)...)
	g.rows += n
}

// Resize truncates the grid or pads it with empty rows at the bottom.
func (g *CodewordGrid) Resize(rows int) {
	if rows < g.rows {
		g.cells = g.cells[:rows*g.columns]
		g.rows = rows
		return
	}
	g.InsertRows(g.rows, rows-g.rows)
}

// BitMatrix renders the grid one module per cell, one row per codeword row.
func (g *CodewordGrid) BitMatrix() *bitutil.BitMatrix {
	bits := bitutil.NewBitMatrix(max(g.columns*symbol.ModulesInCodeword, 1), max(g.rows, 1))
	for r := 0; r < g.rows; r++ {
		for c, p := range g.Row(r) {
			offset := c * symbol.ModulesInCodeword
			for k := 0; k < symbol.ModulesInCodeword; k++ {
				if p&(1<<(symbol.ModulesInCodeword-k-1)) != 0 {
					bits.Set(offset+k, r)
				}
			}
		}
	}
	return bits
}

// String prints each row's patterns as width strings, "--------" for missing
// cells.
func (g *CodewordGrid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c, p := range g.Row(r) {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if p == 0 {
				sb.WriteString("--------")
			} else {
				sb.WriteString(symbol.FormatWidths(p))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
