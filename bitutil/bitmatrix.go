package bitutil

import (
	"fmt"
	"strings"
)

// BitMatrix is a width×height grid of bits, row-major, each row padded to a
// whole number of uint32 words. x is the column and y the row; the origin is
// the top-left corner. Set bits are black.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a cleared matrix. Both dimensions must be positive.
func NewBitMatrix(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// ParseBitMatrix builds a matrix from rows of text in which set marks a black
// cell and any other byte a white one. Blank lines are ignored and every row
// must have the same length.
func ParseBitMatrix(repr string, set byte) (*BitMatrix, error) {
	var rows []string
	for _, line := range strings.Split(repr, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if len(rows) > 0 && len(line) != len(rows[0]) {
			return nil, fmt.Errorf("bitmatrix: row %d has %d cells, want %d", len(rows), len(line), len(rows[0]))
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("bitmatrix: empty representation")
	}
	m := NewBitMatrix(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == set {
				m.Set(x, y)
			}
		}
	}
	return m, nil
}

// Get reports whether (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets (x, y).
func (bm *BitMatrix) Set(x, y int) {
	bm.data[y*bm.rowSize+x/32] |= 1 << uint(x&0x1f)
}

// Unset clears (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	bm.data[y*bm.rowSize+x/32] &^= 1 << uint(x&0x1f)
}

// SetRegion sets every bit of the given rectangle, which must lie inside the
// matrix.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > bm.width || top+height > bm.height {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			bm.Set(x, y)
		}
	}
}

// Row copies row y into row, allocating a new BitArray when row is nil or too
// small.
func (bm *BitMatrix) Row(y int, row *BitArray) *BitArray {
	if row == nil || row.Size() < bm.width {
		row = NewBitArray(bm.width)
	} else {
		row.Clear()
	}
	offset := y * bm.rowSize
	for x := 0; x < bm.rowSize; x++ {
		row.SetWord(x*32, bm.data[offset+x])
	}
	return row
}

// IsColumnSet reports whether every bit of column x is set.
func (bm *BitMatrix) IsColumnSet(x int) bool {
	for y := 0; y < bm.height; y++ {
		if !bm.Get(x, y) {
			return false
		}
	}
	return true
}

// Rotate180 returns a new matrix that is the point reflection of bm.
func (bm *BitMatrix) Rotate180() *BitMatrix {
	out := NewBitMatrix(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				out.Set(bm.width-1-x, bm.height-1-y)
			}
		}
	}
	return out
}

// Width returns the number of columns.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the number of rows.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy.
func (bm *BitMatrix) Clone() *BitMatrix {
	return &BitMatrix{
		width:   bm.width,
		height:  bm.height,
		rowSize: bm.rowSize,
		data:    append([]uint32(nil), bm.data...),
	}
}

// Equal reports whether both matrices have the same size and bits.
func (bm *BitMatrix) Equal(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// String renders the matrix with "X" for set and "." for unset cells, one line
// per row.
func (bm *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
