// Package datamatrix reads Data Matrix symbols through the gozxing reader.
package datamatrix

import (
	gzdatamatrix "github.com/makiuchi-d/gozxing/datamatrix"

	"github.com/ericlevine/zxcore/internal/zxbridge"
)

// Reader decodes Data Matrix symbols.
type Reader struct {
	*zxbridge.Reader
}

// NewReader returns a Data Matrix reader.
func NewReader() *Reader {
	return &Reader{zxbridge.NewReader(gzdatamatrix.NewDataMatrixReader())}
}
