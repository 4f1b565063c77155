// Package detector implements PDF417 barcode detection in binary images and
// the recovery of codeword grids from the sampled symbol.
package detector

import (
	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/internal"
)

// Result is a located PDF417 symbol. Bits is the codeword area sampled one
// cell per module into a Dimension×Dimension square; Lines is the same area
// oversampled for the LinesSampler. Points lists the eight Vertices.
type Result struct {
	internal.DetectorResult

	Vertices     [8]zxcore.ResultPoint
	ModuleWidth  float64
	Dimension    int
	RowDimension int
	Lines        *bitutil.BitMatrix
	// Rotated is set when the symbol was found upside down.
	Rotated bool
}
