package internal

import (
	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
)

// DetectorResult holds the deskewed bits of a located symbol and the points
// that located it in the source image.
type DetectorResult struct {
	Bits   *bitutil.BitMatrix
	Points []zxcore.ResultPoint
}
