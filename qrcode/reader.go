// Package qrcode reads QR codes through the gozxing QR reader.
package qrcode

import (
	gzqrcode "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/ericlevine/zxcore/internal/zxbridge"
)

// Reader decodes QR codes.
type Reader struct {
	*zxbridge.Reader
}

// NewReader returns a QR code reader.
func NewReader() *Reader {
	return &Reader{zxbridge.NewReader(gzqrcode.NewQRCodeReader())}
}
