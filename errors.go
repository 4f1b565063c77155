package zxcore

import "errors"

var (
	// ErrNotFound is returned when a barcode is not found in the image.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when a barcode's checksum does not match.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a barcode cannot be decoded due to format issues.
	ErrFormat = errors.New("format error")

	// ErrUnsupported is returned when a luminance source cannot crop or rotate.
	ErrUnsupported = errors.New("operation not supported by this luminance source")
)

// IsDecodeFailure reports whether err is one of the ordinary "could not
// decode" outcomes rather than a caller or I/O error.
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrFormat) || errors.Is(err, ErrChecksum)
}
