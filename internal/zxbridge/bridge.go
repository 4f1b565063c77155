// Package zxbridge runs github.com/makiuchi-d/gozxing readers on our binary
// bitmaps and maps their hints, results and errors to ours.
package zxbridge

import (
	"errors"
	"fmt"

	"github.com/makiuchi-d/gozxing"

	"github.com/ericlevine/zxcore"
)

var formats = map[zxcore.Format]gozxing.BarcodeFormat{
	zxcore.FormatQRCode:          gozxing.BarcodeFormat_QR_CODE,
	zxcore.FormatDataMatrix:      gozxing.BarcodeFormat_DATA_MATRIX,
	zxcore.FormatUPCE:            gozxing.BarcodeFormat_UPC_E,
	zxcore.FormatUPCA:            gozxing.BarcodeFormat_UPC_A,
	zxcore.FormatEAN8:            gozxing.BarcodeFormat_EAN_8,
	zxcore.FormatEAN13:           gozxing.BarcodeFormat_EAN_13,
	zxcore.FormatUPCEANExtension: gozxing.BarcodeFormat_UPC_EAN_EXTENSION,
	zxcore.FormatCode128:         gozxing.BarcodeFormat_CODE_128,
	zxcore.FormatCode39:          gozxing.BarcodeFormat_CODE_39,
	zxcore.FormatCode93:          gozxing.BarcodeFormat_CODE_93,
	zxcore.FormatCodabar:         gozxing.BarcodeFormat_CODABAR,
	zxcore.FormatITF:             gozxing.BarcodeFormat_ITF,
	zxcore.FormatRSS14:           gozxing.BarcodeFormat_RSS_14,
	zxcore.FormatPDF417:          gozxing.BarcodeFormat_PDF_417,
	zxcore.FormatRSSExpanded:     gozxing.BarcodeFormat_RSS_EXPANDED,
}

// Format maps f to its gozxing equivalent.
func Format(f zxcore.Format) (gozxing.BarcodeFormat, bool) {
	bf, ok := formats[f]
	return bf, ok
}

// FromFormat maps a gozxing format back. ok is false for formats this
// module does not name, such as Aztec.
func FromFormat(bf gozxing.BarcodeFormat) (zxcore.Format, bool) {
	for f, b := range formats {
		if b == bf {
			return f, true
		}
	}
	return 0, false
}

// Bitmap renders the black matrix of image as a gray image and wraps it in a
// gozxing bitmap. The image is already thresholded, so gozxing's binarizer
// reproduces it.
func Bitmap(image *zxcore.BinaryBitmap) (*gozxing.BinaryBitmap, error) {
	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}
	source := gozxing.NewLuminanceSourceFromImage(zxcore.BitMatrixToImage(matrix))
	return gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
}

// Hints translates opts. Hints gozxing has no counterpart for are dropped.
func Hints(opts *zxcore.DecodeOptions) map[gozxing.DecodeHintType]interface{} {
	hints := map[gozxing.DecodeHintType]interface{}{}
	if opts == nil {
		return hints
	}
	if len(opts.PossibleFormats) > 0 {
		var possible []gozxing.BarcodeFormat
		for _, f := range opts.PossibleFormats {
			if bf, ok := Format(f); ok {
				possible = append(possible, bf)
			}
		}
		hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = possible
	}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.PureBarcode {
		hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}
	if opts.CharacterSet != "" {
		hints[gozxing.DecodeHintType_CHARACTER_SET] = opts.CharacterSet
	}
	if len(opts.AllowedLengths) > 0 {
		hints[gozxing.DecodeHintType_ALLOWED_LENGTHS] = opts.AllowedLengths
	}
	if opts.AssumeCheckDigit {
		hints[gozxing.DecodeHintType_ASSUME_CODE_39_CHECK_DIGIT] = true
	}
	return hints
}

// Result converts a gozxing result.
func Result(r *gozxing.Result) (*zxcore.Result, error) {
	format, ok := FromFormat(r.GetBarcodeFormat())
	if !ok {
		return nil, fmt.Errorf("gozxing format %v: %w", r.GetBarcodeFormat(), zxcore.ErrNotFound)
	}
	var points []zxcore.ResultPoint
	for _, p := range r.GetResultPoints() {
		points = append(points, zxcore.ResultPoint{X: p.GetX(), Y: p.GetY()})
	}
	result := zxcore.NewResult(r.GetText(), r.GetRawBytes(), points, format)
	for k, v := range r.GetResultMetadata() {
		if key, ok := metadataKey(k); ok {
			result.PutMetadata(key, v)
		}
	}
	return result, nil
}

func metadataKey(k gozxing.ResultMetadataType) (zxcore.ResultMetadataKey, bool) {
	switch k {
	case gozxing.ResultMetadataType_ORIENTATION:
		return zxcore.MetadataOrientation, true
	case gozxing.ResultMetadataType_BYTE_SEGMENTS:
		return zxcore.MetadataByteSegments, true
	case gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL:
		return zxcore.MetadataErrorCorrectionLevel, true
	case gozxing.ResultMetadataType_SYMBOLOGY_IDENTIFIER:
		return zxcore.MetadataSymbologyIdentifier, true
	}
	return 0, false
}

// Err maps a gozxing reader error to the root sentinels. Anything that is
// not a checksum or format failure counts as not found.
func Err(err error) error {
	if err == nil {
		return nil
	}
	var checksum gozxing.ChecksumException
	if errors.As(err, &checksum) {
		return fmt.Errorf("%v: %w", err, zxcore.ErrChecksum)
	}
	var format gozxing.FormatException
	if errors.As(err, &format) {
		return fmt.Errorf("%v: %w", err, zxcore.ErrFormat)
	}
	return fmt.Errorf("%v: %w", err, zxcore.ErrNotFound)
}

// Reader adapts one or more gozxing readers. They are tried in order.
type Reader struct {
	readers []gozxing.Reader
}

// NewReader wraps readers.
func NewReader(readers ...gozxing.Reader) *Reader {
	return &Reader{readers: readers}
}

// Decode implements zxcore.Reader.
func (r *Reader) Decode(image *zxcore.BinaryBitmap, opts *zxcore.DecodeOptions) (*zxcore.Result, error) {
	bitmap, err := Bitmap(image)
	if err != nil {
		return nil, err
	}
	hints := Hints(opts)
	lastErr := error(zxcore.ErrNotFound)
	for _, reader := range r.readers {
		res, err := reader.Decode(bitmap, hints)
		if err != nil {
			lastErr = Err(err)
			continue
		}
		result, err := Result(res)
		if err != nil {
			lastErr = err
			continue
		}
		if !opts.Allows(result.Format) {
			lastErr = fmt.Errorf("%s not requested: %w", result.Format, zxcore.ErrNotFound)
			continue
		}
		for _, p := range result.Points {
			opts.NotifyPoint(p)
		}
		return result, nil
	}
	return nil, lastErr
}

// Reset implements zxcore.Reader.
func (r *Reader) Reset() {
	for _, reader := range r.readers {
		reader.Reset()
	}
}
