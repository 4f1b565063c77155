// Package zxcore locates and samples barcodes in grayscale images. It holds the
// luminance sources, the binary bitmap, the result types and the
// multi-format dispatcher; format readers live in subpackages and register
// themselves on import.
package zxcore

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Format represents a barcode format.
type Format int

const (
	FormatQRCode Format = iota
	FormatDataMatrix
	FormatUPCE
	FormatUPCA
	FormatEAN8
	FormatEAN13
	FormatUPCEANExtension
	FormatCode128
	FormatCode39
	FormatCode93
	FormatCodabar
	FormatITF
	FormatRSS14
	FormatPDF417
	FormatRSSExpanded
)

var formatNames = [...]string{
	FormatQRCode:          "QR_CODE",
	FormatDataMatrix:      "DATA_MATRIX",
	FormatUPCE:            "UPC_E",
	FormatUPCA:            "UPC_A",
	FormatEAN8:            "EAN_8",
	FormatEAN13:           "EAN_13",
	FormatUPCEANExtension: "UPC_EAN_EXTENSION",
	FormatCode128:         "CODE_128",
	FormatCode39:          "CODE_39",
	FormatCode93:          "CODE_93",
	FormatCodabar:         "CODABAR",
	FormatITF:             "ITF",
	FormatRSS14:           "RSS_14",
	FormatPDF417:          "PDF_417",
	FormatRSSExpanded:     "RSS_EXPANDED",
}

// AllFormats lists every format in declaration order.
func AllFormats() []Format {
	out := make([]Format, len(formatNames))
	for i := range formatNames {
		out[i] = Format(i)
	}
	return out
}

// String returns the name of the barcode format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "UNKNOWN"
	}
	return formatNames[f]
}

// IsOneD reports whether f is a linear (1D) symbology.
func (f Format) IsOneD() bool {
	switch f {
	case FormatUPCE, FormatUPCA, FormatEAN8, FormatEAN13, FormatUPCEANExtension,
		FormatCode128, FormatCode39, FormatCode93, FormatCodabar, FormatITF,
		FormatRSS14, FormatRSSExpanded:
		return true
	}
	return false
}

// ParseFormat maps a format name such as "PDF_417" back to its Format. Case
// and the underscore before digits are not significant, so "pdf417" also
// parses.
func ParseFormat(name string) (Format, error) {
	want := normalizeFormatName(name)
	for i, n := range formatNames {
		if normalizeFormatName(n) == want {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown barcode format %q", name)
}

// ParseFormats parses a list of names with ParseFormat.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func normalizeFormatName(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.ToUpper(s), "_", ""), "-", "")
}

// ResultMetadataKey identifies a type of metadata about a barcode result.
type ResultMetadataKey int

const (
	MetadataOther ResultMetadataKey = iota
	MetadataOrientation
	MetadataByteSegments
	MetadataErrorCorrectionLevel
	MetadataErrorsCorrected
	MetadataErasuresCorrected
	MetadataPDF417ExtraMetadata
	MetadataSymbologyIdentifier
)

func (k ResultMetadataKey) String() string {
	switch k {
	case MetadataOrientation:
		return "ORIENTATION"
	case MetadataByteSegments:
		return "BYTE_SEGMENTS"
	case MetadataErrorCorrectionLevel:
		return "ERROR_CORRECTION_LEVEL"
	case MetadataErrorsCorrected:
		return "ERRORS_CORRECTED"
	case MetadataErasuresCorrected:
		return "ERASURES_CORRECTED"
	case MetadataPDF417ExtraMetadata:
		return "PDF417_EXTRA_METADATA"
	case MetadataSymbologyIdentifier:
		return "SYMBOLOGY_IDENTIFIER"
	default:
		return "OTHER"
	}
}

// ResultPoint is a point of interest in an image, such as a guard pattern
// corner. It is compared by value.
type ResultPoint struct {
	X, Y float64
}

func (p ResultPoint) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Result encapsulates the result of decoding a barcode.
type Result struct {
	Text      string
	RawBytes  []byte
	NumBits   int
	Points    []ResultPoint
	Format    Format
	Metadata  map[ResultMetadataKey]any
	Timestamp time.Time
}

// NewResult creates a new Result with the given text, format, and points.
func NewResult(text string, rawBytes []byte, points []ResultPoint, format Format) *Result {
	return &Result{
		Text:      text,
		RawBytes:  rawBytes,
		NumBits:   8 * len(rawBytes),
		Points:    points,
		Format:    format,
		Metadata:  make(map[ResultMetadataKey]any),
		Timestamp: time.Now(),
	}
}

// PutMetadata adds a metadata key/value pair.
func (r *Result) PutMetadata(key ResultMetadataKey, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[ResultMetadataKey]any)
	}
	r.Metadata[key] = value
}

// AddResultPoints appends additional result points.
func (r *Result) AddResultPoints(points []ResultPoint) {
	r.Points = append(r.Points, points...)
}

// TimestampMillis returns the decode time in milliseconds since the Unix epoch.
func (r *Result) TimestampMillis() int64 {
	return r.Timestamp.UnixMilli()
}

func (r *Result) String() string {
	if r.Text == "" && len(r.RawBytes) > 0 {
		return fmt.Sprintf("[%d bytes]", len(r.RawBytes))
	}
	return r.Text
}
