// Package oned reads linear barcodes. Row decoding is delegated to the
// gozxing 1D readers.
package oned

import (
	"github.com/makiuchi-d/gozxing"
	gzoned "github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/oned/rss"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/internal/zxbridge"
)

// candidates lists the composite's readers in the order they are tried.
var candidates = []struct {
	format zxcore.Format
	reader func(opts *zxcore.DecodeOptions) gozxing.Reader
}{
	{zxcore.FormatCode128, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewCode128Reader() }},
	{zxcore.FormatCode39, func(opts *zxcore.DecodeOptions) gozxing.Reader {
		return gzoned.NewCode39ReaderWithCheckDigitFlag(opts != nil && opts.AssumeCheckDigit)
	}},
	{zxcore.FormatCode93, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewCode93Reader() }},
	{zxcore.FormatEAN13, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewEAN13Reader() }},
	{zxcore.FormatEAN8, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewEAN8Reader() }},
	{zxcore.FormatUPCA, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewUPCAReader() }},
	{zxcore.FormatUPCE, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewUPCEReader() }},
	{zxcore.FormatITF, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewITFReader() }},
	{zxcore.FormatCodabar, func(*zxcore.DecodeOptions) gozxing.Reader { return gzoned.NewCodaBarReader() }},
	{zxcore.FormatRSS14, func(*zxcore.DecodeOptions) gozxing.Reader { return rss.NewRSS14Reader() }},
}

// Formats lists the 1D formats the composite reader can return. RSS_EXPANDED
// is not among them: gozxing has no reader for it.
func Formats() []zxcore.Format {
	var out []zxcore.Format
	for _, c := range candidates {
		out = append(out, c.format)
	}
	return out
}

// Reader is the 1D composite: it tries one gozxing row reader per format.
type Reader struct {
	*zxbridge.Reader
}

// NewReader returns the composite for the formats opts allows.
func NewReader(opts *zxcore.DecodeOptions) *Reader {
	var readers []gozxing.Reader
	for _, c := range candidates {
		if opts.Allows(c.format) {
			readers = append(readers, c.reader(opts))
		}
	}
	return &Reader{zxbridge.NewReader(readers...)}
}
