// Package pdf417 reads PDF417 symbols: it chains the detector, the lines
// sampler and a GridDecoder, and registers itself with the root dispatcher.
package pdf417

import (
	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/pdf417/detector"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// Reader decodes PDF417 barcodes from binary images.
type Reader struct {
	table   *symbol.Table
	decoder GridDecoder
}

// Option configures a Reader.
type Option func(*Reader)

// WithSymbolTable reads codewords with t instead of symbol.Enumerated.
func WithSymbolTable(t *symbol.Table) Option {
	return func(r *Reader) { r.table = t }
}

// WithGridDecoder replaces the default CodewordDecoder.
func WithGridDecoder(d GridDecoder) Option {
	return func(r *Reader) { r.decoder = d }
}

// NewReader creates a PDF417 reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.table == nil {
		r.table = symbol.Enumerated()
	}
	if r.decoder == nil {
		r.decoder = NewCodewordDecoder(r.table)
	}
	return r
}

// Decode locates and decodes a PDF417 barcode in the given image. The result
// points are the eight detector vertices.
func (r *Reader) Decode(image *zxcore.BinaryBitmap, opts *zxcore.DecodeOptions) (*zxcore.Result, error) {
	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}
	det, err := detector.Detect(matrix, opts)
	if err != nil {
		return nil, err
	}
	for _, p := range det.Vertices {
		opts.NotifyPoint(p)
	}

	grid, err := detector.NewLinesSampler(det.Lines, det.Dimension, r.table).Sample()
	if err != nil {
		return nil, err
	}
	result, err := r.decoder.DecodeGrid(grid, opts)
	if err != nil {
		return nil, err
	}
	result.AddResultPoints(det.Vertices[:])
	if det.Rotated {
		result.PutMetadata(zxcore.MetadataOrientation, 180)
	}
	return result, nil
}

// Reset is a no-op; a Reader keeps no state between decodes.
func (r *Reader) Reset() {}
