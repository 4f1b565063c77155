// Package internal provides shared result types used across barcode format packages.
package internal

// DecoderResult encapsulates the result of decoding a codeword stream.
type DecoderResult struct {
	RawBytes          []byte
	NumBits           int
	Text              string
	ByteSegments      [][]byte
	ECLevel           string
	ErrorsCorrected   int
	Erasures          int
	Other             any
	SymbologyModifier int
}

// NewDecoderResult creates a DecoderResult with the basic fields.
func NewDecoderResult(rawBytes []byte, text string, byteSegments [][]byte, ecLevel string) *DecoderResult {
	return &DecoderResult{
		RawBytes:     rawBytes,
		NumBits:      8 * len(rawBytes),
		Text:         text,
		ByteSegments: byteSegments,
		ECLevel:      ecLevel,
	}
}
