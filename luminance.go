package zxcore

import "github.com/ericlevine/zxcore/bitutil"

// LuminanceSource provides read-only access to greyscale luminance values
// (0 is black, 255 is white) for a rectangular region of an image. Crop and
// rotation return new sources; a source is never modified after creation.
type LuminanceSource interface {
	// Row returns row y, which has Width() bytes. If row is non-nil and large
	// enough, it is reused.
	Row(y int, row []byte) []byte

	// Matrix returns the whole region, row-major, Width()*Height() bytes.
	// Callers must not modify it.
	Matrix() []byte

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int

	// IsCropSupported reports whether Crop can succeed.
	IsCropSupported() bool

	// Crop returns a view of the given sub-rectangle.
	Crop(left, top, width, height int) (LuminanceSource, error)

	// IsRotateSupported reports whether the rotations can succeed.
	IsRotateSupported() bool

	// RotateCounterClockwise returns the source turned 90 degrees.
	RotateCounterClockwise() (LuminanceSource, error)

	// RotateCounterClockwise45 returns the source turned 45 degrees.
	RotateCounterClockwise45() (LuminanceSource, error)
}

// Binarizer converts luminance data to 1-bit black/white data.
type Binarizer interface {
	// BlackRow returns a row of black/white values.
	BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error)

	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	// CreateBinarizer returns a fresh binarizer of the same kind over source.
	CreateBinarizer(source LuminanceSource) Binarizer

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}

// InvertedLuminanceSource inverts every luminance value of its delegate, so
// white-on-black symbols can be read as black-on-white.
type InvertedLuminanceSource struct {
	delegate LuminanceSource
}

// NewInvertedLuminanceSource wraps delegate.
func NewInvertedLuminanceSource(delegate LuminanceSource) *InvertedLuminanceSource {
	return &InvertedLuminanceSource{delegate: delegate}
}

func (s *InvertedLuminanceSource) Row(y int, row []byte) []byte {
	row = s.delegate.Row(y, row)
	for i := 0; i < s.Width(); i++ {
		row[i] = 255 - row[i]
	}
	return row
}

func (s *InvertedLuminanceSource) Matrix() []byte {
	src := s.delegate.Matrix()
	out := make([]byte, len(src))
	for i, v := range src {
		out[i] = 255 - v
	}
	return out
}

func (s *InvertedLuminanceSource) Width() int  { return s.delegate.Width() }
func (s *InvertedLuminanceSource) Height() int { return s.delegate.Height() }

func (s *InvertedLuminanceSource) IsCropSupported() bool { return s.delegate.IsCropSupported() }

func (s *InvertedLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	c, err := s.delegate.Crop(left, top, width, height)
	if err != nil {
		return nil, err
	}
	return NewInvertedLuminanceSource(c), nil
}

func (s *InvertedLuminanceSource) IsRotateSupported() bool { return s.delegate.IsRotateSupported() }

func (s *InvertedLuminanceSource) RotateCounterClockwise() (LuminanceSource, error) {
	r, err := s.delegate.RotateCounterClockwise()
	if err != nil {
		return nil, err
	}
	return NewInvertedLuminanceSource(r), nil
}

func (s *InvertedLuminanceSource) RotateCounterClockwise45() (LuminanceSource, error) {
	r, err := s.delegate.RotateCounterClockwise45()
	if err != nil {
		return nil, err
	}
	return NewInvertedLuminanceSource(r), nil
}
