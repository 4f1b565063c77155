package zxcore

import "github.com/ericlevine/zxcore/bitutil"

// BinaryBitmap is the thresholded view of an image that readers work on. The
// full black matrix is computed on first use and cached; a BinaryBitmap must
// not be shared between goroutines.
type BinaryBitmap struct {
	binarizer Binarizer
	matrix    *bitutil.BitMatrix
}

// NewBinaryBitmap creates a new BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// Binarizer returns the thresholding strategy behind the bitmap.
func (b *BinaryBitmap) Binarizer() Binarizer {
	return b.binarizer
}

// BlackRow returns a row of black/white values.
func (b *BinaryBitmap) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	return b.binarizer.BlackRow(y, row)
}

// BlackMatrix returns the 2D matrix of black/white values. The result is
// shared: callers must not modify it.
func (b *BinaryBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		return nil, err
	}
	b.matrix = m
	return m, nil
}

// IsCropSupported reports whether Crop can succeed.
func (b *BinaryBitmap) IsCropSupported() bool {
	return b.binarizer.LuminanceSource().IsCropSupported()
}

// Crop returns a new bitmap over a sub-rectangle of the image. It gets its
// own binarizer, so no cached state is shared with b.
func (b *BinaryBitmap) Crop(left, top, width, height int) (*BinaryBitmap, error) {
	src := b.binarizer.LuminanceSource()
	if !src.IsCropSupported() {
		return nil, ErrUnsupported
	}
	c, err := src.Crop(left, top, width, height)
	if err != nil {
		return nil, err
	}
	return NewBinaryBitmap(b.binarizer.CreateBinarizer(c)), nil
}

// IsRotateSupported reports whether the rotations can succeed.
func (b *BinaryBitmap) IsRotateSupported() bool {
	return b.binarizer.LuminanceSource().IsRotateSupported()
}

// RotateCounterClockwise returns a new bitmap turned 90 degrees.
func (b *BinaryBitmap) RotateCounterClockwise() (*BinaryBitmap, error) {
	return b.rotate(LuminanceSource.RotateCounterClockwise)
}

// RotateCounterClockwise45 returns a new bitmap turned 45 degrees.
func (b *BinaryBitmap) RotateCounterClockwise45() (*BinaryBitmap, error) {
	return b.rotate(LuminanceSource.RotateCounterClockwise45)
}

func (b *BinaryBitmap) rotate(fn func(LuminanceSource) (LuminanceSource, error)) (*BinaryBitmap, error) {
	src := b.binarizer.LuminanceSource()
	if !src.IsRotateSupported() {
		return nil, ErrUnsupported
	}
	r, err := fn(src)
	if err != nil {
		return nil, err
	}
	return NewBinaryBitmap(b.binarizer.CreateBinarizer(r)), nil
}

// Inverted returns a new bitmap over the inverted luminance of b.
func (b *BinaryBitmap) Inverted() *BinaryBitmap {
	src := NewInvertedLuminanceSource(b.binarizer.LuminanceSource())
	return NewBinaryBitmap(b.binarizer.CreateBinarizer(src))
}
