package zxcore

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ImageLuminanceSource is a LuminanceSource over a Go image.Image. Pixels are
// converted to luminance once, at construction; crops share that buffer.
type ImageLuminanceSource struct {
	luminances []byte
	dataWidth  int
	left       int
	top        int
	width      int
	height     int
}

// NewImageLuminanceSource converts img to luminance with
// (306*R + 601*G + 117*B + 0x200) >> 10 on 8-bit components. Fully
// transparent pixels become white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	if g, ok := img.(*image.Gray); ok {
		return NewGrayImageLuminanceSource(g)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return newImageSource(luminances, w, h)
}

// NewGrayImageLuminanceSource copies the pixels of a *image.Gray as-is.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(luminances[y*w:], img.Pix[off:off+w])
	}
	return newImageSource(luminances, w, h)
}

func newImageSource(luminances []byte, w, h int) *ImageLuminanceSource {
	return &ImageLuminanceSource{luminances: luminances, dataWidth: w, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		panic(fmt.Sprintf("requested row is outside the image: %d", y))
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := (y+s.top)*s.dataWidth + s.left
	copy(row, s.luminances[offset:offset+s.width])
	return row[:s.width]
}

// Matrix returns the entire luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	if s.left == 0 && s.top == 0 && s.width == s.dataWidth {
		return s.luminances[:s.width*s.height]
	}
	out := make([]byte, s.width*s.height)
	for y := 0; y < s.height; y++ {
		s.Row(y, out[y*s.width:(y+1)*s.width])
	}
	return out
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int { return s.width }

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int { return s.height }

func (s *ImageLuminanceSource) IsCropSupported() bool { return true }

// Crop returns a view of the given rectangle, relative to this view.
func (s *ImageLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > s.width || top+height > s.height {
		return nil, fmt.Errorf("crop rectangle %d,%d %dx%d does not fit inside %dx%d",
			left, top, width, height, s.width, s.height)
	}
	return &ImageLuminanceSource{
		luminances: s.luminances,
		dataWidth:  s.dataWidth,
		left:       s.left + left,
		top:        s.top + top,
		width:      width,
		height:     height,
	}, nil
}

func (s *ImageLuminanceSource) IsRotateSupported() bool { return true }

// RotateCounterClockwise returns a new source turned 90 degrees
// counterclockwise. 1D readers use it to read vertical barcodes.
func (s *ImageLuminanceSource) RotateCounterClockwise() (LuminanceSource, error) {
	return NewImageLuminanceSource(imaging.Rotate90(s.Image())), nil
}

// RotateCounterClockwise45 returns a new source turned 45 degrees
// counterclockwise about its center. The canvas grows to hold the whole
// rotated image and the uncovered corners are white.
func (s *ImageLuminanceSource) RotateCounterClockwise45() (LuminanceSource, error) {
	return NewImageLuminanceSource(imaging.Rotate(s.Image(), 45, color.White)), nil
}

// Image renders the view as an *image.Gray.
func (s *ImageLuminanceSource) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		s.Row(y, img.Pix[y*img.Stride:y*img.Stride+s.width])
	}
	return img
}

// BitMatrixToImage converts a BitMatrix to a grayscale image where black
// modules are black (0) and white modules are white (255).
func BitMatrixToImage(matrix interface {
	Width() int
	Height() int
	Get(x, y int) bool
}) *image.Gray {
	w, h := matrix.Width(), matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
