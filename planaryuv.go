package zxcore

import (
	"fmt"
	"image"
)

const thumbnailScaleFactor = 2

// PlanarYUVLuminanceSource reads the Y plane of a planar YUV camera frame
// (NV21, YV12 and similar), optionally restricted to a crop rectangle. The
// luminance is the Y channel itself, so no conversion is needed.
type PlanarYUVLuminanceSource struct {
	yuvData    []byte
	dataWidth  int
	dataHeight int
	left       int
	top        int
	width      int
	height     int
}

// NewPlanarYUVLuminanceSource wraps a frame of dataWidth×dataHeight and
// exposes the rectangle at (left, top) of size width×height. With
// reverseHorizontal the frame is mirrored, as front cameras deliver it; the
// mirrored copy is made here and yuvData is left untouched.
func NewPlanarYUVLuminanceSource(yuvData []byte, dataWidth, dataHeight, left, top, width, height int, reverseHorizontal bool) (*PlanarYUVLuminanceSource, error) {
	if left < 0 || top < 0 || width < 1 || height < 1 ||
		left+width > dataWidth || top+height > dataHeight {
		return nil, fmt.Errorf("crop rectangle does not fit within image data")
	}
	if len(yuvData) < dataWidth*dataHeight {
		return nil, fmt.Errorf("yuv data has %d bytes, need at least %d", len(yuvData), dataWidth*dataHeight)
	}
	s := &PlanarYUVLuminanceSource{
		yuvData:    yuvData,
		dataWidth:  dataWidth,
		dataHeight: dataHeight,
		left:       left,
		top:        top,
		width:      width,
		height:     height,
	}
	if reverseHorizontal {
		s.yuvData = append([]byte(nil), yuvData[:dataWidth*dataHeight]...)
		s.reverseHorizontal()
	}
	return s, nil
}

func (s *PlanarYUVLuminanceSource) reverseHorizontal() {
	for y := 0; y < s.height; y++ {
		row := s.yuvData[(y+s.top)*s.dataWidth+s.left:]
		for x1, x2 := 0, s.width-1; x1 < x2; x1, x2 = x1+1, x2-1 {
			row[x1], row[x2] = row[x2], row[x1]
		}
	}
}

func (s *PlanarYUVLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		panic(fmt.Sprintf("requested row is outside the image: %d", y))
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := (y+s.top)*s.dataWidth + s.left
	copy(row, s.yuvData[offset:offset+s.width])
	return row[:s.width]
}

func (s *PlanarYUVLuminanceSource) Matrix() []byte {
	if s.width == s.dataWidth && s.height == s.dataHeight {
		return s.yuvData[:s.width*s.height]
	}
	out := make([]byte, s.width*s.height)
	for y := 0; y < s.height; y++ {
		s.Row(y, out[y*s.width:(y+1)*s.width])
	}
	return out
}

func (s *PlanarYUVLuminanceSource) Width() int  { return s.width }
func (s *PlanarYUVLuminanceSource) Height() int { return s.height }

func (s *PlanarYUVLuminanceSource) IsCropSupported() bool { return true }

func (s *PlanarYUVLuminanceSource) Crop(left, top, width, height int) (LuminanceSource, error) {
	return NewPlanarYUVLuminanceSource(s.yuvData, s.dataWidth, s.dataHeight,
		s.left+left, s.top+top, width, height, false)
}

func (s *PlanarYUVLuminanceSource) IsRotateSupported() bool { return false }

func (s *PlanarYUVLuminanceSource) RotateCounterClockwise() (LuminanceSource, error) {
	return nil, ErrUnsupported
}

func (s *PlanarYUVLuminanceSource) RotateCounterClockwise45() (LuminanceSource, error) {
	return nil, ErrUnsupported
}

// ThumbnailWidth is the width of the image RenderThumbnail returns.
func (s *PlanarYUVLuminanceSource) ThumbnailWidth() int { return s.width / thumbnailScaleFactor }

// ThumbnailHeight is the height of the image RenderThumbnail returns.
func (s *PlanarYUVLuminanceSource) ThumbnailHeight() int { return s.height / thumbnailScaleFactor }

// RenderThumbnail returns a half-size greyscale preview of the cropped area,
// taking every second pixel of every second row.
func (s *PlanarYUVLuminanceSource) RenderThumbnail() *image.Gray {
	w, h := s.ThumbnailWidth(), s.ThumbnailHeight()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := (s.top+y*thumbnailScaleFactor)*s.dataWidth + s.left
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = s.yuvData[src+x*thumbnailScaleFactor]
		}
	}
	return img
}
