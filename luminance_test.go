package zxcore_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/binarizer"
)

// gradient returns a w×h gray image whose pixel at (x, y) is 10*y + x.
func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = byte(10*y + x)
		}
	}
	return img
}

func TestImageLuminanceConversion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 0, color.NRGBA{B: 255, A: 255})
	img.Set(3, 0, color.NRGBA{})

	src := zxcore.NewImageLuminanceSource(img)
	assert.Equal(t, []byte{
		(306*255 + 0x200) >> 10,
		(601*255 + 0x200) >> 10,
		(117*255 + 0x200) >> 10,
		0xff,
	}, src.Row(0, nil))
}

func TestImageLuminanceOffsetBounds(t *testing.T) {
	gray := gradient(6, 4)
	sub := gray.SubImage(image.Rect(2, 1, 5, 3)).(*image.Gray)
	src := zxcore.NewImageLuminanceSource(sub)
	require.Equal(t, 3, src.Width())
	require.Equal(t, 2, src.Height())
	assert.Equal(t, []byte{12, 13, 14, 22, 23, 24}, src.Matrix())
}

func TestImageLuminanceCrop(t *testing.T) {
	src := zxcore.NewImageLuminanceSource(gradient(5, 5))
	cropped, err := src.Crop(1, 2, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{21, 22, 23, 31, 32, 33}, cropped.Matrix())

	row := make([]byte, 10)
	assert.Equal(t, []byte{31, 32, 33}, cropped.Row(1, row))

	nested, err := cropped.Crop(1, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{32, 33}, nested.Matrix())

	_, err = src.Crop(3, 3, 3, 3)
	assert.Error(t, err)
	assert.Panics(t, func() { cropped.Row(2, nil) })
}

func TestImageLuminanceRotate(t *testing.T) {
	src := zxcore.NewImageLuminanceSource(gradient(3, 2))
	require.True(t, src.IsRotateSupported())

	rotated, err := src.RotateCounterClockwise()
	require.NoError(t, err)
	require.Equal(t, 2, rotated.Width())
	require.Equal(t, 3, rotated.Height())
	// 0  1  2        2 12
	// 10 11 12  ->   1 11
	//                0 10
	assert.Equal(t, []byte{2, 12, 1, 11, 0, 10}, rotated.Matrix())

	turned, err := src.RotateCounterClockwise45()
	require.NoError(t, err)
	assert.Greater(t, turned.Width(), src.Width())
	assert.Equal(t, byte(0xff), turned.Row(0, nil)[0])
}

func TestInvertedLuminanceSource(t *testing.T) {
	src := zxcore.NewImageLuminanceSource(gradient(3, 2))
	inv := zxcore.NewInvertedLuminanceSource(src)
	assert.Equal(t, []byte{255, 254, 253, 245, 244, 243}, inv.Matrix())
	assert.Equal(t, []byte{245, 244, 243}, inv.Row(1, nil))

	cropped, err := inv.Crop(1, 0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{254, 253}, cropped.Matrix())
}

func TestPlanarYUVLuminanceSource(t *testing.T) {
	const w, h = 6, 4
	data := make([]byte, w*h+w*h/2)
	for i := 0; i < w*h; i++ {
		data[i] = byte(i)
	}
	for i := w * h; i < len(data); i++ {
		data[i] = 0xee
	}

	src, err := zxcore.NewPlanarYUVLuminanceSource(data, w, h, 1, 1, 4, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9, 10, 13, 14, 15, 16}, src.Matrix())
	assert.False(t, src.IsRotateSupported())
	_, err = src.RotateCounterClockwise()
	assert.ErrorIs(t, err, zxcore.ErrUnsupported)

	assert.Equal(t, 2, src.ThumbnailWidth())
	assert.Equal(t, 1, src.ThumbnailHeight())
	assert.Equal(t, []byte{7, 9}, src.RenderThumbnail().Pix)

	mirrored, err := zxcore.NewPlanarYUVLuminanceSource(data, w, h, 1, 1, 4, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 9, 8, 7}, mirrored.Row(0, nil))
	assert.Equal(t, byte(7), data[7], "caller data is left alone")

	_, err = zxcore.NewPlanarYUVLuminanceSource(data, w, h, 4, 0, 4, 2, false)
	assert.Error(t, err)
}

func TestBinaryBitmapRotateUnsupported(t *testing.T) {
	data := make([]byte, 16)
	src, err := zxcore.NewPlanarYUVLuminanceSource(data, 4, 4, 0, 0, 4, 4, false)
	require.NoError(t, err)
	bitmap := zxcore.NewBinaryBitmap(binarizer.NewHybrid(src))
	assert.False(t, bitmap.IsRotateSupported())
	_, err = bitmap.RotateCounterClockwise()
	assert.ErrorIs(t, err, zxcore.ErrUnsupported)
}

func TestBinaryBitmapCropAndInvert(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Pix[2*img.Stride+3] = 0
	bitmap := zxcore.NewBinaryBitmap(binarizer.NewGlobalHistogram(zxcore.NewImageLuminanceSource(img)))

	cropped, err := bitmap.Crop(2, 1, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cropped.Width())
	m, err := cropped.BlackMatrix()
	require.NoError(t, err)
	assert.True(t, m.Get(1, 1))

	inv, err := cropped.Inverted().BlackMatrix()
	require.NoError(t, err)
	assert.False(t, inv.Get(1, 1))
	assert.True(t, inv.Get(0, 0))
}
