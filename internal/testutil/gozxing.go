package testutil

import (
	"image"

	"github.com/makiuchi-d/gozxing"
)

// Encoded renders contents with a gozxing writer. The image gets a white
// border of margin pixels on every side.
func Encoded(w gozxing.Writer, contents string, format gozxing.BarcodeFormat, width, height, margin int) (*image.Gray, error) {
	bm, err := w.Encode(contents, format, width, height, nil)
	if err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, bm.GetWidth()+2*margin, bm.GetHeight()+2*margin))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 0; y < bm.GetHeight(); y++ {
		for x := 0; x < bm.GetWidth(); x++ {
			if bm.Get(x, y) {
				img.Pix[(y+margin)*img.Stride+x+margin] = 0
			}
		}
	}
	return img, nil
}

// Blank returns a white image.
func Blank(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
