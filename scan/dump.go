package scan

import (
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
)

var failedRow = color.NRGBA{R: 0xff, A: 0xff}

// WriteResult writes the text of res next to input, replacing its extension
// with .txt, and returns the path written.
func WriteResult(input string, res *zxcore.Result) (string, error) {
	path := outputPath(input, ".txt")
	text := res.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.Wrapf(err, "write result %s", path)
	}
	return path, nil
}

// BlackPointImage renders how bitmap thresholds its source as three panels
// side by side: the luminance, each row from BlackRow, and the BlackMatrix.
// Rows that fail to threshold are drawn red, as is the whole last panel
// when the matrix fails.
func BlackPointImage(bitmap *zxcore.BinaryBitmap) image.Image {
	source := bitmap.Binarizer().LuminanceSource()
	w, h := source.Width(), source.Height()

	luminance := image.NewGray(image.Rect(0, 0, w, h))
	copy(luminance.Pix, source.Matrix())

	rows := imaging.New(w, h, color.White)
	var row *bitutil.BitArray
	for y := 0; y < h; y++ {
		var err error
		row, err = bitmap.BlackRow(y, row)
		for x := 0; x < w; x++ {
			switch {
			case err != nil:
				rows.Set(x, y, failedRow)
			case row.Get(x):
				rows.Set(x, y, color.Black)
			}
		}
		if err != nil {
			row = nil
		}
	}

	var matrix image.Image
	if m, err := bitmap.BlackMatrix(); err == nil {
		matrix = zxcore.BitMatrixToImage(m)
	} else {
		matrix = imaging.New(w, h, failedRow)
	}

	out := imaging.New(3*w, h, color.White)
	out = imaging.Paste(out, luminance, image.Pt(0, 0))
	out = imaging.Paste(out, rows, image.Pt(w, 0))
	out = imaging.Paste(out, matrix, image.Pt(2*w, 0))
	return out
}

// WriteBlackPoint saves BlackPointImage of bitmap next to input and returns
// the path written.
func WriteBlackPoint(input string, bitmap *zxcore.BinaryBitmap) (string, error) {
	path := outputPath(input, debugSuffix)
	if err := imaging.Save(BlackPointImage(bitmap), path); err != nil {
		return "", errors.Wrapf(err, "write debug image %s", path)
	}
	return path, nil
}
