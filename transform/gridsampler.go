package transform

import (
	"fmt"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
)

// ErrOutOfBounds reports a sample point that fell outside the image. It
// matches zxcore.ErrNotFound under errors.Is.
var ErrOutOfBounds = fmt.Errorf("sample point outside image: %w", zxcore.ErrNotFound)

// GridSampler reads a dimensionX×dimensionY grid of cells out of an image
// through a transform from grid space to image space.
type GridSampler interface {
	Sample(image *bitutil.BitMatrix, dimensionX, dimensionY int, t *PerspectiveTransform) (*bitutil.BitMatrix, error)
}

// DefaultGridSampler samples the center of each cell.
type DefaultGridSampler struct{}

// SampleQuad samples the grid whose corners ideal maps onto observed.
func SampleQuad(s GridSampler, image *bitutil.BitMatrix, dimensionX, dimensionY int, ideal, observed Quad) (*bitutil.BitMatrix, error) {
	return s.Sample(image, dimensionX, dimensionY, QuadToQuad(ideal, observed))
}

// Sample maps the center of each grid cell into the image and copies the
// pixel there. Points up to one pixel outside the image are pulled back onto
// its edge; anything further out fails with ErrOutOfBounds.
func (DefaultGridSampler) Sample(image *bitutil.BitMatrix, dimensionX, dimensionY int, t *PerspectiveTransform) (*bitutil.BitMatrix, error) {
	if dimensionX <= 0 || dimensionY <= 0 {
		return nil, ErrOutOfBounds
	}
	bits := bitutil.NewBitMatrix(dimensionX, dimensionY)
	points := make([]float64, 2*dimensionX)
	for y := 0; y < dimensionY; y++ {
		cy := float64(y) + 0.5
		for x := 0; x < len(points); x += 2 {
			points[x] = float64(x/2) + 0.5
			points[x+1] = cy
		}
		t.TransformPoints(points)
		if err := CheckAndNudgePoints(image, points); err != nil {
			return nil, err
		}
		for x := 0; x < len(points); x += 2 {
			ix, iy := int(points[x]), int(points[x+1])
			if ix < 0 || ix >= image.Width() || iy < 0 || iy >= image.Height() {
				return nil, ErrOutOfBounds
			}
			if image.Get(ix, iy) {
				bits.Set(x/2, y)
			}
		}
	}
	return bits, nil
}

// CheckAndNudgePoints validates a row of transformed points. Only the ends of
// the row are inspected, walking inward while points still need nudging,
// since a transform that keeps the ends inside keeps the middle inside too.
func CheckAndNudgePoints(image *bitutil.BitMatrix, points []float64) error {
	width, height := image.Width(), image.Height()
	nudged := true
	for offset := 0; offset+1 < len(points) && nudged; offset += 2 {
		var err error
		if nudged, err = nudge(points, offset, width, height); err != nil {
			return err
		}
	}
	nudged = true
	for offset := len(points) - 2; offset >= 0 && nudged; offset -= 2 {
		var err error
		if nudged, err = nudge(points, offset, width, height); err != nil {
			return err
		}
	}
	return nil
}

func nudge(points []float64, offset, width, height int) (bool, error) {
	x, y := int(points[offset]), int(points[offset+1])
	if x < -1 || x > width || y < -1 || y > height {
		return false, ErrOutOfBounds
	}
	nudged := false
	switch x {
	case -1:
		points[offset] = 0
		nudged = true
	case width:
		points[offset] = float64(width - 1)
		nudged = true
	}
	switch y {
	case -1:
		points[offset+1] = 0
		nudged = true
	case height:
		points[offset+1] = float64(height - 1)
		nudged = true
	}
	return nudged, nil
}
