// Package binarizer provides implementations for converting luminance data to binary.
package binarizer

import (
	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram picks one black point per row (or per image) from a
// 32-bucket histogram. It is cheap, and suited to evenly lit images; Hybrid
// copes better with shadows and gradients.
type GlobalHistogram struct {
	source     zxcore.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int

	cachedY   int
	cachedRow *bitutil.BitArray
}

// NewGlobalHistogram creates a new GlobalHistogram binarizer.
func NewGlobalHistogram(source zxcore.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source, cachedY: -1}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() zxcore.LuminanceSource {
	return g.source
}

// CreateBinarizer returns a GlobalHistogram over source.
func (g *GlobalHistogram) CreateBinarizer(source zxcore.LuminanceSource) zxcore.Binarizer {
	return NewGlobalHistogram(source)
}

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

// BlackRow thresholds row y after a -1 4 -1 sharpening pass. The last row
// computed is cached, so asking for it again only copies bits.
func (g *GlobalHistogram) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}
	if y == g.cachedY && g.cachedRow != nil {
		copy(row.Words(), g.cachedRow.Words())
		return row, nil
	}

	g.initArrays(width)
	localLuminances := g.source.Row(y, g.luminances)
	for x := 0; x < width; x++ {
		g.buckets[int(localLuminances[x])>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(localLuminances[x]) < blackPoint {
				row.Set(x)
			}
		}
	} else {
		left := int(localLuminances[0])
		center := int(localLuminances[1])
		for x := 1; x < width-1; x++ {
			right := int(localLuminances[x+1])
			if ((center*4)-left-right)/2 < blackPoint {
				row.Set(x)
			}
			left = center
			center = right
		}
	}
	g.cachedY = y
	g.cachedRow = row.Clone()
	return row, nil
}

// BlackMatrix thresholds the whole image with one black point taken from the
// middle three fifths of four sampled rows.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()

	g.initArrays(width)
	for y := 1; y < 5; y++ {
		localLuminances := g.source.Row(height*y/5, g.luminances)
		right := (width * 4) / 5
		for x := width / 5; x < right; x++ {
			g.buckets[int(localLuminances[x])>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrix(width, height)
	localLuminances := g.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(localLuminances[offset+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

func (g *GlobalHistogram) initArrays(luminanceSize int) {
	if len(g.luminances) < luminanceSize {
		g.luminances = make([]byte, luminanceSize)
	}
	g.buckets = [luminanceBuckets]int{}
}

// estimateBlackPoint finds the two tallest, well separated histogram peaks
// and returns the deepest valley between them, scaled back to luminance.
// A histogram without a second peak, or with peaks closer than 1/16 of the
// range, has no usable threshold.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		if buckets[x] > maxBucketCount {
			maxBucketCount = buckets[x]
		}
	}

	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		score := buckets[x] * dist * dist
		if score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}
	if secondPeakScore == 0 {
		return 0, zxcore.ErrNotFound
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, zxcore.ErrNotFound
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
