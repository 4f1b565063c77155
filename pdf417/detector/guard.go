package detector

import (
	"math"

	"github.com/ericlevine/zxcore/bitutil"
)

const (
	patternMatchScale = 1 << 8
	// 0.42 and 0.8 of a module, scaled
	maxAvgVariance        = patternMatchScale * 42 / 100
	maxIndividualVariance = patternMatchScale * 8 / 10
)

// B S B S B S B S Bar/Space pattern
// 11111111 0 1 0 1 0 1 000
var startPattern = [8]int{8, 1, 1, 1, 1, 1, 1, 3}

// The stop pattern 1111111 0 1 000 1 0 1 00 1 read from the right edge.
var stopPatternReverse = [9]int{1, 2, 1, 1, 1, 3, 1, 1, 7}

// patternMatchVariance determines how closely a set of observed counts of runs
// of black/white values matches a given target pattern. The result is the
// total variance from the expected proportions divided by the total width,
// scaled by 256: 0 is a perfect match. math.MaxInt means no match.
func patternMatchVariance(counters, pattern []int) int {
	total := 0
	patternLength := 0
	for i := range counters {
		total += counters[i]
		patternLength += pattern[i]
	}
	if total < patternLength {
		// If we don't even have one pixel per unit of bar width, assume this
		// is too small to reliably match, so fail.
		return math.MaxInt
	}

	unitBarWidth := (total << 8) / patternLength
	maxIndVar := (maxIndividualVariance * unitBarWidth) >> 8

	totalVariance := 0
	for x, c := range counters {
		counter := c << 8
		scaledPattern := pattern[x] * unitBarWidth
		variance := counter - scaledPattern
		if variance < 0 {
			variance = -variance
		}
		if variance > maxIndVar {
			return math.MaxInt
		}
		totalVariance += variance
	}
	return totalVariance / total
}

// findGuardPattern searches row y for pattern, which must start with a bar.
// When reversed is set the row is read from right to left and the returned
// offsets count from the right edge. The match covers [start, end).
func findGuardPattern(matrix *bitutil.BitMatrix, y int, reversed bool, pattern, counters []int) (start, end int, ok bool) {
	width := matrix.Width()
	get := func(x int) bool {
		if reversed {
			return matrix.Get(width-1-x, y)
		}
		return matrix.Get(x, y)
	}

	clear(counters)
	x := 0
	for x < width && !get(x) {
		x++
	}
	patternStart := x
	patternLength := len(pattern)
	counterPosition := 0
	isWhite := false

	for ; x < width; x++ {
		if get(x) != isWhite {
			counters[counterPosition]++
			continue
		}
		if counterPosition == patternLength-1 {
			if patternMatchVariance(counters, pattern) < maxAvgVariance {
				return patternStart, x, true
			}
			patternStart += counters[0] + counters[1]
			copy(counters, counters[2:])
			counters[patternLength-2] = 0
			counters[patternLength-1] = 0
			counterPosition--
		} else {
			counterPosition++
		}
		counters[counterPosition] = 1
		isWhite = !isWhite
	}

	if counterPosition == patternLength-1 &&
		patternMatchVariance(counters, pattern) < maxAvgVariance {
		return patternStart, x, true
	}
	return 0, 0, false
}
