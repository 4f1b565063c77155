package decoder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/internal/testutil"
)

// withLength prepends the symbol length descriptor.
func withLength(data ...int) []int {
	return append([]int{len(data) + 1}, data...)
}

func parse(t *testing.T, codewords []int) string {
	t.Helper()
	dr, err := Parse(codewords, "2", "")
	require.NoError(t, err)
	return dr.Text
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name      string
		codewords []int
		want      string
	}{
		{"alpha", withLength(testutil.TextCodewords("HELLO WORLD")...), "HELLO WORLD"},
		{"explicit latch", withLength(append([]int{textLatch}, testutil.TextCodewords("PDF")...)...), "PDF"},
		{"lower and mixed latches", withLength(27, 58, 59), "Ab1"},
		{"punctuation shift", withLength(29, 29), "A;"},
		{"alpha shift", withLength(810, 811), "aB"},
		{"mixed to punctuation latch", withLength(28*30+25, 3*30+29), "@"},
		{"byte shift", withLength(7*30+29, byteShift, 0xe9, 8*30+29), "HéI"},
		{"padding", withLength(append(testutil.TextCodewords("OK"), 900, 900, 900)...), "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(t, tt.codewords))
		})
	}
}

func TestParseBytes(t *testing.T) {
	dr, err := Parse(withLength(byteLatch6, 109, 326, 368, 127, 330), "0", "")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", dr.Text)
	assert.Equal(t, []byte("ABCDEF"), dr.RawBytes)
	assert.Empty(t, cmp.Diff([][]byte{[]byte("ABCDEF")}, dr.ByteSegments))
	assert.Equal(t, "0", dr.ECLevel)

	assert.Equal(t, "éab", parse(t, withLength(byteLatch, 0xe9, 'a', 'b')))
	// a full group at the end of a 901 segment is read as single bytes
	assert.Equal(t, "ABCDE", parse(t, withLength(byteLatch, 'A', 'B', 'C', 'D', 'E')))
	// text resumes after the segment
	assert.Equal(t, "xyHI", parse(t, withLength(byteLatch, 'x', 'y', textLatch, 7*30+8)))
}

func TestParseNumeric(t *testing.T) {
	assert.Equal(t, "1234567890", parse(t, withLength(numericLatch, 15, 369, 753, 190)))

	full := []int{numericLatch, 4, 819, 730, 337, 453, 18, 603, 136, 670, 836, 564, 607, 683, 621, 112}
	assert.Equal(t, "123456789012345678901234567890123456789012", parse(t, withLength(full...)))

	// two groups split by a repeated latch
	assert.Equal(t, "1234567890000", parse(t, withLength(numericLatch, 15, 369, 753, 190, numericLatch, 1, 100)))
}

func TestParseCharacterSets(t *testing.T) {
	assert.Equal(t, "é", parse(t, withLength(eciCharset, 26, byteLatch, 0xc3, 0xa9)))
	assert.Equal(t, "日本", parse(t, withLength(byteLatch, eciCharset, 20, 0x93, 0xfa, 0x96, 0x7b)))
	assert.Equal(t, "Aé", parse(t, withLength(0*30+29, eciCharset, 26, byteShift, 0xc3, byteShift, 0xa9)))

	dr, err := Parse(withLength(byteLatch, 0x93, 0xfa, 0x96, 0x7b), "", "Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, "日本", dr.Text)
	assert.Equal(t, []byte{0x93, 0xfa, 0x96, 0x7b}, dr.RawBytes)

	_, err = Parse(withLength(eciCharset, 14, byteLatch, 'a'), "", "")
	assert.ErrorIs(t, err, zxcore.ErrFormat)

	_, err = Parse(withLength(byteLatch, 'a'), "", "no-such-charset")
	assert.Error(t, err)
}

func TestParseMacroBlock(t *testing.T) {
	codewords := withLength(7*30+8, macroControl, 1, 100, 17, 53, macroOptional, fieldSegmentCount, 14, macroTerminator)
	dr, err := Parse(codewords, "1", "")
	require.NoError(t, err)
	assert.Equal(t, "HI", dr.Text)

	want := &MacroBlock{
		SegmentIndex: 0,
		FileID:       "017053",
		OptionalData: []int{fieldSegmentCount, 14},
		LastSegment:  true,
		SegmentCount: 4,
		Timestamp:    -1,
		FileSize:     -1,
		Checksum:     -1,
	}
	if diff := cmp.Diff(want, dr.Other); diff != "" {
		t.Errorf("macro block (-want +got):\n%s", diff)
	}
}

func TestParseMacroFileName(t *testing.T) {
	name := testutil.TextCodewords("REPORT")
	codewords := withLength(append([]int{macroControl, 1, 101, 5, macroOptional, fieldFileName}, name...)...)
	dr, err := Parse(codewords, "1", "")
	require.NoError(t, err)
	macro := dr.Other.(*MacroBlock)
	assert.Equal(t, 1, macro.SegmentIndex)
	assert.Equal(t, "005", macro.FileID)
	assert.Equal(t, "REPORT", macro.FileName)
	assert.False(t, macro.LastSegment)
	assert.Empty(t, dr.Text)
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		codewords []int
	}{
		{"empty", nil},
		{"length too large", []int{5, 1, 2}},
		{"length zero", []int{0, 1}},
		{"no data", []int{1}},
		{"optional field outside macro", withLength(1, macroOptional, 0)},
		{"numeric without leading one", withLength(numericLatch, 5)},
		{"macro without file id", withLength(macroControl, 1, 100)},
		{"bad optional designator", withLength(macroControl, 1, 100, 5, macroOptional, 9, 1)},
		{"truncated ECI", withLength(1, eciCharset)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.codewords, "0", "")
			assert.ErrorIs(t, err, zxcore.ErrFormat)
		})
	}
}
