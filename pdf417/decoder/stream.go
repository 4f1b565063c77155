package decoder

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ericlevine/zxcore/internal"
)

// Mode latches, shifts and control codewords.
const (
	textLatch        = 900
	byteLatch        = 901
	numericLatch     = 902
	byteShift        = 913
	macroTerminator  = 922
	macroOptional    = 923
	byteLatch6       = 924
	eciUserDefined   = 925
	eciGeneral       = 926
	eciCharset       = 927
	macroControl     = 928
	maxNumericGroup  = 15
	segmentIndexSize = 2
)

// Macro PDF417 optional field designators.
const (
	fieldFileName = iota
	fieldSegmentCount
	fieldTimestamp
	fieldSender
	fieldAddressee
	fieldFileSize
	fieldChecksum
)

// MacroBlock is the Macro PDF417 control block of one symbol in a
// structured append sequence.
type MacroBlock struct {
	SegmentIndex int
	FileID       string
	// OptionalData holds the raw optional field codewords, designators
	// included.
	OptionalData []int
	LastSegment  bool
	// SegmentCount is -1 when absent.
	SegmentCount int
	FileName     string
	Sender       string
	Addressee    string
	// Timestamp is seconds since the Unix epoch, -1 when absent.
	Timestamp int64
	// FileSize is -1 when absent.
	FileSize int64
	// Checksum is -1 when absent.
	Checksum int
}

// Parse decodes a corrected codeword stream. codewords[0] is the symbol
// length descriptor: the number of data codewords, itself included.
// characterSet names the initial character set of byte data; empty means
// ISO-8859-1.
func Parse(codewords []int, ecLevel, characterSet string) (*internal.DecoderResult, error) {
	if len(codewords) == 0 || codewords[0] < 1 || codewords[0] > len(codewords) {
		return nil, fmt.Errorf("length descriptor out of range: %w", ErrFormat)
	}
	out, err := newPayload(characterSet)
	if err != nil {
		return nil, err
	}
	s := &stream{codewords: codewords, end: codewords[0], out: out}
	var macro *MacroBlock

	i, err := s.text(1)
	for err == nil && i < s.end {
		code := codewords[i]
		i++
		switch code {
		case textLatch:
			i, err = s.text(i)
		case byteLatch, byteLatch6:
			i, err = s.bytes(code, i)
		case byteShift:
			if i >= len(codewords) {
				return nil, fmt.Errorf("byte shift at end of stream: %w", ErrFormat)
			}
			out.writeByte(byte(codewords[i]))
			i++
		case numericLatch:
			i, err = s.numeric(i)
		case eciCharset:
			if i >= s.end {
				return nil, fmt.Errorf("ECI designator at end of stream: %w", ErrFormat)
			}
			err = out.setECI(codewords[i])
			i++
		case eciGeneral:
			i += 2
		case eciUserDefined:
			i++
		case macroControl:
			macro = &MacroBlock{SegmentCount: -1, Timestamp: -1, FileSize: -1, Checksum: -1}
			i, err = s.macroBlock(i, macro)
		case macroOptional, macroTerminator:
			return nil, fmt.Errorf("codeword %d outside a macro block: %w", code, ErrFormat)
		default:
			// Symbols missing their initial mode are read as text.
			i, err = s.text(i - 1)
		}
	}
	if err != nil {
		return nil, err
	}
	if out.empty() && macro == nil {
		return nil, fmt.Errorf("no data: %w", ErrFormat)
	}

	text, err := out.String()
	if err != nil {
		return nil, err
	}
	dr := internal.NewDecoderResult(out.raw, text, s.segments, ecLevel)
	if macro != nil {
		dr.Other = macro
	}
	return dr, nil
}

// stream is the parser state shared by the compaction modes.
type stream struct {
	codewords []int
	end       int
	out       *payload
	segments  [][]byte
}

func (s *stream) macroBlock(i int, macro *MacroBlock) (int, error) {
	if i+segmentIndexSize > s.end {
		return 0, fmt.Errorf("truncated macro segment index: %w", ErrFormat)
	}
	index, err := base900ToBase10(s.codewords[i : i+segmentIndexSize])
	if err != nil {
		return 0, err
	}
	macro.SegmentIndex, _ = strconv.Atoi(index)
	i += segmentIndexSize

	var fileID strings.Builder
	for i < s.end && s.codewords[i] != macroTerminator && s.codewords[i] != macroOptional {
		fmt.Fprintf(&fileID, "%03d", s.codewords[i])
		i++
	}
	if fileID.Len() == 0 {
		return 0, fmt.Errorf("macro block without file id: %w", ErrFormat)
	}
	macro.FileID = fileID.String()

	optionalStart := -1
	if i < s.end && s.codewords[i] == macroOptional {
		optionalStart = i + 1
	}
	for i < s.end {
		switch s.codewords[i] {
		case macroOptional:
			i++
			if i >= s.end {
				return 0, fmt.Errorf("truncated macro optional field: %w", ErrFormat)
			}
			designator := s.codewords[i]
			i, err = s.optionalField(designator, i+1, macro)
			if err != nil {
				return 0, err
			}
		case macroTerminator:
			i++
			macro.LastSegment = true
		default:
			return 0, fmt.Errorf("codeword %d in macro block: %w", s.codewords[i], ErrFormat)
		}
	}

	if optionalStart != -1 {
		n := i - optionalStart
		if macro.LastSegment {
			n--
		}
		if n > 0 {
			macro.OptionalData = append([]int(nil), s.codewords[optionalStart:optionalStart+n]...)
		}
	}
	return i, nil
}

// optionalField reads one macro optional field into a scratch payload so it
// does not end up in the symbol text.
func (s *stream) optionalField(designator, i int, macro *MacroBlock) (int, error) {
	scratch := &stream{codewords: s.codewords, end: s.end}
	scratch.out, _ = newPayload("")

	var err error
	switch designator {
	case fieldFileName, fieldSender, fieldAddressee:
		i, err = scratch.text(i)
	case fieldSegmentCount, fieldTimestamp, fieldFileSize, fieldChecksum:
		i, err = scratch.numeric(i)
	default:
		return 0, fmt.Errorf("macro optional field %d: %w", designator, ErrFormat)
	}
	if err != nil {
		return 0, err
	}
	value, err := scratch.out.String()
	if err != nil {
		return 0, err
	}

	switch designator {
	case fieldFileName:
		macro.FileName = value
	case fieldSender:
		macro.Sender = value
	case fieldAddressee:
		macro.Addressee = value
	default:
		n, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("macro optional field %d value %q: %w", designator, value, ErrFormat)
		}
		switch designator {
		case fieldSegmentCount:
			macro.SegmentCount = int(n)
		case fieldTimestamp:
			macro.Timestamp = n
		case fieldFileSize:
			macro.FileSize = n
		case fieldChecksum:
			macro.Checksum = int(n)
		}
	}
	return i, nil
}

var exp900 = func() [maxNumericGroup + 1]*big.Int {
	var t [maxNumericGroup + 1]*big.Int
	t[0] = big.NewInt(1)
	for i := 1; i < len(t); i++ {
		t[i] = new(big.Int).Mul(t[i-1], big.NewInt(900))
	}
	return t
}()

// base900ToBase10 converts a numeric compaction group. The encoder prefixes
// every group with a 1 digit, which is stripped.
func base900ToBase10(group []int) (string, error) {
	n := new(big.Int)
	for i, cw := range group {
		term := new(big.Int).Mul(exp900[len(group)-1-i], big.NewInt(int64(cw)))
		n.Add(n, term)
	}
	digits := n.String()
	if digits[0] != '1' {
		return "", fmt.Errorf("numeric group %v lacks its leading 1: %w", group, ErrFormat)
	}
	return digits[1:], nil
}
