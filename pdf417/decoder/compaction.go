package decoder

import "fmt"

// Text compaction sub-modes.
type textMode int

const (
	modeAlpha textMode = iota
	modeLower
	modeMixed
	modePunct
	modeAlphaShift
	modePunctShift
)

// Sub-mode switch values. Several share a value and differ by sub-mode.
const (
	switchPL  = 25 // punctuation latch
	switchLL  = 27 // lower latch
	switchAS  = 27 // alpha shift
	switchML  = 28 // mixed latch
	switchAL  = 28 // alpha latch
	switchPS  = 29 // punctuation shift
	switchPAL = 29 // punctuation to alpha latch
)

var (
	mixedChars = "0123456789&\r\t,:#-.$/+%*=^"
	punctChars = ";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'"
)

// textValue is one base 30 text value. b carries the byte of a byte shift.
type textValue struct {
	v, b int
}

// text reads text compaction codewords starting at i, two base 30 values
// each, until another mode begins. It returns the index of the first
// codeword it did not consume.
func (s *stream) text(i int) (int, error) {
	var values []textValue
	mode := modeAlpha
	cw := s.codewords
loop:
	for i < s.end {
		code := cw[i]
		i++
		if code < textLatch {
			values = append(values, textValue{v: code / 30}, textValue{v: code % 30})
			continue
		}
		switch code {
		case textLatch:
			values = append(values, textValue{v: textLatch})
		case byteLatch, byteLatch6, numericLatch, macroControl, macroOptional, macroTerminator:
			i--
			break loop
		case byteShift:
			if i >= len(cw) {
				return 0, fmt.Errorf("byte shift at end of stream: %w", ErrFormat)
			}
			values = append(values, textValue{v: byteShift, b: cw[i]})
			i++
		case eciCharset:
			mode = s.decodeText(values, mode)
			values = values[:0]
			if i >= s.end {
				return 0, fmt.Errorf("ECI designator at end of stream: %w", ErrFormat)
			}
			if err := s.out.setECI(cw[i]); err != nil {
				return 0, err
			}
			i++
		}
	}
	s.decodeText(values, mode)
	return i, nil
}

// decodeText maps base 30 values to characters, starting in mode. It
// returns the latched sub-mode at the end.
func (s *stream) decodeText(values []textValue, mode textMode) textMode {
	latched, prior := mode, mode
	latch := func(m textMode) { mode, latched = m, m }
	shift := func(m textMode) { prior, mode = mode, m }

	for _, tv := range values {
		v := tv.v
		if v == byteShift {
			s.out.writeByte(byte(tv.b))
			if mode == modeAlphaShift || mode == modePunctShift {
				mode = prior
			}
			continue
		}
		var ch byte
		switch mode {
		case modeAlpha:
			switch {
			case v < 26:
				ch = byte('A' + v)
			case v == 26:
				ch = ' '
			case v == switchLL:
				latch(modeLower)
			case v == switchML:
				latch(modeMixed)
			case v == switchPS:
				shift(modePunctShift)
			case v == textLatch:
				latch(modeAlpha)
			}
		case modeLower:
			switch {
			case v < 26:
				ch = byte('a' + v)
			case v == 26:
				ch = ' '
			case v == switchAS:
				shift(modeAlphaShift)
			case v == switchML:
				latch(modeMixed)
			case v == switchPS:
				shift(modePunctShift)
			case v == textLatch:
				latch(modeAlpha)
			}
		case modeMixed:
			switch {
			case v < switchPL:
				ch = mixedChars[v]
			case v == switchPL:
				latch(modePunct)
			case v == 26:
				ch = ' '
			case v == switchLL:
				latch(modeLower)
			case v == switchAL, v == textLatch:
				latch(modeAlpha)
			case v == switchPS:
				shift(modePunctShift)
			}
		case modePunct:
			switch {
			case v < switchPAL:
				ch = punctChars[v]
			case v == switchPAL, v == textLatch:
				latch(modeAlpha)
			}
		case modeAlphaShift:
			mode = prior
			switch {
			case v < 26:
				ch = byte('A' + v)
			case v == 26:
				ch = ' '
			case v == textLatch:
				mode = modeAlpha
			}
		case modePunctShift:
			mode = prior
			switch {
			case v < switchPAL:
				ch = punctChars[v]
			case v == switchPAL, v == textLatch:
				mode = modeAlpha
			}
		}
		if ch != 0 {
			s.out.writeByte(ch)
		}
	}
	return latched
}

// bytes reads byte compaction codewords: groups of five base 900 codewords
// carry six bytes, the rest one byte each. Under latch 901 a final full
// group still counts as single bytes unless more data follows.
func (s *stream) bytes(mode, i int) (int, error) {
	cw := s.codewords
	var segment []byte
	emit := func(b byte) {
		segment = append(segment, b)
		s.out.writeByte(b)
	}
	defer func() {
		if len(segment) > 0 {
			s.segments = append(s.segments, segment)
		}
	}()

	for end := false; i < s.end && !end; {
		for i < s.end && cw[i] == eciCharset {
			if i+1 >= s.end {
				return 0, fmt.Errorf("ECI designator at end of stream: %w", ErrFormat)
			}
			if err := s.out.setECI(cw[i+1]); err != nil {
				return 0, err
			}
			i += 2
		}
		if i >= s.end || cw[i] >= textLatch {
			break
		}

		var value int64
		count := 0
		for {
			value = 900*value + int64(cw[i])
			i++
			count++
			if count >= 5 || i >= s.end || cw[i] >= textLatch {
				break
			}
		}
		if count == 5 && (mode == byteLatch6 || i < s.end && cw[i] < textLatch) {
			for k := 5; k >= 0; k-- {
				emit(byte(value >> (8 * k)))
			}
			continue
		}

		i -= count
		for i < s.end && !end {
			code := cw[i]
			i++
			switch {
			case code < textLatch:
				emit(byte(code))
			case code == eciCharset:
				if i >= s.end {
					return 0, fmt.Errorf("ECI designator at end of stream: %w", ErrFormat)
				}
				if err := s.out.setECI(cw[i]); err != nil {
					return 0, err
				}
				i++
			default:
				i--
				end = true
			}
		}
	}
	return i, nil
}

// numeric reads numeric compaction codewords in groups of up to 15, each
// group a base 900 number.
func (s *stream) numeric(i int) (int, error) {
	cw := s.codewords
	group := make([]int, 0, maxNumericGroup)
	for end := false; i < s.end && !end; {
		code := cw[i]
		i++
		if i == s.end {
			end = true
		}
		if code < textLatch {
			group = append(group, code)
		} else {
			switch code {
			case textLatch, byteLatch, byteLatch6, macroControl, macroOptional, macroTerminator, eciCharset:
				i--
				end = true
			}
		}
		if len(group) > 0 && (len(group) == maxNumericGroup || code == numericLatch || end) {
			digits, err := base900ToBase10(group)
			if err != nil {
				return 0, err
			}
			s.out.writeString(digits)
			group = group[:0]
		}
	}
	return i, nil
}
