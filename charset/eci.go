// Package charset maps Extended Channel Interpretation (ECI) values and
// character set names to text encodings, and decodes byte segments with
// them.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnknownECI is returned for ECI values that name no character set.
	ErrUnknownECI = errors.New("charset: unknown ECI value")
	// ErrUnknownCharset is returned for unrecognized character set names.
	ErrUnknownCharset = errors.New("charset: unknown character set")
)

// ECI is a character set designated by one or more ECI values.
type ECI struct {
	// Values lists the ECI values assigned to the set, canonical first.
	Values   []int
	Name     string
	Aliases  []string
	Encoding encoding.Encoding
}

// Value returns the canonical ECI value.
func (e *ECI) Value() int { return e.Values[0] }

func (e *ECI) String() string { return e.Name }

// Decode converts b from this character set to UTF-8.
func (e *ECI) Decode(b []byte) (string, error) {
	out, _, err := transform.Bytes(e.Encoding.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("charset: decoding %s: %w", e.Name, err)
	}
	return string(out), nil
}

var (
	CP437     = &ECI{[]int{0, 2}, "Cp437", []string{"IBM437"}, charmap.CodePage437}
	ISO8859_1 = &ECI{[]int{1, 3}, "ISO-8859-1", []string{"ISO8859_1", "Latin1"}, charmap.ISO8859_1}
	UTF8      = &ECI{[]int{26}, "UTF-8", []string{"UTF8"}, unicode.UTF8}

	table = []*ECI{
		CP437,
		ISO8859_1,
		{[]int{4}, "ISO-8859-2", []string{"ISO8859_2"}, charmap.ISO8859_2},
		{[]int{5}, "ISO-8859-3", []string{"ISO8859_3"}, charmap.ISO8859_3},
		{[]int{6}, "ISO-8859-4", []string{"ISO8859_4"}, charmap.ISO8859_4},
		{[]int{7}, "ISO-8859-5", []string{"ISO8859_5"}, charmap.ISO8859_5},
		{[]int{8}, "ISO-8859-6", []string{"ISO8859_6"}, charmap.ISO8859_6},
		{[]int{9}, "ISO-8859-7", []string{"ISO8859_7"}, charmap.ISO8859_7},
		{[]int{10}, "ISO-8859-8", []string{"ISO8859_8"}, charmap.ISO8859_8},
		{[]int{11}, "ISO-8859-9", []string{"ISO8859_9"}, charmap.ISO8859_9},
		{[]int{12}, "ISO-8859-10", []string{"ISO8859_10"}, charmap.ISO8859_10},
		// Windows-874 is a superset of TIS-620, which 8859-11 matches.
		{[]int{13}, "ISO-8859-11", []string{"ISO8859_11"}, charmap.Windows874},
		{[]int{15}, "ISO-8859-13", []string{"ISO8859_13"}, charmap.ISO8859_13},
		{[]int{16}, "ISO-8859-14", []string{"ISO8859_14"}, charmap.ISO8859_14},
		{[]int{17}, "ISO-8859-15", []string{"ISO8859_15"}, charmap.ISO8859_15},
		{[]int{18}, "ISO-8859-16", []string{"ISO8859_16"}, charmap.ISO8859_16},
		{[]int{20}, "Shift_JIS", []string{"SJIS"}, japanese.ShiftJIS},
		{[]int{21}, "windows-1250", []string{"Cp1250"}, charmap.Windows1250},
		{[]int{22}, "windows-1251", []string{"Cp1251"}, charmap.Windows1251},
		{[]int{23}, "windows-1252", []string{"Cp1252"}, charmap.Windows1252},
		{[]int{24}, "windows-1256", []string{"Cp1256"}, charmap.Windows1256},
		{[]int{25}, "UTF-16BE", []string{"UnicodeBigUnmarked", "UnicodeBig"},
			unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
		UTF8,
		{[]int{27, 170}, "US-ASCII", []string{"ASCII"}, unicode.UTF8},
		{[]int{28}, "Big5", nil, traditionalchinese.Big5},
		{[]int{29}, "GB18030", []string{"GB2312", "EUC_CN", "GBK"}, simplifiedchinese.GB18030},
		{[]int{30}, "EUC-KR", []string{"EUC_KR"}, korean.EUCKR},
	}

	byValue = map[int]*ECI{}
	byName  = map[string]*ECI{}
)

func init() {
	for _, e := range table {
		for _, v := range e.Values {
			byValue[v] = e
		}
		byName[normalize(e.Name)] = e
		for _, a := range e.Aliases {
			byName[normalize(a)] = e
		}
	}
}

func normalize(name string) string {
	r := strings.NewReplacer("-", "", "_", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(name)))
}

// ByValue returns the character set designated by ECI value v. Values
// outside [0, 900) and unassigned values fail with ErrUnknownECI.
func ByValue(v int) (*ECI, error) {
	if e, ok := byValue[v]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownECI, v)
}

// ByName finds an ECI character set by name or alias. Case, dashes and
// underscores are not significant.
func ByName(name string) (*ECI, bool) {
	e, ok := byName[normalize(name)]
	return e, ok
}

// Lookup resolves a character set name to an encoding: ECI character sets
// first, then the WHATWG encoding labels.
func Lookup(name string) (encoding.Encoding, error) {
	if e, ok := ByName(name); ok {
		return e.Encoding, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	return enc, nil
}

// Decode converts b from the named character set to UTF-8. An empty name
// means ISO-8859-1.
func Decode(b []byte, name string) (string, error) {
	if name == "" {
		return ISO8859_1.Decode(b)
	}
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("charset: decoding %s: %w", name, err)
	}
	return string(out), nil
}
