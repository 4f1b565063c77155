// Package symbol describes PDF417 bar patterns: the 17-module symbols that
// carry one codeword each, their cluster numbers and the width ratios used
// to recognize them in a scan line.
package symbol

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

const (
	// NumberOfCodewords is the number of codeword values per cluster.
	NumberOfCodewords = 929
	// ModulesInCodeword is the width of every symbol in modules.
	ModulesInCodeword = 17
	// ModulesInStopPattern is the width of the stop pattern in modules.
	ModulesInStopPattern = 18
	// BarsInCodeword is the number of bars plus spaces in a symbol.
	BarsInCodeword = 8
	// MaxModuleWidth is the widest a single bar or space may be.
	MaxModuleWidth = 6
)

// Clusters lists the three cluster numbers in row order.
var Clusters = [3]int{0, 3, 6}

// Ratios holds the widths of a symbol's eight elements as fractions of the
// whole symbol, first bar first.
type Ratios [BarsInCodeword]float64

// ClusterNumber returns (b1 - b2 + b3 - b4) mod 9 for a pattern whose bars
// have widths b1..b4 from the left, computed by walking the bits from the
// least significant (rightmost) module. Pattern 0 has no cluster and yields -1.
func ClusterNumber(pattern int) int {
	if pattern == 0 {
		return -1
	}
	barNumber := 0
	blackBar := true
	cluster := 0
	for i := 0; i < ModulesInCodeword; i++ {
		if pattern&(1<<i) != 0 {
			if !blackBar {
				blackBar = true
				barNumber++
			}
			if barNumber%2 == 0 {
				cluster++
			} else {
				cluster--
			}
		} else {
			blackBar = false
		}
	}
	return (cluster + 9) % 9
}

// Widths splits a 17-bit pattern (most significant bit is the leftmost
// module) into its eight element widths. ok is false unless the pattern
// starts with a bar and has exactly eight elements.
func Widths(pattern int) (w [BarsInCodeword]int, ok bool) {
	if pattern>>(ModulesInCodeword-1)&1 != 1 {
		return w, false
	}
	idx := 0
	cur := true
	for bit := ModulesInCodeword - 1; bit >= 0; bit-- {
		set := pattern>>bit&1 == 1
		if set != cur {
			idx++
			cur = set
			if idx == BarsInCodeword {
				return w, false
			}
		}
		w[idx]++
	}
	return w, idx == BarsInCodeword-1
}

// Pattern packs eight element widths, first bar first, into a 17-bit pattern.
func Pattern(w [BarsInCodeword]int) int {
	p := 0
	for i, n := range w {
		for ; n > 0; n-- {
			p <<= 1
			if i%2 == 0 {
				p |= 1
			}
		}
	}
	return p
}

// RatiosOf returns the normalized element widths of a pattern.
func RatiosOf(pattern int) Ratios {
	var r Ratios
	w, _ := Widths(pattern)
	for i, n := range w {
		r[i] = float64(n) / ModulesInCodeword
	}
	return r
}

// FormatWidths renders a pattern as its digit string, e.g. "31111136".
func FormatWidths(pattern int) string {
	w, _ := Widths(pattern)
	var sb strings.Builder
	for _, n := range w {
		sb.WriteByte(byte('0' + n))
	}
	return sb.String()
}

// ParseWidths reads a digit string produced by FormatWidths.
func ParseWidths(s string) (int, error) {
	if len(s) != BarsInCodeword {
		return 0, fmt.Errorf("symbol %q: want %d widths", s, BarsInCodeword)
	}
	var w [BarsInCodeword]int
	sum := 0
	for i := 0; i < len(s); i++ {
		n := int(s[i] - '0')
		if n < 1 || n > MaxModuleWidth {
			return 0, fmt.Errorf("symbol %q: width %q out of range", s, s[i])
		}
		w[i] = n
		sum += n
	}
	if sum != ModulesInCodeword {
		return 0, fmt.Errorf("symbol %q: widths sum to %d, want %d", s, sum, ModulesInCodeword)
	}
	return Pattern(w), nil
}

type entry struct {
	codeword int
	family   int
}

// Table maps codeword values to bar patterns for each of the three clusters
// and back. It is immutable and safe for concurrent use.
type Table struct {
	patterns [3][NumberOfCodewords]int
	lookup   map[int]entry
	all      []int
	ratios   []Ratios
}

// NewTable builds a table from three lists of 929 patterns, one per cluster
// 0, 3 and 6 in that order. Patterns must be distinct, well formed and belong
// to their cluster.
func NewTable(clusters [3][]int) (*Table, error) {
	t := &Table{lookup: make(map[int]entry, 3*NumberOfCodewords)}
	for f, list := range clusters {
		if len(list) != NumberOfCodewords {
			return nil, fmt.Errorf("cluster %d has %d patterns, want %d", Clusters[f], len(list), NumberOfCodewords)
		}
		for cw, p := range list {
			if _, ok := Widths(p); !ok {
				return nil, fmt.Errorf("cluster %d codeword %d: malformed pattern %#x", Clusters[f], cw, p)
			}
			if c := ClusterNumber(p); c != Clusters[f] {
				return nil, fmt.Errorf("cluster %d codeword %d: pattern %s is in cluster %d", Clusters[f], cw, FormatWidths(p), c)
			}
			if prev, dup := t.lookup[p]; dup {
				return nil, fmt.Errorf("pattern %s used by codewords %d and %d", FormatWidths(p), prev.codeword, cw)
			}
			t.patterns[f][cw] = p
			t.lookup[p] = entry{codeword: cw, family: f}
		}
	}
	t.all = make([]int, 0, len(t.lookup))
	for p := range t.lookup {
		t.all = append(t.all, p)
	}
	sort.Ints(t.all)
	t.ratios = make([]Ratios, len(t.all))
	for i, p := range t.all {
		t.ratios[i] = RatiosOf(p)
	}
	return t, nil
}

var (
	enumeratedOnce  sync.Once
	enumeratedTable *Table
)

// Enumerated returns the built-in table. Among all eight-element width
// tuples with widths 1..6 summing to 17, taken in lexicographic order, the
// first 929 of each cluster become codewords 0..928 of that cluster.
//
// The ISO/IEC 15438 assignment of patterns to codewords is not reproduced;
// symbols printed with it need a table read by Load.
func Enumerated() *Table {
	enumeratedOnce.Do(func() {
		var lists [3][]int
		var w [BarsInCodeword]int
		var walk func(i, remaining int)
		walk = func(i, remaining int) {
			if i == BarsInCodeword-1 {
				if remaining < 1 || remaining > MaxModuleWidth {
					return
				}
				w[i] = remaining
				c := (w[0] - w[2] + w[4] - w[6] + 18) % 9
				if c%3 == 0 && len(lists[c/3]) < NumberOfCodewords {
					lists[c/3] = append(lists[c/3], Pattern(w))
				}
				return
			}
			for n := 1; n <= MaxModuleWidth && n < remaining; n++ {
				w[i] = n
				walk(i+1, remaining-n)
			}
		}
		walk(0, ModulesInCodeword)
		t, err := NewTable(lists)
		if err != nil {
			panic(fmt.Sprintf("symbol: building enumerated table: %v", err))
		}
		enumeratedTable = t
	})
	return enumeratedTable
}

// Pattern returns the pattern of codeword cw in the given cluster (0, 3 or
// 6), or 0 when either is out of range.
func (t *Table) Pattern(cluster, cw int) int {
	if cluster < 0 || cluster > 6 || cluster%3 != 0 || cw < 0 || cw >= NumberOfCodewords {
		return 0
	}
	return t.patterns[cluster/3][cw]
}

// Codeword returns the codeword value and cluster of pattern. ok is false
// for patterns that are not in the table.
func (t *Table) Codeword(pattern int) (cw, cluster int, ok bool) {
	e, ok := t.lookup[pattern]
	if !ok {
		return -1, -1, false
	}
	return e.codeword, Clusters[e.family], true
}

// Match returns the pattern whose ratios are nearest to r by squared
// Euclidean distance. Ties go to the numerically smallest pattern.
func (t *Table) Match(r Ratios) int {
	best := 0
	bestErr := math.Inf(1)
	for i := range t.ratios {
		e := 0.0
		for k := range r {
			d := t.ratios[i][k] - r[k]
			e += d * d
		}
		if e < bestErr {
			bestErr = e
			best = t.all[i]
		}
	}
	return best
}

// ClusterPatterns returns a copy of the 929 patterns of the given cluster.
func (t *Table) ClusterPatterns(cluster int) []int {
	if cluster < 0 || cluster > 6 || cluster%3 != 0 {
		return nil
	}
	return append([]int(nil), t.patterns[cluster/3][:]...)
}
