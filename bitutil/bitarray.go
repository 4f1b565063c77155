// Package bitutil holds the packed bit containers shared by the binarizers,
// the detector and the samplers.
package bitutil

import (
	"math/bits"
	"strings"
)

// BitArray is a fixed-size row of bits packed into uint32 words. Bit i lives
// in word i/32 at position i%32.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates a cleared BitArray holding size bits.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{bits: make([]uint32, (size+31)/32), size: size}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// Get reports whether bit i is set.
func (ba *BitArray) Get(i int) bool {
	return ba.bits[i/32]&(1<<uint(i&0x1F)) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i&0x1F)
}

// SetWord replaces the 32 bits starting at bit i, which must be a multiple of 32.
func (ba *BitArray) SetWord(i int, word uint32) {
	ba.bits[i/32] = word
}

// Clear unsets every bit.
func (ba *BitArray) Clear() {
	clear(ba.bits)
}

// NextSet returns the index of the first set bit at or after from, or Size()
// when there is none.
func (ba *BitArray) NextSet(from int) int {
	return ba.next(from, 0)
}

// NextUnset returns the index of the first unset bit at or after from, or
// Size() when there is none.
func (ba *BitArray) NextUnset(from int) int {
	return ba.next(from, ^uint32(0))
}

func (ba *BitArray) next(from int, invert uint32) int {
	if from >= ba.size {
		return ba.size
	}
	word := from / 32
	cur := (ba.bits[word] ^ invert) & (^uint32(0) << uint(from&0x1F))
	for cur == 0 {
		word++
		if word == len(ba.bits) {
			return ba.size
		}
		cur = ba.bits[word] ^ invert
	}
	return min(word*32+bits.TrailingZeros32(cur), ba.size)
}

// SetRange sets bits [start, end).
func (ba *BitArray) SetRange(start, end int) {
	for i := start; i < end; i++ {
		ba.Set(i)
	}
}

// IsRange reports whether every bit in [start, end) equals value.
func (ba *BitArray) IsRange(start, end int, value bool) bool {
	for i := start; i < end; i++ {
		if ba.Get(i) != value {
			return false
		}
	}
	return true
}

// Words exposes the packed storage.
func (ba *BitArray) Words() []uint32 {
	return ba.bits
}

// Runs returns the lengths of the alternating runs of equal bits in
// [from, to), starting with a run of value first. A leading run of the other
// value is reported as a zero-length first run.
func (ba *BitArray) Runs(from, to int, first bool) []int {
	var runs []int
	want := first
	x := from
	for x < to {
		var end int
		if want {
			end = ba.NextUnset(x)
		} else {
			end = ba.NextSet(x)
		}
		end = min(end, to)
		runs = append(runs, end-x)
		x = end
		want = !want
	}
	return runs
}

// Clone returns a deep copy.
func (ba *BitArray) Clone() *BitArray {
	return &BitArray{bits: append([]uint32(nil), ba.bits...), size: ba.size}
}

// String renders set bits as 'X' and unset bits as '.', in groups of eight.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
