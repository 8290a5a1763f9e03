// file: pkg/bitstream/bitstream.go

// Package bitstream provides a read-only view over a demodulated bitcell
// sequence, with bit-aligned extraction and fixed-pattern search. Bits are
// addressed MSB-first within each byte, matching the order a demodulator
// emits them.
package bitstream

import "errors"

var ErrPatternWidth = errors.New("pattern width must be 1..64 bits")

// Bits is an immutable bit sequence backed by a packed byte slice.
type Bits struct {
	data []byte
	n    int
}

// FromBytes wraps b as a bit sequence of n bits. If n is negative the full
// length of b is used.
func FromBytes(b []byte, n int) *Bits {
	if n < 0 || n > len(b)*8 {
		n = len(b) * 8
	}
	return &Bits{data: b, n: n}
}

// Len returns the number of bits in the sequence.
func (b *Bits) Len() int { return b.n }

// Bit returns the bit at offset i (0 or 1). Offsets past the end read as 0.
func (b *Bits) Bit(i int) byte {
	if i < 0 || i >= b.n {
		return 0
	}
	return (b.data[i>>3] >> (7 - uint(i&7))) & 1
}

// Bytes extracts bits [start, end) packed MSB-first into a fresh byte slice.
// The final byte is zero-padded when end-start is not a multiple of 8.
func (b *Bits) Bytes(start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if end > b.n {
		end = b.n
	}
	if end <= start {
		return nil
	}
	n := end - start
	out := make([]byte, (n+7)/8)
	if start&7 == 0 {
		copy(out, b.data[start>>3:(end+7)>>3])
		if n&7 != 0 {
			out[len(out)-1] &= byte(0xff << (8 - uint(n&7)))
		}
		return out
	}
	shift := uint(start & 7)
	src := b.data[start>>3:]
	for i := range out {
		v := src[i] << shift
		if i+1 < len(src) {
			v |= src[i+1] >> (8 - shift)
		}
		out[i] = v
	}
	if n&7 != 0 {
		out[len(out)-1] &= byte(0xff << (8 - uint(n&7)))
	}
	return out
}

// Search returns the offsets of every occurrence of the low `width` bits of
// pattern within the sequence, using a single sliding-window pass.
func (b *Bits) Search(pattern uint64, width int) ([]int, error) {
	if width < 1 || width > 64 {
		return nil, ErrPatternWidth
	}
	var offs []int
	mask := ^uint64(0)
	if width < 64 {
		mask = uint64(1)<<uint(width) - 1
	}
	pattern &= mask
	var w uint64
	for i := 0; i < b.n; i++ {
		w = (w<<1 | uint64(b.Bit(i))) & mask
		if i+1 >= width && w == pattern {
			offs = append(offs, i+1-width)
		}
	}
	return offs, nil
}
