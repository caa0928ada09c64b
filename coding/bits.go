// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/qrbrand/qr/gf256"

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// Bits is a bit buffer accumulating an encoded data stream,
// most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a symbol of the
// given version and level.
func NewBits(v Version, l Level) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written so far.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the written bytes.  The trailing fractional byte,
// if any, is included, zero padded.
func (b *Bits) Bytes() []byte { return b.b }

// Write appends the nbit low bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	v <<= 32 - uint(nbit)
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - uint(rem)))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= uint(rem)
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// append appends bytes to b.  Following the segment header b is
// usually not byte aligned, so the bytes are packed through Write;
// an aligned buffer takes the raw append fast path.
func (b *Bits) append(s string) {
	if b.nbit&7 == 0 {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
		return
	}
	for ; len(s) >= 4; s = s[4:] {
		b.Write(uint32(s[0])<<24|uint32(s[1])<<16|
			uint32(s[2])<<8|uint32(s[3]), 32)
	}
	if s != "" {
		var v uint32
		for i := 0; i < len(s); i++ {
			v = v<<8 | uint32(s[i])
		}
		b.Write(v, 8*len(s))
	}
}

// padTo adds up to t zero terminator bits and then pads b to n bits
// with the alternating pad bytes ec 11 mandated by the standard.
func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	pad := byte(0xec)
	for len(b.b) < n/8 {
		b.b = append(b.b, pad)
		pad ^= 0xec ^ 0x11
	}
	b.nbit = len(b.b) * 8
}

// AddCheckBytes adds the terminator, padding and per-block
// Reed-Solomon parity to b for the given version and level.
// The caller must ensure the data fits.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nd := v.DataBytes(l)
	b.padTo(4, nd*8)

	lev := vtab[v].level[l]
	dat := b.b[:nd:nd]
	// Block lengths differ by at most one; the shorter blocks
	// come first.
	db := nd / lev.nblock
	long := lev.nblock*(db+1) - nd
	rs := gf256.NewRSEncoder(Field, lev.check)
	for i := 0; i < lev.nblock; i++ {
		if i == long {
			db++
		}
		start := len(b.b)
		b.b = append(b.b, make([]byte, lev.check)...)
		rs.ECC(dat[:db], b.b[start:])
		dat = dat[db:]
	}
	b.nbit = len(b.b) * 8
}

// Permute returns a BitStream reading the data and parity in b with
// blocks interleaved in round-robin order, as placed in the symbol.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.Bytes()
	nblock := vtab[v].level[l].nblock
	if nblock == 1 {
		return NewBitStream(src)
	}
	dst := make([]byte, len(src))
	nd := v.DataBytes(l)
	interleave(dst[:nd], src[:nd], nblock)
	interleave(dst[nd:], src[nd:], nblock)
	return NewBitStream(dst)
}

// interleave interleaves nblock blocks from src to dst, which must
// be of equal length.  When blocks are of unequal length, the first
// blocks are the shorter ones and their trailing byte is absent.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	short := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= short {
			extra[i-short] = src[0]
			src = src[1:]
		}
	}
}

// BitStream reads bits from an underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Next returns the next bit from s as 0 or 1.
// Past the end of the buffer Next returns 0, supplying the remainder
// bits of versions whose module capacity is not a whole byte count.
func (s *BitStream) Next() byte {
	var v byte
	if i := s.pos >> 3; i < len(s.b) {
		v = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return v
}
