// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"testing"
)

func TestVersionSizes(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		if got, want := v.Size(), 4*int(v)+17; got != want {
			t.Errorf("Version(%d).Size() = %d, want %d", v, got, want)
		}
	}
	classes := []struct {
		v Version
		c SizeClass
	}{{1, Class0}, {9, Class0}, {10, Class1}, {26, Class1},
		{27, Class2}, {40, Class2}}
	for _, tt := range classes {
		if got := tt.v.SizeClass(); got != tt.c {
			t.Errorf("Version(%d).SizeClass() = %d, want %d",
				tt.v, got, tt.c)
		}
	}
}

// TestCapacity checks the version table against the plan geometry:
// the number of data modules in each symbol must equal the byte
// capacity times eight, plus fewer than eight remainder bits.
func TestCapacity(t *testing.T) {
	for v := Version(MinVersion); v <= MaxVersion; v++ {
		p, err := NewPlan(v, L)
		if err != nil {
			t.Fatalf("NewPlan(%d, L): %v", v, err)
		}
		free := 0
		fix := bitmap{p.Map, p.Stride}
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				if !fix.get(x, y) {
					free++
				}
			}
		}
		// Up to seven remainder bits may be left over.
		total := vtab[v].bytes
		if free/8 != total {
			t.Errorf("version %d: %d data modules, want %d bytes",
				v, free, total)
		}
		for l := L; l <= H; l++ {
			lev := vtab[v].level[l]
			if db := total - lev.nblock*lev.check; db != v.DataBytes(l) {
				t.Errorf("version %d-%v: DataBytes = %d, want %d",
					v, l, v.DataBytes(l), db)
			} else if db <= 0 {
				t.Errorf("version %d-%v: no data capacity", v, l)
			}
		}
	}
}

func TestFormatBits(t *testing.T) {
	// Reference values from the format information table.
	tests := []struct {
		l    Level
		mask byte
		want uint32
	}{
		{M, 0, 0x5412},
		{L, 0, 0x77c4},
		{Q, 0, 0x355f},
		{H, 0, 0x1689},
	}
	for _, tt := range tests {
		if got := formatBits(tt.l, tt.mask); got != tt.want {
			t.Errorf("formatBits(%v, %d) = %#x, want %#x",
				tt.l, tt.mask, got, tt.want)
		}
	}
	// All 32 values must be distinct.
	seen := make(map[uint32]bool)
	for l := L; l <= H; l++ {
		for mask := byte(0); mask < 8; mask++ {
			fb := formatBits(l, mask)
			if seen[fb] {
				t.Errorf("formatBits(%v, %d) = %#x: duplicate",
					l, mask, fb)
			}
			seen[fb] = true
		}
	}
}

// TestNumericStream checks the data codewords of the standard's
// worked example: "01234567" at version 1-M.
func TestNumericStream(t *testing.T) {
	b := NewBits(1, M)
	Segment{"01234567", Numeric}.EncodeSegment(1, b)
	if b.Bits() != 41 {
		t.Fatalf("encoded %d bits, want 41", b.Bits())
	}
	b.AddCheckBytes(1, M)
	want := []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
		0xa5, 0x24, 0xd4, 0xc1, 0xed, 0x36, 0xc7, 0x87, 0x2c, 0x55,
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("codewords\n got %x\nwant %x", b.Bytes(), want)
	}
}

func TestAlphanumericStream(t *testing.T) {
	b := NewBits(1, Q)
	Segment{"AC-42", Alphanumeric}.EncodeSegment(1, b)
	// 0010 000000101 00111001110 11100111001 000010
	want := []byte{0x20, 0x29, 0xce, 0xe7, 0x21, 0x00}
	got := b.Bytes()
	if b.Bits() != 41 || !bytes.Equal(got, want) {
		t.Errorf("encoded %d bits %x, want 41 bits %x",
			b.Bits(), got, want)
	}
}

// TestByteStream checks the byte mode data codewords.  The header
// is 12 bits at class 0, so the payload must be packed across byte
// boundaries: 0100 00000001 01000001 0000 pads to 40 14 10.
func TestByteStream(t *testing.T) {
	b := NewBits(1, H)
	Segment{"A", Byte}.EncodeSegment(1, b)
	if b.Bits() != 20 {
		t.Fatalf("encoded %d bits, want 20", b.Bits())
	}
	b.AddCheckBytes(1, H)
	want := []byte{0x40, 0x14, 0x10, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11}
	if got := b.Bytes()[:len(want)]; !bytes.Equal(got, want) {
		t.Errorf("codewords\n got %x\nwant %x", got, want)
	}
}

func TestLatin1Stream(t *testing.T) {
	s, err := Latin1.Transform("é")
	if err != nil {
		t.Fatal(err)
	}
	b := NewBits(1, H)
	Segment{s, Latin1}.EncodeSegment(1, b)
	// 0100 00000001 11101001
	want := []byte{0x40, 0x1e, 0x90}
	if b.Bits() != 20 || !bytes.Equal(b.Bytes(), want) {
		t.Errorf("encoded %d bits %x, want 20 bits %x",
			b.Bits(), b.Bytes(), want)
	}
}

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(0x5, 3)
	b.Write(0x1ff, 9)
	b.Write(0, 4)
	if b.Bits() != 16 || !bytes.Equal(b.Bytes(), []byte{0xbf, 0xf0}) {
		t.Errorf("got %d bits %x", b.Bits(), b.Bytes())
	}
}

func TestInterleave(t *testing.T) {
	// 5-Q has four blocks: two of 15 data bytes, two of 16.
	v, l := Version(5), Q
	nd := v.DataBytes(l)
	if nd != 62 {
		t.Fatalf("5-Q data bytes = %d, want 62", nd)
	}
	b := NewBits(v, l)
	for i := 0; i < nd; i++ {
		b.Write(uint32(i), 8)
	}
	b.AddCheckBytes(v, l)
	s := b.Permute(v, l)
	got := make([]byte, 0, nd)
	for i := 0; i < nd; i++ {
		var c byte
		for j := 0; j < 8; j++ {
			c = c<<1 | s.Next()
		}
		got = append(got, c)
	}
	// Blocks are 0..14, 15..29, 30..45 and 46..61, interleaved
	// bytewise with the long blocks supplying the trailing bytes.
	want := make([]byte, 0, nd)
	for i := 0; i < 15; i++ {
		want = append(want, byte(i), byte(15+i), byte(30+i), byte(46+i))
	}
	want = append(want, 45, 61)
	if !bytes.Equal(got, want) {
		t.Errorf("interleave\n got %v\nwant %v", got, want)
	}
}

func TestModeTransform(t *testing.T) {
	tests := []struct {
		mode Mode
		in   string
		out  string
		ok   bool
	}{
		{Numeric, "0123456789", "0123456789", true},
		{Numeric, "12a", "", false},
		{Alphanumeric, "HELLO WORLD $1", "HELLO WORLD $1", true},
		{Alphanumeric, "hello", "", false},
		{Byte, "any\x00thing", "any\x00thing", true},
		{Byte, "bad\xff", "", false},
		{Latin1, "café", "caf\xe9", true},
		{Latin1, "点", "", false},
		{Kanji, "点茶", "\x93\x5f\x92\x83", true},
		{Kanji, "abc", "", false},
	}
	for _, tt := range tests {
		out, err := tt.mode.Transform(tt.in)
		if (err == nil) != tt.ok || out != tt.out {
			t.Errorf("%v.Transform(%q) = %q, %v; want %q, ok=%v",
				tt.mode, tt.in, out, err, tt.out, tt.ok)
		}
	}
}

func TestIsKanji(t *testing.T) {
	for _, r := range "点茶あ漢" {
		if !IsKanji(r) {
			t.Errorf("IsKanji(%q) = false", r)
		}
	}
	for _, r := range "aé9 ." {
		if IsKanji(r) {
			t.Errorf("IsKanji(%q) = true", r)
		}
	}
}

func TestPlanPatterns(t *testing.T) {
	for _, v := range []Version{1, 2, 7, 14, 40} {
		p, err := NewPlan(v, Q)
		if err != nil {
			t.Fatalf("NewPlan(%d, Q): %v", v, err)
		}
		siz := v.Size()
		for m, pat := range p.Pattern {
			c := Code{Bitmap: pat, Size: siz, Stride: p.Stride}
			// Finder centres are dark, inner rings white.
			for _, at := range [][2]int{
				{3, 3}, {siz - 4, 3}, {3, siz - 4},
			} {
				if !c.Black(at[0], at[1]) {
					t.Errorf("v%d mask %d: finder centre %v white",
						v, m, at)
				}
				if c.Black(at[0]-2, at[1]-2) {
					t.Errorf("v%d mask %d: finder ring %v dark",
						v, m, at)
				}
			}
			// Separators are white.
			if c.Black(7, 0) || c.Black(0, 7) || c.Black(siz-8, 0) {
				t.Errorf("v%d mask %d: separator dark", v, m)
			}
			// Timing pattern alternates.
			for i := 8; i < siz-8; i++ {
				if c.Black(i, 6) != (i%2 == 0) ||
					c.Black(6, i) != (i%2 == 0) {
					t.Errorf("v%d mask %d: timing wrong at %d", v, m, i)
					break
				}
			}
			// Dark module.
			if !c.Black(8, siz-8) {
				t.Errorf("v%d mask %d: dark module white", v, m)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	c, err := Encode(1, M, Segment{"01234567", Numeric})
	if err != nil {
		t.Fatal(err)
	}
	if c.Size != 21 || c.Version != 1 || c.Level != M {
		t.Errorf("got %d-module version %d code", c.Size, c.Version)
	}
	// Deterministic: same input, same symbol.
	c2, err := Encode(1, M, Segment{"01234567", Numeric})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.Bitmap, c2.Bitmap) || c.Mask != c2.Mask {
		t.Error("encoding is not deterministic")
	}
}

func TestEncodeTooLong(t *testing.T) {
	long := bytes.Repeat([]byte("9"), 100)
	_, err := Encode(1, H, Segment{string(long), Numeric})
	if _, ok := err.(ErrDataTooLong); !ok {
		t.Errorf("got %v, want ErrDataTooLong", err)
	}
}

func TestPenaltyBalance(t *testing.T) {
	// An all-white 21x21 grid: maximum imbalance scores 90, runs
	// score (21-2)*21 both ways, finder patterns complete in the
	// quiet zone on both sides of every row and column score
	// nothing, and 2x2 blocks score 3*20*20.
	c := Code{Bitmap: make([]byte, 3*21), Size: 21, Stride: 3}
	if got := c.penaltyBalance(); got != 90 {
		t.Errorf("all-white balance penalty = %d, want 90", got)
	}
	if got := c.penaltyRuns(); got != 2*21*19 {
		t.Errorf("all-white run penalty = %d, want %d", got, 2*21*19)
	}
	if got := c.penaltyBlocks(); got != 3*20*20 {
		t.Errorf("all-white block penalty = %d, want %d", got, 3*20*20)
	}
	if got := c.penaltyFinders(); got != 0 {
		t.Errorf("all-white finder penalty = %d, want 0", got)
	}
}

func TestPenaltyFinders(t *testing.T) {
	// A single horizontal 1011101 run at the left edge of an
	// otherwise white grid is preceded and followed by light
	// modules, matching the pattern in both orientations.
	c := Code{Bitmap: make([]byte, 3*21), Size: 21, Stride: 3}
	for _, x := range []int{0, 2, 3, 4, 6} {
		c.Bitmap[5*3+x/8] |= 0x80 >> uint(x%8)
	}
	// Horizontal: quiet zone before, plus four whites after.
	// Vertical: none.
	if got := c.penaltyFinders(); got != 80 {
		t.Errorf("finder penalty = %d, want 80", got)
	}
}
