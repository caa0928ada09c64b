// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import (
	"bytes"
	"testing"
)

var f = NewField(0x11d, 2)

func TestFieldTables(t *testing.T) {
	if f.Exp(0) != 1 || f.Exp(1) != 2 || f.Exp(2) != 4 || f.Exp(3) != 8 {
		t.Fatalf("low powers of α wrong: %d %d %d %d",
			f.Exp(0), f.Exp(1), f.Exp(2), f.Exp(3))
	}
	// α⁸ = α⁴+α³+α²+1 under 0x11d
	if f.Exp(8) != 0x1d {
		t.Errorf("Exp(8) = %#x, want 0x1d", f.Exp(8))
	}
	// log and exp are inverses
	for i := 0; i < 255; i++ {
		if f.Log(f.Exp(i)) != i {
			t.Fatalf("Log(Exp(%d)) = %d", i, f.Log(f.Exp(i)))
		}
	}
	// the multiplicative group has order 255
	if f.Exp(255) != 1 {
		t.Errorf("Exp(255) = %d, want 1", f.Exp(255))
	}
}

func TestMul(t *testing.T) {
	for _, c := range []struct{ x, y, p byte }{
		{0, 0, 0},
		{1, 1, 1},
		{2, 3, 6},
		{3, 4, 12},
		{0x80, 2, 0x1d},
		{0xff, 0, 0},
	} {
		if p := f.Mul(c.x, c.y); p != c.p {
			t.Errorf("Mul(%#x, %#x) = %#x, want %#x", c.x, c.y, p, c.p)
		}
	}
	// distributivity spot check over the whole field against
	// the bitwise multiplication used during construction
	for x := 0; x < 256; x += 7 {
		for y := 0; y < 256; y += 11 {
			if got, want := f.Mul(byte(x), byte(y)),
				byte(mul(x, y, 0x11d)); got != want {
				t.Fatalf("Mul(%#x, %#x) = %#x, want %#x",
					x, y, got, want)
			}
		}
	}
}

func TestGen(t *testing.T) {
	// (x-α⁰)(x-α¹) = x² + 3x + 2
	if g := NewRSEncoder(f, 2).Gen(); !bytes.Equal(g, []byte{1, 3, 2}) {
		t.Errorf("gen(2) = %v, want [1 3 2]", g)
	}
	// ·(x-α²) = x³ + 7x² + 14x + 8
	if g := NewRSEncoder(f, 3).Gen(); !bytes.Equal(g, []byte{1, 7, 14, 8}) {
		t.Errorf("gen(3) = %v, want [1 7 14 8]", g)
	}
}

// TestECCRoots checks the Reed-Solomon defining property: the full
// codeword polynomial data·xᶜ+parity evaluates to zero at every root
// α⁰..αᶜ⁻¹ of the generator.
func TestECCRoots(t *testing.T) {
	for _, c := range []int{2, 7, 10, 17, 30} {
		rs := NewRSEncoder(f, c)
		data := make([]byte, 32)
		for i := range data {
			data[i] = byte(i*i + 1)
		}
		check := make([]byte, c)
		rs.ECC(data, check)
		cw := append(append([]byte{}, data...), check...)
		for e := 0; e < c; e++ {
			x := f.Exp(e)
			var v byte
			for _, b := range cw {
				v = f.Add(f.Mul(v, x), b)
			}
			if v != 0 {
				t.Errorf("c=%d: codeword(α^%d) = %#x, want 0",
					c, e, v)
			}
		}
	}
}

func TestECCZeroData(t *testing.T) {
	rs := NewRSEncoder(f, 10)
	check := make([]byte, 10)
	rs.ECC(make([]byte, 19), check)
	if !bytes.Equal(check, make([]byte, 10)) {
		t.Errorf("parity of zero message = %v, want zeros", check)
	}
}
