// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois field GF(256)
// and Reed-Solomon parity generation over that field.
package gf256

// A Field represents GF(256) defined by a generator polynomial
// and a generator element α.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte
}

// NewField returns a Field defined by the given degree-8 polynomial
// and generator α.  For QR codes the polynomial is x⁸+x⁴+x³+x²+1
// (0x11d) and α is 2.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial")
	}
	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: generator does not generate the field")
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// reducible reports whether the polynomial p has a nontrivial factor.
// Degree-8 polynomials only need trial division by factors up to
// degree 4.
func reducible(p int) bool {
	for q := 2; q < 1<<5; q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// polyDiv returns the remainder of the polynomial division p/q
// over GF(2).
func polyDiv(p, q int) int {
	for shift := nbits(p) - nbits(q); shift >= 0; shift-- {
		if p&(1<<(shift+nbits(q)-1)) != 0 {
			p ^= q << shift
		}
	}
	return p
}

func nbits(p int) (n int) {
	for ; p != 0; p >>= 1 {
		n++
	}
	return
}

// mul multiplies x and y modulo the polynomial, bit by bit.
// Used only during field construction; the table-driven Mul
// serves afterwards.
func mul(x, y, poly int) int {
	z := 0
	for ; x != 0; x >>= 1 {
		if x&1 != 0 {
			z ^= y
		}
		if y <<= 1; y >= 0x100 {
			y ^= poly
		}
	}
	return z
}

// Add returns the sum of x and y in the field,
// which is the same in every GF(256).
func (f *Field) Add(x, y byte) byte { return x ^ y }

// Exp returns αᵉ.
func (f *Field) Exp(e int) byte {
	return f.exp[e%255]
}

// Log returns log α of x.  Log of 0 is undefined and panics.
func (f *Field) Log(x byte) int {
	if x == 0 {
		panic("gf256: log of zero")
	}
	return int(f.log[x])
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// An RSEncoder generates Reed-Solomon parity over a Field.
type RSEncoder struct {
	f    *Field
	c    int
	lgen []byte // log of generator polynomial coefficients, sans leading 1
}

// NewRSEncoder returns an RSEncoder generating c parity bytes,
// using the generator polynomial g(x) = (x-α⁰)(x-α¹)···(x-αᶜ⁻¹).
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c < 1 || c > 254 {
		panic("gf256: invalid parity count")
	}
	// Build the generator polynomial by repeated multiplication
	// with (x - αⁱ).  gen[0] is the leading coefficient, always 1.
	gen := make([]byte, c+1)
	gen[0] = 1
	for i := 0; i < c; i++ {
		root := f.Exp(i)
		for j := i + 1; j > 0; j-- {
			gen[j] = f.Add(f.Mul(gen[j], root), gen[j-1])
		}
		gen[0] = f.Mul(gen[0], root)
	}
	// gen is built low degree first above; reverse into the
	// conventional high-to-low order and drop the leading 1.
	for i, j := 0, len(gen)-1; i < j; i, j = i+1, j-1 {
		gen[i], gen[j] = gen[j], gen[i]
	}
	lgen := make([]byte, c)
	for i, v := range gen[1:] {
		lgen[i] = byte(f.Log(v))
	}
	return &RSEncoder{f: f, c: c, lgen: lgen}
}

// Gen returns the generator polynomial coefficients, high degree
// first, including the leading 1.
func (rs *RSEncoder) Gen() []byte {
	g := make([]byte, rs.c+1)
	g[0] = 1
	for i, lv := range rs.lgen {
		g[i+1] = rs.f.exp[lv]
	}
	return g
}

// ECC writes the c parity bytes for data into check,
// which must be c bytes long.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	if len(check) != rs.c {
		panic("gf256: invalid check byte length")
	}
	// Polynomial long division of data·xᶜ by the generator;
	// check accumulates the remainder.
	f := rs.f
	for i := range check {
		check[i] = 0
	}
	for _, d := range data {
		lead := d ^ check[0]
		copy(check, check[1:])
		check[rs.c-1] = 0
		if lead == 0 {
			continue
		}
		llead := int(f.log[lead])
		for j, lv := range rs.lgen {
			check[j] ^= f.exp[int(lv)+llead]
		}
	}
}
