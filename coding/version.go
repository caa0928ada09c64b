// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strconv"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// A Version represents a QR symbol version.  The version specifies
// the size of the symbol: a QR code with version v has 4v+17 modules
// on a side.  The larger the version, the more information the code
// can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a valid QR version.
func (v Version) IsValid() bool {
	return MinVersion <= v && v <= MaxVersion
}

// Size returns the number of modules on a side of a symbol
// with version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// A SizeClass groups versions whose segments share the same
// character count field widths.
type SizeClass int

const (
	Class0 SizeClass = iota // QR versions 1 to 9
	Class1                  // QR versions 10 to 26
	Class2                  // QR versions 27 to 40
)

// SizeClass returns the size class of v.
func (v Version) SizeClass() SizeClass {
	switch {
	case v <= 9:
		return Class0
	case v <= 26:
		return Class1
	}
	return Class2
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is a valid error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

// DataBytes returns the number of data bytes that can be stored in a
// symbol with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be stored in a
// symbol with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// alignCenters returns the alignment pattern center coordinates
// for v, on one axis.
func (v Version) alignCenters() []int {
	vt := &vtab[v]
	if vt.afirst == 0 {
		return nil
	}
	c := []int{6, vt.afirst}
	if vt.astride != 0 {
		for x := vt.afirst + vt.astride; x <= v.Size()-7; x += vt.astride {
			c = append(c, x)
		}
	}
	return c
}

// A version describes the static coding parameters of a QR version.
type version struct {
	afirst  int      // second alignment center (the first is 6); 0 if none
	astride int      // distance between subsequent centers; 0 if ≤ 2 centers
	bytes   int      // total codewords
	vinfo   uint32   // 18-bit version information; 0 for versions below 7
	level   [4]level // error correction block structure per level
}

// A level describes the error correction block structure of one
// (version, level) pair: the number of Reed-Solomon blocks and the
// number of parity bytes per block.
type level struct {
	nblock int
	check  int
}

// Version parameter table, indexed by version.  Capacities, block
// structures and alignment positions are fixed by the QR standard;
// any deviation produces symbols real scanners cannot read.
var vtab = [MaxVersion + 1]version{
	1:  {0, 0, 26, 0, [4]level{{1, 7}, {1, 10}, {1, 13}, {1, 17}}},
	2:  {18, 0, 44, 0, [4]level{{1, 10}, {1, 16}, {1, 22}, {1, 28}}},
	3:  {22, 0, 70, 0, [4]level{{1, 15}, {1, 26}, {2, 18}, {2, 22}}},
	4:  {26, 0, 100, 0, [4]level{{1, 20}, {2, 18}, {2, 26}, {4, 16}}},
	5:  {30, 0, 134, 0, [4]level{{1, 26}, {2, 24}, {4, 18}, {4, 22}}},
	6:  {34, 0, 172, 0, [4]level{{2, 18}, {4, 16}, {4, 24}, {4, 28}}},
	7:  {22, 16, 196, 0x07c94, [4]level{{2, 20}, {4, 18}, {6, 18}, {5, 26}}},
	8:  {24, 18, 242, 0x085bc, [4]level{{2, 24}, {4, 22}, {6, 22}, {6, 26}}},
	9:  {26, 20, 292, 0x09a99, [4]level{{2, 30}, {5, 22}, {8, 20}, {8, 24}}},
	10: {28, 22, 346, 0x0a4d3, [4]level{{4, 18}, {5, 26}, {8, 24}, {8, 28}}},
	11: {30, 24, 404, 0x0bbf6, [4]level{{4, 20}, {5, 30}, {8, 28}, {11, 24}}},
	12: {32, 26, 466, 0x0c762, [4]level{{4, 24}, {8, 22}, {10, 26}, {11, 28}}},
	13: {34, 28, 532, 0x0d847, [4]level{{4, 26}, {9, 22}, {12, 24}, {16, 22}}},
	14: {26, 20, 581, 0x0e60d, [4]level{{4, 30}, {9, 24}, {16, 20}, {16, 24}}},
	15: {26, 22, 655, 0x0f928, [4]level{{6, 22}, {10, 24}, {12, 30}, {18, 24}}},
	16: {26, 24, 733, 0x10b78, [4]level{{6, 24}, {10, 28}, {17, 24}, {16, 30}}},
	17: {30, 24, 815, 0x1145d, [4]level{{6, 28}, {11, 28}, {16, 28}, {19, 28}}},
	18: {30, 26, 901, 0x12a17, [4]level{{6, 30}, {13, 26}, {18, 28}, {21, 28}}},
	19: {30, 28, 991, 0x13532, [4]level{{7, 28}, {14, 26}, {21, 26}, {25, 26}}},
	20: {34, 28, 1085, 0x149a6, [4]level{{8, 28}, {16, 26}, {20, 30}, {25, 28}}},
	21: {28, 22, 1156, 0x15683, [4]level{{8, 28}, {17, 26}, {23, 28}, {25, 30}}},
	22: {26, 24, 1258, 0x168c9, [4]level{{9, 28}, {17, 28}, {23, 30}, {34, 24}}},
	23: {30, 24, 1364, 0x177ec, [4]level{{9, 30}, {18, 28}, {25, 30}, {30, 30}}},
	24: {28, 26, 1474, 0x18ec4, [4]level{{10, 30}, {20, 28}, {27, 30}, {32, 30}}},
	25: {32, 26, 1588, 0x191e1, [4]level{{12, 26}, {21, 28}, {29, 30}, {35, 30}}},
	26: {30, 28, 1706, 0x1afab, [4]level{{12, 28}, {23, 28}, {34, 28}, {37, 30}}},
	27: {34, 28, 1828, 0x1b08e, [4]level{{12, 30}, {25, 28}, {34, 30}, {40, 30}}},
	28: {26, 24, 1921, 0x1cc1a, [4]level{{13, 30}, {26, 28}, {35, 30}, {42, 30}}},
	29: {30, 24, 2051, 0x1d33f, [4]level{{14, 30}, {28, 28}, {38, 30}, {45, 30}}},
	30: {26, 26, 2185, 0x1ed75, [4]level{{15, 30}, {29, 28}, {40, 30}, {48, 30}}},
	31: {30, 26, 2323, 0x1f250, [4]level{{16, 30}, {31, 28}, {43, 30}, {51, 30}}},
	32: {34, 26, 2465, 0x209d5, [4]level{{17, 30}, {33, 28}, {45, 30}, {54, 30}}},
	33: {30, 28, 2611, 0x216f0, [4]level{{18, 30}, {35, 28}, {48, 30}, {57, 30}}},
	34: {34, 28, 2761, 0x228ba, [4]level{{19, 30}, {37, 28}, {51, 30}, {60, 30}}},
	35: {30, 24, 2876, 0x2379f, [4]level{{19, 30}, {38, 28}, {53, 30}, {63, 30}}},
	36: {24, 26, 3034, 0x24b0b, [4]level{{20, 30}, {40, 28}, {56, 30}, {66, 30}}},
	37: {28, 26, 3196, 0x2542e, [4]level{{21, 30}, {43, 28}, {59, 30}, {70, 30}}},
	38: {32, 26, 3362, 0x26a64, [4]level{{22, 30}, {45, 28}, {62, 30}, {74, 30}}},
	39: {26, 28, 3532, 0x27541, [4]level{{24, 30}, {47, 28}, {65, 30}, {77, 30}}},
	40: {30, 28, 3706, 0x28c69, [4]level{{25, 30}, {49, 28}, {68, 30}, {81, 30}}},
}
