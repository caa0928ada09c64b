// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Plan describes how to construct a QR code of a particular
// version and level: which modules hold data, and the eight
// pre-masked layouts of the function patterns.
type Plan struct {
	Version Version
	Level   Level

	DataBits int // number of data bits
	Size     int // number of modules per side
	Stride   int // number of bytes per row in the bitmaps

	// Map marks function modules: a 1 bit means the module is
	// part of a fixed pattern and carries no data.
	Map []byte

	// Pattern[m] is the bitmap of the function patterns, format
	// and version information drawn for mask m, with the mask
	// itself applied to the data region.
	Pattern [8][]byte
}

type bitmap struct {
	b      []byte
	stride int
}

func newBitmap(siz int) bitmap {
	stride := (siz + 7) / 8
	return bitmap{make([]byte, stride*siz), stride}
}

func (b bitmap) set(x, y int) {
	b.b[y*b.stride+x/8] |= 0x80 >> uint(x%8)
}

func (b bitmap) setIf(x, y int, v byte) {
	if v&1 != 0 {
		b.set(x, y)
	}
}

func (b bitmap) get(x, y int) bool {
	return b.b[y*b.stride+x/8]&(0x80>>uint(x%8)) != 0
}

// NewPlan constructs a Plan for the given version and level.
func NewPlan(v Version, l Level) (*Plan, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	siz := v.Size()
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBytes(l) * 8,
		Size:     siz,
		Stride:   (siz + 7) / 8,
	}
	fix := newBitmap(siz)
	p.drawFunction(fix)
	p.Map = fix.b
	for m := range p.Pattern {
		pat := newBitmap(siz)
		copy(pat.b, fix.b)
		p.drawFormat(pat, byte(m))
		p.drawMask(pat, fix, byte(m))
		p.Pattern[m] = pat.b
	}
	return p, nil
}

// drawFunction draws the function patterns on b and marks every
// reserved module, including the format and version information
// areas that drawFormat fills in later.
func (p *Plan) drawFunction(b bitmap) {
	siz := p.Size

	// Finder patterns with separators, top left, top right,
	// bottom left.  The separator ring is marked but left white.
	finder := func(x0, y0 int) {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				x, y := x0+dx, y0+dy
				if x < 0 || y < 0 || x >= siz || y >= siz {
					continue
				}
				b.set(x, y)
			}
		}
	}
	finder(0, 0)
	finder(siz-7, 0)
	finder(0, siz-7)

	// Timing patterns.
	for i := 8; i < siz-8; i++ {
		b.set(i, 6)
		b.set(6, i)
	}

	// Alignment patterns, except where they would overlap the
	// finder patterns.
	for _, cy := range p.Version.alignCenters() {
		for _, cx := range p.Version.alignCenters() {
			if cx <= 8 && cy <= 8 ||
				cx >= siz-9 && cy <= 8 ||
				cx <= 8 && cy >= siz-9 {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					b.set(cx+dx, cy+dy)
				}
			}
		}
	}

	// Format information areas next to the finders.
	for i := 0; i < 9; i++ {
		b.set(i, 8)
		b.set(8, i)
	}
	for i := 0; i < 8; i++ {
		b.set(siz-1-i, 8)
		b.set(8, siz-1-i)
	}

	// Version information blocks for version 7 and up.
	if vi := vtab[p.Version].vinfo; vi != 0 {
		for i := 0; i < 18; i++ {
			b.set(i/3, siz-11+i%3)
			b.set(siz-11+i%3, i/3)
		}
	}
}

// formatBits returns the 15 bit format information for a level and
// mask: two level bits and three mask bits, ten BCH check bits, all
// xored with 0x5412.
func formatBits(l Level, mask byte) uint32 {
	fb := uint32(l^1)<<3 | uint32(mask)
	rem := fb << 10
	for rem >= 1<<10 {
		var hi uint
		for rem>>hi > 1 {
			hi++
		}
		rem ^= 0x537 << (hi - 10)
	}
	return (fb<<10 | rem) ^ 0x5412
}

// drawFormat draws the finder and timing dark modules, the dark
// module, the format information for the given mask and, where
// present, the version information.
func (p *Plan) drawFormat(b bitmap, mask byte) {
	siz := p.Size

	// Finder patterns: dark outer ring and centre, white inner
	// ring and separator.
	finder := func(x0, y0 int) {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				x, y := x0+dx, y0+dy
				if x < 0 || y < 0 || x >= siz || y >= siz {
					continue
				}
				on := dx >= 0 && dx <= 6 && dy >= 0 && dy <= 6 &&
					(dx == 0 || dx == 6 || dy == 0 || dy == 6 ||
						dx >= 2 && dx <= 4 && dy >= 2 && dy <= 4)
				if !on {
					b.b[y*b.stride+x/8] &^= 0x80 >> uint(x%8)
				}
			}
		}
	}
	finder(0, 0)
	finder(siz-7, 0)
	finder(0, siz-7)

	// drawFunction set every timing module dark; clear the
	// white ones.
	for i := 8; i < siz-8; i++ {
		if i%2 != 0 {
			b.b[6*b.stride+i/8] &^= 0x80 >> uint(i%8)
			b.b[i*b.stride+6/8] &^= 0x80 >> uint(6%8)
		}
	}

	// Alignment patterns: 5x5 with a white 3x3 ring.
	for _, cy := range p.Version.alignCenters() {
		for _, cx := range p.Version.alignCenters() {
			if cx <= 8 && cy <= 8 ||
				cx >= siz-9 && cy <= 8 ||
				cx <= 8 && cy >= siz-9 {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx != 0 || dy != 0 {
						b.b[(cy+dy)*b.stride+(cx+dx)/8] &^=
							0x80 >> uint((cx+dx)%8)
					}
				}
			}
		}
	}

	// Format information, bit 0 (least significant) first.
	// First copy around the top left finder, second copy split
	// between the top right and bottom left finders.
	fb := formatBits(p.Level, mask)
	clearRow := func(x, y int) {
		b.b[y*b.stride+x/8] &^= 0x80 >> uint(x%8)
	}
	for i := 0; i < 15; i++ {
		v := byte(fb >> uint(i) & 1)
		var x, y int
		switch {
		case i < 6:
			x, y = 8, i
		case i < 8:
			x, y = 8, i+1
		case i == 8:
			x, y = 7, 8
		default:
			x, y = 14-i, 8
		}
		clearRow(x, y)
		b.setIf(x, y, v)
		if i < 8 {
			x, y = siz-1-i, 8
		} else {
			x, y = 8, siz-15+i
		}
		clearRow(x, y)
		b.setIf(x, y, v)
	}
	// Dark module.
	b.set(8, siz-8)

	// Version information, bit 0 first, in a 3x6 block above the
	// bottom left finder and its transpose left of the top right
	// finder.
	if vi := vtab[p.Version].vinfo; vi != 0 {
		for i := 0; i < 18; i++ {
			v := byte(vi >> uint(i) & 1)
			b.setIf(i/3, siz-11+i%3, v)
			b.setIf(siz-11+i%3, i/3, v)
		}
	}
}

// masked reports whether mask inverts the module at x, y.
func masked(mask byte, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	default:
		return ((x+y)%2+x*y%3)%2 == 0
	}
}

// drawMask applies mask to the data region of b, the modules not
// marked in fix.
func (p *Plan) drawMask(b, fix bitmap, mask byte) {
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !fix.get(x, y) && masked(mask, x, y) {
				b.set(x, y)
			}
		}
	}
}

// Serialise places the bits from s into the data modules of a
// bitmap in symbol order: two module wide columns boustrophedon
// from the bottom right, skipping the vertical timing column.
func (p *Plan) Serialise(s BitStream) []byte {
	siz := p.Size
	fix := bitmap{p.Map, p.Stride}
	b := newBitmap(siz)
	up := true
	for right := siz - 1; right > 0; right -= 2 {
		if right == 6 {
			right--
		}
		y0, dy := siz-1, -1
		if !up {
			y0, dy = 0, 1
		}
		for i, y := 0, y0; i < siz; i, y = i+1, y+dy {
			for _, x := range [2]int{right, right - 1} {
				if !fix.get(x, y) {
					b.setIf(x, y, s.Next())
				}
			}
		}
		up = !up
	}
	return b.b
}

// planCache holds computed plans, one per version and level.
var planCache [MaxVersion + 1][4]struct {
	once sync.Once
	p    *Plan
	err  error
}

// CachedPlan returns the Plan for a version and level, computing it
// at most once.
func CachedPlan(v Version, l Level) (*Plan, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	c := &planCache[v][l]
	c.once.Do(func() {
		c.p, c.err = NewPlan(v, l)
	})
	return c.p, c.err
}
