// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Code is a square pixel grid.  It will be black wherever the
// bitmap has a 1 bit.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version
	Level   Level
	Mask    byte
}

// Black reports whether the pixel at x, y is black.
// Pixels outside the code are white, forming the quiet zone.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(0x80>>uint(x%8)) != 0
}

// Penalty returns the penalty score of the code, the sum of the
// four feature scores defined by the standard: runs of same
// coloured modules, blocks of same coloured modules, patterns
// resembling finders, and dark module imbalance.
func (c *Code) Penalty() int {
	return c.penaltyRuns() + c.penaltyBlocks() +
		c.penaltyFinders() + c.penaltyBalance()
}

// penaltyRuns scores horizontal and vertical runs of five or more
// modules of the same colour: n-2 points for a run of n.
func (c *Code) penaltyRuns() int {
	pen := 0
	for y := 0; y < c.Size; y++ {
		hrun, vrun := 1, 1
		for x := 1; x < c.Size; x++ {
			if c.Black(x, y) == c.Black(x-1, y) {
				hrun++
			} else {
				if hrun >= 5 {
					pen += hrun - 2
				}
				hrun = 1
			}
			if c.Black(y, x) == c.Black(y, x-1) {
				vrun++
			} else {
				if vrun >= 5 {
					pen += vrun - 2
				}
				vrun = 1
			}
		}
		if hrun >= 5 {
			pen += hrun - 2
		}
		if vrun >= 5 {
			pen += vrun - 2
		}
	}
	return pen
}

// penaltyBlocks scores each 2x2 block of a single colour 3 points.
func (c *Code) penaltyBlocks() int {
	pen := 0
	for y := 0; y < c.Size-1; y++ {
		for x := 0; x < c.Size-1; x++ {
			v := c.Black(x, y)
			if c.Black(x+1, y) == v && c.Black(x, y+1) == v &&
				c.Black(x+1, y+1) == v {
				pen += 3
			}
		}
	}
	return pen
}

// The finder lookalike is dark-light-dark-dark-dark-light-dark
// preceded or followed by four light modules.  Each occurrence,
// horizontal or vertical, scores 40 points.  Scanning eleven bit
// windows over a row extended by the white quiet zone finds both
// orientations of the pattern, including those completed by the
// quiet zone itself.
const (
	finderA = 0x05d // 00001011101
	finderB = 0x5d0 // 10111010000
)

func (c *Code) penaltyFinders() int {
	pen := 0
	for y := 0; y < c.Size; y++ {
		var hw, vw uint32
		for x := -10; x < c.Size+10; x++ {
			hw = hw<<1 & 0x7ff
			if c.Black(x, y) {
				hw |= 1
			}
			vw = vw<<1 & 0x7ff
			if c.Black(y, x) {
				vw |= 1
			}
			if hw == finderA || hw == finderB {
				pen += 40
			}
			if vw == finderA || vw == finderB {
				pen += 40
			}
		}
	}
	return pen
}

// penaltyBalance scores the deviation of the dark module count
// from half the symbol: 10 points per 5% step away from 50%.
func (c *Code) penaltyBalance() int {
	dark := 0
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) {
				dark++
			}
		}
	}
	total := c.Size * c.Size
	if dark > total-dark {
		dark = total - dark
	}
	return (9 - dark*20/total) * 10
}
