// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.
*/
package qr

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/qrbrand/qr/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	return coding.Level(l).String()
}

var (
	// ErrArgs is returned when rendering a malformed Code.
	ErrArgs = errors.New("qr: invalid arguments")

	// ErrInsufficientCorrection is returned when compositing a
	// logo over a code encoded below correction level H.
	ErrInsufficientCorrection = errors.New(
		"qr: logo overlay requires correction level H")
)

// A PayloadError reports text that does not fit in any QR version
// at the requested error correction level.
type PayloadError struct {
	Len   int // payload length in bytes
	Level Level
}

func (e PayloadError) Error() string {
	return fmt.Sprintf("qr: %d byte payload too long for level %v",
		e.Len, e.Level)
}

var sizeClass = [3]struct {
	min, max coding.Version
}{
	{1, 9}, {10, 26}, {27, 40},
}

const (
	numMode   = iota // numeric
	alphaMode        // alphanumeric
	kanjiMode        // kanji
	byteMode         // byte
	nmodes           // total number of modes

	numModes   = 1<<numMode | 1<<alphaMode | 1<<byteMode
	alphaModes = 1<<alphaMode | 1<<byteMode
	kanjiModes = 1<<byteMode | 1<<kanjiMode
	byteModes  = 1 << byteMode
)

// segMode maps the split mode indices to coding modes.
var segMode = [nmodes]coding.Mode{
	coding.Numeric, coding.Alphanumeric, coding.Kanji, coding.Byte,
}

// segBits[m] returns the encoded size in bits of a segment of
// n bytes, k kanji in mode m at the given version size class.
var segBits = [nmodes]func(n, k int, class coding.SizeClass) int{
	func(n, _ int, c coding.SizeClass) int {
		return coding.Numeric.Length(n, 0, c)
	},
	func(n, _ int, c coding.SizeClass) int {
		return coding.Alphanumeric.Length(n, 0, c)
	},
	func(_, k int, c coding.SizeClass) int {
		return coding.Kanji.Length(0, k, c)
	},
	func(n, _ int, c coding.SizeClass) int {
		return coding.Byte.Length(n, 0, c)
	},
}

type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		next   *segment // link to next segment in the chain
		start  int      // start of string
		slen   int      // length of string in bytes
		klen   int      // length of string in kanji
		weight int      // encoded size of all segments in the chain
		mode   byte     // encoding mode
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		start int             // start of string
		slen  int             // length of string in bytes
		klen  int             // length of string in kanji
		modes byte            // bit field of valid encoding modes
		seg   [nmodes]segment // segments
	}
)

// classify splits text into spans of bytes encodable in the same
// modes.
func classify(text string) []span {
	if text == "" {
		return nil
	}
	const (
		alpha = 0x07ff_fffe_07ff_ec31 // SPACE $% *+ -./ [0-9] : [A-Z]
		digit = 0x0000_0000_03ff_0000 // [0-9]
	)

	// Scan the string, detect valid encoding modes for each byte
	modes := make([]byte, len(text))
	common := ^byte(0) // bit field of modes common to all spans
	n := 0
	m := byte(0)
	for i, r := range text {
		old := m
		m = byteModes
		if bit := uint64(1) << (uint(r) - ' '); digit&bit != 0 {
			m = numModes
		} else if alpha&bit != 0 {
			m = alphaModes
		} else if coding.IsKanji(r) {
			m = kanjiModes
		}
		modes[i] = m
		if m != old {
			common &= m
			n++
		}
	}

	mask := ^common | -common // Mask common modes except the lowest

	// Set spans
	sp := make([]span, n)
	old, n := byte(0), 0
	for i, v := range modes {
		if v != 0 && v != old {
			if i != 0 {
				sp[n].slen = i - sp[n].start
				n++
			}
			sp[n].start = i
			sp[n].modes = v & mask
			old = v
		}
		if v == kanjiModes && text[i] >= 0xc0 {
			sp[n].klen++
		}
	}
	sp[n].slen = len(modes) - sp[n].start
	return sp
}

/*
split returns the optimal split for the string described by sp at
the given QR version size class.

For the last span, for each valid mode j, create a segment
sp[len(sp)-1].seg[j] describing the span encoded in mode j, with
its weight set to the encoded length in bits.

Then walk backwards through the rest of the spans.
For each span i, for each valid mode j:
  - For each mode k valid for span i+1, create a segment linking
    to next=sp[i+1].seg[k].  If k==j, merge the segments by
    adding the length of next and linking to next.next instead.
    Calculate the weight of the segment.  If next is not nil, add
    the weight of next to get the combined weight of the chain.
  - From those segments choose the one with the smallest weight.
    Assign it to sp[i].seg[j].

Return the address of the segment in sp[0].seg with the smallest
weight.
*/
func split(sp []span, class coding.SizeClass) *segment {
	const inf = 1 << 30
	// Process last span.  Create a segment for each valid mode.
	i := len(sp) - 1
	if i < 0 {
		return nil
	}
	for j := byte(0); j < nmodes; j++ {
		seg := &sp[i].seg[j]
		*seg = segment{weight: inf}
		if sp[i].modes>>j&1 != 0 {
			*seg = segment{
				start:  sp[i].start,
				slen:   sp[i].slen,
				klen:   sp[i].klen,
				weight: segBits[j](sp[i].slen, sp[i].klen, class),
				mode:   j,
			}
			if i == 0 {
				return seg
			}
		}
	}

	// Process the rest of the spans.
	for i--; i >= 0; i-- {
		v := &sp[i]
		for j := byte(0); j < nmodes; j++ {
			seg := &v.seg[j]
			*seg = segment{weight: inf}
			if v.modes>>j&1 == 0 {
				continue
			}
			weight := segBits[j](v.slen, v.klen, class)
			ns := &sp[i+1].seg
			for k := byte(0); k < nmodes; k++ {
				next := &ns[k]
				if next.weight == inf {
					continue
				}
				c := segment{
					next:   next,
					start:  v.start,
					slen:   v.slen,
					klen:   v.klen,
					weight: weight,
					mode:   j,
				}
				if k == j {
					c.slen += c.next.slen
					c.klen += c.next.klen
					c.next = c.next.next
					c.weight = segBits[j](c.slen, c.klen, class)
				}
				if c.next != nil {
					c.weight += c.next.weight
				}
				if c.weight < seg.weight {
					*seg = c
				}
			}
		}
	}

	// Choose the first segment with the smallest weight
	seg := &sp[0].seg[0]
	for j := 1; j < nmodes; j++ {
		if sp[0].seg[j].weight < seg.weight {
			seg = &sp[0].seg[j]
		}
	}
	return seg
}

// Encode returns an encoding of text at the given error correction
// level, in the smallest QR version the text fits in.
func Encode(text string, level Level) (*Code, error) {
	return encode(text, level, 0)
}

// EncodeVersion is like Encode with the QR version forced to v.
func EncodeVersion(text string, level Level, v coding.Version) (*Code, error) {
	if !v.IsValid() {
		return nil, coding.ErrVersion
	}
	return encode(text, level, v)
}

func encode(text string, level Level, force coding.Version) (*Code, error) {
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, coding.ErrLevel
	}
	// Estimate minimum QR version size class in a crude manner.
	class := coding.SizeClass(0)
	weight := segBits[numMode](len(text), 0, class)
	for class < 2 && sizeClass[class].max.DataBytes(l)*8 < weight {
		class++
	}
	if force != 0 {
		class = force.SizeClass()
	}
	// Split string into spans.
	sp := classify(text)
	// Split string into segments for the size class.
	seg := split(sp, class)
	if seg != nil { // seg is nil if text == ""
		weight = seg.weight
	}
	v := force
	if force != 0 {
		if force.DataBytes(l)*8 < weight {
			return nil, PayloadError{len(text), level}
		}
	} else {
		// If the string is too big for the size class, increment
		// class and resplit.  The weight changes, hence the loop.
		for sizeClass[class].max.DataBytes(l)*8 < weight {
			for class++; class < 3 &&
				sizeClass[class].max.DataBytes(l)*8 < weight; {
				class++
			}
			if class == 3 {
				return nil, PayloadError{len(text), level}
			}
			seg = split(sp, class)
			weight = seg.weight
		}

		// Find the smallest version in the size class.
		v = sizeClass[class].min
		for max := sizeClass[class].max; v < max; {
			if mid := (v + max) / 2; mid.DataBytes(l)*8 < weight {
				v = mid + 1
			} else {
				max = mid
			}
		}
	}

	// Transform and encode the segments.
	var segs []coding.Segment
	for s := seg; s != nil; s = s.next {
		t, err := segMode[s.mode].Transform(
			text[s.start : s.start+s.slen])
		if err != nil {
			return nil, err
		}
		segs = append(segs,
			coding.Segment{Text: t, Mode: segMode[s.mode]})
	}

	cc, err := coding.Encode(v, l, segs...)
	if err != nil {
		if _, ok := err.(coding.ErrDataTooLong); ok {
			return nil, PayloadError{len(text), level}
		}
		return nil, err
	}
	return newCode(cc), nil
}

// EncodeLatin1 returns an encoding of text at the given error
// correction level with the whole payload in a byte mode segment
// transcoded to Latin-1, halving the size of Western European text
// against UTF-8.  Text outside ISO 8859-1 is rejected.
func EncodeLatin1(text string, level Level) (*Code, error) {
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, coding.ErrLevel
	}
	t, err := coding.Latin1.Transform(text)
	if err != nil {
		return nil, err
	}
	seg := coding.Segment{Text: t, Mode: coding.Latin1}
	for class := coding.SizeClass(0); class < 3; class++ {
		weight := 8*len(t) + coding.Latin1.Length(0, 0, class)
		max := sizeClass[class].max
		if max.DataBytes(l)*8 < weight {
			continue
		}
		// Find the smallest version in the size class.
		v := sizeClass[class].min
		for v < max {
			if mid := (v + max) / 2; mid.DataBytes(l)*8 < weight {
				v = mid + 1
			} else {
				max = mid
			}
		}
		cc, err := coding.Encode(v, l, seg)
		if err != nil {
			return nil, err
		}
		return newCode(cc), nil
	}
	return nil, PayloadError{len(text), level}
}

// A Code is a square pixel grid.
// It can render itself as an image or as text art.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
	Scale  int    // number of image pixels per QR pixel
	Border int    // size of the quiet zone in QR pixels

	// Palette optionally sets the background and foreground
	// colours, in that order, for image rendering.
	Palette *[2]color.Color

	// Reverse inverts the colours.
	Reverse bool

	Version coding.Version // symbol version
	Level   Level          // error correction level
	Mask    byte           // mask applied to the symbol
}

func newCode(cc *coding.Code) *Code {
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Scale:   8,
		Border:  4,
		Version: cc.Version,
		Level:   Level(cc.Level),
		Mask:    cc.Mask,
	}
}

func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Scale > 0 && c.Border >= 0 &&
		c.Stride >= (c.Size+7)/8 && len(c.Bitmap) >= c.Stride*c.Size
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}
