// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR data encoding mode.
type Mode int

const (
	// Numeric encodes decimal digits, three digits in 10 bits.
	Numeric Mode = iota
	// Alphanumeric encodes digits, uppercase letters and the
	// punctuation " $%*+-./:", two characters in 11 bits.
	Alphanumeric
	// Byte encodes raw bytes, taken to be UTF-8 text by most
	// readers.
	Byte
	// Latin1 encodes text transcoded from UTF-8 to ISO 8859-1,
	// one byte per character.
	Latin1
	// Kanji encodes JIS X 0208 characters transcoded from UTF-8
	// to Shift JIS, one character in 13 bits.
	Kanji
	// sjisKanji encodes text already in Shift JIS.
	sjisKanji
)

var modeName = []string{
	"Numeric", "Alphanumeric", "Byte", "Latin1", "Kanji", "Kanji",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeName) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeName[m]
}

var ErrNotEncodable = errors.New("string not encodable in mode")

// A Segment is a part of the payload encoded in a single mode.
type Segment struct {
	Text string
	Mode Mode
}

// modeEncoder describes the wire format of a mode: its four bit
// indicator, the count field width for each version size class,
// and the functions validating and transcoding the text, counting
// the encoded length and writing the encoded bits.
type modeEncoder struct {
	indicator uint32
	count     [3]int // count field width per size class
	transform func(string) (string, error)
	length    func(bytes, runes int) int
	encode    func(b *Bits, s string)
}

var encoders = [...]modeEncoder{
	Numeric: {
		indicator: 1,
		count:     [3]int{10, 12, 14},
		transform: validNumeric,
		length:    func(b, _ int) int { return (b*10 + 2) / 3 },
		encode:    encodeNumeric,
	},
	Alphanumeric: {
		indicator: 2,
		count:     [3]int{9, 11, 13},
		transform: validAlphanumeric,
		length:    func(b, _ int) int { return (b*11 + 1) / 2 },
		encode:    encodeAlphanumeric,
	},
	Byte: {
		indicator: 4,
		count:     [3]int{8, 16, 16},
		transform: validUTF8,
		length:    func(b, _ int) int { return b * 8 },
		encode:    (*Bits).append,
	},
	Latin1: {
		indicator: 4,
		count:     [3]int{8, 16, 16},
		transform: toLatin1,
		length:    func(_, r int) int { return r * 8 },
		encode:    (*Bits).append,
	},
	Kanji: {
		indicator: 8,
		count:     [3]int{8, 10, 12},
		transform: toShiftJIS,
		length:    func(_, r int) int { return r * 13 },
		encode:    encodeKanji,
	},
	sjisKanji: {
		indicator: 8,
		count:     [3]int{8, 10, 12},
		transform: validShiftJIS,
		length:    func(b, _ int) int { return b / 2 * 13 },
		encode:    encodeKanji,
	},
}

// Length returns the number of bits needed to encode a string of
// the given byte and rune length in mode m inside a symbol of the
// given size class, including the mode indicator and count field.
func (m Mode) Length(bytes, runes int, class SizeClass) int {
	e := &encoders[m]
	return 4 + e.count[class] + e.length(bytes, runes)
}

// Transform validates s for mode m, returning the string to be
// encoded, transcoded from UTF-8 if the mode calls for it.
func (m Mode) Transform(s string) (string, error) {
	return encoders[m].transform(s)
}

func validNumeric(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrNotEncodable
		}
	}
	return s, nil
}

// alnumValue maps bytes to their alphanumeric mode values,
// with 0xff marking bytes outside the character set.
var alnumValue = func() (t [256]byte) {
	const alnum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
	for i := range t {
		t[i] = 0xff
	}
	for i := 0; i < len(alnum); i++ {
		t[alnum[i]] = byte(i)
	}
	return
}()

func validAlphanumeric(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		if alnumValue[s[i]] == 0xff {
			return "", ErrNotEncodable
		}
	}
	return s, nil
}

func validUTF8(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrNotEncodable
	}
	return s, nil
}

func toLatin1(s string) (string, error) {
	t, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return "", ErrNotEncodable
	}
	return t, nil
}

func toShiftJIS(s string) (string, error) {
	t, err := japanese.ShiftJIS.NewEncoder().String(s)
	if err != nil || !isSJISKanji(t) {
		return "", ErrNotEncodable
	}
	return t, nil
}

func validShiftJIS(s string) (string, error) {
	if !isSJISKanji(s) {
		return "", ErrNotEncodable
	}
	return s, nil
}

// isSJISKanji reports whether s consists entirely of two byte
// Shift JIS codes in the ranges the Kanji mode can represent.
func isSJISKanji(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i += 2 {
		b0, b1 := s[i], s[i+1]
		switch {
		case b0 >= 0x81 && b0 <= 0x9f:
		case b0 >= 0xe0 && b0 <= 0xea:
		case b0 == 0xeb && b1 <= 0xbf:
		default:
			return false
		}
		if b1 < 0x40 || b1 == 0x7f || b1 > 0xfc {
			return false
		}
	}
	return true
}

// IsKanji reports whether the rune r can be encoded in Kanji mode.
func IsKanji(r rune) bool {
	t, err := japanese.ShiftJIS.NewEncoder().String(string(r))
	return err == nil && len(t) == 2 && isSJISKanji(t)
}

func encodeNumeric(b *Bits, s string) {
	for len(s) >= 3 {
		v := uint32(s[0]-'0')*100 + uint32(s[1]-'0')*10 +
			uint32(s[2]-'0')
		b.Write(v, 10)
		s = s[3:]
	}
	switch len(s) {
	case 2:
		b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
	case 1:
		b.Write(uint32(s[0]-'0'), 4)
	}
}

func encodeAlphanumeric(b *Bits, s string) {
	for len(s) >= 2 {
		v := uint32(alnumValue[s[0]])*45 + uint32(alnumValue[s[1]])
		b.Write(v, 11)
		s = s[2:]
	}
	if len(s) == 1 {
		b.Write(uint32(alnumValue[s[0]]), 6)
	}
}

func encodeKanji(b *Bits, s string) {
	for i := 0; i < len(s); i += 2 {
		v := uint32(s[i]&^0xc0)*0xc0 + uint32(s[i+1]) - 0x100
		b.Write(v, 13)
	}
}

// EncodeSegment writes the segment header and data to b.
// The text must have been transformed for its mode already.
func (seg Segment) EncodeSegment(v Version, b *Bits) {
	e := &encoders[seg.Mode]
	b.Write(e.indicator, 4)
	n := len(seg.Text)
	if seg.Mode >= Kanji {
		n /= 2
	}
	b.Write(uint32(n), e.count[v.SizeClass()])
	e.encode(b, seg.Text)
}
