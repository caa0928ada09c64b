// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding

import "fmt"

// ErrDataTooLong is returned when segments do not fit in the
// requested symbol.
type ErrDataTooLong struct {
	Version Version
	Level   Level
	Have    int // encoded data bits
	Want    int // symbol capacity in bits
}

func (e ErrDataTooLong) Error() string {
	return fmt.Sprintf("data too long for %v-%v: %d > %d bits",
		e.Version, e.Level, e.Have, e.Want)
}

// InternalError marks a bug: an encoded stream whose length does
// not match the symbol capacity.
type InternalError struct {
	Version Version
	Level   Level
	Got     int // bytes produced
	Want    int // bytes expected
}

func (e InternalError) Error() string {
	return fmt.Sprintf(
		"qr: internal error: %v-%v stream is %d bytes, want %d",
		e.Version, e.Level, e.Got, e.Want)
}

// An Encoder encodes segments into a symbol of a fixed version
// and level.
type Encoder struct {
	p *Plan
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(v Version, l Level) (*Encoder, error) {
	p, err := CachedPlan(v, l)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p, b: NewBits(v, l)}, nil
}

// Write encodes segments into the encoder's buffer.  The text of
// each segment must have been transformed for its mode.
func (e *Encoder) Write(segs ...Segment) {
	for _, seg := range segs {
		seg.EncodeSegment(e.p.Version, e.b)
	}
}

// Code completes the encoding and returns the symbol with the
// lowest penalty mask applied.
func (e *Encoder) Code() (*Code, error) {
	p := e.p
	if e.b.Bits() > p.DataBits {
		return nil, ErrDataTooLong{
			p.Version, p.Level, e.b.Bits(), p.DataBits,
		}
	}
	e.b.AddCheckBytes(p.Version, p.Level)
	if len(e.b.Bytes()) != vtab[p.Version].bytes {
		return nil, InternalError{
			p.Version, p.Level,
			len(e.b.Bytes()), vtab[p.Version].bytes,
		}
	}
	data := p.Serialise(e.b.Permute(p.Version, p.Level))

	c := &Code{
		Size:    p.Size,
		Stride:  p.Stride,
		Version: p.Version,
		Level:   p.Level,
	}
	bestPen := -1
	for m, pat := range p.Pattern {
		bm := make([]byte, len(data))
		for i := range bm {
			bm[i] = data[i] ^ pat[i]
		}
		t := Code{Bitmap: bm, Size: p.Size, Stride: p.Stride}
		if pen := t.Penalty(); bestPen < 0 || pen < bestPen {
			bestPen = pen
			c.Bitmap = bm
			c.Mask = byte(m)
		}
	}
	return c, nil
}

// Encode encodes segments into a symbol of the given version and
// level, choosing the mask with the lowest penalty.
func Encode(v Version, l Level, segs ...Segment) (*Code, error) {
	e, err := NewEncoder(v, l)
	if err != nil {
		return nil, err
	}
	e.Write(segs...)
	return e.Code()
}
