// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EncodePBM writes a Portable Bit Map image displaying the code to
// w, for use with netpbm.  EncodePBM disregards c.Palette, as other
// PNM formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	siz, scale, bord := c.Size, c.Scale, c.Border
	length := scale * (siz + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	var white byte
	if c.Reverse {
		white = 0xff
	}
	blank := func(n int) error {
		for i := range row {
			row[i] = white
		}
		for i := 0; i < n; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := blank(scale * bord); err != nil {
		return err
	}
	for y := 0; y < siz; y++ {
		for i := range row {
			row[i] = white
		}
		for x := 0; x < siz; x++ {
			if !c.Black(x, y) {
				continue
			}
			for i := (bord + x) * scale; i < (bord+x+1)*scale; i++ {
				row[i/8] ^= 0x80 >> uint(i%8)
			}
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	if err := blank(scale * bord); err != nil {
		return err
	}
	return b.Flush()
}

// String renders the code as text art, two rows of QR pixels per
// line using Unicode half block characters.  The quiet zone is
// Border QR pixels wide; Scale is disregarded.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	// The symbol must be dark modules on a light background, so
	// light modules are drawn as full blocks in the terminal's
	// foreground colour unless Reverse is set.
	blocks := [4]string{"█", "▄", "▀", " "}
	if c.Reverse {
		blocks = [4]string{" ", "▀", "▄", "█"}
	}
	siz, bord := c.Size, c.Border
	var sb strings.Builder
	sb.Grow((siz + 2*bord + 1) * (siz + 2*bord) * 3 / 2)
	for y := -bord; y < siz+bord; y += 2 {
		for x := -bord; x < siz+bord; x++ {
			i := 0
			if c.Black(x, y) {
				i |= 1
			}
			if c.Black(x, y+1) {
				i |= 2
			}
			sb.WriteString(blocks[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
