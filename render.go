// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// colors returns the background and foreground colours of the code.
func (c *Code) colors() (bg, fg color.Color) {
	bg, fg = color.Color(color.Gray{0xff}), color.Color(color.Gray{0x00})
	if c.Palette != nil {
		bg, fg = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		bg, fg = fg, bg
	}
	return bg, fg
}

// Image returns an RGBA image displaying the code, with Scale
// image pixels per QR pixel and a quiet zone of Border QR pixels
// around the symbol.
func (c *Code) Image() *image.RGBA {
	if !c.isValid() {
		return nil
	}
	scale, bord := c.Scale, c.Border
	pix := scale * (c.Size + bord*2)
	bg, fg := c.colors()
	img := image.NewRGBA(image.Rect(0, 0, pix, pix))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{},
		draw.Src)
	fill := image.NewUniform(fg)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if !c.Black(x, y) {
				continue
			}
			r := image.Rect((bord+x)*scale, (bord+y)*scale,
				(bord+x+1)*scale, (bord+y+1)*scale)
			draw.Draw(img, r, fill, image.Point{}, draw.Src)
		}
	}
	return img
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	return png.Encode(w, c.Image())
}

// PNG returns a PNG image displaying the code.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}
