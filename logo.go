// Copyright 2025 The qrbrand Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// An OverlayError reports a logo overlay that would cover part of
// a finder pattern, making the code unscannable.
type OverlayError struct {
	Logo   image.Rectangle // overlay area, in image pixels
	Finder image.Rectangle // finder area it covers
}

func (e OverlayError) Error() string {
	return fmt.Sprintf("qr: logo %v covers finder pattern %v",
		e.Logo, e.Finder)
}

// ImageWithLogo returns an RGBA image displaying the code with the
// logo composited over its centre.  The logo is scaled down to
// cover at most a quarter of the symbol width, and the code must be
// encoded at correction level H so that the covered modules stay
// recoverable.  A logo that would touch a finder pattern is
// rejected.
func (c *Code) ImageWithLogo(logo image.Image) (*image.RGBA, error) {
	if c.Level != H {
		return nil, ErrInsufficientCorrection
	}
	img := c.Image()
	if img == nil {
		return nil, ErrArgs
	}
	pix := img.Bounds().Dx()
	max := pix / 4
	logo = imaging.Fit(logo, max, max, imaging.Lanczos)
	lb := logo.Bounds()
	at := image.Rect(0, 0, lb.Dx(), lb.Dy()).
		Add(image.Pt((pix-lb.Dx())/2, (pix-lb.Dy())/2))
	for _, f := range c.finderBoxes() {
		if at.Overlaps(f) {
			return nil, OverlayError{at, f}
		}
	}
	draw.Draw(img, at, logo, lb.Min, draw.Over)
	return img, nil
}

// finderBoxes returns the image pixel areas of the three finder
// patterns and their separators.
func (c *Code) finderBoxes() [3]image.Rectangle {
	scale, bord := c.Scale, c.Border
	box := func(x, y int) image.Rectangle {
		return image.Rect((bord+x)*scale, (bord+y)*scale,
			(bord+x+8)*scale, (bord+y+8)*scale)
	}
	return [3]image.Rectangle{
		box(0, 0),
		box(c.Size-8, 0),
		box(0, c.Size-8),
	}
}

// EncodeWithLogo encodes text at correction level H and returns an
// image of the code with the logo composited over its centre.
func EncodeWithLogo(text string, logo image.Image) (*image.RGBA, error) {
	c, err := Encode(text, H)
	if err != nil {
		return nil, err
	}
	return c.ImageWithLogo(logo)
}
