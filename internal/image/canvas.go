package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// New returns a width x height canvas filled with fill.
func New(width, height int, fill color.Color) *image.NRGBA {
	return imaging.New(width, height, fill)
}

// Paste merges src over dst with its top-left corner at pos and returns the result.
// Pixels of src that fall outside dst are clipped.
func Paste(dst, src image.Image, pos image.Point) *image.NRGBA {
	return imaging.Overlay(dst, src, pos, 1.0)
}

// DrawBorder draws a border of the given thickness along the inside edges of r.
// The border never extends outside r.
func DrawBorder(dst *image.NRGBA, r image.Rectangle, c color.Color, thickness int) {
	r = r.Canon()
	if thickness <= 0 || r.Empty() {
		return
	}
	if 2*thickness >= r.Dx() || 2*thickness >= r.Dy() {
		draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
		return
	}
	src := image.NewUniform(c)
	strips := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),                     // top
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),                     // bottom
		image.Rect(r.Min.X, r.Min.Y+thickness, r.Min.X+thickness, r.Max.Y-thickness), // left
		image.Rect(r.Max.X-thickness, r.Min.Y+thickness, r.Max.X, r.Max.Y-thickness), // right
	}
	for _, s := range strips {
		draw.Draw(dst, s, src, image.Point{}, draw.Over)
	}
}

// MapPixels applies f to every pixel of img and returns the transformed copy.
func MapPixels(img image.Image, f func(color.NRGBA) color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, f)
}

// AlphaThreshold makes pixels with alpha <= cutoff fully transparent and all
// others fully opaque.
func AlphaThreshold(cutoff uint8) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		if c.A <= cutoff {
			c.A = 0
		} else {
			c.A = 255
		}
		return c
	}
}

// Recolor replaces the RGB of every non-transparent pixel with the RGB of to,
// keeping the pixel's alpha.
func Recolor(to color.NRGBA) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		if c == (color.NRGBA{}) {
			return c
		}
		c.R, c.G, c.B = to.R, to.G, to.B
		return c
	}
}

// Desaturate blends each channel toward the pixel's luma by factor (0 keeps
// the color, 1 is fully gray).
func Desaturate(factor float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		luma := 0.3*r + 0.6*g + 0.1*b
		c.R = clampChannel(r + factor*(luma-r))
		c.G = clampChannel(g + factor*(luma-g))
		c.B = clampChannel(b + factor*(luma-b))
		return c
	}
}

func clampChannel(v float64) uint8 {
	v = math.Floor(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ScaleToFit returns the size of a w x h image shrunk to fit inside maxW x maxH
// with its aspect ratio kept. Images that already fit are returned unchanged.
func ScaleToFit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	contentRatio := float64(maxW) / float64(maxH)
	imageRatio := float64(w) / float64(h)
	var factor float64
	if imageRatio > contentRatio {
		// relatively wider than the box, width binds
		factor = float64(maxW) / float64(w)
	} else {
		factor = float64(maxH) / float64(h)
	}
	return int(factor * float64(w)), int(factor * float64(h))
}

// Fit shrinks img to fit inside maxW x maxH using bicubic resampling.
// The returned image is always a copy.
func Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := ScaleToFit(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	if w <= 0 || h <= 0 {
		return &image.NRGBA{}
	}
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}
