package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextOptions controls how a label is drawn.
type TextOptions struct {
	Color color.NRGBA
	// PixelCutoff, when set, snaps glyph alpha to fully transparent (<= cutoff)
	// or fully opaque, removing antialiasing for a pixel-art look.
	PixelCutoff *uint8
}

// TextRenderer rasterizes labels with a drop shadow in a single font.
type TextRenderer struct {
	font *opentype.Font
}

// NewTextRenderer parses a TTF, OTF, WOFF or WOFF2 font.
func NewTextRenderer(fontBytes []byte) (*TextRenderer, error) {
	sfnt := fontBytes
	if isWOFF(fontBytes) {
		var err error
		if sfnt, err = tdfont.ToSFNT(fontBytes); err != nil {
			return nil, fmt.Errorf("convert woff to sfnt: %w", err)
		}
	}
	f, err := opentype.Parse(sfnt)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &TextRenderer{font: f}, nil
}

func isWOFF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("wOFF")) || bytes.HasPrefix(b, []byte("wOF2"))
}

// DefaultTextRenderer uses the bundled Go Bold font.
func DefaultTextRenderer() *TextRenderer {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		// bundled font is known good
		panic(err)
	}
	return &TextRenderer{font: f}
}

// Face returns a face of the given size in points at 72 DPI.
func (r *TextRenderer) Face(size float64) (*Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &Face{face: face, size: size}, nil
}

// Face is a sized font face. It is safe for concurrent use.
type Face struct {
	mu   sync.Mutex
	face font.Face
	size float64
}

// Size returns the face size in points.
func (f *Face) Size() float64 { return f.size }

// Measure returns the tight pixel bounding box of text drawn with this face.
func (f *Face) Measure(text string) (width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bounds := f.measure(text)
	return bounds.Dx(), bounds.Dy()
}

func (f *Face) measure(text string) image.Rectangle {
	b, _ := font.BoundString(f.face, text)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

// Render draws text on a transparent canvas sized to its bounding box plus one
// pixel in each dimension, which holds a black shadow offset by (1, 1).
func (f *Face) Render(text string, opts TextOptions) *image.NRGBA {
	f.mu.Lock()
	bounds := f.measure(text)
	w, h := bounds.Dx()+1, bounds.Dy()+1

	stamp := New(w, h, Transparent)
	d := &font.Drawer{
		Dst:  stamp,
		Src:  image.NewUniform(Black),
		Face: f.face,
		Dot:  fixed.P(-bounds.Min.X, -bounds.Min.Y),
	}
	d.DrawString(text)
	f.mu.Unlock()

	if opts.PixelCutoff != nil {
		stamp = MapPixels(stamp, AlphaThreshold(*opts.PixelCutoff))
	}

	out := New(w, h, Transparent)
	out = Paste(out, stamp, image.Pt(1, 1))
	stamp = MapPixels(stamp, Recolor(opts.Color))
	return Paste(out, stamp, image.Pt(0, 0))
}
