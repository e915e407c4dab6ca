package tile

import (
	"image"
	"log/slog"
	"strconv"

	imagepkg "github.com/youruser/boardgen/internal/image"
)

// lockedDesaturation is how far locked icons are pulled toward gray.
const lockedDesaturation = 0.9

// Renderer draws tiles for one set of Options. Templates for both themes are
// drawn once in NewRenderer and never modified, so Render may be called from
// several goroutines.
type Renderer struct {
	opts     Options
	face     *imagepkg.Face
	locked   *image.NRGBA
	unlocked *image.NRGBA
	log      *slog.Logger
}

// NewRenderer prepares the label face and both themed templates.
func NewRenderer(text *imagepkg.TextRenderer, opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	face, err := text.Face(float64(opts.TextSize))
	if err != nil {
		return nil, err
	}
	return &Renderer{
		opts:     opts,
		face:     face,
		locked:   RenderTemplate(opts.TileSize, opts.BorderSize, opts.InsetSize, opts.Locked),
		unlocked: RenderTemplate(opts.TileSize, opts.BorderSize, opts.InsetSize, opts.Unlocked),
		log:      slog.Default(),
	}, nil
}

// WithLogger returns r logging to l.
func (r *Renderer) WithLogger(l *slog.Logger) *Renderer {
	c := *r
	c.log = l
	return &c
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options { return r.opts }

// Render composes one tile: template, number label top-left, name label
// centered along the bottom and the icon centered in the space between.
func (r *Renderer) Render(t Tile) *image.NRGBA {
	template, theme := r.locked, r.opts.Locked
	if t.Unlocked {
		template, theme = r.unlocked, r.opts.Unlocked
	}
	bounds := ContentBounds(r.opts)
	x1, y1, x2, y2 := bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y

	textOpts := imagepkg.TextOptions{Color: theme.Text, PixelCutoff: r.opts.PixelCutoff}
	number := r.face.Render(strconv.Itoa(int(t.Number)), textOpts)
	name := r.face.Render(t.Name, textOpts)

	// Paste returns a new image, the template itself is left untouched.
	img := imagepkg.Paste(template, number, image.Pt(x1, y1))
	contentWidth := x2 - x1
	xOffset := 0
	if nw := name.Bounds().Dx(); nw < contentWidth {
		xOffset = (contentWidth - nw) / 2
	}
	img = imagepkg.Paste(img, name, image.Pt(x1+xOffset, y2-name.Bounds().Dy()))

	// keep the icon clear of both labels
	y1 += number.Bounds().Dy() + r.opts.Padding
	y2 -= name.Bounds().Dy() + r.opts.Padding
	contentHeight := y2 - y1
	if t.Image == nil || contentWidth <= 0 || contentHeight <= 0 {
		r.log.Debug("no room for tile icon", "tile", t.Number, "width", contentWidth, "height", contentHeight)
		return img
	}

	icon := imagepkg.Fit(t.Image, contentWidth, contentHeight)
	if !t.Unlocked {
		icon = imagepkg.MapPixels(icon, imagepkg.Desaturate(lockedDesaturation))
	}
	xPad := (contentWidth - icon.Bounds().Dx()) / 2
	yPad := (contentHeight - icon.Bounds().Dy()) / 2
	return imagepkg.Paste(img, icon, image.Pt(x1+xPad, y1+yPad))
}
