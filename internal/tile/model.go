// Package tile renders single board tiles: a themed square with a number
// label, a name label and an icon.
package tile

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	imagepkg "github.com/youruser/boardgen/internal/image"
)

// MaxTileSize bounds the edge of a tile; templates are allocated up front.
const MaxTileSize = 4096

// ErrInvalidOptions is returned for options that cannot produce a tile.
var ErrInvalidOptions = errors.New("invalid tile options")

// Tile is one cell of a board.
type Tile struct {
	Number   uint8
	Name     string
	Image    image.Image
	Unlocked bool
}

// Theme holds the colors of one lock state.
type Theme struct {
	Border     color.NRGBA
	Inset      color.NRGBA
	Background color.NRGBA
	Text       color.NRGBA
}

// Options is the render-time configuration shared by every tile of a board.
type Options struct {
	TileSize   int
	Padding    int
	BorderSize int
	InsetSize  int
	TextSize   int
	// PixelCutoff enables alpha-threshold pixelation of labels.
	PixelCutoff *uint8
	Locked      Theme
	Unlocked    Theme
}

// DefaultOptions returns the stock look: orange text on dark tiles when
// locked, green text on lighter tiles when unlocked.
func DefaultOptions() Options {
	return Options{
		TileSize:   216,
		Padding:    6,
		BorderSize: 4,
		InsetSize:  4,
		TextSize:   20,
		Locked: Theme{
			Border:     imagepkg.DefaultBorderColor,
			Inset:      imagepkg.DefaultInsetColor,
			Background: imagepkg.DefaultBackgroundLockedColor,
			Text:       imagepkg.Orange,
		},
		Unlocked: Theme{
			Border:     imagepkg.DefaultBorderColor,
			Inset:      imagepkg.DefaultInsetColor,
			Background: imagepkg.DefaultBackgroundUnlockedColor,
			Text:       imagepkg.Green,
		},
	}
}

// Validate checks that the options describe a tile with a non-empty
// content area and a label size that fits in it.
func (o Options) Validate() error {
	if o.TileSize <= 0 || o.TileSize > MaxTileSize {
		return fmt.Errorf("%w: tile size must be 1-%d, got %d", ErrInvalidOptions, MaxTileSize, o.TileSize)
	}
	if o.Padding < 0 || o.BorderSize < 0 || o.InsetSize < 0 || o.TextSize < 0 {
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidOptions)
	}
	if offset := o.BorderSize + o.InsetSize + o.Padding; 2*offset >= o.TileSize {
		return fmt.Errorf("%w: border, inset and padding (%d per edge) leave no content in a %dpx tile",
			ErrInvalidOptions, offset, o.TileSize)
	}
	if o.TextSize > o.TileSize {
		return fmt.Errorf("%w: text size %d exceeds tile size %d", ErrInvalidOptions, o.TextSize, o.TileSize)
	}
	return nil
}

// ContentBounds is the area of a tile left for labels and icon once border,
// inset and padding are taken from every edge. Corners are not reordered, so
// options that fail Validate yield an empty rectangle.
func ContentBounds(opts Options) image.Rectangle {
	offset := opts.BorderSize + opts.InsetSize + opts.Padding
	end := opts.TileSize - offset
	return image.Rectangle{Min: image.Pt(offset, offset), Max: image.Pt(end, end)}
}
