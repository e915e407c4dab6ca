// Package board lays tiles out on a background image.
package board

import (
	"fmt"
	"image"

	"github.com/youruser/boardgen/internal/tile"
)

// Board is a grid of tiles drawn inside ContentRect of a background image.
// Tiles are stored row-major.
type Board struct {
	Rows        int
	Cols        int
	ContentRect image.Rectangle
	TileSize    int
	Image       image.Image
	Tiles       []tile.Tile
}

// Validate checks the geometry invariants Render relies on.
func (b *Board) Validate() error {
	if b.Rows <= 0 || b.Cols <= 0 {
		return fmt.Errorf("board must have at least one row and column, got %dx%d", b.Rows, b.Cols)
	}
	if len(b.Tiles) != b.Rows*b.Cols {
		return &WrongTileCountError{Expected: b.Rows * b.Cols, Actual: len(b.Tiles)}
	}
	if b.Image == nil {
		return fmt.Errorf("board has no background image")
	}
	bounds := b.Image.Bounds()
	return validateContentRect(bounds.Dx(), bounds.Dy(), b.ContentRect, b.TileSize, b.Rows, b.Cols)
}

func validateContentRect(width, height int, r image.Rectangle, tileSize, rows, cols int) error {
	invalid := &InvalidDimensionsError{Width: width, Height: height, ContentRect: r}
	if r.Min.X < 0 || r.Min.Y < 0 || r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		invalid.Reason = "content rectangle is not well formed"
		return invalid
	}
	if r.Max.X > width || r.Max.Y > height {
		invalid.Reason = "content rectangle extends past the image"
		return invalid
	}
	if tileSize <= 0 {
		invalid.Reason = "tile size must be positive"
		return invalid
	}
	// divide rather than multiply so oversized tile sizes cannot overflow
	if tileSize > r.Dx()/cols || tileSize > r.Dy()/rows {
		invalid.Reason = fmt.Sprintf("%dx%d tiles of %dpx do not fit", cols, rows, tileSize)
		return invalid
	}
	return nil
}

// Layout returns the top-left corner of every tile, row-major. The space left
// after the tiles is split evenly per column and row with integer division;
// any remainder stays unused at the trailing edge.
func Layout(b *Board) []image.Point {
	x1, y1 := b.ContentRect.Min.X, b.ContentRect.Min.Y
	xPad := (b.ContentRect.Dx() - b.Cols*b.TileSize) / b.Cols
	yPad := (b.ContentRect.Dy() - b.Rows*b.TileSize) / b.Rows

	points := make([]image.Point, 0, b.Rows*b.Cols)
	y := y1
	for row := 0; row < b.Rows; row++ {
		x := x1
		for col := 0; col < b.Cols; col++ {
			points = append(points, image.Pt(x, y))
			x += b.TileSize + xPad
		}
		y += b.TileSize + yPad
	}
	return points
}
