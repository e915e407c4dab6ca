package board

import (
	"context"
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/youruser/boardgen/internal/config"
	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/tile"
)

// ImageLoader resolves an image location to decoded pixels.
type ImageLoader interface {
	Load(ctx context.Context, location string) (*image.NRGBA, error)
}

// Build validates f, loads every image it references and returns a board
// ready for Renderer.Render.
func Build(ctx context.Context, f *config.BoardFile, loader ImageLoader) (*Board, error) {
	tiles := slices.Clone(f.Tiles)
	slices.SortStableFunc(tiles, func(a, b config.TileFile) int { return a.Number - b.Number })
	if f.Rows <= 0 || f.Cols <= 0 {
		return nil, fmt.Errorf("%w: board must have at least one row and column, got %dx%d", ErrInvalidBoard, f.Rows, f.Cols)
	}
	if err := validateTileCount(f.Rows, f.Cols, tiles); err != nil {
		return nil, err
	}
	if err := validateTileNumbers(tiles); err != nil {
		return nil, err
	}

	background, err := loader.Load(ctx, f.Image)
	if err != nil {
		return nil, fmt.Errorf("loading board image: %w", err)
	}
	b := background.Bounds()
	rect := image.Rect(f.ContentRect.X1, f.ContentRect.Y1, f.ContentRect.X2, f.ContentRect.Y2)
	// image.Rect canonicalizes, so check the raw corners first
	if f.ContentRect.X1 >= f.ContentRect.X2 || f.ContentRect.Y1 >= f.ContentRect.Y2 {
		return nil, &InvalidDimensionsError{Width: b.Dx(), Height: b.Dy(), ContentRect: rect, Reason: "content rectangle is not well formed"}
	}
	if err := validateContentRect(b.Dx(), b.Dy(), rect, f.TileSize, f.Rows, f.Cols); err != nil {
		return nil, err
	}

	if f.QR != nil && f.QR.Text != "" {
		background, err = stampQR(background, f.QR)
		if err != nil {
			return nil, err
		}
	}

	built := make([]tile.Tile, 0, len(tiles))
	for _, t := range tiles {
		img, err := loader.Load(ctx, t.Image)
		if err != nil {
			return nil, fmt.Errorf("loading image for tile %d: %w", t.Number, err)
		}
		built = append(built, tile.Tile{
			Number:   uint8(t.Number),
			Name:     t.Name,
			Image:    img,
			Unlocked: t.Unlocked,
		})
	}

	return &Board{
		Rows:        f.Rows,
		Cols:        f.Cols,
		ContentRect: rect,
		TileSize:    f.TileSize,
		Image:       background,
		Tiles:       built,
	}, nil
}

func validateTileCount(rows, cols int, tiles []config.TileFile) error {
	expected := rows * cols
	if expected != len(tiles) {
		return &WrongTileCountError{Expected: expected, Actual: len(tiles)}
	}
	if expected > math.MaxUint8 {
		return fmt.Errorf("%w: boards hold at most %d tiles, got %d", ErrInvalidBoard, math.MaxUint8, expected)
	}
	return nil
}

// validateTileNumbers requires the tiles to be numbered 1..len(tiles) exactly once.
func validateTileNumbers(tiles []config.TileFile) error {
	missing := make(map[int]bool, len(tiles))
	for n := 1; n <= len(tiles); n++ {
		missing[n] = true
	}
	var unexpected []int
	for _, t := range tiles {
		if !missing[t.Number] {
			unexpected = append(unexpected, t.Number)
			continue
		}
		delete(missing, t.Number)
	}
	if len(unexpected) == 0 {
		return nil
	}
	nums := make([]int, 0, len(missing))
	for n := range missing {
		nums = append(nums, n)
	}
	return &NumberingError{Unexpected: unexpected, Missing: nums}
}

func stampQR(background *image.NRGBA, qr *config.QRConfig) (*image.NRGBA, error) {
	size := qr.Size
	if size <= 0 {
		size = 128
	}
	img, err := imagepkg.GenerateQRImage(qr.Text, size)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	// go-qrcode picks its own size when the requested one is too small
	if img.Bounds().Dx() != size {
		img = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	return imagepkg.Paste(background, img, image.Pt(qr.X, qr.Y)), nil
}
