package board

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/youruser/boardgen/internal/config"
	"github.com/youruser/boardgen/internal/tile"
)

// RenderFile builds and renders the board described by f.
func RenderFile(ctx context.Context, f *config.BoardFile, loader ImageLoader, log *slog.Logger, opts ...Option) (*image.NRGBA, error) {
	// Build bounds the tile size by the background before any template is allocated.
	b, err := Build(ctx, f, loader)
	if err != nil {
		return nil, err
	}
	tiles, err := NewTileRenderer(f, log)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithLogger(log)}, opts...)
	return NewRenderer(tiles, opts...).Render(b), nil
}

// NewTileRenderer loads the board's font and prepares its tile templates.
func NewTileRenderer(f *config.BoardFile, log *slog.Logger) (*tile.Renderer, error) {
	opts, err := f.TileOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	text, err := f.TextRenderer()
	if err != nil {
		return nil, err
	}
	r, err := tile.NewRenderer(text, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	return r.WithLogger(log), nil
}

// IsValidationError reports whether err describes a malformed board rather
// than a failure to load its resources.
func IsValidationError(err error) bool {
	var (
		count     *WrongTileCountError
		numbering *NumberingError
		dims      *InvalidDimensionsError
	)
	return errors.Is(err, ErrInvalidBoard) ||
		errors.As(err, &count) || errors.As(err, &numbering) ||
		errors.As(err, &dims)
}
