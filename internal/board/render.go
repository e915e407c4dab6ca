package board

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/tile"
)

// Renderer composes boards from tiles drawn by a tile.Renderer.
type Renderer struct {
	tiles   *tile.Renderer
	workers int
	log     *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers limits how many tiles render at once. n < 1 means one per CPU.
func WithWorkers(n int) Option {
	return func(r *Renderer) { r.workers = n }
}

// WithLogger sets the logger used for render timings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer composes boards from tiles drawn by the given tile renderer.
// Workers default to GOMAXPROCS and the logger to slog.Default.
func NewRenderer(tiles *tile.Renderer, opts ...Option) *Renderer {
	r := &Renderer{tiles: tiles, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Render draws the board's tiles over a copy of its background. The output
// has the background's dimensions.
//
// b must satisfy Validate and match the tile renderer's tile size; callers
// get such boards from Build. Render panics otherwise.
func (r *Renderer) Render(b *Board) *image.NRGBA {
	if err := b.Validate(); err != nil {
		panic(fmt.Sprintf("board: render of invalid board: %v", err))
	}
	if ts := r.tiles.Options().TileSize; ts != b.TileSize {
		panic(fmt.Sprintf("board: tile size %d does not match renderer tile size %d", b.TileSize, ts))
	}
	start := time.Now()

	bounds := b.Image.Bounds()
	out := imagepkg.New(bounds.Dx(), bounds.Dy(), imagepkg.Transparent)
	out = imagepkg.Paste(out, b.Image, image.Pt(0, 0))

	rendered := make([]*image.NRGBA, len(b.Tiles))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range b.Tiles {
		g.Go(func() error {
			rendered[i] = r.tiles.Render(b.Tiles[i])
			return nil
		})
	}
	_ = g.Wait() // tile renders do not fail

	for i, pt := range Layout(b) {
		out = imagepkg.Paste(out, rendered[i], pt)
	}
	r.log.Debug("rendered board",
		"rows", b.Rows, "cols", b.Cols,
		"width", bounds.Dx(), "height", bounds.Dy(),
		"elapsed", time.Since(start))
	return out
}
