package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/boardgen/internal/board"
	"github.com/youruser/boardgen/internal/config"
	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/tile"
)

// Handlers serves board rendering over HTTP. Images referenced by request
// bodies must be http(s) URLs; server-local paths are refused.
type Handlers struct {
	loader  board.ImageLoader
	log     *slog.Logger
	workers int
}

// NewHandlers wraps loader so that only http(s) locations are fetched.
func NewHandlers(loader board.ImageLoader, log *slog.Logger, workers int) *Handlers {
	return &Handlers{loader: remoteOnly{loader}, log: log, workers: workers}
}

type remoteOnly struct {
	board.ImageLoader
}

func (l remoteOnly) Load(ctx context.Context, location string) (*image.NRGBA, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q is not an http(s) URL", imagepkg.ErrInvalidURL, location)
	}
	return l.ImageLoader.Load(ctx, location)
}

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) bindBoard(c *gin.Context) (*config.BoardFile, bool) {
	f, err := config.Decode(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return f, true
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case board.IsValidationError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, imagepkg.ErrInvalidURL):
		status = http.StatusBadRequest
	}
	h.log.Warn("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func writePNG(c *gin.Context, img image.Image) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// boardImage renders a JSON board file to PNG.
func (h *Handlers) boardImage(c *gin.Context) {
	f, ok := h.bindBoard(c)
	if !ok {
		return
	}
	img, err := board.RenderFile(c.Request.Context(), f, h.loader, h.log, board.WithWorkers(h.workers))
	if err != nil {
		h.fail(c, err)
		return
	}
	writePNG(c, img)
}

// boardValidate builds the board, loading its images, without rendering it.
func (h *Handlers) boardValidate(c *gin.Context) {
	f, ok := h.bindBoard(c)
	if !ok {
		return
	}
	_, err := f.TileOptions()
	if err != nil {
		err = fmt.Errorf("%w: %w", board.ErrInvalidBoard, err)
	} else {
		_, err = board.Build(c.Request.Context(), f, h.loader)
	}
	if err != nil {
		if board.IsValidationError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handlers) boardText(c *gin.Context) {
	f, ok := h.bindBoard(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, board.ExportText(f))
}

type tileRequest struct {
	config.TileFile
	TileSize          int                      `json:"tile_size"`
	TileRenderOptions config.TileRenderOptions `json:"tile_render_options"`
}

// tileImage renders a single tile to PNG.
func (h *Handlers) tileImage(c *gin.Context) {
	var req tileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Number < 1 || req.Number > 255 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number must be 1-255"})
		return
	}
	if req.TileSize == 0 {
		req.TileSize = tile.DefaultOptions().TileSize
	}
	f := &config.BoardFile{TileSize: req.TileSize, TileRenderOptions: req.TileRenderOptions}
	// options are validated before any template is allocated
	renderer, err := board.NewTileRenderer(f, h.log)
	if err != nil {
		h.fail(c, err)
		return
	}
	icon, err := h.loader.Load(c.Request.Context(), req.Image)
	if err != nil {
		h.fail(c, err)
		return
	}
	writePNG(c, renderer.Render(tile.Tile{
		Number:   uint8(req.Number),
		Name:     req.Name,
		Image:    icon,
		Unlocked: req.Unlocked,
	}))
}

// qr returns a PNG of a QR code for the "text" query param.
func (h *Handlers) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 256
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > 4096 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be 1-4096"})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
