// Package config reads board files.
//
// A board file is TOML (or JSON when posted to the HTTP API) describing the
// background image, the grid geometry, the tile look and the tiles
// themselves. Omitted tile render options fall back to tile.DefaultOptions.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/tile"
)

// BoardFile is the on-disk description of a board.
type BoardFile struct {
	// Name is shown in text exports.
	Name string `toml:"name" json:"name"`
	// Rows and Cols size the grid; Rows*Cols tiles are required.
	Rows int `toml:"rows" json:"rows"`
	Cols int `toml:"cols" json:"cols"`
	// TileSize is the side length of a tile in pixels.
	TileSize int `toml:"tile_size" json:"tile_size"`
	// Image is the background, a path or an http(s) URL.
	Image string `toml:"image" json:"image"`
	// ContentRect is where tiles are drawn on the background.
	ContentRect ContentRect `toml:"content_rect" json:"content_rect"`
	// TileRenderOptions overrides the default tile look.
	TileRenderOptions TileRenderOptions `toml:"tile_render_options" json:"tile_render_options"`
	// QR optionally stamps a QR code onto the background.
	QR *QRConfig `toml:"qr,omitempty" json:"qr,omitempty"`
	// TilesCSV is an optional CSV file with more tiles (number,name,image,unlocked).
	TilesCSV string `toml:"tiles_csv,omitempty" json:"-"`
	// Tiles lists the tiles in any order.
	Tiles []TileFile `toml:"tiles" json:"tiles"`
}

// ContentRect is an (x1, y1)-(x2, y2) rectangle in background pixels.
type ContentRect struct {
	X1 int `toml:"x1" json:"x1"`
	Y1 int `toml:"y1" json:"y1"`
	X2 int `toml:"x2" json:"x2"`
	Y2 int `toml:"y2" json:"y2"`
}

// TileFile describes one tile.
type TileFile struct {
	Number   int    `toml:"number" json:"number"`
	Name     string `toml:"name" json:"name"`
	Image    string `toml:"image" json:"image"`
	Unlocked bool   `toml:"unlocked" json:"unlocked"`
}

// TileRenderOptions mirrors tile.Options with optional fields.
type TileRenderOptions struct {
	Padding    *int `toml:"padding" json:"padding,omitempty"`
	BorderSize *int `toml:"border_size" json:"border_size,omitempty"`
	InsetSize  *int `toml:"inset_size" json:"inset_size,omitempty"`
	TextSize   *int `toml:"text_size" json:"text_size,omitempty"`
	// PixelCutoff turns on label pixelation at this alpha cutoff (0-255).
	PixelCutoff *int `toml:"pixel_cutoff" json:"pixel_cutoff,omitempty"`
	// Font is a TTF/OTF/WOFF/WOFF2 file; empty uses the bundled font.
	Font          string       `toml:"font" json:"-"`
	LockedTheme   *ThemeConfig `toml:"locked_theme" json:"locked_theme,omitempty"`
	UnlockedTheme *ThemeConfig `toml:"unlocked_theme" json:"unlocked_theme,omitempty"`
}

// ThemeConfig holds "#RRGGBB" or "#RRGGBBAA" colors; empty keeps the default.
type ThemeConfig struct {
	BorderColor     string `toml:"border_color" json:"border_color,omitempty"`
	InsetColor      string `toml:"inset_color" json:"inset_color,omitempty"`
	BackgroundColor string `toml:"background_color" json:"background_color,omitempty"`
	TextColor       string `toml:"text_color" json:"text_color,omitempty"`
}

// QRConfig places a QR code for Text at (X, Y) with side Size.
type QRConfig struct {
	Text string `toml:"text" json:"text"`
	X    int    `toml:"x" json:"x"`
	Y    int    `toml:"y" json:"y"`
	Size int    `toml:"size" json:"size"`
}

// Load reads a TOML board file. Relative image, font and CSV paths are
// resolved against the file's directory.
func Load(path string) (*BoardFile, error) {
	var f BoardFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.resolvePaths(filepath.Dir(path))
	if f.TilesCSV != "" {
		extra, err := LoadTilesCSV(f.TilesCSV)
		if err != nil {
			return nil, err
		}
		for i := range extra {
			extra[i].Image = resolve(filepath.Dir(f.TilesCSV), extra[i].Image)
		}
		f.Tiles = append(f.Tiles, extra...)
	}
	return &f, nil
}

// Decode reads a JSON board file, as posted to the HTTP API.
func Decode(r io.Reader) (*BoardFile, error) {
	var f BoardFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing board: %w", err)
	}
	return &f, nil
}

func (f *BoardFile) resolvePaths(dir string) {
	f.Image = resolve(dir, f.Image)
	f.TileRenderOptions.Font = resolve(dir, f.TileRenderOptions.Font)
	f.TilesCSV = resolve(dir, f.TilesCSV)
	for i := range f.Tiles {
		f.Tiles[i].Image = resolve(dir, f.Tiles[i].Image)
	}
}

func resolve(dir, location string) string {
	if location == "" || filepath.IsAbs(location) {
		return location
	}
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return location
	}
	return filepath.Join(dir, location)
}

// TileOptions merges the file's overrides onto tile.DefaultOptions and
// validates the result.
func (f *BoardFile) TileOptions() (tile.Options, error) {
	opts := tile.DefaultOptions()
	opts.TileSize = f.TileSize
	o := f.TileRenderOptions
	setInt(&opts.Padding, o.Padding)
	setInt(&opts.BorderSize, o.BorderSize)
	setInt(&opts.InsetSize, o.InsetSize)
	setInt(&opts.TextSize, o.TextSize)
	for name, v := range map[string]int{
		"padding": opts.Padding, "border_size": opts.BorderSize,
		"inset_size": opts.InsetSize, "text_size": opts.TextSize,
	} {
		if v < 0 {
			return opts, fmt.Errorf("tile_render_options.%s must not be negative", name)
		}
	}
	if o.PixelCutoff != nil {
		if *o.PixelCutoff < 0 || *o.PixelCutoff > 255 {
			return opts, fmt.Errorf("tile_render_options.pixel_cutoff must be 0-255, got %d", *o.PixelCutoff)
		}
		c := uint8(*o.PixelCutoff)
		opts.PixelCutoff = &c
	}
	if err := applyTheme(&opts.Locked, o.LockedTheme); err != nil {
		return opts, fmt.Errorf("locked_theme: %w", err)
	}
	if err := applyTheme(&opts.Unlocked, o.UnlockedTheme); err != nil {
		return opts, fmt.Errorf("unlocked_theme: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func applyTheme(t *tile.Theme, c *ThemeConfig) error {
	if c == nil {
		return nil
	}
	fields := []struct {
		name string
		hex  string
		dst  *color.NRGBA
	}{
		{"border_color", c.BorderColor, &t.Border},
		{"inset_color", c.InsetColor, &t.Inset},
		{"background_color", c.BackgroundColor, &t.Background},
		{"text_color", c.TextColor, &t.Text},
	}
	for _, fd := range fields {
		if fd.hex == "" {
			continue
		}
		col, err := ParseHexColor(fd.hex)
		if err != nil {
			return fmt.Errorf("%s: %w", fd.name, err)
		}
		*fd.dst = col
	}
	return nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// TextRenderer loads the configured label font, or the bundled one.
func (f *BoardFile) TextRenderer() (*imagepkg.TextRenderer, error) {
	if f.TileRenderOptions.Font == "" {
		return imagepkg.DefaultTextRenderer(), nil
	}
	b, err := os.ReadFile(f.TileRenderOptions.Font)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	return imagepkg.NewTextRenderer(b)
}
