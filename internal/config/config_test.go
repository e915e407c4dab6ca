package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/tile"
)

const sampleBoard = `
name = "Spring bingo"
rows = 2
cols = 2
tile_size = 100
image = "board.png"
tiles_csv = "more/tiles.csv"

[content_rect]
x1 = 10
y1 = 20
x2 = 230
y2 = 240

[tile_render_options]
padding = 3
text_size = 14
pixel_cutoff = 140

[tile_render_options.unlocked_theme]
text_color = "#00FF1C"
background_color = "#10203080"

[[tiles]]
number = 1
name = "Serpentine helm"
image = "https://oldschool.runescape.wiki/images/Serpentine_helm_detail.png"
unlocked = true

[[tiles]]
number = 2
name = "1M Agility XP"
image = "icons/agility.png"
`

const sampleCSV = `Number,Name,Image,Unlocked
3,Dragon pickaxe,pickaxe.png,yes
4, Fire cape ,cape.png,
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "more"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "more", "tiles.csv"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "board.toml")
	if err := os.WriteFile(path, []byte(sampleBoard), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSample(t)
	dir := filepath.Dir(path)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "Spring bingo" || f.Rows != 2 || f.Cols != 2 || f.TileSize != 100 {
		t.Errorf("header = %+v", f)
	}
	if f.ContentRect != (ContentRect{X1: 10, Y1: 20, X2: 230, Y2: 240}) {
		t.Errorf("content rect = %+v", f.ContentRect)
	}
	if want := filepath.Join(dir, "board.png"); f.Image != want {
		t.Errorf("image = %q, want %q", f.Image, want)
	}
	if len(f.Tiles) != 4 {
		t.Fatalf("got %d tiles, want 4", len(f.Tiles))
	}
	if !strings.HasPrefix(f.Tiles[0].Image, "https://") {
		t.Errorf("url rewritten to %q", f.Tiles[0].Image)
	}
	if want := filepath.Join(dir, "icons", "agility.png"); f.Tiles[1].Image != want {
		t.Errorf("relative image = %q, want %q", f.Tiles[1].Image, want)
	}
	csvTile := f.Tiles[2]
	if csvTile.Number != 3 || csvTile.Name != "Dragon pickaxe" || !csvTile.Unlocked {
		t.Errorf("csv tile = %+v", csvTile)
	}
	if want := filepath.Join(dir, "more", "pickaxe.png"); csvTile.Image != want {
		t.Errorf("csv image = %q, want %q", csvTile.Image, want)
	}
	if f.Tiles[3].Name != "Fire cape" || f.Tiles[3].Unlocked {
		t.Errorf("csv tile = %+v", f.Tiles[3])
	}
}

func TestTileOptions(t *testing.T) {
	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := f.TileOptions()
	if err != nil {
		t.Fatalf("TileOptions: %v", err)
	}
	def := tile.DefaultOptions()
	if opts.TileSize != 100 || opts.Padding != 3 || opts.TextSize != 14 {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if opts.BorderSize != def.BorderSize || opts.InsetSize != def.InsetSize {
		t.Errorf("defaults lost: %+v", opts)
	}
	if opts.PixelCutoff == nil || *opts.PixelCutoff != 140 {
		t.Errorf("pixel cutoff = %v", opts.PixelCutoff)
	}
	if want := (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}); opts.Unlocked.Background != want {
		t.Errorf("unlocked background = %v, want %v", opts.Unlocked.Background, want)
	}
	if opts.Unlocked.Border != imagepkg.DefaultBorderColor {
		t.Errorf("unlocked border = %v, want default", opts.Unlocked.Border)
	}
	if opts.Locked != def.Locked {
		t.Errorf("locked theme changed: %+v", opts.Locked)
	}
}

func TestTileOptionsErrors(t *testing.T) {
	neg, big, wide := -2, 300, 40
	tests := []struct {
		name     string
		tileSize int
		opts     TileRenderOptions
	}{
		{"negative padding", 100, TileRenderOptions{Padding: &neg}},
		{"cutoff too big", 100, TileRenderOptions{PixelCutoff: &big}},
		{"bad color", 100, TileRenderOptions{LockedTheme: &ThemeConfig{TextColor: "orange"}}},
		{"no content area", 100, TileRenderOptions{Padding: &wide}},
		{"text larger than tile", 100, TileRenderOptions{TextSize: &big}},
		{"tile too large", tile.MaxTileSize + 1, TileRenderOptions{}},
		{"missing tile size", 0, TileRenderOptions{}},
	}
	for _, tt := range tests {
		f := &BoardFile{TileSize: tt.tileSize, TileRenderOptions: tt.opts}
		if _, err := f.TileOptions(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF9000", color.NRGBA{R: 0xff, G: 0x90, A: 0xff}, false},
		{"00ff1c", color.NRGBA{G: 0xff, B: 0x1c, A: 0xff}, false},
		{"#01020304", color.NRGBA{R: 1, G: 2, B: 3, A: 4}, false},
		{"#FFF", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	body := `{"name":"B","rows":1,"cols":1,"tile_size":50,"image":"https://x.test/bg.png",
		"content_rect":{"x1":0,"y1":0,"x2":50,"y2":50},
		"tile_render_options":{"padding":2,"locked_theme":{"text_color":"#FFFFFF"}},
		"tiles":[{"number":1,"name":"A","image":"https://x.test/a.png","unlocked":true}]}`
	f, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Tiles[0].Name != "A" || *f.TileRenderOptions.Padding != 2 {
		t.Errorf("decoded %+v", f)
	}
	if _, err := Decode(strings.NewReader(`{"rows":1,"bogus":true}`)); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestTextRenderer(t *testing.T) {
	f := &BoardFile{}
	if _, err := f.TextRenderer(); err != nil {
		t.Errorf("default font: %v", err)
	}
	f.TileRenderOptions.Font = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := f.TextRenderer(); err == nil {
		t.Error("expected error for missing font file")
	}
}

func TestLoadTilesCSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.csv")
	if err := os.WriteFile(path, []byte("number,name\n1,A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTilesCSV(path); err == nil {
		t.Error("expected error for missing image column")
	}
}
