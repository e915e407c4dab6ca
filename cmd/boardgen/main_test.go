package main

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	imagepkg "github.com/youruser/boardgen/internal/image"
)

const boardTOML = `
rows = 1
cols = 2
tile_size = 60
image = "bg.png"

[content_rect]
x1 = 0
y1 = 0
x2 = 150
y2 = 80

[[tiles]]
number = 2
name = "B"
image = "icon.png"

[[tiles]]
number = 1
name = "A"
image = "icon.png"
unlocked = true
`

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, imagepkg.New(w, h, imagepkg.Yellow)); err != nil {
		t.Fatal(err)
	}
}

func setupBoards(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "boards")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{dir, filepath.Join(dir, "nested")} {
		writePNG(t, filepath.Join(d, "bg.png"), 160, 90)
		writePNG(t, filepath.Join(d, "icon.png"), 12, 12)
	}
	if err := os.WriteFile(filepath.Join(dir, "spring.toml"), []byte(boardTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "summer.toml"), []byte(boardTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestExpand(t *testing.T) {
	dir := setupBoards(t)
	pattern := filepath.Join(dir, "**", "*.toml")
	files, err := expand([]string{pattern, pattern})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %v, want 2 files", files)
	}
}

func TestOutputPath(t *testing.T) {
	r := &renderer{outDir: "out"}
	if got, want := r.outputPath(filepath.Join("boards", "spring.toml")), filepath.Join("out", "spring.png"); got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}
}

func TestRun(t *testing.T) {
	dir := setupBoards(t)
	out := filepath.Join(t.TempDir(), "out")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), log, []string{filepath.Join(dir, "**", "*.toml")}, out, t.TempDir(), 2, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"spring.png", "summer.png"} {
		f, err := os.Open(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("missing output: %v", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
			t.Errorf("%s size = %v, want 160x90", name, b)
		}
	}
}

func TestRunNoMatches(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), log, []string{filepath.Join(t.TempDir(), "*.toml")}, t.TempDir(), t.TempDir(), 1, false)
	if err == nil {
		t.Error("expected error when nothing matches")
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("rows = \"two\""), 0o644); err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), log, []string{filepath.Join(dir, "*.toml")}, t.TempDir(), t.TempDir(), 1, false); err == nil {
		t.Error("expected error for a broken board file")
	}
}

func TestMatchesAny(t *testing.T) {
	if !matchesAny([]string{"boards/**/*.toml"}, filepath.Join("boards", "a", "b.toml")) {
		t.Error("nested board not matched")
	}
	if matchesAny([]string{"boards/*.toml"}, filepath.Join("boards", "bg.png")) {
		t.Error("png matched a toml pattern")
	}
}

// writeBoardDir creates dir holding one board file and its images.
func writeBoardDir(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "bg.png"), 160, 90)
	writePNG(t, filepath.Join(dir, "icon.png"), 12, 12)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(boardTOML), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatchTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "winter")
	writeBoardDir(t, filepath.Join(root, "deep"), "winter.toml")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	r := &renderer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	boards := r.watchTree(w, root, []string{filepath.Join(filepath.Dir(root), "**", "*.toml")})
	if want := filepath.Join(root, "deep", "winter.toml"); len(boards) != 1 || boards[0] != want {
		t.Errorf("boards = %v, want [%s]", boards, want)
	}
	watched := w.WatchList()
	for _, d := range []string{root, filepath.Join(root, "deep")} {
		if !slices.Contains(watched, d) {
			t.Errorf("%s not watched, have %v", d, watched)
		}
	}
}

func TestWatchPicksUpNewDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "boards")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	staging := filepath.Join(t.TempDir(), "autumn")
	writeBoardDir(t, staging, "autumn.toml")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader, err := imagepkg.NewLoader(imagepkg.LoaderOptions{CacheDir: t.TempDir(), Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	r := &renderer{loader: loader, log: log, outDir: out, workers: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.watch(ctx, []string{filepath.Join(root, "**", "*.toml")}, nil) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register the root
	time.Sleep(300 * time.Millisecond)
	if err := os.Rename(staging, filepath.Join(root, "autumn")); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(out, "autumn.png")
	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, err := os.Stat(target); err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s not rendered after the directory appeared", target)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
