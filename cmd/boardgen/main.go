// boardgen renders board files to PNG images.
//
// Usage:
//
//	boardgen [flags] pattern...
//
// Each pattern is a glob supporting ** (e.g. "boards/**/*.toml"). Every
// matching board file is rendered to <out>/<name>.png. With -watch, boards are
// re-rendered whenever their file changes until interrupted.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/youruser/boardgen/internal/board"
	"github.com/youruser/boardgen/internal/config"
	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/logger"
	"github.com/youruser/boardgen/internal/util"
)

func main() {
	outDir := flag.String("out", ".", "Directory rendered PNGs are written to")
	cacheDir := flag.String("cache-dir", imagepkg.DefaultCacheDir, "Directory for downloaded images")
	workers := flag.Int("workers", 0, "Tiles rendered in parallel (0 = one per CPU)")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn or error")
	logFile := flag.String("log-file", "", "Write logs to this file (rotated) instead of stderr")
	watch := flag.Bool("watch", false, "Re-render boards when their files change")
	flag.Parse()

	log, closer := logger.New(*logFile, logger.ParseLevel(*logLevel), 10)
	defer closer.Close()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: boardgen [flags] pattern...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, flag.Args(), *outDir, *cacheDir, *workers, *watch); err != nil {
		logger.Fail(log, "boardgen failed", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, patterns []string, outDir, cacheDir string, workers int, watch bool) error {
	files, err := expand(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 && !watch {
		return fmt.Errorf("no board files match %s", strings.Join(patterns, " "))
	}
	if err := util.EnsureDir(outDir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	loader, err := imagepkg.NewLoader(imagepkg.LoaderOptions{CacheDir: cacheDir, Logger: log})
	if err != nil {
		return err
	}
	r := &renderer{loader: loader, log: log, outDir: outDir, workers: workers}

	failed := 0
	for _, f := range files {
		if err := r.render(ctx, f); err != nil {
			log.Error("render failed", "board", f, "error", err)
			failed++
		}
	}
	if watch {
		return r.watch(ctx, patterns, files)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d boards failed", failed, len(files))
	}
	return nil
}

// expand resolves glob patterns to a sorted, de-duplicated file list.
func expand(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

type renderer struct {
	loader  board.ImageLoader
	log     *slog.Logger
	outDir  string
	workers int
}

// outputPath maps boards/spring.toml to <outDir>/spring.png.
func (r *renderer) outputPath(boardFile string) string {
	base := filepath.Base(boardFile)
	return filepath.Join(r.outDir, strings.TrimSuffix(base, filepath.Ext(base))+".png")
}

func (r *renderer) render(ctx context.Context, path string) error {
	start := time.Now()
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	img, err := board.RenderFile(ctx, f, r.loader, r.log, board.WithWorkers(r.workers))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	out := r.outputPath(path)
	if err := util.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	r.log.Info("rendered board", "board", path, "output", out, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
