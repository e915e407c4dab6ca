package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is re-rendered;
// editors often save with several writes.
const settle = 200 * time.Millisecond

// watch re-renders board files matching patterns as they are written, until
// ctx is done. Directories of the initial matches and the static prefix of
// each pattern are watched, as is any directory created under them later.
func (r *renderer) watch(ctx context.Context, patterns, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for _, p := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		dirs[filepath.FromSlash(base)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			r.log.Warn("cannot watch directory", "dir", d, "error", err)
			continue
		}
		r.log.Debug("watching directory", "dir", d)
	}
	r.log.Info("watching for board changes", "patterns", patterns)

	pending := map[string]*time.Timer{}
	due := make(chan string)
	schedule := func(name string) {
		if t, ok := pending[name]; ok {
			t.Reset(settle)
			return
		}
		pending[name] = time.AfterFunc(settle, func() {
			select {
			case due <- name:
			case <-ctx.Done():
			}
		})
	}
	for {
		select {
		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					for _, name := range r.watchTree(w, event.Name, patterns) {
						schedule(name)
					}
					continue
				}
			}
			if matchesAny(patterns, event.Name) {
				schedule(event.Name)
			}
		case name := <-due:
			delete(pending, name)
			if err := r.render(ctx, name); err != nil {
				r.log.Error("render failed", "board", name, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watcher error", "error", err)
		}
	}
}

// watchTree adds root and every directory below it to w and returns the
// board files already inside that match patterns. Files written before the
// watch was added would otherwise be missed.
func (r *renderer) watchTree(w *fsnotify.Watcher, root string, patterns []string) []string {
	var boards []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				r.log.Warn("cannot watch directory", "dir", path, "error", err)
				return nil
			}
			r.log.Debug("watching directory", "dir", path)
			return nil
		}
		if matchesAny(patterns, path) {
			boards = append(boards, path)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("cannot walk new directory", "dir", root, "error", err)
	}
	return boards
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.PathMatch(filepath.Clean(p), filepath.Clean(name)); ok {
			return true
		}
	}
	return false
}
