// Package watch re-triggers reviews when source files under a directory
// change. It uses fsnotify and falls back to mod-time polling where inotify
// is unavailable (network mounts, some containers).
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/revizor/internal/rules"
)

// debounceDefault batches bursts of editor writes into one review.
const debounceDefault = 200 * time.Millisecond

// pollDefault is the scan interval in poll mode.
const pollDefault = 5 * time.Second

// Config holds watcher configuration.
type Config struct {
	Root         string
	Debounce     time.Duration
	PollInterval time.Duration
	PollMode     bool

	// OnChange receives a batch of changed paths after the debounce window.
	OnChange func(ctx context.Context, files []string)
}

// Watcher monitors a source tree.
type Watcher struct {
	cfg Config
}

// New validates the configuration and returns a watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch root is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = debounceDefault
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = pollDefault
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", cfg.Root)
	}

	return &Watcher{cfg: cfg}, nil
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.cfg.PollMode {
		return w.runPoll(ctx)
	}
	return w.runFSNotify(ctx)
}

func (w *Watcher) runFSNotify(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirs(watcher, w.cfg.Root); err != nil {
		return fmt.Errorf("watch tree: %w", err)
	}

	slog.Info("watching for changes", "mode", "fsnotify", "dir", w.cfg.Root)

	var mu sync.Mutex
	pending := make(map[string]struct{})
	var flush *time.Timer

	fire := func() {
		mu.Lock()
		files := make([]string, 0, len(pending))
		for p := range pending {
			files = append(files, p)
		}
		pending = make(map[string]struct{})
		mu.Unlock()

		if len(files) > 0 {
			w.cfg.OnChange(ctx, files)
		}
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if flush != nil {
				flush.Stop()
			}
			mu.Unlock()
			slog.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipDir(filepath.Base(event.Name)) {
						_ = addDirs(watcher, event.Name)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !reviewable(event.Name) {
				continue
			}

			mu.Lock()
			pending[event.Name] = struct{}{}
			if flush != nil {
				flush.Stop()
			}
			flush = time.AfterFunc(w.cfg.Debounce, fire)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	slog.Info("watching for changes", "mode", "poll", "dir", w.cfg.Root, "interval", w.cfg.PollInterval)

	seen := snapshot(w.cfg.Root)
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case <-ticker.C:
			current := snapshot(w.cfg.Root)
			var changed []string
			for path, mod := range current {
				if prev, ok := seen[path]; !ok || !prev.Equal(mod) {
					changed = append(changed, path)
				}
			}
			seen = current
			if len(changed) > 0 {
				w.cfg.OnChange(ctx, changed)
			}
		}
	}
}

// snapshot maps every reviewable file under root to its mod time.
func snapshot(root string) map[string]time.Time {
	mods := make(map[string]time.Time)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && skipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !reviewable(path) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			mods[path] = info.ModTime()
		}
		return nil
	})
	return mods
}

// addDirs registers dir and every non-skipped subdirectory with the watcher.
func addDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "__pycache__", "venv", "dist", "build", "target":
		return true
	}
	return false
}

func reviewable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return rules.DetectLanguage(path) != rules.LangUnknown
}
