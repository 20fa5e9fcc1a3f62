// Package watch re-runs the pipeline when source images change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"imgprep/internal/fileutil"
	"imgprep/internal/imageset"
	"imgprep/internal/logging"
)

// relevantOps are the operations that can change the enumerated image set.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher monitors input directories and files for image changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	dirs     map[string]struct{}
	files    map[string]struct{}
	output   string
	debounce time.Duration
	logger   *slog.Logger
}

// New watches every input directory and the parent directory of every
// input file. Events under outputDir are ignored.
func New(inputs []string, outputDir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsWatcher,
		dirs:     make(map[string]struct{}),
		files:    make(map[string]struct{}),
		output:   outputDir,
		debounce: debounce,
		logger:   logging.NewComponentLogger(logger, "watch"),
	}

	watched := make(map[string]struct{})
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("resolve %s: %w", input, err)
		}
		dir := abs
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.dirs[abs] = struct{}{}
		} else {
			w.files[abs] = struct{}{}
			dir = filepath.Dir(abs)
		}
		if _, done := watched[dir]; done {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
		w.logger.Info("watching folder", logging.String("path", dir))
	}
	return w, nil
}

// Run blocks until ctx is done, calling rebuild once events settle for the
// debounce interval. Rebuild failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				logging.String(logging.FieldImage, filepath.Base(event.Name)),
				logging.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error", logging.Error(err))
		case <-timer.C:
			w.logger.Info("sources changed; rebuilding")
			if err := rebuild(ctx); err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				w.logger.Error("rebuild failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "rebuild_failed"),
				)
			}
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&relevantOps == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if w.output != "" && fileutil.Within(w.output, name) {
		return false
	}
	if _, ok := w.files[name]; ok {
		return true
	}
	if _, ok := w.dirs[filepath.Dir(name)]; ok {
		return imageset.MatchesDirectoryScan(base)
	}
	return false
}
