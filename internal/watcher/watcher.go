// Package watcher re-runs a conversion whenever one of its input files changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/logger"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Handler is invoked with the path of a changed input file. Calls are
// serialized.
type Handler func(path string)

// Watcher watches a fixed set of files and calls a Handler once per burst of
// changes to any of them.
//
// The parent directories are watched rather than the files themselves, so
// atomic saves (write to temp file, rename over the original) are seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	handler  Handler

	// Debouncing
	timers  map[string]*time.Timer
	timerMu sync.Mutex

	callMu sync.Mutex
	wg     sync.WaitGroup
}

// New starts watching paths. A debounce of zero selects DefaultDebounce.
func New(paths []string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.NewInputError("nothing to watch", errors.ErrInvalidFilePath)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewInputError("failed to create file watcher", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		handler:  handler,
		timers:   make(map[string]*time.Timer),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s'", p), errors.ErrInvalidFilePath)
		}
		if _, err := os.Stat(abs); err != nil {
			_ = fsw.Close()
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", p), errors.ErrFileNotFound)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errors.NewInputError(fmt.Sprintf("failed to watch %s", dir), err)
		}
	}

	return w, nil
}

// Run processes file events until ctx is cancelled, then stops pending
// timers, waits for a running handler and releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	logger.Logger.Infow("Watching for changes", logger.FieldCount, len(w.files))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("file watcher closed unexpectedly")
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("file watcher closed unexpectedly")
			}
			logger.Logger.Warnw("File watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}

	logger.Logger.Debugw("File event", "op", event.Op.String(), logger.FieldFile, path)

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		w.schedule(path)
	}
}

// schedule (re)arms the timer for path; only the last event of a burst fires.
func (w *Watcher) schedule(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if timer, exists := w.timers[path]; exists && timer.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()

		w.timerMu.Lock()
		current := w.timers[path] == timer
		if current {
			delete(w.timers, path)
		}
		w.timerMu.Unlock()
		if !current {
			return
		}

		w.callMu.Lock()
		defer w.callMu.Unlock()
		w.handler(path)
	})
	w.timers[path] = timer
}

func (w *Watcher) stop() {
	w.timerMu.Lock()
	for path, timer := range w.timers {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.timerMu.Unlock()

	w.wg.Wait()
	_ = w.fsw.Close()
	logger.Logger.Debug("File watcher stopped")
}
