// Package repwatch watches a rep-log CSV and auto-logs finished sessions.
//
// The notebook tracker appends one row per detected rep to a CSV file.
// The watcher counts data rows after each quiet period and posts the
// delta as a session summary.
package repwatch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// SessionLogger posts a finished session's rep count.
// *coresync.Client satisfies this interface.
type SessionLogger interface {
	LogSessionSummary(ctx context.Context, repCount int) bool
}

// Watcher monitors a rep-log CSV via fsnotify.
type Watcher struct {
	path     string
	debounce time.Duration
	client   SessionLogger
	logger   zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	logged int // data rows already reported
}

// New creates a Watcher for the given CSV path.
func New(path string, debounce time.Duration, client SessionLogger, logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		debounce: debounce,
		client:   client,
		logger:   logger,
	}
}

// Run watches the rep log until the context is cancelled.
// Rows already present at startup belong to an earlier session and are
// never reported.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so a freshly created file is seen too.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if n, err := w.countRows(); err == nil {
		w.mu.Lock()
		w.logged = n
		w.mu.Unlock()
	}

	w.logger.Info().Str("path", w.path).Msg("watching rep log")

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleFlush(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// scheduleFlush (re)arms the debounce timer. A session counts as finished
// once the file has been quiet for the debounce interval.
func (w *Watcher) scheduleFlush(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

// flush posts any reps added since the last report. The watermark only
// advances when the service accepts the session.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	total, err := w.countRows()
	if err != nil {
		w.logger.Warn().Err(err).Msg("read rep log")
		return
	}
	if total <= w.logged {
		return
	}

	delta := total - w.logged
	w.logger.Info().Int("reps", delta).Msg("session finished")
	if w.client.LogSessionSummary(ctx, delta) {
		w.logged = total
	}
}

// countRows returns the number of data rows in the CSV, excluding the
// header row the tracker writes first.
func (w *Watcher) countRows() (int, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		rows++
	}
	if rows > 0 {
		rows--
	}
	return rows, nil
}
