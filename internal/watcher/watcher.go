// Package watcher provides file system watching with debouncing for STAR
// source files.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a STAR source file or a directory of them and signals
// after changes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	target    string
	targetDir bool
	globs     []string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Target is the file or directory to watch.
	Target string

	// Globs filter directory events by base name. Ignored when Target is a
	// single file. Empty matches everything.
	Globs []string

	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(target string) Config {
	return Config{
		Target:      target,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a watcher for the configured target.
func New(cfg Config) (*Watcher, error) {
	info, err := os.Stat(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("stat watch target: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		target:    cfg.Target,
		targetDir: info.IsDir(),
		globs:     cfg.Globs,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching.
// Returns a channel that receives a signal when the target changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	// Watch the directory; watching a file directly misses editors that
	// replace it by rename.
	dir := w.target
	if !w.targetDir {
		dir = filepath.Dir(w.target)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Callers can wrap the watcher if they need error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a re-run.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if !w.targetDir {
		return base == filepath.Base(w.target)
	}
	if len(w.globs) == 0 {
		return true
	}
	for _, g := range w.globs {
		if ok, err := filepath.Match(g, base); err == nil && ok {
			return true
		}
	}
	return false
}
