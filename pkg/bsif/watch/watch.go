// Package watch re-validates a BSIF document whenever its file changes
// on disk, using a debounce map drained on a ticker so editors that
// write in bursts trigger one revalidation, not five.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
)

// Result is delivered to the caller's callback after each (debounced)
// re-validation.
type Result struct {
	Path  string
	Diags diag.List
	Err   error
}

// Watcher watches a set of BSIF document files and re-validates on
// change.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	debounce    map[string]time.Time
	debounceDur time.Duration
	onChange    func(Result)
}

// New creates a Watcher over the given document paths. onChange is called
// once per debounced change, from the Watcher's own goroutine.
func New(paths []string, onChange func(Result)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return &Watcher{
		fsw:         fsw,
		debounce:    map[string]time.Time{},
		debounceDur: 300 * time.Millisecond,
		onChange:    onChange,
	}, nil
}

// Run blocks, dispatching debounced re-validations until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
		case <-ticker.C:
			w.flushDebounced()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !isBSIFFile(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	w.mu.Lock()
	w.debounce[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushDebounced() {
	now := time.Now()
	var ready []string
	w.mu.Lock()
	for path, t := range w.debounce {
		if now.Sub(t) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.debounce, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		_, diags := validate.ValidateFile(path)
		w.onChange(Result{Path: path, Diags: diags})
	}
}

func isBSIFFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".json" || ext == ".yaml" || ext == ".yml"
}
