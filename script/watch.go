package script

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDebounce coalesces bursts of writes from editors.
const ReloadDebounce = 100 * time.Millisecond

// Watch reports changes to the file at path on the returned channel until
// ctx is cancelled. The parent directory is watched so that editors which
// replace the file on save are noticed too.
func Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(expandTilde(path))
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()
		debounceEvents(ctx, w, abs, ReloadDebounce, out)
	}()
	return out, nil
}

func debounceEvents(ctx context.Context, w *fsnotify.Watcher, target string, debounce time.Duration, out chan<- struct{}) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !timer.Stop() && pending {
				select {
				case <-timer.C:
				default:
				}
			}
			pending = true
			timer.Reset(debounce)
		case <-timer.C:
			if pending {
				pending = false
				select {
				case out <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}
