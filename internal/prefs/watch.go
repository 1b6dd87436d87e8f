package prefs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 150 * time.Millisecond

// Watch reloads the preferences file whenever it changes on disk and calls
// onChange with the new value. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that editors
// which replace the file (and Save, which renames over it) keep being seen.
// Bursts of events are coalesced into one reload.
func Watch(ctx context.Context, path string, onChange func(Prefs)) error {
	if onChange == nil {
		return nil
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prefs watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(resolved)); err != nil {
		return fmt.Errorf("watch prefs dir: %w", err)
	}

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != resolved {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(reloadDelay)
		case _, ok := <-w.Errors:
			if !ok {
				return nil
			}
		case <-timer.C:
			p, _ := Load(resolved)
			onChange(p)
		}
	}
}
