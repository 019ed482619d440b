package ui

import (
	"github.com/fsnotify/fsnotify"
)

// WatchAndRender re-invokes render whenever any of paths changes on disk. No CLI command or flag
// calls it; `status` and `doctor` have no --watch mode. render is called once immediately, then again after every
// write/create event on a watched path; a missing path (not yet created) is skipped rather than
// failing the whole watch.
func WatchAndRender(paths []string, render func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		_ = watcher.Add(p) // best-effort: a not-yet-created team-state.json is added once it appears
	}

	render()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				render()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
