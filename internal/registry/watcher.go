package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors a registry root for add-on changes and signals, debounced,
// when a refresh is due.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	kind      Kind
	debounce  time.Duration
	log       zerolog.Logger
	onChange  chan struct{}
	done      chan struct{}

	// dirs is owned by loop once Start returns.
	dirs map[string]struct{}
}

// NewWatcher creates a watcher for the registry's root directory.
func NewWatcher(r *Registry, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsWatcher: fsw,
		root:      r.Dir(),
		kind:      r.kind,
		debounce:  debounce,
		log:       r.log,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		dirs:      make(map[string]struct{}),
	}, nil
}

// Start watches the root and every directory below it.
// The returned channel receives a signal after a burst of changes settles
// and is closed once the watcher stops.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.addTree(w.root); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.root, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return err
		}
		w.dirs[path] = struct{}{}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.onChange)

	var (
		timer   *time.Timer
		pending bool
	)
	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		pending = true
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// A directory created or moved in may already hold add-ons.
			if event.Op&fsnotify.Create != 0 {
				if isDir, err := statDir(event.Name); err == nil && isDir {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn().Err(err).Str("dir", event.Name).Msg("cannot watch new directory")
					}
					arm()
					continue
				}
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			arm()

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Str("dir", w.root).Msg("watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent keeps add-on files, their meta sidecars and watched
// directories that were removed or moved away.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.forgetDir(event.Name) {
		return true
	}
	if w.kind.accepts(event.Name) {
		return true
	}
	for _, suffix := range sidecarMetaSuffixes {
		if strings.HasSuffix(event.Name, suffix) {
			return true
		}
	}
	return false
}

// forgetDir drops path and everything below it from the watched set and
// reports whether path was a watched directory.
func (w *Watcher) forgetDir(path string) bool {
	if _, ok := w.dirs[path]; !ok {
		return false
	}
	prefix := path + string(filepath.Separator)
	for d := range w.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			_ = w.fsWatcher.Remove(d)
			delete(w.dirs, d)
		}
	}
	return true
}

func statDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}
