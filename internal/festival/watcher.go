package festival

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports that the watched festival file was written, created or
// removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher monitors a single festival file. It watches the parent directory
// so that editors replacing the file by rename are still seen.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for path. Call Start to begin.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 4)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending  bool
		removed  bool
		lastSeen time.Time
	)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit(removed)
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				pending, removed, lastSeen = true, true, time.Now()
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				pending, removed, lastSeen = true, false, time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(lastSeen) >= w.debounce {
				w.emit(removed)
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) emit(removed bool) {
	select {
	case w.changes <- Change{Path: w.Path, Removed: removed}:
	default:
		// one queued change is enough, readers reload the whole file
	}
}
