package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"
)

// Watcher calls OnChange after a file, or anything inside a folder, changes.
// Files are watched through their parent folder so editors that save by
// renaming a temp file over the original are still seen.
type Watcher struct {
	path     string
	dir      bool
	onChange func()
	debounce *Debouncer
	log      pslog.Logger
}

// New returns a watcher for path. It does nothing until Run is called.
func New(path string, period time.Duration, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		dir:      info.IsDir(),
		onChange: onChange,
		debounce: NewDebouncer(period),
	}, nil
}

// Run watches until ctx ends
func (w *Watcher) Run(ctx context.Context) error {
	w.log = pslog.Ctx(ctx).With("watch", w.path)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.debounce.Stop()

	target := w.path
	if !w.dir {
		target = filepath.Dir(w.path)
	}
	if err := fw.Add(target); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}
	w.log.Debug("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Trace("change seen", "file", ev.Name, "op", ev.Op.String())
			w.debounce.Trigger(w.onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.dir {
		return true
	}
	return filepath.Clean(ev.Name) == w.path
}
