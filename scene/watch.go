package scene

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/cull"
)

// DefaultDebounce coalesces the burst of write events most editors
// emit when saving a file.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a scene file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself, since
// editors commonly replace the file by rename, which would drop an
// inode-based watch.
type Watcher struct {
	loader   *Loader
	path     string
	onReload func(*Scene, error)
	debounce time.Duration

	fw   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching path and calls onReload with each freshly
// loaded scene, or with the load error when the new file is broken.
// The callback runs on the watcher's goroutine.
func (l *Loader) Watch(path string, onReload func(*Scene, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		loader:   l,
		path:     abs,
		onReload: onReload,
		debounce: DefaultDebounce,
		fw:       fw,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watcher. No callbacks run after Close returns.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-fire
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			cull.Logger().Info("scene changed, reloading", slog.String("path", w.path))
			sc, err := w.loader.Load(w.path)
			w.onReload(sc, err)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			cull.Logger().Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
