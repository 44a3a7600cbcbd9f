// Package watcher reloads file-backed catalogs: it watches the directory
// holding the catalog file and publishes events.CatalogFileChanged once a
// burst of writes has been quiet for the debounce interval.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/events"
	"path/filepath"
	"sync"
	"time"
)

var ErrAlreadyRunning = errors.New("watcher already running")

const DefaultDebounce = 500 * time.Millisecond

type Watcher struct {
	log      hclog.Logger
	bus      *events.EventBus[any]
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// New watches path. The parent directory is watched rather than the file
// so editors that save by rename keep being followed.
func New(path string, bus *events.EventBus[any], debounce time.Duration, log hclog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve catalog path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create file watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		log:      log,
		bus:      bus,
		fsw:      fsw,
		path:     abs,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Path is the absolute path of the watched catalog file
func (w *Watcher) Path() string {
	return w.path
}

// Start runs the watcher in a new goroutine
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Run blocks until ctx is cancelled or Close is called
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	w.run(ctx)
	return nil
}

func (w *Watcher) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyRunning
	}
	w.running = true
	return nil
}

// Close stops the event loop and releases the fsnotify watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)

		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if running {
			<-w.doneCh
		}

		err = w.fsw.Close()
		w.log.Info("Catalog watcher stopped", "path", w.path)
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	w.log.Info("Watching catalog file", "path", w.path, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("Catalog file event", "op", event.Op.String(), "path", event.Name)
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("File watcher error", "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			delivered := w.bus.Publish(events.CatalogFileChanged{Path: w.path})
			w.log.Debug("Published catalog change", "path", w.path, "subscribers", delivered)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
