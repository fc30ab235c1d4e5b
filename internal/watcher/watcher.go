package watcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled dataset file.
type Handler func(path string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for file events and handler failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithInitialScan makes Start hand every dataset file already in the
// directory to the handler, in name order, before watching for changes.
func WithInitialScan() Option {
	return func(w *Watcher) {
		w.initialScan = true
	}
}

// Watcher hands settled dataset files in a directory to a Handler.
type Watcher struct {
	dir         string
	handler     Handler
	debounce    time.Duration
	initialScan bool
	log         logrus.FieldLogger

	fsw    *fsnotify.Watcher
	fire   chan firing
	stopCh chan struct{}
	wg     sync.WaitGroup

	// owned by the run goroutine
	timers map[string]*pending
	gen    uint64

	mu       sync.Mutex
	started  bool
	stopped  bool
	handled  int
	failures int
}

// pending is a debounce timer. A firing whose gen no longer matches the
// pending entry for its path is stale and ignored.
type pending struct {
	timer *time.Timer
	gen   uint64
}

type firing struct {
	path string
	gen  uint64
}

// New creates a Watcher for dir. The directory must exist.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	w := &Watcher{
		dir:      dir,
		handler:  handler,
		debounce: DefaultDebounce,
		log:      l,
		fire:     make(chan firing),
		stopCh:   make(chan struct{}),
		timers:   make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithField("dir", dir)
	return w, nil
}

// IsDatasetFile reports whether path names a transaction file the watcher
// should handle. Hidden files and editor temporaries are ignored.
func IsDatasetFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".csv")
}

// Start subscribes to the directory and begins handling files.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	var existing []string
	if w.initialScan {
		existing, err = w.datasetFiles()
		if err != nil {
			fsw.Close()
			return err
		}
	}

	w.fsw = fsw
	w.started = true

	w.wg.Add(1)
	go w.run(existing)

	w.log.WithField("debounce", w.debounce).Info("watching for dataset files")
	return nil
}

// Stop unsubscribes and waits for the handler in progress, if any. Files
// still inside their debounce period are dropped. Stop is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()

	for path, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, path)
	}

	if err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}
	return nil
}

// Handled returns how many files were handed to the handler successfully.
func (w *Watcher) Handled() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handled
}

// Failures returns how many handler calls returned an error.
func (w *Watcher) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

func (w *Watcher) run(existing []string) {
	defer w.wg.Done()

	for _, path := range existing {
		select {
		case <-w.stopCh:
			return
		default:
			w.handle(path)
		}
	}

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.onEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("fsnotify error")

		case f := <-w.fire:
			w.deliver(f)
		}
	}
}

func (w *Watcher) onEvent(event fsnotify.Event) {
	if !IsDatasetFile(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The file is gone under this name; a rename target arrives as Create.
		if p, ok := w.timers[event.Name]; ok {
			p.timer.Stop()
			delete(w.timers, event.Name)
		}
	}
}

// schedule (re)starts the debounce timer for path. A timer that already
// fired but is still waiting to deliver is superseded by the new generation.
func (w *Watcher) schedule(path string) {
	if p, ok := w.timers[path]; ok {
		p.timer.Stop()
	}
	w.gen++
	f := firing{path: path, gen: w.gen}
	t := time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- f:
		case <-w.stopCh:
		}
	})
	w.timers[path] = &pending{timer: t, gen: f.gen}
}

// deliver hands a settled file to the handler unless the firing was
// superseded by a later event or cancelled by a remove or rename.
func (w *Watcher) deliver(f firing) {
	p, ok := w.timers[f.path]
	if !ok || p.gen != f.gen {
		return
	}
	delete(w.timers, f.path)
	w.handle(f.path)
}

func (w *Watcher) handle(path string) {
	log := w.log.WithField("file", filepath.Base(path))
	start := time.Now()

	err := w.handler(path)

	w.mu.Lock()
	if err != nil {
		w.failures++
	} else {
		w.handled++
	}
	w.mu.Unlock()

	if err != nil {
		log.WithError(err).Error("failed to handle dataset file")
		return
	}
	log.WithField("duration", time.Since(start)).Debug("handled dataset file")
}

func (w *Watcher) datasetFiles() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", w.dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsDatasetFile(e.Name()) {
			files = append(files, filepath.Join(w.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
