package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/parameter"
)

// Change is one effect setting that differs after a reload
// Key is a crack setting key accepted by Field.UpdateSetting
type Change struct {
	Key   string
	Value any
}

// Diff returns the effect settings that differ between two configurations
func Diff(old, next Config) []Change {
	var changes []Change
	a, b := old.Settings(), next.Settings()
	for _, key := range crack.Keys {
		av, _ := a.Value(key)
		bv, _ := b.Value(key)
		if av != bv {
			changes = append(changes, Change{Key: key, Value: bv})
		}
	}
	return changes
}

// Watcher reloads the config file on change and emits effect setting changes
// Edits are debounced so one editor save produces one reload
type Watcher struct {
	mu       sync.Mutex
	path     string
	fsw      *fsnotify.Watcher
	current  Config
	changes  chan Change
	logger   *zap.Logger
	debounce time.Duration
	environ  map[string]string
	reloads  int

	closeOnce sync.Once
	closeErr  error
}

// NewWatcher watches the directory holding path, so atomic-rename saves are seen
func NewWatcher(path string, current Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		fsw:      fsw,
		current:  current,
		changes:  make(chan Change, parameter.ChangeChannelSize),
		logger:   logger,
		debounce: parameter.ConfigDebounce,
	}, nil
}

// Changes delivers effect setting changes; closed when Run returns
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Current returns the most recently loaded configuration
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reloads returns the number of successful reloads
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close releases the file watch; Run returns promptly once closed
// Safe to call more than once and without Run
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

// Run processes file events until ctx is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

// reload re-reads the file and emits the differences; invalid files are logged and skipped
func (w *Watcher) reload(ctx context.Context) {
	next, err := load(w.path, w.environ)
	if err != nil {
		w.logger.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	changes := Diff(w.current, next)
	w.current = next
	w.reloads++
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", w.path), zap.Int("changes", len(changes)))
	for _, c := range changes {
		select {
		case w.changes <- c:
		case <-ctx.Done():
			return
		}
	}
}
