package prefabs

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/milk9111/moveset/logger"
)

const reloadDebounce = 100 * time.Millisecond

type ChangeKind uint8

const (
	ChangePreset ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePreset:
		return "preset"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is one debounced edit to a preset or cost script on disk.
type Change struct {
	Path string
	Kind ChangeKind
	// Preset is set for preset edits. A script edit may affect any preset
	// that references it.
	Preset string
}

// Affects reports whether a controller running preset should reload.
func (c Change) Affects(preset string) bool {
	return c.Kind == ChangeScript || c.Preset == preset
}

func classify(path string) (Change, bool) {
	switch {
	case isSpecFile(path):
		return Change{Path: path, Kind: ChangePreset, Preset: PresetName(path)}, true
	case isScriptFile(path):
		return Change{Path: path, Kind: ChangeScript}, true
	default:
		return Change{}, false
	}
}

// Watcher turns file system notifications under the override directories
// into Changes. Both channels close once the watcher stops.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs. Every directory must exist.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefabs: new watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("prefabs: watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:      fsw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	logger.Info("watching presets", zap.Strings("dirs", dirs))
	return w, nil
}

// DefaultWatchDirs are the on-disk override directories.
func DefaultWatchDirs() []string {
	return []string{filepath.Join(DiskRoot, "presets"), filepath.Join(DiskRoot, "scripts")}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	defer close(w.Errors)

	// Editors often write a file several times per save.
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			change, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[event.Name]; seen && now.Sub(t) < reloadDebounce {
				continue
			}
			last[event.Name] = now
			logger.Debug("preset file changed", zap.String("path", change.Path), zap.Stringer("kind", change.Kind))

			select {
			case w.Changes <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				logger.Warn("preset watcher error dropped", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
