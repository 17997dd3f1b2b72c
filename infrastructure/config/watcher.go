package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/XenocodeRCE/SophIA-sub000/pkg/errors"
)

// Watcher reloads the configuration file whenever it changes on disk. A
// reload that fails to parse or validate is dropped and the current
// configuration stays in place.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *Config
	mu       sync.RWMutex
	onChange []func(*Config)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewWatcher loads the initial configuration from path and prepares the file
// watcher. Call Start to begin receiving updates.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create file watcher")
	}

	// Watch the directory too, so atomic saves (write temp then rename)
	// are picked up.
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, pkgerrors.Wrap(err, "failed to watch config file")
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    path,
		watcher: fw,
		current: cfg,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("configuration watcher stopped")
}

func (w *Watcher) watchLoop() {
	// Editors and atomic saves fire several events per change; debounce.
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.handleChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleChange() {
	w.logger.Info("configuration file changed, reloading", zap.String("path", w.path))

	newConfig, err := Load(w.path)
	if err != nil {
		w.logger.Error("invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = newConfig
	handlers := make([]func(*Config), len(w.onChange))
	copy(handlers, w.onChange)
	w.mu.Unlock()

	for _, handler := range handlers {
		go handler(newConfig)
	}
	w.logger.Info("configuration reloaded")
}

// OnChange registers a callback invoked after every successful reload.
func (w *Watcher) OnChange(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the latest valid configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Save writes a configuration to the watched path via a temp file and
// rename, and makes it current.
func (w *Watcher) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode configuration")
	}

	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return pkgerrors.Wrap(err, "failed to write temp config file")
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return pkgerrors.Wrap(err, "failed to replace config file")
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	return nil
}
