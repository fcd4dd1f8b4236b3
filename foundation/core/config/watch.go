// File: watch.go
// Title: Configuration File Watching Implementation
// Description: Implements fsnotify-based monitoring of the configuration
//              file to support hot-reloading. Change handlers registered via
//              OnChange receive old and new configuration snapshots.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-03
// Modified: 2025-11-03
//
// Change History:
// - 2025-11-03 v0.1.0: Initial implementation with fsnotify

package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/utils/stringx"
)

// fileWatcher wraps an fsnotify watcher bound to one config file
type fileWatcher struct {
	notify *fsnotify.Watcher
	done   chan struct{}
}

// StartWatching begins monitoring the configuration file for changes.
// Editors typically replace files on save, so the parent directory is
// watched and events are filtered by name.
func (c *Config) StartWatching() error {
	if stringx.IsBlank(c.filePath) {
		return mdcerror.New("file path required for watching").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.StartWatching")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		return nil // already watching
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return mdcerror.Wrap(err, "failed to create file watcher").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.StartWatching")
	}

	if err := notify.Add(filepath.Dir(c.filePath)); err != nil {
		_ = notify.Close()
		return mdcerror.Wrap(err, "failed to watch config directory").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.StartWatching").
			WithDetail("dir", filepath.Dir(c.filePath))
	}

	watcher := &fileWatcher{
		notify: notify,
		done:   make(chan struct{}),
	}
	c.watcher = watcher

	go c.watchLoop(watcher)

	return nil
}

// StopWatching stops file monitoring
func (c *Config) StopWatching() {
	c.mu.Lock()
	watcher := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if watcher != nil {
		close(watcher.done)
		_ = watcher.notify.Close()
	}
}

// watchLoop consumes fsnotify events until the watcher is stopped
func (c *Config) watchLoop(watcher *fileWatcher) {
	target := filepath.Clean(c.filePath)

	for {
		select {
		case <-watcher.done:
			return

		case event, ok := <-watcher.notify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Reload failures keep the previous configuration
			_ = c.reload()

		case _, ok := <-watcher.notify.Errors:
			if !ok {
				return
			}
		}
	}
}

// reload re-reads the file and notifies registered change handlers
func (c *Config) reload() error {
	content, err := os.ReadFile(c.filePath)
	if err != nil {
		return mdcerror.Wrap(err, "failed to read config file during reload").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.reload").
			WithDetail("filePath", c.filePath)
	}

	newData, err := parseContent(content, c.format)
	if err != nil {
		return mdcerror.Wrap(err, "failed to parse config file during reload").
			WithCode(mdcerror.CodeInvalidConfig).
			WithOperation("config.reload").
			WithDetail("filePath", c.filePath)
	}

	oldConfig := c.snapshot()

	c.mu.Lock()
	c.data = newData
	handlers := make([]ChangeHandler, len(c.watchers))
	copy(handlers, c.watchers)
	c.mu.Unlock()

	newConfig := c.snapshot()

	for _, handler := range handlers {
		if handler != nil {
			go handler(oldConfig, newConfig)
		}
	}

	return nil
}
