// Package drainwatcher provides file-triggered graceful shutdown for a
// runner. When enabled, it watches a drain file path; creating or touching
// that file asks the runner to stop. Operators can drain a node with a
// plain `touch` instead of signalling the process.
package drainwatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/lifeline/pkg/log"
	"github.com/bft-labs/lifeline/pkg/runner"
)

// Plugin implements drain-file watching. It monitors the parent directory
// of the configured path and requests a runner stop when the file appears
// or is written to.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	path          string
	debounceDelay time.Duration

	// Runtime state
	logger      log.Logger
	requestStop func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	debounce    *time.Timer
}

// Config holds configuration options for the drain watcher plugin.
type Config struct {
	// Path is the drain file to watch. Required.
	Path string

	// DebounceDelay is the delay to wait after a file event before
	// requesting the stop, absorbing editor write bursts.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults. Path must still be
// set by the caller.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new drain watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "drainwatcher"
}

// Initialize starts the watch loop. A missing path disables the plugin
// rather than failing the runner.
func (p *Plugin) Initialize(ctx context.Context, cfg runner.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.requestStop = cfg.RequestStop
	p.mu.Unlock()

	if p.path == "" {
		cfg.Logger.Warn("drain watcher disabled: no path configured")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("drain watcher initialized", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watch loop.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches the drain file's directory for changes. The directory,
// not the file, is watched: the whole point is noticing the file being
// created.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("drain watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		p.logger.Error("drain watcher: failed to watch directory", log.Err(err))
		return
	}

	// The drain file may predate the watch.
	if p.drainFileExists() {
		p.logger.Info("drain file already present", log.String("path", p.path))
		p.debounceStop()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			p.logger.Info("drain file detected, requesting stop", log.String("path", p.path))
			p.debounceStop()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("drain watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) drainFileExists() bool {
	_, err := os.Stat(p.path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

func (p *Plugin) debounceStop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, p.requestStop)
}
