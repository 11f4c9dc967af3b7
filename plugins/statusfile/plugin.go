// Package statusfile persists a runner's lifecycle status to disk. On every
// transition it rewrites a small JSON file holding the current state and the
// epoch each reached state was entered at, so external tooling can inspect
// a component without talking to it.
package statusfile

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/bft-labs/lifeline/pkg/lifecycle"
	"github.com/bft-labs/lifeline/pkg/log"
	"github.com/bft-labs/lifeline/pkg/runner"
)

// Status is the on-disk shape of the status file.
type Status struct {
	State     string           `json:"state"`
	Epochs    map[string]int64 `json:"epochs"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Config holds configuration options for the status file plugin.
type Config struct {
	// Path is where the status file is written. Required.
	Path string
}

// Plugin implements status file persistence.
type Plugin struct {
	path string

	logger log.Logger
	lfc    *lifecycle.Lifecycle

	listener *lifecycle.Listener
	dirty    chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a new status file plugin with the given configuration.
func New(cfg Config) *Plugin {
	return &Plugin{path: cfg.Path}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "statusfile"
}

// Initialize subscribes to the runner's lifecycle and starts the writer
// goroutine. A missing path disables the plugin rather than failing the
// runner.
func (p *Plugin) Initialize(ctx context.Context, cfg runner.PluginConfig) error {
	p.logger = cfg.Logger
	p.lfc = cfg.Lifecycle

	if p.path == "" {
		cfg.Logger.Warn("status file disabled: no path configured")
		return nil
	}

	// Transitions only mark the file dirty; the actual write happens on the
	// writer goroutine so the listener never blocks the transition path.
	p.dirty = make(chan struct{}, 1)
	p.listener = p.lfc.Subscribe("statusfile", func(lifecycle.State, int64) {
		select {
		case p.dirty <- struct{}{}:
		default:
		}
	})

	writeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.writeLoop(writeCtx)

	// Record the initial state without waiting for a transition.
	p.dirty <- struct{}{}

	p.logger.Info("status file initialized", log.String("path", p.path))
	return nil
}

// Shutdown stops the writer and persists a final snapshot, capturing the
// terminal state.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.listener != nil {
		p.lfc.Unsubscribe(p.listener)
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	if p.path == "" {
		return nil
	}
	return p.write()
}

func (p *Plugin) writeLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.dirty:
			if err := p.write(); err != nil {
				p.logger.Error("status file write failed",
					log.String("path", p.path),
					log.Err(err),
				)
			}
		}
	}
}

// write persists the current snapshot via tmp file and rename so readers
// never observe a partial file.
func (p *Plugin) write() error {
	st := Status{
		State:     p.lfc.State().String(),
		Epochs:    make(map[string]int64),
		UpdatedAt: time.Now().UTC(),
	}
	for s := lifecycle.StateNew; s <= lifecycle.StateFailed; s++ {
		if epoch := p.lfc.Epoch(s); epoch != 0 {
			st.Epochs[s.String()] = epoch
		}
	}

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}

// Load reads a status file written by the plugin.
func Load(path string) (Status, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Status{}, err
	}
	var st Status
	if err := json.Unmarshal(b, &st); err != nil {
		return Status{}, err
	}
	return st, nil
}
