package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/lifeline/pkg/lifecycle"
	"github.com/bft-labs/lifeline/pkg/log"
)

// ErrShutdownTimeout is returned when graceful shutdown times out. The
// lifecycle is marked FAILED when this happens.
var ErrShutdownTimeout = errors.New("runner: shutdown timeout")

// Runner supervises a set of services under a shared lifecycle. Use New to
// create an instance, then Start or Run to drive it.
//
// The runner owns the only write path to its lifecycle: STARTING on Start,
// RUNNING once services are up, STOPPING on Stop, and TERMINATED on clean
// shutdown. A service failure or shutdown timeout drives the machine to
// FAILED.
type Runner struct {
	opts   options
	lfc    *lifecycle.Lifecycle
	logger log.Logger
	admin  *adminServer

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	failOnce sync.Once
	failed   chan error

	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a Runner. The lifecycle starts in StateNew; nothing runs
// until Start is called.
func New(opts ...Option) (*Runner, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lfc, err := lifecycle.New()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		opts:    o,
		lfc:     lfc,
		logger:  o.logger,
		failed:  make(chan error, 1),
		stopped: make(chan struct{}),
	}

	lfc.Subscribe("runner", func(s lifecycle.State, epoch int64) {
		r.logger.Info("state transition",
			log.String("state", s.String()),
			log.Int64("epoch", epoch),
		)
	})

	for _, hc := range o.checks {
		hc.BindLifecycle(lfc)
	}
	for _, ln := range o.listeners {
		lfc.Subscribe(ln.name, ln.fn)
	}

	if o.adminAddr != "" {
		r.admin = newAdminServer(o.adminAddr, lfc, o.checks, r.logger)
	}

	return r, nil
}

// Lifecycle returns the runner's state machine. Callers may read state and
// epochs or subscribe listeners; transitions remain the runner's job.
func (r *Runner) Lifecycle() *lifecycle.Lifecycle {
	return r.lfc
}

// Status returns the current lifecycle state.
func (r *Runner) Status() lifecycle.State {
	return r.lfc.State()
}

// Start initializes plugins and launches all registered services, then
// moves the lifecycle to RUNNING. It returns immediately after the services
// are launched. The provided context bounds the lifetime of the services.
//
// Returns an error if the runner was already started, if a plugin fails to
// initialize, or if a service fails before RUNNING is reached.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lfc.Transition(lifecycle.StateStarting); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	pluginCfg := PluginConfig{
		Logger:      r.logger,
		Lifecycle:   r.lfc,
		RequestStop: r.requestStop,
	}
	for _, p := range r.opts.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			r.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err),
			)
			cancel()
			_ = r.lfc.Transition(lifecycle.StateFailed)
			return err
		}
		r.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	if r.admin != nil {
		r.admin.start()
	}

	for _, svc := range r.opts.services {
		r.wg.Add(1)
		go func(svc Service) {
			defer r.wg.Done()

			err := svc.Run(runCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("service failed",
					log.String("service", svc.Name()),
					log.Err(err),
				)
				_ = r.lfc.Transition(lifecycle.StateFailed)
				r.failOnce.Do(func() { r.failed <- err })
				cancel()
			}
		}(svc)
	}

	if err := r.lfc.Transition(lifecycle.StateRunning); err != nil {
		// A service already drove the machine to FAILED.
		cancel()
		select {
		case ferr := <-r.failed:
			return ferr
		default:
			return err
		}
	}

	return nil
}

// Stop gracefully shuts down the runner: the lifecycle moves to STOPPING,
// service contexts are cancelled, and the runner waits up to the configured
// shutdown timeout for them to finish before shutting down plugins in
// reverse order.
//
// Returns nil on graceful shutdown (lifecycle TERMINATED), or
// ErrShutdownTimeout if services did not finish in time (lifecycle FAILED).
// Returns ErrInvalidTransition if the runner is not running.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if err := r.lfc.Transition(lifecycle.StateStopping); err != nil {
		r.mu.Unlock()
		return err
	}
	cancel := r.cancel
	r.mu.Unlock()

	defer r.stopOnce.Do(func() { close(r.stopped) })

	if cancel != nil {
		cancel()
	}

	waitErr := r.waitWithTimeout(r.opts.shutdownTimeout)
	r.teardown()

	if waitErr != nil {
		_ = r.lfc.Transition(lifecycle.StateFailed)
		return waitErr
	}
	return r.lfc.Transition(lifecycle.StateTerminated)
}

// Run starts the runner and blocks until the context is cancelled, a
// service fails, or a plugin requests a stop. It then shuts down and
// returns: nil on graceful termination, the service error on failure.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		err := r.Stop()
		if errors.Is(err, lifecycle.ErrInvalidTransition) {
			// Someone already stopped the runner.
			return nil
		}
		return err
	case err := <-r.failed:
		r.mu.Lock()
		cancel := r.cancel
		r.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		_ = r.waitWithTimeout(r.opts.shutdownTimeout)
		r.teardown()
		return err
	case <-r.stopped:
		return nil
	}
}

// requestStop is handed to plugins; it triggers Stop without blocking the
// caller.
func (r *Runner) requestStop() {
	go func() {
		if err := r.Stop(); err != nil && !errors.Is(err, lifecycle.ErrInvalidTransition) {
			r.logger.Warn("requested stop did not complete cleanly", log.Err(err))
		}
	}()
}

// waitWithTimeout waits for all service goroutines to finish.
func (r *Runner) waitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		r.logger.Warn("shutdown timeout, forcing exit",
			log.Duration("timeout", timeout),
		)
		return ErrShutdownTimeout
	}
}

// teardown stops the admin endpoint and shuts down plugins in reverse
// registration order.
func (r *Runner) teardown() {
	if r.admin != nil {
		r.admin.stop()
	}

	shutdownCtx := context.Background()
	for i := len(r.opts.plugins) - 1; i >= 0; i-- {
		p := r.opts.plugins[i]
		if err := p.Shutdown(shutdownCtx); err != nil {
			r.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err),
			)
		}
	}
}
