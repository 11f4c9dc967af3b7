package runner

import (
	"context"
	"time"

	"github.com/bft-labs/lifeline/pkg/healthcheck"
	"github.com/bft-labs/lifeline/pkg/lifecycle"
	"github.com/bft-labs/lifeline/pkg/log"
)

// DefaultShutdownTimeout is the maximum time Stop waits for services to
// finish before forcing shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// Plugin extends a Runner with optional behavior. Plugins are initialized
// in registration order when the runner starts and shut down in reverse
// order when it stops.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize prepares the plugin. The context is cancelled when the
	// runner stops; long-running plugin work should be spawned from here
	// and watch it.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases plugin resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig provides plugins access to the runner's shared collaborators.
type PluginConfig struct {
	// Logger is the runner's logger.
	Logger log.Logger

	// Lifecycle is the runner's state machine. Plugins may subscribe to it
	// or read its state; they must not drive transitions directly.
	Lifecycle *lifecycle.Lifecycle

	// RequestStop asks the runner to shut down gracefully. It returns
	// immediately; the shutdown proceeds in the background. Safe to call
	// from any goroutine.
	RequestStop func()
}

// Option configures optional behavior of a Runner.
type Option func(*options)

// options holds the optional configuration for a Runner instance.
type options struct {
	logger          log.Logger
	services        []Service
	plugins         []Plugin
	checks          []*healthcheck.Healthcheck
	listeners       []namedListener
	shutdownTimeout time.Duration
	adminAddr       string
}

type namedListener struct {
	name string
	fn   lifecycle.ListenerFunc
}

func defaultOptions() options {
	return options{
		logger:          log.NewNoopLogger(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithService registers a service to be supervised by the runner.
// Services are started together after the lifecycle enters STARTING.
func WithService(svc Service) Option {
	return func(o *options) {
		o.services = append(o.services, svc)
	}
}

// WithPlugin registers a plugin to be initialized when the runner starts.
// Plugins are initialized in registration order and shut down in reverse
// order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithHealthcheck registers a healthcheck. The check is bound to the
// runner's lifecycle (enabled on STARTING, disabled on STOPPING or FAILED)
// and exposed on the admin endpoint if one is configured.
func WithHealthcheck(hc *healthcheck.Healthcheck) Option {
	return func(o *options) {
		o.checks = append(o.checks, hc)
	}
}

// WithListener subscribes a callback to every accepted lifecycle transition.
// Callbacks run synchronously on the transitioning goroutine and must not
// call back into the runner or its lifecycle's write path.
func WithListener(name string, fn lifecycle.ListenerFunc) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, namedListener{name: name, fn: fn})
	}
}

// WithShutdownTimeout overrides how long Stop waits for services to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithAdminAddr enables a plain HTTP admin endpoint on the given address,
// serving GET /statusz (lifecycle state and epochs) and GET /healthz
// (registered healthchecks).
func WithAdminAddr(addr string) Option {
	return func(o *options) {
		o.adminAddr = addr
	}
}
