package drainwatcher

import "github.com/bft-labs/lifeline/pkg/runner"

// WithDrainWatcher returns a runner Option that enables drain-file
// triggered shutdown.
//
// Usage:
//
//	r, err := runner.New(
//	    drainwatcher.WithDrainWatcher(drainwatcher.Config{
//	        Path: "/run/myapp/drain",
//	    }),
//	)
func WithDrainWatcher(cfg Config) runner.Option {
	return runner.WithPlugin(New(cfg))
}
