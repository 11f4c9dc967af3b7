package statusfile

import "github.com/bft-labs/lifeline/pkg/runner"

// WithStatusFile returns a runner Option that persists lifecycle status to
// the given path.
//
// Usage:
//
//	r, err := runner.New(
//	    statusfile.WithStatusFile(statusfile.Config{
//	        Path: "/run/myapp/status.json",
//	    }),
//	)
func WithStatusFile(cfg Config) runner.Option {
	return runner.WithPlugin(New(cfg))
}
