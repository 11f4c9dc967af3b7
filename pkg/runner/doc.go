// Package runner supervises a set of services under a shared lifecycle
// state machine.
//
// A Runner owns a [lifecycle.Lifecycle] and is its only writer: Start moves
// the machine from NEW through STARTING to RUNNING, Stop moves it through
// STOPPING to TERMINATED, and a service failure or shutdown timeout drives
// it to FAILED. Everything else observes the machine through its lock-free
// reads or through listeners.
//
// # Usage
//
//	r, err := runner.New(
//	    runner.WithLogger(logger),
//	    runner.WithService(runner.ServiceFunc("worker", worker)),
//	    runner.WithHealthcheck(dbCheck),
//	    runner.WithAdminAddr("127.0.0.1:9111"),
//	)
//	if err != nil {
//	    return err
//	}
//	return r.Run(ctx)
//
// Run blocks until the context is cancelled, a service fails, or a plugin
// requests a stop.
//
// # Plugins
//
// Optional behavior attaches through the [Plugin] interface; plugins are
// initialized in registration order when the runner starts and shut down in
// reverse order:
//
//	import "github.com/bft-labs/lifeline/plugins/drainwatcher"
//	import "github.com/bft-labs/lifeline/plugins/statusfile"
//
//	r, err := runner.New(
//	    drainwatcher.WithDrainWatcher(drainwatcher.Config{Path: "/run/app/drain"}),
//	    statusfile.WithStatusFile(statusfile.Config{Path: "/run/app/status.json"}),
//	)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package runner
