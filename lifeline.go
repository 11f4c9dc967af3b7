// Package lifeline provides thread-safe lifecycle tracking for long-running
// processes, plus a small runner that supervises services against it.
//
// Example usage:
//
//	lfc, err := lifeline.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := lfc.Transition(lifeline.StateStarting); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(lfc.State()) // starting
//
// Most daemons want the runner instead, which drives the state machine for
// them:
//
//	r, err := lifeline.NewRunner(
//	    lifeline.WithService(myService),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package lifeline

import (
	"github.com/bft-labs/lifeline/pkg/healthcheck"
	"github.com/bft-labs/lifeline/pkg/lifecycle"
	"github.com/bft-labs/lifeline/pkg/runner"
)

// State identifies a phase of the process lifecycle.
type State = lifecycle.State

// Lifecycle states, in advancement order. StateFailed is reachable from any
// other state and is terminal.
const (
	StateNew        = lifecycle.StateNew
	StateStarting   = lifecycle.StateStarting
	StateRunning    = lifecycle.StateRunning
	StateStopping   = lifecycle.StateStopping
	StateTerminated = lifecycle.StateTerminated
	StateFailed     = lifecycle.StateFailed
)

// Lifecycle tracks the current state of a process and the epoch at which
// each state was entered. It is safe for concurrent use.
type Lifecycle = lifecycle.Lifecycle

// Listener is a registered state-change observer.
type Listener = lifecycle.Listener

// ListenerFunc is invoked for every accepted transition.
type ListenerFunc = lifecycle.ListenerFunc

// New returns a Lifecycle in StateNew.
func New(opts ...lifecycle.Option) (*Lifecycle, error) {
	return lifecycle.New(opts...)
}

// Health is the result of polling a healthcheck probe.
type Health = healthcheck.Health

// Healthcheck is a named probe that can be toggled by lifecycle transitions.
type Healthcheck = healthcheck.Healthcheck

// NewHealthcheck returns an enabled healthcheck backed by the given probe.
func NewHealthcheck(name, description string, check healthcheck.CheckFunc) *Healthcheck {
	return healthcheck.New(name, description, check)
}

// Runner supervises a set of services and drives a Lifecycle through its
// states as they start, run, and stop.
type Runner = runner.Runner

// Service is a long-running unit of work managed by a Runner.
type Service = runner.Service

// Option configures a Runner.
type Option = runner.Option

// NewRunner returns a Runner assembled from the given options.
func NewRunner(opts ...runner.Option) (*Runner, error) {
	return runner.New(opts...)
}

// WithService registers a service with the runner.
func WithService(svc runner.Service) runner.Option {
	return runner.WithService(svc)
}
