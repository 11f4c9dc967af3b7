// Package lifecycle provides a thread-safe state machine representing the
// operational phase of a long-running component.
//
// A lifecycle serves several purposes:
//   - Improve auditing via transition logs
//   - Automatically toggle healthchecks on starting and stopping transitions
//   - Centralize the exit condition of a main loop
//
// The possible transitions are given by the following state machine:
//
//	NEW -> STARTING -> RUNNING -> STOPPING -> TERMINATED
//	  \        \          \          \
//	   +--------+----------+----------+-----> FAILED
//
// # Usage
//
// Create a machine and drive it through its phases:
//
//	lfc, err := lifecycle.New()
//	if err != nil {
//	    return err
//	}
//
//	lfc.Subscribe("audit", func(s lifecycle.State, epoch int64) {
//	    log.Printf("entered %s at %d", s, epoch)
//	})
//
//	if err := lfc.Transition(lifecycle.StateStarting); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// Reads (State, Epoch) are single atomic loads: they never block and are
// wait-free with respect to writers. Mutation (Transition, TransitionAt,
// Subscribe, Unsubscribe) is serialized by one exclusive lock. Listener
// dispatch happens synchronously while that lock is held, so an accepted
// transition and its notifications are one atomic unit as seen by any other
// transition attempt. Listener callbacks therefore must be fast and must
// not re-enter the machine's write path.
//
// Transitions are totally ordered by lock acquisition. A reader loading
// state and then an epoch performs two independent atomic loads, not a
// joint snapshot.
//
// # Racing to advance
//
// Independent actors may each own one step of the progression and loop on
// TransitionAt until it succeeds. The policy only accepts a target whose
// predecessor is the current state, so exactly one racing attempt wins each
// step and the machine converges on the last target regardless of
// scheduling. A denied attempt whose target is already behind the current
// state must be treated as terminal, not retried.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package lifecycle
