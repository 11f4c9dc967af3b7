package lifecycle

import (
	"sync"
	"sync/atomic"
	"time"
)

// Lifecycle is a thread-safe state machine tracking the operational phase of
// a long-running component. See the package documentation for the state
// graph and the concurrency contract.
//
// The zero value is not usable; create instances with New. A Lifecycle must
// not be copied after first use.
type Lifecycle struct {
	// Hot fields, read lock-free by State and Epoch.
	state  atomic.Int32
	epochs [stateCount]atomic.Int64

	// Pad the hot fields onto their own cache line so that listener churn
	// does not invalidate it under concurrent readers.
	_ [64]byte

	// mu serializes all mutation: transitions and listener changes. Reads
	// never take it.
	mu        sync.Mutex
	listeners *Listener
	nowFunc   func() time.Time
}

// Option configures a Lifecycle at construction time.
type Option func(*Lifecycle)

// WithClock overrides the time source used by New and Transition. Intended
// for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		l.nowFunc = now
	}
}

// New creates a Lifecycle in StateNew, recording the current time as the
// epoch at which StateNew was entered. It fails with ErrFault only if the
// time source yields a non-positive epoch.
func New(opts ...Option) (*Lifecycle, error) {
	l := &Lifecycle{nowFunc: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	now := l.nowFunc().Unix()
	if now <= 0 {
		return nil, ErrFault
	}
	l.epochs[StateNew].Store(now)

	return l, nil
}

// State returns the current state. It never blocks: the read is a single
// atomic load and is wait-free with respect to concurrent transitions.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Epoch returns the unix time at which the machine entered the given state,
// or 0 if the state has not been reached (or s is not a declared state). It
// never blocks.
//
// "Not reached" is approximated by declaration order: any state ordinally
// beyond the current one reports 0. Because StateFailed sits last in
// declaration order, a machine that failed early reports 0, not "never
// reached", for the states it skipped; callers that care must check the
// returned epoch for 0.
//
// Epoch and State are independent atomic loads, not a joint snapshot: a
// transition may be accepted between the two.
func (l *Lifecycle) Epoch(s State) int64 {
	if !s.Valid() {
		return 0
	}
	if s > l.State() {
		return 0
	}
	return l.epochs[s].Load()
}

// TransitionAt attempts to move the machine to the given state, recording
// epoch as the time of entry. The epoch must be positive.
//
// On success every subscribed listener has been invoked with (to, epoch)
// before TransitionAt returns: an accepted transition and its notifications
// are one atomic unit with respect to any other transition attempt.
//
// A denial (ErrInvalidTransition) means either the edge is not legal or a
// concurrent transition already advanced the machine past the target; the
// two are indistinguishable here. Callers racing to advance the machine
// should re-read State to decide whether to retry or stop.
func (l *Lifecycle) TransitionAt(to State, epoch int64) error {
	if epoch <= 0 {
		return ErrInvalidEpoch
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !canTransition(l.State(), to) {
		return ErrInvalidTransition
	}

	// Publish state first, then the epoch slot. Each is individually
	// visible to lock-free readers; notify runs before the lock is
	// released so no later transition can start until delivery completes.
	l.state.Store(int32(to))
	l.epochs[to].Store(epoch)

	l.notify(to, epoch)

	return nil
}

// Transition is TransitionAt with the current wall-clock time. It fails
// with ErrFault if the time source yields a non-positive epoch.
func (l *Lifecycle) Transition(to State) error {
	now := l.nowFunc().Unix()
	if now <= 0 {
		return ErrFault
	}
	return l.TransitionAt(to, now)
}
