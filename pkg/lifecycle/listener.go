package lifecycle

// ListenerFunc is invoked synchronously on every accepted transition with
// the new state and the epoch at which it was entered.
//
// The callback runs on the goroutine that performed the transition, while
// the machine's write lock is held. It must return quickly, must not block
// on unbounded work, and must not call Transition, TransitionAt, Subscribe
// or Unsubscribe on the same machine; doing so deadlocks.
//
// Any caller state the callback needs should be captured by closure; the
// machine never interprets it.
type ListenerFunc func(state State, epoch int64)

// Listener is an opaque handle to a subscribed callback. It is returned by
// Subscribe and accepted by Unsubscribe.
type Listener struct {
	name string
	fn   ListenerFunc
	next *Listener
}

// Name returns the name the listener was registered under.
func (l *Listener) Name() string { return l.name }

// Subscribe registers fn to be invoked on every accepted transition. The
// name is used for diagnostics only and need not be unique. The returned
// handle can later be passed to Unsubscribe.
//
// Listeners registered during the lifetime of the machine are delivered
// every transition accepted after registration, exactly once each.
func (l *Lifecycle) Subscribe(name string, fn ListenerFunc) *Listener {
	ln := &Listener{name: name, fn: fn}

	l.mu.Lock()
	ln.next = l.listeners
	l.listeners = ln
	l.mu.Unlock()

	return ln
}

// Unsubscribe removes a previously subscribed listener. It does not invoke
// the callback. Passing a handle that was already removed, or nil, is a
// no-op.
func (l *Lifecycle) Unsubscribe(target *Listener) {
	if target == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listeners == target {
		l.listeners = target.next
		target.next = nil
		return
	}
	for ln := l.listeners; ln != nil; ln = ln.next {
		if ln.next == target {
			ln.next = target.next
			target.next = nil
			return
		}
	}
}

// notify invokes every listener front to back. Callers must hold l.mu.
func (l *Lifecycle) notify(state State, epoch int64) {
	for ln := l.listeners; ln != nil; ln = ln.next {
		ln.fn(state, epoch)
	}
}
