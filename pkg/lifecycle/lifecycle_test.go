package lifecycle

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// advanceTo walks the machine forward to the target state.
func advanceTo(t *testing.T, lfc *Lifecycle, target State) {
	t.Helper()
	for s := lfc.State() + 1; s <= target; s++ {
		if err := lfc.Transition(s); err != nil {
			t.Fatalf("Transition(%s) failed: %v", s, err)
		}
	}
}

func TestNew(t *testing.T) {
	before := time.Now().Unix()
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	after := time.Now().Unix()

	if got := lfc.State(); got != StateNew {
		t.Errorf("initial state = %s, want %s", got, StateNew)
	}

	epoch := lfc.Epoch(StateNew)
	if epoch < before || epoch > after {
		t.Errorf("Epoch(StateNew) = %d, want within [%d, %d]", epoch, before, after)
	}

	for s := StateStarting; s < stateCount; s++ {
		if got := lfc.Epoch(s); got != 0 {
			t.Errorf("Epoch(%s) = %d on fresh machine, want 0", s, got)
		}
	}
}

func TestNew_ClockFault(t *testing.T) {
	_, err := New(WithClock(func() time.Time { return time.Unix(0, 0) }))
	if !errors.Is(err, ErrFault) {
		t.Fatalf("New() with broken clock: error = %v, want ErrFault", err)
	}
}

func TestLifecycle_SequentialTransitions(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	for s := StateStarting; s <= StateTerminated; s++ {
		if err := lfc.TransitionAt(s, int64(s)); err != nil {
			t.Fatalf("TransitionAt(%s, %d) failed: %v", s, s, err)
		}
		if got := lfc.State(); got != s {
			t.Errorf("State() = %s after transition, want %s", got, s)
		}
		if got := lfc.Epoch(s); got != int64(s) {
			t.Errorf("Epoch(%s) = %d, want %d", s, got, s)
		}

		// Every state already passed is no longer a legal target.
		for j := StateNew; j < s; j++ {
			err := lfc.Transition(j)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s) from %s: error = %v, want ErrInvalidTransition", j, s, err)
			}
			if got := lfc.State(); got != s {
				t.Errorf("State() = %s after denied transition, want %s", got, s)
			}
		}
	}
}

func TestLifecycle_SkippingAhead(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	// Every non-adjacent forward target is denied from NEW.
	for _, s := range []State{StateRunning, StateStopping, StateTerminated} {
		if err := lfc.Transition(s); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Transition(%s) from new: error = %v, want ErrInvalidTransition", s, err)
		}
	}
	if got := lfc.State(); got != StateNew {
		t.Errorf("State() = %s, want %s", got, StateNew)
	}
}

func TestLifecycle_EpochValidation(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	for _, epoch := range []int64{0, -1, -1 << 40} {
		err := lfc.TransitionAt(StateStarting, epoch)
		if !errors.Is(err, ErrInvalidEpoch) {
			t.Errorf("TransitionAt(starting, %d): error = %v, want ErrInvalidEpoch", epoch, err)
		}
		if got := lfc.State(); got != StateNew {
			t.Errorf("State() = %s after rejected epoch, want %s", got, StateNew)
		}
	}

	var e *Error
	if err := lfc.TransitionAt(StateStarting, 0); !errors.As(err, &e) || e.Code() != CodeInvalidArgument {
		t.Errorf("rejected epoch error code = %v, want CodeInvalidArgument", err)
	}
}

func TestLifecycle_FailedReachability(t *testing.T) {
	for from := StateNew; from <= StateTerminated; from++ {
		t.Run(from.String(), func(t *testing.T) {
			lfc, err := New()
			if err != nil {
				t.Fatalf("New() returned error: %v", err)
			}
			advanceTo(t, lfc, from)

			if err := lfc.Transition(StateFailed); err != nil {
				t.Fatalf("Transition(failed) from %s: %v", from, err)
			}
			if got := lfc.State(); got != StateFailed {
				t.Errorf("State() = %s, want %s", got, StateFailed)
			}

			// Failed is terminal, including against itself.
			for s := StateNew; s < stateCount; s++ {
				if err := lfc.Transition(s); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition(%s) from failed: error = %v, want ErrInvalidTransition", s, err)
				}
			}
		})
	}
}

// A machine that fails out of STARTING answers 0 for the epoch of states it
// never reached, because reachability is approximated by declaration order
// and FAILED sits last. The zero epoch is the only signal the state was
// skipped.
func TestLifecycle_EpochAfterEarlyFailure(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	advanceTo(t, lfc, StateStarting)
	if err := lfc.TransitionAt(StateFailed, 42); err != nil {
		t.Fatalf("Transition(failed): %v", err)
	}

	for _, s := range []State{StateRunning, StateStopping, StateTerminated} {
		if got := lfc.Epoch(s); got != 0 {
			t.Errorf("Epoch(%s) = %d after early failure, want 0", s, got)
		}
	}
	if got := lfc.Epoch(StateFailed); got != 42 {
		t.Errorf("Epoch(failed) = %d, want 42", got)
	}
	if got := lfc.Epoch(StateStarting); got == 0 {
		t.Error("Epoch(starting) = 0, want the recorded epoch")
	}
}

func TestLifecycle_EpochUnknownState(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	for _, s := range []State{State(-1), stateCount, State(99)} {
		if got := lfc.Epoch(s); got != 0 {
			t.Errorf("Epoch(%d) = %d, want 0", s, got)
		}
	}
}

func TestLifecycle_TransitionClockFault(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			return time.Unix(1000, 0)
		}
		return time.Unix(0, 0)
	}

	lfc, err := New(WithClock(clock))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	err = lfc.Transition(StateStarting)
	if !errors.Is(err, ErrFault) {
		t.Fatalf("Transition with broken clock: error = %v, want ErrFault", err)
	}
	if got := lfc.State(); got != StateNew {
		t.Errorf("State() = %s after clock fault, want %s", got, StateNew)
	}

	var e *Error
	if !errors.As(err, &e) || e.Code() != CodeFault {
		t.Errorf("clock fault error code = %v, want CodeFault", err)
	}
}

// Four goroutines each own one step of the progression and retry until their
// step is accepted. Whatever the scheduling, the machine must settle on
// TERMINATED with every step's epoch recorded.
func TestLifecycle_RaceToAdvance(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	targets := []State{StateStarting, StateRunning, StateStopping, StateTerminated}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(target State) {
			defer wg.Done()
			<-start
			for lfc.TransitionAt(target, int64(target)) != nil {
				runtime.Gosched()
			}
		}(target)
	}

	close(start)
	wg.Wait()

	if got := lfc.State(); got != StateTerminated {
		t.Errorf("State() = %s after race, want %s", got, StateTerminated)
	}
	for _, target := range targets {
		if got := lfc.Epoch(target); got != int64(target) {
			t.Errorf("Epoch(%s) = %d, want %d", target, got, target)
		}
	}
}

// Readers must never block a writer or observe a value outside the declared
// state set while transitions are in flight. Run with -race.
func TestLifecycle_ConcurrentReaders(t *testing.T) {
	lfc, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := lfc.State()
				if !s.Valid() {
					t.Errorf("State() = %d, outside the declared state set", s)
					return
				}
				if e := lfc.Epoch(s); e < 0 {
					t.Errorf("Epoch(%s) = %d, want >= 0", s, e)
					return
				}
			}
		}()
	}

	for s := StateStarting; s <= StateTerminated; s++ {
		if err := lfc.Transition(s); err != nil {
			t.Fatalf("Transition(%s) failed: %v", s, err)
		}
	}

	close(stop)
	readers.Wait()

	if got := lfc.State(); got != StateTerminated {
		t.Errorf("State() = %s, want %s", got, StateTerminated)
	}
}
