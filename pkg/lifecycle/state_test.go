package lifecycle

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNew, "new"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateTerminated, "terminated"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
		{State(-1), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestState_Valid(t *testing.T) {
	for s := StateNew; s < stateCount; s++ {
		if !s.Valid() {
			t.Errorf("State(%d).Valid() = false, want true", s)
		}
	}
	for _, s := range []State{State(-1), stateCount, State(99)} {
		if s.Valid() {
			t.Errorf("State(%d).Valid() = true, want false", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"new to starting", StateNew, StateStarting, true},
		{"starting to running", StateStarting, StateRunning, true},
		{"running to stopping", StateRunning, StateStopping, true},
		{"stopping to terminated", StateStopping, StateTerminated, true},

		{"new to running", StateNew, StateRunning, false},
		{"new to stopping", StateNew, StateStopping, false},
		{"new to terminated", StateNew, StateTerminated, false},
		{"starting to stopping", StateStarting, StateStopping, false},
		{"running to terminated", StateRunning, StateTerminated, false},
		{"running to starting", StateRunning, StateStarting, false},
		{"terminated to starting", StateTerminated, StateStarting, false},

		{"new to failed", StateNew, StateFailed, true},
		{"starting to failed", StateStarting, StateFailed, true},
		{"running to failed", StateRunning, StateFailed, true},
		{"stopping to failed", StateStopping, StateFailed, true},
		{"terminated to failed", StateTerminated, StateFailed, true},
		{"failed to failed", StateFailed, StateFailed, false},
		{"failed to starting", StateFailed, StateStarting, false},

		{"nothing reaches new", StateStarting, StateNew, false},
		{"unrecognized target", StateNew, State(99), false},
		{"sentinel target", StateNew, stateCount, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
