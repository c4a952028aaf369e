package state

import (
	"errors"
	"testing"
)

func TestUnconfiguredIgnoresEvents(t *testing.T) {
	m := NewProviderMonitor(false, nil)
	m.RecordFailure(errors.New("boom"))
	m.RecordSuccess()

	if got := m.CurrentState(); got != StateUnconfigured {
		t.Fatalf("state = %s, want %s", got, StateUnconfigured)
	}
	if m.Status().FailureCount != 0 {
		t.Errorf("failure count should stay 0")
	}
}

func TestFailureDegradesAndSuccessRecovers(t *testing.T) {
	var transitions [][2]string
	m := NewProviderMonitor(true, func(from, to string) {
		transitions = append(transitions, [2]string{from, to})
	})

	if got := m.CurrentState(); got != StateAvailable {
		t.Fatalf("initial state = %s", got)
	}

	m.RecordFailure(errors.New("OVER_QUERY_LIMIT"))
	m.RecordFailure(errors.New("OVER_QUERY_LIMIT"))

	status := m.Status()
	if status.State != StateDegraded {
		t.Fatalf("state = %s, want %s", status.State, StateDegraded)
	}
	if status.FailureCount != 2 {
		t.Errorf("failure count = %d, want 2", status.FailureCount)
	}
	if status.LastError != "OVER_QUERY_LIMIT" {
		t.Errorf("last error = %q", status.LastError)
	}

	m.RecordSuccess()
	status = m.Status()
	if status.State != StateAvailable || status.FailureCount != 0 || status.LastError != "" {
		t.Fatalf("unexpected status after recovery: %+v", status)
	}

	if len(transitions) != 2 {
		t.Fatalf("transitions = %v, want 2 changes", transitions)
	}
	if transitions[0] != [2]string{StateAvailable, StateDegraded} {
		t.Errorf("first transition = %v", transitions[0])
	}
	if transitions[1] != [2]string{StateDegraded, StateAvailable} {
		t.Errorf("second transition = %v", transitions[1])
	}
}
