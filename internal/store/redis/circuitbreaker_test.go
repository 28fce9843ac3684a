package redis

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing() error    { return errBoom }
func succeeding() error { return nil }

func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Hour)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: got %v, want errBoom", i, err)
		}
	}
	if cb.CurrentState() != StateOpen {
		t.Fatalf("state after 3 failures: got %v, want open", cb.CurrentState())
	}

	// Open breaker rejects without calling fn.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open breaker: got %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("open breaker must not invoke fn")
	}
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.Execute(failing)
	if cb.CurrentState() != StateOpen {
		t.Fatal("expected open after first failure with maxFailures=1")
	}

	time.Sleep(20 * time.Millisecond)
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if cb.CurrentState() != StateClosed {
		t.Errorf("state after successful probe: got %v, want closed", cb.CurrentState())
	}
}

func TestBreaker_HalfOpenProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.Execute(failing)
	time.Sleep(20 * time.Millisecond)

	if err := cb.Execute(failing); !errors.Is(err, errBoom) {
		t.Fatalf("probe: got %v, want errBoom", err)
	}
	if cb.CurrentState() != StateOpen {
		t.Errorf("state after failed probe: got %v, want open", cb.CurrentState())
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Hour)

	cb.Execute(failing)
	cb.Execute(failing)
	cb.Execute(succeeding)
	cb.Execute(failing)
	cb.Execute(failing)

	if cb.CurrentState() != StateClosed {
		t.Errorf("non-consecutive failures must not trip the breaker, state=%v", cb.CurrentState())
	}
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Hour)

	var transitions []string
	cb.OnStateChange = func(from, to State) {
		transitions = append(transitions, from.String()+"→"+to.String())
	}

	cb.Execute(failing)
	if len(transitions) != 1 || transitions[0] != "closed→open" {
		t.Errorf("transitions: %v", transitions)
	}
}
