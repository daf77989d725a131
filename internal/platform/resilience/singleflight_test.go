package resilience

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _, _ = flight.Do("key", func() (any, error) {
			executions.Add(1)
			close(entered)
			<-release
			return 42, nil
		})
	}()

	<-entered

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		value, err, shared := flight.Do("key", func() (any, error) {
			executions.Add(1)
			return 0, nil
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if value != 42 {
			t.Errorf("unexpected value: %v", value)
		}
		if !shared {
			t.Errorf("expected shared result")
		}
	}()

	// Give the second caller time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-firstDone
	<-secondDone

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
}
