package geocode

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerFiresOnceForRapidTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired int64
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt64(&fired, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&fired); got != 1 {
		t.Errorf("Expected exactly one firing, got %d", got)
	}
}

func TestDebouncerCancelledTimerNeverFires(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int64
	d.Trigger(func() { atomic.AddInt64(&fired, 1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt64(&fired); got != 0 {
		t.Errorf("Cancelled trigger fired %d times", got)
	}
}

func TestDebouncerSequentialTriggersBothFire(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fired int64
	d.Trigger(func() { atomic.AddInt64(&fired, 1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { atomic.AddInt64(&fired, 1) })
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt64(&fired); got != 2 {
		t.Errorf("Expected two firings for well-spaced triggers, got %d", got)
	}
}
