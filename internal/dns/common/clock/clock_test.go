package clock

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}

	// Capture time before and after the clock call
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	// The clock's time should be between our before/after measurements
	if now.Before(before) {
		t.Errorf("Clock time %v is before measurement time %v", now, before)
	}
	if now.After(after) {
		t.Errorf("Clock time %v is after measurement time %v", now, after)
	}
}

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &MockClock{CurrentTime: fixedTime}

	first := clock.Now()
	second := clock.Now()

	if !first.Equal(fixedTime) || !second.Equal(fixedTime) {
		t.Errorf("Mock clock without step should be frozen: first=%v, second=%v", first, second)
	}
}

func TestMockClock_Step(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &MockClock{CurrentTime: start, Step: 15 * time.Millisecond}

	t0 := clock.Now()
	if got := Since(clock, t0); got != 15*time.Millisecond {
		t.Errorf("Since = %v, want 15ms", got)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &MockClock{CurrentTime: start}

	clock.Advance(time.Hour)
	if got := clock.Now(); !got.Equal(start.Add(time.Hour)) {
		t.Errorf("Expected %v, got %v", start.Add(time.Hour), got)
	}

	clock.Advance(-30 * time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("Expected %v, got %v", start.Add(30*time.Minute), got)
	}
}

func TestClock_Interface_Compliance(t *testing.T) {
	var _ Clock = RealClock{}
	var _ Clock = &MockClock{}
}

func TestMockClock_Concurrent_Access(t *testing.T) {
	clock := &MockClock{Step: time.Second}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	if got := clock.Now(); !got.Equal(time.Time{}.Add(1000 * time.Second)) {
		t.Errorf("Expected 1000 steps, got %v", got)
	}
}
