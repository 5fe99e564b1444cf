// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package executor

import (
	"sync"
	"testing"
	"time"

	"github.com/pinrail/gpio-panel/internal/action"
	"github.com/pinrail/gpio-panel/internal/eventlog"
	"github.com/pinrail/gpio-panel/internal/gpio"
)

// fakeDriver is a minimal driver double recording every SetLevel call.
type fakeDriver struct {
	mu          sync.Mutex
	initialized bool
	levels      map[int]gpio.Level
	setCalls    []action.Action
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{initialized: true, levels: map[int]gpio.Level{}}
}

func (f *fakeDriver) Initialized() bool { return f.initialized }

func (f *fakeDriver) SetLevel(pin int, level gpio.Level) error {
	if pin < 0 || pin > gpio.MaxPin {
		return gpio.InvalidPinError{Pin: pin}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[pin] = level
	if level == gpio.High {
		f.setCalls = append(f.setCalls, action.SetHigh(pin))
	} else {
		f.setCalls = append(f.setCalls, action.SetLow(pin))
	}
	return nil
}

func (f *fakeDriver) GetLevel(pin int) (gpio.Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[pin], nil
}

func (f *fakeDriver) SetPull(pin int, pull gpio.Pull) error { return nil }

func (f *fakeDriver) calls() []action.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]action.Action, len(f.setCalls))
	copy(out, f.setCalls)
	return out
}

// fakeStore returns a fixed program every time Snapshot is called.
type fakeStore struct {
	mu      sync.Mutex
	program []action.Action
}

func (s *fakeStore) Snapshot() []action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]action.Action, len(s.program))
	copy(out, s.program)
	return out
}

// blockingStore signals entered the first time Snapshot is called, then
// blocks until release is closed. A test uses entered to know Run has
// already reset the cancellation flag before it calls Stop, which
// otherwise races with Run's own internal flag reset.
type blockingStore struct {
	program []action.Action
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Snapshot() []action.Action {
	close(s.entered)
	<-s.release
	out := make([]action.Action, len(s.program))
	copy(out, s.program)
	return out
}

func TestCancelBeforeFirstActionDispatchesNothing(t *testing.T) {
	d := newFakeDriver()
	s := &blockingStore{
		program: []action.Action{action.SetHigh(5)},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	e := New(d, s, eventlog.New())

	done := make(chan struct{})
	go func() {
		e.Run(false)
		close(done)
	}()

	select {
	case <-s.entered:
	case <-time.After(time.Second):
		t.Fatal("Run never called Snapshot")
	}
	// Run has already reset its own cancellation flag by this point, so
	// this Stop is guaranteed to be the one observed by the dispatch loop.
	e.Stop()
	close(s.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if got := d.calls(); len(got) != 0 {
		t.Fatalf("got %d dispatches, want 0: %+v", len(got), got)
	}
}

func TestEmptyProgramReturnsImmediately(t *testing.T) {
	d := newFakeDriver()
	s := &fakeStore{program: nil}
	e := New(d, s, eventlog.New())
	done := make(chan struct{})
	go func() {
		e.Run(true)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run(true) on empty program did not return")
	}
}

// Scenario 3 from spec.md §8: [SetHigh(2), Delay(10), SetLow(2)], no
// loop, exactly one pass with both a set and a clear on pin 2.
func TestSingleSetDelaySetSequence(t *testing.T) {
	d := newFakeDriver()
	s := &fakeStore{program: []action.Action{action.SetHigh(2), action.Delay(10), action.SetLow(2)}}
	e := New(d, s, eventlog.New())

	start := time.Now()
	e.Run(false)
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Fatalf("elapsed %v, want >= 10ms", elapsed)
	}
	got := d.calls()
	want := []action.Action{action.SetHigh(2), action.SetLow(2)}
	if len(got) != len(want) {
		t.Fatalf("got %d set calls, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Scenario 4: [SetHigh(5)] with should_loop=true; Stop is raised after
// 5ms of looping, and Run must return having dispatched at least one pass.
func TestLoopingProgramStopsAfterFlagRaised(t *testing.T) {
	d := newFakeDriver()
	s := &fakeStore{program: []action.Action{action.SetHigh(5)}}
	e := New(d, s, eventlog.New())

	done := make(chan struct{})
	go func() {
		e.Run(true)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	e.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run(true) did not return after Stop")
	}
	if len(d.calls()) == 0 {
		t.Fatal("expected at least one pass to have run")
	}
}

// Scenario 6: add-action(set-high, 99) accepted by the store; executing
// it logs an InvalidPin(99) event and proceeds to the next action.
func TestInvalidPinLoggedAndExecutionContinues(t *testing.T) {
	d := newFakeDriver()
	s := &fakeStore{program: []action.Action{action.SetHigh(99), action.SetHigh(3)}}
	l := eventlog.New()
	ch, unsubscribe := l.Subscribe()
	defer unsubscribe()

	e := New(d, s, l)
	e.Run(false)

	got := d.calls()
	if len(got) != 1 || got[0] != action.SetHigh(3) {
		t.Fatalf("got %+v, want exactly SetHigh(3) to have run", got)
	}
	select {
	case evt := <-ch:
		if evt.Kind != eventlog.Error {
			t.Fatalf("got kind %v, want Error", evt.Kind)
		}
	default:
		t.Fatal("expected an error event for the invalid pin")
	}
}

func TestWaitForReleasesBetweenPolls(t *testing.T) {
	d := newFakeDriver()
	d.levels[6] = gpio.Low
	s := &fakeStore{program: []action.Action{action.WaitForHigh(6)}}
	e := New(d, s, eventlog.New())
	e.pollInterval = time.Millisecond

	done := make(chan struct{})
	go func() {
		e.Run(false)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	d.mu.Lock()
	d.levels[6] = gpio.High
	d.mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForHigh did not observe the level change")
	}
}
