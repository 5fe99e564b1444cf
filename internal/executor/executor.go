// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package executor runs an Action Program against a GPIO driver,
// concurrently with interactive commands issued against the same
// hardware, honoring cooperative cancellation between dispatch steps.
package executor

import (
	"sync/atomic"
	"time"

	"github.com/pinrail/gpio-panel/internal/action"
	"github.com/pinrail/gpio-panel/internal/eventlog"
	"github.com/pinrail/gpio-panel/internal/gpio"
)

// driver is the subset of *gpio.Driver the executor depends on, so tests
// can substitute a fake without going through a register.Mock.
type driver interface {
	Initialized() bool
	SetLevel(pin int, level gpio.Level) error
	GetLevel(pin int) (gpio.Level, error)
	SetPull(pin int, pull gpio.Pull) error
}

// store is the subset of *action.Store the executor depends on.
type store interface {
	Snapshot() []action.Action
}

// Executor runs Action programs. A single Executor should be shared by
// program.start and program.stop, the same way the Driver is shared: by
// reference, passed in rather than kept in package-level storage.
type Executor struct {
	driver driver
	store  store
	log    *eventlog.Log
	stop   atomic.Bool

	// pollInterval is the yield between WaitFor* polls; zero means no
	// explicit sleep (a plain busy loop), overridable by tests so they
	// don't have to wait on real hardware timing.
	pollInterval time.Duration
}

// New returns an Executor wired to d, s and l.
func New(d driver, s store, l *eventlog.Log) *Executor {
	return &Executor{driver: d, store: s, log: l, pollInterval: time.Millisecond}
}

// Stop raises the cancellation flag. The running pass finishes its
// current dispatch step (or, for Delay, its current sleep) before
// observing it.
func (e *Executor) Stop() {
	e.stop.Store(true)
}

// Running reports whether the cancellation flag has not yet been raised
// for the pass currently in flight. It does not by itself indicate a Run
// is in progress; callers typically track that separately (e.g. via the
// goroutine's lifetime).
func (e *Executor) Running() bool {
	return !e.stop.Load()
}

// Run executes the Action Program once, or in a loop if shouldLoop is
// true, until either the program is exhausted (non-looping), it is
// empty, or Stop is called. It is intended to be launched as its own
// goroutine by program.start.
func (e *Executor) Run(shouldLoop bool) {
	e.stop.Store(false)

	if !e.driver.Initialized() {
		e.log.Errorf("cannot start program: driver not initialized")
		return
	}

	for {
		program := e.store.Snapshot()
		if len(program) == 0 {
			return
		}
		for _, a := range program {
			if e.stop.Load() {
				break
			}
			e.dispatch(a)
		}
		if !shouldLoop || e.stop.Load() {
			return
		}
	}
}

func (e *Executor) dispatch(a action.Action) {
	switch a.Kind {
	case action.SetHighKind:
		if err := e.driver.SetLevel(a.Value, gpio.High); err != nil {
			e.log.Logger().Error("SetHigh failed", "pin", a.Value, "err", err)
		}
	case action.SetLowKind:
		if err := e.driver.SetLevel(a.Value, gpio.Low); err != nil {
			e.log.Logger().Error("SetLow failed", "pin", a.Value, "err", err)
		}
	case action.DelayKind:
		time.Sleep(time.Duration(a.Value) * time.Millisecond)
	case action.WaitForHighKind:
		e.waitFor(a.Value, gpio.High)
	case action.WaitForLowKind:
		e.waitFor(a.Value, gpio.Low)
	case action.SetPullUpKind:
		if err := e.driver.SetPull(a.Value, gpio.PullUp); err != nil {
			e.log.Logger().Error("SetPullUp failed", "pin", a.Value, "err", err)
		}
	case action.SetPullDownKind:
		if err := e.driver.SetPull(a.Value, gpio.PullDown); err != nil {
			e.log.Logger().Error("SetPullDown failed", "pin", a.Value, "err", err)
		}
	}
}

// waitFor busy-polls GetLevel until it reports want, or the cancellation
// flag is raised. Each poll is an independent Driver call, so the
// Driver's own lock is released between iterations: the executor never
// holds a lock across polls itself.
func (e *Executor) waitFor(pin int, want gpio.Level) {
	for {
		if e.stop.Load() {
			return
		}
		level, err := e.driver.GetLevel(pin)
		if err != nil {
			e.log.Logger().Error("WaitFor failed", "pin", pin, "want", want, "err", err)
			return
		}
		if level == want {
			return
		}
		if e.pollInterval > 0 {
			time.Sleep(e.pollInterval)
		}
	}
}
