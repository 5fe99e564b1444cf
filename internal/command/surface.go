// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package command is the thin adapter between the external HTTP/websocket
// collaborator and the GPIO Driver, Action Store, and Executor. Every
// operation is synchronous from the caller's point of view, and every
// operation except ListActions emits a log event to the shared eventlog.Log.
package command

import (
	"sync/atomic"

	"github.com/pinrail/gpio-panel/internal/action"
	"github.com/pinrail/gpio-panel/internal/eventlog"
	"github.com/pinrail/gpio-panel/internal/executor"
	"github.com/pinrail/gpio-panel/internal/gpio"
)

// Surface wires the Driver, the Action Store, the Executor and the log
// sink together. It owns none of them exclusively — the Driver, Store and
// Log are shared handles injected by the caller, per spec.md §9's
// anti-global-storage direction, and New builds the Executor from them —
// but it is the only component expected to call them from outside this
// package.
type Surface struct {
	Driver   *gpio.Driver
	Store    *action.Store
	Executor *executor.Executor
	Log      *eventlog.Log

	running atomic.Bool
}

// New returns a Surface wired to the given components.
func New(d *gpio.Driver, s *action.Store, l *eventlog.Log) *Surface {
	ex := executor.New(d, s, l)
	return &Surface{Driver: d, Store: s, Executor: ex, Log: l}
}

// Setup initializes the Driver, idempotently.
func (s *Surface) Setup() error {
	if err := s.Driver.Setup(); err != nil {
		s.Log.Logger().Error("setup failed", "err", err)
		return err
	}
	s.Log.Info("driver initialized")
	return nil
}

// Reset drives every pin back to its power-on state.
func (s *Surface) Reset() error {
	if err := s.Driver.Reset(); err != nil {
		s.Log.Logger().Error("reset failed", "err", err)
		return err
	}
	s.Log.Info("driver reset")
	return nil
}

// Terminate releases the Driver's register window.
func (s *Surface) Terminate() error {
	if err := s.Driver.Terminate(); err != nil {
		s.Log.Logger().Error("terminate failed", "err", err)
		return err
	}
	s.Log.Info("driver terminated")
	return nil
}

// TogglePin flips a pin's level and returns the new value, validating and
// logging either result.
func (s *Surface) TogglePin(pin int) (gpio.Level, error) {
	level, err := s.Driver.Toggle(pin)
	if err != nil {
		s.Log.Logger().Error("toggle failed", "pin", pin, "err", err)
		return gpio.Low, err
	}
	s.Log.Logger().Info("pin toggled", "pin", pin, "level", level.String())
	return level, nil
}

// AddAction appends an Action built from actionType/value and returns its
// index.
func (s *Surface) AddAction(actionType string, value int) (int, error) {
	kind, err := action.ParseKind(actionType)
	if err != nil {
		s.Log.Logger().Error("add action failed", "action_type", actionType, "err", err)
		return 0, err
	}
	a := action.Action{Kind: kind, Value: value}
	idx := s.Store.Append(a)
	s.Log.Logger().Info("action added", "action", a.String(), "index", idx)
	return idx, nil
}

// RemoveAction deletes the action at index, a no-op if out of range.
func (s *Surface) RemoveAction(index int) {
	s.Store.Remove(index)
	s.Log.Logger().Info("action removed", "index", index)
}

// ListActions returns the current Action Program, in order.
func (s *Surface) ListActions() []action.Action {
	return s.Store.Snapshot()
}

// StartProgram launches the Executor as a background goroutine. Calling
// it while a program is already running is a no-op: only one Executor
// pass may be in flight for a given Driver at a time.
func (s *Surface) StartProgram(shouldLoop bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.Log.Errorf("program already running")
		return
	}
	s.Log.Info("program started")
	go func() {
		defer s.running.Store(false)
		s.Executor.Run(shouldLoop)
		s.Log.Info("program finished")
	}()
}

// StopProgram raises the Executor's cancellation flag.
func (s *Surface) StopProgram() {
	s.Executor.Stop()
	s.Log.Info("program stop requested")
}
