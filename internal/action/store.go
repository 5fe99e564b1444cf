// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package action

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pinrail/gpio-panel/internal/gpio"
)

// configVersion is the opaque version field persisted alongside the
// action list; the core doesn't interpret it, per spec.md §4.4.
const configVersion = 1

// document is the on-disk shape of config.json. GpioPins mirrors the
// original implementation's persisted header layout (its config.rs
// carries the same table alongside device/actions); it is written for
// informational/resume-time parity but never read back into a live
// Driver, since Setup/Reset always reinitialize every pin regardless of
// what was last observed.
type document struct {
	Version  int        `json:"version"`
	Device   string     `json:"device,omitempty"`
	Actions  []Action   `json:"actions"`
	GpioPins []gpio.Pin `json:"gpio_pins,omitempty"`
}

// Store is the ordered, persisted list of Actions that make up the
// current Action Program. Every Append and Remove triggers an immediate
// Save; a Save failure is reported through SaveErr rather than undoing
// the in-memory change.
type Store struct {
	mu      sync.Mutex
	path    string
	device  string
	actions []Action

	// SaveErr, if set, is called with the error from a failed Save. It
	// is invoked outside the store's lock. A nil SaveErr silently drops
	// save failures, matching "logged, not raised" from spec.md §7.
	SaveErr func(error)

	// GpioPinsProvider, if set, is called on every Save to obtain the
	// current 40-pin header snapshot to persist alongside the actions,
	// carrying forward the original's config.json shape. A nil provider
	// simply omits the field.
	GpioPinsProvider func() [40]gpio.Pin
}

// NewStore returns a Store backed by path. Load must be called before
// the store reflects anything on disk.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the backing file. A missing file is not an error: a default
// empty store is created and persisted. A malformed file is treated as
// empty and the in-memory store continues with no actions (the bad file
// is left on disk until the next successful Save overwrites it). The
// persisted gpio_pins table is not decoded.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.actions = nil
		return s.saveLocked()
	}
	if err != nil {
		return err
	}

	var doc struct {
		Device  string   `json:"device"`
		Actions []Action `json:"actions"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		s.actions = nil
		return nil
	}
	s.actions = doc.Actions
	s.device = doc.Device
	return nil
}

// Append adds action to the end of the program and returns its index.
func (s *Store) Append(a Action) int {
	s.mu.Lock()
	s.actions = append(s.actions, a)
	idx := len(s.actions) - 1
	s.mu.Unlock()
	s.saveAndReport()
	return idx
}

// Remove deletes the action at index, shifting later entries down. An
// out-of-range index is a no-op.
func (s *Store) Remove(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.actions) {
		s.mu.Unlock()
		return
	}
	s.actions = append(s.actions[:index], s.actions[index+1:]...)
	s.mu.Unlock()
	s.saveAndReport()
}

// Snapshot returns an independent copy of the current action sequence.
func (s *Store) Snapshot() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// Len reports how many actions are currently in the program.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions)
}

func (s *Store) saveAndReport() {
	s.mu.Lock()
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil && s.SaveErr != nil {
		s.SaveErr(err)
	}
}

func (s *Store) saveLocked() error {
	doc := document{Version: configVersion, Device: s.device, Actions: s.actions}
	if doc.Actions == nil {
		doc.Actions = []Action{}
	}
	if s.GpioPinsProvider != nil {
		pins := s.GpioPinsProvider()
		doc.GpioPins = pins[:]
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
