// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package register

import "sync"

// WriteRecord captures a single write to the simulated register file, in
// the order observed.
type WriteRecord struct {
	Offset int
	Value  uint32
}

// Mock is a fake register window used by driver and executor tests. It
// behaves like a real Window for Read/Write, but records every write and
// lets a test pre-seed the readable state (e.g. LEV) to simulate the bus.
//
// Use Seed to simulate hardware events; every method takes the mock's
// internal mutex, so tests and driver goroutines can use it concurrently.
type Mock struct {
	mu     sync.Mutex
	words  map[int]uint32
	writes []WriteRecord
}

// NewMock returns an empty mock register window.
func NewMock() *Mock {
	return &Mock{words: map[int]uint32{}}
}

// Read returns the last value written (or seeded) at offset, 0 otherwise.
func (m *Mock) Read(offset int) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[offset]
}

// Write stores the value at offset and appends it to the write log.
func (m *Mock) Write(offset int, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[offset] = value
	m.writes = append(m.writes, WriteRecord{Offset: offset, Value: value})
}

// Seed sets the readable value at offset without recording a write, used
// to simulate an externally-driven bus level before a Read.
func (m *Mock) Seed(offset int, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[offset] = value
}

// Writes returns a copy of every write observed so far, in order.
func (m *Mock) Writes() []WriteRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WriteRecord, len(m.writes))
	copy(out, m.writes)
	return out
}

// Release is a no-op; Mock has nothing to unmap.
func (m *Mock) Release() {}
