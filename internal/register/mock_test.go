// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package register

import "testing"

func TestMockRecordsWritesInOrder(t *testing.T) {
	m := NewMock()
	m.Write(7, 1<<17)
	m.Write(10, 1<<17)

	got := m.Writes()
	want := []WriteRecord{{Offset: 7, Value: 1 << 17}, {Offset: 10, Value: 1 << 17}}
	if len(got) != len(want) {
		t.Fatalf("got %d writes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMockSeedDoesNotRecordWrite(t *testing.T) {
	m := NewMock()
	m.Seed(13, 1<<4)
	if got := m.Read(13); got != 1<<4 {
		t.Fatalf("Read(13) = %d, want %d", got, 1<<4)
	}
	if len(m.Writes()) != 0 {
		t.Fatalf("Seed should not be recorded as a write")
	}
}
