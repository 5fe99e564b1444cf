// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

import (
	"testing"
	"time"

	"github.com/pinrail/gpio-panel/internal/register"
)

func newTestDriver() (*Driver, *register.Mock) {
	m := register.NewMock()
	return NewDriverWithAccessor(m), m
}

func TestSetupResetsEveryPin(t *testing.T) {
	d := NewDriver()
	m := register.NewMock()
	d.open = func() (register.Accessor, error) { return m, nil }
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	for pin := 0; pin <= MaxPin; pin++ {
		e := d.entry(pin)
		if e.Direction != Input || e.Level != Low || e.Pull != PullNone {
			t.Fatalf("pin %d: got (%v,%v,%v), want (Input,Low,None)", pin, e.Direction, e.Level, e.Pull)
		}
	}
}

func TestSetLevelSetsOutputAndLevel(t *testing.T) {
	d, _ := newTestDriver()
	for _, level := range []Level{High, Low} {
		if err := d.SetLevel(17, level); err != nil {
			t.Fatalf("SetLevel(17, %v): %v", level, err)
		}
		e := d.entry(17)
		if e.Direction != Output {
			t.Fatalf("pin 17: direction = %v, want Output", e.Direction)
		}
		if e.Level != level {
			t.Fatalf("pin 17: level = %v, want %v", e.Level, level)
		}
	}
}

func TestToggleFlipsAndReturnsNewLevel(t *testing.T) {
	d, _ := newTestDriver()
	v1, err := d.Toggle(4)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if v1 != High {
		t.Fatalf("first toggle from Low = %v, want High", v1)
	}
	v2, err := d.Toggle(4)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if v2 != Low {
		t.Fatalf("second toggle = %v, want Low", v2)
	}
}

func TestInvalidPinRejected(t *testing.T) {
	d, _ := newTestDriver()
	for _, pin := range []int{-1, 28} {
		if err := d.SetLevel(pin, High); err == nil {
			t.Fatalf("SetLevel(%d): want InvalidPinError, got nil", pin)
		} else if _, ok := err.(InvalidPinError); !ok {
			t.Fatalf("SetLevel(%d): got %T, want InvalidPinError", pin, err)
		}
	}
}

func TestSetupTwiceOpensWindowOnce(t *testing.T) {
	d := NewDriver()
	calls := 0
	m := register.NewMock()
	d.open = func() (register.Accessor, error) {
		calls++
		return m, nil
	}
	if err := d.Setup(); err != nil {
		t.Fatalf("first Setup: %v", err)
	}
	if err := d.Setup(); err != nil {
		t.Fatalf("second Setup: %v", err)
	}
	if calls != 1 {
		t.Fatalf("register window opened %d times, want 1", calls)
	}
}

func TestTerminateThenOperationFails(t *testing.T) {
	d, _ := newTestDriver()
	if err := d.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if err := d.SetLevel(4, High); err != ErrNotInitialized {
		t.Fatalf("SetLevel after Terminate: got %v, want ErrNotInitialized", err)
	}
}

// Scenario 1 from spec.md §8: setup; set_level(17,High); set_level(17,Low);
// terminate. FSEL1 bit 21 set (17%10==7, bank 1, shift 21), SET<-1<<17,
// CLR<-1<<17.
func TestScenarioHighThenLowOnPin17(t *testing.T) {
	d, m := newTestDriver()
	if err := d.SetLevel(17, High); err != nil {
		t.Fatal(err)
	}
	if err := d.SetLevel(17, Low); err != nil {
		t.Fatal(err)
	}
	if err := d.Terminate(); err != nil {
		t.Fatal(err)
	}
	writes := m.Writes()
	var sawFSEL1, sawSet, sawClr bool
	for _, w := range writes {
		switch {
		case w.Offset == fselBase+1 && w.Value&(1<<21) != 0:
			sawFSEL1 = true
		case w.Offset == setReg && w.Value == 1<<17:
			sawSet = true
		case w.Offset == clrReg && w.Value == 1<<17:
			sawClr = true
		}
	}
	if !sawFSEL1 || !sawSet || !sawClr {
		t.Fatalf("missing expected writes: FSEL1=%v SET=%v CLR=%v, writes=%+v", sawFSEL1, sawSet, sawClr, writes)
	}
}

// Scenario 2: setup; toggle(4); toggle(4) returns High then Low, writes
// FSEL0 bit 12 (4*3=12), SET<-1<<4, CLR<-1<<4.
func TestScenarioToggleTwicePin4(t *testing.T) {
	d, m := newTestDriver()
	v1, err := d.Toggle(4)
	if err != nil || v1 != High {
		t.Fatalf("Toggle 1: %v, %v", v1, err)
	}
	v2, err := d.Toggle(4)
	if err != nil || v2 != Low {
		t.Fatalf("Toggle 2: %v, %v", v2, err)
	}
	writes := m.Writes()
	var sawFSEL0, sawSet, sawClr bool
	for _, w := range writes {
		switch {
		case w.Offset == fselBase && w.Value&(1<<12) != 0:
			sawFSEL0 = true
		case w.Offset == setReg && w.Value == 1<<4:
			sawSet = true
		case w.Offset == clrReg && w.Value == 1<<4:
			sawClr = true
		}
	}
	if !sawFSEL0 || !sawSet || !sawClr {
		t.Fatalf("missing expected writes: FSEL0=%v SET=%v CLR=%v, writes=%+v", sawFSEL0, sawSet, sawClr, writes)
	}
}

// Scenario 5: set_pull(18, Up) writes PULL<-0, PULL<-2, PULLCLK0<-1<<18,
// PULL<-0, PULLCLK0<-0, with >=100us gaps between the sleeping steps.
func TestScenarioSetPullUpPin18(t *testing.T) {
	d, m := newTestDriver()
	start := time.Now()
	if err := d.SetPull(18, PullUp); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)
	if elapsed < 3*pullSettleDelay {
		t.Fatalf("SetPull returned too fast: %v, want >= %v", elapsed, 3*pullSettleDelay)
	}
	want := []register.WriteRecord{
		{Offset: pullReg, Value: 0},
		{Offset: pullReg, Value: 2},
		{Offset: pullClk0, Value: 1 << 18},
		{Offset: pullReg, Value: 0},
		{Offset: pullClk0, Value: 0},
	}
	got := m.Writes()
	if len(got) != len(want) {
		t.Fatalf("got %d writes, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if d.entry(18).Pull != PullUp {
		t.Fatalf("pin 18 pull = %v, want PullUp", d.entry(18).Pull)
	}
}
