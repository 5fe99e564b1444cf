// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pinrail/gpio-panel/internal/register"
)

// Word offsets into the GPIO register window, from spec.md §3/§6.
const (
	fselBase = 0  // function-select banks 0..2 occupy offsets 0,1,2
	setReg   = 7  // write-1-to-set
	clrReg   = 10 // write-1-to-clear
	levReg   = 13 // read-only bus level
	pullReg  = 37 // pull-enable code, 0/1/2 for None/Down/Up
	pullClk0 = 38 // write-1-to-apply per pin
)

// pullSettleDelay is the wait between steps of the pull-resistor clocking
// sequence. 100 microseconds per spec.md §4.3.
const pullSettleDelay = 100 * time.Microsecond

// MaxPin is the highest logical GPIO number the driver accepts.
const MaxPin = 27

// windowOpener acquires the register window. Driver.open defaults to
// defaultOpener (the real register.Open) and is swapped out by tests for one
// returning a register.Accessor that isn't a *register.Window.
type windowOpener func() (register.Accessor, error)

func defaultOpener() (register.Accessor, error) {
	return register.Open()
}

// Driver is a single GPIO hardware instance: a register window plus the
// software-mirrored state of all 40 header pins. Exactly one should exist
// per process, held by the Command Surface and passed around by
// reference rather than kept in package-level storage.
//
// All exported methods are safe for concurrent use; a single mutex
// serializes every access to the window and the pin table.
type Driver struct {
	mu          sync.Mutex
	initialized bool
	window      register.Accessor
	pins        [40]Pin  // physical header order, as rendered to the UI
	byNumber    [MaxPin + 1]int // logical GPIO number -> index into pins, -1 if unassigned
	open        windowOpener
}

func newByNumberIndex(pins [40]Pin) [MaxPin + 1]int {
	var idx [MaxPin + 1]int
	for i := range idx {
		idx[i] = -1
	}
	for i, p := range pins {
		if p.Role.Controllable() && p.Number >= 0 && p.Number <= MaxPin {
			idx[p.Number] = i
		}
	}
	return idx
}

// NewDriver returns an uninitialized Driver with the static 40-pin header
// layout populated. Call Setup before issuing any pin operation.
func NewDriver() *Driver {
	pins := NewPinTable()
	return &Driver{pins: pins, byNumber: newByNumberIndex(pins), open: defaultOpener}
}

// NewDriverWithAccessor returns a Driver pre-wired with a register.Accessor
// that is already open (typically a *register.Mock in tests) and marks it
// initialized, as if Setup had succeeded.
func NewDriverWithAccessor(acc register.Accessor) *Driver {
	pins := NewPinTable()
	d := &Driver{pins: pins, byNumber: newByNumberIndex(pins), open: defaultOpener}
	d.window = acc
	d.initialized = true
	for i := range d.pins {
		d.pins[i].Direction = Input
		d.pins[i].Level = Low
		d.pins[i].Pull = PullNone
	}
	return d
}

// entry returns a pointer to the pin-table slot for logical GPIO number
// pin. Callers must have validated pin with validPin first; an
// unassigned slot (a GPIO number with no header row, which cannot occur
// for 0..27 on this board) would panic, so this is only called after
// validPin succeeds.
func (d *Driver) entry(pin int) *Pin {
	return &d.pins[d.byNumber[pin]]
}

// Snapshot returns a copy of the 40-entry pin table as it stands right now.
func (d *Driver) Snapshot() [40]Pin {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pins
}

// Initialized reports whether Setup has succeeded and Terminate has not
// since been called.
func (d *Driver) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// Setup is idempotent: if already initialized it is a no-op returning nil.
// Otherwise it acquires the register window and resets every pin to
// (Input, Low, None). Failure leaves the driver uninitialized.
func (d *Driver) Setup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	w, err := d.open()
	if err != nil {
		return SetupError{Err: err}
	}
	d.window = w
	d.initialized = true
	d.resetLocked()
	slog.Debug("gpio: register window mapped", "pins", MaxPin+1)
	return nil
}

// Reset drives every pin back to (Input, Low, None). Requires Setup.
func (d *Driver) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	d.resetLocked()
	return nil
}

func (d *Driver) resetLocked() {
	for pin := 0; pin <= MaxPin; pin++ {
		d.setDirectionLocked(pin, Input)
		d.entry(pin).Level = Low
		d.setPullLocked(pin, PullNone)
	}
}

// Terminate releases the register window and marks the driver
// uninitialized. Requires Setup.
func (d *Driver) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	d.window.Release()
	d.window = nil
	d.initialized = false
	slog.Debug("gpio: register window released")
	return nil
}

// Close unmaps the window if still mapped, ignoring errors, so a Driver
// left initialized at process exit doesn't leak the mapping. It never
// logs: drop paths must stay silent per spec.md §4.3.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return
	}
	d.window.Release()
	d.window = nil
	d.initialized = false
}

func validPin(pin int) bool { return pin >= 0 && pin <= MaxPin }

// SetDirection validates pin and dir, then clears and rewrites the 3-bit
// function-select field for pin in its FSEL bank.
func (d *Driver) SetDirection(pin int, dir Direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	if !validPin(pin) {
		return InvalidPinError{Pin: pin}
	}
	d.setDirectionLocked(pin, dir)
	return nil
}

func (d *Driver) setDirectionLocked(pin int, dir Direction) {
	bank := fselBase + pin/10
	shift := uint((pin % 10) * 3)
	word := d.window.Read(bank)
	word &^= 0x7 << shift
	if dir == Output {
		word |= 0x1 << shift
	}
	d.window.Write(bank, word)
	d.entry(pin).Direction = dir
}

// SetLevel ensures pin is configured as Output, then writes it High or Low
// via the write-only SET/CLR registers.
func (d *Driver) SetLevel(pin int, level Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	if !validPin(pin) {
		return InvalidPinError{Pin: pin}
	}
	if d.entry(pin).Direction != Output {
		d.setDirectionLocked(pin, Output)
	}
	if level == High {
		d.window.Write(setReg, 1<<uint(pin))
	} else {
		d.window.Write(clrReg, 1<<uint(pin))
	}
	d.entry(pin).Level = level
	return nil
}

// GetLevel reads the live bus level for pin from LEV without touching
// direction or the software mirror.
func (d *Driver) GetLevel(pin int) (Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return Low, ErrNotInitialized
	}
	if !validPin(pin) {
		return Low, InvalidPinError{Pin: pin}
	}
	word := d.window.Read(levReg)
	return Level(word&(1<<uint(pin)) != 0), nil
}

// SetPull runs the PULL/PULLCLK0 clocking sequence from spec.md §4.3,
// holding the driver lock for its whole duration: the sleeps are short
// enough (100 microseconds each) that this is the correct tradeoff over
// dropping the lock mid-sequence.
func (d *Driver) SetPull(pin int, pull Pull) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	if !validPin(pin) {
		return InvalidPinError{Pin: pin}
	}
	d.setPullLocked(pin, pull)
	return nil
}

func (d *Driver) setPullLocked(pin int, pull Pull) {
	d.window.Write(pullReg, 0)
	time.Sleep(pullSettleDelay)
	d.window.Write(pullReg, pull.pullCode())
	time.Sleep(pullSettleDelay)
	if pull != PullNone {
		d.window.Write(pullClk0, 1<<uint(pin))
		time.Sleep(pullSettleDelay)
	}
	d.window.Write(pullReg, 0)
	d.window.Write(pullClk0, 0)
	d.entry(pin).Pull = pull
}

// Toggle flips pin's software-mirrored level and writes the new value,
// avoiding a bus read that would otherwise force the pin to Input. The
// driver lock is held from reading the mirror through the write.
func (d *Driver) Toggle(pin int) (Level, error) {
	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return Low, ErrNotInitialized
	}
	if !validPin(pin) {
		d.mu.Unlock()
		return Low, InvalidPinError{Pin: pin}
	}
	defer d.mu.Unlock()
	next := Low
	if d.entry(pin).Level == Low {
		next = High
	}
	if d.entry(pin).Direction != Output {
		d.setDirectionLocked(pin, Output)
	}
	if next == High {
		d.window.Write(setReg, 1<<uint(pin))
	} else {
		d.window.Write(clrReg, 1<<uint(pin))
	}
	d.entry(pin).Level = next
	return next, nil
}

// Pin returns a copy of the current state of the given pin's table entry,
// indexed by physical header position (0..39), not logical GPIO number.
func (d *Driver) Pin(physicalIndex int) (Pin, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if physicalIndex < 0 || physicalIndex >= len(d.pins) {
		return Pin{}, false
	}
	return d.pins[physicalIndex], true
}
