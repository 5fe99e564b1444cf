// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

import "fmt"

// ErrNotInitialized is returned by any pin operation issued before Setup or
// after Terminate.
var ErrNotInitialized = notInitializedError{}

type notInitializedError struct{}

func (notInitializedError) Error() string { return "gpio: driver not initialized" }

// InvalidPinError reports an out-of-range pin number; valid pins are 0..27.
type InvalidPinError struct{ Pin int }

func (e InvalidPinError) Error() string { return fmt.Sprintf("gpio: invalid pin %d", e.Pin) }

// SetupError wraps a failure to open or map /dev/gpiomem.
type SetupError struct{ Err error }

func (e SetupError) Error() string { return fmt.Sprintf("gpio: setup failed: %v", e.Err) }
func (e SetupError) Unwrap() error { return e.Err }

// TerminateError wraps a failure while releasing the register window.
type TerminateError struct{ Err error }

func (e TerminateError) Error() string { return fmt.Sprintf("gpio: terminate failed: %v", e.Err) }
func (e TerminateError) Unwrap() error { return e.Err }

// DirectionError reports a failure setting a pin's function-select field.
type DirectionError struct{ Pin int }

func (e DirectionError) Error() string {
	return fmt.Sprintf("gpio: failed to set direction on pin %d", e.Pin)
}

// SetError reports a failure driving a pin high.
type SetError struct{ Pin int }

func (e SetError) Error() string { return fmt.Sprintf("gpio: failed to set pin %d high", e.Pin) }

// ClearError reports a failure driving a pin low.
type ClearError struct{ Pin int }

func (e ClearError) Error() string { return fmt.Sprintf("gpio: failed to set pin %d low", e.Pin) }

// PullUpError reports a failure enabling the pull-up resistor.
type PullUpError struct{ Pin int }

func (e PullUpError) Error() string {
	return fmt.Sprintf("gpio: failed to set pull-up on pin %d", e.Pin)
}

// PullDownError reports a failure enabling the pull-down resistor.
type PullDownError struct{ Pin int }

func (e PullDownError) Error() string {
	return fmt.Sprintf("gpio: failed to set pull-down on pin %d", e.Pin)
}

// InvalidDeviceError reports that /dev/gpiomem could not be opened as a
// character device, e.g. on a non-Linux host or a board without the file.
type InvalidDeviceError struct{ Err error }

func (e InvalidDeviceError) Error() string { return fmt.Sprintf("gpio: invalid device: %v", e.Err) }
func (e InvalidDeviceError) Unwrap() error { return e.Err }
