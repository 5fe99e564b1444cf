// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpio implements the register-level GPIO driver for the BCM283x/
// BCM2711 peripheral block: the Pin Table, the 40-pin header layout, and
// the direction/level/pull operations built on top of the register window.
package gpio

import "fmt"

// Direction is the data direction of a pin.
type Direction uint8

// Acceptable directions. Input is the zero value and the power-on default.
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "Output"
	}
	return "Input"
}

// MarshalJSON renders Direction as its name, matching the rest of the
// package's enums.
func (d Direction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// Level is the logical level of a pin: Low or High.
//
// For an Input pin it is the last sampled bus level; for an Output pin it
// is the last commanded level.
type Level bool

// Acceptable levels. Low is the zero value and the power-on default.
const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "High"
	}
	return "Low"
}

// MarshalJSON renders Level as its name, matching the rest of the
// package's enums.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// Pull is the internal pull resistor state of a pin set as input.
type Pull uint8

// Acceptable pull states. None is the zero value and the power-on default.
const (
	PullNone Pull = iota
	PullDown
	PullUp
)

const pullName = "NoneDownUp"

var pullIndex = [...]uint8{0, 4, 8, 10}

func (p Pull) String() string {
	if p >= Pull(len(pullIndex)-1) {
		return fmt.Sprintf("Pull(%d)", uint8(p))
	}
	return pullName[pullIndex[p]:pullIndex[p+1]]
}

// MarshalJSON renders Pull as its name, matching the rest of the
// package's enums.
func (p Pull) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// pullCode is the value written to the PULL register for each Pull state,
// per spec.md §4.3: None=0, Down=1, Up=2.
func (p Pull) pullCode() uint32 {
	switch p {
	case PullDown:
		return 1
	case PullUp:
		return 2
	default:
		return 0
	}
}

// Role is the electrical role a physical header pin plays.
type Role uint8

// Acceptable roles. The first three are metadata-only; the remaining five
// are electrically controllable and carry a GPIO number.
const (
	RolePower5V Role = iota
	RolePower3V3
	RoleGround
	RoleGPIO
	RoleI2C
	RoleSPI
	RoleUART
	RolePCM
)

var roleNames = [...]string{
	RolePower5V:  "5V Power",
	RolePower3V3: "3V3 Power",
	RoleGround:   "Ground",
	RoleGPIO:     "GPIO",
	RoleI2C:      "I2C",
	RoleSPI:      "SPI",
	RoleUART:     "UART",
	RolePCM:      "PCM",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// MarshalJSON renders Role as its name, matching the rest of the
// package's enums.
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// Controllable reports whether a pin of this role can be driven by the
// GPIO Driver. Power and ground pins are metadata only.
func (r Role) Controllable() bool {
	return r != RolePower5V && r != RolePower3V3 && r != RoleGround
}

// Column is the physical side of the 40-pin header a pin sits on.
type Column uint8

const (
	ColumnLeft Column = iota
	ColumnRight
)

func (c Column) String() string {
	if c == ColumnRight {
		return "Right"
	}
	return "Left"
}

// MarshalJSON renders Column as its name, matching the rest of the
// package's enums.
func (c Column) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
