// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

// Pin describes one physical pin of the 40-pin header: immutable board
// metadata plus the software-mirrored mutable state for controllable
// pins.
//
// Only pins with Role.Controllable() carry a meaningful Number; for
// power/ground pins Number is -1.
type Pin struct {
	// Immutable.
	Number int    `json:"number"`
	Role   Role   `json:"role"`
	Label  string `json:"label"` // e.g. "GPIO17", "GPIO2 I2C SDA", "Ground"
	Column Column `json:"column"`

	// Mutable. Reset to (Input, Low, None) by Setup/Reset.
	Direction Direction `json:"direction"`
	Level     Level     `json:"level"`
	Pull      Pull      `json:"pull"`
}

// Function renders the pin's current state the way a UI fragment would
// display it, e.g. "Output/High", "Input/Low", or the static label for a
// non-controllable pin.
func (p *Pin) Function() string {
	if !p.Role.Controllable() {
		return p.Label
	}
	return p.Direction.String() + "/" + p.Level.String()
}
