// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

// row is one physical row of the 40-pin header, Left then Right, mirroring
// host/rpi/rpi.go's P1_1..P1_40 var block (same pin numbers, same
// special-function assignments).
type row struct {
	left, right rowPin
}

type rowPin struct {
	number int // -1 if not controllable
	role   Role
	label  string
}

// headerRows is the P1/J8 40-pin header as laid out on a Raspberry Pi
// 2/3/4-class board, taken row by row from spec.md §6 (which itself
// restates host/rpi/rpi.go's P1_1..P1_40 assignments).
var headerRows = [20]row{
	{rowPin{-1, RolePower3V3, "3V3 Power"}, rowPin{-1, RolePower5V, "5V Power"}},
	{rowPin{2, RoleI2C, "GPIO2 I2C SDA"}, rowPin{-1, RolePower5V, "5V Power"}},
	{rowPin{3, RoleI2C, "GPIO3 I2C SCL"}, rowPin{-1, RoleGround, "Ground"}},
	{rowPin{4, RoleGPIO, "GPIO4"}, rowPin{14, RoleUART, "GPIO14 UART TX"}},
	{rowPin{-1, RoleGround, "Ground"}, rowPin{15, RoleUART, "GPIO15 UART RX"}},
	{rowPin{17, RoleGPIO, "GPIO17"}, rowPin{18, RolePCM, "GPIO18 PCM CLK"}},
	{rowPin{27, RoleGPIO, "GPIO27"}, rowPin{-1, RoleGround, "Ground"}},
	{rowPin{22, RoleGPIO, "GPIO22"}, rowPin{23, RoleGPIO, "GPIO23"}},
	{rowPin{-1, RolePower3V3, "3V3 Power"}, rowPin{24, RoleGPIO, "GPIO24"}},
	{rowPin{10, RoleSPI, "GPIO10 SPI MOSI"}, rowPin{-1, RoleGround, "Ground"}},
	{rowPin{9, RoleSPI, "GPIO9 SPI MISO"}, rowPin{25, RoleGPIO, "GPIO25"}},
	{rowPin{11, RoleSPI, "GPIO11 SPI SCLK"}, rowPin{8, RoleSPI, "GPIO8 SPI CE0"}},
	{rowPin{-1, RoleGround, "Ground"}, rowPin{7, RoleSPI, "GPIO7 SPI CE1"}},
	{rowPin{0, RoleI2C, "GPIO0 EEPROM SDA"}, rowPin{1, RoleI2C, "GPIO1 EEPROM SCL"}},
	{rowPin{5, RoleGPIO, "GPIO5"}, rowPin{-1, RoleGround, "Ground"}},
	{rowPin{6, RoleGPIO, "GPIO6"}, rowPin{12, RoleGPIO, "GPIO12 PWM0"}},
	{rowPin{13, RoleGPIO, "GPIO13 PWM1"}, rowPin{-1, RoleGround, "Ground"}},
	{rowPin{19, RolePCM, "GPIO19 PCM FS"}, rowPin{16, RoleGPIO, "GPIO16"}},
	{rowPin{26, RoleGPIO, "GPIO26"}, rowPin{20, RolePCM, "GPIO20 PCM DIN"}},
	{rowPin{-1, RoleGround, "Ground"}, rowPin{21, RolePCM, "GPIO21 PCM DOUT"}},
}

// NewPinTable builds the fixed 40-entry physical header, each entry at
// (Input, Low, None) as on power-on.
func NewPinTable() [40]Pin {
	var out [40]Pin
	for i, r := range headerRows {
		out[2*i] = newPin(r.left, ColumnLeft)
		out[2*i+1] = newPin(r.right, ColumnRight)
	}
	return out
}

func newPin(p rowPin, col Column) Pin {
	return Pin{
		Number:    p.number,
		Role:      p.role,
		Label:     p.label,
		Column:    col,
		Direction: Input,
		Level:     Low,
		Pull:      PullNone,
	}
}
