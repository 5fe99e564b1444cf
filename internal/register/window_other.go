// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package register

// Open always fails on non-Linux platforms: /dev/gpiomem is a Linux/
// Raspbian-specific kernel driver.
func Open() (*Window, error) {
	return nil, errUnsupported
}

func release([]byte) error {
	return nil
}
