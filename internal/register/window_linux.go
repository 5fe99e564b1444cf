// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package register

import (
	"os"
	"syscall"
)

// devGPIOMem is the device file exposing just the GPIO register page,
// usable without root as long as the process belongs to the gpio group.
const devGPIOMem = "/dev/gpiomem"

// Open acquires the 4KiB GPIO register window from /dev/gpiomem.
//
// Failures here are fatal to driver initialization: the caller is
// expected to treat them as a single "setup failed" error kind.
func Open() (*Window, error) {
	f, err := os.OpenFile(devGPIOMem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := syscall.Mmap(int(f.Fd()), 0, windowSize, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return newFromBytes(b), nil
}

func release(b []byte) error {
	return syscall.Munmap(b)
}
