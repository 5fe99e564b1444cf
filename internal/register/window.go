// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package register maps the BCM283x/BCM2711 GPIO peripheral page into the
// process and gives volatile 32-bit word access to it.
package register

import (
	"errors"
	"reflect"
	"sync/atomic"
	"unsafe"
)

// windowSize is the size, in bytes, of the GPIO register page exposed by
// /dev/gpiomem. It covers every offset this driver ever touches.
const windowSize = 4096

// Accessor is the register-level contract the GPIO driver depends on. Both
// *Window (the real /dev/gpiomem mapping) and *Mock (tests) implement it.
type Accessor interface {
	Read(offset int) uint32
	Write(offset int, value uint32)
	Release()
}

var (
	_ Accessor = (*Window)(nil)
	_ Accessor = (*Mock)(nil)
)

// Window is an opaque handle on the mapped GPIO register page.
//
// All reads and writes are volatile 32-bit word accesses: the compiler may
// not reorder, fuse, or elide them, since the backing memory aliases
// hardware registers that can change or take effect outside of the Go
// memory model.
type Window struct {
	words []uint32 // reinterpretation of the mmap'd byte slice
	raw   []byte   // kept so Release can unmap the exact span that was mapped
}

// newFromBytes reinterprets a mapped byte slice as a slice of uint32 words.
// The mapping must be at least windowSize bytes and 4-byte aligned, which
// mmap already guarantees for page-aligned offsets.
func newFromBytes(b []byte) *Window {
	header := *(*reflect.SliceHeader)(unsafe.Pointer(&b))
	header.Len /= 4
	header.Cap /= 4
	words := *(*[]uint32)(unsafe.Pointer(&header))
	return &Window{words: words, raw: b}
}

// Read returns the 32-bit word at the given word offset from the window
// base, using a volatile (atomic) load.
func (w *Window) Read(offset int) uint32 {
	return atomic.LoadUint32(&w.words[offset])
}

// Write stores a 32-bit word at the given word offset from the window
// base, using a volatile (atomic) store.
func (w *Window) Write(offset int, value uint32) {
	atomic.StoreUint32(&w.words[offset], value)
}

// Release unmaps the region. Errors are ignored: teardown is best-effort,
// matching spec.md's "release failures are ignored" policy.
func (w *Window) Release() {
	_ = release(w.raw)
}

// errUnsupported is returned by Open on platforms with no /dev/gpiomem.
var errUnsupported = errors.New("register: /dev/gpiomem is not supported on this platform")
