// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides register access to a peripheral's address
// window. A Window is handed to exactly one owner, offsets are always
// relative to the window base so the owner never sees physical
// addresses.
//
// Register access cannot meaningfully fail halfway: a fault on a
// mapped device window means the hardware or the mapping is gone, and
// no caller has a sensible way to continue. The accessors therefore
// panic instead of returning errors, which keeps every register
// sequence readable.
package mmio

// Window is a register access capability over one peripheral window.
type Window interface {
	MustRead16(offset uintptr) uint16
	MustRead8(offset uintptr) uint8
	MustWrite16(offset uintptr, data uint16)
	MustWrite8(offset uintptr, data uint8)
	Close()
}
