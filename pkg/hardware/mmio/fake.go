// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"encoding/binary"
	"sync"
)

// FakeWindow is an in-memory register file implementing Window. It
// backs the -fake mode of the command line tools and behavioral tests.
// Registers are stored little endian like on the real bus.
//
// Peek and Poke are the hardware side: harnesses use them to inspect
// written values and to plant status bits without going through the
// Window interface. The fake has no device behavior of its own, bits
// written stay exactly as written.
type FakeWindow struct {
	m   sync.Mutex
	mem []byte
}

func NewFakeWindow(size int) *FakeWindow {
	return &FakeWindow{mem: make([]byte, size)}
}

func (f *FakeWindow) MustRead16(offset uintptr) uint16 {
	f.m.Lock()
	defer f.m.Unlock()
	return binary.LittleEndian.Uint16(f.mem[offset : offset+2])
}

func (f *FakeWindow) MustRead8(offset uintptr) uint8 {
	f.m.Lock()
	defer f.m.Unlock()
	return f.mem[offset]
}

func (f *FakeWindow) MustWrite16(offset uintptr, data uint16) {
	f.m.Lock()
	defer f.m.Unlock()
	binary.LittleEndian.PutUint16(f.mem[offset:offset+2], data)
}

func (f *FakeWindow) MustWrite8(offset uintptr, data uint8) {
	f.m.Lock()
	defer f.m.Unlock()
	f.mem[offset] = data
}

func (f *FakeWindow) Close() {
}

// Peek16 reads a register from the hardware side.
func (f *FakeWindow) Peek16(offset uintptr) uint16 {
	return f.MustRead16(offset)
}

// Poke16 writes a register from the hardware side.
func (f *FakeWindow) Poke16(offset uintptr, data uint16) {
	f.MustWrite16(offset, data)
}

// Peek8 reads a register from the hardware side.
func (f *FakeWindow) Peek8(offset uintptr) uint8 {
	return f.MustRead8(offset)
}

// Poke8 writes a register from the hardware side.
func (f *FakeWindow) Poke8(offset uintptr, data uint8) {
	f.MustWrite8(offset, data)
}
