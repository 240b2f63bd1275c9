// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

type devMem struct {
	mf  *os.File
	mem []byte
	off uintptr
}

// OpenDevMem maps size bytes of physical address space at base through
// /dev/mem. The mapping is established once and held until Close, so
// every register access after that is a plain load or store.
func OpenDevMem(base uintptr, size int) (Window, error) {
	mf, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, err
	}
	ps := uintptr(unix.Getpagesize())
	page := base & ^(ps - 1)
	off := base - page
	mem, err := unix.Mmap(int(mf.Fd()), int64(page), int(off)+size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		mf.Close()
		return nil, fmt.Errorf("mmap of %v bytes at %#x failed: %v", size, page, err)
	}
	return &devMem{mf, mem, off}, nil
}

func (m *devMem) at(offset uintptr, width int) uintptr {
	a := m.off + offset
	if int(a)+width/8 > len(m.mem) {
		panic(fmt.Sprintf("%d bit access at offset %#x is outside the mapped window", width, offset))
	}
	return a
}

func (m *devMem) MustRead16(offset uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(&m.mem[m.at(offset, 16)]))
}

func (m *devMem) MustRead8(offset uintptr) uint8 {
	return m.mem[m.at(offset, 8)]
}

func (m *devMem) MustWrite16(offset uintptr, data uint16) {
	*(*uint16)(unsafe.Pointer(&m.mem[m.at(offset, 16)])) = data
}

func (m *devMem) MustWrite8(offset uintptr, data uint8) {
	m.mem[m.at(offset, 8)] = data
}

func (m *devMem) Close() {
	if err := unix.Munmap(m.mem); err != nil {
		panic(fmt.Sprintf("munmap failed: %v", err))
	}
	m.mem = nil
	m.mf.Close()
}
