// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"fmt"
	"testing"
)

// fakeMem is a scripted register window: the test enqueues the exact
// accesses it expects and the fake verifies them in order. Reads
// return the scripted value, any unexpected access fails the test and
// an access past the end of the script panics.

type op struct {
	write   bool
	address uintptr
	data8   uint8
	data16  uint16
	size    int
}

type fakeMem struct {
	t   *testing.T
	ops []op
}

func opstr(o *op) string {
	t := "read"
	if o.write {
		t = "write"
	}
	d := 0
	if o.size == 8 {
		d = int(o.data8)
	}
	if o.size == 16 {
		d = int(o.data16)
	}
	return fmt.Sprintf("{%s @ %02x, %v bit = %04x}", t, o.address, o.size, d)
}

func (m *fakeMem) MustRead16(address uintptr) uint16 {
	o := m.ops[0]
	m.ops = m.ops[1:]
	if o.write || o.address != address || o.size != 16 {
		m.t.Errorf("Expected %s, got 16 bit read on %02x", opstr(&o), address)
	}
	return o.data16
}

func (m *fakeMem) MustRead8(address uintptr) uint8 {
	o := m.ops[0]
	m.ops = m.ops[1:]
	if o.write || o.address != address || o.size != 8 {
		m.t.Errorf("Expected %s, got 8 bit read on %02x", opstr(&o), address)
	}
	return o.data8
}

func (m *fakeMem) MustWrite16(address uintptr, data uint16) {
	o := m.ops[0]
	m.ops = m.ops[1:]
	if !o.write || o.address != address || o.data16 != data || o.size != 16 {
		m.t.Errorf("Expected %s, got 16 bit write %04x on %02x", opstr(&o), data, address)
	}
}

func (m *fakeMem) MustWrite8(address uintptr, data uint8) {
	o := m.ops[0]
	m.ops = m.ops[1:]
	if !o.write || o.address != address || o.data8 != data || o.size != 8 {
		m.t.Errorf("Expected %s, got 8 bit write %02x on %02x", opstr(&o), data, address)
	}
}

func (m *fakeMem) ExpectWrite16(address uintptr, data uint16) {
	m.ops = append(m.ops, op{true, address, 0, data, 16})
}

func (m *fakeMem) ExpectWrite8(address uintptr, data uint8) {
	m.ops = append(m.ops, op{true, address, data, 0, 8})
}

func (m *fakeMem) FakeRead16(address uintptr, data uint16) {
	m.ops = append(m.ops, op{false, address, 0, data, 16})
}

func (m *fakeMem) FakeRead8(address uintptr, data uint8) {
	m.ops = append(m.ops, op{false, address, data, 0, 8})
}

func (m *fakeMem) Close() {
}

func (m *fakeMem) drained() {
	if len(m.ops) != 0 {
		m.t.Errorf("Expected all operations to be consumed, %d left", len(m.ops))
	}
}

func fakeMemory(t *testing.T) *fakeMem {
	return &fakeMem{t, make([]op, 0)}
}
