// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"testing"
)

func TestRegisterAccessWidths(t *testing.T) {
	m := fakeMemory(t)
	r := NewRegisterView(m)
	m.ExpectWrite16(PERIOD_REG, 240)
	r.SetPeriod(240)
	m.ExpectWrite16(DUTY_REG, 128)
	r.SetDuty(128)
	m.ExpectWrite16(PRESCALER_REG, 61440)
	r.SetPrescaler(61440)
	m.ExpectWrite8(CONTROL_REG, 0x1e)
	r.SetControl(0x1e)
	m.FakeRead16(PERIOD_REG, 240)
	if v := r.Period(); v != 240 {
		t.Errorf("Period() = %d, want 240", v)
	}
	m.FakeRead16(DUTY_REG, 128)
	if v := r.Duty(); v != 128 {
		t.Errorf("Duty() = %d, want 128", v)
	}
	m.FakeRead16(PRESCALER_REG, 61440)
	if v := r.Prescaler(); v != 61440 {
		t.Errorf("Prescaler() = %d, want 61440", v)
	}
	m.FakeRead8(CONTROL_REG, 0x1e)
	if v := r.Control(); v != 0x1e {
		t.Errorf("Control() = %#02x, want 0x1e", v)
	}
	m.drained()
}

func TestControlBitHelpers(t *testing.T) {
	m := fakeMemory(t)
	r := NewRegisterView(m)
	// The reserved bit rides along untouched through every helper.
	m.FakeRead8(CONTROL_REG, CTRL_RESERVED)
	m.ExpectWrite8(CONTROL_REG, CTRL_RESERVED|CTRL_START)
	r.SetControlBits(CTRL_START)
	m.FakeRead8(CONTROL_REG, CTRL_RESERVED|CTRL_START|CTRL_OUTPUT_ENABLE)
	m.ExpectWrite8(CONTROL_REG, CTRL_RESERVED|CTRL_OUTPUT_ENABLE)
	r.ClearControlBits(CTRL_START)
	m.FakeRead8(CONTROL_REG, CTRL_RESERVED)
	if !r.ControlBitSet(CTRL_RESERVED) {
		t.Error("ControlBitSet missed the reserved bit")
	}
	m.FakeRead8(CONTROL_REG, 0)
	if r.ControlBitSet(CTRL_START) {
		t.Error("ControlBitSet found a bit in an empty register")
	}
	m.drained()
}
