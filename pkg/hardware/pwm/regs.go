// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"github.com/u-root/u-pwm/pkg/hardware/mmio"
)

// Register offsets inside the PWM window. Period, duty and prescaler
// are 16 bit, control is 8 bit.
const (
	PERIOD_REG    uintptr = 0x00
	DUTY_REG      uintptr = 0x04
	CONTROL_REG   uintptr = 0x08
	PRESCALER_REG uintptr = 0x0c

	// The whole block fits in one small window.
	WINDOW_SIZE = 0x10
)

// Control register bits. Bit 6 is reserved and must survive every
// read-modify-write untouched.
const (
	CTRL_CLOCK_SELECT  uint8 = 1 << 0 // 0 internal clock, 1 external
	CTRL_PWM_ENABLE    uint8 = 1 << 1 // 0 timer mode, 1 PWM mode
	CTRL_START         uint8 = 1 << 2
	CTRL_CONTINUOUS    uint8 = 1 << 3 // 0 one cycle, 1 continuous
	CTRL_OUTPUT_ENABLE uint8 = 1 << 4
	CTRL_INTERRUPT     uint8 = 1 << 5 // cycle complete, write 1 to clear
	CTRL_RESERVED      uint8 = 1 << 6
	CTRL_RESET_COUNTER uint8 = 1 << 7 // momentary
)

type ClockSource int

const (
	CLOCK_INTERNAL ClockSource = iota
	CLOCK_EXTERNAL
)

func (c ClockSource) String() string {
	if c == CLOCK_EXTERNAL {
		return "external"
	}
	return "internal"
}

type RunMode int

const (
	MODE_CONTINUOUS RunMode = iota
	MODE_ONCE
)

func (m RunMode) String() string {
	if m == MODE_ONCE {
		return "once"
	}
	return "continuous"
}

type RunState int

const (
	STOPPED RunState = iota
	RUNNING_CONTINUOUS
	RUNNING_ONCE
)

func (s RunState) String() string {
	switch s {
	case RUNNING_CONTINUOUS:
		return "running (continuous)"
	case RUNNING_ONCE:
		return "running (once)"
	}
	return "stopped"
}

// RegisterView is a typed accessor over the four PWM registers. It
// validates nothing and caches nothing, every call is a device access
// and reads always reflect live hardware state. Use a Controller for
// validated operation, a bare RegisterView is for raw register work.
type RegisterView struct {
	mem mmio.Window
}

func NewRegisterView(mem mmio.Window) *RegisterView {
	return &RegisterView{mem}
}

func (r *RegisterView) Period() uint16 {
	return r.mem.MustRead16(PERIOD_REG)
}

func (r *RegisterView) SetPeriod(v uint16) {
	r.mem.MustWrite16(PERIOD_REG, v)
}

func (r *RegisterView) Duty() uint16 {
	return r.mem.MustRead16(DUTY_REG)
}

func (r *RegisterView) SetDuty(v uint16) {
	r.mem.MustWrite16(DUTY_REG, v)
}

func (r *RegisterView) Prescaler() uint16 {
	return r.mem.MustRead16(PRESCALER_REG)
}

func (r *RegisterView) SetPrescaler(v uint16) {
	r.mem.MustWrite16(PRESCALER_REG, v)
}

func (r *RegisterView) Control() uint8 {
	return r.mem.MustRead8(CONTROL_REG)
}

func (r *RegisterView) SetControl(v uint8) {
	r.mem.MustWrite8(CONTROL_REG, v)
}

// SetControlBits sets the given control bits, preserving all others.
func (r *RegisterView) SetControlBits(mask uint8) {
	r.SetControl(r.Control() | mask)
}

// ClearControlBits clears the given control bits, preserving all
// others.
func (r *RegisterView) ClearControlBits(mask uint8) {
	r.SetControl(r.Control() & ^mask)
}

func (r *RegisterView) ControlBitSet(mask uint8) bool {
	return r.Control()&mask != 0
}
