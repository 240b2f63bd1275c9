// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"fmt"
)

// State is a point in time copy of the four PWM registers. It backs
// the watcher's change detection and before/after comparisons in
// tests.
type State struct {
	Period    uint16
	Duty      uint16
	Control   uint8
	Prescaler uint16
}

// RegisterChange describes one register moving between two snapshots.
type RegisterChange struct {
	Register string
	Old      uint16
	New      uint16
}

func (s *State) Equal(b *State) bool {
	return s.Period == b.Period && s.Duty == b.Duty &&
		s.Control == b.Control && s.Prescaler == b.Prescaler
}

// Diff lists the registers whose value changed from b to s.
func (s *State) Diff(b *State) []RegisterChange {
	res := make([]RegisterChange, 0)
	if s.Period != b.Period {
		res = append(res, RegisterChange{"period", b.Period, s.Period})
	}
	if s.Duty != b.Duty {
		res = append(res, RegisterChange{"duty", b.Duty, s.Duty})
	}
	if s.Control != b.Control {
		res = append(res, RegisterChange{"control", uint16(b.Control), uint16(s.Control)})
	}
	if s.Prescaler != b.Prescaler {
		res = append(res, RegisterChange{"prescaler", b.Prescaler, s.Prescaler})
	}
	return res
}

// RunState decodes the run state machine from the control bits.
func (s *State) RunState() RunState {
	if s.Control&CTRL_START == 0 {
		return STOPPED
	}
	if s.Control&CTRL_CONTINUOUS != 0 {
		return RUNNING_CONTINUOUS
	}
	return RUNNING_ONCE
}

func (s *State) InterruptPending() bool {
	return s.Control&CTRL_INTERRUPT != 0
}

func (s *State) ClockSource() ClockSource {
	if s.Control&CTRL_CLOCK_SELECT != 0 {
		return CLOCK_EXTERNAL
	}
	return CLOCK_INTERNAL
}

func (s *State) String() string {
	return fmt.Sprintf("period=%d duty=%d prescaler=%d control=%#02x (%v, %v clock)",
		s.Period, s.Duty, s.Prescaler, s.Control, s.RunState(), s.ClockSource())
}
