// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwmwatcher

import (
	"github.com/u-root/u-pwm/pkg/hardware/pwm"
)

type stdoutLog struct {
	p *pwm.State
}

func newStdoutLog(p *pwm.State) *stdoutLog {
	log.Infof("PWM initial state: %v", p)
	return &stdoutLog{p}
}

func (l *stdoutLog) Log(s *pwm.State) {
	if !s.Equal(l.p) {
		for _, ch := range s.Diff(l.p) {
			log.Infof("%-9s %#04x -> %#04x", ch.Register, ch.Old, ch.New)
		}
		if rs := s.RunState(); rs != l.p.RunState() {
			log.Infof("PWM is now %v", rs)
		}
		if s.InterruptPending() && !l.p.InterruptPending() {
			log.Infof("Cycle complete interrupt asserted")
		}
	}
	l.p = s
}

func (l *stdoutLog) Close() {
}
