// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fan drives a fan from the PWM block's duty cycle. The
// waveform shape is configured once at bring-up, fan speed only ever
// moves the duty register.
package fan

import (
	"fmt"
	"math"

	"github.com/u-root/u-pwm/pkg/service/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// PwmController is the slice of the PWM controller the fan system
// needs.
type PwmController interface {
	SetDutyRatio(ratio float64) error
	DutyRatio() float64
}

type FanSystem struct {
	c PwmController
}

func StartFan(c PwmController) (*FanSystem, error) {
	return &FanSystem{c}, nil
}

func (f *FanSystem) SetFanPercentage(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("fan percentage %d outside 0-100", pct)
	}
	log.Infof("Setting fan duty to %d%%", pct)
	return f.c.SetDutyRatio(float64(pct) / 100.0)
}

func (f *FanSystem) ReadFanPercentage() int {
	return int(math.Round(f.c.DutyRatio() * 100.0))
}
