// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pwmwatcher samples the PWM registers and reports every
// change: register values, run state transitions and cycle
// interrupts. The block has no eventing besides the interrupt flag,
// so the watcher polls.
package pwmwatcher

import (
	"context"
	"time"

	"github.com/jmhodges/clock"

	"github.com/u-root/u-pwm/pkg/hardware/pwm"
	"github.com/u-root/u-pwm/pkg/service/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// Controller is the part of the PWM controller the watcher drives.
type Controller interface {
	Snapshot() *pwm.State
	AcknowledgeInterrupt()
}

type outputer interface {
	Close()
	Log(s *pwm.State)
}

// Pwmwatcher samples the controller until the context is done. With
// autoAck every observed cycle interrupt is acknowledged, which turns
// the level flag into edges the outputs can count.
func Pwmwatcher(ctx context.Context, c Controller, interval time.Duration, autoAck bool, withMetrics bool) error {
	clk := clock.New()
	p := c.Snapshot()

	outs := []outputer{newStdoutLog(p)}
	if withMetrics {
		outs = append(outs, newMetricLog(p))
	}
	defer func() {
		for _, o := range outs {
			o.Close()
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := c.Snapshot()
		for _, o := range outs {
			o.Log(s)
		}
		if autoAck && s.InterruptPending() {
			c.AcknowledgeInterrupt()
			log.Infof("Acknowledged cycle interrupt")
		}
		clk.Sleep(interval)
	}
}
