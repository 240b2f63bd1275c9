// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"time"
)

type Config struct {
	FrequencyTolerance    float64
	ResetPulseWidth       time.Duration
	ResetClearPolls       int
	WatchInterval         time.Duration
	FallbackSystemClockHz uint32
	BridgeBaud            int
	MetricsAddr           string
	MetricsPort           string
}

var DefaultConfig = &Config{
	// The divider factorization rarely hits the requested frequency
	// exactly since prescaler and period are both integers. Anything
	// within 1% of the request is accepted; callers that need a tighter
	// or looser fit can override this before constructing a controller.
	FrequencyTolerance: 0.01,

	// How long the counter reset bit is held before the controller starts
	// polling for it to clear. The PWM block latches the reset on the
	// rising edge so even a very short hold is enough, but keep a small
	// margin for slow register bridges.
	ResetPulseWidth: 10 * time.Microsecond,

	// How many times to poll for the reset bit to clear itself before
	// concluding that this hardware revision does not self-clear and
	// clearing it explicitly. Revisions that self-clear do so within a
	// few register clock cycles, so a handful of polls is plenty.
	ResetClearPolls: 3,

	// Sample interval for the register watcher. The PWM block has no
	// event interface besides the cycle interrupt, so the watcher polls.
	// 10ms matches the slowest waveforms anyone has cared about so far.
	WatchInterval: 10 * time.Millisecond,

	// Used when the platform's device tree does not expose a
	// clock-frequency property for the PWM reference clock.
	// 24 MHz is the reference oscillator on all supported boards.
	FallbackSystemClockHz: 24 * 1000 * 1000,

	// Baud rate for the serial register bridge. The bridge MCU firmware
	// runs the link at a fixed rate; this only needs changing for custom
	// bridge builds.
	BridgeBaud: 115200,

	// Where the watcher daemon exposes its OpenMetrics interface.
	// u-bmc had port 9370 allocated; the PWM watcher sits next to it.
	MetricsAddr: "",
	MetricsPort: "9371",
}
