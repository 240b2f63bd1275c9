// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pwm drives a single channel PWM/timer block exposed through
// four memory mapped registers. A Controller validates and sequences
// every register update, a bare RegisterView gives raw unvalidated
// access.
//
// Degenerate register states are legal and never rejected: a duty of
// zero keeps the output low for the whole cycle, and a start bit set
// while the output is disabled runs the counter with no visible pulse.
// Both are observable through Snapshot and RunState.
package pwm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmhodges/clock"

	"github.com/u-root/u-pwm/config"
	"github.com/u-root/u-pwm/pkg/hardware/mmio"
	"github.com/u-root/u-pwm/pkg/service/logger"
	"github.com/u-root/u-pwm/pkg/service/metric"
)

var log = logger.LogContainer.GetSimpleLogger()

var (
	// ErrFrequencyUnachievable means no prescaler and period pair can
	// hit the requested frequency within the configured tolerance.
	ErrFrequencyUnachievable = errors.New("frequency not achievable with 16 bit prescaler and period")

	// ErrInvalidDutyRatio means the requested duty ratio is outside
	// [0.0, 1.0].
	ErrInvalidDutyRatio = errors.New("duty ratio outside [0.0, 1.0]")

	// ErrMustBeStoppedFirst means the operation needs the start bit
	// clear before it is allowed to touch the hardware.
	ErrMustBeStoppedFirst = errors.New("channel must be stopped first")
)

var (
	// Pacing for the counter reset self-clear poll.
	resetPoll = backoff.ExponentialBackOff{
		InitialInterval:     50 * time.Microsecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         5 * time.Millisecond,
		MaxElapsedTime:      0,
		Clock:               backoff.SystemClock,
	}
	// Pacing for the cycle complete interrupt wait.
	interruptPoll = backoff.ExponentialBackOff{
		InitialInterval:     500 * time.Microsecond,
		RandomizationFactor: 0.5,
		Multiplier:          2,
		MaxInterval:         100 * time.Millisecond,
		MaxElapsedTime:      0,
		Clock:               backoff.SystemClock,
	}
)

// PwmPlatform describes what a board must provide to reach its PWM
// block.
type PwmPlatform interface {
	PwmBase() uintptr
	SystemClockHz(fallbackHz uint32) (uint32, error)
}

// Controller owns one PWM block and sequences every register
// mutation. Mutators hold an exclusive lock: the control register is
// updated by read-modify-write and concurrent mutators would lose
// bits.
type Controller struct {
	regs *RegisterView
	clk  clock.Clock
	cfg  *config.Config
	m    sync.RWMutex
}

// StartPwm maps the platform's PWM block and returns a controller
// driving it.
func StartPwm(p PwmPlatform, cfg *config.Config) (*Controller, error) {
	mem, err := mmio.OpenDevMem(p.PwmBase(), WINDOW_SIZE)
	if err != nil {
		return nil, fmt.Errorf("mapping PWM block at %#x: %v", p.PwmBase(), err)
	}
	c := NewController(mem, cfg)
	metric.Gauge(metric.MetricOpts{
		Namespace: "upwm",
		Subsystem: "pwm",
		Name:      "running",
	}, nil, func() float64 {
		if c.RunState() == STOPPED {
			return 0
		}
		return 1
	})
	log.Infof("PWM block mapped at %#x", p.PwmBase())
	return c, nil
}

// NewController wires a controller over an existing register window.
// The controller owns the window from here on, nothing else may
// access it.
func NewController(mem mmio.Window, cfg *config.Config) *Controller {
	return &Controller{
		regs: NewRegisterView(mem),
		clk:  clock.New(),
		cfg:  cfg,
	}
}

func (c *Controller) Close() {
	c.regs.mem.Close()
}

func opCount(name string) {
	metric.Counter(metric.MetricOpts{
		Namespace: "upwm",
		Subsystem: "pwm",
		Name:      name,
	}, nil).Inc()
}

// Configure computes and applies the register values producing the
// requested output frequency and duty ratio from the given reference
// clock. Validation happens before the first register write, a
// rejected request leaves the hardware completely untouched. Writes
// land in register order: period, duty, prescaler. If the channel is
// running it is stopped around the update and its previous control
// state restored afterwards, so a transient shape is never latched
// into a live waveform.
func (c *Controller) Configure(frequencyHz, dutyRatio, systemClockHz float64) error {
	c.m.Lock()
	defer c.m.Unlock()
	start := time.Now()
	prescaler, period, err := findDivider(frequencyHz, systemClockHz, c.cfg.FrequencyTolerance)
	if err != nil {
		return err
	}
	duty, err := computeDuty(dutyRatio, period)
	if err != nil {
		return err
	}
	ctrl := c.regs.Control()
	running := ctrl&CTRL_START != 0
	if running {
		c.regs.SetControl(ctrl & ^(CTRL_START | CTRL_OUTPUT_ENABLE))
	}
	c.regs.SetPeriod(period)
	c.regs.SetDuty(duty)
	c.regs.SetPrescaler(prescaler)
	if running {
		c.regs.SetControl(ctrl)
	}
	if duty == 0 || duty == period {
		log.Debugf("Degenerate duty %d of %d counts, the output level is constant", duty, period)
	}
	log.Infof("Configured %v Hz from a %v Hz clock: prescaler=%d period=%d duty=%d",
		frequencyHz, systemClockHz, prescaler, period, duty)
	opCount("configure_count")
	metric.Histogram(metric.MetricOpts{
		Namespace: "upwm",
		Subsystem: "pwm",
		Name:      "configure_seconds",
	}, nil).UpdateDuration(start)
	return nil
}

// SetDutyRatio moves only the duty register, scaled against the
// currently programmed period.
func (c *Controller) SetDutyRatio(ratio float64) error {
	c.m.Lock()
	defer c.m.Unlock()
	duty, err := computeDuty(ratio, c.regs.Period())
	if err != nil {
		return err
	}
	c.regs.SetDuty(duty)
	return nil
}

// Start enables the output and starts pulse generation in the given
// mode. The output enable, PWM enable and mode bits are latched
// before the start bit is raised. Starting an already started channel
// re-asserts the same bits and changes nothing.
func (c *Controller) Start(mode RunMode) {
	c.m.Lock()
	defer c.m.Unlock()
	ctrl := c.regs.Control() | CTRL_OUTPUT_ENABLE | CTRL_PWM_ENABLE
	if mode == MODE_CONTINUOUS {
		ctrl |= CTRL_CONTINUOUS
	} else {
		ctrl &= ^CTRL_CONTINUOUS
	}
	c.regs.SetControl(ctrl)
	c.regs.SetControl(ctrl | CTRL_START)
	log.Infof("Started PWM in %v mode", mode)
	opCount("start_count")
}

// Stop disables the output and clears the start bit. Period, duty and
// prescaler keep their values, a later Start resumes the same
// waveform.
func (c *Controller) Stop() {
	c.m.Lock()
	defer c.m.Unlock()
	c.regs.ClearControlBits(CTRL_START | CTRL_OUTPUT_ENABLE)
	log.Infof("Stopped PWM")
	opCount("stop_count")
}

// ResetCounter pulses the counter reset bit. Whether the bit
// self-clears depends on the hardware revision: the controller holds
// it for the configured pulse width, polls for a self-clear, and
// clears it explicitly if the hardware does not. The bit is never
// left asserted.
func (c *Controller) ResetCounter() {
	c.m.Lock()
	defer c.m.Unlock()
	c.regs.SetControlBits(CTRL_RESET_COUNTER)
	c.clk.Sleep(c.cfg.ResetPulseWidth)
	bo := resetPoll
	bo.Reset()
	for i := 0; i < c.cfg.ResetClearPolls; i++ {
		if c.regs.Control()&CTRL_RESET_COUNTER == 0 {
			return
		}
		c.clk.Sleep(bo.NextBackOff())
	}
	// The bit did not clear itself on this hardware revision.
	c.regs.ClearControlBits(CTRL_RESET_COUNTER)
}

// SelectClockSource switches the counter between the internal and the
// external reference clock. The waveform is undefined if the source
// changes mid cycle, so this fails with ErrMustBeStoppedFirst unless
// the start bit is clear.
func (c *Controller) SelectClockSource(src ClockSource) error {
	c.m.Lock()
	defer c.m.Unlock()
	ctrl := c.regs.Control()
	if ctrl&CTRL_START != 0 {
		return fmt.Errorf("%w: clock source change while started", ErrMustBeStoppedFirst)
	}
	if src == CLOCK_EXTERNAL {
		ctrl |= CTRL_CLOCK_SELECT
	} else {
		ctrl &= ^CTRL_CLOCK_SELECT
	}
	c.regs.SetControl(ctrl)
	return nil
}

// InterruptOccurred reports whether the cycle complete flag is set.
// In once mode this is how completion of the single cycle is
// observed.
func (c *Controller) InterruptOccurred() bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.regs.ControlBitSet(CTRL_INTERRUPT)
}

// AcknowledgeInterrupt clears a pending cycle interrupt. The flag is
// write-1-to-clear, so the current control value is written back with
// the interrupt bit asserted, leaving every other bit untouched.
func (c *Controller) AcknowledgeInterrupt() {
	c.m.Lock()
	defer c.m.Unlock()
	c.regs.SetControl(c.regs.Control() | CTRL_INTERRUPT)
	opCount("interrupt_ack_count")
}

// WaitCycleComplete polls until the cycle complete flag rises or the
// context is done. Completion is observed, never forced: in once mode
// the hardware stops by itself after the final count.
func (c *Controller) WaitCycleComplete(ctx context.Context) error {
	bo := interruptPoll
	bo.Reset()
	for {
		if c.InterruptOccurred() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.clk.Sleep(bo.NextBackOff())
	}
}

// RunState decodes the run state from the live control register.
func (c *Controller) RunState() RunState {
	c.m.RLock()
	defer c.m.RUnlock()
	s := State{Control: c.regs.Control()}
	return s.RunState()
}

// Snapshot reads all four registers.
func (c *Controller) Snapshot() *State {
	c.m.RLock()
	defer c.m.RUnlock()
	return &State{
		Period:    c.regs.Period(),
		Duty:      c.regs.Duty(),
		Control:   c.regs.Control(),
		Prescaler: c.regs.Prescaler(),
	}
}

// Frequency reconstructs the output frequency the current register
// values produce from the given reference clock, 0 if the shape
// registers are unprogrammed.
func (c *Controller) Frequency(systemClockHz float64) float64 {
	s := c.Snapshot()
	if s.Period == 0 || s.Prescaler == 0 {
		return 0
	}
	return systemClockHz / (2 * float64(s.Prescaler) * float64(s.Period))
}

// DutyRatio reads back the programmed duty as a ratio of the period,
// 0 if the period is unprogrammed.
func (c *Controller) DutyRatio() float64 {
	s := c.Snapshot()
	if s.Period == 0 {
		return 0
	}
	return float64(s.Duty) / float64(s.Period)
}

func decodeControl(ctrl uint8) string {
	var parts []string
	if ctrl&CTRL_START != 0 {
		parts = append(parts, "started")
	} else {
		parts = append(parts, "stopped")
	}
	if ctrl&CTRL_PWM_ENABLE != 0 {
		parts = append(parts, "pwm mode")
	} else {
		parts = append(parts, "timer mode")
	}
	if ctrl&CTRL_CONTINUOUS != 0 {
		parts = append(parts, "continuous")
	} else {
		parts = append(parts, "once")
	}
	if ctrl&CTRL_OUTPUT_ENABLE != 0 {
		parts = append(parts, "output enabled")
	} else {
		parts = append(parts, "output disabled")
	}
	if ctrl&CTRL_INTERRUPT != 0 {
		parts = append(parts, "interrupt pending")
	}
	if ctrl&CTRL_RESET_COUNTER != 0 {
		parts = append(parts, "reset asserted")
	}
	if ctrl&CTRL_CLOCK_SELECT != 0 {
		parts = append(parts, "external clock")
	} else {
		parts = append(parts, "internal clock")
	}
	return strings.Join(parts, ", ")
}

// DumpRegisters prints the register file with decoded meanings.
func (c *Controller) DumpRegisters() {
	s := c.Snapshot()
	fmt.Printf(" PWM00: Period Register     %04x (%d counts)\n", s.Period, s.Period)
	fmt.Printf(" PWM04: Duty Register       %04x (%d counts high)\n", s.Duty, s.Duty)
	fmt.Printf(" PWM08: Control Register      %02x (%s)\n", s.Control, decodeControl(s.Control))
	fmt.Printf(" PWM0C: Prescaler Register  %04x (divide by %d)\n", s.Prescaler, s.Prescaler)
}
