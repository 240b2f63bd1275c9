// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/u-root/u-pwm/config"
	"github.com/u-root/u-pwm/pkg/hardware/fan"
	"github.com/u-root/u-pwm/pkg/hardware/mmio"
	"github.com/u-root/u-pwm/pkg/hardware/pwm"
	"github.com/u-root/u-pwm/pkg/platform"
)

var (
	plat      = flag.String("platform", "", "Platform name instead of device tree detection")
	base      = flag.Uint64("base", 0, "Override the PWM block base address")
	sysclk    = flag.Float64("sysclk", 0, "Override the reference clock frequency in Hz")
	useFake   = flag.Bool("fake", false, "Drive an in-memory register file instead of hardware")
	bridgeDev = flag.String("bridge", "", "Reach the registers through the serial register bridge on this device")
	freq      = flag.Float64("freq", 0, "Frequency in Hz to configure, 0 leaves the shape alone")
	duty      = flag.Float64("duty", 0.5, "Duty ratio between 0.0 and 1.0 for -freq")
	once      = flag.Bool("once", false, "Start a single cycle instead of continuous operation")
	start     = flag.Bool("start", false, "Start pulse generation")
	stop      = flag.Bool("stop", false, "Stop pulse generation")
	reset     = flag.Bool("reset", false, "Reset the PWM counter")
	ack       = flag.Bool("ack", false, "Acknowledge a pending cycle interrupt")
	clockSel  = flag.String("clock", "", "Select the reference clock: internal or external")
	percent   = flag.Int("percent", -1, "Set fan duty in percent, -1 leaves it alone")
	wait      = flag.Duration("wait", 0, "Wait up to this long for cycle completion")
)

func resolvePlatform() *platform.Platform {
	if *base != 0 {
		return platform.Custom(uintptr(*base))
	}
	if *plat != "" {
		p, err := platform.Get(*plat)
		if err != nil {
			log.Fatalf("%v", err)
		}
		return p
	}
	p, err := platform.Detect()
	if err != nil {
		log.Fatalf("Platform detection failed, use -platform or -base: %v", err)
	}
	return p
}

func main() {
	flag.Parse()
	conf := config.DefaultConfig

	var c *pwm.Controller
	clk := *sysclk
	switch {
	case *useFake:
		c = pwm.NewController(mmio.NewFakeWindow(pwm.WINDOW_SIZE), conf)
	case *bridgeDev != "":
		w, err := mmio.OpenBridge(*bridgeDev, conf.BridgeBaud)
		if err != nil {
			log.Fatalf("OpenBridge: %v", err)
		}
		c = pwm.NewController(w, conf)
	default:
		p := resolvePlatform()
		var err error
		c, err = pwm.StartPwm(p, conf)
		if err != nil {
			log.Fatalf("StartPwm: %v", err)
		}
		if clk == 0 {
			hz, err := p.SystemClockHz(conf.FallbackSystemClockHz)
			if err != nil {
				log.Fatalf("SystemClockHz: %v", err)
			}
			clk = float64(hz)
		}
	}
	if clk == 0 {
		clk = float64(conf.FallbackSystemClockHz)
	}
	defer c.Close()

	if *stop {
		c.Stop()
	}

	if *clockSel != "" {
		src := pwm.CLOCK_INTERNAL
		switch *clockSel {
		case "internal":
		case "external":
			src = pwm.CLOCK_EXTERNAL
		default:
			log.Fatalf("-clock must be internal or external, not %q", *clockSel)
		}
		if err := c.SelectClockSource(src); err != nil {
			log.Fatalf("SelectClockSource: %v", err)
		}
	}

	if *freq > 0 {
		if err := c.Configure(*freq, *duty, clk); err != nil {
			log.Fatalf("Configure: %v", err)
		}
	}

	if *percent >= 0 {
		f, err := fan.StartFan(c)
		if err != nil {
			log.Fatalf("StartFan: %v", err)
		}
		if err := f.SetFanPercentage(*percent); err != nil {
			log.Fatalf("SetFanPercentage: %v", err)
		}
	}

	if *reset {
		c.ResetCounter()
	}

	if *start {
		mode := pwm.MODE_CONTINUOUS
		if *once {
			mode = pwm.MODE_ONCE
		}
		c.Start(mode)
	}

	if *ack {
		c.AcknowledgeInterrupt()
	}

	if *wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), *wait)
		defer cancel()
		if err := c.WaitCycleComplete(ctx); err != nil {
			log.Fatalf("WaitCycleComplete: %v", err)
		}
		fmt.Printf("Cycle complete\n")
	}

	c.DumpRegisters()
	fmt.Printf("Output: %v Hz at %.1f%% duty (%v)\n",
		c.Frequency(clk), c.DutyRatio()*100, c.RunState())
}
