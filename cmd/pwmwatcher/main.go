// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/u-root/u-pwm/config"
	"github.com/u-root/u-pwm/pkg/hardware/mmio"
	"github.com/u-root/u-pwm/pkg/hardware/pwm"
	"github.com/u-root/u-pwm/pkg/platform"
	"github.com/u-root/u-pwm/pkg/pwmwatcher"
	"github.com/u-root/u-pwm/pkg/service/metric"
	"github.com/u-root/u-pwm/pkg/service/web"
)

var (
	plat      = flag.String("platform", "", "Platform name instead of device tree detection")
	base      = flag.Uint64("base", 0, "Override the PWM block base address")
	useFake   = flag.Bool("fake", false, "Watch an in-memory register file instead of hardware")
	bridgeDev = flag.String("bridge", "", "Reach the registers through the serial register bridge on this device")
	interval  = flag.Duration("interval", 0, "Sample interval, 0 for the configured default")
	autoAck   = flag.Bool("ack", false, "Acknowledge cycle interrupts as they are observed")
)

func openController(conf *config.Config) *pwm.Controller {
	if *useFake {
		return pwm.NewController(mmio.NewFakeWindow(pwm.WINDOW_SIZE), conf)
	}
	if *bridgeDev != "" {
		w, err := mmio.OpenBridge(*bridgeDev, conf.BridgeBaud)
		if err != nil {
			log.Fatalf("OpenBridge: %v", err)
		}
		return pwm.NewController(w, conf)
	}
	var p *platform.Platform
	var err error
	switch {
	case *base != 0:
		p = platform.Custom(uintptr(*base))
	case *plat != "":
		p, err = platform.Get(*plat)
	default:
		p, err = platform.Detect()
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	c, err := pwm.StartPwm(p, conf)
	if err != nil {
		log.Fatalf("StartPwm: %v", err)
	}
	return c
}

func main() {
	flag.Parse()
	conf := config.DefaultConfig

	c := openController(conf)
	defer c.Close()

	iv := *interval
	if iv == 0 {
		iv = conf.WatchInterval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer cancel()

	w := web.NewWebserver()
	metric.StartMetrics(w.Mux)
	if err := w.SetServer(conf.MetricsAddr, conf.MetricsPort); err != nil {
		log.Fatalf("SetServer: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return w.Close()
	})
	g.Go(func() error {
		return w.Serve()
	})
	g.Go(func() error {
		return pwmwatcher.Pwmwatcher(ctx, c, iv, *autoAck, true)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%v", err)
	}
}
