// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwmwatcher

import (
	"sync"

	"github.com/u-root/u-pwm/pkg/hardware/pwm"
	"github.com/u-root/u-pwm/pkg/service/metric"
)

// The gauges read whatever snapshot the watcher saw last. They are
// registered once per process, a second watcher feeds the same
// gauges.
type stateHolder struct {
	m sync.Mutex
	s *pwm.State
}

var (
	latest     stateHolder
	gaugesOnce sync.Once
)

type metricLog struct {
	p *pwm.State
}

func newMetricLog(p *pwm.State) *metricLog {
	latest.m.Lock()
	latest.s = p
	latest.m.Unlock()
	gaugesOnce.Do(registerGauges)
	return &metricLog{p}
}

func gauge(name string, f func(s *pwm.State) float64) {
	metric.Gauge(metric.MetricOpts{
		Namespace: "upwm",
		Subsystem: "watcher",
		Name:      name,
	}, nil, func() float64 {
		latest.m.Lock()
		defer latest.m.Unlock()
		return f(latest.s)
	})
}

func registerGauges() {
	gauge("period_counts", func(s *pwm.State) float64 {
		return float64(s.Period)
	})
	gauge("duty_counts", func(s *pwm.State) float64 {
		return float64(s.Duty)
	})
	gauge("prescaler", func(s *pwm.State) float64 {
		return float64(s.Prescaler)
	})
	gauge("running", func(s *pwm.State) float64 {
		if s.RunState() == pwm.STOPPED {
			return 0
		}
		return 1
	})
	gauge("interrupt_pending", func(s *pwm.State) float64 {
		if s.InterruptPending() {
			return 1
		}
		return 0
	})
}

func (m *metricLog) Log(s *pwm.State) {
	if s.InterruptPending() && !m.p.InterruptPending() {
		metric.Counter(metric.MetricOpts{
			Namespace: "upwm",
			Subsystem: "watcher",
			Name:      "interrupt_count",
		}, nil).Inc()
	}
	latest.m.Lock()
	latest.s = s
	latest.m.Unlock()
	m.p = s
}

func (m *metricLog) Close() {
}
