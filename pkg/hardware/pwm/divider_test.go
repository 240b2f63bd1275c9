// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"errors"
	"math"
	"testing"
)

func TestFindDivider(t *testing.T) {
	for _, tc := range []struct {
		freq      float64
		sysclk    float64
		prescaler uint16
		period    uint16
	}{
		// Exact divisions land on prescaler 1.
		{500, 1e6, 1, 1000},
		{1000, 48e6, 1, 24000},
		{25e6, 50e6, 1, 1},
		// Divider of 65536.07 just overflows a 16 bit period and
		// falls over to prescaler 2.
		{381.47, 50e6, 2, 32768},
		// Low frequencies push the prescaler up.
		{1.688, 50e6, 226, 65533},
		{0.39, 50e6, 979, 65478},
		{60, 24e6, 4, 50000},
	} {
		prescaler, period, err := findDivider(tc.freq, tc.sysclk, 0.01)
		if err != nil {
			t.Errorf("findDivider(%v, %v): %v", tc.freq, tc.sysclk, err)
			continue
		}
		if prescaler != tc.prescaler || period != tc.period {
			t.Errorf("findDivider(%v, %v) = (%d, %d), want (%d, %d)",
				tc.freq, tc.sysclk, prescaler, period, tc.prescaler, tc.period)
		}
		actual := tc.sysclk / (2 * float64(prescaler) * float64(period))
		if e := math.Abs(actual-tc.freq) / tc.freq; e > 0.01 {
			t.Errorf("findDivider(%v, %v) lands on %v Hz, %v relative error",
				tc.freq, tc.sysclk, actual, e)
		}
	}
}

func TestFindDividerUnachievable(t *testing.T) {
	for _, tc := range []struct {
		freq   float64
		sysclk float64
	}{
		// Slower than 16 bit prescaler times 16 bit period allows.
		{0.005, 50e6},
		// Faster than half the system clock within 1% does not fit.
		{30e6, 50e6},
		{0, 50e6},
		{-5, 50e6},
		{math.NaN(), 50e6},
		{math.Inf(1), 50e6},
		{1000, 0},
		{1000, math.NaN()},
	} {
		if _, _, err := findDivider(tc.freq, tc.sysclk, 0.01); !errors.Is(err, ErrFrequencyUnachievable) {
			t.Errorf("findDivider(%v, %v) = %v, want ErrFrequencyUnachievable", tc.freq, tc.sysclk, err)
		}
	}
}

func TestFindDividerTolerance(t *testing.T) {
	// 50 MHz to 1.688 Hz misses by 2.1e-6, within even a very tight
	// tolerance but not an exact one.
	if _, _, err := findDivider(1.688, 50e6, 1e-5); err != nil {
		t.Errorf("findDivider at 1e-5 tolerance: %v", err)
	}
	if _, _, err := findDivider(1.688, 50e6, 0); !errors.Is(err, ErrFrequencyUnachievable) {
		t.Errorf("findDivider at zero tolerance = %v, want ErrFrequencyUnachievable", err)
	}
}

func TestComputeDuty(t *testing.T) {
	for _, tc := range []struct {
		ratio  float64
		period uint16
		duty   uint16
	}{
		{0, 240, 0},
		{1, 240, 240},
		{0.5, 1000, 500},
		// Rounds half away from zero.
		{0.5, 1001, 501},
		{128.0 / 240.0, 65533, 34951},
		{0.33, 480, 158},
	} {
		duty, err := computeDuty(tc.ratio, tc.period)
		if err != nil {
			t.Errorf("computeDuty(%v, %d): %v", tc.ratio, tc.period, err)
			continue
		}
		if duty != tc.duty {
			t.Errorf("computeDuty(%v, %d) = %d, want %d", tc.ratio, tc.period, duty, tc.duty)
		}
	}
}

func TestComputeDutyRejects(t *testing.T) {
	for _, ratio := range []float64{-0.001, 1.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := computeDuty(ratio, 1000); !errors.Is(err, ErrInvalidDutyRatio) {
			t.Errorf("computeDuty(%v) = %v, want ErrInvalidDutyRatio", ratio, err)
		}
	}
}
