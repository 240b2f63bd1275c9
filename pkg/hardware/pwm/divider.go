// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"fmt"
	"math"
)

// The counter ticks at systemClockHz / prescaler and one output cycle
// is two period counts, so the output runs at
//
//	frequencyHz = systemClockHz / (2 * prescaler * period)
//
// findDivider factors the combined divider systemClockHz/(2*frequencyHz)
// into prescaler*period with both in [1, 0xffff]. The walk starts at
// the smallest prescaler because that leaves the largest period, and
// with it the finest duty resolution. The first factorization whose
// reconstructed frequency lands within tolerance wins.
func findDivider(frequencyHz, systemClockHz, tolerance float64) (uint16, uint16, error) {
	if frequencyHz <= 0 || math.IsNaN(frequencyHz) || math.IsInf(frequencyHz, 0) {
		return 0, 0, fmt.Errorf("%w: %v Hz", ErrFrequencyUnachievable, frequencyHz)
	}
	if systemClockHz <= 0 || math.IsNaN(systemClockHz) || math.IsInf(systemClockHz, 0) {
		return 0, 0, fmt.Errorf("%w: %v Hz system clock", ErrFrequencyUnachievable, systemClockHz)
	}
	divider := systemClockHz / (2 * frequencyHz)
	for prescaler := 1; prescaler <= 0xffff; prescaler++ {
		period := math.Round(divider / float64(prescaler))
		if period > 0xffff {
			continue
		}
		if period < 1 {
			period = 1
		}
		actual := systemClockHz / (2 * float64(prescaler) * period)
		if math.Abs(actual-frequencyHz)/frequencyHz <= tolerance {
			return uint16(prescaler), uint16(period), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %v Hz from a %v Hz clock", ErrFrequencyUnachievable, frequencyHz, systemClockHz)
}

// computeDuty converts a duty ratio into period counts, rounding to
// the nearest count and clamping to the period.
func computeDuty(ratio float64, period uint16) (uint16, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDutyRatio, ratio)
	}
	duty := math.Round(ratio * float64(period))
	if duty > float64(period) {
		duty = float64(period)
	}
	return uint16(duty), nil
}
