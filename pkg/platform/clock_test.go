// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"testing"

	"github.com/spf13/afero"
)

func TestSystemClockHz(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/proc/device-tree/pwm@9030000/clock-frequency"
	// 50 MHz as a big endian u32 cell.
	if err := afero.WriteFile(fs, path, []byte{0x02, 0xfa, 0xf0, 0x80}, 0444); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	hz, err := systemClockHz(fs, path, 0)
	if err != nil {
		t.Fatalf("systemClockHz: %v", err)
	}
	if hz != 50000000 {
		t.Errorf("systemClockHz = %d, want 50000000", hz)
	}
}

func TestSystemClockHz64BitCell(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/proc/device-tree/pwm@9030000/clock-frequency"
	// 24 MHz as a big endian u64 cell.
	if err := afero.WriteFile(fs, path, []byte{0, 0, 0, 0, 0x01, 0x6e, 0x36, 0x00}, 0444); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	hz, err := systemClockHz(fs, path, 0)
	if err != nil {
		t.Fatalf("systemClockHz: %v", err)
	}
	if hz != 24000000 {
		t.Errorf("systemClockHz = %d, want 24000000", hz)
	}
}

func TestSystemClockHzMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/proc/device-tree/pwm@9030000/clock-frequency"
	afero.WriteFile(fs, path, []byte{1, 2, 3}, 0444)
	if _, err := systemClockHz(fs, path, 0); err == nil {
		t.Error("a 3 byte cell was accepted")
	}
	afero.WriteFile(fs, path, []byte{0, 0, 0, 1, 0, 0, 0, 0}, 0444)
	if _, err := systemClockHz(fs, path, 0); err == nil {
		t.Error("an overflowing u64 cell was accepted")
	}
}

func TestSystemClockHzFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	hz, err := systemClockHz(fs, "/proc/device-tree/missing", 24000000)
	if err != nil {
		t.Fatalf("systemClockHz with fallback: %v", err)
	}
	if hz != 24000000 {
		t.Errorf("systemClockHz = %d, want the 24000000 fallback", hz)
	}
	if _, err := systemClockHz(fs, "/proc/device-tree/missing", 0); err == nil {
		t.Error("a missing property with no fallback was accepted")
	}
	// A platform with no clock path at all still gets the fallback.
	hz, err = systemClockHz(fs, "", 24000000)
	if err != nil || hz != 24000000 {
		t.Errorf("systemClockHz with no path = %d, %v", hz, err)
	}
	if _, err := systemClockHz(fs, "", 0); err == nil {
		t.Error("no path and no fallback was accepted")
	}
}
