// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/afero"
)

// SystemClockHz reads the PWM reference clock rate from the device
// tree. Cells are big endian and clock-frequency is a u32 or a u64
// depending on the binding. fallbackHz is used when the property is
// missing, 0 means no fallback.
func (p *Platform) SystemClockHz(fallbackHz uint32) (uint32, error) {
	return systemClockHz(afero.NewOsFs(), p.clockPath, fallbackHz)
}

func systemClockHz(fs afero.Fs, path string, fallbackHz uint32) (uint32, error) {
	if path == "" {
		if fallbackHz != 0 {
			return fallbackHz, nil
		}
		return 0, fmt.Errorf("no clock-frequency source for this platform")
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if fallbackHz != 0 {
			log.Warnf("No %s, assuming %d Hz", path, fallbackHz)
			return fallbackHz, nil
		}
		return 0, err
	}
	switch len(b) {
	case 4:
		return binary.BigEndian.Uint32(b), nil
	case 8:
		v := binary.BigEndian.Uint64(b)
		if v > 0xffffffff {
			return 0, fmt.Errorf("clock-frequency %d overflows 32 bits", v)
		}
		return uint32(v), nil
	}
	return 0, fmt.Errorf("clock-frequency is %d bytes, want 4 or 8", len(b))
}
