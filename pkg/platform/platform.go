// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform knows where the PWM block lives on each supported
// board and how fast its reference clock runs.
package platform

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/u-root/u-pwm/pkg/service/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

type Platform struct {
	name      string
	pwmBase   uintptr
	clockPath string
}

var platforms = map[string]*Platform{
	// QEMU's virt machine with the PWM block on the platform bus.
	"qemu-virt": {
		name:      "qemu-virt",
		pwmBase:   0x09030000,
		clockPath: "/proc/device-tree/pwm@9030000/clock-frequency",
	},
	// The EVB hangs the block off the APB like its bigger siblings.
	"evb": {
		name:      "evb",
		pwmBase:   0x1e786000,
		clockPath: "/proc/device-tree/ahb/apb/pwm@1e786000/clock-frequency",
	},
}

// models maps device tree model prefixes to platform names.
var models = map[string]string{
	"linux,dummy-virt":   "qemu-virt",
	"Aspeed AST2500 EVB": "evb",
}

func Get(name string) (*Platform, error) {
	p, ok := platforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", name)
	}
	return p, nil
}

// Custom returns a platform at an explicit base address, for boards
// not in the table. It has no clock source, callers fall back to the
// configured clock rate.
func Custom(base uintptr) *Platform {
	return &Platform{name: "custom", pwmBase: base}
}

// Detect resolves the running board through the device tree model
// property.
func Detect() (*Platform, error) {
	return detect(afero.NewOsFs())
}

func detect(fs afero.Fs) (*Platform, error) {
	b, err := afero.ReadFile(fs, "/proc/device-tree/model")
	if err != nil {
		return nil, fmt.Errorf("reading device tree model: %v", err)
	}
	model := strings.TrimRight(string(b), "\x00\n")
	for prefix, name := range models {
		if strings.HasPrefix(model, prefix) {
			log.Infof("Detected platform %s (%s)", name, model)
			return platforms[name], nil
		}
	}
	return nil, fmt.Errorf("unsupported board %q", model)
}

func (p *Platform) Name() string {
	return p.name
}

func (p *Platform) PwmBase() uintptr {
	return p.pwmBase
}
