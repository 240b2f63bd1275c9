// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"fmt"
	"io"

	"github.com/tarm/serial"

	"github.com/u-root/u-pwm/pkg/service/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// bridge reaches the registers through a small MCU sitting on the
// target bus, for boards where /dev/mem does not cover the PWM block.
// One request frame out, one acknowledge frame back, strictly in
// lockstep.
type bridge struct {
	s io.ReadWriteCloser
}

// OpenBridge opens the serial register bridge on the given device.
func OpenBridge(dev string, baud int) (Window, error) {
	s, err := serial.OpenPort(&serial.Config{Name: dev, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("serial.OpenPort: %v", err)
	}
	log.Infof("Opened register bridge on %s at %d baud", dev, baud)
	return &bridge{s}, nil
}

func (b *bridge) xfer(op byte, width byte, offset uintptr, data uint16) uint16 {
	f := frame{op: op, width: width, offset: uint16(offset), data: data}
	req := f.encode()
	if _, err := b.s.Write(req[:]); err != nil {
		panic(fmt.Sprintf("bridge write failed: %v", err))
	}
	var buf [frameLen]byte
	if _, err := io.ReadFull(b.s, buf[:]); err != nil {
		panic(fmt.Sprintf("bridge read failed: %v", err))
	}
	r, err := decodeFrame(buf[:])
	if err != nil {
		panic(fmt.Sprintf("bridge sent a bad frame: %v", err))
	}
	if r.op != opAck || r.width != width || r.offset != uint16(offset) {
		panic(fmt.Sprintf("bridge acknowledged the wrong access: %+v", r))
	}
	return r.data
}

func (b *bridge) MustRead16(offset uintptr) uint16 {
	return b.xfer(opRead, width16, offset, 0)
}

func (b *bridge) MustRead8(offset uintptr) uint8 {
	return uint8(b.xfer(opRead, width8, offset, 0))
}

func (b *bridge) MustWrite16(offset uintptr, data uint16) {
	if echo := b.xfer(opWrite, width16, offset, data); echo != data {
		panic(fmt.Sprintf("bridge wrote %#04x but echoed %#04x", data, echo))
	}
}

func (b *bridge) MustWrite8(offset uintptr, data uint8) {
	if echo := b.xfer(opWrite, width8, offset, uint16(data)); echo != uint16(data) {
		panic(fmt.Sprintf("bridge wrote %#02x but echoed %#04x", data, echo))
	}
}

func (b *bridge) Close() {
	b.s.Close()
}
