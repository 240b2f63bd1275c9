// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"fmt"
)

// The serial register bridge speaks fixed eight byte frames:
//
//	byte 0   operation, 'R' read, 'W' write, 'A' acknowledge
//	byte 1   access width in bits, 8 or 16
//	byte 2-3 register offset, big endian
//	byte 4-5 data, big endian, zero in read requests
//	byte 6-7 CRC-16 over bytes 0-5, big endian
//
// The bridge MCU answers every request with an acknowledge frame
// echoing width and offset, carrying the read or written value. The
// checksum is the CRC-16 the Klipper MCU protocol uses.
const (
	frameLen = 8

	opRead  = 'R'
	opWrite = 'W'
	opAck   = 'A'

	width8  = 8
	width16 = 16
)

type frame struct {
	op     byte
	width  byte
	offset uint16
	data   uint16
}

func (f *frame) encode() [frameLen]byte {
	var b [frameLen]byte
	b[0] = f.op
	b[1] = f.width
	b[2] = byte(f.offset >> 8)
	b[3] = byte(f.offset)
	b[4] = byte(f.data >> 8)
	b[5] = byte(f.data)
	crc := crc16(b[:6])
	b[6] = byte(crc >> 8)
	b[7] = byte(crc)
	return b
}

func decodeFrame(b []byte) (*frame, error) {
	if len(b) != frameLen {
		return nil, fmt.Errorf("frame is %d bytes, want %d", len(b), frameLen)
	}
	crc := uint16(b[6])<<8 | uint16(b[7])
	if c := crc16(b[:6]); c != crc {
		return nil, fmt.Errorf("frame carries CRC %#04x, calculated %#04x", crc, c)
	}
	return &frame{
		op:     b[0],
		width:  b[1],
		offset: uint16(b[2])<<8 | uint16(b[3]),
		data:   uint16(b[4])<<8 | uint16(b[5]),
	}, nil
}

func crc16(data []byte) uint16 {
	crc := uint16(0xffff)
	for _, b := range data {
		b = b ^ uint8(crc&0xff)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}
