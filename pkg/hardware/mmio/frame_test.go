// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"bytes"
	"testing"
)

func TestCrc16(t *testing.T) {
	// Standard check value for this CRC.
	if c := crc16([]byte("123456789")); c != 0x6f91 {
		t.Errorf("crc16 check value is %#04x, want 0x6f91", c)
	}
	if c := crc16([]byte{}); c != 0xffff {
		t.Errorf("crc16 of nothing is %#04x, want 0xffff", c)
	}
}

func TestEncodeFrame(t *testing.T) {
	for _, tc := range []struct {
		f    frame
		want []byte
	}{
		{frame{opWrite, width16, 0x0000, 240}, []byte{0x57, 0x10, 0x00, 0x00, 0x00, 0xf0, 0x17, 0x0f}},
		{frame{opRead, width8, 0x0008, 0}, []byte{0x52, 0x08, 0x00, 0x08, 0x00, 0x00, 0xdc, 0xa5}},
		{frame{opAck, width8, 0x0008, 0x34}, []byte{0x41, 0x08, 0x00, 0x08, 0x00, 0x34, 0xe5, 0xcf}},
	} {
		b := tc.f.encode()
		if !bytes.Equal(b[:], tc.want) {
			t.Errorf("encode(%+v) = % x, want % x", tc.f, b, tc.want)
		}
	}
}

func TestDecodeFrame(t *testing.T) {
	f, err := decodeFrame([]byte{0x41, 0x08, 0x00, 0x08, 0x00, 0x34, 0xe5, 0xcf})
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if f.op != opAck || f.width != width8 || f.offset != 0x0008 || f.data != 0x34 {
		t.Errorf("decodeFrame = %+v", f)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	for _, f := range []frame{
		{opRead, width16, 0x0000, 0},
		{opWrite, width16, 0x0004, 0xffff},
		{opWrite, width8, 0x0008, 0x80},
		{opAck, width16, 0x000c, 0xf000},
	} {
		b := f.encode()
		g, err := decodeFrame(b[:])
		if err != nil {
			t.Fatalf("decodeFrame(% x): %v", b, err)
		}
		if *g != f {
			t.Errorf("round trip changed %+v into %+v", f, g)
		}
	}
}

func TestDecodeFrameRejectsCorruption(t *testing.T) {
	good := frame{opAck, width16, 0x000c, 61440}
	b := good.encode()
	for i := range b {
		c := b
		c[i] ^= 0x01
		if _, err := decodeFrame(c[:]); err == nil {
			t.Errorf("decodeFrame accepted a frame with byte %d corrupted", i)
		}
	}
	if _, err := decodeFrame(b[:7]); err == nil {
		t.Error("decodeFrame accepted a short frame")
	}
}
