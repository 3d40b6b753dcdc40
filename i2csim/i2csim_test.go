// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2csim

import (
	"reflect"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

// Minimal master gestures, driven pin by pin so the decoder is tested
// without the real bit-bang package.

func release(p gpio.PinIO) {
	_ = p.In(gpio.Float, gpio.NoEdge)
}

func low(p gpio.PinIO) {
	_ = p.Out(gpio.Low)
}

func start(w *Wire) {
	release(w.SDA())
	release(w.SCL())
	low(w.SDA())
	low(w.SCL())
}

func stop(w *Wire) {
	low(w.SDA())
	release(w.SCL())
	release(w.SDA())
}

func writeByte(w *Wire, b byte) bool {
	for i := 0; i < 8; i++ {
		if b&0x80 != 0 {
			release(w.SDA())
		} else {
			low(w.SDA())
		}
		release(w.SCL())
		low(w.SCL())
		b <<= 1
	}
	release(w.SDA())
	release(w.SCL())
	ack := w.SDA().Read() == gpio.Low
	low(w.SCL())
	return ack
}

func readByte(w *Wire, ack bool) byte {
	release(w.SDA())
	var b byte
	for i := 0; i < 8; i++ {
		release(w.SCL())
		b <<= 1
		if w.SDA().Read() == gpio.High {
			b |= 1
		}
		low(w.SCL())
	}
	if ack {
		low(w.SDA())
	} else {
		release(w.SDA())
	}
	release(w.SCL())
	low(w.SCL())
	return b
}

func TestDecodeCommandFrame(t *testing.T) {
	s := NewSlave(0x3C)
	w := New(s)
	start(w)
	for _, b := range []byte{0x78, 0x00, 0xA5} {
		if !writeByte(w, b) {
			t.Fatalf("byte %#02x not acknowledged", b)
		}
	}
	stop(w)

	wantEvents := []Event{
		{Type: EventStart},
		{Type: EventByte, Value: 0x78, Acked: true},
		{Type: EventByte, Value: 0x00, Acked: true},
		{Type: EventByte, Value: 0xA5, Acked: true},
		{Type: EventStop},
	}
	if got := w.Events(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events: got %v, want %v", got, wantEvents)
	}
	wantTransfers := []Transfer{{Control: 0x00, Payload: 0xA5}}
	if !reflect.DeepEqual(s.Transfers, wantTransfers) {
		t.Errorf("transfers: got %v, want %v", s.Transfers, wantTransfers)
	}
	wantFrames := [][]byte{{0x78, 0x00, 0xA5}}
	if !reflect.DeepEqual(s.Frames, wantFrames) {
		t.Errorf("frames: got %v, want %v", s.Frames, wantFrames)
	}
}

func TestAddressMismatch(t *testing.T) {
	s := NewSlave(0x3C)
	w := New(s)
	start(w)
	if writeByte(w, 0xA0) {
		t.Error("foreign address acknowledged")
	}
	// Later bytes on a mismatched transfer stay unacknowledged.
	if writeByte(w, 0x00) {
		t.Error("byte acknowledged on an ignored transfer")
	}
	stop(w)
	if len(s.Transfers) != 0 {
		t.Errorf("transfers recorded: %v", s.Transfers)
	}
}

func TestNACKAddrPolicy(t *testing.T) {
	s := NewSlave(0x3C)
	s.NACKAddr()
	w := New(s)
	start(w)
	if writeByte(w, 0x78) {
		t.Error("address acknowledged despite NACKAddr")
	}
	stop(w)
}

func TestNACKAfterPolicy(t *testing.T) {
	s := NewSlave(0x3C)
	s.NACKAfter(1)
	w := New(s)
	start(w)
	if !writeByte(w, 0x78) {
		t.Fatal("address not acknowledged")
	}
	if writeByte(w, 0x00) {
		t.Error("control byte acknowledged past the budget")
	}
	stop(w)
}

func TestReadFrame(t *testing.T) {
	s := NewSlave(0x3C)
	s.SetReadData([]byte{0x12, 0x34})
	w := New(s)
	start(w)
	if !writeByte(w, 0x79) {
		t.Fatal("read address not acknowledged")
	}
	if b := readByte(w, true); b != 0x12 {
		t.Errorf("first read byte: got %#02x, want 0x12", b)
	}
	if b := readByte(w, false); b != 0x34 {
		t.Errorf("second read byte: got %#02x, want 0x34", b)
	}
	stop(w)
}

func TestReadPastEnd(t *testing.T) {
	s := NewSlave(0x3C)
	w := New(s)
	start(w)
	writeByte(w, 0x79)
	if b := readByte(w, false); b != 0xFF {
		t.Errorf("read past end: got %#02x, want 0xFF (released line)", b)
	}
	stop(w)
}

func TestDrivenHighViolation(t *testing.T) {
	w := New(nil)
	_ = w.SDA().Out(gpio.High)
	v := w.Violations()
	if len(v) != 1 || !strings.Contains(v[0], "SIM_SDA") {
		t.Errorf("violations: %v", v)
	}
	// The simulation treats it as a release so traffic can continue.
	if w.SDA().Read() != gpio.High {
		t.Error("line low after a high drive")
	}
}

func TestIdle(t *testing.T) {
	w := New(nil)
	if !w.Idle() {
		t.Error("fresh wire not idle")
	}
	start(w)
	if w.Idle() {
		t.Error("idle during a transfer")
	}
	stop(w)
	if !w.Idle() {
		t.Error("not idle after STOP")
	}
}

func TestResetLog(t *testing.T) {
	w := New(nil)
	start(w)
	stop(w)
	w.ResetLog()
	if ev := w.Events(); len(ev) != 0 {
		t.Errorf("events after ResetLog: %v", ev)
	}
}

func TestEventString(t *testing.T) {
	cases := []struct {
		e    Event
		want string
	}{
		{Event{Type: EventStart}, "START"},
		{Event{Type: EventStop}, "STOP"},
		{Event{Type: EventByte, Value: 0x78, Acked: true}, "0x78/ACK"},
		{Event{Type: EventByte, Value: 0x78}, "0x78/NACK"},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestPinInterface(t *testing.T) {
	w := New(nil)
	p := w.SCL()
	if p.Name() != "SIM_SCL" || p.Number() != 1 {
		t.Errorf("pin identity: %s/%d", p.Name(), p.Number())
	}
	if p.Read() != gpio.High {
		t.Error("released line reads low")
	}
	if err := p.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if p.Function() != "Out/Low" {
		t.Errorf("function: %s", p.Function())
	}
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
	if p.Read() != gpio.High {
		t.Error("line still low after Halt")
	}
	if p.DefaultPull() != gpio.Float {
		t.Error("simulated pull-ups are external; DefaultPull must be Float")
	}
	if err := p.PWM(0, 0); err == nil {
		t.Error("PWM accepted")
	}
	if p.WaitForEdge(0) {
		t.Error("WaitForEdge returned true")
	}
}
