// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// Command codes, fixed by the panel. See the SSD1315 datasheet, command
// table.
const (
	_CHARGEPUMP          = 0x8D
	_CHARGEPUMPON        = 0x14 // enable during display on
	_DISPLAYALLON        = 0xA5 // every pixel lit, RAM ignored
	_DISPLAYALLON_RESUME = 0xA4 // back to RAM-driven output
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
)

// Control bytes prefixing every transfer.
const (
	i2cCmd  = 0x00 // payload is a command
	i2cData = 0x40 // payload is display data
)

// Settling times. Generous upper bounds on the panel's recovery specs;
// absolute accuracy is irrelevant.
const (
	resetHold        = 50 * time.Millisecond
	resetSettle      = 50 * time.Millisecond
	chargePumpSettle = 100 * time.Millisecond
	displayOnSettle  = 150 * time.Millisecond
)

// DefaultOpts is the recommended default options: internal charge pump,
// address 0x3C.
var DefaultOpts = Opts{
	Addr:       0x3C,
	ChargePump: true,
	ExtVccWait: 8 * time.Second,
}

// Opts defines the options for the device.
type Opts struct {
	// Addr is the I²C address of the panel, 0x3C or 0x3D depending on the
	// SA0 strap.
	Addr uint16
	// RST is the reset pin, if wired. It is pulsed low before the first
	// command. Without it the panel relies on its power-on reset.
	RST gpio.PinIO
	// StatusLED, if set, is lit after every acknowledged transfer and
	// extinguished after a NACK. Diagnostic scaffolding for headless
	// bring-up.
	StatusLED gpio.PinOut
	// ChargePump enables the internal charge pump during init. When false
	// the panel expects an external VCC rail, and init pauses ExtVccWait
	// for it to come up.
	ChargePump bool
	// ExtVccWait is how long init waits for the external rail when
	// ChargePump is false. Sized for a human flipping a bench supply.
	ExtVccWait time.Duration
}

// Dev is an open handle to the display controller.
type Dev struct {
	c   conn.Conn
	rst gpio.PinIO
	led gpio.PinOut
}

// NewI2C initializes an SSD1315 on bus and runs the bring-up sequence:
// reset pulse, power path, display on.
//
// Unlike most drivers, a NACK during init does not stop the sequence: the
// remaining commands are still issued so that the status LED (and the panel
// itself) show how far the bus works. The device is returned alongside the
// first error observed, if any.
func NewI2C(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultOpts.Addr
	}
	if addr != 0x3C && addr != 0x3D {
		return nil, fmt.Errorf("ssd1315: invalid address %#02x", addr)
	}
	d := &Dev{
		c:   &i2c.Dev{Bus: bus, Addr: addr},
		rst: opts.RST,
		led: opts.StatusLED,
	}
	return d, d.init(opts)
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1315.Dev{%s}", d.c)
}

// Cmd sends one command byte in its own transfer.
func (d *Dev) Cmd(c byte) error {
	return d.write(i2cCmd, c)
}

// Data sends one display data byte in its own transfer. The bring-up
// sequence never writes data; this completes the controller's protocol for
// callers poking at RAM.
func (d *Dev) Data(b byte) error {
	return d.write(i2cData, b)
}

// AllOn lights every pixel regardless of RAM content. This is the test
// pattern proving the panel is powered and listening.
func (d *Dev) AllOn() error {
	return d.Cmd(_DISPLAYALLON)
}

// Resume returns the panel to RAM-driven output.
func (d *Dev) Resume() error {
	return d.Cmd(_DISPLAYALLON_RESUME)
}

// Reset pulses the RST pin low and lets the controller recover. It is a
// no-op when no reset pin is wired.
func (d *Dev) Reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetHold)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(resetSettle)
	return nil
}

// Halt turns the display off; implements conn.Resource. Any later command
// wakes the panel again.
func (d *Dev) Halt() error {
	return d.Cmd(_DISPLAYOFF)
}

// init is the power-up sequence: reset pulse, VCC path, display on. Errors
// do not short-circuit; the first one is returned once the sequence ran to
// the end.
func (d *Dev) init(opts *Opts) error {
	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}
	keep(d.Reset())
	if opts.ChargePump {
		keep(d.Cmd(_CHARGEPUMP))
		keep(d.Cmd(_CHARGEPUMPON))
		time.Sleep(chargePumpSettle)
	} else {
		wait := opts.ExtVccWait
		if wait == 0 {
			wait = DefaultOpts.ExtVccWait
		}
		time.Sleep(wait)
	}
	keep(d.Cmd(_DISPLAYON))
	time.Sleep(displayOnSettle)
	return first
}

// write emits one three-byte transfer and mirrors its outcome on the status
// LED: lit on ACK, dark on NACK. Only the LED pin is touched.
func (d *Dev) write(control, payload byte) error {
	err := d.c.Tx([]byte{control, payload}, nil)
	if d.led != nil {
		_ = d.led.Out(gpio.Level(err == nil))
	}
	return err
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
