// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ackview renders transfer acknowledge results to the terminal
// using ANSI color codes.
//
// It stands in for the ACK status LED of a real board: one green cell per
// acknowledged transfer, red for a NACK. Useful while rehearsing a bring-up
// on a dev machine before the hardware is wired.
//
// View implements gpio.PinOut, so it plugs directly into the StatusLED slot
// of the ssd1315 driver.
package ackview

import (
	"bytes"
	"errors"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for the view.
type Opts struct {
	// W is the destination; defaults to a colorable stdout.
	W io.Writer
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
}

// View renders one colored cell per observed transfer result.
type View struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
	level   gpio.Level
}

// New returns a View writing at the console.
func New(opts *Opts) *View {
	if opts == nil {
		opts = &Opts{}
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &View{w: w, palette: *p}
}

func (v *View) String() string {
	return "AckView"
}

// Halt resets the terminal attributes so the shell is not left colored.
func (v *View) Halt() error {
	_, err := v.w.Write([]byte("\n\033[0m"))
	return err
}

// Name implements pin.Pin.
func (v *View) Name() string {
	return "ACKVIEW"
}

// Number implements pin.Pin. The view is not a real pin.
func (v *View) Number() int {
	return -1
}

// Function implements pin.Pin.
func (v *View) Function() string {
	if v.level {
		return "Out/High"
	}
	return "Out/Low"
}

// Out renders one cell: green for high (ACK), red for low (NACK).
func (v *View) Out(l gpio.Level) error {
	v.level = l
	c := color.NRGBA{R: 255, A: 255}
	if l == gpio.High {
		c = color.NRGBA{G: 255, A: 255}
	}
	v.buf.Reset()
	_, _ = io.WriteString(&v.buf, v.palette.Block(c))
	_, _ = v.buf.WriteString("\033[0m")
	_, err := v.buf.WriteTo(v.w)
	return err
}

// PWM is not supported.
func (v *View) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("ackview: PWM is not supported")
}

// Observe renders the outcome of one transfer.
func (v *View) Observe(err error) {
	_ = v.Out(gpio.Level(err == nil))
}

var _ gpio.PinOut = &View{}
