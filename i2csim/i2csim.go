// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2csim simulates a two-line open-drain I²C bus with an attached
// SSD1315-style slave.
//
// It stands in for a logic analyzer and a slave emulator on a bench: the
// fake pins behave like real open-drain lines with pull-ups, the wire
// decodes the edge stream into START, STOP and byte events, and the slave
// acknowledges (or refuses to) according to a programmable policy.
//
// Useful to rehearse a full display bring-up before the hardware arrives,
// and to property-test a bit-banging master without GPIOs.
package i2csim

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// EventType discriminates decoded bus events.
type EventType int

// Decoded bus event kinds.
const (
	EventStart EventType = iota
	EventStop
	EventByte
)

// Event is one decoded bus event. Value and Acked are only meaningful for
// EventByte; for bytes read by the master, Acked reflects the master's
// acknowledge.
type Event struct {
	Type  EventType
	Value byte
	Acked bool
}

func (e Event) String() string {
	switch e.Type {
	case EventStart:
		return "START"
	case EventStop:
		return "STOP"
	case EventByte:
		if e.Acked {
			return fmt.Sprintf("0x%02X/ACK", e.Value)
		}
		return fmt.Sprintf("0x%02X/NACK", e.Value)
	}
	return "INVALID"
}

// Wire is a simulated SCL/SDA pair. Both lines are pulled up; they read high
// unless the master pin or the slave drives them low.
type Wire struct {
	mu         sync.Mutex
	slave      *Slave
	sclDriven  bool // master drives SCL low
	sdaDriven  bool // master drives SDA low
	events     []Event
	violations []string
	scl        *Pin
	sda        *Pin
}

// New returns a Wire with s attached. A nil s attaches a slave at 0x3C that
// acknowledges everything.
func New(s *Slave) *Wire {
	if s == nil {
		s = NewSlave(0x3C)
	}
	w := &Wire{slave: s}
	w.scl = &Pin{w: w, name: "SIM_SCL", num: 1, pull: gpio.Float}
	w.sda = &Pin{w: w, name: "SIM_SDA", num: 2, sda: true, pull: gpio.Float}
	s.w = w
	return w
}

// SCL returns the clock line pin.
func (w *Wire) SCL() gpio.PinIO {
	return w.scl
}

// SDA returns the data line pin.
func (w *Wire) SDA() gpio.PinIO {
	return w.sda
}

// Slave returns the attached slave.
func (w *Wire) Slave() *Slave {
	return w.slave
}

// Events returns a copy of the decoded event log.
func (w *Wire) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

// Violations returns protocol violations observed so far, like the master
// actively driving a line high.
func (w *Wire) Violations() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.violations))
	copy(out, w.violations)
	return out
}

// Idle reports whether both lines currently read high.
func (w *Wire) Idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sclLevel() == gpio.High && w.sdaLevel() == gpio.High
}

// ResetLog discards the event and violation logs. Line and slave state are
// untouched, so back-to-back traffic can be compared run by run.
func (w *Wire) ResetLog() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = nil
	w.violations = nil
}

func (w *Wire) sclLevel() gpio.Level {
	return gpio.Level(!w.sclDriven)
}

func (w *Wire) sdaLevel() gpio.Level {
	return gpio.Level(!(w.sdaDriven || w.slave.drivesSDA))
}

// setDriven applies a master-side drive change and runs edge detection.
// Called with mu held.
func (w *Wire) setDriven(sdaLine, driven bool) {
	if sdaLine {
		old := w.sdaLevel()
		w.sdaDriven = driven
		if l := w.sdaLevel(); l != old {
			w.sdaEdge(l)
		}
		return
	}
	old := w.sclLevel()
	w.sclDriven = driven
	if l := w.sclLevel(); l != old {
		w.sclEdge(l)
	}
}

// sdaEdge decodes START and STOP: SDA moving while SCL is high.
func (w *Wire) sdaEdge(l gpio.Level) {
	if w.sclLevel() != gpio.High {
		return
	}
	if l == gpio.Low {
		w.events = append(w.events, Event{Type: EventStart})
		w.slave.start()
	} else {
		w.events = append(w.events, Event{Type: EventStop})
		w.slave.stop()
	}
}

func (w *Wire) sclEdge(l gpio.Level) {
	if l == gpio.High {
		w.slave.sclRose(w.sdaLevel())
	} else {
		w.slave.sclFell()
	}
}

// Pin is one side of a simulated open-drain line. It implements gpio.PinIO.
type Pin struct {
	w    *Wire
	name string
	num  int
	sda  bool
	pull gpio.Pull
}

func (p *Pin) String() string {
	return p.name
}

// Halt releases the line.
func (p *Pin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.num
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	driven := p.w.sclDriven
	if p.sda {
		driven = p.w.sdaDriven
	}
	if driven {
		return "Out/Low"
	}
	return "In/High"
}

// In releases the line to the pull-up.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.w.setDriven(p.sda, false)
	return nil
}

// Read returns the resolved line level.
func (p *Pin) Read() gpio.Level {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	if p.sda {
		return p.w.sdaLevel()
	}
	return p.w.sclLevel()
}

// WaitForEdge is not supported and returns immediately.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull returns the last pull applied by In.
func (p *Pin) Pull() gpio.Pull {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return p.pull
}

// DefaultPull returns gpio.Float; the simulated pull-ups are external.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out drives the line. Driving high on an open-drain bus is a wiring fault;
// it is recorded as a violation and treated as a release so the simulation
// can continue.
func (p *Pin) Out(l gpio.Level) error {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	if l == gpio.High {
		p.w.violations = append(p.w.violations, fmt.Sprintf("%s driven high against the pull-up", p.name))
		p.w.setDriven(p.sda, false)
		return nil
	}
	p.w.setDriven(p.sda, true)
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("i2csim: PWM is not supported")
}

var _ gpio.PinIO = &Pin{}
