// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cbb

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrNACK is returned when the slave leaves SDA released during an
// acknowledge slot. Use errors.Is to detect it under the positional
// wrapping added by Tx.
var ErrNACK = errors.New("NACK received")

// DefaultOpts is the recommended default options.
//
// 25kHz is far below what the SSD1315 tolerates, but the protocol is
// self-clocked down to DC and slow edges are the safe choice through a 10kΩ
// pull-up on a long bench wire.
var DefaultOpts = Opts{
	Freq: 25 * physic.KiloHertz,
	Pull: gpio.Float,
}

// maxFreq bounds the bus clock. Past 100kHz the rise time through the
// external pull-up dominates the half bit period and the emulated timing
// falls apart.
const maxFreq = 100 * physic.KiloHertz

// Opts defines the options for the bus.
type Opts struct {
	// Freq is the bus clock. Must be above 0 and at most 100kHz.
	Freq physic.Frequency
	// Pull is applied to both lines whenever they are released. Use
	// gpio.Float when the bus has external pull-ups (recommended), or
	// gpio.PullUp to substitute the host's internal ones.
	Pull gpio.Pull
}

// Master is an I²C master bit-banged over two open-drain GPIO lines.
//
// The lines are never driven high: a high level is obtained by releasing the
// line to its pull-up, so a slave pulling the line low never fights a
// push-pull output. Master implements i2c.Bus; the byte level primitives
// Start, Stop, WriteByte and ReadByte are exported for callers composing
// non-standard transfers and are not serialized.
//
// Clock stretching is not supported: SCL is only ever driven, never sampled.
type Master struct {
	mu   sync.Mutex
	scl  gpio.PinIO
	sda  gpio.PinIO
	pull gpio.Pull
	half time.Duration
}

// New returns a Master using scl and sda, and leaves the bus in its idle
// state, both lines released.
//
// External pull-ups of ~10kΩ are required unless Opts.Pull is gpio.PullUp.
func New(scl, sda gpio.PinIO, opts *Opts) (*Master, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if scl == nil || sda == nil {
		return nil, errors.New("i2cbb: both SCL and SDA pins are required")
	}
	if scl == sda {
		return nil, errors.New("i2cbb: SCL and SDA must be distinct pins")
	}
	f := opts.Freq
	if f == 0 {
		f = DefaultOpts.Freq
	}
	half, err := halfCycle(f)
	if err != nil {
		return nil, err
	}
	pull := opts.Pull
	if pull == gpio.PullNoChange {
		pull = gpio.Float
	}
	if pull != gpio.Float && pull != gpio.PullUp {
		return nil, fmt.Errorf("i2cbb: unsupported pull %s", pull)
	}
	m := &Master{scl: scl, sda: sda, pull: pull, half: half}
	if err := m.idle(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Master) String() string {
	return fmt.Sprintf("i2cbb(%s, %s)", m.scl, m.sda)
}

// Tx sends w to the 7-bit address addr, then reads len(r) bytes back in the
// same transfer via a repeated START.
//
// A NACK on any byte aborts the transfer: STOP is emitted immediately to
// release the bus and the returned error wraps ErrNACK, naming the byte that
// went unacknowledged. There is no retry at this layer.
func (m *Master) Tx(addr uint16, w, r []byte) error {
	if addr >= 0x80 {
		return fmt.Errorf("i2cbb: invalid 7-bit address %#02x", addr)
	}
	if len(w) == 0 && len(r) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(w) != 0 {
		if err := m.Start(); err != nil {
			return err
		}
		if err := m.WriteByte(byte(addr << 1)); err != nil {
			return m.abort(fmt.Errorf("i2cbb: address %#02x: %w", addr, err))
		}
		for i, b := range w {
			if err := m.WriteByte(b); err != nil {
				return m.abort(fmt.Errorf("i2cbb: write byte %d (%#02x): %w", i, b, err))
			}
		}
	}
	if len(r) != 0 {
		// Repeated START when a write preceded.
		if err := m.Start(); err != nil {
			return err
		}
		if err := m.WriteByte(byte(addr<<1) | 1); err != nil {
			return m.abort(fmt.Errorf("i2cbb: address %#02x (read): %w", addr, err))
		}
		for i := range r {
			b, err := m.ReadByte(i != len(r)-1)
			if err != nil {
				return m.abort(fmt.Errorf("i2cbb: read byte %d: %w", i, err))
			}
			r[i] = b
		}
	}
	return m.Stop()
}

// SetSpeed changes the bus clock; implements i2c.Bus.
func (m *Master) SetSpeed(f physic.Frequency) error {
	half, err := halfCycle(f)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.half = half
	return nil
}

// Close releases both lines; implements i2c.BusCloser.
func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle()
}

// SCL implements i2c.Pins.
func (m *Master) SCL() gpio.PinIO {
	return m.scl
}

// SDA implements i2c.Pins.
func (m *Master) SDA() gpio.PinIO {
	return m.sda
}

// Start emits a START condition: SDA falls while SCL is high, then SCL
// falls. Both lines must be released beforehand; Start re-releases them so it
// also doubles as a repeated START.
func (m *Master) Start() error {
	if err := m.sdaRelease(); err != nil {
		return err
	}
	if err := m.sclRelease(); err != nil {
		return err
	}
	m.wait()
	if err := m.sdaLow(); err != nil {
		return err
	}
	m.wait()
	if err := m.sclLow(); err != nil {
		return err
	}
	m.wait()
	return nil
}

// Stop emits a STOP condition: with SCL low, SDA is pulled low, SCL rises,
// then SDA rises. The bus is left idle, both lines released.
func (m *Master) Stop() error {
	if err := m.sdaLow(); err != nil {
		return err
	}
	m.wait()
	if err := m.sclRelease(); err != nil {
		return err
	}
	m.wait()
	if err := m.sdaRelease(); err != nil {
		return err
	}
	m.wait()
	return nil
}

// WriteByte clocks out b MSB-first and returns ErrNACK if the slave left SDA
// high during the acknowledge slot.
func (m *Master) WriteByte(b byte) error {
	for i := 0; i < 8; i++ {
		if err := m.writeBit(b&0x80 != 0); err != nil {
			return err
		}
		b <<= 1
	}
	return m.readAck()
}

// ReadByte clocks in one byte MSB-first. The master drives the acknowledge
// bit: low (ACK) when ack is true to request more data, released (NACK)
// before a STOP.
func (m *Master) ReadByte(ack bool) (byte, error) {
	if err := m.sdaRelease(); err != nil {
		return 0, err
	}
	var b byte
	for i := 0; i < 8; i++ {
		m.wait()
		if err := m.sclRelease(); err != nil {
			return 0, err
		}
		m.wait()
		b <<= 1
		if m.sda.Read() == gpio.High {
			b |= 1
		}
		if err := m.sclLow(); err != nil {
			return 0, err
		}
	}
	m.wait()
	return b, m.writeBit(!ack)
}

// writeBit sets SDA while SCL is low, lets SCL rise so the slave latches the
// bit, then pulls SCL low again. SDA is stable for the whole SCL high phase.
func (m *Master) writeBit(b bool) error {
	var err error
	if b {
		err = m.sdaRelease()
	} else {
		err = m.sdaLow()
	}
	if err != nil {
		return err
	}
	m.wait()
	if err := m.sclRelease(); err != nil {
		return err
	}
	m.wait()
	if err := m.sclLow(); err != nil {
		return err
	}
	m.wait()
	return nil
}

// readAck releases SDA so the slave may drive it, clocks the 9th bit and
// samples. ACK is SDA low.
func (m *Master) readAck() error {
	if err := m.sdaRelease(); err != nil {
		return err
	}
	m.wait()
	if err := m.sclRelease(); err != nil {
		return err
	}
	m.wait()
	ack := m.sda.Read() == gpio.Low
	if err := m.sclLow(); err != nil {
		return err
	}
	m.wait()
	if !ack {
		return ErrNACK
	}
	return nil
}

// abort releases the bus after a failed byte and surfaces the original
// error. Must be called with the transfer mutex held.
func (m *Master) abort(err error) error {
	if stopErr := m.Stop(); stopErr != nil {
		return stopErr
	}
	return err
}

// idle releases both lines and waits one bit period.
func (m *Master) idle() error {
	if err := m.sdaRelease(); err != nil {
		return err
	}
	if err := m.sclRelease(); err != nil {
		return err
	}
	m.wait()
	m.wait()
	return nil
}

func (m *Master) sclLow() error {
	return m.scl.Out(gpio.Low)
}

func (m *Master) sclRelease() error {
	return m.scl.In(m.pull, gpio.NoEdge)
}

func (m *Master) sdaLow() error {
	return m.sda.Out(gpio.Low)
}

func (m *Master) sdaRelease() error {
	return m.sda.In(m.pull, gpio.NoEdge)
}

func (m *Master) wait() {
	time.Sleep(m.half)
}

func halfCycle(f physic.Frequency) (time.Duration, error) {
	if f <= 0 {
		return 0, fmt.Errorf("i2cbb: invalid bus clock %s", f)
	}
	if f > maxFreq {
		return 0, fmt.Errorf("i2cbb: bus clock %s is above the %s limit", f, maxFreq)
	}
	return f.Period() / 2, nil
}

var _ i2c.Bus = &Master{}
var _ i2c.BusCloser = &Master{}
var _ i2c.Pins = &Master{}
var _ fmt.Stringer = &Master{}
