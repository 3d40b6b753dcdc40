// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2csim

import "periph.io/x/conn/v3/gpio"

// Transfer is one fully acknowledged command or data transfer: address,
// control byte, one payload byte between a START and a STOP.
type Transfer struct {
	Control byte
	Payload byte
}

// Slave models an SSD1315-style write-mostly peripheral on the wire.
//
// It latches data bits on SCL rising edges, drives its acknowledge during
// the 9th clock and records traffic. Reads are served from the buffer set
// with SetReadData; the real controller serves its status register the same
// way.
type Slave struct {
	w         *Wire
	addr      uint16
	nackAddr  bool
	ackBudget int // bytes acknowledged per transfer; -1 is unlimited
	readData  []byte

	// Wire state.
	drivesSDA bool
	bit       int // rising edges seen for the current byte: 0-7 data, 8 ack
	shift     byte
	byteIdx   int // 0 is the address byte
	acked     int
	lastAck   bool
	reading   bool
	moreReads bool
	readPos   int
	lastRead  byte
	ignoring  bool
	active    bool
	frame     []byte
	frameAck  bool

	// Frames holds the raw bytes of every transfer seen, acknowledged or
	// not. Transfers holds only complete, fully acknowledged 3-byte write
	// transfers, decoded.
	Frames    [][]byte
	Transfers []Transfer
}

// NewSlave returns a Slave answering at the given 7-bit address that
// acknowledges every byte.
func NewSlave(addr uint16) *Slave {
	return &Slave{addr: addr & 0x7f, ackBudget: -1}
}

// NACKAddr makes the slave refuse its own address, as if absent or
// unpowered.
func (s *Slave) NACKAddr() {
	s.nackAddr = true
}

// NACKAfter makes the slave acknowledge only the first n bytes of each
// transfer. The address byte counts as byte 0, so NACKAfter(1) acknowledges
// the address and refuses the control byte.
func (s *Slave) NACKAfter(n int) {
	s.ackBudget = n
}

// SetReadData sets the bytes served on read transfers. Past the end the
// slave releases SDA, which reads as 0xFF.
func (s *Slave) SetReadData(b []byte) {
	s.readData = b
}

// start resets the byte machinery. A repeated START lands here too.
func (s *Slave) start() {
	if s.active && len(s.frame) != 0 {
		s.finishFrame()
	}
	s.active = true
	s.bit = 0
	s.shift = 0
	s.byteIdx = 0
	s.acked = 0
	s.reading = false
	s.moreReads = false
	s.readPos = 0
	s.ignoring = false
	s.drivesSDA = false
	s.frame = nil
	s.frameAck = true
}

func (s *Slave) stop() {
	if s.active {
		s.finishFrame()
	}
	s.active = false
	s.drivesSDA = false
}

func (s *Slave) finishFrame() {
	s.Frames = append(s.Frames, s.frame)
	if s.frameAck && !s.reading && len(s.frame) == 3 {
		s.Transfers = append(s.Transfers, Transfer{Control: s.frame[1], Payload: s.frame[2]})
	}
	s.frame = nil
	s.frameAck = true
}

// sclRose handles a clock rising edge; sda is the resolved data level at
// that instant. Called with the wire lock held.
func (s *Slave) sclRose(sda gpio.Level) {
	if !s.active {
		return
	}
	if s.bit < 8 {
		if !s.isReadByte() {
			s.shift <<= 1
			if sda == gpio.High {
				s.shift |= 1
			}
		}
		s.bit++
		return
	}
	// Acknowledge slot.
	if s.isReadByte() {
		s.moreReads = sda == gpio.Low
		s.w.events = append(s.w.events, Event{Type: EventByte, Value: s.lastRead, Acked: s.moreReads})
	} else {
		s.w.events = append(s.w.events, Event{Type: EventByte, Value: s.shift, Acked: s.drivesSDA})
	}
	s.bit++
}

// sclFell handles a clock falling edge. The slave only changes its SDA drive
// here, while the clock is low. Called with the wire lock held.
func (s *Slave) sclFell() {
	if !s.active {
		return
	}
	switch {
	case s.bit < 8:
		if s.isReadByte() {
			s.driveReadBit()
		}
	case s.bit == 8:
		// Data bits done; assert or withhold the acknowledge.
		if s.isReadByte() {
			s.drivesSDA = false // the master drives this slot
		} else {
			s.lastAck = s.decideAck()
			s.drivesSDA = s.lastAck
		}
	default:
		s.finishByte()
	}
}

func (s *Slave) finishByte() {
	if s.isReadByte() {
		s.readPos++
	} else {
		s.frame = append(s.frame, s.shift)
		if !s.lastAck {
			s.frameAck = false
		}
		s.drivesSDA = false
	}
	s.byteIdx++
	s.bit = 0
	s.shift = 0
	if s.isReadByte() && s.moreReads {
		s.driveReadBit()
	}
}

func (s *Slave) decideAck() bool {
	if s.ignoring {
		return false
	}
	if s.byteIdx == 0 {
		if s.shift>>1 != byte(s.addr) || s.nackAddr {
			s.ignoring = true
			return false
		}
		if s.shift&1 == 1 {
			s.reading = true
			// Arm the first sourced byte; cleared if the master NACKs.
			s.moreReads = true
		}
	}
	if s.ackBudget >= 0 && s.acked >= s.ackBudget {
		return false
	}
	s.acked++
	return true
}

// isReadByte reports whether the byte in flight is sourced by the slave.
// The address byte is always master-sourced.
func (s *Slave) isReadByte() bool {
	return s.reading && s.byteIdx > 0
}

// driveReadBit sets the SDA drive for the data bit the master will sample on
// the next rising edge.
func (s *Slave) driveReadBit() {
	b := byte(0xFF)
	if s.readPos < len(s.readData) {
		b = s.readData[s.readPos]
	}
	s.lastRead = b
	s.drivesSDA = (b>>(7-uint(s.bit)))&1 == 0
}
