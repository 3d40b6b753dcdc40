// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cbb implements an I²C master by bit-banging two GPIO lines with
// open-drain semantics.
//
// A line is pulled low by configuring the pin as an output at level low, and
// raised by releasing the pin to its pull-up, never by driving it high. This
// is what lets a slave acknowledge (or a future slave stretch the clock)
// without contention against a push-pull output.
//
// Edge pacing is a delay of half a bit period after every GPIO action,
// giving the ordering the SSD1315 family is known to accept: SDA setup, SCL
// rise, SCL fall. Absolute accuracy does not matter; I²C is self-clocked and
// the standard allows arbitrarily slow clocks.
//
// The package exists for boards whose hardware I²C peripheral is unavailable
// or untrusted during early bring-up; it documents the exact wire behavior
// at the cost of throughput.
//
// # Limitations
//
// Clock stretching is not detected: SCL is driven by the master and never
// sampled, so a slave holding SCL low is invisible. The SSD1315 does not
// stretch. There is no multi-master arbitration and no timeout on the
// acknowledge slot.
package i2cbb
