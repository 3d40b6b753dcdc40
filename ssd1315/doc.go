// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1315 brings up a monochrome OLED panel driven by an SSD1315
// controller over I²C, far enough to prove the wiring: reset pulse, power
// path, display on, and the "entire display on" test pattern.
//
// This is a first-light driver, not a display driver: there is no
// framebuffer, no addressing and no drawing. The panel runs on its power-on
// defaults. Once a panel lights up under this package, a full driver such as
// a ssd1306-style one can take over.
//
// The panel's VCC rail comes either from the controller's internal charge
// pump, enabled during init, or from an external supply that must be up
// before the display-on command. Opts.ChargePump selects the path.
//
// Every transfer carries exactly one payload byte: START, address 0x3C
// (0x78 on the wire), a control byte (0x00 command / 0x40 data), the
// payload, STOP. A NACK anywhere aborts that transfer; nothing is retried.
// The optional status LED reflects the result of the latest transfer, which
// is all the feedback a headless board gives during bring-up.
//
// # Datasheet
//
// https://www.solomon-systech.com/product/ssd1315/
package ssd1315
