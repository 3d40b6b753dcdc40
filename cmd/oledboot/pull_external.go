// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !intpullups

package main

import "periph.io/x/conn/v3/gpio"

// The bus has external ~10kΩ pull-ups on SCL and SDA; the lines float when
// released.
const busPull = gpio.Float
