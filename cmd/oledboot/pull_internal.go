// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build intpullups

package main

import "periph.io/x/conn/v3/gpio"

// No external pull-ups: substitute the host's internal ones. Their high
// resistance makes for slow edges; not recommended beyond a quick test.
const busPull = gpio.PullUp
