// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build extvcc

package main

// The panel runs from an external VCC rail. Init pauses long enough for an
// operator to switch the rail on after the reset pulse, then proceeds to
// display on.
const useChargePump = false
