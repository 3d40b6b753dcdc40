// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !extvcc

package main

// The panel's VCC comes from the controller's internal charge pump, enabled
// during init. This is the right choice for the common modules with no
// separate supply input and the recommended path for first light.
const useChargePump = true
