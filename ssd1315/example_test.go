// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315_test

import (
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/firstlight/ssd1315/i2cbb"
	"github.com/firstlight/ssd1315/ssd1315"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	scl := gpioreg.ByName("P2_1")
	sda := gpioreg.ByName("P2_2")
	if scl == nil || sda == nil {
		log.Fatal("bus pins not found")
	}
	bus, err := i2cbb.New(scl, sda, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = bus.Close() }()

	opts := ssd1315.DefaultOpts
	opts.RST = gpioreg.ByName("P2_0")
	dev, err := ssd1315.NewI2C(bus, &opts)
	if err != nil {
		log.Printf("init: %v", err)
	}
	// Light every pixel to prove the wiring; the panel stays on.
	if err := dev.AllOn(); err != nil {
		log.Printf("test pattern: %v", err)
	}
	log.Printf("%s lit", dev)
}
