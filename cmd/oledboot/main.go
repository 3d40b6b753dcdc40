// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledboot proves an SSD1315 OLED panel is wired correctly: on start it
// drives the panel to the all-pixels-on test pattern and idles.
//
// There are no flags and no configuration files; the pins are fixed by the
// board layout and rewiring requires a rebuild. The power path and the bus
// pull-ups are chosen at build time with the "extvcc" and "intpullups"
// build tags.
//
// Failure shows on the board, not on a console: a dark status LED means a
// NACK somewhere on the bus (check wiring and pull-ups); a lit LED over a
// dark panel means the power path is wrong (check the charge pump tag
// against the panel variant).
package main

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/firstlight/ssd1315/i2cbb"
	"github.com/firstlight/ssd1315/ssd1315"
)

// Pin assignment, fixed by the board layout.
const (
	sclPin = "P2_1"
	sdaPin = "P2_2"
	resPin = "P2_0"
	ledPin = "P3_4"
)

// railSettle is the wait between platform init and the first bus activity,
// for the supply rails to come up.
const railSettle = 200 * time.Millisecond

func mainImpl() error {
	// Platform bring-up: clock tree, port unlock, driver registration.
	if _, err := host.Init(); err != nil {
		return err
	}
	scl := gpioreg.ByName(sclPin)
	sda := gpioreg.ByName(sdaPin)
	res := gpioreg.ByName(resPin)
	led := gpioreg.ByName(ledPin)
	if scl == nil || sda == nil || res == nil || led == nil {
		return fmt.Errorf("missing pins; need %s, %s, %s and %s", sclPin, sdaPin, resPin, ledPin)
	}
	if err := led.Out(gpio.Low); err != nil {
		return err
	}

	bus, err := i2cbb.New(scl, sda, &i2cbb.Opts{Pull: busPull})
	if err != nil {
		return err
	}
	time.Sleep(railSettle)

	opts := ssd1315.DefaultOpts
	opts.RST = res
	opts.StatusLED = led
	opts.ChargePump = useChargePump
	dev, err := ssd1315.NewI2C(bus, &opts)
	if err != nil {
		// Do not bail: the LED carries the diagnosis and a partially
		// deaf panel may still light up.
		log.Printf("init: %v", err)
	}
	if err := dev.AllOn(); err != nil {
		log.Printf("test pattern: %v", err)
	}

	log.Printf("%s: test pattern requested, idling", dev)
	select {}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("oledboot: ")
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
