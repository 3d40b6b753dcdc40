// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledbench rehearses the oledboot sequence against a simulated SSD1315
// slave and prints the decoded bus traffic.
//
// No hardware is involved: the bus is a simulated open-drain wire, the
// status LED is an ANSI cell on stdout. Run it to eyeball the exact byte
// sequence the firmware will put on a real bus, or with -nack to see how a
// missing panel looks.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/firstlight/ssd1315/ackview"
	"github.com/firstlight/ssd1315/i2cbb"
	"github.com/firstlight/ssd1315/i2csim"
	"github.com/firstlight/ssd1315/ssd1315"
)

func mainImpl() error {
	nack := flag.Bool("nack", false, "simulate an absent panel (address NACK)")
	extVcc := flag.Bool("extvcc", false, "simulate the external VCC power path")
	flag.Parse()

	slave := i2csim.NewSlave(0x3C)
	if *nack {
		slave.NACKAddr()
	}
	wire := i2csim.New(slave)
	view := ackview.New(nil)

	// The simulated wire has no capacitance; run the bus at its limit.
	bus, err := i2cbb.New(wire.SCL(), wire.SDA(), &i2cbb.Opts{Freq: 100 * physic.KiloHertz})
	if err != nil {
		return err
	}

	opts := ssd1315.DefaultOpts
	opts.StatusLED = view
	opts.ChargePump = !*extVcc
	if *extVcc {
		// Nobody is flipping a real supply; don't sit through 8s.
		opts.ExtVccWait = 80 * time.Millisecond
	}
	dev, err := ssd1315.NewI2C(bus, &opts)
	if err != nil {
		log.Printf("init: %v", err)
	}
	if err := dev.AllOn(); err != nil {
		log.Printf("test pattern: %v", err)
	}
	_ = view.Halt()

	fmt.Println("bus traffic:")
	for _, e := range wire.Events() {
		fmt.Printf("  %s\n", e)
	}
	for _, v := range wire.Violations() {
		fmt.Printf("  VIOLATION: %s\n", v)
	}
	fmt.Printf("accepted transfers: %d\n", len(slave.Transfers))
	for _, tr := range slave.Transfers {
		fmt.Printf("  control=0x%02X payload=0x%02X\n", tr.Control, tr.Payload)
	}
	return bus.Close()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("oledbench: ")
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
