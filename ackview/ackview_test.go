// Copyright 2026 The Firstlight Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ackview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

func TestOut(t *testing.T) {
	var buf bytes.Buffer
	v := New(&Opts{W: &buf})
	if err := v.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	ack := buf.String()
	if !strings.Contains(ack, "\033[") {
		t.Errorf("no ANSI escape in %q", ack)
	}
	if !strings.HasSuffix(ack, "\033[0m") {
		t.Errorf("attributes not reset after the cell: %q", ack)
	}
	buf.Reset()
	if err := v.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if nack := buf.String(); nack == ack {
		t.Error("ACK and NACK render identically")
	}
}

func TestObserve(t *testing.T) {
	var buf bytes.Buffer
	v := New(&Opts{W: &buf})
	v.Observe(nil)
	if v.Function() != "Out/High" {
		t.Errorf("function after ACK: %s", v.Function())
	}
	v.Observe(errors.New("NACK received"))
	if v.Function() != "Out/Low" {
		t.Errorf("function after NACK: %s", v.Function())
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	v := New(&Opts{W: &buf})
	if err := v.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("terminal attributes not reset: %q", got)
	}
}

func TestPin(t *testing.T) {
	v := New(&Opts{W: &bytes.Buffer{}})
	if v.Name() != "ACKVIEW" || v.Number() != -1 {
		t.Errorf("pin identity: %s/%d", v.Name(), v.Number())
	}
	if v.String() == "" {
		t.Error("empty String()")
	}
	if err := v.PWM(0, 0); err == nil {
		t.Error("PWM accepted")
	}
}
