// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import (
	"github.com/broadcom/bcm5719-ape/internal/reg"
)

// GpioPin is one of the three APE GPIO pins multiplexed onto the Gpio
// register: Clock_P, Clock_N, and the clock-mux select (spec §4.C4).
// Shaped after the Out/High/Low split of a discrete GPIO controller
// (soc/nxp/gpio in the teacher) even though all three pins here live
// packed into a single peripheral register.
type GpioPin struct {
	p       *Peripheral
	dirBit  int
	dataBit int
}

// Out configures the pin as an output.
func (g GpioPin) Out() {
	reg.Set(g.p.gpio, g.dirBit)
}

// High drives the pin high.
func (g GpioPin) High() {
	reg.Set(g.p.gpio, g.dataBit)
}

// Low drives the pin low.
func (g GpioPin) Low() {
	reg.Clear(g.p.gpio, g.dataBit)
}

// Set drives the pin to the given level.
func (g GpioPin) Set(high bool) {
	reg.SetTo(g.p.gpio, g.dataBit, high)
}

// Value reports the pin's current level.
func (g GpioPin) Value() bool {
	return reg.Get(g.p.gpio, g.dataBit, 1) == 1
}

// ClockP, ClockN, and ClockMux return the three bit-banged GPIO pins.
// ClockMux high selects the APE as the clock-mux driver; low restores the
// PCIe clock.
func (p *Peripheral) ClockP() GpioPin {
	return GpioPin{p: p, dirBit: GPIO_PIN0_DIR, dataBit: GPIO_PIN0_DATA}
}

func (p *Peripheral) ClockN() GpioPin {
	return GpioPin{p: p, dirBit: GPIO_PIN1_DIR, dataBit: GPIO_PIN1_DATA}
}

func (p *Peripheral) ClockMux() GpioPin {
	return GpioPin{p: p, dirBit: GPIO_PIN2_DIR, dataBit: GPIO_PIN2_DATA}
}
