// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ape implements typed register windows for the Broadcom BCM5719
// Advanced Processor Engine (APE): the per-function device block, the
// shared peripheral block (RMU, GPIO, reset status), the RX ring window,
// and the per-port shared-memory mailbox.
package ape

import (
	"github.com/broadcom/bcm5719-ape/internal/reg"
)

// Device register offsets, relative to a Port's device base. One device
// block exists per physical port/function; each gates its own receive CPU.
const (
	DEVICE_CHIP_ID        = 0x00
	DEVICE_RX_RISC_STATUS = 0x04

	RX_RISC_STATUS_HALTED = 0
)

// Device is the per-port device register window.
type Device struct {
	Base uint32

	chipID uint32
	rxRisc uint32
}

func (d *Device) init() {
	d.chipID = d.Base + DEVICE_CHIP_ID
	d.rxRisc = d.Base + DEVICE_RX_RISC_STATUS
}

// ChipID returns the device identification register. A zero value means
// the device is currently held in reset.
func (d *Device) ChipID() uint32 {
	return reg.Read(d.chipID)
}

// RxHalted reports whether this port's receive CPU has halted.
func (d *Device) RxHalted() bool {
	return reg.Get(d.rxRisc, RX_RISC_STATUS_HALTED, 1) == 1
}
