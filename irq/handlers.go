// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package irq implements the voltage-source and GRC-reset interrupt
// handlers (spec §4.C6): both run at interrupt priority, so both are kept
// minimal, and hand off any debounce-timer bookkeeping to the main loop
// through a single atomic word.
package irq

import (
	"sync/atomic"

	"github.com/broadcom/bcm5719-ape/internal/msclock"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// Debounce holds the tick at which a GRC reset was first observed, or 0
// if none is pending. The original firmware used the same sentinel (a
// plain uint32, never written concurrently with a read that mattered);
// here it is an atomic word so the interrupt handlers and the main loop
// can touch it without a lock.
type Debounce struct {
	armedAt uint32
}

// Arm records now as the moment debounce began, unless one is already
// pending. msclock.Now() legitimately returning 0 is remapped to 1, since
// 0 is reserved to mean "nothing pending".
func (d *Debounce) Arm() {
	if atomic.LoadUint32(&d.armedAt) != 0 {
		return
	}

	d.Set(msclock.Now())
}

// Set pins the debounce timer to an arbitrary non-zero tick, remapping a
// literal 0 to 1 (spec §3 Debounce type).
func (d *Debounce) Set(t uint32) {
	if t == 0 {
		t = 1
	}

	atomic.StoreUint32(&d.armedAt, t)
}

// Pending reports whether a debounce timer is armed.
func (d *Debounce) Pending() bool {
	return atomic.LoadUint32(&d.armedAt) != 0
}

// Since returns the tick the debounce timer was armed at. Callers must
// check Pending first.
func (d *Debounce) Since() uint32 {
	return atomic.LoadUint32(&d.armedAt)
}

// Restart unconditionally resets the timer to now, used while a reset
// condition is still asserted so the settle timeout only starts counting
// once it clears.
func (d *Debounce) Restart() {
	d.Set(msclock.Now())
}

// ElapsedSince reports whether at least ms milliseconds have passed since
// the timer was armed. Callers must check Pending first.
func (d *Debounce) ElapsedSince(ms uint32) bool {
	return msclock.ElapsedSince(d.Since(), ms)
}

// Clear disarms the debounce timer.
func (d *Debounce) Clear() {
	atomic.StoreUint32(&d.armedAt, 0)
}

// OnVoltageSource is the handler vectored for the VMAIN voltage-source
// interrupt line (installed via ape.InstallVectors): it acknowledges the
// interrupt, logs the new source, and arms the debounce timer so the main
// loop re-synchronizes hardware state once things settle.
func OnVoltageSource(port *ape.Port, debounce *Debounce) {
	ape.ClearPending(ape.IRQVoltageSource)

	if port.Peripheral.VMAINPower() {
		print("Vsrc: Main\n")
	} else {
		print("Vsrc: Aux\n")
	}

	debounce.Arm()
}

// OnGeneralReset is the handler vectored for the GRC-reset/power-status
// interrupt line (installed via ape.InstallVectors): it acknowledges the
// NVIC and status registers and, if a per-port GRC reset is asserted and
// no debounce is already pending, arms the debounce timer and masks this
// interrupt line until the main loop finishes waiting out the reset and
// re-enables it (spec §4.C6, grounded on
// resetInProgress/IRQ_PowerStatusChanged).
func OnGeneralReset(port *ape.Port, debounce *Debounce) (armed bool) {
	status := port.Peripheral.Status()
	status2 := port.Peripheral.Status2()

	port.Peripheral.AckStatus(status)
	port.Peripheral.AckStatus2(status2)

	ape.ClearPending(ape.IRQGeneralReset)

	print("PowerStateChanged.\n")

	if debounce.Pending() {
		return false
	}

	if !ape.ResetInProgress(status, status2) {
		return false
	}

	print("GRC Reset.\n")
	debounce.Arm()
	ape.DisableInterrupt(ape.IRQGeneralReset)

	return true
}
