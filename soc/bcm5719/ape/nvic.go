// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import (
	"unsafe"

	"github.com/broadcom/bcm5719-ape/internal/reg"
)

// NVIC register offsets. The core carries a single, chip-global interrupt
// controller, unlike the per-port Device/Peripheral/SHM windows above.
const (
	nvicBase = 0x40030000

	NVIC_ISER = nvicBase + 0x00 // Interrupt Set Enable
	NVIC_ICER = nvicBase + 0x04 // Interrupt Clear Enable
	NVIC_ICPR = nvicBase + 0x08 // Interrupt Clear Pending
	NVIC_VTOR = nvicBase + 0x0c // Vector Table Offset

	// Interrupt lines this firmware vectors (spec §4.C6).
	IRQVoltageSource = 1 << 0
	IRQGeneralReset  = 1 << 1
)

// EnableInterrupt unmasks the given NVIC interrupt line(s).
func EnableInterrupt(mask uint32) {
	reg.Write(NVIC_ISER, mask)
}

// DisableInterrupt masks the given NVIC interrupt line(s); the
// general-reset handler disables its own line once it arms the debounce
// timer, matching the original firmware's
// InterruptClearEnable.SETENA_GENERAL_RESET so the handler isn't re-entered
// until the main loop has finished waiting out the reset.
func DisableInterrupt(mask uint32) {
	reg.Write(NVIC_ICER, mask)
}

// ClearPending acknowledges the given NVIC interrupt line(s).
func ClearPending(mask uint32) {
	reg.Write(NVIC_ICPR, mask)
}

// ClearAllPending acknowledges every NVIC interrupt line, done once at
// bring-up before the vector table is installed (original firmware's
// `NVIC.InterruptClearPending.r32 = 0xFFFFFFFF` in `__start`).
func ClearAllPending() {
	reg.Write(NVIC_ICPR, 0xffffffff)
}

// VectorTable holds the handler entries this firmware vectors through the
// NVIC. Installing it mirrors the original firmware pointing
// NVIC.VectorTableOffset at its linker-placed gVectors struct; here the
// vector table is a plain Go struct of closures, and installing it means
// publishing its address to the NVIC and recording it so Dispatch* can
// invoke the right handler once the runtime's IRQ trampoline fires.
type VectorTable struct {
	VoltageSource func()
	GeneralReset  func()
}

var vectors VectorTable

// InstallVectors binds voltageSource and generalReset as the handlers for
// their respective interrupt lines and points the NVIC's vector table
// offset register at them. The lines themselves remain masked until a
// separate EnableInterrupt call.
func InstallVectors(voltageSource, generalReset func()) {
	vectors.VoltageSource = voltageSource
	vectors.GeneralReset = generalReset

	reg.Write(NVIC_VTOR, uint32(uintptr(unsafe.Pointer(&vectors))))
}

// DispatchVoltageSource runs the installed voltage-source handler. Called
// by the runtime's IRQ trampoline when that line fires.
func DispatchVoltageSource() {
	if vectors.VoltageSource != nil {
		vectors.VoltageSource()
	}
}

// DispatchGeneralReset runs the installed general-reset handler. Called by
// the runtime's IRQ trampoline when that line fires.
func DispatchGeneralReset() {
	if vectors.GeneralReset != nil {
		vectors.GeneralReset()
	}
}
