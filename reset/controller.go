// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package reset implements cold-boot chip recovery and cross-port RX CPU
// reset coordination (spec §4.C4): bit-banging the clock mux to kick a
// chip that came up with an unreadable ChipID, and waiting for every
// port's receive CPU to either halt or announce readiness before the
// loader touches shared hardware state.
package reset

import (
	"runtime"

	"github.com/broadcom/bcm5719-ape/internal/msclock"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// LockReleaser releases any outstanding hardware locks (NVRam arbitration
// locks plus the APE's own peripheral locks) that would otherwise prevent
// the RX CPUs from proceeding through bring-up after a cold reset. Neither
// lock register block is part of the APE register windows modeled in
// soc/bcm5719/ape, so this is an external collaborator seam, the same way
// ncsi.Controller and network.TX model other out-of-scope modules.
type LockReleaser interface {
	ReleaseAllLocks()
}

// ToggleCycles is the number of clock_p/clock_n edge toggles bit-banged
// into the clock mux during cold-boot recovery.
const ToggleCycles = 38

// RxTimeoutMS bounds how long HandleReset and WaitForRx will wait for a
// single port's receive CPU before giving up and moving on; the original
// firmware treats this timeout as diagnostic only, never fatal.
const RxTimeoutMS = 1000

// HandleReset inspects port 0's ChipID and, if the chip came up
// unreadable (cold boot / brown-out), releases the NVRAM/APE arbitration
// locks, bit-bangs the clock-mux recovery sequence, and waits for every
// port's receive CPU to come back before returning. It reports whether a
// full chip re-initialization happened, which the caller uses to decide
// between NCSI_init and NCSI_reload.
func HandleReset(locks LockReleaser) bool {
	port0 := ape.GetPort(0)

	if port0.Device.ChipID() != 0 {
		return false
	}

	print("Resetting...\n")

	locks.ReleaseAllLocks()

	p := port0.Peripheral
	clockP := p.ClockP()
	clockN := p.ClockN()
	mux := p.ClockMux()

	clockP.Out()
	clockN.Out()
	mux.Out()

	pHigh := true
	nHigh := false

	clockP.Set(pHigh)
	clockN.Set(nHigh)
	mux.High() // drive the mux from the APE rather than the PCIe clock

	for i := 0; i < ToggleCycles; i++ {
		pHigh = !pHigh
		nHigh = !nHigh
		clockP.Set(pHigh)
		clockN.Set(nHigh)
	}

	for port0.Device.ChipID() == 0 {
		runtime.Gosched()
	}

	mux.Low() // restore the PCIe clock

	WaitForAll()

	return true
}

// WaitForRx waits for one port's receive CPU to either halt or announce
// readiness via its SHM signature, up to RxTimeoutMS. A timeout is logged
// but not treated as an error by the caller.
func WaitForRx(port *ape.Port) {
	start := msclock.Now()

	for {
		if port.Device.RxHalted() {
			return
		}

		if port.SHM.RcpuSegSig() == ape.SegSigRCPU {
			return
		}

		if msclock.ElapsedSince(start, RxTimeoutMS) {
			print("RX CPU reset timeout.\n")
			return
		}
	}
}

// WaitForAll waits for every port's receive CPU in turn.
func WaitForAll() {
	for _, port := range ape.Ports() {
		WaitForRx(port)
	}
}
