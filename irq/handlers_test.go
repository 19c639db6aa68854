// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package irq

import (
	"testing"

	"github.com/broadcom/bcm5719-ape/internal/msclock"
	"github.com/broadcom/bcm5719-ape/internal/reg"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

func TestDebounceArmIsSticky(t *testing.T) {
	msclock.Set(10)

	var d Debounce
	d.Arm()

	if !d.Pending() {
		t.Fatal("expected Pending after Arm")
	}
	if d.Since() != 10 {
		t.Fatalf("Since() = %d, want 10", d.Since())
	}

	msclock.Advance(5)
	d.Arm() // must not move the timer once armed

	if d.Since() != 10 {
		t.Fatalf("Since() after second Arm = %d, want 10 (Arm is sticky)", d.Since())
	}
}

func TestDebounceZeroTickRemapsToOne(t *testing.T) {
	msclock.Set(0)

	var d Debounce
	d.Arm()

	if !d.Pending() {
		t.Fatal("expected Pending even when armed at tick 0")
	}
	if d.Since() == 0 {
		t.Fatal("Since() must never be 0 while pending, 0 means disarmed")
	}
}

func TestDebounceClear(t *testing.T) {
	var d Debounce
	d.Set(5)
	d.Clear()

	if d.Pending() {
		t.Fatal("expected not Pending after Clear")
	}
}

func TestOnGeneralResetArmsOnceOnGRCReset(t *testing.T) {
	reg.Reset()
	msclock.Set(1)

	port := ape.GetPort(0)

	var status reg.Word
	status = status.WithBit(ape.STATUS_PORT0_GRC_RESET, true)
	reg.Write(port.Peripheral.Base+ape.PERI_STATUS, uint32(status))

	var d Debounce
	armed := OnGeneralReset(port, &d)

	if !armed {
		t.Fatal("expected armed=true on an asserted GRC reset")
	}
	if !d.Pending() {
		t.Fatal("expected debounce pending after OnGeneralReset")
	}

	if got := reg.Read(port.Peripheral.Base + ape.PERI_STATUS); got != uint32(status) {
		t.Fatalf("status register not acknowledged as written back: %#x", got)
	}
}

func TestOnGeneralResetIgnoredWhileAlreadyPending(t *testing.T) {
	reg.Reset()
	msclock.Set(1)

	port := ape.GetPort(1)

	var d Debounce
	d.Arm()

	armed := OnGeneralReset(port, &d)
	if armed {
		t.Fatal("expected armed=false when a debounce is already pending")
	}
}

func TestOnGeneralResetNoOpWithoutResetBits(t *testing.T) {
	reg.Reset()

	port := ape.GetPort(2)

	var d Debounce
	armed := OnGeneralReset(port, &d)

	if armed || d.Pending() {
		t.Fatal("expected no debounce armed when no GRC reset bit is set")
	}
}
