// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package msclock provides the firmware's single time source: a free
// running 1 kHz tick counter with wrap-safe elapsed comparisons, mirroring
// the original Timer_getCurrentTime1KHz / Timer_didTimeElapsed1KHz pair.
//
// On real silicon Tick is called once per millisecond from the timer
// interrupt handler (out of scope for this core, see spec §1). Tests drive
// the clock directly with Set/Tick instead of sleeping.
package msclock

import "sync/atomic"

var tick uint32

// Now returns the current 1 kHz tick count. It wraps silently at 2^32.
func Now() uint32 {
	return atomic.LoadUint32(&tick)
}

// Tick advances the clock by one millisecond. Called from the hardware
// timer interrupt on real silicon; called directly by tests otherwise.
func Tick() {
	atomic.AddUint32(&tick, 1)
}

// Advance moves the clock forward by n milliseconds, for test setup.
func Advance(n uint32) {
	atomic.AddUint32(&tick, n)
}

// Set pins the clock to an arbitrary value, for test setup (e.g.
// reproducing the wrap-around edge case at the 0 sentinel boundary).
func Set(v uint32) {
	atomic.StoreUint32(&tick, v)
}

// ElapsedSince reports whether at least ms milliseconds have passed since
// t0, using unsigned modular subtraction so a wrap of the tick counter
// between t0 and now does not produce a false negative.
func ElapsedSince(t0 uint32, ms uint32) bool {
	return Now()-t0 >= ms
}
