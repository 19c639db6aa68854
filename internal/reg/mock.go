// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package reg

import (
	"runtime"
	"sync"
	"time"
)

// file is the host-side double for the hardware register file: an
// in-memory map keyed by address, standing in for unsafe.Pointer MMIO.
// Exported via Map/Reset so _test.go files in other packages can drive the
// core's component logic without real silicon (see internal/reg/mock_test.go
// and the per-component *_test.go files built on top of it).
var (
	mutex sync.Mutex
	file  = map[uint32]uint32{}
)

// Reset clears the entire mock register file. Intended for test setup.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()

	file = map[uint32]uint32{}
}

// Map returns the mock register file's current contents, for test
// assertions that need to inspect an address this package's typed
// accessors don't expose directly.
func Map() map[uint32]uint32 {
	mutex.Lock()
	defer mutex.Unlock()

	m := make(map[uint32]uint32, len(file))

	for k, v := range file {
		m[k] = v
	}

	return m
}

func Get(addr uint32, pos int, mask int) (val uint32) {
	mutex.Lock()
	defer mutex.Unlock()

	return uint32((int(file[addr]) >> pos) & mask)
}

func Set(addr uint32, pos int) {
	mutex.Lock()
	defer mutex.Unlock()

	file[addr] |= (1 << pos)
}

func Clear(addr uint32, pos int) {
	mutex.Lock()
	defer mutex.Unlock()

	file[addr] &= ^(uint32(1) << pos)
}

func SetTo(addr uint32, pos int, val bool) {
	if val {
		Set(addr, pos)
	} else {
		Clear(addr, pos)
	}
}

func SetN(addr uint32, pos int, mask int, val uint32) {
	mutex.Lock()
	defer mutex.Unlock()

	file[addr] = (file[addr] & (^(uint32(mask) << pos))) | (val << pos)
}

func ClearN(addr uint32, pos int, mask int) {
	mutex.Lock()
	defer mutex.Unlock()

	file[addr] &= ^(uint32(mask) << pos)
}

func Read(addr uint32) (val uint32) {
	mutex.Lock()
	defer mutex.Unlock()

	return file[addr]
}

func Write(addr uint32, val uint32) {
	mutex.Lock()
	defer mutex.Unlock()

	file[addr] = val
}

func Wait(addr uint32, pos int, mask int, val uint32) {
	for Get(addr, pos, mask) != val {
		runtime.Gosched()
	}
}

func WaitFor(timeout time.Duration, addr uint32, pos int, mask int, val uint32) bool {
	start := time.Now()

	for Get(addr, pos, mask) != val {
		if time.Since(start) >= timeout {
			return false
		}

		runtime.Gosched()
	}

	return true
}
