// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import "fmt"

// NumPorts is the number of physical interfaces on the adapter (spec §3).
const NumPorts = 4

// Per-port base addresses. Each of the four PCI functions mirrors the same
// device/peripheral/SHM layout at a function-relative offset.
const (
	portStride      = 0x00100000
	deviceBase0     = 0x40000000
	peripheralBase0 = 0x40010000
	rxRingBase0     = 0x40020000
	shmGenericBase0 = 0x40100000
	shmLoaderBase0  = 0x40100100
	shmChannelBase0 = 0x40100200
)

// Port bundles one physical interface's device window, peripheral window,
// RX ring window, and shared-memory mailbox (spec §3: "Port (one per
// physical interface, four total)").
type Port struct {
	Index int

	Device     Device
	Peripheral Peripheral
	Rx         RxRing
	SHM        SHM
}

var ports [NumPorts]*Port

func init() {
	for i := 0; i < NumPorts; i++ {
		off := uint32(i) * portStride

		p := &Port{
			Index: i,
			Device: Device{
				Base: deviceBase0 + off,
			},
			Peripheral: Peripheral{
				Base: peripheralBase0 + off,
			},
			Rx: RxRing{
				Base: rxRingBase0 + off,
			},
			SHM: SHM{
				GenericBase: shmGenericBase0 + off,
				LoaderBase:  shmLoaderBase0 + off,
				ChannelBase: shmChannelBase0 + off,
			},
		}

		p.Device.init()
		p.Peripheral.init()
		p.SHM.init()

		ports[i] = p
	}
}

// GetPort returns the static Port instance for the given index (the
// Network_getPort collaborator interface, spec §6), panicking on an
// out-of-range index since the four ports are fixed, compile-time-known
// hardware resources.
func GetPort(index int) *Port {
	if index < 0 || index >= NumPorts {
		panic(fmt.Sprintf("ape: invalid port index %d", index))
	}

	return ports[index]
}

// Ports returns all four static Port instances, in index order.
func Ports() [NumPorts]*Port {
	return ports
}
