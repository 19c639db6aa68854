// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command ape-mc is the firmware entry point: it wires the NC-SI control
// plane and network TX/link collaborators to this core and runs the main
// loop (spec §4.C9, grounded on original_source/ape/main.c's __start).
package main

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/broadcom/bcm5719-ape/console"
	"github.com/broadcom/bcm5719-ape/control"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

func main() {
	port := ape.GetPort(NetworkPort)

	console.Printf("APE v%d.%d.%d NCSI Port %d\n", VersionMajor, VersionMinor, VersionPatch, NetworkPort)

	loop := control.Bootstrap(control.Config{
		Port:    port,
		NCSI:    ncsiController{},
		TX:      networkTX{},
		Link:    networkLink{},
		Locks:   lockReleaser{},
		Version: firmwareVersion(),
		Drops:   console.NewLimiter(rate.Every(time.Second), 1),
	})

	loop.Run()
}
