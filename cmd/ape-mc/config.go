// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

// Build-time firmware identity (spec §4.A config). These are compile-time
// constants, so a board variant selects its port by changing NetworkPort
// here; the value 0 selects port 0.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0

	NetworkPort = 0
)

func firmwareVersion() uint32 {
	return uint32(VersionMajor)<<24 | uint32(VersionMinor)<<16 | uint32(VersionPatch)
}
