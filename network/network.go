// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package network declares the TX and link-state collaborator interfaces
// consumed by this core. Low-level TX framing is explicitly out of scope
// (spec §1); the core only reaches it through transmit-passthrough, and
// only observes link/enable state, never programs it.
package network

import "github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"

// TX is the transmit-passthrough collaborator (spec §6).
type TX interface {
	// TransmitPassthrough hands a pass-through frame of the given byte
	// length, already staged in the BMC-to-NC path, to the TX engine for
	// the given port. False means the TX engine is wedged and the caller
	// must recover (spec §9 Open Question: the richer bool contract is
	// the one actually used, not the stale void signature).
	TransmitPassthrough(length int, port *ape.Port) bool
}

// Link is the port link/enable-state collaborator (spec §6).
type Link interface {
	// CheckPortState polls and updates a port's link state bookkeeping.
	CheckPortState(port *ape.Port)

	// CheckEnableState reports whether the host driver currently has the
	// port enabled.
	CheckEnableState(port *ape.Port) bool
}
