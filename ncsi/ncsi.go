// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ncsi declares the NC-SI control-plane collaborator interface
// consumed by this core. NC-SI frame parsing is explicitly out of scope
// (spec §1); this package only names the surface the core calls against.
package ncsi

import "github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"

// ReloadPolicy governs whether NCSI_reload is allowed to reset hardware
// state it wouldn't otherwise touch.
type ReloadPolicy int

const (
	// NeverReset reloads configuration without forcing a hardware reset.
	NeverReset ReloadPolicy = iota
	// AsNeeded allows a hardware reset if the reload determines one is
	// required to recover.
	AsNeeded
)

// Controller is the external NC-SI module's interface (spec §6).
type Controller interface {
	// HandleFrame processes one control frame addressed to the MC.
	HandleFrame(frame []byte)

	// Init performs first-time NC-SI initialization after a full chip
	// reset.
	Init()

	// Reload re-establishes NC-SI state without a full chip reset,
	// following policy.
	Reload(policy ReloadPolicy)

	// HandlePassthrough drains any NC-SI-side pass-through bookkeeping
	// once per main loop iteration.
	HandlePassthrough()

	// UsePort binds the NC-SI module to the port this firmware build
	// services.
	UsePort(port *ape.Port)
}
