// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"github.com/broadcom/bcm5719-ape/ncsi"
	"github.com/broadcom/bcm5719-ape/network"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// ncsiController, networkTX, and networkLink are placeholders for the
// NC-SI control plane and network TX/link modules this firmware calls
// into but does not own (spec §1 Non-goals). A board build replaces
// these with its real implementations; left unimplemented here, every
// method is a safe no-op so the core still links and runs its loop.

type ncsiController struct{}

func (ncsiController) HandleFrame(frame []byte)      {}
func (ncsiController) Init()                         {}
func (ncsiController) Reload(policy ncsi.ReloadPolicy) {}
func (ncsiController) HandlePassthrough()            {}
func (ncsiController) UsePort(port *ape.Port)        {}

type networkTX struct{}

func (networkTX) TransmitPassthrough(length int, port *ape.Port) bool {
	return true
}

type networkLink struct{}

func (networkLink) CheckPortState(port *ape.Port) {}

func (networkLink) CheckEnableState(port *ape.Port) bool {
	return true
}

// lockReleaser is a placeholder for the NVRAM/APE arbitration-lock module
// (spec §1 Non-goals); a board build replaces it with the real lock
// release sequence.
type lockReleaser struct{}

func (lockReleaser) ReleaseAllLocks() {}
