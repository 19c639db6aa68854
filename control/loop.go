// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package control implements bring-up and the main event loop (spec
// §4.C8, §4.C9): deciding between a full chip reset and a warm reload,
// then servicing the GRC-reset debounce branch, the BMC packet pump, NC-SI
// pass-through, host driver state changes, and the loader mailbox, once
// per iteration, forever.
package control

import (
	"github.com/broadcom/bcm5719-ape/console"
	"github.com/broadcom/bcm5719-ape/irq"
	"github.com/broadcom/bcm5719-ape/loader"
	"github.com/broadcom/bcm5719-ape/ncsi"
	"github.com/broadcom/bcm5719-ape/network"
	"github.com/broadcom/bcm5719-ape/reset"
	"github.com/broadcom/bcm5719-ape/rmu"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// GRCResetTimeoutMS is how long the main loop waits, after a GRC reset
// stops being asserted, before treating it as settled.
const GRCResetTimeoutMS = 150

// Config collects this firmware build's fixed identity and collaborators.
type Config struct {
	Port    *ape.Port
	NCSI    ncsi.Controller
	TX      network.TX
	Link    network.Link
	Locks   reset.LockReleaser
	Version uint32 // (major<<24)|(minor<<16)|patch, spec §4.A
	Drops   *console.Limiter
}

// Loop is the bootstrapped, running main loop state.
type Loop struct {
	cfg Config

	pump     rmu.Pump
	debounce irq.Debounce

	hostState    uint32
	resetAllowed bool
}

// Bootstrap performs cold/warm bring-up for cfg.Port: a cold boot first
// releases the arbitration locks and bit-bangs the chip back to life and
// reports a full chip reset; either way every port's SHM mailbox is
// (re-)stamped and initialized, the RMU is reinitialized, the NC-SI module
// is bound to this build's port, NC-SI is fully initialized or
// warm-reloaded depending on which kind of bring-up this was, and finally
// the voltage-source/general-reset interrupt vectors are installed and
// unmasked.
func Bootstrap(cfg Config) *Loop {
	ape.ClearAllPending()

	fullInit := reset.HandleReset(cfg.Locks)

	for _, port := range ape.Ports() {
		port.SHM.StampLoaderSignature()
		port.SHM.InitSHM(cfg.Version)
	}

	cfg.NCSI.UsePort(cfg.Port)
	cfg.Port.Peripheral.ResetRMU()

	l := &Loop{cfg: cfg}
	l.pump.NCSI = cfg.NCSI
	l.pump.TX = cfg.TX
	l.pump.Drops = cfg.Drops

	l.hostState = cfg.Port.SHM.HostDriverState()

	if fullInit {
		console.Printf("Chip Reset.\n")
		cfg.NCSI.Init()
	} else {
		console.Printf("APE Reload.\n")

		policy := ncsi.NeverReset
		if l.hostState != ape.HostStateStart {
			policy = ncsi.AsNeeded
		}

		cfg.NCSI.Reload(policy)
	}

	l.resetAllowed = l.hostState == ape.HostStateStart

	ape.InstallVectors(
		func() { irq.OnVoltageSource(cfg.Port, &l.debounce) },
		func() { irq.OnGeneralReset(cfg.Port, &l.debounce) },
	)
	ape.EnableInterrupt(ape.IRQVoltageSource | ape.IRQGeneralReset)

	return l
}

// Run services the event loop forever. It does not return.
func (l *Loop) Run() {
	for {
		l.step()
	}
}

func (l *Loop) step() {
	port := l.cfg.Port

	if l.debounce.Pending() {
		l.handleDebounce(port)
		l.pump.HandleBMCPacket(port, false)
	} else {
		l.cfg.Link.CheckPortState(port)

		l.pump.HandleBMCPacket(port, true)
		l.cfg.NCSI.HandlePassthrough()

		l.handleHostStateChange(port)
	}

	for _, p := range ape.Ports() {
		loader.HandleCommand(&p.SHM)
	}
}

func (l *Loop) handleDebounce(port *ape.Port) {
	status := port.Peripheral.Status()
	status2 := port.Peripheral.Status2()

	if ape.ResetInProgress(status, status2) {
		port.Peripheral.AckStatus(status)
		port.Peripheral.AckStatus2(status2)
		l.debounce.Restart() // still settling
		return
	}

	if !l.debounce.ElapsedSince(GRCResetTimeoutMS) {
		return
	}

	ape.ClearPending(ape.IRQGeneralReset)
	l.debounce.Clear()

	console.Printf("Handling reset...\n")

	reset.WaitForAll()
	l.cfg.NCSI.Reload(ncsi.AsNeeded)

	ape.EnableInterrupt(ape.IRQGeneralReset)
}

func (l *Loop) handleHostStateChange(port *ape.Port) {
	state := port.SHM.HostDriverState()

	if state != l.hostState {
		l.hostState = state

		switch state {
		case ape.HostStateStart:
			console.Printf("host started\n")
			l.resetAllowed = true
		case ape.HostStateUnload:
			console.Printf("host unloaded.\n")
			l.resetAllowed = false
		default:
			console.Printf("wol?\n")
			l.resetAllowed = false
		}

		return
	}

	if l.resetAllowed && !l.cfg.Link.CheckEnableState(port) && !l.debounce.Pending() {
		console.Printf("APE mode change, resetting.\n")

		reset.WaitForAll()
		l.cfg.NCSI.Reload(ncsi.AsNeeded)

		l.hostState = port.SHM.HostDriverState()
		l.resetAllowed = false
	}
}
