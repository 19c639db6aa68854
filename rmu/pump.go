// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package rmu implements the BMC-to-NC packet pump (spec §4.C5): draining
// the RMU receive FIFO one packet at a time, routing control frames to
// NC-SI and pass-through frames to the network TX collaborator, and
// watching for the RMU state machine getting stuck mid-packet.
package rmu

import (
	"encoding/binary"

	"github.com/broadcom/bcm5719-ape/console"
	"github.com/broadcom/bcm5719-ape/internal/msclock"
	"github.com/broadcom/bcm5719-ape/internal/reg"
	"github.com/broadcom/bcm5719-ape/ncsi"
	"github.com/broadcom/bcm5719-ape/network"
	"github.com/broadcom/bcm5719-ape/reset"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// WatchdogMS bounds how long the RMU status register may report a packet
// in progress before the pump concludes the state machine is wedged.
const WatchdogMS = 10

// MaxPacketWords bounds how large a control frame this pump will buffer;
// larger reported lengths are drained and dropped rather than risk
// overrunning the buffer, mirroring the original firmware's fixed 1024
// word scratch buffer.
const MaxPacketWords = 1024

// Pump drains one port's BMC-to-NC receive path. It carries the
// in-progress watchdog state across calls, so a single Pump must not be
// shared between goroutines driving the same port concurrently.
type Pump struct {
	NCSI  ncsi.Controller
	TX    network.TX
	Drops *console.Limiter // optional; nil logs unconditionally

	packetInProgress bool
	inProgressStart  uint32

	buf [MaxPacketWords]uint32
}

// HandleBMCPacket drains at most one packet from the port's RMU receive
// path. passthroughEnabled gates whether pass-through frames are actually
// forwarded to TX, or merely counted and dropped (spec §4.C8: the loader
// passes false while a GRC reset is being waited out).
func (pump *Pump) HandleBMCPacket(port *ape.Port, passthroughEnabled bool) {
	stat := port.Peripheral.RxStatus()

	switch {
	case ape.RxNew(stat):
		pump.packetInProgress = false

		if ape.RxBad(stat) {
			port.Peripheral.AckRxStatus()
			return
		}

		pump.drainPacket(port, stat, passthroughEnabled)

	case ape.RxInProgress(stat):
		pump.watchInProgress(port)
	}
}

func (pump *Pump) drop(key, message string) {
	if pump.Drops != nil {
		pump.Drops.Drop(key, message)
		return
	}

	print(message)
}

func (pump *Pump) drainPacket(port *ape.Port, stat reg.Word, passthroughEnabled bool) {
	bytes := ape.RxPacketLength(stat)
	words := (bytes + 3) / 4

	if !ape.RxPassthru(stat) {
		if words > len(pump.buf) {
			pump.drop("drop-ncsi", "Dropping NCSI packet\n")
			pump.discard(port, words)
			return
		}

		for i := 0; i < words; i++ {
			pump.buf[i] = port.Peripheral.ReadRxBuffer()
		}

		pump.NCSI.HandleFrame(wordsToBytes(pump.buf[:words], bytes))

		return
	}

	port.SHM.IncrementChannelRx()

	if port.SHM.ChannelEnabled() && passthroughEnabled {
		// TX drains the pass-through frame directly from the BMC-to-NC
		// receive FIFO; this pump must not consume it first.
		if !pump.TX.TransmitPassthrough(bytes, port) {
			print("Resetting TX...\n")
			reset.WaitForAll()
			pump.NCSI.Reload(ncsi.AsNeeded)
		}
	} else {
		pump.drop("drop-pt", "Dropping PT\n")
		pump.discard(port, words)
	}
}

// discard pops and ignores words from the receive FIFO, for packets this
// pump has decided not to keep.
func (pump *Pump) discard(port *ape.Port, words int) {
	for i := 0; i < words; i++ {
		_ = port.Peripheral.ReadRxBuffer()
	}
}

func (pump *Pump) watchInProgress(port *ape.Port) {
	if !pump.packetInProgress {
		pump.packetInProgress = true
		pump.inProgressStart = msclock.Now()
		return
	}

	// In some cases (RMU reset during startup with active communication)
	// the RMU state machine can enter a stuck state, seen as InProgress
	// for an unreasonable amount of time.
	if msclock.ElapsedSince(pump.inProgressStart, WatchdogMS) {
		print("RMU Hang detected, resetting.\n")
		port.Peripheral.ResetRMU()
		pump.packetInProgress = false
	}
}

func wordsToBytes(words []uint32, n int) []byte {
	buf := make([]byte, len(words)*4)

	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}

	return buf[:n]
}
