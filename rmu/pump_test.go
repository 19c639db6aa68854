// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package rmu

import (
	"testing"

	"github.com/broadcom/bcm5719-ape/internal/msclock"
	"github.com/broadcom/bcm5719-ape/internal/reg"
	"github.com/broadcom/bcm5719-ape/ncsi"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

type fakeNCSI struct {
	frames   [][]byte
	reloaded []ncsi.ReloadPolicy
}

func (f *fakeNCSI) HandleFrame(frame []byte)  { f.frames = append(f.frames, append([]byte{}, frame...)) }
func (f *fakeNCSI) Init()                     {}
func (f *fakeNCSI) Reload(p ncsi.ReloadPolicy) { f.reloaded = append(f.reloaded, p) }
func (f *fakeNCSI) HandlePassthrough()        {}
func (f *fakeNCSI) UsePort(port *ape.Port)    {}

type fakeTX struct {
	ok    bool
	calls int
}

func (f *fakeTX) TransmitPassthrough(length int, port *ape.Port) bool {
	f.calls++
	return f.ok
}

func setRxStatus(port *ape.Port, w reg.Word) {
	reg.Write(port.Peripheral.Base+ape.PERI_BMC_TO_NC_RX_STATUS, uint32(w))
}

func TestHandleBMCPacketControlFrame(t *testing.T) {
	reg.Reset()

	port := ape.GetPort(0)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_NEW, true)
	w = w.WithField(ape.RXSTAT_LENGTH_POS, ape.RXSTAT_LENGTH_MASK, 8)
	setRxStatus(port, w)

	reg.Write(port.Peripheral.Base+ape.PERI_BMC_TO_NC_RX_BUFFER, 0x11111111)

	ncsiFake := &fakeNCSI{}
	pump := &Pump{NCSI: ncsiFake, TX: &fakeTX{}}

	pump.HandleBMCPacket(port, true)

	if len(ncsiFake.frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(ncsiFake.frames))
	}
	if len(ncsiFake.frames[0]) != 8 {
		t.Fatalf("frame length = %d, want 8", len(ncsiFake.frames[0]))
	}
}

func TestHandleBMCPacketBadPacketAcked(t *testing.T) {
	reg.Reset()

	port := ape.GetPort(1)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_NEW, true)
	w = w.WithBit(ape.RXSTAT_BAD, true)
	setRxStatus(port, w)

	ncsiFake := &fakeNCSI{}
	pump := &Pump{NCSI: ncsiFake, TX: &fakeTX{}}

	pump.HandleBMCPacket(port, true)

	if len(ncsiFake.frames) != 0 {
		t.Fatal("bad packet must not be delivered to NC-SI")
	}
	if got := reg.Read(port.Peripheral.Base + ape.PERI_BMC_TO_NC_RX_STATUS); got != 0 {
		t.Fatalf("RxStatus after ack = %#x, want 0 (write-back cleared it)", got)
	}
}

func TestHandleBMCPacketPassthroughDisabledChannelDrops(t *testing.T) {
	reg.Reset()

	port := ape.GetPort(2)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_NEW, true)
	w = w.WithBit(ape.RXSTAT_PASSTHRU, true)
	w = w.WithField(ape.RXSTAT_LENGTH_POS, ape.RXSTAT_LENGTH_MASK, 64)
	setRxStatus(port, w)

	tx := &fakeTX{ok: true}
	pump := &Pump{NCSI: &fakeNCSI{}, TX: tx}

	pump.HandleBMCPacket(port, true) // channel not enabled in SHM

	if tx.calls != 0 {
		t.Fatal("TX must not be invoked when the channel is disabled")
	}
	if got := port.SHM.ChannelRx(); got != 1 {
		t.Fatalf("ChannelRx = %d, want 1 (counted even though dropped)", got)
	}
}

func TestHandleBMCPacketPassthroughEnabledCallsTX(t *testing.T) {
	reg.Reset()

	port := ape.GetPort(3)
	reg.Set(port.SHM.ChannelBase+ape.SHM_CHANNEL_INFO, ape.CHANNEL_INFO_ENABLED)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_NEW, true)
	w = w.WithBit(ape.RXSTAT_PASSTHRU, true)
	w = w.WithField(ape.RXSTAT_LENGTH_POS, ape.RXSTAT_LENGTH_MASK, 64)
	setRxStatus(port, w)

	tx := &fakeTX{ok: true}
	pump := &Pump{NCSI: &fakeNCSI{}, TX: tx}

	pump.HandleBMCPacket(port, true)

	if tx.calls != 1 {
		t.Fatalf("TX.TransmitPassthrough calls = %d, want 1", tx.calls)
	}
}

func TestHandleBMCPacketTXFailureReloads(t *testing.T) {
	reg.Reset()
	msclock.Set(0)

	port := ape.GetPort(0)
	reg.Set(port.SHM.ChannelBase+ape.SHM_CHANNEL_INFO, ape.CHANNEL_INFO_ENABLED)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_NEW, true)
	w = w.WithBit(ape.RXSTAT_PASSTHRU, true)
	w = w.WithField(ape.RXSTAT_LENGTH_POS, ape.RXSTAT_LENGTH_MASK, 64)
	setRxStatus(port, w)

	for i := 0; i < ape.NumPorts; i++ {
		reg.Set(ape.GetPort(i).Device.Base+ape.DEVICE_RX_RISC_STATUS, ape.RX_RISC_STATUS_HALTED)
	}

	ncsiFake := &fakeNCSI{}
	tx := &fakeTX{ok: false}
	pump := &Pump{NCSI: ncsiFake, TX: tx}

	pump.HandleBMCPacket(port, true)

	if len(ncsiFake.reloaded) != 1 || ncsiFake.reloaded[0] != ncsi.AsNeeded {
		t.Fatalf("reloaded = %+v, want one AsNeeded reload", ncsiFake.reloaded)
	}
}

func TestHandleBMCPacketWatchdogRecoversStuckRMU(t *testing.T) {
	reg.Reset()
	msclock.Set(0)

	port := ape.GetPort(1)

	var w reg.Word
	w = w.WithBit(ape.RXSTAT_IN_PROGRESS, true)
	setRxStatus(port, w)

	pump := &Pump{NCSI: &fakeNCSI{}, TX: &fakeTX{}}

	pump.HandleBMCPacket(port, true) // arms the watchdog

	msclock.Advance(WatchdogMS)
	pump.HandleBMCPacket(port, true) // must detect the hang and clear it

	if pump.packetInProgress {
		t.Fatal("expected watchdog to clear packetInProgress once the timeout elapses")
	}
}
