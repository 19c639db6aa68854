// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import (
	"github.com/broadcom/bcm5719-ape/internal/reg"
)

// SegSigAPE is the literal four-byte tag 'A','P','E','!' that SegSig must
// read as, in the processor's native (little) endianness, after initSHM
// (spec §9 Design Note: pin the byte order from explicit bytes rather than
// a multi-character integer literal).
const SegSigAPE = uint32('A') | uint32('P')<<8 | uint32('E')<<16 | uint32('!')<<24

// SegSigRCPU is the signature the receive CPU's own firmware writes to
// announce it has finished initialization (spec §3, §4.C4).
const SegSigRCPU = uint32('R') | uint32('C')<<8 | uint32('P')<<16 | uint32('U')<<24

// SegSigSubLoader is the sub-signature byte this firmware stamps into the
// low 8 bits of SegSig while it is active, ahead of the subsequent
// initSHM call (spec §6).
const SegSigSubLoader = 0x4c // 'L', chosen distinct from the SegSigAPE low byte

// Host driver states (spec §6). Any value other than Start/Unload is
// interpreted as a wake-on-LAN configuration.
const (
	HostStateUnload = 0
	HostStateStart  = 1
)

// Loader mailbox commands (spec §4.C7).
const (
	CmdNone     = 0
	CmdReadMem  = 1
	CmdWriteMem = 2
	CmdCall     = 3
)

// SHM offsets within the generic segment.
const (
	SHM_SEG_SIG      = 0x00
	SHM_FW_VERSION   = 0x04
	SHM_FW_FEATURES  = 0x08
	SHM_FW_STATUS    = 0x0c
	SHM_HOST_STATE   = 0x10
	SHM_RCPU_SEG_SIG = 0x14

	FW_FEATURES_NCSI = 0
	FW_STATUS_READY  = 0

	SEG_SIG_SUB_POS  = 0
	SEG_SIG_SUB_MASK = 0xff
)

// Loader segment offsets.
const (
	SHM_LOADER_COMMAND = 0x00
	SHM_LOADER_ARG0    = 0x04
	SHM_LOADER_ARG1    = 0x08
)

// Channel-info segment offsets.
const (
	SHM_CHANNEL_INFO   = 0x00 // bit 0: Enabled
	SHM_CHANNEL_NCSIRX = 0x04 // NcsiChannelNcsiRx counter

	CHANNEL_INFO_ENABLED = 0
)

// SHM is a port's three-segment shared-memory mailbox (spec §3): a
// generic segment (signature, version, feature/status flags, host driver
// state, RX CPU readiness signature), a loader segment (the debug
// peek/poke/call mailbox), and a channel-info segment (NC-SI channel
// enable flag and receive counter).
type SHM struct {
	GenericBase uint32
	LoaderBase  uint32
	ChannelBase uint32

	segSig      uint32
	fwVersion   uint32
	fwFeatures  uint32
	fwStatus    uint32
	hostState   uint32
	rcpuSegSig  uint32
	loaderCmd   uint32
	loaderArg0  uint32
	loaderArg1  uint32
	channelInfo uint32
	ncsiRx      uint32
}

func (s *SHM) init() {
	s.segSig = s.GenericBase + SHM_SEG_SIG
	s.fwVersion = s.GenericBase + SHM_FW_VERSION
	s.fwFeatures = s.GenericBase + SHM_FW_FEATURES
	s.fwStatus = s.GenericBase + SHM_FW_STATUS
	s.hostState = s.GenericBase + SHM_HOST_STATE
	s.rcpuSegSig = s.GenericBase + SHM_RCPU_SEG_SIG

	s.loaderCmd = s.LoaderBase + SHM_LOADER_COMMAND
	s.loaderArg0 = s.LoaderBase + SHM_LOADER_ARG0
	s.loaderArg1 = s.LoaderBase + SHM_LOADER_ARG1

	s.channelInfo = s.ChannelBase + SHM_CHANNEL_INFO
	s.ncsiRx = s.ChannelBase + SHM_CHANNEL_NCSIRX
}

// SegSig returns the generic segment signature word.
func (s *SHM) SegSig() uint32 {
	return reg.Read(s.segSig)
}

// StampLoaderSignature marks the low byte of the signature word with this
// firmware's sub-signature. InitSHM, called immediately after during
// bring-up, overwrites the whole word with SegSigAPE regardless — this
// mirrors the original firmware's own ordering (spec §4.C8) rather than
// asserting any surviving effect of the stamp.
func (s *SHM) StampLoaderSignature() {
	w := reg.Word(reg.Read(s.segSig)).WithField(SEG_SIG_SUB_POS, SEG_SIG_SUB_MASK, SegSigSubLoader)
	reg.Write(s.segSig, uint32(w))
}

// InitSHM populates the generic segment: firmware version, the NCSI
// feature bit, the ready status bit, and the APE! signature (spec §3, §6).
func (s *SHM) InitSHM(version uint32) {
	var features, status reg.Word

	features = features.WithBit(FW_FEATURES_NCSI, true)
	status = status.WithBit(FW_STATUS_READY, true)

	reg.Write(s.fwVersion, version)
	reg.Write(s.fwFeatures, uint32(features))
	reg.Write(s.fwStatus, uint32(status))
	reg.Write(s.segSig, SegSigAPE)
}

// HostDriverState returns the host-driven, MC-read-only driver state word.
func (s *SHM) HostDriverState() uint32 {
	return reg.Read(s.hostState)
}

// RcpuSegSig returns the receive CPU's own signature word.
func (s *SHM) RcpuSegSig() uint32 {
	return reg.Read(s.rcpuSegSig)
}

// LoaderCommand, LoaderArg0, LoaderArg1, SetLoaderArg0, AckLoaderCommand
// implement the loader mailbox (spec §4.C7).
func (s *SHM) LoaderCommand() uint32 { return reg.Read(s.loaderCmd) }
func (s *SHM) LoaderArg0() uint32    { return reg.Read(s.loaderArg0) }
func (s *SHM) LoaderArg1() uint32    { return reg.Read(s.loaderArg1) }

func (s *SHM) SetLoaderArg0(v uint32) { reg.Write(s.loaderArg0, v) }

// AckLoaderCommand clears Command to 0, the mailbox's ACK.
func (s *SHM) AckLoaderCommand() { reg.Write(s.loaderCmd, CmdNone) }

// ChannelEnabled reports whether this port's NC-SI channel is enabled.
func (s *SHM) ChannelEnabled() bool {
	return reg.Word(reg.Read(s.channelInfo)).Bit(CHANNEL_INFO_ENABLED)
}

// IncrementChannelRx increments the channel's NcsiChannelNcsiRx counter.
// Per spec §4.C5/§4.C which preserves the upstream behavior, this is
// called on every pass-through arrival on the channel, including ones
// that are subsequently dropped.
func (s *SHM) IncrementChannelRx() {
	reg.Write(s.ncsiRx, reg.Read(s.ncsiRx)+1)
}

// ChannelRx returns the current value of the NcsiChannelNcsiRx counter,
// for tests.
func (s *SHM) ChannelRx() uint32 {
	return reg.Read(s.ncsiRx)
}
