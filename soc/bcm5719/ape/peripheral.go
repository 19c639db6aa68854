// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import (
	"runtime"

	"github.com/broadcom/bcm5719-ape/internal/reg"
)

// Peripheral register offsets, relative to a Port's peripheral base.
const (
	PERI_STATUS  = 0x00 // Port0GRCReset, Port1GRCReset, VMAIN power status
	PERI_STATUS2 = 0x04 // Port2GRCReset, Port3GRCReset
	PERI_GPIO    = 0x08 // clock-mux bit-bang pins

	PERI_BMC_TO_NC_RX_STATUS = 0x10
	PERI_BMC_TO_NC_RX_BUFFER = 0x14
	PERI_BMC_TO_NC_TX_STATUS = 0x18
	PERI_BMC_TO_NC_TX_BUFFER = 0x1c
	PERI_BMC_TO_NC_TX_LAST   = 0x20
	PERI_BMC_TO_NC_TX_CTRL   = 0x24

	PERI_RX_WINDOW = 0x30 // RxbufoffsetFuncN
	PERI_RX_RETIRE = 0x34 // RxPoolRetireN

	// Status/Status2 bit positions.
	STATUS_PORT0_GRC_RESET = 0
	STATUS_PORT1_GRC_RESET = 1
	STATUS_VMAIN_POWER     = 8

	STATUS2_PORT2_GRC_RESET = 0
	STATUS2_PORT3_GRC_RESET = 1

	// Gpio pins used to bit-bang the recovery clock into the PHY block
	// through the clock multiplexer (spec §4.C4).
	GPIO_PIN0_DIR  = 0 // Clock_P direction (output)
	GPIO_PIN1_DIR  = 1 // Clock_N direction (output)
	GPIO_PIN2_DIR  = 2 // Clock-mux select direction (output)
	GPIO_PIN0_DATA = 16
	GPIO_PIN1_DATA = 17
	GPIO_PIN2_DATA = 18 // 1 = APE-driven mux, 0 = PCIe clock

	// BmcToNcRxStatus bit-fields.
	RXSTAT_NEW         = 0
	RXSTAT_BAD         = 1
	RXSTAT_IN_PROGRESS = 2
	RXSTAT_PASSTHRU    = 3
	RXSTAT_FIFO_RESET  = 4 // write-1 reinitializes the RMU state machine
	RXSTAT_LENGTH_POS  = 8
	RXSTAT_LENGTH_MASK = 0xffff

	// BmcToNcTxStatus bit-fields.
	TXSTAT_IN_FIFO_POS  = 0
	TXSTAT_IN_FIFO_MASK = 0xffff

	// RX window register bit-fields. Block ids index a bounded ring (well
	// under the 23-bit next_block field width a block's control word
	// carries, see BlockControl), so a 9-bit field is ample here.
	RXWIN_VALID      = 0
	RXWIN_HEAD_POS   = 1
	RXWIN_HEAD_MASK  = 0x1ff
	RXWIN_TAIL_POS   = 10
	RXWIN_TAIL_MASK  = 0x1ff
	RXWIN_COUNT_POS  = 19
	RXWIN_COUNT_MASK = 0x1ff
	RXWIN_ACK_BIT    = 31

	// Retire record bit-fields.
	RETIRE_HEAD_POS   = 0
	RETIRE_HEAD_MASK  = 0x1ff
	RETIRE_TAIL_POS   = 9
	RETIRE_TAIL_MASK  = 0x1ff
	RETIRE_COUNT_POS  = 18
	RETIRE_COUNT_MASK = 0x1ff
	RETIRE_COMMIT_BIT = 31
)

// Peripheral is the shared RMU/GPIO/reset-status register window.
type Peripheral struct {
	Base uint32

	status   uint32
	status2  uint32
	gpio     uint32
	rxStatus uint32
	rxBuffer uint32
	txStatus uint32
	txBuffer uint32
	txLast   uint32
	txCtrl   uint32
	rxWindow uint32
	rxRetire uint32
}

func (p *Peripheral) init() {
	p.status = p.Base + PERI_STATUS
	p.status2 = p.Base + PERI_STATUS2
	p.gpio = p.Base + PERI_GPIO
	p.rxStatus = p.Base + PERI_BMC_TO_NC_RX_STATUS
	p.rxBuffer = p.Base + PERI_BMC_TO_NC_RX_BUFFER
	p.txStatus = p.Base + PERI_BMC_TO_NC_TX_STATUS
	p.txBuffer = p.Base + PERI_BMC_TO_NC_TX_BUFFER
	p.txLast = p.Base + PERI_BMC_TO_NC_TX_LAST
	p.txCtrl = p.Base + PERI_BMC_TO_NC_TX_CTRL
	p.rxWindow = p.Base + PERI_RX_WINDOW
	p.rxRetire = p.Base + PERI_RX_RETIRE
}

// Status returns the Status register as a bit-field word.
func (p *Peripheral) Status() reg.Word {
	return reg.Word(reg.Read(p.status))
}

// AckStatus writes back the Status register, acknowledging any
// write-one-to-clear bits it carried.
func (p *Peripheral) AckStatus(w reg.Word) {
	reg.Write(p.status, uint32(w))
}

// Status2 returns the Status2 register as a bit-field word.
func (p *Peripheral) Status2() reg.Word {
	return reg.Word(reg.Read(p.status2))
}

// AckStatus2 writes back the Status2 register.
func (p *Peripheral) AckStatus2(w reg.Word) {
	reg.Write(p.status2, uint32(w))
}

// ResetInProgress reports whether any of the four per-port GRCReset bits
// are asserted across Status/Status2.
func ResetInProgress(status, status2 reg.Word) bool {
	return status.Bit(STATUS_PORT0_GRC_RESET) ||
		status.Bit(STATUS_PORT1_GRC_RESET) ||
		status2.Bit(STATUS2_PORT2_GRC_RESET) ||
		status2.Bit(STATUS2_PORT3_GRC_RESET)
}

// VMAINPower reports whether the main (as opposed to auxiliary) voltage
// rail is currently supplying the device.
func (p *Peripheral) VMAINPower() bool {
	return p.Status().Bit(STATUS_VMAIN_POWER)
}

// Gpio returns the clock-mux GPIO register as a bit-field word.
func (p *Peripheral) Gpio() reg.Word {
	return reg.Word(reg.Read(p.gpio))
}

// SetGpio writes the clock-mux GPIO register.
func (p *Peripheral) SetGpio(w reg.Word) {
	reg.Write(p.gpio, uint32(w))
}

// RxStatus returns the BMC-to-NC receive status register (RMU status,
// spec §3).
func (p *Peripheral) RxStatus() reg.Word {
	return reg.Word(reg.Read(p.rxStatus))
}

// New, Bad, InProgress, Passthru, and PacketLength decode RxStatus's
// named fields.
func RxNew(s reg.Word) bool        { return s.Bit(RXSTAT_NEW) }
func RxBad(s reg.Word) bool        { return s.Bit(RXSTAT_BAD) }
func RxInProgress(s reg.Word) bool { return s.Bit(RXSTAT_IN_PROGRESS) }
func RxPassthru(s reg.Word) bool   { return s.Bit(RXSTAT_PASSTHRU) }
func RxPacketLength(s reg.Word) int {
	return int(s.Field(RXSTAT_LENGTH_POS, RXSTAT_LENGTH_MASK))
}

// ReadRxBuffer pops one word from the BMC-to-NC receive FIFO.
func (p *Peripheral) ReadRxBuffer() uint32 {
	return reg.Read(p.rxBuffer)
}

// AckRxStatus writes the current RxStatus register back to itself,
// acknowledging its write-one-to-clear bits (New/Bad). Used to discard a
// packet the RMU has flagged as bad.
func (p *Peripheral) AckRxStatus() {
	reg.Write(p.rxStatus, reg.Read(p.rxStatus))
}

// ResetRMU reinitializes the RMU state machine: it is used unconditionally
// once during bring-up and, at runtime, to recover from an InProgress
// status that never resolved to New. Unlike AckRxStatus's plain
// write-back of whatever the hardware last reported, this always asserts
// the FifoReset bit, forcing the state machine back to idle regardless of
// its current RxStatus contents.
func (p *Peripheral) ResetRMU() {
	var w reg.Word
	w = w.WithBit(RXSTAT_FIFO_RESET, true)

	reg.Write(p.rxStatus, uint32(w))
}

// TxInFifo returns the free word depth of the BMC-to-NC transmit FIFO.
func (p *Peripheral) TxInFifo() int {
	return int(reg.Get(p.txStatus, TXSTAT_IN_FIFO_POS, TXSTAT_IN_FIFO_MASK))
}

// WaitTxFifo blocks until the transmit FIFO has room for at least n words.
func (p *Peripheral) WaitTxFifo(n int) {
	for p.TxInFifo() < n {
		runtime.Gosched()
	}
}

// WriteTxBuffer pushes one word into the BMC-to-NC transmit FIFO.
func (p *Peripheral) WriteTxBuffer(v uint32) {
	reg.Write(p.txBuffer, v)
}

// WriteTxLast posts the final word of a packet to the transmit FIFO,
// first writing the "full word" control value so the hardware knows the
// packet boundary falls on this word.
func (p *Peripheral) WriteTxLast(v uint32) {
	reg.Write(p.txCtrl, 0)
	reg.Write(p.txLast, v)
}

// RxWindow is the decoded RX buffer window register (spec §3).
type RxWindow struct {
	Valid bool
	Head  uint32
	Tail  uint32
	Count uint32
}

// RxWindow reads and decodes the RX buffer window register.
func (p *Peripheral) RxWindow() RxWindow {
	w := reg.Word(reg.Read(p.rxWindow))

	return RxWindow{
		Valid: w.Bit(RXWIN_VALID),
		Head:  w.Field(RXWIN_HEAD_POS, RXWIN_HEAD_MASK),
		Tail:  w.Field(RXWIN_TAIL_POS, RXWIN_TAIL_MASK),
		Count: w.Field(RXWIN_COUNT_POS, RXWIN_COUNT_MASK),
	}
}

// AckRxWindow writes back the RX buffer window register with the
// consumption-acknowledge bit set.
func (p *Peripheral) AckRxWindow() {
	w := reg.Word(reg.Read(p.rxWindow)).WithBit(RXWIN_ACK_BIT, true)
	reg.Write(p.rxWindow, uint32(w))
}

// Retire returns a block range (or single block) to the hardware pool.
func (p *Peripheral) Retire(head, tail, count uint32) {
	var w reg.Word

	w = w.WithField(RETIRE_HEAD_POS, RETIRE_HEAD_MASK, head)
	w = w.WithField(RETIRE_TAIL_POS, RETIRE_TAIL_MASK, tail)
	w = w.WithField(RETIRE_COUNT_POS, RETIRE_COUNT_MASK, count)
	w = w.WithBit(RETIRE_COMMIT_BIT, true)

	reg.Write(p.rxRetire, uint32(w))
}
