// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package rx implements the RX block reader (spec §4.C3): draining one
// packet out of a port's external-network receive ring, either into a
// local word buffer or streamed word-for-word into the BMC-to-NC transmit
// FIFO for forwarding up to the BMC. It is a leaf utility consumed by the
// out-of-scope NC-SI pass-through handling (ncsi.Controller.HandlePassthrough);
// this package owns only the ring traversal and retire bookkeeping.
package rx

import (
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// words rounds byte lengths up to whole words, mirroring the original
// DIVIDE_RND_UP(bytes, sizeof(uint32_t)).
func words(bytes int) int {
	return (bytes + 3) / 4
}

// ReadInto drains one packet from port's RX ring into buf, word by word.
// It reports the packet's length in bytes (4 per payload word traversed)
// and whether a valid packet was present. Words beyond len(buf) are read
// and discarded but still counted, so n can exceed 4*len(buf). Exactly the window register's Count blocks are traversed and
// retired as a single range — no block is retired twice (spec §8 RX drain
// completeness).
func ReadInto(port *ape.Port, buf []uint32) (n int, ok bool) {
	win := port.Peripheral.RxWindow()
	if !win.Valid {
		return 0, false
	}

	blockID := win.Head
	remaining := win.Count
	pos := 0

	for remaining > 0 {
		ctrl := port.Rx.Control(blockID)
		n := words(ctrl.PayloadLength)

		for i := 0; i < n; i++ {
			word := port.Rx.PayloadWord(blockID, i, ctrl.First)

			if pos < len(buf) {
				buf[pos] = word
			}

			pos++
		}

		blockID = ctrl.NextBlock
		remaining--
	}

	port.Peripheral.Retire(win.Head, win.Tail, win.Count)
	port.Peripheral.AckRxWindow()

	return 4 * pos, true
}

// PassthroughStream drains one packet from port's RX ring directly into
// the BMC-to-NC transmit FIFO, retiring each block individually (instead
// of once for the whole chain) so that FIFO backpressure on one block
// cannot stall blocks behind it (spec §4.C3, grounded on
// original_source/libs/Network/rx.c's Network_PassthroughRxPatcket, which
// retires inside the traversal loop for exactly this reason). It reports
// whether a packet was drained.
func PassthroughStream(port *ape.Port) bool {
	win := port.Peripheral.RxWindow()
	if !win.Valid {
		return false
	}

	blockID := win.Head
	remaining := win.Count

	for remaining > 0 {
		remaining--

		ctrl := port.Rx.Control(blockID)
		n := words(ctrl.PayloadLength)

		// Wait once for the whole block's words to fit, per spec §4.C3.
		port.Peripheral.WaitTxFifo(n)

		for i := 0; i < n-1; i++ {
			port.Peripheral.WriteTxBuffer(port.Rx.PayloadWord(blockID, i, ctrl.First))
		}

		if n > 0 {
			last := port.Rx.PayloadWord(blockID, n-1, ctrl.First)

			if remaining > 0 {
				port.Peripheral.WriteTxBuffer(last)
			} else {
				// Final word of the final block: post to BufferLast
				// after the "full word" control write, marking the
				// packet boundary (spec §4.C3, §8 pass-through word
				// count invariant: exactly one BufferLast write).
				port.Peripheral.WriteTxLast(last)
			}
		}

		port.Peripheral.Retire(blockID, blockID, 1)
		blockID = ctrl.NextBlock
	}

	port.Peripheral.AckRxWindow()

	return true
}
