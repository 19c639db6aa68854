// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ape

import (
	"testing"

	"github.com/broadcom/bcm5719-ape/internal/reg"
)

func TestBlockControlRoundTrip(t *testing.T) {
	reg.Reset()

	ring := RxRing{Base: 0x40020000}

	var w reg.Word
	w = w.WithField(BLOCK_PAYLOAD_LENGTH_POS, BLOCK_PAYLOAD_LENGTH_MASK, 100)
	w = w.WithField(BLOCK_NEXT_POS, BLOCK_NEXT_MASK, 42)
	w = w.WithBit(BLOCK_FIRST, true)
	w = w.WithBit(BLOCK_NOT_LAST, true)

	reg.Write(ring.wordAddr(0, 0), uint32(w))

	ctrl := ring.Control(0)

	if ctrl.PayloadLength != 100 {
		t.Fatalf("PayloadLength = %d, want 100", ctrl.PayloadLength)
	}
	if ctrl.NextBlock != 42 {
		t.Fatalf("NextBlock = %d, want 42", ctrl.NextBlock)
	}
	if !ctrl.First || !ctrl.NotLast {
		t.Fatalf("First/NotLast = %v/%v, want true/true", ctrl.First, ctrl.NotLast)
	}
}

func TestBlockControlFieldsFitIn32Bits(t *testing.T) {
	// payload_length:7 + next_block:23 + first:1 + not_last:1 == 32.
	bits := 0
	for _, mask := range []uint32{BLOCK_PAYLOAD_LENGTH_MASK, BLOCK_NEXT_MASK} {
		n := 0
		for m := mask; m != 0; m >>= 1 {
			n++
		}
		bits += n
	}
	bits += 2 // first, not_last

	if bits != 32 {
		t.Fatalf("block control field width = %d bits, want 32", bits)
	}
}

func TestPayloadWordOffsetsDifferFirstVsContinuation(t *testing.T) {
	reg.Reset()

	ring := RxRing{Base: 0x40020000}

	reg.Write(ring.wordAddr(0, FirstBlockPayloadWordOff), 0xaaaa)
	reg.Write(ring.wordAddr(0, ContinuationPayloadWordOff), 0xbbbb)

	if got := ring.PayloadWord(0, 0, true); got != 0xaaaa {
		t.Fatalf("first-block PayloadWord(0) = %#x, want %#x", got, 0xaaaa)
	}
	if got := ring.PayloadWord(0, 0, false); got != 0xbbbb {
		t.Fatalf("continuation PayloadWord(0) = %#x, want %#x", got, 0xbbbb)
	}
}
