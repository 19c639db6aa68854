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

// RX block descriptor control word fields (spec §3): a single 32-bit word
// at the start of every block in the hardware-owned ring.
const (
	BLOCK_PAYLOAD_LENGTH_POS  = 0
	BLOCK_PAYLOAD_LENGTH_MASK = 0x7f // 7 bits, bytes

	BLOCK_NEXT_POS  = 7
	BLOCK_NEXT_MASK = 0x7fffff // 23 bits

	BLOCK_FIRST    = 30
	BLOCK_NOT_LAST = 31
)

// Block slot geometry: each ring entry reserves BlockWords 32-bit words.
// The control word occupies word 0; payload words start at a different
// offset for the first block of a packet (which reserves room ahead of
// the payload for delivery metadata) versus a continuation block.
const (
	BlockWords                 = 40
	FirstBlockPayloadWordOff   = 4
	ContinuationPayloadWordOff = 1
	MaxPayloadWordsPerBlock    = 32 // ceil(0x7f/4)
)

// BlockControl is the decoded RX block descriptor control word.
type BlockControl struct {
	PayloadLength int  // bytes
	NextBlock     uint32
	First         bool
	NotLast       bool
}

// RxRing is the hardware-owned receive block ring window.
type RxRing struct {
	Base uint32
}

func (r RxRing) wordAddr(blockID uint32, word int) uint32 {
	return r.Base + blockID*BlockWords*4 + uint32(word)*4
}

// Control reads and decodes a block's control word.
func (r RxRing) Control(blockID uint32) BlockControl {
	w := reg.Word(reg.Read(r.wordAddr(blockID, 0)))

	return BlockControl{
		PayloadLength: int(w.Field(BLOCK_PAYLOAD_LENGTH_POS, BLOCK_PAYLOAD_LENGTH_MASK)),
		NextBlock:     w.Field(BLOCK_NEXT_POS, BLOCK_NEXT_MASK),
		First:         w.Bit(BLOCK_FIRST),
		NotLast:       w.Bit(BLOCK_NOT_LAST),
	}
}

// PayloadWord reads payload word i (0-based) of a block, using the
// first-block or continuation-block offset as appropriate.
func (r RxRing) PayloadWord(blockID uint32, i int, first bool) uint32 {
	off := ContinuationPayloadWordOff

	if first {
		off = FirstBlockPayloadWordOff
	}

	return reg.Read(r.wordAddr(blockID, off+i))
}
