// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

// Word is a newtype over a 32-bit register image, giving bit-field views
// accessor methods instead of raw memory reinterpretation (a C union over
// a uint32). Volatility belongs to the MMIO accessors (Get/Set/... in
// reg.go and mock.go),
// not to Word: a Word is always a snapshot, read once with Read() and
// written back once with Write() by its caller.
type Word uint32

// Bit reports whether the bit at pos is set.
func (w Word) Bit(pos int) bool {
	return (uint32(w)>>uint(pos))&1 == 1
}

// WithBit returns a copy of w with the bit at pos set to val.
func (w Word) WithBit(pos int, val bool) Word {
	if val {
		return w | (1 << uint(pos))
	}
	return w &^ (1 << uint(pos))
}

// Field returns the mask-wide field at pos.
func (w Word) Field(pos int, mask uint32) uint32 {
	return (uint32(w) >> uint(pos)) & mask
}

// WithField returns a copy of w with the mask-wide field at pos set to val.
func (w Word) WithField(pos int, mask uint32, val uint32) Word {
	cleared := uint32(w) &^ (mask << uint(pos))
	return Word(cleared | ((val & mask) << uint(pos)))
}
