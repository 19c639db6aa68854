// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package loader implements the debug mailbox channel exposed to the host
// driver through a port's SHM loader segment (spec §4.C7): a tiny
// read/write/call command protocol, always acknowledged by clearing
// Command back to 0.
package loader

import (
	"unsafe"

	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

// AllowCall gates CmdCall, the mailbox opcode that invokes an arbitrary
// code address supplied by the host. It defaults to disabled; production
// builds should leave it off and only a debug build should set it true.
var AllowCall = false

// HandleCommand services at most one pending loader mailbox command on
// the given port's SHM. A Command of 0 means nothing is pending.
func HandleCommand(shm *ape.SHM) {
	command := shm.LoaderCommand()
	if command == ape.CmdNone {
		return
	}

	arg0 := shm.LoaderArg0()
	arg1 := shm.LoaderArg1()

	switch command {
	case ape.CmdReadMem:
		addr := (*uint32)(unsafe.Pointer(uintptr(arg0)))
		shm.SetLoaderArg0(*addr)

	case ape.CmdWriteMem:
		addr := (*uint32)(unsafe.Pointer(uintptr(arg0)))
		*addr = arg1

	case ape.CmdCall:
		if AllowCall {
			call(arg0, arg1)
		}
	}

	shm.AckLoaderCommand()
}

// funcval mirrors the runtime's single-word closure layout for a
// non-closure function value, letting call construct one over a raw
// code address instead of a compile-time function reference.
type funcval struct {
	fn uintptr
}

// call invokes the code at addr as a func(uint32), passing arg.
func call(addr uint32, arg uint32) {
	// A func value is a pointer to a funcval, not the funcval itself.
	fv := &funcval{fn: uintptr(addr)}
	fn := *(*func(uint32))(unsafe.Pointer(&fv))
	fn(arg)
}
