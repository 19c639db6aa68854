// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package loader

import (
	"testing"
	"unsafe"

	"github.com/broadcom/bcm5719-ape/internal/reg"
	"github.com/broadcom/bcm5719-ape/soc/bcm5719/ape"
)

func newTestSHM() *ape.SHM {
	reg.Reset()

	// Port 0's SHM, whose register addresses the ape package computes at
	// package init; InitSHM only populates the generic segment.
	s := &ape.GetPort(0).SHM
	s.InitSHM(1)

	return s
}

func TestHandleCommandNoneIsNoOp(t *testing.T) {
	s := newTestSHM()

	HandleCommand(s) // must not panic or touch anything
}

func TestHandleCommandReadMem(t *testing.T) {
	s := newTestSHM()

	var target uint32 = 0xcafebabe
	addr := uint32(uintptr(unsafe.Pointer(&target)))

	reg.Write(s.LoaderBase+ape.SHM_LOADER_COMMAND, ape.CmdReadMem)
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG0, addr)

	HandleCommand(s)

	if got := s.LoaderArg0(); got != 0xcafebabe {
		t.Fatalf("LoaderArg0 after ReadMem = %#x, want %#x", got, uint32(0xcafebabe))
	}
	if got := s.LoaderCommand(); got != ape.CmdNone {
		t.Fatalf("LoaderCommand after handling = %d, want CmdNone", got)
	}
}

func TestHandleCommandWriteMem(t *testing.T) {
	s := newTestSHM()

	var target uint32
	addr := uint32(uintptr(unsafe.Pointer(&target)))

	reg.Write(s.LoaderBase+ape.SHM_LOADER_COMMAND, ape.CmdWriteMem)
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG0, addr)
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG1, 0x1234)

	HandleCommand(s)

	if target != 0x1234 {
		t.Fatalf("target = %#x, want %#x", target, 0x1234)
	}
	if got := s.LoaderCommand(); got != ape.CmdNone {
		t.Fatalf("LoaderCommand after handling = %d, want CmdNone", got)
	}
}

var callTestResult uint32

func callTestTarget(arg uint32) {
	callTestResult = arg
}

func TestHandleCommandCallNoOpWhenNotAllowed(t *testing.T) {
	s := newTestSHM()
	callTestResult = 0
	AllowCall = false

	fn := callTestTarget
	fnPtr := *(*uintptr)(unsafe.Pointer(&fn))
	codeAddr := *(*uintptr)(unsafe.Pointer(fnPtr))

	reg.Write(s.LoaderBase+ape.SHM_LOADER_COMMAND, ape.CmdCall)
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG0, uint32(codeAddr))
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG1, 0x55)

	HandleCommand(s)

	if callTestResult != 0 {
		t.Fatalf("call arg = %#x, want 0 (CmdCall must be a no-op while AllowCall is false)", callTestResult)
	}
	if got := s.LoaderCommand(); got != ape.CmdNone {
		t.Fatalf("LoaderCommand after handling = %d, want CmdNone", got)
	}
}

func TestHandleCommandCall(t *testing.T) {
	s := newTestSHM()
	callTestResult = 0
	AllowCall = true
	defer func() { AllowCall = false }()

	fn := callTestTarget

	// A Go func value is a pointer to a funcval whose first word is the
	// code entry address; unwrap it the way the production call() helper
	// expects arg0 to already be shaped.
	fnPtr := *(*uintptr)(unsafe.Pointer(&fn))
	codeAddr := *(*uintptr)(unsafe.Pointer(fnPtr))

	reg.Write(s.LoaderBase+ape.SHM_LOADER_COMMAND, ape.CmdCall)
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG0, uint32(codeAddr))
	reg.Write(s.LoaderBase+ape.SHM_LOADER_ARG1, 0x55)

	HandleCommand(s)

	if callTestResult != 0x55 {
		t.Fatalf("call arg = %#x, want %#x", callTestResult, 0x55)
	}
}
