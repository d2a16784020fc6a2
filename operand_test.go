package main

import (
	"testing"

	"github.com/matryer/is"
)

func TestAutoIncrementFloat(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(003000, 0x4080, 0)
	kb.R[2] = 003000
	exec1(kb, iLDF|022) // LDF (R2)+, AC0
	is.Equal(kb.R[2], uint16(003004))
	is.Equal(kb.fp11.AC[0], fw(0x4080, 0))
}

func TestAutoIncrementDouble(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps = FPSD
	kb.Load(003000, 0x4080, 1, 2, 3)
	kb.R[2] = 003000
	exec1(kb, iLDF|022)
	is.Equal(kb.R[2], uint16(003010))
	is.Equal(kb.fp11.AC[0], fw(0x4080, 1, 2, 3))
}

func TestAutoDecrement(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.AC[0] = fw(0x4080, 0)
	kb.R[3] = 003000
	exec1(kb, iSTF|043) // STF AC0, -(R3)
	is.Equal(kb.R[3], uint16(002774))
	is.Equal(kb.unibus.read16(002774), uint16(0x4080))

	// decrement then increment is identity
	exec1(kb, iLDF|0100|023) // LDF (R3)+, AC1
	is.Equal(kb.R[3], uint16(003000))
	is.Equal(kb.fp11.AC[1], fw(0x4080, 0))
}

func TestImmediateAlwaysOneWord(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	// (PC)+ takes a single word even in double mode, zero extended
	// into the high end of the value
	kb.fp11.fps = FPSD
	exec1(kb, iLDF|027, 0x4080)
	is.Equal(kb.R[7], uint16(002004))
	is.Equal(kb.fp11.AC[0], fw(0x4080, 0, 0, 0))
}

func TestRegisterOperand(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.AC[1] = fw(0x41E0, 0)
	exec1(kb, iLDF|001) // LDF AC1, AC0
	is.Equal(kb.fp11.AC[0], fw(0x41E0, 0))

	// AC4 and AC5 are reachable only in register mode
	exec1(kb, iSTF|005) // STF AC0, AC5
	is.Equal(kb.fp11.AC[5], fw(0x41E0, 0))
}

func TestIndexMode(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(003000, 0x4100, 0)
	kb.R[2] = 002700
	exec1(kb, iLDF|062, 0100) // LDF 100(R2), AC0
	is.Equal(kb.fp11.AC[0], fw(0x4100, 0))
	is.Equal(kb.R[7], uint16(002004))
}

func TestDeferredMode(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(003000, 0x4100, 0)
	kb.Load(004000, 003000) // pointer
	kb.R[2] = 004000
	exec1(kb, iLDF|032) // LDF @(R2)+, AC0
	is.Equal(kb.fp11.AC[0], fw(0x4100, 0))
	is.Equal(kb.R[2], uint16(004002))
}

func TestIntegerOperandUsesGeneralRegisters(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.R[0] = FPSD
	exec1(kb, iLDFPS|000) // LDFPS R0
	is.Equal(kb.fp11.fps, uint16(FPSD))
	is.Equal(kb.fp11.fec, uint16(0))

	// R6 is legal for an integer operand, unlike a float operand
	kb.fp11.AC[0] = fw(0x4200, 0)
	exec1(kb, iSTEXP|006) // STEXP AC0, SP
	is.Equal(kb.R[6], uint16(4))
	is.Equal(kb.fp11.fec, uint16(0))
}

func TestWriteBackUsesCapturedAddress(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	// NEGF (R2)+ must write back to the address it read from, not the
	// stepped register
	kb.Load(003000, 0x4080, 0)
	kb.R[2] = 003000
	exec1(kb, iNEGF|022)
	is.Equal(kb.R[2], uint16(003004))
	is.Equal(kb.unibus.read16(003000), uint16(0xC080))
}
