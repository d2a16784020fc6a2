package main

import (
	"testing"

	"github.com/matryer/is"
)

// instruction encodings used by the tests
const (
	iCFCC  = 0170000
	iSETF  = 0170001
	iSETI  = 0170002
	iSETD  = 0170011
	iSETL  = 0170012
	iLDFPS = 0170100
	iSTFPS = 0170200
	iSTST  = 0170300
	iCLRF  = 0170400
	iTSTF  = 0170500
	iABSF  = 0170600
	iNEGF  = 0170700
	iMULF  = 0171000
	iMODF  = 0171400
	iADDF  = 0172000
	iLDF   = 0172400
	iSUBF  = 0173000
	iCMPF  = 0173400
	iSTF   = 0174000
	iDIVF  = 0174400
	iSTEXP = 0175000
	iSTCFI = 0175400
	iSTCFD = 0176000
	iLDEXP = 0176400
	iLDCIF = 0177000
	iLDCDF = 0177400
)

func testcpu() *KB11 {
	kb := new(KB11)
	kb.Reset()
	kb.R[6] = 001000
	return kb
}

// exec1 loads a single instruction at 002000 and steps the cpu once.
func exec1(kb *KB11, words ...uint16) {
	kb.Load(002000, words...)
	kb.R[7] = 002000
	kb.step()
}

func fw(words ...uint16) fpnum {
	var n fpnum
	copy(n[:], words)
	return n
}

func TestLDFPSSTFPS(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	exec1(kb, iLDFPS|027, FPSD|FPST|FPSIV)
	is.Equal(kb.fp11.fps, uint16(FPSD|FPST|FPSIV))

	exec1(kb, iSTFPS|000) // STFPS R0
	is.Equal(kb.R[0], uint16(FPSD|FPST|FPSIV))
}

func TestSETFSETD(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	exec1(kb, iSETD)
	is.Equal(kb.fp11.fps&FPSD, uint16(FPSD))
	is.Equal(kb.fp11.precision(), 4)

	exec1(kb, iSETF)
	is.Equal(kb.fp11.fps&FPSD, uint16(0))
	is.Equal(kb.fp11.precision(), 2)

	exec1(kb, iSETL)
	is.Equal(kb.fp11.fps&FPSL, uint16(FPSL))
	exec1(kb, iSETI)
	is.Equal(kb.fp11.fps&FPSL, uint16(0))
}

func TestCFCC(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps = FPSN | FPSC
	exec1(kb, iCFCC)
	is.Equal(kb.psw&017, uint16(FLAGN|FLAGC))
}

func TestIllegalOpcode(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	exec1(kb, 0170004) // no such zero operand form
	is.Equal(kb.fp11.fec, uint16(FECOP))
	is.True(kb.fp11.fps&FPSER != 0)
	is.True(kb.trapMask&010 != 0)
}

func TestIllegalAccumulator(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	exec1(kb, iADDF|006) // ADDF R6, AC0: no such accumulator
	is.Equal(kb.fp11.fec, uint16(FECOP))
	is.True(kb.fp11.fps&FPSER != 0)
}

func TestSTSTAfterTrap(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps = FPSID // hold the trap so the next step runs STST
	kb.fp11.AC[0] = fw(0x4100, 0)
	kb.Load(003000, 0, 0)
	kb.R[2] = 003000
	exec1(kb, iDIVF|012) // DIVF (R2), AC0: divisor is zero
	is.Equal(kb.fp11.fec, uint16(FECDIV))

	kb.R[3] = 003100
	exec1(kb, iSTST|013) // STST (R3)
	is.Equal(kb.unibus.read16(003100), uint16(FECDIV))
	is.Equal(kb.unibus.read16(003102), uint16(002000))
}

func TestTrapDelivery(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(INTFPP, 004000, 000340)
	kb.fp11.AC[0] = fw(0x4100, 0)
	kb.Load(003000, 0, 0)
	kb.R[2] = 003000
	exec1(kb, iDIVF|012)
	is.Equal(kb.fp11.fec, uint16(FECDIV))
	is.True(kb.trapMask&010 != 0)

	kb.step() // trap fires at the instruction boundary
	is.Equal(kb.R[7], uint16(004000))
	is.Equal(kb.trapMask&010, uint16(0))
}

func TestUndefinedVariableRead(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps = FPSIUV
	kb.fp11.AC[0] = fw(0x4100, 0)
	kb.Load(003000, 0x8000, 0)
	kb.R[2] = 003000
	exec1(kb, iLDF|012) // LDF (R2), AC0
	is.Equal(kb.fp11.fec, uint16(FECUV))
	is.True(kb.fp11.fps&FPSER != 0)
	is.True(kb.trapMask&010 != 0)
	is.Equal(kb.fp11.AC[0], fw(0x4100, 0)) // accumulator unchanged
}

func TestUndefinedVariableIgnored(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(003000, 0x8000, 0)
	kb.R[2] = 003000
	exec1(kb, iLDF|012)
	is.Equal(kb.fp11.fec, uint16(0))
	// minus zero tests as both negative and zero
	is.True(kb.fp11.fps&FPSN != 0)
	is.True(kb.fp11.fps&FPSZ != 0)
}

func TestABSFUndefinedTrapsAfter(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps = FPSIUV
	kb.Load(003000, 0x8000, 0)
	kb.R[2] = 003000
	exec1(kb, iABSF|012) // ABSF (R2)
	// the cleanup ran before the trap
	is.Equal(kb.unibus.read16(003000), uint16(0))
	is.Equal(kb.fp11.fec, uint16(FECUV))
	is.True(kb.fp11.fps&FPSZ != 0)
}

func TestNEGF(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(003000, 0x41E0, 0) // 7.0
	kb.R[2] = 003000
	exec1(kb, iNEGF|012)
	is.Equal(kb.unibus.read16(003000), uint16(0xC1E0))
	is.True(kb.fp11.fps&FPSN != 0)

	// negating zero yields clean zero, not minus zero
	kb.Load(003100, 0, 0)
	kb.R[3] = 003100
	exec1(kb, iNEGF|013)
	is.Equal(kb.unibus.read16(003100), uint16(0))
	is.True(kb.fp11.fps&FPSZ != 0)
}

func TestCLRFTSTF(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.AC[1] = fw(0xC1E0, 0) // -7.0
	exec1(kb, iTSTF|001)          // TSTF AC1
	is.True(kb.fp11.fps&FPSN != 0)
	is.True(kb.fp11.fps&FPSZ == 0)

	exec1(kb, iCLRF|001)
	is.Equal(kb.fp11.AC[1], fpnum{})
	is.True(kb.fp11.fps&FPSZ != 0)
	is.True(kb.fp11.fps&FPSN == 0)
}

func TestLDFCanonicalZero(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.AC[0] = fw(0x4100, 0)
	kb.Load(003000, 0, 0)
	kb.R[2] = 003000
	exec1(kb, iLDF|012)
	is.Equal(kb.fp11.AC[0], fpnum{})
	is.Equal(kb.fp11.fps&(FPSN|FPSZ|FPSV|FPSC), uint16(FPSZ))
}

func TestCMPF(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.AC[0] = fw(0x4120, 0) // 2.5
	kb.Load(003000, 0x41E0, 0)    // 7.0
	kb.R[2] = 003000
	exec1(kb, iCMPF|012) // 7.0 - 2.5 > 0
	is.Equal(kb.fp11.fps&(FPSN|FPSZ), uint16(0))

	kb.Load(003000, 0x4120, 0)
	exec1(kb, iCMPF|012)
	is.Equal(kb.fp11.fps&(FPSN|FPSZ), uint16(FPSZ))

	kb.Load(003000, 0xC1E0, 0) // -7.0
	exec1(kb, iCMPF|012)
	is.Equal(kb.fp11.fps&(FPSN|FPSZ), uint16(FPSN))

	// a compare leaves the accumulator alone
	is.Equal(kb.fp11.AC[0], fw(0x4120, 0))
}

func TestSTFLeavesCodes(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.fp11.fps |= FPSN | FPSC
	kb.fp11.AC[0] = fw(0x41E0, 0)
	kb.R[2] = 003000
	exec1(kb, iSTF|012)
	is.Equal(kb.unibus.read16(003000), uint16(0x41E0))
	is.Equal(kb.fp11.fps&(FPSN|FPSC), uint16(FPSN|FPSC))
}
