package main

import (
	"fmt"
)

// KB11 is the PDP11/70 processor. The FP11 hangs off it and is entered
// through the 17xxxx opcode family.
type KB11 struct {
	unibus UNIBUS
	mmu    KT11
	fp11   FP11

	pc uint16    // holds R[7] during instruction execution
	R  [8]uint16 // R0-R7

	psw          uint16    // processor status word
	stackpointer [4]uint16 // alternate R6 (kernel, super, illegal, user)

	// trapMask bit 3 is the FP11 trap pending signal, delivered at the
	// next instruction boundary
	trapMask uint16

	interrupts []interrupt

	halted bool
	debug  bool
}

func (kb *KB11) Reset() {
	kb.unibus.mmu = &kb.mmu
	kb.fp11.cpu = kb
	kb.unibus.reset()
	kb.psw = 0
	kb.trapMask = 0
	kb.halted = false
}

// Load deposits words into physical memory starting at addr.
func (kb *KB11) Load(addr addr18, words ...uint16) {
	for i, w := range words {
		kb.unibus.write16(addr+addr18(2*i), w)
	}
}

func (kb *KB11) Run() error {
	for !kb.halted {
		kb.step()
		kb.poll()
	}
	return nil
}

// poll gives the devices a turn. Device attention panics as an
// interrupt value which is queued for the next instruction boundary.
func (kb *KB11) poll() {
	defer func() {
		if r := recover(); r != nil {
			if i, ok := r.(interrupt); ok {
				kb.interrupts = append(kb.interrupts, i)
				return
			}
			panic(r)
		}
	}()
	kb.unibus.rk11.step()
	kb.unibus.cons.poll()
	kb.unibus.lineclock.tick()
}

func (kb *KB11) step() {
	defer func() {
		if r := recover(); r != nil {
			switch t := r.(type) {
			case trap:
				kb.trapat(t.vec)
			case interrupt:
				kb.interrupts = append(kb.interrupts, t)
			default:
				panic(r)
			}
		}
	}()

	if kb.trapMask&010 != 0 {
		kb.trapMask &^= 010
		kb.trapat(INTFPP)
		return
	}
	if len(kb.interrupts) > 0 && kb.interrupts[0].pri > kb.priority() {
		i := kb.interrupts[0]
		kb.interrupts = kb.interrupts[1:]
		kb.trapat(i.vec)
		return
	}

	kb.pc = kb.R[7]
	instr := kb.fetch16()
	if kb.debug {
		kb.printstate()
	}

	switch instr >> 12 { // xxSSDD mostly double operand instructions
	case 0: // 00xxxx mixed group
		switch instr >> 8 { // 8 bit instructions first (branch & JSR)
		case 0: // 000xXX misc zero group
			switch instr >> 6 {
			case 0: // 0000xx group
				switch instr {
				case 0: // HALT 000000
					kb.halted = true
				case 1: // WAIT 000001
					// next poll will deliver any device attention
				case 2, 6: // RTI 000002, RTT 000006
					kb.RTT()
				case 3: // BPT 000003
					kb.trapat(INTDEBUG)
				case 4: // IOT 000004
					kb.trapat(INTIOT)
				case 5: // RESET 000005
					kb.RESET()
				case 7: // MFPT 000007
					kb.trapat(INTINVAL) // not a PDP11/44
				default:
					kb.trapat(INTINVAL)
				}
			case 1: // JMP 0001DD
				kb.JMP(instr)
			case 2: // 00002xR single register group
				switch instr >> 3 & 7 {
				case 0: // RTS 00020R
					kb.RTS(instr)
				case 3: // SPL 00023N
					kb.writePSW(kb.psw&0xf81f | instr&7<<5)
				case 4, 5: // CLR CC 0002[45]C
					kb.writePSW(kb.psw &^ (instr & 017))
				case 6, 7: // SET CC 0002[67]C
					kb.writePSW(kb.psw | instr&017)
				default:
					kb.trapat(INTINVAL)
				}
			case 3: // SWAB 0003DD
				kb.SWAB(instr)
			}
		case 1: // BR 0004 offset
			kb.branch(instr)
		case 2, 3, 4, 5, 6, 7: // BNE through BLE
			kb.branchpair(instr)
		case 8, 9: // JSR 004RDD
			kb.JSR(instr)
		default: // remaining 00xxDD instructions
			kb.singleop(instr, 2)
		}
	case 1: // MOV 01SSDD
		kb.MOV(instr, 2)
	case 2: // CMP 02SSDD
		kb.CMP(instr, 2)
	case 3: // BIT 03SSDD
		kb.BIT(instr, 2)
	case 4: // BIC 04SSDD
		kb.BIC(instr, 2)
	case 5: // BIS 05SSDD
		kb.BIS(instr, 2)
	case 6: // ADD 06SSDD
		kb.ADD(instr)
	case 7: // 07xRSS EIS group
		switch instr >> 9 & 7 {
		case 0: // MUL 070RSS
			kb.MUL(instr)
		case 1: // DIV 071RSS
			kb.DIV(instr)
		case 2: // ASH 072RSS
			kb.ASH(instr)
		case 3: // ASHC 073RSS
			kb.ASHC(instr)
		case 4: // XOR 074RDD
			kb.XOR(instr)
		case 7: // SOB 077Rnn
			kb.SOB(instr)
		default:
			kb.trapat(INTINVAL)
		}
	case 8: // 10xxxx byte group
		switch instr >> 8 & 017 {
		case 0, 1, 2, 3, 4, 5, 6, 7: // B?? 100000-103777 branches
			kb.branchpair(instr)
		case 8: // EMT 1040 operand
			kb.trapat(INTEMT)
		case 9: // TRAP 1044 operand
			kb.trapat(INTTRAP)
		default:
			kb.singleop(instr, 1)
		}
	case 9: // MOVB 11SSDD
		kb.MOV(instr, 1)
	case 10: // CMPB 12SSDD
		kb.CMP(instr, 1)
	case 11: // BITB 13SSDD
		kb.BIT(instr, 1)
	case 12: // BICB 14SSDD
		kb.BIC(instr, 1)
	case 13: // BISB 15SSDD
		kb.BIS(instr, 1)
	case 14: // SUB 16SSDD
		kb.SUB(instr)
	default: // 17xxxx floating point
		kb.fp11.execute(instr)
	}
}

// branchpair decodes the conditional branch families that share an
// 8 bit opcode prefix, 0010xx-0034xx and 1000xx-1034xx.
func (kb *KB11) branchpair(instr uint16) {
	var take bool
	switch instr >> 9 & 077 {
	case 001: // BNE 0010, BEQ 0014
		take = instr&0400 == 0 != kb.z()
	case 002: // BGE 0020, BLT 0024
		take = instr&0400 != 0 == (kb.n() != kb.v())
	case 003: // BGT 0030, BLE 0034
		take = instr&0400 != 0 == ((kb.n() != kb.v()) || kb.z())
	case 0100: // BPL 1000, BMI 1004
		take = instr&0400 != 0 == kb.n()
	case 0101: // BHI 1010, BLOS 1014
		take = instr&0400 != 0 == (kb.c() || kb.z())
	case 0102: // BVC 1020, BVS 1024
		take = instr&0400 != 0 == kb.v()
	case 0103: // BCC 1030, BCS 1034
		take = instr&0400 != 0 == kb.c()
	default:
		kb.trapat(INTINVAL)
		return
	}
	if take {
		kb.branch(instr)
	}
}

// singleop decodes the 00xxDD/10xxDD single operand group.
func (kb *KB11) singleop(instr uint16, l uint16) {
	switch instr >> 6 & 077 {
	case 050: // CLR 0050DD
		kb.CLR(instr, l)
	case 051: // COM 0051DD
		kb.COM(instr, l)
	case 052: // INC 0052DD
		kb.INC(instr, l)
	case 053: // DEC 0053DD
		kb.DEC(instr, l)
	case 054: // NEG 0054DD
		kb.NEG(instr, l)
	case 055: // ADC 0055DD
		kb.ADC(instr, l)
	case 056: // SBC 0056DD
		kb.SBC(instr, l)
	case 057: // TST 0057DD
		kb.TST(instr, l)
	case 060: // ROR 0060DD
		kb.ROR(instr, l)
	case 061: // ROL 0061DD
		kb.ROL(instr, l)
	case 062: // ASR 0062DD
		kb.ASR(instr, l)
	case 063: // ASL 0063DD
		kb.ASL(instr, l)
	case 064: // MARK 0064nn
		if l == 2 {
			kb.MARK(instr)
		} else {
			kb.trapat(INTINVAL)
		}
	case 065: // MFPI 0065SS
		kb.MFPI(instr)
	case 066: // MTPI 0066DD
		kb.MTPI(instr)
	case 067: // SXT 0067DD
		kb.SXT(instr)
	default:
		fmt.Printf("unknown instruction %06o\n", instr)
		kb.trapat(INTINVAL)
	}
}

// DA resolves an addressing mode into an operand handle: a virtual
// address, or ^reg for register mode so memread and memwrite can tell
// the two apart. l is the operand length in bytes; the stack pointer,
// the PC and all deferred modes step by a full word.
func (kb *KB11) DA(v uint16, l uint16) int {
	if v&7 >= 6 || v&010 != 0 {
		l = 2
	}
	r := v & 7
	switch v & 070 {
	case 000:
		return -int(r) - 1
	case 010:
		return int(kb.R[r])
	case 020:
		a := kb.R[r]
		kb.R[r] += l
		return int(a)
	case 030:
		a := kb.readmem(kb.R[r], true)
		kb.R[r] += 2
		return int(a)
	case 040:
		kb.R[r] -= l
		return int(kb.R[r])
	case 050:
		kb.R[r] -= 2
		return int(kb.readmem(kb.R[r], true))
	case 060:
		x := kb.fetch16()
		return int(kb.R[r] + x)
	default: // 070
		x := kb.fetch16()
		return int(kb.readmem(kb.R[r]+x, true))
	}
}

func (kb *KB11) memread(a int, l uint16) uint16 {
	if a < 0 {
		r := -(a + 1)
		if l == 2 {
			return kb.R[r]
		}
		return kb.R[r] & 0xff
	}
	if l == 2 {
		return kb.readmem(uint16(a), true)
	}
	w := kb.readmem(uint16(a)&^1, true)
	if a&1 != 0 {
		return w >> 8
	}
	return w & 0xff
}

func (kb *KB11) memwrite(a int, l, v uint16) {
	if a < 0 {
		r := -(a + 1)
		if l == 2 {
			kb.R[r] = v
		} else {
			kb.R[r] = kb.R[r]&0xff00 | v&0xff
		}
		return
	}
	if l == 2 {
		kb.writemem(uint16(a), true, v)
		return
	}
	w := kb.readmem(uint16(a)&^1, true)
	if a&1 != 0 {
		w = w&0x00ff | v<<8
	} else {
		w = w&0xff00 | v&0xff
	}
	kb.writemem(uint16(a)&^1, true, w)
}

// readmem and writemem access virtual memory through the MMU; d selects
// D space when separation is enabled.
func (kb *KB11) readmem(a uint16, d bool) uint16 {
	return kb.unibus.read16(kb.mmu.decode(false, a, kb.currentmode(), d))
}

func (kb *KB11) writemem(a uint16, d bool, v uint16) {
	kb.unibus.write16(kb.mmu.decode(true, a, kb.currentmode(), d), v)
}

func (kb *KB11) fetch16() uint16 {
	v := kb.readmem(kb.R[7], false)
	kb.R[7] += 2
	return v
}

func (kb *KB11) push(v uint16) {
	kb.R[6] -= 2
	kb.writemem(kb.R[6], true, v)
}

func (kb *KB11) pop() uint16 {
	v := kb.readmem(kb.R[6], true)
	kb.R[6] += 2
	return v
}

func (kb *KB11) branch(instr uint16) {
	o := instr & 0xff
	if o&0x80 != 0 {
		kb.R[7] -= (0x100 - o) * 2
	} else {
		kb.R[7] += o * 2
	}
}

// MOV 01SSDD / MOVB 11SSDD
func (kb *KB11) MOV(instr uint16, l uint16) {
	v := kb.memread(kb.DA(instr>>6&077, l), l)
	da := kb.DA(instr&077, l)
	kb.setZN(l, v)
	kb.psw &^= FLAGV
	if da < 0 && l == 1 {
		// byte moves to a register sign extend
		if v&0x80 != 0 {
			v |= 0xff00
		}
		l = 2
	}
	kb.memwrite(da, l, v)
}

// CMP 02SSDD / CMPB 12SSDD
func (kb *KB11) CMP(instr uint16, l uint16) {
	max, msb := limits(l)
	v1 := kb.memread(kb.DA(instr>>6&077, l), l)
	v2 := kb.memread(kb.DA(instr&077, l), l)
	v := (v1 - v2) & max
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if v == 0 {
		kb.psw |= FLAGZ
	}
	if v&msb != 0 {
		kb.psw |= FLAGN
	}
	if (v1^v2)&msb != 0 && (v2^v)&msb == 0 {
		kb.psw |= FLAGV
	}
	if v1 < v2 {
		kb.psw |= FLAGC
	}
}

// BIT 03SSDD / BITB 13SSDD
func (kb *KB11) BIT(instr uint16, l uint16) {
	v1 := kb.memread(kb.DA(instr>>6&077, l), l)
	v2 := kb.memread(kb.DA(instr&077, l), l)
	kb.setZN(l, v1&v2)
	kb.psw &^= FLAGV
}

// BIC 04SSDD / BICB 14SSDD
func (kb *KB11) BIC(instr uint16, l uint16) {
	v1 := kb.memread(kb.DA(instr>>6&077, l), l)
	da := kb.DA(instr&077, l)
	v := ^v1 & kb.memread(da, l)
	kb.setZN(l, v)
	kb.psw &^= FLAGV
	kb.memwrite(da, l, v)
}

// BIS 05SSDD / BISB 15SSDD
func (kb *KB11) BIS(instr uint16, l uint16) {
	v1 := kb.memread(kb.DA(instr>>6&077, l), l)
	da := kb.DA(instr&077, l)
	v := v1 | kb.memread(da, l)
	kb.setZN(l, v)
	kb.psw &^= FLAGV
	kb.memwrite(da, l, v)
}

// ADD 06SSDD
func (kb *KB11) ADD(instr uint16) {
	src := kb.memread(kb.DA(instr>>6&077, 2), 2)
	da := kb.DA(instr&077, 2)
	dst := kb.memread(da, 2)
	v := src + dst
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if v == 0 {
		kb.psw |= FLAGZ
	}
	if v&0x8000 != 0 {
		kb.psw |= FLAGN
	}
	if (src^dst)&0x8000 == 0 && (dst^v)&0x8000 != 0 {
		kb.psw |= FLAGV
	}
	if uint32(src)+uint32(dst) > 0xffff {
		kb.psw |= FLAGC
	}
	kb.memwrite(da, 2, v)
}

// SUB 16SSDD
func (kb *KB11) SUB(instr uint16) {
	src := kb.memread(kb.DA(instr>>6&077, 2), 2)
	da := kb.DA(instr&077, 2)
	dst := kb.memread(da, 2)
	v := dst - src
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if v == 0 {
		kb.psw |= FLAGZ
	}
	if v&0x8000 != 0 {
		kb.psw |= FLAGN
	}
	if (src^dst)&0x8000 != 0 && (dst^v)&0x8000 == 0 {
		kb.psw |= FLAGV
	}
	if src > dst {
		kb.psw |= FLAGC
	}
	kb.memwrite(da, 2, v)
}

func (kb *KB11) CLR(instr uint16, l uint16) {
	kb.memwrite(kb.DA(instr&077, l), l, 0)
	kb.psw = kb.psw&^(FLAGN|FLAGV|FLAGC) | FLAGZ
}

func (kb *KB11) COM(instr uint16, l uint16) {
	max, _ := limits(l)
	da := kb.DA(instr&077, l)
	v := ^kb.memread(da, l) & max
	kb.setZN(l, v)
	kb.psw = kb.psw&^FLAGV | FLAGC
	kb.memwrite(da, l, v)
}

func (kb *KB11) INC(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := (v + 1) & max
	kb.setZN(l, r)
	kb.psw &^= FLAGV
	if v == msb-1 {
		kb.psw |= FLAGV
	}
	kb.memwrite(da, l, r)
}

func (kb *KB11) DEC(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := (v - 1) & max
	kb.setZN(l, r)
	kb.psw &^= FLAGV
	if v == msb {
		kb.psw |= FLAGV
	}
	kb.memwrite(da, l, r)
}

func (kb *KB11) NEG(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := (-kb.memread(da, l)) & max
	kb.setZN(l, v)
	kb.psw &^= FLAGV | FLAGC
	if v == msb {
		kb.psw |= FLAGV
	}
	if v != 0 {
		kb.psw |= FLAGC
	}
	kb.memwrite(da, l, v)
}

func (kb *KB11) ADC(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	var c uint16
	if kb.c() {
		c = 1
	}
	r := (v + c) & max
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if c == 1 && v == msb-1 {
		kb.psw |= FLAGV
	}
	if c == 1 && v == max {
		kb.psw |= FLAGC
	}
	kb.memwrite(da, l, r)
}

func (kb *KB11) SBC(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	var c uint16
	if kb.c() {
		c = 1
	}
	r := (v - c) & max
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if v == msb {
		kb.psw |= FLAGV
	}
	if c == 1 && v == 0 {
		kb.psw |= FLAGC
	}
	kb.memwrite(da, l, r)
}

func (kb *KB11) TST(instr uint16, l uint16) {
	v := kb.memread(kb.DA(instr&077, l), l)
	kb.setZN(l, v)
	kb.psw &^= FLAGV | FLAGC
}

func (kb *KB11) ROR(instr uint16, l uint16) {
	_, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := v >> 1
	if kb.c() {
		r |= msb
	}
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if v&1 != 0 {
		kb.psw |= FLAGC
	}
	kb.setVfromNxorC()
	kb.memwrite(da, l, r)
}

func (kb *KB11) ROL(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := v << 1 & max
	if kb.c() {
		r |= 1
	}
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if v&msb != 0 {
		kb.psw |= FLAGC
	}
	kb.setVfromNxorC()
	kb.memwrite(da, l, r)
}

func (kb *KB11) ASR(instr uint16, l uint16) {
	_, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := v>>1 | v&msb
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if v&1 != 0 {
		kb.psw |= FLAGC
	}
	kb.setVfromNxorC()
	kb.memwrite(da, l, r)
}

func (kb *KB11) ASL(instr uint16, l uint16) {
	max, msb := limits(l)
	da := kb.DA(instr&077, l)
	v := kb.memread(da, l)
	r := v << 1 & max
	kb.setZN(l, r)
	kb.psw &^= FLAGV | FLAGC
	if v&msb != 0 {
		kb.psw |= FLAGC
	}
	kb.setVfromNxorC()
	kb.memwrite(da, l, r)
}

// SWAB 0003DD
func (kb *KB11) SWAB(instr uint16) {
	da := kb.DA(instr&077, 2)
	v := kb.memread(da, 2)
	v = v<<8 | v>>8
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if v&0xff == 0 {
		kb.psw |= FLAGZ
	}
	if v&0x80 != 0 {
		kb.psw |= FLAGN
	}
	kb.memwrite(da, 2, v)
}

// SXT 0067DD
func (kb *KB11) SXT(instr uint16) {
	da := kb.DA(instr&077, 2)
	var v uint16
	if kb.n() {
		v = 0xffff
	}
	kb.psw &^= FLAGZ | FLAGV
	if v == 0 {
		kb.psw |= FLAGZ
	}
	kb.memwrite(da, 2, v)
}

// MARK 0064nn
func (kb *KB11) MARK(instr uint16) {
	kb.R[6] = kb.R[7] + instr&077*2
	kb.R[7] = kb.R[5]
	kb.R[5] = kb.pop()
}

// MFPI 0065SS
func (kb *KB11) MFPI(instr uint16) {
	da := kb.DA(instr&077, 2)
	var v uint16
	if da < 0 {
		r := -(da + 1)
		if r == 6 && kb.currentmode() != kb.previousmode() {
			v = kb.stackpointer[kb.previousmode()]
		} else {
			v = kb.R[r]
		}
	} else {
		v = kb.unibus.read16(kb.mmu.decode(false, uint16(da), kb.previousmode(), true))
	}
	kb.push(v)
	kb.setZN(2, v)
	kb.psw &^= FLAGV
}

// MTPI 0066DD
func (kb *KB11) MTPI(instr uint16) {
	da := kb.DA(instr&077, 2)
	v := kb.pop()
	if da < 0 {
		r := -(da + 1)
		if r == 6 && kb.currentmode() != kb.previousmode() {
			kb.stackpointer[kb.previousmode()] = v
		} else {
			kb.R[r] = v
		}
	} else {
		kb.unibus.write16(kb.mmu.decode(true, uint16(da), kb.previousmode(), true), v)
	}
	kb.setZN(2, v)
	kb.psw &^= FLAGV
}

// JMP 0001DD
func (kb *KB11) JMP(instr uint16) {
	da := kb.DA(instr&077, 2)
	if da < 0 {
		// registers don't have a virtual address
		kb.trapat(INTINVAL)
		return
	}
	kb.R[7] = uint16(da)
}

// JSR 004RDD
func (kb *KB11) JSR(instr uint16) {
	da := kb.DA(instr&077, 2)
	if da < 0 {
		kb.trapat(INTINVAL)
		return
	}
	r := instr >> 6 & 7
	kb.push(kb.R[r])
	kb.R[r] = kb.R[7]
	kb.R[7] = uint16(da)
}

// RTS 00020R
func (kb *KB11) RTS(instr uint16) {
	r := instr & 7
	kb.R[7] = kb.R[r]
	kb.R[r] = kb.pop()
}

// SOB 077Rnn
func (kb *KB11) SOB(instr uint16) {
	r := instr >> 6 & 7
	kb.R[r]--
	if kb.R[r] != 0 {
		kb.R[7] -= instr & 077 * 2
	}
}

// MUL 070RSS
func (kb *KB11) MUL(instr uint16) {
	r := instr >> 6 & 7
	src := int32(int16(kb.memread(kb.DA(instr&077, 2), 2)))
	v := int32(int16(kb.R[r])) * src
	kb.R[r] = uint16(uint32(v) >> 16)
	kb.R[r|1] = uint16(v)
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if v == 0 {
		kb.psw |= FLAGZ
	}
	if v < 0 {
		kb.psw |= FLAGN
	}
	if v < -32768 || v > 32767 {
		kb.psw |= FLAGC
	}
}

// DIV 071RSS
func (kb *KB11) DIV(instr uint16) {
	r := instr >> 6 & 7
	den := int32(int16(kb.memread(kb.DA(instr&077, 2), 2)))
	num := int32(uint32(kb.R[r])<<16 | uint32(kb.R[r|1]))
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	if den == 0 {
		kb.psw |= FLAGV | FLAGC
		return
	}
	q := num / den
	if q > 32767 || q < -32768 {
		kb.psw |= FLAGV
		return
	}
	kb.R[r] = uint16(q)
	kb.R[r|1] = uint16(num % den)
	if q == 0 {
		kb.psw |= FLAGZ
	}
	if q < 0 {
		kb.psw |= FLAGN
	}
}

// ASH 072RSS
func (kb *KB11) ASH(instr uint16) {
	r := instr >> 6 & 7
	shift := kb.memread(kb.DA(instr&077, 2), 2) & 077
	v := int32(int16(kb.R[r]))
	res := v
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	switch {
	case shift == 0:
	case shift&040 != 0: // shift right
		by := uint(0100 - shift)
		if by > 16 {
			by = 16
		}
		res = v >> (by - 1)
		if res&1 != 0 {
			kb.psw |= FLAGC
		}
		res >>= 1
	default: // shift left
		res = v << uint(shift)
		if res&0x10000 != 0 {
			kb.psw |= FLAGC
		}
	}
	if int32(int16(res)) != res {
		kb.psw |= FLAGV
	}
	kb.R[r] = uint16(res)
	kb.setZN(2, uint16(res))
}

// ASHC 073RSS
func (kb *KB11) ASHC(instr uint16) {
	r := instr >> 6 & 7
	shift := kb.memread(kb.DA(instr&077, 2), 2) & 077
	v := int64(int32(uint32(kb.R[r])<<16 | uint32(kb.R[r|1])))
	res := v
	kb.psw &^= FLAGN | FLAGZ | FLAGV | FLAGC
	switch {
	case shift == 0:
	case shift&040 != 0: // shift right
		by := uint(0100 - shift)
		if by > 32 {
			by = 32
		}
		res = v >> (by - 1)
		if res&1 != 0 {
			kb.psw |= FLAGC
		}
		res >>= 1
	default: // shift left
		res = v << uint(shift)
		if res&0x100000000 != 0 {
			kb.psw |= FLAGC
		}
	}
	if int64(int32(res)) != res {
		kb.psw |= FLAGV
	}
	kb.R[r] = uint16(uint64(res) >> 16)
	kb.R[r|1] = uint16(uint64(res))
	if uint32(res) == 0 {
		kb.psw |= FLAGZ
	}
	if uint32(res)&0x80000000 != 0 {
		kb.psw |= FLAGN
	}
}

// XOR 074RDD
func (kb *KB11) XOR(instr uint16) {
	da := kb.DA(instr&077, 2)
	v := kb.R[instr>>6&7] ^ kb.memread(da, 2)
	kb.setZN(2, v)
	kb.psw &^= FLAGV
	kb.memwrite(da, 2, v)
}

// RESET 000005
func (kb *KB11) RESET() {
	if kb.currentmode() > 0 {
		// RESET is ignored outside of kernel mode
		return
	}
	kb.unibus.reset()
}

// RTI 000002, RTT 000006
func (kb *KB11) RTT() {
	kb.R[7] = kb.pop()
	psw := kb.pop()
	if kb.currentmode() > 0 {
		// user mode cannot raise its privileges
		psw = psw&0xf8ff | kb.psw&0xf800
	}
	kb.writePSW(psw)
}

func (kb *KB11) trapat(vec uint16) {
	if vec&1 != 0 {
		panic(fmt.Sprintf("trapat: odd vector %06o", vec))
	}
	prev := kb.currentmode()
	psw := kb.psw
	kb.writePSW(psw & 0x07ff) // enter kernel mode
	kb.push(psw)
	kb.push(kb.R[7])
	kb.R[7] = kb.readmem(vec, true)
	kb.writePSW(kb.readmem(vec+2, true) | prev<<12)
}

func (kb *KB11) writePSW(psw uint16) {
	kb.stackpointer[kb.currentmode()] = kb.R[6]
	kb.psw = psw
	kb.R[6] = kb.stackpointer[kb.currentmode()]
}

// currentmode returns the current cpu mode.
// 0: kernel, 1: supervisor, 2: illegal, 3: user
func (kb *KB11) currentmode() uint16 { return kb.psw >> 14 }

// previousmode returns the previous cpu mode.
func (kb *KB11) previousmode() uint16 { return kb.psw >> 12 & 3 }

// priority returns the current CPU interrupt priority.
func (kb *KB11) priority() uint16 { return kb.psw >> 5 & 7 }

const (
	FLAGC = 1
	FLAGV = 2
	FLAGZ = 4
	FLAGN = 8
)

func (kb *KB11) n() bool { return kb.psw&FLAGN != 0 }
func (kb *KB11) z() bool { return kb.psw&FLAGZ != 0 }
func (kb *KB11) v() bool { return kb.psw&FLAGV != 0 }
func (kb *KB11) c() bool { return kb.psw&FLAGC != 0 }

func (kb *KB11) setZN(l, v uint16) {
	_, msb := limits(l)
	kb.psw &^= FLAGN | FLAGZ
	if v == 0 {
		kb.psw |= FLAGZ
	}
	if v&msb != 0 {
		kb.psw |= FLAGN
	}
}

func (kb *KB11) setVfromNxorC() {
	if kb.n() != kb.c() {
		kb.psw |= FLAGV
	}
}

func limits(l uint16) (max, msb uint16) {
	if l == 2 {
		return 0xffff, 0x8000
	}
	return 0xff, 0x80
}

func (kb *KB11) printstate() {
	flag := func(b bool, s string) string {
		if b {
			return s
		}
		return " "
	}
	fmt.Printf("R0 %06o R1 %06o R2 %06o R3 %06o R4 %06o R5 %06o R6 %06o R7 %06o\n",
		kb.R[0], kb.R[1], kb.R[2], kb.R[3], kb.R[4], kb.R[5], kb.R[6], kb.R[7])
	fmt.Printf("[%s%s%s%s]  instr %06o: %06o\t",
		flag(kb.n(), "N"), flag(kb.z(), "Z"), flag(kb.v(), "V"), flag(kb.c(), "C"),
		kb.pc, kb.readmem(kb.pc, false))
	kb.disasm(kb.pc)
	fmt.Println()
}
