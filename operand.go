package main

// fpOperand remembers where an operand came from so read-modify-write
// instructions can put their result back, and so multi word values can be
// assembled a word at a time. reg is an accumulator or general register
// index, or -1 when addr holds a D space virtual address.
type fpOperand struct {
	reg  int
	addr uint16
	len  int // length in words
	imm  bool
}

// floatOperand resolves the low six bits of the instruction for a
// floating operand at the active precision. Register mode names the
// accumulators; AC6 and AC7 do not exist.
func (f *FP11) floatOperand(instr uint16) fpOperand {
	return f.operand(instr, f.precision(), true)
}

// wordOperand resolves an integer operand of the given length. Register
// mode names the general registers.
func (f *FP11) wordOperand(instr uint16, words int) fpOperand {
	return f.operand(instr, words, false)
}

// operand computes a virtual address or register index for one PDP11
// addressing mode. Auto increment and decrement step the register by the
// operand byte length, except that (PC)+ always takes a single word from
// the instruction stream: the short literal form. Index words come from
// the instruction stream; deferred pointers from D space.
func (f *FP11) operand(instr uint16, words int, float bool) fpOperand {
	cpu := f.cpu
	reg := int(instr & 7)
	op := fpOperand{reg: -1, len: words}
	step := uint16(words * 2)
	switch instr >> 3 & 7 {
	case 0:
		if float && reg > 5 {
			f.trap(FECOP)
			panic(fppAbort{})
		}
		op.reg = reg
	case 1:
		op.addr = cpu.R[reg]
	case 2:
		if reg == 7 {
			step = 2
			op.imm = true
		}
		op.addr = cpu.R[reg]
		cpu.R[reg] += step
	case 3:
		if reg == 7 {
			op.addr = cpu.fetch16()
		} else {
			op.addr = cpu.readmem(cpu.R[reg], true)
			cpu.R[reg] += 2
		}
	case 4:
		cpu.R[reg] -= step
		op.addr = cpu.R[reg]
	case 5:
		cpu.R[reg] -= 2
		op.addr = cpu.readmem(cpu.R[reg], true)
	case 6:
		x := cpu.fetch16()
		op.addr = cpu.R[reg] + x
	case 7:
		x := cpu.fetch16()
		op.addr = cpu.readmem(cpu.R[reg]+x, true)
	}
	return op
}

// readWord reads word i of a memory operand. Immediate operands live in
// the instruction stream and go through I space; everything else is a
// D space reference.
func (f *FP11) readWord(op fpOperand, i int) uint16 {
	return f.cpu.readmem(op.addr+uint16(2*i), !op.imm)
}

func (f *FP11) writeWord(op fpOperand, i int, v uint16) {
	f.cpu.writemem(op.addr+uint16(2*i), !op.imm, v)
}

// fetchFloat assembles the operand value and reports whether it carries
// the undefined variable encoding. An immediate operand is one word,
// zero extended into the high end of the value.
func (f *FP11) fetchFloat(op fpOperand) (fpnum, bool) {
	var n fpnum
	switch {
	case op.reg >= 0:
		n = f.AC[op.reg]
	case op.imm:
		n[0] = f.readWord(op, 0)
	default:
		for i := 0; i < op.len; i++ {
			n[i] = f.readWord(op, i)
		}
	}
	// only a memory reference can trip the undefined variable trap
	return n, op.reg < 0 && n.undefined()
}

// readFloat fetches the operand and applies the undefined variable check
// before the caller sees the value. ABS and NEG use fetchFloat directly
// so their cleanup can run first.
func (f *FP11) readFloat(op fpOperand) fpnum {
	n, undef := f.fetchFloat(op)
	if undef && f.fps&FPSIUV != 0 {
		f.trap(FECUV)
		panic(fppAbort{})
	}
	return n
}

func (f *FP11) readFloatOperand(instr uint16) fpnum {
	return f.readFloat(f.floatOperand(instr))
}

// writeFloat stores a value back through the operand handle captured at
// read time.
func (f *FP11) writeFloat(op fpOperand, n fpnum) {
	switch {
	case op.reg >= 0:
		f.storeAC(op.reg, n)
	case op.imm:
		f.writeWord(op, 0, n[0])
	default:
		for i := 0; i < op.len; i++ {
			f.writeWord(op, i, n[i])
		}
	}
}

// readWordOperand resolves and reads a single word integer operand.
func (f *FP11) readWordOperand(instr uint16) uint16 {
	op := f.wordOperand(instr, 1)
	if op.reg >= 0 {
		return f.cpu.R[op.reg]
	}
	return f.readWord(op, 0)
}

func (f *FP11) writeWordOperand(instr uint16, v uint16) {
	op := f.wordOperand(instr, 1)
	if op.reg >= 0 {
		f.cpu.R[op.reg] = v
		return
	}
	f.writeWord(op, 0, v)
}
