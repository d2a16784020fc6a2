package main

// LDCIF 177(AC)SS converts a two's complement integer to floating.
// The operand is 16 or 32 bits per the FL bit; an immediate operand is
// always a single sign extended word.
func (f *FP11) ldcif(ac int, instr uint16) {
	long := f.fps&FPSL != 0
	words := 1
	if long {
		words = 2
	}
	op := f.wordOperand(instr, words)
	var v int32
	switch {
	case op.reg >= 0:
		w := f.cpu.R[op.reg]
		if long {
			v = int32(w) << 16
		} else {
			v = int32(int16(w))
		}
	case op.imm:
		v = int32(int16(f.readWord(op, 0)))
	default:
		if long {
			v = int32(f.readWord(op, 0))<<16 | int32(f.readWord(op, 1))
		} else {
			v = int32(int16(f.readWord(op, 0)))
		}
	}
	if v == 0 {
		f.zerocc(ac)
		return
	}
	var sign uint16
	uv := uint32(v)
	if v < 0 {
		sign = signBit
		uv = ^uv + 1
	}
	exp := expBias + 32
	for uv&0x80000000 == 0 {
		uv <<= 1
		exp--
	}
	var n fpnum
	n[0] = uint16(uv >> 24)
	n[1] = uint16(uv >> 8)
	n[2] = uint16(uv) << 8
	if f.fps&FPSD == 0 {
		if f.fps&FPST == 0 && n[2]&0x8000 != 0 {
			addSmall(n[:2], 1)
			if n[0]&0x100 != 0 { // rounding carried past the hidden bit
				shiftRight(n[:2], 1)
				exp++
			}
		}
		n[2] = 0
	}
	f.pack(n[:f.precision()], exp, sign)
	f.storeAC(ac, n)
}

// STCFI 1754(AC)DD converts the accumulator to a two's complement
// integer by truncation toward zero and copies the resulting condition
// codes into the CPU. A result that does not fit the target width stores
// zero, sets V and C, and traps when FIC is enabled.
func (f *FP11) stcfi(ac int, instr uint16) {
	long := f.fps&FPSL != 0
	words := 1
	if long {
		words = 2
	}
	op := f.wordOperand(instr, words)
	n := f.AC[ac]
	sign := n.negative()
	shift := n.exponent() - expBias
	bits := 16
	if long && !op.imm {
		bits = 32
	}
	frac := uint32(n[0]&fracMask|hiddenBit)<<24 | uint32(n[1])<<8 | uint32(n[2])>>8

	f.clearcc()
	var v uint32
	overflow := false
	switch {
	case n.exponent() == 0 || shift <= 0:
		// magnitude below one converts to zero
	case shift > bits:
		overflow = true
	default:
		v = frac >> uint(32-shift)
		if sign {
			overflow = v > 1<<uint(bits-1)
		} else {
			overflow = v >= 1<<uint(bits-1)
		}
	}

	var result uint32
	if overflow {
		f.fps |= FPSV | FPSC
		if f.fps&FPSIC != 0 {
			f.trap(FECINT)
		}
	} else if sign {
		result = ^v + 1
	} else {
		result = v
	}
	if result == 0 {
		f.fps |= FPSZ
	} else if sign {
		f.fps |= FPSN
	}

	switch {
	case op.reg >= 0:
		if bits == 32 {
			f.cpu.R[op.reg] = uint16(result >> 16)
		} else {
			f.cpu.R[op.reg] = uint16(result)
		}
	case op.imm:
		f.writeWord(op, 0, uint16(result))
	default:
		if bits == 32 {
			f.writeWord(op, 0, uint16(result>>16))
			f.writeWord(op, 1, uint16(result))
		} else {
			f.writeWord(op, 0, uint16(result))
		}
	}
	f.cpu.psw = f.cpu.psw&^017 | f.fps&017
}

// STCFD 176(AC)FD stores the accumulator at the other precision. Double
// to float truncates and, unless FT, rounds on the top bit of the first
// discarded word. The rounding and condition codes are committed before
// the memory write; a write fault can leave them behind.
func (f *FP11) stcfd(ac int, instr uint16) {
	n := f.AC[ac]
	if f.fps&FPSD != 0 {
		if n.exponent() == 0 {
			n = fpnum{}
			f.fps = f.fps&^(FPSN|FPSV|FPSC) | FPSZ
		} else {
			sign, exp := unpack(n[:4])
			if f.fps&FPST == 0 && n[2]&0x8000 != 0 {
				addSmall(n[:2], 1)
				if n[0]&0x100 != 0 {
					shiftRight(n[:2], 1)
					exp++
				}
			}
			n[2], n[3] = 0, 0
			f.pack(n[:2], exp, sign)
		}
	} else {
		n[2], n[3] = 0, 0
		f.clearcc()
		if n.negative() {
			f.fps |= FPSN
		}
		if n.exponent() == 0 {
			f.fps |= FPSZ
		}
	}
	f.fps ^= FPSD
	defer func() { f.fps ^= FPSD }()
	f.writeFloat(f.floatOperand(instr), n)
}

// LDCDF 1774(AC)FS loads an operand of the other precision, converting.
// Float widens by zero extension; double narrows with rounding unless FT.
func (f *FP11) ldcdf(ac int, instr uint16) {
	double := f.fps&FPSD != 0
	var n fpnum
	var undef bool
	func() {
		f.fps ^= FPSD
		defer func() { f.fps ^= FPSD }()
		n, undef = f.fetchFloat(f.floatOperand(instr))
	}()
	if undef && f.fps&FPSIUV != 0 {
		f.trap(FECUV)
		return
	}
	if double || n.exponent() == 0 {
		if n.exponent() == 0 {
			n = fpnum{}
		}
		f.storeAC(ac, n)
		f.clearcc()
		if n.negative() {
			f.fps |= FPSN
		}
		if n.exponent() == 0 {
			f.fps |= FPSZ
		}
		return
	}
	sign, exp := unpack(n[:4])
	if f.fps&FPST == 0 && n[2]&0x8000 != 0 {
		addSmall(n[:2], 1)
		if n[0]&0x100 != 0 {
			shiftRight(n[:2], 1)
			exp++
		}
	}
	n[2], n[3] = 0, 0
	f.pack(n[:2], exp, sign)
	f.storeAC(ac, n)
}
