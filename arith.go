package main

// Arithmetic kernels. All of them work on hidden-bit fractions: unpack
// exposes the hidden bit at 0x80 of word 0, the kernel manipulates the
// word array, and pack folds sign and exponent back in and sets the
// condition codes.

// addf computes AC <- AC + m. SUBF enters here with the sign of m
// already inverted.
func (f *FP11) addf(ac int, m fpnum) {
	p := f.precision()
	n := f.AC[ac][:p]
	ms := m[:p]

	nexp := int(n[0]&expMask) >> 7
	mexp := int(ms[0]&expMask) >> 7
	if nexp == 0 || mexp == 0 {
		// a zero exponent is zero regardless of fraction
		switch {
		case mexp != 0:
			f.storeAC(ac, m)
		case nexp != 0:
			// accumulator already holds the result
		default:
			f.AC[ac] = fpnum{}
		}
		r := f.AC[ac]
		f.clearcc()
		if r.negative() {
			f.fps |= FPSN
		}
		if r.exponent() == 0 {
			f.fps |= FPSZ
		}
		return
	}

	nsign, _ := unpack(n)
	msign, _ := unpack(ms)
	exp := nexp
	var guard uint16
	shifted := 0 // 1: accumulator was aligned, 2: operand was
	if nexp > mexp {
		guard = shiftRight(ms, nexp-mexp)
		shifted = 2
	} else if mexp > nexp {
		guard = shiftRight(n, mexp-nexp)
		exp = mexp
		shifted = 1
	}
	if f.fps&FPST != 0 {
		guard = 0
	}

	if nsign == msign {
		addFraction(n, ms, guard)
		if n[0]&0x100 != 0 {
			if f.fps&FPST == 0 && n[p-1]&1 != 0 {
				addSmall(n, 1)
			}
			shiftRight(n, 1)
			exp++
			if n[0]&0x100 != 0 { // rounding carried out the top
				shiftRight(n, 1)
				exp++
			}
		}
		f.pack(n, exp, nsign)
		return
	}

	// opposite signs: subtract the smaller magnitude from the larger,
	// the guard bit joining as a borrow when it belongs to the smaller
	cmp := compareFraction(n, ms)
	if cmp == 0 {
		f.AC[ac] = fpnum{}
		f.fps = f.fps&^(FPSN|FPSV|FPSC) | FPSZ
		return
	}
	sign := nsign
	if cmp < 0 {
		sign = msign
		var borrow uint16
		if shifted == 1 {
			borrow = guard
		}
		subFraction(ms, n, borrow)
		copy(n, ms)
	} else {
		var borrow uint16
		if shifted == 2 {
			borrow = guard
		}
		subFraction(n, ms, borrow)
	}
	pos := findFirstOne(n, 8)
	if pos < 0 {
		f.pack(n, 0, sign)
		return
	}
	shiftLeft(n, pos-8)
	f.pack(n, exp-(pos-8), sign)
}

// multiplyFraction forms the double wide schoolbook product of two
// hidden-bit fractions over base 2^16 digits. The product is placed one
// word high so its leading bit lands in word 0 of res.
func multiplyFraction(res, a, b []uint16) {
	p := len(a)
	zeroFraction(res)
	for i := p - 1; i >= 0; i-- {
		var carry uint32
		for j := p - 1; j >= 0; j-- {
			t := uint32(a[i])*uint32(b[j]) + uint32(res[i+j]) + carry
			res[i+j] = uint16(t)
			carry = t >> 16
		}
		if i > 0 {
			res[i-1] = uint16(carry)
		}
	}
}

// mulf computes AC <- AC * m.
func (f *FP11) mulf(ac int, m fpnum) {
	p := f.precision()
	n := f.AC[ac][:p]
	ms := m[:p]
	if n[0]&expMask == 0 || ms[0]&expMask == 0 {
		f.zerocc(ac)
		return
	}
	nsign, nexp := unpack(n)
	msign, mexp := unpack(ms)
	sign := nsign ^ msign
	exp := nexp + mexp - expBias
	res := f.result[:2*p]
	multiplyFraction(res, n, ms)
	if f.fps&FPST == 0 {
		if res[0]&0x8000 != 0 {
			if res[p-1]&0x80 != 0 {
				addSmall(res[:p], 0x100)
			}
		} else if res[p-1]&0x40 != 0 {
			addSmall(res[:p], 0x80)
		}
	}
	copy(n, res[:p])
	if res[0]&0x8000 != 0 {
		shiftRight(n, 8)
	} else {
		shiftRight(n, 7)
		exp--
	}
	f.pack(n, exp, sign)
}

// divf computes AC <- AC / m by long division over base 2^16 digits with
// a single step correction per digit.
func (f *FP11) divf(ac int, m fpnum) {
	p := f.precision()
	if m[0]&expMask == 0 {
		f.trap(FECDIV)
		return
	}
	n := f.AC[ac][:p]
	if n[0]&expMask == 0 {
		f.zerocc(ac)
		return
	}
	ms := m[:p]
	nsign, nexp := unpack(n)
	msign, mexp := unpack(ms)
	sign := nsign ^ msign
	exp := nexp - mexp + expBias

	res := f.result[:2*p]
	zeroFraction(res)
	copy(res[:p], n)
	if compareFraction(n, ms) < 0 {
		shiftLeft(res[:p], 8)
	} else {
		// keep the numerator strictly above the divisor at the first
		// step
		shiftLeft(res[:p], 7)
		exp++
	}

	d := uint32(ms[0])<<16 | uint32(ms[1])
	for o := 0; o < p; o++ {
		var qhat uint32
		if o == 0 {
			qhat = (uint32(res[0])<<16 | uint32(res[1])) / d
		} else {
			num := uint64(res[o-1])<<32 | uint64(res[o])<<16 | uint64(res[o+1])
			qhat = uint32(num / uint64(d))
		}
		if qhat > 0xffff {
			qhat = 0xffff
		}
		// subtract qhat * divisor from the remainder at position o
		var mulcarry, borrow uint32
		for j := p - 1; j >= 0; j-- {
			t := qhat*uint32(ms[j]) + mulcarry
			mulcarry = t >> 16
			diff := uint32(res[o+j]) - t&0xffff - borrow
			res[o+j] = uint16(diff)
			borrow = diff >> 16 & 1
		}
		neg := false
		if o > 0 {
			diff := uint32(res[o-1]) - mulcarry - borrow
			res[o-1] = uint16(diff)
			neg = diff>>16 != 0
		} else {
			neg = mulcarry+borrow != 0
		}
		if neg {
			// the trial digit was too large by exactly one
			qhat--
			carry := addFraction(res[o:o+p], ms, 0)
			if o > 0 {
				res[o-1] += carry
			}
		}
		n[o] = uint16(qhat)
	}

	if f.fps&FPST == 0 {
		// one digit of rounding lookahead
		num := uint64(res[p-1])<<32 | uint64(res[p])<<16 | uint64(res[p+1])
		qhat := uint32(num / uint64(d))
		if qhat > 0xffff {
			qhat = 0xffff
		}
		if qhat&0x8000 != 0 {
			addSmall(n, 1)
			if n[0]&0x100 != 0 {
				shiftRight(n, 1)
				exp++
			}
		}
	}
	f.pack(n, exp, sign)
}

// modf computes the product AC * m and splits it into integer and
// fraction. The integer part goes to AC|1; an odd AC discards it. The
// fraction stays in AC and sets the condition codes.
func (f *FP11) modf(ac int, m fpnum) {
	p := f.precision()
	n := f.AC[ac][:p]
	ms := m[:p]
	if n[0]&expMask == 0 || ms[0]&expMask == 0 {
		if ac&1 == 0 {
			f.AC[ac|1] = fpnum{}
		}
		f.zerocc(ac)
		return
	}
	nsign, nexp := unpack(n)
	msign, mexp := unpack(ms)
	sign := nsign ^ msign
	exp := nexp + mexp - expBias
	res := f.result[:2*p]
	multiplyFraction(res, n, ms)
	if res[0]&0x8000 == 0 {
		shiftLeft(res, 1)
		exp--
	}

	e := exp - expBias // integer bits in the product
	if f.fps&FPST == 0 && e < 8 {
		// beyond eight integer bits there are not enough guard bits
		// left to round faithfully, so the product is chopped
		if res[p-1]&0x80 != 0 {
			if addSmall(res[:p], 0x100) != 0 {
				res[0] = 0x8000
				exp++
				e++
			}
		}
		res[p-1] &^= 0xff
		zeroFraction(res[p:])
	}

	if e <= 0 {
		// product is pure fraction
		if ac&1 == 0 {
			f.AC[ac|1] = fpnum{}
		}
		copy(n, res[:p])
		shiftRight(n, 8)
		f.pack(n, exp, sign)
		return
	}

	s := 16*p - 8 // significand width
	if ac&1 == 0 {
		var w fpnum
		copy(w[:p], res[:p])
		if e < s {
			k := e >> 4
			w[k] &= ^uint16(0xffff >> uint(e&15))
			for i := k + 1; i < p; i++ {
				w[i] = 0
			}
		}
		shiftRight(w[:p], 8)
		f.pack(w[:p], exp, sign)
		f.AC[ac|1] = w
	}
	if e >= s {
		// every significand bit belongs to the integer part
		f.AC[ac] = fpnum{}
		if ac&1 == 0 {
			// V from the integer pack survives into the codes
			f.fps = f.fps&^(FPSN|FPSC) | FPSZ
		} else {
			f.fps = f.fps&^(FPSN|FPSV|FPSC) | FPSZ
		}
		return
	}

	// clear the integer bits and renormalize what is left
	k := e >> 4
	for i := 0; i < k; i++ {
		res[i] = 0
	}
	res[k] &= 0xffff >> uint(e&15)
	pos := findFirstOne(res, e)
	if pos < 0 {
		f.AC[ac] = fpnum{}
		f.fps = f.fps&^(FPSN|FPSV|FPSC) | FPSZ
		return
	}
	shiftLeft(res, pos)
	fexp := exp - pos
	if fexp <= 0 {
		f.AC[ac] = fpnum{}
		f.fps = f.fps&^(FPSN|FPSV|FPSC) | FPSZ
		return
	}
	copy(n, res[:p])
	shiftRight(n, 8)
	f.pack(n, fexp, sign)
}
