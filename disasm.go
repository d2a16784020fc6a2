package main

import "fmt"

var rs = [...]string{"R0", "R1", "R2", "R3", "R4", "R5", "SP", "PC"}

const (
	DD = 1 << 1 // destination field
	S  = 1 << 2 // source field
	RR = 1 << 3 // register field
	O  = 1 << 4 // branch offset
	N  = 1 << 5 // numeric operand
	A  = 1 << 6 // floating accumulator field
)

type D struct {
	mask uint16
	ins  uint16
	msg  string
	flag uint8
	b    bool
}

var disamtable = [...]D{
	{0177777, 0000000, "HALT", 0, false},
	{0177777, 0000001, "WAIT", 0, false},
	{0177777, 0000002, "RTI", 0, false},
	{0177777, 0000003, "BPT", 0, false},
	{0177777, 0000004, "IOT", 0, false},
	{0177777, 0000005, "RESET", 0, false},
	{0177777, 0000006, "RTT", 0, false},
	{0177777, 0000007, "MFPT", 0, false},

	{0177700, 0000100, "JMP", DD, false},
	{0177770, 0000200, "RTS", RR, false},
	{0177700, 0000300, "SWAB", DD, false},

	{0177700, 0006400, "MARK", N, false},
	{0177700, 0006500, "MFPI", DD, false},
	{0177700, 0006600, "MTPI", DD, false},
	{0177700, 0006700, "SXT", DD, false},

	{0177400, 0104000, "EMT", N, false},
	{0177400, 0104400, "TRAP", N, false},
	{0177400, 0100000, "BPL", O, false},
	{0177400, 0100400, "BMI", O, false},
	{0177400, 0101000, "BHI", O, false},
	{0177400, 0101400, "BLOS", O, false},
	{0177400, 0102000, "BVC", O, false},
	{0177400, 0102400, "BVS", O, false},
	{0177400, 0103000, "BCC", O, false},
	{0177400, 0103400, "BCS", O, false},
	{0177400, 0000400, "BR", O, false},
	{0177400, 0001000, "BNE", O, false},
	{0177400, 0001400, "BEQ", O, false},
	{0177400, 0002000, "BGE", O, false},
	{0177400, 0002400, "BLT", O, false},
	{0177400, 0003000, "BGT", O, false},
	{0177400, 0003400, "BLE", O, false},

	{0177000, 0004000, "JSR", RR | DD, false},
	{0177000, 0070000, "MUL", RR | DD, false},
	{0177000, 0071000, "DIV", RR | DD, false},
	{0177000, 0072000, "ASH", RR | DD, false},
	{0177000, 0073000, "ASHC", RR | DD, false},
	{0177000, 0074000, "XOR", RR | DD, false},
	{0177000, 0077000, "SOB", RR | O, false},
	{0170000, 0060000, "ADD", S | DD, false},
	{0170000, 0160000, "SUB", S | DD, false},

	{0077700, 0005000, "CLR", DD, true},
	{0077700, 0005100, "COM", DD, true},
	{0077700, 0005200, "INC", DD, true},
	{0077700, 0005300, "DEC", DD, true},
	{0077700, 0005400, "NEG", DD, true},
	{0077700, 0005500, "ADC", DD, true},
	{0077700, 0005600, "SBC", DD, true},
	{0077700, 0005700, "TST", DD, true},
	{0077700, 0006000, "ROR", DD, true},
	{0077700, 0006100, "ROL", DD, true},
	{0077700, 0006200, "ASR", DD, true},
	{0077700, 0006300, "ASL", DD, true},

	// floating point
	{0177777, 0170000, "CFCC", 0, false},
	{0177777, 0170001, "SETF", 0, false},
	{0177777, 0170002, "SETI", 0, false},
	{0177777, 0170011, "SETD", 0, false},
	{0177777, 0170012, "SETL", 0, false},
	{0177700, 0170100, "LDFPS", DD, false},
	{0177700, 0170200, "STFPS", DD, false},
	{0177700, 0170300, "STST", DD, false},
	{0177700, 0170400, "CLRF", DD, false},
	{0177700, 0170500, "TSTF", DD, false},
	{0177700, 0170600, "ABSF", DD, false},
	{0177700, 0170700, "NEGF", DD, false},
	{0177400, 0171000, "MULF", A | DD, false},
	{0177400, 0171400, "MODF", A | DD, false},
	{0177400, 0172000, "ADDF", A | DD, false},
	{0177400, 0172400, "LDF", A | DD, false},
	{0177400, 0173000, "SUBF", A | DD, false},
	{0177400, 0173400, "CMPF", A | DD, false},
	{0177400, 0174000, "STF", A | DD, false},
	{0177400, 0174400, "DIVF", A | DD, false},
	{0177400, 0175000, "STEXP", A | DD, false},
	{0177400, 0175400, "STCFI", A | DD, false},
	{0177400, 0176000, "STCFD", A | DD, false},
	{0177400, 0176400, "LDEXP", A | DD, false},
	{0177400, 0177000, "LDCIF", A | DD, false},
	{0177400, 0177400, "LDCDF", A | DD, false},

	{0070000, 0010000, "MOV", S | DD, true},
	{0070000, 0020000, "CMP", S | DD, true},
	{0070000, 0030000, "BIT", S | DD, true},
	{0070000, 0040000, "BIC", S | DD, true},
	{0070000, 0050000, "BIS", S | DD, true},
}

func (kb *KB11) disasmaddr(m, a uint16) {
	if m&7 == 7 {
		switch m {
		case 027:
			fmt.Printf("$%06o", kb.readmem(a+2, false))
			return
		case 037:
			fmt.Printf("*%06o", kb.readmem(a+2, false))
			return
		case 067:
			fmt.Printf("*%06o", a+4+kb.readmem(a+2, false))
			return
		case 077:
			fmt.Printf("**%06o", a+4+kb.readmem(a+2, false))
			return
		}
	}

	switch m & 070 {
	case 000:
		fmt.Printf("%s", rs[m&7])
	case 010:
		fmt.Printf("(%s)", rs[m&7])
	case 020:
		fmt.Printf("(%s)+", rs[m&7])
	case 030:
		fmt.Printf("*(%s)+", rs[m&7])
	case 040:
		fmt.Printf("-(%s)", rs[m&7])
	case 050:
		fmt.Printf("*-(%s)", rs[m&7])
	case 060:
		fmt.Printf("%06o (%s)", kb.readmem(a+2, false), rs[m&7])
	case 070:
		fmt.Printf("*%06o (%s)", kb.readmem(a+2, false), rs[m&7])
	}
}

func (kb *KB11) disasm(a uint16) {
	ins := kb.readmem(a, false)

	var l D
	found := false
	for _, l = range disamtable {
		if ins&l.mask == l.ins {
			found = true
			break
		}
	}
	if !found {
		fmt.Printf("???")
		return
	}

	fmt.Printf("%s", l.msg)
	if l.b && ins&0100000 != 0 {
		fmt.Printf("B")
	}
	s := ins >> 6 & 077
	d := ins & 077
	o := ins & 0377
	switch l.flag {
	case S | DD:
		fmt.Printf(" ")
		kb.disasmaddr(s, a)
		fmt.Printf(",")
		fallthrough
	case DD:
		fmt.Printf(" ")
		kb.disasmaddr(d, a)
	case RR | O:
		fmt.Printf(" %s,", rs[ins>>6&7])
		o &= 077
		fallthrough
	case O:
		if o&0x80 != 0 {
			fmt.Printf(" -%03o", 2*((0xff^o)+1))
		} else {
			fmt.Printf(" +%03o", 2*o)
		}
	case RR | DD:
		fmt.Printf(" %s, ", rs[ins>>6&7])
		kb.disasmaddr(d, a)
	case RR:
		fmt.Printf(" %s", rs[ins&7])
	case A | DD:
		fmt.Printf(" AC%d, ", ins>>6&3)
		kb.disasmaddr(d, a)
	case N:
		fmt.Printf(" %03o", ins&077)
	}
}
