package main

import (
	"fmt"
)

type page struct {
	par, pdr uint16
}

func (p *page) addr() addr18 { return addr18(p.par & 07777) }
func (p *page) len() uint16  { return (p.pdr >> 8) & 0x7f }
func (p *page) read() bool   { return p.pdr&2 == 2 }
func (p *page) write() bool  { return p.pdr&6 == 6 }
func (p *page) ed() bool     { return p.pdr&8 == 8 }

// KT11 relocates 17 bit I/D virtual addresses onto the 18 bit UNIBUS.
// Four page files of eight pages each: kernel I, kernel D, user I,
// user D. With relocation off I and D collapse onto the same 16 bit
// space and the top 4K maps to the io page.
type KT11 struct {
	SR0, SR1, SR2 uint16
	pages         [32]page
}

func (kt *KT11) decode(wr bool, a, mode uint16, dspace bool) addr18 {
	if kt.SR0&01 == 0 {
		addr := addr18(a)
		if addr > 0157777 {
			return addr + 0600000
		}
		return addr
	}
	i := a >> 13
	if dspace {
		i += 8
	}
	if mode > 0 {
		i += 16
	}
	if wr && !kt.pages[i].write() {
		kt.SR0 = 1<<13 | 1
		kt.SR0 |= a >> 12 & ^uint16(1)
		if mode > 0 {
			kt.SR0 |= 1<<5 | 1<<6
		}
		fmt.Printf("mmu: write to read-only page %06o\n", a)
		panic(trap{INTFAULT})
	}
	if !kt.pages[i].read() {
		kt.SR0 = 1<<15 | 1
		kt.SR0 |= a >> 12 & ^uint16(1)
		if mode > 0 {
			kt.SR0 |= 1<<5 | 1<<6
		}
		fmt.Printf("mmu: read from no-access page %06o\n", a)
		panic(trap{INTFAULT})
	}
	block := a >> 6 & 0177
	disp := addr18(a & 077)
	p := &kt.pages[i]
	if (p.ed() && block < p.len()) || (!p.ed() && block > p.len()) {
		kt.SR0 = 1<<14 | 1
		kt.SR0 |= a >> 12 & ^uint16(1)
		if mode > 0 {
			kt.SR0 |= 1<<5 | 1<<6
		}
		fmt.Printf("mmu: page length exceeded, address %06o (block %03o) is beyond length %03o\n",
			a, block, p.len())
		panic(trap{INTFAULT})
	}
	if wr {
		p.pdr |= 1 << 6
	}
	return (addr18(block)+p.addr())<<6 + disp
}

// The page register files live in the io page: PDRs then PARs, I space
// then D space, for each of kernel and user.
func (kt *KT11) write16(addr addr18, v uint16) {
	i := (addr & 017) >> 1
	switch addr & ^addr18(017) {
	case 0772300:
		kt.pages[i].pdr = v
	case 0772320:
		kt.pages[i+8].pdr = v
	case 0772340:
		kt.pages[i].par = v
	case 0772360:
		kt.pages[i+8].par = v
	case 0777600:
		kt.pages[i+16].pdr = v
	case 0777620:
		kt.pages[i+24].pdr = v
	case 0777640:
		kt.pages[i+16].par = v
	case 0777660:
		kt.pages[i+24].par = v
	default:
		fmt.Printf("mmu: write to invalid address %06o\n", addr)
		panic(trap{INTBUS})
	}
}

func (kt *KT11) read16(addr addr18) uint16 {
	i := (addr & 017) >> 1
	switch addr & ^addr18(017) {
	case 0772300:
		return kt.pages[i].pdr
	case 0772320:
		return kt.pages[i+8].pdr
	case 0772340:
		return kt.pages[i].par
	case 0772360:
		return kt.pages[i+8].par
	case 0777600:
		return kt.pages[i+16].pdr
	case 0777620:
		return kt.pages[i+24].pdr
	case 0777640:
		return kt.pages[i+16].par
	case 0777660:
		return kt.pages[i+24].par
	default:
		fmt.Printf("mmu: read from invalid address %06o\n", addr)
		panic(trap{INTBUS})
	}
}
