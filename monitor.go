package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

var monitorCommands = []string{
	"boot", "continue", "deposit", "examine", "fps", "quit", "regs", "start", "step",
}

// monitor is the operator console: a small REPL that examines and
// deposits memory, single steps, and starts the machine. It runs the
// machine synchronously; the cpu is never touched mid instruction.
func monitor(kb *KB11) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) (c []string) {
		for _, cmd := range monitorCommands {
			if strings.HasPrefix(cmd, strings.ToLower(l)) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("pdp11> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error:", err)
			return
		}
		line.AppendHistory(input)
		quit, err := command(kb, input)
		if err != nil {
			fmt.Println("error:", err)
		}
		if quit {
			return
		}
	}
}

func command(kb *KB11, input string) (quit bool, err error) {
	args := strings.Fields(input)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "regs", "r":
		kb.pc = kb.R[7]
		kb.printstate()
		fmt.Printf("FPS %06o FEC %02o FEA %06o\n", kb.fp11.fps, kb.fp11.fec, kb.fp11.fea)
		for i, ac := range kb.fp11.AC {
			fmt.Printf("AC%d %06o %06o %06o %06o\n", i, ac[0], ac[1], ac[2], ac[3])
		}
	case "fps":
		if len(args) > 1 {
			v, err := strconv.ParseUint(args[1], 8, 16)
			if err != nil {
				return false, err
			}
			kb.fp11.fps = uint16(v)
		}
		fmt.Printf("FPS %06o\n", kb.fp11.fps)
	case "examine", "e":
		if len(args) < 2 {
			return false, errors.New("examine addr [count]")
		}
		addr, err := strconv.ParseUint(args[1], 8, 18)
		if err != nil {
			return false, err
		}
		count := uint64(1)
		if len(args) > 2 {
			if count, err = strconv.ParseUint(args[2], 8, 16); err != nil {
				return false, err
			}
		}
		for i := uint64(0); i < count; i++ {
			a := addr18(addr + 2*i)
			fmt.Printf("%06o: %06o\n", a, kb.unibus.read16(a))
		}
	case "deposit", "d":
		if len(args) < 3 {
			return false, errors.New("deposit addr word...")
		}
		addr, err := strconv.ParseUint(args[1], 8, 18)
		if err != nil {
			return false, err
		}
		for i, arg := range args[2:] {
			v, err := strconv.ParseUint(arg, 8, 16)
			if err != nil {
				return false, err
			}
			kb.unibus.write16(addr18(addr)+addr18(2*i), uint16(v))
		}
	case "step", "s":
		count := uint64(1)
		if len(args) > 1 {
			if count, err = strconv.ParseUint(args[1], 8, 16); err != nil {
				return false, err
			}
		}
		for i := uint64(0); i < count && !kb.halted; i++ {
			kb.step()
			kb.poll()
		}
		kb.pc = kb.R[7]
		kb.printstate()
	case "start":
		if len(args) > 1 {
			v, err := strconv.ParseUint(args[1], 8, 16)
			if err != nil {
				return false, err
			}
			kb.R[7] = uint16(v)
		}
		kb.halted = false
		fallthrough
	case "continue", "c":
		return false, kb.Run()
	case "boot":
		kb.Load(002000, bootrom[:]...)
		kb.R[7] = 002002
		kb.halted = false
		return false, kb.Run()
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

// bootrom reads the first 512 bytes of RK0 into low memory and jumps to
// it.
var bootrom = [...]uint16{
	0042113,          /* "KD" */
	0012706, 0002000, /* MOV #boot_start, SP */
	0012700, 0000000, /* MOV #unit, R0 */
	0010003,          /* MOV R0, R3 */
	0000303,          /* SWAB R3 */
	0006303,          /* ASL R3 */
	0006303,          /* ASL R3 */
	0006303,          /* ASL R3 */
	0006303,          /* ASL R3 */
	0006303,          /* ASL R3 */
	0012701, 0177412, /* MOV #RKDA, R1 */
	0010311,          /* MOV R3, (R1) */
	0005041,          /* CLR -(R1) */
	0012741, 0177000, /* MOV #-256.*2, -(R1) */
	0012741, 0000005, /* MOV #READ+GO, -(R1) */
	0005002,          /* CLR R2 */
	0005003,          /* CLR R3 */
	0012704, 0002020, /* MOV #START+20, R4 */
	0005005, /* CLR R5 */
	0105711, /* TSTB (R1) */
	0100376, /* BPL .-2 */
	0105011, /* CLRB (R1) */
	0005007, /* CLR PC */
}
