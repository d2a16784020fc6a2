// pdp11 is a PDP11/70 emulator built around a word-exact FP11 floating
// point processor.
package main

import (
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"1" help:"help yourself to a PDP11"`
	}

	ctx := kong.Parse(&cli)
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type runCmd struct {
	StartAddr uint16 `name:"startaddr" default:"002002"`
	RK0       string `name:"rk0" type:"existingfile" help:"path to rk0 image"`
	Config    string `name:"config" type:"existingfile" help:"machine description yaml"`
	Monitor   bool   `name:"monitor" help:"start in the operator monitor"`
}

func (r *runCmd) Run(ctx *kong.Context) error {
	cpu := new(KB11)
	cpu.Reset()
	cpu.R[7] = r.StartAddr

	mon := r.Monitor
	if r.Config != "" {
		cfg, err := loadConfig(r.Config)
		if err != nil {
			return err
		}
		if err := cfg.apply(cpu); err != nil {
			return err
		}
		mon = mon || cfg.Monitor
	}
	if r.RK0 != "" {
		if err := cpu.unibus.rk11.Mount(0, r.RK0); err != nil {
			return err
		}
	}

	if mon {
		monitor(cpu)
		return nil
	}

	if restore, err := rawmode(os.Stdin.Fd()); err == nil {
		defer restore()
	}
	cpu.unibus.cons.Attach()
	cpu.unibus.lineclock.start()
	return cpu.Run()
}
