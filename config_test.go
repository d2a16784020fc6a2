package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	is := is.New(t)

	dir, err := ioutil.TempDir("", "fp11")
	is.NoErr(err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "machine.yaml")
	err = ioutil.WriteFile(path, []byte(`
startaddr: 0o2000
fps: 0o4200
monitor: true
deposit:
  - addr: 0o3000
    words: [0o177777, 0o52]
`), 0644)
	is.NoErr(err)

	cfg, err := loadConfig(path)
	is.NoErr(err)
	is.Equal(cfg.StartAddr, uint16(002000))
	is.Equal(cfg.FPS, uint16(004200))
	is.True(cfg.Monitor)

	kb := new(KB11)
	kb.Reset()
	is.NoErr(cfg.apply(kb))
	is.Equal(kb.R[7], uint16(002000))
	is.Equal(kb.fp11.fps, uint16(004200))
	is.Equal(kb.unibus.read16(003000), uint16(0177777))
	is.Equal(kb.unibus.read16(003002), uint16(000052))
}

func TestMonitorCommands(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	quit, err := command(kb, "deposit 3000 101 102")
	is.NoErr(err)
	is.True(!quit)
	is.Equal(kb.unibus.read16(003000), uint16(0101))
	is.Equal(kb.unibus.read16(003002), uint16(0102))

	_, err = command(kb, "fps 4200")
	is.NoErr(err)
	is.Equal(kb.fp11.fps, uint16(004200))

	_, err = command(kb, "bogus")
	is.True(err != nil)

	quit, err = command(kb, "quit")
	is.NoErr(err)
	is.True(quit)
}

func TestMonitorStep(t *testing.T) {
	is := is.New(t)
	kb := testcpu()

	kb.Load(002000, 0012700, 0000005) // MOV #5, R0
	kb.R[7] = 002000
	_, err := command(kb, "step")
	is.NoErr(err)
	is.Equal(kb.R[0], uint16(5))
}
