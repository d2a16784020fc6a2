package main

import (
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Config is the optional machine description file. All numbers are
// plain integers; addresses are usually written in octal with a 0o
// prefix, which yaml understands.
type Config struct {
	StartAddr uint16 `yaml:"startaddr"`
	RK0       string `yaml:"rk0"`
	FPS       uint16 `yaml:"fps"`
	Monitor   bool   `yaml:"monitor"`
	Deposit   []struct {
		Addr  uint32   `yaml:"addr"`
		Words []uint16 `yaml:"words"`
	} `yaml:"deposit"`
}

func loadConfig(path string) (*Config, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apply wires the configuration into a freshly reset machine.
func (cfg *Config) apply(kb *KB11) error {
	if cfg.RK0 != "" {
		if err := kb.unibus.rk11.Mount(0, cfg.RK0); err != nil {
			return err
		}
	}
	kb.fp11.fps = cfg.FPS
	for _, d := range cfg.Deposit {
		kb.Load(addr18(d.Addr), d.Words...)
	}
	if cfg.StartAddr != 0 {
		kb.R[7] = cfg.StartAddr
	}
	return nil
}
