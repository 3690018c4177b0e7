// Package config builds the single Config struct threaded through the
// device manager, CPU, and loaders, merging CLI flags with an optional YAML
// sidecar file. It is never a package-level singleton (per the CLI layer's
// own design notes): cmd/coco builds one Config in main and passes it down.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadROM names a binary image loaded verbatim at a fixed address, used for
// cartridge/ROM images distinct from Intel HEX program loads.
type LoadROM struct {
	Path string `yaml:"path"`
	Addr uint16 `yaml:"addr"`
}

// LoadCode names an Intel HEX file loaded via its own embedded addresses.
type LoadCode struct {
	Path string `yaml:"path"`
}

// File is the shape of the optional YAML config sidecar (§4.9).
type File struct {
	LoadROM  []LoadROM  `yaml:"load_rom"`
	LoadCode []LoadCode `yaml:"load_code"`
}

// Config is the fully merged configuration for one emulator run.
type Config struct {
	CartPath string
	LoadPath string

	RAMTop      uint16
	ResetVector uint16
	HasReset    bool

	MHz           float64
	ThrottleFudge float64
	RunTime       float64

	Trace      bool
	Debug      bool
	BreakStart bool
	History    int
	Perf       bool
	Verbose    bool
	NoAutoSym  bool
	WriteFiles bool
	List       bool

	ACIAEnable bool
	ACIAAddr   uint16
	ACIAPort   uint16
	ACIADebug  bool
	ACIACase   bool

	Headless bool
	Frames   int

	Mute bool

	File File
}

// DefaultThrottleFudge is the 0.9x cycle-duration fudge factor applied by
// the CPU's busy-wait throttle.
const DefaultThrottleFudge = 0.9

// New returns a Config with the documented defaults (§4.1/§6): RAM up to
// 0x7FFF, reset vector unset (CPU falls back to whatever's at 0xFFFE), and
// the conventional ACIA address/port.
func New() Config {
	return Config{
		RAMTop:        0x7FFF,
		MHz:           0.89, // stock 6809E bus speed, megahertz
		ThrottleFudge: DefaultThrottleFudge,
		ACIAAddr:      0xFFD0,
		ACIAPort:      6809,
	}
}

// LoadFile parses a YAML config sidecar and merges it into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.File = f
	return nil
}
