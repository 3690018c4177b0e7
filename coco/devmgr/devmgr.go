// Package devmgr owns the CoCo's peripheral set, constructing the bus, SAM,
// both PIAs, the VDG, and an optional audio sink once at start-up in
// dependency order, and handing out the already-constructed instances to
// the CPU core and host backends. It performs no per-instruction work
// itself.
package devmgr

import (
	"github.com/kbolino/go-coco/coco/audio"
	"github.com/kbolino/go-coco/coco/memory"
	"github.com/kbolino/go-coco/coco/pia"
	"github.com/kbolino/go-coco/coco/sam"
	"github.com/kbolino/go-coco/coco/video"
)

// discardSink drops every sample; used when no audio output device is
// available (headless runs, or a platform without one).
type discardSink struct{}

func (discardSink) Send(pia.AudioSample) {}

// Manager owns one instance each of the peripherals making up a running
// CoCo, wired together in the order the hardware itself requires: PIA1
// exists before PIA0 (which needs PIA1's DAC comparator), and both exist
// before the bus that dispatches to them.
type Manager struct {
	bus   *memory.Bus
	sam   *sam.SAM
	pia0  *pia.PIA0
	pia1  *pia.PIA1
	vdg   *video.VDG
	audio audio.Provider
}

// Options configures peripheral construction.
type Options struct {
	KeyDirect pia.KeyMap
	KeyShift  pia.KeyMap
	ACIA      memory.ACIA
	RAMTop    uint16
	// Audio is the playback provider PIA1 sends samples to. Nil disables
	// audio output (samples are dropped) without changing any other wiring.
	Audio audio.Provider
}

// New constructs a Manager per Options, in dependency order: SAM, PIA1
// (wired to Audio's sink or a discard sink), PIA0 (wired to PIA1 and the
// key maps), the bus (wired to both PIAs, SAM, and ACIA), and the VDG
// (reading the bus's raw RAM view).
func New(opts Options) *Manager {
	sink := pia.AudioSink(discardSink{})
	if opts.Audio != nil {
		sink = opts.Audio.Sink()
	}

	s := sam.New()
	pia1 := pia.NewPIA1(sink)
	pia0 := pia.NewPIA0(pia1, opts.KeyDirect, opts.KeyShift)
	bus := memory.New(pia0, pia1, s, opts.ACIA, opts.RAMTop)
	vdg := video.New(bus.RAMView())

	return &Manager{bus: bus, sam: s, pia0: pia0, pia1: pia1, vdg: vdg, audio: opts.Audio}
}

// Bus returns the memory bus shared by the CPU core and every peripheral.
func (m *Manager) Bus() *memory.Bus { return m.bus }

// SAM returns the address multiplexer's configuration register.
func (m *Manager) SAM() *sam.SAM { return m.sam }

// PIA0 returns the keyboard/joystick PIA.
func (m *Manager) PIA0() *pia.PIA0 { return m.pia0 }

// PIA1 returns the DAC/sound PIA.
func (m *Manager) PIA1() *pia.PIA1 { return m.pia1 }

// VDG returns the video display generator.
func (m *Manager) VDG() *video.VDG { return m.vdg }

// Close tears down the audio provider, if one was configured.
func (m *Manager) Close() {
	if m.audio != nil {
		m.audio.Close()
	}
}
