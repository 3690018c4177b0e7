package pia

import "time"

// AudioSample is a single point in the CoCo's aperiodic DAC output stream.
type AudioSample struct {
	Data float32
	Time time.Time
}

// AudioSink receives samples emitted by PIA1. In production this is the
// buffered channel owned by the audio pipeline (coco/audio); tests may
// substitute anything with the same shape.
type AudioSink interface {
	Send(AudioSample)
}

// PIA1 is the DAC/sound PIA: side A's output register is the 6-bit DAC,
// side B carries single-bit sound, cart-FIRQ, and the VDG mode bits.
type PIA1 struct {
	ab [2]Side

	sink           AudioSink
	soundEnabled   bool
	dacSelA        bool
	dacSelB        bool
	lastBitSound   bool
}

// NewPIA1 constructs a DAC/sound PIA that emits samples to sink.
func NewPIA1(sink AudioSink) *PIA1 {
	return &PIA1{sink: sink}
}

// Read dispatches a register read.
func (p *PIA1) Read(reg int) uint8 {
	return p.ab[(reg>>1)&1].Read(reg % 4)
}

// Write dispatches a register write and then applies PIA1's own
// side-effects: DAC sample emission, single-bit sound, sound-enable.
func (p *PIA1) Write(reg int, data uint8) {
	i := reg % 4
	p.ab[(i>>1)&1].Write(i, data)
	switch i {
	case 0:
		if p.soundEnabled && !p.dacSelA && !p.dacSelB {
			sample := (float32(p.ab[0].ReadOutput()>>2) - 31.0) / 32.0
			p.sink.Send(AudioSample{Data: sample, Time: time.Now()})
		}
	case 2:
		bit := p.ab[1].ReadOutput()&0x02 == 0x02
		if bit != p.lastBitSound {
			data := float32(-0.5)
			if bit {
				data = 0.5
			}
			p.sink.Send(AudioSample{Data: data, Time: time.Now()})
		}
		p.lastBitSound = bit
	case 3:
		p.soundEnabled = data&0x08 == 0x08
	}
}

// VDGModeBits returns bits {G/!A, GM2, GM1, GM0, CSS} as a 5-bit value,
// read from side B's data register.
func (p *PIA1) VDGModeBits() uint8 {
	return (p.ab[1].readData() >> 3) & 0x1F
}

// CartFIRQ raises side-B's C1 line (used for single-shot cart-load
// signalling) and reports whether FIRQ should be serviced.
func (p *PIA1) CartFIRQ() bool {
	p.ab[1].SetC1(true)
	return p.ab[1].ConsumeInterrupt()
}

// SetDACMux records PIA0's side A/B C2 states, which gate DAC sample
// emission (§4.4: a sample is only emitted when both mux bits are false).
func (p *PIA1) SetDACMux(a, b bool) {
	p.dacSelA, p.dacSelB = a, b
}
