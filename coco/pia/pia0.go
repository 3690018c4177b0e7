package pia

// KeyMap associates one host key with the CoCo keyboard matrix coordinates
// (row, col) it should assert. A single host key may assert more than one
// matrix cell (e.g. a synthesized shift chord).
type KeyMap map[string][][2]int

// PIA0 is the keyboard/joystick PIA: side A carries keyboard row data and
// the joystick comparator bit, side B drives the column strobe.
type PIA0 struct {
	ab [2]Side

	col [8]uint8

	directMap KeyMap
	shiftMap  KeyMap

	joyX, joyY       uint8
	joySw1, joySw2   bool

	pia1 *PIA1
}

// NewPIA0 constructs a keyboard/joystick PIA wired to pia1 for the DAC
// comparator read. The direct and shift maps are typically built once at
// start-up from DefaultKeyMaps (see keymap.go) and may be
// replaced for alternate layouts.
func NewPIA0(pia1 *PIA1, directMap, shiftMap KeyMap) *PIA0 {
	p := &PIA0{
		directMap: directMap,
		shiftMap:  shiftMap,
		joyX:      0x1F,
		joyY:      0x1F,
		pia1:      pia1,
	}
	for i := range p.col {
		p.col[i] = 0xFF
	}
	return p
}

// Read dispatches a register read; register 0 (side-A data) also refreshes
// the joystick comparator bit (IR bit 7) before returning.
func (p *PIA0) Read(reg int) uint8 {
	i := reg % 4
	if i == 0 {
		joyVal := p.joyX
		if p.ab[0].C2() {
			joyVal = p.joyY
		}
		dac := p.pia1.Read(0) >> 2
		if dac > joyVal {
			p.ab[0].ir &^= 0x80
		} else {
			p.ab[0].ir |= 0x80
		}
	}
	return p.ab[(i>>1)&1].Read(i)
}

// Write dispatches a register write; writes to register 1/3 propagate the
// DAC mux selection to PIA1, and a write to register 2 re-strobes the
// keyboard matrix.
func (p *PIA0) Write(reg int, data uint8) {
	i := reg % 4
	p.ab[(i>>1)&1].Write(i, data)
	switch i {
	case 1, 3:
		p.pia1.SetDACMux(p.ab[0].C2(), p.ab[1].C2())
	case 2:
		p.StrobeKeyboard()
	}
}

// SetJoystick updates the joystick axes (6-bit, 0..63) and fire buttons.
func (p *PIA0) SetJoystick(x, y uint8, sw1, sw2 bool) {
	p.joyX, p.joyY = x&0x3F, y&0x3F
	p.joySw1, p.joySw2 = sw1, sw2
}

// SetKeys rebuilds the column matrix from the set of currently pressed host
// keys, preferring a single shift-chord mapping over individual direct
// mappings when shift is held and a shift mapping exists, then re-strobes.
func (p *PIA0) SetKeys(pressed []string, shiftHeld bool) {
	var coords [][2]int
	for i := range p.col {
		p.col[i] = 0
	}
	if shiftHeld {
		for _, k := range pressed {
			if v, ok := p.shiftMap[k]; ok {
				coords = v
				break
			}
		}
	}
	if len(coords) == 0 {
		for _, k := range pressed {
			if v, ok := p.directMap[k]; ok {
				coords = append(coords, v...)
			}
		}
	}
	for _, rc := range coords {
		row, col := rc[0], rc[1]
		p.col[col] |= 1 << uint(row)
	}
	p.StrobeKeyboard()
}

// StrobeKeyboard recomputes side-A's input register from side-B's column
// strobe (active-low) and the joystick fire buttons.
func (p *PIA0) StrobeKeyboard() {
	var com uint8
	cols := ^p.ab[1].ReadOutput()
	if cols != 0 {
		for i := 0; i < 8; i++ {
			if cols&1 == 1 {
				com |= p.col[i]
			}
			cols >>= 1
		}
	}
	if p.joySw1 {
		com |= 0x3 &^ cols
	}
	if p.joySw2 {
		com |= 0xC &^ cols
	}
	p.ab[0].ir = ^com
}

// HsyncIRQ raises side-A's C1 line and reports whether an interrupt should
// be serviced; the latch is cleared only when it is.
func (p *PIA0) HsyncIRQ() bool {
	p.ab[0].SetC1(true)
	return p.ab[0].ConsumeInterrupt()
}

// VsyncIRQ raises side-B's C1 line and reports whether an interrupt should
// be serviced; the latch is cleared only when it is.
func (p *PIA0) VsyncIRQ() bool {
	p.ab[1].SetC1(true)
	return p.ab[1].ConsumeInterrupt()
}
