package video

import "log/slog"

// Mode identifies one of the VDG's 13 display modes. The CoCo never uses
// the 6847's alphanumeric mode directly; text is displayed through SG4,
// using the internal font for ASCII-range glyphs.
type Mode int

const (
	ModeSG4 Mode = iota
	ModeSG6
	ModeSG8
	ModeSG12
	ModeSG24
	ModeCG1
	ModeRG1
	ModeCG2
	ModeRG2
	ModeCG3
	ModeRG3
	ModeCG6
	ModeRG6
)

// modeDetails carries a mode's cell geometry and the number of color-select
// bits each VRAM byte encodes per cell.
type modeDetails struct {
	cellX, cellY, colorBits int
}

var modeTable = map[Mode]modeDetails{
	ModeSG4:  {cellX: 4, cellY: 6, colorBits: 3},
	ModeSG6:  {cellX: 4, cellY: 4, colorBits: 2},
	ModeSG8:  {cellX: 4, cellY: 3, colorBits: 3},
	ModeSG12: {cellX: 4, cellY: 2, colorBits: 3},
	ModeSG24: {cellX: 4, cellY: 1, colorBits: 3},
	ModeCG1:  {cellX: 4, cellY: 3, colorBits: 2},
	ModeRG1:  {cellX: 2, cellY: 3, colorBits: 1},
	ModeCG2:  {cellX: 2, cellY: 3, colorBits: 2},
	ModeRG2:  {cellX: 2, cellY: 2, colorBits: 1},
	ModeCG3:  {cellX: 2, cellY: 2, colorBits: 2},
	ModeRG3:  {cellX: 2, cellY: 1, colorBits: 1},
	ModeCG6:  {cellX: 2, cellY: 1, colorBits: 2},
	ModeRG6:  {cellX: 1, cellY: 1, colorBits: 1},
}

// ModeFromBits derives the VDG mode from PIA1's 5-bit mode field and SAM's
// 3-bit VDG field. CSS (bit 0 of pia) selects a color set, not a mode, and
// is ignored here. Returns false when the (pia, sam) combination names no
// mode (e.g. DMA mode, which the CoCo's VDG never drives).
func ModeFromBits(pia, sam uint8) (Mode, bool) {
	pia &= 0b11110
	gagm0 := pia & 0b10010
	switch {
	case sam == 0 && gagm0 == 0:
		return ModeSG4, true
	case sam == 0 && gagm0 == 2:
		return ModeSG6, true
	case sam == 1 && pia == 0b10000:
		return ModeCG1, true
	case sam == 1 && pia == 0b10010:
		return ModeRG1, true
	case sam == 2 && gagm0 == 0:
		return ModeSG8, true
	case sam == 2 && pia == 0b10100:
		return ModeCG2, true
	case sam == 3 && pia == 0b10110:
		return ModeRG2, true
	case sam == 4 && gagm0 == 0:
		return ModeSG12, true
	case sam == 4 && pia == 0b11000:
		return ModeCG3, true
	case sam == 5 && pia == 0b11010:
		return ModeRG3, true
	case sam == 6 && gagm0 == 0:
		return ModeSG24, true
	case sam == 6 && pia == 0b11100:
		return ModeCG6, true
	case sam == 6 && pia == 0b11110:
		return ModeRG6, true
	default:
		return 0, false
	}
}

const (
	blockDimX = 8
	blockDimY = 12
	blockCols = FramebufferWidth / blockDimX
	blockRows = FramebufferHeight / blockDimY
	vramSize  = (FramebufferWidth * FramebufferHeight) / 8
)

// char describes one SG-extended-mode or char-block glyph resolved from a
// VRAM byte: an index into fontMap and whether it renders foreground-on-background
// or inverted.
type char struct {
	fontIndex int
	inverted  bool
}

func charFromASCII(b uint8) (char, bool) {
	var i uint8
	switch {
	case b <= 0x1f:
		i = 0x20
	case b <= 0x3f:
		i = b
	case b <= 0x7f:
		i = b & 0x1f
	default:
		return char{}, false
	}
	return char{fontIndex: int(i) * blockDimY, inverted: b > 0x5f}, true
}

func charFromRaw(b uint8) (char, bool) {
	var i uint8
	var inverted bool
	switch {
	case b <= 0x3f:
		i, inverted = b, false
	case b <= 0x7f:
		i, inverted = b-0x40, true
	default:
		return char{}, false
	}
	return char{fontIndex: int(i) * blockDimY, inverted: inverted}, true
}

// VDG renders VRAM into a packed-RGB framebuffer. It holds a read-only,
// unsynchronized view of shared RAM (§5's relaxed-consistency contract) and
// redraws the whole frame on every Render call, matching real hardware's
// VRAM-to-RGB mapping rather than a scanline PPU. The dirty flag records
// mode/offset changes but does not gate rendering.
//
// NOTE: when a caller needs both VDG and RAM locks, VDG must be acquired
// first.
type VDG struct {
	ram        []byte
	vramOffset int
	mode       Mode
	dirty      bool
	ascii      bool
}

// New constructs a VDG reading from ram (typically (*memory.Bus).RAMView()),
// defaulting to SG4 mode at VRAM offset 0.
func New(ram []byte) *VDG {
	return &VDG{ram: ram, mode: ModeSG4, dirty: true}
}

// SetMode updates the active mode, marking the framebuffer dirty on change.
func (v *VDG) SetMode(mode Mode) {
	if v.mode != mode {
		slog.Debug("VDG mode changed", "from", v.mode, "to", mode)
		v.mode = mode
		v.dirty = true
	}
}

// Mode returns the VDG's current display mode.
func (v *VDG) Mode() Mode {
	return v.mode
}

// SetVRAMOffset updates the VRAM base address within RAM.
func (v *VDG) SetVRAMOffset(offset int) {
	if offset+vramSize > len(v.ram) {
		panic("invalid VRAM offset: extends past the end of RAM")
	}
	if offset != v.vramOffset {
		v.vramOffset = offset
		v.dirty = true
	}
}

// InterpretCharsAsASCII toggles ASCII vs. raw glyph-index interpretation of
// character-mode VRAM bytes.
func (v *VDG) InterpretCharsAsASCII(ascii bool) {
	v.ascii = ascii
}

// SetDirty sets the dirty flag (for a VRAM write the VDG has no other way
// to observe). Render redraws on every call whether or not it is set.
func (v *VDG) SetDirty() {
	v.dirty = true
}

// Render draws the current VRAM contents into display (length
// FramebufferWidth*FramebufferHeight, row-major) and reports whether it
// drew anything.
func (v *VDG) Render(display []uint32, css bool) bool {
	// Every call redraws the full frame regardless of the dirty flag: the
	// display thread calls this once per frame tick, and a stale frame is
	// worse than a redundant one.
	v.dirty = false
	switch v.mode {
	case ModeSG4:
		for i := 0; i < blockCols*blockRows; i++ {
			index := ((i/blockCols)*blockDimY)*FramebufferWidth + (i%blockCols)*blockDimX
			v.drawSG4Block(display, index, v.ram[i+v.vramOffset], css)
		}
	case ModeSG6:
		for i := 0; i < blockCols*blockRows; i++ {
			index := ((i/blockCols)*blockDimY)*FramebufferWidth + (i%blockCols)*blockDimX
			v.drawSGBlock(display, index, v.ram[i+v.vramOffset], css)
		}
	case ModeSG8, ModeSG12, ModeSG24:
		v.renderSGExtended(display)
	default:
		v.renderGraphics(display, css)
	}
	return true
}

func (v *VDG) renderGraphics(display []uint32, css bool) {
	md := modeTable[v.mode]
	cellsPerSrcByte := 8 / md.colorBits
	cellsPerRow := FramebufferWidth / md.cellX
	cellsPerCol := FramebufferHeight / md.cellY
	srcBytesPerRow := cellsPerRow / cellsPerSrcByte
	dst := 0
	for srcRow := 0; srcRow < cellsPerCol; srcRow++ {
		for cellLine := 0; cellLine < md.cellY; cellLine++ {
			for srcCol := 0; srcCol < srcBytesPerRow; srcCol++ {
				srcIndex := v.vramOffset + srcCol + srcRow*srcBytesPerRow
				srcData := uint16(v.ram[srcIndex])
				for k := 0; k < cellsPerSrcByte; k++ {
					var color Color
					switch md.colorBits {
					case 1:
						srcData <<= 1
						if srcData&0x0100 == 0 {
							color = ColorBlack
						} else {
							color = ColorGreen
						}
					case 2:
						srcData <<= 2
						color = colorFrom2Bits(uint8((srcData&0x300)>>8), css)
					}
					rgb := color.RGB()
					for p := 0; p < md.cellX; p++ {
						display[dst] = rgb
						dst++
					}
				}
			}
		}
	}
}

func (v *VDG) renderSGExtended(display []uint32) {
	md := modeTable[v.mode]
	for blockCol := 0; blockCol < blockCols; blockCol++ {
		for blockRow := 0; blockRow < blockRows; blockRow++ {
			cellRows := blockDimY / md.cellY
			for cellRow := 0; cellRow < cellRows; cellRow++ {
				srcIndex := v.vramOffset + blockCol + (blockRow*cellRows+cellRow)*blockCols
				cellData := v.ram[srcIndex]
				ch, isChar := charFromASCII(cellData)
				for pixRow := 0; pixRow < md.cellY; pixRow++ {
					var pattern uint8
					var fg, bg Color
					if isChar {
						if ch.inverted {
							fg, bg = ColorBlack, ColorGreen
						} else {
							fg, bg = ColorGreen, ColorBlack
						}
						pattern = ^fontMap[ch.fontIndex+pixRow+cellRow*md.cellY]
					} else {
						var p uint8
						if cellData&1 == 1 {
							p |= 0xf
						}
						if cellData&2 == 2 {
							p |= 0xf0
						}
						fg, bg = colorFrom3Bits((cellData&0x70)>>4), ColorBlack
						pattern = p
					}
					dst := FramebufferWidth*(blockRow*blockDimY+cellRow*md.cellY+pixRow) + blockCol*blockDimX
					drawEightPixels(display, dst, pattern, fg, bg)
				}
			}
		}
	}
}

func (v *VDG) drawSG4Block(display []uint32, index int, glyph uint8, css bool) {
	if glyph < 0x80 {
		drawCharBlock(display, index, glyph, ColorGreen, ColorBlack, v.ascii)
	} else {
		v.drawSGBlock(display, index, glyph, css)
	}
}

func drawCharBlock(display []uint32, index int, glyph uint8, fg, bg Color, ascii bool) {
	var ch char
	var ok bool
	if ascii {
		ch, ok = charFromASCII(glyph)
	} else {
		ch, ok = charFromRaw(glyph)
	}
	if !ok {
		return
	}
	if ch.inverted {
		fg, bg = bg, fg
	}
	dst := index
	for line := 0; line < blockDimY; line++ {
		drawEightPixels(display, dst, fontMap[ch.fontIndex+line], fg, bg)
		dst += FramebufferWidth
	}
}

func (v *VDG) drawSGBlock(display []uint32, index int, glyph uint8, css bool) {
	md := modeTable[v.mode]
	var fg Color
	if md.colorBits == 3 {
		fg = colorFrom3Bits((glyph & 0x70) >> 4)
	} else {
		fg = colorFrom2Bits((glyph&0xc0)>>6, css)
	}
	rowPattern := func(lum uint8) uint8 {
		switch lum {
		case 0:
			return 0
		case 1:
			return 0x0f
		case 2:
			return 0xf0
		default:
			return 0xff
		}
	}
	cellRows := blockDimY / md.cellY
	lumMask := uint8(0x3) << uint(2*(cellRows-1))
	dst := index
	for cellRow := 0; cellRow < cellRows; cellRow++ {
		shift := uint(2 * (cellRows - cellRow - 1))
		pattern := rowPattern((glyph & lumMask) >> shift)
		lumMask >>= 2
		for i := 0; i < md.cellY; i++ {
			drawEightPixels(display, dst, pattern, fg, ColorBlack)
			dst += FramebufferWidth
		}
	}
}

func drawEightPixels(display []uint32, index int, bits uint8, fg, bg Color) {
	bit := uint8(0x80)
	for i := 0; i < 8; i++ {
		if bits&bit != 0 {
			display[index+i] = fg.RGB()
		} else {
			display[index+i] = bg.RGB()
		}
		bit >>= 1
	}
}
