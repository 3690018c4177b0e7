package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteRGBValues(t *testing.T) {
	assert.Equal(t, uint32(0x000000), ColorBlack.RGB())
	assert.Equal(t, uint32(0x20E000), ColorGreen.RGB())
	assert.Equal(t, uint32(0xFFF000), ColorYellow.RGB())
	assert.Equal(t, uint32(0x0000FF), ColorBlue.RGB())
	assert.Equal(t, uint32(0xF00000), ColorRed.RGB())
	assert.Equal(t, uint32(0xE0E0E0), ColorBuff.RGB())
	assert.Equal(t, uint32(0x00EFFF), ColorCyan.RGB())
	assert.Equal(t, uint32(0xD000D0), ColorMagenta.RGB())
	assert.Equal(t, uint32(0xF06000), ColorOrange.RGB())
}

func TestColorFrom3Bits(t *testing.T) {
	assert.Equal(t, ColorGreen, colorFrom3Bits(0))
	assert.Equal(t, ColorOrange, colorFrom3Bits(7))
}

func TestColorFrom2BitsCSS(t *testing.T) {
	assert.Equal(t, ColorGreen, colorFrom2Bits(0, false))
	assert.Equal(t, ColorBuff, colorFrom2Bits(0, true))
	assert.Equal(t, ColorCyan, colorFrom2Bits(1, true))
}

func TestFontMapLength(t *testing.T) {
	assert.Len(t, fontMap, 768)
}
