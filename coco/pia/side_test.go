package pia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideControlRegisterPreservesFlagBits(t *testing.T) {
	var s Side
	s.SetC1(true) // sets cr bit 7

	s.Write(1, 0b00101010) // odd index => control write

	assert.Equal(t, uint8(0b10101010), s.Read(1), "flag bits must survive a control write")

	second := s.Read(1)
	assert.Equal(t, uint8(0), second&0x80, "reading control clears bit 7")
}

func TestSideC1RisingEdgeSetsFlag(t *testing.T) {
	var s Side
	s.SetC1(false)
	assert.Equal(t, uint8(0), s.cr&0x80)

	s.SetC1(true)
	assert.Equal(t, uint8(0x80), s.cr&0x80)

	s.readControl()
	assert.Equal(t, uint8(0), s.cr&0x80)
}

func TestSideDataReadWrite(t *testing.T) {
	var s Side
	// CR bit 2 clear: register 0 writes DDR
	s.Write(1, 0x00)
	s.Write(0, 0b11110000)
	assert.Equal(t, uint8(0b11110000), s.Read(0))

	// CR bit 2 set: register 0 now writes OR, masked by DDR
	s.Write(1, 0x04)
	s.Write(0, 0b10101010)
	assert.Equal(t, uint8(0b10100000), s.or)

	got := s.Read(0)
	assert.Equal(t, uint8(0b10100000), got&0b11110000)
}

func TestConsumeInterruptC1(t *testing.T) {
	var s Side
	s.Write(1, 0x01) // enable C1 interrupt (bit 0)
	assert.False(t, s.ConsumeInterrupt())

	s.SetC1(true)
	assert.True(t, s.ConsumeInterrupt())
	assert.False(t, s.ConsumeInterrupt(), "latch must clear after consuming")
}
