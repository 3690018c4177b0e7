package cpu

import (
	"testing"

	"github.com/kbolino/go-coco/coco/cocoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPU_ResetLoadsVectorAndClearsRegisters(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0xBFFE, []byte{0x06, 0x00}) // 0xFFFE remaps to 0xBFFE
	c := New(bus, nil, nil, 0, 0)
	c.Reg.A = 0xFF

	c.Reset()

	assert.Equal(t, uint16(0x0600), c.Reg.PC)
	assert.Equal(t, uint8(0), c.Reg.A)
}

func TestCPU_SetResetVectorOverridesOnReset(t *testing.T) {
	bus := newTestBus()
	c := New(bus, nil, nil, 0, 0)
	c.SetResetVector(0x0700)

	c.Reset()

	assert.Equal(t, uint16(0x0700), c.Reg.PC)
}

func TestCPU_RunStopsOnEXIT(t *testing.T) {
	bus := newTestBus()
	c := newTestCPU(bus, 0x0600, []byte{0x3E}) // EXIT

	err := c.Run(0)
	require.NoError(t, err)
}

func TestCPU_StepPropagatesBadOpcodeError(t *testing.T) {
	bus := newTestBus()
	c := newTestCPU(bus, 0x0600, []byte{0x87})

	err := c.Step()
	require.Error(t, err)
	assert.False(t, cocoerr.Is(err, cocoerr.Exit))
}

func TestCPU_CWAIGatesExecutionUntilInterrupt(t *testing.T) {
	bus := newTestBus()
	// CWAI #0xFF, then an INCA that must NOT execute until the CPU leaves
	// CWAI by servicing an interrupt.
	c := newTestCPU(bus, 0x0600, []byte{0x3C, 0xFF, 0x4C})
	c.Reg.S = 0x4000

	require.NoError(t, c.Step())
	assert.True(t, c.inCWAI)
	assert.Equal(t, uint16(0x3FF4), c.Reg.S, "CWAI stacks the full 12-byte frame")

	require.NoError(t, c.Step())
	assert.True(t, c.inCWAI, "still waiting: Step only runs instructions when inCWAI is false")
	assert.Equal(t, uint8(0), c.Reg.A, "INCA after CWAI must not have executed yet")
}
