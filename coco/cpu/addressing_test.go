package cpu

import (
	"testing"

	"github.com/kbolino/go-coco/coco/cocoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAddressingMode_Immediate8(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0x86, 0x42})
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingImmediate, OperandSize: 1}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x0601), inst.EA)
	assert.Equal(t, uint16(2), inst.Size)
}

func TestResolveAddressingMode_Direct(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0x96, 0x20})
	live := Set{PC: 0x0600, DP: 0x04}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingDirect}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x0420), inst.EA)
	assert.Equal(t, uint16(2), inst.Size)
}

func TestResolveAddressingMode_Extended(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xB6, 0x30, 0x00})
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingExtended}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x3000), inst.EA)
	assert.Equal(t, uint16(3), inst.Size)
}

func TestResolveAddressingMode_Inherent(t *testing.T) {
	bus := newTestBus()
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingInherent}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(1), inst.Size)
}

func TestResolveAddressingMode_RelativeShort(t *testing.T) {
	bus := newTestBus()
	// BRA with offset -2 branches back to its own opcode (an infinite loop
	// in real firmware, here just exercising the arithmetic).
	bus.LoadAt(0x0600, []byte{0x20, 0xFE})
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingRelative, Size: 2}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x0600), inst.EA)
	assert.Equal(t, uint16(2), inst.Size)
}

func TestResolveAddressingMode_RelativeLong(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0x16, 0x01, 0x00})
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingRelative, Size: 3}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x0703), inst.EA)
}

func TestResolveIndexed_FiveBitOffset(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x02}) // ,X+2
	live := Set{PC: 0x0600, X: 0x1000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x1002), inst.EA)
	assert.Equal(t, uint16(0x1000), live.X)
}

func TestResolveIndexed_FiveBitOffsetNegative(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x1F}) // ,X-1 (5-bit -1)
	live := Set{PC: 0x0600, X: 0x1000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x0FFF), inst.EA)
}

func TestResolveIndexed_PostIncrement(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x80}) // ,X+
	live := Set{PC: 0x0600, X: 0x2000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x2000), inst.EA)
	assert.Equal(t, uint16(0x2001), live.X)
}

func TestResolveIndexed_PostIncrementIllegalIndirect(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x90}) // [,X+]: illegal
	live := Set{PC: 0x0600, X: 0x2000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	err := resolveAddressingMode(bus, &inst, &live)
	require.Error(t, err)
	assert.True(t, cocoerr.Is(err, cocoerr.Syntax))
}

func TestResolveIndexed_DoublePostIncrement(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x81}) // ,X++
	live := Set{PC: 0x0600, X: 0x2000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x2000), inst.EA)
	assert.Equal(t, uint16(0x2002), live.X)
}

func TestResolveIndexed_PreDecrement(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x82}) // ,-X
	live := Set{PC: 0x0600, X: 0x2000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x1FFF), inst.EA)
	assert.Equal(t, uint16(0x1FFF), live.X)
}

func TestResolveIndexed_AccumulatorOffset(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x86}) // A,X
	live := Set{PC: 0x0600, X: 0x3000, A: 0x05}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x3005), inst.EA)
}

func TestResolveIndexed_Constant16Offset(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x89, 0x01, 0x00}) // 256,X
	live := Set{PC: 0x0600, X: 0x3000}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x3100), inst.EA)
	assert.Equal(t, uint16(4), inst.Size)
}

func TestResolveIndexed_ExtendedIndirect(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x9F, 0x40, 0x00}) // [0x4000]
	bus.LoadAt(0x4000, []byte{0x12, 0x34})
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	require.NoError(t, resolveAddressingMode(bus, &inst, &live))
	assert.Equal(t, uint16(0x1234), inst.EA)
}

func TestResolveIndexed_InvalidPostbyte(t *testing.T) {
	bus := newTestBus()
	bus.LoadAt(0x0600, []byte{0xA6, 0x9E}) // reserved encoding
	live := Set{PC: 0x0600}
	inst := Instance{Size: 1, Flavor: Flavor{Mode: AddressingIndexed}}

	err := resolveAddressingMode(bus, &inst, &live)
	require.Error(t, err)
	assert.True(t, cocoerr.Is(err, cocoerr.Syntax))
}
