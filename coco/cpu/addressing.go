package cpu

import (
	"github.com/kbolino/go-coco/coco/cocoerr"
	"github.com/kbolino/go-coco/coco/memory"
)

// resolveAddressingMode determines the effective address for inst, advances
// inst.Size past any operand bytes the mode consumes, and applies any
// register side effects (indexed auto-inc/dec) to live. Ported from the
// addressing-mode switch in the reference simulator's instruction decoder.
func resolveAddressingMode(bus *memory.Bus, inst *Instance, live *Set) error {
	switch inst.Flavor.Mode {
	case AddressingImmediate:
		inst.EA = live.PC + inst.Size
		inst.Size += inst.Flavor.OperandSize

	case AddressingDirect:
		lo := bus.Read8(memory.AccessProgram, live.PC+inst.Size)
		inst.EA = uint16(live.DP)<<8 | uint16(lo)
		inst.Size++

	case AddressingExtended:
		inst.EA = bus.Read16(memory.AccessProgram, live.PC+inst.Size)
		inst.Size += 2

	case AddressingInherent:
		// opcode alone is sufficient; nothing to resolve

	case AddressingRelative:
		offsetSize := inst.Flavor.Size - inst.Size
		offset := signExtend(bus.ReadN(memory.AccessProgram, live.PC+inst.Size, int(offsetSize)), offsetSize)
		inst.Size += offsetSize
		inst.EA = (live.PC + inst.Size) + uint16(offset)

	case AddressingIndexed:
		return resolveIndexed(bus, inst, live)

	default:
		return cocoerr.New(cocoerr.Runtime, "invalid addressing mode %v", inst.Flavor.Mode)
	}
	return nil
}

// signExtend widens a 1- or 2-byte value read as unsigned into its signed
// 16-bit representation.
func signExtend(v uint16, size uint16) int16 {
	if size == 1 {
		return int16(int8(uint8(v)))
	}
	return int16(v)
}

func resolveIndexed(bus *memory.Bus, inst *Instance, live *Set) error {
	pb := bus.Read8(memory.AccessProgram, live.PC+inst.Size)
	inst.Size++

	indirect := pb&0b10010000 == 0b10010000
	rr := (pb & 0b01100000) >> 5
	var irPtr *uint16
	switch rr {
	case 0:
		irPtr = &live.X
	case 1:
		irPtr = &live.Y
	case 2:
		irPtr = &live.U
	case 3:
		irPtr = &live.S
	}

	key := pb & 0x8f
	switch {
	case key <= 0b11111:
		// ,R + 5-bit signed offset
		raw := pb & 0b11111
		if pb&0b10000 != 0 {
			raw |= 0b11100000
		}
		inst.EA = *irPtr + uint16(int8(raw))

	case key == 0b10000000:
		// ,R+
		if indirect {
			return cocoerr.New(cocoerr.Syntax, "illegal indirect indexed addressing mode [,R+]")
		}
		inst.EA = *irPtr
		*irPtr++

	case key == 0b10000001:
		// ,R++
		inst.EA = *irPtr
		*irPtr += 2

	case key == 0b10000010:
		// ,-R
		if indirect {
			return cocoerr.New(cocoerr.Syntax, "illegal indirect indexed addressing mode [,-R]")
		}
		*irPtr--
		inst.EA = *irPtr

	case key == 0b10000011:
		// ,--R
		*irPtr -= 2
		inst.EA = *irPtr

	case key == 0b10000100:
		// ,R
		inst.EA = *irPtr

	case key == 0b10000101:
		// B,R
		inst.EA = *irPtr + uint16(int8(live.B))

	case key == 0b10000110:
		// A,R
		inst.EA = *irPtr + uint16(int8(live.A))

	case key == 0b10001000:
		// n8,R
		offset := int8(bus.Read8(memory.AccessProgram, live.PC+inst.Size))
		inst.Size++
		inst.EA = *irPtr + uint16(offset)

	case key == 0b10001001:
		// n16,R
		offset := int16(bus.Read16(memory.AccessProgram, live.PC+inst.Size))
		inst.Size += 2
		inst.EA = *irPtr + uint16(offset)

	case key == 0b10001011:
		// D,R
		inst.EA = *irPtr + live.D()

	case key == 0b10001100:
		// n8,PCR
		offset := int8(bus.Read8(memory.AccessProgram, live.PC+inst.Size))
		inst.Size++
		inst.EA = (live.PC + inst.Size) + uint16(offset)

	case key == 0b10001101:
		// n16,PCR
		offset := int16(bus.Read16(memory.AccessProgram, live.PC+inst.Size))
		inst.Size += 2
		inst.EA = (live.PC + inst.Size) + uint16(offset)

	case key == 0b10001111:
		// [n16]: extended indirect
		inst.EA = bus.Read16(memory.AccessProgram, live.PC+inst.Size)
		inst.Size += 2

	default:
		return cocoerr.New(cocoerr.Syntax, "invalid indexed addressing post-byte %02X", pb)
	}

	if indirect {
		inst.EA = bus.Read16(memory.AccessGeneric, inst.EA)
	}
	return nil
}
