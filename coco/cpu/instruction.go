package cpu

import "github.com/kbolino/go-coco/coco/memory"

// AddressingMode is one of the 6809's six addressing modes.
type AddressingMode int

const (
	AddressingInherent AddressingMode = iota
	AddressingImmediate
	AddressingDirect
	AddressingExtended
	AddressingRelative
	AddressingIndexed
)

// Meta marks an instruction outcome that the CPU loop must act on beyond a
// normal register/memory commit.
type Meta int

const (
	MetaNone Meta = iota
	MetaSWI
	MetaSWI2
	MetaSWI3
	MetaSYNC
	MetaCWAI
	MetaEXIT
)

// InterruptType reports the software interrupt this Meta corresponds to, if
// any; SYNC/CWAI/EXIT/None are handled by the CPU loop directly instead.
func (m Meta) InterruptType() (InterruptType, bool) {
	switch m {
	case MetaSWI:
		return Swi, true
	case MetaSWI2:
		return Swi2, true
	case MetaSWI3:
		return Swi3, true
	default:
		return 0, false
	}
}

// Flavor describes one opcode: its name, addressing mode, minimum encoded
// size (opcode bytes plus any mode-determined operand bytes), clock cost,
// and evaluation function. OperandSize is only meaningful for Immediate
// mode, where A/B/CC/DP operations take a 1-byte immediate and D/X/Y/U/S
// operations take 2.
type Flavor struct {
	Name        string
	Mode        AddressingMode
	Size        uint16
	Cycles      uint8
	OperandSize uint16
	Eval        func(c *CPU, o *Outcome)
}

// Instance is one fetched-and-decoded instruction: its raw bytes, decoded
// size, chosen Flavor, and (for non-inherent modes) effective address and a
// human-readable operand string used by tracing/disassembly.
type Instance struct {
	Bytes       [5]byte
	Size        uint16
	OpcodeSize  uint16
	Flavor      Flavor
	EA          uint16
	OperandText string
}

// DeferredWrite is a single pending bus write produced by evaluating an
// instruction; writes are applied only once the instruction commits.
type DeferredWrite struct {
	Access memory.AccessType
	Addr   uint16
	Data   uint16
	Size   int
}

// Outcome is the result of evaluating one Instance: the register file as it
// should be after the instruction commits, any writes to apply, and a Meta
// marker for SWI/CWAI/SYNC/EXIT instructions.
type Outcome struct {
	Inst      Instance
	Registers Set
	Writes    []DeferredWrite
	Meta      Meta
}

func newOutcome(inst Instance, regs Set) Outcome {
	return Outcome{Inst: inst, Registers: regs}
}

func (o *Outcome) deferWrite(access memory.AccessType, addr uint16, data uint16, size int) {
	o.Writes = append(o.Writes, DeferredWrite{Access: access, Addr: addr, Data: data, Size: size})
}

// isPrefixByte reports whether b is the first byte of a two-byte opcode
// (the 6809's page-2/page-3 instruction prefixes).
func isPrefixByte(b uint8) bool {
	return b == 0x10 || b == 0x11
}
