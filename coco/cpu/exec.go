package cpu

import (
	"github.com/kbolino/go-coco/coco/bit"
	"github.com/kbolino/go-coco/coco/cocoerr"
	"github.com/kbolino/go-coco/coco/memory"
)

// execNext fetches, decodes, resolves, evaluates, and commits exactly one
// instruction at the current PC.
func (c *CPU) execNext() (Outcome, error) {
	var inst Instance
	var op16 uint16
	liveCtx := c.Reg

	for {
		b := c.Bus.Read8(memory.AccessProgram, liveCtx.PC+inst.Size)
		inst.Bytes[inst.Size] = b
		op16 = op16<<8 | uint16(b)
		inst.Size++
		if inst.Size == 1 && isPrefixByte(b) {
			continue
		}
		break
	}
	inst.OpcodeSize = inst.Size

	flavor, ok := opcodeToFlavor(op16)
	if !ok {
		return Outcome{}, cocoerr.New(cocoerr.Runtime, "bad instruction %04X at %04X", op16, c.Reg.PC)
	}
	inst.Flavor = flavor

	if err := resolveAddressingMode(c.Bus, &inst, &liveCtx); err != nil {
		return Outcome{}, err
	}

	newPC, overflow := bit.CheckedAdd16(liveCtx.PC, inst.Size)
	if overflow {
		return Outcome{}, cocoerr.New(cocoerr.Runtime, "instruction overflow: %s at %04X", flavor.Name, c.Reg.PC)
	}
	liveCtx.PC = newPC

	o := newOutcome(inst, liveCtx)
	flavor.Eval(c, &o)

	if c.Trace != nil {
		c.Trace(c.Reg.PC, inst)
	}

	c.Reg = o.Registers
	for _, w := range o.Writes {
		c.Bus.WriteN(w.Access, w.Addr, w.Data, w.Size)
	}

	c.instructionCount++
	c.clockCycles += uint64(flavor.Cycles)
	return o, nil
}
