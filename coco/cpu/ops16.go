package cpu

import "github.com/kbolino/go-coco/coco/memory"

func setZN16(cc *CC, v uint16) {
	cc.Set(CCBitZero, v == 0)
	cc.Set(CCBitNegative, v&0x8000 != 0)
}

func add16Flags(cc *CC, a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	result := uint16(sum)
	cc.Set(CCBitCarry, sum > 0xFFFF)
	cc.Set(CCBitOverflow, (a^result)&(b^result)&0x8000 != 0)
	setZN16(cc, result)
	return result
}

func sub16Flags(cc *CC, a, b uint16) uint16 {
	diff := int32(a) - int32(b)
	result := uint16(diff)
	cc.Set(CCBitCarry, diff < 0)
	cc.Set(CCBitOverflow, (a^b)&(a^result)&0x8000 != 0)
	setZN16(cc, result)
	return result
}

// loadReg16 implements LDD/LDX/LDY/LDU/LDS across every addressing mode.
func loadReg16(r RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		v := c.Bus.Read16(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		o.Registers.Set(r, v)
		setZN16(&o.Registers.CC, v)
	}
}

// storeReg16 implements STD/STX/STY/STU/STS.
func storeReg16(r RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		v := o.Registers.Get(r)
		setZN16(&o.Registers.CC, v)
		o.deferWrite(memory.AccessGeneric, o.Inst.EA, v, 2)
	}
}

func addReg16(r RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read16(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		result := add16Flags(&o.Registers.CC, o.Registers.Get(r), operand)
		o.Registers.Set(r, result)
	}
}

func subReg16(r RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read16(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		result := sub16Flags(&o.Registers.CC, o.Registers.Get(r), operand)
		o.Registers.Set(r, result)
	}
}

func cmpReg16(r RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read16(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		sub16Flags(&o.Registers.CC, o.Registers.Get(r), operand)
	}
}

// leaReg implements LEAX/LEAY/LEAS/LEAU: the EA itself becomes the new
// register value. X/Y additionally set Z from the result; S/U never touch CC.
func leaReg(r RegName, affectsZ bool) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		o.Registers.Set(r, o.Inst.EA)
		if affectsZ {
			o.Registers.CC.Set(CCBitZero, o.Inst.EA == 0)
		}
	}
}
