package cpu

import "github.com/kbolino/go-coco/coco/memory"

// reg8 selects one 8-bit accumulator (A or B) out of a register set.
type reg8 struct {
	name string
	get  func(*Set) *uint8
}

var regA = reg8{"A", func(s *Set) *uint8 { return &s.A }}
var regB = reg8{"B", func(s *Set) *uint8 { return &s.B }}

func readAccessFor(mode AddressingMode) memory.AccessType {
	if mode == AddressingImmediate {
		return memory.AccessProgram
	}
	return memory.AccessGeneric
}

func setZN8(cc *CC, v uint8) {
	cc.Set(CCBitZero, v == 0)
	cc.Set(CCBitNegative, v&0x80 != 0)
}

func add8Flags(cc *CC, a, b, carryIn uint8) uint8 {
	sum := uint16(a) + uint16(b) + uint16(carryIn)
	result := uint8(sum)
	cc.Set(CCBitCarry, sum > 0xFF)
	cc.Set(CCBitHalfCarry, (a&0xF)+(b&0xF)+carryIn > 0xF)
	cc.Set(CCBitOverflow, (a^result)&(b^result)&0x80 != 0)
	setZN8(cc, result)
	return result
}

func sub8Flags(cc *CC, a, b, borrowIn uint8) uint8 {
	diff := int(a) - int(b) - int(borrowIn)
	result := uint8(diff)
	cc.Set(CCBitCarry, diff < 0)
	cc.Set(CCBitOverflow, (a^b)&(a^result)&0x80 != 0)
	setZN8(cc, result)
	return result
}

// loadReg8 implements LDA/LDB across every addressing mode: read the
// operand and store it into the register, setting Z/N.
func loadReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		v := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		*r.get(&o.Registers) = v
		setZN8(&o.Registers.CC, v)
	}
}

// storeReg8 implements STA/STB: defer a write of the register to EA.
func storeReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		v := *r.get(&o.Registers)
		setZN8(&o.Registers.CC, v)
		o.deferWrite(memory.AccessGeneric, o.Inst.EA, uint16(v), 1)
	}
}

func addReg8(r reg8, withCarry bool) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		var carryIn uint8
		if withCarry && o.Registers.CC.IsSet(CCBitCarry) {
			carryIn = 1
		}
		reg := r.get(&o.Registers)
		*reg = add8Flags(&o.Registers.CC, *reg, operand, carryIn)
	}
}

func subReg8(r reg8, withBorrow bool) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		var borrowIn uint8
		if withBorrow && o.Registers.CC.IsSet(CCBitCarry) {
			borrowIn = 1
		}
		reg := r.get(&o.Registers)
		*reg = sub8Flags(&o.Registers.CC, *reg, operand, borrowIn)
	}
}

func cmpReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		reg := *r.get(&o.Registers)
		sub8Flags(&o.Registers.CC, reg, operand, 0) // discard result, flags only
	}
}

func andReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		reg := r.get(&o.Registers)
		*reg &= operand
		o.Registers.CC.Set(CCBitOverflow, false)
		setZN8(&o.Registers.CC, *reg)
	}
}

func orReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		reg := r.get(&o.Registers)
		*reg |= operand
		o.Registers.CC.Set(CCBitOverflow, false)
		setZN8(&o.Registers.CC, *reg)
	}
}

func eorReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		reg := r.get(&o.Registers)
		*reg ^= operand
		o.Registers.CC.Set(CCBitOverflow, false)
		setZN8(&o.Registers.CC, *reg)
	}
}

func bitReg8(r reg8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		result := *r.get(&o.Registers) & operand
		o.Registers.CC.Set(CCBitOverflow, false)
		setZN8(&o.Registers.CC, result)
	}
}

// memOp8 applies fn to the byte at EA (for Direct/Extended/Indexed) and
// defers the write-back; used for INC/DEC/CLR/COM/NEG/TST/ASL/ASR/LSR/ROL/ROR
// in their memory-operand forms.
func memOp8(fn func(cc *CC, v uint8) uint8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		v := c.Bus.Read8(memory.AccessGeneric, o.Inst.EA)
		result := fn(&o.Registers.CC, v)
		o.deferWrite(memory.AccessGeneric, o.Inst.EA, uint16(result), 1)
	}
}

// regOp8 applies fn directly to an accumulator; used for the inherent
// (register-operand) forms of the same instructions.
func regOp8(r reg8, fn func(cc *CC, v uint8) uint8) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		reg := r.get(&o.Registers)
		*reg = fn(&o.Registers.CC, *reg)
	}
}

func opInc(cc *CC, v uint8) uint8 {
	result := v + 1
	cc.Set(CCBitOverflow, v == 0x7F)
	setZN8(cc, result)
	return result
}

func opDec(cc *CC, v uint8) uint8 {
	result := v - 1
	cc.Set(CCBitOverflow, v == 0x80)
	setZN8(cc, result)
	return result
}

func opClr(cc *CC, v uint8) uint8 {
	cc.Set(CCBitCarry, false)
	cc.Set(CCBitOverflow, false)
	cc.Set(CCBitZero, true)
	cc.Set(CCBitNegative, false)
	return 0
}

func opCom(cc *CC, v uint8) uint8 {
	result := ^v
	cc.Set(CCBitCarry, true)
	cc.Set(CCBitOverflow, false)
	setZN8(cc, result)
	return result
}

func opNeg(cc *CC, v uint8) uint8 {
	result := uint8(-int8(v))
	cc.Set(CCBitCarry, v != 0)
	cc.Set(CCBitOverflow, v == 0x80)
	setZN8(cc, result)
	return result
}

func opTst(cc *CC, v uint8) uint8 {
	cc.Set(CCBitOverflow, false)
	setZN8(cc, v)
	return v
}

func opAsl(cc *CC, v uint8) uint8 {
	result := v << 1
	cc.Set(CCBitCarry, v&0x80 != 0)
	cc.Set(CCBitOverflow, (v^result)&0x80 != 0)
	setZN8(cc, result)
	return result
}

func opAsr(cc *CC, v uint8) uint8 {
	result := uint8(int8(v) >> 1)
	cc.Set(CCBitCarry, v&0x01 != 0)
	setZN8(cc, result)
	return result
}

func opLsr(cc *CC, v uint8) uint8 {
	result := v >> 1
	cc.Set(CCBitCarry, v&0x01 != 0)
	setZN8(cc, result)
	return result
}

func opRol(cc *CC, v uint8) uint8 {
	var carryIn uint8
	if cc.IsSet(CCBitCarry) {
		carryIn = 1
	}
	result := (v << 1) | carryIn
	cc.Set(CCBitCarry, v&0x80 != 0)
	cc.Set(CCBitOverflow, (v^result)&0x80 != 0)
	setZN8(cc, result)
	return result
}

func opRor(cc *CC, v uint8) uint8 {
	var carryIn uint8
	if cc.IsSet(CCBitCarry) {
		carryIn = 1
	}
	result := (v >> 1) | (carryIn << 7)
	cc.Set(CCBitCarry, v&0x01 != 0)
	setZN8(cc, result)
	return result
}
