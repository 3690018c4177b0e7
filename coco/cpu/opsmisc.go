package cpu

import "github.com/kbolino/go-coco/coco/memory"

// postbyteReg decodes a TFR/EXG/PSH/PUL register-select nibble into the
// register it names. Codes 6, 7, and 12-15 are reserved and report !ok.
func postbyteReg(code uint8) (RegName, bool) {
	switch code {
	case 0x0:
		return RegD, true
	case 0x1:
		return RegX, true
	case 0x2:
		return RegY, true
	case 0x3:
		return RegU, true
	case 0x4:
		return RegS, true
	case 0x5:
		return RegPC, true
	case 0x8:
		return RegA, true
	case 0x9:
		return RegB, true
	case 0xA:
		return RegCC, true
	case 0xB:
		return RegDP, true
	}
	return 0, false
}

func transfer(c *CPU, o *Outcome) {
	pb := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
	src, ok1 := postbyteReg(pb >> 4)
	dst, ok2 := postbyteReg(pb & 0x0F)
	if !ok1 || !ok2 {
		return
	}
	o.Registers.Set(dst, o.Registers.Get(src))
}

func exchange(c *CPU, o *Outcome) {
	pb := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
	ra, ok1 := postbyteReg(pb >> 4)
	rb, ok2 := postbyteReg(pb & 0x0F)
	if !ok1 || !ok2 {
		return
	}
	va, vb := o.Registers.Get(ra), o.Registers.Get(rb)
	o.Registers.Set(ra, vb)
	o.Registers.Set(rb, va)
}

// pushPostbyte implements PSHS/PSHU: the postbyte's bits, high to low, name
// PC, the other stack register, Y, X, DP, B, A, CC; each set bit pushes that
// register, PC first, so CC (if included) ends on top of stack.
func pushPostbyte(sp func(*Set) *uint16, otherReg RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		pb := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		stack := sp(&o.Registers)
		push := func(size int, v uint16) {
			*stack -= uint16(size)
			o.deferWrite(memory.AccessSystem, *stack, v, size)
		}
		if pb&0x80 != 0 {
			push(2, o.Registers.PC)
		}
		if pb&0x40 != 0 {
			push(2, o.Registers.Get(otherReg))
		}
		if pb&0x20 != 0 {
			push(2, o.Registers.Y)
		}
		if pb&0x10 != 0 {
			push(2, o.Registers.X)
		}
		if pb&0x08 != 0 {
			push(1, uint16(o.Registers.DP))
		}
		if pb&0x04 != 0 {
			push(1, uint16(o.Registers.B))
		}
		if pb&0x02 != 0 {
			push(1, uint16(o.Registers.A))
		}
		if pb&0x01 != 0 {
			push(1, uint16(o.Registers.CC))
		}
	}
}

// pullPostbyte implements PULS/PULU, the mirror image of pushPostbyte.
func pullPostbyte(sp func(*Set) *uint16, otherReg RegName) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		pb := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
		stack := sp(&o.Registers)
		pop8 := func() uint8 {
			v := c.Bus.Read8(memory.AccessSystem, *stack)
			*stack++
			return v
		}
		pop16 := func() uint16 {
			v := c.Bus.Read16(memory.AccessSystem, *stack)
			*stack += 2
			return v
		}
		if pb&0x01 != 0 {
			o.Registers.CC = CC(pop8())
		}
		if pb&0x02 != 0 {
			o.Registers.A = pop8()
		}
		if pb&0x04 != 0 {
			o.Registers.B = pop8()
		}
		if pb&0x08 != 0 {
			o.Registers.DP = pop8()
		}
		if pb&0x10 != 0 {
			o.Registers.X = pop16()
		}
		if pb&0x20 != 0 {
			o.Registers.Y = pop16()
		}
		if pb&0x40 != 0 {
			o.Registers.Set(otherReg, pop16())
		}
		if pb&0x80 != 0 {
			o.Registers.PC = pop16()
		}
	}
}

func andcc(c *CPU, o *Outcome) {
	operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
	o.Registers.CC = CC(uint8(o.Registers.CC) & operand)
}

func orcc(c *CPU, o *Outcome) {
	operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
	o.Registers.CC = CC(uint8(o.Registers.CC) | operand)
}

func cwai(c *CPU, o *Outcome) {
	operand := c.Bus.Read8(readAccessFor(o.Inst.Flavor.Mode), o.Inst.EA)
	o.Registers.CC = CC(uint8(o.Registers.CC) & operand)
	o.Meta = MetaCWAI
}

func swi(c *CPU, o *Outcome)  { o.Meta = MetaSWI }
func swi2(c *CPU, o *Outcome) { o.Meta = MetaSWI2 }
func swi3(c *CPU, o *Outcome) { o.Meta = MetaSWI3 }
func sync(c *CPU, o *Outcome) { o.Meta = MetaSYNC }
func exit(c *CPU, o *Outcome) { o.Meta = MetaEXIT }
func nop(c *CPU, o *Outcome)  {}

func abx(c *CPU, o *Outcome) {
	o.Registers.X = o.Registers.X + uint16(o.Registers.B)
}

func sex(c *CPU, o *Outcome) {
	d := uint16(int16(int8(o.Registers.B)))
	o.Registers.SetD(d)
	setZN16(&o.Registers.CC, d)
}

// daa implements decimal-adjust-A, correcting the result of a prior 8-bit
// BCD addition in A using the half-carry and carry flags it left behind.
func daa(c *CPU, o *Outcome) {
	a := o.Registers.A
	cc := &o.Registers.CC
	lowNibble := a & 0x0F
	highNibble := a >> 4
	carry := cc.IsSet(CCBitCarry)

	var correction uint8
	if cc.IsSet(CCBitHalfCarry) || lowNibble > 9 {
		correction |= 0x06
	}
	if carry || highNibble > 9 || (highNibble == 9 && lowNibble > 9) {
		correction |= 0x60
	}

	result := uint16(a) + uint16(correction)
	if result > 0xFF {
		carry = true
	}
	o.Registers.A = uint8(result)
	cc.Set(CCBitCarry, carry)
	setZN8(cc, o.Registers.A)
}

// mul computes D = A * B as an unsigned 8x8 multiply; carry takes the high
// bit of the low byte of the result, matching the reference simulator.
func mul(c *CPU, o *Outcome) {
	result := uint16(o.Registers.A) * uint16(o.Registers.B)
	o.Registers.SetD(result)
	o.Registers.CC.Set(CCBitZero, result == 0)
	o.Registers.CC.Set(CCBitCarry, result&0x80 != 0)
}
