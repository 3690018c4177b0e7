package cpu

import "github.com/kbolino/go-coco/coco/memory"

type condition func(cc CC) bool

func condAlways(cc CC) bool { return true }
func condNever(cc CC) bool  { return false }
func condHi(cc CC) bool     { return !cc.IsSet(CCBitCarry) && !cc.IsSet(CCBitZero) }
func condLs(cc CC) bool     { return cc.IsSet(CCBitCarry) || cc.IsSet(CCBitZero) }
func condCc(cc CC) bool     { return !cc.IsSet(CCBitCarry) }
func condCs(cc CC) bool     { return cc.IsSet(CCBitCarry) }
func condNe(cc CC) bool     { return !cc.IsSet(CCBitZero) }
func condEq(cc CC) bool     { return cc.IsSet(CCBitZero) }
func condVc(cc CC) bool     { return !cc.IsSet(CCBitOverflow) }
func condVs(cc CC) bool     { return cc.IsSet(CCBitOverflow) }
func condPl(cc CC) bool     { return !cc.IsSet(CCBitNegative) }
func condMi(cc CC) bool     { return cc.IsSet(CCBitNegative) }
func condGe(cc CC) bool     { return cc.IsSet(CCBitNegative) == cc.IsSet(CCBitOverflow) }
func condLt(cc CC) bool     { return cc.IsSet(CCBitNegative) != cc.IsSet(CCBitOverflow) }
func condGt(cc CC) bool {
	return !cc.IsSet(CCBitZero) && cc.IsSet(CCBitNegative) == cc.IsSet(CCBitOverflow)
}
func condLe(cc CC) bool {
	return cc.IsSet(CCBitZero) || cc.IsSet(CCBitNegative) != cc.IsSet(CCBitOverflow)
}

// branch implements both short and long Bcc/LBcc: the relative addressing
// resolver has already computed the taken-branch target in inst.EA, so
// taking the branch is just overwriting the already-advanced PC.
func branch(cond condition) func(*CPU, *Outcome) {
	return func(c *CPU, o *Outcome) {
		if cond(o.Registers.CC) {
			o.Registers.PC = o.Inst.EA
		}
	}
}

// branchToSubroutine implements BSR/LBSR: push the post-instruction return
// address, then branch.
func branchToSubroutine(c *CPU, o *Outcome) {
	pushReturnAddr(c, o, o.Registers.PC)
	o.Registers.PC = o.Inst.EA
}

func pushReturnAddr(c *CPU, o *Outcome, addr uint16) {
	o.Registers.S -= 2
	o.deferWrite(memory.AccessSystem, o.Registers.S, addr, 2)
}

func jump(c *CPU, o *Outcome) {
	o.Registers.PC = o.Inst.EA
}

func jumpToSubroutine(c *CPU, o *Outcome) {
	pushReturnAddr(c, o, o.Registers.PC)
	o.Registers.PC = o.Inst.EA
}

// returnFromSubroutine pops PC. The pop can't be expressed as a deferred
// write (it doesn't write memory), so it reads through the bus directly;
// that's safe because reads have no side effect to roll back.
func returnFromSubroutine(c *CPU, o *Outcome) {
	o.Registers.PC = c.Bus.Read16(memory.AccessSystem, o.Registers.S)
	o.Registers.S += 2
}

// returnFromInterrupt pops CC and, if its Entire bit is set, the rest of the
// saved frame, then PC.
func returnFromInterrupt(c *CPU, o *Outcome) {
	s := o.Registers.S
	cc := CC(c.Bus.Read8(memory.AccessSystem, s))
	s++
	o.Registers.CC = cc
	if cc.IsSet(CCBitEntire) {
		o.Registers.A = c.Bus.Read8(memory.AccessSystem, s)
		s++
		o.Registers.B = c.Bus.Read8(memory.AccessSystem, s)
		s++
		o.Registers.DP = c.Bus.Read8(memory.AccessSystem, s)
		s++
		o.Registers.X = c.Bus.Read16(memory.AccessSystem, s)
		s += 2
		o.Registers.Y = c.Bus.Read16(memory.AccessSystem, s)
		s += 2
		o.Registers.U = c.Bus.Read16(memory.AccessSystem, s)
		s += 2
	}
	o.Registers.PC = c.Bus.Read16(memory.AccessSystem, s)
	s += 2
	o.Registers.S = s
}
