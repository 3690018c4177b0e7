package cpu

// opcodeToFlavor maps a decoded one- or two-byte opcode (the second byte of
// a 0x10/0x11-prefixed instruction occupies the low byte, with the prefix
// byte shifted into the high byte) to its Flavor. Reserved/undefined
// encodings report !ok, which the fetch loop turns into a Runtime error.
//
// EXIT has no counterpart in the real 6809 ISA; it's mapped onto 0x3E, an
// opcode the instruction set leaves undefined, so a scripted run can end
// the simulation cleanly without relying on a side channel.
func opcodeToFlavor(op16 uint16) (Flavor, bool) {
	if f, ok := page1[uint8(op16)]; ok && op16 < 0x100 {
		return f, true
	}
	if f, ok := page2[uint8(op16)]; ok && op16>>8 == 0x10 {
		return f, true
	}
	if f, ok := page3[uint8(op16)]; ok && op16>>8 == 0x11 {
		return f, true
	}
	return Flavor{}, false
}

func mk(name string, mode AddressingMode, size uint16, cycles uint8, operandSize uint16, eval func(*CPU, *Outcome)) Flavor {
	return Flavor{Name: name, Mode: mode, Size: size, Cycles: cycles, OperandSize: operandSize, Eval: eval}
}

// rmw groups NEG/COM/LSR/ROR/ASR/ASL/ROL/DEC/INC/TST/CLR/JMP, which share
// the same opcode-offset pattern across direct (0x0_), inherent-A (0x4_),
// inherent-B (0x5_), indexed (0x6_), and extended (0x7_) pages.
type rmwOp struct {
	name string
	fn   func(cc *CC, v uint8) uint8
}

var rmwOps = []rmwOp{
	{"NEG", opNeg},
	{"COM", opCom},
	{"LSR", opLsr},
	{"ROR", opRor},
	{"ASR", opAsr},
	{"ASL", opAsl},
	{"ROL", opRol},
	{"DEC", opDec},
	{"INC", opInc},
	{"TST", opTst},
	{"JMP", nil}, // handled separately, JMP has no flag side effects
	{"CLR", opClr},
}

// rmwOffsets gives the low nibble each op in rmwOps occupies within its page.
var rmwOffsets = []uint8{0x0, 0x3, 0x4, 0x6, 0x7, 0x8, 0x9, 0xA, 0xC, 0xD, 0xE, 0xF}

var page1 = buildPage1()
var page2 = buildPage2()
var page3 = buildPage3()

func buildPage1() map[uint8]Flavor {
	m := map[uint8]Flavor{}

	for i, off := range rmwOffsets {
		o := rmwOps[i]
		if o.name == "JMP" {
			m[0x00+off] = mk("JMP", AddressingDirect, 2, 3, 0, jump)
			m[0x60+off] = mk("JMP", AddressingIndexed, 2, 4, 0, jump)
			m[0x70+off] = mk("JMP", AddressingExtended, 3, 3, 0, jump)
			continue
		}
		m[0x00+off] = mk(o.name, AddressingDirect, 2, 6, 0, memOp8(o.fn))
		m[0x40+off] = mk(o.name+"A", AddressingInherent, 1, 2, 0, regOp8(regA, o.fn))
		m[0x50+off] = mk(o.name+"B", AddressingInherent, 1, 2, 0, regOp8(regB, o.fn))
		m[0x60+off] = mk(o.name, AddressingIndexed, 2, 6, 0, memOp8(o.fn))
		m[0x70+off] = mk(o.name, AddressingExtended, 3, 7, 0, memOp8(o.fn))
	}

	m[0x12] = mk("NOP", AddressingInherent, 1, 2, 0, nop)
	m[0x13] = mk("SYNC", AddressingInherent, 1, 2, 0, sync)
	m[0x16] = mk("LBRA", AddressingRelative, 3, 5, 0, branch(condAlways))
	m[0x17] = mk("LBSR", AddressingRelative, 3, 9, 0, branchToSubroutine)
	m[0x19] = mk("DAA", AddressingInherent, 1, 2, 0, daa)
	m[0x1A] = mk("ORCC", AddressingImmediate, 2, 3, 1, orcc)
	m[0x1C] = mk("ANDCC", AddressingImmediate, 2, 3, 1, andcc)
	m[0x1D] = mk("SEX", AddressingInherent, 1, 2, 0, sex)
	m[0x1E] = mk("EXG", AddressingImmediate, 2, 8, 1, exchange)
	m[0x1F] = mk("TFR", AddressingImmediate, 2, 6, 1, transfer)

	branchNames := []string{"BRA", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ", "BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE"}
	branchConds := []condition{condAlways, condNever, condHi, condLs, condCc, condCs, condNe, condEq, condVc, condVs, condPl, condMi, condGe, condLt, condGt, condLe}
	for i := range branchNames {
		m[0x20+uint8(i)] = mk(branchNames[i], AddressingRelative, 2, 3, 0, branch(branchConds[i]))
	}

	m[0x30] = mk("LEAX", AddressingIndexed, 2, 4, 0, leaReg(RegX, true))
	m[0x31] = mk("LEAY", AddressingIndexed, 2, 4, 0, leaReg(RegY, true))
	m[0x32] = mk("LEAS", AddressingIndexed, 2, 4, 0, leaReg(RegS, false))
	m[0x33] = mk("LEAU", AddressingIndexed, 2, 4, 0, leaReg(RegU, false))
	m[0x34] = mk("PSHS", AddressingImmediate, 2, 5, 1, pushPostbyte(func(s *Set) *uint16 { return &s.S }, RegU))
	m[0x35] = mk("PULS", AddressingImmediate, 2, 5, 1, pullPostbyte(func(s *Set) *uint16 { return &s.S }, RegU))
	m[0x36] = mk("PSHU", AddressingImmediate, 2, 5, 1, pushPostbyte(func(s *Set) *uint16 { return &s.U }, RegS))
	m[0x37] = mk("PULU", AddressingImmediate, 2, 5, 1, pullPostbyte(func(s *Set) *uint16 { return &s.U }, RegS))
	m[0x39] = mk("RTS", AddressingInherent, 1, 5, 0, returnFromSubroutine)
	m[0x3A] = mk("ABX", AddressingInherent, 1, 3, 0, abx)
	m[0x3B] = mk("RTI", AddressingInherent, 1, 6, 0, returnFromInterrupt)
	m[0x3C] = mk("CWAI", AddressingImmediate, 2, 20, 1, cwai)
	m[0x3D] = mk("MUL", AddressingInherent, 1, 11, 0, mul)
	m[0x3E] = mk("EXIT", AddressingInherent, 1, 2, 0, exit)
	m[0x3F] = mk("SWI", AddressingInherent, 1, 19, 0, swi)

	m[0x8D] = mk("BSR", AddressingRelative, 2, 7, 0, branchToSubroutine)

	// accumulator A: immediate(8_), direct(9_), indexed(A_), extended(B_)
	aOps := []struct {
		name string
		off  uint8
		eval func(reg8) func(*CPU, *Outcome)
	}{
		{"SUBA", 0x0, func(r reg8) func(*CPU, *Outcome) { return subReg8(r, false) }},
		{"CMPA", 0x1, cmpReg8},
		{"SBCA", 0x2, func(r reg8) func(*CPU, *Outcome) { return subReg8(r, true) }},
		{"ANDA", 0x4, andReg8},
		{"BITA", 0x5, bitReg8},
		{"LDA", 0x6, loadReg8},
		{"EORA", 0x8, eorReg8},
		{"ADCA", 0x9, func(r reg8) func(*CPU, *Outcome) { return addReg8(r, true) }},
		{"ORA", 0xA, orReg8},
		{"ADDA", 0xB, func(r reg8) func(*CPU, *Outcome) { return addReg8(r, false) }},
	}
	for _, o := range aOps {
		m[0x80+o.off] = mk(o.name, AddressingImmediate, 2, 2, 1, o.eval(regA))
		m[0x90+o.off] = mk(o.name, AddressingDirect, 2, 4, 0, o.eval(regA))
		m[0xA0+o.off] = mk(o.name, AddressingIndexed, 2, 4, 0, o.eval(regA))
		m[0xB0+o.off] = mk(o.name, AddressingExtended, 3, 5, 0, o.eval(regA))
	}
	m[0x97] = mk("STA", AddressingDirect, 2, 4, 0, storeReg8(regA))
	m[0xA7] = mk("STA", AddressingIndexed, 2, 4, 0, storeReg8(regA))
	m[0xB7] = mk("STA", AddressingExtended, 3, 5, 0, storeReg8(regA))

	bOps := []struct {
		name string
		off  uint8
		eval func(reg8) func(*CPU, *Outcome)
	}{
		{"SUBB", 0x0, func(r reg8) func(*CPU, *Outcome) { return subReg8(r, false) }},
		{"CMPB", 0x1, cmpReg8},
		{"SBCB", 0x2, func(r reg8) func(*CPU, *Outcome) { return subReg8(r, true) }},
		{"ANDB", 0x4, andReg8},
		{"BITB", 0x5, bitReg8},
		{"LDB", 0x6, loadReg8},
		{"EORB", 0x8, eorReg8},
		{"ADCB", 0x9, func(r reg8) func(*CPU, *Outcome) { return addReg8(r, true) }},
		{"ORB", 0xA, orReg8},
		{"ADDB", 0xB, func(r reg8) func(*CPU, *Outcome) { return addReg8(r, false) }},
	}
	for _, o := range bOps {
		m[0xC0+o.off] = mk(o.name, AddressingImmediate, 2, 2, 1, o.eval(regB))
		m[0xD0+o.off] = mk(o.name, AddressingDirect, 2, 4, 0, o.eval(regB))
		m[0xE0+o.off] = mk(o.name, AddressingIndexed, 2, 4, 0, o.eval(regB))
		m[0xF0+o.off] = mk(o.name, AddressingExtended, 3, 5, 0, o.eval(regB))
	}
	m[0xD7] = mk("STB", AddressingDirect, 2, 4, 0, storeReg8(regB))
	m[0xE7] = mk("STB", AddressingIndexed, 2, 4, 0, storeReg8(regB))
	m[0xF7] = mk("STB", AddressingExtended, 3, 5, 0, storeReg8(regB))

	m[0x83] = mk("SUBD", AddressingImmediate, 3, 4, 2, subReg16(RegD))
	m[0x93] = mk("SUBD", AddressingDirect, 2, 6, 0, subReg16(RegD))
	m[0xA3] = mk("SUBD", AddressingIndexed, 2, 6, 0, subReg16(RegD))
	m[0xB3] = mk("SUBD", AddressingExtended, 3, 7, 0, subReg16(RegD))

	m[0x8C] = mk("CMPX", AddressingImmediate, 3, 4, 2, cmpReg16(RegX))
	m[0x9C] = mk("CMPX", AddressingDirect, 2, 6, 0, cmpReg16(RegX))
	m[0xAC] = mk("CMPX", AddressingIndexed, 2, 6, 0, cmpReg16(RegX))
	m[0xBC] = mk("CMPX", AddressingExtended, 3, 7, 0, cmpReg16(RegX))

	m[0x86] = mk("LDA", AddressingImmediate, 2, 2, 1, loadReg8(regA))
	m[0xC6] = mk("LDB", AddressingImmediate, 2, 2, 1, loadReg8(regB))

	m[0x8E] = mk("LDX", AddressingImmediate, 3, 3, 2, loadReg16(RegX))
	m[0x9E] = mk("LDX", AddressingDirect, 2, 5, 0, loadReg16(RegX))
	m[0xAE] = mk("LDX", AddressingIndexed, 2, 5, 0, loadReg16(RegX))
	m[0xBE] = mk("LDX", AddressingExtended, 3, 6, 0, loadReg16(RegX))
	m[0x9F] = mk("STX", AddressingDirect, 2, 5, 0, storeReg16(RegX))
	m[0xAF] = mk("STX", AddressingIndexed, 2, 5, 0, storeReg16(RegX))
	m[0xBF] = mk("STX", AddressingExtended, 3, 6, 0, storeReg16(RegX))

	m[0x9D] = mk("JSR", AddressingDirect, 2, 7, 0, jumpToSubroutine)
	m[0xAD] = mk("JSR", AddressingIndexed, 2, 7, 0, jumpToSubroutine)
	m[0xBD] = mk("JSR", AddressingExtended, 3, 8, 0, jumpToSubroutine)

	m[0xC3] = mk("ADDD", AddressingImmediate, 3, 4, 2, addReg16(RegD))
	m[0xD3] = mk("ADDD", AddressingDirect, 2, 6, 0, addReg16(RegD))
	m[0xE3] = mk("ADDD", AddressingIndexed, 2, 6, 0, addReg16(RegD))
	m[0xF3] = mk("ADDD", AddressingExtended, 3, 7, 0, addReg16(RegD))

	m[0xCC] = mk("LDD", AddressingImmediate, 3, 3, 2, loadReg16(RegD))
	m[0xDC] = mk("LDD", AddressingDirect, 2, 5, 0, loadReg16(RegD))
	m[0xEC] = mk("LDD", AddressingIndexed, 2, 5, 0, loadReg16(RegD))
	m[0xFC] = mk("LDD", AddressingExtended, 3, 6, 0, loadReg16(RegD))
	m[0xDD] = mk("STD", AddressingDirect, 2, 5, 0, storeReg16(RegD))
	m[0xED] = mk("STD", AddressingIndexed, 2, 5, 0, storeReg16(RegD))
	m[0xFD] = mk("STD", AddressingExtended, 3, 6, 0, storeReg16(RegD))

	m[0xCE] = mk("LDU", AddressingImmediate, 3, 3, 2, loadReg16(RegU))
	m[0xDE] = mk("LDU", AddressingDirect, 2, 5, 0, loadReg16(RegU))
	m[0xEE] = mk("LDU", AddressingIndexed, 2, 5, 0, loadReg16(RegU))
	m[0xFE] = mk("LDU", AddressingExtended, 3, 6, 0, loadReg16(RegU))
	m[0xDF] = mk("STU", AddressingDirect, 2, 5, 0, storeReg16(RegU))
	m[0xEF] = mk("STU", AddressingIndexed, 2, 5, 0, storeReg16(RegU))
	m[0xFF] = mk("STU", AddressingExtended, 3, 6, 0, storeReg16(RegU))

	return m
}

func buildPage2() map[uint8]Flavor {
	m := map[uint8]Flavor{}

	longBranchNames := []string{"LBRN", "LBHI", "LBLS", "LBCC", "LBCS", "LBNE", "LBEQ", "LBVC", "LBVS", "LBPL", "LBMI", "LBGE", "LBLT", "LBGT", "LBLE"}
	longBranchConds := []condition{condNever, condHi, condLs, condCc, condCs, condNe, condEq, condVc, condVs, condPl, condMi, condGe, condLt, condGt, condLe}
	for i := range longBranchNames {
		m[0x21+uint8(i)] = mk(longBranchNames[i], AddressingRelative, 4, 5, 0, branch(longBranchConds[i]))
	}

	m[0x3F] = mk("SWI2", AddressingInherent, 2, 20, 0, swi2)

	m[0x83] = mk("CMPD", AddressingImmediate, 4, 5, 2, cmpReg16(RegD))
	m[0x93] = mk("CMPD", AddressingDirect, 3, 7, 0, cmpReg16(RegD))
	m[0xA3] = mk("CMPD", AddressingIndexed, 3, 7, 0, cmpReg16(RegD))
	m[0xB3] = mk("CMPD", AddressingExtended, 4, 8, 0, cmpReg16(RegD))

	m[0x8C] = mk("CMPY", AddressingImmediate, 4, 5, 2, cmpReg16(RegY))
	m[0x9C] = mk("CMPY", AddressingDirect, 3, 7, 0, cmpReg16(RegY))
	m[0xAC] = mk("CMPY", AddressingIndexed, 3, 7, 0, cmpReg16(RegY))
	m[0xBC] = mk("CMPY", AddressingExtended, 4, 8, 0, cmpReg16(RegY))

	m[0x8E] = mk("LDY", AddressingImmediate, 4, 4, 2, loadReg16(RegY))
	m[0x9E] = mk("LDY", AddressingDirect, 3, 6, 0, loadReg16(RegY))
	m[0xAE] = mk("LDY", AddressingIndexed, 3, 6, 0, loadReg16(RegY))
	m[0xBE] = mk("LDY", AddressingExtended, 4, 7, 0, loadReg16(RegY))
	m[0x9F] = mk("STY", AddressingDirect, 3, 6, 0, storeReg16(RegY))
	m[0xAF] = mk("STY", AddressingIndexed, 3, 6, 0, storeReg16(RegY))
	m[0xBF] = mk("STY", AddressingExtended, 4, 7, 0, storeReg16(RegY))

	m[0xCE] = mk("LDS", AddressingImmediate, 4, 4, 2, loadReg16(RegS))
	m[0xDE] = mk("LDS", AddressingDirect, 3, 6, 0, loadReg16(RegS))
	m[0xEE] = mk("LDS", AddressingIndexed, 3, 6, 0, loadReg16(RegS))
	m[0xFE] = mk("LDS", AddressingExtended, 4, 7, 0, loadReg16(RegS))
	m[0xDF] = mk("STS", AddressingDirect, 3, 6, 0, storeReg16(RegS))
	m[0xEF] = mk("STS", AddressingIndexed, 3, 6, 0, storeReg16(RegS))
	m[0xFF] = mk("STS", AddressingExtended, 4, 7, 0, storeReg16(RegS))

	return m
}

func buildPage3() map[uint8]Flavor {
	m := map[uint8]Flavor{}

	m[0x3F] = mk("SWI3", AddressingInherent, 2, 20, 0, swi3)

	m[0x83] = mk("CMPU", AddressingImmediate, 4, 5, 2, cmpReg16(RegU))
	m[0x93] = mk("CMPU", AddressingDirect, 3, 7, 0, cmpReg16(RegU))
	m[0xA3] = mk("CMPU", AddressingIndexed, 3, 7, 0, cmpReg16(RegU))
	m[0xB3] = mk("CMPU", AddressingExtended, 4, 8, 0, cmpReg16(RegU))

	m[0x8C] = mk("CMPS", AddressingImmediate, 4, 5, 2, cmpReg16(RegS))
	m[0x9C] = mk("CMPS", AddressingDirect, 3, 7, 0, cmpReg16(RegS))
	m[0xAC] = mk("CMPS", AddressingIndexed, 3, 7, 0, cmpReg16(RegS))
	m[0xBC] = mk("CMPS", AddressingExtended, 4, 8, 0, cmpReg16(RegS))

	return m
}
