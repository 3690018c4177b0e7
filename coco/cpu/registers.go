package cpu

import "github.com/kbolino/go-coco/coco/bit"

// CCBit identifies a single flag within the condition-code register.
type CCBit uint8

const (
	CCBitCarry CCBit = 1 << iota
	CCBitOverflow
	CCBitZero
	CCBitNegative
	CCBitIRQMask
	CCBitHalfCarry
	CCBitFIRQMask
	CCBitEntire
)

// CC is the 6809 condition-code register: E F H I N Z V C, high bit first.
type CC uint8

func (cc CC) IsSet(bit CCBit) bool {
	return uint8(cc)&uint8(bit) != 0
}

func (cc *CC) Set(bit CCBit, on bool) {
	if on {
		*cc |= CC(bit)
	} else {
		*cc &^= CC(bit)
	}
}

// OrWith ORs raw mask bits into CC, used when an interrupt sets I/F unconditionally.
func (cc *CC) OrWith(mask uint8) {
	*cc |= CC(mask)
}

// RegName identifies one of the 6809's addressable registers, used by
// TFR/EXG/PSH/PUL and by the interrupt-stacking helper.
type RegName int

const (
	RegD RegName = iota
	RegX
	RegY
	RegU
	RegS
	RegPC
	RegA
	RegB
	RegCC
	RegDP
)

// RegSize returns the width, in bytes, of the named register.
func RegSize(r RegName) uint16 {
	switch r {
	case RegA, RegB, RegCC, RegDP:
		return 1
	default:
		return 2
	}
}

// Set is the full 6809 register file. A and B alias onto D (A is the high
// byte, B the low byte); there is no separate storage for D.
type Set struct {
	A, B   uint8
	DP     uint8
	CC     CC
	X, Y   uint16
	U, S   uint16
	PC     uint16
}

// D returns the 16-bit combination of A (high) and B (low).
func (s Set) D() uint16 {
	return bit.Combine(s.A, s.B)
}

// SetD stores a 16-bit value split across A and B.
func (s *Set) SetD(v uint16) {
	s.A = bit.High(v)
	s.B = bit.Low(v)
}

// Get reads any register by name, widening 8-bit registers into the low
// byte of the result.
func (s Set) Get(r RegName) uint16 {
	switch r {
	case RegD:
		return s.D()
	case RegX:
		return s.X
	case RegY:
		return s.Y
	case RegU:
		return s.U
	case RegS:
		return s.S
	case RegPC:
		return s.PC
	case RegA:
		return uint16(s.A)
	case RegB:
		return uint16(s.B)
	case RegCC:
		return uint16(s.CC)
	case RegDP:
		return uint16(s.DP)
	}
	return 0
}

// Set writes any register by name, truncating to 8 bits for byte registers.
func (s *Set) Set(r RegName, v uint16) {
	switch r {
	case RegD:
		s.SetD(v)
	case RegX:
		s.X = v
	case RegY:
		s.Y = v
	case RegU:
		s.U = v
	case RegS:
		s.S = v
	case RegPC:
		s.PC = v
	case RegA:
		s.A = uint8(v)
	case RegB:
		s.B = uint8(v)
	case RegCC:
		s.CC = CC(v)
	case RegDP:
		s.DP = uint8(v)
	}
}

// Reset clears every register to zero; PC is loaded separately from the
// reset vector by the CPU core.
func (s *Set) Reset() {
	*s = Set{}
}
