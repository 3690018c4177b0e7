// Package memory implements the CoCo's 64KiB memory-mapped bus: a flat RAM
// array shadowed by ROM at the high end, with PIA, SAM, ACIA, and
// interrupt-vector windows carved out of the top of the address space.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/kbolino/go-coco/coco/addr"
)

// AccessType distinguishes the kind of bus transaction in flight, mirroring
// the CPU's own notion of what it's doing (fetching, pushing a stack frame,
// or running system code); only System access may write through the
// ROM shadow.
type AccessType int

const (
	AccessProgram AccessType = iota
	AccessUserStack
	AccessSystemStack
	AccessGeneric
	AccessSystem
)

// RegisterFile is the minimal PIA surface the bus needs: a 4-register window
// (addr mod 4), implemented by *pia.PIA0 and *pia.PIA1.
type RegisterFile interface {
	Read(reg int) uint8
	Write(reg int, data uint8)
}

// SAMWriter is the minimal SAM surface the bus needs. SAM is write-only from
// the CPU's perspective; reads in its window always return 0.
type SAMWriter interface {
	Write(index int)
}

// ACIA is an optional serial adapter that claims decode priority over every
// other region, including SAM, for any address it accepts.
type ACIA interface {
	Accept(addr uint16) bool
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
}

// WatchFunc is invoked for every bus access when watches are enabled,
// letting a debugger record or break on reads/writes to specific addresses.
type WatchFunc func(access AccessType, address uint16, isWrite bool)

// Bus is the CoCo's memory-mapped address space.
type Bus struct {
	ram [0x10000]byte

	ramTop uint16

	pia0 RegisterFile
	pia1 RegisterFile
	sam  SAMWriter
	acia ACIA

	watch WatchFunc
}

// New constructs a Bus wired to the given peripherals. acia may be nil.
func New(pia0, pia1 RegisterFile, sam SAMWriter, acia ACIA, ramTop uint16) *Bus {
	return &Bus{
		pia0:   pia0,
		pia1:   pia1,
		sam:    sam,
		acia:   acia,
		ramTop: ramTop,
	}
}

// SetWatch installs (or, with nil, removes) a debugger hook called on every
// bus access.
func (b *Bus) SetWatch(w WatchFunc) {
	b.watch = w
}

// SetRAMTop adjusts the RAM/ROM-shadow boundary at runtime (e.g. from a
// loaded configuration).
func (b *Bus) SetRAMTop(top uint16) {
	b.ramTop = top
}

// LoadAt copies data into raw RAM starting at addr, bypassing ROM-shadow and
// region-decode rules entirely. Used by loaders to seed RAM/ROM content.
func (b *Bus) LoadAt(address uint16, data []byte) {
	copy(b.ram[int(address):], data)
}

// RAMView exposes the raw RAM array directly, unsynchronized, for the VDG's
// relaxed-consistency reads: the VDG is a pure consumer racing the CPU's
// writes, and a torn read just means a transient visual artifact, not a
// correctness bug (§5).
func (b *Bus) RAMView() []byte {
	return b.ram[:]
}

// Read8 reads one byte with the given access type.
func (b *Bus) Read8(access AccessType, address uint16) uint8 {
	if b.acia != nil && b.acia.Accept(address) {
		return b.acia.Read(address)
	}
	if b.watch != nil {
		b.watch(access, address, false)
	}
	switch {
	case address <= 0xFEFF:
		return b.ram[address]
	case address >= addr.PIA0Start && address <= addr.PIA0End:
		return b.pia0.Read(int(address-addr.PIA0Start) % 4)
	case address >= addr.PIA1Start && address <= addr.PIA1End:
		return b.pia1.Read(int(address-addr.PIA1Start) % 4)
	case address >= addr.SAMStart && address <= addr.SAMEnd:
		return 0
	case address >= addr.VectorWindowStart:
		return b.ram[address-addr.VectorRemapDelta]
	default:
		slog.Debug("read at unmapped address", "addr", fmt.Sprintf("0x%04X", address))
		return 0
	}
}

// Read16 reads two bytes, high byte first, as the CPU's big-endian registers
// expect.
func (b *Bus) Read16(access AccessType, address uint16) uint16 {
	hi := b.Read8(access, address)
	lo := b.Read8(access, address+1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write8 writes one byte with the given access type. Writes above ramTop
// from anything but System access are silently dropped, matching the
// ROM-shadow's read-only behavior from program code.
func (b *Bus) Write8(access AccessType, address uint16, data uint8) {
	if b.acia != nil && b.acia.Accept(address) {
		b.acia.Write(address, data)
		return
	}
	if b.watch != nil {
		b.watch(access, address, true)
	}
	switch {
	case address <= 0xFEFF:
		if address > b.ramTop && access != AccessSystem {
			return
		}
		b.ram[address] = data
	case address >= addr.PIA0Start && address <= addr.PIA0End:
		b.pia0.Write(int(address-addr.PIA0Start)%4, data)
	case address >= addr.PIA1Start && address <= addr.PIA1End:
		b.pia1.Write(int(address-addr.PIA1Start)%4, data)
	case address >= addr.SAMStart && address <= addr.SAMEnd:
		b.sam.Write(int(address-addr.SAMStart) % 32)
	case address >= addr.VectorWindowStart:
		if address > b.ramTop && access != AccessSystem {
			return
		}
		b.ram[address-addr.VectorRemapDelta] = data
	default:
		slog.Debug("write at unmapped address", "addr", fmt.Sprintf("0x%04X", address), "data", fmt.Sprintf("0x%02X", data))
	}
}

// Write16 writes two bytes, high byte first.
func (b *Bus) Write16(access AccessType, address uint16, data uint16) {
	b.Write8(access, address, uint8(data>>8))
	b.Write8(access, address+1, uint8(data))
}

// WriteN writes a byte or 16-bit value depending on size (1 or 2), mirroring
// the CPU's dual-width operand handling for immediate/indexed operands.
func (b *Bus) WriteN(access AccessType, address uint16, data uint16, size int) {
	switch size {
	case 1:
		b.Write8(access, address, uint8(data))
	case 2:
		b.Write16(access, address, data)
	default:
		panic(fmt.Sprintf("invalid write size %d", size))
	}
}

// ReadN reads a byte or 16-bit value depending on size (1 or 2).
func (b *Bus) ReadN(access AccessType, address uint16, size int) uint16 {
	switch size {
	case 1:
		return uint16(b.Read8(access, address))
	case 2:
		return b.Read16(access, address)
	default:
		panic(fmt.Sprintf("invalid read size %d", size))
	}
}
