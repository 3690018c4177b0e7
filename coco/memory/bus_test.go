package memory

import (
	"testing"

	"github.com/kbolino/go-coco/coco/addr"
	"github.com/stretchr/testify/assert"
)

type fakeRegs struct {
	reads  []int
	writes []struct {
		reg  int
		data uint8
	}
}

func (f *fakeRegs) Read(reg int) uint8 {
	f.reads = append(f.reads, reg)
	return uint8(0x10 + reg)
}

func (f *fakeRegs) Write(reg int, data uint8) {
	f.writes = append(f.writes, struct {
		reg  int
		data uint8
	}{reg, data})
}

type fakeSAM struct{ writes []int }

func (f *fakeSAM) Write(index int) { f.writes = append(f.writes, index) }

type fakeACIA struct {
	claim func(uint16) bool
	last  struct {
		addr uint16
		data uint8
	}
}

func (f *fakeACIA) Accept(a uint16) bool { return f.claim(a) }
func (f *fakeACIA) Read(a uint16) uint8  { return 0x42 }
func (f *fakeACIA) Write(a uint16, d uint8) {
	f.last.addr, f.last.data = a, d
}

func newTestBus() (*Bus, *fakeRegs, *fakeRegs, *fakeSAM) {
	p0, p1, sam := &fakeRegs{}, &fakeRegs{}, &fakeSAM{}
	return New(p0, p1, sam, nil, addr.DefaultRAMTop), p0, p1, sam
}

func TestBusRAMReadWrite(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write8(AccessSystem, 0x1000, 0xAB)
	assert.Equal(t, uint8(0xAB), b.Read8(AccessProgram, 0x1000))
}

func TestBusROMShadowRejectsNonSystemWrites(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.ram[0xC000] = 0x55

	b.Write8(AccessProgram, 0xC000, 0x99)
	assert.Equal(t, uint8(0x55), b.ram[0xC000], "non-system write above ram_top must be dropped")

	b.Write8(AccessSystem, 0xC000, 0x99)
	assert.Equal(t, uint8(0x99), b.ram[0xC000], "system access may write through the ROM shadow")
}

func TestBusPIAWindowsWrapMod4(t *testing.T) {
	b, p0, p1, _ := newTestBus()

	b.Write8(AccessGeneric, addr.PIA0Start+5, 0x7)
	assert.Equal(t, 1, p0.writes[0].reg, "0xFF05 is 5 bytes into PIA0's window, wraps to register 1")

	_ = b.Read8(AccessGeneric, addr.PIA1Start+6)
	assert.Equal(t, 2, p1.reads[0])
}

func TestBusSAMIsWriteOnly(t *testing.T) {
	b, _, _, sam := newTestBus()

	b.Write8(AccessGeneric, addr.SAMStart+3, 0)
	assert.Equal(t, []int{3}, sam.writes)

	assert.Equal(t, uint8(0), b.Read8(AccessGeneric, addr.SAMStart+3))
}

func TestBusVectorWindowRemapsToLowRAM(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.ram[addr.VectorReset-addr.VectorRemapDelta] = 0xEE

	assert.Equal(t, uint8(0xEE), b.Read8(AccessProgram, addr.VectorReset))
}

func TestBusACIATakesDecodePriority(t *testing.T) {
	acia := &fakeACIA{claim: func(a uint16) bool { return a == addr.DefaultACIAAddr }}
	b := New(&fakeRegs{}, &fakeRegs{}, &fakeSAM{}, acia, addr.DefaultRAMTop)

	assert.Equal(t, uint8(0x42), b.Read8(AccessGeneric, addr.DefaultACIAAddr))

	b.Write8(AccessGeneric, addr.DefaultACIAAddr, 0x77)
	assert.Equal(t, uint8(0x77), acia.last.data)
}

func TestBusRead16IsBigEndian(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write8(AccessSystem, 0x2000, 0x12)
	b.Write8(AccessSystem, 0x2001, 0x34)

	assert.Equal(t, uint16(0x1234), b.Read16(AccessProgram, 0x2000))
}

func TestBusWatchHookFires(t *testing.T) {
	b, _, _, _ := newTestBus()
	var got []uint16
	b.SetWatch(func(access AccessType, address uint16, isWrite bool) {
		got = append(got, address)
	})

	b.Read8(AccessProgram, 0x0100)
	b.Write8(AccessProgram, 0x0200, 1)

	assert.Equal(t, []uint16{0x0100, 0x0200}, got)
}
