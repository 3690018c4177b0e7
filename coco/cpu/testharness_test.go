package cpu

import (
	"github.com/kbolino/go-coco/coco/memory"
	"github.com/kbolino/go-coco/coco/pia"
)

type fakeSink struct{ samples []pia.AudioSample }

func (s *fakeSink) Send(a pia.AudioSample) { s.samples = append(s.samples, a) }

// newTestBus builds a bare 64K RAM bus wired to freshly-constructed PIAs,
// for exercising the CPU in isolation.
func newTestBus() *memory.Bus {
	pia1 := pia.NewPIA1(&fakeSink{})
	pia0 := pia.NewPIA0(pia1, nil, nil)
	return memory.New(pia0, pia1, nil, nil, 0xFEFF)
}

// newTestCPU writes program starting at pc and returns a CPU whose PC is set
// to pc. Its own PIA pair (distinct from whatever bus is wired to, which
// only matters for register reads/writes, not interrupt polling) means
// Step/Run's hardware-interrupt check never dereferences a nil pointer.
func newTestCPU(bus *memory.Bus, pc uint16, program []byte) *CPU {
	bus.LoadAt(pc, program)
	pia1 := pia.NewPIA1(&fakeSink{})
	pia0 := pia.NewPIA0(pia1, nil, nil)
	c := New(bus, pia0, pia1, 0, 0)
	c.Reg.PC = pc
	return c
}
