// Package cpu implements the 6809 execution engine: register file,
// addressing-mode resolution, the opcode table, interrupt servicing, and
// the fetch-decode-execute run loop.
package cpu

import (
	"time"

	"github.com/kbolino/go-coco/coco/cocoerr"
	"github.com/kbolino/go-coco/coco/memory"
	"github.com/kbolino/go-coco/coco/pia"
	"github.com/kbolino/go-coco/coco/timing"
)

const (
	hsyncPeriod = 63500 * time.Nanosecond
	vsyncPeriod = 16667 * time.Microsecond
)

// CPU drives the 6809 fetch-decode-execute loop against a memory bus and
// the two PIAs' interrupt lines.
type CPU struct {
	Reg Set
	Bus *memory.Bus

	pia0 *pia.PIA0
	pia1 *pia.PIA1

	resetVector *uint16
	cartPending bool

	inCWAI bool
	inSync bool

	hsyncPrev time.Time
	vsyncPrev time.Time

	minCycle time.Duration

	instructionCount uint64
	clockCycles      uint64

	faulted bool

	// Trace, when set, is called with the PC and mnemonic of every
	// instruction as it executes, for a --trace CLI flag to hook into.
	Trace func(pc uint16, inst Instance)
}

// New constructs a CPU wired to bus and the two PIAs, with throttling
// targeting mhz MHz (0 disables throttling); the per-cycle duration is
// scaled by throttleFudge (config.DefaultThrottleFudge is 0.9).
func New(bus *memory.Bus, pia0 *pia.PIA0, pia1 *pia.PIA1, mhz float64, throttleFudge float64) *CPU {
	c := &CPU{
		Bus:       bus,
		pia0:      pia0,
		pia1:      pia1,
		hsyncPrev: time.Now(),
		vsyncPrev: time.Now(),
	}
	if mhz > 0 {
		c.minCycle = time.Duration(throttleFudge / (mhz * 1e6) * float64(time.Second))
	}
	return c
}

// SetResetVector overrides the address loaded from 0xFFFE on Reset.
func (c *CPU) SetResetVector(addr uint16) {
	c.resetVector = &addr
}

// SetCartPending marks that a cartridge image was loaded and its one-shot
// FIRQ has not yet fired.
func (c *CPU) SetCartPending(pending bool) {
	c.cartPending = pending
}

// Reset clears the register file and the instruction and cycle counters,
// and loads PC from the reset vector (or the override set via
// SetResetVector).
func (c *CPU) Reset() {
	c.Reg.Reset()
	c.instructionCount = 0
	c.clockCycles = 0
	if c.resetVector != nil {
		c.Bus.Write16(memory.AccessSystem, 0xFFFE, *c.resetVector)
	}
	c.Reg.PC = c.Bus.Read16(memory.AccessSystem, 0xFFFE)
	c.faulted = false
}

// InstructionCount returns the number of instructions executed since the
// last Reset.
func (c *CPU) InstructionCount() uint64 { return c.instructionCount }

// ClockCycles returns the number of 6809 clock cycles simulated since the
// last Reset.
func (c *CPU) ClockCycles() uint64 { return c.clockCycles }

// Run executes instructions until an EXIT instruction runs, until deadline
// (if nonzero) elapses, or until a fault occurs.
func (c *CPU) Run(deadline time.Duration) error {
	start := time.Now()
	for {
		if err := c.Step(); err != nil {
			if cocoerr.Is(err, cocoerr.Exit) {
				return nil
			}
			return err
		}
		if deadline > 0 && time.Since(start) > deadline {
			return nil
		}
	}
}

// Step executes exactly one pass of the run loop: one instruction (unless
// CWAI/SYNC-gated), interrupt servicing on hsync/vsync boundaries, and
// optional throttling to the configured clock rate.
func (c *CPU) Step() error {
	funcStart := time.Now()
	var expectedDuration time.Duration
	haveExpected := false

	if !c.inCWAI && !c.inSync {
		outcome, err := c.execNext()
		if err != nil {
			return err
		}
		if c.minCycle > 0 {
			expectedDuration = c.minCycle * time.Duration(outcome.Inst.Flavor.Cycles)
			haveExpected = true
		}
		if err := c.handleMeta(outcome); err != nil {
			return err
		}
	}

	if err := c.serviceHardwareInterrupts(); err != nil {
		return err
	}

	if haveExpected {
		timing.WaitForDuration(expectedDuration - time.Since(funcStart))
	}
	return nil
}

func (c *CPU) handleMeta(o Outcome) error {
	switch o.Meta {
	case MetaNone:
		return nil
	case MetaEXIT:
		return cocoerr.New(cocoerr.Exit, "program terminated by EXIT instruction")
	case MetaCWAI:
		if err := c.stackForInterrupt(true); err != nil {
			return err
		}
		c.inCWAI = true
		return nil
	case MetaSYNC:
		c.inSync = true
		return nil
	default:
		if it, ok := o.Meta.InterruptType(); ok {
			return c.startInterrupt(it)
		}
		return cocoerr.New(cocoerr.Runtime, "unsupported meta-instruction %v", o.Meta)
	}
}

// serviceHardwareInterrupts checks the wall-clock hsync/vsync boundaries
// and, on each one, polls the PIAs for pending IRQ/FIRQ and services them
// if unmasked.
func (c *CPU) serviceHardwareInterrupts() error {
	if time.Since(c.hsyncPrev) < hsyncPeriod {
		return nil
	}
	c.hsyncPrev = time.Now()

	firq := false
	if c.cartPending {
		firq = c.pia1.CartFIRQ()
	}
	irq := c.pia0.HsyncIRQ()

	if time.Since(c.vsyncPrev) >= vsyncPeriod {
		c.vsyncPrev = time.Now()
		irq = c.pia0.VsyncIRQ() || irq
	}

	if irq {
		// sync completes whether or not the interrupt ends up masked
		c.inSync = false
		if !c.Reg.CC.IsSet(CCBitIRQMask) {
			if err := c.startInterrupt(Irq); err != nil {
				return err
			}
		}
	}
	if firq {
		c.inSync = false
		if !c.Reg.CC.IsSet(CCBitFIRQMask) {
			if err := c.startInterrupt(Firq); err != nil {
				return err
			}
			c.cartPending = false
		}
	}
	return nil
}

// systemPush pushes one register onto the S stack using System access, the
// same access class the interrupt frame uses regardless of what triggered
// it. Returns a Runtime error if S is too low to hold the register without
// underflowing, matching the reference simulator's system_psh.
func (c *CPU) systemPush(r RegName) error {
	size := RegSize(r)
	if c.Reg.S < size {
		return cocoerr.New(cocoerr.Runtime, "stack underflow pushing %v at S=%04X", r, c.Reg.S)
	}
	c.Reg.S -= size
	c.Bus.WriteN(memory.AccessSystem, c.Reg.S, c.Reg.Get(r), int(size))
	return nil
}

func (c *CPU) systemPull(r RegName) {
	size := RegSize(r)
	c.Reg.Set(r, c.Bus.ReadN(memory.AccessSystem, c.Reg.S, int(size)))
	c.Reg.S += size
}

// stackForInterrupt pushes the interrupt frame: PC, and if entire, the full
// register set down to A, then CC last with its Entire bit marking which
// shape was pushed.
func (c *CPU) stackForInterrupt(entire bool) error {
	if err := c.systemPush(RegPC); err != nil {
		return err
	}
	if entire {
		for _, r := range [...]RegName{RegU, RegY, RegX, RegDP, RegB, RegA} {
			if err := c.systemPush(r); err != nil {
				return err
			}
		}
	}
	c.Reg.CC.Set(CCBitEntire, entire)
	return c.systemPush(RegCC)
}

// startInterrupt stacks the appropriate frame, masks the CC bits the
// interrupt type requires, and vectors PC to its service routine.
func (c *CPU) startInterrupt(t InterruptType) error {
	entire := false
	var maskBits uint8
	switch t {
	case Swi2, Swi3:
		entire = true
	case Irq:
		entire = true
		maskBits = 0x10
	case Firq:
		maskBits = 0x50
	default: // Reset, Nmi, Swi
		entire = true
		maskBits = 0x50
	}

	if !c.inCWAI {
		if err := c.stackForInterrupt(entire); err != nil {
			return err
		}
	}
	c.Reg.CC.OrWith(maskBits)

	vectorAddr := c.Bus.Read16(memory.AccessSystem, t.Vector())
	if c.Bus.Read8(memory.AccessSystem, vectorAddr) == 0 {
		panic("interrupt " + t.String() + " vector points to zero instruction")
	}
	c.Reg.PC = vectorAddr
	c.inCWAI = false
	return nil
}
