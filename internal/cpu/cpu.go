// Package cpu implements the VR4300 scalar pipeline: 32 general-purpose
// registers, HI/LO, the branch-delay slot state machine, CP0 (cop0.go,
// tlb.go) and the exception dispatcher (exception.go).
package cpu

import (
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

// CyclesPerInstr is the fixed CPU-cycle cost charged to the scheduler for
// every instruction retired.
const CyclesPerInstr = 2

// PhysBus is the physical-address read/write contract the bus package
// satisfies. CPU depends only on this interface, never on package bus
// itself, keeping the import graph acyclic.
type PhysBus interface {
	ReadByte(paddr uint32) byte
	WriteByte(paddr uint32, v byte)
	ReadHalf(paddr uint32) uint16
	WriteHalf(paddr uint32, v uint16)
	ReadWord(paddr uint32) uint32
	WriteWord(paddr uint32, v uint32)
	ReadDword(paddr uint32) uint64
	WriteDword(paddr uint32, v uint64)
}

// branchState models the one-slot branch delay: no pending branch, a
// branch was decided during the current instruction, or the delay slot is
// executing and the target commits at the end of its step.
type branchState int

const (
	branchNone branchState = iota
	branchPending
	branchFire
)

// CPU is the VR4300 scalar core: GPRs, PC, HI/LO, CP0, and the branch-delay
// machinery, operating against a PhysBus for all post-translation accesses.
type CPU struct {
	GPR [32]uint64
	PC  uint64
	Hi  uint64
	Lo  uint64

	CP0 *CP0

	// FGR and FCR31 back the COP1 register-move subset described in cop1.go;
	// floating-point arithmetic itself is not emulated (see DESIGN.md).
	FGR   [32]uint64
	FCR31 uint32

	bus PhysBus

	state  branchState
	target uint64

	llBit bool

	// Halted stops Step from doing anything.
	Halted bool
}

func New(bus PhysBus) *CPU {
	c := &CPU{bus: bus, CP0: newCP0()}
	c.Reset()
	return c
}

// Reset returns the core to its power-on state: PC at the PIF boot stub,
// GPR 0 permanently zero, CP0 at its post-reset register values.
func (c *CPU) Reset() {
	c.GPR = [32]uint64{}
	c.Hi, c.Lo = 0, 0
	c.PC = 0xFFFFFFFFA4000040 // uncached KSEG1 alias of SP DMEM+0x40, PIF boot stub entry
	c.state = branchNone
	c.target = 0
	c.llBit = false
	c.Halted = false
	c.CP0.reset()
}

func (c *CPU) getGPR(i uint32) uint64 { return c.GPR[i] }

func (c *CPU) setGPR(i uint32, v uint64) {
	if i == 0 {
		return
	}
	c.GPR[i] = v
}

// Step fetches, decodes and executes exactly one instruction (including a
// branch-delay slot instruction), advances CP0.Count, and returns the cycle
// count charged to the scheduler.
func (c *CPU) Step() int {
	if c.Halted {
		return CyclesPerInstr
	}

	fetchPC := c.PC
	inBranchDelay := c.state == branchFire
	word, ferr := c.fetch(fetchPC)
	if ferr != nil {
		c.raiseFetchError(fetchPC, ferr, inBranchDelay)
		c.advanceTimer()
		return CyclesPerInstr
	}

	c.PC += 4
	if err := c.execute(mips.Word(word), inBranchDelay); err != nil {
		c.raiseException(err, fetchPC, inBranchDelay)
	} else {
		switch c.state {
		case branchFire:
			// The delay slot just executed; the target takes effect now.
			c.PC = c.target
			c.state = branchNone
		case branchPending:
			c.state = branchFire
		}
	}

	c.advanceTimer()
	return CyclesPerInstr
}

// advanceTimer ticks count/compare and runs the between-instructions
// interrupt check: pending interrupts deferred mid branch-delay pair get
// taken here once the pair retires.
func (c *CPU) advanceTimer() {
	c.CP0.AdvanceCount(CyclesPerInstr)
	c.checkInterrupts()
}

// CheckInterrupts is exported so the system package can re-evaluate pending
// interrupts immediately after MI's OnChange callback fires, rather than
// waiting for the next Step's timer tick.
func (c *CPU) CheckInterrupts() { c.checkInterrupts() }

// checkInterrupts fires a pending, unmasked interrupt once the CPU is
// between instructions and not mid branch-delay pair; deferring until
// state==branchNone sidesteps the EPC/cause.BD ambiguity a timer tick
// landing on a delay-slot boundary would otherwise create.
func (c *CPU) checkInterrupts() {
	if c.Halted || c.state != branchNone {
		return
	}
	if c.CP0.StatusIE() && !c.CP0.StatusEXL() && !c.CP0.StatusERL() && c.CP0.PendingInterrupts() > 0 {
		c.raiseException(errInterrupt, c.PC, false)
	}
}

func (c *CPU) fetch(vaddr uint64) (uint32, error) {
	paddr, err := c.translate(uint32(vaddr), false)
	if err != nil {
		return 0, err
	}
	return c.bus.ReadWord(paddr), nil
}

// translate resolves a virtual address to a physical one: KSEG0/KSEG1 are
// direct-mapped minus a fixed base, KUSEG/KSSEG/KSEG3 go through the joint
// TLB, and anything else is an address error.
func (c *CPU) translate(vaddr uint32, isStore bool) (uint32, error) {
	switch {
	case vaddr >= 0x80000000 && vaddr < 0xA0000000: // KSEG0, cached
		return vaddr - 0x80000000, nil
	case vaddr >= 0xA0000000 && vaddr < 0xC0000000: // KSEG1, uncached
		return vaddr - 0xA0000000, nil
	case vaddr < 0x80000000, vaddr >= 0xC0000000 && vaddr < 0xE0000000, vaddr >= 0xE0000000: // KUSEG/KSSEG/KSEG3
		paddr, ok := c.CP0.Translate(vaddr)
		if !ok {
			c.CP0.SetBadVAddr(uint64(vaddr))
			if isStore {
				return 0, n64err.New(n64err.TLBMiss, "store miss at 0x%08X", vaddr)
			}
			return 0, n64err.New(n64err.TLBMiss, "load/fetch miss at 0x%08X", vaddr)
		}
		return paddr, nil
	default:
		return 0, n64err.New(n64err.AddressError, "unmapped segment vaddr 0x%08X", vaddr)
	}
}

func (c *CPU) raiseFetchError(pc uint64, err error, inDelay bool) {
	c.raiseException(err, pc, inDelay)
}

// branchTo arms the branch-delay state machine: the instruction immediately
// following the branch still executes, then control transfers to target.
func (c *CPU) branchTo(target uint64) {
	c.state = branchPending
	c.target = target
}

// signExtend32 widens a 32-bit result to 64 bits the MIPS III way: every
// 32-bit GPR write sign-extends, never zero-extends.
func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}
