package cpu

import (
	"github.com/n64core/n64/internal/bits"
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

// execute decodes and runs one instruction word: partition on the primary
// opcode, then on funct/rt/rs secondary fields for the SPECIAL, REGIMM and
// COPz families. inDelaySlot is threaded through so a faulting handler can
// record cause.BD correctly.
func (c *CPU) execute(w mips.Word, inDelaySlot bool) error {
	switch w.Op() {
	case mips.OpSpecial:
		return c.execSpecial(w)
	case mips.OpRegimm:
		return c.execRegimm(w, inDelaySlot)
	case mips.OpJ:
		c.jumpAbs(w, false)
		return nil
	case mips.OpJAL:
		c.jumpAbs(w, true)
		return nil
	case mips.OpBEQ:
		return c.branchCond(w, c.getGPR(w.Rs()) == c.getGPR(w.Rt()), false, false)
	case mips.OpBNE:
		return c.branchCond(w, c.getGPR(w.Rs()) != c.getGPR(w.Rt()), false, false)
	case mips.OpBLEZ:
		return c.branchCond(w, int64(c.getGPR(w.Rs())) <= 0, false, false)
	case mips.OpBGTZ:
		return c.branchCond(w, int64(c.getGPR(w.Rs())) > 0, false, false)
	case mips.OpADDI:
		return c.opAddI(w, true)
	case mips.OpADDIU:
		return c.opAddI(w, false)
	case mips.OpSLTI:
		v := int64(c.getGPR(w.Rs())) < int64(w.SignedImmediate())
		c.setGPR(w.Rt(), boolU64(v))
		return nil
	case mips.OpSLTIU:
		v := c.getGPR(w.Rs()) < uint64(int64(w.SignedImmediate()))
		c.setGPR(w.Rt(), boolU64(v))
		return nil
	case mips.OpANDI:
		c.setGPR(w.Rt(), c.getGPR(w.Rs())&uint64(w.Immediate()))
		return nil
	case mips.OpORI:
		c.setGPR(w.Rt(), c.getGPR(w.Rs())|uint64(w.Immediate()))
		return nil
	case mips.OpXORI:
		c.setGPR(w.Rt(), c.getGPR(w.Rs())^uint64(w.Immediate()))
		return nil
	case mips.OpLUI:
		c.setGPR(w.Rt(), signExtend32(uint32(w.Immediate())<<16))
		return nil
	case mips.OpCOP0:
		return c.execCOP0(w)
	case mips.OpCOP1:
		return c.execCOP1(w)
	case mips.OpCOP2:
		return n64err.New(n64err.ReservedInstruction, "COP2 has no scalar-CPU datapath; vector ops run on the RSP")
	case mips.OpBEQL:
		return c.branchCond(w, c.getGPR(w.Rs()) == c.getGPR(w.Rt()), true, false)
	case mips.OpBNEL:
		return c.branchCond(w, c.getGPR(w.Rs()) != c.getGPR(w.Rt()), true, false)
	case mips.OpBLEZL:
		return c.branchCond(w, int64(c.getGPR(w.Rs())) <= 0, true, false)
	case mips.OpBGTZL:
		return c.branchCond(w, int64(c.getGPR(w.Rs())) > 0, true, false)
	case mips.OpDADDI:
		return c.opDAddI(w, true)
	case mips.OpDADDIU:
		return c.opDAddI(w, false)
	case mips.OpLDL:
		return c.loadUnaligned(w, 8, true)
	case mips.OpLDR:
		return c.loadUnaligned(w, 8, false)
	case mips.OpLB:
		return c.load(w, 1, true)
	case mips.OpLH:
		return c.load(w, 2, true)
	case mips.OpLWL:
		return c.loadUnaligned(w, 4, true)
	case mips.OpLW:
		return c.load(w, 4, true)
	case mips.OpLBU:
		return c.load(w, 1, false)
	case mips.OpLHU:
		return c.load(w, 2, false)
	case mips.OpLWR:
		return c.loadUnaligned(w, 4, false)
	case mips.OpLWU:
		return c.load(w, 4, false)
	case mips.OpSB:
		return c.store(w, 1)
	case mips.OpSH:
		return c.store(w, 2)
	case mips.OpSWL:
		return c.storeUnaligned(w, 4, true)
	case mips.OpSW:
		return c.store(w, 4)
	case mips.OpSDL:
		return c.storeUnaligned(w, 8, true)
	case mips.OpSDR:
		return c.storeUnaligned(w, 8, false)
	case mips.OpSWR:
		return c.storeUnaligned(w, 4, false)
	case mips.OpCACHE:
		return nil // cache maintenance is a no-op: the interpreter has no instruction cache to invalidate
	case mips.OpLL:
		if err := c.load(w, 4, true); err != nil {
			return err
		}
		c.llBit = true
		return nil
	case mips.OpLWC1:
		return c.loadCOP1(w, 4)
	case mips.OpLWC2:
		return n64err.New(n64err.ReservedInstruction, "LWC2 has no scalar-CPU datapath")
	case mips.OpLD:
		return c.load(w, 8, true)
	case mips.OpSC:
		if !c.llBit {
			c.setGPR(w.Rt(), 0)
			return nil
		}
		if err := c.store(w, 4); err != nil {
			return err
		}
		c.setGPR(w.Rt(), 1)
		c.llBit = false
		return nil
	case mips.OpSWC1:
		return c.storeCOP1(w, 4)
	case mips.OpSWC2:
		return n64err.New(n64err.ReservedInstruction, "SWC2 has no scalar-CPU datapath")
	case mips.OpSD:
		return c.store(w, 8)
	default:
		return n64err.New(n64err.ReservedInstruction, "unknown opcode 0x%02X", w.Op())
	}
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) jumpAbs(w mips.Word, link bool) {
	target := (c.PC & 0xFFFFFFFFF0000000) | uint64(w.Target())<<2
	if link {
		c.setGPR(31, c.PC+4)
	}
	c.branchTo(target)
}

// branchCond implements both the regular and "likely" branch families.
// Likely branches additionally annul their own delay slot when not taken.
func (c *CPU) branchCond(w mips.Word, taken bool, likely bool, link bool) error {
	if link {
		c.setGPR(31, c.PC+4)
	}
	if taken {
		target := c.PC + uint64(int64(w.SignedImmediate())<<2)
		c.branchTo(target)
		return nil
	}
	if likely {
		c.PC += 4 // skip the delay slot entirely
	}
	return nil
}

func (c *CPU) opAddI(w mips.Word, checkOverflow bool) error {
	a := int32(c.getGPR(w.Rs()))
	b := int32(w.SignedImmediate())
	sum := a + b
	if checkOverflow && bits.AddOverflow(a, b, sum) {
		return n64err.New(n64err.Overflow, "ADDI overflow")
	}
	c.setGPR(w.Rt(), signExtend32(uint32(sum)))
	return nil
}

func (c *CPU) opDAddI(w mips.Word, checkOverflow bool) error {
	a := int64(c.getGPR(w.Rs()))
	b := int64(w.SignedImmediate())
	sum := a + b
	if checkOverflow && bits.AddOverflow(a, b, sum) {
		return n64err.New(n64err.Overflow, "DADDI overflow")
	}
	c.setGPR(w.Rt(), uint64(sum))
	return nil
}

func (c *CPU) execRegimm(w mips.Word, inDelaySlot bool) error {
	rs := int64(c.getGPR(w.Rs()))
	switch w.Rt() {
	case mips.RtBLTZ:
		return c.branchCond(w, rs < 0, false, false)
	case mips.RtBGEZ:
		return c.branchCond(w, rs >= 0, false, false)
	case mips.RtBLTZL:
		return c.branchCond(w, rs < 0, true, false)
	case mips.RtBGEZL:
		return c.branchCond(w, rs >= 0, true, false)
	case mips.RtBLTZAL:
		return c.branchCond(w, rs < 0, false, true)
	case mips.RtBGEZAL:
		return c.branchCond(w, rs >= 0, false, true)
	default:
		return n64err.New(n64err.ReservedInstruction, "unknown REGIMM rt 0x%02X", w.Rt())
	}
}
