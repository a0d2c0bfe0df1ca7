package cpu

import (
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

// execCOP0 dispatches register-move and TLB-maintenance COP0 instructions.
// Kernel/user mode privilege checking (status.CU0) is not modeled: this
// emulator has no concept of a user-mode ROM, so COP0 is always usable
// (see DESIGN.md).
func (c *CPU) execCOP0(w mips.Word) error {
	if w.Rs() == mips.CopCO {
		switch w.Funct() {
		case mips.Cop0FunctTLBR:
			c.CP0.TLBRead()
		case mips.Cop0FunctTLBWI:
			c.CP0.TLBWrite(c.CP0.tlbIndex())
		case mips.Cop0FunctTLBWR:
			c.CP0.TLBWrite(c.CP0.tlbRandom())
		case mips.Cop0FunctTLBP:
			c.CP0.TLBProbe()
		case mips.Cop0FunctERET:
			c.ERET()
		default:
			return n64err.New(n64err.ReservedInstruction, "unknown COP0 funct 0x%02X", w.Funct())
		}
		return nil
	}

	switch w.Rs() {
	case mips.CopMF:
		c.setGPR(w.Rt(), signExtend32(uint32(c.CP0.Read(w.Rd(), w.Sel()))))
	case mips.CopDMF:
		c.setGPR(w.Rt(), c.CP0.Read(w.Rd(), w.Sel()))
	case mips.CopMT:
		c.CP0.Write(w.Rd(), w.Sel(), signExtend32(uint32(c.getGPR(w.Rt()))))
	case mips.CopDMT:
		c.CP0.Write(w.Rd(), w.Sel(), c.getGPR(w.Rt()))
	default:
		return n64err.New(n64err.ReservedInstruction, "unknown COP0 rs 0x%02X", w.Rs())
	}
	return nil
}
