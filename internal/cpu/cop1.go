package cpu

import (
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

const statusCU1 = 1 << 29

func (c *CP0) StatusCU1() bool { return c.status&statusCU1 != 0 }

// execCOP1 implements the COP1 register-move subset: MFC1/MTC1/DMFC1/DMTC1
// and CFC1/CTC1 against FCR31, gated on status.CU1. Floating-point
// arithmetic opcodes (ADD.S, CVT.*, C.*, ...) are not implemented: the ROMs
// this interpreter targets for headless validation do not exercise them,
// and a wrong-rounding FPU is worse than a loud one (see DESIGN.md). They
// report ReservedInstruction rather than silently doing nothing.
func (c *CPU) execCOP1(w mips.Word) error {
	if !c.CP0.StatusCU1() {
		return n64err.New(n64err.CoprocessorUnusable, "COP1 disabled by status.CU1")
	}
	switch w.Rs() {
	case mips.CopMF:
		c.setGPR(w.Rt(), signExtend32(uint32(c.FGR[w.Rd()])))
	case mips.CopDMF:
		c.setGPR(w.Rt(), c.FGR[w.Rd()])
	case mips.CopMT:
		c.FGR[w.Rd()] = signExtend32(uint32(c.getGPR(w.Rt())))
	case mips.CopDMT:
		c.FGR[w.Rd()] = c.getGPR(w.Rt())
	case mips.CopCF:
		if w.Rd() == 31 {
			c.setGPR(w.Rt(), signExtend32(c.FCR31))
		} else {
			c.setGPR(w.Rt(), 0)
		}
	case mips.CopCT:
		if w.Rd() == 31 {
			c.FCR31 = uint32(c.getGPR(w.Rt()))
		}
	default:
		return n64err.New(n64err.ReservedInstruction, "floating-point arithmetic is not implemented (COP1 rs 0x%02X)", w.Rs())
	}
	return nil
}

// loadCOP1/storeCOP1 implement LWC1/SWC1 against FGR, the same CU1 gate as
// execCOP1 applies.
func (c *CPU) loadCOP1(w mips.Word, size int) error {
	if !c.CP0.StatusCU1() {
		return n64err.New(n64err.CoprocessorUnusable, "COP1 disabled by status.CU1")
	}
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	paddr, err := c.translate(vaddr, false)
	if err != nil {
		return err
	}
	c.FGR[w.Rt()] = signExtend32(c.bus.ReadWord(paddr))
	return nil
}

func (c *CPU) storeCOP1(w mips.Word, size int) error {
	if !c.CP0.StatusCU1() {
		return n64err.New(n64err.CoprocessorUnusable, "COP1 disabled by status.CU1")
	}
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	paddr, err := c.translate(vaddr, true)
	if err != nil {
		return err
	}
	c.bus.WriteWord(paddr, uint32(c.FGR[w.Rt()]))
	return nil
}
