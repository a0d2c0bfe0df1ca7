package rsp

import (
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64log"
)

// execute dispatches a decoded tag against the raw word. GPRs are 32-bit
// only (the RSP has no 64-bit datapath); DMEM load/store addresses wrap at
// 0x1000 rather than going through a TLB.
func (r *RSP) execute(w mips.Word, op rspOp) {
	switch op {
	case opLUI:
		r.setGPR(w.Rt(), uint32(w.Immediate())<<16)
	case opADDI, opADDIU:
		r.setGPR(w.Rt(), r.getGPR(w.Rs())+uint32(w.SignedImmediate()))
	case opANDI:
		r.setGPR(w.Rt(), r.getGPR(w.Rs())&uint32(w.Immediate()))
	case opORI:
		r.setGPR(w.Rt(), r.getGPR(w.Rs())|uint32(w.Immediate()))
	case opXORI:
		r.setGPR(w.Rt(), r.getGPR(w.Rs())^uint32(w.Immediate()))
	case opSLTI:
		r.setGPR(w.Rt(), b2u32(int32(r.getGPR(w.Rs())) < w.SignedImmediate()))
	case opSLTIU:
		r.setGPR(w.Rt(), b2u32(r.getGPR(w.Rs()) < uint32(w.SignedImmediate())))

	case opLB:
		r.setGPR(w.Rt(), uint32(int32(int8(r.loadByte(w)))))
	case opLBU:
		r.setGPR(w.Rt(), uint32(r.loadByte(w)))
	case opLH:
		r.setGPR(w.Rt(), uint32(int32(int16(r.loadHalf(w)))))
	case opLHU:
		r.setGPR(w.Rt(), uint32(r.loadHalf(w)))
	case opLW:
		r.setGPR(w.Rt(), r.loadWord(w))
	case opSB:
		r.DMEM.WriteByte(r.addr(w)&pcMask, byte(r.getGPR(w.Rt())))
	case opSH:
		r.DMEM.WriteHalf(r.addr(w)&pcMask, uint16(r.getGPR(w.Rt())))
	case opSW:
		r.DMEM.WriteWord(r.addr(w)&pcMask, r.getGPR(w.Rt()))

	case opBEQ:
		r.branchCond(w, r.getGPR(w.Rs()) == r.getGPR(w.Rt()), false, false)
	case opBEQL:
		r.branchCond(w, r.getGPR(w.Rs()) == r.getGPR(w.Rt()), true, false)
	case opBNE:
		r.branchCond(w, r.getGPR(w.Rs()) != r.getGPR(w.Rt()), false, false)
	case opBNEL:
		r.branchCond(w, r.getGPR(w.Rs()) != r.getGPR(w.Rt()), true, false)
	case opBLEZ:
		r.branchCond(w, int32(r.getGPR(w.Rs())) <= 0, false, false)
	case opBGTZ:
		r.branchCond(w, int32(r.getGPR(w.Rs())) > 0, false, false)
	case opJ:
		r.branchTo((r.pc & 0xF0000000) | w.Target()<<2)
	case opJAL:
		r.setGPR(31, r.pc+4)
		r.branchTo((r.pc & 0xF0000000) | w.Target()<<2)

	case opSLL:
		r.setGPR(w.Rd(), r.getGPR(w.Rt())<<w.Sa())
	case opSRL:
		r.setGPR(w.Rd(), r.getGPR(w.Rt())>>w.Sa())
	case opSRA:
		r.setGPR(w.Rd(), uint32(int32(r.getGPR(w.Rt()))>>w.Sa()))
	case opSLLV:
		r.setGPR(w.Rd(), r.getGPR(w.Rt())<<(r.getGPR(w.Rs())&0x1F))
	case opSRLV:
		r.setGPR(w.Rd(), r.getGPR(w.Rt())>>(r.getGPR(w.Rs())&0x1F))
	case opSRAV:
		r.setGPR(w.Rd(), uint32(int32(r.getGPR(w.Rt()))>>(r.getGPR(w.Rs())&0x1F)))
	case opJR:
		r.branchTo(r.getGPR(w.Rs()))
	case opJALR:
		r.setGPR(w.Rd(), r.pc+4)
		r.branchTo(r.getGPR(w.Rs()))
	case opBREAK:
		r.doBreak()
	case opADD, opADDU:
		r.setGPR(w.Rd(), r.getGPR(w.Rs())+r.getGPR(w.Rt()))
	case opSUB, opSUBU:
		r.setGPR(w.Rd(), r.getGPR(w.Rs())-r.getGPR(w.Rt()))
	case opAND:
		r.setGPR(w.Rd(), r.getGPR(w.Rs())&r.getGPR(w.Rt()))
	case opOR:
		r.setGPR(w.Rd(), r.getGPR(w.Rs())|r.getGPR(w.Rt()))
	case opXOR:
		r.setGPR(w.Rd(), r.getGPR(w.Rs())^r.getGPR(w.Rt()))
	case opNOR:
		r.setGPR(w.Rd(), ^(r.getGPR(w.Rs()) | r.getGPR(w.Rt())))
	case opSLT:
		r.setGPR(w.Rd(), b2u32(int32(r.getGPR(w.Rs())) < int32(r.getGPR(w.Rt()))))
	case opSLTU:
		r.setGPR(w.Rd(), b2u32(r.getGPR(w.Rs()) < r.getGPR(w.Rt())))

	case opRegimmBLTZ:
		r.branchCond(w, int32(r.getGPR(w.Rs())) < 0, false, false)
	case opRegimmBGEZ:
		r.branchCond(w, int32(r.getGPR(w.Rs())) >= 0, false, false)
	case opRegimmBLTZAL:
		r.branchCond(w, int32(r.getGPR(w.Rs())) < 0, false, true)
	case opRegimmBGEZAL:
		r.branchCond(w, int32(r.getGPR(w.Rs())) >= 0, false, true)

	case opMFC0:
		r.setGPR(w.Rt(), r.ReadControl(w.Rd()*4))
	case opMTC0:
		r.WriteControl(w.Rd()*4, r.getGPR(w.Rt()))

	case opMFC2, opMTC2, opCFC2, opCTC2:
		r.execCOP2Move(w, op)

	case opLQV, opSQV, opLWC2Elem, opSWC2Elem:
		r.execVectorLoadStore(w, op)

	case opVMUDN, opVMADN, opVMUDH, opVMADH, opVMULF, opVMACF,
		opVADD, opVSUB, opVAND, opVOR, opVXOR, opVNAND, opVNOR, opVNXOR,
		opVEQ, opVNE, opVLT, opVGE, opVCH, opVCL, opVCR, opVMRG, opVMOV,
		opVRCP, opVRCPL, opVRCPH, opVRSQ, opVRSQL, opVRSQH, opVNOP:
		r.execVector(w, op)

	case opSentinel, opUnknown:
		n64log.Warnf("RSP: unimplemented instruction 0x%08X at pc 0x%03X", uint32(w), r.pc)

	default:
		n64log.Warnf("RSP: undispatched op tag %d for word 0x%08X", op, uint32(w))
	}
}

func (r *RSP) addr(w mips.Word) uint32 {
	return r.getGPR(w.Rs()) + uint32(w.SignedImmediate())
}

func (r *RSP) loadByte(w mips.Word) byte   { return r.DMEM.ReadByte(r.addr(w) & pcMask) }
func (r *RSP) loadHalf(w mips.Word) uint16 { return r.DMEM.ReadHalf(r.addr(w) & pcMask) }
func (r *RSP) loadWord(w mips.Word) uint32 { return r.DMEM.ReadWord(r.addr(w) & pcMask) }

// branchCond mirrors the CPU's branch/likely-branch handling (exec.go's
// branchCond), scaled to the RSP's 12-bit PC space. By the time this runs,
// r.pc already holds the delay slot's address (Step already rotated the
// pipeline), so the branch target is relative to r.pc, not fetchPC+4.
func (r *RSP) branchCond(w mips.Word, taken, likely, link bool) {
	if link {
		r.setGPR(31, r.pc+4)
	}
	if taken {
		target := r.pc + uint32(w.SignedImmediate()<<2)
		r.branchTo(target)
		return
	}
	if likely {
		// Not taken: skip the delay slot entirely by fast-forwarding past it.
		r.pc = r.nextPC & pcMask
		r.nextPC = (r.pc + 4) & pcMask
	}
}

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
