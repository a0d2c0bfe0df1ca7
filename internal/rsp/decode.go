package rsp

import "github.com/n64core/n64/internal/mips"

// rspOp tags a decoded instruction for the icache's dispatch table: a
// tagged enum over instruction kinds in place of a per-entry function
// pointer.
type rspOp int

const (
	opSentinel rspOp = iota
	opUnknown

	opLUI
	opADDI
	opADDIU
	opANDI
	opORI
	opXORI
	opSLTI
	opSLTIU

	opLB
	opLH
	opLW
	opLBU
	opLHU
	opSB
	opSH
	opSW

	opBEQ
	opBEQL
	opBNE
	opBNEL
	opBLEZ
	opBGTZ
	opJ
	opJAL

	opSLL
	opSRL
	opSRA
	opSLLV
	opSRLV
	opSRAV
	opJR
	opJALR
	opBREAK
	opADD
	opADDU
	opSUB
	opSUBU
	opAND
	opOR
	opXOR
	opNOR
	opSLT
	opSLTU

	opRegimmBLTZ
	opRegimmBGEZ
	opRegimmBLTZAL
	opRegimmBGEZAL

	opMFC0
	opMTC0

	opLQV
	opSQV
	opLWC2Elem
	opSWC2Elem

	opMFC2
	opMTC2
	opCFC2
	opCTC2

	opVMUDN
	opVMADN
	opVMUDH
	opVMADH
	opVMULF
	opVMACF
	opVADD
	opVSUB
	opVAND
	opVOR
	opVXOR
	opVNAND
	opVNOR
	opVNXOR
	opVEQ
	opVNE
	opVLT
	opVGE
	opVCH
	opVCL
	opVCR
	opVMRG
	opVMOV
	opVRCP
	opVRCPL
	opVRCPH
	opVRSQ
	opVRSQL
	opVRSQH
	opVNOP
)

// decode partitions on primary opcode, then SPECIAL funct / REGIMM rt /
// COP2 vector funct, the same primary-then-secondary shape the CPU decoder
// uses.
func decode(w mips.Word) rspOp {
	switch w.Op() {
	case mips.OpSpecial:
		return decodeSpecial(w)
	case mips.OpRegimm:
		return decodeRegimm(w)
	case mips.OpJ:
		return opJ
	case mips.OpJAL:
		return opJAL
	case mips.OpBEQ:
		return opBEQ
	case mips.OpBEQL:
		return opBEQL
	case mips.OpBNE:
		return opBNE
	case mips.OpBNEL:
		return opBNEL
	case mips.OpBLEZ:
		return opBLEZ
	case mips.OpBGTZ:
		return opBGTZ
	case mips.OpADDI:
		return opADDI
	case mips.OpADDIU:
		return opADDIU
	case mips.OpSLTI:
		return opSLTI
	case mips.OpSLTIU:
		return opSLTIU
	case mips.OpANDI:
		return opANDI
	case mips.OpORI:
		return opORI
	case mips.OpXORI:
		return opXORI
	case mips.OpLUI:
		return opLUI
	case mips.OpLB:
		return opLB
	case mips.OpLH:
		return opLH
	case mips.OpLW:
		return opLW
	case mips.OpLBU:
		return opLBU
	case mips.OpLHU:
		return opLHU
	case mips.OpSB:
		return opSB
	case mips.OpSH:
		return opSH
	case mips.OpSW:
		return opSW
	case mips.OpCOP0:
		return decodeCOP0(w)
	case mips.OpCOP2:
		return decodeCOP2(w)
	case mips.OpLWC2:
		if w.LSFunct() == lsFunctQuad {
			return opLQV
		}
		return opLWC2Elem
	case mips.OpSWC2:
		if w.LSFunct() == lsFunctQuad {
			return opSQV
		}
		return opSWC2Elem
	default:
		return opUnknown
	}
}

const lsFunctQuad = 0x06 // LQV/SQV funct code within LWC2/SWC2's 5-bit field

func decodeSpecial(w mips.Word) rspOp {
	switch w.Funct() {
	case mips.FunctSLL:
		return opSLL
	case mips.FunctSRL:
		return opSRL
	case mips.FunctSRA:
		return opSRA
	case mips.FunctSLLV:
		return opSLLV
	case mips.FunctSRLV:
		return opSRLV
	case mips.FunctSRAV:
		return opSRAV
	case mips.FunctJR:
		return opJR
	case mips.FunctJALR:
		return opJALR
	case mips.FunctBREAK:
		return opBREAK
	case mips.FunctADD, mips.FunctADDU:
		return opADDU
	case mips.FunctSUB, mips.FunctSUBU:
		return opSUBU
	case mips.FunctAND:
		return opAND
	case mips.FunctOR:
		return opOR
	case mips.FunctXOR:
		return opXOR
	case mips.FunctNOR:
		return opNOR
	case mips.FunctSLT:
		return opSLT
	case mips.FunctSLTU:
		return opSLTU
	default:
		return opUnknown
	}
}

func decodeRegimm(w mips.Word) rspOp {
	switch w.Rt() {
	case mips.RtBLTZ:
		return opRegimmBLTZ
	case mips.RtBGEZ:
		return opRegimmBGEZ
	case mips.RtBLTZAL:
		return opRegimmBLTZAL
	case mips.RtBGEZAL:
		return opRegimmBGEZAL
	default:
		return opUnknown
	}
}

func decodeCOP0(w mips.Word) rspOp {
	switch w.Rs() {
	case mips.CopMF:
		return opMFC0
	case mips.CopMT:
		return opMTC0
	default:
		return opUnknown
	}
}

// decodeCOP2 separates the reg-move sub-ops (MFC2/MTC2/CFC2/CTC2, IsVec
// false) from the vector-op family (IsVec true, keyed on VFunct).
func decodeCOP2(w mips.Word) rspOp {
	if !w.IsVec() {
		switch w.Rs() {
		case mips.CopMF:
			return opMFC2
		case mips.CopMT:
			return opMTC2
		case mips.CopCF:
			return opCFC2
		case mips.CopCT:
			return opCTC2
		default:
			return opUnknown
		}
	}
	return decodeVector(w.VFunct())
}

// decodeVector maps the CP2 vector-op funct field to its tag. The
// arithmetic core, compare family, divide pipeline, and merge/move ops are
// implemented; the remainder (VRNDN/VRNDP, VMULU, VADDC/VSUBC, VSAR,
// accumulator read-back variants) fall through to opUnknown and are logged
// rather than executed (see DESIGN.md).
func decodeVector(funct uint32) rspOp {
	switch funct {
	case 0x00:
		return opVMULF
	case 0x03:
		return opVMACF
	case 0x08:
		return opVMUDN
	case 0x09:
		return opVMADN
	case 0x0C:
		return opVMUDH
	case 0x0D:
		return opVMADH
	case 0x10:
		return opVADD
	case 0x11:
		return opVSUB
	case 0x14:
		return opVABSPlaceholder // not implemented; see vector.go
	case 0x28:
		return opVAND
	case 0x29:
		return opVNAND
	case 0x2A:
		return opVOR
	case 0x2B:
		return opVNOR
	case 0x2C:
		return opVXOR
	case 0x2D:
		return opVNXOR
	case 0x20:
		return opVLT
	case 0x21:
		return opVEQ
	case 0x22:
		return opVNE
	case 0x23:
		return opVGE
	case 0x24:
		return opVCL
	case 0x25:
		return opVCH
	case 0x26:
		return opVCR
	case 0x27:
		return opVMRG
	case 0x30:
		return opVRCP
	case 0x31:
		return opVRCPL
	case 0x32:
		return opVRCPH
	case 0x33:
		return opVMOV
	case 0x34:
		return opVRSQ
	case 0x35:
		return opVRSQL
	case 0x36:
		return opVRSQH
	case 0x37:
		return opVNOP
	default:
		return opUnknown
	}
}

// opVABSPlaceholder marks VABS (funct 0x13/0x14 depending on revision) as a
// recognized-but-unimplemented vector op; execute() logs and no-ops rather
// than corrupting accumulator state with a guessed semantics.
const opVABSPlaceholder = opUnknown
