package cpu

import (
	"github.com/n64core/n64/internal/bits"
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

// execSpecial handles the SPECIAL-opcode (funct-coded) register-register
// instruction family: shifts, jumps-by-register, HI/LO transfers,
// multiply/divide, and the ADD/SUB/logic/compare group.
func (c *CPU) execSpecial(w mips.Word) error {
	switch w.Funct() {
	case mips.FunctSLL:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rt()))<<w.Sa()))
	case mips.FunctSRL:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rt()))>>w.Sa()))
	case mips.FunctSRA:
		c.setGPR(w.Rd(), signExtend32(uint32(int32(c.getGPR(w.Rt()))>>w.Sa())))
	case mips.FunctSLLV:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rt()))<<(c.getGPR(w.Rs())&0x1F)))
	case mips.FunctSRLV:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rt()))>>(c.getGPR(w.Rs())&0x1F)))
	case mips.FunctSRAV:
		c.setGPR(w.Rd(), signExtend32(uint32(int32(c.getGPR(w.Rt()))>>(c.getGPR(w.Rs())&0x1F))))
	case mips.FunctJR:
		c.branchTo(c.getGPR(w.Rs()))
	case mips.FunctJALR:
		target := c.getGPR(w.Rs())
		c.setGPR(w.Rd(), c.PC+4)
		c.branchTo(target)
	case mips.FunctSYSCALL:
		return n64err.New(n64err.Kind(syscallKind), "syscall")
	case mips.FunctBREAK:
		return n64err.New(n64err.Kind(breakpointKind), "break")
	case mips.FunctSYNC:
		// no-op: the interpreter executes one instruction at a time
	case mips.FunctMFHI:
		c.setGPR(w.Rd(), c.Hi)
	case mips.FunctMTHI:
		c.Hi = c.getGPR(w.Rs())
	case mips.FunctMFLO:
		c.setGPR(w.Rd(), c.Lo)
	case mips.FunctMTLO:
		c.Lo = c.getGPR(w.Rs())
	case mips.FunctDSLLV:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())<<(c.getGPR(w.Rs())&0x3F))
	case mips.FunctDSRLV:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())>>(c.getGPR(w.Rs())&0x3F))
	case mips.FunctDSRAV:
		c.setGPR(w.Rd(), uint64(int64(c.getGPR(w.Rt()))>>(c.getGPR(w.Rs())&0x3F)))
	case mips.FunctMULT:
		a, b := int64(int32(c.getGPR(w.Rs()))), int64(int32(c.getGPR(w.Rt())))
		p := a * b
		c.Lo, c.Hi = signExtend32(uint32(p)), signExtend32(uint32(p>>32))
	case mips.FunctMULTU:
		a, b := uint64(uint32(c.getGPR(w.Rs()))), uint64(uint32(c.getGPR(w.Rt())))
		p := a * b
		c.Lo, c.Hi = signExtend32(uint32(p)), signExtend32(uint32(p>>32))
	case mips.FunctDIV:
		a, b := int32(c.getGPR(w.Rs())), int32(c.getGPR(w.Rt()))
		if b == 0 {
			c.Lo, c.Hi = signExtend32(uint32(sign32(a))), signExtend32(uint32(a))
		} else {
			c.Lo, c.Hi = signExtend32(uint32(a/b)), signExtend32(uint32(a%b))
		}
	case mips.FunctDIVU:
		a, b := uint32(c.getGPR(w.Rs())), uint32(c.getGPR(w.Rt()))
		if b == 0 {
			c.Lo, c.Hi = signExtend32(0xFFFFFFFF), signExtend32(a)
		} else {
			c.Lo, c.Hi = signExtend32(a/b), signExtend32(a%b)
		}
	case mips.FunctDMULT:
		c.Lo, c.Hi = mul64s(int64(c.getGPR(w.Rs())), int64(c.getGPR(w.Rt())))
	case mips.FunctDMULTU:
		c.Lo, c.Hi = mul64u(c.getGPR(w.Rs()), c.getGPR(w.Rt()))
	case mips.FunctDDIV:
		a, b := int64(c.getGPR(w.Rs())), int64(c.getGPR(w.Rt()))
		if b == 0 {
			if a < 0 {
				c.Lo = 1
			} else {
				c.Lo = 0xFFFFFFFFFFFFFFFF
			}
			c.Hi = uint64(a)
		} else {
			c.Lo, c.Hi = uint64(a/b), uint64(a%b)
		}
	case mips.FunctDDIVU:
		a, b := c.getGPR(w.Rs()), c.getGPR(w.Rt())
		if b == 0 {
			c.Lo, c.Hi = 0xFFFFFFFFFFFFFFFF, a
		} else {
			c.Lo, c.Hi = a/b, a%b
		}
	case mips.FunctADD:
		a, b := int32(c.getGPR(w.Rs())), int32(c.getGPR(w.Rt()))
		sum := a + b
		if bits.AddOverflow(a, b, sum) {
			return n64err.New(n64err.Overflow, "ADD overflow")
		}
		c.setGPR(w.Rd(), signExtend32(uint32(sum)))
	case mips.FunctADDU:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rs()))+uint32(c.getGPR(w.Rt()))))
	case mips.FunctSUB:
		a, b := int32(c.getGPR(w.Rs())), int32(c.getGPR(w.Rt()))
		diff := a - b
		if bits.SubOverflow(a, b, diff) {
			return n64err.New(n64err.Overflow, "SUB overflow")
		}
		c.setGPR(w.Rd(), signExtend32(uint32(diff)))
	case mips.FunctSUBU:
		c.setGPR(w.Rd(), signExtend32(uint32(c.getGPR(w.Rs()))-uint32(c.getGPR(w.Rt()))))
	case mips.FunctAND:
		c.setGPR(w.Rd(), c.getGPR(w.Rs())&c.getGPR(w.Rt()))
	case mips.FunctOR:
		c.setGPR(w.Rd(), c.getGPR(w.Rs())|c.getGPR(w.Rt()))
	case mips.FunctXOR:
		c.setGPR(w.Rd(), c.getGPR(w.Rs())^c.getGPR(w.Rt()))
	case mips.FunctNOR:
		c.setGPR(w.Rd(), ^(c.getGPR(w.Rs()) | c.getGPR(w.Rt())))
	case mips.FunctSLT:
		c.setGPR(w.Rd(), boolU64(int64(c.getGPR(w.Rs())) < int64(c.getGPR(w.Rt()))))
	case mips.FunctSLTU:
		c.setGPR(w.Rd(), boolU64(c.getGPR(w.Rs()) < c.getGPR(w.Rt())))
	case mips.FunctDADD:
		a, b := int64(c.getGPR(w.Rs())), int64(c.getGPR(w.Rt()))
		sum := a + b
		if bits.AddOverflow(a, b, sum) {
			return n64err.New(n64err.Overflow, "DADD overflow")
		}
		c.setGPR(w.Rd(), uint64(sum))
	case mips.FunctDADDU:
		c.setGPR(w.Rd(), c.getGPR(w.Rs())+c.getGPR(w.Rt()))
	case mips.FunctDSUB:
		a, b := int64(c.getGPR(w.Rs())), int64(c.getGPR(w.Rt()))
		diff := a - b
		if bits.SubOverflow(a, b, diff) {
			return n64err.New(n64err.Overflow, "DSUB overflow")
		}
		c.setGPR(w.Rd(), uint64(diff))
	case mips.FunctDSUBU:
		c.setGPR(w.Rd(), c.getGPR(w.Rs())-c.getGPR(w.Rt()))
	case mips.FunctTEQ:
		if c.getGPR(w.Rs()) == c.getGPR(w.Rt()) {
			return n64err.New(n64err.Kind(breakpointKind), "teq trap")
		}
	case mips.FunctDSLL:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())<<w.Sa())
	case mips.FunctDSRL:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())>>w.Sa())
	case mips.FunctDSRA:
		c.setGPR(w.Rd(), uint64(int64(c.getGPR(w.Rt()))>>w.Sa()))
	case mips.FunctDSLL32:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())<<(w.Sa()+32))
	case mips.FunctDSRL32:
		c.setGPR(w.Rd(), c.getGPR(w.Rt())>>(w.Sa()+32))
	case mips.FunctDSRA32:
		c.setGPR(w.Rd(), uint64(int64(c.getGPR(w.Rt()))>>(w.Sa()+32)))
	default:
		return n64err.New(n64err.ReservedInstruction, "unknown SPECIAL funct 0x%02X", w.Funct())
	}
	return nil
}

// syscallKind and breakpointKind extend n64err.Kind locally: SYSCALL/BREAK/
// TEQ all dispatch through cause.ExcCode without a bus/decode origin, so
// they're modeled as CPU-local trap kinds rather than added to n64err's
// bus-facing Kind enum.
const (
	syscallKind   = 100
	breakpointKind = 101
)

func sign32(v int32) int32 {
	if v < 0 {
		return 1
	}
	return -1
}

func mul64s(a, b int64) (lo, hi uint64) {
	loU, hiU := mul64u(uint64(a), uint64(b))
	if a < 0 {
		hiU -= uint64(b)
	}
	if b < 0 {
		hiU -= uint64(a)
	}
	return loU, hiU
}

func mul64u(a, b uint64) (lo, hi uint64) {
	aLo, aHi := a&0xFFFFFFFF, a>>32
	bLo, bHi := b&0xFFFFFFFF, b>>32

	t := aLo * bLo
	w0 := t & 0xFFFFFFFF
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & 0xFFFFFFFF
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	hi = aHi*bHi + w2 + k
	lo = (t << 32) | w0
	return lo, hi
}
