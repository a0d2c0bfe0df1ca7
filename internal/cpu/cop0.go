package cpu

import "github.com/n64core/n64/internal/n64log"

// CP0 is the VR4300 system coprocessor: status, cause, EPC, the
// count/compare timer pair, and the 32-entry TLB. Count is the hardware's
// 33-bit counter; compare matches against its upper 32 bits.
type CP0 struct {
	status uint32
	cause  uint32
	epc    uint64

	count    uint64 // 33-bit counter, masked to 0x1FFFFFFFF
	compare  uint32

	prid     uint32
	config   uint32
	errorEPC uint64

	badVAddr uint64

	index uint32
	wired uint32
	tlb   [TLBEntries]TLBEntry
}

const TLBEntries = 32

// Status register bit positions (VR4300 manual).
const (
	statusIE  = 1 << 0
	statusEXL = 1 << 1
	statusERL = 1 << 2
	statusIMShift = 8 // IM[7:0] at bits [15:8]
	statusBEV = 1 << 22
)

// Cause register bit positions.
const (
	causeExcShift = 2 // ExcCode at bits [6:2]
	causeExcMask  = 0x1F
	causeIPShift  = 8 // IP[7:0] at bits [15:8]
	causeIP2      = 1 << (causeIPShift + 2)
	causeIP7      = 1 << (causeIPShift + 7)
	causeBD       = 1 << 31
)

func newCP0() *CP0 {
	return &CP0{}
}

// reset applies the documented post-reset register values.
func (c *CP0) reset() {
	*c = CP0{}
	c.status = statusBEV
	c.cause = 0xB000007C
	c.epc = 0xFFFFFFFFFFFFFFFF
	c.prid = 0x00000B22
	c.config = 0x70000000
	c.errorEPC = 0xFFFFFFFFFFFFFFFF
}

func (c *CP0) StatusIE() bool  { return c.status&statusIE != 0 }
func (c *CP0) StatusEXL() bool { return c.status&statusEXL != 0 }
func (c *CP0) StatusERL() bool { return c.status&statusERL != 0 }
func (c *CP0) StatusBEV() bool { return c.status&statusBEV != 0 }
func (c *CP0) StatusIM() uint32 { return (c.status >> statusIMShift) & 0xFF }

func (c *CP0) SetEXL(v bool) {
	if v {
		c.status |= statusEXL
	} else {
		c.status &^= statusEXL
	}
}

func (c *CP0) CauseIP() uint32 { return (c.cause >> causeIPShift) & 0xFF }

// SetIP2 mirrors the MI controller's masked-pending state into cause.IP2.
func (c *CP0) SetIP2(pending bool) {
	if pending {
		c.cause |= causeIP2
	} else {
		c.cause &^= causeIP2
	}
}

func (c *CP0) setIP7(v bool) {
	if v {
		c.cause |= causeIP7
	} else {
		c.cause &^= causeIP7
	}
}

// PendingInterrupts counts the cause.IP bits that are both set and enabled
// in status.IM; 0 means no pending interrupt.
func (c *CP0) PendingInterrupts() int {
	masked := c.CauseIP() & c.StatusIM()
	count := 0
	for masked != 0 {
		count += int(masked & 1)
		masked >>= 1
	}
	return count
}

// AdvanceCount advances the 33-bit count register by cycles and raises
// cause.IP7 if the upper 32 bits crossed Compare.
func (c *CP0) AdvanceCount(cycles uint64) (timerFired bool) {
	before := c.count >> 1
	c.count = (c.count + cycles) & 0x1FFFFFFFF
	after := c.count >> 1
	if before < uint64(c.compare) && after >= uint64(c.compare) {
		c.setIP7(true)
		n64log.Infof("Compare interrupt! oldcount: 0x%08X newcount: 0x%08X compare 0x%08X", before, after, c.compare)
		return true
	}
	return false
}

// Read returns CP0 register (reg, sel) — used by MFC0/DMFC0.
func (c *CP0) Read(reg, sel uint32) uint64 {
	switch reg {
	case 0:
		return uint64(c.tlbIndex())
	case 1:
		return uint64(c.tlbRandom())
	case 2:
		return uint64(c.tlb[c.index].EntryLo0)
	case 3:
		return uint64(c.tlb[c.index].EntryLo1)
	case 5:
		return uint64(c.tlb[c.index].PageMask)
	case 6:
		return uint64(c.wired)
	case 8:
		return c.badVAddr
	case 9:
		return c.count >> 1
	case 10:
		return uint64(c.tlb[c.index].EntryHi)
	case 11:
		return uint64(c.compare)
	case 12:
		return uint64(c.status)
	case 13:
		return uint64(c.cause)
	case 14:
		return c.epc
	case 15:
		return uint64(c.prid)
	case 16:
		return uint64(c.config)
	case 30:
		return c.errorEPC
	default:
		return 0
	}
}

// Write sets CP0 register (reg, sel) — used by MTC0/DMTC0. Writing Compare
// clears the pending timer interrupt (cause.IP7), matching real hardware.
func (c *CP0) Write(reg, sel uint32, val uint64) {
	v32 := uint32(val)
	switch reg {
	case 0:
		c.setTLBIndex(v32)
	case 2:
		c.tlb[c.index].EntryLo0 = v32 & 0x3FFFFFFF
	case 3:
		c.tlb[c.index].EntryLo1 = v32 & 0x3FFFFFFF
	case 5:
		c.tlb[c.index].PageMask = v32 & 0x01FFE000
	case 6:
		c.setWired(v32)
	case 9:
		c.count = (uint64(v32) << 1) & 0x1FFFFFFFF
	case 10:
		c.tlb[c.index].EntryHi = v32 & 0xFFFFE0FF
	case 11:
		c.compare = v32
		c.setIP7(false)
	case 12:
		c.status = v32
	case 13:
		// Only the two software interrupt bits (IP0/IP1) are writable.
		const ip01Mask = 0x3 << causeIPShift
		c.cause = (c.cause &^ ip01Mask) | (v32 & ip01Mask)
	case 14:
		c.epc = val
	case 16:
		c.config = v32
	case 30:
		c.errorEPC = val
	}
}

func (c *CP0) SetBadVAddr(addr uint64) { c.badVAddr = addr }
