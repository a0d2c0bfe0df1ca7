package cpu

import "github.com/n64core/n64/internal/n64log"

// TLBEntry is one of the VR4300's 32 joint TLB entries: the
// EntryHi/EntryLo0/EntryLo1/PageMask register quartet.
type TLBEntry struct {
	EntryHi  uint32 // VPN2 [31:13] | ASID [7:0]
	EntryLo0 uint32 // even page: PFN [29:6] | C [5:3] | D [2] | V [1] | G [0]
	EntryLo1 uint32 // odd page, same layout
	PageMask uint32 // mask bits [24:13], 0 == 4KB pages
}

func (c *CP0) tlbIndex() uint32  { return c.index }
func (c *CP0) tlbRandom() uint32 {
	return c.wired + uint32((c.count>>1)%uint64(TLBEntries-c.wired))
}

func (c *CP0) setTLBIndex(v uint32) { c.index = v & 0x1F }
func (c *CP0) setWired(v uint32) {
	c.wired = v & 0x1F
	c.index = 0
}

// TLBRead copies the entry at Index into EntryHi/EntryLo0/EntryLo1/PageMask
// (TLBR).
func (c *CP0) TLBRead() {
	e := c.tlb[c.index]
	// values already live in the register file via Read(); nothing to stage.
	_ = e
}

// TLBWrite writes EntryHi/EntryLo0/EntryLo1/PageMask into tlb[index]
// (TLBWI/TLBWR).
func (c *CP0) TLBWrite(index uint32) {
	c.tlb[index&0x1F] = TLBEntry{
		EntryHi:  c.tlb[c.index].EntryHi,
		EntryLo0: c.tlb[c.index].EntryLo0,
		EntryLo1: c.tlb[c.index].EntryLo1,
		PageMask: c.tlb[c.index].PageMask,
	}
}

func (e TLBEntry) vpn2() uint32  { return (e.EntryHi >> 13) &^ (e.PageMask >> 13) }
func (e TLBEntry) asid() uint32  { return e.EntryHi & 0xFF }
func (e TLBEntry) global() bool  { return e.EntryLo0&1 != 0 && e.EntryLo1&1 != 0 }

// TLBProbe searches the TLB for a match, setting Index on hit (TLBP).
func (c *CP0) TLBProbe() (found bool) {
	hi := TLBEntry{EntryHi: c.tlb[c.index].EntryHi}
	for i, e := range c.tlb {
		mask := e.PageMask
		if (e.EntryHi>>13)&^(mask>>13) == (hi.EntryHi>>13)&^(mask>>13) &&
			(e.global() || e.asid() == hi.asid()&0xFF) {
			c.index = uint32(i)
			return true
		}
	}
	c.index |= 1 << 31
	return false
}

// Translate resolves a mapped-segment (KUSEG/KSSEG/KSEG3) virtual address
// through the joint TLB. Page size defaults to 4KB when PageMask is zero;
// larger masked entries are supported by treating the mask's set bits as
// part of the page offset.
func (c *CP0) Translate(vaddr uint32) (paddr uint32, ok bool) {
	asid := uint32(0)
	for _, e := range c.tlb {
		mask := e.PageMask
		pageBits := 12 + popcount32(mask>>13)
		if pageBits > 31 {
			continue
		}
		vpn2 := (vaddr >> (uint(pageBits) + 1))
		entryVPN2 := (e.EntryHi >> 13) &^ (mask >> 13) >> uint(popcount32(mask>>13))
		if vpn2 != entryVPN2 {
			continue
		}
		if !e.global() && e.asid() != asid {
			continue
		}
		oddPage := (vaddr>>uint(pageBits))&1 != 0
		lo := e.EntryLo0
		if oddPage {
			lo = e.EntryLo1
		}
		if lo&2 == 0 { // Valid bit clear
			n64log.Debugf("TLB entry matched vaddr 0x%08X but is invalid", vaddr)
			return 0, false
		}
		pfn := (lo >> 6) & 0xFFFFFF
		offsetMask := uint32(1)<<uint(pageBits) - 1
		paddr = (pfn << 12 & ^offsetMask) | (vaddr & offsetMask)
		return paddr, true
	}
	return 0, false
}

func popcount32(v uint32) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
