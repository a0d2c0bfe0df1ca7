// Package bus routes physical addresses to their backing device: RDRAM,
// the RSP scratchpads and control registers, the memory-mapped I/O banks,
// cart ROM/SRAM, and the PIF. Virtual address resolution lives with the
// CPU (which owns the TLB); everything below this package speaks physical
// addresses only.
package bus

import (
	"github.com/n64core/n64/internal/ai"
	"github.com/n64core/n64/internal/jit"
	"github.com/n64core/n64/internal/mem"
	"github.com/n64core/n64/internal/mi"
	"github.com/n64core/n64/internal/n64err"
	"github.com/n64core/n64/internal/n64log"
	"github.com/n64core/n64/internal/pi"
	"github.com/n64core/n64/internal/pif"
	"github.com/n64core/n64/internal/rdp"
	"github.com/n64core/n64/internal/rom"
	"github.com/n64core/n64/internal/rsp"
	"github.com/n64core/n64/internal/si"
	"github.com/n64core/n64/internal/video"
)

// Physical region boundaries of the hardware memory map.
const (
	rdramEnd     = 0x00800000
	spDMEMBase   = 0x04000000
	spIMEMBase   = 0x04001000
	spIMEMEnd    = 0x04002000
	spRegBase    = 0x04040000
	spRegEnd     = 0x04040020
	spPCReg      = 0x04080000
	dpcBase      = 0x04100000
	dpcEnd       = 0x04100020
	miBase       = 0x04300000
	miEnd        = 0x04300010
	viBase       = 0x04400000
	viEnd        = 0x04400038
	aiBase       = 0x04500000
	aiEnd        = 0x04500018
	piBase       = 0x04600000
	piEnd        = 0x04600034
	riBase       = 0x04700000
	riEnd        = 0x04700020
	siBase       = 0x04800000
	siEnd        = 0x0480001C
	sramBase     = 0x08000000
	sramEnd      = 0x10000000
	cartBase     = 0x10000000
	cartEnd      = 0x1FC00000
	pifROMBase   = 0x1FC00000
	pifRAMBase   = 0x1FC007C0
	pifRAMEnd    = 0x1FC00800
)

// Bus wires every device into the physical map. All fields are set once by
// the system package at construction; Cart is swapped on ROM load.
type Bus struct {
	RDRAM *mem.RDRAM
	SRAM  *mem.RDRAM
	RSP   *rsp.RSP
	DPC   *rdp.DPC
	MI    *mi.Controller
	VI    *video.VI
	AI    *ai.AI
	PI    *pi.PI
	SI    *si.SI
	PIF   *pif.PIF
	Cart  *rom.ROM

	// Code is the dynarec page table; nil when running pure-interpreter.
	// RDRAM writes punch through to it so stale translations never execute.
	Code *jit.CodeCache

	// ri latches the RDRAM interface's init/config registers, which the boot
	// sequence writes and reads back but which model nothing
	// (read-latest-written, like the VI registers).
	ri [8]uint32
}

// ReadWord is the primary access path: instruction fetch and LW/SW both
// land here, so its dispatch order mirrors access frequency (RDRAM first).
func (b *Bus) ReadWord(paddr uint32) uint32 {
	switch {
	case paddr < rdramEnd:
		return b.RDRAM.ReadWord(paddr)
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		return b.RSP.DMEM.ReadWord(paddr - spDMEMBase)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		return b.RSP.ReadIMEMWord(paddr - spIMEMBase)
	case paddr >= spRegBase && paddr < spRegEnd:
		return b.RSP.ReadControl(paddr - spRegBase)
	case paddr >= spPCReg && paddr < spPCReg+4:
		return b.RSP.PC()
	case paddr >= dpcBase && paddr < dpcEnd:
		return b.DPC.ReadWord(paddr - dpcBase)
	case paddr >= miBase && paddr < miEnd:
		return b.MI.ReadWord(paddr - miBase)
	case paddr >= viBase && paddr < viEnd:
		return b.VI.ReadWord(paddr - viBase)
	case paddr >= aiBase && paddr < aiEnd:
		return b.AI.ReadWord(paddr - aiBase)
	case paddr >= piBase && paddr < piEnd:
		return b.PI.ReadWord(paddr - piBase)
	case paddr >= riBase && paddr < riEnd:
		return b.ri[(paddr-riBase)/4]
	case paddr >= siBase && paddr < siEnd:
		return b.SI.ReadWord(paddr - siBase)
	case paddr >= sramBase && paddr < sramEnd:
		return b.SRAM.ReadWord(paddr - sramBase)
	case paddr >= cartBase && paddr < cartEnd:
		if b.Cart == nil {
			return 0
		}
		return b.Cart.ReadWord(paddr - cartBase)
	case paddr >= pifROMBase && paddr < pifRAMBase:
		return pifROMWord(b.PIF, paddr-pifROMBase)
	case paddr >= pifRAMBase && paddr < pifRAMEnd:
		return b.PIF.ReadWord(paddr - pifRAMBase)
	default:
		b.unmapped("word read", paddr)
		return 0
	}
}

func (b *Bus) WriteWord(paddr uint32, v uint32) {
	switch {
	case paddr < rdramEnd:
		b.RDRAM.WriteWord(paddr, v)
		if b.Code != nil {
			b.Code.Invalidate(paddr)
		}
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		b.RSP.DMEM.WriteWord(paddr-spDMEMBase, v)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		b.RSP.WriteIMEMWord(paddr-spIMEMBase, v)
	case paddr >= spRegBase && paddr < spRegEnd:
		b.RSP.WriteControl(paddr-spRegBase, v)
	case paddr >= spPCReg && paddr < spPCReg+4:
		b.RSP.SetPC(v)
	case paddr >= dpcBase && paddr < dpcEnd:
		b.DPC.WriteWord(paddr-dpcBase, v)
	case paddr >= miBase && paddr < miEnd:
		b.MI.WriteWord(paddr-miBase, v)
	case paddr >= viBase && paddr < viEnd:
		b.VI.WriteWord(paddr-viBase, v)
	case paddr >= aiBase && paddr < aiEnd:
		b.AI.WriteWord(paddr-aiBase, v)
	case paddr >= piBase && paddr < piEnd:
		b.PI.WriteWord(paddr-piBase, v)
	case paddr >= riBase && paddr < riEnd:
		b.ri[(paddr-riBase)/4] = v
	case paddr >= siBase && paddr < siEnd:
		b.SI.WriteWord(paddr-siBase, v)
	case paddr >= sramBase && paddr < sramEnd:
		b.SRAM.WriteWord(paddr-sramBase, v)
	case paddr >= cartBase && paddr < cartEnd:
		b.unmapped("word write into cart ROM", paddr)
	case paddr >= pifRAMBase && paddr < pifRAMEnd:
		b.PIF.WriteWord(paddr-pifRAMBase, v)
	default:
		b.unmapped("word write", paddr)
	}
}

// ReadByte handles the sub-word widths. Byte-granular access to the I/O
// register banks is not a thing hardware supports; those land in unmapped.
func (b *Bus) ReadByte(paddr uint32) byte {
	switch {
	case paddr < rdramEnd:
		return b.RDRAM.ReadByte(paddr)
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		return b.RSP.DMEM.ReadByte(paddr - spDMEMBase)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		return b.RSP.ReadIMEMByte(paddr - spIMEMBase)
	case paddr >= sramBase && paddr < sramEnd:
		return b.SRAM.ReadByte(paddr - sramBase)
	case paddr >= cartBase && paddr < cartEnd:
		if b.Cart == nil {
			return 0
		}
		return b.Cart.ReadByte(paddr - cartBase)
	case paddr >= pifROMBase && paddr < pifRAMBase:
		return b.PIF.ReadROMByte(paddr - pifROMBase)
	case paddr >= pifRAMBase && paddr < pifRAMEnd:
		return b.PIF.ReadByte(paddr - pifRAMBase)
	default:
		b.unmapped("byte read", paddr)
		return 0
	}
}

func (b *Bus) WriteByte(paddr uint32, v byte) {
	switch {
	case paddr < rdramEnd:
		b.RDRAM.WriteByte(paddr, v)
		if b.Code != nil {
			b.Code.Invalidate(paddr)
		}
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		b.RSP.DMEM.WriteByte(paddr-spDMEMBase, v)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		b.RSP.WriteIMEMByte(paddr-spIMEMBase, v)
	case paddr >= sramBase && paddr < sramEnd:
		b.SRAM.WriteByte(paddr-sramBase, v)
	case paddr >= pifRAMBase && paddr < pifRAMEnd:
		b.PIF.WriteByte(paddr-pifRAMBase, v)
	default:
		b.unmapped("byte write", paddr)
	}
}

func (b *Bus) ReadHalf(paddr uint32) uint16 {
	switch {
	case paddr < rdramEnd:
		return b.RDRAM.ReadHalf(paddr)
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		return b.RSP.DMEM.ReadHalf(paddr - spDMEMBase)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		return b.RSP.ReadIMEMHalf(paddr - spIMEMBase)
	case paddr >= sramBase && paddr < sramEnd:
		return b.SRAM.ReadHalf(paddr - sramBase)
	case paddr >= cartBase && paddr < cartEnd:
		return uint16(b.ReadByte(paddr))<<8 | uint16(b.ReadByte(paddr+1))
	default:
		b.unmapped("half read", paddr)
		return 0
	}
}

func (b *Bus) WriteHalf(paddr uint32, v uint16) {
	switch {
	case paddr < rdramEnd:
		b.RDRAM.WriteHalf(paddr, v)
		if b.Code != nil {
			b.Code.Invalidate(paddr)
		}
	case paddr >= spDMEMBase && paddr < spIMEMBase:
		b.RSP.DMEM.WriteHalf(paddr-spDMEMBase, v)
	case paddr >= spIMEMBase && paddr < spIMEMEnd:
		b.RSP.WriteIMEMHalf(paddr-spIMEMBase, v)
	case paddr >= sramBase && paddr < sramEnd:
		b.SRAM.WriteHalf(paddr-sramBase, v)
	default:
		b.unmapped("half write", paddr)
	}
}

// ReadDword/WriteDword split into two word accesses: every device bank is
// word-granular, and RDRAM's big-endian helpers compose the same way the
// hardware's paired 32-bit transfers do.
func (b *Bus) ReadDword(paddr uint32) uint64 {
	return uint64(b.ReadWord(paddr))<<32 | uint64(b.ReadWord(paddr+4))
}

func (b *Bus) WriteDword(paddr uint32, v uint64) {
	b.WriteWord(paddr, uint32(v>>32))
	b.WriteWord(paddr+4, uint32(v))
}

// unmapped logs a BusUnmapped fault and drops the access; reads from
// write-only registers and writes to read-only registers land here too.
// These never fault the CPU.
func (b *Bus) unmapped(what string, paddr uint32) {
	err := n64err.New(n64err.BusUnmapped, "%s at physical 0x%08X", what, paddr)
	n64log.Warnf("%v", err)
}

func pifROMWord(p *pif.PIF, offset uint32) uint32 {
	return uint32(p.ReadROMByte(offset))<<24 | uint32(p.ReadROMByte(offset+1))<<16 |
		uint32(p.ReadROMByte(offset+2))<<8 | uint32(p.ReadROMByte(offset+3))
}
