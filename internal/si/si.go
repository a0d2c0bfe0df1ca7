// Package si implements the Serial Interface: the 64-byte DMA channel
// between RDRAM and PIF RAM, which is how games talk to the joybus
// controller protocol. A write-side DMA hands the fresh command block to
// the PIF for processing before raising the SI interrupt, so the response
// is visible the moment the interrupt handler runs.
package si

import "github.com/n64core/n64/internal/n64log"

const (
	RegDRAMAddr  = 0x00
	RegPIFAddrRD = 0x04
	RegPIFAddrWR = 0x10
	RegStatus    = 0x18
)

const dmaBytes = 64

// DRAM is the RDRAM side of the channel, satisfied by *mem.RDRAM.
type DRAM interface {
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, v byte)
}

// PIFRAM is the PIF side, satisfied by *pif.PIF.
type PIFRAM interface {
	ReadByte(offset uint32) byte
	WriteByte(offset uint32, v byte)
	ProcessCommands()
}

type InterruptRaiser interface {
	Raise()
	Lower()
}

type SI struct {
	dramAddr uint32

	dram DRAM
	pif  PIFRAM
	mi   InterruptRaiser
}

func New(dram DRAM, pifRAM PIFRAM, mi InterruptRaiser) *SI {
	return &SI{dram: dram, pif: pifRAM, mi: mi}
}

func (s *SI) Reset() { s.dramAddr = 0 }

func (s *SI) WriteWord(offset uint32, value uint32) {
	switch offset {
	case RegDRAMAddr:
		s.dramAddr = value & 0xFFFFF8
	case RegPIFAddrRD:
		// PIF -> RDRAM: the game collects the controller responses.
		for i := uint32(0); i < dmaBytes; i++ {
			s.dram.WriteByte(s.dramAddr+i, s.pif.ReadByte(i))
		}
		if s.mi != nil {
			s.mi.Raise()
		}
	case RegPIFAddrWR:
		// RDRAM -> PIF: a fresh command block; run the joybus protocol now.
		for i := uint32(0); i < dmaBytes; i++ {
			s.pif.WriteByte(i, s.dram.ReadByte(s.dramAddr+i))
		}
		s.pif.ProcessCommands()
		if s.mi != nil {
			s.mi.Raise()
		}
	case RegStatus:
		// Any write acknowledges the SI interrupt.
		if s.mi != nil {
			s.mi.Lower()
		}
	default:
		n64log.Warnf("write to unknown SI register offset 0x%02X", offset)
	}
}

func (s *SI) ReadWord(offset uint32) uint32 {
	switch offset {
	case RegDRAMAddr:
		return s.dramAddr
	case RegStatus:
		return 0 // DMA is instantaneous; busy never reads set
	default:
		n64log.Warnf("read from unknown SI register offset 0x%02X", offset)
		return 0
	}
}
