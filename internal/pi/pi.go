// Package pi implements the Parallel Interface: the DMA engine that moves
// bytes between cartridge address space (ROM or SRAM) and RDRAM, plus its
// status register. A transfer completes instantaneously from the CPU's
// point of view; only the completion interrupt is observable.
package pi

import (
	"github.com/n64core/n64/internal/n64err"
	"github.com/n64core/n64/internal/n64log"
)

const (
	RegDRAMAddr = 0x00
	RegCartAddr = 0x04
	RegRDLen    = 0x08
	RegWRLen    = 0x0C
	RegStatus   = 0x10
	// Per-domain bus timing registers; latched and readable but otherwise
	// inert, since sub-cycle bus contention is an explicit non-goal.
	RegDom1Latency = 0x14
	RegDom1PWD     = 0x18
	RegDom1PGS     = 0x1C
	RegDom1RLS     = 0x20
	RegDom2Latency = 0x24
	RegDom2PWD     = 0x28
	RegDom2PGS     = 0x2C
	RegDom2RLS     = 0x30
)

const (
	cartROMBase  = 0x10000000
	cartSRAMBase = 0x08000000
)

// DRAM is the RDRAM side of the DMA engine, satisfied by *mem.RDRAM.
type DRAM interface {
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, v byte)
}

// Cart is the read side of cartridge ROM space, satisfied by *rom.ROM.
type Cart interface {
	ReadByte(offset uint32) byte
	Size() int
}

// SRAM is battery-backed cart save memory, satisfied by *mem.RDRAM.
type SRAM interface {
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, v byte)
}

// InterruptRaiser mirrors the minimal contract video/ai declare.
type InterruptRaiser interface {
	Raise()
	Lower()
}

// PI holds the DMA descriptor pair and the domain timing latches.
type PI struct {
	dramAddr uint32
	cartAddr uint32
	domain   [8]uint32

	dram DRAM
	cart Cart
	sram SRAM
	mi   InterruptRaiser
}

func New(dram DRAM, cart Cart, sram SRAM, mi InterruptRaiser) *PI {
	return &PI{dram: dram, cart: cart, sram: sram, mi: mi}
}

func (p *PI) Reset() {
	p.dramAddr, p.cartAddr = 0, 0
	p.domain = [8]uint32{}
}

// SetCart swaps the cartridge after a ROM load without rebuilding the bus.
func (p *PI) SetCart(cart Cart) { p.cart = cart }

func (p *PI) WriteWord(offset uint32, value uint32) {
	switch offset {
	case RegDRAMAddr:
		p.dramAddr = value & 0xFFFFFE
	case RegCartAddr:
		p.cartAddr = value
	case RegRDLen:
		p.dma(value&0xFFFFFF+1, false)
	case RegWRLen:
		p.dma(value&0xFFFFFF+1, true)
	case RegStatus:
		// Bit 1 clears the PI interrupt; bit 0 (controller reset) is ignored,
		// since DMAs complete within the register write.
		if value&2 != 0 && p.mi != nil {
			p.mi.Lower()
		}
	case RegDom1Latency, RegDom1PWD, RegDom1PGS, RegDom1RLS,
		RegDom2Latency, RegDom2PWD, RegDom2PGS, RegDom2RLS:
		p.domain[(offset-RegDom1Latency)/4] = value & 0xFF
	default:
		n64log.Warnf("write to unknown PI register offset 0x%02X", offset)
	}
}

func (p *PI) ReadWord(offset uint32) uint32 {
	switch offset {
	case RegDRAMAddr:
		return p.dramAddr
	case RegCartAddr:
		return p.cartAddr
	case RegStatus:
		return 0 // DMA completes instantaneously, so busy/error never read set
	case RegDom1Latency, RegDom1PWD, RegDom1PGS, RegDom1RLS,
		RegDom2Latency, RegDom2PWD, RegDom2PGS, RegDom2RLS:
		return p.domain[(offset-RegDom1Latency)/4]
	default:
		n64log.Warnf("read from unknown PI register offset 0x%02X", offset)
		return 0
	}
}

// dma copies length bytes between RDRAM and cartridge space. toDRAM selects
// PI_WR_LEN (cart -> RDRAM, the common ROM-load direction); the reverse
// direction only ever targets SRAM, since ROM is not writable.
func (p *PI) dma(length uint32, toDRAM bool) {
	defer func() {
		if p.mi != nil {
			p.mi.Raise()
		}
	}()

	switch {
	case p.cartAddr >= cartROMBase:
		offset := p.cartAddr - cartROMBase
		if !toDRAM {
			n64log.Warnf("PI DMA write into cart ROM at 0x%08X ignored", p.cartAddr)
			return
		}
		if p.cart == nil {
			n64log.Warnf("PI DMA from cart ROM with no cartridge loaded")
			return
		}
		for i := uint32(0); i < length; i++ {
			p.dram.WriteByte(p.dramAddr+i, p.cart.ReadByte(offset+i))
		}
	case p.cartAddr >= cartSRAMBase:
		offset := p.cartAddr - cartSRAMBase
		for i := uint32(0); i < length; i++ {
			if toDRAM {
				p.dram.WriteByte(p.dramAddr+i, p.sram.ReadByte(offset+i))
			} else {
				p.sram.WriteByte(offset+i, p.dram.ReadByte(p.dramAddr+i))
			}
		}
	default:
		err := n64err.New(n64err.DmaOutOfRange, "PI DMA cart address 0x%08X outside ROM/SRAM", p.cartAddr)
		n64log.Warnf("%v", err)
	}
}
