package cpu

import (
	"github.com/n64core/n64/internal/mips"
	"github.com/n64core/n64/internal/n64err"
)

// load performs an aligned load of size bytes (1, 2, 4, or 8) from
// GPR[rs]+offset, raising AddressError on misalignment and sign- or
// zero-extending into rt per signed.
func (c *CPU) load(w mips.Word, size int, signed bool) error {
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	if vaddr%uint32(size) != 0 {
		return n64err.New(n64err.AddressError, "unaligned %d-byte load at 0x%08X", size, vaddr)
	}
	paddr, err := c.translate(vaddr, false)
	if err != nil {
		return err
	}
	var raw uint64
	switch size {
	case 1:
		raw = uint64(c.bus.ReadByte(paddr))
		if signed {
			raw = uint64(int64(int8(raw)))
		}
	case 2:
		raw = uint64(c.bus.ReadHalf(paddr))
		if signed {
			raw = uint64(int64(int16(raw)))
		}
	case 4:
		raw = uint64(c.bus.ReadWord(paddr))
		if signed {
			raw = signExtend32(uint32(raw))
		}
	case 8:
		raw = c.bus.ReadDword(paddr)
	}
	c.setGPR(w.Rt(), raw)
	return nil
}

// store writes size bytes of rt to GPR[rs]+offset.
func (c *CPU) store(w mips.Word, size int) error {
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	if vaddr%uint32(size) != 0 {
		return n64err.New(n64err.AddressError, "unaligned %d-byte store at 0x%08X", size, vaddr)
	}
	paddr, err := c.translate(vaddr, true)
	if err != nil {
		return err
	}
	val := c.getGPR(w.Rt())
	switch size {
	case 1:
		c.bus.WriteByte(paddr, byte(val))
	case 2:
		c.bus.WriteHalf(paddr, uint16(val))
	case 4:
		c.bus.WriteWord(paddr, uint32(val))
	case 8:
		c.bus.WriteDword(paddr, val)
	}
	c.llBit = false
	return nil
}

// loadUnaligned implements LWL/LWR (size 4) and LDL/LDR (size 8). The left
// variant pulls memory from vaddr through the end of the aligned word into
// the register's most-significant bytes; the right variant pulls from the
// aligned word's start through vaddr into the least-significant bytes. The
// canonical LWL 0(x) / LWR size-1(x) pair therefore assembles the
// big-endian value at any unaligned x.
func (c *CPU) loadUnaligned(w mips.Word, size int, left bool) error {
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	aligned := vaddr &^ uint32(size-1)
	boundary := int(vaddr % uint32(size))

	old := c.getGPR(w.Rt())
	regBytes := u64ToBytes(old, size)

	if left {
		for k := 0; k < size-boundary; k++ {
			paddr, err := c.translate(vaddr+uint32(k), false)
			if err != nil {
				return err
			}
			regBytes[k] = c.bus.ReadByte(paddr)
		}
	} else {
		for k := 0; k <= boundary; k++ {
			paddr, err := c.translate(aligned+uint32(k), false)
			if err != nil {
				return err
			}
			regBytes[size-1-boundary+k] = c.bus.ReadByte(paddr)
		}
	}

	result := bytesToU64(regBytes, size)
	if size == 4 {
		result = signExtend32(uint32(result))
	}
	c.setGPR(w.Rt(), result)
	return nil
}

// storeUnaligned is SWL/SWR (size 4) and SDL/SDR (size 8), the store-side
// mirror of loadUnaligned.
func (c *CPU) storeUnaligned(w mips.Word, size int, left bool) error {
	vaddr := uint32(int32(c.getGPR(w.Rs())) + w.SignedImmediate())
	aligned := vaddr &^ uint32(size-1)
	boundary := int(vaddr % uint32(size))

	regBytes := u64ToBytes(c.getGPR(w.Rt()), size)

	if left {
		for k := 0; k < size-boundary; k++ {
			paddr, err := c.translate(vaddr+uint32(k), true)
			if err != nil {
				return err
			}
			c.bus.WriteByte(paddr, regBytes[k])
		}
	} else {
		for k := 0; k <= boundary; k++ {
			paddr, err := c.translate(aligned+uint32(k), true)
			if err != nil {
				return err
			}
			c.bus.WriteByte(paddr, regBytes[size-1-boundary+k])
		}
	}
	c.llBit = false
	return nil
}

func u64ToBytes(v uint64, size int) []byte {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		shift := uint((size - 1 - i) * 8)
		out[i] = byte(v >> shift)
	}
	return out
}

func bytesToU64(b []byte, size int) uint64 {
	var v uint64
	for i := 0; i < size; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
