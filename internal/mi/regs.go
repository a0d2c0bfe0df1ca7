package mi

import "github.com/n64core/n64/internal/n64log"

// Register byte offsets within the MI block, based at 0x04300000.
const (
	RegMode     = 0x00
	RegVersion  = 0x04
	RegIntr     = 0x08
	RegIntrMask = 0x0C
)

// miVersion is the hardware revision word real consoles report.
const miVersion = 0x02020102

// WriteWord dispatches a 32-bit write at the given MI register offset.
// MI_INTR_REG is read-only; a write to it is logged and dropped. Writing
// MI_MODE with bit 11 set clears the DP interrupt.
func (m *Controller) WriteWord(offset uint32, value uint32) {
	switch offset {
	case RegMode:
		m.mode = value & 0x7F
		if value&(1<<11) != 0 {
			m.Lower(DP)
		}
	case RegIntrMask:
		m.WriteMask(value)
	case RegVersion, RegIntr:
		n64log.Warnf("write to read-only MI register offset 0x%02X dropped", offset)
	default:
		n64log.Warnf("write to unknown MI register offset 0x%02X", offset)
	}
}

// ReadWord returns the MI register at offset.
func (m *Controller) ReadWord(offset uint32) uint32 {
	switch offset {
	case RegMode:
		return m.mode
	case RegVersion:
		return miVersion
	case RegIntr:
		return m.intr
	case RegIntrMask:
		return m.intrMask
	default:
		n64log.Warnf("read from unknown MI register offset 0x%02X", offset)
		return 0
	}
}
