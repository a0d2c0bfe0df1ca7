// Package video implements the Video Interface register block: the
// timing/geometry registers games program to describe the framebuffer and
// scanout, plus the vertical-interrupt comparator the scheduler polls every
// scanline. Dispatch is on register offset within the block; the bus strips
// the 0x04400000 base before calling in.
package video

import "github.com/n64core/n64/internal/n64log"

// Register byte offsets within the VI block, based at 0x04400000.
const (
	RegStatus   = 0x00
	RegOrigin   = 0x04
	RegWidth    = 0x08
	RegVIntr    = 0x0C
	RegVCurrent = 0x10
	RegBurst    = 0x14
	RegVSync    = 0x18
	RegHSync    = 0x1C
	RegLeap     = 0x20
	RegHStart   = 0x24
	RegVStart   = 0x28
	RegVBurst   = 0x2C
	RegXScale   = 0x30
	RegYScale   = 0x34
)

const statusSerrate = 1 << 6

// cpuCyclesPerFrame is the nominal VR4300 cycle budget for one NTSC video
// frame, used to derive cycles-per-halfline from vsync.
const cpuCyclesPerFrame = 93750000 / 60

// InterruptRaiser is the subset of mi.Controller the VI block needs; kept
// as an interface so this package never imports internal/mi directly.
type InterruptRaiser interface {
	Raise()
	Lower()
}

// VI holds every VI register plus the derived scanline-timing fields the
// scheduler consumes.
type VI struct {
	status   uint32
	origin   uint32
	width    uint32
	viIntr   uint32
	vCurrent uint32
	burst    uint32
	vsync    uint32
	hsync    uint32
	leap     uint32
	hstart   uint32
	vstart   uint32
	vburst   uint32
	xscale   uint32
	yscale   uint32

	NumFields          int
	Swaps              int
	NumHalflines       uint32
	CyclesPerHalfline  uint32

	mi InterruptRaiser
}

func New(mi InterruptRaiser) *VI {
	v := &VI{mi: mi}
	v.Reset()
	return v
}

func (v *VI) Reset() {
	*v = VI{mi: v.mi, NumFields: 1}
}

// WriteWord dispatches a 32-bit write at the given VI register offset.
func (v *VI) WriteWord(offset uint32, value uint32) {
	switch offset {
	case RegStatus:
		v.status = value
		if value&statusSerrate != 0 {
			v.NumFields = 2
		} else {
			v.NumFields = 1
		}
	case RegOrigin:
		masked := value & 0xFFFFFF
		if v.origin != masked {
			v.Swaps++
		}
		v.origin = masked
		n64log.Infof("VI origin is now 0x%08X (wrote 0x%08X)", masked, value)
	case RegWidth:
		v.width = value & 0x7FF
		n64log.Infof("VI width is now 0x%X (wrote 0x%08X)", v.width, value)
	case RegVIntr:
		v.viIntr = value & 0x3FF
		n64log.Infof("VI interrupt is now 0x%X, will fire when (v_current & 0x3FE) == %d", v.viIntr, v.viIntr)
	case RegVCurrent:
		n64log.Infof("V_CURRENT written, VI interrupt cleared")
		if v.mi != nil {
			v.mi.Lower()
		}
	case RegBurst:
		v.burst = value
	case RegVSync:
		v.vsync = value & 0x3FF
		v.NumHalflines = v.vsync >> 1
		if v.NumHalflines > 0 {
			v.CyclesPerHalfline = cpuCyclesPerFrame / v.NumHalflines
		}
		n64log.Infof("VI vsync is now 0x%X, wrote 0x%08X", v.vsync, value)
	case RegHSync:
		v.hsync = value & 0x3FF
	case RegLeap:
		v.leap = value
	case RegHStart:
		v.hstart = value
	case RegVStart:
		v.vstart = value
	case RegVBurst:
		v.vburst = value
	case RegXScale:
		v.xscale = value
	case RegYScale:
		v.yscale = value
	default:
		n64log.Warnf("write to unknown VI register offset 0x%02X", offset)
	}
}

// ReadWord returns the current value of the VI register at offset. Every
// register except V_CURRENT, which reads the line last set by SetVCurrent,
// reads back its last written value (see DESIGN.md): a handful of
// boot ROMs and test harnesses read VI registers back to verify their own
// writes.
func (v *VI) ReadWord(offset uint32) uint32 {
	switch offset {
	case RegStatus:
		return v.status
	case RegOrigin:
		return v.origin
	case RegWidth:
		return v.width
	case RegVIntr:
		return v.viIntr
	case RegVCurrent:
		return v.vCurrent
	case RegBurst:
		return v.burst
	case RegVSync:
		return v.vsync
	case RegHSync:
		return v.hsync
	case RegLeap:
		return v.leap
	case RegHStart:
		return v.hstart
	case RegVStart:
		return v.vstart
	case RegVBurst:
		return v.vburst
	case RegXScale:
		return v.xscale
	case RegYScale:
		return v.yscale
	default:
		n64log.Warnf("read from unknown VI register offset 0x%02X", offset)
		return 0
	}
}

// SetVCurrent sets V_CURRENT, called once per scanline by the scheduler with
// the line index, and re-evaluates the VI interrupt comparator.
func (v *VI) SetVCurrent(line uint32) {
	v.vCurrent = line
	v.CheckInterrupt()
}

func (v *VI) VCurrent() uint32 { return v.vCurrent }

// CheckInterrupt raises the VI interrupt when the current halfline matches
// the programmed target through the (v_current & 0x3FE) comparator.
func (v *VI) CheckInterrupt() {
	if v.mi == nil {
		return
	}
	if (v.vCurrent & 0x3FE) == v.viIntr {
		n64log.Debugf("VI interrupt: v_current %d == vi_v_intr %d", v.vCurrent&0x3FE, v.viIntr)
		v.mi.Raise()
	}
}

// Origin and Width expose the current framebuffer pointer/stride for a
// frontend's swap hook.
func (v *VI) Origin() uint32 { return v.origin }
func (v *VI) Width() uint32  { return v.width }
