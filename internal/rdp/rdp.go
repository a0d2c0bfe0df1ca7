// Package rdp implements the DPC command registers at 0x04100000: the
// start/current/end triple a game programs to hand a display-list span to
// the rasterizer. Rasterization itself happens in an external renderer;
// this block records the spans in a FIFO for that renderer to drain and
// raises the DP interrupt when a span is submitted.
package rdp

import "github.com/n64core/n64/internal/n64log"

const (
	RegStart   = 0x00
	RegEnd     = 0x04
	RegCurrent = 0x08
	RegStatus  = 0x0C
	RegClock   = 0x10
	RegBufBusy = 0x14
	RegPipeBusy = 0x18
	RegTMEM    = 0x1C
)

// Status write bits (clear/set pairs).
const (
	statusXBus      = 1 << 0
	statusFreeze    = 1 << 1
	statusFlush     = 1 << 2
)

// Span is one submitted command-list region. XBus selects DMEM as the
// source instead of RDRAM.
type Span struct {
	Start uint32
	End   uint32
	XBus  bool
}

type InterruptRaiser interface {
	Raise()
}

// DPC holds the command registers and the pending span FIFO consumed by
// the render thread at swap.
type DPC struct {
	start   uint32
	current uint32
	end     uint32
	status  uint32

	spans []Span

	mi InterruptRaiser
}

func New(mi InterruptRaiser) *DPC {
	return &DPC{mi: mi}
}

func (d *DPC) Reset() {
	d.start, d.current, d.end, d.status = 0, 0, 0, 0
	d.spans = nil
}

func (d *DPC) WriteWord(offset uint32, value uint32) {
	switch offset {
	case RegStart:
		d.start = value & 0xFFFFF8
		d.current = d.start
	case RegEnd:
		d.end = value & 0xFFFFF8
		d.submit()
	case RegStatus:
		if value&(1<<0) != 0 {
			d.status &^= statusXBus
		}
		if value&(1<<1) != 0 {
			d.status |= statusXBus
		}
		if value&(1<<2) != 0 {
			d.status &^= statusFreeze
		}
		if value&(1<<3) != 0 {
			d.status |= statusFreeze
		}
		if value&(1<<4) != 0 {
			d.status &^= statusFlush
		}
		if value&(1<<5) != 0 {
			d.status |= statusFlush
		}
	default:
		n64log.Warnf("write to unknown DPC register offset 0x%02X", offset)
	}
}

func (d *DPC) ReadWord(offset uint32) uint32 {
	switch offset {
	case RegStart:
		return d.start
	case RegEnd:
		return d.end
	case RegCurrent:
		return d.current
	case RegStatus:
		return d.status
	case RegClock, RegBufBusy, RegPipeBusy, RegTMEM:
		return 0
	default:
		n64log.Warnf("read from unknown DPC register offset 0x%02X", offset)
		return 0
	}
}

// submit queues the [start, end) span for the renderer and completes it
// instantaneously from the core's perspective, matching the PI/SI DMA model.
func (d *DPC) submit() {
	if d.end <= d.start {
		return
	}
	d.spans = append(d.spans, Span{Start: d.start, End: d.end, XBus: d.status&statusXBus != 0})
	d.current = d.end
	n64log.Debugf("DPC span submitted: 0x%06X..0x%06X", d.start, d.end)
	if d.mi != nil {
		d.mi.Raise()
	}
}

// DrainSpans hands all pending spans to the caller (the renderer's swap
// hook) and clears the FIFO.
func (d *DPC) DrainSpans() []Span {
	s := d.spans
	d.spans = nil
	return s
}
