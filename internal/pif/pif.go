// Package pif implements the Peripheral Interface's 64-byte command RAM
// and the channel-based joybus protocol the SI DMA engine drives through
// it. The PIF also anchors boot: when no boot ROM file is present, the
// system synthesizes the post-IPL machine state the real one would leave
// behind.
package pif

import (
	"os"

	"github.com/n64core/n64/internal/n64log"
)

const (
	RAMSize = 64
	ROMSize = 2048
)

// Joybus command bytes.
const (
	cmdInfo       = 0x00
	cmdReadButtons = 0x01
	cmdReadMempak  = 0x02
	cmdWriteMempak = 0x03
	cmdReset       = 0xFF
)

// Channel-framing sentinel bytes within PIF RAM.
const (
	chanSkip    = 0x00
	chanReset   = 0xFD
	chanEnd     = 0xFE
	chanIgnore  = 0xFF
)

// ControllerState is the pad state a frontend (or a scripted test) feeds the
// joybus protocol. Emulated gamepad input itself is out of scope; this type
// exists so the command decoder has real bytes to answer 0x01 with.
type ControllerState struct {
	Buttons uint16
	StickX  int8
	StickY  int8
	Present bool
}

// PIF holds the command RAM, the optional boot ROM image, and the state of
// the four controller channels.
type PIF struct {
	RAM [RAMSize]byte
	rom []byte

	Controllers [4]ControllerState
}

func New() *PIF {
	p := &PIF{}
	p.Controllers[0].Present = true
	return p
}

func (p *PIF) Reset() {
	p.RAM = [RAMSize]byte{}
}

// LoadROM reads the 2 KiB boot ROM from path. A missing file is not an
// error: boot falls back to synthesized state.
func (p *PIF) LoadROM(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		n64log.Warnf("PIF ROM not found at %s, booting via synthesized state", path)
		return
	}
	if len(data) != ROMSize {
		n64log.Warnf("PIF ROM at %s is %d bytes, want %d; ignoring", path, len(data), ROMSize)
		return
	}
	p.rom = data
}

// HasROM reports whether a real boot ROM was loaded.
func (p *PIF) HasROM() bool { return p.rom != nil }

// ReadROMByte reads from the boot ROM region at 0x1FC00000. Reads with no
// ROM loaded return zero; the boot path never reaches here in that case.
func (p *PIF) ReadROMByte(offset uint32) byte {
	if p.rom == nil || int(offset) >= len(p.rom) {
		return 0
	}
	return p.rom[offset]
}

func (p *PIF) ReadByte(offset uint32) byte {
	return p.RAM[offset%RAMSize]
}

func (p *PIF) WriteByte(offset uint32, v byte) {
	p.RAM[offset%RAMSize] = v
}

func (p *PIF) ReadWord(offset uint32) uint32 {
	o := offset % RAMSize
	return uint32(p.RAM[o])<<24 | uint32(p.RAM[(o+1)%RAMSize])<<16 |
		uint32(p.RAM[(o+2)%RAMSize])<<8 | uint32(p.RAM[(o+3)%RAMSize])
}

func (p *PIF) WriteWord(offset uint32, v uint32) {
	o := offset % RAMSize
	p.RAM[o] = byte(v >> 24)
	p.RAM[(o+1)%RAMSize] = byte(v >> 16)
	p.RAM[(o+2)%RAMSize] = byte(v >> 8)
	p.RAM[(o+3)%RAMSize] = byte(v)
}

// ProcessCommands walks the channel framing in PIF RAM and answers each
// joybus command in place, called after an SI DMA writes a fresh command
// block. Each channel frame is {tx, rx, command, tx-1 params...} followed
// by rx response bytes the PIF fills in; the channel index advances on
// every frame whether or not a device answers.
func (p *PIF) ProcessCommands() {
	channel := 0
	i := 0
	for i < RAMSize {
		tx := p.RAM[i]
		switch tx {
		case chanEnd:
			return
		case chanSkip, chanIgnore:
			i++
			continue
		case chanReset:
			channel++
			i++
			continue
		}

		txLen := int(tx & 0x3F)
		if i+1 >= RAMSize {
			return
		}
		rxLen := int(p.RAM[i+1] & 0x3F)
		cmdAt := i + 2
		rspAt := cmdAt + txLen
		if cmdAt >= RAMSize || rspAt+rxLen > RAMSize || txLen == 0 {
			return
		}

		p.answer(channel, p.RAM[cmdAt], p.RAM[cmdAt:rspAt], p.RAM[rspAt:rspAt+rxLen], i+1)
		channel++
		i = rspAt + rxLen
	}
}

// answer fills rsp for one channel frame. rxFlagAt is the PIF RAM index of
// the rx byte, whose top bits report device-not-present (0x80).
func (p *PIF) answer(channel int, cmd byte, tx, rsp []byte, rxFlagAt int) {
	if channel >= len(p.Controllers) || !p.Controllers[channel].Present {
		p.RAM[rxFlagAt] |= 0x80
		return
	}
	ctl := &p.Controllers[channel]
	switch cmd {
	case cmdInfo, cmdReset:
		// Standard controller identifier, no mempak inserted.
		if len(rsp) >= 3 {
			rsp[0] = 0x05
			rsp[1] = 0x00
			rsp[2] = 0x02
		}
	case cmdReadButtons:
		if len(rsp) >= 4 {
			rsp[0] = byte(ctl.Buttons >> 8)
			rsp[1] = byte(ctl.Buttons)
			rsp[2] = byte(ctl.StickX)
			rsp[3] = byte(ctl.StickY)
		}
	case cmdReadMempak, cmdWriteMempak:
		// No mempak emulated; report CRC of all-zeroes so games detect absence.
		if len(rsp) > 0 {
			rsp[len(rsp)-1] = 0
		}
	default:
		n64log.Warnf("PIF: unknown joybus command 0x%02X on channel %d", cmd, channel)
		p.RAM[rxFlagAt] |= 0x80
	}
}
