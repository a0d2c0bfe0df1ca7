package pif

import "testing"

func TestControllerReadCommand(t *testing.T) {
	p := New()
	p.Controllers[0] = ControllerState{Buttons: 0x1234, StickX: 5, StickY: -3, Present: true}

	// Channel 0 frame: tx=1, rx=4, command 0x01, then 4 response slots.
	p.RAM = [RAMSize]byte{}
	p.RAM[0] = 1
	p.RAM[1] = 4
	p.RAM[2] = cmdReadButtons
	p.RAM[7] = chanEnd

	p.ProcessCommands()

	if p.RAM[3] != 0x12 || p.RAM[4] != 0x34 {
		t.Errorf("buttons = %02X%02X, want 1234", p.RAM[3], p.RAM[4])
	}
	if int8(p.RAM[5]) != 5 || int8(p.RAM[6]) != -3 {
		t.Errorf("stick = %d,%d, want 5,-3", int8(p.RAM[5]), int8(p.RAM[6]))
	}
}

func TestInfoCommandIdentifiesController(t *testing.T) {
	p := New()
	p.RAM[0] = 1
	p.RAM[1] = 3
	p.RAM[2] = cmdInfo
	p.RAM[6] = chanEnd

	p.ProcessCommands()

	if p.RAM[3] != 0x05 || p.RAM[4] != 0x00 {
		t.Errorf("identifier = %02X%02X, want 0500", p.RAM[3], p.RAM[4])
	}
}

func TestAbsentChannelFlagsNotPresent(t *testing.T) {
	p := New()
	// Channel 0 skipped (0x00 advances without consuming a frame is the
	// skip sentinel; use a real frame on channel 1 by padding with 0xFD).
	p.RAM[0] = chanReset // channel 0 -> 1
	p.RAM[1] = 1
	p.RAM[2] = 4
	p.RAM[3] = cmdReadButtons
	p.RAM[8] = chanEnd

	p.ProcessCommands()

	if p.RAM[2]&0x80 == 0 {
		t.Error("absent controller did not set the device-not-present flag")
	}
}

func TestWordAccessorsAreBigEndian(t *testing.T) {
	p := New()
	p.WriteWord(8, 0x11223344)
	if p.RAM[8] != 0x11 || p.RAM[11] != 0x44 {
		t.Errorf("word write order: % X", p.RAM[8:12])
	}
	if got := p.ReadWord(8); got != 0x11223344 {
		t.Errorf("ReadWord = 0x%08X", got)
	}
}
