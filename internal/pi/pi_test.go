package pi

import (
	"testing"

	"github.com/n64core/n64/internal/mem"
)

type fakeCart struct{ data []byte }

func (f *fakeCart) ReadByte(offset uint32) byte {
	if int(offset) >= len(f.data) {
		return 0
	}
	return f.data[offset]
}
func (f *fakeCart) Size() int { return len(f.data) }

type fakeLine struct{ raised, lowered int }

func (f *fakeLine) Raise() { f.raised++ }
func (f *fakeLine) Lower() { f.lowered++ }

func TestCartToRDRAMDMA(t *testing.T) {
	dram := mem.NewRDRAM(0x10000)
	sram := mem.NewRDRAM(0x8000)
	cart := &fakeCart{data: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x11, 0x22}}
	line := &fakeLine{}
	p := New(dram, cart, sram, line)

	p.WriteWord(RegDRAMAddr, 0x400)
	p.WriteWord(RegCartAddr, 0x10000000)
	p.WriteWord(RegWRLen, 5) // length-1 encoding: 6 bytes

	for i, want := range cart.data {
		if got := dram.ReadByte(0x400 + uint32(i)); got != want {
			t.Fatalf("RDRAM[0x%X] = 0x%02X, want 0x%02X", 0x400+i, got, want)
		}
	}
	if line.raised != 1 {
		t.Errorf("PI interrupt raised %d times, want 1", line.raised)
	}
}

func TestSRAMDMABothDirections(t *testing.T) {
	dram := mem.NewRDRAM(0x10000)
	sram := mem.NewRDRAM(0x8000)
	p := New(dram, &fakeCart{}, sram, &fakeLine{})

	dram.WriteByte(0x100, 0x5A)
	p.WriteWord(RegDRAMAddr, 0x100)
	p.WriteWord(RegCartAddr, 0x08000010)
	p.WriteWord(RegRDLen, 0) // 1 byte, RDRAM -> SRAM
	if got := sram.ReadByte(0x10); got != 0x5A {
		t.Fatalf("SRAM[0x10] = 0x%02X, want 0x5A", got)
	}

	p.WriteWord(RegDRAMAddr, 0x200)
	p.WriteWord(RegWRLen, 0) // SRAM -> RDRAM
	if got := dram.ReadByte(0x200); got != 0x5A {
		t.Errorf("RDRAM[0x200] = 0x%02X, want 0x5A", got)
	}
}

func TestStatusWriteClearsInterrupt(t *testing.T) {
	line := &fakeLine{}
	p := New(mem.NewRDRAM(0x1000), &fakeCart{}, mem.NewRDRAM(0x1000), line)
	p.WriteWord(RegStatus, 2)
	if line.lowered != 1 {
		t.Errorf("PI_STATUS write lowered %d times, want 1", line.lowered)
	}
}
