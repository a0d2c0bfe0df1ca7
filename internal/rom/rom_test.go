package rom

import (
	"os"
	"path/filepath"
	"testing"
)

// makeImage builds a minimal big-endian header: magic, initial PC, CRC pair,
// title, plus one recognizable word past the header.
func makeImage() []byte {
	data := make([]byte, 0x1000)
	put := func(off int, v uint32) {
		data[off] = byte(v >> 24)
		data[off+1] = byte(v >> 16)
		data[off+2] = byte(v >> 8)
		data[off+3] = byte(v)
	}
	put(0x00, 0x80371240)
	put(0x08, 0x80001000) // initial PC
	put(0x10, 0xCAFEBABE) // CRC1
	put(0x14, 0xDEADF00D) // CRC2
	copy(data[0x20:], "TEST CART")
	put(0x40, 0x3C01DEAD)
	return data
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBigEndian(t *testing.T) {
	r, err := Load(writeTemp(t, "test.z64", makeImage()))
	if err != nil {
		t.Fatal(err)
	}
	if r.Header.InitialPC != 0x80001000 {
		t.Errorf("InitialPC = 0x%08X, want 0x80001000", r.Header.InitialPC)
	}
	if r.Header.CRC1 != 0xCAFEBABE || r.Header.CRC2 != 0xDEADF00D {
		t.Errorf("CRC = %08X/%08X", r.Header.CRC1, r.Header.CRC2)
	}
	if r.Header.Title != "TEST CART" {
		t.Errorf("Title = %q", r.Header.Title)
	}
	if r.ReadWord(0x40) != 0x3C01DEAD {
		t.Errorf("word at 0x40 = 0x%08X", r.ReadWord(0x40))
	}
}

func TestLoadMiddleEndianNormalizes(t *testing.T) {
	img := makeImage()
	// 16-bit swap the whole image, the .v64 layout.
	swapped := make([]byte, len(img))
	for i := 0; i+1 < len(img); i += 2 {
		swapped[i], swapped[i+1] = img[i+1], img[i]
	}
	r, err := Load(writeTemp(t, "test.v64", swapped))
	if err != nil {
		t.Fatal(err)
	}
	if r.ReadWord(0x40) != 0x3C01DEAD {
		t.Errorf("v64 not normalized: word at 0x40 = 0x%08X", r.ReadWord(0x40))
	}
	if r.Header.Title != "TEST CART" {
		t.Errorf("v64 title = %q", r.Header.Title)
	}
}

func TestLoadLittleEndianNormalizes(t *testing.T) {
	img := makeImage()
	swapped := make([]byte, len(img))
	for i := 0; i+3 < len(img); i += 4 {
		swapped[i], swapped[i+1], swapped[i+2], swapped[i+3] = img[i+3], img[i+2], img[i+1], img[i]
	}
	r, err := Load(writeTemp(t, "test.n64", swapped))
	if err != nil {
		t.Fatal(err)
	}
	if r.ReadWord(0x40) != 0x3C01DEAD {
		t.Errorf("n64 not normalized: word at 0x40 = 0x%08X", r.ReadWord(0x40))
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load(writeTemp(t, "bad.z64", make([]byte, 0x1000))); err == nil {
		t.Error("expected RomInvalid for zero magic")
	}
	if _, err := Load(writeTemp(t, "tiny.z64", []byte{1, 2, 3})); err == nil {
		t.Error("expected RomInvalid for undersized file")
	}
}
