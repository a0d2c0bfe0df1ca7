package gamedb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamedb.yaml")
	yaml := `
- crc1: 0x635A2BFF
  crc2: 0x8B022326
  title: "Super Mario 64"
  save_type: eeprom-4k
  players: 1
- crc1: 0xDEADBEEF
  crc2: 0x12345678
  title: "Flash Game"
  save_type: flash-1m
  players: 4
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 {
		t.Fatalf("loaded %d entries, want 2", db.Len())
	}

	e, ok := db.Lookup(0x635A2BFF, 0x8B022326)
	if !ok {
		t.Fatal("known title not found")
	}
	if e.Title != "Super Mario 64" || e.SaveType != SaveEEPROM4K {
		t.Errorf("entry = %+v", e)
	}
	if e.SaveType.SizeBytes() != 512 {
		t.Errorf("eeprom-4k size = %d, want 512", e.SaveType.SizeBytes())
	}

	d, ok := db.Lookup(1, 2)
	if ok {
		t.Error("unknown CRC reported as known")
	}
	if d.SaveType != SaveNone || d.Players != 4 {
		t.Errorf("default entry = %+v", d)
	}
}

func TestMissingDatabaseIsEmpty(t *testing.T) {
	db, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 0 {
		t.Errorf("missing db has %d entries", db.Len())
	}
}
