// Package gamedb loads the CRC-keyed per-title database: every ROM load
// matches the header CRC pair against it to learn the cart's save hardware
// and player count. The table is a YAML file so entries can be added
// without recompiling.
package gamedb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n64core/n64/internal/n64log"
)

// SaveType names the cartridge's save hardware, used to autosize save
// files.
type SaveType string

const (
	SaveNone     SaveType = "none"
	SaveEEPROM4K SaveType = "eeprom-4k"
	SaveEEPROM16K SaveType = "eeprom-16k"
	SaveSRAM     SaveType = "sram-256k"
	SaveFlash    SaveType = "flash-1m"
)

// SizeBytes returns the backing-file size for the save type.
func (s SaveType) SizeBytes() int {
	switch s {
	case SaveEEPROM4K:
		return 512
	case SaveEEPROM16K:
		return 2048
	case SaveSRAM:
		return 32 * 1024
	case SaveFlash:
		return 128 * 1024
	default:
		return 0
	}
}

// Entry is one game record.
type Entry struct {
	CRC1     uint32   `yaml:"crc1"`
	CRC2     uint32   `yaml:"crc2"`
	Title    string   `yaml:"title"`
	SaveType SaveType `yaml:"save_type"`
	Players  int      `yaml:"players"`
}

// DB is the loaded table, indexed by the header CRC pair.
type DB struct {
	entries map[uint64]Entry
}

func key(crc1, crc2 uint32) uint64 { return uint64(crc1)<<32 | uint64(crc2) }

// Load parses the YAML database at path. A missing database is not fatal:
// lookups just miss and the defaults apply.
func Load(path string) (*DB, error) {
	db := &DB{entries: make(map[uint64]Entry)}
	if path == "" {
		return db, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		n64log.Warnf("game database not found at %s, using defaults for all titles", path)
		return db, nil
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing game database %s: %w", path, err)
	}
	for _, e := range entries {
		db.entries[key(e.CRC1, e.CRC2)] = e
	}
	n64log.Infof("loaded %d game database entries from %s", len(entries), path)
	return db, nil
}

// Lookup returns the entry for the CRC pair, or a default entry (no save
// hardware, 4 players) when the title is unknown.
func (db *DB) Lookup(crc1, crc2 uint32) (Entry, bool) {
	e, ok := db.entries[key(crc1, crc2)]
	if !ok {
		return Entry{CRC1: crc1, CRC2: crc2, SaveType: SaveNone, Players: 4}, false
	}
	return e, true
}

func (db *DB) Len() int { return len(db.entries) }
