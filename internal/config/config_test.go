package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/n64core/n64/internal/n64log"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n64.toml")
	body := `
pif_rom_path = "/roms/pif.rom"
save_dir = "/tmp/saves"
rdram_size = 4194304
verbosity = "debug"
unlock_framerate = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PIFROMPath != "/roms/pif.rom" {
		t.Errorf("PIFROMPath = %q", cfg.PIFROMPath)
	}
	if cfg.RDRAMSize != 4194304 {
		t.Errorf("RDRAMSize = %d", cfg.RDRAMSize)
	}
	if !cfg.UnlockFrame {
		t.Error("unlock_framerate not applied")
	}
	if cfg.LogLevel() != n64log.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
	// Unset fields keep their defaults.
	if cfg.VideoType != "ntsc" {
		t.Errorf("VideoType = %q, want default ntsc", cfg.VideoType)
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
