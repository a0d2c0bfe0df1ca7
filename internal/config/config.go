// Package config loads the emulator's TOML settings file. Command-line
// flags parsed in cmd/n64head override file values, which in turn override
// the built-in defaults.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/n64core/n64/internal/n64log"
)

// Config is the full settings surface.
type Config struct {
	PIFROMPath  string `toml:"pif_rom_path"`
	GameDBPath  string `toml:"game_db_path"`
	SaveDir     string `toml:"save_dir"`
	RDRAMSize   int    `toml:"rdram_size"`
	VideoType   string `toml:"video_type"` // "ntsc" or "pal"
	Verbosity   string `toml:"verbosity"`  // "warn", "info", "debug", "trace"
	UnlockFrame bool   `toml:"unlock_framerate"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SaveDir:   "saves",
		RDRAMSize: 8 * 1024 * 1024,
		VideoType: "ntsc",
		Verbosity: "info",
	}
}

// Load reads the TOML file at path, applying it over Default. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		n64log.Debugf("no config file at %s, using defaults", path)
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.RDRAMSize <= 0 {
		cfg.RDRAMSize = Default().RDRAMSize
	}
	return cfg, nil
}

// LogLevel maps the verbosity string to an n64log level.
func (c Config) LogLevel() n64log.Level {
	switch c.Verbosity {
	case "trace":
		return n64log.LevelTrace
	case "debug":
		return n64log.LevelDebug
	case "warn":
		return n64log.LevelWarn
	default:
		return n64log.LevelInfo
	}
}
