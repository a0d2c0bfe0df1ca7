// n64head is the headless front-end: it boots a ROM and either runs the
// frame scheduler under the interactive debug console, or (with -test)
// runs the pass/fail harness that test ROMs report into GPR 30. Flags
// override the TOML config file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/n64core/n64/internal/config"
	"github.com/n64core/n64/internal/frontend"
	"github.com/n64core/n64/internal/n64"
	"github.com/n64core/n64/internal/n64log"
)

func main() {
	configPath := flag.String("config", "n64.toml", "path to the TOML config file")
	verbose := flag.Bool("v", false, "enable debug logging")
	pifPath := flag.String("pifrom", "", "path to a 2 KiB PIF boot ROM (overrides config)")
	testMode := flag.Bool("test", false, "headless test harness: exit 0 when the ROM sets GPR 30 to -1")
	dynarec := flag.Bool("dynarec", false, "reserve the JIT code cache (stepping stays on the interpreter)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.z64\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *verbose {
		cfg.Verbosity = "debug"
	}
	if *pifPath != "" {
		cfg.PIFROMPath = *pifPath
	}
	n64log.SetVerbosity(cfg.LogLevel())

	sys := n64.New(cfg)
	defer sys.Shutdown()

	if *dynarec {
		if err := sys.EnableDynarec(); err != nil {
			log.Fatalf("reserving JIT code cache: %v", err)
		}
	}

	if err := sys.LoadROM(romPath); err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	if *testMode {
		pass, steps := sys.RunTest()
		if !pass {
			log.Fatalf("test ROM failed (GPR30=0x%X after %d steps)", sys.CPU.GPR[30], steps)
		}
		fmt.Printf("PASS (%d steps)\n", steps)
		return
	}

	console, err := frontend.Open()
	if err != nil {
		log.Fatalf("opening debug console: %v", err)
	}
	defer console.Close()

	paused := false
	sys.OnFrameDebug = func(s *n64.System) {
		for {
			var act frontend.Action
			if paused {
				act = console.WaitKey()
			} else {
				act = console.Poll()
			}
			switch act {
			case frontend.ActionQuit:
				s.ShouldQuit = true
				return
			case frontend.ActionTogglePause:
				paused = !paused
			case frontend.ActionStepFrame:
				return // run exactly one more frame, WaitKey again after it
			case frontend.ActionDumpRDRAM:
				if err := s.DumpRDRAM("rdram.bin", true); err != nil {
					n64log.Warnf("dumping RDRAM: %v", err)
				} else {
					n64log.Infof("RDRAM dumped to rdram.bin")
				}
				continue
			case frontend.ActionReset:
				s.Reset()
			}
			if !paused {
				return
			}
		}
	}

	sys.Run()
}
