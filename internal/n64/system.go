// Package n64 owns the process-wide system aggregate — a single owning
// value constructed at startup and passed explicitly through the step
// routines — and the scanline scheduler that keeps the CPU, RSP, AI, and
// VI in step across a frame (sched.go).
package n64

import (
	"os"
	"path/filepath"

	"github.com/n64core/n64/internal/ai"
	"github.com/n64core/n64/internal/bus"
	"github.com/n64core/n64/internal/config"
	"github.com/n64core/n64/internal/cpu"
	"github.com/n64core/n64/internal/gamedb"
	"github.com/n64core/n64/internal/jit"
	"github.com/n64core/n64/internal/mem"
	"github.com/n64core/n64/internal/mi"
	"github.com/n64core/n64/internal/n64log"
	"github.com/n64core/n64/internal/pi"
	"github.com/n64core/n64/internal/pif"
	"github.com/n64core/n64/internal/rdp"
	"github.com/n64core/n64/internal/rom"
	"github.com/n64core/n64/internal/rsp"
	"github.com/n64core/n64/internal/si"
	"github.com/n64core/n64/internal/video"
)

// sramSize is the largest cart save-hardware footprint; the actual per-game
// save file is autosized from the database entry at load time.
const sramSize = 128 * 1024

// SwapHook is invoked at v-sync: the renderer reads the framebuffer at
// VI.Origin() from RDRAM during the call.
type SwapHook func(s *System)

// SaveBackend receives the persistence hooks: PersistBackup on each
// frame's trailing step, ForcePersist on reset and shutdown. The file
// encoding behind it lives outside the core.
type SaveBackend interface {
	PersistBackup(sram []byte)
	ForcePersist(sram []byte)
}

// System is the aggregate every component hangs off. Sub-components borrow
// from it in non-overlapping ways: the CPU and RSP never alias the same
// field inside one scheduler slice.
type System struct {
	Config config.Config

	RDRAM *mem.RDRAM
	SRAM  *mem.RDRAM
	CPU   *cpu.CPU
	RSP   *rsp.RSP
	MI    *mi.Controller
	VI    *video.VI
	AI    *ai.AI
	PI    *pi.PI
	SI    *si.SI
	DPC   *rdp.DPC
	PIF   *pif.PIF
	Bus   *bus.Bus

	Cart  *rom.ROM
	DB    *gamedb.DB
	Game  gamedb.Entry

	// Code is nil unless the dynarec was enabled; the interpreter honors its
	// lifecycle contract (reset invalidation) either way.
	Code *jit.CodeCache

	OnSwap SwapHook
	Save   SaveBackend

	// OnFrameDebug, if set, runs after the final scanline of every frame,
	// before save persistence.
	OnFrameDebug func(s *System)

	// ShouldQuit is polled at the top of each outer frame iteration; the
	// loop exits after the current frame.
	ShouldQuit bool

	Metrics Metrics

	// Scheduler carry state; signed so short/long line budgets accumulate
	// without drift.
	cycleCarry int64
	rspBudget  int64
}

// Metrics is the per-frame instrumentation reset at each frame boundary.
type Metrics struct {
	Frames       uint64
	CPUCycles    uint64
	RSPSteps     uint64
	FrameCycles  uint64
	FrameRSPRuns uint64
}

// New builds and wires the full system. The MI OnChange hook is the single
// path by which interrupt state reaches cp0.cause.ip2, so the two can never
// disagree.
func New(cfg config.Config) *System {
	s := &System{Config: cfg}

	s.RDRAM = mem.NewRDRAM(cfg.RDRAMSize)
	s.SRAM = mem.NewRDRAM(sramSize)
	s.MI = mi.NewController()
	s.RSP = rsp.New(s.RDRAM, s.MI.Bind(mi.SP))
	s.VI = video.New(s.MI.Bind(mi.VI))
	s.AI = ai.New(s.MI.Bind(mi.AI))
	s.PIF = pif.New()
	s.DPC = rdp.New(s.MI.Bind(mi.DP))
	s.PI = pi.New(s.RDRAM, nil, s.SRAM, s.MI.Bind(mi.PI))
	s.SI = si.New(s.RDRAM, s.PIF, s.MI.Bind(mi.SI))

	s.Bus = &bus.Bus{
		RDRAM: s.RDRAM,
		SRAM:  s.SRAM,
		RSP:   s.RSP,
		DPC:   s.DPC,
		MI:    s.MI,
		VI:    s.VI,
		AI:    s.AI,
		PI:    s.PI,
		SI:    s.SI,
		PIF:   s.PIF,
	}
	s.CPU = cpu.New(s.Bus)

	s.MI.OnChange = func(pending bool) {
		s.CPU.CP0.SetIP2(pending)
		s.CPU.CheckInterrupts()
	}

	s.PIF.LoadROM(cfg.PIFROMPath)

	return s
}

// EnableDynarec reserves the JIT code cache and hooks its page
// invalidation into the bus write path. The interpreter remains the
// stepping engine; the cache exists so a code generator can be slotted in
// behind the identical step contract.
func (s *System) EnableDynarec() error {
	code, err := jit.NewCodeCache()
	if err != nil {
		return err
	}
	s.Code = code
	s.Bus.Code = code
	return nil
}

// Reset reinitializes every component to its power-on state: memories
// zeroed, RSP halted with a cold icache, CP0 at its post-reset register
// values, dynarec pages invalidated, save data forced out to disk first.
func (s *System) Reset() {
	if s.Save != nil {
		s.Save.ForcePersist(s.SRAM.Data)
	}
	s.RDRAM.Clear()
	s.SRAM.Clear()
	s.CPU.Reset()
	s.RSP.Reset()
	s.MI.Reset()
	s.VI.Reset()
	s.AI.Reset()
	s.PI.Reset()
	s.SI.Reset()
	s.DPC.Reset()
	s.PIF.Reset()
	if s.Code != nil {
		s.Code.InvalidateAll()
	}
	s.cycleCarry, s.rspBudget = 0, 0
	s.Metrics = Metrics{}

	if s.Cart != nil {
		s.boot()
	}
}

// LoadROM loads and byte-order-normalizes the cart image, matches it against
// the game database, sizes the save file, and resets into it.
func (s *System) LoadROM(path string) error {
	cart, err := rom.Load(path)
	if err != nil {
		return err
	}
	s.Cart = cart
	s.Bus.Cart = cart
	s.PI.SetCart(cart)

	if s.DB == nil {
		s.DB, err = gamedb.Load(s.Config.GameDBPath)
		if err != nil {
			return err
		}
	}
	entry, known := s.DB.Lookup(cart.Header.CRC1, cart.Header.CRC2)
	s.Game = entry
	if known {
		n64log.Infof("loaded %q (db: %q, save: %s)", cart.Header.Title, entry.Title, entry.SaveType)
	} else {
		n64log.Infof("loaded %q (not in game database)", cart.Header.Title)
	}

	if s.Save == nil {
		s.Save = newFileBackend(s.Config.SaveDir, cart.Header, entry.SaveType)
	}

	s.Reset()
	return nil
}

// boot brings the machine to the state games expect at their entry point.
// With a PIF ROM present the real boot code runs from 0x1FC00000; without
// one, synthesize the post-IPL state directly.
func (s *System) boot() {
	if s.PIF.HasROM() {
		s.CPU.PC = 0xFFFFFFFFBFC00000
		return
	}

	// IPL2 leaves the first 4 KiB of ROM (header + IPL3) in SP DMEM and
	// jumps to DMEM+0x40 through KSEG1.
	for i := uint32(0); i < 0x1000; i++ {
		s.RSP.DMEM.WriteByte(i, s.Cart.ReadByte(i))
	}

	s.CPU.PC = 0xFFFFFFFFA4000040
	s.CPU.GPR[11] = 0xFFFFFFFFA4000040
	s.CPU.GPR[20] = 0x1
	s.CPU.GPR[22] = 0x3F // CIC-NUS-6102 seed
	s.CPU.GPR[29] = 0xFFFFFFFFA4001FF0

	s.CPU.CP0.Write(12, 0, 0x34000000) // status: CU0|CU1|FR
	s.CPU.CP0.Write(16, 0, 0x0006E463) // config
}

// Shutdown forces a final save-data persist and releases the code cache.
func (s *System) Shutdown() {
	if s.Save != nil {
		s.Save.ForcePersist(s.SRAM.Data)
	}
	if s.Code != nil {
		if err := s.Code.Close(); err != nil {
			n64log.Warnf("releasing code cache: %v", err)
		}
	}
}

// DumpRDRAM writes main memory to path, byte-swapped to little-endian
// word order when bigEndian is false.
func (s *System) DumpRDRAM(path string, bigEndian bool) error {
	data := s.RDRAM.Data
	if !bigEndian {
		swapped := make([]byte, len(data))
		for i := 0; i+3 < len(data); i += 4 {
			swapped[i] = data[i+3]
			swapped[i+1] = data[i+2]
			swapped[i+2] = data[i+1]
			swapped[i+3] = data[i]
		}
		data = swapped
	}
	return os.WriteFile(path, data, 0o644)
}

// fileBackend is the default SaveBackend: raw save bytes under the
// config's save directory, named for the ROM title and autosized from the
// database entry.
type fileBackend struct {
	path string
	size int
	last []byte
}

func newFileBackend(dir string, hdr rom.Header, saveType gamedb.SaveType) SaveBackend {
	if saveType == gamedb.SaveNone {
		return nopBackend{}
	}
	name := hdr.Title
	if name == "" {
		name = "unknown"
	}
	return &fileBackend{
		path: filepath.Join(dir, name+".sav"),
		size: saveType.SizeBytes(),
	}
}

func (f *fileBackend) PersistBackup(sram []byte) {
	data := sram
	if f.size > 0 && f.size < len(data) {
		data = data[:f.size]
	}
	if f.last != nil && string(f.last) == string(data) {
		return
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		n64log.Warnf("creating save dir: %v", err)
		return
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		n64log.Warnf("writing save file %s: %v", f.path, err)
		return
	}
	f.last = append(f.last[:0], data...)
}

func (f *fileBackend) ForcePersist(sram []byte) {
	f.last = nil
	f.PersistBackup(sram)
}

type nopBackend struct{}

func (nopBackend) PersistBackup([]byte) {}
func (nopBackend) ForcePersist([]byte)  {}
