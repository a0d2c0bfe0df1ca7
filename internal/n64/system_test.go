package n64

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/n64core/n64/internal/config"
	"github.com/n64core/n64/internal/mi"
)

func newTestSystem() *System {
	cfg := config.Default()
	cfg.RDRAMSize = 1 << 20
	return New(cfg)
}

// loadLoop parks the CPU in a two-instruction spin at KSEG0 base.
func loadLoop(s *System) {
	s.RDRAM.WriteWord(0, 0x08000000) // j 0x0
	s.RDRAM.WriteWord(4, 0x00000000) // nop
	s.CPU.PC = 0xFFFFFFFF80000000
	s.CPU.CP0.Write(12, 0, 0) // clear BEV/IE so nothing vectors away
}

// TestSchedulerRatio: over one frame, RSP steps taken approximate
// (2/3) x CPU cycles executed, within one step.
func TestSchedulerRatio(t *testing.T) {
	s := newTestSystem()
	loadLoop(s)

	// Spin the RSP too: j 0; nop.
	s.RSP.WriteIMEMWord(0, 0x08000000)
	s.RSP.WriteIMEMWord(4, 0x00000000)
	s.Bus.WriteWord(0x04040010, 1) // clear halt through the bus

	s.RunFrame()

	cpuCycles := int64(s.Metrics.CPUCycles)
	rspSteps := int64(s.Metrics.RSPSteps)
	want := cpuCycles * 2 / 3
	diff := rspSteps - want
	if diff < -1 || diff > 1 {
		t.Errorf("RSP steps = %d, want (2/3)x%d = %d +/-1", rspSteps, cpuCycles, want)
	}
}

func TestSchedulerSkipsRSPWhileHalted(t *testing.T) {
	s := newTestSystem()
	loadLoop(s)
	s.RunFrame()
	if s.Metrics.RSPSteps != 0 {
		t.Errorf("halted RSP stepped %d times", s.Metrics.RSPSteps)
	}
}

// TestInterruptWiring drives the full MI -> CP0 path: cause.ip2 tracks
// (intr & intr_mask) != 0 after every transition.
func TestInterruptWiring(t *testing.T) {
	s := newTestSystem()
	ip2 := func() bool { return uint32(s.CPU.CP0.Read(13, 0))&(1<<10) != 0 }

	s.MI.Raise(mi.VI)
	if ip2() {
		t.Error("ip2 set with VI masked")
	}
	s.MI.WriteMask(1 << (2*uint(mi.VI) + 1))
	if !ip2() {
		t.Error("ip2 clear with VI raised and enabled")
	}
	s.MI.Lower(mi.VI)
	if ip2() {
		t.Error("ip2 still set after lower")
	}
}

// TestVIInterruptReachesCPU drives the full chain: VI comparator -> MI ->
// cause.ip2 -> interrupt exception in the running CPU.
func TestVIInterruptReachesCPU(t *testing.T) {
	s := newTestSystem()
	loadLoop(s)
	s.CPU.CP0.Write(12, 0, 0x0401) // IE | IM2
	s.MI.WriteMask(1 << (2*uint(mi.VI) + 1))
	s.VI.WriteWord(0x0C, 0x40) // v_intr = line 0x40

	s.RunFrame()

	if !s.CPU.CP0.StatusEXL() {
		t.Fatal("VI interrupt never reached the CPU")
	}
	if code := (uint32(s.CPU.CP0.Read(13, 0)) >> 2) & 0x1F; code != 0 {
		t.Errorf("cause.ExcCode = %d, want 0 (Interrupt)", code)
	}
}

func TestSwapHookFiresOncePerFrame(t *testing.T) {
	s := newTestSystem()
	loadLoop(s)
	swaps := 0
	s.OnSwap = func(*System) { swaps++ }
	s.RunFrame()
	s.RunFrame()
	if swaps != 2 {
		t.Errorf("swap hook fired %d times over 2 frames, want 2", swaps)
	}
}

// makeTestROM assembles a little cart image whose boot stub is the given
// instruction words. Boot synthesis copies ROM[0:0x1000] into DMEM and enters at
// DMEM+0x40 via KSEG1, so the program lives at ROM offset 0x40.
func makeTestROM(t *testing.T, words ...uint32) string {
	t.Helper()
	data := make([]byte, 0x1000)
	put := func(off int, v uint32) {
		data[off] = byte(v >> 24)
		data[off+1] = byte(v >> 16)
		data[off+2] = byte(v >> 8)
		data[off+3] = byte(v)
	}
	put(0x00, 0x80371240)
	put(0x08, 0x80001000)
	copy(data[0x20:], "RATIO TEST")
	for i, w := range words {
		put(0x40+i*4, w)
	}
	path := filepath.Join(t.TempDir(), "test.z64")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestRunTestScenarioA: a ROM that sets GPR 30 to -1 passes within the
// step bound.
func TestRunTestScenarioA(t *testing.T) {
	s := newTestSystem()
	path := makeTestROM(t,
		0x2401FFFF, // addiu $1, $0, -1
		0x0001F02D, // daddu $30, $0, $1
		0x1000FFFF, // b -1 (spin)
		0x00000000, // nop
	)
	if err := s.LoadROM(path); err != nil {
		t.Fatal(err)
	}
	pass, steps := s.RunTest()
	if !pass {
		t.Fatalf("test ROM did not pass (GPR30 = 0x%X after %d steps)", s.CPU.GPR[30], steps)
	}
	if s.CPU.GPR[30] != ^uint64(0) {
		t.Errorf("GPR30 = 0x%X, want all-ones", s.CPU.GPR[30])
	}
}

func TestRunTestReportsFailure(t *testing.T) {
	s := newTestSystem()
	path := makeTestROM(t,
		0x241E0005, // addiu $30, $0, 5 (failing test number)
		0x1000FFFF, // b -1 (spin)
		0x00000000, // nop
	)
	if err := s.LoadROM(path); err != nil {
		t.Fatal(err)
	}
	pass, _ := s.RunTest()
	if pass {
		t.Error("failing test ROM reported pass")
	}
	if s.CPU.GPR[30] != 5 {
		t.Errorf("GPR30 = %d, want 5", s.CPU.GPR[30])
	}
}

func TestBootSynthesisCopiesIPL(t *testing.T) {
	s := newTestSystem()
	path := makeTestROM(t, 0x241E0001)
	if err := s.LoadROM(path); err != nil {
		t.Fatal(err)
	}
	if s.CPU.PC != 0xFFFFFFFFA4000040 {
		t.Errorf("boot PC = 0x%016X, want 0xFFFFFFFFA4000040", s.CPU.PC)
	}
	if got := s.RSP.DMEM.ReadWord(0x40); got != 0x241E0001 {
		t.Errorf("DMEM[0x40] = 0x%08X, want the ROM's boot word", got)
	}
	if s.CPU.GPR[22] != 0x3F {
		t.Errorf("CIC seed GPR22 = 0x%X, want 0x3F", s.CPU.GPR[22])
	}
}

func TestResetReturnsToBootState(t *testing.T) {
	s := newTestSystem()
	path := makeTestROM(t, 0x241E0001)
	if err := s.LoadROM(path); err != nil {
		t.Fatal(err)
	}
	s.RDRAM.WriteWord(0x100, 0xFFFFFFFF)
	s.MI.Raise(mi.PI)
	s.Reset()
	if got := s.RDRAM.ReadWord(0x100); got != 0 {
		t.Error("RDRAM not cleared by Reset")
	}
	if s.MI.ReadIntr() != 0 {
		t.Error("MI interrupts not cleared by Reset")
	}
	if !s.RSP.Halted() {
		t.Error("RSP not halted by Reset")
	}
	if s.CPU.PC != 0xFFFFFFFFA4000040 {
		t.Errorf("Reset did not re-enter boot: PC = 0x%016X", s.CPU.PC)
	}
}
