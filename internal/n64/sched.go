package n64

import "github.com/n64core/n64/internal/n64log"

// NTSC frame geometry. A frame is 262 scanlines: the blanking region runs
// on short line budgets and the visible region on long ones, summing to
// the VR4300's per-frame cycle count. The constants deliberately overshoot
// CPUCyclesPerFrame by two cycles rather than drifting under it; the
// signed carry absorbs the difference.
const (
	cpuHertz          = 93750000
	framesPerSecond   = 60
	CPUCyclesPerFrame = cpuHertz / framesPerSecond

	NumShortlines   = 22
	NumLonglines    = 240
	ShortlineCycles = 2841
	LonglineCycles  = 6250

	totalLines = NumShortlines + NumLonglines
)

// RSP ratio: for every 3 CPU cycles the RSP takes 2 steps. The running
// remainder lives in s.rspBudget so the ratio holds across line and frame
// boundaries.
const (
	rspStepsPerTriple = 2
	cpuCyclesPerTriple = 3
)

// Run drives frames until ShouldQuit is set, then forces a final persist.
func (s *System) Run() {
	for !s.ShouldQuit {
		s.RunFrame()
	}
	if s.Save != nil {
		s.Save.ForcePersist(s.SRAM.Data)
	}
}

// RunFrame executes one full frame of scanlines, then the trailing
// bookkeeping: debugger tick, save persist, per-frame metric reset.
func (s *System) RunFrame() {
	for line := uint32(0); line < totalLines; line++ {
		budget := int64(LonglineCycles)
		if line < NumShortlines {
			budget = ShortlineCycles
		}
		s.runLine(line, budget)
	}

	if s.OnFrameDebug != nil {
		s.OnFrameDebug(s)
	}
	if s.Save != nil {
		s.Save.PersistBackup(s.SRAM.Data)
	}

	s.Metrics.Frames++
	s.Metrics.FrameCycles = 0
	s.Metrics.FrameRSPRuns = 0
}

// runLine is one scheduler slice: publish the line to the VI comparator,
// fire the swap hook at v-sync, burn the CPU budget, then pay out RSP steps
// and AI cycles against it.
func (s *System) runLine(line uint32, budget int64) {
	s.VI.SetVCurrent(line)

	if line == s.swapLine() {
		if s.OnSwap != nil {
			s.OnSwap(s)
		}
	}

	cycles := s.cycleCarry
	var lineCycles int64
	for cycles < budget {
		c := int64(s.CPU.Step())
		cycles += c
		lineCycles += c
	}
	s.cycleCarry = cycles - budget
	s.Metrics.CPUCycles += uint64(lineCycles)
	s.Metrics.FrameCycles += uint64(lineCycles)

	s.stepRSP(lineCycles)

	s.AI.Step(budget)
}

// swapLine is the v_current value at which the screen-swap hook fires:
// vsync/2 once the game has programmed the VI, or mid-frame before then so
// headless runs still get frame pacing.
func (s *System) swapLine() uint32 {
	if h := s.VI.NumHalflines; h > 0 && h < totalLines {
		return h
	}
	return totalLines / 2
}

// stepRSP pays the RSP its 2-steps-per-3-CPU-cycles allowance. While
// halted the budget does not accumulate, so un-halting never releases a
// burst of stale steps.
func (s *System) stepRSP(cpuCycles int64) {
	if s.RSP.Halted() {
		s.rspBudget = 0
		return
	}
	s.rspBudget += cpuCycles * rspStepsPerTriple
	steps := s.rspBudget / cpuCyclesPerTriple
	s.rspBudget %= cpuCyclesPerTriple
	for i := int64(0); i < steps; i++ {
		if s.RSP.Halted() {
			s.rspBudget = 0
			return
		}
		s.RSP.Step()
		s.Metrics.RSPSteps++
		s.Metrics.FrameRSPRuns++
	}
}

// TestMaxSteps bounds the headless test harness.
const TestMaxSteps = 10_000_000

// RunTest drives the loaded ROM in headless mode until it reports a result
// in GPR 30: all-ones means pass, any positive value is the failing test
// number. Returns pass=false with steps == TestMaxSteps on timeout.
func (s *System) RunTest() (pass bool, steps int) {
	for steps = 0; steps < TestMaxSteps; steps++ {
		cycles := int64(s.CPU.Step())
		s.stepRSP(cycles)

		switch r30 := s.CPU.GPR[30]; {
		case r30 == ^uint64(0):
			n64log.Infof("test ROM reports pass after %d steps", steps)
			return true, steps
		case r30 != 0 && int64(r30) > 0:
			n64log.Warnf("test ROM reports failure 0x%X after %d steps", r30, steps)
			return false, steps
		}
	}
	n64log.Warnf("test ROM did not report a result within %d steps", TestMaxSteps)
	return false, steps
}
