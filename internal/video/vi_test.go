package video

import "testing"

type fakeLine struct {
	raised  int
	lowered int
}

func (f *fakeLine) Raise() { f.raised++ }
func (f *fakeLine) Lower() { f.lowered++ }

// TestVIInterruptScenario: programming V_INTR to 0x200 and driving
// v_current through 0x200 raises the interrupt exactly once per matching
// halfline; any write to V_CURRENT lowers it.
func TestVIInterruptScenario(t *testing.T) {
	line := &fakeLine{}
	v := New(line)
	v.WriteWord(RegVIntr, 0x200)

	for l := uint32(0x1F0); l <= 0x210; l++ {
		v.SetVCurrent(l)
	}
	// The 0x3FE comparator matches both 0x200 and 0x201.
	if line.raised != 2 {
		t.Errorf("VI interrupt raised %d times sweeping one halfline pair, want 2", line.raised)
	}

	line.raised = 0
	v.SetVCurrent(0x200)
	if line.raised != 1 {
		t.Fatalf("VI interrupt raised %d times at the programmed line, want 1", line.raised)
	}
	v.WriteWord(RegVCurrent, 12345)
	if line.lowered != 1 {
		t.Errorf("write to V_CURRENT lowered %d times, want 1", line.lowered)
	}
}

// TestSerrateControlsNumFields: the serrate bit selects interlaced
// scanout.
func TestSerrateControlsNumFields(t *testing.T) {
	v := New(&fakeLine{})
	v.WriteWord(RegStatus, 1<<6)
	if v.NumFields != 2 {
		t.Errorf("NumFields = %d with serrate set, want 2", v.NumFields)
	}
	v.WriteWord(RegStatus, 0)
	if v.NumFields != 1 {
		t.Errorf("NumFields = %d with serrate clear, want 1", v.NumFields)
	}
}

func TestOriginMaskAndSwapCounter(t *testing.T) {
	v := New(&fakeLine{})
	v.WriteWord(RegOrigin, 0xFF123456)
	if v.Origin() != 0x123456 {
		t.Errorf("origin = 0x%X, want 24-bit masked 0x123456", v.Origin())
	}
	if v.Swaps != 1 {
		t.Errorf("swaps = %d after first origin change, want 1", v.Swaps)
	}
	v.WriteWord(RegOrigin, 0x123456) // unchanged value
	if v.Swaps != 1 {
		t.Errorf("swaps = %d after same-value write, want 1", v.Swaps)
	}
	v.WriteWord(RegOrigin, 0x200000)
	if v.Swaps != 2 {
		t.Errorf("swaps = %d after second change, want 2", v.Swaps)
	}
}

func TestVSyncDerivesHalflineTiming(t *testing.T) {
	v := New(&fakeLine{})
	v.WriteWord(RegVSync, 0x20D) // NTSC 525 halflines
	if v.NumHalflines != 0x106 {
		t.Errorf("NumHalflines = 0x%X, want 0x106", v.NumHalflines)
	}
	if v.CyclesPerHalfline == 0 {
		t.Error("CyclesPerHalfline not derived")
	}
}

func TestRegistersReadLatestWritten(t *testing.T) {
	v := New(&fakeLine{})
	v.WriteWord(RegWidth, 0x140)
	if got := v.ReadWord(RegWidth); got != 0x140 {
		t.Errorf("width readback = 0x%X, want 0x140", got)
	}
	v.WriteWord(RegXScale, 0x3FF)
	if got := v.ReadWord(RegXScale); got != 0x3FF {
		t.Errorf("xscale readback = 0x%X, want 0x3FF", got)
	}
}
