package mi

import "testing"

// TestMaskedPendingConsistency: after any raise/lower sequence, the
// derived pending state equals (intr & intr_mask) != 0 and every change is
// pushed through OnChange.
func TestMaskedPendingConsistency(t *testing.T) {
	m := NewController()
	var last bool
	m.OnChange = func(pending bool) { last = pending }

	m.Raise(VI)
	if m.Pending() || last {
		t.Error("pending with empty mask")
	}

	// Enable VI (mask set bit for source i is bit 2i+1).
	m.WriteMask(1 << (2*uint(VI) + 1))
	if !m.Pending() || !last {
		t.Error("VI raised and enabled but not pending")
	}

	m.Lower(VI)
	if m.Pending() || last {
		t.Error("still pending after lower")
	}

	m.Raise(SP)
	m.Raise(DP)
	m.WriteMask(1 << (2*uint(SP) + 1))
	if !m.Pending() || !last {
		t.Error("SP raised and enabled but not pending")
	}
	// Clearing SP's mask bit leaves DP raised but masked.
	m.WriteMask(1 << (2 * uint(SP)))
	if m.Pending() || last {
		t.Error("pending with all raised sources masked")
	}
}

func TestReadRegisters(t *testing.T) {
	m := NewController()
	m.Raise(PI)
	m.WriteMask(1 << (2*uint(PI) + 1))
	if got := m.ReadWord(RegIntr); got != 1<<uint(PI) {
		t.Errorf("MI_INTR = 0x%X, want 0x%X", got, 1<<uint(PI))
	}
	if got := m.ReadWord(RegIntrMask); got != 1<<uint(PI) {
		t.Errorf("MI_INTR_MASK = 0x%X, want 0x%X", got, 1<<uint(PI))
	}
}

func TestModeWriteClearsDPInterrupt(t *testing.T) {
	m := NewController()
	m.Raise(DP)
	m.WriteWord(RegMode, 1<<11)
	if m.ReadIntr()&(1<<uint(DP)) != 0 {
		t.Error("MI_MODE bit 11 did not clear the DP interrupt")
	}
}

func TestSourceBinding(t *testing.T) {
	m := NewController()
	b := m.Bind(AI)
	b.Raise()
	if m.ReadIntr()&(1<<uint(AI)) == 0 {
		t.Error("binding did not raise AI")
	}
	b.Lower()
	if m.ReadIntr() != 0 {
		t.Error("binding did not lower AI")
	}
}
