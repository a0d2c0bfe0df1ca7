package jit

import "testing"

func TestCacheLifecycle(t *testing.T) {
	c, err := NewCodeCache()
	if err != nil {
		t.Skipf("cannot reserve RWX region on this host: %v", err)
	}
	defer c.Close()

	if len(c.Region()) != CacheSize {
		t.Errorf("region = %d bytes, want %d", len(c.Region()), CacheSize)
	}

	c.MarkTranslated(0x1234)
	if !c.HasTranslation(0x1000) {
		t.Error("page containing 0x1234 not marked")
	}
	c.Invalidate(0x1FFF)
	if c.HasTranslation(0x1234) {
		t.Error("write into page did not invalidate its translation")
	}

	c.MarkTranslated(0x4000)
	c.MarkTranslated(0x8000)
	c.InvalidateAll()
	if c.HasTranslation(0x4000) || c.HasTranslation(0x8000) {
		t.Error("InvalidateAll left valid pages")
	}
}
