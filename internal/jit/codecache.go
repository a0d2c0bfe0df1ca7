// Package jit reserves and manages the dynarec code cache: a single
// 128 MiB page-aligned RWX mapping allocated once at startup, with
// per-RDRAM-page invalidation for the reset path and for writes into
// translated regions. The interpreter never emits code here; this package
// honors the lifecycle contract so a code generator can slot in behind the
// same Step contract without changing reset semantics.
package jit

import (
	"golang.org/x/sys/unix"

	"github.com/n64core/n64/internal/n64log"
)

const (
	// CacheSize is the fixed code-region reservation.
	CacheSize = 128 * 1024 * 1024

	// PageSize is the translation granularity: one dirty bit per 4 KiB of
	// RDRAM, matching the dynarec page table in the original dynarec.c.
	PageSize = 4096
)

// CodeCache owns the RWX region and the per-page validity table.
type CodeCache struct {
	region []byte
	used   int

	valid map[uint32]bool // RDRAM page index -> has translated code
}

// NewCodeCache maps the region. Mapping failure is host-fatal: a core
// configured for JIT that cannot reserve its cache cannot run.
func NewCodeCache() (*CodeCache, error) {
	region, err := unix.Mmap(-1, 0, CacheSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	// Pages become executable up front; no instruction-cache flush is
	// performed here or after a fill.
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(region)
		return nil, err
	}
	n64log.Infof("JIT code cache reserved: %d MiB RWX", CacheSize/1024/1024)
	return &CodeCache{region: region, valid: make(map[uint32]bool)}, nil
}

// Invalidate drops any translated code for the RDRAM page containing paddr,
// called on every write into a page that holds translations.
func (c *CodeCache) Invalidate(paddr uint32) {
	page := paddr / PageSize
	if c.valid[page] {
		delete(c.valid, page)
		n64log.Tracef("JIT page 0x%05X invalidated", page)
	}
}

// InvalidateAll drops every translation, called from the system reset
// routine.
func (c *CodeCache) InvalidateAll() {
	c.valid = make(map[uint32]bool)
	c.used = 0
}

// MarkTranslated records that the RDRAM page containing paddr now has code
// in the cache, so later writes to it invalidate.
func (c *CodeCache) MarkTranslated(paddr uint32) {
	c.valid[paddr/PageSize] = true
}

// HasTranslation reports whether paddr's page currently holds valid code.
func (c *CodeCache) HasTranslation(paddr uint32) bool {
	return c.valid[paddr/PageSize]
}

// Region exposes the raw mapping for a code generator to fill.
func (c *CodeCache) Region() []byte { return c.region }

// Close unmaps the region.
func (c *CodeCache) Close() error {
	if c.region == nil {
		return nil
	}
	err := unix.Munmap(c.region)
	c.region = nil
	return err
}
