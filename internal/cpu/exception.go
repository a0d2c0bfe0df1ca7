package cpu

import (
	"errors"

	"github.com/n64core/n64/internal/n64err"
	"github.com/n64core/n64/internal/n64log"
)

// errInterrupt is the sentinel raiseException uses for timer/MI interrupts,
// which carry cause.ExcCode 0 (Int) but never originate from n64err.Kind
// since they aren't raised by a bus or decode operation.
var errInterrupt = errors.New("interrupt")

const (
	generalVectorKSEG0  = 0x80000180
	generalVectorBEV    = 0xBFC00380
	tlbRefillVectorKSEG0 = 0x80000000
	tlbRefillVectorBEV   = 0xBFC00200
)

// raiseException is the VR4300 exception entry sequence: record EPC and
// cause.BD, set the exception code, force status.EXL, and redirect the PC
// to the general or TLB-refill vector depending on status.BEV.
func (c *CPU) raiseException(err error, pc uint64, inDelaySlot bool) {
	code, isTLBRefill := c.excCode(err)

	if inDelaySlot {
		c.CP0.cause |= causeBD
		c.CP0.epc = pc - 4
	} else {
		c.CP0.cause &^= causeBD
		c.CP0.epc = pc
	}

	c.CP0.cause = (c.CP0.cause &^ (causeExcMask << causeExcShift)) | (code << causeExcShift)

	n64log.Debugf("exception %v at pc 0x%016X (delay slot=%v) -> code %d", err, pc, inDelaySlot, code)

	if !c.CP0.StatusEXL() {
		c.CP0.SetEXL(true)
	}

	vector := uint64(generalVectorKSEG0)
	switch {
	case isTLBRefill && c.CP0.StatusBEV():
		vector = tlbRefillVectorBEV
	case isTLBRefill && !c.CP0.StatusBEV():
		vector = tlbRefillVectorKSEG0
	case !isTLBRefill && c.CP0.StatusBEV():
		vector = generalVectorBEV
	}

	c.state = branchNone
	c.PC = vector
}

func (c *CPU) excCode(err error) (code uint32, isTLBRefill bool) {
	if errors.Is(err, errInterrupt) {
		return n64err.ExcInt, false
	}
	var e *n64err.Error
	if errors.As(err, &e) {
		switch int(e.Kind) {
		case syscallKind:
			return n64err.ExcSys, false
		case breakpointKind:
			return n64err.ExcBp, false
		}
		mipsCode, ok := e.Kind.MipsExcCode()
		if ok {
			return mipsCode, e.Kind == n64err.TLBMiss
		}
	}
	return n64err.ExcRI, false
}

// ERET returns from exception: restores PC from EPC (or ErrorEPC if ERL was
// set), clears EXL, and clears the LL bit.
func (c *CPU) ERET() {
	if c.CP0.StatusERL() {
		c.PC = c.CP0.errorEPC
		c.CP0.status &^= statusERL
	} else {
		c.PC = c.CP0.epc
		c.CP0.SetEXL(false)
	}
	c.llBit = false
	c.state = branchNone
}
