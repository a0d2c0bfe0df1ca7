// Package mips provides the tagged view of a raw MIPS instruction word: a
// single 32-bit value plus accessors that extract each encoding's fields by
// shift/mask, host-endianness independent.
package mips

// Word is one raw 32-bit MIPS/RSP instruction.
type Word uint32

// Primary opcodes.
const (
	OpSpecial = 0x00
	OpRegimm  = 0x01
	OpJ       = 0x02
	OpJAL     = 0x03
	OpBEQ     = 0x04
	OpBNE     = 0x05
	OpBLEZ    = 0x06
	OpBGTZ    = 0x07
	OpADDI    = 0x08
	OpADDIU   = 0x09
	OpSLTI    = 0x0A
	OpSLTIU   = 0x0B
	OpANDI    = 0x0C
	OpORI     = 0x0D
	OpXORI    = 0x0E
	OpLUI     = 0x0F
	OpCOP0    = 0x10
	OpCOP1    = 0x11
	OpCOP2    = 0x12
	OpBEQL    = 0x14
	OpBNEL    = 0x15
	OpBLEZL   = 0x16
	OpBGTZL   = 0x17
	OpDADDI   = 0x18
	OpDADDIU  = 0x19
	OpLDL     = 0x1A
	OpLDR     = 0x1B
	OpLB      = 0x20
	OpLH      = 0x21
	OpLWL     = 0x22
	OpLW      = 0x23
	OpLBU     = 0x24
	OpLHU     = 0x25
	OpLWR     = 0x26
	OpLWU     = 0x27
	OpSB      = 0x28
	OpSH      = 0x29
	OpSWL     = 0x2A
	OpSW      = 0x2B
	OpSDL     = 0x2C
	OpSDR     = 0x2D
	OpSWR     = 0x2E
	OpCACHE   = 0x2F
	OpLL      = 0x30
	OpLWC1    = 0x31
	OpLWC2    = 0x32
	OpLD      = 0x37
	OpSC      = 0x38
	OpSWC1    = 0x39
	OpSWC2    = 0x3A
	OpSD      = 0x3F
)

// SPECIAL (opcode 0) funct codes.
const (
	FunctSLL     = 0x00
	FunctSRL     = 0x02
	FunctSRA     = 0x03
	FunctSLLV    = 0x04
	FunctSRLV    = 0x06
	FunctSRAV    = 0x07
	FunctJR      = 0x08
	FunctJALR    = 0x09
	FunctSYSCALL = 0x0C
	FunctBREAK   = 0x0D
	FunctSYNC    = 0x0F
	FunctMFHI    = 0x10
	FunctMTHI    = 0x11
	FunctMFLO    = 0x12
	FunctMTLO    = 0x13
	FunctDSLLV   = 0x14
	FunctDSRLV   = 0x16
	FunctDSRAV   = 0x17
	FunctMULT    = 0x18
	FunctMULTU   = 0x19
	FunctDIV     = 0x1A
	FunctDIVU    = 0x1B
	FunctDMULT   = 0x1C
	FunctDMULTU  = 0x1D
	FunctDDIV    = 0x1E
	FunctDDIVU   = 0x1F
	FunctADD     = 0x20
	FunctADDU    = 0x21
	FunctSUB     = 0x22
	FunctSUBU    = 0x23
	FunctAND     = 0x24
	FunctOR      = 0x25
	FunctXOR     = 0x26
	FunctNOR     = 0x27
	FunctSLT     = 0x2A
	FunctSLTU    = 0x2B
	FunctDADD    = 0x2C
	FunctDADDU   = 0x2D
	FunctDSUB    = 0x2E
	FunctDSUBU   = 0x2F
	FunctTEQ     = 0x34
	FunctDSLL    = 0x38
	FunctDSRL    = 0x3A
	FunctDSRA    = 0x3B
	FunctDSLL32  = 0x3C
	FunctDSRL32  = 0x3E
	FunctDSRA32  = 0x3F
)

// REGIMM (opcode 1) rt codes.
const (
	RtBLTZ   = 0x00
	RtBGEZ   = 0x01
	RtBLTZL  = 0x02
	RtBGEZL  = 0x03
	RtBLTZAL = 0x10
	RtBGEZAL = 0x11
)

// COPz (rs field of a COP0/COP2 instruction) sub-ops.
const (
	CopMF  = 0x00
	CopDMF = 0x01
	CopMT  = 0x04
	CopDMT = 0x05
	CopCT  = 0x06 // CTC2
	CopCF  = 0x02 // CFC2
	CopCO  = 0x10 // CP0 funct-coded ops (TLB*, ERET) live under rs bit 4 set
)

// COP0 funct codes, valid when instr.Rs() == CopCO.
const (
	Cop0FunctTLBR  = 0x01
	Cop0FunctTLBWI = 0x02
	Cop0FunctTLBWR = 0x06
	Cop0FunctTLBP  = 0x08
	Cop0FunctERET  = 0x18
)

// Op returns the primary 6-bit opcode.
func (w Word) Op() uint32 { return uint32(w>>26) & 0x3F }

// Rs returns the 5-bit rs field (I/R-type) — doubles as the COPz sub-op.
func (w Word) Rs() uint32 { return uint32(w>>21) & 0x1F }

// Rt returns the 5-bit rt field.
func (w Word) Rt() uint32 { return uint32(w>>16) & 0x1F }

// Rd returns the 5-bit rd field (R-type).
func (w Word) Rd() uint32 { return uint32(w>>11) & 0x1F }

// Sa returns the 5-bit shift-amount field (R-type).
func (w Word) Sa() uint32 { return uint32(w>>6) & 0x1F }

// Funct returns the 6-bit function field (R-type / COP0 sub-function).
func (w Word) Funct() uint32 { return uint32(w) & 0x3F }

// Immediate returns the raw 16-bit immediate (I-type), unextended.
func (w Word) Immediate() uint16 { return uint16(w) }

// SignedImmediate returns the 16-bit immediate sign-extended to int32.
func (w Word) SignedImmediate() int32 { return int32(int16(uint16(w))) }

// Target returns the 26-bit jump target field (J-type).
func (w Word) Target() uint32 { return uint32(w) & 0x3FFFFFF }

// Sel returns the 3-bit CP0 register selector, valid for MFC0/MTC0/DMFC0/DMTC0.
func (w Word) Sel() uint32 { return uint32(w) & 0x7 }

// RSP vector-op fields (CP2, opcode COP2 with IsVec set): vt, vs, vd, e.
func (w Word) IsVec() bool  { return (w>>25)&1 != 0 }
func (w Word) Vt() uint32   { return uint32(w>>16) & 0x1F }
func (w Word) Vs() uint32   { return uint32(w>>11) & 0x1F }
func (w Word) Vd() uint32   { return uint32(w>>6) & 0x1F }
func (w Word) E() uint32    { return uint32(w>>21) & 0xF }
func (w Word) VFunct() uint32 { return uint32(w) & 0x3F }

// RSP load/store-vector fields (LWC2/SWC2): base, vt, funct, element, offset.
func (w Word) LSBase() uint32    { return w.Rs() }
func (w Word) LSVt() uint32      { return w.Rt() }
func (w Word) LSFunct() uint32   { return uint32(w>>11) & 0x1F }
func (w Word) LSElement() uint32 { return uint32(w>>7) & 0xF }
func (w Word) LSOffset() int32 {
	raw := uint32(w) & 0x7F
	if raw&0x40 != 0 {
		return int32(raw) - 0x80
	}
	return int32(raw)
}
