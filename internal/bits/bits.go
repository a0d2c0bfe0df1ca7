// Package bits provides small bit-manipulation helpers shared by the CPU,
// RSP, and bus packages: sign extension, overflow detection, and a host
// byte-order probe.
package bits

import "encoding/binary"

// SignExtend sign-extends the low bitCount bits of x to the full width of T.
func SignExtend[T uint64 | uint32 | uint16](x T, bitCount int) T {
	if ((x >> (bitCount - 1)) & 1) == 1 {
		x |= ^T(0) << bitCount
	}
	return x
}

// AddOverflow reports whether a + b overflowed when both are interpreted as
// signed integers of width T.
func AddOverflow[T int64 | int32 | int16 | int8](a, b, sum T) bool {
	return ((a > 0) && (b > 0) && (sum < 0)) || ((a < 0) && (b < 0) && (sum > 0))
}

// SubOverflow reports whether a - b overflowed when both are interpreted as
// signed integers of width T.
func SubOverflow[T int64 | int32 | int16 | int8](a, b, diff T) bool {
	return ((a < 0) && (b > 0) && (diff > 0)) || ((a > 0) && (b < 0) && (diff < 0))
}

// HostLittleEndian is true when the host CPU is little-endian. The N64 bus
// is big-endian. The RSP vector-register lane accessors do not consult this
// flag: they build lanes with shifts and masks, so a byte load followed by an
// element read observes big-endian order on any host.
var HostLittleEndian = binary.NativeEndian.Uint16([]byte{0x12, 0x34}) != 0x1234
