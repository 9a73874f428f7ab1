package mdhtml

import "unicode/utf8"

// CodeUnit is one validated UTF-8 sequence of 1 to 4 bytes.
type CodeUnit struct {
	b [utf8.UTFMax]byte
	n uint8
}

// replacementUnit is U+FFFD, emitted for malformed input in replacement mode.
var replacementUnit = CodeUnit{b: [utf8.UTFMax]byte{0xEF, 0xBF, 0xBD}, n: 3}

// UnitLen classifies a leading byte and returns the length of the unit it
// starts, or 0 if the byte cannot start a unit.
func UnitLen(first byte) int {
	switch {
	case first&0b1000_0000 == 0b0000_0000:
		return 1
	case first&0b1110_0000 == 0b1100_0000:
		return 2
	case first&0b1111_0000 == 0b1110_0000:
		return 3
	case first&0b1111_1000 == 0b1111_0000:
		return 4
	default:
		return 0
	}
}

// NewCodeUnit copies b into a CodeUnit. It reports false if len(b) does not
// match the length declared by its leading byte.
func NewCodeUnit(b []byte) (CodeUnit, bool) {
	if len(b) == 0 || UnitLen(b[0]) != len(b) {
		return CodeUnit{}, false
	}
	var u CodeUnit
	u.n = uint8(copy(u.b[:], b))
	return u, true
}

// Len returns the unit length in bytes.
func (u CodeUnit) Len() int { return int(u.n) }

// Bytes returns a copy of the unit bytes.
func (u CodeUnit) Bytes() []byte {
	out := make([]byte, u.n)
	copy(out, u.b[:u.n])
	return out
}

// AppendTo appends the unit bytes to dst.
func (u CodeUnit) AppendTo(dst []byte) []byte {
	return append(dst, u.b[:u.n]...)
}

// Is reports whether u is the single-byte unit c.
func (u CodeUnit) Is(c byte) bool {
	return u.n == 1 && u.b[0] == c
}

func (u CodeUnit) String() string {
	return string(u.b[:u.n])
}
