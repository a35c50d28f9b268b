package arm

import "math/bits"

// rotr rotates x right by n bits.
func rotr(x uint32, n uint32) uint32 {
	return bits.RotateLeft32(x, -int(n&31))
}

// SignExtend interprets the low width bits of x as a two's complement value.
func SignExtend(x uint32, width uint) int32 {
	shift := 32 - width
	return int32(x<<shift) >> shift
}

// ARMExpandImm expands the 12-bit rotated immediate of an ARM data-processing
// instruction: the low byte rotated right by twice the top nibble.
func ARMExpandImm(imm12 uint32) uint32 {
	return rotr(imm12&0xff, (imm12>>7)&0x1e)
}

// ThumbExpandImm expands the 12-bit modified immediate of a Thumb2
// data-processing instruction.
func ThumbExpandImm(imm12 uint32) uint32 {
	if imm12&0xc00 == 0 {
		x := imm12 & 0xff
		switch (imm12 >> 8) & 3 {
		case 0:
			return x
		case 1:
			return x<<16 | x
		case 2:
			return x<<24 | x<<8
		default:
			return x<<24 | x<<16 | x<<8 | x
		}
	}
	return rotr(0x80|imm12&0x7f, (imm12>>7)&0x1f)
}

// bit returns bit n of w as 0 or 1.
func bit(w uint32, n uint) uint32 {
	return (w >> n) & 1
}
