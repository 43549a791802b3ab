// Package hexfmt renders unsigned integers as fixed-width zero-padded hex,
// the way every diagnostic, disassembly, and dump line in this simulator
// wants its numbers shown.
package hexfmt

import "fmt"

// Byte renders an 8-bit value as two hex digits, no prefix.
func Byte(v uint8) string {
	return fmt.Sprintf("%02x", v)
}

// Word32 renders a 32-bit value as eight hex digits, no prefix.
func Word32(v uint32) string {
	return fmt.Sprintf("%08x", v)
}

// Word32Prefixed renders a 32-bit value as eight hex digits with a 0x prefix.
func Word32Prefixed(v uint32) string {
	return "0x" + Word32(v)
}

// CSR12 renders the low 12 bits of v as three hex digits with a 0x prefix,
// the width of a CSR number.
func CSR12(v uint32) string {
	return fmt.Sprintf("0x%03x", v&0xfff)
}

// Upper20 renders the low 20 bits of v as five hex digits with a 0x prefix,
// the width of a U-type immediate's upper bits.
func Upper20(v uint32) string {
	return fmt.Sprintf("0x%05x", v&0xfffff)
}
