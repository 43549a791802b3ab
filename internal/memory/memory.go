// Package memory implements the simulator's flat, byte-addressable,
// little-endian memory: fixed size rounded up to a multiple of 16, bounds
// checked on every access, with a pluggable diagnostic sink for warnings
// instead of the process-wide stderr the original simulator wrote to
// directly (see debugger/tui.go's OutputWriter injection in the teacher
// for the same pattern applied to a different subsystem).
package memory

import (
	"fmt"
	"io"
	"strings"
)

// FillByte is the initial value of every byte in a freshly created Memory.
const FillByte = 0xa5

// BytesPerLine is the width of a Dump() line, fixed by the wire format.
const BytesPerLine = 16

// Memory is a fixed-size byte-addressable little-endian address space.
type Memory struct {
	bytes []byte
	warn  io.Writer
}

// New creates a Memory of at least size bytes, rounded up to the next
// multiple of 16, filled with FillByte. Warnings about out-of-range
// accesses are written to warn; if warn is nil, warnings are discarded.
func New(size uint32, warn io.Writer) *Memory {
	rounded := (size + 15) &^ 15
	buf := make([]byte, rounded)
	for i := range buf {
		buf[i] = FillByte
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Memory{bytes: buf, warn: warn}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

func (m *Memory) inRange(addr uint32) bool {
	return addr < m.Size()
}

func (m *Memory) warnOutOfRange(addr uint32) {
	fmt.Fprintf(m.warn, "WARNING: Address out of range: 0x%08x\n", addr)
}

// Get8 reads one byte, returning 0 and warning if addr is out of range.
func (m *Memory) Get8(addr uint32) uint8 {
	if !m.inRange(addr) {
		m.warnOutOfRange(addr)
		return 0
	}
	return m.bytes[addr]
}

// Get16 reads a little-endian halfword as the concatenation of two Get8
// calls, so a partially out-of-range access warns only for the offending
// byte(s) and reads 0 for those.
func (m *Memory) Get16(addr uint32) uint16 {
	return uint16(m.Get8(addr)) | uint16(m.Get8(addr+1))<<8
}

// Get32 reads a little-endian word as the concatenation of two Get16 calls.
func (m *Memory) Get32(addr uint32) uint32 {
	return uint32(m.Get16(addr)) | uint32(m.Get16(addr+2))<<16
}

// Get8Sx reads a byte and sign-extends it to 32 bits.
func (m *Memory) Get8Sx(addr uint32) int32 {
	v := int32(m.Get8(addr))
	if v&0x80 != 0 {
		v |= ^int32(0xff)
	}
	return v
}

// Get16Sx reads a halfword and sign-extends it to 32 bits.
func (m *Memory) Get16Sx(addr uint32) int32 {
	v := int32(m.Get16(addr))
	if v&0x8000 != 0 {
		v |= ^int32(0xffff)
	}
	return v
}

// Get32Sx reads a word. Kept as a named alias of Get32 (rather than folded
// away) because internal/hart keys every signed load width (lb/lh/lw) to a
// *_sx accessor uniformly; a 32-bit load already
// fills the result so there is nothing left to extend.
func (m *Memory) Get32Sx(addr uint32) int32 {
	return int32(m.Get32(addr))
}

// Set8 writes one byte, warning and discarding the write if addr is out of
// range.
func (m *Memory) Set8(addr uint32, v uint8) {
	if !m.inRange(addr) {
		m.warnOutOfRange(addr)
		return
	}
	m.bytes[addr] = v
}

// Set16 writes a little-endian halfword as two Set8 calls.
func (m *Memory) Set16(addr uint32, v uint16) {
	m.Set8(addr, uint8(v))
	m.Set8(addr+1, uint8(v>>8))
}

// Set32 writes a little-endian word as two Set16 calls.
func (m *Memory) Set32(addr uint32, v uint32) {
	m.Set16(addr, uint16(v))
	m.Set16(addr+2, uint16(v>>16))
}

// LoadImage writes bytes sequentially starting at address 0. If img is
// larger than this Memory it returns false and leaves memory unmodified.
func (m *Memory) LoadImage(img []byte) bool {
	if uint32(len(img)) > m.Size() {
		return false
	}
	copy(m.bytes, img)
	return true
}

// Dump renders the full memory as 16-byte lines: an address prefix, two
// groups of 8 hex bytes separated by an extra space, then a star-delimited
// ASCII rendering with non-printable bytes shown as '.'.
func (m *Memory) Dump() string {
	var sb strings.Builder
	for i := uint32(0); i < m.Size(); i += BytesPerLine {
		fmt.Fprintf(&sb, "%08x: ", i)
		for j := uint32(0); j < BytesPerLine; j++ {
			fmt.Fprintf(&sb, "%02x ", m.bytes[i+j])
			if j == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('*')
		for j := uint32(0); j < BytesPerLine; j++ {
			ch := m.bytes[i+j]
			if !isPrint(ch) {
				ch = '.'
			}
			sb.WriteByte(ch)
		}
		sb.WriteString("*\n")
	}
	return sb.String()
}

func isPrint(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
