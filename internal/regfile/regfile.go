// Package regfile implements the hart's 32 signed 32-bit integer registers,
// with x0 hard-wired to zero.
package regfile

import (
	"fmt"
	"strings"
)

// NumRegs is the number of architectural integer registers.
const NumRegs = 32

// ResetValue is the sentinel written into x1..x31 on Reset, used by tests
// to detect reads of uninitialized registers. Its bit pattern is 0xf0f0f0f0.
const ResetValue int32 = -0x0f0f0f10

// RegisterFile holds x0..x31. The zero value is not ready for use; call
// New or Reset first.
type RegisterFile struct {
	reg [NumRegs]int32
}

// New returns a RegisterFile in its reset state.
func New() *RegisterFile {
	r := &RegisterFile{}
	r.Reset()
	return r
}

// Get returns the value of register r, or 0 if r is x0.
func (r *RegisterFile) Get(reg uint32) int32 {
	if reg == 0 {
		return 0
	}
	return r.reg[reg]
}

// Set assigns register r to val; writes to x0 are silently discarded.
func (r *RegisterFile) Set(reg uint32, val int32) {
	if reg == 0 {
		return
	}
	r.reg[reg] = val
}

// Reset sets x0 to 0 and x1..x31 to ResetValue.
func (r *RegisterFile) Reset() {
	r.reg[0] = 0
	for i := 1; i < NumRegs; i++ {
		r.reg[i] = int32(ResetValue)
	}
}

// Dump renders the 32 registers as 4 lines of 8, each prefixed with hdr and
// a right-aligned x<n> label for the first register on the line.
func (r *RegisterFile) Dump(hdr string) string {
	var sb strings.Builder
	for i := 0; i < NumRegs; i++ {
		if i%8 == 0 {
			fmt.Fprintf(&sb, "%s%3s", hdr, fmt.Sprintf("x%d", i))
		}
		fmt.Fprintf(&sb, " %08x", uint32(r.reg[i]))
		if (i+1)%4 == 0 && (i+1)%8 != 0 {
			sb.WriteByte(' ')
		}
		if (i+1)%8 == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
