// Package hart implements the fetch-decode-execute state machine described
// in spec.md §4.4: a single hardware thread of execution bound to a
// memory, driving exactly one instruction per Tick until an architectural
// halt condition is reached.
package hart

import (
	"fmt"
	"io"

	"github.com/capatsch/rv32i/internal/decode"
	"github.com/capatsch/rv32i/internal/hexfmt"
	"github.com/capatsch/rv32i/internal/memory"
	"github.com/capatsch/rv32i/internal/regfile"
)

// Memory is the subset of *memory.Memory the hart needs; kept as an
// interface so tests can swap in a fake without dragging in the real
// bounds-checking sink.
type Memory interface {
	Get8(addr uint32) uint8
	Get16(addr uint32) uint16
	Get32(addr uint32) uint32
	Get8Sx(addr uint32) int32
	Get16Sx(addr uint32) int32
	Get32Sx(addr uint32) int32
	Set8(addr uint32, v uint8)
	Set16(addr uint32, v uint16)
	Set32(addr uint32, v uint32)
	Size() uint32
}

var _ Memory = (*memory.Memory)(nil)

// Hart is the architectural state of one hardware thread: its register
// file, program counter, instruction counter, halt state, and trace flags.
type Hart struct {
	Regs *regfile.RegisterFile
	Mem  Memory

	PC          uint32
	InsnCounter uint64

	Halted     bool
	HaltReason string

	ShowInstructions bool
	ShowRegisters    bool

	MHartID uint32

	// Out receives trace/dump text when ShowInstructions or
	// ShowRegisters is set. A nil Out discards it.
	Out io.Writer
}

// New constructs a Hart bound to mem, already in its reset state.
func New(mem Memory) *Hart {
	h := &Hart{Mem: mem, Regs: regfile.New()}
	h.Reset()
	return h
}

// Reset reinitializes the dynamic portion of hart state: registers (via
// the register file's reset pattern), PC and instruction counter (to 0),
// and halt status. ShowInstructions/ShowRegisters and
// MHartID are configuration, not dynamic state, and survive a Reset.
func (h *Hart) Reset() {
	h.Regs.Reset()
	h.PC = 0
	h.InsnCounter = 0
	h.Halted = false
	h.HaltReason = "none"
}

func (h *Hart) out() io.Writer {
	if h.Out == nil {
		return io.Discard
	}
	return h.Out
}

// Dump renders the register file followed by the program counter, each
// line prefixed with hdr.
func (h *Hart) Dump(hdr string) string {
	return h.Regs.Dump(hdr) + fmt.Sprintf(" pc %s\n", hexfmt.Word32(h.PC))
}

// Tick advances the hart by exactly one instruction, or is a no-op if the
// hart is already halted. hdr is prefixed to any trace/dump lines emitted,
// letting callers (e.g. a multi-pane debugger) tag output by source.
func (h *Hart) Tick(hdr string) {
	if h.Halted {
		return
	}

	if h.ShowRegisters {
		fmt.Fprint(h.out(), h.Dump(hdr))
	}

	if h.PC%4 != 0 {
		h.Halted = true
		h.HaltReason = "PC alignment error"
		return
	}

	h.InsnCounter++
	insn := h.Mem.Get32(h.PC)

	if h.ShowInstructions {
		fmt.Fprintf(h.out(), "%s%s: %s  ", hdr, hexfmt.Word32(h.PC), hexfmt.Word32(insn))
		h.exec(insn, h.out())
		fmt.Fprintln(h.out())
		return
	}
	h.exec(insn, nil)
}

func (h *Hart) halt(reason string) {
	h.Halted = true
	h.HaltReason = reason
}

func (h *Hart) traceInsn(pos io.Writer, d decode.Decoded, commentary string) {
	if pos == nil {
		return
	}
	s := decode.Format(h.PC, d)
	fmt.Fprintf(pos, "%-35s// %s", s, commentary)
}
