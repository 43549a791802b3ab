// Package driver implements the run loop that ticks a hart until it halts
// or exhausts an instruction budget, per spec.md §4.5.
package driver

import (
	"fmt"

	"github.com/capatsch/rv32i/internal/hart"
	"github.com/capatsch/rv32i/internal/regfile"
)

// stackPointerReg is x2, the conventional stack pointer; seeded to the top
// of memory before the first tick (spec.md's original source initializes
// sp this way in its run() entry point, a detail the distilled spec leaves
// implicit in its register-file reset but doesn't contradict).
const stackPointerReg = 2

// SeedStackPointer sets x2 to the top of memory. Callers run this once,
// before the first Tick, to match the reference simulator's startup
// behavior.
func SeedStackPointer(regs *regfile.RegisterFile, memSize uint32) {
	regs.Set(stackPointerReg, int32(memSize))
}

// Result reports how a Run terminated.
type Result struct {
	Halted     bool
	HaltReason string
	InsnCount  uint64
	ExecLimit  uint64
}

// Run seeds the stack pointer and ticks h until it halts, or until
// execLimit is reached if execLimit is nonzero. hdr is forwarded to every
// Tick call as the trace-line prefix.
func Run(h *hart.Hart, execLimit uint64, hdr string) Result {
	SeedStackPointer(h.Regs, h.Mem.Size())
	for !h.Halted {
		if execLimit != 0 && h.InsnCounter >= execLimit {
			break
		}
		h.Tick(hdr)
	}
	return Result{
		Halted:     h.Halted,
		HaltReason: h.HaltReason,
		InsnCount:  h.InsnCounter,
		ExecLimit:  execLimit,
	}
}

// Report renders a Result as the two lines the CLI prints after a run:
// the termination reason (only if halted) and the instruction count.
func (r Result) Report() string {
	s := ""
	if r.Halted {
		s += fmt.Sprintf("Execution terminated. Reason: %s\n", r.HaltReason)
	}
	s += fmt.Sprintf("Instructions executed: %d\n", r.InsnCount)
	return s
}
