package tui

import (
	"strings"
	"testing"

	"github.com/capatsch/rv32i/internal/hart"
	"github.com/capatsch/rv32i/internal/memory"
)

func newTestTUI(words ...uint32) *TUI {
	mem := memory.New(256, nil)
	for i, w := range words {
		mem.Set32(uint32(i*4), w)
	}
	return New(hart.New(mem), mem)
}

func TestStepAdvancesOneInstruction(t *testing.T) {
	tt := newTestTUI(0x00000013, 0x00000013) // nop, nop
	tt.run("step")

	if tt.Hart.InsnCounter != 1 {
		t.Errorf("InsnCounter = %d, want 1", tt.Hart.InsnCounter)
	}
}

func TestContinueStopsAtBreakpoint(t *testing.T) {
	tt := newTestTUI(
		0x00000013, // nop at 0
		0x00000013, // nop at 4
		0x00000073, // ecall at 8
	)
	tt.run("break 4")
	tt.run("continue")

	if tt.Hart.Halted {
		t.Fatal("hart halted before reaching the breakpoint")
	}
	if tt.Hart.PC != 4 {
		t.Errorf("pc = %#x, want 4 (stopped at breakpoint)", tt.Hart.PC)
	}
}

func TestContinueRunsToHaltWithoutBreakpoints(t *testing.T) {
	tt := newTestTUI(0x00000073) // ecall
	tt.run("continue")

	if !tt.Hart.Halted {
		t.Error("expected hart to halt")
	}
}

func TestBreakAndDeleteRoundTrip(t *testing.T) {
	tt := newTestTUI(0x00000073)
	tt.run("break 4")
	if len(tt.Breakpoints.List()) != 1 {
		t.Fatalf("expected one breakpoint after break, got %d", len(tt.Breakpoints.List()))
	}

	tt.run("delete 4")
	if len(tt.Breakpoints.List()) != 0 {
		t.Errorf("expected no breakpoints after delete, got %d", len(tt.Breakpoints.List()))
	}
}

func TestRegsCommandWritesRegisterDump(t *testing.T) {
	tt := newTestTUI(0x00000073)
	tt.OutputView.Clear()
	tt.run("regs")

	if !strings.Contains(tt.OutputView.GetText(true), "x0") {
		t.Error("regs command did not write a register dump")
	}
}

func TestMemCommandMovesViewWindow(t *testing.T) {
	tt := newTestTUI(0x00000073)
	tt.run("mem 10")

	if tt.memAddr != 0x10 {
		t.Errorf("memAddr = %#x, want 0x10", tt.memAddr)
	}
}
