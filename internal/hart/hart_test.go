package hart_test

import (
	"testing"

	"github.com/capatsch/rv32i/internal/hart"
	"github.com/capatsch/rv32i/internal/memory"
)

func newTestHart(t *testing.T, words ...uint32) (*hart.Hart, *memory.Memory) {
	t.Helper()
	mem := memory.New(256, nil)
	for i, w := range words {
		mem.Set32(uint32(i*4), w)
	}
	return hart.New(mem), mem
}

func runUntilHalted(h *hart.Hart, limit int) {
	for i := 0; i < limit && !h.Halted; i++ {
		h.Tick("")
	}
}

// Scenario 1: lui x5,0x12345; addi x5,x5,0x678; ecall
func TestScenarioLuiAddiEcall(t *testing.T) {
	h, _ := newTestHart(t,
		0x123452b7, // lui x5, 0x12345
		0x67828293, // addi x5, x5, 0x678
		0x00000073, // ecall
	)
	runUntilHalted(h, 10)

	if !h.Halted || h.HaltReason != "ECALL instruction" {
		t.Fatalf("halted=%v reason=%q, want halted with ECALL instruction", h.Halted, h.HaltReason)
	}
	if got := h.Regs.Get(5); got != 0x12345678 {
		t.Errorf("x5 = %#x, want 0x12345678", uint32(got))
	}
	if h.InsnCounter != 3 {
		t.Errorf("InsnCounter = %d, want 3", h.InsnCounter)
	}
}

// Scenario 2: addi x1,x0,5; addi x2,x0,-3; add x3,x1,x2; ebreak
func TestScenarioAddEbreak(t *testing.T) {
	h, _ := newTestHart(t,
		0x00500093, // addi x1, x0, 5
		0xffd00113, // addi x2, x0, -3
		0x002081b3, // add x3, x1, x2
		0x00100073, // ebreak
	)
	runUntilHalted(h, 10)

	if h.HaltReason != "EBREAK instruction" {
		t.Fatalf("HaltReason = %q, want EBREAK instruction", h.HaltReason)
	}
	if got := h.Regs.Get(3); got != 2 {
		t.Errorf("x3 = %d, want 2", got)
	}
}

// Scenario 3: addi x1,x0,0x10; sw x1,0(x1); lw x2,0(x1); ecall
func TestScenarioStoreThenLoad(t *testing.T) {
	h, mem := newTestHart(t,
		0x01000093, // addi x1, x0, 0x10
		0x0010a023, // sw x1, 0(x1)
		0x0000a103, // lw x2, 0(x1)
		0x00000073, // ecall
	)
	runUntilHalted(h, 10)

	if got := h.Regs.Get(2); got != 0x10 {
		t.Errorf("x2 = %#x, want 0x10", uint32(got))
	}
	want := []byte{0x10, 0x00, 0x00, 0x00}
	for i, w := range want {
		if got := mem.Get8(0x10 + uint32(i)); got != w {
			t.Errorf("mem[0x%x] = %#x, want %#x", 0x10+i, got, w)
		}
	}
}

// Scenario 4: jal x1,+8 at pc=0; pc=4 has ebreak; pc=8 has ecall
func TestScenarioJal(t *testing.T) {
	h, _ := newTestHart(t,
		0x008000ef, // jal x1, +8
		0x00100073, // ebreak (skipped)
		0x00000073, // ecall (target)
	)
	runUntilHalted(h, 10)

	if got := h.Regs.Get(1); got != 4 {
		t.Errorf("x1 = %d, want 4", got)
	}
	if h.PC != 8 {
		t.Errorf("pc = %#x, want 8", h.PC)
	}
	if h.HaltReason != "ECALL instruction" {
		t.Errorf("HaltReason = %q, want ECALL instruction", h.HaltReason)
	}
}

// Scenario 5: addi x1,x0,-1; srli x2,x1,1; srai x3,x1,1; ecall
func TestScenarioShifts(t *testing.T) {
	h, _ := newTestHart(t,
		0xfff00093, // addi x1, x0, -1
		0x0010d113, // srli x2, x1, 1
		0x4010d193, // srai x3, x1, 1
		0x00000073, // ecall
	)
	runUntilHalted(h, 10)

	if got := h.Regs.Get(2); uint32(got) != 0x7fffffff {
		t.Errorf("x2 = %#x, want 0x7fffffff", uint32(got))
	}
	if got := h.Regs.Get(3); got != -1 {
		t.Errorf("x3 = %d, want -1", got)
	}
}

// Scenario 6: executing 0x00000000 halts with "Illegal instruction", count 1.
func TestScenarioIllegalInstruction(t *testing.T) {
	h, _ := newTestHart(t, 0x00000000)
	runUntilHalted(h, 10)

	if h.HaltReason != "Illegal instruction" {
		t.Errorf("HaltReason = %q, want Illegal instruction", h.HaltReason)
	}
	if h.InsnCounter != 1 {
		t.Errorf("InsnCounter = %d, want 1", h.InsnCounter)
	}
}

// Scenario 7: pc=2 triggers "PC alignment error" on the very first tick,
// with insn_counter == 0 (alignment is checked before incrementing).
func TestScenarioMisalignedPC(t *testing.T) {
	h, _ := newTestHart(t, 0x00000013)
	h.PC = 2
	h.Tick("")

	if h.HaltReason != "PC alignment error" {
		t.Errorf("HaltReason = %q, want PC alignment error", h.HaltReason)
	}
	if h.InsnCounter != 0 {
		t.Errorf("InsnCounter = %d, want 0", h.InsnCounter)
	}
}

// Scenario 8: csrrs x4,0xF14,x0 reads mhartid; csrrs x4,0x000,x0 is illegal.
func TestScenarioCsrrs(t *testing.T) {
	h, _ := newTestHart(t, 0xf1402273) // csrrs x4, 0xf14, x0
	h.Tick("")
	if h.Halted {
		t.Fatalf("csrrs mhartid halted unexpectedly: %s", h.HaltReason)
	}
	if got := h.Regs.Get(4); got != int32(h.MHartID) {
		t.Errorf("x4 = %d, want mhartid %d", got, h.MHartID)
	}

	h2, _ := newTestHart(t, 0x00002273) // csrrs x4, 0x000, x0
	h2.Tick("")
	if h2.HaltReason != "Illegal CSR in CSRRS instruction" {
		t.Errorf("HaltReason = %q, want Illegal CSR in CSRRS instruction", h2.HaltReason)
	}
}

func TestHaltedTickIsNoOp(t *testing.T) {
	h, _ := newTestHart(t, 0x00000073) // ecall
	h.Tick("")
	pcAfterHalt := h.PC
	countAfterHalt := h.InsnCounter
	h.Tick("")
	if h.PC != pcAfterHalt || h.InsnCounter != countAfterHalt {
		t.Error("Tick on a halted hart mutated state")
	}
}

func TestResetPreservesTraceFlags(t *testing.T) {
	h, _ := newTestHart(t, 0x00000073)
	h.ShowInstructions = true
	h.ShowRegisters = true
	h.MHartID = 7
	h.Reset()

	if !h.ShowInstructions || !h.ShowRegisters || h.MHartID != 7 {
		t.Error("Reset cleared configuration fields that should survive")
	}
	if h.PC != 0 || h.InsnCounter != 0 || h.Halted {
		t.Error("Reset did not clear dynamic state")
	}
}
