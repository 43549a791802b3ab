package hart

import (
	"fmt"
	"io"

	"github.com/capatsch/rv32i/internal/decode"
	"github.com/capatsch/rv32i/internal/hexfmt"
)

const mhartidCSR = 0xf14

func hx(v uint32) string { return hexfmt.Word32Prefixed(v) }

// exec decodes insn and carries out its semantics, writing a trace
// commentary to pos if non-nil. Exactly one of: pc advances by 4, pc is
// set explicitly by a taken branch/jump, or the hart halts.
func (h *Hart) exec(insn uint32, pos io.Writer) {
	d := decode.Decode(insn)

	switch d.Op {
	case decode.Illegal:
		h.execIllegal(d, pos)
	case decode.Lui:
		h.execLui(d, pos)
	case decode.Auipc:
		h.execAuipc(d, pos)
	case decode.Jal:
		h.execJal(d, pos)
	case decode.Jalr:
		h.execJalr(d, pos)
	case decode.Beq:
		h.execBranch(d, pos, "==", func(a, b int32) bool { return a == b })
	case decode.Bne:
		h.execBranch(d, pos, "!=", func(a, b int32) bool { return a != b })
	case decode.Blt:
		h.execBranch(d, pos, "<", func(a, b int32) bool { return a < b })
	case decode.Bge:
		h.execBranch(d, pos, ">=", func(a, b int32) bool { return a >= b })
	case decode.Bltu:
		h.execBranchU(d, pos, "<U", func(a, b uint32) bool { return a < b })
	case decode.Bgeu:
		h.execBranchU(d, pos, ">=U", func(a, b uint32) bool { return a >= b })
	case decode.Lb:
		h.execLoad(d, pos, "lb", "sx", 1, true)
	case decode.Lh:
		h.execLoad(d, pos, "lh", "sx", 2, true)
	case decode.Lw:
		h.execLoad(d, pos, "lw", "sx", 4, true)
	case decode.Lbu:
		h.execLoad(d, pos, "lbu", "zx", 1, false)
	case decode.Lhu:
		h.execLoad(d, pos, "lhu", "zx", 2, false)
	case decode.Sb:
		h.execStore(d, pos, 1)
	case decode.Sh:
		h.execStore(d, pos, 2)
	case decode.Sw:
		h.execStore(d, pos, 4)
	case decode.Addi:
		h.execAluImm(d, pos, "+", func(a, b int32) int32 { return a + b })
	case decode.Xori:
		h.execAluImm(d, pos, "^", func(a, b int32) int32 { return a ^ b })
	case decode.Ori:
		h.execAluImm(d, pos, "|", func(a, b int32) int32 { return a | b })
	case decode.Andi:
		h.execAluImm(d, pos, "&", func(a, b int32) int32 { return a & b })
	case decode.Slti:
		h.execSlti(d, pos)
	case decode.Sltiu:
		h.execSltiu(d, pos)
	case decode.Slli:
		h.execShiftImm(d, pos, "slli", "<<", false)
	case decode.Srli:
		h.execShiftImm(d, pos, "srli", ">>", false)
	case decode.Srai:
		h.execShiftImm(d, pos, "srai", ">>", true)
	case decode.Add:
		h.execAluReg(d, pos, "add", "+", func(a, b int32) int32 { return a + b })
	case decode.Sub:
		h.execAluReg(d, pos, "sub", "-", func(a, b int32) int32 { return a - b })
	case decode.Xor:
		h.execAluReg(d, pos, "xor", "^", func(a, b int32) int32 { return a ^ b })
	case decode.Or:
		h.execAluReg(d, pos, "or", "|", func(a, b int32) int32 { return a | b })
	case decode.And:
		h.execAluReg(d, pos, "and", "&", func(a, b int32) int32 { return a & b })
	case decode.Slt:
		h.execSlt(d, pos)
	case decode.Sltu:
		h.execSltu(d, pos)
	case decode.Sll:
		h.execShiftReg(d, pos, "sll", "<<", false)
	case decode.Srl:
		h.execShiftReg(d, pos, "srl", ">>", false)
	case decode.Sra:
		h.execShiftReg(d, pos, "sra", ">>", true)
	case decode.Ecall:
		h.execEcall(d, pos)
	case decode.Ebreak:
		h.execEbreak(d, pos)
	case decode.Csrrs:
		h.execCsrrs(d, pos)
	case decode.Csrrw, decode.Csrrc, decode.Csrrwi, decode.Csrrsi, decode.Csrrci:
		h.execUnsupportedCsr(d, pos)
	default:
		h.execIllegal(d, pos)
	}
}

func (h *Hart) execIllegal(d decode.Decoded, pos io.Writer) {
	if pos != nil {
		fmt.Fprint(pos, decode.IllegalText)
	}
	h.halt("Illegal instruction")
}

func (h *Hart) execLui(d decode.Decoded, pos io.Writer) {
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s", d.Rd, hx(uint32(d.ImmU))))
	h.Regs.Set(d.Rd, d.ImmU)
	h.PC += 4
}

func (h *Hart) execAuipc(d decode.Decoded, pos io.Writer) {
	val := int32(h.PC) + d.ImmU
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s + %s = %s", d.Rd, hx(h.PC), hx(uint32(d.ImmU)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execJal(d decode.Decoded, pos io.Writer) {
	link := int32(h.PC + 4)
	target := h.PC + uint32(d.ImmJ)
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s,  pc = %s + %s = %s",
		d.Rd, hx(uint32(link)), hx(h.PC), hx(uint32(d.ImmJ)), hx(target)))
	h.Regs.Set(d.Rd, link)
	h.PC = target
}

func (h *Hart) execJalr(d decode.Decoded, pos io.Writer) {
	rs1 := h.Regs.Get(d.Rs1)
	target := uint32(rs1+d.ImmI) &^ 1
	link := int32(h.PC + 4)
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s,  pc = (%s + %s) & %s = %s",
		d.Rd, hx(uint32(link)), hx(uint32(d.ImmI)), hx(uint32(rs1)), hx(^uint32(1)), hx(target)))
	h.Regs.Set(d.Rd, link)
	h.PC = target
}

func (h *Hart) execBranch(d decode.Decoded, pos io.Writer, sym string, cond func(a, b int32) bool) {
	a, b := h.Regs.Get(d.Rs1), h.Regs.Get(d.Rs2)
	taken := cond(a, b)
	delta := int32(4)
	if taken {
		delta = d.ImmB
	}
	val := h.PC + uint32(delta)
	h.traceInsn(pos, d, fmt.Sprintf("pc += (%s %s %s ? %s : 4) = %s",
		hx(uint32(a)), sym, hx(uint32(b)), hx(uint32(d.ImmB)), hx(val)))
	h.PC = val
}

func (h *Hart) execBranchU(d decode.Decoded, pos io.Writer, sym string, cond func(a, b uint32) bool) {
	a, b := uint32(h.Regs.Get(d.Rs1)), uint32(h.Regs.Get(d.Rs2))
	taken := cond(a, b)
	delta := int32(4)
	if taken {
		delta = d.ImmB
	}
	val := h.PC + uint32(delta)
	h.traceInsn(pos, d, fmt.Sprintf("pc += (%s %s %s ? %s : 4) = %s",
		hx(a), sym, hx(b), hx(uint32(d.ImmB)), hx(val)))
	h.PC = val
}

func (h *Hart) execLoad(d decode.Decoded, pos io.Writer, mnemonic, ext string, width int, signed bool) {
	addr := uint32(h.Regs.Get(d.Rs1) + d.ImmI)
	var val int32
	switch {
	case signed && width == 1:
		val = h.Mem.Get8Sx(addr)
	case signed && width == 2:
		val = h.Mem.Get16Sx(addr)
	case signed && width == 4:
		val = h.Mem.Get32Sx(addr)
	case width == 1:
		val = int32(h.Mem.Get8(addr))
	case width == 2:
		val = int32(h.Mem.Get16(addr))
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s(m%d(%s + %s)) = %s",
		d.Rd, ext, width*8, hx(uint32(h.Regs.Get(d.Rs1))), hx(uint32(d.ImmI)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execStore(d decode.Decoded, pos io.Writer, width int) {
	base := uint32(h.Regs.Get(d.Rs1))
	addr := uint32(int32(base) + d.ImmS)
	rs2 := h.Regs.Get(d.Rs2)
	h.traceInsn(pos, d, fmt.Sprintf("m%d(%s + %s) = %s",
		width*8, hx(base), hx(uint32(d.ImmS)), hx(uint32(rs2))))
	switch width {
	case 1:
		h.Mem.Set8(addr, uint8(rs2))
	case 2:
		h.Mem.Set16(addr, uint16(rs2))
	case 4:
		h.Mem.Set32(addr, uint32(rs2))
	}
	h.PC += 4
}

func (h *Hart) execAluImm(d decode.Decoded, pos io.Writer, sym string, op func(a, b int32) int32) {
	rs1 := h.Regs.Get(d.Rs1)
	val := op(rs1, d.ImmI)
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s %s %s = %s", d.Rd, hx(uint32(rs1)), sym, hx(uint32(d.ImmI)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execSlti(d decode.Decoded, pos io.Writer) {
	rs1 := h.Regs.Get(d.Rs1)
	var val int32
	if rs1 < d.ImmI {
		val = 1
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = (%s < %d) ? 1 : 0 = %s", d.Rd, hx(uint32(rs1)), d.ImmI, hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execSltiu(d decode.Decoded, pos io.Writer) {
	rs1 := h.Regs.Get(d.Rs1)
	var val int32
	if uint32(rs1) < uint32(d.ImmI) {
		val = 1
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = (%s <U %d) ? 1 : 0 = %s", d.Rd, hx(uint32(rs1)), d.ImmI, hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execShiftImm(d decode.Decoded, pos io.Writer, mnemonic, sym string, arithmetic bool) {
	rs1 := h.Regs.Get(d.Rs1)
	shamt := uint32(d.ImmI) & 0x1f
	var val int32
	switch {
	case sym == "<<":
		val = rs1 << shamt
	case arithmetic:
		val = rs1 >> shamt
	default:
		val = int32(uint32(rs1) >> shamt)
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s %s %d = %s", d.Rd, hx(uint32(rs1)), sym, shamt, hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execAluReg(d decode.Decoded, pos io.Writer, mnemonic, sym string, op func(a, b int32) int32) {
	rs1, rs2 := h.Regs.Get(d.Rs1), h.Regs.Get(d.Rs2)
	val := op(rs1, rs2)
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s %s %s = %s", d.Rd, hx(uint32(rs1)), sym, hx(uint32(rs2)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execSlt(d decode.Decoded, pos io.Writer) {
	rs1, rs2 := h.Regs.Get(d.Rs1), h.Regs.Get(d.Rs2)
	var val int32
	if rs1 < rs2 {
		val = 1
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = (%s < %s) ? 1 : 0 = %s", d.Rd, hx(uint32(rs1)), hx(uint32(rs2)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

// execSltu is the unsigned comparison the ISA defines. The source
// simulator this spec was distilled from reuses the signed comparison here
// by mistake; spec.md §9 Open Question 1 calls that out and directs
// implementers to the correct unsigned semantics used below.
func (h *Hart) execSltu(d decode.Decoded, pos io.Writer) {
	rs1, rs2 := h.Regs.Get(d.Rs1), h.Regs.Get(d.Rs2)
	var val int32
	if uint32(rs1) < uint32(rs2) {
		val = 1
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = (%s <U %s) ? 1 : 0 = %s", d.Rd, hx(uint32(rs1)), hx(uint32(rs2)), hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execShiftReg(d decode.Decoded, pos io.Writer, mnemonic, sym string, arithmetic bool) {
	rs1, rs2 := h.Regs.Get(d.Rs1), h.Regs.Get(d.Rs2)
	shamt := uint32(rs2) % 32
	var val int32
	switch {
	case sym == "<<":
		val = rs1 << shamt
	case arithmetic:
		val = rs1 >> shamt
	default:
		val = int32(uint32(rs1) >> shamt)
	}
	h.traceInsn(pos, d, fmt.Sprintf("x%d = %s %s %d = %s", d.Rd, hx(uint32(rs1)), sym, shamt, hx(uint32(val))))
	h.Regs.Set(d.Rd, val)
	h.PC += 4
}

func (h *Hart) execEcall(d decode.Decoded, pos io.Writer) {
	h.traceInsn(pos, d, "HALT")
	h.halt("ECALL instruction")
}

func (h *Hart) execEbreak(d decode.Decoded, pos io.Writer) {
	h.traceInsn(pos, d, "HALT")
	h.halt("EBREAK instruction")
}

func (h *Hart) execCsrrs(d decode.Decoded, pos io.Writer) {
	csr := uint32(d.ImmI) & 0xfff
	if csr == mhartidCSR && d.Rd != 0 {
		h.traceInsn(pos, d, fmt.Sprintf("x%d = %d", d.Rd, h.MHartID))
		h.Regs.Set(d.Rd, int32(h.MHartID))
		h.PC += 4
		return
	}
	if pos != nil {
		fmt.Fprint(pos, decode.Format(h.PC, d))
	}
	h.halt("Illegal CSR in CSRRS instruction")
}

// execUnsupportedCsr handles the five CSR variants the original simulator
// disassembles but never implements (spec.md §9 Open Question 2): they
// render normally but halt the moment they would actually execute.
func (h *Hart) execUnsupportedCsr(d decode.Decoded, pos io.Writer) {
	if pos != nil {
		fmt.Fprint(pos, decode.Format(h.PC, d))
	}
	h.halt(fmt.Sprintf("Illegal CSR in %s instruction", d.Op.Mnemonic()))
}
