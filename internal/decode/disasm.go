package decode

import (
	"fmt"
	"strings"

	"github.com/capatsch/rv32i/internal/hexfmt"
)

// MnemonicWidth is the fixed column width mnemonics are left-padded to in
// disassembly and trace output.
const MnemonicWidth = 8

// IllegalText is emitted in place of a rendering for any unrecognized
// encoding.
const IllegalText = "ERROR: UNIMPLEMENTED INSTRUCTION"

// reg renders a register operand as x<n>.
func reg(r uint32) string {
	return fmt.Sprintf("x%d", r)
}

// baseDisp renders an `imm(base)` memory operand.
func baseDisp(base uint32, disp int32) string {
	return fmt.Sprintf("%d(%s)", disp, reg(base))
}

func mnemonicCol(m string) string {
	return fmt.Sprintf("%-*s", MnemonicWidth, m)
}

// Format renders the one-line disassembly of d, the instruction located at
// addr (needed to resolve PC-relative branch/jump targets to absolute
// addresses).
func Format(addr uint32, d Decoded) string {
	m := d.Op.Mnemonic()
	switch d.Op {
	case Illegal:
		return IllegalText

	case Lui, Auipc:
		return mnemonicCol(m) + reg(d.Rd) + "," + hexfmt.Upper20(uint32(d.ImmU)>>12)

	case Jal:
		target := addr + uint32(d.ImmJ)
		return mnemonicCol(m) + reg(d.Rd) + "," + hexfmt.Word32Prefixed(target)

	case Jalr:
		return mnemonicCol(m) + reg(d.Rd) + "," + baseDisp(d.Rs1, d.ImmI)

	case Beq, Bne, Blt, Bge, Bltu, Bgeu:
		target := addr + uint32(d.ImmB)
		return mnemonicCol(m) + reg(d.Rs1) + "," + reg(d.Rs2) + "," + hexfmt.Word32Prefixed(target)

	case Lb, Lh, Lw, Lbu, Lhu:
		return mnemonicCol(m) + reg(d.Rd) + "," + baseDisp(d.Rs1, d.ImmI)

	case Sb, Sh, Sw:
		return mnemonicCol(m) + reg(d.Rs2) + "," + baseDisp(d.Rs1, d.ImmS)

	case Addi, Slti, Sltiu, Xori, Ori, Andi:
		return mnemonicCol(m) + reg(d.Rd) + "," + reg(d.Rs1) + "," + fmt.Sprintf("%d", d.ImmI)

	case Slli, Srli, Srai:
		shamt := uint32(d.ImmI) & 0x1f
		return mnemonicCol(m) + reg(d.Rd) + "," + reg(d.Rs1) + "," + fmt.Sprintf("%d", shamt)

	case Add, Sub, Sll, Slt, Sltu, Xor, Srl, Sra, Or, And:
		return mnemonicCol(m) + reg(d.Rd) + "," + reg(d.Rs1) + "," + reg(d.Rs2)

	case Ecall:
		return "ecall"

	case Ebreak:
		return "ebreak"

	case Csrrw, Csrrs, Csrrc:
		csr := uint32(d.ImmI)
		return mnemonicCol(m) + reg(d.Rd) + "," + hexfmt.CSR12(csr) + "," + reg(d.Rs1)

	case Csrrwi, Csrrsi, Csrrci:
		csr := uint32(d.ImmI)
		zimm := d.Rs1
		return mnemonicCol(m) + reg(d.Rd) + "," + hexfmt.CSR12(csr) + "," + fmt.Sprintf("%d", zimm)
	}
	return IllegalText
}

// Disassemble decodes and formats the instruction word at addr.
func Disassemble(addr, insn uint32) string {
	return Format(addr, Decode(insn))
}

// DisassembleRange renders one "<addr>: <insn>  <mnemonic> <operands>" line
// per 32-bit word in [start, end), matching the wire format spec.md §6
// defines for `-d` output.
func DisassembleRange(get32 func(uint32) uint32, start, end uint32) string {
	var sb strings.Builder
	for addr := start; addr < end; addr += 4 {
		insn := get32(addr)
		fmt.Fprintf(&sb, "%s: %s  %s\n",
			hexfmt.Word32(addr), hexfmt.Word32(insn), Disassemble(addr, insn))
	}
	return sb.String()
}
