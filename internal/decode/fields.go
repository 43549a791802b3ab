// Package decode implements the pure bit-field extraction and
// immediate-reconstruction rules for RV32I instruction words, plus a
// disassembly formatter and a classifier that both internal/hart's
// executor and the disassembler drive off the same Decoded value, per
// spec.md §9's "collapse into a single decode step" design note.
package decode

// Opcode returns insn[6:0], the primary instruction class.
func Opcode(insn uint32) uint32 {
	return insn & 0x7f
}

// Rd returns insn[11:7], the destination register field.
func Rd(insn uint32) uint32 {
	return (insn >> 7) & 0x1f
}

// Funct3 returns insn[14:12], the primary sub-op field.
func Funct3(insn uint32) uint32 {
	return (insn >> 12) & 0x7
}

// Rs1 returns insn[19:15], the first source register field.
func Rs1(insn uint32) uint32 {
	return (insn >> 15) & 0x1f
}

// Rs2 returns insn[24:20], the second source register field.
func Rs2(insn uint32) uint32 {
	return (insn >> 20) & 0x1f
}

// Funct7 returns insn[31:25], the sub-op refinement field.
func Funct7(insn uint32) uint32 {
	return (insn >> 25) & 0x7f
}

// ImmI reconstructs the I-type immediate: an arithmetic right shift of the
// instruction word by 20, sign-extending insn[31] across the whole result.
func ImmI(insn uint32) int32 {
	return int32(insn) >> 20
}

// ImmU reconstructs the U-type immediate: the raw upper 20 bits, left in
// place in bits [31:12].
func ImmU(insn uint32) int32 {
	return int32(insn & 0xfffff000)
}

// ImmS reconstructs the S-type immediate: the sign-extended top 7 bits of
// the instruction OR'd with the raw rd field, which is where the S-type
// layout places imm[4:0]. This identity (rather than a separate bit-by-bit
// reassembly) is preserved on purpose — see spec.md §9 note 3.
func ImmS(insn uint32) int32 {
	return (int32(insn&0xfe000000) >> 20) | int32(Rd(insn))
}

// ImmB reconstructs the B-type (branch) immediate: sign bit replicated into
// bits [31:12], insn[30:25] into bits [10:5], insn[11:8] into bits [4:1],
// insn[7] into bit 11, bit 0 always 0.
func ImmB(insn uint32) int32 {
	val := int32(insn)
	val >>= 31
	val <<= 12
	val |= int32((insn & 0x7e000000) >> 20)
	val |= int32((insn & 0x00000080) << 4)
	val |= int32((insn & 0x00000f00) >> 7)
	return val
}

// ImmJ reconstructs the J-type (jump) immediate: sign bit replicated into
// bits [31:20], insn[30:21] into bits [10:1], insn[20] into bit 11,
// insn[19:12] into bits [19:12], bit 0 always 0.
func ImmJ(insn uint32) int32 {
	val := int32(insn)
	val >>= 31
	val <<= 20
	val |= int32((insn & 0x7fe00000) >> 20)
	val |= int32((insn & 0x00100000) >> 9)
	val |= int32(insn & 0x000ff000)
	return val
}
