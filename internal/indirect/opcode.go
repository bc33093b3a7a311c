package indirect

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/arch/x86/x86asm"
)

// opcodeGroup names the capture holding the opcode column of the
// value-producing instruction.
const opcodeGroup = "opcode"

// immediate decodes one x64 instruction from its opcode column and returns
// its immediate operand, or the displacement of its memory operand
// (lea ecx,[r8+5Ch] yields 0x5C).
func immediate(opcode string) (uint32, bool) {
	raw, err := hex.DecodeString(opcode)
	if err != nil {
		return 0, false
	}
	inst, err := x86asm.Decode(raw, 64)
	if err != nil {
		return 0, false
	}
	if inst.Op != x86asm.MOV && inst.Op != x86asm.LEA {
		return 0, false
	}
	for _, a := range inst.Args {
		switch a := a.(type) {
		case x86asm.Imm:
			return uint32(a), true
		case x86asm.Mem:
			return uint32(a.Disp), true
		}
	}
	return 0, false
}

// agrees reports whether the hex text captured from the disassembly matches
// the immediate encoded in the opcode bytes. A missing or undecodable
// opcode column cannot contradict the text.
func agrees(opcode, text string) bool {
	if opcode == "" {
		return true
	}
	want, ok := immediate(opcode)
	if !ok {
		return true
	}
	got, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return true
	}
	return uint32(got) == want
}
