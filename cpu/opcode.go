package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/hack/memory"
)

// CodeClass is the type of instruction class.
type CodeClass int

const (
	OP_ADDRESS = CodeClass(0) // @
	OP_COMPUTE = CodeClass(1) // =
)

// String returns the assembly prefix of the class.
func (class CodeClass) String() string {
	if class == OP_ADDRESS {
		return "@"
	}
	return "="
}

// CodeComp is a 6-bit ALU function selector.
//
// The bits, from most significant, are the ALU control lines zx, nx, zy, ny,
// f and no. Every one of the 64 selectors is evaluated by Alu(); the eighteen
// below are the canonical functions with assembly mnemonics. In the
// mnemonics, Y is the second operand: A, or M when the instruction reads
// memory.
type CodeComp int

const (
	COMP_ZERO      = CodeComp(0b101010) // 0
	COMP_ONE       = CodeComp(0b111111) // 1
	COMP_NEG_ONE   = CodeComp(0b111010) // -1
	COMP_D         = CodeComp(0b001100) // D
	COMP_Y         = CodeComp(0b110000) // Y
	COMP_NOT_D     = CodeComp(0b001101) // !D
	COMP_NOT_Y     = CodeComp(0b110001) // !Y
	COMP_NEG_D     = CodeComp(0b001111) // -D
	COMP_NEG_Y     = CodeComp(0b110011) // -Y
	COMP_D_PLUS_1  = CodeComp(0b011111) // D+1
	COMP_Y_PLUS_1  = CodeComp(0b110111) // Y+1
	COMP_D_MINUS_1 = CodeComp(0b001110) // D-1
	COMP_Y_MINUS_1 = CodeComp(0b110010) // Y-1
	COMP_D_PLUS_Y  = CodeComp(0b000010) // D+Y
	COMP_D_MINUS_Y = CodeComp(0b010011) // D-Y
	COMP_Y_MINUS_D = CodeComp(0b000111) // Y-D
	COMP_D_AND_Y   = CodeComp(0b000000) // D&Y
	COMP_D_OR_Y    = CodeComp(0b010101) // D|Y
)

// compName maps the canonical functions to their mnemonic template.
var compName = map[CodeComp]string{
	COMP_ZERO:      "0",
	COMP_ONE:       "1",
	COMP_NEG_ONE:   "-1",
	COMP_D:         "D",
	COMP_Y:         "Y",
	COMP_NOT_D:     "!D",
	COMP_NOT_Y:     "!Y",
	COMP_NEG_D:     "-D",
	COMP_NEG_Y:     "-Y",
	COMP_D_PLUS_1:  "D+1",
	COMP_Y_PLUS_1:  "Y+1",
	COMP_D_MINUS_1: "D-1",
	COMP_Y_MINUS_1: "Y-1",
	COMP_D_PLUS_Y:  "D+Y",
	COMP_D_MINUS_Y: "D-Y",
	COMP_Y_MINUS_D: "Y-D",
	COMP_D_AND_Y:   "D&Y",
	COMP_D_OR_Y:    "D|Y",
}

// Canonical returns true if the selector is one of the eighteen canonical
// functions.
func (comp CodeComp) Canonical() bool {
	_, ok := compName[comp]
	return ok
}

// UsesY returns true if the function depends on the second operand.
func (comp CodeComp) UsesY() bool {
	name, ok := compName[comp]
	if !ok {
		// zy clear means the second operand is live.
		return comp&0b001000 == 0
	}
	return strings.Contains(name, "Y")
}

// Mnemonic returns the assembly text of the function, with mem selecting
// M rather than A as the second operand. Non-canonical selectors, and
// functions not of Y that read memory anyway, are written as '#' followed by
// the six selector bits, with an M prefix when the instruction reads memory.
func (comp CodeComp) Mnemonic(mem bool) string {
	name, ok := compName[comp]
	if !ok || (mem && !strings.Contains(name, "Y")) {
		prefix := "#"
		if mem {
			prefix = "#M"
		}
		return fmt.Sprintf("%v%06b", prefix, int(comp)&0x3f)
	}

	y := "A"
	if mem {
		y = "M"
	}
	return strings.ReplaceAll(name, "Y", y)
}

// CodeDest is the set of destinations a compute instruction stores to.
type CodeDest int

const (
	DEST_NONE = CodeDest(0)
	DEST_M    = CodeDest(1 << 0) // M
	DEST_D    = CodeDest(1 << 1) // D
	DEST_A    = CodeDest(1 << 2) // A
)

// String returns the assembly text of the destination set, in the conventional
// A, M, D order ("AMD", "MD", "AM", ...).
func (dest CodeDest) String() (text string) {
	if dest&DEST_A != 0 {
		text += "A"
	}
	if dest&DEST_M != 0 {
		text += "M"
	}
	if dest&DEST_D != 0 {
		text += "D"
	}
	return
}

// CodeJump is a jump condition, tested against the ALU output.
type CodeJump int

const (
	JUMP_NONE = CodeJump(0)
	JUMP_JGT  = CodeJump(1) // JGT
	JUMP_JEQ  = CodeJump(2) // JEQ
	JUMP_JGE  = CodeJump(3) // JGE
	JUMP_JLT  = CodeJump(4) // JLT
	JUMP_JNE  = CodeJump(5) // JNE
	JUMP_JLE  = CodeJump(6) // JLE
	JUMP_JMP  = CodeJump(7) // JMP
)

var jumpName = [8]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

// String returns the assembly mnemonic of the condition.
func (jump CodeJump) String() string {
	return jumpName[jump&7]
}

// Taken returns true if the condition holds for an ALU output with the
// given zero and negative flags.
func (jump CodeJump) Taken(zr, ng bool) bool {
	lt := jump&JUMP_JLT != 0 && ng
	eq := jump&JUMP_JEQ != 0 && zr
	gt := jump&JUMP_JGT != 0 && !zr && !ng
	return lt || eq || gt
}

// Code is a single 16-bit instruction word.
type Code uint16

const (
	codeCompute = 1 << 15
	codeSpare   = 0b11 << 13
)

// MakeCodeAddress creates an address instruction loading value into A.
func MakeCodeAddress(value uint16) Code {
	return Code(value & memory.ADDRESS_MASK)
}

// MakeCodeCompute creates a compute instruction with the canonical spare bits.
func MakeCodeCompute(mem bool, comp CodeComp, dest CodeDest, jump CodeJump) Code {
	return Decoded{
		Class:  OP_COMPUTE,
		Memory: mem,
		Comp:   comp,
		Dest:   dest,
		Jump:   jump,
		Spare:  0b11,
	}.Encode()
}

// Class returns the instruction class from the top bit.
func (code Code) Class() CodeClass {
	if code&codeCompute != 0 {
		return OP_COMPUTE
	}
	return OP_ADDRESS
}

// Address returns the 15-bit immediate of an address instruction.
func (code Code) Address() uint16 {
	return uint16(code) & memory.ADDRESS_MASK
}

// Memory returns true if the second ALU operand is the memory cell addressed
// by A rather than A itself.
func (code Code) Memory() bool {
	return (code>>12)&1 != 0
}

// Comp returns the ALU function selector.
func (code Code) Comp() CodeComp {
	return CodeComp((code >> 6) & 0x3f)
}

// Dest returns the destination set.
func (code Code) Dest() CodeDest {
	return CodeDest((code >> 3) & 0x7)
}

// Jump returns the jump condition.
func (code Code) Jump() CodeJump {
	return CodeJump(code & 0x7)
}

// Spare returns bits 13 and 14, unused by the compute instruction.
func (code Code) Spare() uint8 {
	return uint8((code & codeSpare) >> 13)
}

// Decoded is the field-by-field view of an instruction word.
type Decoded struct {
	Class   CodeClass // Instruction class.
	Address uint16    // Address immediate, for OP_ADDRESS.
	Memory  bool      // Second operand is M, for OP_COMPUTE.
	Comp    CodeComp  // ALU function, for OP_COMPUTE.
	Dest    CodeDest  // Destinations, for OP_COMPUTE.
	Jump    CodeJump  // Jump condition, for OP_COMPUTE.
	Spare   uint8     // Bits 13-14, for OP_COMPUTE.
}

// Decode an instruction word into its fields.
func (code Code) Decode() (dec Decoded) {
	dec.Class = code.Class()
	if dec.Class == OP_ADDRESS {
		dec.Address = code.Address()
		return
	}

	dec.Memory = code.Memory()
	dec.Comp = code.Comp()
	dec.Dest = code.Dest()
	dec.Jump = code.Jump()
	dec.Spare = code.Spare()
	return
}

// Encode the fields back into an instruction word.
func (dec Decoded) Encode() Code {
	if dec.Class == OP_ADDRESS {
		return MakeCodeAddress(dec.Address)
	}

	word := uint16(codeCompute)
	word |= uint16(dec.Spare&0b11) << 13
	if dec.Memory {
		word |= 1 << 12
	}
	word |= uint16(dec.Comp&0x3f) << 6
	word |= uint16(dec.Dest&0x7) << 3
	word |= uint16(dec.Jump & 0x7)
	return Code(word)
}

// Binary returns the 16 character '0'/'1' text of the word, as used in
// .hack files.
func (code Code) Binary() string {
	return fmt.Sprintf("%016b", uint16(code))
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	if code.Class() == OP_ADDRESS {
		return fmt.Sprintf("@%d", code.Address())
	}

	dest := code.Dest()
	if dest != DEST_NONE {
		out = dest.String() + "="
	}
	out += code.Comp().Mnemonic(code.Memory())
	jump := code.Jump()
	if jump != JUMP_NONE {
		out += ";" + jump.String()
	}

	return
}
