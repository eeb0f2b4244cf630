package vm

import (
	"fmt"
	"strings"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/memory"
)

const (
	BOOT_FUNCTION = "Sys.init" // Called by the bootstrap, if declared.
	NO_COMMAND    = -1         // Source map entry of bootstrap and halt code.
)

// Build is the result of translating a VM program.
type Build struct {
	Asm       string       // Generated Hack assembly text.
	Program   *cpu.Program // Assembled program.
	SourceMap []int        // Global command index of every instruction, or NO_COMMAND.
}

// Command returns the global index of the VM command that generated the
// instruction at pc.
func (build *Build) Command(pc uint16) (command int, ok bool) {
	if int(pc) >= len(build.SourceMap) {
		command = NO_COMMAND
		return
	}

	command = build.SourceMap[pc]
	ok = command != NO_COMMAND
	return
}

// scopeOf returns the label scope of every command: the enclosing function,
// or the file's module for commands before the first function.
func scopeOf(prog *Program) (scopes []string) {
	scopes = make([]string, len(prog.Commands))
	for _, file := range prog.Files {
		scope := file.Module()
		for n, cmd := range file.Commands(prog.Commands) {
			if cmd.Op == OP_FUNCTION {
				scope = cmd.Name
			}
			scopes[file.Start+n] = scope
		}
	}
	return
}

// predefined is the set of symbols the assembler defines.
var predefined = map[string]bool{}

func init() {
	for name := range (&cpu.Assembler{}).Symbols() {
		predefined[name] = true
	}
}

// staticSymbol is the assembly symbol of a static variable.
func staticSymbol(module string, index int) string {
	return fmt.Sprintf("%v.%d", module, index)
}

// fileLabel is a label name declared in a file.
type fileLabel struct {
	file int
	name string
}

// link checks every symbol reference of the program, before any code is
// generated, and returns the assembly symbol each goto and if-goto jumps to.
//
// A label is first looked up in the scope of the jump. Failing that, it
// resolves to the one label of that name elsewhere in the same file.
func link(prog *Program, scopes []string) (targets map[int]string, err error) {
	functions := map[string]bool{}
	statics := map[string]bool{}
	labels := map[string]bool{}
	byFile := map[fileLabel][]string{}

	linkErr := func(index int, err error) error {
		fileIndex, _, _ := prog.Locate(index)
		return &ErrLink{File: prog.Files[fileIndex].Name, Command: prog.Commands[index], Err: err}
	}

	for _, file := range prog.Files {
		for _, cmd := range file.Commands(prog.Commands) {
			if cmd.Segment == SEG_STATIC {
				statics[staticSymbol(file.Module(), cmd.Index)] = true
			}
		}
	}

	for fileIndex, file := range prog.Files {
		for n, cmd := range file.Commands(prog.Commands) {
			index := file.Start + n
			switch cmd.Op {
			case OP_FUNCTION:
				if predefined[cmd.Name] {
					err = linkErr(index, ErrNameInvalid)
					return
				}
				if functions[cmd.Name] || statics[cmd.Name] {
					err = linkErr(index, ErrFunctionDuplicate)
					return
				}
				functions[cmd.Name] = true
			case OP_LABEL:
				symbol := scopes[index] + "$" + cmd.Name
				if labels[symbol] {
					err = linkErr(index, ErrLabelDuplicate)
					return
				}
				labels[symbol] = true
				key := fileLabel{file: fileIndex, name: cmd.Name}
				byFile[key] = append(byFile[key], symbol)
			}
		}
	}

	targets = map[int]string{}
	for fileIndex, file := range prog.Files {
		for n, cmd := range file.Commands(prog.Commands) {
			index := file.Start + n
			switch cmd.Op {
			case OP_CALL:
				if !functions[cmd.Name] {
					err = linkErr(index, ErrFunctionMissing)
					return
				}
			case OP_GOTO, OP_IF_GOTO:
				symbol := scopes[index] + "$" + cmd.Name
				if !labels[symbol] {
					candidates := byFile[fileLabel{file: fileIndex, name: cmd.Name}]
					switch len(candidates) {
					case 0:
						err = linkErr(index, ErrLabelMissing)
						return
					case 1:
						symbol = candidates[0]
					default:
						err = linkErr(index, ErrLabelAmbiguous)
						return
					}
				}
				targets[index] = symbol
			}
		}
	}

	return
}

// generator accumulates assembly lines, and the command that owns each.
type generator struct {
	lines  []string
	owners []int
	owner  int
	unique int
}

func (gen *generator) emit(lines ...string) {
	for _, line := range lines {
		gen.lines = append(gen.lines, line)
		gen.owners = append(gen.owners, gen.owner)
	}
}

// label returns a new translator-private label. User labels never start
// with '$'.
func (gen *generator) label(kind string) string {
	gen.unique++
	return fmt.Sprintf("$%v.%d", kind, gen.unique)
}

// pushD pushes the D register.
func (gen *generator) pushD() {
	gen.emit("@SP", "M=M+1", "A=M-1", "M=D")
}

// popD pops the stack into the D register.
func (gen *generator) popD() {
	gen.emit("@SP", "AM=M-1", "D=M")
}

var segmentBase = map[Segment]string{
	SEG_LOCAL:    "LCL",
	SEG_ARGUMENT: "ARG",
	SEG_THIS:     "THIS",
	SEG_THAT:     "THAT",
}

// fixedAddress returns the symbol of a directly addressed segment word.
func fixedAddress(module string, cmd Command) string {
	switch cmd.Segment {
	case SEG_POINTER:
		return fmt.Sprintf("R%d", memory.THIS+cmd.Index)
	case SEG_TEMP:
		return fmt.Sprintf("R%d", memory.TEMP+cmd.Index)
	case SEG_STATIC:
		return staticSymbol(module, cmd.Index)
	}
	panic("vm: segment " + cmd.Segment.String() + " is not fixed")
}

func (gen *generator) push(module string, cmd Command) {
	switch cmd.Segment {
	case SEG_CONSTANT:
		gen.emit(fmt.Sprintf("@%d", cmd.Index), "D=A")
	case SEG_LOCAL, SEG_ARGUMENT, SEG_THIS, SEG_THAT:
		gen.emit(fmt.Sprintf("@%d", cmd.Index), "D=A", "@"+segmentBase[cmd.Segment], "A=D+M", "D=M")
	default:
		gen.emit("@"+fixedAddress(module, cmd), "D=M")
	}
	gen.pushD()
}

func (gen *generator) pop(module string, cmd Command) {
	switch cmd.Segment {
	case SEG_LOCAL, SEG_ARGUMENT, SEG_THIS, SEG_THAT:
		gen.emit(fmt.Sprintf("@%d", cmd.Index), "D=A", "@"+segmentBase[cmd.Segment], "D=D+M", "@R13", "M=D")
		gen.popD()
		gen.emit("@R13", "A=M", "M=D")
	default:
		gen.popD()
		gen.emit("@"+fixedAddress(module, cmd), "M=D")
	}
}

var binaryComp = map[CommandOp]string{
	OP_ADD: "M=D+M",
	OP_SUB: "M=M-D",
	OP_AND: "M=D&M",
	OP_OR:  "M=D|M",
}

var unaryComp = map[CommandOp]string{
	OP_NEG: "M=-M",
	OP_NOT: "M=!M",
}

var compareJump = map[CommandOp]string{
	OP_EQ: "D;JEQ",
	OP_GT: "D;JGT",
	OP_LT: "D;JLT",
}

// compare leaves -1 (true) or 0 (false) in place of the top two values.
func (gen *generator) compare(op CommandOp) {
	yes := gen.label("true")
	done := gen.label("done")
	gen.popD()
	gen.emit("A=A-1", "D=M-D",
		"@"+yes, compareJump[op],
		"@SP", "A=M-1", "M=0",
		"@"+done, "0;JMP",
		"("+yes+")",
		"@SP", "A=M-1", "M=-1",
		"("+done+")")
}

// call pushes the caller's frame, repositions ARG and LCL, and jumps.
func (gen *generator) call(function string, args int) {
	ret := gen.label("return")

	gen.emit("@"+ret, "D=A")
	gen.pushD()
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		gen.emit("@"+reg, "D=M")
		gen.pushD()
	}
	gen.emit("@SP", "D=M", fmt.Sprintf("@%d", args+5), "D=D-A", "@ARG", "M=D")
	gen.emit("@SP", "D=M", "@LCL", "M=D")
	gen.emit("@"+function, "0;JMP")
	gen.emit("(" + ret + ")")
}

// ret places the return value at ARG[0], restores the caller's frame, and
// jumps to the return address.
func (gen *generator) ret() {
	gen.emit("@LCL", "D=M", "@R13", "M=D")
	gen.emit("@5", "A=D-A", "D=M", "@R14", "M=D")
	gen.popD()
	gen.emit("@ARG", "A=M", "M=D")
	gen.emit("@ARG", "D=M+1", "@SP", "M=D")
	for _, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		gen.emit("@R13", "AM=M-1", "D=M", "@"+reg, "M=D")
	}
	gen.emit("@R14", "A=M", "0;JMP")
}

func (gen *generator) halt() {
	gen.emit("($halt)", "@$halt", "0;JMP")
}

// command generates the code of a single command. Jumps go to target.
func (gen *generator) command(module string, scope string, target string, cmd Command) {
	switch cmd.Op {
	case OP_PUSH:
		gen.push(module, cmd)
	case OP_POP:
		gen.pop(module, cmd)
	case OP_ADD, OP_SUB, OP_AND, OP_OR:
		gen.popD()
		gen.emit("A=A-1", binaryComp[cmd.Op])
	case OP_NEG, OP_NOT:
		gen.emit("@SP", "A=M-1", unaryComp[cmd.Op])
	case OP_EQ, OP_GT, OP_LT:
		gen.compare(cmd.Op)
	case OP_LABEL:
		gen.emit("(" + scope + "$" + cmd.Name + ")")
	case OP_GOTO:
		gen.emit("@"+target, "0;JMP")
	case OP_IF_GOTO:
		gen.popD()
		gen.emit("@"+target, "D;JNE")
	case OP_FUNCTION:
		gen.emit("(" + cmd.Name + ")")
		for range cmd.Index {
			gen.emit("@SP", "M=M+1", "A=M-1", "M=0")
		}
	case OP_CALL:
		gen.call(cmd.Name, cmd.Index)
	case OP_RETURN:
		gen.ret()
	}
}

// Translate links the files of a program into a single Hack program.
//
// The bootstrap sets SP to 256 and, if Sys.init is declared, calls it and
// halts on return. Otherwise execution starts at the first command of the
// first file and halts after the last command of the last file.
//
// Every call, goto and label is checked before any code is generated; link
// failures are *ErrLink.
func Translate(prog *Program) (build *Build, err error) {
	scopes := scopeOf(prog)

	targets, err := link(prog, scopes)
	if err != nil {
		return
	}

	boot := false
	for _, cmd := range prog.Commands {
		if cmd.Op == OP_FUNCTION && cmd.Name == BOOT_FUNCTION {
			boot = true
			break
		}
	}

	gen := &generator{owner: NO_COMMAND}
	gen.emit(fmt.Sprintf("@%d", memory.STACK), "D=A", "@SP", "M=D")
	if boot {
		gen.call(BOOT_FUNCTION, 0)
		gen.halt()
	}

	for _, file := range prog.Files {
		module := file.Module()
		for n, cmd := range file.Commands(prog.Commands) {
			index := file.Start + n
			gen.owner = index
			gen.emit("// " + cmd.String())
			gen.command(module, scopes[index], targets[index], cmd)
		}
	}

	if !boot {
		gen.owner = NO_COMMAND
		gen.halt()
	}

	text := strings.Join(gen.lines, "\n") + "\n"

	asm := &cpu.Assembler{}
	asmProg, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	build = &Build{
		Asm:       text,
		Program:   asmProg,
		SourceMap: make([]int, asmProg.Len()),
	}
	for _, op := range asmProg.Opcodes {
		owner := gen.owners[op.LineNo-1]
		for n := range op.Codes {
			build.SourceMap[op.Ip+n] = owner
		}
	}

	return
}
