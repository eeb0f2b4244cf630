// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hack/internal"
	"github.com/ezrec/hack/memory"
)

// Predefined system symbols
var sysSymbol = map[string]int{
	"SP":     memory.SP,
	"LCL":    memory.LCL,
	"ARG":    memory.ARG,
	"THIS":   memory.THIS,
	"THAT":   memory.THAT,
	"SCREEN": memory.SCREEN,
	"KBD":    memory.KBD,
}

func init() {
	for n := range 16 {
		sysSymbol["R"+strconv.Itoa(n)] = n
	}
}

// Assembler is a two pass assembler for the Hack assembly language.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]int // Predefines
	Label     map[string]int // Map of labels to instruction addresses.
	Variable  map[string]int // Map of variables to data memory addresses.

	nextVariable int
}

// Predefine defines a new symbol or redefines an existing predefined symbol.
func (asm *Assembler) Predefine(name string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Symbols iterates over every symbol known to the assembler: system symbols,
// predefines, labels and variables.
func (asm *Assembler) Symbols() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(sysSymbol),
		maps.All(asm.predefine),
		maps.All(asm.Label),
		maps.All(asm.Variable),
	)
}

// lookup returns the value of a known symbol.
func (asm *Assembler) lookup(name string) (value int, ok bool) {
	if value, ok = asm.predefine[name]; ok {
		return
	}
	if value, ok = sysSymbol[name]; ok {
		return
	}
	if value, ok = asm.Label[name]; ok {
		return
	}
	value, ok = asm.Variable[name]
	return
}

// validSymbol returns true if name is a legal symbol: letters, digits, and
// any of '_.$:', not starting with a digit.
func validSymbol(name string) bool {
	if len(name) == 0 {
		return false
	}
	for n, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '_', c == '.', c == '$', c == ':':
		case c >= '0' && c <= '9' && n > 0:
		default:
			return false
		}
	}
	return true
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, symbol := range asm.Symbols() {
		if strings.ContainsAny(key, ".$:") {
			// Not a Starlark identifier.
			continue
		}
		pred[key] = starlark.MakeInt(symbol)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var reExpression = regexp.MustCompile(`^\$\((.*)\)$`)

// addressOf resolves the operand of an address instruction, allocating a new
// variable for an unknown symbol.
func (asm *Assembler) addressOf(word string) (value int, err error) {
	switch {
	case len(word) == 0:
		err = ErrAddressMissing
		return
	case reExpression.MatchString(word):
		value, err = asm.parenEval(reExpression.FindStringSubmatch(word)[1])
		if err != nil {
			return
		}
	case word[0] == '-' || (word[0] >= '0' && word[0] <= '9'):
		base := 10
		if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0b") {
			base = 0
		}
		var v64 int64
		v64, err = strconv.ParseInt(word, base, 32)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		value = int(v64)
	case !validSymbol(word):
		err = ErrSymbolInvalid
		return
	default:
		var ok bool
		value, ok = asm.lookup(word)
		if !ok {
			if asm.nextVariable > memory.ADDRESS_MASK {
				err = ErrVariableOverflow
				return
			}
			value = asm.nextVariable
			asm.nextVariable++
			if asm.Variable == nil {
				asm.Variable = make(map[string]int, 16)
			}
			asm.Variable[word] = value
			if asm.Verbose {
				log.Printf("asm: variable %v = %d", word, value)
			}
		}
	}

	if value < 0 || value > memory.ADDRESS_MASK {
		err = ErrAddressRange
		return
	}

	return
}

// compMap maps computation mnemonics to the memory flag and ALU function.
var compMap = map[string]struct {
	memory bool
	comp   CodeComp
}{}

func init() {
	for comp, name := range compName {
		for _, y := range []string{"A", "M"} {
			if y == "M" && !strings.Contains(name, "Y") {
				continue
			}
			text := strings.ReplaceAll(name, "Y", y)
			entry := compMap[text]
			entry.memory = y == "M"
			entry.comp = comp
			compMap[text] = entry

			// Commuted forms of the symmetric operations.
			if len(text) == 3 && strings.ContainsAny(text[1:2], "+&|") && text[0] != text[2] {
				compMap[text[2:3]+text[1:2]+text[0:1]] = entry
			}
		}
	}
}

// compOf parses a computation mnemonic, or a '#' raw selector.
func compOf(word string) (mem bool, comp CodeComp, err error) {
	if len(word) == 0 {
		err = ErrCompMissing
		return
	}

	if word[0] == '#' {
		bits := word[1:]
		if strings.HasPrefix(bits, "M") {
			mem = true
			bits = bits[1:]
		}
		if len(bits) != 6 {
			err = ErrCompInvalid
			return
		}
		var v64 uint64
		v64, err = strconv.ParseUint(bits, 2, 6)
		if err != nil {
			err = ErrCompInvalid
			return
		}
		comp = CodeComp(v64)
		return
	}

	entry, ok := compMap[word]
	if !ok {
		err = ErrCompInvalid
		return
	}

	mem = entry.memory
	comp = entry.comp
	return
}

// destOf parses a destination set, any order of A, M and D without repeats.
func destOf(word string) (dest CodeDest, err error) {
	if len(word) == 0 {
		err = ErrDestInvalid
		return
	}

	for _, c := range word {
		var bit CodeDest
		switch c {
		case 'A':
			bit = DEST_A
		case 'M':
			bit = DEST_M
		case 'D':
			bit = DEST_D
		default:
			err = ErrDestInvalid
			return
		}
		if dest&bit != 0 {
			err = ErrDestInvalid
			return
		}
		dest |= bit
	}

	return
}

// jumpOf parses a jump mnemonic.
func jumpOf(word string) (jump CodeJump, err error) {
	n := slices.Index(jumpName[1:], word)
	if n < 0 {
		err = ErrJumpInvalid
		return
	}

	jump = CodeJump(n + 1)
	return
}

// parseCompute parses dest=comp;jump where dest and jump are optional.
func parseCompute(text string) (code Code, err error) {
	text = strings.Join(strings.Fields(text), "")

	dest := DEST_NONE
	if before, after, ok := strings.Cut(text, "="); ok {
		dest, err = destOf(before)
		if err != nil {
			return
		}
		text = after
	}

	jump := JUMP_NONE
	if before, after, ok := strings.Cut(text, ";"); ok {
		jump, err = jumpOf(after)
		if err != nil {
			return
		}
		text = before
	}

	if strings.ContainsAny(text, "=;") {
		err = ErrInstructionSyntax
		return
	}

	mem, comp, err := compOf(text)
	if err != nil {
		return
	}

	code = MakeCodeCompute(mem, comp, dest, jump)
	return
}

// line is a cleaned source line.
type line struct {
	lineno int
	text   string
}

// labelOf returns the label name if the statement is a label declaration.
func labelOf(text string) (label string, ok bool, err error) {
	if !strings.HasPrefix(text, "(") {
		return
	}

	ok = true
	if !strings.HasSuffix(text, ")") {
		err = ErrLabelSyntax
		return
	}

	label = strings.TrimSpace(text[1 : len(text)-1])
	if !validSymbol(label) {
		err = ErrSymbolInvalid
		return
	}

	return
}

// Parse assembles an input stream into a Program.
//
// The first pass records the address of every label; the second pass encodes
// every instruction, allocating variables in order of first appearance.
// On error no program is returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	clear(asm.Label)
	clear(asm.Variable)
	asm.Opcode = asm.Opcode[:0]
	asm.nextVariable = memory.STATIC
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}

	var lines []line
	for scanner.Scan() {
		lineno += 1
		text = scanner.Text()

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text, _, _ = strings.Cut(text, "//")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		lines = append(lines, line{lineno: lineno, text: text})
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass 1: labels.
	ip := 0
	for _, ln := range lines {
		lineno, text = ln.lineno, ln.text

		var label string
		var is_label bool
		label, is_label, err = labelOf(text)
		if err != nil {
			return
		}
		if !is_label {
			ip++
			continue
		}

		_, known := asm.lookup(label)
		if known {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = ip
	}

	if ip > memory.ROM_SIZE {
		err = ErrProgramTooLong
		return
	}

	// Pass 2: instructions.
	ip = 0
	for _, ln := range lines {
		lineno, text = ln.lineno, ln.text

		if strings.HasPrefix(text, "(") {
			continue
		}

		var code Code
		if operand, ok := strings.CutPrefix(text, "@"); ok {
			var value int
			value, err = asm.addressOf(strings.TrimSpace(operand))
			if err != nil {
				return
			}
			code = MakeCodeAddress(uint16(value))
		} else {
			code, err = parseCompute(text)
			if err != nil {
				return
			}
		}

		asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Ip: ip, Text: text, Codes: []Code{code}})
		ip++
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
