package cpu

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doAssemble(t *testing.T, program []string) (prog *Program, err error) {
	asm := &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	symbols := maps.Collect(asm.Symbols())
	assert.Equal(0, symbols["R0"])
	assert.Equal(15, symbols["R15"])
	assert.Equal(0, symbols["SP"])
	assert.Equal(4, symbols["THAT"])
	assert.Equal(16384, symbols["SCREEN"])
	assert.Equal(24576, symbols["KBD"])
}

func TestAssembler_Add(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"// Computes R0 = 2 + 3",
		"",
		"   @2",
		"   D=A",
		"   @3",
		"   D = D + A   // spaces are fine",
		"   @0",
		"   M=D",
	}

	prog, err := doAssemble(t, program)
	assert.NoError(err)

	expected := []Opcode{
		{3, 0, "@2", []Code{0b0000_0000_0000_0010}},
		{4, 1, "D=A", []Code{0b1110_1100_0001_0000}},
		{5, 2, "@3", []Code{0b0000_0000_0000_0011}},
		{6, 3, "D = D + A", []Code{0b1110_0000_1001_0000}},
		{7, 4, "@0", []Code{0b0000_0000_0000_0000}},
		{8, 5, "M=D", []Code{0b1110_0011_0000_1000}},
	}

	assert.Equal(expected, prog.Opcodes)
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"@END",
		"0;JMP",
		"(LOOP)",
		"@LOOP",
		"D;JGT",
		"(END)",
		"@END",
		"0;JMP",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(2, asm.Label["LOOP"])
	assert.Equal(4, asm.Label["END"])
	assert.Equal(6, prog.Len())
	assert.Equal([]uint16{4, 0b1110_1010_1000_0111, 2, 0b1110_0011_0000_0001, 4, 0b1110_1010_1000_0111}, prog.Binary())
}

func TestAssembler_Variables(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"@i",
		"M=1",
		"@sum",
		"M=0",
		"@i",
		"D=M",
		"@LOOP",
		"0;JMP",
		"(LOOP)",
		"@j",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(map[string]int{"i": 16, "sum": 17, "j": 18}, asm.Variable)
	assert.Equal(uint16(16), prog.Binary()[0])
	assert.Equal(uint16(17), prog.Binary()[2])
	assert.Equal(uint16(16), prog.Binary()[4])
	assert.Equal(uint16(8), prog.Binary()[6])
	assert.Equal(uint16(18), prog.Binary()[8])
}

func TestAssembler_Deterministic(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"@counter", "M=0",
		"(LOOP)", "@counter", "MD=M+1",
		"@other", "M=D",
		"@LOOP", "D;JNE",
	}

	asm := &Assembler{}
	first, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	// Same assembler, reused.
	second, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	// Fresh assembler.
	third, err := doAssemble(t, program)
	assert.NoError(err)

	assert.Equal(first.Binary(), second.Binary())
	assert.Equal(first.Binary(), third.Binary())
}

func TestAssembler_CompTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		word uint16
	}){
		{"0", 0b1110_1010_1000_0000},
		{"1", 0b1110_1111_1100_0000},
		{"-1", 0b1110_1110_1000_0000},
		{"D", 0b1110_0011_0000_0000},
		{"A", 0b1110_1100_0000_0000},
		{"M", 0b1111_1100_0000_0000},
		{"!D", 0b1110_0011_0100_0000},
		{"!A", 0b1110_1100_0100_0000},
		{"!M", 0b1111_1100_0100_0000},
		{"-D", 0b1110_0011_1100_0000},
		{"-A", 0b1110_1100_1100_0000},
		{"-M", 0b1111_1100_1100_0000},
		{"D+1", 0b1110_0111_1100_0000},
		{"A+1", 0b1110_1101_1100_0000},
		{"M+1", 0b1111_1101_1100_0000},
		{"D-1", 0b1110_0011_1000_0000},
		{"A-1", 0b1110_1100_1000_0000},
		{"M-1", 0b1111_1100_1000_0000},
		{"D+A", 0b1110_0000_1000_0000},
		{"A+D", 0b1110_0000_1000_0000},
		{"D+M", 0b1111_0000_1000_0000},
		{"D-A", 0b1110_0100_1100_0000},
		{"D-M", 0b1111_0100_1100_0000},
		{"A-D", 0b1110_0001_1100_0000},
		{"M-D", 0b1111_0001_1100_0000},
		{"D&A", 0b1110_0000_0000_0000},
		{"D&M", 0b1111_0000_0000_0000},
		{"M&D", 0b1111_0000_0000_0000},
		{"D|A", 0b1110_0101_0100_0000},
		{"D|M", 0b1111_0101_0100_0000},
		{"#100000", 0b1110_1000_0000_0000},
		{"#M000001", 0b1111_0000_0100_0000},
	}

	for _, entry := range table {
		prog, err := doAssemble(t, []string{entry.text})
		if !assert.NoError(err, entry.text) {
			continue
		}
		assert.Equal([]uint16{entry.word}, prog.Binary(), entry.text)
	}
}

func TestAssembler_DestJump(t *testing.T) {
	assert := assert.New(t)

	prog, err := doAssemble(t, []string{"MD=1", "DM=1", "AMD=0;JMP", "D;JLE", "A=!M;JNE"})
	assert.NoError(err)

	var texts []string
	for _, code := range prog.Codes() {
		texts = append(texts, code.String())
	}
	assert.Equal([]string{"MD=1", "MD=1", "AMD=0;JMP", "D;JLE", "A=!M;JNE"}, texts)
}

func TestAssembler_Disassemble(t *testing.T) {
	assert := assert.New(t)

	// Every canonical instruction's text assembles back to itself.
	for word := range 1 << 16 {
		code := Code(word)
		if code.Class() == OP_COMPUTE && code.Spare() != 0b11 {
			continue
		}
		prog, err := doAssemble(t, []string{code.String()})
		if !assert.NoError(err, code.String()) {
			return
		}
		if !assert.Equal([]uint16{uint16(word)}, prog.Binary(), code.String()) {
			return
		}
	}
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("ROWS", 256)
	program := []string{
		"@$(SCREEN + 32*2)",
		"@$(ROWS - 1)",
		"(HERE)",
		"@$(HERE + 1)",
		"@ROWS",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal([]uint16{16384 + 64, 255, 3, 256}, prog.Binary())

	_, err = asm.Parse(strings.NewReader("@$(SCREEN +)"))
	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))

	_, err = asm.Parse(strings.NewReader("@$(-1)"))
	assert.ErrorIs(err, ErrAddressRange)
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"dup-label", []string{"(A1)", "@0", "(A1)"}, 3, ErrLabelDuplicate},
		{"sys-label", []string{"(SCREEN)"}, 1, ErrLabelDuplicate},
		{"label-syntax", []string{"(LOOP"}, 1, ErrLabelSyntax},
		{"label-name", []string{"(1LOOP)"}, 1, ErrSymbolInvalid},
		{"address-missing", []string{"@"}, 1, ErrAddressMissing},
		{"address-range", []string{"@32768"}, 1, ErrAddressRange},
		{"address-negative", []string{"@-1"}, 1, ErrAddressRange},
		{"symbol", []string{"@a+b"}, 1, ErrSymbolInvalid},
		{"comp", []string{"D=D*A"}, 1, ErrCompInvalid},
		{"comp-missing", []string{"D="}, 1, ErrCompMissing},
		{"dest", []string{"X=1"}, 1, ErrDestInvalid},
		{"dest-repeat", []string{"DD=1"}, 1, ErrDestInvalid},
		{"jump", []string{"0;JXX"}, 1, ErrJumpInvalid},
		{"syntax", []string{"@0", "D=1;JMP;JMP"}, 2, ErrJumpInvalid},
		{"syntax-eq", []string{"A=D=1"}, 1, ErrInstructionSyntax},
	}

	for _, entry := range table {
		prog, err := doAssemble(t, entry.program)
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}

	var number ErrParseNumber
	_, err := doAssemble(t, []string{"@12z"})
	assert.True(errors.As(err, &number))
}
