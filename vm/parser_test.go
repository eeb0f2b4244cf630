package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommands(t *testing.T) {
	assert := assert.New(t)

	text := `
// Adds two constants.
push constant 7
push constant 8   // trailing comment
add
label LOOP
if-goto LOOP
function Main.main 2
call Math.max 2
return
pop pointer 1
push temp 7
`

	cmds, err := ParseCommands(strings.NewReader(text))
	assert.NoError(err)

	expected := []Command{
		{Op: OP_PUSH, Segment: SEG_CONSTANT, Index: 7, LineNo: 3},
		{Op: OP_PUSH, Segment: SEG_CONSTANT, Index: 8, LineNo: 4},
		{Op: OP_ADD, LineNo: 5},
		{Op: OP_LABEL, Name: "LOOP", LineNo: 6},
		{Op: OP_IF_GOTO, Name: "LOOP", LineNo: 7},
		{Op: OP_FUNCTION, Name: "Main.main", Index: 2, LineNo: 8},
		{Op: OP_CALL, Name: "Math.max", Index: 2, LineNo: 9},
		{Op: OP_RETURN, LineNo: 10},
		{Op: OP_POP, Segment: SEG_POINTER, Index: 1, LineNo: 11},
		{Op: OP_PUSH, Segment: SEG_TEMP, Index: 7, LineNo: 12},
	}
	assert.Equal(expected, cmds)
}

func TestCommand_String(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"push constant 7",
		"pop local 3",
		"push static 12",
		"neg",
		"eq",
		"label LOOP_START",
		"goto END",
		"if-goto Main.loop",
		"function Sys.init 0",
		"call Output.printInt 1",
		"return",
	}

	for _, text := range table {
		cmds, err := ParseCommands(strings.NewReader(text))
		if !assert.NoError(err, text) {
			continue
		}
		assert.Equal(1, len(cmds))
		assert.Equal(text, cmds[0].String())
	}
}

func TestParseCommands_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text   string
		lineno int
		err    error
	}{
		{"jump 3", 1, ErrCommandInvalid},
		{"push constant", 1, ErrArgumentCount},
		{"add 1", 1, ErrArgumentCount},
		{"push constant 1\nreturn 0", 2, ErrArgumentCount},
		{"push heap 0", 1, ErrSegmentInvalid},
		{"pop constant 0", 1, ErrSegmentInvalid},
		{"push pointer 2", 1, ErrIndexInvalid},
		{"pop temp 8", 1, ErrIndexInvalid},
		{"push constant 32768", 1, ErrIndexInvalid},
		{"push constant -1", 1, ErrIndexInvalid},
		{"push local x", 1, ErrIndexInvalid},
		{"function 1main 0", 1, ErrNameInvalid},
		{"label a-b", 1, ErrNameInvalid},
		{"goto $halt", 1, ErrNameInvalid},
		{"call f many", 1, ErrIndexInvalid},
	}

	for _, entry := range table {
		cmds, err := ParseCommands(strings.NewReader(entry.text))
		assert.Nil(cmds, entry.text)
		assert.ErrorIs(err, entry.err, entry.text)

		var load *ErrLoad
		if assert.True(errors.As(err, &load), entry.text) {
			assert.Equal(entry.lineno, load.LineNo, entry.text)
		}
	}
}
