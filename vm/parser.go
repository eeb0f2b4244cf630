package vm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

var opMap = map[string]CommandOp{}

var segmentMap = map[string]Segment{}

func init() {
	for n, name := range opName {
		opMap[name] = CommandOp(n)
	}
	for n, name := range segmentName[1:] {
		segmentMap[name] = Segment(n + 1)
	}
}

// validName returns true if name is a legal label or function name: letters,
// digits, and any of '_.:', not starting with a digit.
func validName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for n, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '_', c == '.', c == ':':
		case c >= '0' && c <= '9' && n > 0:
		default:
			return false
		}
	}
	return true
}

// parseIndex parses a non-negative decimal index.
func parseIndex(word string) (index int, err error) {
	v64, err := strconv.ParseUint(word, 10, 15)
	if err != nil {
		err = ErrIndexInvalid
		return
	}
	index = int(v64)
	return
}

// segmentLimit is the number of addressable words in the fixed segments.
var segmentLimit = map[Segment]int{
	SEG_POINTER: 2,
	SEG_TEMP:    8,
}

// parseWords parses the words of a single command.
func parseWords(words []string) (cmd Command, err error) {
	op, ok := opMap[words[0]]
	if !ok {
		err = ErrCommandInvalid
		return
	}

	if len(words)-1 != op.args() {
		err = ErrArgumentCount
		return
	}

	cmd.Op = op

	switch op {
	case OP_PUSH, OP_POP:
		seg, ok := segmentMap[words[1]]
		if !ok {
			err = ErrSegmentInvalid
			return
		}
		if op == OP_POP && seg == SEG_CONSTANT {
			err = ErrSegmentInvalid
			return
		}
		cmd.Segment = seg
		cmd.Index, err = parseIndex(words[2])
		if err != nil {
			return
		}
		limit, ok := segmentLimit[seg]
		if ok && cmd.Index >= limit {
			err = ErrIndexInvalid
			return
		}
	case OP_FUNCTION, OP_CALL:
		if !validName(words[1]) {
			err = ErrNameInvalid
			return
		}
		cmd.Name = words[1]
		cmd.Index, err = parseIndex(words[2])
		if err != nil {
			return
		}
	case OP_LABEL, OP_GOTO, OP_IF_GOTO:
		if !validName(words[1]) {
			err = ErrNameInvalid
			return
		}
		cmd.Name = words[1]
	}

	return
}

// ParseCommands parses an input stream of VM commands.
// Errors are *ErrLoad, with the file name left empty.
func ParseCommands(input io.Reader) (cmds []Command, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			cmds = nil
			err = &ErrLoad{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno += 1
		line, _, _ = strings.Cut(scanner.Text(), "//")
		line = strings.TrimSpace(line)

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		var cmd Command
		cmd, err = parseWords(words)
		if err != nil {
			return
		}
		cmd.LineNo = lineno

		cmds = append(cmds, cmd)
	}

	err = scanner.Err()
	return
}
