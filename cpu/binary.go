package cpu

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"

	"github.com/ezrec/hack/memory"
)

// ParseWords creates a program from instruction words already in memory.
func ParseWords(words []uint16) (prog *Program, err error) {
	if len(words) > memory.ROM_SIZE {
		err = ErrProgramTooLong
		return
	}

	prog = &Program{Opcodes: make([]Opcode, 0, len(words))}
	for ip, word := range words {
		code := Code(word)
		prog.Opcodes = append(prog.Opcodes, Opcode{
			Ip:    ip,
			Text:  code.String(),
			Codes: []Code{code},
		})
	}

	return
}

// ParseBinary creates a program from raw big-endian 16-bit words.
func ParseBinary(data []byte) (prog *Program, err error) {
	if len(data)%2 != 0 {
		err = ErrBinaryLength
		return
	}

	words := make([]uint16, len(data)/2)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(data[n*2:])
	}

	return ParseWords(words)
}

// ParseHack creates a program from .hack text: one instruction per line,
// written as 16 binary digits.
func ParseHack(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if len(line) != 16 {
			err = ErrBinaryWidth
			return
		}

		var word uint16
		for _, c := range line {
			switch c {
			case '0':
				word <<= 1
			case '1':
				word = word<<1 | 1
			default:
				err = ErrBinaryDigit
				return
			}
		}

		if len(prog.Opcodes) >= memory.ROM_SIZE {
			err = ErrProgramTooLong
			return
		}

		code := Code(word)
		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: lineno,
			Ip:     len(prog.Opcodes),
			Text:   code.String(),
			Codes:  []Code{code},
		})
	}

	err = scanner.Err()
	return
}
