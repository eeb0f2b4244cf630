package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instructions.
type Opcode struct {
	LineNo int    // Source line number, 0 if unknown.
	Ip     int    // Address of the first generated instruction.
	Text   string // Source statement.
	Codes  []Code // Generated instructions.
}

// Program is a listing of opcodes, in address order.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode that generated the instruction at an address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the source location of the instruction at ip.
// The Opcode is nil if no opcode generated it.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() (count int) {
	for _, op := range prog.Opcodes {
		count += len(op.Codes)
	}
	return
}

// Binary returns the instruction words of the program, ready to load into the
// instruction memory.
func (prog *Program) Binary() (bins []uint16) {
	bins = make([]uint16, 0, prog.Len())
	for _, code := range prog.Codes() {
		bins = append(bins, uint16(code))
	}

	return
}

// Codes iterates over the address and instruction of every instruction.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for n, code := range op.Codes {
				if !yield(ip+uint16(n), code) {
					return
				}
			}
		}
	}
}

// WriteHack writes the program as .hack text, one 16 digit binary word per line.
func (prog *Program) WriteHack(output io.Writer) (err error) {
	w := bufio.NewWriter(output)
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintln(w, code.Binary())
		if err != nil {
			return
		}
	}

	err = w.Flush()
	return
}
