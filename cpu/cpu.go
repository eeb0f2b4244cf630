package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/hack/memory"
)

// Cpu is the simulation context for the Hack processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ram *memory.Ram // Data memory, with screen and keyboard.
	Rom *memory.Rom // Instruction memory.

	Pc uint16 // Program counter.
	A  uint16 // Address register.
	D  uint16 // Data register.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with cleared memories.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Ram: memory.NewRam(),
		Rom: &memory.Rom{},
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "d", "m", "code"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%04X (%d)", cpu.A, int16(cpu.A))
		case "d":
			strval = fmt.Sprintf("%04X (%d)", cpu.D, int16(cpu.D))
		case "m":
			val := cpu.M()
			strval = fmt.Sprintf("%04X (%d)", val, int16(val))
		case "code":
			strval = cpu.FetchCode().String()
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and the program counter.
// - Clears the data memory, including screen and keyboard.
// - Zeros the ticks counter.
//
// The instruction memory is left loaded.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.A = 0
	cpu.D = 0
	cpu.Ticks = 0
	cpu.Ram.Reset()
}

// M returns the memory cell currently addressed by A.
func (cpu *Cpu) M() uint16 {
	return cpu.Ram.Read(int(cpu.A & memory.ADDRESS_MASK))
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() Code {
	return Code(cpu.Rom.Read(int(cpu.Pc & memory.ADDRESS_MASK)))
}

// Tick executes a single CPU instruction cycle.
// Returns true if the instruction was the halt convention.
func (cpu *Cpu) Tick() (halted bool) {
	return cpu.Execute(cpu.FetchCode())
}

// Execute executes a single decoded instruction.
//
// A compute instruction stores to M using the address in A from before the
// instruction, and jumps to that same address. Returns true if the
// instruction is an unconditional jump to a fixed point of execution: either
// a jump to itself, or a jump back to an address instruction loading its own
// address, with no destination written.
func (cpu *Cpu) Execute(code Code) (halted bool) {
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, code)
	}

	cpu.Ticks += 1

	if code.Class() == OP_ADDRESS {
		cpu.A = code.Address()
		cpu.Pc = (cpu.Pc + 1) & memory.ADDRESS_MASK
		return
	}

	addr := cpu.A & memory.ADDRESS_MASK

	y := cpu.A
	if code.Memory() {
		y = cpu.Ram.Read(int(addr))
	}

	out, zr, ng := Alu(code.Comp(), cpu.D, y)

	dest := code.Dest()
	if dest&DEST_M != 0 {
		cpu.Ram.Write(int(addr), out)
	}
	if dest&DEST_D != 0 {
		cpu.D = out
	}
	if dest&DEST_A != 0 {
		cpu.A = out
	}

	jump := code.Jump()
	next_pc := (cpu.Pc + 1) & memory.ADDRESS_MASK
	if jump.Taken(zr, ng) {
		next_pc = addr
		if jump == JUMP_JMP && dest == DEST_NONE {
			halted = cpu.isFixedPoint(addr)
		}
	}

	cpu.Pc = next_pc

	return
}

// isFixedPoint returns true if jumping to target from the current program
// counter loops without changing any state.
func (cpu *Cpu) isFixedPoint(target uint16) bool {
	if target == cpu.Pc {
		return true
	}

	if target+1 != cpu.Pc {
		return false
	}

	prior := Code(cpu.Rom.Read(int(target)))
	return prior.Class() == OP_ADDRESS && prior.Address() == target
}

// Alu evaluates the ALU function comp of x (the D register) and y (A or M).
// Arithmetic is 16-bit two's complement, and silently wraps. The output's
// zero (zr) and negative (ng) flags drive the jump condition.
func Alu(comp CodeComp, x, y uint16) (out uint16, zr, ng bool) {
	if comp&0b100000 != 0 { // zx
		x = 0
	}
	if comp&0b010000 != 0 { // nx
		x = ^x
	}
	if comp&0b001000 != 0 { // zy
		y = 0
	}
	if comp&0b000100 != 0 { // ny
		y = ^y
	}
	if comp&0b000010 != 0 { // f
		out = x + y
	} else {
		out = x & y
	}
	if comp&0b000001 != 0 { // no
		out = ^out
	}

	zr = out == 0
	ng = out&0x8000 != 0

	return
}
