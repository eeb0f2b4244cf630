// Package cpu implements the processor and assembler for the Hack computer.
//
// The CPU consists of a 15-bit program counter (PC), a 16-bit address
// register (A), a 16-bit data register (D) and an ALU. Instructions are
// fetched from the instruction memory and operate on the data memory, both
// provided by the memory package.
//
// There are two kinds of instruction. An address instruction (top bit clear)
// loads its 15-bit immediate into A. A compute instruction (top bit set)
// selects an ALU function of D and either A or the memory cell addressed by
// A, stores the result in any of A, D and M, and optionally jumps to the
// address in A depending on the sign of the result.
//
// The assembler translates the symbolic Hack assembly language, with labels,
// variables and compile-time expressions, into a Program.
package cpu
