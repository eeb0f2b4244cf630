// Package vm implements the stack virtual machine that compiles down to the
// Hack computer.
//
// A Program is a set of named files of VM commands, linked in the order they
// were added. Translate links the files into a single Hack assembly program,
// recording for every emitted instruction the VM command that produced it, so
// that a debugger can follow execution at the VM level.
//
// Memory layout of the translated program:
//
//	RAM[0]      SP    stack pointer, initially 256
//	RAM[1]      LCL   base of the local segment
//	RAM[2]      ARG   base of the argument segment
//	RAM[3]      THIS  base of the this segment (pointer 0)
//	RAM[4]      THAT  base of the that segment (pointer 1)
//	RAM[5-12]         temp segment
//	RAM[13-15]        scratch registers used by the translator
//	RAM[16-255]       static variables, one per (file, index)
//	RAM[256-2047]     stack
package vm
