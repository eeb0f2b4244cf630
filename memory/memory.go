// Package memory implements the data and instruction memories of the Hack
// computer.
//
// The data memory (Ram) is a single 15-bit address space of 16-bit words.
// The screen and the keyboard are memory mapped into it: the screen is a
// 256 x 512 one-bit bitmap packed 16 pixels to the word, and the keyboard is a
// single word holding the code of the key currently pressed. The instruction
// memory (Rom) holds the loaded program, one instruction word per address.
package memory

import (
	"fmt"
)

const (
	ADDRESS_BITS = 15                  // Width of a memory address.
	ADDRESS_MASK = 1<<ADDRESS_BITS - 1 // Mask of a valid memory address.

	RAM_SIZE = 1 << ADDRESS_BITS // Words of data memory.
	ROM_SIZE = 1 << ADDRESS_BITS // Words of instruction memory.

	SCREEN            = 0x4000 // Base of the screen bitmap.
	SCREEN_ROWS       = 256    // Visible rows.
	SCREEN_COLUMNS    = 512    // Visible pixels per row.
	SCREEN_ROW_LENGTH = 32     // Words per visible row.
	SCREEN_SIZE       = SCREEN_ROWS * SCREEN_ROW_LENGTH

	KBD = 0x6000 // Keyboard register.
)

// Virtual machine register conventions.
const (
	SP   = 0 // Stack pointer.
	LCL  = 1 // Base of the local segment.
	ARG  = 2 // Base of the argument segment.
	THIS = 3 // Base of the this segment.
	THAT = 4 // Base of the that segment.

	TEMP      = 5  // Base of the temp segment.
	TEMP_SIZE = 8  // Words in the temp segment.
	GENERAL   = 13 // First of the three scratch registers R13..R15.

	STATIC = 16   // First variable / static slot.
	STACK  = 256  // Initial stack pointer.
	HEAP   = 2048 // Base of the heap.
)

// checkAddress panics on an address outside of the 15-bit address space.
// Such an address can only come from the host, never from a running program.
func checkAddress(what string, addr int) {
	if addr < 0 || addr >= RAM_SIZE {
		panic(fmt.Sprintf("memory: %v address %d out of range [0, %d)", what, addr, RAM_SIZE))
	}
}
