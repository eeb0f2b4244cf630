package memory

import (
	"log"
)

// Ram is the data memory of the Hack computer.
type Ram struct {
	Verbose bool // Set to log rejected writes.

	contents [RAM_SIZE]uint16
}

// NewRam creates a cleared data memory.
func NewRam() (ram *Ram) {
	ram = &Ram{}
	return
}

// Reset clears all of memory, including the screen and keyboard.
func (ram *Ram) Reset() {
	clear(ram.contents[:])
}

// Read returns the word at an address.
func (ram *Ram) Read(addr int) uint16 {
	checkAddress("read", addr)
	return ram.contents[addr]
}

// Write stores a word on behalf of an executing program.
// Writes to the keyboard register are rejected, and return false.
func (ram *Ram) Write(addr int, value uint16) (ok bool) {
	checkAddress("write", addr)
	if addr == KBD {
		if ram.Verbose {
			log.Printf("memory: program write 0x%04x to keyboard rejected", value)
		}
		return false
	}

	ram.contents[addr] = value
	return true
}

// Poke stores a word on behalf of the host, for example an inspection grid
// editor. The keyboard register is only settable with SetKeyboard.
func (ram *Ram) Poke(addr int, value uint16) (ok bool) {
	checkAddress("poke", addr)
	if addr == KBD {
		return false
	}

	ram.contents[addr] = value
	return true
}

// SetKeyboard sets the code of the currently pressed key, 0 for none.
func (ram *Ram) SetKeyboard(code uint16) {
	ram.contents[KBD] = code
}

// Keyboard returns the code of the currently pressed key.
func (ram *Ram) Keyboard() uint16 {
	return ram.contents[KBD]
}

// Screen returns a view of the screen bitmap.
// Row r occupies words [r*SCREEN_ROW_LENGTH, (r+1)*SCREEN_ROW_LENGTH); the
// least significant bit of each word is the leftmost of its 16 pixels.
func (ram *Ram) Screen() []uint16 {
	return ram.contents[SCREEN : SCREEN+SCREEN_SIZE]
}

// Pixel reports whether the pixel at column x, row y is set.
func (ram *Ram) Pixel(x, y int) bool {
	if x < 0 || x >= SCREEN_COLUMNS || y < 0 || y >= SCREEN_ROWS {
		return false
	}

	word := ram.contents[SCREEN+y*SCREEN_ROW_LENGTH+x/16]
	return (word>>(x%16))&1 != 0
}

// Contents returns a view of the entire data memory.
func (ram *Ram) Contents() []uint16 {
	return ram.contents[:]
}
