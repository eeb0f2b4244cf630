package memory

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	ErrRomOverflow = errors.New(f("program exceeds instruction memory"))
)

// Rom is the instruction memory of the Hack computer.
type Rom struct {
	words  [ROM_SIZE]uint16
	length int
}

// Load replaces the contents of the instruction memory.
// Addresses past the end of the program read as zero.
func (rom *Rom) Load(words []uint16) (err error) {
	if len(words) > ROM_SIZE {
		err = ErrRomOverflow
		return
	}

	clear(rom.words[:])
	copy(rom.words[:], words)
	rom.length = len(words)

	return
}

// Read returns the instruction word at a program counter value.
func (rom *Rom) Read(pc int) uint16 {
	checkAddress("fetch", pc)
	return rom.words[pc]
}

// Len is the length of the loaded program.
func (rom *Rom) Len() int {
	return rom.length
}

// Words returns a view of the loaded program.
func (rom *Rom) Words() []uint16 {
	return rom.words[:rom.length]
}
