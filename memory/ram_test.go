package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRam(t *testing.T) {
	assert := assert.New(t)

	ram := NewRam()

	assert.Equal(RAM_SIZE, len(ram.Contents()))
	assert.Equal(SCREEN_SIZE, len(ram.Screen()))
	assert.Equal(KBD, SCREEN+SCREEN_SIZE)

	assert.True(ram.Write(0, 5))
	assert.True(ram.Write(SCREEN, 0x8001))
	assert.Equal(uint16(5), ram.Read(0))
	assert.Equal(uint16(0x8001), ram.Screen()[0])
}

func TestRam_Keyboard(t *testing.T) {
	assert := assert.New(t)

	ram := NewRam()

	assert.False(ram.Write(KBD, 65))
	assert.Equal(uint16(0), ram.Keyboard())

	assert.False(ram.Poke(KBD, 65))
	assert.Equal(uint16(0), ram.Keyboard())

	ram.SetKeyboard(65)
	assert.Equal(uint16(65), ram.Keyboard())
	assert.Equal(uint16(65), ram.Read(KBD))

	ram.SetKeyboard(0)
	assert.Equal(uint16(0), ram.Read(KBD))
}

func TestRam_Pixel(t *testing.T) {
	assert := assert.New(t)

	ram := NewRam()

	ram.Write(SCREEN, 0x0001)
	ram.Write(SCREEN+SCREEN_ROW_LENGTH+1, 0x8000)

	assert.True(ram.Pixel(0, 0))
	assert.False(ram.Pixel(1, 0))
	assert.True(ram.Pixel(31, 1))
	assert.False(ram.Pixel(30, 1))
	assert.False(ram.Pixel(-1, 0))
	assert.False(ram.Pixel(0, SCREEN_ROWS))
}

func TestRam_Reset(t *testing.T) {
	assert := assert.New(t)

	ram := NewRam()
	ram.Write(100, 1)
	ram.SetKeyboard(32)

	ram.Reset()

	assert.Equal(uint16(0), ram.Read(100))
	assert.Equal(uint16(0), ram.Keyboard())
}

func TestRam_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	ram := NewRam()

	assert.Panics(func() { ram.Read(RAM_SIZE) })
	assert.Panics(func() { ram.Write(-1, 0) })
	assert.Panics(func() { ram.Poke(RAM_SIZE+1, 0) })
	assert.NotPanics(func() { ram.Read(ADDRESS_MASK) })
}

func TestRom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	err := rom.Load([]uint16{1, 2, 3})
	assert.NoError(err)
	assert.Equal(3, rom.Len())
	assert.Equal([]uint16{1, 2, 3}, rom.Words())
	assert.Equal(uint16(2), rom.Read(1))
	assert.Equal(uint16(0), rom.Read(3))

	err = rom.Load([]uint16{9})
	assert.NoError(err)
	assert.Equal(uint16(0), rom.Read(1))

	err = rom.Load(make([]uint16, ROM_SIZE+1))
	assert.ErrorIs(err, ErrRomOverflow)
	assert.Equal(1, rom.Len())

	assert.Panics(func() { rom.Read(ROM_SIZE) })
}
