package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	type inputs struct {
		x, y int16
	}
	samples := []inputs{
		{0, 0},
		{5, 3},
		{3, 5},
		{-7, 2},
		{32767, 1},
		{1, 32767},
		{-32768, 1},
		{0x0f0f, 0x00ff},
	}

	table := [](struct {
		comp CodeComp
		fn   func(x, y int16) int16
	}){
		{COMP_ZERO, func(x, y int16) int16 { return 0 }},
		{COMP_ONE, func(x, y int16) int16 { return 1 }},
		{COMP_NEG_ONE, func(x, y int16) int16 { return -1 }},
		{COMP_D, func(x, y int16) int16 { return x }},
		{COMP_Y, func(x, y int16) int16 { return y }},
		{COMP_NOT_D, func(x, y int16) int16 { return ^x }},
		{COMP_NOT_Y, func(x, y int16) int16 { return ^y }},
		{COMP_NEG_D, func(x, y int16) int16 { return -x }},
		{COMP_NEG_Y, func(x, y int16) int16 { return -y }},
		{COMP_D_PLUS_1, func(x, y int16) int16 { return x + 1 }},
		{COMP_Y_PLUS_1, func(x, y int16) int16 { return y + 1 }},
		{COMP_D_MINUS_1, func(x, y int16) int16 { return x - 1 }},
		{COMP_Y_MINUS_1, func(x, y int16) int16 { return y - 1 }},
		{COMP_D_PLUS_Y, func(x, y int16) int16 { return x + y }},
		{COMP_D_MINUS_Y, func(x, y int16) int16 { return x - y }},
		{COMP_Y_MINUS_D, func(x, y int16) int16 { return y - x }},
		{COMP_D_AND_Y, func(x, y int16) int16 { return x & y }},
		{COMP_D_OR_Y, func(x, y int16) int16 { return x | y }},
	}

	for _, entry := range table {
		name := entry.comp.Mnemonic(false)
		for _, in := range samples {
			expected := entry.fn(in.x, in.y)
			out, zr, ng := Alu(entry.comp, uint16(in.x), uint16(in.y))
			assert.Equal(expected, int16(out), "%v x=%d y=%d", name, in.x, in.y)
			assert.Equal(expected == 0, zr, "%v zr", name)
			assert.Equal(expected < 0, ng, "%v ng", name)
		}
	}
}

func TestAlu_Wraparound(t *testing.T) {
	assert := assert.New(t)

	out, zr, ng := Alu(COMP_D_PLUS_1, 32767, 0)
	assert.Equal(int16(-32768), int16(out))
	assert.False(zr)
	assert.True(ng)

	out, _, _ = Alu(COMP_D_PLUS_Y, 32767, 1)
	assert.Equal(int16(-32768), int16(out))

	out, _, _ = Alu(COMP_Y_MINUS_1, 0, 0x8000)
	assert.Equal(int16(32767), int16(out))

	out, zr, _ = Alu(COMP_D_PLUS_Y, 0xffff, 1)
	assert.Equal(uint16(0), out)
	assert.True(zr)
}

func TestAlu_Total(t *testing.T) {
	assert := assert.New(t)

	// Every selector, canonical or not, has a defined result.
	for comp := range CodeComp(64) {
		assert.NotPanics(func() { Alu(comp, 0x1234, 0xfedc) })
	}

	// zx nx zy ny f no = 100000: x=0, y=y, x&y
	out, _, _ := Alu(CodeComp(0b100000), 0x1234, 0xfedc)
	assert.Equal(uint16(0), out)

	// 000001: !(x&y)
	out, _, _ = Alu(CodeComp(0b000001), 0x00ff, 0x0f0f)
	assert.Equal(uint16(0xfff0), out)
}

func TestCodeJump_Taken(t *testing.T) {
	assert := assert.New(t)

	type class struct {
		name   string
		zr, ng bool
	}
	neg := class{"negative", false, true}
	zero := class{"zero", true, false}
	pos := class{"positive", false, false}

	table := [](struct {
		jump  CodeJump
		taken []class
	}){
		{JUMP_NONE, nil},
		{JUMP_JGT, []class{pos}},
		{JUMP_JEQ, []class{zero}},
		{JUMP_JGE, []class{zero, pos}},
		{JUMP_JLT, []class{neg}},
		{JUMP_JNE, []class{neg, pos}},
		{JUMP_JLE, []class{neg, zero}},
		{JUMP_JMP, []class{neg, zero, pos}},
	}

	for _, entry := range table {
		for _, c := range []class{neg, zero, pos} {
			expected := false
			for _, taken := range entry.taken {
				if taken == c {
					expected = true
				}
			}
			assert.Equal(expected, entry.jump.Taken(c.zr, c.ng), "%v %v", entry.jump, c.name)
		}
	}
}
