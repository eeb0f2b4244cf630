package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for _, seed := range []uint16{0, 0x7fff, 0x8000, 0xec10, 0xfc88, 0xffff} {
		f.Add(seed, uint16(0), uint16(0), uint16(0))
		f.Add(seed, uint16(0x7fff), uint16(0xffff), uint16(0x8000))
	}

	f.Fuzz(func(t *testing.T, opcode uint16, a uint16, d uint16, m uint16) {
		assert := assert.New(t)

		code := Code(opcode)
		assert.Equal(code, code.Decode().Encode())

		cpu := NewCpu()
		cpu.Pc = 0x1ab
		cpu.A = a
		cpu.D = d
		cpu.Ram.Write(int(a&0x7fff), m)
		m = cpu.Ram.Read(int(a & 0x7fff)) // The keyboard is not writable.

		assert.NotPanics(func() { cpu.Execute(code) })

		switch code.Class() {
		case OP_ADDRESS:
			assert.Equal(code.Address(), cpu.A)
			assert.Equal(d, cpu.D)
			assert.Equal(uint16(0x1ac), cpu.Pc)
		case OP_COMPUTE:
			y := a
			if code.Memory() {
				y = m
			}
			out, zr, ng := Alu(code.Comp(), d, y)

			if code.Dest()&DEST_D != 0 {
				assert.Equal(out, cpu.D)
			} else {
				assert.Equal(d, cpu.D)
			}
			if code.Dest()&DEST_A != 0 {
				assert.Equal(out, cpu.A)
			} else {
				assert.Equal(a, cpu.A)
			}
			if code.Jump().Taken(zr, ng) {
				assert.Equal(a&0x7fff, cpu.Pc)
			} else {
				assert.Equal(uint16(0x1ac), cpu.Pc)
			}
		}
	})
}
