package emulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/memory"
)

// BreakpointVar is the machine variable a breakpoint watches.
type BreakpointVar int

const (
	BREAK_A   = BreakpointVar(iota) // A
	BREAK_D                         // D
	BREAK_PC                        // PC
	BREAK_RAM                       // RAM
)

var breakpointVarName = []string{"A", "D", "PC", "RAM"}

func (bv BreakpointVar) String() string {
	if bv < 0 || int(bv) >= len(breakpointVarName) {
		return fmt.Sprintf("BreakpointVar(%d)", int(bv))
	}
	return breakpointVarName[bv]
}

// Breakpoint halts the emulator when a variable holds a value.
type Breakpoint struct {
	Var     BreakpointVar
	Address uint16 // Data memory address, for BREAK_RAM.
	Value   uint16
}

// DefaultBreakpoint is the breakpoint offered when none is chosen.
var DefaultBreakpoint = Breakpoint{Var: BREAK_A, Value: 0}

func (bp Breakpoint) String() string {
	if bp.Var == BREAK_RAM {
		return fmt.Sprintf("RAM[%d]=%d", bp.Address, bp.Value)
	}
	return fmt.Sprintf("%v=%d", bp.Var, bp.Value)
}

// Match returns true if the breakpoint's variable holds its value.
func (bp Breakpoint) Match(core *cpu.Cpu) bool {
	var value uint16
	switch bp.Var {
	case BREAK_A:
		value = core.A
	case BREAK_D:
		value = core.D
	case BREAK_PC:
		value = core.Pc
	case BREAK_RAM:
		value = core.Ram.Read(int(bp.Address & memory.ADDRESS_MASK))
	default:
		return false
	}
	return value == bp.Value
}

// parseNumber parses a decimal, 0x hexadecimal, or 0b binary number.
func parseNumber(text string) (value int64, err error) {
	base := 10
	digits := text
	negative := false
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		negative = true
		digits = rest
	}
	lower := strings.ToLower(digits)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		base = 0
	}

	value, err = strconv.ParseInt(digits, base, 32)
	if negative {
		value = -value
	}
	return
}

// ParseBreakpoint parses the text form of a breakpoint, such as "A=0",
// "PC=0x10" or "RAM[16]=-1".
func ParseBreakpoint(text string) (bp Breakpoint, err error) {
	name, valueText, ok := strings.Cut(strings.ReplaceAll(text, " ", ""), "=")
	if !ok || len(name) == 0 || len(valueText) == 0 {
		err = ErrBreakpointSyntax
		return
	}

	name = strings.ToUpper(name)
	switch {
	case name == "A":
		bp.Var = BREAK_A
	case name == "D":
		bp.Var = BREAK_D
	case name == "PC":
		bp.Var = BREAK_PC
	case strings.HasPrefix(name, "RAM["):
		addrText, ok := strings.CutSuffix(name[len("RAM["):], "]")
		if !ok {
			err = ErrBreakpointSyntax
			return
		}
		var addr int64
		addr, err = parseNumber(addrText)
		if err != nil {
			err = ErrBreakpointSyntax
			return
		}
		if addr < 0 || addr >= memory.RAM_SIZE {
			err = ErrBreakpointValue
			return
		}
		bp.Var = BREAK_RAM
		bp.Address = uint16(addr)
	default:
		err = ErrBreakpointVar
		return
	}

	value, err := parseNumber(valueText)
	if err != nil {
		err = ErrBreakpointSyntax
		return
	}
	if value < -0x8000 || value > 0xffff {
		err = ErrBreakpointValue
		return
	}
	if bp.Var == BREAK_PC && value > memory.ADDRESS_MASK {
		err = ErrBreakpointValue
		return
	}
	bp.Value = uint16(value)

	return
}
