package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/hack/emulator"
	"github.com/ezrec/hack/memory"
	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	errQuit       = errors.New(f("quit"))
	errUsage      = errors.New(f("usage, try 'help'"))
	errUnknown    = errors.New(f("unknown command, try 'help'"))
	errBreakpoint = errors.New(f("no such breakpoint"))
	errReadOnly   = errors.New(f("address is read only"))
)

const helpText = `Commands:
  step [N]            Execute N steps (default 1)
  run [N]             Run N steps (default 1000000), or until halted
  break [BREAKPOINT]  Add a breakpoint, such as 'RAM[16]=3', or list them
  delete BREAKPOINT   Remove a breakpoint
  reset               Reset the CPU
  regs                Show the CPU state
  ram ADDR[:COUNT]    Show data memory
  poke ADDR VALUE     Write data memory
  key CODE            Set the keyboard (0 for no key)
  list [ADDR[:COUNT]] Show the program listing
  screen              Show the screen, one character per 8x8 pixels
  quit                Exit
`

// lineReader reads commands, one per line.
type lineReader interface {
	ReadLine() (line string, err error)
}

// scanLines reads lines from a non-terminal input.
type scanLines struct {
	*bufio.Scanner
}

func (sl scanLines) ReadLine() (line string, err error) {
	if !sl.Scan() {
		err = sl.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	line = sl.Text()
	return
}

// shell runs debugger commands on an emulator.
type shell struct {
	emu *emulator.Emulator
	out io.Writer
}

// interact runs the debugger on standard input until quit. A terminal is
// placed in raw mode, with line editing and history.
func interact(emu *emulator.Emulator) (err error) {
	var lines lineReader = scanLines{bufio.NewScanner(os.Stdin)}
	var out io.Writer = os.Stdout

	if isTerminal() {
		fd := int(os.Stdin.Fd())
		var state *term.State
		state, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer term.Restore(fd, state)

		screen := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		terminal := term.NewTerminal(screen, "hack> ")
		lines, out = terminal, terminal
	}

	sh := &shell{emu: emu, out: out}
	return sh.loop(lines)
}

// loop executes commands until the input ends or quit.
func (sh *shell) loop(lines lineReader) (err error) {
	sh.status()

	for {
		var line string
		line, err = lines.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		err = sh.command(line)
		if errors.Is(err, errQuit) {
			err = nil
			return
		}
		if err != nil {
			fmt.Fprint(sh.out, f("error: %v\n", err))
		}
	}
}

// number parses a decimal, 0x hexadecimal, or 0b binary number.
func number(text string) (value int, err error) {
	base := 10
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		base = 0
	}

	v64, err := strconv.ParseInt(text, base, 32)
	value = int(v64)
	return
}

// span parses ADDR[:COUNT], with COUNT defaulting to count.
func span(text string, count int) (addr int, n int, err error) {
	addrText, countText, ok := strings.Cut(text, ":")
	addr, err = number(addrText)
	if err != nil {
		return
	}
	n = count
	if ok {
		n, err = number(countText)
		if err != nil {
			return
		}
	}
	if addr < 0 || n < 0 || addr+n > memory.RAM_SIZE {
		err = errUsage
	}
	return
}

// optional parses an optional count argument.
func optional(args []string, count int) (n int, err error) {
	switch len(args) {
	case 0:
		n = count
	case 1:
		n, err = number(args[0])
	default:
		err = errUsage
	}
	return
}

// status shows the CPU state, and where in the program it is.
func (sh *shell) status() {
	emu := sh.emu

	fmt.Fprint(sh.out, emu.Cpu.String())
	fmt.Fprintf(sh.out, "%5s: %v", "state", emu.State())
	if emu.State() == emulator.STATE_HALTED {
		fmt.Fprintf(sh.out, " (%v)", emu.Reason())
	}
	fmt.Fprintf(sh.out, ", %d ticks\n", emu.Ticks())

	if state, ok := emu.RunState(); ok {
		file := emu.Vm.Files[state.FileIndex]
		cmd := state.Command(emu.Vm)
		fmt.Fprintf(sh.out, "%5s: %v:%d %v\n", "vm", file.Name, cmd.LineNo, cmd)
	} else if lineno := emu.LineNo(); lineno != 0 {
		fmt.Fprintf(sh.out, "%5s: line %d\n", "asm", lineno)
	}
}

// command executes a single debugger command.
func (sh *shell) command(line string) (err error) {
	emu := sh.emu

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	args := words[1:]

	switch words[0] {
	case "help", "?":
		fmt.Fprint(sh.out, helpText)
	case "quit", "exit", "q":
		err = errQuit
	case "step", "s":
		var n int
		n, err = optional(args, 1)
		if err != nil {
			return
		}
		for range n {
			if emu.Step() {
				break
			}
		}
		sh.status()
	case "run", "r":
		var n int
		n, err = optional(args, 1_000_000)
		if err != nil {
			return
		}
		emu.Run(n, nil)
		sh.status()
	case "break", "b":
		if len(args) == 0 {
			for _, bp := range emu.Breakpoints() {
				fmt.Fprintln(sh.out, bp)
			}
			return
		}
		var bp emulator.Breakpoint
		bp, err = emulator.ParseBreakpoint(strings.Join(args, ""))
		if err != nil {
			return
		}
		emu.AddBreakpoint(bp)
	case "delete", "d":
		var bp emulator.Breakpoint
		bp, err = emulator.ParseBreakpoint(strings.Join(args, ""))
		if err != nil {
			return
		}
		if !emu.RemoveBreakpoint(bp) {
			err = errBreakpoint
		}
	case "reset":
		emu.Reset()
		sh.status()
	case "regs":
		sh.status()
	case "ram", "m":
		if len(args) != 1 {
			err = errUsage
			return
		}
		var addr, n int
		addr, n, err = span(args[0], 1)
		if err != nil {
			return
		}
		for offset := range n {
			value := emu.Ram().Read(addr + offset)
			fmt.Fprintf(sh.out, "%5d: %04X (%d)\n", addr+offset, value, int16(value))
		}
	case "poke":
		if len(args) != 2 {
			err = errUsage
			return
		}
		var addr, value int
		addr, err = number(args[0])
		if err != nil {
			return
		}
		value, err = number(args[1])
		if err != nil {
			return
		}
		if addr < 0 || addr >= memory.RAM_SIZE {
			err = errUsage
			return
		}
		if !emu.Ram().Poke(addr, uint16(value)) {
			err = errReadOnly
		}
	case "key", "k":
		if len(args) != 1 {
			err = errUsage
			return
		}
		var code int
		code, err = number(args[0])
		if err != nil {
			return
		}
		emu.SetKeyboard(uint16(code))
	case "list", "l":
		addr, n := int(emu.Pc()), 8
		if len(args) == 1 {
			addr, n, err = span(args[0], n)
			if err != nil {
				return
			}
		}
		for pc, text := range emu.Listing() {
			if int(pc) < addr || int(pc) >= addr+n {
				continue
			}
			marker := " "
			if pc == emu.Pc() {
				marker = ">"
			}
			fmt.Fprintf(sh.out, "%v%5d: %v\n", marker, pc, text)
		}
	case "screen":
		sh.screen()
	default:
		err = errUnknown
	}

	return
}

// screen draws the screen, one character for each 8x8 block of pixels with
// any pixel lit.
func (sh *shell) screen() {
	ram := sh.emu.Ram()

	var text strings.Builder
	for y := 0; y < memory.SCREEN_ROWS; y += 8 {
		for x := 0; x < memory.SCREEN_COLUMNS; x += 8 {
			lit := false
			for dy := range 8 {
				for dx := range 8 {
					lit = lit || ram.Pixel(x+dx, y+dy)
				}
			}
			if lit {
				text.WriteByte('#')
			} else {
				text.WriteByte('.')
			}
		}
		text.WriteByte('\n')
	}

	fmt.Fprint(sh.out, text.String())
}
