// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/memory"
	"github.com/ezrec/hack/vm"
)

// State is the execution state of the emulator.
type State int32

const (
	STATE_STOPPED = State(iota) // stopped
	STATE_RUNNING               // running
	STATE_HALTED                // halted
)

var stateName = []string{"stopped", "running", "halted"}

func (state State) String() string {
	if state < 0 || int(state) >= len(stateName) {
		return "unknown"
	}
	return stateName[state]
}

// HaltReason is why the emulator entered STATE_HALTED.
type HaltReason int32

const (
	HALT_NONE       = HaltReason(iota) // none
	HALT_PROGRAM                       // program
	HALT_BREAKPOINT                    // breakpoint
)

var haltReasonName = []string{"none", "program", "breakpoint"}

func (reason HaltReason) String() string {
	if reason < 0 || int(reason) >= len(haltReasonName) {
		return "unknown"
	}
	return haltReasonName[reason]
}

// noKey marks an empty pending keyboard code.
const noKey = -1

// Emulator state. CPU + loaded program + breakpoints.
//
// The lock is held while the CPU executes.
//
// Run, Step, Reset and Load must be called from a single scheduling
// goroutine; Pause, SetKeyboard, State and Reason are safe from any
// goroutine.
type Emulator struct {
	Verbose bool           // If set, enables verbose logging.
	Cpu     *cpu.Cpu       // Reference to the CPU simulation.
	Program *cpu.Program   // Listing of the loaded program.
	Vm      *vm.Program    // VM source of the loaded program, if any.
	Build   *vm.Build      // Translation of Vm, if any.
	Defines map[string]int // Symbols predefined for assembly sources.

	lock        sync.Mutex
	breakpoints []Breakpoint
	state       atomic.Int32
	reason      atomic.Int32
	pause       atomic.Bool
	keyboard    atomic.Int32
}

// NewEmulator creates a new emulator, loaded with the demonstration program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}
	emu.keyboard.Store(noKey)

	prog, err := cpu.ParseWords(DemoProgram)
	if err != nil {
		panic(err)
	}
	emu.install(prog, nil, nil)

	return
}

// install replaces the active program and resets the CPU.
func (emu *Emulator) install(prog *cpu.Program, source *vm.Program, build *vm.Build) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	emu.Program = prog
	emu.Vm = source
	emu.Build = build
	emu.reset()
}

// reset must be called with the lock held.
func (emu *Emulator) reset() {
	err := emu.Cpu.Rom.Load(emu.Program.Binary())
	if err != nil {
		// Programs are checked against the ROM size when built.
		panic(err)
	}

	emu.Cpu.Reset()
	emu.keyboard.Store(noKey)
	emu.pause.Store(false)
	emu.setState(STATE_STOPPED, HALT_NONE)
}

// Reset reinitializes the CPU with the loaded program.
// Breakpoints are kept.
func (emu *Emulator) Reset() {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	emu.reset()
}

func (emu *Emulator) setState(state State, reason HaltReason) {
	emu.reason.Store(int32(reason))
	emu.state.Store(int32(state))
}

// State returns the execution state.
func (emu *Emulator) State() State {
	return State(emu.state.Load())
}

// Reason returns why the emulator halted, or HALT_NONE.
func (emu *Emulator) Reason() HaltReason {
	return HaltReason(emu.reason.Load())
}

// Pause requests a running emulator to stop at the next step boundary.
func (emu *Emulator) Pause() {
	emu.pause.Store(true)
}

// SetKeyboard sets the code of the key currently pressed, 0 for none.
// While running, the code is applied between steps.
func (emu *Emulator) SetKeyboard(code uint16) {
	emu.keyboard.Store(int32(code))

	if emu.lock.TryLock() {
		emu.applyKeyboard()
		emu.lock.Unlock()
	}
}

// applyKeyboard must be called with the lock held.
func (emu *Emulator) applyKeyboard() {
	code := emu.keyboard.Swap(noKey)
	if code != noKey {
		emu.Cpu.Ram.SetKeyboard(uint16(code))
	}
}

// AddBreakpoint adds a breakpoint, if not already present.
func (emu *Emulator) AddBreakpoint(bp Breakpoint) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	if !slices.Contains(emu.breakpoints, bp) {
		emu.breakpoints = append(emu.breakpoints, bp)
	}
}

// RemoveBreakpoint removes a breakpoint, returning true if it was present.
func (emu *Emulator) RemoveBreakpoint(bp Breakpoint) (removed bool) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	index := slices.Index(emu.breakpoints, bp)
	if index < 0 {
		return
	}

	emu.breakpoints = slices.Delete(emu.breakpoints, index, index+1)
	removed = true
	return
}

// Breakpoints returns the breakpoints, in the order they were added.
func (emu *Emulator) Breakpoints() []Breakpoint {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	return slices.Clone(emu.breakpoints)
}

// step executes one instruction, and checks for a halt. With
// checkBreakpoints set, any breakpoint whose variable holds its value after
// the step halts.
func (emu *Emulator) step(checkBreakpoints bool) (reason HaltReason) {
	emu.applyKeyboard()

	if emu.Cpu.Tick() {
		reason = HALT_PROGRAM
		return
	}

	if !checkBreakpoints {
		return
	}

	for _, bp := range emu.breakpoints {
		if bp.Match(emu.Cpu) {
			if emu.Verbose {
				log.Printf("emulator: breakpoint %v at %04x", bp, emu.Cpu.Pc)
			}
			reason = HALT_BREAKPOINT
			return
		}
	}

	return
}

// Run executes at most budget steps. It returns true if the program halted,
// either by the halt convention or by a breakpoint.
//
// Breakpoints are checked after every step, except the first step of a run
// resuming from a breakpoint halt. The emulator stops early, at a step
// boundary, if paused during the run; pause requests made before the run are
// dropped.
func (emu *Emulator) Run(budget int, perf *Performance) (halted bool) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Ram.Verbose = emu.Verbose

	resume := emu.State() == STATE_HALTED && emu.Reason() == HALT_BREAKPOINT
	emu.pause.Store(false)
	emu.setState(STATE_RUNNING, HALT_NONE)

	steps := 0
	defer func() {
		if perf != nil {
			perf.record(time.Now(), steps)
		}
	}()

	for steps < budget {
		if emu.pause.Swap(false) {
			break
		}

		reason := emu.step(!resume || steps > 0)
		steps++
		if reason != HALT_NONE {
			emu.setState(STATE_HALTED, reason)
			halted = true
			return
		}
	}

	emu.applyKeyboard()
	emu.setState(STATE_STOPPED, HALT_NONE)

	return
}

// Step executes exactly one step. It returns true if the program halted.
func (emu *Emulator) Step() (halted bool) {
	return emu.Run(1, nil)
}

// Ram returns the data memory.
func (emu *Emulator) Ram() *memory.Ram {
	return emu.Cpu.Ram
}

// Rom returns the instruction memory.
func (emu *Emulator) Rom() *memory.Rom {
	return emu.Cpu.Rom
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Pc
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Listing returns the disassembly of the loaded instruction memory.
func (emu *Emulator) Listing() iter.Seq2[uint16, string] {
	return func(yield func(uint16, string) bool) {
		for pc, word := range emu.Cpu.Rom.Words() {
			if !yield(uint16(pc), cpu.Code(word).String()) {
				return
			}
		}
	}
}

// LineNo returns the source line number of the executing instruction, or 0
// if unknown.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// RunState returns the VM position of the executing instruction. It is not
// ok unless a VM program is loaded and executing one of its commands.
func (emu *Emulator) RunState() (state vm.RunState, ok bool) {
	if emu.Vm == nil || emu.Build == nil {
		return
	}

	return emu.Build.RunState(emu.Vm, emu.Cpu.Pc)
}
