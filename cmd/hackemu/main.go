// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command hackemu runs Hack programs: .hack, .bin, .asm or a set of .vm
// files. With no program, it runs the keyboard demonstration.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/hack/emulator"
)

const (
	frame = time.Second / 60 // Scheduling period of a rate limited run.
	chunk = 100_000          // Steps per Run when not rate limited.
)

func main() {
	var steps int
	var rate float64
	var interactive bool
	var verbose bool
	var dump string
	var breakpoints []emulator.Breakpoint

	flag.IntVar(&steps, "n", 1_000_000, "Maximum steps to run, 0 for no limit")
	flag.Float64Var(&rate, "r", 0, "Steps per second, 0 for as fast as possible")
	flag.BoolVar(&interactive, "i", false, "Interactive mode")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&dump, "d", "0:16", "RAM to print on exit, as ADDRESS:COUNT")
	flag.Func("b", "Add a breakpoint, such as 'RAM[16]=3'", func(text string) (err error) {
		bp, err := emulator.ParseBreakpoint(text)
		if err != nil {
			return
		}
		breakpoints = append(breakpoints, bp)
		return
	})

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if flag.NArg() != 0 {
		src, err := emulator.SourceFromPath(flag.Args()...)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		err = emu.Load(src)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}

	for _, bp := range breakpoints {
		emu.AddBreakpoint(bp)
	}

	if interactive {
		err := interact(emu)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		return
	}

	// Interrupt pauses the running frame, and ends the run between frames.
	var stop atomic.Bool
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		for range interrupt {
			stop.Store(true)
			emu.Pause()
		}
	}()

	perf := &emulator.Performance{}
	perf.Restart(time.Now())
	run(emu, perf, steps, rate, &stop)

	sh := &shell{emu: emu, out: os.Stdout}
	sh.status()
	fmt.Printf("%d steps, %.0f steps/s\n", perf.TotalSteps, perf.StepsPerSecond(time.Now()))
	if len(dump) != 0 {
		err := sh.command("ram " + dump)
		if err != nil {
			log.Fatalf("%v: -d %v: %v", os.Args[0], dump, err)
		}
	}
}

// run executes the emulator until it halts, is stopped, or has run limit
// steps.
func run(emu *emulator.Emulator, perf *emulator.Performance, limit int, rate float64, stop *atomic.Bool) {
	var ticker *time.Ticker
	if rate > 0 {
		ticker = time.NewTicker(frame)
		defer ticker.Stop()
	}

	last := time.Now()
	for limit <= 0 || perf.TotalSteps < limit {
		if stop.Load() {
			return
		}

		budget := chunk
		if ticker != nil {
			now := <-ticker.C
			budget = perf.Budget(rate, now.Sub(last))
			last = now
		}
		if limit > 0 {
			budget = min(budget, limit-perf.TotalSteps)
		}

		if emu.Run(budget, perf) {
			return
		}
		if perf.LastFrameSteps < budget {
			// Paused.
			return
		}
	}
}

// isTerminal reports whether standard input and output are both terminals.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
