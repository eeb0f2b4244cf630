// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command hackasm assembles Hack assembly into .hack files, and translates
// Hack VM files into assembly or .hack files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/vm"
)

// expandPaths replaces a directory argument with the VM files it contains.
func expandPaths(args []string) (paths []string, err error) {
	for _, arg := range args {
		var info os.FileInfo
		info, err = os.Stat(arg)
		if err != nil {
			return
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		var matches []string
		matches, err = filepath.Glob(filepath.Join(arg, "*.vm"))
		if err != nil {
			return
		}
		slices.Sort(matches)
		paths = append(paths, matches...)
	}

	return
}

// outputPath derives the default output from the first input.
func outputPath(input string, ext string) string {
	info, err := os.Stat(input)
	if err == nil && info.IsDir() {
		return filepath.Join(input, filepath.Base(filepath.Clean(input))+ext)
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func assemble(path string, defines map[string]int, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for name, value := range defines {
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(inf)
	return
}

func translate(paths []string) (build *vm.Build, err error) {
	prog := &vm.Program{}
	for _, path := range paths {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return
		}
		err = prog.Parse(filepath.Base(path), bytes.NewReader(data))
		if err != nil {
			return
		}
	}

	build, err = vm.Translate(prog)
	return
}

func main() {
	var output string
	var format string
	var verbose bool
	defines := map[string]int{}

	flag.StringVar(&output, "o", "", "Output file, '-' for stdout")
	flag.StringVar(&format, "f", "", "Output format, 'hack' or 'asm'")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "Predefine an assembly symbol, as NAME=VALUE", func(text string) (err error) {
		name, value, ok := strings.Cut(text, "=")
		if !ok {
			return fmt.Errorf("%v: expected NAME=VALUE", text)
		}
		defines[name], err = strconv.Atoi(value)
		return
	})

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: No input files", os.Args[0])
	}

	paths, err := expandPaths(flag.Args())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if len(paths) == 0 {
		log.Fatalf("%v: No VM files in %v", os.Args[0], flag.Args())
	}

	isVm := filepath.Ext(paths[0]) == ".vm"
	for _, path := range paths {
		if (filepath.Ext(path) == ".vm") != isVm {
			log.Fatalf("%v: Mixed VM and assembly inputs", path)
		}
	}
	if !isVm && len(paths) != 1 {
		log.Fatalf("%v: Only one assembly file at a time", os.Args[0])
	}

	if len(format) == 0 {
		format = "hack"
		if isVm {
			format = "asm"
		}
	}
	if format != "hack" && format != "asm" {
		log.Fatalf("%v: Unknown format %v", os.Args[0], format)
	}
	if format == "asm" && !isVm {
		log.Fatalf("%v: Assembly output needs VM input", paths[0])
	}

	var prog *cpu.Program
	var text string
	if isVm {
		build, err := translate(paths)
		if err != nil {
			log.Fatalf("%v", err)
		}
		prog, text = build.Program, build.Asm
	} else {
		prog, err = assemble(paths[0], defines, verbose)
		if err != nil {
			log.Fatalf("%v: %v", paths[0], err)
		}
	}

	if len(output) == 0 {
		output = outputPath(flag.Arg(0), "."+format)
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}

	if format == "asm" {
		_, err = io.WriteString(ouf, text)
	} else {
		err = prog.WriteHack(ouf)
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if verbose {
		log.Printf("%v: %d words", output, prog.Len())
	}
}
