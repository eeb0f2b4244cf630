package emulator

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/vm"
)

// SourceKind is the format of a program source.
type SourceKind int

const (
	SOURCE_BINARY = SourceKind(iota) // binary
	SOURCE_HACK                      // hack
	SOURCE_ASM                       // asm
	SOURCE_VM                        // vm
)

var sourceKindName = []string{"binary", "hack", "asm", "vm"}

func (kind SourceKind) String() string {
	if kind < 0 || int(kind) >= len(sourceKindName) {
		return "unknown"
	}
	return sourceKindName[kind]
}

// sourceExtension maps file extensions to their source kinds.
var sourceExtension = map[string]SourceKind{
	".bin":  SOURCE_BINARY,
	".hack": SOURCE_HACK,
	".asm":  SOURCE_ASM,
	".vm":   SOURCE_VM,
}

// NamedText is the text of a single named source file.
type NamedText struct {
	Name string
	Text []byte
}

// Source is a program to load.
//
// Binary, hack and assembly sources use Data. VM sources use Files, in link
// order.
type Source struct {
	Kind  SourceKind
	Data  []byte
	Files []NamedText
}

// DemoProgram is loaded by NewEmulator. It paints the screen, one word at a
// time, with the state of the keyboard.
var DemoProgram = []uint16{
	16384, 60432, 16, 58248, 17, 60040, 24576, 64528,
	12, 58114, 17, 61064, 17, 64528, 16, 65000,
	58120, 24576, 60560, 16, 62672, 4, 58115, 16384,
	60432, 16, 58248, 4, 60039,
}

// SourceFromPath reads a source from files, classified by extension.
// Only VM sources may have more than one file.
func SourceFromPath(paths ...string) (src Source, err error) {
	if len(paths) == 0 {
		err = ErrSourceEmpty
		return
	}

	for n, path := range paths {
		kind, ok := sourceExtension[strings.ToLower(filepath.Ext(path))]
		if !ok {
			err = &os.PathError{Op: "load", Path: path, Err: ErrSourceExtension}
			return
		}
		if n == 0 {
			src.Kind = kind
		} else if kind != src.Kind || kind != SOURCE_VM {
			err = &os.PathError{Op: "load", Path: path, Err: ErrSourceMixed}
			return
		}

		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return
		}

		if kind == SOURCE_VM {
			src.Files = append(src.Files, NamedText{Name: filepath.Base(path), Text: data})
		} else {
			src.Data = data
		}
	}

	return
}

// build translates a source into a program. The VM program and its build are
// nil unless the source is a VM source.
func (emu *Emulator) build(src Source) (prog *cpu.Program, source *vm.Program, build *vm.Build, err error) {
	defer func() {
		if err != nil {
			prog, source, build = nil, nil, nil
			err = &ErrLoad{Kind: src.Kind, Err: err}
		}
	}()

	switch src.Kind {
	case SOURCE_BINARY:
		prog, err = cpu.ParseBinary(src.Data)
	case SOURCE_HACK:
		prog, err = cpu.ParseHack(bytes.NewReader(src.Data))
	case SOURCE_ASM:
		asm := &cpu.Assembler{Verbose: emu.Verbose}
		for name, value := range emu.Defines {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(bytes.NewReader(src.Data))
	case SOURCE_VM:
		if len(src.Files) == 0 {
			err = ErrSourceEmpty
			return
		}
		source = &vm.Program{}
		for _, file := range src.Files {
			err = source.Parse(file.Name, bytes.NewReader(file.Text))
			if err != nil {
				return
			}
		}
		build, err = vm.Translate(source)
		if err != nil {
			return
		}
		prog = build.Program
	default:
		err = ErrSourceKind
	}

	return
}

// Load builds a program from a source and resets the emulator with it.
// On error the previously loaded program, and its state, are unchanged.
// Breakpoints are kept.
func (emu *Emulator) Load(src Source) (err error) {
	prog, source, build, err := emu.build(src)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %v program, %d words", src.Kind, prog.Len())
	}

	emu.install(prog, source, build)
	return
}
