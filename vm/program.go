package vm

import (
	"errors"
	"io"
	"path"
	"sort"
	"strings"
)

// File is a single VM source file, as a range of the program's commands.
type File struct {
	Name  string // Unique name of the file.
	Start int    // Global index of the first command.
	Count int    // Number of commands.
}

// Module returns the file's base name without extension, which qualifies
// its static variables.
func (file File) Module() string {
	return strings.TrimSuffix(path.Base(file.Name), ".vm")
}

// Commands returns the file's commands out of the program's global table.
func (file File) Commands(all []Command) []Command {
	return all[file.Start : file.Start+file.Count]
}

// Program is an ordered collection of VM files. The order files are added is
// the link order.
type Program struct {
	Files     []File         // Files in link order.
	FileIndex map[string]int // Map of file names to indexes into Files.
	Commands  []Command      // Commands of all files in link order.
}

// AddFile appends a file of parsed commands to the program.
// File names, and the modules derived from them, must be unique.
func (prog *Program) AddFile(name string, cmds []Command) (err error) {
	file := File{Name: name, Start: len(prog.Commands), Count: len(cmds)}

	if !validName(file.Module()) {
		err = &ErrLoad{File: name, Err: ErrNameInvalid}
		return
	}

	if _, ok := prog.FileIndex[name]; ok {
		err = &ErrLoad{File: name, Err: ErrFileDuplicate}
		return
	}
	for _, other := range prog.Files {
		if other.Module() == file.Module() {
			err = &ErrLoad{File: name, Err: ErrFileDuplicate}
			return
		}
	}

	if prog.FileIndex == nil {
		prog.FileIndex = make(map[string]int)
	}
	prog.FileIndex[name] = len(prog.Files)
	prog.Files = append(prog.Files, file)
	prog.Commands = append(prog.Commands, cmds...)

	return
}

// Parse parses a VM file and appends it to the program.
// On error the program is unchanged.
func (prog *Program) Parse(name string, input io.Reader) (err error) {
	cmds, err := ParseCommands(input)
	if err != nil {
		var load *ErrLoad
		if errors.As(err, &load) {
			load.File = name
		}
		return
	}

	return prog.AddFile(name, cmds)
}

// File returns the file with the given name.
func (prog *Program) File(name string) (file File, ok bool) {
	index, ok := prog.FileIndex[name]
	if !ok {
		return
	}

	file = prog.Files[index]
	return
}

// Locate returns the index of the file holding a global command index, and
// the index of the command within that file.
func (prog *Program) Locate(command int) (fileIndex int, local int, ok bool) {
	if command < 0 || command >= len(prog.Commands) {
		return
	}

	// The first file that ends after the command.
	fileIndex = sort.Search(len(prog.Files), func(n int) bool {
		file := prog.Files[n]
		return file.Start+file.Count > command
	})
	if fileIndex >= len(prog.Files) {
		return
	}

	local = command - prog.Files[fileIndex].Start
	ok = true
	return
}
