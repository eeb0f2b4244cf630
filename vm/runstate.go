package vm

// RunState is the VM position of an executing program.
type RunState struct {
	FileIndex    int // Index into Program.Files.
	CommandIndex int // Index of the command within its file.
}

// RunState returns the VM position of the instruction at pc.
// It is not ok for bootstrap and halt code.
func (build *Build) RunState(prog *Program, pc uint16) (state RunState, ok bool) {
	command, ok := build.Command(pc)
	if !ok {
		return
	}

	state.FileIndex, state.CommandIndex, ok = prog.Locate(command)
	return
}

// Command returns the VM command at the position.
func (state RunState) Command(prog *Program) Command {
	file := prog.Files[state.FileIndex]
	return file.Commands(prog.Commands)[state.CommandIndex]
}
