package vm

import (
	"fmt"
)

// CommandOp is the operation of a VM command.
type CommandOp int

const (
	OP_PUSH     = CommandOp(iota) // push
	OP_POP                        // pop
	OP_ADD                        // add
	OP_SUB                        // sub
	OP_NEG                        // neg
	OP_EQ                         // eq
	OP_GT                         // gt
	OP_LT                         // lt
	OP_AND                        // and
	OP_OR                         // or
	OP_NOT                        // not
	OP_LABEL                      // label
	OP_GOTO                       // goto
	OP_IF_GOTO                    // if-goto
	OP_FUNCTION                   // function
	OP_CALL                       // call
	OP_RETURN                     // return
)

var opName = []string{
	"push", "pop",
	"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not",
	"label", "goto", "if-goto",
	"function", "call", "return",
}

func (op CommandOp) String() string {
	if op < 0 || int(op) >= len(opName) {
		return fmt.Sprintf("CommandOp(%d)", int(op))
	}
	return opName[op]
}

// args returns the number of arguments the operation takes.
func (op CommandOp) args() int {
	switch op {
	case OP_PUSH, OP_POP, OP_FUNCTION, OP_CALL:
		return 2
	case OP_LABEL, OP_GOTO, OP_IF_GOTO:
		return 1
	}
	return 0
}

// Segment is a named view over a region of memory.
type Segment int

const (
	SEG_NONE     = Segment(iota)
	SEG_ARGUMENT // argument
	SEG_LOCAL    // local
	SEG_STATIC   // static
	SEG_CONSTANT // constant
	SEG_THIS     // this
	SEG_THAT     // that
	SEG_POINTER  // pointer
	SEG_TEMP     // temp
)

var segmentName = []string{"", "argument", "local", "static", "constant", "this", "that", "pointer", "temp"}

func (seg Segment) String() string {
	if seg < 0 || int(seg) >= len(segmentName) {
		return fmt.Sprintf("Segment(%d)", int(seg))
	}
	return segmentName[seg]
}

// Command is a single parsed VM command.
type Command struct {
	Op      CommandOp
	Segment Segment // Segment, for push and pop.
	Index   int     // Segment index, local count of a function, or argument count of a call.
	Name    string  // Label or function name.
	LineNo  int     // Source line number.
}

// String returns the canonical text of the command.
func (cmd Command) String() string {
	switch cmd.Op {
	case OP_PUSH, OP_POP:
		return fmt.Sprintf("%v %v %d", cmd.Op, cmd.Segment, cmd.Index)
	case OP_FUNCTION, OP_CALL:
		return fmt.Sprintf("%v %v %d", cmd.Op, cmd.Name, cmd.Index)
	case OP_LABEL, OP_GOTO, OP_IF_GOTO:
		return fmt.Sprintf("%v %v", cmd.Op, cmd.Name)
	}
	return cmd.Op.String()
}
