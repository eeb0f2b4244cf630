package vm

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	// Load errors
	ErrCommandInvalid = errors.New(f("command invalid"))
	ErrArgumentCount  = errors.New(f("wrong number of arguments"))
	ErrSegmentInvalid = errors.New(f("segment invalid"))
	ErrIndexInvalid   = errors.New(f("index invalid"))
	ErrNameInvalid    = errors.New(f("name invalid"))
	ErrFileDuplicate  = errors.New(f("file duplicated"))

	// Link errors
	ErrFunctionDuplicate = errors.New(f("function duplicated"))
	ErrFunctionMissing   = errors.New(f("function not declared"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrLabelMissing      = errors.New(f("label not declared"))
	ErrLabelAmbiguous    = errors.New(f("label declared by more than one function"))
)

// ErrLoad indicates the location of an error parsing a VM file.
type ErrLoad struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrLoad) Error() string {
	if err.LineNo == 0 {
		return f("%v: %v", err.File, err.Err)
	}
	return f("%v: line %d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrLink indicates the command that failed to link.
type ErrLink struct {
	File    string
	Command Command
	Err     error
}

func (err *ErrLink) Error() string {
	return f("%v: line %d '%v' %v", err.File, err.Command.LineNo, err.Command.String(), err.Err)
}

func (err *ErrLink) Unwrap() error {
	return err.Err
}
