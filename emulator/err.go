package emulator

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	ErrSourceKind      = errors.New(f("source kind unknown"))
	ErrSourceEmpty     = errors.New(f("source has no files"))
	ErrSourceExtension = errors.New(f("file extension unknown"))
	ErrSourceMixed     = errors.New(f("files of different kinds"))

	ErrBreakpointSyntax = errors.New(f("breakpoint syntax invalid"))
	ErrBreakpointVar    = errors.New(f("breakpoint variable unknown"))
	ErrBreakpointValue  = errors.New(f("breakpoint value out of range"))
)

// ErrLoad indicates a program that could not be loaded.
type ErrLoad struct {
	Kind SourceKind
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Kind, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
