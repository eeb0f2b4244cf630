package cpu

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrBinaryLength   = errors.New(f("binary length is not a whole number of words"))
	ErrBinaryWidth    = errors.New(f("binary word is not 16 digits"))
	ErrBinaryDigit    = errors.New(f("binary word has a non-binary digit"))
	ErrProgramTooLong = errors.New(f("program exceeds instruction memory"))

	// Assembler errors
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrLabelSyntax       = errors.New(f("label syntax"))
	ErrSymbolInvalid     = errors.New(f("symbol invalid"))
	ErrAddressMissing    = errors.New(f("address missing"))
	ErrAddressRange      = errors.New(f("address out of range"))
	ErrVariableOverflow  = errors.New(f("variable space exhausted"))
	ErrCompMissing       = errors.New(f("computation missing"))
	ErrCompInvalid       = errors.New(f("computation invalid"))
	ErrDestInvalid       = errors.New(f("destination invalid"))
	ErrJumpInvalid       = errors.New(f("jump invalid"))
	ErrInstructionSyntax = errors.New(f("instruction syntax"))
)

// ErrSyntax indicates the location of an assembly or load error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
