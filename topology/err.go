package topology

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrArguments = errors.New(f("bad arguments"))
	ErrPid       = errors.New(f("pid unknown"))
	ErrPort      = errors.New(f("port unknown"))
	ErrProgram   = errors.New(f("program invalid"))
	ErrResult    = errors.New(f("result is not a port"))
	ErrNoResult  = errors.New(f("no result port"))
	ErrNoSignal  = errors.New(f("result port empty"))
)

// ErrBuiltin locates an error raised by a script builtin.
type ErrBuiltin struct {
	Name string
	Err  error
}

func (err *ErrBuiltin) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrBuiltin) Unwrap() error {
	return err.Err
}
