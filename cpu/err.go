package cpu

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Processor faults
	ErrIpRange     = errors.New(f("ip out of range"))
	ErrHostMissing = errors.New(f("host missing"))
	ErrAddress     = errors.New(f("address out of range"))
	ErrMode        = errors.New(f("addressing mode invalid"))

	// Program text errors
	ErrProgramEmpty = errors.New(f("program empty"))
)

// ErrOpcode is returned for an instruction word with an unknown opcode.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v in word %v", int64(Code(eo).Opcode()), int64(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrFault locates a processor fault.
type ErrFault struct {
	Pid Pid
	Ip  int
	Err error
}

func (err *ErrFault) Error() string {
	return f("pid %v ip %v: %v", int(err.Pid), err.Ip, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrToken locates a bad token in program text.
type ErrToken struct {
	Index int
	Token string
	Err   error
}

func (err ErrToken) Error() string {
	return f("token %d '%v' %v", err.Index, err.Token, err.Err)
}

func (err ErrToken) Unwrap() error {
	return err.Err
}
