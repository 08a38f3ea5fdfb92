package scheduler

import (
	"errors"
	"strings"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Configuration errors. These are raised with panic().
	ErrPid         = errors.New(f("pid unknown"))
	ErrPort        = errors.New(f("port unknown"))
	ErrUnwired     = errors.New(f("port unwired"))
	ErrNotInitial  = errors.New(f("process not initial"))
	ErrNotRunning  = errors.New(f("process not running"))
	ErrStarted     = errors.New(f("scheduler already started"))
	ErrStatusDrift = errors.New(f("blocked status mismatch"))
)

// ErrProcess locates a configuration error.
type ErrProcess struct {
	Pid cpu.Pid
	Err error
}

func (err *ErrProcess) Error() string {
	return f("pid %v: %v", int(err.Pid), err.Err)
}

func (err *ErrProcess) Unwrap() error {
	return err.Err
}

// Waiter is a process left blocked by a deadlock.
type Waiter struct {
	Pid      cpu.Pid
	Port     io.Port
	Orphaned bool // No live process writes the port.
}

// ErrDeadlock is returned by Run when no process can make progress.
type ErrDeadlock struct {
	Blocked []Waiter
}

func (err *ErrDeadlock) Error() string {
	waits := make([]string, len(err.Blocked))
	for n, w := range err.Blocked {
		if w.Orphaned {
			waits[n] = f("pid %v on orphaned port %v", int(w.Pid), int(w.Port))
		} else {
			waits[n] = f("pid %v on port %v", int(w.Pid), int(w.Port))
		}
	}
	return f("deadlock: %v", strings.Join(waits, ", "))
}

func (err *ErrDeadlock) Is(target error) (ok bool) {
	_, ok = target.(*ErrDeadlock)
	return
}
