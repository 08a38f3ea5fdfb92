package scheduler

import (
	"fmt"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// State is the scheduling state of a process.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_INITIAL = State(0) // initial
	STATE_RUNNING = State(1) // running
	STATE_BLOCKED = State(2) // blocked
	STATE_DEAD    = State(3) // dead
)

// Status is a process state, with the port waited on when blocked.
// Use the constructors so that Port is io.PORT_NONE unless blocked.
type Status struct {
	State State
	Port  io.Port
}

func Initial() Status {
	return Status{State: STATE_INITIAL, Port: io.PORT_NONE}
}

func Running() Status {
	return Status{State: STATE_RUNNING, Port: io.PORT_NONE}
}

func Blocked(port io.Port) Status {
	return Status{State: STATE_BLOCKED, Port: port}
}

func Dead() Status {
	return Status{State: STATE_DEAD, Port: io.PORT_NONE}
}

func (st Status) String() string {
	if st.State == STATE_BLOCKED {
		return fmt.Sprintf("%v(%d)", st.State, st.Port)
	}
	return st.State.String()
}

// Process is the scheduler bookkeeping for one processor.
type Process struct {
	Pid    cpu.Pid
	Cpu    *cpu.Cpu // Processor; the scheduler never alters its memory.
	Status Status
	Input  io.Port // io.PORT_NONE if unwired.
	Output io.Port // io.PORT_NONE if unwired.
	Err    error   // Fault that ended the process, if any.
}

func (proc *Process) String() string {
	return fmt.Sprintf("pid %d %v in %d out %d", proc.Pid, proc.Status, proc.Input, proc.Output)
}
