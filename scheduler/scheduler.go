// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package scheduler runs intcode processors cooperatively over shared streams.
//
// The Scheduler owns every process record and every stream. Processors reach
// their streams only through the Scheduler, which acts as their cpu.Host; a
// read from an empty stream marks the process blocked on that port, and any
// write to the port marks every process blocked on it running again.
//
// Run steps each running process once per pass, in pid order, until all
// processes are dead or every survivor is blocked (a deadlock).
package scheduler

import (
	"iter"
	"log"
	"slices"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Scheduler is the process and stream table.
type Scheduler struct {
	Verbose bool // If set, enables verbose logging.

	Passes int // Scheduling passes completed by Run.

	process  map[cpu.Pid]*Process
	stream   map[io.Port]*io.Stream
	order    []cpu.Pid // Pids in creation order.
	nextPid  cpu.Pid
	nextPort io.Port
	started  bool
}

var _ cpu.Host = (*Scheduler)(nil)

// New creates an empty scheduler.
func New() (sc *Scheduler) {
	sc = &Scheduler{
		process: make(map[cpu.Pid]*Process),
		stream:  make(map[io.Port]*io.Stream),
	}

	return
}

// Spawn creates a process running a private copy of memory.
func (sc *Scheduler) Spawn(memory []int64) (vm *cpu.Cpu) {
	if sc.started {
		panic(ErrStarted)
	}

	pid := sc.nextPid
	sc.nextPid++

	vm = cpu.NewCpu(pid, memory, sc)
	vm.Verbose = sc.Verbose

	sc.process[pid] = &Process{
		Pid:    pid,
		Cpu:    vm,
		Status: Initial(),
		Input:  io.PORT_NONE,
		Output: io.PORT_NONE,
	}
	sc.order = append(sc.order, pid)

	if sc.Verbose {
		log.Printf("scheduler: spawn pid %d, %d cells", pid, len(memory))
	}

	return
}

// CreatePort creates a stream preloaded with values.
func (sc *Scheduler) CreatePort(initial ...int64) (port io.Port) {
	port = sc.nextPort
	sc.nextPort++

	sc.stream[port] = io.NewStream(port, initial...)

	if sc.Verbose {
		log.Printf("scheduler: port %d, preload %v", port, initial)
	}

	return
}

// Wire assigns the input and output ports of a process. Either may be
// io.PORT_NONE; the process then faults the run if it performs that I/O.
func (sc *Scheduler) Wire(vm *cpu.Cpu, input io.Port, output io.Port) {
	proc := sc.Process(vm.Pid)
	if proc.Cpu != vm {
		panic(&ErrProcess{Pid: vm.Pid, Err: ErrPid})
	}
	if proc.Status.State != STATE_INITIAL {
		panic(&ErrProcess{Pid: vm.Pid, Err: ErrNotInitial})
	}
	for _, port := range []io.Port{input, output} {
		if port == io.PORT_NONE {
			continue
		}
		if _, ok := sc.stream[port]; !ok {
			panic(&ErrProcess{Pid: vm.Pid, Err: ErrPort})
		}
	}

	proc.Input = input
	proc.Output = output
}

// Process returns the record for a pid.
func (sc *Scheduler) Process(pid cpu.Pid) (proc *Process) {
	proc, ok := sc.process[pid]
	if !ok {
		panic(&ErrProcess{Pid: pid, Err: ErrPid})
	}

	return
}

// Processes iterates over the process records in pid order.
func (sc *Scheduler) Processes() iter.Seq[*Process] {
	return func(yield func(proc *Process) bool) {
		for _, pid := range sc.order {
			if !yield(sc.process[pid]) {
				return
			}
		}
	}
}

// Stream returns the stream backing a port.
func (sc *Scheduler) Stream(port io.Port) (stream *io.Stream) {
	stream, ok := sc.stream[port]
	if !ok {
		panic(ErrPort)
	}

	return
}

// running returns the record for a pid that Run has made running.
func (sc *Scheduler) running(pid cpu.Pid) (proc *Process) {
	proc = sc.Process(pid)
	if proc.Status.State != STATE_RUNNING {
		panic(&ErrProcess{Pid: pid, Err: ErrNotRunning})
	}

	return
}

// Read pops the next value from the input stream of a process. If the
// stream is empty the process becomes blocked on that port; this is the
// only place a process is marked blocked.
//
// The process must be running.
func (sc *Scheduler) Read(pid cpu.Pid) (in cpu.Input) {
	proc := sc.running(pid)
	if proc.Input == io.PORT_NONE {
		panic(&ErrProcess{Pid: pid, Err: ErrUnwired})
	}

	value, ok := sc.stream[proc.Input].Pop()
	if !ok {
		proc.Status = Blocked(proc.Input)
		in = cpu.Input{Blocked: true, Port: proc.Input}
		return
	}

	in.Value = value
	return
}

// Write appends a value to the output stream of a process, and wakes every
// process blocked on that port.
//
// The process must be running.
func (sc *Scheduler) Write(pid cpu.Pid, value int64) {
	proc := sc.running(pid)
	if proc.Output == io.PORT_NONE {
		panic(&ErrProcess{Pid: pid, Err: ErrUnwired})
	}

	port := proc.Output
	sc.stream[port].Push(value)

	blocked := Blocked(port)
	for waiter := range sc.Processes() {
		if waiter.Status == blocked {
			waiter.Status = Running()
			if sc.Verbose {
				log.Printf("scheduler: pid %d wakes pid %d on port %d", pid, waiter.Pid, port)
			}
		}
	}
}

// start moves every process from initial to running, and closes the
// process table.
func (sc *Scheduler) start() {
	for proc := range sc.Processes() {
		if proc.Status.State != STATE_INITIAL {
			panic(&ErrProcess{Pid: proc.Pid, Err: ErrNotInitial})
		}
	}

	sc.started = true
	for proc := range sc.Processes() {
		proc.Status = Running()
	}
}

// count returns the number of running and blocked processes.
func (sc *Scheduler) count() (running int, blocked int) {
	for proc := range sc.Processes() {
		switch proc.Status.State {
		case STATE_RUNNING:
			running++
		case STATE_BLOCKED:
			blocked++
		}
	}

	return
}

// Run executes all processes until they are dead, or until no process can
// make progress. The latter returns an *ErrDeadlock; stream contents remain
// available either way.
//
// Every process must be in the initial state.
func (sc *Scheduler) Run() (err error) {
	sc.start()

	for {
		running, blocked := sc.count()
		if running == 0 {
			if blocked != 0 {
				err = sc.deadlock()
				if sc.Verbose {
					log.Printf("scheduler: %v", err)
				}
			}
			return
		}

		// Processes woken during this pass wait for the next one.
		pass := slices.Collect(func(yield func(proc *Process) bool) {
			for proc := range sc.Processes() {
				if proc.Status.State == STATE_RUNNING && !yield(proc) {
					return
				}
			}
		})

		for _, proc := range pass {
			outcome := proc.Cpu.Step()
			switch outcome.Status {
			case cpu.STATUS_RUNNING:
				// pass
			case cpu.STATUS_BLOCKED:
				// Read already recorded the block.
				if proc.Status != Blocked(outcome.Port) {
					panic(&ErrProcess{Pid: proc.Pid, Err: ErrStatusDrift})
				}
			case cpu.STATUS_FINISHED, cpu.STATUS_ERROR:
				proc.Status = Dead()
				proc.Err = outcome.Err
				if sc.Verbose {
					log.Printf("scheduler: pid %d %v after %d ticks", proc.Pid, outcome.Status, proc.Cpu.Ticks)
					if outcome.Err != nil {
						log.Printf("scheduler: %v", outcome.Err)
					}
				}
			}
		}

		sc.Passes++
	}
}

// deadlock describes the blocked processes.
func (sc *Scheduler) deadlock() (err *ErrDeadlock) {
	writers := make(map[io.Port]bool)
	for proc := range sc.Processes() {
		if proc.Status.State != STATE_DEAD && proc.Output != io.PORT_NONE {
			writers[proc.Output] = true
		}
	}

	err = &ErrDeadlock{}
	for proc := range sc.Processes() {
		if proc.Status.State != STATE_BLOCKED {
			continue
		}
		err.Blocked = append(err.Blocked, Waiter{
			Pid:      proc.Pid,
			Port:     proc.Status.Port,
			Orphaned: !writers[proc.Status.Port],
		})
	}

	return
}
