// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package topology builds scheduler topologies from Starlark scripts.
//
// A script describes processes and ports with these builtins:
//
//	program(text, sep=",")          parse program text into a list of ints
//	port(*values)                   create a port, preloaded with values
//	spawn(program)                  create a process, returns its pid
//	wire(pid, input=None, output=None)
//
// Assigning a port to the global 'result' names the port whose last value
// is the answer of the topology.
//
//	prog = program("3,0,4,0,99")
//	a = port(42)
//	result = port()
//	wire(spawn(prog), a, result)
package topology

import (
	"errors"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/scheduler"
)

// RESULT_NAME is the script global naming the answer port.
const RESULT_NAME = "result"

// MaxSteps bounds the Starlark computation of a script.
var MaxSteps uint64 = 1 << 26

// Topology is a scheduler built by a script.
type Topology struct {
	*scheduler.Scheduler
	Result  io.Port             // io.PORT_NONE if the script set no result.
	Globals starlark.StringDict // Script globals after execution.
}

// builder holds the state shared by the script builtins.
type builder struct {
	sc    *scheduler.Scheduler
	vms   map[cpu.Pid]*cpu.Cpu
	ports map[io.Port]bool
}

// Load executes a topology script. src may be a string, []byte, io.Reader
// or nil, as for starlark.ExecFile; if nil the file is read from filename.
func Load(filename string, src any, verbose bool) (topo *Topology, err error) {
	sc := scheduler.New()
	sc.Verbose = verbose

	b := &builder{
		sc:    sc,
		vms:   make(map[cpu.Pid]*cpu.Cpu),
		ports: make(map[io.Port]bool),
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", filename, msg)
		},
	}
	thread.SetMaxExecutionSteps(MaxSteps)
	opts := syntax.FileOptions{
		TopLevelControl: true,
		GlobalReassign:  true,
		While:           true,
	}
	predeclared := starlark.StringDict{
		"program": starlark.NewBuiltin("program", b.program),
		"port":    starlark.NewBuiltin("port", b.port),
		"spawn":   starlark.NewBuiltin("spawn", b.spawn),
		"wire":    starlark.NewBuiltin("wire", b.wire),
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, predeclared)
	if err != nil {
		return
	}

	topo = &Topology{
		Scheduler: sc,
		Result:    io.PORT_NONE,
		Globals:   globals,
	}

	if value, ok := globals[RESULT_NAME]; ok {
		var port io.Port
		port, err = b.toPort(value)
		if err != nil {
			topo = nil
			err = errors.Join(ErrResult, err)
			return
		}
		topo.Result = port
	}

	if verbose {
		log.Printf("topology: %v: %d processes, %d ports, result %d", filename, len(b.vms), len(b.ports), topo.Result)
	}

	return
}

// Answer runs the topology and returns the last value on the result port.
func (topo *Topology) Answer() (value int64, err error) {
	if topo.Result == io.PORT_NONE {
		err = ErrNoResult
		return
	}

	err = topo.Run()
	if err != nil {
		return
	}

	value, ok := topo.Stream(topo.Result).Last()
	if !ok {
		err = ErrNoSignal
	}

	return
}

func toInt64(value starlark.Value) (out int64, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrArguments
		return
	}
	out, ok = st_int.Int64()
	if !ok {
		err = ErrArguments
	}
	return
}

func (b *builder) toPort(value starlark.Value) (port io.Port, err error) {
	if value == starlark.None {
		port = io.PORT_NONE
		return
	}

	n, err := starlark.AsInt32(value)
	if err != nil {
		return
	}
	port = io.Port(n)
	if !b.ports[port] {
		err = ErrPort
	}
	return
}

// program(text, sep=",")
func (b *builder) program(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var text string
	sep := cpu.PROGRAM_SEPARATOR
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "text", &text, "sep?", &sep)
	if err != nil {
		return
	}

	prog, err := cpu.ParseProgramString(text, sep)
	if err != nil {
		err = &ErrBuiltin{Name: fn.Name(), Err: err}
		return
	}

	elems := make([]starlark.Value, len(prog))
	for n, cell := range prog {
		elems[n] = starlark.MakeInt64(cell)
	}
	value = starlark.NewList(elems)
	return
}

// port(*values)
func (b *builder) port(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	if len(kwargs) != 0 {
		err = &ErrBuiltin{Name: fn.Name(), Err: ErrArguments}
		return
	}

	initial := make([]int64, len(args))
	for n, arg := range args {
		initial[n], err = toInt64(arg)
		if err != nil {
			err = &ErrBuiltin{Name: fn.Name(), Err: err}
			return
		}
	}

	port := b.sc.CreatePort(initial...)
	b.ports[port] = true

	value = starlark.MakeInt(int(port))
	return
}

// spawn(program)
func (b *builder) spawn(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var source starlark.Value
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &source)
	if err != nil {
		return
	}

	var memory []int64
	switch src := source.(type) {
	case starlark.String:
		memory, err = cpu.ParseProgramString(string(src), cpu.PROGRAM_SEPARATOR)
	case starlark.Iterable:
		iter := src.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			var cell int64
			cell, err = toInt64(elem)
			if err != nil {
				break
			}
			memory = append(memory, cell)
		}
		if err == nil && len(memory) == 0 {
			err = cpu.ErrProgramEmpty
		}
	default:
		err = ErrProgram
	}
	if err != nil {
		err = &ErrBuiltin{Name: fn.Name(), Err: errors.Join(ErrProgram, err)}
		return
	}

	vm := b.sc.Spawn(memory)
	b.vms[vm.Pid] = vm

	value = starlark.MakeInt(int(vm.Pid))
	return
}

// wire(pid, input=None, output=None)
func (b *builder) wire(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var pid int
	var input starlark.Value = starlark.None
	var output starlark.Value = starlark.None
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "pid", &pid, "input?", &input, "output?", &output)
	if err != nil {
		return
	}

	vm, ok := b.vms[cpu.Pid(pid)]
	if !ok {
		err = &ErrBuiltin{Name: fn.Name(), Err: ErrPid}
		return
	}

	in, err := b.toPort(input)
	if err != nil {
		err = &ErrBuiltin{Name: fn.Name(), Err: err}
		return
	}
	out, err := b.toPort(output)
	if err != nil {
		err = &ErrBuiltin{Name: fn.Name(), Err: err}
		return
	}

	b.sc.Wire(vm, in, out)

	value = starlark.None
	return
}
