// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/ezrec/intcode/io"
)

// Pid identifies a processor within its host.
type Pid int

// Status is the result class of a single Step.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_RUNNING  = Status(0) // running
	STATUS_BLOCKED  = Status(1) // blocked
	STATUS_FINISHED = Status(2) // finished
	STATUS_ERROR    = Status(3) // error
)

// Outcome of a single Step.
type Outcome struct {
	Status Status
	Port   io.Port // Port the input instruction blocked on, for STATUS_BLOCKED.
	Err    error   // Fault, for STATUS_ERROR.
}

// Input is the answer of a Host to a read request.
type Input struct {
	Value   int64
	Blocked bool    // No value was available.
	Port    io.Port // Port that had no value, when Blocked.
}

// Host performs I/O on behalf of a processor.
type Host interface {
	// Read the next input value for the processor, or report that none is
	// available. A blocked read must have no other side effect on the caller.
	Read(pid Pid) Input
	// Write an output value from the processor.
	Write(pid Pid, value int64)
}

// Cpu is the simulation context for a single intcode processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pid    Pid     // Identifier passed to the Host.
	Memory []int64 // Program and working storage. Never resized.
	Ip     int     // Current instruction pointer.
	Ticks  int     // Instructions retired.

	Host Host // I/O provider.
}

// NewCpu creates a processor with a private copy of the memory image.
func NewCpu(pid Pid, memory []int64, host Host) (cpu *Cpu) {
	cpu = &Cpu{
		Pid:    pid,
		Memory: slices.Clone(memory),
		Host:   host,
	}

	return
}

// String returns the current processor state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %d\n", "pid", int(cpu.Pid))
	text += fmt.Sprintf("% 6s: %04d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 6s: %d\n", "ticks", cpu.Ticks)
	text += fmt.Sprintf("% 6s: %v\n", "next", cpu.Disassemble(cpu.Ip))

	return
}

// Disassemble renders the instruction at ip, with operands resolved
// against the current memory image.
func (cpu *Cpu) Disassemble(ip int) (text string) {
	if ip < 0 || ip >= len(cpu.Memory) {
		return "----"
	}

	code := Code(cpu.Memory[ip])
	op := code.Opcode()
	info, ok := _opcode_info[op]
	if !ok {
		return fmt.Sprintf(".data %d", int64(code))
	}

	words := []string{op.String()}
	for n := range info.params + btoi(info.store) {
		param := n + 1
		if ip+param >= len(cpu.Memory) {
			words = append(words, "?")
			continue
		}
		operand := cpu.Memory[ip+param]
		switch {
		case n == info.params:
			words = append(words, fmt.Sprintf("-> [%d]", operand))
		case code.Mode(param) == MODE_IMMEDIATE:
			words = append(words, fmt.Sprintf("#%d", operand))
		default:
			words = append(words, fmt.Sprintf("[%d]", operand))
		}
	}

	return strings.Join(words, " ")
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Step executes a single instruction.
//
// The instruction pointer must be inside memory; otherwise Step panics with
// an *ErrFault wrapping ErrIpRange.
func (cpu *Cpu) Step() (outcome Outcome) {
	if cpu.Ip < 0 || cpu.Ip >= len(cpu.Memory) {
		panic(&ErrFault{Pid: cpu.Pid, Ip: cpu.Ip, Err: ErrIpRange})
	}

	code := Code(cpu.Memory[cpu.Ip])
	op := code.Opcode()

	if cpu.Verbose {
		log.Printf("cpu %d: %04d %v", cpu.Pid, cpu.Ip, cpu.Disassemble(cpu.Ip))
	}

	length := op.Length()

	var err error
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b int64
		var dst int
		a, err = cpu.load(code, 1)
		if err != nil {
			break
		}
		b, err = cpu.load(code, 2)
		if err != nil {
			break
		}
		dst, err = cpu.address(3)
		if err != nil {
			break
		}
		cpu.Memory[dst] = doAlu(op, a, b)
	case OP_IN:
		var dst int
		dst, err = cpu.address(1)
		if err != nil {
			break
		}
		input := cpu.host().Read(cpu.Pid)
		if input.Blocked {
			if cpu.Verbose {
				log.Printf("cpu %d: blocked on port %d", cpu.Pid, input.Port)
			}
			// Don't advance to next IP.
			outcome = Outcome{Status: STATUS_BLOCKED, Port: input.Port}
			return
		}
		cpu.Memory[dst] = input.Value
	case OP_OUT:
		var a int64
		a, err = cpu.load(code, 1)
		if err != nil {
			break
		}
		cpu.host().Write(cpu.Pid, a)
	case OP_JT, OP_JF:
		var a, b int64
		a, err = cpu.load(code, 1)
		if err != nil {
			break
		}
		b, err = cpu.load(code, 2)
		if err != nil {
			break
		}
		if (a != 0) == (op == OP_JT) {
			length = int(b) - cpu.Ip
		}
	case OP_HALT:
		if cpu.Verbose {
			log.Printf("cpu %d: halt after %d ticks", cpu.Pid, cpu.Ticks)
		}
		outcome = Outcome{Status: STATUS_FINISHED}
		return
	default:
		err = ErrOpcode(code)
	}

	if err != nil {
		outcome = Outcome{
			Status: STATUS_ERROR,
			Err:    &ErrFault{Pid: cpu.Pid, Ip: cpu.Ip, Err: err},
		}
		return
	}

	cpu.Ip += length
	cpu.Ticks++

	return
}

func (cpu *Cpu) host() Host {
	if cpu.Host == nil {
		panic(&ErrFault{Pid: cpu.Pid, Ip: cpu.Ip, Err: ErrHostMissing})
	}
	return cpu.Host
}

// operand fetches the raw operand of a parameter of the current instruction.
func (cpu *Cpu) operand(param int) (value int64, err error) {
	index := cpu.Ip + param
	if index >= len(cpu.Memory) {
		err = ErrAddress
		return
	}

	value = cpu.Memory[index]
	return
}

// address resolves a destination parameter. Destinations are always
// addresses, whatever their mode digit says.
func (cpu *Cpu) address(param int) (addr int, err error) {
	value, err := cpu.operand(param)
	if err != nil {
		return
	}
	if value < 0 || value >= int64(len(cpu.Memory)) {
		err = ErrAddress
		return
	}

	addr = int(value)
	return
}

// load resolves a value parameter according to its addressing mode.
func (cpu *Cpu) load(code Code, param int) (value int64, err error) {
	switch code.Mode(param) {
	case MODE_POSITION:
		var addr int
		addr, err = cpu.address(param)
		if err != nil {
			return
		}
		value = cpu.Memory[addr]
	case MODE_IMMEDIATE:
		value, err = cpu.operand(param)
	default:
		err = ErrMode
	}

	return
}

// doAlu performs the arithmetic and comparison operations.
func doAlu(op Opcode, a int64, b int64) (output int64) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_MUL:
		output = a * b
	case OP_LT:
		if a < b {
			output = 1
		}
	case OP_EQ:
		if a == b {
			output = 1
		}
	}

	return
}
