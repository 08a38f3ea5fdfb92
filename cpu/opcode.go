package cpu

import (
	"fmt"
)

// Code is a raw instruction word.
type Code int64

// Opcode is the operation selected by the two low digits of a Code.
type Opcode int

const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JT   = Opcode(5)  // jt
	OP_JF   = Opcode(6)  // jf
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_HALT = Opcode(99) // halt
)

// Mode is a parameter addressing mode.
type Mode int

const (
	MODE_POSITION  = Mode(0) // Operand is an address to dereference.
	MODE_IMMEDIATE = Mode(1) // Operand is used literally.
)

var _opcode_info = map[Opcode](struct {
	name   string
	length int
	params int  // Parameters read as values.
	store  bool // Final parameter is a destination address.
}){
	OP_ADD:  {"add", 4, 2, true},
	OP_MUL:  {"mul", 4, 2, true},
	OP_IN:   {"in", 2, 0, true},
	OP_OUT:  {"out", 2, 1, false},
	OP_JT:   {"jt", 3, 2, false},
	OP_JF:   {"jf", 3, 2, false},
	OP_LT:   {"lt", 4, 2, true},
	OP_EQ:   {"eq", 4, 2, true},
	OP_HALT: {"halt", 1, 0, false},
}

// Opcode returns the operation of the instruction word.
func (code Code) Opcode() Opcode {
	return Opcode(code % 100)
}

// Mode returns the addressing mode of a parameter, counting from 1.
func (code Code) Mode(param int) Mode {
	div := Code(100)
	for range param - 1 {
		div *= 10
	}
	return Mode((code / div) % 10)
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() (ok bool) {
	_, ok = _opcode_info[op]
	return
}

// Length of the instruction in memory cells, including the instruction word.
// Unknown opcodes have length 1.
func (op Opcode) Length() int {
	info, ok := _opcode_info[op]
	if !ok {
		return 1
	}
	return info.length
}

func (op Opcode) String() string {
	info, ok := _opcode_info[op]
	if !ok {
		return fmt.Sprintf("op%d", int(op))
	}
	return info.name
}

func (mode Mode) String() string {
	switch mode {
	case MODE_POSITION:
		return "position"
	case MODE_IMMEDIATE:
		return "immediate"
	}
	return fmt.Sprintf("mode%d", int(mode))
}

// String renders the word as opcode and parameter modes.
func (code Code) String() (text string) {
	op := code.Opcode()
	text = op.String()
	info, ok := _opcode_info[op]
	if !ok {
		return
	}
	for n := range info.params {
		if code.Mode(n+1) == MODE_IMMEDIATE {
			text += " #"
		} else {
			text += " []"
		}
	}
	if info.store {
		text += " -> []"
	}
	return
}
