// Package cpu implements the intcode processor.
//
// A processor owns a private memory image of 64-bit integers and an
// instruction pointer. Each call to Step executes exactly one instruction.
// Input and output instructions are delegated to a Host, which decides
// whether a value is available; when it is not, the processor reports
// STATUS_BLOCKED and leaves its state untouched so the same instruction is
// retried on the next step.
//
// Instruction words encode the opcode in the two low decimal digits and one
// addressing mode digit per parameter above them:
//
//	1002  ->  opcode 02 (mul), param 1 position, param 2 immediate
//
// Programs are exchanged as comma separated integer text, see ParseProgram.
package cpu
