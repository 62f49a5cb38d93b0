// Package instr defines the instruction model shared by the tokenizer, the
// bracket matcher and the execution engine.
package instr

import "fmt"

// Opcode identifies one of the eight machine instructions.
type Opcode uint8

const (
	Invalid Opcode = iota
	MoveRight
	MoveLeft
	Increment
	Decrement
	Output
	Input
	LoopStart
	LoopEnd
)

// NumOpcodes is the number of valid opcodes plus Invalid.
const NumOpcodes = int(LoopEnd) + 1

// NoPartner is the partner index of instructions that are not brackets, and
// of brackets that have not been matched yet.
const NoPartner = -1

var opcodeNames = [NumOpcodes]string{
	Invalid:   "Invalid",
	MoveRight: "MoveRight",
	MoveLeft:  "MoveLeft",
	Increment: "Increment",
	Decrement: "Decrement",
	Output:    "Output",
	Input:     "Input",
	LoopStart: "LoopStart",
	LoopEnd:   "LoopEnd",
}

// String returns the name of the opcode.
func (o Opcode) String() string {
	if int(o) < NumOpcodes {
		return opcodeNames[o]
	}

	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Valid reports whether o is one of the eight instructions.
func (o Opcode) Valid() bool {
	return o > Invalid && o <= LoopEnd
}

// IsBracket reports whether o opens or closes a loop.
func (o Opcode) IsBracket() bool {
	return o == LoopStart || o == LoopEnd
}

// Inst is one instruction of a token sequence.
type Inst struct {
	Op Opcode

	// Offset is the byte offset of the instruction in the source.
	Offset int

	// Partner is the index of the matching bracket, NoPartner otherwise.
	Partner int
}

// New creates an unmatched instruction found at the given source offset.
func New(op Opcode, offset int) Inst {
	return Inst{Op: op, Offset: offset, Partner: NoPartner}
}

func (i Inst) String() string {
	if i.Partner != NoPartner {
		return fmt.Sprintf("%s@%d->%d", i.Op, i.Offset, i.Partner)
	}

	return fmt.Sprintf("%s@%d", i.Op, i.Offset)
}
