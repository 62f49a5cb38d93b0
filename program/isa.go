// Package program turns source bytes into a validated instruction sequence.
//
// Loading happens in two stages. Tokenize scans the source and keeps only
// the eight instruction symbols, each tagged with its byte offset.
// BuildJumpTable then pairs every loop bracket with its partner in a single
// stack-driven pass. Load runs both and returns a Program that the engine
// can execute without ever recomputing a jump target.
package program

import "github.com/CedoispirDB/BFC/instr"

// ISA maps source symbols to opcodes.
type ISA struct {
	// name of the ISA.
	isaName string

	symbolToOp [256]instr.Opcode
	opToSymbol [instr.NumOpcodes]byte
}

// NewISA creates an ISA with no registered instructions.
func NewISA(name string) *ISA {
	return &ISA{isaName: name}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// registerNewInst binds a source symbol to an opcode.
func (isa *ISA) registerNewInst(symbol byte, op instr.Opcode) {
	if !op.Valid() {
		panic("cannot register invalid opcode for symbol " + string(symbol))
	}

	isa.symbolToOp[symbol] = op
	isa.opToSymbol[op] = symbol
}

// Lookup returns the opcode bound to symbol. The second result is false
// for bytes that carry no instruction.
func (isa *ISA) Lookup(symbol byte) (instr.Opcode, bool) {
	op := isa.symbolToOp[symbol]
	return op, op != instr.Invalid
}

// Symbol returns the source symbol of op, or '?' for unregistered opcodes.
func (isa *ISA) Symbol(op instr.Opcode) byte {
	if int(op) >= instr.NumOpcodes || isa.opToSymbol[op] == 0 {
		return '?'
	}

	return isa.opToSymbol[op]
}

// DefaultISA is the eight-symbol instruction set.
var DefaultISA = newDefaultISA()

func newDefaultISA() *ISA {
	isa := NewISA("BFC Tape ISA")

	isa.registerNewInst('>', instr.MoveRight)
	isa.registerNewInst('<', instr.MoveLeft)
	isa.registerNewInst('+', instr.Increment)
	isa.registerNewInst('-', instr.Decrement)
	isa.registerNewInst('.', instr.Output)
	isa.registerNewInst(',', instr.Input)
	isa.registerNewInst('[', instr.LoopStart)
	isa.registerNewInst(']', instr.LoopEnd)

	return isa
}
