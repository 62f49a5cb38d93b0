package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/CedoispirDB/BFC/instr"
	"github.com/CedoispirDB/BFC/program"
	"github.com/CedoispirDB/BFC/tape"
)

type coreState struct {
	PC    int
	Steps uint64
	Code  program.Program

	Tape *tape.Tape
	In   io.ByteReader
	Out  Output
	EOF  EOFPolicy
}

type instFunc func(inst instr.Inst, state *coreState) error

type instEmulator struct {
	instFuncs map[instr.Opcode]instFunc
}

func newInstEmulator() instEmulator {
	i := instEmulator{}
	i.instFuncs = map[instr.Opcode]instFunc{
		instr.MoveRight: i.runMoveRight,
		instr.MoveLeft:  i.runMoveLeft,
		instr.Increment: i.runIncrement,
		instr.Decrement: i.runDecrement,
		instr.Output:    i.runOutput,
		instr.Input:     i.runInput,
		instr.LoopStart: i.runLoopStart,
		instr.LoopEnd:   i.runLoopEnd,
	}

	return i
}

// RunInst executes the instruction at state.PC and moves the PC to the next
// instruction to run. On error the PC stays on the failing instruction.
func (i instEmulator) RunInst(state *coreState) error {
	if state.PC < 0 || state.PC >= len(state.Code.Insts) {
		return &RuntimeError{
			Kind:   InternalFault,
			Offset: -1,
			PC:     state.PC,
			Err:    fmt.Errorf("%w: pc out of range [0, %d)", ErrInternalFault, len(state.Code.Insts)),
		}
	}

	inst := state.Code.Insts[state.PC]

	run, ok := i.instFuncs[inst.Op]
	if !ok {
		return i.fault(inst, state, fmt.Errorf("unknown instruction %s", inst.Op))
	}

	if err := run(inst, state); err != nil {
		return err
	}

	state.Steps++

	return nil
}

func (i instEmulator) fault(inst instr.Inst, state *coreState, err error) error {
	return &RuntimeError{
		Kind:   InternalFault,
		Offset: inst.Offset,
		PC:     state.PC,
		Err:    fmt.Errorf("%w: %v", ErrInternalFault, err),
	}
}

func (i instEmulator) runMoveRight(_ instr.Inst, state *coreState) error {
	state.Tape.MoveRight()
	state.PC++
	return nil
}

func (i instEmulator) runMoveLeft(inst instr.Inst, state *coreState) error {
	if err := state.Tape.MoveLeft(); err != nil {
		return &RuntimeError{
			Kind:   TapeUnderflow,
			Offset: inst.Offset,
			PC:     state.PC,
			Err:    err,
		}
	}

	state.PC++
	return nil
}

func (i instEmulator) runIncrement(_ instr.Inst, state *coreState) error {
	state.Tape.Increment()
	state.PC++
	return nil
}

func (i instEmulator) runDecrement(_ instr.Inst, state *coreState) error {
	state.Tape.Decrement()
	state.PC++
	return nil
}

func (i instEmulator) runOutput(inst instr.Inst, state *coreState) error {
	if err := state.Out.WriteByte(state.Tape.Read()); err != nil {
		return &RuntimeError{
			Kind:   OutputFailure,
			Offset: inst.Offset,
			PC:     state.PC,
			Err:    err,
		}
	}

	state.PC++
	return nil
}

func (i instEmulator) runInput(inst instr.Inst, state *coreState) error {
	b, err := state.In.ReadByte()

	switch {
	case errors.Is(err, io.EOF):
		i.applyEOF(state)
	case err != nil:
		return &RuntimeError{
			Kind:   InputFailure,
			Offset: inst.Offset,
			PC:     state.PC,
			Err:    err,
		}
	default:
		state.Tape.Write(int(b))
	}

	state.PC++
	return nil
}

func (i instEmulator) applyEOF(state *coreState) {
	switch state.EOF {
	case EOFUnchanged:
	case EOFMinusOne:
		state.Tape.Write(-1)
	default:
		state.Tape.Write(0)
	}
}

// runLoopStart skips past the matching LoopEnd when the current cell is 0.
func (i instEmulator) runLoopStart(inst instr.Inst, state *coreState) error {
	end, err := i.partner(inst, state, instr.LoopEnd)
	if err != nil {
		return err
	}

	if state.Tape.Read() == 0 {
		state.PC = end + 1
	} else {
		state.PC++
	}

	return nil
}

// runLoopEnd jumps back to the matching LoopStart itself while the current
// cell is nonzero, so the loop condition is evaluated again there.
func (i instEmulator) runLoopEnd(inst instr.Inst, state *coreState) error {
	start, err := i.partner(inst, state, instr.LoopStart)
	if err != nil {
		return err
	}

	if state.Tape.Read() != 0 {
		state.PC = start
	} else {
		state.PC++
	}

	return nil
}

func (i instEmulator) partner(
	inst instr.Inst,
	state *coreState,
	want instr.Opcode,
) (int, error) {
	target, ok := state.Code.Jumps.Partner(state.PC)
	if !ok {
		return 0, i.fault(inst, state, fmt.Errorf("%s at pc %d has no partner", inst.Op, state.PC))
	}

	if target < 0 || target >= len(state.Code.Insts) || target >= len(state.Code.Jumps) ||
		state.Code.Insts[target].Op != want ||
		state.Code.Jumps[target] != state.PC {
		return 0, i.fault(inst, state,
			fmt.Errorf("%s at pc %d is paired with pc %d", inst.Op, state.PC, target))
	}

	return target, nil
}
