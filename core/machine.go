package core

import (
	"github.com/CedoispirDB/BFC/program"
	"github.com/CedoispirDB/BFC/tape"
)

// Machine runs a program directly, one instruction per Step, against a tape
// it owns exclusively.
type Machine struct {
	state    coreState
	emu      instEmulator
	maxSteps uint64
	trace    bool

	done bool
	err  error
}

// Load sets the program to run and rewinds the PC to 0. The tape and its
// pointer are kept, so successive programs share one tape.
func (m *Machine) Load(p program.Program) {
	m.state.Code = p
	m.state.PC = 0
	m.state.Steps = 0
	m.done = false
	m.err = nil
}

// Step executes one instruction. It returns true once the run is over,
// together with the error that ended it, if any. Output is flushed before a
// finished run is reported.
func (m *Machine) Step() (done bool, err error) {
	if m.done {
		return true, m.err
	}

	if m.state.PC == len(m.state.Code.Insts) {
		return true, m.finish(nil)
	}

	if m.maxSteps > 0 && m.state.Steps >= m.maxSteps {
		inst := m.state.Code.Insts[m.state.PC]
		return true, m.finish(&RuntimeError{
			Kind:   StepLimit,
			Offset: inst.Offset,
			PC:     m.state.PC,
			Err:    ErrStepLimit,
		})
	}

	if m.trace {
		m.traceStep()
	}

	if err := m.emu.RunInst(&m.state); err != nil {
		return true, m.finish(err)
	}

	if m.state.PC == len(m.state.Code.Insts) {
		return true, m.finish(nil)
	}

	return false, nil
}

// Run steps until the program completes or fails.
func (m *Machine) Run() error {
	for {
		done, err := m.Step()
		if done {
			return err
		}
	}
}

func (m *Machine) finish(err error) error {
	if flushErr := m.state.Out.Flush(); flushErr != nil && err == nil {
		err = &RuntimeError{
			Kind:   OutputFailure,
			Offset: -1,
			PC:     m.state.PC,
			Err:    flushErr,
		}
	}

	m.done = true
	m.err = err

	if err != nil {
		Trace("Halt", "PC", m.state.PC, "Steps", m.state.Steps, "Error", err)
	} else {
		Trace("Completed", "Steps", m.state.Steps)
	}
	LogState(m)

	return err
}

func (m *Machine) traceStep() {
	inst := m.state.Code.Insts[m.state.PC]
	Trace("Step",
		"PC", m.state.PC,
		"Op", inst.Op.String(),
		"Offset", inst.Offset,
		"Ptr", m.state.Tape.Pointer(),
		"Cell", m.state.Tape.Read(),
	)
}

// Done reports whether the current program has finished.
func (m *Machine) Done() bool {
	return m.done
}

// Err returns the error that ended the last run, nil if it completed.
func (m *Machine) Err() error {
	return m.err
}

// Tape returns the machine's tape.
func (m *Machine) Tape() *tape.Tape {
	return m.state.Tape
}

// Program returns the loaded program.
func (m *Machine) Program() program.Program {
	return m.state.Code
}

// PC returns the index of the next instruction.
func (m *Machine) PC() int {
	return m.state.PC
}

// Steps returns the number of instructions executed since Load.
func (m *Machine) Steps() uint64 {
	return m.state.Steps
}

// ResetTape zeroes the tape and returns the pointer to the origin.
func (m *Machine) ResetTape() {
	m.state.Tape.Reset()
}
