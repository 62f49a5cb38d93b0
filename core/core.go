// Package core is the execution engine. It walks a program's instruction
// array with an instruction pointer, resolving loops through the program's
// jump table and driving a tape and the I/O streams.
//
// A Machine runs a program directly. A Core wraps a Machine in an akita
// ticking component so that one instruction executes per simulated cycle.
package core

import (
	"github.com/CedoispirDB/BFC/program"
	"github.com/sarchlab/akita/v4/sim"
)

type Core struct {
	*sim.TickingComponent

	machine *Machine
	cycles  uint64
}

// MapProgram sets the program that the core needs to run.
func (c *Core) MapProgram(p program.Program) {
	c.machine.Load(p)
	c.cycles = 0
}

// Start schedules a tick on the next cycle. A core that already ran can be
// started again after MapProgram.
func (c *Core) Start() {
	c.TickLater()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	c.cycles++

	done, err := c.machine.Step()
	if !done {
		return true
	}

	Trace("CoreHalt",
		"Core", c.Name(),
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"Cycles", c.cycles,
		"Steps", c.machine.Steps(),
		"Error", err,
	)

	return false
}

// Machine returns the machine the core drives.
func (c *Core) Machine() *Machine {
	return c.machine
}

// Cycles returns the number of ticks since the program was mapped.
func (c *Core) Cycles() uint64 {
	return c.cycles
}

// Err returns the error that ended the run, nil if it completed.
func (c *Core) Err() error {
	return c.machine.Err()
}
