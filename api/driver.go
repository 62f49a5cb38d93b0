// Package api defines the driver API for running programs on a simulated
// core and the Execute entry point.
package api

import (
	"bytes"
	"fmt"
	"io"

	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/program"
	"github.com/CedoispirDB/BFC/tape"
	"github.com/sarchlab/akita/v4/sim"
)

// Driver provides the interface to control a simulated core.
type Driver interface {
	// MapProgram loads a program onto the core. The tape is kept, so
	// programs mapped one after another share it.
	MapProgram(p program.Program)

	// FeedIn appends data to the input stream that the program reads from.
	FeedIn(data []byte)

	// Collect adds a sink that receives every byte the program outputs.
	Collect(w io.Writer)

	// Run runs the mapped program until it completes or fails.
	Run() error

	// Cycles returns the number of cycles the last run took.
	Cycles() uint64

	// Steps returns the number of instructions the last run executed.
	Steps() uint64

	// Tape returns the core's tape.
	Tape() *tape.Tape
}

type driverImpl struct {
	engine sim.Engine
	core   *core.Core

	input   bytes.Buffer
	outputs collector
}

// collector forwards output to every registered sink.
type collector struct {
	sinks []io.Writer
}

func (c *collector) Write(p []byte) (int, error) {
	for _, w := range c.sinks {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

func (d *driverImpl) MapProgram(p program.Program) {
	d.core.MapProgram(p)
}

func (d *driverImpl) FeedIn(data []byte) {
	d.input.Write(data)
}

func (d *driverImpl) Collect(w io.Writer) {
	d.outputs.sinks = append(d.outputs.sinks, w)
}

// Run starts the core and runs the engine until no more events are left.
func (d *driverImpl) Run() error {
	d.core.Start()

	if err := d.engine.Run(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return d.core.Err()
}

func (d *driverImpl) Cycles() uint64 {
	return d.core.Cycles()
}

func (d *driverImpl) Steps() uint64 {
	return d.core.Machine().Steps()
}

func (d *driverImpl) Tape() *tape.Tape {
	return d.core.Machine().Tape()
}
